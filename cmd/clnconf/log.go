package main

import (
	"fmt"
	"os"

	"github.com/breez/clnconf/alias"
	"github.com/breez/clnconf/cln"
	"github.com/breez/clnconf/macaroons"
	"github.com/breez/clnconf/readiness"
	"github.com/btcsuite/btclog"
)

var (
	logBackend = btclog.NewBackend(os.Stdout)

	log = logBackend.Logger("CONF")

	subsystemLoggers = map[string]btclog.Logger{
		"CONF": log,
	}
)

func init() {
	addSubLogger(alias.Subsystem, alias.UseLogger)
	addSubLogger(cln.Subsystem, cln.UseLogger)
	addSubLogger(macaroons.Subsystem, macaroons.UseLogger)
	addSubLogger(readiness.Subsystem, readiness.UseLogger)
}

func addSubLogger(subsystem string, useLogger func(btclog.Logger)) {
	logger := logBackend.Logger(subsystem)
	useLogger(logger)
	subsystemLoggers[subsystem] = logger
}

// setLogLevels applies level to every registered subsystem.
func setLogLevels(level string) error {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("invalid debuglevel %q", level)
	}
	for _, logger := range subsystemLoggers {
		logger.SetLevel(lvl)
	}
	return nil
}
