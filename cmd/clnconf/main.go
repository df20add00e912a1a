package main

import (
	"fmt"
	"os"

	"github.com/breez/clnconf/build"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "clnconf"
	app.Version = build.Version()
	app.Usage = "Configures a Core Lightning node and reports its status"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "debuglevel",
			Usage:  "Logging level for all subsystems {trace, debug, info, warn, error, critical, off}",
			Value:  "info",
			EnvVar: "CLNCONF_DEBUGLEVEL",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		return setLogLevels(ctx.GlobalString("debuglevel"))
	}
	app.Commands = []cli.Command{
		configureCommand,
		waitReadyCommand,
		propertiesCommand,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
