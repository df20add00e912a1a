package main

import (
	"github.com/breez/clnconf/alias"
	"github.com/breez/clnconf/backend"
	"github.com/breez/clnconf/config"
	"github.com/breez/clnconf/daemonconf"
	"github.com/breez/clnconf/fileutil"
	"github.com/urfave/cli"
)

var configureCommand = cli.Command{
	Name:  "configure",
	Usage: "Render the lightningd config from the service config.",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path of the service config",
			Value: config.DefaultPath,
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "Where to write the lightningd config",
			Value: daemonconf.DefaultPath,
		},
		cli.StringFlag{
			Name:  "alias-file",
			Usage: "File holding the generated default alias",
			Value: alias.DefaultPath,
		},
		cli.StringFlag{
			Name:   "tor-address",
			Usage:  "Onion host the node announces",
			EnvVar: config.EnvTorAddress,
		},
		cli.StringFlag{
			Name:   "host-ip",
			Usage:  "Address of the host running the tor proxy",
			EnvVar: config.EnvHostIP,
		},
	},
	Action: func(ctx *cli.Context) error {
		env, err := config.NewEnvironment(ctx.String("tor-address"), ctx.String("host-ip"))
		if err != nil {
			return err
		}
		return configure(
			ctx.String("config"),
			ctx.String("out"),
			env,
			alias.NewStore(ctx.String("alias-file")),
		)
	},
}

// configure renders the daemon config for the service config at configPath
// and writes it to outPath. Nothing is written when any step fails.
func configure(configPath, outPath string, env *config.Environment, aliases alias.Provider) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	conn, err := backend.Resolve(&cfg.Bitcoind)
	if err != nil {
		return err
	}
	log.Infof("Using %s bitcoind backend at %s", cfg.Bitcoind.Kind(), conn.HostPort())

	nodeAlias, err := aliases.GetOrCreate(cfg.Alias)
	if err != nil {
		return err
	}

	data, err := daemonconf.Render(cfg, conn, env, nodeAlias)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFile(outPath, data, 0o600); err != nil {
		return err
	}

	log.Infof("Wrote lightningd config to %s", outPath)
	return nil
}
