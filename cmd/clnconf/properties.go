package main

import (
	"encoding/json"
	"fmt"

	"github.com/breez/clnconf/alias"
	"github.com/breez/clnconf/cln"
	"github.com/breez/clnconf/config"
	"github.com/breez/clnconf/fileutil"
	"github.com/breez/clnconf/lightning"
	"github.com/breez/clnconf/macaroons"
	"github.com/breez/clnconf/properties"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"
)

const defaultPropertiesPath = "/root/.lightning/start9/stats.yaml"

var propertiesCommand = cli.Command{
	Name:  "properties",
	Usage: "Write the node's status document.",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path of the service config",
			Value: config.DefaultPath,
		},
		cli.StringFlag{
			Name:  "socket",
			Usage: "Lightning rpc socket to query getinfo on",
			Value: cln.DefaultSocketPath,
		},
		cli.StringFlag{
			Name:  "getinfo-file",
			Usage: "Read getinfo output from this file instead of the rpc socket",
		},
		cli.StringFlag{
			Name:  "macaroon",
			Usage: "REST plugin macaroon",
			Value: macaroons.DefaultPath,
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
			Name:  "format",
			Usage: "Output encoding {yaml, json}",
			Value: "yaml",
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "Where to write the document",
			Value: defaultPropertiesPath,
		},
	},
	Action: func(ctx *cli.Context) error {
		cfg, err := config.Load(ctx.String("config"))
		if err != nil {
			return err
		}

		var source lightning.InfoSource
		if path := ctx.String("getinfo-file"); path != "" {
			source = lightning.NewFileInfoSource(path)
		} else {
			client, err := cln.NewClnClient(ctx.String("socket"))
			if err != nil {
				return err
			}
			source = client
		}

		facts, err := gatherFacts(
			cfg,
			source,
			alias.NewStore(ctx.String("alias-file")),
			ctx.String("macaroon"),
			ctx.String("tor-address"),
		)
		if err != nil {
			return err
		}

		doc, err := properties.Build(cfg, facts)
		if err != nil {
			return err
		}
		data, err := encodeDocument(doc, ctx.String("format"))
		if err != nil {
			return err
		}

		out := ctx.String("out")
		if err := fileutil.WriteFile(out, data, 0o600); err != nil {
			return err
		}
		log.Infof("Wrote properties to %s", out)
		return nil
	},
}

// gatherFacts collects the runtime values the status document needs. The
// macaroon is only read when the REST plugin is enabled.
func gatherFacts(
	cfg *config.Config,
	source lightning.InfoSource,
	aliases alias.Provider,
	macaroonPath string,
	torAddress string,
) (*properties.Facts, error) {
	if err := config.ValidateTorAddress(torAddress); err != nil {
		return nil, err
	}

	info, err := source.GetInfo()
	if err != nil {
		return nil, err
	}

	nodeAlias, err := aliases.GetOrCreate(cfg.Alias)
	if err != nil {
		return nil, err
	}

	facts := &properties.Facts{
		Node:       *info,
		Alias:      nodeAlias,
		TorAddress: torAddress,
	}
	if cfg.Advanced.Plugins.Rest {
		facts.Macaroon, err = macaroons.Load(macaroonPath)
		if err != nil {
			return nil, err
		}
	}
	return facts, nil
}

func encodeDocument(doc *properties.Document, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(doc)
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
