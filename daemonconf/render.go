// Package daemonconf renders the lightning daemon's config file.
package daemonconf

import (
	"bytes"
	_ "embed"
	"fmt"
	"net"
	"strconv"
	"text/template"

	"github.com/breez/clnconf/backend"
	"github.com/breez/clnconf/config"
	"github.com/breez/clnconf/properties"
)

const (
	// DefaultPath is the config file lightningd reads on start.
	DefaultPath = "/root/.lightning/config"

	PeerPort  = 9735
	PluginDir = "/usr/local/libexec/c-lightning/plugins"

	// CLNRestPort is where the builtin clnrest plugin listens.
	CLNRestPort = 3010
)

//go:embed clightning.conf.tmpl
var confTemplate string

var tmpl = template.Must(template.New("config").Option("missingkey=error").Parse(confTemplate))

type templateData struct {
	Backend     *backend.ConnectionTuple
	RPC         config.RPCConfig
	RPCBind     string
	Advanced    config.AdvancedConfig
	Autoclean   config.AutocleanConfig
	Alias       string
	Color       string
	TorAddress  string
	TorProxy    string
	PeerPort    int
	RestPort    int
	CLNRestPort int
	PluginDir   string
}

// Render produces the daemon config text. The http rpc lines are only
// written when the rpc interface is exposed. Every value is checked for
// control characters first, so none can start a line of its own.
func Render(cfg *config.Config, conn *backend.ConnectionTuple, env *config.Environment, alias string) ([]byte, error) {
	for _, l := range []struct{ field, value string }{
		{"alias", alias},
		{"rpc.user", cfg.RPC.User},
		{"rpc.password", cfg.RPC.Password},
		{"bitcoind.user", conn.User},
		{"bitcoind.password", conn.Password},
		{"bitcoind.host", conn.Host},
		{config.EnvTorAddress, env.TorAddress},
	} {
		if err := config.CheckLine("", l.field, l.value); err != nil {
			return nil, err
		}
	}

	data := templateData{
		Backend:     conn,
		RPC:         cfg.RPC,
		RPCBind:     net.JoinHostPort("0.0.0.0", strconv.Itoa(properties.RPCPort)),
		Advanced:    cfg.Advanced,
		Autoclean:   cfg.Autoclean,
		Alias:       alias,
		Color:       cfg.Color,
		TorAddress:  env.TorAddress,
		TorProxy:    env.TorProxy(),
		PeerPort:    PeerPort,
		RestPort:    properties.RestPort,
		CLNRestPort: CLNRestPort,
		PluginDir:   PluginDir,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	return buf.Bytes(), nil
}
