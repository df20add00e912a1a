package config

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode"

	"github.com/breez/clnconf/fault"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the hosting platform drops the configuration
// document.
const DefaultPath = "/root/.lightning/start9/config.yaml"

type Config struct {
	// Alias announced by the node. If empty, a generated default alias is
	// used instead.
	Alias string `yaml:"alias,omitempty"`

	// Node color as six hex digits.
	Color string `yaml:"color"`

	// Connection to the bitcoin backend.
	Bitcoind BackendConfig `yaml:"bitcoind"`

	// Exposure of the daemon's rpc interface.
	RPC RPCConfig `yaml:"rpc"`

	Autoclean AutocleanConfig `yaml:"autoclean"`

	Advanced AdvancedConfig `yaml:"advanced"`
}

// AutocleanConfig controls how the daemon prunes old records. Ages are in
// seconds and zero keeps records forever.
type AutocleanConfig struct {
	// Seconds between two cleanup passes.
	Cycle uint64 `yaml:"autoclean-cycle"`

	SucceededForwardsAge uint64 `yaml:"autoclean-succeededforwards-age"`
	FailedForwardsAge    uint64 `yaml:"autoclean-failedforwards-age"`
	SucceededPaysAge     uint64 `yaml:"autoclean-succeededpays-age"`
	FailedPaysAge        uint64 `yaml:"autoclean-failedpays-age"`
	PaidInvoicesAge      uint64 `yaml:"autoclean-paidinvoices-age"`
	ExpiredInvoicesAge   uint64 `yaml:"autoclean-expiredinvoices-age"`
}

type RPCConfig struct {
	// Value indicating whether the rpc interface is reachable from outside
	// the container. When false the quick connect properties are omitted.
	Enabled  bool   `yaml:"enabled"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type AdvancedConfig struct {
	// Route all traffic through tor.
	TorOnly bool `yaml:"tor-only"`

	// Base routing fee in millisatoshi.
	FeeBase uint64 `yaml:"fee-base"`

	// Proportional routing fee in parts per million.
	FeeRate uint64 `yaml:"fee-rate"`

	// Smallest channel accepted, in satoshi.
	MinCapacity uint64 `yaml:"min-capacity"`

	IgnoreFeeLimits bool   `yaml:"ignore-fee-limits"`
	FundingConfirms uint32 `yaml:"funding-confirms"`
	CltvDelta       uint32 `yaml:"cltv-delta"`

	// Optional htlc bounds. Not written to the daemon config when nil.
	HtlcMinimumMsat *uint64 `yaml:"htlc-minimum-msat"`
	HtlcMaximumMsat *uint64 `yaml:"htlc-maximum-msat"`

	// Allow channels above the legacy size limit.
	WumboChannels bool `yaml:"wumbo-channels"`

	Plugins PluginsConfig `yaml:"plugins"`
}

type PluginsConfig struct {
	// The c-lightning-REST plugin. Enables the REST properties section.
	Rest bool `yaml:"rest"`

	// The daemon's builtin clnrest plugin, served on its own port.
	CLNRest bool `yaml:"clnrest"`
	Sling   bool `yaml:"sling"`
	Clboss  bool `yaml:"clboss"`
}

// Default returns a config with every optional value set. The bitcoind
// section has no default and must always be supplied.
func Default() *Config {
	return &Config{
		Color: "ffffff",
		Autoclean: AutocleanConfig{
			Cycle: 3600,
		},
		Advanced: AdvancedConfig{
			FeeBase:         1000,
			FeeRate:         10,
			MinCapacity:     10000,
			FundingConfirms: 3,
			CltvDelta:       40,
		},
	}
}

// ErrControlCharacter is wrapped when a value holds a character that would
// break out of its line in the daemon config.
var ErrControlCharacter = errors.New("control characters are not allowed")

// CheckLine fails with a ConfigError when value contains a control
// character such as a line break.
func CheckLine(variant, field, value string) error {
	for _, r := range value {
		if unicode.IsControl(r) {
			return fault.Config(variant, field, ErrControlCharacter)
		}
	}
	return nil
}

// Load reads and parses the configuration document at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.IO("read", path, err)
	}

	return Parse(data)
}

// Parse decodes a configuration document. Unknown keys, a second YAML
// document or a missing bitcoind variant are configuration errors.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fault.Config("", "document", fault.ErrMissing)
		}
		var cfgErr *fault.ConfigError
		if errors.As(err, &cfgErr) {
			return nil, err
		}
		return nil, fault.Config("", "document", err)
	}

	var extra interface{}
	if err := dec.Decode(&extra); err == nil {
		return nil, fault.Config("", "document", errors.New("multiple YAML documents are not allowed"))
	} else if !errors.Is(err, io.EOF) {
		return nil, fault.Config("", "document", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the cross-field rules decoding alone cannot express.
func (c *Config) Validate() error {
	if c.Bitcoind.Kind() == "" {
		return fault.Config("", "bitcoind", fault.ErrMissing)
	}

	if c.RPC.Enabled {
		if c.RPC.User == "" {
			return fault.Config("", "rpc.user", fault.ErrMissing)
		}
		if c.RPC.Password == "" {
			return fault.Config("", "rpc.password", fault.ErrMissing)
		}
	}

	if err := c.checkLines(); err != nil {
		return err
	}

	rgb, err := hex.DecodeString(c.Color)
	if err != nil || len(rgb) != 3 {
		return fault.Config("", "color", fmt.Errorf("invalid color %q, expected six hex digits", c.Color))
	}

	a := c.Advanced
	if a.HtlcMinimumMsat != nil && a.HtlcMaximumMsat != nil &&
		*a.HtlcMinimumMsat > *a.HtlcMaximumMsat {
		return fault.Config("", "advanced.htlc-minimum-msat", errors.New("greater than htlc-maximum-msat"))
	}

	return nil
}

func (c *Config) checkLines() error {
	type line struct {
		variant, field, value string
	}
	lines := []line{
		{"", "alias", c.Alias},
		{"", "rpc.user", c.RPC.User},
		{"", "rpc.password", c.RPC.Password},
	}

	b := c.Bitcoind
	switch {
	case b.Internal != nil:
		lines = append(lines,
			line{string(BackendInternal), "user", b.Internal.User},
			line{string(BackendInternal), "password", b.Internal.Password},
		)
	case b.External != nil:
		lines = append(lines,
			line{string(BackendExternal), "address", b.External.Address},
			line{string(BackendExternal), "user", b.External.User},
			line{string(BackendExternal), "password", b.External.Password},
		)
	case b.QuickConnect != nil:
		lines = append(lines, line{string(BackendQuickConnect), "quick-connect-url", b.QuickConnect.URL})
	}

	for _, l := range lines {
		if err := CheckLine(l.variant, l.field, l.value); err != nil {
			return err
		}
	}
	return nil
}
