package properties

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/breez/clnconf/config"
	"github.com/breez/clnconf/fault"
	"github.com/breez/clnconf/lightning"
)

// Section names, in display order.
const (
	SectionBasic = "Basic"
	SectionRPC   = "RPC"
	SectionREST  = "REST"
)

// Member names.
const (
	NodeAlias          = "Node Alias"
	NodeID             = "Node ID"
	NodeURI            = "Node URI"
	QuickConnectURL    = "Quick Connect URL"
	RPCUsername        = "RPC Username"
	RPCPassword        = "RPC Password"
	RestAPIPort        = "Rest API Port"
	RestAPIMacaroon    = "Rest API Macaroon"
	RestAPIMacaroonHex = "Rest API Macaroon (Hex)"
)

const (
	// RPCPort is where the daemon's http rpc listens when exposed.
	RPCPort = 8080

	// RestPort is where the c-lightning-REST plugin listens.
	RestPort = 3001

	QuickConnectScheme = "clightning-rpc"
)

// Facts are the values obtained at runtime that the document is built
// from, next to the configuration.
type Facts struct {
	// Identity reported by the running node.
	Node lightning.NodeInfo

	// Alias to display. Falls back to Node.Alias when empty.
	Alias string

	// Onion host the node is reachable at.
	TorAddress string

	// Raw REST macaroon. Required when the REST plugin is enabled.
	Macaroon []byte
}

// Build assembles the status document. It fails instead of emitting a
// document with missing values.
func Build(cfg *config.Config, facts *Facts) (*Document, error) {
	if facts.Node.ID == "" {
		return nil, fault.Fact("node id", fault.ErrMissing)
	}
	if facts.TorAddress == "" {
		return nil, fault.Fact("tor address", fault.ErrMissing)
	}
	alias := facts.Alias
	if alias == "" {
		alias = facts.Node.Alias
	}
	if alias == "" {
		return nil, fault.Fact("node alias", fault.ErrMissing)
	}

	basic, err := NewGroup("",
		Entry{NodeAlias, Leaf{
			Value:       alias,
			Description: "The friendly identifier for your node",
			Copyable:    true,
		}},
		Entry{NodeID, Leaf{
			Value:       facts.Node.ID,
			Description: "The node identifier that can be used for connecting to other nodes",
			Copyable:    true,
		}},
		Entry{NodeURI, Leaf{
			Value:       facts.Node.ID + "@" + facts.TorAddress,
			Description: "Enables connecting to another remote node",
			Copyable:    true,
			QR:          true,
			Masked:      true,
		}},
	)
	if err != nil {
		return nil, err
	}
	sections := []Entry{{SectionBasic, basic}}

	if cfg.RPC.Enabled {
		rpc, err := NewGroup("",
			Entry{QuickConnectURL, Leaf{
				Value:       quickConnectURL(cfg.RPC.User, cfg.RPC.Password, facts.TorAddress),
				Description: "A convenient way to connect a wallet to a remote node",
				Copyable:    true,
				QR:          true,
				Masked:      true,
			}},
			Entry{RPCUsername, Leaf{
				Value:       cfg.RPC.User,
				Description: "Username for RPC connections",
				Copyable:    true,
				Masked:      true,
			}},
			Entry{RPCPassword, Leaf{
				Value:       cfg.RPC.Password,
				Description: "Password for RPC connections",
				Copyable:    true,
				Masked:      true,
			}},
		)
		if err != nil {
			return nil, err
		}
		sections = append(sections, Entry{SectionRPC, rpc})
	}

	if cfg.Advanced.Plugins.Rest {
		if len(facts.Macaroon) == 0 {
			return nil, fault.Fact("rest macaroon", fault.ErrMissing)
		}
		rest, err := NewGroup("",
			Entry{RestAPIPort, Leaf{
				Value:       strconv.Itoa(RestPort),
				Description: "The port your c-lightning-REST API is listening on",
				Copyable:    true,
			}},
			Entry{RestAPIMacaroon, Leaf{
				Value:       EncodeMacaroonBase64URL(facts.Macaroon),
				Description: "The macaroon that grants access to your node's REST API plugin",
				Copyable:    true,
				Masked:      true,
			}},
			Entry{RestAPIMacaroonHex, Leaf{
				Value:       EncodeMacaroonHex(facts.Macaroon),
				Description: "The macaroon that grants access to your node's REST API plugin, in hexadecimal format",
				Copyable:    true,
				Masked:      true,
			}},
		)
		if err != nil {
			return nil, err
		}
		sections = append(sections, Entry{SectionREST, rest})
	}

	doc, err := NewDocument(SchemaVersion, sections...)
	if err != nil {
		return nil, fmt.Errorf("properties: %w", err)
	}
	return doc, nil
}

// EncodeMacaroonBase64URL encodes with the url safe alphabet and no
// padding.
func EncodeMacaroonBase64URL(mac []byte) string {
	return base64.RawURLEncoding.EncodeToString(mac)
}

// EncodeMacaroonHex encodes as lowercase hex without separators.
func EncodeMacaroonHex(mac []byte) string {
	return hex.EncodeToString(mac)
}

func quickConnectURL(user, password, torAddress string) string {
	u := url.URL{
		Scheme: QuickConnectScheme,
		User:   url.UserPassword(user, password),
		Host:   net.JoinHostPort(torAddress, strconv.Itoa(RPCPort)),
	}
	return u.String()
}
