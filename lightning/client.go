package lightning

import (
	"encoding/hex"
	"fmt"

	"github.com/breez/clnconf/fault"
	"github.com/btcsuite/btcd/btcec/v2"
)

// NodeInfo is the identity the running node reports about itself.
type NodeInfo struct {
	// Hex encoded compressed public key of the node.
	ID string

	Alias string
}

// InfoSource obtains the node's identity.
type InfoSource interface {
	GetInfo() (*NodeInfo, error)
}

// NewNodeInfo validates the raw getinfo values. The id must be a hex encoded
// compressed secp256k1 public key.
func NewNodeInfo(id, alias string) (*NodeInfo, error) {
	if id == "" {
		return nil, fault.Fact("node id", fault.ErrMissing)
	}

	raw, err := hex.DecodeString(id)
	if err != nil {
		return nil, fault.Fact("node id", fmt.Errorf("failed to decode %q: %w", id, err))
	}
	if len(raw) != btcec.PubKeyBytesLenCompressed {
		return nil, fault.Fact("node id", fmt.Errorf("expected %d bytes, got %d", btcec.PubKeyBytesLenCompressed, len(raw)))
	}
	pubkey, err := btcec.ParsePubKey(raw)
	if err != nil {
		return nil, fault.Fact("node id", fmt.Errorf("invalid public key: %w", err))
	}

	return &NodeInfo{
		ID:    hex.EncodeToString(pubkey.SerializeCompressed()),
		Alias: alias,
	}, nil
}
