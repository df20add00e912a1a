package properties

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/breez/clnconf/config"
	"github.com/breez/clnconf/fault"
	"github.com/breez/clnconf/lightning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	nodeID     = "02eec7245d6b7d2ccb30380bfbe2a3648cd7a942653f5aa340edcea1f283686619"
	torAddress = "duckduckgogg42xjoc72x3sjasowoarfbgcmvfimaftt6twagswzczad.onion"
)

var macaroon = []byte{0x02, 0x01, 0x03, 0xfb, 0xff, 0x3e, 0x00, 0x10}

func newConfig(rpc, rest bool) *config.Config {
	cfg := config.Default()
	cfg.Bitcoind.Internal = &config.InternalBackend{User: "bitcoin", Password: "hunter2"}
	cfg.RPC = config.RPCConfig{Enabled: rpc, User: "lightning", Password: "s3cret"}
	cfg.Advanced.Plugins.Rest = rest
	return cfg
}

func newFacts() *Facts {
	return &Facts{
		Node:       lightning.NodeInfo{ID: nodeID, Alias: "reported"},
		Alias:      "my-node",
		TorAddress: torAddress,
		Macaroon:   macaroon,
	}
}

func Test_Build_BasicOnly(t *testing.T) {
	doc, err := Build(newConfig(false, false), newFacts())
	require.NoError(t, err)

	assert.Equal(t, SchemaVersion, doc.Version())
	assert.Equal(t, []string{SectionBasic}, doc.Names())

	_, ok := doc.Section(SectionRPC)
	assert.False(t, ok)
	_, ok = doc.Section(SectionREST)
	assert.False(t, ok)

	node, ok := doc.Section(SectionBasic)
	require.True(t, ok)
	basic := node.(*Group)
	assert.Equal(t, []string{NodeAlias, NodeID, NodeURI}, basic.Names())

	alias, _ := doc.Leaf(SectionBasic, NodeAlias)
	assert.Equal(t, "my-node", alias.Value)
	assert.False(t, alias.Masked)
	assert.False(t, alias.QR)

	id, _ := doc.Leaf(SectionBasic, NodeID)
	assert.Equal(t, nodeID, id.Value)
	assert.False(t, id.Masked)
	assert.True(t, id.Copyable)

	uri, _ := doc.Leaf(SectionBasic, NodeURI)
	assert.Equal(t, nodeID+"@"+torAddress, uri.Value)
	assert.True(t, uri.QR)
}

func Test_Build_RPC(t *testing.T) {
	doc, err := Build(newConfig(true, false), newFacts())
	require.NoError(t, err)

	assert.Equal(t, []string{SectionBasic, SectionRPC}, doc.Names())

	node, _ := doc.Section(SectionRPC)
	assert.Equal(t, []string{QuickConnectURL, RPCUsername, RPCPassword}, node.(*Group).Names())

	qc, ok := doc.Leaf(SectionRPC, QuickConnectURL)
	require.True(t, ok)
	assert.Equal(t, "clightning-rpc://lightning:s3cret@"+torAddress+":8080", qc.Value)
	assert.True(t, qc.QR)
	assert.True(t, qc.Masked)
	assert.True(t, qc.Copyable)

	user, _ := doc.Leaf(SectionRPC, RPCUsername)
	assert.Equal(t, "lightning", user.Value)
	assert.False(t, user.QR)

	pass, _ := doc.Leaf(SectionRPC, RPCPassword)
	assert.Equal(t, "s3cret", pass.Value)
	assert.True(t, pass.Masked)
	assert.True(t, pass.Copyable)
	assert.False(t, pass.QR)
}

func Test_Build_REST(t *testing.T) {
	doc, err := Build(newConfig(false, true), newFacts())
	require.NoError(t, err)

	assert.Equal(t, []string{SectionBasic, SectionREST}, doc.Names())

	node, _ := doc.Section(SectionREST)
	assert.Equal(t, []string{RestAPIPort, RestAPIMacaroon, RestAPIMacaroonHex}, node.(*Group).Names())

	port, _ := doc.Leaf(SectionREST, RestAPIPort)
	assert.Equal(t, "3001", port.Value)
	assert.False(t, port.Masked)

	b64, _ := doc.Leaf(SectionREST, RestAPIMacaroon)
	assert.Equal(t, "AgED-_8-ABA", b64.Value)
	assert.True(t, b64.Masked)
	assert.False(t, b64.QR)

	hexMac, _ := doc.Leaf(SectionREST, RestAPIMacaroonHex)
	assert.Equal(t, hex.EncodeToString(macaroon), hexMac.Value)
	assert.True(t, hexMac.Masked)
}

func Test_Build_AllSectionsInOrder(t *testing.T) {
	doc, err := Build(newConfig(true, true), newFacts())
	require.NoError(t, err)

	assert.Equal(t, []string{SectionBasic, SectionRPC, SectionREST}, doc.Names())
}

func Test_Build_AliasFallsBackToNode(t *testing.T) {
	facts := newFacts()
	facts.Alias = ""

	doc, err := Build(newConfig(false, false), facts)
	require.NoError(t, err)

	alias, _ := doc.Leaf(SectionBasic, NodeAlias)
	assert.Equal(t, "reported", alias.Value)
}

func Test_Build_MissingFacts(t *testing.T) {
	tests := map[string]func(f *Facts){
		"node id":     func(f *Facts) { f.Node.ID = "" },
		"tor address": func(f *Facts) { f.TorAddress = "" },
		"alias":       func(f *Facts) { f.Alias, f.Node.Alias = "", "" },
		"macaroon":    func(f *Facts) { f.Macaroon = nil },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			facts := newFacts()
			mutate(facts)

			doc, err := Build(newConfig(true, true), facts)
			assert.Nil(t, doc)
			assert.True(t, fault.IsFact(err))
		})
	}
}

func Test_Build_MacaroonNotNeededWithoutREST(t *testing.T) {
	facts := newFacts()
	facts.Macaroon = nil

	_, err := Build(newConfig(true, false), facts)
	assert.NoError(t, err)
}

func Test_Build_EscapesQuickConnectCredentials(t *testing.T) {
	cfg := newConfig(true, false)
	cfg.RPC.Password = "p@ss:word"

	doc, err := Build(cfg, newFacts())
	require.NoError(t, err)

	qc, _ := doc.Leaf(SectionRPC, QuickConnectURL)
	assert.Equal(t, "clightning-rpc://lightning:p%40ss%3Aword@"+torAddress+":8080", qc.Value)
}

func Test_EncodeMacaroon(t *testing.T) {
	mac := []byte{0x00, 0xFF, 0x10}

	b64 := EncodeMacaroonBase64URL(mac)
	assert.False(t, strings.ContainsAny(b64, "+/="))
	assert.Equal(t, "AP8Q", b64)
	assert.Equal(t, "00ff10", EncodeMacaroonHex(mac))

	// 0xfb 0xff encodes to characters outside the standard alphabet.
	b64 = EncodeMacaroonBase64URL([]byte{0xfb, 0xff})
	assert.Equal(t, "-_8", b64)
}
