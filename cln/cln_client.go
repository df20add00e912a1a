package cln

import (
	"fmt"
	"net"
	"path/filepath"
	"sync"
	"time"

	"github.com/breez/clnconf/fault"
	"github.com/breez/clnconf/lightning"
	"github.com/niftynei/glightning/glightning"
)

// DefaultSocketPath is the daemon's json-rpc socket for mainnet.
const DefaultSocketPath = "/root/.lightning/bitcoin/lightning-rpc"

const dialTimeout = 5 * time.Second

// ClnClient queries the daemon over its json-rpc unix socket.
type ClnClient struct {
	socketPath string
	client     *glightning.Lightning
	mtx        sync.Mutex
}

func NewClnClient(socketPath string) (*ClnClient, error) {
	if _, _, err := splitSocketPath(socketPath); err != nil {
		return nil, err
	}

	return &ClnClient{
		socketPath: socketPath,
	}, nil
}

func splitSocketPath(socketPath string) (string, string, error) {
	rpcFile := filepath.Base(socketPath)
	if rpcFile == "" || rpcFile == "." || rpcFile == string(filepath.Separator) {
		return "", "", fmt.Errorf("invalid socketPath '%s'", socketPath)
	}
	lightningDir := filepath.Dir(socketPath)
	if lightningDir == "" || lightningDir == "." {
		return "", "", fmt.Errorf("invalid socketPath '%s'", socketPath)
	}

	return rpcFile, lightningDir, nil
}

func (c *ClnClient) getClient() (*glightning.Lightning, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.client != nil {
		return c.client, nil
	}

	rpcFile, lightningDir, err := splitSocketPath(c.socketPath)
	if err != nil {
		return nil, err
	}

	// glightning exits the process when the socket cannot be dialed. A
	// socket file left behind by a stopped daemon refuses connections, so
	// dial it here first instead of only checking that it exists.
	conn, err := net.DialTimeout("unix", c.socketPath, dialTimeout)
	if err != nil {
		return nil, fault.IO("dial", c.socketPath, err)
	}
	conn.Close()

	client := glightning.NewLightning()
	client.SetTimeout(60)
	client.StartUp(rpcFile, lightningDir)
	c.client = client
	return c.client, nil
}

// GetInfo calls getinfo on the daemon and validates the returned identity.
func (c *ClnClient) GetInfo() (*lightning.NodeInfo, error) {
	client, err := c.getClient()
	if err != nil {
		return nil, fault.Fact("getinfo", err)
	}

	info, err := client.GetInfo()
	if err != nil {
		log.Errorf("CLN: client.GetInfo() error: %v", err)
		return nil, fault.Fact("getinfo", fmt.Errorf("CLN: client.GetInfo() error: %w", err))
	}
	log.Debugf("CLN: getinfo id=%s alias=%q", info.Id, info.Alias)

	return lightning.NewNodeInfo(info.Id, info.Alias)
}
