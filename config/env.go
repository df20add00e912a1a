package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/breez/clnconf/fault"
	"github.com/lightningnetwork/lnd/tor"
)

const (
	EnvTorAddress = "TOR_ADDRESS"
	EnvHostIP     = "HOST_IP"

	// TorProxyPort is the socks port tor listens on at the host ip.
	TorProxyPort = 9050
)

// Environment holds the facts the hosting platform passes in through
// environment variables.
type Environment struct {
	// The onion host peers use to reach the node.
	TorAddress string

	// Address of the host running the tor proxy.
	HostIP net.IP
}

// NewEnvironment validates the raw environment values.
func NewEnvironment(torAddress, hostIP string) (*Environment, error) {
	if err := ValidateTorAddress(torAddress); err != nil {
		return nil, err
	}

	if hostIP == "" {
		return nil, fault.Config("", EnvHostIP, fault.ErrMissing)
	}
	ip := net.ParseIP(hostIP)
	if ip == nil {
		return nil, fault.Config("", EnvHostIP, fmt.Errorf("%q is not an ip address", hostIP))
	}

	return &Environment{
		TorAddress: torAddress,
		HostIP:     ip,
	}, nil
}

// ValidateTorAddress checks that addr is a v2 or v3 onion host.
func ValidateTorAddress(addr string) error {
	if addr == "" {
		return fault.Config("", EnvTorAddress, fault.ErrMissing)
	}
	if !tor.IsOnionHost(addr) {
		return fault.Config("", EnvTorAddress, fmt.Errorf("%q is not an onion host", addr))
	}
	return nil
}

// LoadEnvironment reads TOR_ADDRESS and HOST_IP from the process
// environment.
func LoadEnvironment() (*Environment, error) {
	return NewEnvironment(os.Getenv(EnvTorAddress), os.Getenv(EnvHostIP))
}

// TorProxy is the host:port of the tor socks proxy.
func (e *Environment) TorProxy() string {
	return net.JoinHostPort(e.HostIP.String(), strconv.Itoa(TorProxyPort))
}
