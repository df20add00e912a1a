// Package macaroons loads the access macaroon written by the REST plugin.
package macaroons

import (
	"fmt"
	"os"

	"github.com/breez/clnconf/fault"
	"gopkg.in/macaroon.v2"
)

// DefaultPath is where c-lightning-REST stores its access macaroon.
const DefaultPath = "/root/.lightning/public/access.macaroon"

// Load reads the macaroon at path and checks that it decodes. The raw bytes
// are returned unchanged.
func Load(path string) ([]byte, error) {
	macBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.Fact("rest macaroon", fault.IO("read", path, err))
	}
	if len(macBytes) == 0 {
		return nil, fault.Fact("rest macaroon", fmt.Errorf("%s is empty", path))
	}

	mac := &macaroon.Macaroon{}
	if err := mac.UnmarshalBinary(macBytes); err != nil {
		return nil, fault.Fact("rest macaroon", fmt.Errorf("unable to decode macaroon: %w", err))
	}
	log.Debugf("Loaded macaroon from %s, location=%q", path, mac.Location())

	return macBytes, nil
}
