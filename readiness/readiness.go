// Package readiness waits for the daemon's control socket and publishes it
// to the shared mount points other services read it from.
package readiness

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/breez/clnconf/fault"
	"github.com/lightningnetwork/lnd/ticker"
)

// DefaultInterval is the delay between two checks for the socket.
const DefaultInterval = time.Second

// WaitForFile blocks until path exists. It checks once immediately and then
// on every tick. There is no attempt limit; bound the wait through ctx.
func WaitForFile(ctx context.Context, path string, t ticker.Ticker) error {
	t.Resume()
	defer t.Stop()

	for attempt := 1; ; attempt++ {
		_, err := os.Stat(path)
		if err == nil {
			log.Infof("Found %s after %d attempt(s)", path, attempt)
			return nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fault.IO("stat", path, err)
		}
		log.Debugf("Waiting for %s (attempt %d)", path, attempt)

		select {
		case <-t.Ticks():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// LinkInto hard links src into each of dirs under its own base name. Stale
// links from a previous run are replaced.
func LinkInto(src string, dirs []string) error {
	name := filepath.Base(src)
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fault.IO("mkdir", dir, err)
		}

		dst := filepath.Join(dir, name)
		if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fault.IO("remove", dst, err)
		}
		if err := os.Link(src, dst); err != nil {
			return fault.IO("link", dst, err)
		}
		log.Infof("Linked %s to %s", src, dst)
	}

	return nil
}
