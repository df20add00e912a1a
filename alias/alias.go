// Package alias provides the node alias used when none is configured. The
// default is generated once and kept in a file so it survives restarts.
package alias

import (
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/breez/clnconf/fault"
)

const (
	// DefaultPath is where the generated alias is kept.
	DefaultPath = "/root/.lightning/default_alias.txt"

	Prefix = "start9-"

	suffixLen = 9
	alphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Provider returns the alias to use given the configured one.
type Provider interface {
	GetOrCreate(configured string) (string, error)
}

// Store is a Provider persisting the default alias at a file path.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// GetOrCreate returns configured if set. Otherwise it returns the persisted
// default alias, generating and saving one on first use.
func (s *Store) GetOrCreate(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	data, err := os.ReadFile(s.path)
	if err == nil {
		if alias := strings.TrimSpace(string(data)); alias != "" {
			return alias, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fault.IO("read", s.path, err)
	}

	alias, err := Generate()
	if err != nil {
		return "", err
	}
	log.Infof("Generated default alias %s", alias)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return "", fault.IO("mkdir", filepath.Dir(s.path), err)
	}
	if err := os.WriteFile(s.path, []byte(alias), 0o644); err != nil {
		return "", fault.IO("write", s.path, err)
	}

	return alias, nil
}

// Generate returns a new random alias of the form start9-xxxxxxxxx.
func Generate() (string, error) {
	var b strings.Builder
	b.WriteString(Prefix)

	base := big.NewInt(int64(len(alphabet)))
	for i := 0; i < suffixLen; i++ {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[n.Int64()])
	}

	return b.String(), nil
}
