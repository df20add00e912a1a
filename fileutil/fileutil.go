// Package fileutil writes files so that readers never observe partial
// content.
package fileutil

import (
	"os"
	"path/filepath"

	"github.com/breez/clnconf/fault"
)

// WriteFile replaces path with data. The content is written to a temporary
// file in the same directory first, so a failure never leaves a partially
// written config behind.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fault.IO("mkdir", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fault.IO("create", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fault.IO("write", tmp.Name(), err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fault.IO("chmod", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fault.IO("close", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fault.IO("rename", path, err)
	}

	return nil
}
