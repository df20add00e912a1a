package lightning

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/breez/clnconf/fault"
)

type getInfoResponse struct {
	ID    string `json:"id"`
	Alias string `json:"alias"`
}

// FileInfoSource reads the JSON output of `lightning-cli getinfo` that was
// saved to a file.
type FileInfoSource struct {
	path string
}

func NewFileInfoSource(path string) *FileInfoSource {
	return &FileInfoSource{path: path}
}

func (s *FileInfoSource) GetInfo() (*NodeInfo, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fault.Fact("getinfo", fault.IO("read", s.path, err))
	}

	var resp getInfoResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fault.Fact("getinfo", fmt.Errorf("failed to parse %s: %w", s.path, err))
	}

	return NewNodeInfo(resp.ID, resp.Alias)
}
