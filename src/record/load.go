package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// list is the envelope the orchestration API wraps collections in.
type list struct {
	Items []Build `json:"items"`
}

// Load decodes build records from r. Both a bare JSON array and a List
// object with an "items" array are accepted.
func Load(r io.Reader) ([]Build, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '{' {
		var l list
		if err := json.Unmarshal(trimmed, &l); err != nil {
			return nil, fmt.Errorf("decoding build list: %w", err)
		}
		return l.Items, nil
	}

	var builds []Build
	if err := json.Unmarshal(trimmed, &builds); err != nil {
		return nil, fmt.Errorf("decoding builds: %w", err)
	}
	return builds, nil
}

// LoadFile decodes build records from path. An empty path or "-" reads
// standard input.
func LoadFile(path string) ([]Build, error) {
	if path == "" || path == "-" {
		return Load(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening records: %w", err)
	}
	defer f.Close()

	builds, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return builds, nil
}
