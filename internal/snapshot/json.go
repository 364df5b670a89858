package snapshot

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

const persistenceVersion = "1.0"

// persistenceFile represents the file structure for JSON persistence
type persistenceFile struct {
	Version string    `json:"version"`
	SavedAt time.Time `json:"saved_at"`
	Frame   *Frame    `json:"frame"`
}

// JSONStore keeps a frame in a versioned, indented JSON document.
type JSONStore struct{}

// Save persists the frame to path
func (JSONStore) Save(path string, f *Frame) error {
	data := persistenceFile{
		Version: persistenceVersion,
		SavedAt: time.Now().UTC(),
		Frame:   f,
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return writeFile(path, jsonData)
}

// Load restores a frame from path
func (JSONStore) Load(path string) (*Frame, error) {
	jsonData, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var data persistenceFile
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if data.Version != persistenceVersion {
		return nil, fmt.Errorf("unsupported snapshot version %q", data.Version)
	}
	if data.Frame == nil {
		return nil, fmt.Errorf("snapshot file %s has no frame", path)
	}
	return data.Frame, nil
}
