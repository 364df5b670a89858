package snapshot

import (
	"fmt"

	"github.com/shamaton/msgpack/v2"
)

// MsgpackStore keeps a frame as a single MessagePack document.
type MsgpackStore struct{}

// Save persists the frame to path
func (MsgpackStore) Save(path string, f *Frame) error {
	data, err := msgpack.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal msgpack: %w", err)
	}
	return writeFile(path, data)
}

// Load restores a frame from path
func (MsgpackStore) Load(path string) (*Frame, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal msgpack: %w", err)
	}
	return &f, nil
}
