package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyp3rd/ewrap"

	"github.com/rewired-gh/peakstats/internal/models"
	"github.com/rewired-gh/peakstats/internal/outdir"
)

const (
	filePermissions os.FileMode = 0o644
	dirPermissions  os.FileMode = 0o755
)

// ErrUnknownFormat is returned when no store handles the requested format.
var ErrUnknownFormat = ewrap.New("unknown snapshot format")

// Store persists frames in one on-disk format.
type Store interface {
	Save(path string, f *Frame) error
	Load(path string) (*Frame, error)
}

// ForPath returns the store for format, or for the extension of path when
// format is empty.
func ForPath(path, format string) (Store, error) {
	name := strings.ToLower(strings.TrimSpace(format))
	if name == "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch name {
	case "json":
		return JSONStore{}, nil
	case "msgpack", "mpk":
		return MsgpackStore{}, nil
	case "sqlite", "sqlite3", "db":
		return SQLiteStore{}, nil
	case "csv":
		return CSVStore{}, nil
	default:
		return nil, ewrap.Wrap(ErrUnknownFormat, name)
	}
}

// Load reads the snapshot at path.
func Load(path, format string) (*Frame, error) {
	store, err := ForPath(path, format)
	if err != nil {
		return nil, err
	}
	f, err := store.Load(path)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot %s: %w", path, err)
	}
	return f, nil
}

// Save writes f to path.
func Save(path, format string, f *Frame) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}
	store, err := ForPath(path, format)
	if err != nil {
		return err
	}
	return store.Save(path, f)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func writeFile(path string, data []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return outdir.WriteAtomic(path, data, filePermissions)
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return nil
}
