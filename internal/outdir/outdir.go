// Package outdir owns the run's output directory tree ("Output/" and
// "Output/plots/"). The tree is created once by Open and every writer goes
// through the returned handle instead of creating directories on its own.
//
// Files are written atomically: data lands in a temporary sibling first and is
// renamed over the target, so an interrupted run never leaves a truncated image
// or report behind.
package outdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultDirPermissions  os.FileMode = 0o755
	defaultFilePermissions os.FileMode = 0o644
)

// Dir is a handle to an existing output tree.
type Dir struct {
	root  string
	plots string

	filePermissions os.FileMode
	dirPermissions  os.FileMode
}

// Open creates root and root/plots if absent and returns a handle to them.
// Calling Open repeatedly on the same paths is harmless.
func Open(root, plots string) (*Dir, error) {
	if root == "" {
		return nil, fmt.Errorf("output root must not be empty")
	}
	d := &Dir{
		root:            root,
		plots:           filepath.Join(root, plots),
		filePermissions: defaultFilePermissions,
		dirPermissions:  defaultDirPermissions,
	}
	for _, dir := range []string{d.root, d.plots} {
		if err := os.MkdirAll(dir, d.dirPermissions); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	return d, nil
}

// Root returns the output root directory.
func (d *Dir) Root() string { return d.root }

// Plots returns the plot directory.
func (d *Dir) Plots() string { return d.plots }

// Path resolves name under the output root.
func (d *Dir) Path(name string) string { return filepath.Join(d.root, name) }

// PlotPath resolves name under the plot directory.
func (d *Dir) PlotPath(name string) string { return filepath.Join(d.plots, name) }

// WriteFile writes data to name under the output root and returns the path.
func (d *Dir) WriteFile(name string, data []byte) (string, error) {
	path := d.Path(name)
	return path, d.write(path, data)
}

// WritePlot writes data to name under the plot directory and returns the path.
func (d *Dir) WritePlot(name string, data []byte) (string, error) {
	path := d.PlotPath(name)
	return path, d.write(path, data)
}

func (d *Dir) write(path string, data []byte) error {
	return WriteAtomic(path, data, d.filePermissions)
}

// WriteAtomic writes data to a temporary file next to path and renames it into place.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, perm); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath) // Clean up temp file on rename failure
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
