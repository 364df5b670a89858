// Package snapshot holds the secondary tabular dataset the analyzer reports on.
//
// A Frame is an ordered set of named, equal-length columns, each either numeric
// or text. Frames are persisted through a Store; the concrete on-disk format
// (JSON, MessagePack, SQLite or CSV) is chosen by file extension or explicit
// format name, so consumers never depend on how a snapshot was written.
package snapshot

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/peakstats/internal/models"
)

// Kind is the value type of a column.
type Kind string

const (
	KindNumber Kind = "number"
	KindText   Kind = "text"
)

// Column is one named series of values.
type Column struct {
	Name    string    `json:"name" msgpack:"name"`
	Kind    Kind      `json:"kind" msgpack:"kind"`
	Numbers []float64 `json:"numbers,omitempty" msgpack:"numbers"`
	Texts   []string  `json:"texts,omitempty" msgpack:"texts"`
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	if c.Kind == KindNumber {
		return len(c.Numbers)
	}
	return len(c.Texts)
}

// Frame is a persisted tabular snapshot.
type Frame struct {
	ID      string    `json:"id" msgpack:"id"`
	Source  string    `json:"source" msgpack:"source"`
	SavedAt time.Time `json:"saved_at" msgpack:"saved_at"`
	Columns []Column  `json:"columns" msgpack:"columns"`
}

// Source is anything that can hand out named columns, such as a loaded table.
type Source interface {
	Names() []string
	Numeric(name string) bool
	Floats(name string) ([]float64, error)
	Strings(name string) ([]string, error)
}

// Build copies every column of src into a new Frame.
func Build(src Source, source string) (*Frame, error) {
	f := &Frame{
		ID:      uuid.NewString(),
		Source:  source,
		SavedAt: time.Now().UTC(),
	}
	for _, name := range src.Names() {
		col := Column{Name: name}
		if src.Numeric(name) {
			values, err := src.Floats(name)
			if err != nil {
				return nil, fmt.Errorf("failed to read column %s: %w", name, err)
			}
			col.Kind = KindNumber
			col.Numbers = append([]float64(nil), values...)
		} else {
			values, err := src.Strings(name)
			if err != nil {
				return nil, fmt.Errorf("failed to read column %s: %w", name, err)
			}
			col.Kind = KindText
			col.Texts = append([]string(nil), values...)
		}
		f.Columns = append(f.Columns, col)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return f, nil
}

// Validate checks that the frame is rectangular and well-typed
func (f *Frame) Validate() error {
	if f.ID == "" {
		return errors.New("snapshot ID must not be empty")
	}
	if len(f.Columns) == 0 {
		return errors.New("snapshot must have at least one column")
	}
	seen := make(map[string]bool, len(f.Columns))
	rows := f.Columns[0].Len()
	for i := range f.Columns {
		c := &f.Columns[i]
		if c.Name == "" {
			return fmt.Errorf("column %d has no name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = true
		switch c.Kind {
		case KindNumber:
			if len(c.Texts) != 0 {
				return fmt.Errorf("numeric column %q carries text values", c.Name)
			}
		case KindText:
			if len(c.Numbers) != 0 {
				return fmt.Errorf("text column %q carries numeric values", c.Name)
			}
		default:
			return fmt.Errorf("column %q has unknown kind %q", c.Name, c.Kind)
		}
		if c.Len() != rows {
			return fmt.Errorf("column %q has %d rows, expected %d", c.Name, c.Len(), rows)
		}
	}
	return nil
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.Columns))
	for i := range f.Columns {
		names[i] = f.Columns[i].Name
	}
	return names
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if len(f.Columns) == 0 {
		return 0
	}
	return f.Columns[0].Len()
}

// Column looks up a column by name.
func (f *Frame) Column(name string) (*Column, bool) {
	for i := range f.Columns {
		if f.Columns[i].Name == name {
			return &f.Columns[i], true
		}
	}
	return nil, false
}

// Numeric reports whether the named column holds numbers.
func (f *Frame) Numeric(name string) bool {
	c, ok := f.Column(name)
	return ok && c.Kind == KindNumber
}

// Floats returns a column as numbers; text cells are parsed, tolerating
// thousands separators.
func (f *Frame) Floats(name string) ([]float64, error) {
	c, ok := f.Column(name)
	if !ok {
		return nil, &models.ColumnNotFoundError{Column: name}
	}
	if c.Kind == KindNumber {
		return append([]float64(nil), c.Numbers...), nil
	}
	out := make([]float64, len(c.Texts))
	for i, s := range c.Texts {
		v, err := models.ParseNumber(s)
		if err != nil {
			return nil, &models.ParseError{Column: name, Row: i, Value: s, Err: err}
		}
		out[i] = v
	}
	return out, nil
}

// Strings returns a column as text; numbers use the shortest exact form.
func (f *Frame) Strings(name string) ([]string, error) {
	c, ok := f.Column(name)
	if !ok {
		return nil, &models.ColumnNotFoundError{Column: name}
	}
	if c.Kind == KindText {
		return append([]string(nil), c.Texts...), nil
	}
	out := make([]string, len(c.Numbers))
	for i, v := range c.Numbers {
		out[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return out, nil
}
