package snapshot

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"
)

// CSVStore keeps a frame as a plain CSV file. Column kinds are re-detected on
// load and the metadata is synthesized from the file itself.
type CSVStore struct{}

// Save persists the frame to path
func (CSVStore) Save(path string, f *Frame) error {
	cols := make([]series.Series, len(f.Columns))
	for i, c := range f.Columns {
		if c.Kind == KindNumber {
			cols[i] = series.New(c.Numbers, series.Float, c.Name)
		} else {
			cols[i] = series.New(c.Texts, series.String, c.Name)
		}
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return fmt.Errorf("failed to build dataframe: %w", df.Err)
	}

	var buf bytes.Buffer
	if err := df.WriteCSV(&buf); err != nil {
		return fmt.Errorf("failed to encode csv: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

// Load restores a frame from path
func (CSVStore) Load(path string) (*Frame, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	df := dataframe.ReadCSV(bytes.NewReader(data), dataframe.HasHeader(true), dataframe.DetectTypes(true))
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", df.Err)
	}

	f := &Frame{ID: uuid.NewString(), Source: path}
	if info, err := os.Stat(path); err == nil {
		f.SavedAt = info.ModTime().UTC()
	}
	for _, name := range df.Names() {
		s := df.Col(name)
		switch s.Type() {
		case series.Float, series.Int:
			f.Columns = append(f.Columns, Column{Name: name, Kind: KindNumber, Numbers: s.Float()})
		default:
			f.Columns = append(f.Columns, Column{Name: name, Kind: KindText, Texts: s.Records()})
		}
	}
	return f, nil
}
