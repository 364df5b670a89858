package snapshot

import (
	"errors"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/rewired-gh/peakstats/internal/models"
)

// fakeSource is a minimal column source.
type fakeSource struct {
	names   []string
	numbers map[string][]float64
	texts   map[string][]string
}

func (s fakeSource) Names() []string { return s.names }

func (s fakeSource) Numeric(name string) bool {
	_, ok := s.numbers[name]
	return ok
}

func (s fakeSource) Floats(name string) ([]float64, error) { return s.numbers[name], nil }

func (s fakeSource) Strings(name string) ([]string, error) { return s.texts[name], nil }

func sampleFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := Build(fakeSource{
		names: []string{"Month", "Year", "Peak", "Label"},
		numbers: map[string][]float64{
			"Year": {2021, 2021, 2022},
			"Peak": {120000, 48000.5, 51000},
		},
		texts: map[string][]string{
			"Month": {"Jan", "Feb", "Jan"},
			"Label": {"1,500", "2,000", "n/a"},
		},
	}, "Input.csv")
	assert.NoError(t, err)
	return f
}

func TestBuild(t *testing.T) {
	f := sampleFrame(t)

	assert.True(t, f.ID != "")
	assert.Equal(t, "Input.csv", f.Source)
	assert.Equal(t, []string{"Month", "Year", "Peak", "Label"}, f.Names())
	assert.Equal(t, 3, f.Len())
	assert.True(t, f.Numeric("Peak"))
	assert.False(t, f.Numeric("Month"))
}

func TestFrameColumnAccess(t *testing.T) {
	f := sampleFrame(t)

	peaks, err := f.Floats("Peak")
	assert.NoError(t, err)
	assert.Equal(t, []float64{120000, 48000.5, 51000}, peaks)

	years, err := f.Strings("Year")
	assert.NoError(t, err)
	assert.Equal(t, []string{"2021", "2021", "2022"}, years)

	_, err = f.Floats("Label")
	var pe *models.ParseError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Row)

	_, err = f.Strings("Missing")
	var cnf *models.ColumnNotFoundError
	assert.True(t, errors.As(err, &cnf))
}

func TestFrameValidate(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
	}{
		{"no id", Frame{Columns: []Column{{Name: "a", Kind: KindText, Texts: []string{"x"}}}}},
		{"no columns", Frame{ID: "id"}},
		{"ragged", Frame{ID: "id", Columns: []Column{
			{Name: "a", Kind: KindText, Texts: []string{"x", "y"}},
			{Name: "b", Kind: KindNumber, Numbers: []float64{1}},
		}}},
		{"duplicate", Frame{ID: "id", Columns: []Column{
			{Name: "a", Kind: KindText, Texts: []string{"x"}},
			{Name: "a", Kind: KindText, Texts: []string{"y"}},
		}}},
		{"unknown kind", Frame{ID: "id", Columns: []Column{{Name: "a", Kind: "date"}}}},
		{"mixed values", Frame{ID: "id", Columns: []Column{
			{Name: "a", Kind: KindNumber, Numbers: []float64{1}, Texts: []string{"x"}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.frame.Validate())
		})
	}
}
