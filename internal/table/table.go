// Package table loads the monthly peak-player CSV into an in-memory DataFrame,
// normalizes it, and answers simple equality queries against it.
//
// Normalization trims header whitespace, strips thousands separators from the
// numeric columns, derives the MonthYear label and Month_num sort key, and sorts
// rows chronologically. A Table is never mutated after Load; filters return new
// Tables sharing nothing with the source.
package table

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/rewired-gh/peakstats/internal/models"
)

// Table is the normalized, chronologically sorted dataset.
type Table struct {
	source string
	df     dataframe.DataFrame
}

// Load reads and normalizes the CSV at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.source = path
	return t, nil
}

// Read normalizes CSV data from r. Every column is read as text first so that
// values like "12,345" survive until the numeric columns are coerced.
func Read(r io.Reader) (*Table, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", df.Err)
	}

	for _, name := range df.Names() {
		if trimmed := strings.TrimSpace(name); trimmed != name {
			df = df.Rename(trimmed, name)
		}
	}
	if df.Err != nil {
		return nil, fmt.Errorf("failed to clean column names: %w", df.Err)
	}

	if err := models.CheckColumns(df.Names(), models.RequiredColumns...); err != nil {
		return nil, err
	}

	for _, col := range []string{models.ColPeak, models.ColGain, models.ColGainPct} {
		values, err := parseFloats(col, df.Col(col).Records())
		if err != nil {
			return nil, err
		}
		df = df.Mutate(series.New(values, series.Float, col))
	}

	years, err := parseInts(models.ColYear, df.Col(models.ColYear).Records())
	if err != nil {
		return nil, err
	}
	df = df.Mutate(series.New(years, series.Int, models.ColYear))

	months := df.Col(models.ColMonth).Records()
	labels := make([]string, len(months))
	nums := make([]int, len(months))
	for i, m := range months {
		m = strings.TrimSpace(m)
		n, ok := models.MonthNumber(m)
		if !ok {
			return nil, &models.ParseError{Column: models.ColMonth, Row: i, Value: m}
		}
		months[i] = m
		nums[i] = n
		labels[i] = models.MonthYear(m, years[i])
	}
	df = df.Mutate(series.New(months, series.String, models.ColMonth))
	df = df.Mutate(series.New(labels, series.String, models.ColMonthYear))
	df = df.Mutate(series.New(nums, series.Int, models.ColMonthNum))

	df = df.Arrange(dataframe.Sort(models.ColYear), dataframe.Sort(models.ColMonthNum))
	if df.Err != nil {
		return nil, fmt.Errorf("failed to normalize table: %w", df.Err)
	}

	return &Table{df: df}, nil
}

func parseFloats(col string, raw []string) ([]float64, error) {
	out := make([]float64, len(raw))
	for i, s := range raw {
		v, err := models.ParseNumber(s)
		if err != nil {
			return nil, &models.ParseError{Column: col, Row: i, Value: s, Err: err}
		}
		out[i] = v
	}
	return out, nil
}

func parseInts(col string, raw []string) ([]int, error) {
	out := make([]int, len(raw))
	for i, s := range raw {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, &models.ParseError{Column: col, Row: i, Value: s, Err: err}
		}
		out[i] = v
	}
	return out, nil
}

// Source returns the path the table was loaded from, if any.
func (t *Table) Source() string { return t.source }

// Len returns the number of rows.
func (t *Table) Len() int { return t.df.Nrow() }

// Names returns the column names in file order, derived columns last.
func (t *Table) Names() []string { return t.df.Names() }

// Numeric reports whether the named column holds numbers.
func (t *Table) Numeric(name string) bool {
	if !models.HasColumn(t.df.Names(), name) {
		return false
	}
	switch t.df.Col(name).Type() {
	case series.Float, series.Int:
		return true
	default:
		return false
	}
}

// Floats returns a column as numbers. Text columns are parsed cell by cell.
func (t *Table) Floats(name string) ([]float64, error) {
	if !models.HasColumn(t.df.Names(), name) {
		return nil, &models.ColumnNotFoundError{Column: name}
	}
	if t.Numeric(name) {
		return t.df.Col(name).Float(), nil
	}
	return parseFloats(name, t.df.Col(name).Records())
}

// Strings returns a column as text.
func (t *Table) Strings(name string) ([]string, error) {
	if !models.HasColumn(t.df.Names(), name) {
		return nil, &models.ColumnNotFoundError{Column: name}
	}
	return t.df.Col(name).Records(), nil
}

// Rows materializes the table as typed rows with a dense 0-based index.
func (t *Table) Rows() []models.Row {
	n := t.df.Nrow()
	if n == 0 {
		return nil
	}
	months := t.df.Col(models.ColMonth).Records()
	labels := t.df.Col(models.ColMonthYear).Records()
	peaks := t.df.Col(models.ColPeak).Float()
	gains := t.df.Col(models.ColGain).Float()
	pcts := t.df.Col(models.ColGainPct).Float()
	// Year and Month_num were written as Int series during Read.
	years, _ := t.df.Col(models.ColYear).Int()
	nums, _ := t.df.Col(models.ColMonthNum).Int()

	rows := make([]models.Row, n)
	for i := 0; i < n; i++ {
		rows[i] = models.Row{
			Index:     i,
			Month:     months[i],
			Year:      years[i],
			Peak:      peaks[i],
			Gain:      gains[i],
			GainPct:   pcts[i],
			MonthYear: labels[i],
			MonthNum:  nums[i],
		}
	}
	return rows
}

// DataFrame returns a copy of the underlying frame.
func (t *Table) DataFrame() dataframe.DataFrame { return t.df.Copy() }
