package analyzer

import (
	"bytes"
	"fmt"

	"github.com/aclements/go-moremath/stats"
	"github.com/olekukonko/tablewriter"
)

// Summary holds the descriptive statistics of one column.
type Summary struct {
	Column string
	N      int
	Mean   float64
	Median float64
	Std    float64 // sample standard deviation (n-1)
}

// Describe computes the summary of values.
func Describe(column string, values []float64) Summary {
	s := stats.Sample{Xs: append([]float64(nil), values...)}
	s.Sort()
	return Summary{
		Column: column,
		N:      len(values),
		Mean:   s.Mean(),
		Median: s.Quantile(0.5),
		Std:    s.StdDev(),
	}
}

// Statistics computes mean, median and standard deviation for each column and
// prints them as one table.
func (a *Analyzer) Statistics(columns ...string) (map[string]Summary, error) {
	results := make(map[string]Summary, len(columns))
	ordered := make([]Summary, 0, len(columns))
	for _, col := range columns {
		values, err := a.floats(col)
		if err != nil {
			return nil, err
		}
		s := Describe(col, values)
		results[col] = s
		ordered = append(ordered, s)
	}

	var body bytes.Buffer
	table := tablewriter.NewWriter(&body)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Column", "Mean", "Median", "Std Dev"})
	for _, s := range ordered {
		table.Append([]string{
			s.Column,
			fmt.Sprintf("%.2f", s.Mean),
			fmt.Sprintf("%.2f", s.Median),
			fmt.Sprintf("%.2f", s.Std),
		})
	}
	table.Render()

	a.lastStats = ordered
	if err := a.emit("statistics.txt", "SUMMARY STATISTICS", 60, body.Bytes()); err != nil {
		return nil, err
	}
	return results, nil
}
