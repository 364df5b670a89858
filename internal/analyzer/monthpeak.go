package analyzer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rewired-gh/peakstats/internal/logger"
)

// MonthPeakOptions configures MonthPeakReport. Start from
// DefaultMonthPeakOptions; a zero R is honored as r = 0.
type MonthPeakOptions struct {
	PeakColumn  string
	MonthColumn string
	Bins        []float64 // nil derives edges from BinWidth
	Labels      []string  // nil uses DefaultLabels
	BinWidth    float64
	R           int
}

// DefaultMonthPeakOptions returns the standard report settings.
func DefaultMonthPeakOptions() MonthPeakOptions {
	return MonthPeakOptions{
		PeakColumn:  "Peak",
		MonthColumn: "Month",
		BinWidth:    50000,
		R:           2,
	}
}

// Pair is one (month, peak bin) observation.
type Pair struct {
	Month   string
	PeakBin string // empty when the peak fell outside every bin
}

func (p Pair) String() string {
	bin := p.PeakBin
	if bin == "" {
		bin = "NaN"
	}
	return "(" + p.Month + ", " + bin + ")"
}

// BinnedRow is one working record of the report.
type BinnedRow struct {
	Month   string
	Peak    float64
	PeakBin string
}

// MonthPeakResult holds everything MonthPeakReport computed.
type MonthPeakResult struct {
	Bins         []float64
	R            int
	UniquePairs  []Pair
	Permutations [][]Pair
	Combinations [][]Pair
	Binned       []BinnedRow
}

// MonthPeakReport bins the peak column, pairs every row's month with its bin
// and enumerates r-permutations and r-combinations of the distinct pairs.
func (a *Analyzer) MonthPeakReport(opts MonthPeakOptions) (*MonthPeakResult, error) {
	if opts.PeakColumn == "" {
		opts.PeakColumn = "Peak"
	}
	if opts.MonthColumn == "" {
		opts.MonthColumn = "Month"
	}
	if opts.BinWidth <= 0 {
		opts.BinWidth = 50000
	}
	if opts.R < 0 {
		return nil, fmt.Errorf("r must not be negative, got %d", opts.R)
	}

	months, err := a.strings(opts.MonthColumn)
	if err != nil {
		return nil, err
	}
	peaks, err := a.floats(opts.PeakColumn)
	if err != nil {
		return nil, err
	}

	bins := opts.Bins
	if bins == nil {
		bins = DefaultBins(maxOf(peaks), opts.BinWidth)
		logger.Debug("Derived %d peak bins of width %.0f", len(bins)-1, opts.BinWidth)
	}
	assigned, err := Assign(peaks, bins, opts.Labels)
	if err != nil {
		return nil, err
	}

	res := &MonthPeakResult{Bins: bins, R: opts.R, Binned: make([]BinnedRow, len(peaks))}
	seen := make(map[Pair]bool)
	for i := range peaks {
		p := Pair{Month: months[i], PeakBin: assigned[i].Label}
		res.Binned[i] = BinnedRow{Month: months[i], Peak: peaks[i], PeakBin: p.PeakBin}
		if !seen[p] {
			seen[p] = true
			res.UniquePairs = append(res.UniquePairs, p)
		}
	}
	res.Permutations = Permutations(res.UniquePairs, opts.R)
	res.Combinations = Combinations(res.UniquePairs, opts.R)

	a.lastMonthPeak = res
	if err := a.emit("month_peak_report.txt", "MONTH × PEAK BIN REPORT", 80, formatMonthPeak(res)); err != nil {
		return nil, err
	}
	return res, nil
}

func formatMonthPeak(res *MonthPeakResult) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, " Number of Unique Month-Peak pairs : %d\n", len(res.UniquePairs))
	fmt.Fprintf(&b, " r-value (order)                   : %d\n", res.R)
	fmt.Fprintln(&b, strings.Repeat("-", 80))

	fmt.Fprintln(&b, "\nUNIQUE MONTH × PEAK BIN PAIRS:")
	for i, p := range res.UniquePairs {
		fmt.Fprintf(&b, " %3d. %s\n", i+1, p)
	}

	fmt.Fprintln(&b, "\nPERMUTATIONS (ordered pairs):")
	fmt.Fprintf(&b, " Total permutations: %d\n", len(res.Permutations))
	for i, p := range res.Permutations {
		fmt.Fprintf(&b, " %3d. %s\n", i+1, tuple(p))
	}

	fmt.Fprintln(&b, "\nCOMBINATIONS (unordered pairs):")
	fmt.Fprintf(&b, " Total combinations: %d\n", len(res.Combinations))
	for i, c := range res.Combinations {
		fmt.Fprintf(&b, " %3d. %s\n", i+1, tuple(c))
	}
	return b.Bytes()
}

func tuple(ps []Pair) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
