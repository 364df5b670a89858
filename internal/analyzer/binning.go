package analyzer

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ErrInvalidBins is returned for bin edges that are not strictly ascending or
// labels that do not match the number of intervals.
var ErrInvalidBins = errors.New("invalid bins")

// Bin is the interval a value fell into. Index is -1 when the value lies
// outside every interval.
type Bin struct {
	Index int
	Label string
}

// InRange reports whether the value was assigned an interval.
func (b Bin) InRange() bool { return b.Index >= 0 }

// DefaultLabels returns "{lower}-{upper-1}" for each interval of bins.
func DefaultLabels(bins []float64) []string {
	if len(bins) < 2 {
		return nil
	}
	labels := make([]string, len(bins)-1)
	for i := range labels {
		lower := int64(bins[i])
		upper := int64(bins[i+1] - 1)
		labels[i] = strconv.FormatInt(lower, 10) + "-" + strconv.FormatInt(upper, 10)
	}
	return labels
}

// DefaultBins returns edges 0, width, 2*width, ... ending at the first edge
// strictly above top.
func DefaultBins(top, width float64) []float64 {
	if width <= 0 || math.IsNaN(top) || top < 0 {
		return []float64{0, width}
	}
	n := int(math.Floor(top/width)) + 1
	edges := make([]float64, n+1)
	for i := range edges {
		edges[i] = float64(i) * width
	}
	return edges
}

func checkBins(bins []float64, labels []string) error {
	if len(bins) < 2 {
		return fmt.Errorf("%w: need at least two edges, got %d", ErrInvalidBins, len(bins))
	}
	for i := 1; i < len(bins); i++ {
		if !(bins[i] > bins[i-1]) {
			return fmt.Errorf("%w: edges must be strictly ascending at position %d", ErrInvalidBins, i)
		}
	}
	if labels != nil && len(labels) != len(bins)-1 {
		return fmt.Errorf("%w: %d labels for %d intervals", ErrInvalidBins, len(labels), len(bins)-1)
	}
	return nil
}

// Assign places each value into the half-open interval [bins[i], bins[i+1]).
// Nil labels select DefaultLabels.
func Assign(values, bins []float64, labels []string) ([]Bin, error) {
	if err := checkBins(bins, labels); err != nil {
		return nil, err
	}
	if labels == nil {
		labels = DefaultLabels(bins)
	}

	out := make([]Bin, len(values))
	last := len(bins) - 1
	for k, v := range values {
		out[k] = Bin{Index: -1}
		if math.IsNaN(v) {
			continue
		}
		i := sort.Search(len(bins), func(j int) bool { return bins[j] > v }) - 1
		if i < 0 || i >= last {
			continue
		}
		out[k] = Bin{Index: i, Label: labels[i]}
	}
	return out, nil
}

// BinNumeric assigns each value of column to an interval of bins.
func (a *Analyzer) BinNumeric(column string, bins []float64, labels []string) ([]Bin, error) {
	values, err := a.floats(column)
	if err != nil {
		return nil, err
	}
	return Assign(values, bins, labels)
}
