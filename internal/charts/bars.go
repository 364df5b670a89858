package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/aclements/go-moremath/stats"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/rewired-gh/peakstats/internal/models"
)

// Histogram draws one bar of Peak per MonthYear in table order.
func (r *Renderer) Histogram() (string, error) {
	peaks, err := r.peaks()
	if err != nil {
		return "", err
	}
	labels, err := r.data.Strings(models.ColMonthYear)
	if err != nil {
		return "", err
	}

	bars := make([]chart.Value, len(peaks))
	for i := range peaks {
		bars[i] = chart.Value{
			Label: labels[i],
			Value: peaks[i],
			Style: chart.Style{FillColor: colorPrimary, StrokeColor: colorPrimary},
		}
	}
	bc := r.barChart("Peak Players per Month", bars, 1.1*maxOf(peaks))
	return r.save("Histogram", FileHistogram, func(w io.Writer) error {
		return bc.Render(chart.PNG, w)
	})
}

// FrequencyHistogram counts Peak values in equal-width bins spanning the
// data. The last bin is closed on the right.
func (r *Renderer) FrequencyHistogram() (string, error) {
	peaks, err := r.peaks()
	if err != nil {
		return "", err
	}

	edges, counts := frequencies(peaks, r.bins)
	bars := make([]chart.Value, len(counts))
	top := 0.0
	for i, n := range counts {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%.0f-%.0f", edges[i], edges[i+1]),
			Value: float64(n),
			Style: chart.Style{FillColor: colorPrimary, StrokeColor: colorPrimary},
		}
		top = math.Max(top, float64(n))
	}
	bc := r.barChart("Frequency of Peak Players", bars, 1.1*top)
	return r.save("Frequency histogram", FileFrequencyHistogram, func(w io.Writer) error {
		return bc.Render(chart.PNG, w)
	})
}

// frequencies bins values into n equal-width bins. A constant sample is
// spread over [v-0.5, v+0.5].
func frequencies(values []float64, n int) ([]float64, []uint) {
	lo, hi := minOf(values), maxOf(values)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	h := stats.NewLinearHist(lo, hi, n)
	for _, v := range values {
		h.Add(v)
	}
	_, counts, over := h.Counts()
	counts = append([]uint(nil), counts...)
	// The maximum lands in the overflow bucket.
	counts[len(counts)-1] += over

	edges := make([]float64, n+1)
	for i := range edges {
		edges[i] = h.BinToValue(float64(i))
	}
	return edges, counts
}

// barChart sizes the canvas so every bar keeps a visible width.
func (r *Renderer) barChart(title string, bars []chart.Value, top float64) chart.BarChart {
	if top <= 0 || math.IsNaN(top) {
		top = 1
	}
	const margin = 120
	width := r.width
	if floor := len(bars)*4 + margin; width < floor {
		width = floor
	}
	slot := (width - margin) / len(bars)
	barWidth := slot * 3 / 4
	if barWidth < 1 {
		barWidth = 1
	}
	spacing := slot - barWidth
	if spacing < 1 {
		spacing = 1
	}

	return chart.BarChart{
		Title:      title,
		Width:      width,
		Height:     r.height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 90}},
		XAxis:      chart.Style{TextRotationDegrees: 90},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: bars,
	}
}

func minOf(values []float64) float64 {
	m := math.Inf(1)
	for _, v := range values {
		m = math.Min(m, v)
	}
	return m
}

func maxOf(values []float64) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		m = math.Max(m, v)
	}
	return m
}
