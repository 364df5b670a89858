package charts

import (
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/rewired-gh/peakstats/internal/logger"
	"github.com/rewired-gh/peakstats/internal/models"
)

// Line plots Peak over time, one point per row, labelled by MonthYear.
func (r *Renderer) Line() (string, error) {
	peaks, err := r.peaks()
	if err != nil {
		return "", err
	}
	labels, err := r.lineAxisLabels(len(peaks))
	if err != nil {
		return "", err
	}

	xs := make([]float64, len(peaks))
	ticks := make([]chart.Tick, len(peaks))
	for i := range peaks {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: labels[i]}
	}

	ch := chart.Chart{
		Title:      "Peak Players Over Time",
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 90}},
		XAxis: chart.XAxis{
			Name:  "Month-Year",
			Ticks: framedTicks(ticks, -0.5, float64(len(peaks))-0.5),
			Style: chart.Style{TextRotationDegrees: 90},
		},
		YAxis: chart.YAxis{
			Name:  models.ColPeak,
			Range: paddedRange(minOf(peaks), maxOf(peaks)),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    models.ColPeak,
				XValues: xs,
				YValues: peaks,
				Style: chart.Style{
					StrokeColor: colorPrimary,
					StrokeWidth: 2,
					DotColor:    colorPrimary,
					DotWidth:    3,
				},
			},
		},
	}
	return r.save("Line chart", FileLine, func(w io.Writer) error {
		return ch.Render(chart.PNG, w)
	})
}

// lineAxisLabels prefers MonthYear. Configured labels replace it only when
// their count matches the rows.
func (r *Renderer) lineAxisLabels(n int) ([]string, error) {
	if len(r.lineLabels) > 0 {
		if len(r.lineLabels) == n {
			return r.lineLabels, nil
		}
		logger.Warn("Ignoring %d configured line labels for %d rows; using %s", len(r.lineLabels), n, models.ColMonthYear)
	}
	return r.data.Strings(models.ColMonthYear)
}

// framedTicks brackets ticks with unlabeled ticks at lo and hi. go-chart
// derives the axis range from the ticks whenever any are set, so the brackets
// define the visible range.
func framedTicks(ticks []chart.Tick, lo, hi float64) []chart.Tick {
	out := make([]chart.Tick, 0, len(ticks)+2)
	out = append(out, chart.Tick{Value: lo})
	out = append(out, ticks...)
	return append(out, chart.Tick{Value: hi})
}

// paddedRange widens [lo, hi] by 5% and never returns a zero-width range.
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
		if lo != 0 {
			pad = 0.05 * abs(lo)
		}
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
