package charts

import (
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/aclements/go-moremath/stats"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/rewired-gh/peakstats/internal/models"
)

const (
	violinPoints    = 100
	violinHalfWidth = 0.4
)

// Violin draws one kernel density outline of Peak per Year, years ascending.
func (r *Renderer) Violin() (string, error) {
	groups, years, err := r.peaksByYear()
	if err != nil {
		return "", err
	}

	var series []chart.Series
	ticks := make([]chart.Tick, 0, len(years))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, year := range years {
		center := float64(i + 1)
		xs, ys := violinOutline(groups[year], center)
		for _, y := range ys {
			lo, hi = math.Min(lo, y), math.Max(hi, y)
		}
		col := palette[i%len(palette)]
		series = append(series, chart.ContinuousSeries{
			Name:    strconv.Itoa(year),
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: col, StrokeWidth: 1.5},
		})
		med := median(groups[year])
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{center - violinHalfWidth/2, center + violinHalfWidth/2},
			YValues: []float64{med, med},
			Style:   chart.Style{StrokeColor: colorMuted, StrokeWidth: 2},
		})
		ticks = append(ticks, chart.Tick{Value: center, Label: strconv.Itoa(year)})
	}

	ch := chart.Chart{
		Title:      "Distribution of Peak Players by Year",
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  models.ColYear,
			Ticks: framedTicks(ticks, 0.5, float64(len(years))+0.5),
		},
		YAxis: chart.YAxis{
			Name:  models.ColPeak,
			Range: paddedRange(lo, hi),
		},
		Series: series,
	}
	return r.save("Violin plot", FileViolin, func(w io.Writer) error {
		return ch.Render(chart.PNG, w)
	})
}

// violinOutline returns a closed outline of the Gaussian KDE of values,
// mirrored around center and scaled so the widest point spans
// violinHalfWidth on each side.
func violinOutline(values []float64, center float64) (xs, ys []float64) {
	sample := stats.Sample{Xs: values}
	bw := scottBandwidth(sample)
	kde := stats.KDE{Sample: sample, Kernel: stats.GaussianKernel, Bandwidth: bw}

	lo, hi := minOf(values)-2*bw, maxOf(values)+2*bw
	grid := make([]float64, violinPoints)
	dens := make([]float64, violinPoints)
	peak := 0.0
	for i := range grid {
		grid[i] = lo + (hi-lo)*float64(i)/float64(violinPoints-1)
		dens[i] = kde.PDF(grid[i])
		peak = math.Max(peak, dens[i])
	}
	if peak <= 0 {
		peak = 1
	}

	xs = make([]float64, 0, 2*violinPoints+1)
	ys = make([]float64, 0, 2*violinPoints+1)
	for i := range grid {
		xs = append(xs, center+violinHalfWidth*dens[i]/peak)
		ys = append(ys, grid[i])
	}
	for i := len(grid) - 1; i >= 0; i-- {
		xs = append(xs, center-violinHalfWidth*dens[i]/peak)
		ys = append(ys, grid[i])
	}
	xs = append(xs, xs[0])
	ys = append(ys, ys[0])
	return xs, ys
}

// scottBandwidth is Scott's rule, 1.06 * sd * n^-1/5. Degenerate samples get a
// small positive bandwidth so the kernel stays defined.
func scottBandwidth(s stats.Sample) float64 {
	n := float64(len(s.Xs))
	bw := 1.06 * s.StdDev() * math.Pow(n, -0.2)
	if bw > 0 && !math.IsNaN(bw) && !math.IsInf(bw, 0) {
		return bw
	}
	scale := math.Abs(s.Mean())
	if scale == 0 || math.IsNaN(scale) {
		return 1
	}
	return scale * 0.01
}

// Scatter plots Peak against Year with a least-squares trendline.
func (r *Renderer) Scatter() (string, error) {
	peaks, err := r.peaks()
	if err != nil {
		return "", err
	}
	years, err := r.data.Floats(models.ColYear)
	if err != nil {
		return "", err
	}

	slope, intercept := FitLine(years, peaks)
	x0, x1 := minOf(years), maxOf(years)
	if x0 == x1 {
		x0, x1 = x0-1, x1+1
	}
	trendX := []float64{x0, x1}
	trendY := []float64{slope*x0 + intercept, slope*x1 + intercept}

	lo := math.Min(minOf(peaks), math.Min(trendY[0], trendY[1]))
	hi := math.Max(maxOf(peaks), math.Max(trendY[0], trendY[1]))

	var ticks []chart.Tick
	for y := math.Ceil(x0); y <= x1; y++ {
		ticks = append(ticks, chart.Tick{Value: y, Label: strconv.Itoa(int(y))})
	}

	ch := chart.Chart{
		Title:      "Peak Players vs Year",
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  models.ColYear,
			Ticks: framedTicks(ticks, x0-0.5, x1+0.5),
		},
		YAxis: chart.YAxis{
			Name:  models.ColPeak,
			Range: paddedRange(lo, hi),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    models.ColPeak,
				XValues: years,
				YValues: peaks,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    5,
					DotColor:    colorPrimary,
				},
			},
			chart.ContinuousSeries{
				Name:    "Trend",
				XValues: trendX,
				YValues: trendY,
				Style:   chart.Style{StrokeColor: colorAccent, StrokeWidth: 2},
			},
		},
	}
	return r.save("Scatter plot", FileScatter, func(w io.Writer) error {
		return ch.Render(chart.PNG, w)
	})
}

// boxStats holds the parts of a box-and-whisker glyph.
type boxStats struct {
	Q1, Median, Q3 float64
	Low, High      float64 // whisker ends
	Outliers       []float64
}

// computeBox uses 1.5*IQR whiskers clamped to the most extreme data inside them.
func computeBox(values []float64) boxStats {
	s := stats.Sample{Xs: append([]float64(nil), values...)}
	s.Sort()
	b := boxStats{
		Q1:     s.Quantile(0.25),
		Median: s.Quantile(0.5),
		Q3:     s.Quantile(0.75),
	}
	iqr := b.Q3 - b.Q1
	lowFence, highFence := b.Q1-1.5*iqr, b.Q3+1.5*iqr

	b.Low, b.High = b.Q1, b.Q3
	for _, v := range s.Xs {
		if v < lowFence || v > highFence {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		b.Low = math.Min(b.Low, v)
		b.High = math.Max(b.High, v)
	}
	return b
}

// Box draws one horizontal box of Peak with whiskers and outlier points.
func (r *Renderer) Box() (string, error) {
	peaks, err := r.peaks()
	if err != nil {
		return "", err
	}
	b := computeBox(peaks)

	const y, half, whiskerCap = 1.0, 0.25, 0.12
	line := chart.Style{StrokeColor: colorPrimary, StrokeWidth: 2}
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    models.ColPeak,
			XValues: []float64{b.Q1, b.Q3, b.Q3, b.Q1, b.Q1},
			YValues: []float64{y - half, y - half, y + half, y + half, y - half},
			Style:   line,
		},
		chart.ContinuousSeries{
			XValues: []float64{b.Median, b.Median},
			YValues: []float64{y - half, y + half},
			Style:   chart.Style{StrokeColor: colorAccent, StrokeWidth: 2},
		},
		chart.ContinuousSeries{
			XValues: []float64{b.Low, b.Q1},
			YValues: []float64{y, y},
			Style:   line,
		},
		chart.ContinuousSeries{
			XValues: []float64{b.Q3, b.High},
			YValues: []float64{y, y},
			Style:   line,
		},
		chart.ContinuousSeries{
			XValues: []float64{b.Low, b.Low},
			YValues: []float64{y - whiskerCap, y + whiskerCap},
			Style:   line,
		},
		chart.ContinuousSeries{
			XValues: []float64{b.High, b.High},
			YValues: []float64{y - whiskerCap, y + whiskerCap},
			Style:   line,
		},
	}
	if len(b.Outliers) > 0 {
		ys := make([]float64, len(b.Outliers))
		for i := range ys {
			ys[i] = y
		}
		series = append(series, chart.ContinuousSeries{
			Name:    "Outliers",
			XValues: b.Outliers,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
				DotColor:    colorMuted,
			},
		})
	}

	ch := chart.Chart{
		Title:      "Box Plot of Peak Players",
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  models.ColPeak,
			Range: paddedRange(minOf(peaks), maxOf(peaks)),
		},
		YAxis: chart.YAxis{
			Ticks: framedTicks([]chart.Tick{{Value: y, Label: models.ColPeak}}, 0.5, 1.5),
		},
		Series: series,
	}
	return r.save("Box plot", FileBox, func(w io.Writer) error {
		return ch.Render(chart.PNG, w)
	})
}

// peaksByYear groups Peak by Year and returns the years ascending.
func (r *Renderer) peaksByYear() (map[int][]float64, []int, error) {
	peaks, err := r.peaks()
	if err != nil {
		return nil, nil, err
	}
	years, err := r.data.Floats(models.ColYear)
	if err != nil {
		return nil, nil, err
	}
	groups := make(map[int][]float64)
	for i, y := range years {
		groups[int(y)] = append(groups[int(y)], peaks[i])
	}
	order := make([]int, 0, len(groups))
	for y := range groups {
		order = append(order, y)
	}
	sort.Ints(order)
	return groups, order, nil
}

func median(values []float64) float64 {
	s := stats.Sample{Xs: append([]float64(nil), values...)}
	s.Sort()
	return s.Quantile(0.5)
}
