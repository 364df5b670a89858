// Package charts renders PNG charts of the peak-player table into the plot
// directory. One Renderer holds the table and exposes two operation sets:
// Basic (histogram and line) and Distributions (violin, scatter and box).
package charts

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/rewired-gh/peakstats/internal/logger"
	"github.com/rewired-gh/peakstats/internal/models"
	"github.com/rewired-gh/peakstats/internal/outdir"
	"github.com/rewired-gh/peakstats/internal/table"
)

const (
	defaultWidth  = 1200
	defaultHeight = 600
	defaultBins   = 10
)

// Chart file names under the plot directory.
const (
	FileHistogram          = "hist.png"
	FileFrequencyHistogram = "hist_frequency.png"
	FileLine               = "line.png"
	FileViolin             = "violin_plot.png"
	FileScatter            = "scatter_plot.png"
	FileBox                = "box_plot.png"
)

var (
	colorPrimary = drawing.ColorFromHex("1f77b4")
	colorAccent  = drawing.ColorFromHex("d62728")
	colorMuted   = drawing.ColorFromHex("7f7f7f")

	// palette cycles through per-group colors.
	palette = []drawing.Color{
		drawing.ColorFromHex("1f77b4"),
		drawing.ColorFromHex("ff7f0e"),
		drawing.ColorFromHex("2ca02c"),
		drawing.ColorFromHex("d62728"),
		drawing.ColorFromHex("9467bd"),
		drawing.ColorFromHex("8c564b"),
		drawing.ColorFromHex("e377c2"),
		drawing.ColorFromHex("bcbd22"),
		drawing.ColorFromHex("17becf"),
	}
)

// Renderer draws charts from one table into one output directory.
type Renderer struct {
	data *table.Table
	dir  *outdir.Dir
	out  io.Writer

	width      int
	height     int
	bins       int
	caption    bool
	lineLabels []string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithOutput sends "saved to" notices to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) { r.out = w }
}

// WithSize sets the default image size in pixels.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// WithBins sets the bin count of the frequency histogram.
func WithBins(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.bins = n
		}
	}
}

// WithCaption stamps the source file and row count onto every image.
func WithCaption(on bool) Option {
	return func(r *Renderer) { r.caption = on }
}

// WithLineLabels overrides the line chart's x labels. The list is only used
// when it has exactly one label per row.
func WithLineLabels(labels []string) Option {
	return func(r *Renderer) { r.lineLabels = labels }
}

// New creates a Renderer over t writing into dir.
func New(t *table.Table, dir *outdir.Dir, opts ...Option) *Renderer {
	r := &Renderer{
		data:   t,
		dir:    dir,
		out:    os.Stdout,
		width:  defaultWidth,
		height: defaultHeight,
		bins:   defaultBins,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Basic renders the histogram and the line chart.
func (r *Renderer) Basic() ([]string, error) {
	return r.all(r.Histogram, r.Line)
}

// Distributions renders the violin, scatter and box plots.
func (r *Renderer) Distributions() ([]string, error) {
	return r.all(r.Violin, r.Scatter, r.Box)
}

func (r *Renderer) all(ops ...func() (string, error)) ([]string, error) {
	paths := make([]string, 0, len(ops))
	for _, op := range ops {
		p, err := op()
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// save encodes one chart and writes it to the plot directory.
func (r *Renderer) save(kind, name string, render func(w io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", kind, err)
	}

	data := buf.Bytes()
	if r.caption {
		stamped, err := stampCaption(data, r.captionText())
		if err != nil {
			logger.Warn("Failed to caption %s: %v", name, err)
		} else {
			data = stamped
		}
	}

	path, err := r.dir.WritePlot(name, data)
	if err != nil {
		return "", fmt.Errorf("failed to save %s: %w", kind, err)
	}
	fmt.Fprintf(r.out, "%s saved to %s\n", kind, path)
	return path, nil
}

func (r *Renderer) captionText() string {
	src := r.data.Source()
	if src == "" {
		src = "stdin"
	}
	return fmt.Sprintf("source: %s | rows: %d", src, r.data.Len())
}

func (r *Renderer) peaks() ([]float64, error) {
	peaks, err := r.data.Floats(models.ColPeak)
	if err != nil {
		return nil, err
	}
	if len(peaks) == 0 {
		return nil, fmt.Errorf("no rows to plot")
	}
	return peaks, nil
}
