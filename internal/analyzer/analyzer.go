// Package analyzer produces statistical reports over a tabular snapshot.
//
// The Analyzer only needs column access by name, so it works the same over a
// persisted snapshot.Frame or a freshly loaded table.Table. Every report is
// printed to the analyzer's writer and, when an output directory is attached,
// also exported as a text file under it.
package analyzer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/rewired-gh/peakstats/internal/logger"
	"github.com/rewired-gh/peakstats/internal/models"
	"github.com/rewired-gh/peakstats/internal/outdir"
)

// Provider supplies named columns of equal length.
type Provider interface {
	Names() []string
	Len() int
	Floats(name string) ([]float64, error)
	Strings(name string) ([]string, error)
}

// Analyzer runs reports against one Provider.
type Analyzer struct {
	data Provider
	out  io.Writer
	dir  *outdir.Dir

	// Most recent results, kept for SaveWorkbook.
	lastStats     []Summary
	lastJoint     *CrossTab
	lastMonthPeak *MonthPeakResult
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithOutput sends console reports to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(a *Analyzer) { a.out = w }
}

// WithExport also writes every report under d.
func WithExport(d *outdir.Dir) Option {
	return func(a *Analyzer) { a.dir = d }
}

// New creates an Analyzer over p.
func New(p Provider, opts ...Option) *Analyzer {
	a := &Analyzer{data: p, out: os.Stdout}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) floats(column string) ([]float64, error) {
	if !models.HasColumn(a.data.Names(), column) {
		return nil, &models.ColumnNotFoundError{Column: column}
	}
	return a.data.Floats(column)
}

func (a *Analyzer) strings(column string) ([]string, error) {
	if !models.HasColumn(a.data.Names(), column) {
		return nil, &models.ColumnNotFoundError{Column: column}
	}
	return a.data.Strings(column)
}

var titleColor = color.New(color.FgCyan, color.Bold)

// emit prints a framed report and exports it as file when a directory is attached.
func (a *Analyzer) emit(file, title string, width int, body []byte) error {
	rule := strings.Repeat("=", width)

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, rule)
	titleColor.Fprintln(a.out, center(title, width))
	fmt.Fprintln(a.out, rule)
	_, _ = a.out.Write(body)
	fmt.Fprintln(a.out, rule)
	fmt.Fprintln(a.out)

	if a.dir == nil || file == "" {
		return nil
	}
	var plain bytes.Buffer
	fmt.Fprintln(&plain, rule)
	fmt.Fprintln(&plain, center(title, width))
	fmt.Fprintln(&plain, rule)
	plain.Write(body)
	fmt.Fprintln(&plain, rule)

	path, err := a.dir.WriteFile(file, plain.Bytes())
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", file, err)
	}
	logger.Debug("Exported report to %s", path)
	return nil
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}
