package analyzer

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rewired-gh/peakstats/internal/logger"
)

// ErrNothingToExport is returned by SaveWorkbook before any report has run.
var ErrNothingToExport = errors.New("no report results to export")

// SaveWorkbook writes the most recent statistics, joint counts and month/peak
// pairs to an .xlsx file under the export directory, one sheet each.
func (a *Analyzer) SaveWorkbook(name string) (string, error) {
	if a.dir == nil {
		return "", fmt.Errorf("no export directory attached")
	}
	if a.lastStats == nil && a.lastJoint == nil && a.lastMonthPeak == nil {
		return "", ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	w := &sheetWriter{f: f, first: true}
	if a.lastStats != nil {
		w.sheet("Statistics")
		w.row("Column", "N", "Mean", "Median", "Std Dev")
		for _, s := range a.lastStats {
			w.row(s.Column, s.N, s.Mean, s.Median, s.Std)
		}
	}
	if ct := a.lastJoint; ct != nil {
		w.sheet("JointCounts")
		header := []interface{}{ct.RowColumn + " \\ " + ct.ColColumn}
		for _, c := range ct.Cols {
			header = append(header, c)
		}
		w.row(header...)
		for i, r := range ct.Rows {
			line := []interface{}{r}
			for _, n := range ct.Counts[i] {
				line = append(line, n)
			}
			w.row(line...)
		}
	}
	if mp := a.lastMonthPeak; mp != nil {
		w.sheet("MonthPeak")
		w.row("#", "Month", "PeakBin")
		for i, p := range mp.UniquePairs {
			w.row(i+1, p.Month, p.PeakBin)
		}
		w.sheet("Binned")
		w.row("Month", "Peak", "PeakBin")
		for _, b := range mp.Binned {
			w.row(b.Month, b.Peak, b.PeakBin)
		}
	}
	if w.err != nil {
		return "", fmt.Errorf("failed to build workbook: %w", w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("failed to encode workbook: %w", err)
	}
	path, err := a.dir.WriteFile(name, buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to write workbook: %w", err)
	}
	logger.Info("Workbook saved to %s", path)
	return path, nil
}

// sheetWriter appends rows to the current sheet and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	name  string
	next  int
	first bool
	err   error
}

func (w *sheetWriter) sheet(name string) {
	if w.err != nil {
		return
	}
	if w.first {
		// A new file starts with one default sheet; reuse it.
		w.first = false
		w.err = w.f.SetSheetName(w.f.GetSheetName(0), name)
	} else {
		_, w.err = w.f.NewSheet(name)
	}
	w.name = name
	w.next = 1
}

func (w *sheetWriter) row(values ...interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(w.name, cell, &values)
	w.next++
}
