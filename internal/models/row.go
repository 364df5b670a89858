// Package models defines the core domain entities for peakstats.
// A Row is one monthly observation of a game's peak concurrent player count,
// as read from the input CSV after normalization.
package models

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Required input columns.
const (
	ColMonth     = "Month"
	ColYear      = "Year"
	ColPeak      = "Peak"
	ColGain      = "Gain"
	ColGainPct   = "%Gain"
	ColMonthYear = "MonthYear"
	ColMonthNum  = "Month_num"
)

// RequiredColumns lists the columns every input file must carry.
var RequiredColumns = []string{ColMonth, ColYear, ColPeak, ColGain, ColGainPct}

// MonthOrder is the fixed month abbreviation order used for sorting.
var MonthOrder = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Row represents a single normalized observation.
type Row struct {
	Index     int     `json:"index"` // Dense position after chronological sort
	Month     string  `json:"month"` // Month abbreviation, e.g. "Jan"
	Year      int     `json:"year"`
	Peak      float64 `json:"peak"`       // Peak concurrent players
	Gain      float64 `json:"gain"`       // Absolute change vs previous month
	GainPct   float64 `json:"gain_pct"`   // Percentage change vs previous month
	MonthYear string  `json:"month_year"` // "Jan-2021"
	MonthNum  int     `json:"month_num"`  // 1..12
}

// Validate checks that all row fields are consistent
func (r *Row) Validate() error {
	n, ok := MonthNumber(r.Month)
	if !ok {
		return errors.New("month must be a three-letter abbreviation")
	}
	if r.MonthNum != n {
		return errors.New("month number must match month")
	}
	if r.MonthYear != MonthYear(r.Month, r.Year) {
		return errors.New("month-year label must match month and year")
	}
	if r.Index < 0 {
		return errors.New("index must not be negative")
	}
	return nil
}

// MonthNumber maps a month abbreviation to 1..12.
func MonthNumber(month string) (int, bool) {
	for i, m := range MonthOrder {
		if m == month {
			return i + 1, true
		}
	}
	return 0, false
}

// MonthYear builds the display label for a month and year.
func MonthYear(month string, year int) string {
	return month + "-" + strconv.Itoa(year)
}

// ErrNotFinite is returned for NaN and infinite cells.
var ErrNotFinite = errors.New("value is not a finite number")

// ParseNumber parses a numeric cell, tolerating thousands separators and
// surrounding whitespace. NaN and infinities are rejected.
func ParseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", "")), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	return v, nil
}

// HasColumn reports whether name is present in names.
func HasColumn(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
