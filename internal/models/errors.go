package models

import (
	"errors"
	"fmt"
)

// ErrFileNotFound is returned when an input file or snapshot does not exist.
var ErrFileNotFound = errors.New("file not found")

// ColumnNotFoundError reports a reference to a column absent from the loaded data.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// ParseError reports a cell that could not be coerced to the column's type.
type ParseError struct {
	Column string
	Row    int // 0-based data row, header excluded
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("column %q row %d: cannot parse %q: %v", e.Column, e.Row, e.Value, e.Err)
	}
	return fmt.Sprintf("column %q row %d: cannot parse %q", e.Column, e.Row, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DimensionMismatchError reports vectors of incompatible lengths.
type DimensionMismatchError struct {
	Left, Right int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: %d vs %d", e.Left, e.Right)
}

// CheckColumns returns a ColumnNotFoundError for the first name missing from names.
func CheckColumns(names []string, want ...string) error {
	for _, w := range want {
		if !HasColumn(names, w) {
			return &ColumnNotFoundError{Column: w}
		}
	}
	return nil
}
