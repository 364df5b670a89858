package analyzer

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// CrossTab is a contingency table of co-occurrence counts.
type CrossTab struct {
	RowColumn string
	ColColumn string
	Rows      []string
	Cols      []string
	Counts    [][]int // Counts[i][j] pairs Rows[i] with Cols[j]
}

// Count returns the number of records with row value r and column value c.
func (ct *CrossTab) Count(r, c string) int {
	i := indexOf(ct.Rows, r)
	j := indexOf(ct.Cols, c)
	if i < 0 || j < 0 {
		return 0
	}
	return ct.Counts[i][j]
}

// Tabulate counts co-occurrences of rows[k] and cols[k].
func Tabulate(rowName, colName string, rows, cols []string) (*CrossTab, error) {
	if len(rows) != len(cols) {
		return nil, fmt.Errorf("columns %s and %s differ in length: %d vs %d", rowName, colName, len(rows), len(cols))
	}
	ct := &CrossTab{
		RowColumn: rowName,
		ColColumn: colName,
		Rows:      sortedLabels(rows),
		Cols:      sortedLabels(cols),
	}
	rowIdx := positions(ct.Rows)
	colIdx := positions(ct.Cols)
	ct.Counts = make([][]int, len(ct.Rows))
	for i := range ct.Counts {
		ct.Counts[i] = make([]int, len(ct.Cols))
	}
	for k := range rows {
		ct.Counts[rowIdx[rows[k]]][colIdx[cols[k]]]++
	}
	return ct, nil
}

// JointCounts cross-tabulates two columns and prints the table.
func (a *Analyzer) JointCounts(col1, col2 string) (*CrossTab, error) {
	rows, err := a.strings(col1)
	if err != nil {
		return nil, err
	}
	cols, err := a.strings(col2)
	if err != nil {
		return nil, err
	}
	ct, err := Tabulate(col1, col2, rows, cols)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	table := tablewriter.NewWriter(&body)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(append([]string{col1 + " \\ " + col2}, ct.Cols...))
	for i, r := range ct.Rows {
		line := make([]string, 0, len(ct.Cols)+1)
		line = append(line, r)
		for _, n := range ct.Counts[i] {
			line = append(line, strconv.Itoa(n))
		}
		table.Append(line)
	}
	table.Render()

	a.lastJoint = ct
	file := fmt.Sprintf("joint_counts_%s_%s.txt", fileSafe(col1), fileSafe(col2))
	if err := a.emit(file, fmt.Sprintf("JOINT COUNTS: %s x %s", col1, col2), 80, body.Bytes()); err != nil {
		return nil, err
	}
	return ct, nil
}

// sortedLabels returns the distinct labels, ordered numerically when every
// label is a number and lexically otherwise.
func sortedLabels(values []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	nums := make(map[string]float64, len(out))
	numeric := true
	for _, v := range out {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			numeric = false
			break
		}
		nums[v] = f
	}
	if numeric {
		sort.Slice(out, func(i, j int) bool { return nums[out[i]] < nums[out[j]] })
	} else {
		sort.Strings(out)
	}
	return out
}

func positions(labels []string) map[string]int {
	m := make(map[string]int, len(labels))
	for i, l := range labels {
		m[l] = i
	}
	return m
}

func indexOf(labels []string, v string) int {
	for i, l := range labels {
		if l == v {
			return i
		}
	}
	return -1
}

func fileSafe(s string) string {
	out := []rune(s)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
