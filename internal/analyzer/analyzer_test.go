package analyzer

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/rewired-gh/peakstats/internal/models"
	"github.com/rewired-gh/peakstats/internal/outdir"
)

// memProvider is an in-memory Provider for tests.
type memProvider struct {
	names   []string
	numbers map[string][]float64
	texts   map[string][]string
}

func newMem() *memProvider {
	return &memProvider{numbers: map[string][]float64{}, texts: map[string][]string{}}
}

func (m *memProvider) num(name string, v ...float64) *memProvider {
	m.names = append(m.names, name)
	m.numbers[name] = v
	return m
}

func (m *memProvider) text(name string, v ...string) *memProvider {
	m.names = append(m.names, name)
	m.texts[name] = v
	return m
}

func (m *memProvider) Names() []string { return m.names }

func (m *memProvider) Len() int {
	for _, v := range m.numbers {
		return len(v)
	}
	for _, v := range m.texts {
		return len(v)
	}
	return 0
}

func (m *memProvider) Floats(name string) ([]float64, error) {
	if v, ok := m.numbers[name]; ok {
		return append([]float64(nil), v...), nil
	}
	out := make([]float64, len(m.texts[name]))
	for i, s := range m.texts[name] {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, &models.ParseError{Column: name, Row: i, Value: s, Err: err}
		}
		out[i] = f
	}
	return out, nil
}

func (m *memProvider) Strings(name string) ([]string, error) {
	if v, ok := m.texts[name]; ok {
		return v, nil
	}
	out := make([]string, len(m.numbers[name]))
	for i, f := range m.numbers[name] {
		out[i] = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return out, nil
}

func sample() *memProvider {
	return newMem().
		text("Month", "Jan", "Feb", "Jan", "Mar").
		num("Year", 2021, 2021, 2022, 2022).
		num("Peak", 49999, 50000, 120000, 10).
		num("Gain", 1, 2, 3, 4)
}

func quiet(p Provider, opts ...Option) (*Analyzer, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(p, append([]Option{WithOutput(&buf)}, opts...)...), &buf
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestStatistics(t *testing.T) {
	a, out := quiet(sample())

	res, err := a.Statistics("Gain")
	if err != nil {
		t.Fatalf("Statistics failed: %v", err)
	}
	s := res["Gain"]
	if !approx(s.Mean, 2.5) || !approx(s.Median, 2.5) {
		t.Errorf("unexpected mean/median: %+v", s)
	}
	if !approx(s.Std, math.Sqrt(5.0/3.0)) {
		t.Errorf("expected sample std %v, got %v", math.Sqrt(5.0/3.0), s.Std)
	}
	if !strings.Contains(out.String(), "SUMMARY STATISTICS") || !strings.Contains(out.String(), "2.50") {
		t.Errorf("report not printed:\n%s", out.String())
	}
}

func TestStatisticsIdenticalValues(t *testing.T) {
	a, _ := quiet(newMem().num("Peak", 7, 7, 7, 7, 7))

	res, err := a.Statistics("Peak")
	if err != nil {
		t.Fatalf("Statistics failed: %v", err)
	}
	s := res["Peak"]
	if s.Mean != 7 || s.Median != 7 || s.Std != 0 {
		t.Errorf("expected 7/7/0, got %+v", s)
	}
}

func TestStatisticsMissingColumn(t *testing.T) {
	a, _ := quiet(sample())

	_, err := a.Statistics("Peak", "Views")
	var cnf *models.ColumnNotFoundError
	if !errors.As(err, &cnf) || cnf.Column != "Views" {
		t.Fatalf("expected ColumnNotFoundError for Views, got %v", err)
	}
}

func TestJointCounts(t *testing.T) {
	a, out := quiet(sample())

	ct, err := a.JointCounts("Month", "Year")
	if err != nil {
		t.Fatalf("JointCounts failed: %v", err)
	}
	if strings.Join(ct.Rows, ",") != "Feb,Jan,Mar" {
		t.Errorf("unexpected row labels: %v", ct.Rows)
	}
	if strings.Join(ct.Cols, ",") != "2021,2022" {
		t.Errorf("unexpected column labels: %v", ct.Cols)
	}

	tests := []struct {
		month, year string
		want        int
	}{
		{"Jan", "2021", 1},
		{"Jan", "2022", 1},
		{"Feb", "2021", 1},
		{"Feb", "2022", 0},
		{"Mar", "2022", 1},
		{"Apr", "2022", 0},
	}
	total := 0
	for _, tt := range tests {
		if got := ct.Count(tt.month, tt.year); got != tt.want {
			t.Errorf("Count(%s, %s) = %d, want %d", tt.month, tt.year, got, tt.want)
		}
	}
	for _, row := range ct.Counts {
		for _, n := range row {
			total += n
		}
	}
	if total != 4 {
		t.Errorf("counts should sum to the row count, got %d", total)
	}
	if !strings.Contains(out.String(), "JOINT COUNTS: Month x Year") {
		t.Errorf("report not printed:\n%s", out.String())
	}
}

func TestSortedLabelsNumeric(t *testing.T) {
	got := sortedLabels([]string{"10", "9", "100", "9"})
	if strings.Join(got, ",") != "9,10,100" {
		t.Errorf("expected numeric order, got %v", got)
	}
	got = sortedLabels([]string{"b", "10", "a"})
	if strings.Join(got, ",") != "10,a,b" {
		t.Errorf("expected lexical order, got %v", got)
	}
}

func TestDotProduct(t *testing.T) {
	p, err := DotProduct([]float64{1, 2, 3}, []float64{4, 5, 6})
	if err != nil {
		t.Fatalf("DotProduct failed: %v", err)
	}
	if !p.IsScalar() || p.Scalar != 32 {
		t.Errorf("expected scalar 32, got %v", p)
	}

	// scalar then vector scales the vector
	p, err = DotProduct([]float64{1, 2}, []float64{3, 4}, []float64{1, 0, 2})
	if err != nil {
		t.Fatalf("DotProduct failed: %v", err)
	}
	if p.IsScalar() || len(p.Vector) != 3 || p.Vector[0] != 11 || p.Vector[2] != 22 {
		t.Errorf("expected scaled vector [11 0 22], got %v", p)
	}

	_, err = DotProduct([]float64{1, 2, 3}, []float64{1, 2})
	var dm *models.DimensionMismatchError
	if !errors.As(err, &dm) || dm.Left != 3 || dm.Right != 2 {
		t.Fatalf("expected DimensionMismatchError 3 vs 2, got %v", err)
	}

	if _, err := DotProduct(); err == nil {
		t.Error("expected error for no vectors")
	}
}

func TestVectorAndDotProductPrint(t *testing.T) {
	a, out := quiet(sample())

	gain, err := a.Vector("Gain")
	if err != nil {
		t.Fatalf("Vector failed: %v", err)
	}
	if len(gain) != 4 {
		t.Fatalf("expected 4 values, got %d", len(gain))
	}
	if _, err := a.DotProduct(gain, gain); err != nil {
		t.Fatalf("DotProduct failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Vector for column 'Gain':\n[1 2 3 4]") {
		t.Errorf("vector not printed:\n%s", got)
	}
	if !strings.Contains(got, "Dot product result:\n30") {
		t.Errorf("dot product not printed:\n%s", got)
	}

	var cnf *models.ColumnNotFoundError
	if _, err := a.Vector("Views"); !errors.As(err, &cnf) {
		t.Errorf("expected ColumnNotFoundError, got %v", err)
	}
}

func TestWithExport(t *testing.T) {
	dir, err := outdir.Open(filepath.Join(t.TempDir(), "Output"), "plots")
	if err != nil {
		t.Fatal(err)
	}
	a, _ := quiet(sample(), WithExport(dir))

	if _, err := a.Statistics("Peak"); err != nil {
		t.Fatal(err)
	}
	if _, err := a.JointCounts("Month", "Year"); err != nil {
		t.Fatal(err)
	}
	if _, err := a.MonthPeakReport(DefaultMonthPeakOptions()); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"statistics.txt", "joint_counts_Month_Year.txt", "month_peak_report.txt"} {
		data, err := os.ReadFile(dir.Path(name))
		if err != nil {
			t.Errorf("expected %s exported: %v", name, err)
			continue
		}
		if bytes.Contains(data, []byte("\x1b[")) {
			t.Errorf("%s contains terminal escapes", name)
		}
	}

	path, err := a.SaveWorkbook("report.xlsx")
	if err != nil {
		t.Fatalf("SaveWorkbook failed: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("workbook unreadable: %v", err)
	}
	defer f.Close()

	sheets := strings.Join(f.GetSheetList(), ",")
	if sheets != "Statistics,JointCounts,MonthPeak,Binned" {
		t.Errorf("unexpected sheets: %s", sheets)
	}
	v, err := f.GetCellValue("Statistics", "A2")
	if err != nil || v != "Peak" {
		t.Errorf("expected Peak in Statistics!A2, got %q (%v)", v, err)
	}
}

func TestSaveWorkbookErrors(t *testing.T) {
	a, _ := quiet(sample())
	if _, err := a.SaveWorkbook("x.xlsx"); err == nil {
		t.Error("expected error without export directory")
	}

	dir, err := outdir.Open(t.TempDir(), "plots")
	if err != nil {
		t.Fatal(err)
	}
	a, _ = quiet(sample(), WithExport(dir))
	if _, err := a.SaveWorkbook("x.xlsx"); !errors.Is(err, ErrNothingToExport) {
		t.Errorf("expected ErrNothingToExport, got %v", err)
	}
}
