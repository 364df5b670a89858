package table

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rewired-gh/peakstats/internal/models"
)

const sampleCSV = `Month, Year , Peak,Gain,%Gain,Notes
Mar,2021,"12,345",100,1.5,a
Jan,2022,"1,000",-50,-2.5,b
Feb,2021,"9,999","1,200",3.0,c
Jan,2021,500,0,0,d
`

func mustRead(t *testing.T, data string) *Table {
	t.Helper()
	tbl, err := Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	return tbl
}

func TestReadNormalizes(t *testing.T) {
	tbl := mustRead(t, sampleCSV)

	if tbl.Len() != 4 {
		t.Fatalf("expected 4 rows, got %d", tbl.Len())
	}
	for _, name := range []string{"Month", "Year", "Peak", "Gain", "%Gain", "Notes", "MonthYear", "Month_num"} {
		if !models.HasColumn(tbl.Names(), name) {
			t.Errorf("missing column %q in %v", name, tbl.Names())
		}
	}

	rows := tbl.Rows()
	wantOrder := []string{"Jan-2021", "Feb-2021", "Mar-2021", "Jan-2022"}
	for i, want := range wantOrder {
		if rows[i].MonthYear != want {
			t.Errorf("row %d: expected %s, got %s", i, want, rows[i].MonthYear)
		}
		if rows[i].Index != i {
			t.Errorf("row %d: expected dense index, got %d", i, rows[i].Index)
		}
		if err := rows[i].Validate(); err != nil {
			t.Errorf("row %d invalid: %v", i, err)
		}
	}

	if rows[2].Peak != 12345 {
		t.Errorf("expected thousands separator stripped to 12345, got %v", rows[2].Peak)
	}
	if rows[1].Gain != 1200 {
		t.Errorf("expected Gain 1200, got %v", rows[1].Gain)
	}
	if rows[3].GainPct != -2.5 {
		t.Errorf("expected %%Gain -2.5, got %v", rows[3].GainPct)
	}
}

func TestRowsChronological(t *testing.T) {
	tbl := mustRead(t, sampleCSV)
	rows := tbl.Rows()
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if cur.MonthNum < 1 || cur.MonthNum > 12 {
			t.Fatalf("month number out of range: %d", cur.MonthNum)
		}
		if cur.Year < prev.Year || (cur.Year == prev.Year && cur.MonthNum < prev.MonthNum) {
			t.Errorf("rows out of order at %d: %s after %s", i, cur.MonthYear, prev.MonthYear)
		}
	}
}

func TestColumnAccess(t *testing.T) {
	tbl := mustRead(t, sampleCSV)

	if !tbl.Numeric("Peak") || !tbl.Numeric("Year") {
		t.Error("Peak and Year should be numeric")
	}
	if tbl.Numeric("Notes") || tbl.Numeric("Month") {
		t.Error("Notes and Month should be text")
	}

	peaks, err := tbl.Floats("Peak")
	if err != nil {
		t.Fatalf("Floats failed: %v", err)
	}
	if peaks[0] != 500 || peaks[3] != 1000 {
		t.Errorf("unexpected peaks: %v", peaks)
	}

	notes, err := tbl.Strings("Notes")
	if err != nil {
		t.Fatalf("Strings failed: %v", err)
	}
	if strings.Join(notes, "") != "dcab" {
		t.Errorf("passthrough column not carried through sort: %v", notes)
	}

	var cnf *models.ColumnNotFoundError
	if _, err := tbl.Floats("Missing"); !errors.As(err, &cnf) {
		t.Errorf("expected ColumnNotFoundError, got %v", err)
	}
}

func TestReadParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		column string
	}{
		{
			name:   "non-numeric peak",
			data:   "Month,Year,Peak,Gain,%Gain\nJan,2021,12a,0,0\n",
			column: "Peak",
		},
		{
			name:   "non-numeric percentage",
			data:   "Month,Year,Peak,Gain,%Gain\nJan,2021,1,0,abc\n",
			column: "%Gain",
		},
		{
			name:   "unknown month",
			data:   "Month,Year,Peak,Gain,%Gain\nMars,2021,1,0,0\n",
			column: "Month",
		},
		{
			name:   "non-finite gain",
			data:   "Month,Year,Peak,Gain,%Gain\nJan,2021,1,NaN,0\n",
			column: "Gain",
		},
		{
			name:   "infinite peak",
			data:   "Month,Year,Peak,Gain,%Gain\nJan,2021,Inf,0,0\n",
			column: "Peak",
		},
		{
			name:   "bad year",
			data:   "Month,Year,Peak,Gain,%Gain\nJan,twenty,1,0,0\n",
			column: "Year",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.data))
			var pe *models.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if pe.Column != tt.column {
				t.Errorf("expected column %s, got %s", tt.column, pe.Column)
			}
		})
	}
}

func TestReadMissingColumn(t *testing.T) {
	_, err := Read(strings.NewReader("Month,Year,Peak,Gain\nJan,2021,1,0\n"))
	var cnf *models.ColumnNotFoundError
	if !errors.As(err, &cnf) {
		t.Fatalf("expected ColumnNotFoundError, got %v", err)
	}
	if cnf.Column != "%Gain" {
		t.Errorf("expected %%Gain missing, got %s", cnf.Column)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "absent.csv"))
	if !errors.Is(err, models.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}

	path := filepath.Join(dir, "Input.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tbl.Source() != path {
		t.Errorf("expected source %s, got %s", path, tbl.Source())
	}
}
