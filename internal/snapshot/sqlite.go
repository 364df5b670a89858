package snapshot

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rewired-gh/peakstats/internal/models"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS snapshot_meta (
		id       TEXT NOT NULL,
		source   TEXT NOT NULL,
		saved_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS snapshot_columns (
		position INTEGER PRIMARY KEY,
		name     TEXT NOT NULL UNIQUE,
		kind     TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS snapshot_cells (
		position INTEGER NOT NULL,
		row_idx  INTEGER NOT NULL,
		num      REAL,
		txt      TEXT,
		PRIMARY KEY (position, row_idx)
	)`,
}

// SQLiteStore keeps a frame in a SQLite database, one row per cell. Saving
// replaces whatever snapshot the database held before.
type SQLiteStore struct{}

// openDB opens path for writing and creates the snapshot tables.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return db, nil
}

// openReadOnly opens an existing database without touching its schema.
func openReadOnly(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return db, nil
}

func readOnlyDSN(path string) string {
	escaped := strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23").Replace(path)
	return "file:" + escaped + "?mode=ro"
}

// Save persists the frame to path
func (SQLiteStore) Save(path string, f *Frame) (err error) {
	if err := ensureDir(path); err != nil {
		return err
	}
	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close sqlite database: %w", cerr)
		}
	}()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"snapshot_meta", "snapshot_columns", "snapshot_cells"} {
		if _, err = tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if _, err = tx.Exec(`INSERT INTO snapshot_meta (id, source, saved_at) VALUES (?, ?, ?)`,
		f.ID, f.Source, f.SavedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to insert snapshot metadata: %w", err)
	}

	cellStmt, err := tx.Prepare(`INSERT INTO snapshot_cells (position, row_idx, num, txt) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare cell insert: %w", err)
	}
	defer cellStmt.Close()

	for pos, c := range f.Columns {
		if _, err = tx.Exec(`INSERT INTO snapshot_columns (position, name, kind) VALUES (?, ?, ?)`,
			pos, c.Name, string(c.Kind)); err != nil {
			return fmt.Errorf("failed to insert column %s: %w", c.Name, err)
		}
		for i := 0; i < c.Len(); i++ {
			var num, txt interface{}
			if c.Kind == KindNumber {
				num = c.Numbers[i]
			} else {
				txt = c.Texts[i]
			}
			if _, err = cellStmt.Exec(pos, i, num, txt); err != nil {
				return fmt.Errorf("failed to insert cell %s[%d]: %w", c.Name, i, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Load restores a frame from path
func (SQLiteStore) Load(path string) (f *Frame, err error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat snapshot: %w", err)
	}
	db, err := openReadOnly(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close sqlite database: %w", cerr)
		}
	}()

	f = &Frame{}
	var savedAt string
	row := db.QueryRow(`SELECT id, source, saved_at FROM snapshot_meta LIMIT 1`)
	if err := row.Scan(&f.ID, &f.Source, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot database %s is empty", path)
		}
		return nil, fmt.Errorf("failed to read snapshot metadata: %w", err)
	}
	if f.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
		return nil, fmt.Errorf("failed to parse saved_at: %w", err)
	}

	cols, err := db.Query(`SELECT name, kind FROM snapshot_columns ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	for cols.Next() {
		var c Column
		var kind string
		if err := cols.Scan(&c.Name, &kind); err != nil {
			_ = cols.Close()
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		c.Kind = Kind(kind)
		f.Columns = append(f.Columns, c)
	}
	if err := cols.Close(); err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	cells, err := db.Query(`SELECT position, num, txt FROM snapshot_cells ORDER BY position, row_idx`)
	if err != nil {
		return nil, fmt.Errorf("failed to read cells: %w", err)
	}
	defer cells.Close()
	for cells.Next() {
		var pos int
		var num sql.NullFloat64
		var txt sql.NullString
		if err := cells.Scan(&pos, &num, &txt); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		if pos < 0 || pos >= len(f.Columns) {
			return nil, fmt.Errorf("cell references unknown column %d", pos)
		}
		c := &f.Columns[pos]
		if c.Kind == KindNumber {
			c.Numbers = append(c.Numbers, num.Float64)
		} else {
			c.Texts = append(c.Texts, txt.String)
		}
	}
	if err := cells.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cells: %w", err)
	}
	return f, nil
}
