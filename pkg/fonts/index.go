package fonts

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/matzehuels/portraitgrid/pkg/errors"
)

// ============================================================
// Font Index
// ============================================================

const schema = `
CREATE TABLE IF NOT EXISTS fonts (
    name     TEXT PRIMARY KEY COLLATE NOCASE,
    path     TEXT NOT NULL,
    idx      INTEGER NOT NULL DEFAULT 0,
    modified INTEGER NOT NULL DEFAULT 0
);`

// Index is a persistent name → file lookup table backed by sqlite.
type Index struct {
	db *sql.DB
}

// OpenIndex opens (creating if needed) the index database at path.
func OpenIndex(ctx context.Context, path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir index dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open font index: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init font index: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the database.
func (x *Index) Close() error { return x.db.Close() }

// Replace swaps the index contents for entries in one transaction.
func (x *Index) Replace(ctx context.Context, entries []Entry) error {
	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM fonts`); err != nil {
		return fmt.Errorf("clear font index: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO fonts (name, path, idx, modified) VALUES (?, ?, ?, ?)
        ON CONFLICT(name) DO NOTHING
    `)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Name, e.Path, e.Index, e.Modified.Unix()); err != nil {
			return fmt.Errorf("insert %q: %w", e.Name, err)
		}
	}
	return tx.Commit()
}

// Lookup returns the face registered under name, ignoring case.
// It returns a NOT_FOUND error when the name is unknown.
func (x *Index) Lookup(ctx context.Context, name string) (FontRef, error) {
	row := x.db.QueryRowContext(ctx, `
        SELECT name, path, idx FROM fonts WHERE name = ?
    `, strings.TrimSpace(name))

	var ref FontRef
	if err := row.Scan(&ref.Name, &ref.Path, &ref.Index); err != nil {
		if err == sql.ErrNoRows {
			return FontRef{}, errors.New(errors.ErrCodeNotFound, "font %q not indexed", name)
		}
		return FontRef{}, err
	}
	return ref, nil
}

// List returns every indexed entry ordered by name.
func (x *Index) List(ctx context.Context) ([]Entry, error) {
	rows, err := x.db.QueryContext(ctx, `
        SELECT name, path, idx, modified FROM fonts ORDER BY name COLLATE NOCASE
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var modified int64
		if err := rows.Scan(&e.Name, &e.Path, &e.Index, &modified); err != nil {
			return nil, err
		}
		e.Modified = time.Unix(modified, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Names returns the indexed names with the [Preferred] faces first.
func (x *Index) Names(ctx context.Context) ([]string, error) {
	entries, err := x.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return Order(names), nil
}

// Count returns the number of indexed names.
func (x *Index) Count(ctx context.Context) (int, error) {
	var n int
	err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fonts`).Scan(&n)
	return n, err
}
