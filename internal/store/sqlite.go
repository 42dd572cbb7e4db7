package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// SQLiteStore keeps drawings in a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// makes sure the schema exists.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, fmt.Sprintf(schema, "BLOB", "INTEGER")); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, d Drawing) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO drawings (id, name, document, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET
            name = excluded.name,
            document = excluded.document,
            updated_at = excluded.updated_at
    `, d.ID, d.Name, d.Document, d.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("put drawing: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Drawing, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, name, document, updated_at
        FROM drawings
        WHERE id = ?
    `, id)

	var d Drawing
	var updated int64
	if err := row.Scan(&d.ID, &d.Name, &d.Document, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get drawing: %w", err)
	}
	d.UpdatedAt = time.UnixMilli(updated).UTC()
	return &d, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Drawing, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, updated_at
        FROM drawings
        ORDER BY updated_at DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	defer rows.Close()

	var drawings []Drawing
	for rows.Next() {
		var d Drawing
		var updated int64
		if err := rows.Scan(&d.ID, &d.Name, &updated); err != nil {
			return nil, fmt.Errorf("scan drawing: %w", err)
		}
		d.UpdatedAt = time.UnixMilli(updated).UTC()
		drawings = append(drawings, d)
	}
	return drawings, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM drawings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete drawing: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete drawing: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
