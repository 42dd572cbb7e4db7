package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps drawings in a PostgreSQL table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and makes sure the schema
// exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, fmt.Sprintf(schema, "BYTEA", "TIMESTAMPTZ")); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Put(ctx context.Context, d Drawing) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO drawings (id, name, document, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
	`, d.ID, d.Name, d.Document, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("put drawing: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Drawing, error) {
	var d Drawing
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, document, updated_at
		FROM drawings
		WHERE id = $1
	`, id).Scan(&d.ID, &d.Name, &d.Document, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get drawing: %w", err)
	}
	return &d, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Drawing, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, updated_at
		FROM drawings
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}

	drawings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Drawing, error) {
		var d Drawing
		err := row.Scan(&d.ID, &d.Name, &d.UpdatedAt)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan drawings: %w", err)
	}
	return drawings, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM drawings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete drawing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
