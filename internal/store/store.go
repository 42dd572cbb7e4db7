// Package store persists drawing documents.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound  = errors.New("drawing not found")
	ErrInvalidID = errors.New("invalid drawing id")
)

// Drawing is one stored document with its metadata. List leaves
// Document empty.
type Drawing struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  []byte    `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is implemented by every backend.
type Store interface {
	Put(ctx context.Context, d Drawing) error
	Get(ctx context.Context, id string) (*Drawing, error)
	List(ctx context.Context) ([]Drawing, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver      string // "file", "postgres" or "sqlite"
	Dir         string
	DatabaseURL string
	SQLitePath  string
}

// Open creates the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", "file":
		return NewFileStore(opts.Dir)
	case "postgres":
		return NewPostgresStore(ctx, opts.DatabaseURL)
	case "sqlite":
		return NewSQLiteStore(ctx, opts.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

const schema = `CREATE TABLE IF NOT EXISTS drawings (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	document   %s NOT NULL,
	updated_at %s NOT NULL
)`

const timeLayout = time.RFC3339Nano

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
