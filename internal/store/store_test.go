package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// exerciseStore runs the behaviour every backend has to share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	older := time.UnixMilli(1_700_000_000_000).UTC()
	newer := older.Add(time.Minute)

	if _, err := s.Get(ctx, "drw_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "drw_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete(missing) error = %v, want ErrNotFound", err)
	}

	a := Drawing{ID: "drw_a", Name: "First", Document: []byte("<shapes></shapes>"), UpdatedAt: older}
	b := Drawing{ID: "drw_b", Name: "Second", Document: []byte("<shapes/>"), UpdatedAt: newer}
	for _, d := range []Drawing{a, b} {
		if err := s.Put(ctx, d); err != nil {
			t.Fatalf("Put(%s) error = %v", d.ID, err)
		}
	}

	got, err := s.Get(ctx, "drw_a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != a.Name || string(got.Document) != string(a.Document) || !got.UpdatedAt.Equal(older) {
		t.Errorf("Get() = %+v, want %+v", got, a)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != "drw_b" || list[1].ID != "drw_a" {
		t.Fatalf("List() = %+v, want newest first", list)
	}

	a.Name = "Renamed"
	a.Document = []byte(`<shapes><shape type="circle" x0="0" y0="0" x1="1" y1="1"/></shapes>`)
	a.UpdatedAt = newer.Add(time.Minute)
	if err := s.Put(ctx, a); err != nil {
		t.Fatalf("Put(update) error = %v", err)
	}
	got, err = s.Get(ctx, "drw_a")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Renamed" || string(got.Document) != string(a.Document) {
		t.Errorf("update not visible: %+v", got)
	}

	if err := s.Delete(ctx, "drw_b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "drw_b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(deleted) error = %v", err)
	}
	if list, _ := s.List(ctx); len(list) != 1 {
		t.Errorf("List() after delete = %+v", list)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "drawings"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"", "../escape", "a/b", ".hidden"} {
		if err := s.Put(context.Background(), Drawing{ID: id}); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Put(%q) error = %v, want ErrInvalidID", id, err)
		}
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(context.Background(), Drawing{ID: "drw_x", Document: []byte("<shapes/>")}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir holds %v, want exactly the document and its metadata", names)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "db", "planer.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("PLANER_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("PLANER_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := NewPostgresStore(ctx, url)
	if err != nil {
		t.Fatalf("NewPostgresStore() error = %v", err)
	}
	defer s.Close()
	if _, err := s.pool.Exec(ctx, `TRUNCATE drawings`); err != nil {
		t.Fatal(err)
	}
	exerciseStore(t, s)
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Options{Driver: "mongo"}); err == nil {
		t.Error("Open(mongo) succeeded")
	}
	s, err := Open(context.Background(), Options{Driver: "file", Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("Open(file) = %T", s)
	}
}
