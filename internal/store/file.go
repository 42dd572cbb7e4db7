package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileStore keeps every drawing as <id>.xml next to an <id>.json
// metadata file.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create drawings dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

type fileMeta struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UpdatedAt string `json:"updatedAt"`
}

func (s *FileStore) paths(id string) (doc, meta string, err error) {
	if id == "" || filepath.Base(id) != id || strings.HasPrefix(id, ".") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(s.dir, id+".xml"), filepath.Join(s.dir, id+".json"), nil
}

func (s *FileStore) Put(ctx context.Context, d Drawing) error {
	docPath, metaPath, err := s.paths(d.ID)
	if err != nil {
		return err
	}
	meta, err := json.MarshalIndent(fileMeta{
		ID:        d.ID,
		Name:      d.Name,
		UpdatedAt: d.UpdatedAt.UTC().Format(timeLayout),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(docPath, d.Document); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if err := writeFileAtomic(metaPath, meta); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Drawing, error) {
	docPath, metaPath, err := s.paths(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	d, err := readMeta(metaPath)
	if err != nil {
		return nil, err
	}
	d.Document, err = os.ReadFile(docPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read document: %w", err)
	}
	return d, nil
}

func (s *FileStore) List(ctx context.Context) ([]Drawing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}

	drawings := make([]Drawing, 0, len(matches))
	for _, m := range matches {
		d, err := readMeta(m)
		if err != nil {
			return nil, err
		}
		drawings = append(drawings, *d)
	}
	sort.Slice(drawings, func(i, j int) bool {
		return drawings[i].UpdatedAt.After(drawings[j].UpdatedAt)
	})
	return drawings, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	docPath, metaPath, err := s.paths(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(metaPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete metadata: %w", err)
	}
	if err := os.Remove(docPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func readMeta(path string) (*Drawing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var m fileMeta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", filepath.Base(path), err)
	}
	d := &Drawing{ID: m.ID, Name: m.Name}
	if d.UpdatedAt, err = parseTime(m.UpdatedAt); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", filepath.Base(path), err)
	}
	return d, nil
}

// writeFileAtomic replaces path only once the new content is fully on
// disk, so a failed write keeps the previous version.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
