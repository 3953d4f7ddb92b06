package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	sferrors "github.com/matzehuels/spaceforge/pkg/errors"
)

// FileStore keeps one JSON file per layout in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// fileRecord is the on-disk envelope. Layout holds the native document.
type fileRecord struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	ShapeCount int             `json:"shape_count"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Layout     json.RawMessage `json:"layout"`
}

// NewFileStore creates a file-backed store. If baseDir is empty it
// defaults to ~/.config/spaceforge/layouts.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "spaceforge", "layouts")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, sferrors.Wrap(sferrors.ErrCodeStorage, err, "create layout dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the directory holding layout files.
func (s *FileStore) Path() string { return s.baseDir }

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) read(id string) (*fileRecord, error) {
	data, err := os.ReadFile(s.recordPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrCodeStorage, err, "read layout %s", id)
	}
	var fr fileRecord
	if err := json.Unmarshal(data, &fr); err != nil {
		return nil, sferrors.Wrap(sferrors.ErrCodeStorage, err, "parse layout %s", id)
	}
	return &fr, nil
}

func (s *FileStore) Save(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var created time.Time
	if rec.ID != "" && sferrors.ValidateLayoutID(rec.ID) == nil {
		if old, err := s.read(rec.ID); err == nil {
			created = old.CreatedAt
		}
	}
	if err := prepare(rec, created); err != nil {
		return err
	}
	layout, err := encodeLayout(rec)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(fileRecord{
		ID:         rec.ID,
		Name:       rec.Name,
		ShapeCount: rec.Layout.Len(),
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
		Layout:     layout,
	}, "", "  ")
	if err != nil {
		return sferrors.Wrap(sferrors.ErrCodeInternal, err, "marshal layout %s", rec.ID)
	}

	path := s.recordPath(rec.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return sferrors.Wrap(sferrors.ErrCodeStorage, err, "write layout %s", rec.ID)
	}
	if err := os.Rename(tmp, path); err != nil {
		return sferrors.Wrap(sferrors.ErrCodeStorage, err, "write layout %s", rec.ID)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, id string) (*Record, error) {
	if err := sferrors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	fr, err := s.read(id)
	if err != nil {
		return nil, err
	}
	l, err := decodeLayout(id, fr.Layout)
	if err != nil {
		return nil, err
	}
	return &Record{ID: fr.ID, Name: fr.Name, Layout: l, CreatedAt: fr.CreatedAt, UpdatedAt: fr.UpdatedAt}, nil
}

// List reads every layout file. Files that cannot be parsed are skipped.
func (s *FileStore) List(context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrCodeStorage, err, "read layout dir")
	}

	out := []Summary{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		fr, err := s.read(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		out = append(out, Summary{ID: fr.ID, Name: fr.Name, ShapeCount: fr.ShapeCount, UpdatedAt: fr.UpdatedAt})
	}
	sortSummaries(out)
	return out, nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := sferrors.ValidateLayoutID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.recordPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return notFound(id)
	}
	if err != nil {
		return sferrors.Wrap(sferrors.ErrCodeStorage, err, "remove layout %s", id)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
