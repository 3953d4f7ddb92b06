package store

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/spaceforge/pkg/errors"
)

type memoryEntry struct {
	name       string
	data       []byte
	shapeCount int
	createdAt  time.Time
	updatedAt  time.Time
}

// MemoryStore keeps encoded layouts in a map. Records are copied on the
// way in and out, so callers never share a layout with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Save(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var created time.Time
	if e, ok := s.entries[rec.ID]; ok && rec.ID != "" {
		created = e.createdAt
	}
	if err := prepare(rec, created); err != nil {
		return err
	}
	data, err := encodeLayout(rec)
	if err != nil {
		return err
	}
	s.entries[rec.ID] = memoryEntry{
		name:       rec.Name,
		data:       data,
		shapeCount: rec.Layout.Len(),
		createdAt:  rec.CreatedAt,
		updatedAt:  rec.UpdatedAt,
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	if err := errors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}

	l, err := decodeLayout(id, e.data)
	if err != nil {
		return nil, err
	}
	return &Record{ID: id, Name: e.name, Layout: l, CreatedAt: e.createdAt, UpdatedAt: e.updatedAt}, nil
}

func (s *MemoryStore) List(context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.entries))
	for id, e := range s.entries {
		out = append(out, Summary{ID: id, Name: e.name, ShapeCount: e.shapeCount, UpdatedAt: e.updatedAt})
	}
	sortSummaries(out)
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return notFound(id)
	}
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
