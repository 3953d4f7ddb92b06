// Package store persists named layouts.
//
// A [Store] saves, loads, lists and deletes [Record] values. Four backends
// are provided:
//   - memory: in-process map, for tests and ephemeral servers
//   - file: one JSON file per layout, for the CLI
//   - sqlite: a single database file, for a self-hosted server
//   - mongo: a MongoDB collection, for shared deployments
//
// Layouts are stored in the native JSON document format of package io,
// so a stored layout reloads field-for-field.
//
// # Usage
//
//	st, err := store.Open(ctx, store.Config{Backend: "sqlite", Path: "layouts.db"})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	rec := &store.Record{Name: "hall-a", Layout: l}
//	if err := st.Save(ctx, rec); err != nil {
//	    return err
//	}
//	fmt.Println("saved as", rec.ID)
package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/spaceforge/pkg/errors"
	"github.com/matzehuels/spaceforge/pkg/geom"
	spio "github.com/matzehuels/spaceforge/pkg/io"
)

// Record is a stored layout.
type Record struct {
	ID        string
	Name      string
	Layout    *geom.Layout
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary describes a stored layout without its shapes.
type Summary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ShapeCount int       `json:"shape_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store is implemented by every persistence backend. Implementations are
// safe for concurrent use.
type Store interface {
	// Save inserts or updates rec. An empty ID is replaced with a new
	// UUID; ID, CreatedAt and UpdatedAt are written back to rec.
	Save(ctx context.Context, rec *Record) error

	// Get loads a layout. Unknown IDs fail with LAYOUT_NOT_FOUND.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns every layout, most recently updated first.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes a layout. Unknown IDs fail with LAYOUT_NOT_FOUND.
	Delete(ctx context.Context, id string) error

	Close() error
}

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string

	// Path is the directory for the file backend or the database file for
	// sqlite.
	Path string

	MongoURI      string
	MongoDatabase string
}

// Open returns the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		st  Store
		err error
	)
	switch strings.ToLower(cfg.Backend) {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendFile:
		st, err = NewFileStore(cfg.Path)
	case BackendSQLite:
		st, err = OpenSQLite(ctx, cfg.Path)
	case BackendMongo:
		st, err = OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q (want memory, file, sqlite or mongo)", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

// prepare validates rec and stamps identity and timestamps. created is the
// existing creation time when the record is being updated.
func prepare(rec *Record, created time.Time) error {
	if err := errors.ValidateLayoutName(rec.Name); err != nil {
		return err
	}
	if rec.Layout == nil {
		return errors.New(errors.ErrCodeInvalidInput, "layout %q has no content", rec.Name)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	} else if err := errors.ValidateLayoutID(rec.ID); err != nil {
		return err
	}

	t := now()
	switch {
	case !created.IsZero():
		rec.CreatedAt = created
	case rec.CreatedAt.IsZero():
		rec.CreatedAt = t
	}
	rec.UpdatedAt = t
	return nil
}

func encodeLayout(rec *Record) ([]byte, error) {
	data, err := spio.MarshalJSON(spio.NewDocument(rec.Name, rec.Layout))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout %s", rec.ID)
	}
	return data, nil
}

func decodeLayout(id string, data []byte) (*geom.Layout, error) {
	doc, err := spio.UnmarshalJSON(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode layout %s", id)
	}
	return doc.Layout, nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeLayoutNotFound, "layout %s not found", id)
}

func sortSummaries(s []Summary) {
	slices.SortFunc(s, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// String formats s for one-line listings.
func (s Summary) String() string {
	return fmt.Sprintf("%s (%s, %d shapes)", s.Name, s.ID, s.ShapeCount)
}
