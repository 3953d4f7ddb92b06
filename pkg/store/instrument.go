package store

import (
	"context"
	"time"

	"github.com/matzehuels/spaceforge/pkg/observability"
)

// Instrument wraps st so every call is reported to the registered
// observability store hooks.
func Instrument(st Store) Store {
	if _, ok := st.(instrumented); ok {
		return st
	}
	return instrumented{st}
}

type instrumented struct {
	Store
}

func (s instrumented) observe(ctx context.Context, op string, start time.Time, err error) {
	observability.Store().OnStoreOp(ctx, op, time.Since(start), err)
}

func (s instrumented) Save(ctx context.Context, rec *Record) error {
	start := time.Now()
	err := s.Store.Save(ctx, rec)
	s.observe(ctx, "save", start, err)
	return err
}

func (s instrumented) Get(ctx context.Context, id string) (*Record, error) {
	start := time.Now()
	rec, err := s.Store.Get(ctx, id)
	s.observe(ctx, "get", start, err)
	return rec, err
}

func (s instrumented) List(ctx context.Context) ([]Summary, error) {
	start := time.Now()
	out, err := s.Store.List(ctx)
	s.observe(ctx, "list", start, err)
	return out, err
}

func (s instrumented) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.Store.Delete(ctx, id)
	s.observe(ctx, "delete", start, err)
	return err
}
