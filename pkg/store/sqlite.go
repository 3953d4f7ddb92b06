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

	sferrors "github.com/matzehuels/spaceforge/pkg/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS layouts (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    data        TEXT NOT NULL,
    shape_count INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS layouts_updated_at ON layouts (updated_at DESC);
`

// SQLiteStore keeps layouts in a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the
// schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, sferrors.New(sferrors.ErrCodeInvalidInput, "sqlite store needs a database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, sferrors.Wrap(sferrors.ErrCodeStorage, err, "create db dir")
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrCodeStorage, err, "open %s", path)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, sferrors.Wrap(sferrors.ErrCodeStorage, err, "apply schema")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, rec *Record) error {
	if err := prepare(rec, time.Time{}); err != nil {
		return err
	}
	data, err := encodeLayout(rec)
	if err != nil {
		return err
	}

	// created_at is left alone on update; read it back afterwards.
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO layouts (id, name, data, shape_count, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            data = excluded.data,
            shape_count = excluded.shape_count,
            updated_at = excluded.updated_at
    `, rec.ID, rec.Name, string(data), rec.Layout.Len(), formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt))
	if err != nil {
		return sferrors.Wrap(sferrors.ErrCodeStorage, err, "save layout %s", rec.ID)
	}

	var created string
	if err := s.db.QueryRowContext(ctx, `SELECT created_at FROM layouts WHERE id = ?`, rec.ID).Scan(&created); err == nil {
		if t, err := parseTime(created); err == nil {
			rec.CreatedAt = t
		}
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := sferrors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
        SELECT name, data, created_at, updated_at
        FROM layouts
        WHERE id = ?
    `, id)

	var name, data, created, updated string
	if err := row.Scan(&name, &data, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, sferrors.Wrap(sferrors.ErrCodeStorage, err, "load layout %s", id)
	}

	l, err := decodeLayout(id, []byte(data))
	if err != nil {
		return nil, err
	}
	rec := &Record{ID: id, Name: name, Layout: l}
	rec.CreatedAt, _ = parseTime(created)
	rec.UpdatedAt, _ = parseTime(updated)
	return rec, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, shape_count, updated_at FROM layouts`)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrCodeStorage, err, "list layouts")
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		var updated string
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.ShapeCount, &updated); err != nil {
			return nil, sferrors.Wrap(sferrors.ErrCodeStorage, err, "scan layout")
		}
		sum.UpdatedAt, _ = parseTime(updated)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, sferrors.Wrap(sferrors.ErrCodeStorage, err, "list layouts")
	}
	sortSummaries(out)
	return out, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM layouts WHERE id = ?`, id)
	if err != nil {
		return sferrors.Wrap(sferrors.ErrCodeStorage, err, "delete layout %s", id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound(id)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }

var _ Store = (*SQLiteStore)(nil)
