// Package sqlite implements the token statistics store on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/istok/pkg/istok/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and initializes
// the schema.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	note TEXT,
	started_at TEXT NOT NULL,
	files INTEGER NOT NULL,
	tokens INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS token_counts (
	token TEXT NOT NULL,
	kind TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY (token, kind)
);

CREATE INDEX IF NOT EXISTS idx_token_counts_kind ON token_counts(kind, count DESC);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *sqliteStore) RecordRun(ctx context.Context, r store.Run) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, note, started_at, files, tokens)
VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Note, r.StartedAt.UTC().Format("2006-01-02T15:04:05Z"), r.Files, r.Tokens)
	return err
}

func (s *sqliteStore) AddCounts(ctx context.Context, counts []store.TokenCount) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO token_counts (token, kind, count) VALUES (?, ?, ?)
ON CONFLICT(token, kind) DO UPDATE SET count = count + excluded.count`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, c := range counts {
		if _, err := stmt.ExecContext(ctx, c.Token, c.Kind, c.Count); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) TopTokens(ctx context.Context, kind string, k int) ([]store.TokenCount, error) {
	query := `
SELECT token, kind, count FROM token_counts
WHERE (? = '' OR kind = ?)
ORDER BY count DESC, token ASC
LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, kind, kind, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []store.TokenCount
	for rows.Next() {
		var c store.TokenCount
		if err := rows.Scan(&c.Token, &c.Kind, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, note, started_at, files, tokens FROM runs
ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []store.Run
	for rows.Next() {
		var r store.Run
		var started string
		if err := rows.Scan(&r.ID, &r.Note, &started, &r.Files, &r.Tokens); err != nil {
			return nil, err
		}
		r.StartedAt = parseTime(started)
		out = append(out, r)
	}
	return out, rows.Err()
}

func parseTime(s string) time.Time {
	t, _ := time.Parse("2006-01-02T15:04:05Z", s)
	return t
}
