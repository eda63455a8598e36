// Package storage provides SQLite-backed watchlist persistence.
package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"

	"github.com/aayush84339/smart-movie-recommendor/internal/domain/entry"
)

const schema = `
CREATE TABLE IF NOT EXISTS watchlist_entries (
    position      INTEGER PRIMARY KEY,
    imdb_id       TEXT NOT NULL UNIQUE,
    title         TEXT NOT NULL DEFAULT '',
    year          TEXT NOT NULL DEFAULT '',
    poster        TEXT NOT NULL DEFAULT '',
    duration_text TEXT NOT NULL DEFAULT '',
    rating_text   TEXT NOT NULL DEFAULT '',
    saved_at      TEXT NOT NULL
)`

// Store persists the watchlist in a SQLite database. It implements
// watchlist.Repository.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the watchlist database.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "create storage directory")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, errors.Wrapf(execErr, "apply pragma %q", pragma)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LoadAll returns all persisted entries in insertion order.
func (s *Store) LoadAll(ctx context.Context) ([]entry.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT imdb_id, title, year, poster, duration_text, rating_text
        FROM watchlist_entries
        ORDER BY position`)
	if err != nil {
		return nil, errors.Wrap(err, "query watchlist")
	}
	defer rows.Close()

	var entries []entry.Entry
	for rows.Next() {
		var e entry.Entry
		if err := rows.Scan(&e.ID, &e.Title, &e.Year, &e.Poster, &e.DurationText, &e.RatingText); err != nil {
			return nil, errors.Wrap(err, "scan watchlist row")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate watchlist rows")
	}

	return entries, nil
}

// SaveAll replaces the persisted watchlist with the given snapshot in a
// single transaction, keeping positions dense in slice order.
func (s *Store) SaveAll(ctx context.Context, entries []entry.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM watchlist_entries`); err != nil {
		return errors.Wrap(err, "clear watchlist")
	}

	savedAt := time.Now().UTC().Format(time.RFC3339Nano)
	for i, e := range entries {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO watchlist_entries (
                position, imdb_id, title, year, poster, duration_text, rating_text, saved_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i, e.ID, e.Title, e.Year, e.Poster, e.DurationText, e.RatingText, savedAt,
		)
		if err != nil {
			return errors.Wrapf(err, "insert entry %s", e.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit watchlist")
	}
	return nil
}
