// ABOUTME: SQLite-backed cache of upstream indicator observations with TTL expiry.
// ABOUTME: Wraps a Source so repeated dashboard queries do not hammer the public API.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultTTL is how long a cached indicator download stays fresh.
const DefaultTTL = time.Hour

// Store caches Source downloads in SQLite. The cache is always rebuildable
// from upstream and serves as a local mirror, not the source of truth.
type Store struct {
	db       *sql.DB
	upstream Source
	ttl      time.Duration
	now      func() time.Time
}

// Open opens or creates the cache database at path and wires it in front of
// the given upstream. Runs the schema to ensure tables exist.
func Open(path string, upstream Source) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS fetches (
			indicator_id INTEGER PRIMARY KEY,
			fetched_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS observations (
			indicator_id INTEGER NOT NULL,
			area_code TEXT NOT NULL,
			area_name TEXT NOT NULL,
			area_type TEXT NOT NULL,
			time_period TEXT NOT NULL,
			value REAL,
			count INTEGER,
			denominator INTEGER
		);

		CREATE INDEX IF NOT EXISTS idx_observations_indicator
			ON observations(indicator_id);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, upstream: upstream, ttl: DefaultTTL, now: time.Now}, nil
}

// SetTTL overrides the cache freshness window.
func (s *Store) SetTTL(ttl time.Duration) {
	s.ttl = ttl
}

// Close closes the cache database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Rows returns all observations for an indicator, from cache when fresh and
// from upstream otherwise. An upstream failure with a stale cache present
// falls back to the stale copy.
func (s *Store) Rows(ctx context.Context, indicatorID int) ([]Row, error) {
	fresh, cached, err := s.cacheState(ctx, indicatorID)
	if err != nil {
		return nil, err
	}
	if fresh {
		return s.load(ctx, indicatorID)
	}

	rows, err := s.upstream.Rows(ctx, indicatorID)
	if err != nil {
		if cached {
			return s.load(ctx, indicatorID)
		}
		return nil, err
	}

	if err := s.save(ctx, indicatorID, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ClearCache drops every cached observation and fetch record.
func (s *Store) ClearCache(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM observations"); err != nil {
		return fmt.Errorf("clear observations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM fetches"); err != nil {
		return fmt.Errorf("clear fetches: %w", err)
	}
	return tx.Commit()
}

func (s *Store) cacheState(ctx context.Context, indicatorID int) (fresh, cached bool, err error) {
	var fetchedAt string
	err = s.db.QueryRowContext(ctx,
		"SELECT fetched_at FROM fetches WHERE indicator_id = ?", indicatorID,
	).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("query fetch record: %w", err)
	}

	t, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return false, false, fmt.Errorf("parse fetch timestamp: %w", err)
	}
	return s.now().Sub(t) < s.ttl, true, nil
}

func (s *Store) load(ctx context.Context, indicatorID int) ([]Row, error) {
	result, err := s.db.QueryContext(ctx,
		`SELECT area_code, area_name, area_type, time_period, value, count, denominator
		 FROM observations WHERE indicator_id = ?`, indicatorID)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer result.Close()

	var rows []Row
	for result.Next() {
		var row Row
		var value sql.NullFloat64
		var count, denominator sql.NullInt64
		if err := result.Scan(&row.AreaCode, &row.AreaName, &row.AreaType, &row.TimePeriod,
			&value, &count, &denominator); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		if value.Valid {
			v := value.Float64
			row.Value = &v
		}
		if count.Valid {
			n := int(count.Int64)
			row.Count = &n
		}
		if denominator.Valid {
			n := int(denominator.Int64)
			row.Denominator = &n
		}
		rows = append(rows, row)
	}
	return rows, result.Err()
}

func (s *Store) save(ctx context.Context, indicatorID int, rows []Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM observations WHERE indicator_id = ?", indicatorID); err != nil {
		return fmt.Errorf("clear old observations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO observations
		 (indicator_id, area_code, area_name, area_type, time_period, value, count, denominator)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		var value any
		if row.Value != nil {
			value = *row.Value
		}
		var count any
		if row.Count != nil {
			count = *row.Count
		}
		var denominator any
		if row.Denominator != nil {
			denominator = *row.Denominator
		}
		if _, err := stmt.ExecContext(ctx, indicatorID,
			row.AreaCode, row.AreaName, row.AreaType, row.TimePeriod,
			value, count, denominator); err != nil {
			return fmt.Errorf("insert observation: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO fetches (indicator_id, fetched_at) VALUES (?, ?)
		 ON CONFLICT(indicator_id) DO UPDATE SET fetched_at = excluded.fetched_at`,
		indicatorID, s.now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("record fetch: %w", err)
	}
	return tx.Commit()
}
