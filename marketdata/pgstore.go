package marketdata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// FixingStore persists and serves index fixings from Postgres.
type FixingStore struct {
	db *sql.DB
}

// OpenFixingStore connects to Postgres with the given DSN and verifies the
// connection.
func OpenFixingStore(ctx context.Context, dsn string) (*FixingStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open fixing store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping fixing store: %w", err)
	}
	return &FixingStore{db: db}, nil
}

// NewFixingStore wraps an existing connection pool, mostly for tests.
func NewFixingStore(db *sql.DB) *FixingStore { return &FixingStore{db: db} }

// Close releases the underlying pool.
func (s *FixingStore) Close() error { return s.db.Close() }

// EnsureSchema creates the fixings table if it does not exist.
func (s *FixingStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS index_fixings (
    index_name  TEXT             NOT NULL,
    fixing_date DATE             NOT NULL,
    fixing      DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (index_name, fixing_date)
)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure fixings schema: %w", err)
	}
	return nil
}

// Upsert stores a batch of fixings, overwriting existing values for the
// same index and date.
func (s *FixingStore) Upsert(ctx context.Context, fixings []Fixing) error {
	const stmt = `
INSERT INTO index_fixings (index_name, fixing_date, fixing)
VALUES ($1, $2, $3)
ON CONFLICT (index_name, fixing_date) DO UPDATE SET fixing = EXCLUDED.fixing`

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin fixings upsert: %w", err)
	}
	for _, f := range fixings {
		if _, err := tx.ExecContext(ctx, stmt, f.Index, f.Date, f.Value); err != nil {
			tx.Rollback()
			return fmt.Errorf("upsert fixing %s %s: %w", f.Index, f.Date.Format("2006-01-02"), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fixings upsert: %w", err)
	}
	return nil
}

// Fixing returns the fixing of indexName on date. sql.ErrNoRows passes
// through wrapped so callers can detect a missing fixing.
func (s *FixingStore) Fixing(ctx context.Context, indexName string, date time.Time) (float64, error) {
	const q = `SELECT fixing FROM index_fixings WHERE index_name = $1 AND fixing_date = $2`
	var v float64
	if err := s.db.QueryRowContext(ctx, q, indexName, date).Scan(&v); err != nil {
		return 0, fmt.Errorf("fixing %s %s: %w", indexName, date.Format("2006-01-02"), err)
	}
	return v, nil
}

// History returns all fixings of indexName in [from, to], ordered by date.
func (s *FixingStore) History(ctx context.Context, indexName string, from, to time.Time) ([]Fixing, error) {
	const q = `
SELECT fixing_date, fixing FROM index_fixings
WHERE index_name = $1 AND fixing_date BETWEEN $2 AND $3
ORDER BY fixing_date`
	rows, err := s.db.QueryContext(ctx, q, indexName, from, to)
	if err != nil {
		return nil, fmt.Errorf("fixing history %s: %w", indexName, err)
	}
	defer rows.Close()

	var out []Fixing
	for rows.Next() {
		f := Fixing{Index: indexName}
		if err := rows.Scan(&f.Date, &f.Value); err != nil {
			return nil, fmt.Errorf("scan fixing row: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fixing rows: %w", err)
	}
	return out, nil
}
