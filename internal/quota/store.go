// Package quota enforces per-user daily and monthly analysis ceilings backed
// by a local sqlite database.
package quota

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/truthquest/truthquest/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS usage_counters (
	user_id TEXT NOT NULL,
	period  TEXT NOT NULL,
	count   INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, period)
);`

// Store tracks usage counters keyed by UTC calendar day and month
type Store struct {
	db           *sql.DB
	dailyLimit   int
	monthlyLimit int
	now          func() time.Time // Injectable for tests
}

// Open opens (and initializes) the quota database
func Open(cfg model.QuotaConfig) (*Store, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open quota db: %w", err)
	}

	// Serialized access keeps the read-modify-write below atomic even with
	// a single connection pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init quota schema: %w", err)
	}

	return &Store{
		db:           db,
		dailyLimit:   cfg.DailyLimit,
		monthlyLimit: cfg.MonthlyLimit,
		now:          time.Now,
	}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) periods() (day, month string) {
	t := s.now().UTC()
	return "day:" + t.Format("2006-01-02"), "month:" + t.Format("2006-01")
}

// CheckAndReserve atomically checks both ceilings and, when allowed,
// increments both counters in the same transaction. Two concurrent requests
// for the same user cannot both pass a check that should block the second.
func (s *Store) CheckAndReserve(ctx context.Context, userID string) (bool, error) {
	day, month := s.periods()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin quota tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	dayCount, err := countFor(ctx, tx, userID, day)
	if err != nil {
		return false, err
	}
	monthCount, err := countFor(ctx, tx, userID, month)
	if err != nil {
		return false, err
	}

	if dayCount >= s.dailyLimit || monthCount >= s.monthlyLimit {
		return false, nil
	}

	for _, period := range []string{day, month} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO usage_counters (user_id, period, count) VALUES (?, ?, 1)
			 ON CONFLICT (user_id, period) DO UPDATE SET count = count + 1`,
			userID, period,
		); err != nil {
			return false, fmt.Errorf("reserve quota: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit quota tx: %w", err)
	}
	return true, nil
}

// Usage returns the current day and month counters for a user
func (s *Store) Usage(ctx context.Context, userID string) (day int, month int, err error) {
	dayKey, monthKey := s.periods()

	row := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN period = ? THEN count END), 0),
		        COALESCE(SUM(CASE WHEN period = ? THEN count END), 0)
		 FROM usage_counters WHERE user_id = ?`,
		dayKey, monthKey, userID,
	)
	if err := row.Scan(&day, &month); err != nil {
		return 0, 0, fmt.Errorf("read usage: %w", err)
	}
	return day, month, nil
}

func countFor(ctx context.Context, tx *sql.Tx, userID, period string) (int, error) {
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT count FROM usage_counters WHERE user_id = ? AND period = ?`,
		userID, period,
	).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read quota counter: %w", err)
	}
	return count, nil
}
