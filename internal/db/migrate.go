package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateDensePriorities(db); err != nil {
		return fmt.Errorf("renumbering event priorities: %w", err)
	}
	return nil
}

// migrateDensePriorities rewrites spending_events.priority to 0..n-1 when
// gaps or duplicates are present, keeping the stored relative order.
func migrateDensePriorities(db *sql.DB) error {
	ctx := context.Background()

	var count, maxPriority, distinct int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(priority), -1), COUNT(DISTINCT priority) FROM spending_events`,
	).Scan(&count, &maxPriority, &distinct)
	if err != nil {
		return fmt.Errorf("checking priorities: %w", err)
	}
	if count == distinct && maxPriority == count-1 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting priority transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, `SELECT id FROM spending_events ORDER BY priority, created_at, id`)
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning event id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating events: %w", err)
	}

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE spending_events SET priority = ? WHERE id = ?`, i, id); err != nil {
			return fmt.Errorf("updating priority of %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing priorities: %w", err)
	}
	committed = true
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS currency_incomes (
		currency_id     TEXT PRIMARY KEY,
		name            TEXT NOT NULL DEFAULT '',
		current_balance REAL NOT NULL DEFAULT 0 CHECK(current_balance >= 0),
		weekly_income   REAL NOT NULL DEFAULT 0 CHECK(weekly_income >= 0),
		growth_rate_pct REAL NOT NULL DEFAULT 0,
		updated_at      TEXT NOT NULL
	)`,

	// locked_to_event_id carries no foreign key: a link to a removed event
	// stays in place and is read back as free-floating.
	`CREATE TABLE IF NOT EXISTS spending_events (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL,
		currency_id        TEXT NOT NULL,
		amount             REAL NOT NULL CHECK(amount > 0),
		duration_days      INTEGER,
		priority           INTEGER NOT NULL DEFAULT 0,
		locked_to_event_id TEXT,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_spending_events_priority ON spending_events(priority)`,
	`CREATE INDEX IF NOT EXISTS idx_spending_events_currency ON spending_events(currency_id)`,

	`CREATE TABLE IF NOT EXISTS planner_settings (
		id              TEXT PRIMARY KEY DEFAULT 'default',
		weeks           INTEGER NOT NULL DEFAULT 52 CHECK(weeks > 0),
		start_date      TEXT,
		week0_proration REAL NOT NULL DEFAULT 1
	)`,

	// Automatic week-0 proration from the weekly reset day
	`ALTER TABLE planner_settings ADD COLUMN auto_proration INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE planner_settings ADD COLUMN reset_weekday INTEGER NOT NULL DEFAULT 1`,
}
