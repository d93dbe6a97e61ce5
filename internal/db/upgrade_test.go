package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_LegacySchema simulates a database written before
// automatic proration existed and before priorities were kept dense.
func TestMigrate_UpgradePath_LegacySchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	legacy := []string{
		`CREATE TABLE currency_incomes (
			currency_id     TEXT PRIMARY KEY,
			name            TEXT NOT NULL DEFAULT '',
			current_balance REAL NOT NULL DEFAULT 0,
			weekly_income   REAL NOT NULL DEFAULT 0,
			growth_rate_pct REAL NOT NULL DEFAULT 0,
			updated_at      TEXT NOT NULL
		)`,
		`CREATE TABLE spending_events (
			id                 TEXT PRIMARY KEY,
			name               TEXT NOT NULL,
			currency_id        TEXT NOT NULL,
			amount             REAL NOT NULL,
			duration_days      INTEGER,
			priority           INTEGER NOT NULL DEFAULT 0,
			locked_to_event_id TEXT,
			created_at         TEXT NOT NULL,
			updated_at         TEXT NOT NULL
		)`,
		`CREATE TABLE planner_settings (
			id              TEXT PRIMARY KEY DEFAULT 'default',
			weeks           INTEGER NOT NULL DEFAULT 52,
			start_date      TEXT,
			week0_proration REAL NOT NULL DEFAULT 1
		)`,
		`INSERT INTO planner_settings (id, weeks, week0_proration) VALUES ('default', 26, 0.5)`,
	}
	for _, stmt := range legacy {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	insertEvent(t, db, "third", 40, "2026-01-03T00:00:00Z")
	insertEvent(t, db, "first", 10, "2026-01-01T00:00:00Z")
	insertEvent(t, db, "second", 10, "2026-01-02T00:00:00Z")

	require.NoError(t, Migrate(db))

	var weeks, auto, reset int
	var proration float64
	err = db.QueryRow(
		`SELECT weeks, week0_proration, auto_proration, reset_weekday FROM planner_settings WHERE id = 'default'`,
	).Scan(&weeks, &proration, &auto, &reset)
	require.NoError(t, err)
	assert.Equal(t, 26, weeks, "stored settings survive")
	assert.Equal(t, 0.5, proration)
	assert.Equal(t, 0, auto, "new columns take their defaults")
	assert.Equal(t, 1, reset)

	assert.Equal(t, []string{"first", "second", "third"}, eventOrder(t, db))
	var maxPriority int
	require.NoError(t, db.QueryRow(`SELECT MAX(priority) FROM spending_events`).Scan(&maxPriority))
	assert.Equal(t, 2, maxPriority, "priorities are renumbered densely")

	var idx string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name='idx_spending_events_priority'`).Scan(&idx)
	require.NoError(t, err)

	require.NoError(t, Migrate(db), "second run is a no-op")
}
