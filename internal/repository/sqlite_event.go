package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/coinplan/internal/db"
	"github.com/alexanderramin/coinplan/internal/domain"
)

// SQLiteEventRepo implements EventRepo using a SQLite database.
type SQLiteEventRepo struct {
	db db.DBTX
}

// NewSQLiteEventRepo creates a new SQLiteEventRepo.
func NewSQLiteEventRepo(conn db.DBTX) *SQLiteEventRepo {
	return &SQLiteEventRepo{db: conn}
}

const eventColumns = `id, name, currency_id, amount, duration_days, priority, locked_to_event_id, created_at, updated_at`

func (r *SQLiteEventRepo) ListQueue(ctx context.Context) ([]domain.SpendingEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM spending_events ORDER BY priority, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var out []domain.SpendingEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *SQLiteEventRepo) GetByID(ctx context.Context, id string) (*domain.SpendingEvent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM spending_events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning event: %w", err)
	}
	return e, nil
}

// ReplaceQueue overwrites the stored queue with q. Run it inside a
// transaction so a failed insert leaves the previous queue in place.
func (r *SQLiteEventRepo) ReplaceQueue(ctx context.Context, q []domain.SpendingEvent) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM spending_events`); err != nil {
		return fmt.Errorf("clearing queue: %w", err)
	}

	now := nowUTC()
	query := `INSERT INTO spending_events (` + eventColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range q {
		e := &q[i]
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		e.UpdatedAt = now
		_, err := r.db.ExecContext(ctx, query,
			e.ID,
			e.Name,
			e.CurrencyID,
			e.Amount,
			nullableIntToValue(e.DurationDays),
			e.Priority,
			nullableStringToValue(e.LockedToEventID),
			e.CreatedAt.Format(time.RFC3339),
			e.UpdatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting event %s: %w", e.ID, err)
		}
	}
	return nil
}

func (r *SQLiteEventRepo) CountByCurrency(ctx context.Context, currencyID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM spending_events WHERE currency_id = ?`, currencyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting events for %s: %w", currencyID, err)
	}
	return n, nil
}

func scanEvent(s scanner) (*domain.SpendingEvent, error) {
	var e domain.SpendingEvent
	var days sql.NullInt64
	var lockedTo sql.NullString
	var createdAt, updatedAt string
	if err := s.Scan(
		&e.ID,
		&e.Name,
		&e.CurrencyID,
		&e.Amount,
		&days,
		&e.Priority,
		&lockedTo,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	e.DurationDays = nullIntToPtr(days)
	e.LockedToEventID = nullStringToPtr(lockedTo)
	e.CreatedAt = parseStamp(createdAt)
	e.UpdatedAt = parseStamp(updatedAt)
	return &e, nil
}
