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

// SQLiteCurrencyRepo implements CurrencyRepo using a SQLite database.
type SQLiteCurrencyRepo struct {
	db db.DBTX
}

// NewSQLiteCurrencyRepo creates a new SQLiteCurrencyRepo.
func NewSQLiteCurrencyRepo(conn db.DBTX) *SQLiteCurrencyRepo {
	return &SQLiteCurrencyRepo{db: conn}
}

const currencyColumns = `currency_id, name, current_balance, weekly_income, growth_rate_pct, updated_at`

func (r *SQLiteCurrencyRepo) Upsert(ctx context.Context, c *domain.CurrencyIncome) error {
	c.UpdatedAt = nowUTC()
	query := `INSERT INTO currency_incomes (` + currencyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(currency_id) DO UPDATE SET
			name = excluded.name,
			current_balance = excluded.current_balance,
			weekly_income = excluded.weekly_income,
			growth_rate_pct = excluded.growth_rate_pct,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		c.CurrencyID,
		c.Name,
		c.CurrentBalance,
		c.WeeklyIncome,
		c.GrowthRatePct,
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting currency %s: %w", c.CurrencyID, err)
	}
	return nil
}

func (r *SQLiteCurrencyRepo) GetByID(ctx context.Context, currencyID string) (*domain.CurrencyIncome, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+currencyColumns+` FROM currency_incomes WHERE currency_id = ?`, currencyID)
	c, err := scanCurrency(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("currency %s: %w", currencyID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning currency: %w", err)
	}
	return c, nil
}

func (r *SQLiteCurrencyRepo) List(ctx context.Context) ([]domain.CurrencyIncome, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+currencyColumns+` FROM currency_incomes ORDER BY currency_id`)
	if err != nil {
		return nil, fmt.Errorf("listing currencies: %w", err)
	}
	defer rows.Close()

	var out []domain.CurrencyIncome
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning currency: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *SQLiteCurrencyRepo) Delete(ctx context.Context, currencyID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM currency_incomes WHERE currency_id = ?`, currencyID)
	if err != nil {
		return fmt.Errorf("deleting currency %s: %w", currencyID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting currency %s: %w", currencyID, err)
	}
	if n == 0 {
		return fmt.Errorf("currency %s: %w", currencyID, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCurrency(s scanner) (*domain.CurrencyIncome, error) {
	var c domain.CurrencyIncome
	var updatedAt string
	if err := s.Scan(
		&c.CurrencyID,
		&c.Name,
		&c.CurrentBalance,
		&c.WeeklyIncome,
		&c.GrowthRatePct,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	c.UpdatedAt = parseStamp(updatedAt)
	return &c, nil
}
