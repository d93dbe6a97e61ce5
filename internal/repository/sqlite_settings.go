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

// SQLiteSettingsRepo implements SettingsRepo using a SQLite database.
type SQLiteSettingsRepo struct {
	db db.DBTX
}

// NewSQLiteSettingsRepo creates a new SQLiteSettingsRepo.
func NewSQLiteSettingsRepo(conn db.DBTX) *SQLiteSettingsRepo {
	return &SQLiteSettingsRepo{db: conn}
}

func (r *SQLiteSettingsRepo) Get(ctx context.Context) (*domain.PlannerSettings, error) {
	query := `SELECT id, weeks, start_date, week0_proration, auto_proration, reset_weekday
		FROM planner_settings WHERE id = 'default'`
	row := r.db.QueryRowContext(ctx, query)

	var s domain.PlannerSettings
	var start sql.NullString
	var auto, reset int
	err := row.Scan(&s.ID, &s.Weeks, &start, &s.Week0Proration, &auto, &reset)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("planner settings: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning planner settings: %w", err)
	}
	s.StartDate = parseNullableTime(start, domain.DateLayout)
	s.AutoProration = intToBool(auto)
	s.ResetWeekday = time.Weekday(reset)
	return &s, nil
}

func (r *SQLiteSettingsRepo) Upsert(ctx context.Context, s *domain.PlannerSettings) error {
	query := `INSERT OR REPLACE INTO planner_settings
		(id, weeks, start_date, week0_proration, auto_proration, reset_weekday)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		domain.CoalesceStr(s.ID, "default"),
		s.Weeks,
		nullableTimeToString(s.StartDate, domain.DateLayout),
		s.Week0Proration,
		boolToInt(s.AutoProration),
		int(s.ResetWeekday),
	)
	if err != nil {
		return fmt.Errorf("upserting planner settings: %w", err)
	}
	return nil
}
