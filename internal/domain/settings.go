package domain

import (
	"fmt"
	"strings"
	"time"
)

const DefaultHorizonWeeks = 52

// PlannerSettings holds the stored scheduling parameters.
type PlannerSettings struct {
	ID    string
	Weeks int
	// StartDate pins the timeline start; nil means "today".
	StartDate *time.Time
	// Week0Proration scales week 0 income. Ignored when AutoProration is set.
	Week0Proration float64
	AutoProration  bool
	ResetWeekday   time.Weekday
}

// DefaultPlannerSettings returns the settings used before anything is stored.
func DefaultPlannerSettings() PlannerSettings {
	return PlannerSettings{
		ID:             "default",
		Weeks:          DefaultHorizonWeeks,
		Week0Proration: 1,
		ResetWeekday:   time.Monday,
	}
}

// EffectiveStart resolves the timeline start date relative to now.
func (s PlannerSettings) EffectiveStart(now time.Time) time.Time {
	if s.StartDate != nil {
		return TruncateDay(*s.StartDate)
	}
	return TruncateDay(now)
}

// EffectiveProration resolves the week-0 proration factor relative to now.
func (s PlannerSettings) EffectiveProration(now time.Time) float64 {
	if s.AutoProration {
		return ProrationForDate(now, s.ResetWeekday)
	}
	if s.Week0Proration <= 0 || s.Week0Proration > 1 {
		return 1
	}
	return s.Week0Proration
}

func (s PlannerSettings) Validate() error {
	if s.Weeks <= 0 {
		return fmt.Errorf("weeks must be positive (got %d)", s.Weeks)
	}
	if !s.AutoProration && (s.Week0Proration <= 0 || s.Week0Proration > 1) {
		return fmt.Errorf("week 0 proration must be in (0, 1] (got %g)", s.Week0Proration)
	}
	return nil
}

// ParseWeekday maps a lower-case English weekday name to time.Weekday.
func ParseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
