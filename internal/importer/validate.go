package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/shopspring/decimal"
)

// ValidatePlanSchema checks the import schema for errors before conversion.
// knownCurrencies lists currencies already stored, which events may use
// without redeclaring them. Returns a slice of all validation errors found.
func ValidatePlanSchema(schema *PlanSchema, knownCurrencies ...string) []error {
	var errs []error

	errs = append(errs, validateSettings(schema.Settings)...)

	currencies := make(map[string]bool)
	for _, id := range knownCurrencies {
		currencies[id] = true
	}
	errs = append(errs, validateCurrencies(schema.Currencies, currencies)...)
	errs = append(errs, validateEvents(schema.Events, currencies)...)

	return errs
}

func validateSettings(s *SettingsImport) []error {
	if s == nil {
		return nil
	}
	var errs []error

	if s.Weeks != nil && *s.Weeks <= 0 {
		errs = append(errs, fmt.Errorf("settings.weeks must be positive"))
	}
	errs = append(errs, validateOptionalDate("settings.start_date", s.StartDate)...)
	if s.Week0Proration != nil && (*s.Week0Proration <= 0 || *s.Week0Proration > 1) {
		errs = append(errs, fmt.Errorf("settings.week0_proration must be in (0, 1] (got %g)", *s.Week0Proration))
	}
	if s.ResetWeekday != nil {
		if _, err := domain.ParseWeekday(*s.ResetWeekday); err != nil {
			errs = append(errs, fmt.Errorf("settings.reset_weekday: %w", err))
		}
	}

	return errs
}

func validateCurrencies(items []CurrencyImport, ids map[string]bool) []error {
	var errs []error
	declared := make(map[string]bool)

	for i, c := range items {
		prefix := fmt.Sprintf("currencies[%d]", i)

		if strings.TrimSpace(c.ID) == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if declared[c.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, c.ID))
		} else {
			declared[c.ID] = true
			ids[c.ID] = true
		}

		if c.Balance.IsNegative() {
			errs = append(errs, fmt.Errorf("%s.balance must be >= 0", prefix))
		}
		if c.WeeklyIncome.IsNegative() {
			errs = append(errs, fmt.Errorf("%s.weekly_income must be >= 0", prefix))
		}
		if c.GrowthRatePct.LessThan(decimal.NewFromFloat(domain.MinGrowthRatePct)) ||
			c.GrowthRatePct.GreaterThan(decimal.NewFromFloat(domain.MaxGrowthRatePct)) {
			errs = append(errs, fmt.Errorf("%s.growth_rate_pct %s outside [%g, %g]",
				prefix, c.GrowthRatePct, domain.MinGrowthRatePct, domain.MaxGrowthRatePct))
		}
	}

	return errs
}

func validateEvents(items []EventImport, currencies map[string]bool) []error {
	var errs []error
	refs := make(map[string]bool)

	for i, e := range items {
		prefix := fmt.Sprintf("events[%d]", i)

		if e.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[e.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, e.Ref))
		}

		if strings.TrimSpace(e.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if e.Currency == "" {
			errs = append(errs, fmt.Errorf("%s.currency is required", prefix))
		} else if !currencies[e.Currency] {
			errs = append(errs, fmt.Errorf("%s.currency: %q is not declared in currencies", prefix, e.Currency))
		}
		if !e.Amount.IsPositive() {
			errs = append(errs, fmt.Errorf("%s.amount must be positive", prefix))
		}
		if e.DurationDays != nil && *e.DurationDays < 0 {
			errs = append(errs, fmt.Errorf("%s.duration_days must be >= 0", prefix))
		}

		if e.LockedToRef != nil && *e.LockedToRef != "" {
			switch {
			case *e.LockedToRef == e.Ref:
				errs = append(errs, fmt.Errorf("%s.locked_to_ref: event cannot be locked to itself", prefix))
			case !refs[*e.LockedToRef]:
				errs = append(errs, fmt.Errorf("%s.locked_to_ref: ref %q not found (must appear earlier in events list)", prefix, *e.LockedToRef))
			}
		}

		if e.Ref != "" {
			refs[e.Ref] = true
		}
	}

	return errs
}

func validateOptionalDate(field string, dateStr *string) []error {
	if dateStr == nil || *dateStr == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, *dateStr); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *dateStr)}
	}
	return nil
}
