package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/google/uuid"
)

// Plan is a converted import ready for persistence.
type Plan struct {
	// Settings is nil when the file carries no settings block.
	Settings   *domain.PlannerSettings
	Currencies []domain.CurrencyIncome
	// Events carry fresh ids and priorities 0..n-1 in file order.
	Events []domain.SpendingEvent
}

// Convert transforms a validated PlanSchema into domain objects. base is the
// settings the file's settings block is applied on top of.
// Call ValidatePlanSchema first; Convert assumes the schema is valid.
func Convert(schema *PlanSchema, base domain.PlannerSettings) (*Plan, error) {
	now := time.Now().UTC()
	plan := &Plan{}

	if schema.Settings != nil {
		s, err := applySettings(base, schema.Settings)
		if err != nil {
			return nil, err
		}
		plan.Settings = &s
	}

	for _, c := range schema.Currencies {
		plan.Currencies = append(plan.Currencies, domain.CurrencyIncome{
			CurrencyID:     strings.TrimSpace(c.ID),
			Name:           c.Name,
			CurrentBalance: c.Balance.InexactFloat64(),
			WeeklyIncome:   c.WeeklyIncome.InexactFloat64(),
			GrowthRatePct:  c.GrowthRatePct.InexactFloat64(),
			UpdatedAt:      now,
		})
	}

	refMap := make(map[string]string) // ref -> UUID
	for i, e := range schema.Events {
		realID := uuid.New().String()
		refMap[e.Ref] = realID

		var lockedTo *string
		if e.LockedToRef != nil && *e.LockedToRef != "" {
			pid, ok := refMap[*e.LockedToRef]
			if !ok {
				return nil, fmt.Errorf("locked_to_ref %q not found for event %q", *e.LockedToRef, e.Ref)
			}
			lockedTo = &pid
		}

		plan.Events = append(plan.Events, domain.SpendingEvent{
			ID:              realID,
			Name:            strings.TrimSpace(e.Name),
			CurrencyID:      e.Currency,
			Amount:          e.Amount.InexactFloat64(),
			DurationDays:    e.DurationDays,
			Priority:        i,
			LockedToEventID: lockedTo,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	return plan, nil
}

func applySettings(s domain.PlannerSettings, in *SettingsImport) (domain.PlannerSettings, error) {
	s.Weeks = domain.IntFromPtrWithDefault(s.Weeks, in.Weeks)
	s.Week0Proration = domain.Float64FromPtrWithDefault(s.Week0Proration, in.Week0Proration)
	if in.AutoProration != nil {
		s.AutoProration = *in.AutoProration
	}
	if in.StartDate != nil && *in.StartDate != "" {
		t, err := time.Parse(domain.DateLayout, *in.StartDate)
		if err != nil {
			return s, fmt.Errorf("parsing start_date: %w", err)
		}
		s.StartDate = &t
	}
	if in.ResetWeekday != nil {
		d, err := domain.ParseWeekday(*in.ResetWeekday)
		if err != nil {
			return s, fmt.Errorf("parsing reset_weekday: %w", err)
		}
		s.ResetWeekday = d
	}
	return s, nil
}
