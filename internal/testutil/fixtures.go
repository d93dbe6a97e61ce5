package testutil

import (
	"time"

	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/google/uuid"
)

// Event options
type EventOption func(*domain.SpendingEvent)

func WithPriority(p int) EventOption {
	return func(e *domain.SpendingEvent) {
		e.Priority = p
	}
}

func WithDurationDays(d int) EventOption {
	return func(e *domain.SpendingEvent) {
		e.DurationDays = &d
	}
}

func WithLockedTo(id string) EventOption {
	return func(e *domain.SpendingEvent) {
		e.LockedToEventID = &id
	}
}

func WithEventID(id string) EventOption {
	return func(e *domain.SpendingEvent) {
		e.ID = id
	}
}

func NewTestEvent(name, currencyID string, amount float64, opts ...EventOption) domain.SpendingEvent {
	now := time.Now().UTC().Truncate(time.Second)
	e := domain.SpendingEvent{
		ID:         uuid.New().String(),
		Name:       name,
		CurrencyID: currencyID,
		Amount:     amount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Income options
type IncomeOption func(*domain.CurrencyIncome)

func WithGrowth(pct float64) IncomeOption {
	return func(c *domain.CurrencyIncome) {
		c.GrowthRatePct = pct
	}
}

func WithCurrencyName(name string) IncomeOption {
	return func(c *domain.CurrencyIncome) {
		c.Name = name
	}
}

func NewTestIncome(currencyID string, balance, weekly float64, opts ...IncomeOption) *domain.CurrencyIncome {
	c := &domain.CurrencyIncome{
		CurrencyID:     currencyID,
		CurrentBalance: balance,
		WeeklyIncome:   weekly,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
