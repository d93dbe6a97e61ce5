package domain

import (
	"fmt"
	"time"
)

// Growth rate bounds, in percent per week.
const (
	MinGrowthRatePct = -100.0
	MaxGrowthRatePct = 1000.0
)

// CurrencyIncome describes how one currency's balance evolves week to week.
type CurrencyIncome struct {
	CurrencyID     string
	Name           string
	CurrentBalance float64
	WeeklyIncome   float64
	GrowthRatePct  float64

	UpdatedAt time.Time
}

// DisplayName returns Name, falling back to the currency id.
func (c CurrencyIncome) DisplayName() string {
	return CoalesceStr(c.Name, c.CurrencyID)
}

// Validate checks the construction-time invariants of an income config.
func (c CurrencyIncome) Validate() error {
	if c.CurrencyID == "" {
		return fmt.Errorf("currency id is required")
	}
	if c.CurrentBalance < 0 {
		return fmt.Errorf("currency %s: balance must be >= 0 (got %g)", c.CurrencyID, c.CurrentBalance)
	}
	if c.WeeklyIncome < 0 {
		return fmt.Errorf("currency %s: weekly income must be >= 0 (got %g)", c.CurrencyID, c.WeeklyIncome)
	}
	if c.GrowthRatePct < MinGrowthRatePct || c.GrowthRatePct > MaxGrowthRatePct {
		return fmt.Errorf("currency %s: growth rate %g%% outside [%g, %g]",
			c.CurrencyID, c.GrowthRatePct, MinGrowthRatePct, MaxGrowthRatePct)
	}
	return nil
}
