package importer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

// PlanSchema is the top-level JSON structure for plan import.
type PlanSchema struct {
	Settings   *SettingsImport  `json:"settings,omitempty"`
	Currencies []CurrencyImport `json:"currencies"`
	Events     []EventImport    `json:"events"`
}

// SettingsImport overrides stored planner settings when present.
type SettingsImport struct {
	Weeks          *int     `json:"weeks,omitempty"`
	StartDate      *string  `json:"start_date,omitempty"`
	Week0Proration *float64 `json:"week0_proration,omitempty"`
	AutoProration  *bool    `json:"auto_proration,omitempty"`
	ResetWeekday   *string  `json:"reset_weekday,omitempty"`
}

// CurrencyImport defines one income config. Amounts accept JSON numbers
// or quoted decimal strings.
type CurrencyImport struct {
	ID            string          `json:"id"`
	Name          string          `json:"name,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	WeeklyIncome  decimal.Decimal `json:"weekly_income"`
	GrowthRatePct decimal.Decimal `json:"growth_rate_pct"`
}

// EventImport defines one queued event. Array order is queue order;
// LockedToRef must name an event that appears earlier.
type EventImport struct {
	Ref          string          `json:"ref"`
	Name         string          `json:"name"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	DurationDays *int            `json:"duration_days,omitempty"`
	LockedToRef  *string         `json:"locked_to_ref,omitempty"`
}

// LoadPlanSchema reads and parses a plan import JSON file.
func LoadPlanSchema(path string) (*PlanSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema PlanSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
