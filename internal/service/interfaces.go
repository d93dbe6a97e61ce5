package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/alexanderramin/coinplan/internal/importer"
	"github.com/alexanderramin/coinplan/internal/queue"
)

type CurrencyService interface {
	Set(ctx context.Context, c *domain.CurrencyIncome) error
	Get(ctx context.Context, currencyID string) (*domain.CurrencyIncome, error)
	List(ctx context.Context) ([]domain.CurrencyIncome, error)
	// Remove refuses while queued events still spend the currency.
	Remove(ctx context.Context, currencyID string) error
}

// QueueService applies queue operations to the stored queue. Each mutation
// loads the queue, applies a pure queue operation and writes the result back
// in one transaction.
type QueueService interface {
	List(ctx context.Context) ([]domain.SpendingEvent, error)
	// Resolve finds an event by id or by 1-based position written as "#n".
	Resolve(ctx context.Context, ref string) (*domain.SpendingEvent, error)
	Add(ctx context.Context, e domain.SpendingEvent, lockToPrevious bool) (*domain.SpendingEvent, error)
	Remove(ctx context.Context, id string) error
	Clone(ctx context.Context, id string) (*domain.SpendingEvent, error)
	// Move reorders by 0-based position and reports whether anything moved.
	Move(ctx context.Context, from, to int) (bool, error)
	ToggleChain(ctx context.Context, id string) (queue.ToggleResult, error)
	// Save replaces the stored queue with q after normalizing it.
	Save(ctx context.Context, q []domain.SpendingEvent) error
}

// PlanRequest overrides stored settings for a single timeline run.
type PlanRequest struct {
	Weeks         int
	StartDate     *time.Time
	Proration     *float64
	AutoProration bool
	Now           time.Time
}

// PlanResult is a computed timeline with the inputs that produced it.
type PlanResult struct {
	Data       *domain.TimelineData
	Settings   domain.PlannerSettings
	Proration  float64
	Currencies []domain.CurrencyIncome
	// Warnings lists queue problems that were tolerated, such as locks to
	// missing events.
	Warnings []error
}

type PlanService interface {
	Settings(ctx context.Context) (*domain.PlannerSettings, error)
	SaveSettings(ctx context.Context, s *domain.PlannerSettings) error
	// Resolve applies req on top of the stored settings without saving.
	Resolve(ctx context.Context, req PlanRequest) (*domain.PlannerSettings, error)
	Timeline(ctx context.Context, req PlanRequest) (*PlanResult, error)
}

// ImportResult summarizes an import.
type ImportResult struct {
	CurrencyCount   int
	EventCount      int
	SettingsUpdated bool
	// Skipped names events whose duplicate key already existed.
	Skipped []string
}

type ImportService interface {
	ImportPlan(ctx context.Context, filePath string) (*ImportResult, error)
	ImportPlanFromSchema(ctx context.Context, schema *importer.PlanSchema) (*ImportResult, error)
	ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error)
	ExportCSV(ctx context.Context, w io.Writer) (int, error)
}
