package repository

import (
	"context"

	"github.com/alexanderramin/coinplan/internal/domain"
)

type CurrencyRepo interface {
	Upsert(ctx context.Context, c *domain.CurrencyIncome) error
	GetByID(ctx context.Context, currencyID string) (*domain.CurrencyIncome, error)
	List(ctx context.Context) ([]domain.CurrencyIncome, error)
	Delete(ctx context.Context, currencyID string) error
}

// EventRepo stores the spending queue. The queue is always written as a
// whole so priorities stay dense.
type EventRepo interface {
	ListQueue(ctx context.Context) ([]domain.SpendingEvent, error)
	GetByID(ctx context.Context, id string) (*domain.SpendingEvent, error)
	ReplaceQueue(ctx context.Context, q []domain.SpendingEvent) error
	CountByCurrency(ctx context.Context, currencyID string) (int, error)
}

type SettingsRepo interface {
	Get(ctx context.Context) (*domain.PlannerSettings, error)
	Upsert(ctx context.Context, s *domain.PlannerSettings) error
}
