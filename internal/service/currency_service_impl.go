package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/coinplan/internal/db"
	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/alexanderramin/coinplan/internal/repository"
)

type currencyService struct {
	currencies repository.CurrencyRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewCurrencyService(currencies repository.CurrencyRepo, uow db.UnitOfWork, observers ...UseCaseObserver) CurrencyService {
	return &currencyService{
		currencies: currencies,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *currencyService) Set(ctx context.Context, c *domain.CurrencyIncome) (err error) {
	defer observe(ctx, s.observer, "set-currency", time.Now(), map[string]any{"currency": c.CurrencyID}, &err)

	c.CurrencyID = strings.TrimSpace(c.CurrencyID)
	if err = c.Validate(); err != nil {
		return err
	}
	return s.currencies.Upsert(ctx, c)
}

func (s *currencyService) Get(ctx context.Context, currencyID string) (*domain.CurrencyIncome, error) {
	return s.currencies.GetByID(ctx, currencyID)
}

func (s *currencyService) List(ctx context.Context) ([]domain.CurrencyIncome, error) {
	return s.currencies.List(ctx)
}

func (s *currencyService) Remove(ctx context.Context, currencyID string) (err error) {
	defer observe(ctx, s.observer, "remove-currency", time.Now(), map[string]any{"currency": currencyID}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err := repository.NewSQLiteEventRepo(tx).CountByCurrency(ctx, currencyID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("currency %s is spent by %d queued events: %w", currencyID, n, ErrCurrencyInUse)
		}
		return repository.NewSQLiteCurrencyRepo(tx).Delete(ctx, currencyID)
	})
}
