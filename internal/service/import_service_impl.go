package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/coinplan/internal/db"
	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/alexanderramin/coinplan/internal/importer"
	"github.com/alexanderramin/coinplan/internal/queue"
	"github.com/alexanderramin/coinplan/internal/repository"
)

type importService struct {
	currencies repository.CurrencyRepo
	events     repository.EventRepo
	settings   repository.SettingsRepo
	defaults   domain.PlannerSettings
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewImportService(
	currencies repository.CurrencyRepo,
	events repository.EventRepo,
	settings repository.SettingsRepo,
	defaults domain.PlannerSettings,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ImportService {
	return &importService{
		currencies: currencies,
		events:     events,
		settings:   settings,
		defaults:   defaults,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportPlan(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadPlanSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportPlanFromSchema(ctx, schema)
}

func (s *importService) ImportPlanFromSchema(ctx context.Context, schema *importer.PlanSchema) (result *ImportResult, err error) {
	fields := map[string]any{"format": "json"}
	defer observe(ctx, s.observer, "import-plan", time.Now(), fields, &err)

	known, err := s.currencyIDs(ctx)
	if err != nil {
		return nil, err
	}
	if errs := importer.ValidatePlanSchema(schema, known...); len(errs) > 0 {
		return nil, formatValidationErrors("import validation failed", errs)
	}

	base := s.defaults
	if stored, err := s.settings.Get(ctx); err == nil {
		base = *stored
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	plan, err := importer.Convert(schema, base)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	result = &ImportResult{CurrencyCount: len(plan.Currencies)}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if plan.Settings != nil {
			if err := repository.NewSQLiteSettingsRepo(tx).Upsert(ctx, plan.Settings); err != nil {
				return err
			}
			result.SettingsUpdated = true
		}
		currencies := repository.NewSQLiteCurrencyRepo(tx)
		for i := range plan.Currencies {
			if err := currencies.Upsert(ctx, &plan.Currencies[i]); err != nil {
				return err
			}
		}
		return s.mergeInto(ctx, tx, plan.Events, result)
	})
	if err != nil {
		return nil, err
	}
	fields["events"] = result.EventCount
	fields["skipped"] = len(result.Skipped)
	return result, nil
}

func (s *importService) ImportCSV(ctx context.Context, r io.Reader) (result *ImportResult, err error) {
	fields := map[string]any{"format": "csv"}
	defer observe(ctx, s.observer, "import-csv", time.Now(), fields, &err)

	events, errs := importer.ParseEventsCSV(r)
	if len(errs) > 0 {
		return nil, formatValidationErrors("csv import failed", errs)
	}

	known, err := s.currencyIDs(ctx)
	if err != nil {
		return nil, err
	}
	isKnown := make(map[string]bool, len(known))
	for _, id := range known {
		isKnown[id] = true
	}
	for i, e := range events {
		if !isKnown[e.CurrencyID] {
			errs = append(errs, fmt.Errorf("csv row %d: unknown currency %q", i+1, e.CurrencyID))
		}
	}
	if len(errs) > 0 {
		return nil, formatValidationErrors("csv import failed", errs)
	}

	result = &ImportResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return s.mergeInto(ctx, tx, events, result)
	})
	if err != nil {
		return nil, err
	}
	fields["events"] = result.EventCount
	fields["skipped"] = len(result.Skipped)
	return result, nil
}

func (s *importService) ExportCSV(ctx context.Context, w io.Writer) (n int, err error) {
	defer observe(ctx, s.observer, "export-csv", time.Now(), map[string]any{}, &err)

	q, err := s.events.ListQueue(ctx)
	if err != nil {
		return 0, err
	}
	if err = importer.WriteEventsCSV(w, q); err != nil {
		return 0, err
	}
	return len(q), nil
}

// mergeInto appends incoming to the stored queue, skipping events whose
// DedupKey is already queued or appeared earlier in the same import. Locks
// that point at a skipped event are redirected to the event it duplicated.
func (s *importService) mergeInto(ctx context.Context, tx db.DBTX, incoming []domain.SpendingEvent, result *ImportResult) error {
	events := repository.NewSQLiteEventRepo(tx)
	q, err := events.ListQueue(ctx)
	if err != nil {
		return err
	}

	byKey := make(map[string]string, len(q)+len(incoming))
	for _, e := range q {
		byKey[e.DedupKey()] = e.ID
	}

	redirect := make(map[string]string)
	next := len(q)
	for _, e := range incoming {
		key := e.DedupKey()
		if existing, dup := byKey[key]; dup {
			redirect[e.ID] = existing
			result.Skipped = append(result.Skipped, e.Name)
			continue
		}
		byKey[key] = e.ID

		added := e.Copy()
		if target, ok := redirect[added.LockedTo()]; ok {
			added.LockedToEventID = &target
		}
		added.Priority = next
		next++
		q = append(q, added)
		result.EventCount++
	}

	// Stored locks are left as they are, dangling ones included.
	queue.Renumber(q)
	return events.ReplaceQueue(ctx, q)
}

func (s *importService) currencyIDs(ctx context.Context) ([]string, error) {
	list, err := s.currencies.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(list))
	for i, c := range list {
		ids[i] = c.CurrencyID
	}
	return ids, nil
}
