package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/alexanderramin/coinplan/internal/queue"
	"github.com/alexanderramin/coinplan/internal/repository"
	"github.com/alexanderramin/coinplan/internal/scheduler"
)

type planService struct {
	currencies repository.CurrencyRepo
	events     repository.EventRepo
	settings   repository.SettingsRepo
	defaults   domain.PlannerSettings
	observer   UseCaseObserver
}

// NewPlanService creates a PlanService. defaults apply until settings are
// saved for the first time.
func NewPlanService(
	currencies repository.CurrencyRepo,
	events repository.EventRepo,
	settings repository.SettingsRepo,
	defaults domain.PlannerSettings,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		currencies: currencies,
		events:     events,
		settings:   settings,
		defaults:   defaults,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *planService) Settings(ctx context.Context) (*domain.PlannerSettings, error) {
	stored, err := s.settings.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		d := s.defaults
		return &d, nil
	}
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *planService) SaveSettings(ctx context.Context, settings *domain.PlannerSettings) (err error) {
	defer observe(ctx, s.observer, "save-settings", time.Now(), map[string]any{"weeks": settings.Weeks}, &err)

	if err = settings.Validate(); err != nil {
		return err
	}
	settings.ID = "default"
	return s.settings.Upsert(ctx, settings)
}

func (s *planService) Resolve(ctx context.Context, req PlanRequest) (*domain.PlannerSettings, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	if req.Weeks > 0 {
		settings.Weeks = req.Weeks
	}
	if req.StartDate != nil {
		start := domain.TruncateDay(*req.StartDate)
		settings.StartDate = &start
	}
	if req.Proration != nil {
		settings.Week0Proration = *req.Proration
		settings.AutoProration = false
	}
	if req.AutoProration {
		settings.AutoProration = true
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *planService) Timeline(ctx context.Context, req PlanRequest) (result *PlanResult, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "timeline", time.Now(), fields, &err)

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	settings, err := s.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	incomes, err := s.currencies.List(ctx)
	if err != nil {
		return nil, err
	}
	q, err := s.events.ListQueue(ctx)
	if err != nil {
		return nil, err
	}

	proration := settings.EffectiveProration(now)
	data, err := scheduler.Schedule(incomes, q, scheduler.Options{
		Weeks:          settings.Weeks,
		StartDate:      settings.EffectiveStart(now),
		Week0Proration: proration,
	})
	if err != nil {
		return nil, fmt.Errorf("scheduling: %w", err)
	}

	fields["weeks"] = settings.Weeks
	fields["events"] = len(q)
	fields["unaffordable"] = len(data.UnaffordableEvents)

	return &PlanResult{
		Data:       data,
		Settings:   *settings,
		Proration:  proration,
		Currencies: incomes,
		Warnings:   queue.Validate(q),
	}, nil
}
