package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/coinplan/internal/db"
	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/alexanderramin/coinplan/internal/queue"
	"github.com/alexanderramin/coinplan/internal/repository"
	"github.com/google/uuid"
)

type queueService struct {
	events   repository.EventRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewQueueService(events repository.EventRepo, uow db.UnitOfWork, observers ...UseCaseObserver) QueueService {
	return &queueService{
		events:   events,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *queueService) List(ctx context.Context) ([]domain.SpendingEvent, error) {
	return s.events.ListQueue(ctx)
}

func (s *queueService) Resolve(ctx context.Context, ref string) (*domain.SpendingEvent, error) {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, "#") {
		return s.events.GetByID(ctx, ref)
	}

	pos, err := strconv.Atoi(ref[1:])
	if err != nil || pos < 1 {
		return nil, fmt.Errorf("%q: positions are written #1, #2, ...: %w", ref, ErrInvalidRef)
	}
	q, err := s.events.ListQueue(ctx)
	if err != nil {
		return nil, err
	}
	if pos > len(q) {
		return nil, fmt.Errorf("position %d (queue has %d events): %w", pos, len(q), repository.ErrNotFound)
	}
	e := q[pos-1]
	return &e, nil
}

func (s *queueService) Add(ctx context.Context, e domain.SpendingEvent, lockToPrevious bool) (added *domain.SpendingEvent, err error) {
	defer observe(ctx, s.observer, "add-event", time.Now(), map[string]any{"currency": e.CurrencyID, "lock": lockToPrevious}, &err)

	e.Name = strings.TrimSpace(e.Name)
	if err = e.Validate(); err != nil {
		return nil, err
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	err = s.mutate(ctx, func(ctx context.Context, tx db.DBTX, q []domain.SpendingEvent) ([]domain.SpendingEvent, error) {
		if _, err := repository.NewSQLiteCurrencyRepo(tx).GetByID(ctx, e.CurrencyID); err != nil {
			return nil, err
		}
		out := queue.Add(q, e)
		if lockToPrevious && len(q) > 0 {
			out, _ = queue.ToggleChain(out, e.ID)
		}
		added = &out[len(out)-1]
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (s *queueService) Remove(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "remove-event", time.Now(), map[string]any{"event": id}, &err)

	return s.mutate(ctx, func(_ context.Context, _ db.DBTX, q []domain.SpendingEvent) ([]domain.SpendingEvent, error) {
		out, ok := queue.Remove(q, id)
		if !ok {
			return nil, fmt.Errorf("event %s: %w", id, repository.ErrNotFound)
		}
		return out, nil
	})
}

func (s *queueService) Clone(ctx context.Context, id string) (clone *domain.SpendingEvent, err error) {
	defer observe(ctx, s.observer, "clone-event", time.Now(), map[string]any{"event": id}, &err)

	err = s.mutate(ctx, func(_ context.Context, _ db.DBTX, q []domain.SpendingEvent) ([]domain.SpendingEvent, error) {
		out, ok := queue.Clone(q, id)
		if !ok {
			return nil, fmt.Errorf("event %s: %w", id, repository.ErrNotFound)
		}
		c := out[queue.IndexOf(out, id)+1]
		clone = &c
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return clone, nil
}

func (s *queueService) Move(ctx context.Context, from, to int) (moved bool, err error) {
	fields := map[string]any{"from": from, "to": to}
	defer observe(ctx, s.observer, "move-event", time.Now(), fields, &err)

	err = s.mutate(ctx, func(_ context.Context, _ db.DBTX, q []domain.SpendingEvent) ([]domain.SpendingEvent, error) {
		var out []domain.SpendingEvent
		out, moved = queue.Reorder(q, from, to)
		return out, nil
	})
	fields["moved"] = moved
	return moved, err
}

func (s *queueService) ToggleChain(ctx context.Context, id string) (result queue.ToggleResult, err error) {
	fields := map[string]any{"event": id}
	defer observe(ctx, s.observer, "toggle-chain", time.Now(), fields, &err)

	err = s.mutate(ctx, func(_ context.Context, _ db.DBTX, q []domain.SpendingEvent) ([]domain.SpendingEvent, error) {
		var out []domain.SpendingEvent
		out, result = queue.ToggleChain(q, id)
		if result == queue.NotFound {
			return nil, fmt.Errorf("event %s: %w", id, repository.ErrNotFound)
		}
		return out, nil
	})
	fields["result"] = result.String()
	return result, err
}

func (s *queueService) Save(ctx context.Context, q []domain.SpendingEvent) (err error) {
	defer observe(ctx, s.observer, "save-queue", time.Now(), map[string]any{"events": len(q)}, &err)

	for _, e := range q {
		if err = e.Validate(); err != nil {
			return err
		}
	}
	normalized := queue.Normalize(q)
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteEventRepo(tx).ReplaceQueue(ctx, normalized)
	})
}

// mutate runs op against the stored queue inside one transaction and writes
// the result back. op returning the input slice unchanged still rewrites it.
func (s *queueService) mutate(ctx context.Context, op func(ctx context.Context, tx db.DBTX, q []domain.SpendingEvent) ([]domain.SpendingEvent, error)) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		events := repository.NewSQLiteEventRepo(tx)
		q, err := events.ListQueue(ctx)
		if err != nil {
			return err
		}
		out, err := op(ctx, tx, q)
		if err != nil {
			return err
		}
		return events.ReplaceQueue(ctx, out)
	})
}
