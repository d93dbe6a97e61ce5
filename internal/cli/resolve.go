package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/alexanderramin/coinplan/internal/queue"
	"github.com/alexanderramin/coinplan/internal/repository"
)

// resolveEvent finds an event by:
//   - a 1-based queue position, written "#3" or "3"
//   - an exact event id
//   - a unique id prefix
func resolveEvent(ctx context.Context, app *App, input string) (*domain.SpendingEvent, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("event reference is required")
	}
	if n, err := strconv.Atoi(input); err == nil {
		input = "#" + strconv.Itoa(n)
	}
	if strings.HasPrefix(input, "#") {
		return app.Queue.Resolve(ctx, input)
	}

	e, err := app.Queue.Resolve(ctx, input)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	q, err := app.Queue.List(ctx)
	if err != nil {
		return nil, err
	}
	var matches []domain.SpendingEvent
	for _, e := range q {
		if strings.HasPrefix(e.ID, input) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("event not found: %q", input)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("event ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolvePosition resolves input to a 0-based queue index.
func resolvePosition(ctx context.Context, app *App, input string) (int, error) {
	e, err := resolveEvent(ctx, app, input)
	if err != nil {
		return 0, err
	}
	q, err := app.Queue.List(ctx)
	if err != nil {
		return 0, err
	}
	idx := queue.IndexOf(q, e.ID)
	if idx < 0 {
		return 0, fmt.Errorf("event %s is no longer queued", e.ID)
	}
	return idx, nil
}
