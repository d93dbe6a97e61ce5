package queue

import (
	"fmt"

	"github.com/alexanderramin/coinplan/internal/domain"
)

// Validate reports structural problems in q: missing or duplicate ids,
// invalid events, priorities that are not dense, and locks that will be
// ignored at scheduling time. None of these stop scheduling; callers decide
// whether to reject or Normalize.
func Validate(q []domain.SpendingEvent) []error {
	var errs []error

	seen := make(map[string]bool, len(q))
	for i, e := range q {
		if e.ID == "" {
			errs = append(errs, fmt.Errorf("event %d (%q): id is required", i, e.Name))
			continue
		}
		if seen[e.ID] {
			errs = append(errs, fmt.Errorf("event %s: duplicate id", e.ID))
		}
		seen[e.ID] = true
		if err := e.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("event %s: %w", e.ID, err))
		}
	}

	s := Sorted(q)
	for i, e := range s {
		if e.Priority != i {
			errs = append(errs, fmt.Errorf("event %s: priority %d does not match position %d", e.ID, e.Priority, i))
			break
		}
	}

	locks := effectiveLocks(s)
	for _, e := range s {
		prev := e.LockedTo()
		if prev == "" {
			continue
		}
		if _, ok := locks[e.ID]; ok {
			continue
		}
		switch {
		case prev == e.ID:
			errs = append(errs, fmt.Errorf("event %s: locked to itself", e.ID))
		case !seen[prev]:
			errs = append(errs, fmt.Errorf("event %s: locked to missing event %s", e.ID, prev))
		default:
			errs = append(errs, fmt.Errorf("event %s: lock to %s closes a cycle", e.ID, prev))
		}
	}
	return errs
}
