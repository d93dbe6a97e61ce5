package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// SpendingEvent is one queued purchase.
//
// LockedToEventID links the event to its immediate chain predecessor. A nil
// value means the event is free-floating; a reference to an event that is no
// longer in the queue is treated the same way.
type SpendingEvent struct {
	ID              string
	Name            string
	CurrencyID      string
	Amount          float64
	DurationDays    *int
	Priority        int
	LockedToEventID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsChained reports whether the event carries a predecessor link.
func (e SpendingEvent) IsChained() bool {
	return e.LockedToEventID != nil && *e.LockedToEventID != ""
}

// LockedTo returns the predecessor id, or "" for free-floating events.
func (e SpendingEvent) LockedTo() string {
	if e.LockedToEventID == nil {
		return ""
	}
	return *e.LockedToEventID
}

// Validate checks the construction-time invariants of a spending event.
func (e SpendingEvent) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("event name is required")
	}
	if e.CurrencyID == "" {
		return fmt.Errorf("event %q: currency is required", e.Name)
	}
	if !(e.Amount > 0) {
		return fmt.Errorf("event %q: amount must be positive (got %g)", e.Name, e.Amount)
	}
	if e.DurationDays != nil && *e.DurationDays < 0 {
		return fmt.Errorf("event %q: duration days must be >= 0", e.Name)
	}
	return nil
}

// DedupKey identifies events that describe the same purchase, used to skip
// duplicates on import. Amounts are compared at cent precision.
func (e SpendingEvent) DedupKey() string {
	cents := int64(math.Round(e.Amount * 100))
	return fmt.Sprintf("%s|%s|%d", strings.ToLower(strings.TrimSpace(e.Name)), e.CurrencyID, cents)
}

// Copy returns a deep copy so queue operations never share pointer fields.
func (e SpendingEvent) Copy() SpendingEvent {
	out := e
	if e.DurationDays != nil {
		d := *e.DurationDays
		out.DurationDays = &d
	}
	if e.LockedToEventID != nil {
		id := *e.LockedToEventID
		out.LockedToEventID = &id
	}
	return out
}
