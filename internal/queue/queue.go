// Package queue maintains the ordered spending queue and its chain topology.
//
// Every operation is pure: it takes a queue, returns a freshly allocated one
// sorted by priority with priorities renumbered so that Priority == index,
// and never mutates its input. Chains are stored as LockedToEventID links on
// the events themselves; links to missing events, self links and links that
// close a cycle are treated as absent.
package queue

import (
	"sort"

	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/google/uuid"
)

// newID generates ids for added and cloned events. Tests may replace it.
var newID = func() string { return uuid.New().String() }

// Sorted returns a deep copy of q ordered by ascending priority. Ties keep
// their input order.
func Sorted(q []domain.SpendingEvent) []domain.SpendingEvent {
	out := make([]domain.SpendingEvent, len(q))
	for i, e := range q {
		out[i] = e.Copy()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

// Renumber sets Priority to the slice position, in place.
func Renumber(q []domain.SpendingEvent) {
	for i := range q {
		q[i].Priority = i
	}
}

// IndexOf returns the position of id in q, or -1.
func IndexOf(q []domain.SpendingEvent, id string) int {
	for i, e := range q {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Normalize sorts q, drops locks that are dangling or cyclic, and renumbers.
func Normalize(q []domain.SpendingEvent) []domain.SpendingEvent {
	s := Sorted(q)
	locks := effectiveLocks(s)
	for i := range s {
		if _, ok := locks[s[i].ID]; !ok {
			s[i].LockedToEventID = nil
		}
	}
	Renumber(s)
	return s
}
