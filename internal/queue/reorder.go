package queue

import "github.com/alexanderramin/coinplan/internal/domain"

// Reorder moves the entry at from to the position of the entry at to.
//
// A chain head moves together with its whole chain. Chain members other than
// the head cannot be moved on their own. When the drop target belongs to a
// chain, the moved unit lands directly before that chain's head, whichever
// direction it travels. The second return value is false when the request
// was rejected or would leave the order as it was; q is then returned
// unchanged.
func Reorder(q []domain.SpendingEvent, from, to int) ([]domain.SpendingEvent, bool) {
	s := Sorted(q)
	n := len(s)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return q, false
	}

	locks := effectiveLocks(s)
	moving := s[from]
	if _, locked := locks[moving.ID]; locked {
		return q, false
	}

	heads := headsOf(s, locks)
	target := s[to]
	if heads[target.ID] == moving.ID {
		// Dropped onto its own chain.
		return q, false
	}

	var unit, rest []domain.SpendingEvent
	for _, e := range s {
		if heads[e.ID] == moving.ID {
			unit = append(unit, e)
		} else {
			rest = append(rest, e)
		}
	}

	var insertAt int
	targetHead := heads[target.ID]
	switch {
	case chainSizes(heads)[targetHead] > 1:
		insertAt = IndexOf(rest, targetHead)
	case to < from:
		insertAt = IndexOf(rest, target.ID)
	default:
		insertAt = IndexOf(rest, target.ID) + 1
	}

	out := make([]domain.SpendingEvent, 0, n)
	out = append(out, rest[:insertAt]...)
	out = append(out, unit...)
	out = append(out, rest[insertAt:]...)
	if sameOrder(out, s) {
		return q, false
	}
	Renumber(out)
	return out, true
}

func sameOrder(a, b []domain.SpendingEvent) bool {
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// MoveByID is Reorder addressed by event ids instead of positions.
func MoveByID(q []domain.SpendingEvent, id, targetID string) ([]domain.SpendingEvent, bool) {
	s := Sorted(q)
	from, to := IndexOf(s, id), IndexOf(s, targetID)
	if from < 0 || to < 0 {
		return q, false
	}
	out, ok := Reorder(s, from, to)
	if !ok {
		return q, false
	}
	return out, true
}
