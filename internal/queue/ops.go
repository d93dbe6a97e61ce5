package queue

import "github.com/alexanderramin/coinplan/internal/domain"

// CopySuffix is appended to the name of a cloned event.
const CopySuffix = " (copy)"

// ToggleResult reports what ToggleChain did.
type ToggleResult int

const (
	// NotFound means the id is not in the queue; the queue is unchanged.
	NotFound ToggleResult = iota
	// NotApplicable means a free-floating first event cannot be linked.
	NotApplicable
	// Linked means the event now follows the event before it.
	Linked
	// Unlinked means the event is now free-floating.
	Unlinked
)

func (r ToggleResult) String() string {
	switch r {
	case NotApplicable:
		return "not_applicable"
	case Linked:
		return "linked"
	case Unlinked:
		return "unlinked"
	default:
		return "not_found"
	}
}

// Changed reports whether the toggle produced a different queue.
func (r ToggleResult) Changed() bool {
	return r == Linked || r == Unlinked
}

// Add appends e to the end of the queue as a free-floating event. An empty
// id is replaced with a generated one.
func Add(q []domain.SpendingEvent, e domain.SpendingEvent) []domain.SpendingEvent {
	out := Sorted(q)
	added := e.Copy()
	if added.ID == "" {
		added.ID = newID()
	}
	added.LockedToEventID = nil
	out = append(out, added)
	Renumber(out)
	return out
}

// Remove deletes id. Events locked directly to it become free-floating;
// deeper links are left alone.
func Remove(q []domain.SpendingEvent, id string) ([]domain.SpendingEvent, bool) {
	s := Sorted(q)
	idx := IndexOf(s, id)
	if idx < 0 {
		return q, false
	}
	out := make([]domain.SpendingEvent, 0, len(s)-1)
	for i, e := range s {
		if i == idx {
			continue
		}
		if e.LockedTo() == id {
			e.LockedToEventID = nil
		}
		out = append(out, e)
	}
	Renumber(out)
	return out, true
}

// Clone inserts a free-floating copy of id directly after it.
func Clone(q []domain.SpendingEvent, id string) ([]domain.SpendingEvent, bool) {
	s := Sorted(q)
	idx := IndexOf(s, id)
	if idx < 0 {
		return q, false
	}
	clone := s[idx].Copy()
	clone.ID = newID()
	clone.Name = s[idx].Name + CopySuffix
	clone.LockedToEventID = nil

	out := make([]domain.SpendingEvent, 0, len(s)+1)
	out = append(out, s[:idx+1]...)
	out = append(out, clone)
	out = append(out, s[idx+1:]...)
	Renumber(out)
	return out, true
}

// ToggleChain links a free-floating event to the event right before it, or
// unlinks a chained one. An event whose lock points nowhere valid counts as
// free-floating.
func ToggleChain(q []domain.SpendingEvent, id string) ([]domain.SpendingEvent, ToggleResult) {
	s := Sorted(q)
	idx := IndexOf(s, id)
	if idx < 0 {
		return q, NotFound
	}
	if Predecessor(s, id) != "" {
		s[idx].LockedToEventID = nil
		Renumber(s)
		return s, Unlinked
	}
	if idx == 0 {
		return q, NotApplicable
	}
	prev := s[idx-1].ID
	s[idx].LockedToEventID = &prev
	Renumber(s)
	return s, Linked
}
