package queue

import "github.com/alexanderramin/coinplan/internal/domain"

// effectiveLocks returns id -> predecessor id for every lock that points at
// another event present in q. When links form a cycle, the lock on the cycle
// member that sits earliest in q is dropped so the result is a forest.
func effectiveLocks(q []domain.SpendingEvent) map[string]string {
	present := make(map[string]bool, len(q))
	for _, e := range q {
		present[e.ID] = true
	}

	locks := make(map[string]string)
	for _, e := range q {
		prev := e.LockedTo()
		if prev == "" || prev == e.ID || !present[prev] {
			continue
		}
		locks[e.ID] = prev
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(q))
	pos := make(map[string]int, len(q))
	for i, e := range q {
		pos[e.ID] = i
	}

	for _, e := range q {
		if state[e.ID] != unvisited {
			continue
		}
		var path []string
		cur := e.ID
		for {
			if state[cur] == done {
				break
			}
			if state[cur] == visiting {
				// cur closes a cycle; find the cycle members on the path.
				start := 0
				for i, id := range path {
					if id == cur {
						start = i
						break
					}
				}
				earliest := path[start]
				for _, id := range path[start:] {
					if pos[id] < pos[earliest] {
						earliest = id
					}
				}
				delete(locks, earliest)
				break
			}
			state[cur] = visiting
			path = append(path, cur)
			next, ok := locks[cur]
			if !ok {
				break
			}
			cur = next
		}
		for _, id := range path {
			state[id] = done
		}
	}
	return locks
}

// headsOf maps every event id in q to the id of its chain head.
func headsOf(q []domain.SpendingEvent, locks map[string]string) map[string]string {
	heads := make(map[string]string, len(q))
	for _, e := range q {
		cur := e.ID
		for {
			prev, ok := locks[cur]
			if !ok {
				break
			}
			cur = prev
		}
		heads[e.ID] = cur
	}
	return heads
}

// ChainHead returns the head of the chain containing id. A free-floating
// event is its own head.
func ChainHead(q []domain.SpendingEvent, id string) (string, bool) {
	if IndexOf(q, id) < 0 {
		return "", false
	}
	return headsOf(q, effectiveLocks(q))[id], true
}

// ChainMembers returns the chain that id belongs to (head first, then every
// transitive dependent) in queue order.
func ChainMembers(q []domain.SpendingEvent, id string) []domain.SpendingEvent {
	s := Sorted(q)
	if IndexOf(s, id) < 0 {
		return nil
	}
	heads := headsOf(s, effectiveLocks(s))
	head := heads[id]
	var members []domain.SpendingEvent
	for _, e := range s {
		if heads[e.ID] == head {
			members = append(members, e)
		}
	}
	return members
}

// Predecessor returns the valid predecessor id of id, or "".
func Predecessor(q []domain.SpendingEvent, id string) string {
	return effectiveLocks(q)[id]
}

// IsHead reports whether id is free-floating. Events with a dangling or
// cyclic lock count as heads.
func IsHead(q []domain.SpendingEvent, id string) bool {
	_, locked := effectiveLocks(q)[id]
	return IndexOf(q, id) >= 0 && !locked
}

// chainSizes counts members per head id.
func chainSizes(heads map[string]string) map[string]int {
	sizes := make(map[string]int)
	for _, h := range heads {
		sizes[h]++
	}
	return sizes
}
