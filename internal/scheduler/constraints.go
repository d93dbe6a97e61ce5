package scheduler

import "github.com/alexanderramin/coinplan/internal/domain"

// constraints carries the ordering state of one scheduling run: the last
// trigger week per currency and the resolved week of every scheduled event.
type constraints struct {
	lastWeekByCurrency map[string]int
	weekByEvent        map[string]int
}

func newConstraints() *constraints {
	return &constraints{
		lastWeekByCurrency: make(map[string]int),
		weekByEvent:        make(map[string]int),
	}
}

// minWeek returns the earliest week e may trigger in. A chain predecessor
// that is missing or was not scheduled imposes nothing.
func (c *constraints) minWeek(e domain.SpendingEvent) int {
	week := 0
	if prev := e.LockedTo(); prev != "" && prev != e.ID {
		if w, ok := c.weekByEvent[prev]; ok && w > week {
			week = w
		}
	}
	if w, ok := c.lastWeekByCurrency[e.CurrencyID]; ok && w > week {
		week = w
	}
	return week
}

func (c *constraints) record(e domain.SpendingEvent, week int) {
	c.weekByEvent[e.ID] = week
	c.lastWeekByCurrency[e.CurrencyID] = week
}
