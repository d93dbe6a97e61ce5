package domain

import "time"

// TimelineEvent is a spending event resolved to the week it can be bought.
type TimelineEvent struct {
	Event       SpendingEvent
	TriggerWeek int
	TriggerDate time.Time
	EndDate     *time.Time
	// BalanceAtTrigger is the ending balance of the trigger week before the
	// purchase is deducted.
	BalanceAtTrigger float64
}

// CurrencySeries holds the week-indexed series for one currency.
// Balances has weeks+1 entries; Income and Expenditure have weeks entries.
type CurrencySeries struct {
	CurrencyID  string
	Balances    []float64
	Income      []float64
	Expenditure []float64
}

// TimelineData is the result of one scheduling run.
type TimelineData struct {
	StartDate          time.Time
	Weeks              int
	Events             []TimelineEvent
	UnaffordableEvents []SpendingEvent
	Series             map[string]*CurrencySeries
}

// EventByID returns the scheduled entry for an event id.
func (t *TimelineData) EventByID(id string) (TimelineEvent, bool) {
	for _, te := range t.Events {
		if te.Event.ID == id {
			return te, true
		}
	}
	return TimelineEvent{}, false
}

// IsUnaffordable reports whether the event could not be funded in the horizon.
func (t *TimelineData) IsUnaffordable(id string) bool {
	for _, e := range t.UnaffordableEvents {
		if e.ID == id {
			return true
		}
	}
	return false
}
