package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func event(id, currency string, amount float64, priority int) domain.SpendingEvent {
	return domain.SpendingEvent{ID: id, Name: "Event " + id, CurrencyID: currency, Amount: amount, Priority: priority}
}

func chained(e domain.SpendingEvent, prev string) domain.SpendingEvent {
	e.LockedToEventID = &prev
	return e
}

func opts(weeks int) Options {
	return Options{Weeks: weeks, StartDate: start, Week0Proration: 1}
}

func mustSchedule(t *testing.T, incomes []domain.CurrencyIncome, events []domain.SpendingEvent, o Options) *domain.TimelineData {
	t.Helper()
	data, err := Schedule(incomes, events, o)
	require.NoError(t, err)
	return data
}

func weekOf(t *testing.T, data *domain.TimelineData, id string) int {
	t.Helper()
	te, ok := data.EventByID(id)
	require.True(t, ok, "event %s should be scheduled", id)
	return te.TriggerWeek
}

func TestSchedule_AffordableImmediately(t *testing.T) {
	data := mustSchedule(t,
		[]domain.CurrencyIncome{income("gems", 1000, 100, 0)},
		[]domain.SpendingEvent{event("a", "gems", 500, 0)},
		opts(10))

	require.Len(t, data.Events, 1)
	te := data.Events[0]
	assert.Equal(t, 0, te.TriggerWeek)
	assert.Equal(t, 1100.0, te.BalanceAtTrigger)
	assert.Equal(t, start, te.TriggerDate)
	assert.Nil(t, te.EndDate)
	assert.Equal(t, 600.0, data.Series["gems"].Balances[1])
	assert.Equal(t, 500.0, data.Series["gems"].Expenditure[0])
	assert.Equal(t, 1000.0, data.Series["gems"].Balances[0], "starting balance is never touched")
}

func TestSchedule_WaitsForIncome(t *testing.T) {
	data := mustSchedule(t,
		[]domain.CurrencyIncome{income("gems", 100, 100, 0)},
		[]domain.SpendingEvent{event("a", "gems", 500, 0)},
		opts(10))

	require.Len(t, data.Events, 1)
	te := data.Events[0]
	assert.Equal(t, 3, te.TriggerWeek)
	assert.Equal(t, 500.0, te.BalanceAtTrigger)
	assert.Equal(t, start.AddDate(0, 0, 21), te.TriggerDate)
	assert.Equal(t, 0.0, data.Series["gems"].Balances[4])
	assert.Equal(t, 100.0, data.Series["gems"].Balances[5])
}

func TestSchedule_SameCurrencyKeepsPriorityOrder(t *testing.T) {
	data := mustSchedule(t,
		[]domain.CurrencyIncome{income("gems", 1_510_000, 234_000, 0)},
		[]domain.SpendingEvent{
			event("first", "gems", 800_000, 0),
			event("second", "gems", 960_000, 1),
			event("third", "gems", 500_000, 2),
		},
		opts(20))

	require.Len(t, data.Events, 3)
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{data.Events[0].Event.ID, data.Events[1].Event.ID, data.Events[2].Event.ID})

	assert.Equal(t, 0, weekOf(t, data, "first"))
	assert.Equal(t, 1, weekOf(t, data, "second"))
	assert.Equal(t, 3, weekOf(t, data, "third"), "the cheaper event must not jump ahead of the pending one")
}

func TestSchedule_ChainedEventWaitsForPredecessorAcrossCurrencies(t *testing.T) {
	data := mustSchedule(t,
		[]domain.CurrencyIncome{
			income("gems", 0, 100, 0),
			income("coins", 10_000, 0, 0),
		},
		[]domain.SpendingEvent{
			event("pass", "gems", 450, 0),
			chained(event("skin", "coins", 50, 1), "pass"),
		},
		opts(10))

	assert.Equal(t, 4, weekOf(t, data, "pass"))
	assert.Equal(t, 4, weekOf(t, data, "skin"), "coins are available at once but the chain holds the event back")
}

func TestSchedule_CurrenciesAreIndependentWithoutChain(t *testing.T) {
	data := mustSchedule(t,
		[]domain.CurrencyIncome{
			income("gems", 0, 100, 0),
			income("coins", 10_000, 0, 0),
		},
		[]domain.SpendingEvent{
			event("pass", "gems", 450, 0),
			event("skin", "coins", 50, 1),
		},
		opts(10))

	assert.Equal(t, 4, weekOf(t, data, "pass"))
	assert.Equal(t, 0, weekOf(t, data, "skin"))
}

func TestSchedule_Unaffordable(t *testing.T) {
	data := mustSchedule(t,
		[]domain.CurrencyIncome{income("gems", 100, 10, 0)},
		[]domain.SpendingEvent{
			event("dream", "gems", 10_000, 0),
			event("small", "gems", 50, 1),
		},
		opts(5))

	require.Len(t, data.UnaffordableEvents, 1)
	assert.Equal(t, "dream", data.UnaffordableEvents[0].ID)
	assert.True(t, data.IsUnaffordable("dream"))

	assert.Equal(t, 0, weekOf(t, data, "small"), "an unaffordable event does not block later ones")
	assert.Equal(t, []float64{100, 60, 70, 80, 90, 100}, data.Series["gems"].Balances)
}

func TestSchedule_MissingPredecessorIsUnconstrained(t *testing.T) {
	data := mustSchedule(t,
		[]domain.CurrencyIncome{income("gems", 1000, 0, 0), income("coins", 0, 10, 0)},
		[]domain.SpendingEvent{
			chained(event("orphan", "gems", 10, 0), "ghost"),
			event("big", "coins", 1_000_000, 1),
			chained(event("after-big", "gems", 10, 2), "big"),
		},
		opts(5))

	assert.Equal(t, 0, weekOf(t, data, "orphan"))
	assert.True(t, data.IsUnaffordable("big"))
	assert.Equal(t, 0, weekOf(t, data, "after-big"), "an unscheduled predecessor imposes no constraint")
}

func TestSchedule_SortsByPriority(t *testing.T) {
	data := mustSchedule(t,
		[]domain.CurrencyIncome{income("gems", 100, 100, 0)},
		[]domain.SpendingEvent{
			event("late", "gems", 100, 5),
			event("early", "gems", 150, 1),
		},
		opts(5))

	require.Len(t, data.Events, 2)
	assert.Equal(t, "early", data.Events[0].Event.ID)
	assert.Equal(t, 0, data.Events[0].TriggerWeek)
	assert.Equal(t, 1, data.Events[1].TriggerWeek)
}

func TestSchedule_EndDateFromDuration(t *testing.T) {
	days := 14
	zero := 0
	withDays := event("a", "gems", 10, 0)
	withDays.DurationDays = &days
	zeroDays := event("b", "gems", 10, 1)
	zeroDays.DurationDays = &zero

	data := mustSchedule(t,
		[]domain.CurrencyIncome{income("gems", 100, 0, 0)},
		[]domain.SpendingEvent{withDays, zeroDays},
		opts(2))

	a, _ := data.EventByID("a")
	require.NotNil(t, a.EndDate)
	assert.Equal(t, start.AddDate(0, 0, 14), *a.EndDate)

	b, _ := data.EventByID("b")
	assert.Nil(t, b.EndDate)
}

func TestSchedule_ExpenditureSumsPerWeek(t *testing.T) {
	data := mustSchedule(t,
		[]domain.CurrencyIncome{income("gems", 1000, 0, 0)},
		[]domain.SpendingEvent{
			event("a", "gems", 100, 0),
			event("b", "gems", 250, 1),
		},
		opts(3))

	assert.Equal(t, []float64{350, 0, 0}, data.Series["gems"].Expenditure)
	assert.Equal(t, []float64{1000, 650, 650, 650}, data.Series["gems"].Balances)
}

func TestSchedule_Week0Proration(t *testing.T) {
	o := opts(3)
	o.Week0Proration = 0.5

	data := mustSchedule(t,
		[]domain.CurrencyIncome{income("gems", 0, 100, 0)},
		[]domain.SpendingEvent{event("a", "gems", 100, 0)},
		o)

	assert.Equal(t, 1, weekOf(t, data, "a"), "half a week of income is not enough in week 0")
}

func TestSchedule_ZeroWeeks(t *testing.T) {
	data := mustSchedule(t,
		[]domain.CurrencyIncome{income("gems", 1000, 100, 0)},
		[]domain.SpendingEvent{event("a", "gems", 1, 0)},
		opts(0))

	assert.Empty(t, data.Events)
	assert.Len(t, data.UnaffordableEvents, 1)
	assert.Equal(t, []float64{1000}, data.Series["gems"].Balances)
}

func TestSchedule_InputErrors(t *testing.T) {
	_, err := Schedule(nil, nil, opts(-1))
	assert.ErrorIs(t, err, ErrNegativeWeeks)

	_, err = Schedule(
		[]domain.CurrencyIncome{income("gems", 0, 0, 0)},
		[]domain.SpendingEvent{event("a", "coins", 1, 0)},
		opts(4))
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestSchedule_DoesNotMutateInput(t *testing.T) {
	events := []domain.SpendingEvent{event("b", "gems", 10, 1), event("a", "gems", 10, 0)}

	_, err := Schedule([]domain.CurrencyIncome{income("gems", 100, 0, 0)}, events, opts(2))
	require.NoError(t, err)

	assert.Equal(t, "b", events[0].ID)
}

func TestSchedule_FloatDriftStillAffordable(t *testing.T) {
	// Ten 0.1 steps sum to 0.9999999999999999; a purchase of 1 must still fit.
	in := income("gems", 0, 0.1, 0)
	balances := ProjectBalances(in, 10, 1)
	require.Less(t, balances[10], 1.0)

	data := mustSchedule(t,
		[]domain.CurrencyIncome{in},
		[]domain.SpendingEvent{event("a", "gems", 1, 0)},
		opts(10))

	assert.Equal(t, 9, weekOf(t, data, "a"))
	assert.Equal(t, 0.0, data.Series["gems"].Balances[10], "tiny negative remainder snaps to zero")
}
