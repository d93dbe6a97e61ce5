package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/alexanderramin/coinplan/internal/queue"
)

var (
	ErrNegativeWeeks   = errors.New("weeks must not be negative")
	ErrUnknownCurrency = errors.New("no income configured for currency")
)

// affordEpsilon absorbs floating-point drift from compounded income so that
// a balance of 499.99999999997 can still pay for a 500 purchase.
const affordEpsilon = 1e-6

// Options configures one scheduling run.
type Options struct {
	Weeks     int
	StartDate time.Time
	// Week0Proration scales week 0 income; zero means a full week.
	Week0Proration float64
}

// Schedule resolves every event to the first week it can be bought.
//
// Events are processed in ascending priority. An event never triggers before
// its chain predecessor, nor before the last event already scheduled on the
// same currency. Events that cannot be funded within the horizon are
// reported as unaffordable and leave balances untouched.
func Schedule(incomes []domain.CurrencyIncome, events []domain.SpendingEvent, opts Options) (*domain.TimelineData, error) {
	if opts.Weeks < 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrNegativeWeeks, opts.Weeks)
	}

	series := make(map[string]*domain.CurrencySeries, len(incomes))
	for _, in := range incomes {
		income := ProjectIncome(in, opts.Weeks)
		series[in.CurrencyID] = &domain.CurrencySeries{
			CurrencyID:  in.CurrencyID,
			Balances:    balancesFromIncome(in.CurrentBalance, income, opts.Week0Proration),
			Income:      income,
			Expenditure: make([]float64, opts.Weeks),
		}
	}

	ordered := queue.Sorted(events)
	for _, e := range ordered {
		if _, ok := series[e.CurrencyID]; !ok {
			return nil, fmt.Errorf("event %s (%q): %w %q", e.ID, e.Name, ErrUnknownCurrency, e.CurrencyID)
		}
	}

	data := &domain.TimelineData{
		StartDate: opts.StartDate,
		Weeks:     opts.Weeks,
		Series:    series,
	}
	cons := newConstraints()

	for _, e := range ordered {
		s := series[e.CurrencyID]
		week, ok := firstAffordableWeek(s.Balances, cons.minWeek(e), e.Amount)
		if !ok {
			data.UnaffordableEvents = append(data.UnaffordableEvents, e)
			continue
		}

		available := s.Balances[week+1]
		deduct(s.Balances, week+1, e.Amount)
		s.Expenditure[week] += e.Amount
		cons.record(e, week)

		trigger := domain.WeekStartDate(week, opts.StartDate)
		te := domain.TimelineEvent{
			Event:            e,
			TriggerWeek:      week,
			TriggerDate:      trigger,
			BalanceAtTrigger: available,
		}
		if e.DurationDays != nil && *e.DurationDays > 0 {
			end := trigger.AddDate(0, 0, *e.DurationDays)
			te.EndDate = &end
		}
		data.Events = append(data.Events, te)
	}

	return data, nil
}

// firstAffordableWeek scans from minWeek for the first week whose ending
// balance covers amount.
func firstAffordableWeek(balances []float64, minWeek int, amount float64) (int, bool) {
	if minWeek < 0 {
		minWeek = 0
	}
	for w := minWeek; w+1 < len(balances); w++ {
		if balances[w+1]+affordEpsilon >= amount {
			return w, true
		}
	}
	return 0, false
}

// deduct subtracts amount from balances[from:]. Results within the afford
// tolerance of zero snap to zero.
func deduct(balances []float64, from int, amount float64) {
	for i := from; i < len(balances); i++ {
		balances[i] -= amount
		if balances[i] < 0 && balances[i] > -affordEpsilon {
			balances[i] = 0
		}
	}
}
