// Package report turns a TimelineData into display-ready rows and totals.
package report

import (
	"sort"
	"time"

	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/alexanderramin/coinplan/internal/queue"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// CurrencySummary aggregates one currency's series.
type CurrencySummary struct {
	CurrencyID        string
	Name              string
	StartBalance      decimal.Decimal
	EndBalance        decimal.Decimal
	LowestBalance     decimal.Decimal
	LowestWeek        int
	TotalIncome       decimal.Decimal
	TotalSpent        decimal.Decimal
	ScheduledCount    int
	UnaffordableCount int
}

// WeekRow is one line of a weekly table.
type WeekRow struct {
	Week        int
	StartDate   time.Time
	Income      decimal.Decimal
	Expenditure decimal.Decimal
	EndBalance  decimal.Decimal
	Events      []string
}

// EventRow is one line of the schedule table.
type EventRow struct {
	Position     int
	EventID      string
	Name         string
	CurrencyID   string
	Amount       decimal.Decimal
	Week         int
	TriggerDate  *time.Time
	EndDate      *time.Time
	BalanceAfter decimal.Decimal
	Chained      bool
	Unaffordable bool
	// Funded is the share of Amount the currency's peak balance covers,
	// capped at 1. Scheduled events are always fully funded.
	Funded       float64
}

// Round converts v to a decimal rounded to places.
func Round(v float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(places)
}

// Summaries builds one summary per currency, ordered by currency id.
// names maps currency ids to display names and may be nil.
func Summaries(data *domain.TimelineData, names map[string]string, places int32) []CurrencySummary {
	ids := make([]string, 0, len(data.Series))
	for id := range data.Series {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]CurrencySummary, 0, len(ids))
	for _, id := range ids {
		s := data.Series[id]
		sum := CurrencySummary{
			CurrencyID:  id,
			Name:        domain.CoalesceStr(names[id], id),
			TotalIncome: Round(sumOf(s.Income), places),
			TotalSpent:  Round(sumOf(s.Expenditure), places),
		}
		if len(s.Balances) > 0 {
			sum.StartBalance = Round(s.Balances[0], places)
			sum.EndBalance = Round(s.Balances[len(s.Balances)-1], places)
			low := floats.MinIdx(s.Balances)
			sum.LowestBalance = Round(s.Balances[low], places)
			// Balances[w+1] closes week w; index 0 is reported as week 0.
			sum.LowestWeek = max(low-1, 0)
		}
		for _, te := range data.Events {
			if te.Event.CurrencyID == id {
				sum.ScheduledCount++
			}
		}
		for _, e := range data.UnaffordableEvents {
			if e.CurrencyID == id {
				sum.UnaffordableCount++
			}
		}
		out = append(out, sum)
	}
	return out
}

// WeekRows returns one row per simulated week for a currency.
func WeekRows(data *domain.TimelineData, currencyID string, places int32) []WeekRow {
	s, ok := data.Series[currencyID]
	if !ok {
		return nil
	}
	byWeek := make(map[int][]string)
	for _, te := range data.Events {
		if te.Event.CurrencyID == currencyID {
			byWeek[te.TriggerWeek] = append(byWeek[te.TriggerWeek], te.Event.Name)
		}
	}

	rows := make([]WeekRow, len(s.Income))
	for w := range s.Income {
		rows[w] = WeekRow{
			Week:        w,
			StartDate:   domain.WeekStartDate(w, data.StartDate),
			Income:      Round(s.Income[w], places),
			Expenditure: Round(s.Expenditure[w], places),
			EndBalance:  Round(s.Balances[w+1], places),
			Events:      byWeek[w],
		}
	}
	return rows
}

// EventRows lists every event in queue order. Unaffordable events carry
// Week -1 and no dates.
func EventRows(data *domain.TimelineData, places int32) []EventRow {
	all := make([]domain.SpendingEvent, 0, len(data.Events)+len(data.UnaffordableEvents))
	for _, te := range data.Events {
		all = append(all, te.Event)
	}
	all = append(all, data.UnaffordableEvents...)

	var rows []EventRow
	for _, te := range data.Events {
		trigger := te.TriggerDate
		rows = append(rows, EventRow{
			EventID:      te.Event.ID,
			Name:         te.Event.Name,
			CurrencyID:   te.Event.CurrencyID,
			Amount:       Round(te.Event.Amount, places),
			Week:         te.TriggerWeek,
			TriggerDate:  &trigger,
			EndDate:      te.EndDate,
			BalanceAfter: Round(te.BalanceAtTrigger-te.Event.Amount, places),
			Chained:      queue.Predecessor(all, te.Event.ID) != "",
			Funded:       1,
		})
	}
	for _, e := range data.UnaffordableEvents {
		rows = append(rows, EventRow{
			EventID:      e.ID,
			Name:         e.Name,
			CurrencyID:   e.CurrencyID,
			Amount:       Round(e.Amount, places),
			Week:         -1,
			Chained:      queue.Predecessor(all, e.ID) != "",
			Unaffordable: true,
			Funded:       fundedShare(data.Series[e.CurrencyID], e.Amount),
		})
	}
	priority := make(map[string]int, len(rows))
	for _, te := range data.Events {
		priority[te.Event.ID] = te.Event.Priority
	}
	for _, e := range data.UnaffordableEvents {
		priority[e.ID] = e.Priority
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return priority[rows[i].EventID] < priority[rows[j].EventID]
	})
	for i := range rows {
		rows[i].Position = i + 1
	}
	return rows
}

func fundedShare(s *domain.CurrencySeries, amount float64) float64 {
	if s == nil || len(s.Balances) == 0 || amount <= 0 {
		return 0
	}
	return min(max(floats.Max(s.Balances), 0)/amount, 1)
}

func sumOf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Sum(v)
}
