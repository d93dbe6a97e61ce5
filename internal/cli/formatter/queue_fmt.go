package formatter

import (
	"fmt"

	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/alexanderramin/coinplan/internal/queue"
	"github.com/shopspring/decimal"
)

// FormatQueue renders the spending queue in priority order.
func FormatQueue(q []domain.SpendingEvent, places int32) string {
	headers := []string{"#", "EVENT", "CURRENCY", "AMOUNT", "LASTS", "ID"}
	rows := make([][]string, 0, len(q))
	for i, e := range q {
		rows = append(rows, []string{
			Dim(Position(i + 1)),
			ChainMarker(queue.Predecessor(q, e.ID) != "") + Bold(e.Name),
			CurrencyBadge(e.CurrencyID),
			FormatAmount(decimal.NewFromFloat(e.Amount), places),
			FormatDays(e.DurationDays),
			TruncID(e.ID),
		})
	}
	table := RenderTable(headers, rows, AlignRight(3))
	return RenderBox(fmt.Sprintf("Queue (%d)", len(q)), table)
}

// FormatCurrencyList renders the configured currencies.
func FormatCurrencyList(list []domain.CurrencyIncome, places int32) string {
	headers := []string{"ID", "NAME", "BALANCE", "WEEKLY", "GROWTH"}
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		rows = append(rows, []string{
			CurrencyBadge(c.CurrencyID),
			c.DisplayName(),
			FormatFloat(c.CurrentBalance, places),
			StyleGreen.Render(FormatFloat(c.WeeklyIncome, places)),
			FormatGrowth(c.GrowthRatePct),
		})
	}
	return RenderBox("Currencies", RenderTable(headers, rows, AlignRight(2, 3)))
}
