package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/coinplan/internal/report"
)

// PlanView holds everything needed to render a computed timeline.
type PlanView struct {
	Start     time.Time
	Weeks     int
	Proration float64
	Now       time.Time
	Places    int32

	Summaries []report.CurrencySummary
	Events    []report.EventRow
	// Balances feeds the per-currency sparkline, keyed by currency id.
	Balances map[string][]float64
	Warnings []string
}

// FormatPlan renders the currency summary, the event schedule and any
// tolerated queue warnings.
func FormatPlan(v PlanView) string {
	var b strings.Builder

	end := v.Start.AddDate(0, 0, 7*v.Weeks)
	b.WriteString(fmt.Sprintf("%s → %s  %s  %s\n\n",
		Bold(FormatDate(v.Start)),
		Bold(FormatDate(end)),
		Dim(fmt.Sprintf("%d weeks", v.Weeks)),
		Dim(fmt.Sprintf("week 0 at %.0f%%", v.Proration*100)),
	))

	b.WriteString(Header("Currencies"))
	b.WriteString("\n")
	b.WriteString(FormatSummaries(v.Summaries, v.Balances, v.Places))

	b.WriteString("\n")
	b.WriteString(Header("Schedule"))
	b.WriteString("\n")
	if len(v.Events) == 0 {
		b.WriteString(Dim("No events queued."))
		b.WriteString("\n")
	} else {
		b.WriteString(FormatEventRows(v.Events, v.Now, v.Places))
	}

	if len(v.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleYellow.Render("Warnings:"))
		b.WriteString("\n")
		for _, w := range v.Warnings {
			b.WriteString("  • ")
			b.WriteString(Dim(w))
			b.WriteString("\n")
		}
	}

	return RenderBox("Timeline", strings.TrimRight(b.String(), "\n"))
}

// FormatSummaries renders one row per currency.
func FormatSummaries(sums []report.CurrencySummary, balances map[string][]float64, places int32) string {
	headers := []string{"CURRENCY", "START", "INCOME", "SPENT", "END", "LOWEST", "EVENTS", "TREND"}
	rows := make([][]string, 0, len(sums))
	for _, s := range sums {
		lowest := FormatAmount(s.LowestBalance, places) + Dim(fmt.Sprintf(" (wk %d)", s.LowestWeek))
		if s.LowestBalance.IsZero() {
			lowest = StyleRed.Render(FormatAmount(s.LowestBalance, places)) + Dim(fmt.Sprintf(" (wk %d)", s.LowestWeek))
		}
		events := strconv.Itoa(s.ScheduledCount)
		if s.UnaffordableCount > 0 {
			events += StyleRed.Render(fmt.Sprintf(" +%d ✖", s.UnaffordableCount))
		}
		rows = append(rows, []string{
			CurrencyBadge(s.Name),
			FormatAmount(s.StartBalance, places),
			StyleGreen.Render(FormatAmount(s.TotalIncome, places)),
			StyleYellow.Render(FormatAmount(s.TotalSpent, places)),
			Bold(FormatAmount(s.EndBalance, places)),
			lowest,
			events,
			StyleBlue.Render(Sparkline(balances[s.CurrencyID])),
		})
	}
	return RenderTable(headers, rows, AlignRight(1, 2, 3, 4))
}

// FormatEventRows renders the per-event schedule in queue order.
func FormatEventRows(events []report.EventRow, now time.Time, places int32) string {
	headers := []string{"#", "EVENT", "CURRENCY", "AMOUNT", "WEEK", "DATE", "WHEN", "ENDS", "AFTER"}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		name := ChainMarker(e.Chained) + e.Name
		if e.Unaffordable {
			rows = append(rows, []string{
				Dim(Position(e.Position)),
				StyleRed.Render(name),
				CurrencyBadge(e.CurrencyID),
				FormatAmount(e.Amount, places),
				Dim("--"),
				EventStatus(true),
				"",
				"",
				RenderProgress(e.Funded, 8),
			})
			continue
		}
		rows = append(rows, []string{
			Dim(Position(e.Position)),
			name,
			CurrencyBadge(e.CurrencyID),
			FormatAmount(e.Amount, places),
			strconv.Itoa(e.Week),
			FormatOptionalDate(e.TriggerDate),
			Dim(RelativeDateFrom(*e.TriggerDate, now)),
			FormatOptionalDate(e.EndDate),
			FormatAmount(e.BalanceAfter, places),
		})
	}
	return RenderTable(headers, rows, AlignRight(3, 4, 8))
}

// FormatWeekTable renders the week-by-week series of one currency.
func FormatWeekTable(name string, rows []report.WeekRow, weeklyIncome float64, places int32) string {
	headers := []string{"WEEK", "STARTS", "INCOME", "SPENT", "BALANCE", "PURCHASES"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		spent := Dim("--")
		if !r.Expenditure.IsZero() {
			spent = StyleYellow.Render(FormatAmount(r.Expenditure, places))
		}
		bal := r.EndBalance.InexactFloat64()
		out = append(out, []string{
			strconv.Itoa(r.Week),
			FormatDate(r.StartDate),
			FormatAmount(r.Income, places),
			spent,
			BalanceStyle(bal, weeklyIncome).Render(FormatAmount(r.EndBalance, places)),
			strings.Join(r.Events, ", "),
		})
	}
	return RenderBox(name+" by week", strings.TrimRight(RenderTable(headers, out, AlignRight(0, 2, 3, 4)), "\n"))
}
