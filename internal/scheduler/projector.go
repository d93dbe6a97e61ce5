package scheduler

import (
	"math"

	"github.com/alexanderramin/coinplan/internal/domain"
)

// ProjectIncome returns the compounded income for each of weeks weeks:
// income[w] = weeklyIncome * (1 + growth/100)^w.
func ProjectIncome(in domain.CurrencyIncome, weeks int) []float64 {
	if weeks < 0 {
		weeks = 0
	}
	income := make([]float64, weeks)
	rate := 1 + in.GrowthRatePct/100
	for w := range income {
		income[w] = in.WeeklyIncome * math.Pow(rate, float64(w))
	}
	return income
}

// ProjectBalances returns weeks+1 balances. Index 0 is the starting balance
// and index w+1 is the balance at the end of week w. Only week 0 income is
// scaled by week0Proration; a factor outside (0, 1] counts as a full week.
func ProjectBalances(in domain.CurrencyIncome, weeks int, week0Proration float64) []float64 {
	return balancesFromIncome(in.CurrentBalance, ProjectIncome(in, weeks), week0Proration)
}

func balancesFromIncome(start float64, income []float64, week0Proration float64) []float64 {
	week0Proration = clampProration(week0Proration)
	balances := make([]float64, len(income)+1)
	balances[0] = start
	for w, amt := range income {
		if w == 0 {
			amt *= week0Proration
		}
		balances[w+1] = balances[w] + amt
	}
	return balances
}

func clampProration(f float64) float64 {
	if f <= 0 || f > 1 || math.IsNaN(f) {
		return 1
	}
	return f
}
