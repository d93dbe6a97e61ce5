package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/coinplan/internal/cli/formatter"
	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/alexanderramin/coinplan/internal/report"
	"github.com/alexanderramin/coinplan/internal/service"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	var (
		weeks     int
		start     string
		proration string
		currency  string
		table     bool
		save      bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute when each queued event can be bought",
		Long: `Compute when each queued event can be bought.

Flags override the stored planner settings for this run; --save stores the
result. Week-0 proration is a factor in (0, 1] or "auto" to derive it from
the weekly reset day.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			req := service.PlanRequest{Weeks: weeks, Now: app.now()}
			if start != "" {
				t, err := time.Parse(domain.DateLayout, start)
				if err != nil {
					return fmt.Errorf("invalid start date %q: %w", start, err)
				}
				req.StartDate = &t
			}
			if proration != "" {
				if strings.EqualFold(proration, "auto") {
					req.AutoProration = true
				} else {
					f, err := strconv.ParseFloat(proration, 64)
					if err != nil {
						return fmt.Errorf("invalid proration %q: use a factor in (0, 1] or \"auto\"", proration)
					}
					req.Proration = &f
				}
			}

			res, err := app.Plan.Timeline(ctx, req)
			if err != nil {
				return err
			}
			if currency != "" {
				if _, ok := res.Data.Series[currency]; !ok {
					return fmt.Errorf("unknown currency %q", currency)
				}
			}

			if save {
				settings := res.Settings
				if err := app.Plan.SaveSettings(ctx, &settings); err != nil {
					return fmt.Errorf("saving settings: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatPlan(planView(app, res, currency)))

			if table {
				for _, c := range res.Currencies {
					if currency != "" && c.CurrencyID != currency {
						continue
					}
					rows := report.WeekRows(res.Data, c.CurrencyID, app.places())
					fmt.Fprintln(out, formatter.FormatWeekTable(c.DisplayName(), rows, c.WeeklyIncome, app.places()))
				}
			}
			if save {
				fmt.Fprintln(out, formatter.Dim("Settings saved."))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&weeks, "weeks", 0, "Horizon in weeks (default: stored setting)")
	cmd.Flags().StringVar(&start, "start", "", "Timeline start date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&proration, "proration", "", `Week-0 income factor in (0, 1], or "auto"`)
	cmd.Flags().StringVar(&currency, "currency", "", "Only show this currency")
	cmd.Flags().BoolVar(&table, "table", false, "Also print the week-by-week balance table")
	cmd.Flags().BoolVar(&save, "save", false, "Store the resolved settings")

	return cmd
}

// planView converts a plan result into formatter input, optionally limited
// to one currency.
func planView(app *App, res *service.PlanResult, currency string) formatter.PlanView {
	names := make(map[string]string, len(res.Currencies))
	for _, c := range res.Currencies {
		names[c.CurrencyID] = c.DisplayName()
	}

	balances := make(map[string][]float64, len(res.Data.Series))
	for id, s := range res.Data.Series {
		balances[id] = s.Balances
	}

	sums := report.Summaries(res.Data, names, app.places())
	events := report.EventRows(res.Data, app.places())
	if currency != "" {
		sums = filter(sums, func(s report.CurrencySummary) bool { return s.CurrencyID == currency })
		events = filter(events, func(e report.EventRow) bool { return e.CurrencyID == currency })
	}

	warnings := make([]string, len(res.Warnings))
	for i, w := range res.Warnings {
		warnings[i] = w.Error()
	}

	return formatter.PlanView{
		Start:     res.Data.StartDate,
		Weeks:     res.Data.Weeks,
		Proration: res.Proration,
		Now:       app.now(),
		Places:    app.places(),
		Summaries: sums,
		Events:    events,
		Balances:  balances,
		Warnings:  warnings,
	}
}

func filter[T any](items []T, keep func(T) bool) []T {
	var out []T
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
