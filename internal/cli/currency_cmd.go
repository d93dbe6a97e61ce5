package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/coinplan/internal/cli/formatter"
	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/alexanderramin/coinplan/internal/repository"
	"github.com/spf13/cobra"
)

func newCurrencyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "currency",
		Aliases: []string{"currencies"},
		Short:   "Manage currencies and their weekly income",
	}

	cmd.AddCommand(
		newCurrencySetCmd(app),
		newCurrencyListCmd(app),
		newCurrencyRemoveCmd(app),
	)

	return cmd
}

func newCurrencySetCmd(app *App) *cobra.Command {
	var name string
	var balance, income, growth float64

	cmd := &cobra.Command{
		Use:   "set ID",
		Short: "Create or update a currency; omitted flags keep their stored values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			c, err := app.Currencies.Get(ctx, args[0])
			switch {
			case errors.Is(err, repository.ErrNotFound):
				c = &domain.CurrencyIncome{CurrencyID: args[0]}
			case err != nil:
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				c.Name = name
			}
			if flags.Changed("balance") {
				c.CurrentBalance = balance
			}
			if flags.Changed("income") {
				c.WeeklyIncome = income
			}
			if flags.Changed("growth") {
				c.GrowthRatePct = growth
			}

			if err := app.Currencies.Set(ctx, c); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved currency %s: balance %s, %s/week\n",
				c.CurrencyID,
				formatter.FormatFloat(c.CurrentBalance, app.places()),
				formatter.FormatFloat(c.WeeklyIncome, app.places()))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().Float64Var(&balance, "balance", 0, "Current balance")
	cmd.Flags().Float64Var(&income, "income", 0, "Weekly income")
	cmd.Flags().Float64Var(&growth, "growth", 0, "Weekly income growth in percent (-100 to 1000)")

	return cmd
}

func newCurrencyListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List currencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Currencies.List(context.Background())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No currencies configured.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCurrencyList(list, app.places()))
			return nil
		},
	}
}

func newCurrencyRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a currency that no queued event spends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Currencies.Remove(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed currency %s\n", args[0])
			return nil
		},
	}
}
