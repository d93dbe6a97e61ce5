package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/coinplan/internal/cli/formatter"
	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/alexanderramin/coinplan/internal/queue"
	"github.com/spf13/cobra"
)

func newEventCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "event",
		Aliases: []string{"events"},
		Short:   "Manage the spending queue",
		Long: `Manage the spending queue.

Events are referenced by 1-based queue position (#2 or 2), by id, or by a
unique id prefix.`,
	}

	cmd.AddCommand(
		newEventAddCmd(app),
		newEventListCmd(app),
		newEventRemoveCmd(app),
		newEventCloneCmd(app),
		newEventMoveCmd(app),
		newEventChainCmd(app),
	)

	return cmd
}

func newEventAddCmd(app *App) *cobra.Command {
	var d eventDraft
	var interactive bool

	cmd := &cobra.Command{
		Use:   "add [NAME]",
		Short: "Append an event to the end of the queue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if len(args) == 1 {
				d.Name = args[0]
			}

			if interactive {
				if !app.interactive() {
					return fmt.Errorf("interactive add needs a terminal; pass NAME --currency --amount instead")
				}
				currencies, err := app.Currencies.List(ctx)
				if err != nil {
					return err
				}
				if len(currencies) == 0 {
					return fmt.Errorf("no currencies configured; run 'coinplan currency set' first")
				}
				q, err := app.Queue.List(ctx)
				if err != nil {
					return err
				}
				if err := eventForm(currencies, len(q), &d).Run(); err != nil {
					return err
				}
			} else {
				switch {
				case d.Name == "":
					return fmt.Errorf("event name is required (or use -i)")
				case d.Currency == "":
					return fmt.Errorf("--currency is required")
				case d.Amount == "":
					return fmt.Errorf("--amount is required")
				}
			}

			e, err := d.toEvent()
			if err != nil {
				return err
			}
			added, err := app.Queue.Add(ctx, e, d.LockPrev)
			if err != nil {
				return err
			}

			q, err := app.Queue.List(ctx)
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Added %s %s at %s",
				formatter.Bold(added.Name),
				formatter.Dim(formatter.TruncID(added.ID)),
				formatter.Position(queue.IndexOf(q, added.ID)+1))
			if added.IsChained() {
				msg += " (chained)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in the event with a form")
	cmd.Flags().StringVar(&d.Currency, "currency", "", "Currency the event spends")
	cmd.Flags().StringVar(&d.Amount, "amount", "", "Amount to spend")
	cmd.Flags().StringVar(&d.Days, "days", "", "How many days the purchase lasts")
	cmd.Flags().BoolVar(&d.LockPrev, "lock-prev", false, "Chain the event to the last queued event")

	return cmd
}

func newEventListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the queue in priority order",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := app.Queue.List(context.Background())
			if err != nil {
				return err
			}
			if len(q) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "The queue is empty.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatQueue(q, app.places()))
			return nil
		},
	}
}

func newEventRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove REF",
		Short: "Remove an event; events chained directly to it become free-floating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, err := resolveEvent(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Queue.Remove(ctx, e.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", e.Name)
			return nil
		},
	}
}

func newEventCloneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clone REF",
		Short: "Insert a free-floating copy right after an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, err := resolveEvent(ctx, app, args[0])
			if err != nil {
				return err
			}
			clone, err := app.Queue.Clone(ctx, e.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cloned %s as %s at %s\n",
				e.Name, clone.Name, formatter.Position(clone.Priority+1))
			return nil
		},
	}
}

func newEventMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move FROM TO",
		Short: "Move an event (with its chain) to the position of another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			from, err := resolvePosition(ctx, app, args[0])
			if err != nil {
				return err
			}
			to, err := resolvePosition(ctx, app, args[1])
			if err != nil {
				return err
			}
			moved, err := app.Queue.Move(ctx, from, to)
			if err != nil {
				return err
			}
			if !moved {
				return fmt.Errorf("cannot move %s to %s: chain members move with their head",
					formatter.Position(from+1), formatter.Position(to+1))
			}
			q, err := app.Queue.List(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatQueue(q, app.places()))
			return nil
		},
	}
}

func newEventChainCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chain REF",
		Short: "Chain an event to the one before it, or unchain it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, err := resolveEvent(ctx, app, args[0])
			if err != nil {
				return err
			}
			res, err := app.Queue.ToggleChain(ctx, e.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), chainMessage(e, res))
			return nil
		},
	}
}

func chainMessage(e *domain.SpendingEvent, res queue.ToggleResult) string {
	switch res {
	case queue.Linked:
		return fmt.Sprintf("%s now waits for the event before it", e.Name)
	case queue.Unlinked:
		return fmt.Sprintf("%s is free-floating", e.Name)
	case queue.NotApplicable:
		return fmt.Sprintf("%s is first in the queue and has nothing to chain to", e.Name)
	default:
		return fmt.Sprintf("%s is no longer queued", e.Name)
	}
}
