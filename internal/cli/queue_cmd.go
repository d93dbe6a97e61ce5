package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newQueueCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Reorder, chain, clone and remove events interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("the queue editor needs a terminal; use 'coinplan event' subcommands instead")
			}
			_, err := tea.NewProgram(newQueueEditor(app), tea.WithAltScreen()).Run()
			return err
		},
	}
}
