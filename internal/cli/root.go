package cli

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/coinplan/internal/config"
	"github.com/alexanderramin/coinplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Currencies service.CurrencyService
	Queue      service.QueueService
	Plan       service.PlanService
	Import     service.ImportService

	Config config.Config
	// ConfigPath is where `config init` writes; empty means config.Path().
	ConfigPath string

	// LogLevel gates the use-case log; --verbose lowers it to Info.
	LogLevel *slog.LevelVar

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
	// Now overrides the clock, for tests.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) places() int32 {
	return int32(a.Config.Display.CurrencyDecimals)
}

// NewRootCmd creates the top-level "coinplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "coinplan",
		Short:         "Plan purchases against weekly currency income",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose && app.LogLevel != nil {
				app.LogLevel.Set(slog.LevelInfo)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log each use case to stderr")

	root.AddCommand(
		newCurrencyCmd(app),
		newEventCmd(app),
		newPlanCmd(app),
		newQueueCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newConfigCmd(app),
	)

	return root
}
