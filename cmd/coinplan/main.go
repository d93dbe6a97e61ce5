package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/coinplan/internal/cli"
	"github.com/alexanderramin/coinplan/internal/config"
	"github.com/alexanderramin/coinplan/internal/db"
	"github.com/alexanderramin/coinplan/internal/repository"
	"github.com/alexanderramin/coinplan/internal/service"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return err
	}

	// Open database
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	currencyRepo := repository.NewSQLiteCurrencyRepo(database)
	eventRepo := repository.NewSQLiteEventRepo(database)
	settingsRepo := repository.NewSQLiteSettingsRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Use-case log stays quiet unless enabled in config or with --verbose.
	logLevel := new(slog.LevelVar)
	logLevel.Set(slog.LevelError + 4)
	if cfg.General.LogUseCases {
		logLevel.Set(slog.LevelInfo)
	}
	observer := service.NewLogUseCaseObserver(os.Stderr, logLevel)

	defaults := cfg.PlannerDefaults()
	app := &cli.App{
		Currencies: service.NewCurrencyService(currencyRepo, uow, observer),
		Queue:      service.NewQueueService(eventRepo, uow, observer),
		Plan:       service.NewPlanService(currencyRepo, eventRepo, settingsRepo, defaults, observer),
		Import:     service.NewImportService(currencyRepo, eventRepo, settingsRepo, defaults, uow, observer),
		Config:     cfg,
		LogLevel:   logLevel,
	}

	// Detect interactive terminal for the form and queue editor.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	if !cfg.Display.Color || !isatty.IsTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
