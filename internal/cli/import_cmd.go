package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/coinplan/internal/cli/formatter"
	"github.com/alexanderramin/coinplan/internal/service"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a JSON plan or a CSV of events",
		Long: `Import a JSON plan or a CSV of events.

A .json file may declare settings, currencies and events. A .csv file holds
events only, with the header name,currency,amount[,duration_days][,locked_to].
Events that duplicate a queued one (same name, currency and amount) are
skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			path := args[0]

			var res *service.ImportResult
			var err error
			switch strings.ToLower(filepath.Ext(path)) {
			case ".json":
				res, err = app.Import.ImportPlan(ctx, path)
			case ".csv":
				f, openErr := os.Open(path)
				if openErr != nil {
					return fmt.Errorf("opening %s: %w", path, openErr)
				}
				defer f.Close()
				res, err = app.Import.ImportCSV(ctx, f)
			default:
				return fmt.Errorf("unsupported file type %q: use .json or .csv", filepath.Ext(path))
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d events", res.EventCount)
			if res.CurrencyCount > 0 {
				fmt.Fprintf(out, " and %d currencies", res.CurrencyCount)
			}
			fmt.Fprintln(out)
			if res.SettingsUpdated {
				fmt.Fprintln(out, "Planner settings updated.")
			}
			if len(res.Skipped) > 0 {
				fmt.Fprintf(out, "%s %s\n",
					formatter.StyleYellow.Render(fmt.Sprintf("Skipped %d duplicates:", len(res.Skipped))),
					strings.Join(res.Skipped, ", "))
			}
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the queue as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if outPath == "" {
				_, err := app.Import.ExportCSV(ctx, cmd.OutOrStdout())
				return err
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			n, err := app.Import.ExportCSV(ctx, f)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d events to %s\n", n, outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to a file instead of stdout")

	return cmd
}
