package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-mizu/blueprints/formulaengine/feature/export"
	"github.com/go-mizu/blueprints/formulaengine/feature/importer"
)

// NewImportExport creates the import and export commands.
func NewImportExport() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a .xlsx or .csv file into a sheet",
		Args:  cobra.ExactArgs(1),
	}

	var (
		importSheetID string
		xlsxSheetName string
		b             backendFlags
	)
	cmd.Flags().StringVar(&importSheetID, "sheet", "", "Destination sheet ID (required)")
	cmd.Flags().StringVar(&xlsxSheetName, "xlsx-sheet", "", "Worksheet name to read from an .xlsx file (defaults to the active sheet)")
	cmd.Flags().BoolVar(&b.useSQLite, "sqlite", false, "Use the embedded SQLite backend")
	cmd.Flags().BoolVar(&b.usePostgres, "postgres", false, "Use the PostgreSQL backend (see --postgres-dsn)")
	cmd.MarkFlagRequired("sheet") //nolint:errcheck

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := b.open(ctx)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close() //nolint:errcheck

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open file: %w", err)
		}
		defer f.Close() //nolint:errcheck

		var n int
		if isCSV(args[0]) {
			n, err = importer.ImportCSV(ctx, st, importSheetID, f)
		} else {
			n, err = importer.ImportXLSX(ctx, st, importSheetID, xlsxSheetName, f)
		}
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Imported %d cells into %s", n, importSheetID)))
		return nil
	}

	return cmd
}

// NewExport creates the export command.
func NewExport() *cobra.Command {
	var (
		sheetID string
		format  string
		output  string
		rows    int
		cols    int
		b       backendFlags
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a sheet's evaluated values to xlsx, csv, or pdf",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := b.open(ctx)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close() //nolint:errcheck

			grid, err := export.Grid(ctx, st, sheetID, rows, cols)
			if err != nil {
				return fmt.Errorf("read sheet: %w", err)
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close() //nolint:errcheck
				out = f
			}
			if err := export.Write(out, grid, export.Format(format)); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if output != "" {
				fmt.Println(successStyle.Render("Exported to " + output))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sheetID, "sheet", "", "Sheet ID to export (required)")
	cmd.Flags().StringVar(&format, "format", "xlsx", "Export format: xlsx, csv, or pdf")
	cmd.Flags().StringVar(&output, "out", "", "Output file path (defaults to stdout)")
	cmd.Flags().IntVar(&rows, "rows", 100, "Number of rows to export")
	cmd.Flags().IntVar(&cols, "cols", 26, "Number of columns to export")
	cmd.Flags().BoolVar(&b.useSQLite, "sqlite", false, "Use the embedded SQLite backend")
	cmd.Flags().BoolVar(&b.usePostgres, "postgres", false, "Use the PostgreSQL backend (see --postgres-dsn)")
	cmd.MarkFlagRequired("sheet") //nolint:errcheck
	return cmd
}

func isCSV(path string) bool {
	return len(path) >= 4 && path[len(path)-4:] == ".csv"
}
