package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewInit creates the init command.
func NewInit() *cobra.Command {
	var b backendFlags
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the data directory and the chosen store's schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context(), b)
		},
	}
	cmd.Flags().BoolVar(&b.useSQLite, "sqlite", false, "Use the embedded SQLite backend")
	cmd.Flags().BoolVar(&b.usePostgres, "postgres", false, "Use the PostgreSQL backend (see --postgres-dsn)")
	return cmd
}

func runInit(ctx context.Context, b backendFlags) error {
	fmt.Println(Banner())
	fmt.Println(infoStyle.Render("Initializing formulaengine..."))

	if !b.usePostgres {
		if err := os.MkdirAll(GetDataDir(), 0755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
		fmt.Println(successStyle.Render("  Created data directory " + GetDataDir()))
	}

	st, err := b.open(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close() //nolint:errcheck

	fmt.Println(successStyle.Render("  Schema ready"))
	fmt.Println()
	fmt.Println(subtitleStyle.Render("Next steps:"))
	fmt.Println(subtitleStyle.Render("  formulaengine serve   - Start the web API"))
	fmt.Println(subtitleStyle.Render("  formulaengine eval '=1+1'"))
	fmt.Println()
	return nil
}
