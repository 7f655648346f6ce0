package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/go-mizu/blueprints/formulaengine/app/web"
)

// NewServe creates the serve command.
func NewServe() *cobra.Command {
	var (
		port     int
		apiToken string
		b        backendFlags
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the formulaengine web API",
		Long: `Start the HTTP API exposing cell read/write, dependency-aware
recalculation, and import/export over a stored workbook grid.

The server uses the embedded DuckDB store by default; pass --sqlite or
--postgres to pick a different backend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port, apiToken, b)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	cmd.Flags().StringVar(&apiToken, "api-token", "", "Static bearer token required on /api/v1 (disabled if empty)")
	cmd.Flags().BoolVar(&b.useSQLite, "sqlite", false, "Use the embedded SQLite backend")
	cmd.Flags().BoolVar(&b.usePostgres, "postgres", false, "Use the PostgreSQL backend (see --postgres-dsn)")
	return cmd
}

func runServe(ctx context.Context, port int, apiToken string, b backendFlags) error {
	fmt.Println(Banner())

	fmt.Println(infoStyle.Render("Opening store..."))
	st, err := b.open(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close() //nolint:errcheck
	fmt.Println(successStyle.Render("  Store ready"))

	cfg := web.Config{Addr: fmt.Sprintf(":%d", port)}
	if apiToken != "" {
		hash, err := web.HashToken(apiToken)
		if err != nil {
			return fmt.Errorf("hash api token: %w", err)
		}
		cfg.APITokenHash = hash
	}
	srv := web.New(cfg, st)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println()
	fmt.Println(boxStyle.Render(fmt.Sprintf("%s\n\n%s %s\n\n%s",
		titleStyle.Render("formulaengine is running"),
		labelStyle.Render("API:"),
		urlStyle.Render(fmt.Sprintf("http://localhost:%d/api/v1", port)),
		subtitleStyle.Render("Press Ctrl+C to stop"),
	)))
	fmt.Println()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	fmt.Println(successStyle.Render("Server stopped gracefully"))
	return nil
}
