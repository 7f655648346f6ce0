package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-mizu/blueprints/formulaengine/pkg/formula"
	"github.com/go-mizu/blueprints/formulaengine/store"
)

// NewGraph creates the graph command.
func NewGraph() *cobra.Command {
	var (
		sheetID string
		b       backendFlags
	)
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print recalculation order for a stored sheet and flag circular references",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, sheetID, b)
		},
	}
	cmd.Flags().StringVar(&sheetID, "sheet", "", "Sheet to inspect (required)")
	cmd.Flags().BoolVar(&b.useSQLite, "sqlite", false, "Use the embedded SQLite backend")
	cmd.Flags().BoolVar(&b.usePostgres, "postgres", false, "Use the PostgreSQL backend (see --postgres-dsn)")
	cmd.MarkFlagRequired("sheet") //nolint:errcheck
	return cmd
}

func runGraph(cmd *cobra.Command, sheetID string, b backendFlags) error {
	ctx := cmd.Context()
	st, err := b.open(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close() //nolint:errcheck

	engine := formula.NewEngine()
	g := formula.NewDependencyGraph()
	if err := store.RebuildGraph(ctx, st, engine, g, sheetID); err != nil {
		return fmt.Errorf("rebuild dependency graph: %w", err)
	}

	cells, err := st.Cell().ListFormulaCells(ctx, sheetID)
	if err != nil {
		return fmt.Errorf("list formula cells: %w", err)
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Dependency graph: %s", sheetID)))
	anyCircular := false
	for addr := range cells {
		if g.HasCircularReference(addr) {
			anyCircular = true
			fmt.Println(errorStyle.Render(fmt.Sprintf("  %s: circular reference", formula.CellRefString(int(addr.Row), int(addr.Col)))))
		}
	}
	if !anyCircular {
		fmt.Println(successStyle.Render("  no circular references"))
	}

	fmt.Println()
	fmt.Println(labelStyle.Render("Recalculation order from each formula cell:"))
	for addr := range cells {
		order := g.GetCellsToRecalculate(addr)
		refs := make([]string, len(order))
		for i, a := range order {
			refs[i] = formula.CellRefString(int(a.Row), int(a.Col))
		}
		fmt.Printf("  %s -> %v\n", formula.CellRefString(int(addr.Row), int(addr.Col)), refs)
	}
	return nil
}
