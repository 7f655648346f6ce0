package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-mizu/blueprints/formulaengine/pkg/formula"
	"github.com/go-mizu/blueprints/formulaengine/store"
)

// emptyContext evaluates a formula with no cells, no variables, never
// cancelled — used by `formulaengine eval` without --sheet.
type emptyContext struct {
	functions *formula.Registry
}

func (e emptyContext) GetCellValue(formula.Address) formula.Value       { return formula.Empty() }
func (e emptyContext) GetRangeValues(formula.Range) formula.Value       { return formula.RangeValue(nil) }
func (e emptyContext) GetFunction(name string) (*formula.FunctionDef, bool) { return e.functions.Get(name) }
func (e emptyContext) GetVariable(string) (formula.Value, bool)         { return formula.Value{}, false }
func (e emptyContext) CurrentCell() formula.Address                     { return formula.Address{} }
func (e emptyContext) CurrentSheet() string                             { return "" }
func (e emptyContext) IsCancelled() bool                                { return false }

var _ formula.EvaluationContext = emptyContext{}

// NewEval creates the eval command.
func NewEval() *cobra.Command {
	var (
		sheetID string
		ref     string
		b       backendFlags
	)
	cmd := &cobra.Command{
		Use:   "eval <formula>",
		Short: "Parse and evaluate a formula, printing its result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args[0], sheetID, ref, b)
		},
	}
	cmd.Flags().StringVar(&sheetID, "sheet", "", "Evaluate against this stored sheet instead of an empty context")
	cmd.Flags().StringVar(&ref, "cell", "A1", "Cell address to evaluate as, when --sheet is set")
	cmd.Flags().BoolVar(&b.useSQLite, "sqlite", false, "Use the embedded SQLite backend")
	cmd.Flags().BoolVar(&b.usePostgres, "postgres", false, "Use the PostgreSQL backend (see --postgres-dsn)")
	return cmd
}

func runEval(cmd *cobra.Command, src, sheetID, ref string, b backendFlags) error {
	engine := formula.NewEngine()
	ast, err := engine.Parse(src)
	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		return nil
	}

	var result formula.Value
	if sheetID == "" {
		result = ast.Evaluate(emptyContext{functions: engine.Functions()})
	} else {
		st, err := b.open(cmd.Context())
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close() //nolint:errcheck

		row, col, err := formula.ParseCellRef(ref)
		if err != nil {
			return fmt.Errorf("invalid --cell: %w", err)
		}
		graph := formula.NewDependencyGraph()
		if err := store.RebuildGraph(cmd.Context(), st, engine, graph, sheetID); err != nil {
			return fmt.Errorf("rebuild dependency graph: %w", err)
		}
		gc := store.NewGridContext(cmd.Context(), st, engine, graph, sheetID, sheetID)
		result = ast.Evaluate(gc)
	}

	fmt.Println(result.ToText())
	return nil
}
