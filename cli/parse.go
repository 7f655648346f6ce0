package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-mizu/blueprints/formulaengine/pkg/formula"
)

// NewParse creates the parse command.
func NewParse() *cobra.Command {
	var showAST bool
	cmd := &cobra.Command{
		Use:   "parse <formula>",
		Short: "Parse a formula and print its toFormulaString() round trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(args[0], showAST)
		},
	}
	cmd.Flags().BoolVar(&showAST, "ast", false, "Print a tree dump of the parsed AST")
	return cmd
}

func runParse(src string, showAST bool) error {
	engine := formula.NewEngine()
	ast, err := engine.Parse(src)
	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		return nil
	}
	fmt.Println(ast.ToFormulaString())
	if showAST {
		fmt.Println()
		fmt.Println(subtitleStyle.Render(fmt.Sprintf("%#v", ast)))
	}
	return nil
}
