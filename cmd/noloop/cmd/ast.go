package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	nlerror "github.com/msto63/noloop/foundation/core/error"
	nlast "github.com/msto63/noloop/foundation/lang/ast"
)

var astFormat string

var astCmd = &cobra.Command{
	Use:   "ast FILE",
	Short: "Print the syntax tree of a program",
	Long: `Parses a program and prints its syntax tree.

Formats:
  pretty  indented tree, one node per line
  sexpr   fully parenthesised expressions
  dot     Graphviz digraph (pipe into "dot -Tsvg")`,
	Args: cobra.ExactArgs(1),
	RunE: runAST,
}

func init() {
	rootCmd.AddCommand(astCmd)

	astCmd.Flags().StringVarP(&astFormat, "format", "f", "pretty", "output format: pretty, sexpr or dot")
}

func runAST(cmd *cobra.Command, args []string) error {
	render, err := astRenderer(astFormat)
	if err != nil {
		return err
	}

	src, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	engine, err := newEngine(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	program, err := engine.Parse(src)
	if err != nil {
		return withFile(err, args[0])
	}

	fmt.Fprint(cmd.OutOrStdout(), render(program))
	return nil
}

func astRenderer(format string) (func(*nlast.Node) string, error) {
	switch format {
	case "pretty":
		return nlast.Pretty, nil
	case "sexpr":
		return func(n *nlast.Node) string { return n.String() + "\n" }, nil
	case "dot":
		return nlast.Dot, nil
	default:
		return nil, nlerror.Newf("unknown ast format %q, use pretty, sexpr or dot", format).
			WithCode(nlerror.CodeInvalidInput).
			WithOperation("cli.ast")
	}
}
