package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "Print the lexemes of a program",
	Long: `Scans a program and prints one lexeme per line as
"line:column  KIND  text". Comments are included.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	src, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	engine, err := newEngine(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	lexemes, err := engine.Tokens(src)
	if err != nil {
		return withFile(err, args[0])
	}

	out := cmd.OutOrStdout()
	for _, lex := range lexemes {
		fmt.Fprintln(out, lex.String())
	}
	return nil
}
