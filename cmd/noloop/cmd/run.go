package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	nllog "github.com/msto63/noloop/foundation/core/log"
	"github.com/msto63/noloop/foundation/lang"
	"github.com/msto63/noloop/internal/journal"
)

var (
	runJournal     bool
	runPrintResult bool
	runNoPrelude   bool
)

var runCmd = &cobra.Command{
	Use:   "run FILE...",
	Short: "Evaluate program files",
	Long: `Evaluates the given files in order. All files share one global
environment, so functions defined in one file can be called from the
next. Prelude files from the configuration run first. Use "-" to read a
program from standard input.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runJournal, "journal", false, "record the runs in the journal even if it is disabled in the config")
	runCmd.Flags().BoolVarP(&runPrintResult, "print-result", "p", false, "print the value of the last file")
	runCmd.Flags().BoolVar(&runNoPrelude, "no-prelude", false, "skip the configured prelude files")
}

func runRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	engine, err := newEngine(out)
	if err != nil {
		return err
	}

	store, err := openJournal(runJournal)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	if !runNoPrelude {
		prelude, err := loadPrelude()
		if err != nil {
			return err
		}
		for _, src := range prelude {
			if _, err := engine.RunNamed(cmd.Context(), src.Name, src.Text); err != nil {
				return withFile(err, src.Name)
			}
		}
	}

	var last *lang.Result
	for _, path := range args {
		src, err := readSource(cmd, path)
		if err != nil {
			return err
		}

		start := time.Now()
		res, err := engine.RunNamed(cmd.Context(), path, src)
		if store != nil {
			entry := journal.FromRun(journal.OriginRun, path, src, res, err, time.Since(start))
			if jerr := store.Record(cmd.Context(), entry); jerr != nil {
				appLogger.LogError(jerr, nllog.Fields{"component": "cli"})
			}
		}
		if err != nil {
			return withFile(err, path)
		}
		last = res
	}

	if runPrintResult && last != nil && !last.Value.IsUnset() {
		fmt.Fprintln(out, last.Value.Repr())
	}
	return nil
}
