package cmd

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	nlerror "github.com/msto63/noloop/foundation/core/error"
	nlstringx "github.com/msto63/noloop/foundation/utils/stringx"
	"github.com/msto63/noloop/internal/journal"
)

var (
	historyLimit  int
	historyOrigin string
	historyFailed bool
	historyStats  bool
	historyPrune  bool
	historyOutput string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the run journal",
	Long: `Lists recorded runs, newest first. Runs are recorded by "noloop run"
and the REPL when the journal is enabled in the configuration or with
--journal.

  --stats   summary per origin and error code
  --prune   delete runs older than journal.retention`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show, 0 for all")
	historyCmd.Flags().StringVar(&historyOrigin, "origin", "", "only runs from this origin: run or repl")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "only failed runs")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "show a summary instead of the runs")
	historyCmd.Flags().BoolVar(&historyPrune, "prune", false, "delete runs older than the configured retention")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", "text", "output format: text or yaml")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyOrigin != "" && historyOrigin != string(journal.OriginRun) && historyOrigin != string(journal.OriginREPL) {
		return nlerror.Newf("unknown origin %q, use run or repl", historyOrigin).
			WithCode(nlerror.CodeInvalidInput).
			WithOperation("cli.history")
	}
	if historyOutput != "text" && historyOutput != "yaml" {
		return nlerror.Newf("unknown output format %q, use text or yaml", historyOutput).
			WithCode(nlerror.CodeInvalidInput).
			WithOperation("cli.history")
	}

	store, err := openJournal(true)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if historyPrune {
		deleted, err := store.Prune(ctx, appConfig.Journal.Retention.Duration)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "pruned %d run(s) older than %s\n", deleted, appConfig.Journal.Retention.Duration)
		return nil
	}

	if historyStats {
		stats, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		if historyOutput == "yaml" {
			return writeYAML(out, stats)
		}
		printStats(out, stats)
		return nil
	}

	entries, err := store.Recent(ctx, journal.Filter{
		Origin:     journal.Origin(historyOrigin),
		OnlyFailed: historyFailed,
		Limit:      historyLimit,
	})
	if err != nil {
		return err
	}
	if historyOutput == "yaml" {
		return writeYAML(out, entries)
	}
	printEntries(out, entries)
	return nil
}

func printEntries(w io.Writer, entries []*journal.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return
	}
	for _, e := range entries {
		status := "[+]"
		outcome := e.Result
		if e.Failed() {
			status = "[-]"
			outcome = e.ErrorCode
		}
		fmt.Fprintf(w, "  %s %s  %-4s  %-20s  %8s  %-24s  %s\n",
			status,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Origin,
			nlstringx.Truncate(e.Name, 20, "..."),
			e.Duration.Round(time.Microsecond),
			nlstringx.Truncate(outcome, 24, "..."),
			nlstringx.Preview(e.Source, 40),
		)
	}
}

func printStats(w io.Writer, stats *journal.Stats) {
	fmt.Fprintf(w, "Runs:      %d\n", stats.Total)
	fmt.Fprintf(w, "Failed:    %d\n", stats.Failed)
	if stats.Total > 0 {
		fmt.Fprintf(w, "Average:   %s\n", stats.AverageDuration.Round(time.Microsecond))
		fmt.Fprintf(w, "Last run:  %s\n", stats.LastRun.Local().Format("2006-01-02 15:04:05"))
	}

	printCounts(w, "By origin:", stats.ByOrigin)
	printCounts(w, "By error code:", stats.ByErrorCode)
}

func printCounts(w io.Writer, title string, counts map[string]int64) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-24s %d\n", k, counts[k])
	}
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nlerror.Wrap(err, "failed to encode yaml").
			WithOperation("cli.output")
	}
	return enc.Close()
}
