package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	nlerror "github.com/msto63/noloop/foundation/core/error"
	nlstringx "github.com/msto63/noloop/foundation/utils/stringx"
	"github.com/msto63/noloop/internal/journal"
	"github.com/msto63/noloop/pkg/core/health"
	"github.com/msto63/noloop/pkg/core/version"
)

var (
	checkTimeout time.Duration
	checkOutput  string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Diagnose the installation",
	Long: `Checks that the configuration is valid, the data directory is
writable, every prelude file parses and the journal can be opened. The
command fails if any check is unhealthy.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 10*time.Second, "time limit for all checks")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "text", "output format: text or yaml")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkOutput != "text" && checkOutput != "yaml" {
		return nlerror.Newf("unknown output format %q, use text or yaml", checkOutput).
			WithCode(nlerror.CodeInvalidInput).
			WithOperation("cli.check")
	}

	registry := health.NewRegistry("noloop", version.Application)
	registry.Register(health.FromError("config", health.StatusUnhealthy, checkConfig))
	registry.Register(health.FromError("data_dir", health.StatusUnhealthy, checkDataDir))
	registry.Register(health.FromError("prelude", health.StatusUnhealthy, checkPrelude))
	registry.RegisterFunc("journal", checkJournal)

	ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
	defer cancel()
	report := registry.Check(ctx)

	out := cmd.OutOrStdout()
	if checkOutput == "yaml" {
		if err := writeYAML(out, report); err != nil {
			return err
		}
	} else {
		printReport(out, report)
	}

	if !report.Healthy() {
		return nlerror.Newf("installation check failed: %s", report.Status).
			WithCode(nlerror.CodeConfigError).
			WithOperation("cli.check")
	}
	return nil
}

func checkConfig(ctx context.Context) (string, error) {
	if err := appConfig.Validate(); err != nil {
		return "", err
	}
	if cfgFile != "" {
		return cfgFile, nil
	}
	return "defaults and $NOLOOP_CONFIG", nil
}

func checkDataDir(ctx context.Context) (string, error) {
	dir := appConfig.General.DataDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(dir, ".check-*")
	if err != nil {
		return "", err
	}
	name := f.Name()
	f.Close()
	if err := os.Remove(name); err != nil {
		return "", err
	}
	return dir + " is writable", nil
}

func checkPrelude(ctx context.Context) (string, error) {
	prelude, err := loadPrelude()
	if err != nil {
		return "", err
	}
	if len(prelude) == 0 {
		return "no prelude files configured", nil
	}
	engine, err := newEngine(io.Discard)
	if err != nil {
		return "", err
	}
	for _, src := range prelude {
		if _, err := engine.Parse(src.Text); err != nil {
			return "", withFile(err, src.Name)
		}
	}
	return fmt.Sprintf("%d file(s) parse", len(prelude)), nil
}

func checkJournal(ctx context.Context) health.CheckResult {
	result := health.CheckResult{Name: "journal", Status: health.StatusHealthy}
	if !appConfig.Journal.Enabled {
		result.Status = health.StatusDegraded
		result.Message = "journal is disabled"
		return result
	}

	store, err := journal.Open(journal.Config{Path: appConfig.Journal.Path, Logger: appLogger})
	if err != nil {
		result.Status = health.StatusUnhealthy
		result.Message = err.Error()
		return result
	}
	defer store.Close()

	stats, err := store.Stats(ctx)
	if err != nil {
		result.Status = health.StatusUnhealthy
		result.Message = err.Error()
		return result
	}
	result.Message = fmt.Sprintf("%d run(s) recorded", stats.Total)
	result.Details = map[string]interface{}{
		"path":   filepath.Clean(appConfig.Journal.Path),
		"failed": stats.Failed,
	}
	return result
}

func printReport(w io.Writer, report *health.Report) {
	for _, c := range report.Checks {
		mark := "[+]"
		switch c.Status {
		case health.StatusDegraded, health.StatusUnknown:
			mark = "[~]"
		case health.StatusUnhealthy:
			mark = "[-]"
		}
		fmt.Fprintf(w, "  %s %s %s\n", mark, nlstringx.PadRight(c.Name, 10, ' '), c.Message)
	}
	fmt.Fprintf(w, "\nstatus: %s\n", report.Status)
}
