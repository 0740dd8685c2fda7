package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	nlerror "github.com/msto63/noloop/foundation/core/error"
	nllog "github.com/msto63/noloop/foundation/core/log"
	"github.com/msto63/noloop/pkg/core/config"
	"github.com/msto63/noloop/pkg/core/logging"
)

var (
	cfgFile   string
	verbose   int
	logFormat string

	// Set by the root pre-run hook for every subcommand
	appConfig *config.Config
	appLogger *nllog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "noloop",
	Short: "noloop - a small language without loops",
	Long: `noloop runs programs written in a small expression language with
numbers, strings, functions, closures and recursion, but no loops.

Commands:
  run      - evaluate program files in one global environment
  tokens   - print the lexemes of a file
  ast      - print the syntax tree of a file
  repl     - start the interactive session
  history  - show the run journal
  check    - diagnose config, data directory, prelude and journal
  version  - show version information`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and reports a failure on stderr
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file, TOML or YAML (default: $NOLOOP_CONFIG or ./noloop.toml)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "lower the log level, repeat for more detail")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json, text or console")
}

// setup loads the configuration and builds the logger
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		appConfig, err = config.Load(cfgFile)
	} else {
		appConfig, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	if logFormat != "" {
		appConfig.General.LogFormat = logFormat
	}

	appLogger, err = logging.FromConfig("noloop", appConfig.General, verbose, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	appLogger.Debug("configuration loaded", nllog.Fields{
		"component": "cli",
		"command":   cmd.Name(),
		"config":    cfgFile,
	})
	return nil
}

// readSource reads a program file, "-" reads standard input
func readSource(cmd *cobra.Command, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		code := nlerror.CodeInvalidInput
		if os.IsNotExist(err) {
			code = nlerror.CodeNotFound
		}
		return "", nlerror.Wrap(err, "cannot read program").
			WithCode(code).
			WithOperation("cli.read").
			WithDetail("file", path)
	}
	return string(data), nil
}
