package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	nllog "github.com/msto63/noloop/foundation/core/log"
	nlstringx "github.com/msto63/noloop/foundation/utils/stringx"
	"github.com/msto63/noloop/internal/tui/repl"
	"github.com/msto63/noloop/pkg/core/logging"
)

var (
	replJournal bool
	replPrompt  string
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive session",
	Long: `Starts the interactive noloop session. Every input is evaluated in
one global environment; definitions stay available until the session is
reset.

Keys:
  Enter       evaluate
  Alt+Enter   new line
  ↑/↓         input history
  Ctrl+R      reset the environment
  Ctrl+L      clear the screen
  PgUp/PgDn   scroll
  Esc/Ctrl+C  quit

Commands: :env, :reset, :clear, :help, :quit

Logs are written to repl.log in the data directory.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().BoolVar(&replJournal, "journal", false, "record inputs in the journal even if it is disabled in the config")
	replCmd.Flags().StringVar(&replPrompt, "prompt", "", "prompt shown before echoed inputs (default from config)")
}

func runREPL(cmd *cobra.Command, args []string) error {
	prelude, err := loadPrelude()
	if err != nil {
		return err
	}

	store, err := openJournal(replJournal)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	logger, closeLog := replLogger()
	defer closeLog()

	return repl.Run(repl.Config{
		Prompt:          nlstringx.FirstNonBlank(replPrompt, appConfig.REPL.Prompt),
		HistorySize:     appConfig.REPL.HistorySize,
		HistoryFile:     filepath.Join(appConfig.General.DataDir, "repl_history.json"),
		MaxSourceLength: appConfig.Interpreter.MaxSourceLength,
		MaxCallDepth:    appConfig.Interpreter.MaxCallDepth,
		Prelude:         prelude,
		Journal:         store,
		Logger:          logger,
	})
}

// replLogger sends logs to a file since the terminal belongs to the TUI
func replLogger() (*nllog.Logger, func()) {
	path := filepath.Join(appConfig.General.DataDir, "repl.log")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nllog.NewNop(), func() {}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nllog.NewNop(), func() {}
	}

	logger, err := logging.NewLogger(logging.LoggerConfig{
		Name:   "noloop",
		Level:  appLogger.GetLevel().String(),
		Format: "json",
		Output: file,
	})
	if err != nil {
		file.Close()
		return nllog.NewNop(), func() {}
	}
	return logger, func() { file.Close() }
}
