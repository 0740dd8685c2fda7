package cmd

import (
	"io"
	"os"
	"path/filepath"

	nlerror "github.com/msto63/noloop/foundation/core/error"
	"github.com/msto63/noloop/foundation/lang"
	"github.com/msto63/noloop/internal/journal"
	"github.com/msto63/noloop/internal/tui/repl"
)

// newEngine creates an engine with the configured limits. Programs print to out.
func newEngine(out io.Writer) (*lang.Engine, error) {
	return lang.New(lang.Options{
		Logger:          appLogger,
		MaxSourceLength: appConfig.Interpreter.MaxSourceLength,
		MaxCallDepth:    appConfig.Interpreter.MaxCallDepth,
		Output:          out,
	})
}

// loadPrelude reads the configured prelude files in order
func loadPrelude() ([]repl.Source, error) {
	sources := make([]repl.Source, 0, len(appConfig.Interpreter.Prelude))
	for _, path := range appConfig.Interpreter.Prelude {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nlerror.Wrap(err, "cannot read prelude").
				WithCode(nlerror.CodeConfigError).
				WithOperation("cli.prelude").
				WithDetail("file", path)
		}
		sources = append(sources, repl.Source{Name: filepath.Base(path), Text: string(data)})
	}
	return sources, nil
}

// openJournal opens the run journal when it is enabled in the config or
// forced by a flag. It returns nil when journaling is off.
func openJournal(force bool) (journal.Store, error) {
	if !force && !appConfig.Journal.Enabled {
		return nil, nil
	}
	store, err := journal.Open(journal.Config{
		Path:   appConfig.Journal.Path,
		Logger: appLogger,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// withFile attaches the program file to a program error
func withFile(err error, file string) error {
	if e, ok := nlerror.As(err); ok {
		if _, has := e.Detail("file"); !has {
			e.WithDetail("file", file)
		}
	}
	return err
}
