// File: engine.go
// Title: Language Engine
// Description: High level entry point that chains scanner, parser and
//              evaluator. The engine owns the global environment, so
//              definitions made by one run are visible to the next, which
//              is what the REPL and multi-file runs rely on.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02
//
// Change History:
// - 2025-03-02 v0.1.0: Initial engine implementation

package lang

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	nlerror "github.com/msto63/noloop/foundation/core/error"
	nllog "github.com/msto63/noloop/foundation/core/log"
	nlast "github.com/msto63/noloop/foundation/lang/ast"
	nleval "github.com/msto63/noloop/foundation/lang/eval"
	nllexer "github.com/msto63/noloop/foundation/lang/lexer"
	nlparser "github.com/msto63/noloop/foundation/lang/parser"
	nlstringx "github.com/msto63/noloop/foundation/utils/stringx"
)

// DefaultMaxSourceLength is the largest program accepted by default (1 MiB)
const DefaultMaxSourceLength = 1 << 20

// Engine runs programs against a persistent global environment. It is not
// safe for concurrent use.
type Engine struct {
	parser    *nlparser.Parser
	evaluator *nleval.Evaluator
	globals   *nleval.Environment
	extra     []*nleval.Native
	logger    *nllog.Logger
	options   Options
}

// Options configures the engine
type Options struct {
	Logger          *nllog.Logger
	MaxSourceLength int
	MaxCallDepth    int

	// Output receives what programs print; defaults to os.Stdout
	Output io.Writer
}

// Result describes a successful run
type Result struct {
	RunID      string
	Name       string
	Value      nleval.Value
	Statements int
	Duration   time.Duration
}

// New creates an engine with a freshly seeded global environment
func New(opts Options) (*Engine, error) {
	if opts.Logger == nil {
		opts.Logger = nllog.GetDefault()
	}
	if opts.MaxSourceLength == 0 {
		opts.MaxSourceLength = DefaultMaxSourceLength
	}
	if opts.MaxCallDepth == 0 {
		opts.MaxCallDepth = nleval.DefaultMaxCallDepth
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.MaxSourceLength < 0 || opts.MaxCallDepth < 0 {
		return nil, nlerror.Newf("invalid engine limits: max source length %d, max call depth %d",
			opts.MaxSourceLength, opts.MaxCallDepth).
			WithCode(nlerror.CodeInvalidConfig).
			WithOperation("engine.new")
	}

	logger := opts.Logger.WithField("component", "engine")

	engine := &Engine{
		parser:    nlparser.New(nlparser.Options{Logger: logger}),
		evaluator: nleval.New(nleval.Options{Logger: logger, MaxCallDepth: opts.MaxCallDepth}),
		logger:    logger,
		options:   opts,
	}
	engine.Reset()

	logger.Debug("engine initialized", nllog.Fields{
		"maxSourceLength": opts.MaxSourceLength,
		"maxCallDepth":    opts.MaxCallDepth,
	})
	return engine, nil
}

// Tokens scans src and returns its lexemes
func (e *Engine) Tokens(src string) ([]nllexer.Lexeme, error) {
	if err := e.checkSource(src); err != nil {
		return nil, err
	}
	return nllexer.Scan(src)
}

// Parse scans and parses src. Input left over after the last statement
// fails with UNCONSUMED_INPUT.
func (e *Engine) Parse(src string) (*nlast.Node, error) {
	if err := e.checkSource(src); err != nil {
		return nil, err
	}
	return e.parser.ParseSource(src)
}

// Run evaluates src in the global environment
func (e *Engine) Run(ctx context.Context, src string) (*Result, error) {
	return e.RunNamed(ctx, "<input>", src)
}

// RunNamed evaluates src in the global environment. name identifies the
// source in logs and results.
func (e *Engine) RunNamed(ctx context.Context, name, src string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, nlerror.Wrap(err, "run cancelled").
			WithCode(nlerror.CodeCancelled).
			WithOperation("engine.run")
	}

	runID := uuid.NewString()
	runLog := e.logger.WithCorrelationID(runID).WithField("source", name)
	timer := runLog.StartTimer("run")

	program, err := e.Parse(src)
	if err != nil {
		timer.StopWithError(err)
		return nil, err
	}

	runLog.Debug("evaluating program", nllog.Fields{
		"statements": len(program.List),
		"preview":    nlstringx.Preview(src, 60),
	})

	v, err := e.evaluator.RunContext(ctx, program, e.globals)
	if err != nil {
		timer.StopWithError(err)
		return nil, err
	}

	return &Result{
		RunID:      runID,
		Name:       name,
		Value:      v,
		Statements: len(program.List),
		Duration:   timer.WithField("result_kind", v.Kind.String()).Stop(),
	}, nil
}

// Call invokes a callable value, typically one looked up in Globals
func (e *Engine) Call(fn nleval.Value, args ...nleval.Value) (nleval.Value, error) {
	return e.evaluator.Call(fn, args)
}

// Globals returns the global environment
func (e *Engine) Globals() *nleval.Environment {
	return e.globals
}

// Define adds a native function to the globals. Natives defined this way
// survive Reset.
func (e *Engine) Define(name string, fn nleval.NativeFunc) {
	native := &nleval.Native{Name: name, Fn: fn}
	e.extra = append(e.extra, native)
	e.globals.Set(name, nleval.NativeVal(native))
}

// Reset discards all program definitions and reseeds the globals
func (e *Engine) Reset() {
	e.globals = nleval.NewGlobals(e.options.Output)
	for _, native := range e.extra {
		e.globals.Set(native.Name, nleval.NativeVal(native))
	}
}

func (e *Engine) checkSource(src string) error {
	if nlstringx.IsBlank(src) {
		return nlerror.New("program is empty").
			WithCode(nlerror.CodeInvalidInput).
			WithOperation("engine")
	}
	if len(src) > e.options.MaxSourceLength {
		return nlerror.Newf("program exceeds maximum length: %d > %d", len(src), e.options.MaxSourceLength).
			WithCode(nlerror.CodeInvalidInput).
			WithOperation("engine").
			WithDetail("length", len(src)).
			WithDetail("max_length", e.options.MaxSourceLength)
	}
	return nil
}
