// File: parser.go
// Title: Recursive Descent Parser
// Description: LL(1) recursive descent parser with one procedure per
//              grammar production. Left recursion in the operator levels is
//              removed with prime continuations that fold each operator
//              into a complete node around the operand parsed so far, so
//              the resulting trees associate to the left.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02
//
// Change History:
// - 2025-03-02 v0.1.0: Initial parser implementation

package parser

import (
	nlerror "github.com/msto63/noloop/foundation/core/error"
	nllog "github.com/msto63/noloop/foundation/core/log"
	nlast "github.com/msto63/noloop/foundation/lang/ast"
	nllexer "github.com/msto63/noloop/foundation/lang/lexer"
	nlstream "github.com/msto63/noloop/foundation/lang/stream"
)

// Parser turns lexeme streams into syntax trees
type Parser struct {
	logger  *nllog.Logger
	options Options
}

// Options configures parser behavior
type Options struct {
	Logger *nllog.Logger
}

// New creates a parser with the given options
func New(opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = nllog.GetDefault()
	}
	return &Parser{
		logger:  opts.Logger.WithField("component", "parser"),
		options: opts,
	}
}

// Parse parses a statement list from s. Parsing stops in front of '}' or
// the end-of-input sentinel; the caller decides whether leftover input is
// an error.
func (p *Parser) Parse(s *nlstream.Stream) (*nlast.Node, error) {
	st := &state{s: s, b: nlast.NewBuilder()}
	program, err := st.stmts()
	if err != nil {
		p.logger.Debug("parse failed", nllog.Fields{
			"code": nlerror.GetCode(err).String(),
			"at":   s.Head().Position(),
		})
		return nil, err
	}

	p.logger.Debug("parse completed", nllog.Fields{
		"statements": len(program.List),
		"nodes":      st.b.Count(),
	})
	return program, nil
}

// ParseSource scans src, parses it and checks that every lexeme was
// consumed. Trailing input fails with UNCONSUMED_INPUT.
func (p *Parser) ParseSource(src string) (*nlast.Node, error) {
	lexemes, err := nllexer.Scan(src)
	if err != nil {
		return nil, err
	}

	s := nlstream.New(lexemes)
	program, err := p.Parse(s)
	if err != nil {
		return nil, err
	}

	if !s.IsEOF() {
		return nil, unconsumed(s.Head())
	}
	return program, nil
}

// Parse parses s with a default parser
func Parse(s *nlstream.Stream) (*nlast.Node, error) {
	return New(Options{}).Parse(s)
}

// ParseSource parses src with a default parser
func ParseSource(src string) (*nlast.Node, error) {
	return New(Options{}).ParseSource(src)
}

func unconsumed(head nllexer.Lexeme) error {
	return nlerror.Newf("unconsumed input: %s at %s", head.Describe(), head.Position()).
		WithCode(nlerror.CodeUnconsumedInput).
		WithOperation("parse").
		WithDetails(map[string]interface{}{
			"found":  head.Text,
			"kind":   head.Kind.String(),
			"line":   head.Line,
			"column": head.Column,
		})
}
