// File: stream.go
// Title: Lookahead Stream
// Description: Single-token lookahead over a lexeme sequence. The stream
//              synthesises the end-of-input sentinel once the sequence is
//              drained and refuses to advance past it, which catches
//              productions that keep consuming after input has ended.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02
//
// Change History:
// - 2025-03-02 v0.1.0: Initial stream implementation

package stream

import (
	"strconv"

	nlerror "github.com/msto63/noloop/foundation/core/error"
	nllexer "github.com/msto63/noloop/foundation/lang/lexer"
)

// Stream exposes the current lexeme and an advance operation
type Stream struct {
	lexemes []nllexer.Lexeme
	next    int // index of the lexeme loaded by the following Next
	head    nllexer.Lexeme
}

// New creates a stream and loads the first lexeme. An empty sequence
// starts out at the sentinel.
func New(lexemes []nllexer.Lexeme) *Stream {
	s := &Stream{lexemes: lexemes}
	s.load()
	return s
}

// Head returns the current lookahead lexeme
func (s *Stream) Head() nllexer.Lexeme {
	return s.head
}

// IsEOF reports whether the head is the end-of-input sentinel
func (s *Stream) IsEOF() bool {
	return s.head.IsEOF()
}

// Remaining returns the lexemes not yet consumed, head included
func (s *Stream) Remaining() []nllexer.Lexeme {
	if s.head.IsEOF() {
		return nil
	}
	return s.lexemes[s.next-1:]
}

// Next advances to the following lexeme. Advancing while the head is
// already the sentinel fails with INCOMPLETE_PROGRAM.
func (s *Stream) Next() error {
	if s.head.IsEOF() {
		return nlerror.Newf("incomplete program: unexpected end of input at %s", s.head.Position()).
			WithCode(nlerror.CodeIncompleteProgram).
			WithOperation("parse").
			WithDetails(map[string]interface{}{
				"line":   s.head.Line,
				"column": s.head.Column,
			})
	}
	s.load()
	return nil
}

// Test checks that the head text equals text
func (s *Stream) Test(text string) error {
	if s.head.Is(text) {
		return nil
	}
	return Expected(strconv.Quote(text), s.head)
}

// NextAndTest advances and then checks the new head
func (s *Stream) NextAndTest(text string) error {
	if err := s.Next(); err != nil {
		return err
	}
	return s.Test(text)
}

// Expect checks the head text and consumes it
func (s *Stream) Expect(text string) error {
	if err := s.Test(text); err != nil {
		return err
	}
	return s.Next()
}

func (s *Stream) load() {
	if s.next < len(s.lexemes) {
		s.head = s.lexemes[s.next]
		s.next++
		return
	}
	s.head = s.sentinel()
}

// sentinel is placed just after the last lexeme
func (s *Stream) sentinel() nllexer.Lexeme {
	if len(s.lexemes) == 0 {
		return nllexer.EOF(0, 1, 1)
	}
	last := s.lexemes[len(s.lexemes)-1]
	return nllexer.EOF(last.Offset+len(last.Text), last.Line, last.Column+len(last.Text))
}

// Expected builds the PARSE_ERROR for a lexeme that does not match what a
// production requires. expected is a description such as `"("` or `a name`. Reaching end of input instead is reported as
// INCOMPLETE_PROGRAM.
func Expected(expected string, found nllexer.Lexeme) error {
	code := nlerror.CodeParse
	if found.IsEOF() {
		code = nlerror.CodeIncompleteProgram
	}
	return nlerror.Newf("expected %s, found %s at %s", expected, found.Describe(), found.Position()).
		WithCode(code).
		WithOperation("parse").
		WithDetails(map[string]interface{}{
			"expected": expected,
			"found":    found.Text,
			"kind":     found.Kind.String(),
			"line":     found.Line,
			"column":   found.Column,
		})
}
