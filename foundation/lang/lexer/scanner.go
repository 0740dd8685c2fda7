// File: scanner.go
// Title: Source Scanner
// Description: Converts source text into an ordered sequence of lexemes in
//              a single left-to-right pass. Tracks line and column for
//              diagnostics and rejects any character the language does not
//              know with a SCAN_ERROR.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02
//
// Change History:
// - 2025-03-02 v0.1.0: Initial scanner implementation

package lexer

import (
	"unicode/utf8"

	nlerror "github.com/msto63/noloop/foundation/core/error"
)

// Scanner performs lexical analysis of a program
type Scanner struct {
	input  string
	pos    int // offset of the current character
	line   int // 1-based
	column int // 1-based
}

// NewScanner creates a scanner positioned at the start of input
func NewScanner(input string) *Scanner {
	return &Scanner{input: input, line: 1, column: 1}
}

// Scan converts the whole input into lexemes. The end-of-input sentinel
// is not part of the result.
func Scan(input string) ([]Lexeme, error) {
	return NewScanner(input).ScanAll()
}

// ScanAll consumes the remaining input
func (s *Scanner) ScanAll() ([]Lexeme, error) {
	var lexemes []Lexeme
	for {
		lex, ok, err := s.Next()
		if err != nil {
			return lexemes, err
		}
		if !ok {
			return lexemes, nil
		}
		lexemes = append(lexemes, lex)
	}
}

// Next returns the next lexeme. ok is false once the input is exhausted.
func (s *Scanner) Next() (lex Lexeme, ok bool, err error) {
	s.skipWhitespace()
	if s.atEnd() {
		return Lexeme{}, false, nil
	}

	start, line, column := s.pos, s.line, s.column
	emit := func(kind Kind, text string) (Lexeme, bool, error) {
		return Lexeme{Kind: kind, Text: text, Offset: start, Line: line, Column: column}, true, nil
	}

	ch := s.peek()
	switch {
	case isDigit(ch):
		return emit(KindNumber, s.readWhile(isDigit))

	case isLower(ch):
		word := s.readWhile(isNameChar)
		if IsKeyword(word) {
			return emit(KindKeyword, word)
		}
		return emit(KindName, word)

	case ch == '/' && s.peekAt(1) == '/':
		return emit(KindComment, s.readLineComment())

	case ch == '/' && s.peekAt(1) == '*':
		text, err := s.readBlockComment()
		if err != nil {
			return Lexeme{}, false, err
		}
		return emit(KindComment, text)

	case ch == '(' || ch == ')' || ch == '{' || ch == '}' || ch == ',':
		s.advance()
		return emit(KindPunct, string(ch))

	case ch == '=' || ch == '<' || ch == '>':
		s.advance()
		if s.peek() == '=' {
			s.advance()
			return emit(KindOperator, string(ch)+"=")
		}
		return emit(KindOperator, string(ch))

	case ch == '+' || ch == '-' || ch == '*' || ch == '/':
		s.advance()
		return emit(KindOperator, string(ch))

	case ch == '\\':
		s.advance()
		return emit(KindLambda, `\`)

	case ch == '"' || ch == '\'':
		text, err := s.readString(ch)
		if err != nil {
			return Lexeme{}, false, err
		}
		return emit(KindString, text)

	default:
		r, _ := utf8.DecodeRuneInString(s.input[s.pos:])
		return Lexeme{}, false, nlerror.Newf("unrecognized token %q at %d:%d", r, line, column).
			WithCode(nlerror.CodeScan).
			WithOperation("scan").
			WithDetails(map[string]interface{}{
				"character": string(r),
				"offset":    start,
				"line":      line,
				"column":    column,
			})
	}
}

// Position returns the current offset, line and column
func (s *Scanner) Position() (offset, line, column int) {
	return s.pos, s.line, s.column
}

// readLineComment reads through end of line; the newline is not part of
// the comment text.
func (s *Scanner) readLineComment() string {
	start := s.pos
	for !s.atEnd() && s.peek() != '\n' {
		s.advance()
	}
	return s.input[start:s.pos]
}

func (s *Scanner) readBlockComment() (string, error) {
	start, line, column := s.pos, s.line, s.column
	s.advance()
	s.advance()
	for !s.atEnd() {
		if s.peek() == '*' && s.peekAt(1) == '/' {
			s.advance()
			s.advance()
			return s.input[start:s.pos], nil
		}
		s.advance()
	}
	return "", unterminated("block comment", start, line, column)
}

// readString reads a quoted string and returns the enclosed text as is
func (s *Scanner) readString(quote byte) (string, error) {
	start, line, column := s.pos, s.line, s.column
	s.advance()
	bodyStart := s.pos
	for !s.atEnd() {
		if s.peek() == quote {
			text := s.input[bodyStart:s.pos]
			s.advance()
			return text, nil
		}
		s.advance()
	}
	return "", unterminated("string", start, line, column)
}

func (s *Scanner) readWhile(pred func(byte) bool) string {
	start := s.pos
	for !s.atEnd() && pred(s.peek()) {
		s.advance()
	}
	return s.input[start:s.pos]
}

func (s *Scanner) skipWhitespace() {
	for !s.atEnd() && isSpace(s.peek()) {
		s.advance()
	}
}

func (s *Scanner) atEnd() bool {
	return s.pos >= len(s.input)
}

func (s *Scanner) peek() byte {
	return s.peekAt(0)
}

func (s *Scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.input) {
		return 0
	}
	return s.input[s.pos+n]
}

func (s *Scanner) advance() {
	if s.input[s.pos] == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	s.pos++
}

func unterminated(what string, offset, line, column int) error {
	return nlerror.Newf("unterminated %s starting at %d:%d", what, line, column).
		WithCode(nlerror.CodeScan).
		WithOperation("scan").
		WithDetails(map[string]interface{}{
			"offset": offset,
			"line":   line,
			"column": column,
		})
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isLower(ch byte) bool {
	return 'a' <= ch && ch <= 'z'
}

func isNameChar(ch byte) bool {
	return isLower(ch) || isDigit(ch) || ch == '_'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}
