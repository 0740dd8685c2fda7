// File: lexeme.go
// Title: Lexeme Definitions
// Description: Defines the classified token produced by the scanner and
//              consumed by the lookahead stream.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02
//
// Change History:
// - 2025-03-02 v0.1.0: Initial lexeme definitions

package lexer

import "fmt"

// Kind classifies a lexeme
type Kind int

const (
	KindEOF Kind = iota
	KindNumber
	KindName
	KindString
	KindComment
	KindOperator
	KindPunct
	KindKeyword
	KindLambda
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindNumber:
		return "NUMBER"
	case KindName:
		return "NAME"
	case KindString:
		return "STRING"
	case KindComment:
		return "COMMENT"
	case KindOperator:
		return "OPERATOR"
	case KindPunct:
		return "PUNCT"
	case KindKeyword:
		return "KEYWORD"
	case KindLambda:
		return "LAMBDA"
	default:
		return "UNKNOWN"
	}
}

// Keywords reserved by the language
const (
	KeywordIf     = "if"
	KeywordElse   = "else"
	KeywordReturn = "return"
	KeywordFun    = "fun"
)

var keywords = map[string]bool{
	KeywordIf:     true,
	KeywordElse:   true,
	KeywordReturn: true,
	KeywordFun:    true,
}

// IsKeyword reports whether name is reserved
func IsKeyword(name string) bool {
	return keywords[name]
}

// Lexeme is a classified fragment of source text. Offset, Line and Column
// point at its first character and serve diagnostics only.
type Lexeme struct {
	Kind   Kind
	Text   string
	Offset int
	Line   int
	Column int
}

// EOF returns the end-of-input sentinel positioned at the given location
func EOF(offset, line, column int) Lexeme {
	return Lexeme{Kind: KindEOF, Offset: offset, Line: line, Column: column}
}

// IsEOF reports whether the lexeme is the end-of-input sentinel
func (l Lexeme) IsEOF() bool {
	return l.Kind == KindEOF
}

// Is reports whether the lexeme is the syntax element text. Strings and
// comments never match since their text is program data, and neither does
// the sentinel.
func (l Lexeme) Is(text string) bool {
	switch l.Kind {
	case KindEOF, KindString, KindComment:
		return false
	default:
		return l.Text == text
	}
}

// Describe returns the lexeme as it should appear in error messages
func (l Lexeme) Describe() string {
	if l.Kind == KindEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", l.Text)
}

// Position returns "line:column"
func (l Lexeme) Position() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// String returns a representation for token dumps
func (l Lexeme) String() string {
	if l.Kind == KindEOF {
		return fmt.Sprintf("%d:%d\tEOF", l.Line, l.Column)
	}
	return fmt.Sprintf("%d:%d\t%s\t%q", l.Line, l.Column, l.Kind, l.Text)
}
