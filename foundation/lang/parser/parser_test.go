// File: parser_test.go
// Title: Parser Tests
// Description: Tests for tree shapes, associativity, statements and parse
//              errors.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02
//
// Change History:
// - 2025-03-02 v0.1.0: Initial test suite

package parser

import (
	"testing"

	nlerror "github.com/msto63/noloop/foundation/core/error"
	nllog "github.com/msto63/noloop/foundation/core/log"
	nlast "github.com/msto63/noloop/foundation/lang/ast"
	nllexer "github.com/msto63/noloop/foundation/lang/lexer"
	nlstream "github.com/msto63/noloop/foundation/lang/stream"
)

func newTestParser() *Parser {
	return New(Options{Logger: nllog.NewNop()})
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"precedence", "2 + 3 * 4", "(2 + (3 * 4))"},
		{"left associative subtraction", "10 - 3 - 2", "((10 - 3) - 2)"},
		{"left associative division", "8 / 4 / 2", "((8 / 4) / 2)"},
		{"mixed term chain", "2 * 3 / 4 * 5", "(((2 * 3) / 4) * 5)"},
		{"parentheses", "(2 + 3) * 4", "((2 + 3) * 4)"},
		{"nested parentheses", "((1))", "1"},
		{"comparison below arithmetic", "1 + 1 <= 3", "((1 + 1) <= 3)"},
		{"comparison chain", "1 == 1 == 1", "((1 == 1) == 1)"},
		{"assignment", "a = 5", "(a = 5)"},
		{"assignment of comparison", "ok = x >= 2", "(ok = (x >= 2))"},
		{"string literal", `s = "hi"`, `(s = "hi")`},
		{"call", "f(1, x + 2)", "f(1, (x + 2))"},
		{"call without args", "f()", "f()"},
		{"chained call", "f(1)(2)", "f(1)(2)"},
		{"call in arithmetic", "1 + f(2) * 3", "(1 + (f(2) * 3))"},
		{"immediately invoked lambda", `\(x) { return x }(3)`, `\(x) { return x }(3)`},
		{"two statements", "a = 1 a", "(a = 1); a"},
		{"function definition", "fun add(a, b) { return a + b }", "fun add(a, b) { return (a + b) }"},
		{"function without params", "fun one() { return 1 }", "fun one() { return 1 }"},
		{"if else", "if 1 <= 2 { return 10 } else { return 20 }", "if (1 <= 2) { return 10 } else { return 20 }"},
		{"lambda value", `f = \() { return 1 }`, `(f = \() { return 1 })`},
		{"comment statement", "// hello\nx", "// hello; x"},
		{"return nested lambda", `fun a() { return \() { return 1 } } a()()`, `fun a() { return \() { return 1 } }; a()()`},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := p.ParseSource(tt.input)
			if err != nil {
				t.Fatalf("ParseSource(%q) error = %v", tt.input, err)
			}
			if got := program.String(); got != tt.want {
				t.Errorf("ParseSource(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNodeKinds(t *testing.T) {
	program, err := newTestParser().ParseSource(`fun f(x) { return x } g = \(y) { return y } // c
if f(1) { a = 1 } else { a = "s" }`)
	if err != nil {
		t.Fatalf("ParseSource() error = %v", err)
	}

	want := []nlast.Kind{nlast.KindFunDef, nlast.KindBinary, nlast.KindComment, nlast.KindIfElse}
	if len(program.List) != len(want) {
		t.Fatalf("got %d statements, want %d", len(program.List), len(want))
	}
	for i, kind := range want {
		if program.List[i].Kind != kind {
			t.Errorf("statement %d kind = %v, want %v", i, program.List[i].Kind, kind)
		}
	}

	assign := program.List[1]
	if !assign.IsAssignment() || assign.Right.Kind != nlast.KindLambDef {
		t.Errorf("statement 1 = %s, want assignment of a lambda", assign)
	}
	ifElse := program.List[3]
	if ifElse.Cond.Kind != nlast.KindFunCall || len(ifElse.Cond.Args()) != 1 {
		t.Errorf("if condition = %s, want call with one argument", ifElse.Cond)
	}
	if ifElse.Alt.List[0].Right.Kind != nlast.KindString {
		t.Errorf("else branch = %s", ifElse.Alt)
	}
}

func TestParseChainedCallShape(t *testing.T) {
	program, err := ParseSource("f(1)(2)")
	if err != nil {
		t.Fatalf("ParseSource() error = %v", err)
	}
	outer := program.List[0]
	if outer.Kind != nlast.KindFunCall || outer.Args()[0].Text != "2" {
		t.Fatalf("outer call = %s", outer)
	}
	inner := outer.Callee
	if inner.Kind != nlast.KindFunCall || inner.Args()[0].Text != "1" {
		t.Fatalf("inner call = %s", inner)
	}
	if inner.Callee.Kind != nlast.KindVarLookup || inner.Callee.Text != "f" {
		t.Errorf("innermost callee = %s", inner.Callee)
	}
}

func TestParsePositions(t *testing.T) {
	program, err := ParseSource("x = 1\n  y - 2")
	if err != nil {
		t.Fatalf("ParseSource() error = %v", err)
	}
	sub := program.List[1]
	if sub.Pos.Line != 2 || sub.Pos.Column != 5 {
		t.Errorf("'-' node at %s, want 2:5", sub.Pos)
	}
	if sub.Left.Pos.Column != 3 {
		t.Errorf("'y' at column %d, want 3", sub.Left.Pos.Column)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  nlerror.Code
	}{
		{"empty program", "", nlerror.CodeIncompleteProgram},
		{"only whitespace", "   ", nlerror.CodeIncompleteProgram},
		{"stray closing brace", "}", nlerror.CodeParse},
		{"trailing closing brace", "a = 1 }", nlerror.CodeUnconsumedInput},
		{"missing operand", "1 +", nlerror.CodeIncompleteProgram},
		{"operator as statement", "* 2", nlerror.CodeParse},
		{"unclosed paren", "(1 + 2", nlerror.CodeIncompleteProgram},
		{"unclosed call", "f(1, 2", nlerror.CodeIncompleteProgram},
		{"missing else", "if 1 { return 1 }", nlerror.CodeIncompleteProgram},
		{"wrong token instead of else", "if 1 { return 1 } x", nlerror.CodeParse},
		{"empty block", "if 1 { } else { return 2 }", nlerror.CodeParse},
		{"fun without name", "fun (a) { return a }", nlerror.CodeParse},
		{"fun with number param", "fun f(1) { return 1 }", nlerror.CodeParse},
		{"trailing comma in params", "fun f(a,) { return a }", nlerror.CodeParse},
		{"unclosed body", "fun f() { return 1", nlerror.CodeIncompleteProgram},
		{"double assignment", "a = b = 1", nlerror.CodeParse},
		{"lone less than", "1 < 2", nlerror.CodeParse},
		{"keyword as expression", "x = else", nlerror.CodeParse},
		{"return without value", "return", nlerror.CodeIncompleteProgram},
		{"scan error surfaces", "a = #", nlerror.CodeScan},
		{"string is not punctuation", `f "(" 1 )`, nlerror.CodeParse},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseSource(tt.input)
			if err == nil {
				t.Fatalf("ParseSource(%q) expected error", tt.input)
			}
			if !nlerror.HasCode(err, tt.code) {
				t.Errorf("ParseSource(%q) code = %v (%v), want %v", tt.input, nlerror.GetCode(err), err, tt.code)
			}
		})
	}
}

func TestParseErrorDetails(t *testing.T) {
	_, err := ParseSource("fun f(a b) { return a }")
	e, ok := nlerror.As(err)
	if !ok {
		t.Fatalf("error %v is not *Error", err)
	}
	if got, _ := e.Detail("expected"); got != `")"` {
		t.Errorf("expected = %v", got)
	}
	if got, _ := e.Detail("found"); got != "b" {
		t.Errorf("found = %v", got)
	}
	if got, _ := e.Detail("column"); got != 9 {
		t.Errorf("column = %v", got)
	}
}

func TestParseStopsAtBlockEnd(t *testing.T) {
	lexemes, err := nllexer.Scan("a = 1 } b")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	s := nlstream.New(lexemes)

	program, err := newTestParser().Parse(s)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(program.List) != 1 {
		t.Errorf("got %d statements, want 1", len(program.List))
	}
	if s.IsEOF() || s.Head().Text != "}" {
		t.Errorf("head = %v, want }", s.Head())
	}
}

func TestParseConsumesValidPrograms(t *testing.T) {
	programs := []string{
		"a = 5 a",
		"fun f(x) { if x <= 1 { return 1 } else { return x * f(x - 1) } } f(5)",
		`fun a() { return \() { return 1 } } a()()`,
		"/* block */ print(\"x\", 'y')",
	}

	for _, src := range programs {
		lexemes, err := nllexer.Scan(src)
		if err != nil {
			t.Fatalf("Scan(%q) error = %v", src, err)
		}
		s := nlstream.New(lexemes)
		if _, err := newTestParser().Parse(s); err != nil {
			t.Fatalf("Parse(%q) error = %v", src, err)
		}
		if !s.IsEOF() {
			t.Errorf("Parse(%q) left %v unconsumed", src, s.Remaining())
		}
	}
}

func TestParseUsesFreshBuilder(t *testing.T) {
	p := newTestParser()
	first, _ := p.ParseSource("1")
	second, _ := p.ParseSource("1")
	if first.List[0].ID != second.List[0].ID {
		t.Errorf("IDs differ across parses: %d vs %d", first.List[0].ID, second.List[0].ID)
	}
}
