// File: productions.go
// Title: Grammar Productions
// Description: One method per production of the grammar
//
//	Stmts   := Stmt { Stmt }
//	Stmt    := Comment | IfElse | FunDef | Return | Asgn
//	IfElse  := 'if' Comp Block 'else' Block
//	FunDef  := 'fun' name Params Block
//	Return  := 'return' Comp
//	Asgn    := Comp [ '=' Comp ]
//	Comp    := Expr { ('==' | '<=' | '>=') Expr }
//	Expr    := Term { ('+' | '-') Term }
//	Term    := Factor { ('*' | '/') Factor }
//	Factor  := '(' Comp ')' | Atom
//	Atom    := number | string | Callee { Args }
//	Callee  := name | '\' Params Block
//	Params  := '(' [ name { ',' name } ] ')'
//	Args    := '(' [ Comp { ',' Comp } ] ')'
//	Block   := '{' Stmts '}'
//
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02
//
// Change History:
// - 2025-03-02 v0.1.0: Initial productions

package parser

import (
	nlast "github.com/msto63/noloop/foundation/lang/ast"
	nllexer "github.com/msto63/noloop/foundation/lang/lexer"
	nlstream "github.com/msto63/noloop/foundation/lang/stream"
)

// state is the per-parse context shared by all productions
type state struct {
	s *nlstream.Stream
	b *nlast.Builder
}

func position(l nllexer.Lexeme) nlast.Position {
	return nlast.Position{Line: l.Line, Column: l.Column, Offset: l.Offset}
}

// atOperator reports whether the head is one of the given operators.
// Strings with operator text do not count.
func (st *state) atOperator(ops ...string) bool {
	head := st.s.Head()
	if head.Kind != nllexer.KindOperator {
		return false
	}
	for _, op := range ops {
		if head.Text == op {
			return true
		}
	}
	return false
}

// atBlockEnd reports whether a statement list ends here
func (st *state) atBlockEnd() bool {
	head := st.s.Head()
	return head.IsEOF() || (head.Kind == nllexer.KindPunct && head.Text == "}")
}

func (st *state) atKeyword(word string) bool {
	head := st.s.Head()
	return head.Kind == nllexer.KindKeyword && head.Text == word
}

func (st *state) stmts() (*nlast.Node, error) {
	pos := position(st.s.Head())
	if st.atBlockEnd() {
		return nil, nlstream.Expected("a statement", st.s.Head())
	}

	var list []*nlast.Node
	for !st.atBlockEnd() {
		stmt, err := st.stmt()
		if err != nil {
			return nil, err
		}
		list = append(list, stmt)
	}
	return st.b.Stmts(pos, list), nil
}

func (st *state) stmt() (*nlast.Node, error) {
	head := st.s.Head()
	switch {
	case head.Kind == nllexer.KindComment:
		if err := st.s.Next(); err != nil {
			return nil, err
		}
		return st.b.Comment(position(head), head.Text), nil
	case st.atKeyword(nllexer.KeywordIf):
		return st.ifElse()
	case st.atKeyword(nllexer.KeywordFun):
		return st.funDef()
	case st.atKeyword(nllexer.KeywordReturn):
		return st.ret()
	default:
		return st.asgn()
	}
}

func (st *state) ifElse() (*nlast.Node, error) {
	pos := position(st.s.Head())
	if err := st.s.Next(); err != nil {
		return nil, err
	}

	cond, err := st.comp()
	if err != nil {
		return nil, err
	}
	cons, err := st.block()
	if err != nil {
		return nil, err
	}
	if err := st.s.Expect(nllexer.KeywordElse); err != nil {
		return nil, err
	}
	alt, err := st.block()
	if err != nil {
		return nil, err
	}
	return st.b.IfElse(pos, cond, cons, alt), nil
}

func (st *state) funDef() (*nlast.Node, error) {
	pos := position(st.s.Head())
	if err := st.s.Next(); err != nil {
		return nil, err
	}

	name, err := st.name()
	if err != nil {
		return nil, err
	}
	params, err := st.params()
	if err != nil {
		return nil, err
	}
	body, err := st.block()
	if err != nil {
		return nil, err
	}
	return st.b.FunDef(pos, name, params, body), nil
}

func (st *state) lambDef() (*nlast.Node, error) {
	pos := position(st.s.Head())
	if err := st.s.Next(); err != nil {
		return nil, err
	}

	params, err := st.params()
	if err != nil {
		return nil, err
	}
	body, err := st.block()
	if err != nil {
		return nil, err
	}
	return st.b.LambDef(pos, params, body), nil
}

func (st *state) ret() (*nlast.Node, error) {
	pos := position(st.s.Head())
	if err := st.s.Next(); err != nil {
		return nil, err
	}

	value, err := st.comp()
	if err != nil {
		return nil, err
	}
	return st.b.Return(pos, value), nil
}

// asgn parses a comparison optionally followed by '=' and a second
// comparison. Whether the left side can be assigned to is checked when the
// node is evaluated.
func (st *state) asgn() (*nlast.Node, error) {
	left, err := st.comp()
	if err != nil {
		return nil, err
	}
	suffix, err := st.asgnPrime(left)
	if err != nil {
		return nil, err
	}
	if suffix == nil {
		return left, nil
	}
	return suffix, nil
}

func (st *state) asgnPrime(left *nlast.Node) (*nlast.Node, error) {
	if !st.atOperator(nlast.OpAssign) {
		return nil, nil
	}
	pos := position(st.s.Head())
	if err := st.s.Next(); err != nil {
		return nil, err
	}

	right, err := st.comp()
	if err != nil {
		return nil, err
	}
	return st.b.Binary(pos, nlast.OpAssign, left, right), nil
}

// binaryPrime implements the prime continuation shared by the operator
// levels. It returns nil when the head is not one of ops. Otherwise it
// folds left and the next operand into a node and continues with that
// node as the new left operand.
func (st *state) binaryPrime(left *nlast.Node, operand func() (*nlast.Node, error), ops ...string) (*nlast.Node, error) {
	if !st.atOperator(ops...) {
		return nil, nil
	}
	opLex := st.s.Head()
	if err := st.s.Next(); err != nil {
		return nil, err
	}

	right, err := operand()
	if err != nil {
		return nil, err
	}
	node := st.b.Binary(position(opLex), opLex.Text, left, right)

	rest, err := st.binaryPrime(node, operand, ops...)
	if err != nil {
		return nil, err
	}
	if rest == nil {
		return node, nil
	}
	return rest, nil
}

func (st *state) comp() (*nlast.Node, error) {
	left, err := st.expr()
	if err != nil {
		return nil, err
	}
	suffix, err := st.compPrime(left)
	if err != nil {
		return nil, err
	}
	if suffix == nil {
		return left, nil
	}
	return suffix, nil
}

func (st *state) compPrime(left *nlast.Node) (*nlast.Node, error) {
	return st.binaryPrime(left, st.expr, nlast.OpEq, nlast.OpLe, nlast.OpGe)
}

func (st *state) expr() (*nlast.Node, error) {
	left, err := st.term()
	if err != nil {
		return nil, err
	}
	suffix, err := st.exprPrime(left)
	if err != nil {
		return nil, err
	}
	if suffix == nil {
		return left, nil
	}
	return suffix, nil
}

func (st *state) exprPrime(left *nlast.Node) (*nlast.Node, error) {
	return st.binaryPrime(left, st.term, nlast.OpAdd, nlast.OpSub)
}

func (st *state) term() (*nlast.Node, error) {
	left, err := st.factor()
	if err != nil {
		return nil, err
	}
	suffix, err := st.termPrime(left)
	if err != nil {
		return nil, err
	}
	if suffix == nil {
		return left, nil
	}
	return suffix, nil
}

// termPrime folds '*' and '/' around the factor parsed by term
func (st *state) termPrime(left *nlast.Node) (*nlast.Node, error) {
	return st.binaryPrime(left, st.factor, nlast.OpMul, nlast.OpDiv)
}

func (st *state) factor() (*nlast.Node, error) {
	head := st.s.Head()
	if head.Kind == nllexer.KindPunct && head.Text == "(" {
		if err := st.s.Next(); err != nil {
			return nil, err
		}
		inner, err := st.comp()
		if err != nil {
			return nil, err
		}
		if err := st.s.Expect(")"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return st.atom()
}

func (st *state) atom() (*nlast.Node, error) {
	head := st.s.Head()
	pos := position(head)

	var callee *nlast.Node
	switch head.Kind {
	case nllexer.KindNumber:
		if err := st.s.Next(); err != nil {
			return nil, err
		}
		return st.b.Num(pos, head.Text), nil
	case nllexer.KindString:
		if err := st.s.Next(); err != nil {
			return nil, err
		}
		return st.b.String(pos, head.Text), nil
	case nllexer.KindName:
		if err := st.s.Next(); err != nil {
			return nil, err
		}
		callee = st.b.VarLookup(pos, head.Text)
	case nllexer.KindLambda:
		lambda, err := st.lambDef()
		if err != nil {
			return nil, err
		}
		callee = lambda
	default:
		return nil, nlstream.Expected("an expression", head)
	}

	for st.atPunct("(") {
		callPos := position(st.s.Head())
		args, err := st.args()
		if err != nil {
			return nil, err
		}
		callee = st.b.FunCall(callPos, callee, args)
	}
	return callee, nil
}

func (st *state) atPunct(text string) bool {
	head := st.s.Head()
	return head.Kind == nllexer.KindPunct && head.Text == text
}

func (st *state) name() (string, error) {
	head := st.s.Head()
	if head.Kind != nllexer.KindName {
		return "", nlstream.Expected("a name", head)
	}
	if err := st.s.Next(); err != nil {
		return "", err
	}
	return head.Text, nil
}

func (st *state) params() ([]string, error) {
	if err := st.s.Expect("("); err != nil {
		return nil, err
	}

	params := []string{}
	if st.atPunct(")") {
		return params, st.s.Next()
	}
	for {
		name, err := st.name()
		if err != nil {
			return nil, err
		}
		params = append(params, name)
		if !st.atPunct(",") {
			break
		}
		if err := st.s.Next(); err != nil {
			return nil, err
		}
	}
	if err := st.s.Expect(")"); err != nil {
		return nil, err
	}
	return params, nil
}

func (st *state) args() ([]*nlast.Node, error) {
	if err := st.s.Expect("("); err != nil {
		return nil, err
	}

	args := []*nlast.Node{}
	if st.atPunct(")") {
		return args, st.s.Next()
	}
	for {
		arg, err := st.comp()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !st.atPunct(",") {
			break
		}
		if err := st.s.Next(); err != nil {
			return nil, err
		}
	}
	if err := st.s.Expect(")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (st *state) block() (*nlast.Node, error) {
	if err := st.s.Expect("{"); err != nil {
		return nil, err
	}
	body, err := st.stmts()
	if err != nil {
		return nil, err
	}
	if err := st.s.Expect("}"); err != nil {
		return nil, err
	}
	return body, nil
}
