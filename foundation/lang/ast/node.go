// File: node.go
// Title: Syntax Tree Nodes
// Description: Defines the single tagged node type of the syntax tree and
//              the per-parse Builder that assigns node identities. Each
//              variant uses a fixed subset of the Node fields; Children
//              exposes them uniformly for walkers and printers.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02
//
// Change History:
// - 2025-03-02 v0.1.0: Initial node definitions

package ast

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a node
type Kind int

const (
	KindStmts Kind = iota
	KindComment
	KindIfElse
	KindFunDef
	KindLambDef
	KindReturn
	KindBinary
	KindNum
	KindString
	KindVarLookup
	KindFunCall
)

// String returns the variant name
func (k Kind) String() string {
	switch k {
	case KindStmts:
		return "Stmts"
	case KindComment:
		return "Comment"
	case KindIfElse:
		return "IfElse"
	case KindFunDef:
		return "FunDef"
	case KindLambDef:
		return "LambDef"
	case KindReturn:
		return "Return"
	case KindBinary:
		return "Binary"
	case KindNum:
		return "Num"
	case KindString:
		return "String"
	case KindVarLookup:
		return "VarLookup"
	case KindFunCall:
		return "FunCall"
	default:
		return "Unknown"
	}
}

// Binary operators. OpAssign shares the binary shape with the arithmetic
// and comparison operators.
const (
	OpAssign = "="
	OpAdd    = "+"
	OpSub    = "-"
	OpMul    = "*"
	OpDiv    = "/"
	OpEq     = "=="
	OpLe     = "<="
	OpGe     = ">="
)

// Position is the source location of the lexeme a node starts at
type Position struct {
	Line   int
	Column int
	Offset int
}

// String returns "line:column"
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is a syntax tree node.
//
// Field use per kind:
//
//	Stmts      List
//	Comment    Text
//	IfElse     Cond, Cons, Alt
//	FunDef     Text (name), Params, Body
//	LambDef    Params, Body
//	Return     Value
//	Binary     Text (operator), Left, Right
//	Num        Text (digits)
//	String     Text
//	VarLookup  Text (name)
//	FunCall    Callee, List (arguments)
type Node struct {
	ID   int
	Kind Kind
	Pos  Position

	Text   string
	Params []string
	List   []*Node

	Cond, Cons, Alt *Node
	Body            *Node
	Value           *Node
	Left, Right     *Node
	Callee          *Node
}

// Children returns the direct children in source order
func (n *Node) Children() []*Node {
	switch n.Kind {
	case KindStmts:
		return n.List
	case KindIfElse:
		return []*Node{n.Cond, n.Cons, n.Alt}
	case KindFunDef, KindLambDef:
		return []*Node{n.Body}
	case KindReturn:
		return []*Node{n.Value}
	case KindBinary:
		return []*Node{n.Left, n.Right}
	case KindFunCall:
		children := make([]*Node, 0, len(n.List)+1)
		children = append(children, n.Callee)
		return append(children, n.List...)
	default:
		return nil
	}
}

// Args returns the call arguments of a FunCall
func (n *Node) Args() []*Node {
	if n.Kind != KindFunCall {
		return nil
	}
	return n.List
}

// IsAssignment reports whether the node is a Binary '='
func (n *Node) IsAssignment() bool {
	return n.Kind == KindBinary && n.Text == OpAssign
}

// Label returns a one-line description used by the printers
func (n *Node) Label() string {
	switch n.Kind {
	case KindComment:
		return fmt.Sprintf("Comment %q", n.Text)
	case KindFunDef:
		return fmt.Sprintf("FunDef %s(%s)", n.Text, strings.Join(n.Params, ", "))
	case KindLambDef:
		return fmt.Sprintf("LambDef (%s)", strings.Join(n.Params, ", "))
	case KindBinary:
		return fmt.Sprintf("Binary %s", n.Text)
	case KindNum:
		return fmt.Sprintf("Num %s", n.Text)
	case KindString:
		return fmt.Sprintf("String %q", n.Text)
	case KindVarLookup:
		return fmt.Sprintf("VarLookup %s", n.Text)
	default:
		return n.Kind.String()
	}
}

// String renders the node as a fully parenthesised expression. Grouping
// is explicit, so the rendering shows how operators associated.
func (n *Node) String() string {
	switch n.Kind {
	case KindStmts:
		parts := make([]string, len(n.List))
		for i, s := range n.List {
			parts[i] = s.String()
		}
		return strings.Join(parts, "; ")
	case KindComment:
		return n.Text
	case KindIfElse:
		return fmt.Sprintf("if %s { %s } else { %s }", n.Cond, n.Cons, n.Alt)
	case KindFunDef:
		return fmt.Sprintf("fun %s(%s) { %s }", n.Text, strings.Join(n.Params, ", "), n.Body)
	case KindLambDef:
		return fmt.Sprintf(`\(%s) { %s }`, strings.Join(n.Params, ", "), n.Body)
	case KindReturn:
		return fmt.Sprintf("return %s", n.Value)
	case KindBinary:
		return fmt.Sprintf("(%s %s %s)", n.Left, n.Text, n.Right)
	case KindNum, KindVarLookup:
		return n.Text
	case KindString:
		return fmt.Sprintf("%q", n.Text)
	case KindFunCall:
		args := make([]string, len(n.List))
		for i, a := range n.List {
			args[i] = a.String()
		}
		return fmt.Sprintf("%s(%s)", n.Callee, strings.Join(args, ", "))
	default:
		return "?"
	}
}

// Builder creates nodes for one parse. IDs are dense and start at zero,
// so they can index side tables built by tools.
type Builder struct {
	next int
}

// NewBuilder creates a builder whose first node gets ID 0
func NewBuilder() *Builder {
	return &Builder{}
}

// Count returns the number of nodes built so far
func (b *Builder) Count() int {
	return b.next
}

func (b *Builder) node(kind Kind, pos Position) *Node {
	n := &Node{ID: b.next, Kind: kind, Pos: pos}
	b.next++
	return n
}

// Stmts builds a statement list
func (b *Builder) Stmts(pos Position, list []*Node) *Node {
	n := b.node(KindStmts, pos)
	n.List = list
	return n
}

// Comment builds a comment statement
func (b *Builder) Comment(pos Position, text string) *Node {
	n := b.node(KindComment, pos)
	n.Text = text
	return n
}

// IfElse builds a conditional
func (b *Builder) IfElse(pos Position, cond, cons, alt *Node) *Node {
	n := b.node(KindIfElse, pos)
	n.Cond, n.Cons, n.Alt = cond, cons, alt
	return n
}

// FunDef builds a named function definition
func (b *Builder) FunDef(pos Position, name string, params []string, body *Node) *Node {
	n := b.node(KindFunDef, pos)
	n.Text, n.Params, n.Body = name, params, body
	return n
}

// LambDef builds an anonymous function
func (b *Builder) LambDef(pos Position, params []string, body *Node) *Node {
	n := b.node(KindLambDef, pos)
	n.Params, n.Body = params, body
	return n
}

// Return builds a return statement
func (b *Builder) Return(pos Position, value *Node) *Node {
	n := b.node(KindReturn, pos)
	n.Value = value
	return n
}

// Binary builds an operator node, assignment included
func (b *Builder) Binary(pos Position, op string, left, right *Node) *Node {
	n := b.node(KindBinary, pos)
	n.Text, n.Left, n.Right = op, left, right
	return n
}

// Num builds a number literal
func (b *Builder) Num(pos Position, digits string) *Node {
	n := b.node(KindNum, pos)
	n.Text = digits
	return n
}

// String builds a string literal
func (b *Builder) String(pos Position, text string) *Node {
	n := b.node(KindString, pos)
	n.Text = text
	return n
}

// VarLookup builds a name reference
func (b *Builder) VarLookup(pos Position, name string) *Node {
	n := b.node(KindVarLookup, pos)
	n.Text = name
	return n
}

// FunCall builds a call
func (b *Builder) FunCall(pos Position, callee *Node, args []*Node) *Node {
	n := b.node(KindFunCall, pos)
	n.Callee, n.List = callee, args
	return n
}
