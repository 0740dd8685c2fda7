// File: evaluator.go
// Title: Tree Walking Evaluator
// Description: Evaluates syntax trees against an environment chain. The
//              propagation of return is explicit: every evaluation yields a
//              Result whose Returning flag tells statement lists and
//              conditionals to stop and hand the value upwards.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02
//
// Change History:
// - 2025-03-02 v0.1.0: Initial evaluator implementation

package eval

import (
	"context"
	"strconv"
	"strings"

	nlerror "github.com/msto63/noloop/foundation/core/error"
	nllog "github.com/msto63/noloop/foundation/core/log"
	nlast "github.com/msto63/noloop/foundation/lang/ast"
)

// DefaultMaxCallDepth bounds nested user function calls
const DefaultMaxCallDepth = 10000

// maxRepeatLength bounds the result of string repetition
const maxRepeatLength = 1 << 24

// Result is the outcome of evaluating one node. Returning is set while a
// return statement propagates towards the enclosing call.
type Result struct {
	Value     Value
	Returning bool
}

func value(v Value) Result {
	return Result{Value: v}
}

// Evaluator walks syntax trees. One Evaluator runs one program at a time.
type Evaluator struct {
	logger   *nllog.Logger
	maxDepth int
	depth    int

	// ctx of the running program, nil between runs
	ctx context.Context
}

// Options configures an Evaluator
type Options struct {
	Logger       *nllog.Logger
	MaxCallDepth int
}

// New creates an evaluator
func New(opts Options) *Evaluator {
	if opts.Logger == nil {
		opts.Logger = nllog.GetDefault()
	}
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	return &Evaluator{
		logger:   opts.Logger.WithField("component", "evaluator"),
		maxDepth: opts.MaxCallDepth,
	}
}

// Run evaluates a program in env. A top level return ends the program
// with its value; otherwise the value of the last statement is returned.
func (ev *Evaluator) Run(program *nlast.Node, env *Environment) (Value, error) {
	return ev.RunContext(context.Background(), program, env)
}

// RunContext is Run with cancellation. ctx is checked on every call of a
// program function, so a cancelled run stops at the next call with
// CANCELLED.
func (ev *Evaluator) RunContext(ctx context.Context, program *nlast.Node, env *Environment) (Value, error) {
	ev.depth = 0
	ev.ctx = ctx
	defer func() { ev.ctx = nil }()

	res, err := ev.Eval(program, env)
	if err != nil {
		return Value{}, err
	}
	return res.Value, nil
}

// Run evaluates program with a default evaluator
func Run(program *nlast.Node, env *Environment) (Value, error) {
	return New(Options{}).Run(program, env)
}

// Eval evaluates a single node
func (ev *Evaluator) Eval(n *nlast.Node, env *Environment) (Result, error) {
	switch n.Kind {
	case nlast.KindStmts:
		return ev.evalStmts(n, env)

	case nlast.KindComment:
		return value(Unset()), nil

	case nlast.KindIfElse:
		cond, err := ev.expr(n.Cond, env)
		if err != nil {
			return Result{}, err
		}
		branch := n.Alt
		if cond.Truthy() {
			branch = n.Cons
		}
		res, err := ev.Eval(branch, env)
		if err != nil || res.Returning {
			return res, err
		}
		// a branch that runs to completion yields nothing
		return value(Unset()), nil

	case nlast.KindFunDef:
		fn := FunctionVal(&Function{Name: n.Text, Params: n.Params, Body: n.Body, Env: env})
		env.Set(n.Text, fn)
		return value(fn), nil

	case nlast.KindLambDef:
		return value(FunctionVal(&Function{Params: n.Params, Body: n.Body, Env: env})), nil

	case nlast.KindReturn:
		v, err := ev.expr(n.Value, env)
		if err != nil {
			return Result{}, err
		}
		return Result{Value: v, Returning: true}, nil

	case nlast.KindBinary:
		if n.Text == nlast.OpAssign {
			return ev.evalAssign(n, env)
		}
		v, err := ev.evalBinary(n, env)
		return value(v), err

	case nlast.KindNum:
		num, err := strconv.ParseInt(n.Text, 10, 64)
		if err != nil {
			return Result{}, nodeError(n, nlerror.CodeInvalidInput, "number literal %s out of range", n.Text)
		}
		return value(NumberVal(num)), nil

	case nlast.KindString:
		return value(StringVal(n.Text)), nil

	case nlast.KindVarLookup:
		v, ok := env.Get(n.Text)
		if !ok {
			return Result{}, nodeError(n, nlerror.CodeUndefinedName, "undefined name %s", n.Text).
				WithDetail("name", n.Text)
		}
		return value(v), nil

	case nlast.KindFunCall:
		v, err := ev.evalCall(n, env)
		return value(v), err

	default:
		return Result{}, nodeError(n, nlerror.CodeInternal, "unknown node kind %s", n.Kind)
	}
}

// expr evaluates a node in expression position. Only statements can
// return, so the flag is dropped.
func (ev *Evaluator) expr(n *nlast.Node, env *Environment) (Value, error) {
	res, err := ev.Eval(n, env)
	return res.Value, err
}

func (ev *Evaluator) evalStmts(n *nlast.Node, env *Environment) (Result, error) {
	var last Result
	for _, stmt := range n.List {
		res, err := ev.Eval(stmt, env)
		if err != nil {
			return Result{}, err
		}
		if res.Returning {
			return res, nil
		}
		last = res
	}
	return last, nil
}

func (ev *Evaluator) evalAssign(n *nlast.Node, env *Environment) (Result, error) {
	if n.Left.Kind != nlast.KindVarLookup {
		return Result{}, nodeError(n, nlerror.CodeInvalidAssignment, "cannot assign to %s", n.Left).
			WithDetail("target", n.Left.Kind.String())
	}

	v, err := ev.expr(n.Right, env)
	if err != nil {
		return Result{}, err
	}
	env.Set(n.Left.Text, v)
	return value(v), nil
}

func (ev *Evaluator) evalBinary(n *nlast.Node, env *Environment) (Value, error) {
	left, err := ev.expr(n.Left, env)
	if err != nil {
		return Value{}, err
	}
	right, err := ev.expr(n.Right, env)
	if err != nil {
		return Value{}, err
	}

	if n.Text == nlast.OpEq {
		return BoolVal(left.Equal(right)), nil
	}

	switch {
	case left.Kind == ValNumber && right.Kind == ValNumber:
		return numberOp(n, left.Num, right.Num)

	case left.Kind == ValString && right.Kind == ValString:
		switch n.Text {
		case nlast.OpAdd:
			return StringVal(left.Str + right.Str), nil
		case nlast.OpLe:
			return BoolVal(left.Str <= right.Str), nil
		case nlast.OpGe:
			return BoolVal(left.Str >= right.Str), nil
		}

	case n.Text == nlast.OpMul && left.Kind == ValString && right.Kind == ValNumber:
		return repeat(n, left.Str, right.Num)

	case n.Text == nlast.OpMul && left.Kind == ValNumber && right.Kind == ValString:
		return repeat(n, right.Str, left.Num)
	}

	return Value{}, nodeError(n, nlerror.CodeType, "unsupported operand types for %s: %s and %s",
		n.Text, left.Kind, right.Kind).
		WithDetail("operator", n.Text).
		WithDetail("left", left.Kind.String()).
		WithDetail("right", right.Kind.String())
}

func numberOp(n *nlast.Node, a, b int64) (Value, error) {
	switch n.Text {
	case nlast.OpAdd:
		return NumberVal(a + b), nil
	case nlast.OpSub:
		return NumberVal(a - b), nil
	case nlast.OpMul:
		return NumberVal(a * b), nil
	case nlast.OpDiv:
		if b == 0 {
			return Value{}, nodeError(n, nlerror.CodeDivisionByZero, "division by zero")
		}
		return NumberVal(a / b), nil
	case nlast.OpLe:
		return BoolVal(a <= b), nil
	case nlast.OpGe:
		return BoolVal(a >= b), nil
	default:
		return Value{}, nodeError(n, nlerror.CodeInternal, "unknown operator %s", n.Text)
	}
}

// repeat implements string * number. Counts below one give "".
func repeat(n *nlast.Node, s string, count int64) (Value, error) {
	if count <= 0 || s == "" {
		return StringVal(""), nil
	}
	if count > maxRepeatLength/int64(len(s)) {
		return Value{}, nodeError(n, nlerror.CodeType, "string repetition exceeds %d bytes", maxRepeatLength).
			WithDetail("count", count)
	}
	return StringVal(strings.Repeat(s, int(count))), nil
}

func (ev *Evaluator) evalCall(n *nlast.Node, env *Environment) (Value, error) {
	callee, err := ev.expr(n.Callee, env)
	if err != nil {
		return Value{}, err
	}
	if !callee.IsCallable() {
		return Value{}, nodeError(n, nlerror.CodeNotCallable, "%s is not callable", callee.Kind).
			WithDetail("callee", n.Callee.String())
	}

	args := make([]Value, len(n.List))
	for i, argNode := range n.List {
		if args[i], err = ev.expr(argNode, env); err != nil {
			return Value{}, err
		}
	}

	v, err := ev.Call(callee, args)
	if err != nil {
		if e, ok := nlerror.As(err); ok {
			if _, has := e.Detail("line"); !has {
				e.WithDetail("line", n.Pos.Line).WithDetail("column", n.Pos.Column)
			}
		}
		return Value{}, err
	}
	return v, nil
}

// Call invokes a function or native with already evaluated arguments
func (ev *Evaluator) Call(callee Value, args []Value) (Value, error) {
	switch callee.Kind {
	case ValNative:
		return callee.Native.Fn(args)
	case ValFunction:
		return ev.callFunction(callee.Fn, args)
	default:
		return Value{}, nlerror.Newf("%s is not callable", callee.Kind).
			WithCode(nlerror.CodeNotCallable).
			WithOperation("eval")
	}
}

func (ev *Evaluator) callFunction(fn *Function, args []Value) (Value, error) {
	name := fn.Name
	if name == "" {
		name = "lambda"
	}

	if len(args) != len(fn.Params) {
		return Value{}, nlerror.Newf("%s expects %d arguments, got %d", name, len(fn.Params), len(args)).
			WithCode(nlerror.CodeArityMismatch).
			WithOperation("eval").
			WithDetails(map[string]interface{}{
				"function": name,
				"expected": len(fn.Params),
				"got":      len(args),
			})
	}

	if ev.ctx != nil {
		if err := ev.ctx.Err(); err != nil {
			return Value{}, nlerror.Wrap(err, "run cancelled in "+name).
				WithCode(nlerror.CodeCancelled).
				WithOperation("eval").
				WithDetail("function", name).
				WithDetail("depth", ev.depth)
		}
	}

	if ev.depth >= ev.maxDepth {
		return Value{}, nlerror.Newf("call depth exceeded %d in %s", ev.maxDepth, name).
			WithCode(nlerror.CodeCallDepth).
			WithOperation("eval").
			WithDetail("function", name).
			WithDetail("max_depth", ev.maxDepth)
	}
	ev.depth++
	defer func() { ev.depth-- }()

	if ev.logger.IsLevelEnabled(nllog.LevelTrace) {
		ev.logger.Trace("call", nllog.Fields{"function": name, "depth": ev.depth})
	}

	frame := NewEnvironment(fn.Env)
	for i, param := range fn.Params {
		frame.Set(param, args[i])
	}

	res, err := ev.Eval(fn.Body, frame)
	if err != nil {
		return Value{}, err
	}
	if !res.Returning {
		return Value{}, nlerror.Newf("%s finished without return", name).
			WithCode(nlerror.CodeMissingReturn).
			WithOperation("eval").
			WithDetail("function", name)
	}
	return res.Value, nil
}

func nodeError(n *nlast.Node, code nlerror.Code, format string, args ...interface{}) *nlerror.Error {
	return nlerror.Newf(format+" at %s", append(args, n.Pos)...).
		WithCode(code).
		WithOperation("eval").
		WithDetail("line", n.Pos.Line).
		WithDetail("column", n.Pos.Column)
}
