// File: value.go
// Title: Runtime Values
// Description: Tagged value type of the evaluator. Numbers are 64 bit
//              integers; functions carry the environment they were defined
//              in; natives wrap host functions.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02
//
// Change History:
// - 2025-03-02 v0.1.0: Initial value model

package eval

import (
	"fmt"
	"strconv"
	"strings"

	nlast "github.com/msto63/noloop/foundation/lang/ast"
)

// ValueKind is the runtime type of a value
type ValueKind int

const (
	ValUnset ValueKind = iota
	ValNumber
	ValString
	ValBool
	ValFunction
	ValNative
)

// String returns the kind name used in error messages
func (k ValueKind) String() string {
	switch k {
	case ValUnset:
		return "unset"
	case ValNumber:
		return "number"
	case ValString:
		return "string"
	case ValBool:
		return "bool"
	case ValFunction:
		return "function"
	case ValNative:
		return "native"
	default:
		return "unknown"
	}
}

// Function is a user defined function together with the environment it
// closes over. Name is empty for lambdas.
type Function struct {
	Name   string
	Params []string
	Body   *nlast.Node
	Env    *Environment
}

// NativeFunc is the host side of a native function
type NativeFunc func(args []Value) (Value, error)

// Native is a host function callable from programs. Natives receive
// evaluated arguments and check their own arity.
type Native struct {
	Name string
	Fn   NativeFunc
}

// Value is a runtime value. The zero Value is unset.
type Value struct {
	Kind   ValueKind
	Num    int64
	Str    string
	Bool   bool
	Fn     *Function
	Native *Native
}

func Unset() Value { return Value{} }
func NumberVal(n int64) Value { return Value{Kind: ValNumber, Num: n} }
func StringVal(s string) Value { return Value{Kind: ValString, Str: s} }
func BoolVal(b bool) Value { return Value{Kind: ValBool, Bool: b} }
func FunctionVal(f *Function) Value { return Value{Kind: ValFunction, Fn: f} }
func NativeVal(n *Native) Value { return Value{Kind: ValNative, Native: n} }

// IsCallable reports whether the value can be called
func (v Value) IsCallable() bool {
	return v.Kind == ValFunction || v.Kind == ValNative
}

// IsUnset reports whether the value is the zero value
func (v Value) IsUnset() bool {
	return v.Kind == ValUnset
}

// Truthy decides conditionals: zero, the empty string, false and unset
// are false; everything else is true.
func (v Value) Truthy() bool {
	switch v.Kind {
	case ValNumber:
		return v.Num != 0
	case ValString:
		return v.Str != ""
	case ValBool:
		return v.Bool
	case ValFunction, ValNative:
		return true
	default:
		return false
	}
}

// Equal compares two values. Values of different kinds are never equal;
// functions and natives are equal only to themselves.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case ValUnset:
		return true
	case ValNumber:
		return v.Num == other.Num
	case ValString:
		return v.Str == other.Str
	case ValBool:
		return v.Bool == other.Bool
	case ValFunction:
		return v.Fn == other.Fn
	case ValNative:
		return v.Native == other.Native
	default:
		return false
	}
}

// String renders the value the way print shows it
func (v Value) String() string {
	switch v.Kind {
	case ValUnset:
		return "unset"
	case ValNumber:
		return strconv.FormatInt(v.Num, 10)
	case ValString:
		return v.Str
	case ValBool:
		return strconv.FormatBool(v.Bool)
	case ValFunction:
		name := v.Fn.Name
		if name == "" {
			name = "lambda"
		}
		return fmt.Sprintf("<fun %s(%s)>", name, strings.Join(v.Fn.Params, ", "))
	case ValNative:
		return fmt.Sprintf("<native %s>", v.Native.Name)
	default:
		return fmt.Sprintf("<unknown:%d>", v.Kind)
	}
}

// Repr renders the value for a REPL: strings are quoted
func (v Value) Repr() string {
	if v.Kind == ValString {
		return strconv.Quote(v.Str)
	}
	return v.String()
}
