// File: builtins.go
// Title: Native Functions
// Description: Host functions seeded into the global environment: print
//              writes to the configured output, len and str inspect and
//              convert values.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02
//
// Change History:
// - 2025-03-02 v0.1.0: print, len and str

package eval

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	nlerror "github.com/msto63/noloop/foundation/core/error"
)

// Builtins returns the natives available to every program. print writes
// to out.
func Builtins(out io.Writer) []*Native {
	return []*Native{
		{Name: "print", Fn: printFn(out)},
		{Name: "len", Fn: lenFn},
		{Name: "str", Fn: strFn},
	}
}

// NewGlobals creates a root environment seeded with Builtins(out)
func NewGlobals(out io.Writer) *Environment {
	env := NewEnvironment(nil)
	for _, native := range Builtins(out) {
		env.Set(native.Name, NativeVal(native))
	}
	return env
}

// printFn joins its arguments with spaces and ends the line. It returns
// unset.
func printFn(out io.Writer) NativeFunc {
	return func(args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = arg.String()
		}
		if _, err := fmt.Fprintln(out, strings.Join(parts, " ")); err != nil {
			return Value{}, nlerror.Wrap(err, "print failed").
				WithCode(nlerror.CodeInternal).
				WithOperation("print")
		}
		return Unset(), nil
	}
}

// lenFn returns the number of characters of a string
func lenFn(args []Value) (Value, error) {
	if err := nativeArity("len", args, 1); err != nil {
		return Value{}, err
	}
	if args[0].Kind != ValString {
		return Value{}, nlerror.Newf("len expects a string, got %s", args[0].Kind).
			WithCode(nlerror.CodeType).
			WithOperation("len").
			WithDetail("got", args[0].Kind.String())
	}
	return NumberVal(int64(utf8.RuneCountInString(args[0].Str))), nil
}

// strFn converts any value to its printed form
func strFn(args []Value) (Value, error) {
	if err := nativeArity("str", args, 1); err != nil {
		return Value{}, err
	}
	return StringVal(args[0].String()), nil
}

func nativeArity(name string, args []Value, want int) error {
	if len(args) == want {
		return nil
	}
	return nlerror.Newf("%s expects %d arguments, got %d", name, want, len(args)).
		WithCode(nlerror.CodeArityMismatch).
		WithOperation(name).
		WithDetails(map[string]interface{}{
			"function": name,
			"expected": want,
			"got":      len(args),
		})
}
