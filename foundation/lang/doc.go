// Package lang is the entry point to the noloop language.
//
// Package: lang
// Title: noloop Language Engine
// Description: Chains the lexer, stream, parser and eval packages behind a
//              small API and keeps the global environment between runs.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02
//
// Change History:
// - 2025-03-02 v0.1.0: Initial implementation
//
// Usage:
//
//	import nllang "github.com/msto63/noloop/foundation/lang"
//
//	engine, err := nllang.New(nllang.Options{Output: os.Stdout})
//	if err != nil {
//		return err
//	}
//	res, err := engine.Run(ctx, "fun sq(x) { return x * x } sq(7)")
//	if err != nil {
//		// *nlerror.Error with a SCAN_ERROR, PARSE_ERROR, ... code
//	}
//	fmt.Println(res.Value) // 49
//
// Subpackages:
//
//	lexer   source text to lexemes
//	stream  single-token lookahead with end-of-input sentinel
//	ast     tagged syntax tree, walking and printing
//	parser  LL(1) recursive descent parser
//	eval    values, environments and the evaluator
package lang
