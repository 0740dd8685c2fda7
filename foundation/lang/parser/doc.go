// Package parser builds syntax trees from lexeme streams.
//
// The parser is a hand written LL(1) recursive descent parser over a
// stream.Stream. Every mismatch between what a production expects and the
// lookahead fails immediately with PARSE_ERROR (or INCOMPLETE_PROGRAM when
// the input ended early); there is no error recovery.
//
// The binary operator levels (comparison, additive, multiplicative) are
// written as an operand procedure plus a prime continuation. The
// continuation receives the operand parsed so far, wraps it together with
// the next operand in a finished node and passes that node on, so
// 10 - 3 - 2 parses as (10 - 3) - 2.
//
// Usage:
//
//	program, err := parser.ParseSource("fun inc(x) { return x + 1 } inc(41)")
package parser
