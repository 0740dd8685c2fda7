// Package stream provides the single-token lookahead the parser runs on.
//
// A Stream always has a head. When the underlying lexemes are used up the
// head becomes the end-of-input sentinel, and any attempt to advance past
// it fails with INCOMPLETE_PROGRAM. After parsing, callers use IsEOF to
// verify that the whole program was consumed.
package stream
