// Package lexer turns noloop source text into lexemes.
//
// The scanner works byte by byte in one forward pass. Numbers are runs of
// decimal digits, names start with a lowercase letter and continue with
// lowercase letters, digits or underscores. The words if, else, return and
// fun are keywords. Strings are delimited by double or single quotes and
// are taken verbatim without escape processing. Comments come in two forms,
// // to end of line and /* */ blocks, and are kept as lexemes because the
// parser turns them into statements.
//
// Usage:
//
//	lexemes, err := lexer.Scan(`fun add(a, b) { return a + b }`)
//	if err != nil {
//		// err carries code SCAN_ERROR with line and column details
//	}
package lexer
