// Package ast defines the syntax tree produced by the parser.
//
// All variants share one Node struct tagged by Kind; Children gives a
// uniform view for traversal. Nodes are created through a Builder owned by
// a single parse, which numbers them densely from zero. The numbers exist
// for the printers (Pretty and Dot) and carry no meaning for evaluation.
package ast
