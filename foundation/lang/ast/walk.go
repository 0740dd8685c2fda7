// File: walk.go
// Title: Tree Walking and Printing
// Description: Depth-first traversal plus the two debug renderings of a
//              syntax tree: an indented outline and a Graphviz digraph.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02
//
// Change History:
// - 2025-03-02 v0.1.0: Walk, Pretty and Dot

package ast

import (
	"fmt"
	"strings"
)

// WalkFunc is called for every node. Returning false skips the children
// of that node.
type WalkFunc func(n *Node, depth int) bool

// Walk visits n and its descendants depth first in source order
func Walk(n *Node, fn WalkFunc) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn WalkFunc) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, child := range n.Children() {
		walk(child, depth+1, fn)
	}
}

// Count returns the number of nodes in the tree
func Count(n *Node) int {
	count := 0
	Walk(n, func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Pretty renders the tree as an indented outline, one node per line
func Pretty(n *Node) string {
	var sb strings.Builder
	Walk(n, func(node *Node, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(node.Label())
		sb.WriteByte('\n')
		return true
	})
	return sb.String()
}

// Dot renders the tree as a Graphviz digraph. Node IDs become vertex names.
func Dot(n *Node) string {
	var sb strings.Builder
	sb.WriteString("digraph ast {\n")
	sb.WriteString("  node [shape=box, fontname=\"monospace\"];\n")
	Walk(n, func(node *Node, _ int) bool {
		fmt.Fprintf(&sb, "  n%d [label=%q];\n", node.ID, node.Label())
		for _, child := range node.Children() {
			if child != nil {
				fmt.Fprintf(&sb, "  n%d -> n%d;\n", node.ID, child.ID)
			}
		}
		return true
	})
	sb.WriteString("}\n")
	return sb.String()
}
