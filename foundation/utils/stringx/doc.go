// Package stringx provides string helpers shared by the noloop packages.
//
// All functions count runes, not bytes, so multi-byte characters are never
// split.
package stringx
