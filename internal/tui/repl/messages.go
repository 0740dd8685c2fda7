// ============================================================================
// noloop - Interactive REPL
// ============================================================================
//
// Package:     repl
// Description: Scrollback entries and message types for async evaluation
// Author:      Mike Stoffels
// Created:     2025-03-02
// License:     MIT
// ============================================================================

package repl

import (
	"time"
)

// EntryKind tells how a scrollback entry is rendered
type EntryKind int

const (
	EntryInput EntryKind = iota
	EntryOutput
	EntryValue
	EntryError
	EntrySystem
)

// Entry is one block in the scrollback
type Entry struct {
	Kind      EntryKind
	Content   string
	Code      string        // error code for EntryError
	Duration  time.Duration // evaluation time for EntryValue
	Timestamp time.Time
}

// evalResultMsg is sent when an evaluation finished
type evalResultMsg struct {
	input    string
	printed  string
	value    string
	hasValue bool
	err      error
	duration time.Duration
}
