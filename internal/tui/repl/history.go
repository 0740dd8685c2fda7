// ============================================================================
// noloop - Interactive REPL
// ============================================================================
//
// Package:     repl
// Description: Persistent input history
// Author:      Mike Stoffels
// Created:     2025-03-02
// License:     MIT
// ============================================================================

package repl

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// historyFile is the on-disk form of the input history
type historyFile struct {
	InputHistory []string `json:"input_history,omitempty"`
}

// LoadHistory loads the input history from path. A missing or unreadable
// file yields an empty history.
func LoadHistory(path string) []string {
	if path == "" {
		return []string{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{}
	}

	var file historyFile
	if err := json.Unmarshal(data, &file); err != nil || len(file.InputHistory) == 0 {
		return []string{}
	}
	return file.InputHistory
}

// SaveHistory saves the newest limit inputs to path
func SaveHistory(path string, history []string, limit int) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(historyFile{InputHistory: trimHistory(history, limit)}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func trimHistory(history []string, limit int) []string {
	if limit > 0 && len(history) > limit {
		return history[len(history)-limit:]
	}
	return history
}
