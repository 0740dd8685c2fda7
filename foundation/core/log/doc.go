// Package log provides structured logging for noloop.
//
// Package: log
// Title: noloop Structured Logging
// Description: Structured logging with contextual fields, JSON, text and
//              console formats, and integration with the noloop error
//              package so failed programs are logged with their error code,
//              category and position details.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2025-03-02 v0.2.0: Correlation ids per run, synchronous output only
//
// Usage:
//
//	import nllog "github.com/msto63/noloop/foundation/core/log"
//
//	logger := nllog.NewWithConfig(nllog.Config{
//		Level:  nllog.LevelInfo,
//		Format: nllog.FormatText,
//		Name:   "engine",
//	})
//
//	runLog := logger.WithCorrelationID(runID)
//	timer := runLog.StartTimer("run")
//	if err := run(); err != nil {
//		timer.StopWithError(err)
//	} else {
//		timer.Stop()
//	}
//
// Loggers are immutable values: every With* method returns a copy and the
// original keeps its configuration. Copies share a write lock, so entries
// from different copies written to the same output never interleave.
package log
