// File: timer_test.go
// Title: Performance Timer Tests
// Description: Tests for timer completion logging.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with timer tests
// - 2025-03-02 v0.2.0: StopWithError level mapping

package log

import (
	"testing"

	nlerror "github.com/msto63/noloop/foundation/core/error"
)

func TestTimerStop(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)
	timer := logger.StartTimer("parse").WithField("file", "a.nl")

	timer.Stop()
	data := decodeLine(t, buf)

	if data["message"] != "parse completed" {
		t.Errorf("message = %v, want parse completed", data["message"])
	}
	if data["file"] != "a.nl" {
		t.Errorf("file = %v, want a.nl", data["file"])
	}
	if data["level"] != "debug" {
		t.Errorf("level = %v, want debug", data["level"])
	}
}

func TestTimerStopTwice(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)
	timer := logger.StartTimer("run")
	timer.Stop()
	buf.Reset()

	if d := timer.Stop(); d != 0 {
		t.Errorf("second Stop() = %v, want 0", d)
	}
	if buf.Len() != 0 {
		t.Error("second Stop() should not log")
	}
}

func TestTimerStopWithError(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)
	err := nlerror.New("boom").WithCode(nlerror.CodeInternal)

	logger.StartTimer("run").StopWithError(err)
	data := decodeLine(t, buf)

	if data["message"] != "run failed" {
		t.Errorf("message = %v, want run failed", data["message"])
	}
	if data["level"] != "error" {
		t.Errorf("level = %v, want error", data["level"])
	}
	if data["error_code"] != "INTERNAL" {
		t.Errorf("error_code = %v, want INTERNAL", data["error_code"])
	}
}
