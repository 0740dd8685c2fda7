// File: logger_test.go
// Title: Logger Tests
// Description: Tests for logger configuration, context copies, level
//              filtering and error integration.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive logger tests
// - 2025-03-02 v0.2.0: Error code fields and correlation ids

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	nlerror "github.com/msto63/noloop/foundation/core/error"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithConfig(Config{Level: level, Format: format, Output: &buf}), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &data); err != nil {
		t.Fatalf("output is not a single JSON line: %v\n%s", err, buf.String())
	}
	return data
}

func TestNew(t *testing.T) {
	logger := New()

	if logger == nil {
		t.Fatal("New() should not return nil")
	}
	if logger.GetLevel() != DefaultLevel() {
		t.Errorf("New() level = %v, want %v", logger.GetLevel(), DefaultLevel())
	}
	if logger.contextFields == nil {
		t.Error("New() should initialize context fields")
	}
}

func TestNewWithConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{
		Level:  LevelError,
		Format: FormatText,
		Output: &buf,
		Name:   "test-logger",
	})

	if logger.GetLevel() != LevelError {
		t.Errorf("NewWithConfig() level = %v, want %v", logger.GetLevel(), LevelError)
	}
	if logger.name != "test-logger" {
		t.Errorf("NewWithConfig() name = %v, want test-logger", logger.name)
	}
	if logger.output != &buf {
		t.Error("NewWithConfig() should set custom output")
	}
}

func TestWithMethodsReturnCopies(t *testing.T) {
	logger := New()
	derived := logger.WithLevel(LevelDebug).WithField("k", "v").WithName("child")

	if derived == logger {
		t.Fatal("With* should return a new logger instance")
	}
	if logger.GetLevel() != DefaultLevel() {
		t.Error("WithLevel() modified the original logger")
	}
	if _, ok := logger.contextFields["k"]; ok {
		t.Error("WithField() modified the original logger")
	}
	if logger.name != "" {
		t.Error("WithName() modified the original logger")
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		min     Level
		log     func(l *Logger)
		written bool
	}{
		{"debug below info", LevelInfo, func(l *Logger) { l.Debug("x") }, false},
		{"info at info", LevelInfo, func(l *Logger) { l.Info("x") }, true},
		{"warn above info", LevelInfo, func(l *Logger) { l.Warn("x") }, true},
		{"trace at trace", LevelTrace, func(l *Logger) { l.Trace("x") }, true},
		{"error below nop", LevelFatal + 1, func(l *Logger) { l.Error("x") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(tt.min, FormatJSON)
			tt.log(logger)
			if got := buf.Len() > 0; got != tt.written {
				t.Errorf("written = %v, want %v", got, tt.written)
			}
		})
	}
}

func TestJSONOutput(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)
	logger.WithName("engine").
		WithCorrelationID("run-1").
		WithField("source", "main.nl").
		Info("program finished", Field("statements", 3))

	data := decodeLine(t, buf)
	checks := map[string]interface{}{
		"message":        "program finished",
		"level":          "info",
		"logger":         "engine",
		"correlation_id": "run-1",
		"source":         "main.nl",
		"statements":     float64(3),
	}
	for k, want := range checks {
		if data[k] != want {
			t.Errorf("%s = %v, want %v", k, data[k], want)
		}
	}
}

func TestTextOutput(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)
	logger.WithCorrelationID("abc").Warn("slow run", Fields{"b": 2, "a": 1})

	out := buf.String()
	for _, want := range []string{"[WRN]", "(run=abc)", "slow run", "[a=1 b=2]"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output %q does not contain %q", out, want)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("text output should end with a newline")
	}
}

func TestLogErrorUsesCodeAndSeverity(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantCode  interface{}
	}{
		{
			name:      "program error logs as info",
			err:       nlerror.New("undefined name x").WithCode(nlerror.CodeUndefinedName).WithDetail("name", "x"),
			wantLevel: "info",
			wantCode:  "UNDEFINED_NAME",
		},
		{
			name:      "storage error logs as error",
			err:       nlerror.New("disk full").WithCode(nlerror.CodeDatabaseError),
			wantLevel: "error",
			wantCode:  "DATABASE_ERROR",
		},
		{
			name:      "foreign error logs as warning without code",
			err:       errors.New("plain"),
			wantLevel: "warn",
			wantCode:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelDebug, FormatJSON)
			logger.LogError(tt.err)

			data := decodeLine(t, buf)
			if data["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", data["level"], tt.wantLevel)
			}
			if data["error_code"] != tt.wantCode {
				t.Errorf("error_code = %v, want %v", data["error_code"], tt.wantCode)
			}
		})
	}
}

func TestLogErrorIncludesDetails(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)
	err := nlerror.New("unexpected token").
		WithCode(nlerror.CodeParse).
		WithDetail("line", 4)
	logger.LogError(err)

	data := decodeLine(t, buf)
	if data["error_category"] != "parse" {
		t.Errorf("error_category = %v, want parse", data["error_category"])
	}
	if data["error_line"] != float64(4) {
		t.Errorf("error_line = %v, want 4", data["error_line"])
	}
	if _, ok := data["error_details"]; !ok {
		t.Error("error_details missing for *Error")
	}
}

func TestLogErrorNil(t *testing.T) {
	logger, buf := newBufferLogger(LevelTrace, FormatJSON)
	logger.LogError(nil)
	if buf.Len() != 0 {
		t.Errorf("LogError(nil) wrote %q", buf.String())
	}
}

func TestCaller(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)
	logger.WithCaller(0).Info("here")

	data := decodeLine(t, buf)
	caller, _ := data["caller"].(string)
	if !strings.Contains(caller, "logger_test.go") {
		t.Errorf("caller = %q, want logger_test.go", caller)
	}
}

func TestIsLevelEnabled(t *testing.T) {
	logger := New().WithLevel(LevelWarn)
	if logger.IsLevelEnabled(LevelInfo) {
		t.Error("info should be disabled at warn")
	}
	if !logger.IsLevelEnabled(LevelError) {
		t.Error("error should be enabled at warn")
	}
}

func TestDefaultLogger(t *testing.T) {
	original := GetDefault()
	defer SetDefault(original)

	replacement := NewNop()
	SetDefault(replacement)
	if GetDefault() != replacement {
		t.Error("SetDefault() did not replace the default logger")
	}
}
