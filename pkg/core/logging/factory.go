// ============================================================================
// noloop - Logging
// ============================================================================
//
// Package:     logging
// Description: Factory functions that build foundation loggers from the
//              application configuration and command line verbosity
// Author:      Mike Stoffels
// Created:     2025-03-02
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	nlerror "github.com/msto63/noloop/foundation/core/error"
	nllog "github.com/msto63/noloop/foundation/core/log"
	"github.com/msto63/noloop/pkg/core/config"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Application or component name
	Name string

	// Log level (trace, debug, info, warn, error, fatal)
	Level string

	// Output format (json, text, console)
	Format string

	// Primary output, stderr when nil
	Output io.Writer

	// Additional outputs besides the primary one
	AdditionalOutputs []io.Writer

	EnableCaller bool
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:   name,
		Level:  "warn",
		Format: "console",
	}
}

// NewLogger creates a new foundation logger
func NewLogger(cfg LoggerConfig) (*nllog.Logger, error) {
	level, err := nllog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nlerror.Wrap(err, "invalid log level").
			WithCode(nlerror.CodeInvalidConfig).
			WithDetail("level", cfg.Level)
	}
	format, err := nllog.ParseFormat(cfg.Format)
	if err != nil {
		return nil, nlerror.Wrap(err, "invalid log format").
			WithCode(nlerror.CodeInvalidConfig).
			WithDetail("format", cfg.Format)
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	return nllog.NewWithConfig(nllog.Config{
		Level:        level,
		Format:       format,
		Output:       output,
		Name:         cfg.Name,
		EnableCaller: cfg.EnableCaller,
	}), nil
}

// FromConfig creates the application logger from the general config section.
// Each verbosity step lowers the configured level by one.
func FromConfig(name string, general config.GeneralConfig, verbosity int, out io.Writer) (*nllog.Logger, error) {
	cfg := DefaultLoggerConfig(name)
	if general.LogLevel != "" {
		cfg.Level = general.LogLevel
	}
	if general.LogFormat != "" {
		cfg.Format = general.LogFormat
	}
	cfg.Output = out

	level, err := nllog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nlerror.Wrap(err, "invalid log level").
			WithCode(nlerror.CodeInvalidConfig).
			WithDetail("level", cfg.Level)
	}
	cfg.Level = Verbose(level, verbosity).String()
	cfg.EnableCaller = verbosity >= 2

	return NewLogger(cfg)
}

// Verbose lowers the minimum level by the given number of steps, stopping at trace
func Verbose(level nllog.Level, steps int) nllog.Level {
	for ; steps > 0 && level > nllog.LevelTrace; steps-- {
		level--
	}
	return level
}
