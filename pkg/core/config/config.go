// ============================================================================
// noloop - Configuration
// ============================================================================
//
// Package: config
// Description: Typed configuration for the noloop command line and REPL.
//              Files are TOML or YAML, selected by extension.
// Author: Mike Stoffels
// Created: 2025-03-02
// License: MIT
// ============================================================================

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	nlerror "github.com/msto63/noloop/foundation/core/error"
	nllog "github.com/msto63/noloop/foundation/core/log"
)

// EnvConfigPath names the environment variable that points at a config file
const EnvConfigPath = "NOLOOP_CONFIG"

// Format is the syntax of a configuration file
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Config holds the complete application configuration
type Config struct {
	General     GeneralConfig     `toml:"general" yaml:"general"`
	Interpreter InterpreterConfig `toml:"interpreter" yaml:"interpreter"`
	Journal     JournalConfig     `toml:"journal" yaml:"journal"`
	REPL        REPLConfig        `toml:"repl" yaml:"repl"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	DataDir   string `toml:"data_dir" yaml:"data_dir"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// InterpreterConfig holds language engine limits and the prelude
type InterpreterConfig struct {
	MaxSourceLength int `toml:"max_source_length" yaml:"max_source_length"`
	MaxCallDepth    int `toml:"max_call_depth" yaml:"max_call_depth"`

	// Prelude files run before every program and REPL session
	Prelude []string `toml:"prelude" yaml:"prelude"`
}

// JournalConfig holds run journal settings
type JournalConfig struct {
	Enabled   bool     `toml:"enabled" yaml:"enabled"`
	Path      string   `toml:"path" yaml:"path"`
	Retention Duration `toml:"retention" yaml:"retention"`
}

// REPLConfig holds interactive session settings
type REPLConfig struct {
	Prompt      string `toml:"prompt" yaml:"prompt"`
	HistorySize int    `toml:"history_size" yaml:"history_size"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nlerror.Newf("config file not found: %s", path).
				WithCode(nlerror.CodeConfigError).
				WithOperation("config.load").
				WithDetail("path", path)
		}
		return nil, nlerror.Wrap(err, "failed to read config").
			WithCode(nlerror.CodeConfigError).
			WithOperation("config.load").
			WithDetail("path", path)
	}

	cfg, err := LoadFromString(string(data), format)
	if err != nil {
		if e, ok := nlerror.As(err); ok {
			e.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFromString parses configuration content in the given format
func LoadFromString(content string, format Format) (*Config, error) {
	var cfg Config

	var err error
	switch format {
	case FormatTOML:
		_, err = toml.Decode(content, &cfg)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewBufferString(content))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
		if err != nil && strings.TrimSpace(content) == "" {
			err = nil
		}
	default:
		return nil, unsupportedFormat(string(format))
	}
	if err != nil {
		return nil, nlerror.Wrap(err, "failed to parse config").
			WithCode(nlerror.CodeConfigError).
			WithOperation("config.parse").
			WithDetail("format", string(format))
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by NOLOOP_CONFIG, or the first config
// found in the default locations. Without any file the defaults are used.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}
	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// DefaultPaths lists the locations searched by LoadFromEnv, in order
func DefaultPaths() []string {
	paths := []string{"./noloop.toml", "./noloop.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "noloop", "config.toml"),
			filepath.Join(home, ".config", "noloop", "config.yaml"),
		)
	}
	return paths
}

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", unsupportedFormat(ext)
	}
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	if _, err := nllog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", c.General.LogLevel, err.Error())
	}
	if _, err := nllog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", c.General.LogFormat, err.Error())
	}
	if c.Interpreter.MaxSourceLength <= 0 {
		return invalid("interpreter.max_source_length", c.Interpreter.MaxSourceLength, "must be positive")
	}
	if c.Interpreter.MaxCallDepth <= 0 {
		return invalid("interpreter.max_call_depth", c.Interpreter.MaxCallDepth, "must be positive")
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		return invalid("journal.path", c.Journal.Path, "required when the journal is enabled")
	}
	if c.Journal.Retention.Duration < 0 {
		return invalid("journal.retention", c.Journal.Retention.String(), "must not be negative")
	}
	if c.REPL.HistorySize < 0 {
		return invalid("repl.history_size", c.REPL.HistorySize, "must not be negative")
	}
	return nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "console"
	}

	if c.Interpreter.MaxSourceLength == 0 {
		c.Interpreter.MaxSourceLength = 1 << 20
	}
	if c.Interpreter.MaxCallDepth == 0 {
		c.Interpreter.MaxCallDepth = 10000
	}

	if c.Journal.Path == "" {
		c.Journal.Path = filepath.Join(c.General.DataDir, "journal.db")
	}
	if c.Journal.Retention.Duration == 0 {
		c.Journal.Retention.Duration = 30 * 24 * time.Hour
	}

	if c.REPL.Prompt == "" {
		c.REPL.Prompt = "nl> "
	}
	if c.REPL.HistorySize == 0 {
		c.REPL.HistorySize = 500
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Journal.Path = os.ExpandEnv(c.Journal.Path)
	for i, p := range c.Interpreter.Prelude {
		c.Interpreter.Prelude[i] = os.ExpandEnv(p)
	}
}

func invalid(field string, value interface{}, reason string) error {
	return nlerror.Newf("invalid config %s: %s", field, reason).
		WithCode(nlerror.CodeInvalidConfig).
		WithOperation("config.validate").
		WithDetail("field", field).
		WithDetail("value", value)
}

func unsupportedFormat(ext string) error {
	return nlerror.Newf("unsupported config format %q, use .toml, .yaml or .yml", ext).
		WithCode(nlerror.CodeConfigError).
		WithOperation("config.load")
}
