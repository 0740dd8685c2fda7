package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	nlerror "github.com/msto63/noloop/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"hours", "2h", 2 * time.Hour, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{Duration: 90 * time.Minute}
	got, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(got) != "1h30m0s" {
		t.Errorf("MarshalText() = %q, want %q", got, "1h30m0s")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.General.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.General.LogLevel)
	}
	if cfg.General.LogFormat != "console" {
		t.Errorf("LogFormat = %q, want console", cfg.General.LogFormat)
	}
	if cfg.Interpreter.MaxSourceLength != 1<<20 {
		t.Errorf("MaxSourceLength = %d, want %d", cfg.Interpreter.MaxSourceLength, 1<<20)
	}
	if cfg.Interpreter.MaxCallDepth != 10000 {
		t.Errorf("MaxCallDepth = %d, want 10000", cfg.Interpreter.MaxCallDepth)
	}
	if cfg.Journal.Enabled {
		t.Error("journal should be disabled by default")
	}
	if cfg.Journal.Path != filepath.Join("./data", "journal.db") {
		t.Errorf("Journal.Path = %q", cfg.Journal.Path)
	}
	if cfg.Journal.Retention.Duration != 30*24*time.Hour {
		t.Errorf("Retention = %v, want 720h", cfg.Journal.Retention.Duration)
	}
	if cfg.REPL.Prompt != "nl> " {
		t.Errorf("Prompt = %q, want %q", cfg.REPL.Prompt, "nl> ")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestLoadFromString(t *testing.T) {
	tomlContent := `
[general]
log_level = "debug"
log_format = "json"

[interpreter]
max_call_depth = 200
prelude = ["std.nl"]

[journal]
enabled = true
path = "/tmp/runs.db"
retention = "48h"

[repl]
prompt = "> "
`
	yamlContent := `
general:
  log_level: debug
  log_format: json
interpreter:
  max_call_depth: 200
  prelude: [std.nl]
journal:
  enabled: true
  path: /tmp/runs.db
  retention: 48h
repl:
  prompt: "> "
`

	tests := []struct {
		name    string
		content string
		format  Format
	}{
		{"toml", tomlContent, FormatTOML},
		{"yaml", yamlContent, FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFromString(tt.content, tt.format)
			if err != nil {
				t.Fatalf("LoadFromString() error = %v", err)
			}

			if cfg.General.LogLevel != "debug" || cfg.General.LogFormat != "json" {
				t.Errorf("general = %+v", cfg.General)
			}
			if cfg.Interpreter.MaxCallDepth != 200 {
				t.Errorf("MaxCallDepth = %d, want 200", cfg.Interpreter.MaxCallDepth)
			}
			if cfg.Interpreter.MaxSourceLength != 1<<20 {
				t.Errorf("MaxSourceLength default not applied: %d", cfg.Interpreter.MaxSourceLength)
			}
			if len(cfg.Interpreter.Prelude) != 1 || cfg.Interpreter.Prelude[0] != "std.nl" {
				t.Errorf("Prelude = %v", cfg.Interpreter.Prelude)
			}
			if !cfg.Journal.Enabled || cfg.Journal.Path != "/tmp/runs.db" {
				t.Errorf("journal = %+v", cfg.Journal)
			}
			if cfg.Journal.Retention.Duration != 48*time.Hour {
				t.Errorf("Retention = %v, want 48h", cfg.Journal.Retention.Duration)
			}
			if cfg.REPL.Prompt != "> " {
				t.Errorf("Prompt = %q", cfg.REPL.Prompt)
			}
			if cfg.REPL.HistorySize != 500 {
				t.Errorf("HistorySize default not applied: %d", cfg.REPL.HistorySize)
			}
		})
	}
}

func TestLoadFromString_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		format  Format
		code    nlerror.Code
		field   string
	}{
		{"bad toml", "[general\n", FormatTOML, nlerror.CodeConfigError, ""},
		{"bad yaml", "general: [", FormatYAML, nlerror.CodeConfigError, ""},
		{"unknown yaml key", "general:\n  colour: red\n", FormatYAML, nlerror.CodeConfigError, ""},
		{"unknown format", "", Format("ini"), nlerror.CodeConfigError, ""},
		{"bad level", "[general]\nlog_level = \"loud\"\n", FormatTOML, nlerror.CodeInvalidConfig, "general.log_level"},
		{"bad format", "[general]\nlog_format = \"xml\"\n", FormatTOML, nlerror.CodeInvalidConfig, "general.log_format"},
		{"negative depth", "[interpreter]\nmax_call_depth = -1\n", FormatTOML, nlerror.CodeInvalidConfig, "interpreter.max_call_depth"},
		{"negative length", "[interpreter]\nmax_source_length = -5\n", FormatTOML, nlerror.CodeInvalidConfig, "interpreter.max_source_length"},
		{"negative history", "[repl]\nhistory_size = -1\n", FormatTOML, nlerror.CodeInvalidConfig, "repl.history_size"},
		{"negative retention", "[journal]\nretention = \"-1h\"\n", FormatTOML, nlerror.CodeInvalidConfig, "journal.retention"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromString(tt.content, tt.format)
			if err == nil {
				t.Fatal("LoadFromString() should fail")
			}
			if got := nlerror.GetCode(err); got != tt.code {
				t.Errorf("code = %v, want %v (%v)", got, tt.code, err)
			}
			if tt.field == "" {
				return
			}
			e, _ := nlerror.As(err)
			if field, _ := e.Detail("field"); field != tt.field {
				t.Errorf("field = %v, want %v", field, tt.field)
			}
		})
	}
}

func TestLoadFromString_EmptyYAML(t *testing.T) {
	cfg, err := LoadFromString("", FormatYAML)
	if err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}
	if cfg.General.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.General.LogLevel)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("toml file", func(t *testing.T) {
		path := filepath.Join(dir, "noloop.toml")
		if err := os.WriteFile(path, []byte("[repl]\nprompt = \"$ \"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.REPL.Prompt != "$ " {
			t.Errorf("Prompt = %q", cfg.REPL.Prompt)
		}
	})

	t.Run("yml file", func(t *testing.T) {
		path := filepath.Join(dir, "noloop.yml")
		if err := os.WriteFile(path, []byte("repl:\n  history_size: 10\n"), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.REPL.HistorySize != 10 {
			t.Errorf("HistorySize = %d", cfg.REPL.HistorySize)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "absent.toml"))
		if !nlerror.HasCode(err, nlerror.CodeConfigError) {
			t.Errorf("Load() error = %v, want CONFIG_ERROR", err)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "noloop.ini"))
		if !nlerror.HasCode(err, nlerror.CodeConfigError) {
			t.Errorf("Load() error = %v, want CONFIG_ERROR", err)
		}
	})

	t.Run("env vars in path values", func(t *testing.T) {
		t.Setenv("NOLOOP_TEST_DIR", "/var/noloop")
		path := filepath.Join(dir, "env.toml")
		if err := os.WriteFile(path, []byte("[journal]\npath = \"$NOLOOP_TEST_DIR/j.db\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Journal.Path != "/var/noloop/j.db" {
			t.Errorf("Journal.Path = %q", cfg.Journal.Path)
		}
	})
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(path, []byte("[general]\nlog_level = \"error\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.General.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error", cfg.General.LogLevel)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.toml", FormatTOML, false},
		{"a.TOML", FormatTOML, false},
		{"dir/a.yaml", FormatYAML, false},
		{"a.yml", FormatYAML, false},
		{"a.json", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFromPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatFromPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
