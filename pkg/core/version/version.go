// ============================================================================
// noloop - Version
// ============================================================================
//
// Package:     version
// Description: Central version information for the noloop binary and its
//              language components
// Author:      Mike Stoffels
// Created:     2025-03-02
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants for noloop
const (
	// Application version
	Application = "0.3.0"

	// Language version, bumped when syntax or evaluation rules change
	Language = "1.0.0"

	// Journal schema version
	Journal = "1"
)

// Set at build time with -ldflags "-X github.com/msto63/noloop/pkg/core/version.Commit=..."
var (
	Commit    = "dev"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "language", "lang":
		return Language
	case "journal":
		return Journal
	default:
		return Application
	}
}

// Info describes the running binary
type Info struct {
	Application string `json:"application" yaml:"application"`
	Language    string `json:"language" yaml:"language"`
	Journal     string `json:"journal" yaml:"journal"`
	Commit      string `json:"commit" yaml:"commit"`
	BuildDate   string `json:"build_date" yaml:"build_date"`
	GoVersion   string `json:"go_version" yaml:"go_version"`
	Platform    string `json:"platform" yaml:"platform"`
}

// Get returns the version information of the running binary
func Get() Info {
	return Info{
		Application: Application,
		Language:    Language,
		Journal:     Journal,
		Commit:      Commit,
		BuildDate:   BuildDate,
		GoVersion:   runtime.Version(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a one-line summary
func (i Info) String() string {
	return fmt.Sprintf("noloop %s (language %s, commit %s, %s %s)",
		i.Application, i.Language, i.Commit, i.GoVersion, i.Platform)
}
