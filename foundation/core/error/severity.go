// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels used to pick the log level for an
//              error and to decide how loudly the CLI reports it.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2025-03-02 v0.2.0: Severity mapping for language error codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow marks defects in user programs: bad syntax, unknown names
	SeverityLow Severity = iota

	// SeverityMedium is the default for errors without a more specific code
	SeverityMedium

	// SeverityHigh marks host problems such as unreadable config or storage
	SeverityHigh

	// SeverityCritical marks internal invariant violations
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical

	case CodeConfigError, CodeInvalidConfig, CodeDatabaseError:
		return SeverityHigh

	case CodeInvalidInput, CodeNotFound, CodeCancelled,
		CodeScan, CodeParse, CodeIncompleteProgram, CodeUnconsumedInput,
		CodeUndefinedName, CodeArityMismatch, CodeMissingReturn, CodeType,
		CodeNotCallable, CodeDivisionByZero, CodeInvalidAssignment, CodeCallDepth:
		return SeverityLow

	default:
		return SeverityMedium
	}
}
