// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across noloop. The scanner,
//              parser and evaluator each own a family of codes so callers
//              can tell at which stage a program was rejected.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2025-03-02 v0.2.0: Scanner, parser and evaluator codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeCancelled    Code = "CANCELLED"

	// Scanner
	CodeScan Code = "SCAN_ERROR"

	// Parser
	CodeParse             Code = "PARSE_ERROR"
	CodeIncompleteProgram Code = "INCOMPLETE_PROGRAM"
	CodeUnconsumedInput   Code = "UNCONSUMED_INPUT"

	// Evaluator
	CodeUndefinedName     Code = "UNDEFINED_NAME"
	CodeArityMismatch     Code = "ARITY_MISMATCH"
	CodeMissingReturn     Code = "MISSING_RETURN"
	CodeType              Code = "TYPE_ERROR"
	CodeNotCallable       Code = "NOT_CALLABLE"
	CodeDivisionByZero    Code = "DIVISION_BY_ZERO"
	CodeInvalidAssignment Code = "INVALID_ASSIGNMENT"
	CodeCallDepth         Code = "CALL_DEPTH_EXCEEDED"

	// Configuration and environment
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Storage
	CodeDatabaseError Code = "DATABASE_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeCancelled,
		CodeScan,
		CodeParse, CodeIncompleteProgram, CodeUnconsumedInput,
		CodeUndefinedName, CodeArityMismatch, CodeMissingReturn, CodeType,
		CodeNotCallable, CodeDivisionByZero, CodeInvalidAssignment, CodeCallDepth,
		CodeConfigError, CodeInvalidConfig,
		CodeDatabaseError:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeScan:
		return "scan"
	case CodeParse, CodeIncompleteProgram, CodeUnconsumedInput:
		return "parse"
	case CodeUndefinedName, CodeArityMismatch, CodeMissingReturn, CodeType,
		CodeNotCallable, CodeDivisionByZero, CodeInvalidAssignment, CodeCallDepth:
		return "runtime"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	case CodeDatabaseError:
		return "storage"
	default:
		return "generic"
	}
}

// IsProgramError reports whether the code describes a defect in the
// evaluated program rather than in the host.
func (c Code) IsProgramError() bool {
	switch c.Category() {
	case "scan", "parse", "runtime":
		return true
	default:
		return false
	}
}
