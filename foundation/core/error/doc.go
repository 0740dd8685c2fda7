// Package error provides structured error handling for noloop.
//
// Package: error
// Title: noloop Error Handling Framework
// Description: Structured errors with codes, severity, details and stack
//              traces. The scanner, parser and evaluator report every
//              rejected program through this type so the CLI, the REPL and
//              the run journal can classify failures by code.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2025-03-02 v0.2.0: Scanner, parser and evaluator code families
//
// Usage:
//
//	import nlerror "github.com/msto63/noloop/foundation/core/error"
//
//	err := nlerror.New("undefined name 'x'").
//		WithCode(nlerror.CodeUndefinedName).
//		WithDetail("name", "x")
//
//	if nlerror.HasCode(err, nlerror.CodeUndefinedName) {
//		// report the missing binding
//	}
package error
