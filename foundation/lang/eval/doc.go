// Package eval evaluates noloop syntax trees.
//
// Values are a tagged struct over unset, integer numbers, strings, bools,
// user functions and host natives. Environments form a parent chain:
// lookups walk towards the root, assignments always bind in the current
// frame. Function values keep a pointer to the environment they were
// defined in, and a call evaluates the body in a fresh frame below that
// environment, not below the caller's.
//
// Every function body must end in an explicit return. Evaluation of a
// return produces a Result with Returning set, which statement lists and
// conditionals pass upward unchanged until the call boundary turns it back
// into a plain value. A body that completes without returning fails with
// MISSING_RETURN.
//
// Operators dispatch on the pair of operand kinds:
//
//	number + - * / number   integer arithmetic, / truncates, /0 fails
//	string + string         concatenation
//	string * number         repetition (either order)
//	<= >=                   numbers or strings
//	==                      any pair, different kinds are unequal
//
// Any other combination fails with TYPE_ERROR.
package eval
