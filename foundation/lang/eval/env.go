// File: env.go
// Title: Environments
// Description: Chained name to value scopes. A call creates a frame whose
//              parent is the environment captured by the called function,
//              and closures keep their frames alive by holding a pointer.
// Author: msto63
// Version: v0.1.0
// Created: 2025-03-02
// Modified: 2025-03-02
//
// Change History:
// - 2025-03-02 v0.1.0: Initial environment implementation

package eval

import "sort"

// Environment is one scope frame. It is not safe for concurrent use.
type Environment struct {
	vars   map[string]Value
	parent *Environment
}

// NewEnvironment creates an empty frame below parent; parent may be nil
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{vars: make(map[string]Value), parent: parent}
}

// Get looks name up from this frame towards the root
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Has reports whether name is bound anywhere in the chain
func (e *Environment) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Set binds name in this frame. Enclosing frames are never modified, so
// assigning to a name bound further out shadows it.
func (e *Environment) Set(name string, v Value) {
	e.vars[name] = v
}

// Names returns the names bound in this frame, sorted
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bindings in this frame
func (e *Environment) Len() int {
	return len(e.vars)
}
