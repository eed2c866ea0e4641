package interp

import "github.com/daemonica-lang/altars/value"

// Environment is Daemonica's flat name->value binding table (spec.md
// §3, component F). The reference semantics are deliberately a single
// map rather than a chain of lexically-nested scopes: a block or
// function call clones the current Environment, mutates the clone,
// and — on success — the clone replaces the caller's environment
// wholesale, so names defined inside a block or call leak back out
// (spec.md §9, "Scope model (requires redesign)").
//
// The clone-and-replace discipline mirrors pongo2's
// NewChildExecutionContext (context.go in the teacher), which copies
// the parent's Private context into a fresh map for each child scope;
// Daemonica's Environment plays the same role pongo2's Private context
// does, just as the one and only binding table rather than one layer
// of a three-way Public/Private/Shared split, since spec.md §3 calls
// for a single map.
//
// A declared-but-uninitialized binding is represented by a nil
// *value.Value entry, distinct from an absent binding (no entry at
// all) and distinct from an explicit Value::Empty (a non-nil entry
// holding value.NewEmpty()).
type Environment struct {
	values map[string]*value.Value
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]*value.Value)}
}

// Clone returns a snapshot whose mutations do not affect the
// receiver until the caller explicitly adopts the clone (spec.md §4.H
// Block/function-call semantics).
func (e *Environment) Clone() *Environment {
	cp := make(map[string]*value.Value, len(e.values))
	for k, v := range e.values {
		cp[k] = v
	}
	return &Environment{values: cp}
}

// Declare binds name to val, or to the uninitialized sentinel if val
// is nil. A redeclaration silently replaces the previous binding.
func (e *Environment) Declare(name string, val *value.Value) {
	e.values[name] = val
}

// Get looks up name. found is false iff name is not bound at all
// (spec.md §3 invariant). A declared-but-uninitialized name is found
// and surfaces as value.NewEmpty().
func (e *Environment) Get(name string) (v value.Value, found bool) {
	slot, ok := e.values[name]
	if !ok {
		return value.Value{}, false
	}
	if slot == nil {
		return value.NewEmpty(), true
	}
	return *slot, true
}

// Assign stores val into an already-bound name. It returns false if
// name is not bound, per spec.md §4.H ("environment must already
// contain n, else error").
func (e *Environment) Assign(name string, val value.Value) bool {
	if _, ok := e.values[name]; !ok {
		return false
	}
	v := val
	e.values[name] = &v
	return true
}

// Snapshot returns every bound name mapped to its current value, for
// diagnostic dumps (spec.md §7: "prints the error and the current
// environment to stderr"). Uninitialized bindings surface as Empty.
func (e *Environment) Snapshot() map[string]value.Value {
	out := make(map[string]value.Value, len(e.values))
	for name := range e.values {
		v, _ := e.Get(name)
		out[name] = v
	}
	return out
}
