package interp

import "github.com/plu7o/plox/internal/token"

// Environment is a single lexical scope: an ordered binding map plus an
// optional link to the enclosing scope. Environments form a parent chain
// that mirrors the program's lexical nesting; closures keep a reference to
// the environment active at their definition site.
type Environment struct {
	values    map[string]any
	enclosing *Environment
}

// NewEnvironment creates an environment whose parent is enclosing (nil for
// the global environment).
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{values: make(map[string]any), enclosing: enclosing}
}

// Define binds name to value in this environment, creating or overwriting
// the binding. Redeclaration is legal at this layer; the resolver is what
// rejects it within a single scope.
func (e *Environment) Define(name string, value any) {
	e.values[name] = value
}

// Get looks up name, walking outward through enclosing scopes.
func (e *Environment) Get(name token.Token) (any, *RuntimeError) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return nil, NewRuntimeError(name, "Undefined variable '"+name.Lexeme+"'.")
}

// Assign rebinds an existing name, walking outward through enclosing
// scopes. It never creates a new binding.
func (e *Environment) Assign(name token.Token, value any) *RuntimeError {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, value)
	}
	return NewRuntimeError(name, "Undefined variable '"+name.Lexeme+"'.")
}

// Ancestor walks distance hops up the enclosing chain.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}

// GetAt reads name directly from the environment distance hops up,
// bypassing the walk-until-found lookup in Get. The resolver guarantees the
// binding exists there.
func (e *Environment) GetAt(distance int, name string) any {
	return e.Ancestor(distance).values[name]
}

// AssignAt writes name directly at the environment distance hops up.
func (e *Environment) AssignAt(distance int, name string, value any) {
	e.Ancestor(distance).values[name] = value
}
