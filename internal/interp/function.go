package interp

import (
	"github.com/plu7o/plox/internal/ast"
	"github.com/plu7o/plox/internal/token"
)

// Function is a user-defined function or method value: a declaration plus
// the environment it closed over at definition time. isInitializer is true
// only for methods named init, which always return the bound instance
// regardless of their own return statements.
type Function struct {
	name          string // "" for an anonymous function literal
	params        []token.Token
	body          []ast.Stmt
	closure       *Environment
	isInitializer bool
}

// NewFunction builds the Function value for a named `fn` declaration or a
// class method.
func NewFunction(decl *ast.Function, closure *Environment, isInitializer bool) *Function {
	return &Function{
		name:          decl.Name.Lexeme,
		params:        decl.Params,
		body:          decl.Body,
		closure:       closure,
		isInitializer: isInitializer,
	}
}

// NewAnonymFunction builds the Function value for an `fn(...) { ... }`
// expression literal. Anonymous functions are never initializers and always
// fall through to none when their body completes without a return.
func NewAnonymFunction(expr *ast.Anonym, closure *Environment) *Function {
	return &Function{
		params:  expr.Params,
		body:    expr.Body,
		closure: closure,
	}
}

func (f *Function) Arity() int { return len(f.params) }

func (f *Function) Call(it *Interpreter, arguments []any) (any, *RuntimeError) {
	env := NewEnvironment(f.closure)
	for i, param := range f.params {
		env.Define(param.Lexeme, arguments[i])
	}

	ctrl, err := it.executeBlock(f.body, env)
	if err != nil {
		return nil, err
	}
	if f.isInitializer {
		return f.closure.GetAt(0, "self"), nil
	}
	if ctrl != nil {
		return ctrl.value, nil
	}
	return nil, nil
}

// Bind returns a copy of f whose closure has a fresh innermost scope with
// self pre-defined to instance — the mechanism behind bound methods.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define("self", instance)
	return &Function{
		name:          f.name,
		params:        f.params,
		body:          f.body,
		closure:       env,
		isInitializer: f.isInitializer,
	}
}

func (f *Function) String() string {
	if f.name == "" {
		return "<fn Anonymous>"
	}
	return "<fn " + f.name + ">"
}
