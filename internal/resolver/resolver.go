// Package resolver performs a single static pass over the AST that turns
// dynamic name lookup into compile-time scope-distance annotations, so the
// evaluator can resolve a variable reference in O(depth) hops instead of
// walking the environment chain to the root on every access.
package resolver

import (
	"sort"

	"github.com/plu7o/plox/internal/ast"
	"github.com/plu7o/plox/internal/errors"
	"github.com/plu7o/plox/internal/token"
)

type functionType int

const (
	funcNone functionType = iota
	funcFunction
	funcAnon
	funcMethod
	funcInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// scope maps a name to whether its initializer has finished resolving.
type scope map[string]bool

// Resolver walks a parsed program once, recording the lexical distance of
// every variable/self/super reference in Locals, keyed by node identity
// (ast.Expr values are always pointers, so map equality is address equality).
type Resolver struct {
	Locals map[ast.Expr]int

	scopes          []scope
	currentFunction functionType
	currentClass    classType

	declared map[string]token.Token // name -> declaring token, most recent wins
	used     map[string]bool
}

// New creates a Resolver.
func New() *Resolver {
	return &Resolver{
		Locals:   make(map[ast.Expr]int),
		declared: make(map[string]token.Token),
		used:     make(map[string]bool),
	}
}

// Analyze resolves a whole program and emits an unused-variable warning for
// every name declared with let (top-level or local) that is never
// referenced; an assignment counts as a reference.
func (r *Resolver) Analyze(statements []ast.Stmt) {
	r.resolveStmts(statements)

	names := make([]string, 0, len(r.declared))
	for name := range r.declared {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !r.used[name] {
			errors.ResolverError(r.declared[name], "Variable '"+name+"' was never used.")
		}
	}
}

func (r *Resolver) resolveStmts(statements []ast.Stmt) {
	for _, s := range statements {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(st.Statements)
		r.endScope()
	case *ast.Class:
		r.resolveClass(st)
	case *ast.Expression:
		r.resolveExpr(st.Expression)
	case *ast.Function:
		r.declare(st.Name)
		r.define(st.Name)
		r.resolveFunction(st.Params, st.Body, funcFunction)
	case *ast.If:
		r.resolveExpr(st.Condition)
		r.resolveStmt(st.Then)
		if st.Else != nil {
			r.resolveStmt(st.Else)
		}
	case *ast.Echo:
		r.resolveExpr(st.Expression)
	case *ast.Return:
		if r.currentFunction == funcNone {
			errors.ParseError(st.Keyword, "Can't return from top-level code.")
		}
		if st.Value != nil {
			if r.currentFunction == funcInitializer {
				errors.ResolverError(st.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(st.Value)
		}
	case *ast.Var:
		r.declare(st.Name)
		if st.Initializer != nil {
			r.resolveExpr(st.Initializer)
		}
		r.define(st.Name)
		r.declared[st.Name.Lexeme] = st.Name
	case *ast.While:
		r.resolveExpr(st.Condition)
		r.resolveStmt(st.Body)
	}
}

func (r *Resolver) resolveClass(st *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = classClass

	r.declare(st.Name)
	r.define(st.Name)

	if st.Superclass != nil && st.Name.Lexeme == st.Superclass.Name.Lexeme {
		errors.ResolverError(st.Superclass.Name, "A class can't inherit from itself.")
	}

	if st.Superclass != nil {
		r.currentClass = classSubclass
		r.resolveExpr(st.Superclass)
	}

	if st.Superclass != nil {
		r.beginScope()
		r.peek()["super"] = true
	}

	r.beginScope()
	r.peek()["self"] = true
	for _, method := range st.Methods {
		decl := funcMethod
		if method.Name.Lexeme == "init" {
			decl = funcInitializer
		}
		r.resolveFunction(method.Params, method.Body, decl)
	}
	r.endScope()

	if st.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosingClass
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch ex := e.(type) {
	case *ast.Literal:
		// nothing to resolve
	case *ast.Variable:
		if len(r.scopes) != 0 {
			if defined, ok := r.peek()[ex.Name.Lexeme]; ok && !defined {
				errors.ParseError(ex.Name, "Can't read local variable in its own initilizer.")
			}
		}
		r.resolveLocal(ex, ex.Name)
	case *ast.Self:
		if r.currentClass == classNone {
			errors.ResolverError(ex.Keyword, "Can't use 'self' outside of a class.")
		}
		r.resolveLocal(ex, ex.Keyword)
	case *ast.Super:
		if r.currentClass == classNone {
			errors.ResolverError(ex.Keyword, "Can't use 'super' outside of a class.")
		} else if r.currentClass != classSubclass {
			errors.ResolverError(ex.Keyword, "Can't use 'super' in a class with no superclass")
		}
		r.resolveLocal(ex, ex.Keyword)
	case *ast.Grouping:
		r.resolveExpr(ex.Expression)
	case *ast.Unary:
		r.resolveExpr(ex.Right)
	case *ast.Prefix:
		r.resolveExpr(ex.Right)
	case *ast.Postfix:
		r.resolveExpr(ex.Left)
	case *ast.Binary:
		r.resolveExpr(ex.Left)
		r.resolveExpr(ex.Right)
	case *ast.Logical:
		r.resolveExpr(ex.Left)
		r.resolveExpr(ex.Right)
	case *ast.Ternary:
		r.resolveExpr(ex.Condition)
		r.resolveExpr(ex.ExpressionTrue)
		r.resolveExpr(ex.ExpressionElse)
	case *ast.Assign:
		r.resolveExpr(ex.Value)
		r.resolveLocal(ex, ex.Name)
	case *ast.Call:
		r.resolveExpr(ex.Callee)
		for _, arg := range ex.Arguments {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		r.resolveExpr(ex.Object)
	case *ast.Set:
		r.resolveExpr(ex.Value)
		r.resolveExpr(ex.Object)
	case *ast.Anonym:
		r.resolveFunction(ex.Params, ex.Body, funcAnon)
	}
}

func (r *Resolver) resolveFunction(params []token.Token, body []ast.Stmt, typ functionType) {
	enclosing := r.currentFunction
	r.currentFunction = typ
	r.beginScope()
	for _, param := range params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(body)
	r.endScope()
	r.currentFunction = enclosing
}

func (r *Resolver) resolveLocal(e ast.Expr, name token.Token) {
	r.used[name.Lexeme] = true
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.Locals[e] = len(r.scopes) - 1 - i
			return
		}
	}
	// Not found in any scope: treated as a global reference, resolved
	// dynamically by the evaluator.
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) peek() scope {
	return r.scopes[len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	s := r.peek()
	if _, ok := s[name.Lexeme]; ok {
		errors.ParseError(name, "Already a variable with this name in this scope")
	}
	s[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.peek()[name.Lexeme] = true
}
