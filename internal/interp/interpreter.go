// Package interp is the tree-walking evaluator: it executes a resolved AST
// against a chain of Environments, implementing operator semantics, method
// binding over the inheritance chain, closure capture, and initializer
// return rules.
package interp

import (
	"fmt"
	"io"
	"math"

	"github.com/plu7o/plox/internal/ast"
	"github.com/plu7o/plox/internal/errors"
	"github.com/plu7o/plox/internal/resolver"
	"github.com/plu7o/plox/internal/token"
)

// Interpreter walks a program's statements, threading the "current
// environment" through execution. Out receives echo/print output. Locals
// holds the resolver's scope-distance annotations, consulted on every
// variable/self/super reference and assignment.
type Interpreter struct {
	Globals *Environment
	Locals  map[ast.Expr]int

	env *Environment
	out io.Writer
}

// New creates an Interpreter with an empty global environment. The host
// library (time, print) is an external collaborator wired in by the caller
// via Globals.Define, not by the interpreter itself.
func New(out io.Writer) *Interpreter {
	globals := NewEnvironment(nil)
	return &Interpreter{
		Globals: globals,
		Locals:  make(map[ast.Expr]int),
		env:     globals,
		out:     out,
	}
}

// ResolveDistances adopts the scope-distance table produced by a Resolver
// run over the same program.
func (it *Interpreter) ResolveDistances(r *resolver.Resolver) {
	it.Locals = r.Locals
}

// Out returns the writer echo/print output is sent to, so host functions
// registered by the caller can honor the same destination.
func (it *Interpreter) Out() io.Writer {
	return it.out
}

// Interpret executes a list of top-level statements. A RuntimeError
// unwinds to here, is reported to the diagnostics sink, and Interpret
// returns — it never panics out to the caller.
func (it *Interpreter) Interpret(statements []ast.Stmt) {
	for _, stmt := range statements {
		if _, err := it.execute(stmt); err != nil {
			errors.RuntimeError(err.Token, err.Message)
			return
		}
	}
}

func (it *Interpreter) execute(stmt ast.Stmt) (*control, *RuntimeError) {
	switch s := stmt.(type) {
	case *ast.Block:
		return it.executeBlock(s.Statements, NewEnvironment(it.env))
	case *ast.Class:
		return nil, it.executeClass(s)
	case *ast.Expression:
		_, err := it.evaluate(s.Expression)
		return nil, err
	case *ast.Function:
		fn := NewFunction(s, it.env, false)
		it.env.Define(s.Name.Lexeme, fn)
		return nil, nil
	case *ast.If:
		cond, err := it.evaluate(s.Condition)
		if err != nil {
			return nil, err
		}
		if IsTruthy(cond) {
			return it.execute(s.Then)
		} else if s.Else != nil {
			return it.execute(s.Else)
		}
		return nil, nil
	case *ast.Var:
		var value any
		if s.Initializer != nil {
			var err *RuntimeError
			value, err = it.evaluate(s.Initializer)
			if err != nil {
				return nil, err
			}
		}
		it.env.Define(s.Name.Lexeme, value)
		return nil, nil
	case *ast.Return:
		var value any
		if s.Value != nil {
			var err *RuntimeError
			value, err = it.evaluate(s.Value)
			if err != nil {
				return nil, err
			}
		}
		return &control{value: value}, nil
	case *ast.While:
		for {
			cond, err := it.evaluate(s.Condition)
			if err != nil {
				return nil, err
			}
			if !IsTruthy(cond) {
				return nil, nil
			}
			ctrl, err := it.execute(s.Body)
			if err != nil {
				return nil, err
			}
			if isReturning(ctrl) {
				return ctrl, nil
			}
		}
	case *ast.Echo:
		value, err := it.evaluate(s.Expression)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(it.out, Stringify(value))
		return nil, nil
	}
	return nil, nil
}

// executeBlock runs statements against env, restoring the interpreter's
// previous current-environment pointer on every exit path (normal,
// return-unwind, or error) so block scope never leaks.
func (it *Interpreter) executeBlock(statements []ast.Stmt, env *Environment) (*control, *RuntimeError) {
	previous := it.env
	defer func() { it.env = previous }()
	it.env = env

	for _, stmt := range statements {
		ctrl, err := it.execute(stmt)
		if err != nil {
			return nil, err
		}
		if isReturning(ctrl) {
			return ctrl, nil
		}
	}
	return nil, nil
}

func (it *Interpreter) executeClass(s *ast.Class) *RuntimeError {
	var superclass *Class
	if s.Superclass != nil {
		sc, err := it.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		var ok bool
		superclass, ok = sc.(*Class)
		if !ok {
			return NewRuntimeError(s.Superclass.Name, "superclass must be a class.")
		}
	}

	it.env.Define(s.Name.Lexeme, nil)

	classEnv := it.env
	if s.Superclass != nil {
		classEnv = NewEnvironment(it.env)
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, method := range s.Methods {
		methods[method.Name.Lexeme] = NewFunction(method, classEnv, method.Name.Lexeme == "init")
	}
	class := NewClass(s.Name.Lexeme, methods, superclass)

	return it.env.Assign(s.Name, class)
}

func (it *Interpreter) evaluate(expr ast.Expr) (any, *RuntimeError) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil
	case *ast.Variable:
		return it.lookUpVariable(e.Name, e)
	case *ast.Self:
		return it.lookUpVariable(e.Keyword, e)
	case *ast.Super:
		return it.evalSuper(e)
	case *ast.Grouping:
		return it.evaluate(e.Expression)
	case *ast.Unary:
		return it.evalUnary(e)
	case *ast.Prefix:
		return it.evalPrefix(e)
	case *ast.Postfix:
		return it.evalPostfix(e)
	case *ast.Binary:
		return it.evalBinary(e)
	case *ast.Logical:
		return it.evalLogical(e)
	case *ast.Ternary:
		cond, err := it.evaluate(e.Condition)
		if err != nil {
			return nil, err
		}
		if IsTruthy(cond) {
			return it.evaluate(e.ExpressionTrue)
		}
		return it.evaluate(e.ExpressionElse)
	case *ast.Assign:
		return it.evalAssign(e)
	case *ast.Call:
		return it.evalCall(e)
	case *ast.Get:
		return it.evalGet(e)
	case *ast.Set:
		return it.evalSet(e)
	case *ast.Anonym:
		return NewAnonymFunction(e, it.env), nil
	}
	return nil, nil
}

func (it *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) (any, *RuntimeError) {
	if distance, ok := it.Locals[expr]; ok {
		return it.env.GetAt(distance, name.Lexeme), nil
	}
	return it.Globals.Get(name)
}

func (it *Interpreter) evalSuper(e *ast.Super) (any, *RuntimeError) {
	distance := it.Locals[e]
	superAny := it.env.GetAt(distance, "super")
	self := it.env.GetAt(distance-1, "self")

	superclass, ok := superAny.(*Class)
	if !ok {
		return nil, NewRuntimeError(e.Keyword, "Can't use 'super' in a class with no superclass.")
	}
	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, NewRuntimeError(e.Method, "undefined property '"+e.Method.Lexeme+"'.")
	}
	instance, _ := self.(*Instance)
	return method.Bind(instance), nil
}

func (it *Interpreter) evalGet(e *ast.Get) (any, *RuntimeError) {
	obj, err := it.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*Instance)
	if !ok {
		return nil, NewRuntimeError(e.Name, "Only instances have properties.")
	}
	return instance.Get(e.Name)
}

func (it *Interpreter) evalSet(e *ast.Set) (any, *RuntimeError) {
	obj, err := it.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*Instance)
	if !ok {
		return nil, NewRuntimeError(e.Name, "Only instances have fields.")
	}
	value, err := it.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	instance.Set(e.Name, value)
	return value, nil
}

func (it *Interpreter) evalCall(e *ast.Call) (any, *RuntimeError) {
	callee, err := it.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	arguments := make([]any, 0, len(e.Arguments))
	for _, argExpr := range e.Arguments {
		arg, err := it.evaluate(argExpr)
		if err != nil {
			return nil, err
		}
		arguments = append(arguments, arg)
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, NewRuntimeError(e.Paren, "Can only call functions and classes.")
	}
	if len(arguments) != fn.Arity() {
		return nil, NewRuntimeError(e.Paren, fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(arguments)))
	}
	return fn.Call(it, arguments)
}

func (it *Interpreter) evalAssign(e *ast.Assign) (any, *RuntimeError) {
	value, err := it.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	if distance, ok := it.Locals[e]; ok {
		it.env.AssignAt(distance, e.Name.Lexeme, value)
	} else if err := it.Globals.Assign(e.Name, value); err != nil {
		return nil, err
	}
	return value, nil
}

func (it *Interpreter) evalLogical(e *ast.Logical) (any, *RuntimeError) {
	left, err := it.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Operator.Type == token.OR {
		if IsTruthy(left) {
			return left, nil
		}
	} else if !IsTruthy(left) {
		return left, nil
	}
	return it.evaluate(e.Right)
}

func (it *Interpreter) evalUnary(e *ast.Unary) (any, *RuntimeError) {
	right, err := it.evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator.Type {
	case token.BANG:
		return !IsTruthy(right), nil
	case token.MINUS:
		n, err := checkNumberOperand(e.Operator, right)
		if err != nil {
			return nil, err
		}
		return -n, nil
	}
	return nil, nil
}

func checkNumberOperand(operator token.Token, operand any) (float64, *RuntimeError) {
	n, ok := operand.(float64)
	if !ok {
		return 0, NewRuntimeError(operator, "Operand must be a number")
	}
	return n, nil
}

func checkNumberOperands(operator token.Token, left, right any) (float64, float64, *RuntimeError) {
	l, lok := left.(float64)
	r, rok := right.(float64)
	if !lok || !rok {
		return 0, 0, NewRuntimeError(operator, "Operands must be numbers")
	}
	return l, r, nil
}

func (it *Interpreter) evalBinary(e *ast.Binary) (any, *RuntimeError) {
	left, err := it.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := it.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case token.MINUS:
		l, r, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return l - r, nil
	case token.PLUS:
		if lf, ok := left.(float64); ok {
			if rf, ok := right.(float64); ok {
				return lf + rf, nil
			}
		}
		if _, ok := left.(string); ok {
			return Stringify(left) + Stringify(right), nil
		}
		if _, ok := right.(string); ok {
			return Stringify(left) + Stringify(right), nil
		}
		return nil, NewRuntimeError(e.Operator, "Operands must be two numbers or two strings.")
	case token.SLASH:
		l, r, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		if l == 0 || r == 0 {
			return nil, NewRuntimeError(e.Operator, "Trying to devide by Zero.")
		}
		return l / r, nil
	case token.STAR:
		l, r, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return l * r, nil
	case token.MODULO:
		l, r, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return math.Mod(l, r), nil
	case token.GREATER:
		l, r, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return l > r, nil
	case token.GREATER_EQUAL:
		l, r, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return l >= r, nil
	case token.LESS:
		l, r, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return l < r, nil
	case token.LESS_EQUAL:
		l, r, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return l <= r, nil
	case token.BANG_EQUAL:
		return !IsEqual(left, right), nil
	case token.EQUAL_EQUAL:
		return IsEqual(left, right), nil
	case token.PLUS_ASSIGN:
		return it.compoundAssign(e, left, right, func(l, r float64) float64 { return l + r })
	case token.MINUS_ASSIGN:
		return it.compoundAssign(e, left, right, func(l, r float64) float64 { return l - r })
	case token.STAR_ASSIGN:
		return it.compoundAssign(e, left, right, func(l, r float64) float64 { return l * r })
	case token.SLASH_ASSIGN:
		target, ok := e.Left.(*ast.Variable)
		if !ok {
			return nil, NewRuntimeError(e.Operator, "attempting to assign to a literal value")
		}
		l, r, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		if l == 0 || r == 0 {
			return nil, NewRuntimeError(e.Operator, "Trying to devide by Zero.")
		}
		result := l / r
		if err := it.env.Assign(target.Name, result); err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, nil
}

// compoundAssign implements the shared shape of +=, -=, and *=: the left
// operand must be a bare variable reference, both operands must be numbers,
// and the result is written back through the dynamic environment chain (not
// the resolver's scope distance — it mirrors plain Environment.Assign).
func (it *Interpreter) compoundAssign(e *ast.Binary, left, right any, op func(l, r float64) float64) (any, *RuntimeError) {
	target, ok := e.Left.(*ast.Variable)
	if !ok {
		return nil, NewRuntimeError(e.Operator, "attempting to assign to a literal value")
	}
	l, r, err := checkNumberOperands(e.Operator, left, right)
	if err != nil {
		return nil, err
	}
	result := op(l, r)
	if err := it.env.Assign(target.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (it *Interpreter) evalPrefix(e *ast.Prefix) (any, *RuntimeError) {
	right, err := it.evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	target, ok := e.Right.(*ast.Variable)
	switch e.Operator.Type {
	case token.MINUS_MINUS:
		if !ok {
			return nil, NewRuntimeError(e.Operator, "attempting to decrement a literal value")
		}
		n, err := checkNumberOperand(e.Operator, right)
		if err != nil {
			return nil, err
		}
		result := n - 1
		if err := it.env.Assign(target.Name, result); err != nil {
			return nil, err
		}
		return result, nil
	case token.PLUS_PLUS:
		if !ok {
			return nil, NewRuntimeError(e.Operator, "attempting to increment a literal value")
		}
		n, err := checkNumberOperand(e.Operator, right)
		if err != nil {
			return nil, err
		}
		result := n + 1
		if err := it.env.Assign(target.Name, result); err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, nil
}

func (it *Interpreter) evalPostfix(e *ast.Postfix) (any, *RuntimeError) {
	left, err := it.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	target, ok := e.Left.(*ast.Variable)
	switch e.Operator.Type {
	case token.MINUS_MINUS:
		if !ok {
			return nil, NewRuntimeError(e.Operator, "attempting to decrement a literal value")
		}
		n, err := checkNumberOperand(e.Operator, left)
		if err != nil {
			return nil, err
		}
		if err := it.env.Assign(target.Name, n-1); err != nil {
			return nil, err
		}
		return n, nil
	case token.PLUS_PLUS:
		if !ok {
			return nil, NewRuntimeError(e.Operator, "attempting to increment a literal value")
		}
		n, err := checkNumberOperand(e.Operator, left)
		if err != nil {
			return nil, err
		}
		if err := it.env.Assign(target.Name, n+1); err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, nil
}
