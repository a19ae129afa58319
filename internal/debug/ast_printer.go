// Package debug renders a parsed program back out as a parenthesized,
// Lisp-like expression tree for --dump-ast. It is consumed only by the
// CLI: spec.md scopes a pretty-printer out of the interpreter core, so
// nothing under internal/interp or internal/resolver depends on this
// package.
package debug

import (
	"fmt"
	"strings"

	"github.com/plu7o/plox/internal/ast"
)

// Print renders a full program, one parenthesized form per statement.
func Print(statements []ast.Stmt) string {
	var b strings.Builder
	for _, s := range statements {
		b.WriteString(printStmt(s))
		b.WriteByte('\n')
	}
	return b.String()
}

func printStmt(s ast.Stmt) string {
	switch st := s.(type) {
	case *ast.Block:
		parts := make([]string, len(st.Statements))
		for i, inner := range st.Statements {
			parts[i] = printStmt(inner)
		}
		return parenthesize("block", parts...)
	case *ast.Expression:
		return parenthesizeExpr(";", st.Expression)
	case *ast.Echo:
		return parenthesizeExpr("echo", st.Expression)
	case *ast.Var:
		if st.Initializer == nil {
			return parenthesize("let " + st.Name.Lexeme)
		}
		return parenthesize("let "+st.Name.Lexeme, printExpr(st.Initializer))
	case *ast.Function:
		return parenthesize("fn " + st.Name.Lexeme)
	case *ast.Class:
		name := "class " + st.Name.Lexeme
		if st.Superclass != nil {
			name += " <" + st.Superclass.Name.Lexeme + ">"
		}
		return parenthesize(name)
	case *ast.If:
		parts := []string{printExpr(st.Condition), printStmt(st.Then)}
		if st.Else != nil {
			parts = append(parts, printStmt(st.Else))
		}
		return parenthesize("if", parts...)
	case *ast.While:
		return parenthesize("while", printExpr(st.Condition), printStmt(st.Body))
	case *ast.Return:
		if st.Value == nil {
			return parenthesize("return")
		}
		return parenthesizeExpr("return", st.Value)
	}
	return ""
}

func printExpr(e ast.Expr) string {
	switch ex := e.(type) {
	case *ast.Literal:
		if ex.Value == nil {
			return "none"
		}
		return fmt.Sprintf("%v", ex.Value)
	case *ast.Variable:
		return ex.Name.Lexeme
	case *ast.Self:
		return "self"
	case *ast.Super:
		return "super::" + ex.Method.Lexeme
	case *ast.Grouping:
		return parenthesizeExpr("group", ex.Expression)
	case *ast.Unary:
		return parenthesizeExpr(ex.Operator.Lexeme, ex.Right)
	case *ast.Prefix:
		return parenthesizeExpr("prefix "+ex.Operator.Lexeme, ex.Right)
	case *ast.Postfix:
		return parenthesizeExpr("postfix "+ex.Operator.Lexeme, ex.Left)
	case *ast.Binary:
		return parenthesizeExpr(ex.Operator.Lexeme, ex.Left, ex.Right)
	case *ast.Logical:
		return parenthesizeExpr(ex.Operator.Lexeme, ex.Left, ex.Right)
	case *ast.Ternary:
		return parenthesizeExpr("ternary", ex.Condition, ex.ExpressionTrue, ex.ExpressionElse)
	case *ast.Assign:
		return parenthesizeExpr("= "+ex.Name.Lexeme, ex.Value)
	case *ast.Call:
		return parenthesizeExpr("call", append([]ast.Expr{ex.Callee}, ex.Arguments...)...)
	case *ast.Get:
		return parenthesizeExpr("get ."+ex.Name.Lexeme, ex.Object)
	case *ast.Set:
		return parenthesizeExpr("set ."+ex.Name.Lexeme, ex.Object, ex.Value)
	case *ast.Anonym:
		return "(fn)"
	}
	return ""
}

func parenthesizeExpr(name string, exprs ...ast.Expr) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, e := range exprs {
		b.WriteByte(' ')
		b.WriteString(printExpr(e))
	}
	b.WriteByte(')')
	return b.String()
}

func parenthesize(name string, parts ...string) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, p := range parts {
		b.WriteByte(' ')
		b.WriteString(p)
	}
	b.WriteByte(')')
	return b.String()
}
