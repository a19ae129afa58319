package parser

import (
	"testing"

	"github.com/plu7o/plox/internal/ast"
	"github.com/plu7o/plox/internal/errors"
	"github.com/plu7o/plox/internal/lexer"
)

func parse(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	errors.Reset(source)
	tokens := lexer.New(source).ScanTokens()
	if errors.HadSyntaxError() {
		t.Fatalf("unexpected scan error for %q", source)
	}
	stmts := New(tokens).Parse()
	if errors.HadSyntaxError() {
		t.Fatalf("unexpected parse error for %q", source)
	}
	return stmts
}

func TestParse_VarDeclaration(t *testing.T) {
	stmts := parse(t, `let x = 1 + 2;`)
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	v, ok := stmts[0].(*ast.Var)
	if !ok {
		t.Fatalf("expected *ast.Var, got %T", stmts[0])
	}
	if v.Name.Lexeme != "x" {
		t.Errorf("name = %q, want %q", v.Name.Lexeme, "x")
	}
	bin, ok := v.Initializer.(*ast.Binary)
	if !ok {
		t.Fatalf("expected initializer *ast.Binary, got %T", v.Initializer)
	}
	if bin.Operator.Lexeme != "+" {
		t.Errorf("operator = %q, want %q", bin.Operator.Lexeme, "+")
	}
}

func TestParse_AssignmentIsRightAssociative(t *testing.T) {
	stmts := parse(t, `let a = 0; let b = 0; a = b = 3;`)
	exprStmt, ok := stmts[2].(*ast.Expression)
	if !ok {
		t.Fatalf("expected *ast.Expression, got %T", stmts[2])
	}
	outer, ok := exprStmt.Expression.(*ast.Assign)
	if !ok {
		t.Fatalf("expected outer *ast.Assign, got %T", exprStmt.Expression)
	}
	if outer.Name.Lexeme != "a" {
		t.Errorf("outer target = %q, want %q", outer.Name.Lexeme, "a")
	}
	inner, ok := outer.Value.(*ast.Assign)
	if !ok {
		t.Fatalf("expected inner *ast.Assign, got %T", outer.Value)
	}
	if inner.Name.Lexeme != "b" {
		t.Errorf("inner target = %q, want %q", inner.Name.Lexeme, "b")
	}
}

func TestParse_TernaryIsRightNested(t *testing.T) {
	stmts := parse(t, `let x = true ? 1 : false ? 2 : 3;`)
	v := stmts[0].(*ast.Var)
	outer, ok := v.Initializer.(*ast.Ternary)
	if !ok {
		t.Fatalf("expected outer *ast.Ternary, got %T", v.Initializer)
	}
	if _, ok := outer.ExpressionElse.(*ast.Ternary); !ok {
		t.Fatalf("expected nested ternary in else-branch, got %T", outer.ExpressionElse)
	}
}

func TestParse_CompoundAssignmentPrecedence(t *testing.T) {
	// `a += b + c` should parse the whole additive RHS, i.e.
	// Binary(a, PLUS_ASSIGN, Binary(b, PLUS, c)).
	stmts := parse(t, `a += b + c;`)
	exprStmt := stmts[0].(*ast.Expression)
	outer, ok := exprStmt.Expression.(*ast.Binary)
	if !ok {
		t.Fatalf("expected *ast.Binary, got %T", exprStmt.Expression)
	}
	if outer.Operator.Lexeme != "+=" {
		t.Fatalf("operator = %q, want %q", outer.Operator.Lexeme, "+=")
	}
	rhs, ok := outer.Right.(*ast.Binary)
	if !ok || rhs.Operator.Lexeme != "+" {
		t.Fatalf("expected a '+' binary RHS, got %#v", outer.Right)
	}
}

func TestParse_ForLoopDesugarsToWhile(t *testing.T) {
	stmts := parse(t, `for let i = 0; i < 3; i = i + 1 { echo i; }`)
	outer, ok := stmts[0].(*ast.Block)
	if !ok {
		t.Fatalf("expected desugared *ast.Block, got %T", stmts[0])
	}
	if len(outer.Statements) != 2 {
		t.Fatalf("expected [init, while], got %d statements", len(outer.Statements))
	}
	if _, ok := outer.Statements[0].(*ast.Var); !ok {
		t.Errorf("first desugared statement should be the initializer *ast.Var, got %T", outer.Statements[0])
	}
	whileStmt, ok := outer.Statements[1].(*ast.While)
	if !ok {
		t.Fatalf("second desugared statement should be *ast.While, got %T", outer.Statements[1])
	}
	body, ok := whileStmt.Body.(*ast.Block)
	if !ok {
		t.Fatalf("while body should be a *ast.Block, got %T", whileStmt.Body)
	}
	if len(body.Statements) != 2 {
		t.Fatalf("expected [body, increment], got %d statements", len(body.Statements))
	}
	if _, ok := body.Statements[1].(*ast.Expression); !ok {
		t.Errorf("last body statement should be the increment expression, got %T", body.Statements[1])
	}
}

func TestParse_ClassWithSuperclass(t *testing.T) {
	stmts := parse(t, `class C <P> { greet() { return super::greet(); } }`)
	class, ok := stmts[0].(*ast.Class)
	if !ok {
		t.Fatalf("expected *ast.Class, got %T", stmts[0])
	}
	if class.Superclass == nil || class.Superclass.Name.Lexeme != "P" {
		t.Fatalf("expected superclass P, got %v", class.Superclass)
	}
	if len(class.Methods) != 1 || class.Methods[0].Name.Lexeme != "greet" {
		t.Fatalf("expected one method 'greet', got %#v", class.Methods)
	}
}

func TestParse_AnonymousFunction(t *testing.T) {
	stmts := parse(t, `let f = fn(n) { return n; };`)
	v := stmts[0].(*ast.Var)
	if _, ok := v.Initializer.(*ast.Anonym); !ok {
		t.Fatalf("expected *ast.Anonym, got %T", v.Initializer)
	}
}

func TestParse_InvalidAssignmentTargetReportsButDoesNotPanic(t *testing.T) {
	errors.Reset(`1 = 2;`)
	tokens := lexer.New(`1 = 2;`).ScanTokens()
	stmts := New(tokens).Parse()
	if !errors.HadSyntaxError() {
		t.Fatal("expected a syntax error for an invalid assignment target")
	}
	if len(stmts) != 1 {
		t.Fatalf("expected the statement to still be produced (non-fatal), got %d statements", len(stmts))
	}
}

func TestParse_MissingSemicolonResynchronizes(t *testing.T) {
	errors.Reset(`let x = 1 let y = 2;`)
	tokens := lexer.New(`let x = 1 let y = 2;`).ScanTokens()
	stmts := New(tokens).Parse()
	if !errors.HadSyntaxError() {
		t.Fatal("expected a syntax error")
	}
	// the parser should resynchronize at the next `let` and still recover
	// a declaration for y.
	foundY := false
	for _, s := range stmts {
		if v, ok := s.(*ast.Var); ok && v.Name.Lexeme == "y" {
			foundY = true
		}
	}
	if !foundY {
		t.Errorf("expected parser to resynchronize and still parse 'y', got %#v", stmts)
	}
}
