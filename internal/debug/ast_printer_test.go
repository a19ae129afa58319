package debug

import (
	"strings"
	"testing"

	"github.com/plu7o/plox/internal/errors"
	"github.com/plu7o/plox/internal/lexer"
	"github.com/plu7o/plox/internal/parser"
)

func parseForPrint(t *testing.T, source string) string {
	t.Helper()
	errors.Reset(source)
	tokens := lexer.New(source).ScanTokens()
	stmts := parser.New(tokens).Parse()
	if errors.HadSyntaxError() {
		t.Fatalf("unexpected syntax error parsing %q", source)
	}
	return Print(stmts)
}

func TestPrint_BinaryExpression(t *testing.T) {
	got := parseForPrint(t, `1 + 2 * 3;`)
	want := "(; (+ 1 (* 2 3)))"
	if strings.TrimRight(got, "\n") != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}

func TestPrint_VarDeclarationWithoutInitializer(t *testing.T) {
	got := parseForPrint(t, `let x;`)
	want := "(let x)"
	if strings.TrimRight(got, "\n") != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}

func TestPrint_EchoAndGrouping(t *testing.T) {
	got := parseForPrint(t, `echo (1 + 2);`)
	want := "(echo (group (+ 1 2)))"
	if strings.TrimRight(got, "\n") != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}

func TestPrint_IfWithElse(t *testing.T) {
	got := parseForPrint(t, `if true : { echo 1; } else { echo 2; }`)
	want := "(if true (block (echo 1)) (block (echo 2)))"
	if strings.TrimRight(got, "\n") != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}

func TestPrint_NoneLiteral(t *testing.T) {
	got := parseForPrint(t, `echo none;`)
	want := "(echo none)"
	if strings.TrimRight(got, "\n") != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}
