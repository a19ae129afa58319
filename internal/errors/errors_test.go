package errors

import (
	"bytes"
	"strings"
	"testing"
)

type fakeToken struct {
	line, column, length int
}

func (f fakeToken) Line() int   { return f.line }
func (f fakeToken) Column() int { return f.column }
func (f fakeToken) Len() int    { return f.length }

func TestSink_ParseErrorSetsHadSyntaxError(t *testing.T) {
	s := New()
	s.Source = "let x = ;"
	s.ParseError(fakeToken{line: 1, column: 9, length: 1}, "Expected expression.")

	if !s.HadSyntaxError {
		t.Error("ParseError should set HadSyntaxError")
	}
	if s.HadRuntimeError {
		t.Error("ParseError should not set HadRuntimeError")
	}
}

func TestSink_ResolverErrorIsAWarningOnly(t *testing.T) {
	s := New()
	s.Source = "echo self;"
	s.ResolverError(fakeToken{line: 1, column: 6, length: 4}, "Can't use 'self' outside of a class.")

	if s.HadSyntaxError {
		t.Error("ResolverError must not set HadSyntaxError")
	}
	if s.HadRuntimeError {
		t.Error("ResolverError must not set HadRuntimeError")
	}
}

func TestSink_RuntimeErrorSetsHadRuntimeError(t *testing.T) {
	s := New()
	s.Source = "echo 1 / 0;"
	s.RuntimeError(fakeToken{line: 1, column: 6, length: 1}, "Trying to devide by Zero.")

	if !s.HadRuntimeError {
		t.Error("RuntimeError should set HadRuntimeError")
	}
	if s.HadSyntaxError {
		t.Error("RuntimeError should not set HadSyntaxError")
	}
}

func TestSink_ReportIncludesSourceLineAndMessage(t *testing.T) {
	var buf bytes.Buffer
	s := New()
	s.Out = &buf
	s.Source = "let x = ;"
	s.ParseError(fakeToken{line: 1, column: 9, length: 1}, "Expected expression.")

	out := buf.String()
	if !strings.Contains(out, "Expected expression.") {
		t.Errorf("report should contain the message, got:\n%s", out)
	}
	if !strings.Contains(out, "let x = ;") {
		t.Errorf("report should contain the offending source line, got:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("report should contain a caret underline, got:\n%s", out)
	}
}

func TestSink_ReportIsSkippedWithNoWriter(t *testing.T) {
	s := New()
	s.Source = "1;"
	// Out is nil: report() must not panic, just silently drop the report.
	s.ParseError(fakeToken{line: 1, column: 1, length: 1}, "boom")
	if !s.HadSyntaxError {
		t.Error("the sticky flag must still be set even with no writer configured")
	}
}

func TestReset_ClearsBothStickyFlags(t *testing.T) {
	Reset("first line")
	ParseError(fakeToken{line: 1, column: 1, length: 1}, "syntax problem")
	RuntimeError(fakeToken{line: 1, column: 1, length: 1}, "runtime problem")

	if !HadSyntaxError() || !HadRuntimeError() {
		t.Fatal("expected both sticky flags set before Reset")
	}

	Reset("second line")
	if HadSyntaxError() || HadRuntimeError() {
		t.Error("Reset should clear both sticky flags")
	}
}

func TestSink_SourceLineOutOfRangeReturnsEmpty(t *testing.T) {
	s := New()
	s.Source = "one\ntwo"
	if got := s.sourceLine(0); got != "" {
		t.Errorf("sourceLine(0) = %q, want empty", got)
	}
	if got := s.sourceLine(99); got != "" {
		t.Errorf("sourceLine(99) = %q, want empty", got)
	}
	if got := s.sourceLine(2); got != "two" {
		t.Errorf("sourceLine(2) = %q, want %q", got, "two")
	}
}
