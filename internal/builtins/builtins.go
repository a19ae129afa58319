// Package builtins is the host function library: the small set of native
// Callable values the language sees as ordinary globals. It is wired in by
// the CLI entry point rather than by interp.New, keeping the evaluator
// itself free of any built-in-specific knowledge.
package builtins

import (
	"fmt"
	"time"

	"github.com/plu7o/plox/internal/interp"
)

// Install defines every host function in globals.
func Install(globals *interp.Environment) {
	globals.Define("time", &clock{})
	globals.Define("print", &printFn{})
}

// clock returns the current wall-clock time as seconds since the Unix
// epoch, matching time.time() in the reference implementation.
type clock struct{}

func (*clock) Arity() int { return 0 }

func (*clock) Call(_ *interp.Interpreter, _ []any) (any, *interp.RuntimeError) {
	return float64(time.Now().UnixNano()) / 1e9, nil
}

func (*clock) String() string { return "<Native Fn>" }

// printFn writes its arguments space-separated to the interpreter's output.
//
// Its declared Arity is 0, which call-site arity checking enforces
// strictly: print(x) always fails with an arity mismatch before Call ever
// runs, even though Call itself is written to accept any number of
// arguments. That mismatch exists in the original implementation too;
// it is kept rather than quietly fixed.
type printFn struct{}

func (*printFn) Arity() int { return 0 }

func (*printFn) Call(it *interp.Interpreter, arguments []any) (any, *interp.RuntimeError) {
	parts := make([]any, len(arguments))
	for i, a := range arguments {
		parts[i] = interp.Stringify(a)
	}
	fmt.Fprintln(it.Out(), parts...)
	return nil, nil
}

func (*printFn) String() string { return "<Native Fn>" }
