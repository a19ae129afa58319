// Package cmd implements the plox command-line entry point: running a
// script file, evaluating from a REPL, or reporting a usage error, each
// with the exit code a shell script driving plox expects.
package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/plu7o/plox/internal/builtins"
	"github.com/plu7o/plox/internal/debug"
	"github.com/plu7o/plox/internal/errors"
	"github.com/plu7o/plox/internal/interp"
	"github.com/plu7o/plox/internal/lexer"
	"github.com/plu7o/plox/internal/parser"
	"github.com/plu7o/plox/internal/resolver"
	"github.com/spf13/cobra"
)

const prompt = "plox_v0.1 $> "

var dumpAST bool

var rootCmd = &cobra.Command{
	Use:   "plox [script]",
	Short: "plox is a tree-walking interpreter for the plox language",
	Long: `plox is a tree-walking interpreter for a small class-based
scripting language: C-like expression syntax, closures, and single
inheritance.

Run a script file:

  plox script.lox

With no file, plox starts a REPL that reads one line at a time.`,
	Args: func(_ *cobra.Command, args []string) error {
		if len(args) > 1 {
			return errTooManyArgs
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPlox,
}

var errTooManyArgs = fmt.Errorf("Usage: plox [script]")

func init() {
	rootCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed statement list before execution (for debugging)")
}

// Execute runs the root command, returning the process exit code the
// caller should use.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if err == errTooManyArgs {
			fmt.Println(err.Error())
			return 64
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

// exitCode is set by runPlox/runFile to the status Execute should return;
// cobra's RunE contract has no room for a numeric exit code of its own.
var exitCode int

func runPlox(_ *cobra.Command, args []string) error {
	errors.SetOutput(os.Stderr)
	it := interp.New(os.Stdout)
	builtins.Install(it.Globals)

	if len(args) == 1 {
		return runFile(it, args[0])
	}
	runPrompt(it)
	return nil
}

func runFile(it *interp.Interpreter, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	errors.Reset(string(source))

	run(it, string(source))

	if errors.HadSyntaxError() {
		exitCode = 65
	} else if errors.HadRuntimeError() {
		exitCode = 70
	}
	return nil
}

func runPrompt(it *interp.Interpreter) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "exit" {
			return
		}
		errors.Reset(line)
		run(it, line)
	}
}

// run drives one source string through the full pipeline — scan, parse,
// resolve, interpret — stopping early at the first stage that records a
// syntax error.
func run(it *interp.Interpreter, source string) {
	lx := lexer.New(source)
	tokens := lx.ScanTokens()
	if errors.HadSyntaxError() {
		return
	}

	p := parser.New(tokens)
	statements := p.Parse()
	if errors.HadSyntaxError() {
		return
	}

	if dumpAST {
		fmt.Fprint(it.Out(), debug.Print(statements))
	}

	r := resolver.New()
	r.Analyze(statements)
	if errors.HadSyntaxError() {
		return
	}
	it.ResolveDistances(r)

	it.Interpret(statements)
}
