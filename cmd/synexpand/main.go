// Command synexpand is a small driver for the internal/macro core: it
// reads a define-syntax form and a use form from a file and prints the
// expansion, either one step at a time or expanded repeatedly at the top
// level until the form stops changing (macro uses nested inside the form
// are not expanded).
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/fen-lang/synrules/internal/diagnostics"
	"github.com/fen-lang/synrules/internal/env"
	"github.com/fen-lang/synrules/internal/macro"
	"github.com/fen-lang/synrules/internal/reader"
	"github.com/fen-lang/synrules/internal/sexpr"
)

// printErr reports err to stderr, rendering a *diagnostics.Diagnostic
// with RenderText (its coded, macro-contextualized form) instead of the
// plain Error() string a bare fmt.Errorf-wrapped I/O failure gets.
func printErr(err error) {
	var d *diagnostics.Diagnostic
	if errors.As(err, &d) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", d.RenderText())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "expand":
		expandCommand(os.Args[2:])
	case "trace":
		traceCommand(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "synexpand - a hygienic syntax-rules macro expander\n\n")
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  synexpand expand -input <file> [-verbose]\n")
	fmt.Fprintf(os.Stderr, "  synexpand trace -input <file> [-max-steps <n>]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  expand  Expand the use form by one macro step and print the result\n")
	fmt.Fprintf(os.Stderr, "  trace   Expand the top-level form until it stops changing, printing every step\n\n")
	fmt.Fprintf(os.Stderr, "Input file format: a (define-syntax NAME (syntax-rules ...)) form\n")
	fmt.Fprintf(os.Stderr, "followed by one use form to expand.\n")
}

func expandCommand(args []string) {
	expandFlags := flag.NewFlagSet("expand", flag.ExitOnError)
	var (
		inputFile = expandFlags.String("input", "", "Input file containing a define-syntax form and a use form")
		verbose   = expandFlags.Bool("verbose", false, "Enable verbose output")
	)
	expandFlags.Parse(args)

	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: -input flag is required\n\n")
		printUsage()
		os.Exit(1)
	}

	defs, use, useEnv, err := loadFile(*inputFile, *verbose)
	if err != nil {
		printErr(err)
		os.Exit(1)
	}

	result, err := macro.ExpandOnce(defs, use, useEnv)
	if err != nil {
		printErr(err)
		os.Exit(1)
	}
	fmt.Println(result.String())
}

func traceCommand(args []string) {
	traceFlags := flag.NewFlagSet("trace", flag.ExitOnError)
	var (
		inputFile = traceFlags.String("input", "", "Input file containing a define-syntax form and a use form")
		maxSteps  = traceFlags.Int("max-steps", 64, "Maximum expansion steps before giving up")
	)
	traceFlags.Parse(args)

	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: -input flag is required\n\n")
		printUsage()
		os.Exit(1)
	}

	defs, use, useEnv, err := loadFile(*inputFile, true)
	if err != nil {
		printErr(err)
		os.Exit(1)
	}

	form := use
	for i := 0; i < *maxSteps; i++ {
		next, err := macro.ExpandOnce(defs, form, useEnv)
		if err != nil {
			printErr(err)
			os.Exit(1)
		}
		fmt.Printf("%d: %s\n", i, next.String())
		if sexpr.Equal(next, form) {
			return
		}
		form = next
	}
	fmt.Fprintf(os.Stderr, "did not converge after %d steps\n", *maxSteps)
	os.Exit(1)
}

// loadFile reads the file at path, parses it as a (define-syntax NAME
// (syntax-rules ...)) form followed by exactly one use form, compiles the
// macro, and returns the registry, the use form and the environment ready
// to expand.
func loadFile(path string, verbose bool) (*macro.Definitions, sexpr.Value, sexpr.Environment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	forms, err := reader.ReadAll(string(content))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(forms) != 2 {
		return nil, nil, nil, fmt.Errorf("%s: expected a define-syntax form followed by one use form, got %d forms", path, len(forms))
	}

	frame := env.New()
	defs := macro.NewDefinitions(macro.Config{EnableValidation: true, Trace: verbose})

	defForm, ok := forms[0].(*sexpr.Pair)
	if !ok {
		return nil, nil, nil, fmt.Errorf("%s: first form is not a define-syntax", path)
	}
	elems, ok := sexpr.ToSlice(defForm)
	if !ok || len(elems) != 3 {
		return nil, nil, nil, fmt.Errorf("%s: expected (define-syntax NAME (syntax-rules (LITERALS...) RULES...))", path)
	}
	nameSym, ok := elems[1].(*sexpr.Symbol)
	if !ok {
		return nil, nil, nil, fmt.Errorf("%s: define-syntax name must be a symbol", path)
	}
	srForm, ok := elems[2].(*sexpr.Pair)
	if !ok {
		return nil, nil, nil, fmt.Errorf("%s: define-syntax body must be (syntax-rules ...)", path)
	}
	srElems, ok := sexpr.ToSlice(srForm)
	if !ok || len(srElems) < 2 {
		return nil, nil, nil, fmt.Errorf("%s: malformed syntax-rules form", path)
	}
	literalsForm := srElems[1]
	literals, ok := sexpr.ToSlice(literalsForm)
	if !ok {
		return nil, nil, nil, fmt.Errorf("%s: syntax-rules literals must be a list", path)
	}
	rules := srElems[2:]

	transformer, err := macro.MakeSyntaxRulesTransformer(nameSym.Name, literals, rules, frame)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := defs.Define(nameSym.Name, transformer); err != nil {
		return nil, nil, nil, err
	}

	return defs, forms[1], frame, nil
}
