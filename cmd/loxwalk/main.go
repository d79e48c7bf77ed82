// Command loxwalk is the interpreter's command-line entry point: run a
// source file, optionally re-running it on save, or drop into the
// interactive REPL.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/loxwalk/loxwalk/config"
	"github.com/loxwalk/loxwalk/diagnostics"
	"github.com/loxwalk/loxwalk/eval"
	"github.com/loxwalk/loxwalk/lexer"
	"github.com/loxwalk/loxwalk/parser"
	"github.com/loxwalk/loxwalk/repl"
	"github.com/loxwalk/loxwalk/resolver"
)

var (
	noColor bool
	watch   bool
)

func main() {
	root := &cobra.Command{
		Use:   "loxwalk",
		Short: "A tree-walking interpreter for the loxwalk language",
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured diagnostics and REPL output")

	runCmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			if watch {
				return watchAndRun(args[0])
			}
			return runFile(args[0])
		},
	}
	runCmd.Flags().BoolVar(&watch, "watch", false, "re-run the file whenever it changes on disk")

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive REPL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			cfg, err := config.Load(config.FileName)
			if err != nil {
				return err
			}
			return repl.New(cfg, os.Stdin, os.Stdout).Start(os.Stdout)
		},
	}

	root.AddCommand(runCmd, replCmd)
	root.RunE = replCmd.RunE

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runFile lexes, parses, resolves, and evaluates a single source file,
// printing every diagnostic from a phase before giving up on it — the
// same all-errors-before-any-later-phase rule the REPL applies one
// line at a time.
func runFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	source := string(data)

	tokens, lexErrs := lexer.New(source).Scan()
	if len(lexErrs) > 0 {
		reportAll(source, lexErrs)
		return fmt.Errorf("%d lexical error(s)", len(lexErrs))
	}

	statements, parseErrs := parser.New(tokens).Parse()
	if len(parseErrs) > 0 {
		reportAll(source, parseErrs)
		return fmt.Errorf("%d parse error(s)", len(parseErrs))
	}

	res := resolver.New()
	resolveErrs := res.Resolve(statements)
	if len(resolveErrs) > 0 {
		reportAll(source, resolveErrs)
		return fmt.Errorf("%d resolution error(s)", len(resolveErrs))
	}

	evaluator := eval.New(os.Stdout, os.Stdin, res.Locals)
	if err := evaluator.Interpret(statements); err != nil {
		if re, ok := err.(*eval.RuntimeError); ok {
			diagnostics.Report(os.Stderr, source, re.Diagnostic)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return err
	}
	return nil
}

func reportAll(source string, errs []*diagnostics.Error) {
	for _, e := range errs {
		diagnostics.Report(os.Stderr, source, e)
	}
}

// watchAndRun runs path immediately, then re-runs it every time the
// file is written, until the process is interrupted. Errors from a
// given run are reported but never stop the watch loop.
func watchAndRun(path string) error {
	if err := runFile(path); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fmt.Fprintf(os.Stdout, "--- re-running %s ---\n", path)
				if err := runFile(path); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
