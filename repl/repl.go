// Package repl implements the interactive Read-Eval-Print Loop. Input
// is read a line at a time via readline (history, cursor editing), run
// through the same lexer/parser/resolver/eval pipeline file execution
// uses, and diagnostics are rendered with the same caret-pointing
// report the file runner uses — the REPL never gets a second error
// format.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/loxwalk/loxwalk/ast"
	"github.com/loxwalk/loxwalk/config"
	"github.com/loxwalk/loxwalk/diagnostics"
	"github.com/loxwalk/loxwalk/eval"
	"github.com/loxwalk/loxwalk/lexer"
	"github.com/loxwalk/loxwalk/parser"
	"github.com/loxwalk/loxwalk/resolver"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl is one interactive session. It keeps a single Evaluator alive
// across lines so variables, functions, and classes declared on one
// line are visible on the next — the same persistence guarantee the
// teacher's REPL gave its own globals-only environment, here extended
// to closures and classes because the Evaluator's Environment is the
// same chained scope the file runner uses.
type Repl struct {
	cfg       *config.Config
	evaluator *eval.Evaluator
}

// New builds a Repl against cfg. stdin feeds the interpreter's readLine
// builtin and stdout receives program output. The banner, diagnostics
// and exit message go to the writer passed to Start, and readline reads
// input lines through its own default terminal input.
func New(cfg *config.Config, stdin io.Reader, stdout io.Writer) *Repl {
	if !cfg.Color {
		color.NoColor = true
	}
	return &Repl{
		cfg:       cfg,
		evaluator: eval.New(stdout, stdin, make(map[ast.Reference]int)),
	}
}

// printBanner writes the startup banner and short usage reminder.
func (r *Repl) printBanner(w io.Writer) {
	blueColor.Fprintf(w, "%s\n", r.cfg.Line)
	greenColor.Fprintf(w, "%s\n", r.cfg.Banner)
	blueColor.Fprintf(w, "%s\n", r.cfg.Line)
	yellowColor.Fprintf(w, "Version: %s | Author: %s | License: %s\n", r.cfg.Version, r.cfg.Author, r.cfg.License)
	blueColor.Fprintf(w, "%s\n", r.cfg.Line)
	cyanColor.Fprintln(w, "Type an expression or statement and press enter.")
	cyanColor.Fprintln(w, "Type .exit to quit, use up/down arrows for history.")
	blueColor.Fprintf(w, "%s\n", r.cfg.Line)
}

// Start runs the loop until EOF, an explicit .exit, or a readline
// error. Each accepted line is lexed, parsed, resolved, and evaluated
// independently; a lex/parse/resolve error is reported and the line is
// discarded without touching evaluator state, matching file mode's
// all-phases-must-succeed rule applied one line at a time.
func (r *Repl) Start(w io.Writer) error {
	r.printBanner(w)

	rl, err := readline.NewEx(&readline.Config{Prompt: r.cfg.Prompt})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			w.Write([]byte("Good bye!\n"))
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" {
			w.Write([]byte("Good bye!\n"))
			return nil
		}
		rl.SaveHistory(line)

		r.evalLine(w, line)
	}
}

func (r *Repl) evalLine(w io.Writer, line string) {
	tokens, lexErrs := lexer.New(line).Scan()
	if len(lexErrs) > 0 {
		reportAll(w, line, lexErrs)
		return
	}

	statements, parseErrs := parser.New(tokens).Parse()
	if len(parseErrs) > 0 {
		reportAll(w, line, parseErrs)
		return
	}

	res := resolver.New()
	resolveErrs := res.Resolve(statements)
	if len(resolveErrs) > 0 {
		reportAll(w, line, resolveErrs)
		return
	}
	r.evaluator.MergeLocals(res.Locals)

	if err := r.evaluator.Interpret(statements); err != nil {
		diagnostics.Report(w, line, errorToDiagnostic(err))
	}
}

func reportAll(w io.Writer, source string, errs []*diagnostics.Error) {
	for _, e := range errs {
		diagnostics.Report(w, source, e)
	}
}

func errorToDiagnostic(err error) *diagnostics.Error {
	if re, ok := err.(*eval.RuntimeError); ok {
		return re.Diagnostic
	}
	return diagnostics.New(0, 0, diagnostics.TypeError, "%s", err.Error())
}
