package eval

import (
	"fmt"
	"strings"
	"time"

	"github.com/loxwalk/loxwalk/value"
)

// registerBuiltins installs the three natives the spec requires into
// the evaluator's global scope: clock, print, readLine. None of them
// can fail in a way that surfaces a RuntimeError — a read error from
// stdin degrades to an empty string rather than aborting the program,
// matching the single-threaded, no-timeout resource model.
func registerBuiltins(e *Evaluator) {
	e.Globals.Define("clock", &value.NativeFunction{
		Name:   "clock",
		NArity: 0,
		Handler: func(args []value.Value) (value.Value, error) {
			return value.Number(float64(time.Now().UnixMilli())), nil
		},
	}, true)

	e.Globals.Define("print", &value.NativeFunction{
		Name:   "print",
		NArity: 1,
		Handler: func(args []value.Value) (value.Value, error) {
			fmt.Fprintln(e.Stdout, args[0].String())
			return value.Nil, nil
		},
	}, true)

	e.Globals.Define("readLine", &value.NativeFunction{
		Name:   "readLine",
		NArity: 0,
		Handler: func(args []value.Value) (value.Value, error) {
			line, err := e.Stdin.ReadString('\n')
			if err != nil && line == "" {
				return value.String(""), nil
			}
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			return value.String(line), nil
		},
	}, true)
}
