package diagnostics

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// linePadding is how many lines of context are printed above and below
// the offending line.
const linePadding = 2

const separator = " | "

var (
	headerColor = color.New(color.FgRed, color.Bold)
	lineColor   = color.New(color.FgRed)
	caretColor  = color.New(color.FgYellow)
)

// Report writes a human-readable rendition of err against source to w:
// a red "Error" header naming the message and position, a window of
// surrounding source lines, the offending line picked out in red, and
// a caret on the line below pointing at the exact column.
func Report(w io.Writer, source string, err *Error) {
	headerColor.Fprintf(w, "Error: %s at %d:%d.\n", err.Message, err.Line+1, err.Column+1)

	lines := strings.Split(source, "\n")
	if err.Line < 0 || err.Line >= len(lines) {
		return
	}

	first := max(0, err.Line-linePadding)
	last := min(len(lines)-1, err.Line+linePadding)

	gutterWidth := len(strconv.Itoa(last + 1))

	for i := first; i <= last; i++ {
		lineNo := fmt.Sprintf("%*d", gutterWidth, i+1)
		if i == err.Line {
			lineColor.Fprintf(w, "%s%s%s\n", lineNo, separator, lines[i])
			pad := strings.Repeat(" ", gutterWidth+len(separator)+err.Column)
			caretColor.Fprintf(w, "%s^--- Here\n", pad)
		} else {
			fmt.Fprintf(w, "%s%s%s\n", lineNo, separator, lines[i])
		}
	}
}
