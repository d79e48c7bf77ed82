package diagnostics_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loxwalk/loxwalk/diagnostics"
)

func TestError_RendersOneIndexedPosition(t *testing.T) {
	err := diagnostics.New(0, 4, diagnostics.UnexpectedCharacter, "unexpected character %q", '$')
	assert.Equal(t, `UnexpectedCharacter at 1:5: unexpected character '$'`, err.Error())
}

func TestReport_HighlightsOffendingLineAndColumn(t *testing.T) {
	src := "var x = 1\nvar y = ;\nprint(x);"
	err := diagnostics.New(1, 8, diagnostics.ExpectedExpression, "expected expression")

	var buf bytes.Buffer
	diagnostics.Report(&buf, src, err)

	out := buf.String()
	assert.Contains(t, out, "var y = ;")
	assert.Contains(t, out, "^")
}

func TestSuggest_FindsCloseMatch(t *testing.T) {
	got := diagnostics.Suggest("lenght", []string{"length", "width", "height"})
	assert.Equal(t, "length", got)
}

func TestSuggest_NoMatchWithinDistance(t *testing.T) {
	got := diagnostics.Suggest("zzzzzzzz", []string{"length", "width", "height"})
	assert.Equal(t, "", got)
}
