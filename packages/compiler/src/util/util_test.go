package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ngc-ir/packages/compiler/src/util"
)

func TestSpanForOffsets(t *testing.T) {
	file := util.NewParseSourceFile("<ul>\n  <li>{{ a }}</li>\n</ul>", "list.html")
	span := util.SpanForOffsets(file, 11, 20)

	assert.Equal(t, "{{ a }}</", span.String())
	assert.Equal(t, 1, span.Start.Line)
	assert.Equal(t, 6, span.Start.Col)
	assert.Equal(t, 1, span.End.Line)
	assert.Equal(t, 15, span.End.Col)
	assert.Equal(t, "list.html@1:6", span.Start.String())
}

func TestParseError(t *testing.T) {
	file := util.NewParseSourceFile("<p>{{ x</p>", "p.html")
	err := util.NewParseError(util.SpanForOffsets(file, 3, 7), "Unterminated interpolation")

	assert.Equal(t, util.ParseErrorLevelError, err.Level)
	assert.EqualError(t, err, `Unterminated interpolation ("<p>[ERROR ->]{{ x</p>"): p.html@0:3`)
	assert.Equal(t, "missing", util.NewParseError(nil, "missing").Error())
}

func TestStringHelpers(t *testing.T) {
	assert.Equal(t, []string{"attr", "aria-label"}, util.SplitAtColon("attr: aria-label", nil))
	assert.Equal(t, []string{"", "x"}, util.SplitAtColon("x", []string{"", "x"}))
	assert.Equal(t, "background-color", util.Hyphenate("backgroundColor"))
	assert.Equal(t, "ng_template_0", util.SanitizeIdentifier("ng-template.0"))
}
