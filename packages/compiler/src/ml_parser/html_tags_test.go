package ml_parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ngc-ir/packages/compiler/src/ml_parser"
)

func TestGetHtmlTagDefinition(t *testing.T) {
	assert.Equal(t, "svg", ml_parser.GetHtmlTagDefinition("svg").ImplicitNamespacePrefix)
	assert.True(t, ml_parser.GetHtmlTagDefinition("foreignObject").PreventNamespaceInheritance)
	assert.True(t, ml_parser.GetHtmlTagDefinition("IMG").IsVoid)
	assert.True(t, ml_parser.GetHtmlTagDefinition("pre").IgnoreFirstLf)
	assert.False(t, ml_parser.GetHtmlTagDefinition("div").CanSelfClose)
	assert.True(t, ml_parser.GetHtmlTagDefinition("app-root").CanSelfClose)
	assert.True(t, ml_parser.GetHtmlTagDefinition("ng-container").CanSelfClose)
}

func TestMergeNsAndName(t *testing.T) {
	assert.Equal(t, ":svg:rect", ml_parser.MergeNsAndName("svg", "rect"))
	assert.Equal(t, "div", ml_parser.MergeNsAndName("", "div"))
}
