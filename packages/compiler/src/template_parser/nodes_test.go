package template_parser

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	tshtml "github.com/smacker/go-tree-sitter/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTree(t *testing.T, source string) *sitter.Node {
	t.Helper()
	parser := sitter.NewParser()
	t.Cleanup(parser.Close)
	parser.SetLanguage(tshtml.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(source))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree.RootNode()
}

func TestFindChild(t *testing.T) {
	source := `<a href="x">y</a>`
	root := parseTree(t, source)

	element := findChild(root, "element")
	require.NotNil(t, element)
	startTag := findChild(element, "start_tag")
	require.NotNil(t, startTag)
	tagName := findChild(startTag, "tag_name")
	require.NotNil(t, tagName)
	assert.Equal(t, "a", tagName.Content([]byte(source)))
	assert.NotNil(t, findChild(element, "end_tag"))

	assert.Nil(t, findChild(element, "self_closing_tag"))
	assert.Nil(t, findChild(nil, "element"))
}

func TestHasElementDescendant(t *testing.T) {
	assert.True(t, hasElementDescendant(parseTree(t, `<ul><li>a</li></ul>`)))
	assert.False(t, hasElementDescendant(parseTree(t, `plain text`)))
}
