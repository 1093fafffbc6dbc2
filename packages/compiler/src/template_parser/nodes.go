package template_parser

import sitter "github.com/smacker/go-tree-sitter"

// findChild returns the first named child of node with the given grammar
// type, or nil.
func findChild(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// hasElementDescendant reports whether node contains markup. Error nodes
// without markup are stray characters such as `<` inside text.
func hasElementDescendant(node *sitter.Node) bool {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "element", "script_element", "style_element", "start_tag", "self_closing_tag", "end_tag":
			return true
		}
		if hasElementDescendant(child) {
			return true
		}
	}
	return false
}
