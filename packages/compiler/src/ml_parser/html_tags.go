// Package ml_parser holds the HTML element knowledge the template parser
// needs beyond the markup grammar: namespaces, void elements and which
// elements may be written self-closing.
package ml_parser

import "strings"

// TagDefinition describes how an HTML tag behaves
type TagDefinition struct {
	// ImplicitNamespacePrefix is the namespace the tag opens, e.g. `svg`.
	ImplicitNamespacePrefix string
	// PreventNamespaceInheritance stops children from inheriting the
	// namespace of the tag.
	PreventNamespaceInheritance bool
	IsVoid                      bool
	// IgnoreFirstLf drops a newline directly after the start tag.
	IgnoreFirstLf bool
	CanSelfClose  bool
}

var defaultTagDefinition = &TagDefinition{CanSelfClose: true}

// tagDefinitions is built once at init and only read afterwards, so it is
// safe to consult from parallel compilations.
var tagDefinitions = buildTagDefinitions()

// GetHtmlTagDefinition returns the definition of tagName. Unknown tags
// (custom elements among them) get a definition that allows self-closing.
func GetHtmlTagDefinition(tagName string) *TagDefinition {
	if def, ok := tagDefinitions[tagName]; ok {
		return def
	}
	if def, ok := tagDefinitions[strings.ToLower(tagName)]; ok {
		return def
	}
	return defaultTagDefinition
}

// MergeNsAndName merges namespace prefix and local name
func MergeNsAndName(prefix, localName string) string {
	if prefix != "" {
		return ":" + prefix + ":" + localName
	}
	return localName
}

func buildTagDefinitions() map[string]*TagDefinition {
	defs := map[string]*TagDefinition{
		"svg":           {ImplicitNamespacePrefix: "svg", CanSelfClose: true},
		"foreignObject": {ImplicitNamespacePrefix: "svg", PreventNamespaceInheritance: true, CanSelfClose: true},
		"math":          {ImplicitNamespacePrefix: "math", CanSelfClose: true},
		"pre":           {IgnoreFirstLf: true},
		"listing":       {IgnoreFirstLf: true},
		"textarea":      {IgnoreFirstLf: true},
		"style":         {},
		"script":        {},
		"title":         {},
		"li":            {},
		"option":        {},
		"optgroup":      {},
		"tr":            {},
		"td":            {},
		"th":            {},
		"p":             {},
	}

	for _, tag := range []string{"base", "meta", "area", "embed", "link", "img", "input", "param", "hr", "br", "source", "track", "wbr", "col"} {
		defs[tag] = &TagDefinition{IsVoid: true, CanSelfClose: true}
	}

	// Known HTML elements must be closed explicitly.
	for _, tag := range []string{"a", "abbr", "address", "article", "aside", "b", "bdi", "bdo", "blockquote",
		"body", "button", "canvas", "caption", "cite", "code", "colgroup", "data", "datalist", "dd", "del",
		"details", "dfn", "dialog", "div", "dl", "dt", "em", "fieldset", "figcaption", "figure", "footer",
		"form", "h1", "h2", "h3", "h4", "h5", "h6", "head", "header", "hgroup", "html", "i", "iframe",
		"ins", "kbd", "label", "legend", "main", "map", "mark", "menu", "meter", "nav", "noscript",
		"object", "ol", "output", "progress", "q", "s", "samp", "section", "select", "small", "span", "strong",
		"sub", "summary", "sup", "table", "tbody", "tfoot", "thead", "time", "u", "ul", "var", "video"} {
		if _, exists := defs[tag]; !exists {
			defs[tag] = &TagDefinition{}
		}
	}
	return defs
}
