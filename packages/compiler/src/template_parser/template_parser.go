// Package template_parser turns component template markup into the render3
// AST. Markup structure comes from tree-sitter's HTML grammar; text, control
// flow blocks and binding expressions are parsed here.
package template_parser

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tshtml "github.com/smacker/go-tree-sitter/html"

	"ngc-ir/packages/compiler/src/expression_parser"
	"ngc-ir/packages/compiler/src/ml_parser"
	"ngc-ir/packages/compiler/src/render3"
	"ngc-ir/packages/compiler/src/util"
)

const (
	ngTemplateTag     = "ng-template"
	ngContentTag      = "ng-content"
	ngContentSelect   = "select"
	ngNonBindableAttr = "ngNonBindable"
	ngPreserveWsAttr  = "ngPreserveWhitespaces"
)

// wsRun matches the characters collapsed when whitespace is not preserved
var wsRun = regexp.MustCompile(`[ \f\n\r\t\v]+`)

// Options tune template parsing
type Options struct {
	// PreserveWhitespaces keeps whitespace-only text and whitespace runs.
	PreserveWhitespaces bool
}

// ParsedTemplate is the result of parsing a component template
type ParsedTemplate struct {
	Nodes  []render3.Node
	File   *util.ParseSourceFile
	Errors []*util.ParseError

	// Styles found in inline `<style>` elements, in source order.
	Styles []string
}

// ParseTemplate parses source with default options
func ParseTemplate(source, url string) *ParsedTemplate {
	parsed, err := Parse(context.Background(), source, url, Options{})
	if err != nil {
		parsed = &ParsedTemplate{File: util.NewParseSourceFile(source, url)}
		parsed.Errors = append(parsed.Errors, util.NewParseError(nil, err.Error()))
	}
	return parsed
}

// Parse parses source into render3 nodes. Markup and expression problems are
// collected in ParsedTemplate.Errors; the returned error is only set when the
// markup parser itself fails.
func Parse(ctx context.Context, source, url string, opts Options) (*ParsedTemplate, error) {
	file := util.NewParseSourceFile(source, url)
	src := []byte(source)

	// Parsers are not safe for concurrent use, so each call owns one.
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(tshtml.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	defer tree.Close()

	exprParser := expression_parser.NewParser(expression_parser.NewLexer())
	p := &templateParser{
		source:   src,
		file:     file,
		bindings: NewBindingParser(exprParser, file),
		opts:     opts,
	}
	root := tree.RootNode()
	nodes := p.parseChildren(root, 0, len(src), elementContext{preserveWhitespaces: opts.PreserveWhitespaces})

	return &ParsedTemplate{
		Nodes:  nodes,
		File:   file,
		Errors: append(p.errors, p.bindings.GetErrors()...),
		Styles: p.styles,
	}, nil
}

// elementContext is what children inherit from their enclosing element
type elementContext struct {
	namespace           string
	nonBindable         bool
	preserveWhitespaces bool
}

type templateParser struct {
	source   []byte
	file     *util.ParseSourceFile
	bindings *BindingParser
	opts     Options
	errors   []*util.ParseError
	styles   []string
}

// contentItem is a piece of an element's content: either a raw text range
// or a child element
type contentItem struct {
	start, end int
	element    *sitter.Node
}

// parseChildren converts the content of parent between the start and end
// byte offsets
func (p *templateParser) parseChildren(parent *sitter.Node, start, end int, ctx elementContext) []render3.Node {
	items := p.contentItems(parent, start, end)
	return p.buildNodes(items, ctx)
}

// contentItems partitions [start, end) into child elements and the text
// between them. Text is always taken from the source rather than from the
// grammar's text nodes, which split on characters such as `&` and `<` that
// are legal inside interpolations.
func (p *templateParser) contentItems(parent *sitter.Node, start, end int) []contentItem {
	var items []contentItem
	pos := start
	flush := func(upTo int) {
		if upTo > pos {
			items = append(items, contentItem{start: pos, end: upTo})
		}
	}
	count := int(parent.NamedChildCount())
	for i := 0; i < count; i++ {
		child := parent.NamedChild(i)
		childStart, childEnd := int(child.StartByte()), int(child.EndByte())
		if childStart < start || childEnd > end {
			continue
		}
		switch child.Type() {
		case "element", "script_element", "style_element":
			flush(childStart)
			items = append(items, contentItem{start: childStart, end: childEnd, element: child})
			pos = childEnd
		case "comment", "doctype":
			flush(childStart)
			pos = childEnd
		case "erroneous_end_tag":
			flush(childStart)
			p.reportError(fmt.Sprintf("Unexpected closing tag %q", p.text(child)), childStart, childEnd)
			pos = childEnd
		case "ERROR":
			if hasElementDescendant(child) {
				flush(childStart)
				p.reportError("Unexpected markup", childStart, childEnd)
				pos = childEnd
			}
			// Otherwise the range stays part of the surrounding text.
		}
	}
	flush(end)
	return items
}

// element converts one element node, wrapping it in a template when it
// carries a `*` binding
func (p *templateParser) element(node *sitter.Node, ctx elementContext) render3.Node {
	switch node.Type() {
	case "script_element":
		// Scripts never reach the rendered DOM.
		return nil
	case "style_element":
		if raw := findChild(node, "raw_text"); raw != nil {
			p.styles = append(p.styles, p.text(raw))
		}
		return nil
	}

	startTag := findChild(node, "start_tag")
	if startTag == nil {
		startTag = findChild(node, "self_closing_tag")
	}
	if startTag == nil {
		p.reportError("Element has no start tag", int(node.StartByte()), int(node.EndByte()))
		return nil
	}
	tagNode := findChild(startTag, "tag_name")
	if tagNode == nil {
		p.reportError("Element has no tag name", int(startTag.StartByte()), int(startTag.EndByte()))
		return nil
	}
	tag := p.text(tagNode)
	name, namespace := elementName(tag, ctx.namespace)
	_, localName := render3.SplitNsName(name)
	def := ml_parser.GetHtmlTagDefinition(localName)
	span := p.span(int(node.StartByte()), int(node.EndByte()))

	if startTag.Type() == "self_closing_tag" && namespace == "" && !def.CanSelfClose {
		p.reportError(fmt.Sprintf("Only void, custom and foreign elements can be self closed %q", tag),
			int(startTag.StartByte()), int(startTag.EndByte()))
	}

	attrs := p.attributes(startTag)
	childCtx := elementContext{
		namespace:           namespace,
		nonBindable:         ctx.nonBindable,
		preserveWhitespaces: ctx.preserveWhitespaces || localName == "pre",
	}
	if def.PreventNamespaceInheritance {
		childCtx.namespace = ""
	}
	var kept []rawAttribute
	for _, attr := range attrs {
		switch attr.name {
		case ngNonBindableAttr:
			childCtx.nonBindable = true
		case ngPreserveWsAttr:
			childCtx.preserveWhitespaces = true
			continue
		}
		kept = append(kept, attr)
	}

	var children []render3.Node
	if startTag.Type() == "start_tag" {
		contentEnd := int(node.EndByte())
		if endTag := findChild(node, "end_tag"); endTag != nil {
			contentEnd = int(endTag.StartByte())
		}
		contentStart := int(startTag.EndByte())
		if def.IgnoreFirstLf && contentStart < contentEnd && p.source[contentStart] == '\n' {
			contentStart++
		}
		children = p.parseChildren(node, contentStart, contentEnd, childCtx)
	}

	if ctx.nonBindable {
		// Inside ngNonBindable every attribute is static.
		var static []*render3.TextAttribute
		for _, attr := range kept {
			static = append(static, render3.NewTextAttribute(attr.name, attr.value, attr.span))
		}
		return render3.NewElement(name, static, nil, nil, children, nil, span)
	}

	isTemplate := strings.EqualFold(localName, ngTemplateTag)
	parsed := p.bindings.parseAttributes(kept, isTemplate)

	var result render3.Node
	switch {
	case strings.EqualFold(localName, ngContentTag):
		selector := ""
		var contentAttrs []*render3.TextAttribute
		for _, attr := range parsed.attributes {
			if strings.EqualFold(attr.Name, ngContentSelect) {
				selector = strings.TrimSpace(attr.Value)
				continue
			}
			contentAttrs = append(contentAttrs, attr)
		}
		if len(parsed.inputs) > 0 || len(parsed.outputs) > 0 || len(parsed.references) > 0 {
			p.reportError("<ng-content> cannot have bindings or references", int(node.StartByte()), int(node.EndByte()))
		}
		result = render3.NewContent(selector, contentAttrs, children, span)
	case isTemplate:
		result = render3.NewTemplate(name, parsed.attributes, parsed.inputs, parsed.outputs, nil, children,
			parsed.references, parsed.variables, span)
	default:
		result = render3.NewElement(name, parsed.attributes, parsed.inputs, parsed.outputs, children, parsed.references, span)
	}

	if parsed.template == nil {
		return result
	}
	templateAttrs, variables := p.bindings.parseTemplateBindings(parsed.template)
	return render3.NewTemplate(name, parsed.attributes, parsed.inputs, parsed.outputs, templateAttrs,
		[]render3.Node{result}, nil, variables, span)
}

// attributes reads the attributes of a start tag
func (p *templateParser) attributes(startTag *sitter.Node) []rawAttribute {
	var attrs []rawAttribute
	count := int(startTag.NamedChildCount())
	for i := 0; i < count; i++ {
		child := startTag.NamedChild(i)
		if child.Type() != "attribute" {
			continue
		}
		nameNode := findChild(child, "attribute_name")
		if nameNode == nil {
			continue
		}
		attr := rawAttribute{
			name:      p.text(nameNode),
			nameStart: int(nameNode.StartByte()),
			span:      p.span(int(child.StartByte()), int(child.EndByte())),
		}
		attr.valueStart = int(nameNode.EndByte())
		if value := findChild(child, "attribute_value"); value != nil {
			attr.value, attr.valueStart, attr.hasValue = p.text(value), int(value.StartByte()), true
		} else if quoted := findChild(child, "quoted_attribute_value"); quoted != nil {
			attr.hasValue = true
			attr.valueStart = int(quoted.StartByte()) + 1
			if inner := findChild(quoted, "attribute_value"); inner != nil {
				attr.value, attr.valueStart = p.text(inner), int(inner.StartByte())
			}
		}
		attr.value = html.UnescapeString(attr.value)
		attrs = append(attrs, attr)
	}
	return attrs
}

// textNode converts a text range into a Text or BoundText node, or nil when
// the text is dropped as insignificant whitespace
func (p *templateParser) textNode(start, end int, ctx elementContext) render3.Node {
	value := html.UnescapeString(string(p.source[start:end]))
	if !ctx.preserveWhitespaces {
		if strings.Trim(value, " \f\n\r\t\v") == "" {
			return nil
		}
		value = wsRun.ReplaceAllString(value, " ")
	}
	if value == "" {
		return nil
	}
	span := p.span(start, end)
	if !ctx.nonBindable {
		if ast := p.bindings.ParseInterpolation(value, start); ast != nil {
			return render3.NewBoundText(ast, span)
		}
	}
	return render3.NewText(value, span)
}

func (p *templateParser) text(node *sitter.Node) string {
	return string(p.source[node.StartByte():node.EndByte()])
}

func (p *templateParser) span(start, end int) *util.ParseSourceSpan {
	return util.SpanForOffsets(p.file, start, end)
}

func (p *templateParser) reportError(message string, start, end int) {
	p.errors = append(p.errors, util.NewParseError(p.span(start, end), message))
}

// elementName applies namespace rules: elements such as `svg` open a
// namespace, children inherit it and an explicit `ns:tag` prefix wins. The
// result uses the `:ns:name` form.
func elementName(tag, parentNamespace string) (name string, namespace string) {
	if prefix, local, ok := strings.Cut(tag, ":"); ok && prefix != "" && local != "" {
		return ml_parser.MergeNsAndName(prefix, local), prefix
	}
	namespace = parentNamespace
	if implicit := ml_parser.GetHtmlTagDefinition(tag).ImplicitNamespacePrefix; implicit != "" {
		namespace = implicit
	}
	return ml_parser.MergeNsAndName(namespace, tag), namespace
}
