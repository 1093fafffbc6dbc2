package template_parser

import (
	"fmt"
	"strings"

	"ngc-ir/packages/compiler/src/expression_parser"
	"ngc-ir/packages/compiler/src/render3"
	"ngc-ir/packages/compiler/src/util"
)

const PROPERTY_PARTS_SEPARATOR = "."
const ATTRIBUTE_PREFIX = "attr"
const CLASS_PREFIX = "class"
const STYLE_PREFIX = "style"
const TEMPLATE_ATTR_PREFIX = "*"

// rawAttribute is an attribute as written in the markup, with the absolute
// offsets of its name and value
type rawAttribute struct {
	name       string
	value      string
	nameStart  int
	valueStart int
	hasValue   bool
	span       *util.ParseSourceSpan
}

// templateBinding is the `*dir="microsyntax"` attribute of an element
type templateBinding struct {
	key        string
	value      string
	keyStart   int
	valueStart int
	span       *util.ParseSourceSpan
}

// parsedAttributes are the attributes of one element sorted by kind
type parsedAttributes struct {
	attributes []*render3.TextAttribute
	inputs     []*render3.BoundAttribute
	outputs    []*render3.BoundEvent
	references []*render3.Reference
	variables  []*render3.Variable
	template   *templateBinding
}

// BindingParser parses bindings in templates
type BindingParser struct {
	exprParser *expression_parser.Parser
	file       *util.ParseSourceFile
	Errors     []*util.ParseError
}

// NewBindingParser creates a new BindingParser
func NewBindingParser(exprParser *expression_parser.Parser, file *util.ParseSourceFile) *BindingParser {
	return &BindingParser{exprParser: exprParser, file: file}
}

// GetErrors returns the errors
func (bp *BindingParser) GetErrors() []*util.ParseError {
	return bp.Errors
}

// parseAttributes sorts the attributes of an element. Variables are only
// valid on `<ng-template>`; isTemplate says whether that is the case.
func (bp *BindingParser) parseAttributes(attrs []rawAttribute, isTemplate bool) *parsedAttributes {
	result := &parsedAttributes{}
	for _, attr := range attrs {
		name := normalizeAttributeName(attr.name)
		nameOffset := attr.nameStart + len(attr.name) - len(name)

		switch {
		case name == "i18n" || strings.HasPrefix(name, "i18n-"):
			// Translation markers carry no runtime behaviour.

		case strings.HasPrefix(name, TEMPLATE_ATTR_PREFIX):
			if result.template != nil {
				bp.reportError("Can't have multiple template bindings on one element. Use only one attribute prefixed with *", attr.span)
				continue
			}
			result.template = &templateBinding{
				key:        name[len(TEMPLATE_ATTR_PREFIX):],
				value:      attr.value,
				keyStart:   nameOffset + len(TEMPLATE_ATTR_PREFIX),
				valueStart: attr.valueStart,
				span:       attr.span,
			}

		case strings.HasPrefix(name, "bindon-"):
			bp.parseTwoWayBinding(name[len("bindon-"):], attr, result)
		case strings.HasPrefix(name, "[(") && strings.HasSuffix(name, ")]"):
			bp.parseTwoWayBinding(name[2:len(name)-2], attr, result)

		case strings.HasPrefix(name, "bind-"):
			bp.parsePropertyBinding(name[len("bind-"):], attr, result)
		case strings.HasPrefix(name, "[@") || strings.HasPrefix(name, "@"):
			bp.reportError(fmt.Sprintf("Animation binding %q is not supported", name), attr.span)
		case strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]"):
			bp.parsePropertyBinding(name[1:len(name)-1], attr, result)

		case strings.HasPrefix(name, "on-"):
			bp.parseEvent(name[len("on-"):], attr, result)
		case strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")"):
			bp.parseEvent(name[1:len(name)-1], attr, result)

		case strings.HasPrefix(name, "ref-"):
			bp.parseReference(name[len("ref-"):], attr, result)
		case strings.HasPrefix(name, "#"):
			bp.parseReference(name[1:], attr, result)

		case strings.HasPrefix(name, "let-"):
			if !isTemplate {
				bp.reportError(`"let-" is only supported on ng-template elements.`, attr.span)
				continue
			}
			varName := name[len("let-"):]
			if varName == "" {
				bp.reportError("Variable does not have a name", attr.span)
				continue
			}
			result.variables = append(result.variables, render3.NewVariable(varName, attr.value, attr.span))

		default:
			bp.parseLiteralAttr(attr, result)
		}
	}
	return result
}

// parseLiteralAttr keeps a plain attribute, or turns it into a property
// binding when its value is interpolated
func (bp *BindingParser) parseLiteralAttr(attr rawAttribute, result *parsedAttributes) {
	if attr.hasValue {
		if ast := bp.exprParser.ParseInterpolation(attr.value, bp.file.URL, attr.valueStart); ast != nil {
			bp.reportExpressionErrors(ast.Errors)
			result.inputs = append(result.inputs, render3.NewBoundAttribute(attr.name, render3.BindingTypeProperty, ast, "", attr.span))
			return
		}
	}
	result.attributes = append(result.attributes, render3.NewTextAttribute(namespacedAttributeName(attr.name), attr.value, attr.span))
}

// parsePropertyBinding handles `[name]`, `[attr.name]`, `[class.name]` and
// `[style.name.unit]`
func (bp *BindingParser) parsePropertyBinding(name string, attr rawAttribute, result *parsedAttributes) {
	if name == "" {
		bp.reportError("Property name is missing in binding", attr.span)
		return
	}
	ast := bp.parseBinding(attr)

	bindingType := render3.BindingTypeProperty
	unit := ""
	parts := strings.Split(name, PROPERTY_PARTS_SEPARATOR)
	if len(parts) > 1 {
		switch parts[0] {
		case ATTRIBUTE_PREFIX:
			bindingType = render3.BindingTypeAttribute
			name = namespacedAttributeName(strings.Join(parts[1:], PROPERTY_PARTS_SEPARATOR))
		case CLASS_PREFIX:
			bindingType = render3.BindingTypeClass
			name = strings.Join(parts[1:], PROPERTY_PARTS_SEPARATOR)
		case STYLE_PREFIX:
			bindingType = render3.BindingTypeStyle
			name = parts[1]
			if len(parts) > 2 {
				unit = strings.Join(parts[2:], PROPERTY_PARTS_SEPARATOR)
			}
		}
	}
	result.inputs = append(result.inputs, render3.NewBoundAttribute(name, bindingType, ast, unit, attr.span))
}

// parseTwoWayBinding desugars `[(name)]="expr"` into a property binding and
// a `nameChange` listener writing back to expr
func (bp *BindingParser) parseTwoWayBinding(name string, attr rawAttribute, result *parsedAttributes) {
	if name == "" {
		bp.reportError("Property name is missing in binding", attr.span)
		return
	}
	ast := bp.parseBinding(attr)
	result.inputs = append(result.inputs, render3.NewBoundAttribute(name, render3.BindingTypeTwoWay, ast, "", attr.span))

	handler := bp.parseAction(attr)
	if handler == nil {
		return
	}
	if !isAssignable(handler.AST) {
		bp.reportError("Unsupported expression in a two-way binding", attr.span)
		return
	}
	result.outputs = append(result.outputs, render3.NewBoundEvent(name+"Change", render3.ParsedEventTypeTwoWay, handler, "", attr.span))
}

// parseEvent handles `(name)` and `(target:name)`
func (bp *BindingParser) parseEvent(name string, attr rawAttribute, result *parsedAttributes) {
	if name == "" {
		bp.reportError("Event name is missing in binding", attr.span)
		return
	}
	handler := bp.parseAction(attr)
	if handler == nil {
		return
	}
	eventName, target := ParseEventListenerName(name)
	result.outputs = append(result.outputs, render3.NewBoundEvent(eventName, render3.ParsedEventTypeRegular, handler, target, attr.span))
}

func (bp *BindingParser) parseReference(name string, attr rawAttribute, result *parsedAttributes) {
	switch {
	case name == "":
		bp.reportError("Reference does not have a name", attr.span)
		return
	case strings.Contains(name, "-"):
		bp.reportError(`"-" is not allowed in reference names`, attr.span)
		return
	}
	result.references = append(result.references, render3.NewReference(name, attr.value, attr.span))
}

// ParseEventListenerName splits `window:resize` into the event name and its
// global target
func ParseEventListenerName(rawName string) (eventName string, target string) {
	parts := util.SplitAtColon(rawName, []string{"", rawName})
	return parts[1], parts[0]
}

// parseTemplateBindings turns `*key="microsyntax"` into the template
// attributes and variables of the wrapping template
func (bp *BindingParser) parseTemplateBindings(binding *templateBinding) ([]render3.Node, []*render3.Variable) {
	bindings, errors := bp.exprParser.ParseTemplateBindings(binding.key, binding.value, bp.file.URL, binding.keyStart, binding.valueStart)
	bp.reportExpressionErrors(errors)

	var attrs []render3.Node
	var variables []*render3.Variable
	for _, b := range bindings {
		switch tb := b.(type) {
		case *expression_parser.VariableBinding:
			span := bp.spanOrDefault(tb.Span, binding.span)
			variables = append(variables, render3.NewVariable(tb.Key, tb.Value, span))
		case *expression_parser.ExpressionBinding:
			span := bp.spanOrDefault(tb.Span, binding.span)
			if tb.Value == nil {
				attrs = append(attrs, render3.NewTextAttribute(tb.Key, "", span))
				continue
			}
			attrs = append(attrs, render3.NewBoundAttribute(tb.Key, render3.BindingTypeProperty, tb.Value, "", span))
		}
	}
	return attrs, variables
}

func (bp *BindingParser) parseBinding(attr rawAttribute) *expression_parser.ASTWithSource {
	ast := bp.exprParser.ParseBinding(attr.value, bp.file.URL, attr.valueStart)
	bp.reportExpressionErrors(ast.Errors)
	return ast
}

func (bp *BindingParser) parseAction(attr rawAttribute) *expression_parser.ASTWithSource {
	if strings.TrimSpace(attr.value) == "" {
		bp.reportError("Empty expressions are not allowed", attr.span)
		return nil
	}
	ast := bp.exprParser.ParseAction(attr.value, bp.file.URL, attr.valueStart)
	bp.reportExpressionErrors(ast.Errors)
	return ast
}

// ParseExpression parses a standalone binding expression at an absolute
// offset, reporting its errors
func (bp *BindingParser) ParseExpression(value string, offset int) *expression_parser.ASTWithSource {
	ast := bp.exprParser.ParseBinding(value, bp.file.URL, offset)
	bp.reportExpressionErrors(ast.Errors)
	return ast
}

// ParseInterpolation parses interpolated text, returning nil when there is
// no interpolation
func (bp *BindingParser) ParseInterpolation(value string, offset int) *expression_parser.ASTWithSource {
	ast := bp.exprParser.ParseInterpolation(value, bp.file.URL, offset)
	if ast != nil {
		bp.reportExpressionErrors(ast.Errors)
	}
	return ast
}

func (bp *BindingParser) reportExpressionErrors(errors []*expression_parser.ParserError) {
	for _, err := range errors {
		bp.reportError(err.Error(), bp.spanOrDefault(err.Span, nil))
	}
}

func (bp *BindingParser) reportError(message string, sourceSpan *util.ParseSourceSpan) {
	bp.Errors = append(bp.Errors, util.NewParseError(sourceSpan, message))
}

func (bp *BindingParser) spanOrDefault(span expression_parser.ParseSpan, fallback *util.ParseSourceSpan) *util.ParseSourceSpan {
	if span.End <= span.Start || span.End > len(bp.file.Content) {
		return fallback
	}
	return util.SpanForOffsets(bp.file, span.Start, span.End)
}

// isAssignable reports whether a two-way binding can write back to ast
func isAssignable(ast expression_parser.AST) bool {
	switch a := ast.(type) {
	case *expression_parser.PropertyRead, *expression_parser.KeyedRead:
		return true
	case *expression_parser.NonNullAssert:
		return isAssignable(a.Expression)
	case *expression_parser.ParenthesizedExpression:
		return isAssignable(a.Expression)
	}
	return false
}

// normalizeAttributeName strips the `data-` prefix HTML allows on any
// attribute
func normalizeAttributeName(attrName string) string {
	if strings.HasPrefix(strings.ToLower(attrName), "data-") {
		return attrName[len("data-"):]
	}
	return attrName
}

// namespacedAttributeName rewrites `xlink:href` as `:xlink:href`
func namespacedAttributeName(name string) string {
	if strings.HasPrefix(name, ":") {
		return name
	}
	if prefix, local, ok := strings.Cut(name, ":"); ok && prefix != "" && local != "" {
		return ":" + prefix + ":" + local
	}
	return name
}
