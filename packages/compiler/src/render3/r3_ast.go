package render3

import (
	"strings"

	"ngc-ir/packages/compiler/src/expression_parser"
	"ngc-ir/packages/compiler/src/util"
)

// Node represents a node in the R3 AST
type Node interface {
	SourceSpan() *util.ParseSourceSpan
	Visit(visitor Visitor) interface{}
}

// BindingType is the kind of a bound attribute
type BindingType int

const (
	// BindingTypeProperty is `[prop]="expr"`
	BindingTypeProperty BindingType = iota
	// BindingTypeAttribute is `[attr.name]="expr"`
	BindingTypeAttribute
	// BindingTypeClass is `[class.name]="expr"`
	BindingTypeClass
	// BindingTypeStyle is `[style.name]="expr"`
	BindingTypeStyle
	// BindingTypeTwoWay is the property half of `[(prop)]="expr"`
	BindingTypeTwoWay
)

// ParsedEventType distinguishes plain listeners from the event half of a
// two-way binding.
type ParsedEventType int

const (
	ParsedEventTypeRegular ParsedEventType = iota
	ParsedEventTypeTwoWay
)

// Text represents a static text node
type Text struct {
	Value string
	Span  *util.ParseSourceSpan
}

// NewText creates a new Text node
func NewText(value string, sourceSpan *util.ParseSourceSpan) *Text {
	return &Text{Value: value, Span: sourceSpan}
}

func (t *Text) SourceSpan() *util.ParseSourceSpan { return t.Span }

func (t *Text) Visit(visitor Visitor) interface{} { return visitor.VisitText(t) }

// BoundText is a text node containing `{{ }}` interpolation
type BoundText struct {
	Value *expression_parser.ASTWithSource
	Span  *util.ParseSourceSpan
}

// NewBoundText creates a new BoundText node
func NewBoundText(value *expression_parser.ASTWithSource, sourceSpan *util.ParseSourceSpan) *BoundText {
	return &BoundText{Value: value, Span: sourceSpan}
}

func (bt *BoundText) SourceSpan() *util.ParseSourceSpan { return bt.Span }

func (bt *BoundText) Visit(visitor Visitor) interface{} { return visitor.VisitBoundText(bt) }

// TextAttribute is a static attribute `name="value"`
type TextAttribute struct {
	Name  string
	Value string
	Span  *util.ParseSourceSpan
}

// NewTextAttribute creates a new TextAttribute
func NewTextAttribute(name, value string, sourceSpan *util.ParseSourceSpan) *TextAttribute {
	return &TextAttribute{Name: name, Value: value, Span: sourceSpan}
}

func (ta *TextAttribute) SourceSpan() *util.ParseSourceSpan { return ta.Span }

func (ta *TextAttribute) Visit(visitor Visitor) interface{} { return visitor.VisitTextAttribute(ta) }

// BoundAttribute is an input binding. Name has the `attr.`, `class.` or
// `style.` prefix removed; Unit holds a style unit such as `px`.
type BoundAttribute struct {
	Name  string
	Type  BindingType
	Value *expression_parser.ASTWithSource
	Unit  string
	Span  *util.ParseSourceSpan
}

// NewBoundAttribute creates a new BoundAttribute
func NewBoundAttribute(name string, bindingType BindingType, value *expression_parser.ASTWithSource, unit string, sourceSpan *util.ParseSourceSpan) *BoundAttribute {
	return &BoundAttribute{Name: name, Type: bindingType, Value: value, Unit: unit, Span: sourceSpan}
}

func (ba *BoundAttribute) SourceSpan() *util.ParseSourceSpan { return ba.Span }

func (ba *BoundAttribute) Visit(visitor Visitor) interface{} { return visitor.VisitBoundAttribute(ba) }

// BoundEvent is an output binding `(name)="handler"`. Target is set for
// global targets such as `window:resize`.
type BoundEvent struct {
	Name    string
	Type    ParsedEventType
	Handler *expression_parser.ASTWithSource
	Target  string
	Span    *util.ParseSourceSpan
}

// NewBoundEvent creates a new BoundEvent
func NewBoundEvent(name string, eventType ParsedEventType, handler *expression_parser.ASTWithSource, target string, sourceSpan *util.ParseSourceSpan) *BoundEvent {
	return &BoundEvent{Name: name, Type: eventType, Handler: handler, Target: target, Span: sourceSpan}
}

func (be *BoundEvent) SourceSpan() *util.ParseSourceSpan { return be.Span }

func (be *BoundEvent) Visit(visitor Visitor) interface{} { return visitor.VisitBoundEvent(be) }

// Element is a plain element or `<ng-container>`. Namespaced elements carry
// the `:svg:` / `:math:` prefix in Name.
type Element struct {
	Name       string
	Attributes []*TextAttribute
	Inputs     []*BoundAttribute
	Outputs    []*BoundEvent
	Children   []Node
	References []*Reference
	Span       *util.ParseSourceSpan
}

// NewElement creates a new Element
func NewElement(name string, attributes []*TextAttribute, inputs []*BoundAttribute, outputs []*BoundEvent,
	children []Node, references []*Reference, sourceSpan *util.ParseSourceSpan) *Element {
	return &Element{
		Name:       name,
		Attributes: attributes,
		Inputs:     inputs,
		Outputs:    outputs,
		Children:   children,
		References: references,
		Span:       sourceSpan,
	}
}

func (e *Element) SourceSpan() *util.ParseSourceSpan { return e.Span }

func (e *Element) Visit(visitor Visitor) interface{} { return visitor.VisitElement(e) }

// Template is an `<ng-template>` or an element carrying a structural
// directive. For `*dir` sugar TagName is the host element name and
// TemplateAttrs holds the microsyntax bindings; Children is then the single
// host element.
type Template struct {
	TagName       string
	Attributes    []*TextAttribute
	Inputs        []*BoundAttribute
	Outputs       []*BoundEvent
	TemplateAttrs []Node
	Children      []Node
	References    []*Reference
	Variables     []*Variable
	Span          *util.ParseSourceSpan
}

// NewTemplate creates a new Template
func NewTemplate(tagName string, attributes []*TextAttribute, inputs []*BoundAttribute, outputs []*BoundEvent,
	templateAttrs []Node, children []Node, references []*Reference, variables []*Variable,
	sourceSpan *util.ParseSourceSpan) *Template {
	return &Template{
		TagName:       tagName,
		Attributes:    attributes,
		Inputs:        inputs,
		Outputs:       outputs,
		TemplateAttrs: templateAttrs,
		Children:      children,
		References:    references,
		Variables:     variables,
		Span:          sourceSpan,
	}
}

func (t *Template) SourceSpan() *util.ParseSourceSpan { return t.Span }

func (t *Template) Visit(visitor Visitor) interface{} { return visitor.VisitTemplate(t) }

// IsStructural reports whether the template came from `*dir` sugar.
func (t *Template) IsStructural() bool {
	return len(t.TemplateAttrs) > 0 && t.TagName != "ng-template"
}

// Content is an `<ng-content>` projection slot
type Content struct {
	Selector   string
	Attributes []*TextAttribute
	Children   []Node
	Span       *util.ParseSourceSpan
}

// NewContent creates a new Content node
func NewContent(selector string, attributes []*TextAttribute, children []Node, sourceSpan *util.ParseSourceSpan) *Content {
	if selector == "" {
		selector = "*"
	}
	return &Content{Selector: selector, Attributes: attributes, Children: children, Span: sourceSpan}
}

func (c *Content) SourceSpan() *util.ParseSourceSpan { return c.Span }

func (c *Content) Visit(visitor Visitor) interface{} { return visitor.VisitContent(c) }

// Variable is a template variable: `let-x="y"`, `let x = y`, loop aliases.
// Value is the context property it reads.
type Variable struct {
	Name  string
	Value string
	Span  *util.ParseSourceSpan
}

// NewVariable creates a new Variable
func NewVariable(name, value string, sourceSpan *util.ParseSourceSpan) *Variable {
	if value == "" {
		value = "$implicit"
	}
	return &Variable{Name: name, Value: value, Span: sourceSpan}
}

func (v *Variable) SourceSpan() *util.ParseSourceSpan { return v.Span }

func (v *Variable) Visit(visitor Visitor) interface{} { return visitor.VisitVariable(v) }

// Reference is `#name` or `#name="exportAs"`
type Reference struct {
	Name  string
	Value string
	Span  *util.ParseSourceSpan
}

// NewReference creates a new Reference
func NewReference(name, value string, sourceSpan *util.ParseSourceSpan) *Reference {
	return &Reference{Name: name, Value: value, Span: sourceSpan}
}

func (r *Reference) SourceSpan() *util.ParseSourceSpan { return r.Span }

func (r *Reference) Visit(visitor Visitor) interface{} { return visitor.VisitReference(r) }

// IfBlock is `@if (...) {} @else if (...) {} @else {}`
type IfBlock struct {
	Branches []*IfBlockBranch
	Span     *util.ParseSourceSpan
}

// NewIfBlock creates a new IfBlock
func NewIfBlock(branches []*IfBlockBranch, sourceSpan *util.ParseSourceSpan) *IfBlock {
	return &IfBlock{Branches: branches, Span: sourceSpan}
}

func (ib *IfBlock) SourceSpan() *util.ParseSourceSpan { return ib.Span }

func (ib *IfBlock) Visit(visitor Visitor) interface{} { return visitor.VisitIfBlock(ib) }

// IfBlockBranch is one arm. Expression is nil for `@else`. ExpressionAlias
// is set for `@if (expr; as alias)`.
type IfBlockBranch struct {
	Expression      *expression_parser.ASTWithSource
	Children        []Node
	ExpressionAlias *Variable
	Span            *util.ParseSourceSpan
}

// NewIfBlockBranch creates a new IfBlockBranch
func NewIfBlockBranch(expression *expression_parser.ASTWithSource, children []Node, alias *Variable, sourceSpan *util.ParseSourceSpan) *IfBlockBranch {
	return &IfBlockBranch{Expression: expression, Children: children, ExpressionAlias: alias, Span: sourceSpan}
}

func (ibb *IfBlockBranch) SourceSpan() *util.ParseSourceSpan { return ibb.Span }

func (ibb *IfBlockBranch) Visit(visitor Visitor) interface{} { return visitor.VisitIfBlockBranch(ibb) }

// SwitchBlock is `@switch (expr) { @case (v) {} @default {} }`
type SwitchBlock struct {
	Expression *expression_parser.ASTWithSource
	Cases      []*SwitchBlockCase
	Span       *util.ParseSourceSpan
}

// NewSwitchBlock creates a new SwitchBlock
func NewSwitchBlock(expression *expression_parser.ASTWithSource, cases []*SwitchBlockCase, sourceSpan *util.ParseSourceSpan) *SwitchBlock {
	return &SwitchBlock{Expression: expression, Cases: cases, Span: sourceSpan}
}

func (sb *SwitchBlock) SourceSpan() *util.ParseSourceSpan { return sb.Span }

func (sb *SwitchBlock) Visit(visitor Visitor) interface{} { return visitor.VisitSwitchBlock(sb) }

// SwitchBlockCase is one `@case`; Expression is nil for `@default`.
type SwitchBlockCase struct {
	Expression *expression_parser.ASTWithSource
	Children   []Node
	Span       *util.ParseSourceSpan
}

// NewSwitchBlockCase creates a new SwitchBlockCase
func NewSwitchBlockCase(expression *expression_parser.ASTWithSource, children []Node, sourceSpan *util.ParseSourceSpan) *SwitchBlockCase {
	return &SwitchBlockCase{Expression: expression, Children: children, Span: sourceSpan}
}

func (sbc *SwitchBlockCase) SourceSpan() *util.ParseSourceSpan { return sbc.Span }

func (sbc *SwitchBlockCase) Visit(visitor Visitor) interface{} { return visitor.VisitSwitchBlockCase(sbc) }

// ForLoopBlock is `@for (item of items; track expr; let i = $index) {} @empty {}`.
// ContextVariables always holds the six loop builtins ($index, $first,
// $last, $even, $odd, $count) plus any user aliases of them.
type ForLoopBlock struct {
	Item             *Variable
	Expression       *expression_parser.ASTWithSource
	TrackBy          *expression_parser.ASTWithSource
	ContextVariables []*Variable
	Children         []Node
	Empty            *ForLoopBlockEmpty
	Span             *util.ParseSourceSpan
}

// NewForLoopBlock creates a new ForLoopBlock
func NewForLoopBlock(item *Variable, expression, trackBy *expression_parser.ASTWithSource, contextVariables []*Variable,
	children []Node, empty *ForLoopBlockEmpty, sourceSpan *util.ParseSourceSpan) *ForLoopBlock {
	return &ForLoopBlock{
		Item:             item,
		Expression:       expression,
		TrackBy:          trackBy,
		ContextVariables: contextVariables,
		Children:         children,
		Empty:            empty,
		Span:             sourceSpan,
	}
}

func (flb *ForLoopBlock) SourceSpan() *util.ParseSourceSpan { return flb.Span }

func (flb *ForLoopBlock) Visit(visitor Visitor) interface{} { return visitor.VisitForLoopBlock(flb) }

// ForLoopBlockEmpty is the `@empty` body of a `@for`
type ForLoopBlockEmpty struct {
	Children []Node
	Span     *util.ParseSourceSpan
}

// NewForLoopBlockEmpty creates a new ForLoopBlockEmpty
func NewForLoopBlockEmpty(children []Node, sourceSpan *util.ParseSourceSpan) *ForLoopBlockEmpty {
	return &ForLoopBlockEmpty{Children: children, Span: sourceSpan}
}

func (flbe *ForLoopBlockEmpty) SourceSpan() *util.ParseSourceSpan { return flbe.Span }

func (flbe *ForLoopBlockEmpty) Visit(visitor Visitor) interface{} { return visitor.VisitForLoopBlockEmpty(flbe) }

// LetDeclaration is `@let name = value;`
type LetDeclaration struct {
	Name  string
	Value *expression_parser.ASTWithSource
	Span  *util.ParseSourceSpan
}

// NewLetDeclaration creates a new LetDeclaration
func NewLetDeclaration(name string, value *expression_parser.ASTWithSource, sourceSpan *util.ParseSourceSpan) *LetDeclaration {
	return &LetDeclaration{Name: name, Value: value, Span: sourceSpan}
}

func (ld *LetDeclaration) SourceSpan() *util.ParseSourceSpan { return ld.Span }

func (ld *LetDeclaration) Visit(visitor Visitor) interface{} { return visitor.VisitLetDeclaration(ld) }

// Visitor visits R3 AST nodes
type Visitor interface {
	VisitElement(element *Element) interface{}
	VisitTemplate(template *Template) interface{}
	VisitContent(content *Content) interface{}
	VisitVariable(variable *Variable) interface{}
	VisitReference(reference *Reference) interface{}
	VisitTextAttribute(attribute *TextAttribute) interface{}
	VisitBoundAttribute(attribute *BoundAttribute) interface{}
	VisitBoundEvent(event *BoundEvent) interface{}
	VisitText(text *Text) interface{}
	VisitBoundText(text *BoundText) interface{}
	VisitIfBlock(block *IfBlock) interface{}
	VisitIfBlockBranch(block *IfBlockBranch) interface{}
	VisitSwitchBlock(block *SwitchBlock) interface{}
	VisitSwitchBlockCase(block *SwitchBlockCase) interface{}
	VisitForLoopBlock(block *ForLoopBlock) interface{}
	VisitForLoopBlockEmpty(block *ForLoopBlockEmpty) interface{}
	VisitLetDeclaration(decl *LetDeclaration) interface{}
}

// VisitAll visits every node and collects the non-nil results
func VisitAll(visitor Visitor, nodes []Node) []interface{} {
	var result []interface{}
	for _, node := range nodes {
		if r := node.Visit(visitor); r != nil {
			result = append(result, r)
		}
	}
	return result
}

// Walk calls fn for every node in pre-order, descending into children of
// elements, templates, content and control flow blocks.
func Walk(nodes []Node, fn func(node Node)) {
	for _, node := range nodes {
		fn(node)
		switch n := node.(type) {
		case *Element:
			Walk(n.Children, fn)
		case *Template:
			Walk(n.Children, fn)
		case *Content:
			Walk(n.Children, fn)
		case *IfBlock:
			for _, branch := range n.Branches {
				fn(branch)
				Walk(branch.Children, fn)
			}
		case *SwitchBlock:
			for _, c := range n.Cases {
				fn(c)
				Walk(c.Children, fn)
			}
		case *ForLoopBlock:
			Walk(n.Children, fn)
			if n.Empty != nil {
				fn(n.Empty)
				Walk(n.Empty.Children, fn)
			}
		}
	}
}

// SplitNsName splits `:svg:rect` into `svg` and `rect`. Names without a
// namespace prefix return an empty namespace.
func SplitNsName(name string) (string, string) {
	if !strings.HasPrefix(name, ":") {
		return "", name
	}
	colon := strings.Index(name[1:], ":")
	if colon < 0 {
		return "", name
	}
	return name[1 : colon+1], name[colon+2:]
}

// IsNgContainer reports whether an element name is `ng-container`
func IsNgContainer(name string) bool {
	_, local := SplitNsName(name)
	return local == "ng-container"
}
