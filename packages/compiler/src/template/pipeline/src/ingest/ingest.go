// Package ingest builds the IR of a component from its parsed template, and
// of its host bindings from the host metadata.
package ingest

import (
	"fmt"
	"slices"
	"strings"

	"ngc-ir/packages/compiler/src/css"
	"ngc-ir/packages/compiler/src/diagnostics"
	"ngc-ir/packages/compiler/src/expression_parser"
	"ngc-ir/packages/compiler/src/output"
	constant "ngc-ir/packages/compiler/src/pool"
	"ngc-ir/packages/compiler/src/render3"
	"ngc-ir/packages/compiler/src/render3/view"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
	pipeline_conversion "ngc-ir/packages/compiler/src/template/pipeline/src/conversion"
	"ngc-ir/packages/compiler/src/util"
)

// ngTemplateTagName is the tag name of the `ng-template` element
const ngTemplateTagName = "ng-template"

// knownControlFlowDirective names the directive providing a structural
// attribute and the built-in block replacing it
type knownControlFlowDirective struct {
	directive string
	builtIn   string
}

var knownControlFlowDirectives = map[string]knownControlFlowDirective{
	"ngIf":            {directive: "NgIf", builtIn: "@if"},
	"ngFor":           {directive: "NgFor", builtIn: "@for"},
	"ngSwitchCase":    {directive: "NgSwitchCase", builtIn: "@switch with @case"},
	"ngSwitchDefault": {directive: "NgSwitchDefault", builtIn: "@switch with @default"},
}

// Options tune ingestion
type Options struct {
	// File the template nodes were parsed from. Overrides meta.Template.File.
	File *util.ParseSourceFile
	// Lenient disables the directive and pipe diagnostics, for components
	// whose imports are not known.
	Lenient bool
}

type ingester struct {
	converter
	job     *compilation.ComponentCompilationJob
	matcher *css.SelectorMatcher[int]
}

// IngestComponent processes a template AST and converts it into a ComponentCompilationJob in the intermediate representation
func IngestComponent(meta *view.R3ComponentMetadata, nodes []render3.Node, pool *constant.ConstantPool, opts Options) *compilation.ComponentCompilationJob {
	job := compilation.NewComponentCompilationJob(meta.Name, pool, meta.Declarations, meta.DeclarationListEmitMode)
	file := opts.File
	if file == nil {
		file = meta.Template.File
	}
	in := &ingester{
		converter: converter{
			job:       job.CompilationJob,
			component: job,
			root:      job.Root.Xref,
			file:      file,
			lenient:   opts.Lenient,
		},
		job:     job,
		matcher: css.NewSelectorMatcher[int](),
	}
	for i, dep := range meta.Declarations {
		directive, ok := dep.(*view.R3DirectiveDependencyMetadata)
		if !ok || directive.Selector == "" {
			continue
		}
		selectors, err := css.ParseCssSelector(directive.Selector)
		if err != nil {
			job.Diagnostics.Add(diagnostics.NewError(diagnostics.CodeTemplateParseError, directive.SourceSpan,
				fmt.Sprintf("Invalid selector %q: %v", directive.Selector, err)))
			continue
		}
		in.matcher.AddSelectables(selectors, i)
	}
	in.ingestNodes(job.Root, nodes)
	return job
}

// ingestNodes ingests the nodes of a template AST into the given ViewCompilationUnit
func (in *ingester) ingestNodes(unit *compilation.ViewCompilationUnit, nodes []render3.Node) {
	for _, node := range nodes {
		switch n := node.(type) {
		case *render3.Element:
			if render3.IsNgContainer(n.Name) {
				in.ingestContainer(unit, n)
			} else {
				in.ingestElement(unit, n)
			}
		case *render3.Template:
			in.ingestTemplate(unit, n)
		case *render3.Content:
			in.ingestContent(unit, n)
		case *render3.Text:
			in.ingestText(unit, n)
		case *render3.BoundText:
			in.ingestBoundText(unit, n)
		case *render3.IfBlock:
			in.ingestIfBlock(unit, n)
		case *render3.SwitchBlock:
			in.ingestSwitchBlock(unit, n)
		case *render3.ForLoopBlock:
			in.ingestForBlock(unit, n)
		case *render3.LetDeclaration:
			in.ingestLetDeclaration(unit, n)
		default:
			panic(ir.NewInternalError("unsupported template node %T", node))
		}
	}
}

// ingestElement ingests an element AST from the template into the given ViewCompilationUnit
func (in *ingester) ingestElement(unit *compilation.ViewCompilationUnit, element *render3.Element) {
	id := in.job.AllocateXrefId()
	namespaceKey, elementName := render3.SplitNsName(element.Name)

	startOp := ir.NewElementStartOp(elementName, id, in.job.Slots.New(), pipeline_conversion.NamespaceForKey(namespaceKey), element.Span, element.Span)
	startOp.NonBindable = isNonBindable(element)
	unit.Create.Push(startOp)

	in.ingestElementBindings(unit, id, startOp.Handle, elementName, element)
	matched := in.matchDirectives(element)
	in.ingestReferences(&startOp.ElementOrContainerOpBase, element.References, matched)

	in.ingestNodes(unit, element.Children)
	unit.Create.Push(ir.NewElementEndOp(id, element.Span))
}

// isNonBindable reports whether the element carries `ngNonBindable`
func isNonBindable(element *render3.Element) bool {
	for _, attr := range element.Attributes {
		if attr.Name == "ngNonBindable" {
			return true
		}
	}
	return false
}

// ingestContainer ingests an `<ng-container>`
func (in *ingester) ingestContainer(unit *compilation.ViewCompilationUnit, element *render3.Element) {
	id := in.job.AllocateXrefId()
	startOp := ir.NewContainerStartOp(id, in.job.Slots.New(), element.Span, element.Span)
	startOp.NonBindable = isNonBindable(element)
	unit.Create.Push(startOp)

	in.ingestElementBindings(unit, id, startOp.Handle, "ng-container", element)
	matched := in.matchDirectives(element)
	in.ingestReferences(&startOp.ElementOrContainerOpBase, element.References, matched)

	in.ingestNodes(unit, element.Children)
	unit.Create.Push(ir.NewContainerEndOp(id, element.Span))
}

// ingestTemplate ingests an `ng-template` node from the AST into the given ViewCompilationUnit
func (in *ingester) ingestTemplate(unit *compilation.ViewCompilationUnit, tmpl *render3.Template) {
	childView := in.job.AllocateView(unit.Xref)

	namespacePrefix, tagNameWithoutNamespace := render3.SplitNsName(tmpl.TagName)
	namespace := pipeline_conversion.NamespaceForKey(namespacePrefix)
	functionNameSuffix := ""
	if tagNameWithoutNamespace != "" {
		functionNameSuffix = pipeline_conversion.PrefixWithNamespace(tagNameWithoutNamespace, namespace)
	}

	templateKind := ir.TemplateKindNgTemplate
	if !isPlainTemplate(tmpl) {
		templateKind = ir.TemplateKindStructural
	}

	templateOp := ir.NewTemplateOp(childView.Xref, in.job.Slots.New(), templateKind, tagNameWithoutNamespace,
		functionNameSuffix, namespace, tmpl.Span, tmpl.Span)
	unit.Create.Push(templateOp)

	in.ingestTemplateBindings(unit, templateOp, tmpl, templateKind)
	matched := in.matchDirectives(tmpl)
	in.ingestReferences(&templateOp.ElementOrContainerOpBase, tmpl.References, matched)
	if templateKind == ir.TemplateKindStructural && len(matched) == 0 {
		in.checkControlFlowDirective(tmpl)
	}
	in.ingestNodes(childView, tmpl.Children)

	for _, variable := range tmpl.Variables {
		value := variable.Value
		if value == "" {
			value = "$implicit"
		}
		childView.SetContextVariable(variable.Name, value)
	}
}

// ingestContent ingests a content node from the AST into the given ViewCompilationUnit.
// Fallback content of `<ng-content>` is not rendered.
func (in *ingester) ingestContent(unit *compilation.ViewCompilationUnit, content *render3.Content) {
	id := in.job.AllocateXrefId()
	op := ir.NewProjectionOp(id, in.job.Slots.New(), content.Selector, in.job.AllocateProjectionOrder(), content.Span)
	for _, attr := range content.Attributes {
		namespace, name := render3.SplitNsName(attr.Name)
		unit.Create.Push(ir.NewExtractedAttributeOp(id, ir.BindingKindAttribute, namespace, name, output.Literal(attr.Value)))
	}
	unit.Create.Push(op)
}

// ingestText ingests a literal text node from the AST into the given ViewCompilationUnit
func (in *ingester) ingestText(unit *compilation.ViewCompilationUnit, text *render3.Text) {
	unit.Create.Push(ir.NewTextOp(in.job.AllocateXrefId(), in.job.Slots.New(), text.Value, text.Span))
}

// ingestBoundText ingests an interpolated text node from the AST into the given ViewCompilationUnit
func (in *ingester) ingestBoundText(unit *compilation.ViewCompilationUnit, text *render3.BoundText) {
	value, ok := text.Value.AST.(*expression_parser.Interpolation)
	if !ok {
		panic(ir.NewInternalError("expected Interpolation for BoundText node, got %T", text.Value.AST))
	}
	textXref := in.job.AllocateXrefId()
	unit.Create.Push(ir.NewTextOp(textXref, in.job.Slots.New(), "", text.Span))
	interpolation := ir.NewInterpolation(value.Strings, in.convertAll(value.Expressions, text.Span))
	unit.Update.Push(ir.NewInterpolateTextOp(textXref, interpolation, text.Span))
}

// ingestIfBlock ingests an `@if` block into the given ViewCompilationUnit
func (in *ingester) ingestIfBlock(unit *compilation.ViewCompilationUnit, ifBlock *render3.IfBlock) {
	var firstXref ir.XrefId
	var firstHandle ir.SlotHandle
	conditions := make([]*ir.ConditionalCaseExpr, 0, len(ifBlock.Branches))
	for i, branch := range ifBlock.Branches {
		cView := in.job.AllocateView(unit.Xref)
		tagName := in.ingestControlFlowInsertionPoint(unit, cView.Xref, branch.Children)

		var alias *ir.IdentifierVariable
		if branch.ExpressionAlias != nil {
			cView.SetContextVariable(branch.ExpressionAlias.Name, compilation.ContextRef)
			alias = ir.NewIdentifierVariable(branch.ExpressionAlias.Name, false)
		}

		var createOp ir.EmbeddedViewOp
		if i == 0 {
			createOp = ir.NewConditionalCreateOp(cView.Xref, in.job.Slots.New(), tagName, "Conditional", branch.Span, branch.Span)
		} else {
			createOp = ir.NewConditionalBranchCreateOp(cView.Xref, in.job.Slots.New(), tagName, "Conditional", branch.Span, branch.Span)
		}
		unit.Create.Push(createOp)
		handle := createOp.GetElementBase().Handle
		if i == 0 {
			firstXref, firstHandle = cView.Xref, handle
		}

		var caseExpr output.OutputExpression
		if branch.Expression != nil {
			caseExpr = in.convertAst(branch.Expression.AST, branch.Span)
		}
		conditions = append(conditions, ir.NewConditionalCaseExpr(caseExpr, cView.Xref, handle, alias))
		in.ingestNodes(cView, branch.Children)
	}
	if len(conditions) == 0 {
		return
	}
	unit.Update.Push(ir.NewConditionalOp(firstXref, firstHandle, nil, conditions, ifBlock.Span))
}

// ingestSwitchBlock ingests a `@switch` block into the given ViewCompilationUnit
func (in *ingester) ingestSwitchBlock(unit *compilation.ViewCompilationUnit, switchBlock *render3.SwitchBlock) {
	if len(switchBlock.Cases) == 0 {
		return
	}
	var firstXref ir.XrefId
	var firstHandle ir.SlotHandle
	conditions := make([]*ir.ConditionalCaseExpr, 0, len(switchBlock.Cases))
	for i, switchCase := range switchBlock.Cases {
		cView := in.job.AllocateView(unit.Xref)
		tagName := in.ingestControlFlowInsertionPoint(unit, cView.Xref, switchCase.Children)

		var createOp ir.EmbeddedViewOp
		if i == 0 {
			createOp = ir.NewConditionalCreateOp(cView.Xref, in.job.Slots.New(), tagName, "Case", switchCase.Span, switchCase.Span)
		} else {
			createOp = ir.NewConditionalBranchCreateOp(cView.Xref, in.job.Slots.New(), tagName, "Case", switchCase.Span, switchCase.Span)
		}
		unit.Create.Push(createOp)
		handle := createOp.GetElementBase().Handle
		if i == 0 {
			firstXref, firstHandle = cView.Xref, handle
		}

		var caseExpr output.OutputExpression
		if switchCase.Expression != nil {
			caseExpr = in.convertAst(switchCase.Expression.AST, switchBlock.Span)
		}
		conditions = append(conditions, ir.NewConditionalCaseExpr(caseExpr, cView.Xref, handle, nil))
		in.ingestNodes(cView, switchCase.Children)
	}
	test := in.convertAst(switchBlock.Expression.AST, switchBlock.Span)
	unit.Update.Push(ir.NewConditionalOp(firstXref, firstHandle, test, conditions, switchBlock.Span))
}

// ingestForBlock ingests a `@for` block into the given ViewCompilationUnit
func (in *ingester) ingestForBlock(unit *compilation.ViewCompilationUnit, forBlock *render3.ForLoopBlock) {
	repeaterView := in.job.AllocateView(unit.Xref)

	// Each repeater view gets its own aliases of $index and $count, so that
	// nested loops can read the outer loop's values.
	indexName := fmt.Sprintf("ɵ$index_%d", repeaterView.Xref)
	countName := fmt.Sprintf("ɵ$count_%d", repeaterView.Xref)
	var indexVarNames []string

	itemValue := forBlock.Item.Value
	if itemValue == "" {
		itemValue = "$implicit"
	}
	repeaterView.SetContextVariable(forBlock.Item.Name, itemValue)

	for _, variable := range forBlock.ContextVariables {
		if variable.Value == "$index" {
			indexVarNames = append(indexVarNames, variable.Name)
		}
		switch variable.Name {
		case "$index":
			repeaterView.SetContextVariable("$index", variable.Value)
			repeaterView.SetContextVariable(indexName, variable.Value)
		case "$count":
			repeaterView.SetContextVariable("$count", variable.Value)
			repeaterView.SetContextVariable(countName, variable.Value)
		default:
			repeaterView.Aliases = append(repeaterView.Aliases,
				ir.NewAliasVariable(variable.Name, computedForLoopVariable(variable, indexName, countName)))
		}
	}

	track := in.convertAst(forBlock.TrackBy.AST, forBlock.Span)
	in.ingestNodes(repeaterView, forBlock.Children)

	var emptyView *compilation.ViewCompilationUnit
	emptyTagName := ""
	if forBlock.Empty != nil {
		emptyView = in.job.AllocateView(unit.Xref)
		in.ingestNodes(emptyView, forBlock.Empty.Children)
		emptyTagName = in.ingestControlFlowInsertionPoint(unit, emptyView.Xref, forBlock.Empty.Children)
	}

	varNames := ir.RepeaterVarNames{DollarIndex: indexVarNames, DollarImplicit: forBlock.Item.Name}
	tagName := in.ingestControlFlowInsertionPoint(unit, repeaterView.Xref, forBlock.Children)

	var emptyXref ir.XrefId
	if emptyView != nil {
		emptyXref = emptyView.Xref
	}
	repeaterCreate := ir.NewRepeaterCreateOp(repeaterView.Xref, in.job.Slots.New(), emptyXref, tagName, track, varNames, forBlock.Span, forBlock.Span)
	repeaterCreate.EmptyTag = emptyTagName
	unit.Create.Push(repeaterCreate)

	collection := in.convertAst(forBlock.Expression.AST, forBlock.Span)
	unit.Update.Push(ir.NewRepeaterOp(repeaterCreate.Xref, repeaterCreate.Handle, collection, forBlock.Span))
}

// computedForLoopVariable builds the expression of a `@for` builtin such as
// `$first` from the per-view index and count aliases
func computedForLoopVariable(variable *render3.Variable, indexName, countName string) output.OutputExpression {
	index := func() output.OutputExpression { return ir.NewLexicalReadExpr(indexName, nil) }
	count := func() output.OutputExpression { return ir.NewLexicalReadExpr(countName, nil) }
	switch variable.Value {
	case "$index":
		return index()
	case "$count":
		return count()
	case "$first":
		return output.Binary(output.BinaryOperatorIdentical, index(), output.Literal(0))
	case "$last":
		return output.Binary(output.BinaryOperatorIdentical, index(),
			output.Binary(output.BinaryOperatorMinus, count(), output.Literal(1)))
	case "$even":
		return output.Binary(output.BinaryOperatorIdentical,
			output.Binary(output.BinaryOperatorModulo, index(), output.Literal(2)), output.Literal(0))
	case "$odd":
		return output.Binary(output.BinaryOperatorNotIdentical,
			output.Binary(output.BinaryOperatorModulo, index(), output.Literal(2)), output.Literal(0))
	}
	panic(ir.NewInternalError("unknown @for loop variable %s", variable.Value))
}

// ingestLetDeclaration ingests a `@let` declaration into the given ViewCompilationUnit
func (in *ingester) ingestLetDeclaration(unit *compilation.ViewCompilationUnit, node *render3.LetDeclaration) {
	target := in.job.AllocateXrefId()
	unit.Create.Push(ir.NewDeclareLetOp(target, in.job.Slots.New(), node.Name, node.Span))
	unit.Update.Push(ir.NewStoreLetOp(target, node.Name, in.convertAst(node.Value.AST, node.Span), node.Span))
}

// ingestControlFlowInsertionPoint lifts the attributes of the single root
// element of a control flow branch onto the branch's template, so directives
// on the branch content can be matched by content projection. It returns the
// tag name of that root, or "" when there is none.
func (in *ingester) ingestControlFlowInsertionPoint(unit *compilation.ViewCompilationUnit, xref ir.XrefId, children []render3.Node) string {
	var root render3.Node
	for _, child := range children {
		if _, ok := child.(*render3.LetDeclaration); ok {
			continue
		}
		if root != nil {
			return ""
		}
		switch c := child.(type) {
		case *render3.Element:
			root = c
		case *render3.Template:
			if c.TagName == "" {
				return ""
			}
			root = c
		default:
			return ""
		}
	}
	if root == nil {
		return ""
	}

	var attributes []*render3.TextAttribute
	var inputs []*render3.BoundAttribute
	var tagName string
	switch r := root.(type) {
	case *render3.Element:
		attributes, inputs, tagName = r.Attributes, r.Inputs, r.Name
	case *render3.Template:
		attributes, inputs, tagName = r.Attributes, r.Inputs, r.TagName
	}
	for _, attr := range attributes {
		namespace, name := render3.SplitNsName(attr.Name)
		unit.Create.Push(ir.NewExtractedAttributeOp(xref, ir.BindingKindAttribute, namespace, name, output.Literal(attr.Value)))
	}
	for _, input := range inputs {
		if input.Type != render3.BindingTypeAttribute {
			unit.Create.Push(ir.NewExtractedAttributeOp(xref, ir.BindingKindProperty, "", input.Name, nil))
		}
	}
	if tagName == ngTemplateTagName {
		return ""
	}
	return tagName
}

// ingestElementBindings ingests the static attributes, bindings and
// listeners of an element or container
func (in *ingester) ingestElementBindings(unit *compilation.ViewCompilationUnit, xref ir.XrefId, handle ir.SlotHandle, tag string, element *render3.Element) {
	for _, attr := range element.Attributes {
		namespace, name := render3.SplitNsName(attr.Name)
		unit.Create.Push(ir.NewExtractedAttributeOp(xref, ir.BindingKindAttribute, namespace, name, output.Literal(attr.Value)))
	}
	for _, input := range element.Inputs {
		unit.Update.Push(in.createElementBinding(xref, input))
	}
	for _, event := range element.Outputs {
		unit.Create.Push(in.createListener(xref, handle, tag, event))
	}
}

func (in *ingester) createElementBinding(xref ir.XrefId, input *render3.BoundAttribute) ir.UpdateOp {
	expr, interpolation := in.convertAstWithInterpolation(input.Value, input.Span)
	switch input.Type {
	case render3.BindingTypeProperty:
		switch input.Name {
		case "class":
			op := ir.NewClassMapOp(xref, expr, input.Span)
			op.Interpolation = interpolation
			return op
		case "style":
			op := ir.NewStyleMapOp(xref, expr, input.Span)
			op.Interpolation = interpolation
			return op
		}
		return ir.NewPropertyOp(xref, input.Name, expr, interpolation, input.Span)
	case render3.BindingTypeAttribute:
		namespace, name := render3.SplitNsName(input.Name)
		return ir.NewAttributeOp(xref, namespace, name, expr, interpolation, input.Span)
	case render3.BindingTypeClass:
		return ir.NewClassPropOp(xref, input.Name, singleValue(expr, interpolation), input.Span)
	case render3.BindingTypeStyle:
		return ir.NewStylePropOp(xref, input.Name, singleValue(expr, interpolation), input.Unit, input.Span)
	case render3.BindingTypeTwoWay:
		return ir.NewTwoWayPropertyOp(xref, input.Name, singleValue(expr, interpolation), input.Span)
	}
	panic(ir.NewInternalError("unknown binding type %d", input.Type))
}

func singleValue(expr output.OutputExpression, interpolation *ir.Interpolation) output.OutputExpression {
	if interpolation == nil {
		return expr
	}
	return concatInterpolation(interpolation)
}

// ingestTemplateBindings ingests the bindings of a template. Bindings on a
// structural template really target its inner element: they only feed the
// template's const array for directive matching, except for the microsyntax
// bindings which target the template itself.
func (in *ingester) ingestTemplateBindings(unit *compilation.ViewCompilationUnit, op *ir.TemplateOp, tmpl *render3.Template, templateKind ir.TemplateKind) {
	xref := op.Xref
	for _, attr := range tmpl.TemplateAttrs {
		switch a := attr.(type) {
		case *render3.TextAttribute:
			unit.Create.Push(ir.NewExtractedAttributeOp(xref, ir.BindingKindTemplate, "", a.Name, output.Literal(a.Value)))
		case *render3.BoundAttribute:
			if a.Type == render3.BindingTypeAttribute {
				continue
			}
			if a.Type == render3.BindingTypeTwoWay {
				unit.Update.Push(in.createElementBinding(xref, a))
				continue
			}
			expr, interpolation := in.convertAstWithInterpolation(a.Value, a.Span)
			property := ir.NewPropertyOp(xref, a.Name, expr, interpolation, a.Span)
			property.IsStructuralTemplateAttribute = true
			property.TemplateKind = templateKind
			unit.Update.Push(property)
		}
	}

	for _, attr := range tmpl.Attributes {
		namespace, name := render3.SplitNsName(attr.Name)
		unit.Create.Push(ir.NewExtractedAttributeOp(xref, ir.BindingKindAttribute, namespace, name, output.Literal(attr.Value)))
	}

	for _, input := range tmpl.Inputs {
		if templateKind == ir.TemplateKindStructural {
			switch input.Type {
			case render3.BindingTypeProperty, render3.BindingTypeClass, render3.BindingTypeStyle:
				unit.Create.Push(ir.NewExtractedAttributeOp(xref, ir.BindingKindProperty, "", input.Name, nil))
			case render3.BindingTypeTwoWay:
				unit.Create.Push(ir.NewExtractedAttributeOp(xref, ir.BindingKindTwoWayProperty, "", input.Name, nil))
			}
			continue
		}
		switch input.Type {
		case render3.BindingTypeTwoWay:
			unit.Update.Push(in.createElementBinding(xref, input))
		default:
			// Class, style and attribute bindings make little sense on an
			// `<ng-template>`; they are bound as plain properties.
			expr, interpolation := in.convertAstWithInterpolation(input.Value, input.Span)
			property := ir.NewPropertyOp(xref, input.Name, expr, interpolation, input.Span)
			property.TemplateKind = templateKind
			unit.Update.Push(property)
		}
	}

	for _, event := range tmpl.Outputs {
		if templateKind == ir.TemplateKindStructural {
			unit.Create.Push(ir.NewExtractedAttributeOp(xref, ir.BindingKindProperty, "", event.Name, nil))
			continue
		}
		unit.Create.Push(in.createListener(xref, op.Handle, op.Tag, event))
	}
}

func (in *ingester) createListener(xref ir.XrefId, handle ir.SlotHandle, tag string, event *render3.BoundEvent) *ir.ListenerOp {
	if event.Type == render3.ParsedEventTypeTwoWay {
		return ir.NewTwoWayListenerOp(xref, handle, event.Name, tag, in.makeTwoWayListenerHandlerOps(event.Handler, event.Span), event.Span)
	}
	return ir.NewListenerOp(xref, handle, event.Name, tag, in.makeListenerHandlerOps(event.Handler, event.Span), event.Target, false, event.Span)
}

// makeListenerHandlerOps turns a handler into statements: every expression
// of a `a(); b()` chain but the last is discarded, the last is returned.
func (c *converter) makeListenerHandlerOps(handler *expression_parser.ASTWithSource, span *util.ParseSourceSpan) *ir.OpList {
	expressions := []expression_parser.AST{handler.AST}
	if chain, ok := handler.AST.(*expression_parser.Chain); ok {
		expressions = chain.Expressions
	}
	if len(expressions) == 0 {
		panic(ir.NewInternalError("expected listener to have non-empty expression list"))
	}
	handlerOps := ir.NewOpList()
	last := len(expressions) - 1
	for _, expr := range expressions[:last] {
		handlerOps.Push(ir.NewStatementOp(output.NewExpressionStatement(c.convertAst(expr, span), span)))
	}
	handlerOps.Push(ir.NewStatementOp(output.NewReturnStatement(c.convertAst(expressions[last], span), span)))
	return handlerOps
}

// makeTwoWayListenerHandlerOps writes `$event` back into the bound target
// and returns it
func (c *converter) makeTwoWayListenerHandlerOps(handler *expression_parser.ASTWithSource, span *util.ParseSourceSpan) *ir.OpList {
	target := c.convertAst(handler.AST, span)
	handlerOps := ir.NewOpList()
	handlerOps.Push(ir.NewStatementOp(output.NewExpressionStatement(
		ir.NewTwoWayBindingSetExpr(target, ir.NewLexicalReadExpr("$event", nil)), span)))
	handlerOps.Push(ir.NewStatementOp(output.NewReturnStatement(ir.NewLexicalReadExpr("$event", nil), span)))
	return handlerOps
}

// ingestReferences records the local references of an element-like op and
// reports references to an exportAs name no matched directive declares.
func (in *ingester) ingestReferences(op *ir.ElementOrContainerOpBase, references []*render3.Reference, matched []int) {
	for _, ref := range references {
		op.LocalRefs = append(op.LocalRefs, ir.LocalRef{Name: ref.Name, Target: ref.Value})
		if ref.Value == "" || in.lenient || in.exportsName(matched, ref.Value) {
			continue
		}
		in.job.Diagnostics.Add(diagnostics.NewError(diagnostics.CodeMissingReferenceTarget, ref.Span,
			fmt.Sprintf("No directive found with exportAs '%s'.", ref.Value)))
	}
}

func (in *ingester) exportsName(matched []int, name string) bool {
	for _, index := range matched {
		if directive, ok := in.job.AvailableDependencies[index].(*view.R3DirectiveDependencyMetadata); ok {
			if slices.Contains(directive.ExportAs, name) {
				return true
			}
		}
	}
	return false
}

// matchDirectives returns the indexes of the declared directives whose
// selector matches node, and marks them used
func (in *ingester) matchDirectives(node render3.Node) []int {
	var matched []int
	in.matcher.Match(view.CreateCssSelectorFromNode(node), func(_ *css.CssSelector, index int) {
		if !slices.Contains(matched, index) {
			matched = append(matched, index)
		}
	})
	for _, index := range matched {
		in.job.MarkDependencyUsed(index)
	}
	return matched
}

// checkControlFlowDirective reports a structural attribute such as `*ngIf`
// on a template no directive matched
func (in *ingester) checkControlFlowDirective(tmpl *render3.Template) {
	if in.lenient {
		return
	}
	for _, attr := range tmpl.TemplateAttrs {
		var name string
		switch a := attr.(type) {
		case *render3.TextAttribute:
			name = a.Name
		case *render3.BoundAttribute:
			name = a.Name
		}
		known, ok := knownControlFlowDirectives[name]
		if !ok {
			continue
		}
		msg := fmt.Sprintf("The `*%s` directive was used in the template, but neither the `%s` directive nor the `CommonModule` was imported. "+
			"Use Angular's built-in control flow %s or make sure that either the `%s` directive or the `CommonModule` is included in the `@Component.imports` array of this component.",
			name, known.directive, known.builtIn, known.directive)
		in.job.Diagnostics.Add(diagnostics.NewError(diagnostics.CodeMissingControlFlowDirective, attr.SourceSpan(), msg))
		return
	}
}

func isPlainTemplate(tmpl *render3.Template) bool {
	_, name := render3.SplitNsName(tmpl.TagName)
	return strings.EqualFold(name, ngTemplateTagName)
}
