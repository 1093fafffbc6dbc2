package phases

import (
	"ngc-ir/packages/compiler/src/core"
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
	pipeline_conversion "ngc-ir/packages/compiler/src/template/pipeline/src/conversion"
)

// CollectElementConsts converts the semantic attributes of element-like operations (elements, templates) into constant
// array expressions, and lifts them into the overall component `consts`.
func CollectElementConsts(job compilation.Job) {
	// Collect all extracted attributes.
	allElementAttributes := map[ir.XrefId]*ElementAttributes{}
	for _, unit := range job.GetUnits() {
		for _, op := range unit.GetCreate().Ops() {
			extracted, ok := op.(*ir.ExtractedAttributeOp)
			if !ok {
				continue
			}
			attributes, exists := allElementAttributes[extracted.Target]
			if !exists {
				attributes = NewElementAttributes()
				allElementAttributes[extracted.Target] = attributes
			}
			attributes.Add(extracted.BindingKind, extracted.Name, extracted.Expression, extracted.Namespace)
			unit.GetCreate().Remove(op)
		}
	}

	switch j := job.(type) {
	case *compilation.ComponentCompilationJob:
		for _, unit := range j.GetUnits() {
			for _, op := range unit.GetCreate().Ops() {
				switch o := op.(type) {
				case *ir.ProjectionOp:
					if attributes, ok := allElementAttributes[o.Xref]; ok {
						if attrArray := serializeAttributes(attributes); len(attrArray.Entries) > 0 {
							o.Attributes = attrArray
						}
					}
				case ir.ElementOrContainerOp:
					base := o.GetElementBase()
					base.Attributes = getConstIndex(j, allElementAttributes, base.Xref)

					// The empty view of a `@for` lives in the same op as its body.
					if repeater, ok := op.(*ir.RepeaterCreateOp); ok && repeater.EmptyView != 0 {
						repeater.EmptyAttributes = getConstIndex(j, allElementAttributes, repeater.EmptyView)
					}
				}
			}
		}
	case *compilation.HostBindingCompilationJob:
		for xref, attributes := range allElementAttributes {
			if xref != j.Root.Xref {
				panic(ir.NewInternalError("an attribute would be const collected into the host binding's template function, but is not associated with the root xref"))
			}
			if attrArray := serializeAttributes(attributes); len(attrArray.Entries) > 0 {
				j.Root.Attributes = attrArray
			}
		}
	}
}

func getConstIndex(job *compilation.ComponentCompilationJob, allElementAttributes map[ir.XrefId]*ElementAttributes, xref ir.XrefId) *ir.ConstIndex {
	attributes, ok := allElementAttributes[xref]
	if !ok {
		return nil
	}
	attrArray := serializeAttributes(attributes)
	if len(attrArray.Entries) == 0 {
		return nil
	}
	index := job.AddConst(attrArray, nil)
	return &index
}

// ElementAttributes is a container for all of the various kinds of attributes which are applied on an element.
type ElementAttributes struct {
	known    map[ir.BindingKind]map[string]bool
	byKind   map[ir.BindingKind][]output.OutputExpression
	bindings []output.OutputExpression

	projectAs string
}

// NewElementAttributes creates a new ElementAttributes
func NewElementAttributes() *ElementAttributes {
	return &ElementAttributes{
		known:  map[ir.BindingKind]map[string]bool{},
		byKind: map[ir.BindingKind][]output.OutputExpression{},
	}
}

// Attributes returns the static attributes, name and value interleaved
func (e *ElementAttributes) Attributes() []output.OutputExpression {
	return e.byKind[ir.BindingKindAttribute]
}

// Classes returns the static class names
func (e *ElementAttributes) Classes() []output.OutputExpression {
	return e.byKind[ir.BindingKindClassName]
}

// Styles returns the static styles, property and value interleaved
func (e *ElementAttributes) Styles() []output.OutputExpression {
	return e.byKind[ir.BindingKindStyleProperty]
}

// Bindings returns the names of property bindings and listeners
func (e *ElementAttributes) Bindings() []output.OutputExpression {
	return e.bindings
}

// Template returns the names of structural template attributes
func (e *ElementAttributes) Template() []output.OutputExpression {
	return e.byKind[ir.BindingKindTemplate]
}

// isKnown reports whether name was already added under kind, and records it
func (e *ElementAttributes) isKnown(kind ir.BindingKind, name string) bool {
	// Properties and two-way properties share the bindings section.
	if kind == ir.BindingKindTwoWayProperty {
		kind = ir.BindingKindProperty
	}
	names, ok := e.known[kind]
	if !ok {
		names = map[string]bool{}
		e.known[kind] = names
	}
	if names[name] {
		return true
	}
	names[name] = true
	return false
}

// Add records one attribute. Only the first occurrence of a name is kept
// per kind.
func (e *ElementAttributes) Add(kind ir.BindingKind, name string, value output.OutputExpression, namespace string) {
	if e.isKnown(kind, name) {
		return
	}

	if name == "ngProjectAs" {
		projectAs, ok := stringLiteral(value)
		if !ok {
			panic(ir.NewInternalError("ngProjectAs must have a string literal value"))
		}
		e.projectAs = projectAs
	}

	entries := getAttributeNameLiterals(namespace, name)
	if kind == ir.BindingKindAttribute || kind == ir.BindingKindStyleProperty {
		if value == nil {
			panic(ir.NewInternalError("attribute and style element attributes must have a value"))
		}
		entries = append(entries, value)
	}

	switch kind {
	case ir.BindingKindProperty, ir.BindingKindTwoWayProperty:
		e.bindings = append(e.bindings, entries...)
	default:
		e.byKind[kind] = append(e.byKind[kind], entries...)
	}
}

// getAttributeNameLiterals gets an array of literal expressions representing the attribute's namespaced name.
func getAttributeNameLiterals(namespace, name string) []output.OutputExpression {
	nameLiteral := output.Literal(name)
	if namespace != "" {
		return []output.OutputExpression{
			output.Literal(int(core.AttributeMarkerNamespaceURI)),
			output.Literal(namespace),
			nameLiteral,
		}
	}
	return []output.OutputExpression{nameLiteral}
}

// serializeAttributes serializes an ElementAttributes object into an array expression.
func serializeAttributes(attrs *ElementAttributes) *output.LiteralArrayExpr {
	attrArray := append([]output.OutputExpression{}, attrs.Attributes()...)

	if attrs.projectAs != "" {
		// Only the first selector is used: ngProjectAs takes a single one.
		parsed, err := core.ParseSelectorToR3Selector(attrs.projectAs)
		if err == nil && len(parsed) > 0 {
			attrArray = append(attrArray,
				output.Literal(int(core.AttributeMarkerProjectAs)),
				pipeline_conversion.LiteralOrArrayLiteral(parsed[0]))
		}
	}
	section := func(marker core.AttributeMarker, entries []output.OutputExpression) {
		if len(entries) == 0 {
			return
		}
		attrArray = append(attrArray, output.Literal(int(marker)))
		attrArray = append(attrArray, entries...)
	}
	section(core.AttributeMarkerClasses, attrs.Classes())
	section(core.AttributeMarkerStyles, attrs.Styles())
	section(core.AttributeMarkerBindings, attrs.Bindings())
	section(core.AttributeMarkerTemplate, attrs.Template())
	return output.LiteralArr(attrArray...)
}
