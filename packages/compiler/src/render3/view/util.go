package view

import (
	"regexp"
	"strings"

	"ngc-ir/packages/compiler/src/core"
	"ngc-ir/packages/compiler/src/css"
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/render3"
)

// UNSAFE_OBJECT_KEY_NAME_REGEXP checks whether an object key contains potentially unsafe chars
var UNSAFE_OBJECT_KEY_NAME_REGEXP = regexp.MustCompile(`[-.]`)

// TEMPORARY_NAME is the name of the temporary to use during data binding
const TEMPORARY_NAME = "_t"

// CONTEXT_NAME is the name of the context parameter passed into a template function
const CONTEXT_NAME = "ctx"

// RENDER_FLAGS is the name of the RenderFlag passed into a template function
const RENDER_FLAGS = "rf"

// TemporaryAllocator returns a function handing out the `_t` temporary. The
// `let _t;` declaration is pushed the first time it is called.
func TemporaryAllocator(pushStatement func(output.OutputStatement), name string) func() *output.ReadVarExpr {
	var temp *output.ReadVarExpr
	return func() *output.ReadVarExpr {
		if temp == nil {
			pushStatement(output.Let(TEMPORARY_NAME, nil))
			temp = output.Variable(name)
		}
		return temp
	}
}

// CreateInputsLiteral serializes inputs for defineComponent. Inputs whose
// public name differs from the class property, or that carry flags or a
// transform, use the array form `[flags, publicName, declaredName, transform?]`.
func CreateInputsLiteral(inputs []R3InputMetadata) output.OutputExpression {
	if len(inputs) == 0 {
		return nil
	}
	entries := make([]*output.LiteralMapEntry, 0, len(inputs))
	for _, input := range inputs {
		declaredName := input.ClassPropertyName
		publicName := input.BindingPropertyName
		differentDeclaringName := publicName != declaredName
		hasTransform := input.TransformFunction != nil
		flags := core.InputFlagsNone
		if input.IsSignal {
			flags |= core.InputFlagsSignalBased
		}
		if hasTransform {
			flags |= core.InputFlagsHasDecoratorInputTransform
		}

		var value output.OutputExpression
		if differentDeclaringName || hasTransform || flags != core.InputFlagsNone {
			result := []output.OutputExpression{output.Literal(int(flags)), output.Literal(publicName)}
			if differentDeclaringName || hasTransform {
				result = append(result, output.Literal(declaredName))
				if hasTransform {
					result = append(result, input.TransformFunction)
				}
			}
			value = output.NewLiteralArrayExpr(result, nil)
		} else {
			value = output.Literal(publicName)
		}
		entries = append(entries, output.NewLiteralMapEntry(declaredName, value, UNSAFE_OBJECT_KEY_NAME_REGEXP.MatchString(declaredName)))
	}
	return output.NewLiteralMapExpr(entries, nil)
}

// CreateOutputsLiteral serializes outputs as `{classProp: 'publicName'}`.
func CreateOutputsLiteral(outputs []R3OutputMetadata) output.OutputExpression {
	if len(outputs) == 0 {
		return nil
	}
	entries := make([]*output.LiteralMapEntry, 0, len(outputs))
	for _, out := range outputs {
		key := out.ClassPropertyName
		entries = append(entries, output.NewLiteralMapEntry(key, output.Literal(out.BindingPropertyName), UNSAFE_OBJECT_KEY_NAME_REGEXP.MatchString(key)))
	}
	return output.NewLiteralMapExpr(entries, nil)
}

// DefinitionMapEntry represents an entry in a DefinitionMap
type DefinitionMapEntry struct {
	Key    string
	Quoted bool
	Value  output.OutputExpression
}

// DefinitionMap is an insertion-ordered object literal under construction
type DefinitionMap struct {
	Values []DefinitionMapEntry
}

// NewDefinitionMap creates a new DefinitionMap
func NewDefinitionMap() *DefinitionMap {
	return &DefinitionMap{}
}

// Set sets a key-value pair in the map. If the key already exists, it updates the value.
// If value is nil, the key is not added.
func (dm *DefinitionMap) Set(key string, value output.OutputExpression) {
	if value == nil {
		return
	}
	for i := range dm.Values {
		if dm.Values[i].Key == key {
			dm.Values[i].Value = value
			return
		}
	}
	dm.Values = append(dm.Values, DefinitionMapEntry{Key: key, Value: value})
}

// Keys returns the keys in insertion order
func (dm *DefinitionMap) Keys() []string {
	keys := make([]string, len(dm.Values))
	for i, entry := range dm.Values {
		keys[i] = entry.Key
	}
	return keys
}

// ToLiteralMap converts the DefinitionMap to a LiteralMapExpr
func (dm *DefinitionMap) ToLiteralMap() *output.LiteralMapExpr {
	entries := make([]*output.LiteralMapEntry, len(dm.Values))
	for i, entry := range dm.Values {
		entries[i] = output.NewLiteralMapEntry(entry.Key, entry.Value, entry.Quoted)
	}
	return output.NewLiteralMapExpr(entries, nil)
}

// CreateCssSelectorFromNode describes an element or template for directive
// matching. Templates match as `ng-template`; bound inputs and outputs
// contribute valueless attributes.
func CreateCssSelectorFromNode(node render3.Node) *css.CssSelector {
	var elementName string
	switch n := node.(type) {
	case *render3.Element:
		_, elementName = render3.SplitNsName(n.Name)
	case *render3.Template:
		elementName = "ng-template"
	}
	return css.CreateElementCssSelector(elementName, GetAttrsForDirectiveMatching(node))
}

// GetAttrsForDirectiveMatching lists the name/value pairs of a node that
// directive selectors can match, in template order.
func GetAttrsForDirectiveMatching(node render3.Node) [][2]string {
	var attrs [][2]string
	add := func(name, value string) {
		if name == "i18n" || strings.HasPrefix(name, "i18n-") {
			return
		}
		_, name = render3.SplitNsName(name)
		attrs = append(attrs, [2]string{name, value})
	}
	addInputs := func(inputs []*render3.BoundAttribute) {
		for _, input := range inputs {
			if input.Type == render3.BindingTypeProperty || input.Type == render3.BindingTypeTwoWay {
				add(input.Name, "")
			}
		}
	}

	switch n := node.(type) {
	case *render3.Template:
		if n.IsStructural() {
			for _, attr := range n.TemplateAttrs {
				switch a := attr.(type) {
				case *render3.TextAttribute:
					add(a.Name, a.Value)
				case *render3.BoundAttribute:
					add(a.Name, "")
				}
			}
			return attrs
		}
		for _, attr := range n.Attributes {
			add(attr.Name, attr.Value)
		}
		addInputs(n.Inputs)
		for _, out := range n.Outputs {
			add(out.Name, "")
		}
	case *render3.Element:
		for _, attr := range n.Attributes {
			add(attr.Name, attr.Value)
		}
		addInputs(n.Inputs)
		for _, out := range n.Outputs {
			add(out.Name, "")
		}
	}
	return attrs
}
