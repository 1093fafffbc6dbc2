package pipeline_conversion

import (
	"ngc-ir/packages/compiler/src/core"
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
)

// BinaryOperators maps template binary operators to output operators
var BinaryOperators = map[string]output.BinaryOperator{
	"&&":  output.BinaryOperatorAnd,
	">":   output.BinaryOperatorBigger,
	">=":  output.BinaryOperatorBiggerEquals,
	"/":   output.BinaryOperatorDivide,
	"==":  output.BinaryOperatorEquals,
	"===": output.BinaryOperatorIdentical,
	"<":   output.BinaryOperatorLower,
	"<=":  output.BinaryOperatorLowerEquals,
	"-":   output.BinaryOperatorMinus,
	"%":   output.BinaryOperatorModulo,
	"*":   output.BinaryOperatorMultiply,
	"!=":  output.BinaryOperatorNotEquals,
	"!==": output.BinaryOperatorNotIdentical,
	"??":  output.BinaryOperatorNullishCoalesce,
	"||":  output.BinaryOperatorOr,
	"+":   output.BinaryOperatorPlus,
}

var namespaces = map[string]ir.Namespace{
	"svg":  ir.NamespaceSVG,
	"math": ir.NamespaceMath,
}

// NamespaceForKey maps the `svg` / `math` prefix of a tag to its namespace
func NamespaceForKey(key string) ir.Namespace {
	if ns, ok := namespaces[key]; ok {
		return ns
	}
	return ir.NamespaceHTML
}

// KeyForNamespace is the inverse of NamespaceForKey; HTML has no key
func KeyForNamespace(namespace ir.Namespace) string {
	for key, ns := range namespaces {
		if ns == namespace {
			return key
		}
	}
	return ""
}

// PrefixWithNamespace restores the `:svg:` form of a stripped tag name
func PrefixWithNamespace(strippedTag string, namespace ir.Namespace) string {
	key := KeyForNamespace(namespace)
	if key == "" {
		return strippedTag
	}
	return ":" + key + ":" + strippedTag
}

// LiteralOrArrayLiteral converts a Go value, possibly nested slices, into a
// literal expression. Encoded selectors and markers become plain numbers.
func LiteralOrArrayLiteral(value interface{}) output.OutputExpression {
	switch v := value.(type) {
	case output.OutputExpression:
		return v
	case core.R3CssSelectorList:
		entries := make([]output.OutputExpression, len(v))
		for i, selector := range v {
			entries[i] = LiteralOrArrayLiteral(selector)
		}
		return output.LiteralArr(entries...)
	case core.R3CssSelector:
		return LiteralOrArrayLiteral([]interface{}(v))
	case []interface{}:
		entries := make([]output.OutputExpression, len(v))
		for i, item := range v {
			entries[i] = LiteralOrArrayLiteral(item)
		}
		return output.LiteralArr(entries...)
	case []string:
		return output.LiteralStrings(v)
	case core.SelectorFlags:
		return output.Literal(int(v))
	case core.AttributeMarker:
		return output.Literal(int(v))
	}
	return output.Literal(value)
}
