package phases

import (
	"regexp"
	"strings"

	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
	pipeline_util "ngc-ir/packages/compiler/src/template/pipeline/src/util"
)

const (
	charOpenParen   = '('
	charCloseParen  = ')'
	charColon       = ':'
	charSemicolon   = ';'
	charBackSlash   = '\\'
	charQuoteNone   = 0
	charQuoteDouble = '"'
	charQuoteSingle = '\''
)

var camelCaseBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

// ParseStyle splits the value of a `style` attribute into property and
// value pairs, flattened: `color: red; height: auto` gives
// `["color", "red", "height", "auto"]`. Semicolons and colons inside
// parentheses or quotes do not split.
func ParseStyle(value string) []string {
	styles := []string{}

	parenDepth := 0
	quote := byte(charQuoteNone)
	valueStart := 0
	propStart := 0
	currentProp := ""
	for i := 0; i < len(value); i++ {
		switch token := value[i]; token {
		case charOpenParen:
			parenDepth++
		case charCloseParen:
			parenDepth--
		case charQuoteSingle, charQuoteDouble:
			if quote == charQuoteNone {
				quote = token
			} else if quote == token && (i == 0 || value[i-1] != charBackSlash) {
				quote = charQuoteNone
			}
		case charColon:
			if currentProp == "" && parenDepth == 0 && quote == charQuoteNone {
				currentProp = hyphenate(strings.TrimSpace(value[propStart:i]))
				valueStart = i + 1
			}
		case charSemicolon:
			if currentProp != "" && valueStart > 0 && parenDepth == 0 && quote == charQuoteNone {
				styles = append(styles, currentProp, strings.TrimSpace(value[valueStart:i]))
				propStart = i + 1
				valueStart = 0
				currentProp = ""
			}
		}
	}
	if currentProp != "" && valueStart > 0 {
		styles = append(styles, currentProp, strings.TrimSpace(value[valueStart:]))
	}
	return styles
}

// hyphenate turns `backgroundColor` into `background-color`. Custom
// properties keep their case.
func hyphenate(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	return strings.ToLower(camelCaseBoundary.ReplaceAllString(name, "$1-$2"))
}

// ParseExtractedStyles splits static `style` and `class` attributes into one
// extracted attribute per style property and per class name.
func ParseExtractedStyles(job compilation.Job) {
	for _, unit := range job.GetUnits() {
		elements := pipeline_util.CreateOpXrefMap(unit)
		create := unit.GetCreate()
		for _, op := range create.Ops() {
			attr, ok := op.(*ir.ExtractedAttributeOp)
			if !ok || attr.BindingKind != ir.BindingKindAttribute || attr.Namespace != "" {
				continue
			}
			value, ok := stringLiteral(attr.Expression)
			if !ok {
				continue
			}
			// Structural templates keep class and style as plain attributes
			// for the directive they host.
			if tmpl, ok := elements[attr.Target].(*ir.TemplateOp); ok && tmpl.TemplateKind == ir.TemplateKindStructural {
				continue
			}

			switch attr.Name {
			case "style":
				parsed := ParseStyle(value)
				for i := 0; i+1 < len(parsed); i += 2 {
					create.InsertBefore(op, ir.NewExtractedAttributeOp(attr.Target, ir.BindingKindStyleProperty, "", parsed[i], output.Literal(parsed[i+1])))
				}
				create.Remove(op)
			case "class":
				for _, class := range strings.Fields(value) {
					create.InsertBefore(op, ir.NewExtractedAttributeOp(attr.Target, ir.BindingKindClassName, "", class, nil))
				}
				create.Remove(op)
			}
		}
	}
}
