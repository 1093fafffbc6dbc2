package output

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	singleQuoteEscapeStringRe = regexp.MustCompile(`'|\\|\n|\r|\$`)
	legalIdentifierRe         = regexp.MustCompile(`(?i)^[$A-Z_][0-9A-Z_$]*$`)
	indentWith                = "  "
)

var binaryOperators = map[BinaryOperator]string{
	BinaryOperatorAnd:             "&&",
	BinaryOperatorBigger:          ">",
	BinaryOperatorBiggerEquals:    ">=",
	BinaryOperatorBitwiseOr:       "|",
	BinaryOperatorBitwiseAnd:      "&",
	BinaryOperatorDivide:          "/",
	BinaryOperatorAssign:          "=",
	BinaryOperatorEquals:          "==",
	BinaryOperatorIdentical:       "===",
	BinaryOperatorLower:           "<",
	BinaryOperatorLowerEquals:     "<=",
	BinaryOperatorMinus:           "-",
	BinaryOperatorModulo:          "%",
	BinaryOperatorMultiply:        "*",
	BinaryOperatorNotEquals:       "!=",
	BinaryOperatorNotIdentical:    "!==",
	BinaryOperatorNullishCoalesce: "??",
	BinaryOperatorOr:              "||",
	BinaryOperatorPlus:            "+",
}

// JS operator precedence, higher binds tighter.
var binaryPrecedence = map[BinaryOperator]int{
	BinaryOperatorAssign:          2,
	BinaryOperatorNullishCoalesce: 4,
	BinaryOperatorOr:              4,
	BinaryOperatorAnd:             5,
	BinaryOperatorBitwiseOr:       6,
	BinaryOperatorBitwiseAnd:      8,
	BinaryOperatorEquals:          9,
	BinaryOperatorNotEquals:       9,
	BinaryOperatorIdentical:       9,
	BinaryOperatorNotIdentical:    9,
	BinaryOperatorLower:           10,
	BinaryOperatorLowerEquals:     10,
	BinaryOperatorBigger:          10,
	BinaryOperatorBiggerEquals:    10,
	BinaryOperatorPlus:            12,
	BinaryOperatorMinus:           12,
	BinaryOperatorMultiply:        13,
	BinaryOperatorDivide:          13,
	BinaryOperatorModulo:          13,
}

const (
	precedenceComma       = 1
	precedenceConditional = 3
	precedenceUnary       = 15
	precedencePrimary     = 20
)

// EmittedLine represents a line being emitted
type EmittedLine struct {
	Parts  []string
	Indent int
}

// EmitterVisitorContext accumulates printed output line by line.
type EmitterVisitorContext struct {
	lines  []*EmittedLine
	indent int
}

// CreateRootEmitterVisitorContext creates a context at indent level zero
func CreateRootEmitterVisitorContext() *EmitterVisitorContext {
	return NewEmitterVisitorContext(0)
}

// NewEmitterVisitorContext creates a new EmitterVisitorContext
func NewEmitterVisitorContext(indent int) *EmitterVisitorContext {
	return &EmitterVisitorContext{
		lines:  []*EmittedLine{{Indent: indent}},
		indent: indent,
	}
}

func (ctx *EmitterVisitorContext) currentLine() *EmittedLine {
	return ctx.lines[len(ctx.lines)-1]
}

// Println prints a part and starts a new line
func (ctx *EmitterVisitorContext) Println(lastPart string) {
	ctx.Print(lastPart, true)
}

// LineIsEmpty checks if the current line is empty
func (ctx *EmitterVisitorContext) LineIsEmpty() bool {
	return len(ctx.currentLine().Parts) == 0
}

// Print appends a part to the current line
func (ctx *EmitterVisitorContext) Print(part string, newLine bool) {
	if len(part) > 0 {
		line := ctx.currentLine()
		line.Parts = append(line.Parts, part)
	}
	if newLine {
		ctx.lines = append(ctx.lines, &EmittedLine{Indent: ctx.indent})
	}
}

// IncIndent increases the indent
func (ctx *EmitterVisitorContext) IncIndent() {
	ctx.indent++
	if ctx.LineIsEmpty() {
		ctx.currentLine().Indent = ctx.indent
	}
}

// DecIndent decreases the indent
func (ctx *EmitterVisitorContext) DecIndent() {
	ctx.indent--
	if ctx.LineIsEmpty() {
		ctx.currentLine().Indent = ctx.indent
	}
}

// ToSource converts the context to source code
func (ctx *EmitterVisitorContext) ToSource() string {
	lines := ctx.lines
	if len(lines) > 0 && len(lines[len(lines)-1].Parts) == 0 {
		lines = lines[:len(lines)-1]
	}
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if len(line.Parts) > 0 {
			result = append(result, strings.Repeat(indentWith, line.Indent)+strings.Join(line.Parts, ""))
		} else {
			result = append(result, "")
		}
	}
	return strings.Join(result, "\n")
}

// EscapeIdentifier quotes input as a single-quoted string literal. With
// alwaysQuote unset, legal identifiers are returned bare.
func EscapeIdentifier(input string, escapeDollar bool, alwaysQuote bool) string {
	body := singleQuoteEscapeStringRe.ReplaceAllStringFunc(input, func(match string) string {
		switch match {
		case "$":
			if escapeDollar {
				return "\\$"
			}
			return "$"
		case "\n":
			return "\\n"
		case "\r":
			return "\\r"
		default:
			return "\\" + match
		}
	})
	if alwaysQuote || !legalIdentifierRe.MatchString(input) {
		return "'" + body + "'"
	}
	return body
}

// ImportManager assigns stable namespace aliases (i0, i1, ...) to modules.
type ImportManager struct {
	aliases map[string]string
	order   []string
}

// NewImportManager creates an ImportManager with the given modules
// pre-registered in order.
func NewImportManager(modules ...string) *ImportManager {
	m := &ImportManager{aliases: map[string]string{}}
	for _, module := range modules {
		m.AliasFor(module)
	}
	return m
}

// AliasFor returns the namespace alias of module, registering it if needed.
func (m *ImportManager) AliasFor(module string) string {
	if alias, ok := m.aliases[module]; ok {
		return alias
	}
	alias := "i" + strconv.Itoa(len(m.order))
	m.aliases[module] = alias
	m.order = append(m.order, module)
	return alias
}

// Modules returns the registered modules in registration order.
func (m *ImportManager) Modules() []string {
	return append([]string(nil), m.order...)
}
