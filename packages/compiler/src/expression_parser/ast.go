package expression_parser

// ParseSpan is an offset range, absolute within the template file.
type ParseSpan struct {
	Start int
	End   int
}

// AST is a node of a parsed binding expression.
type AST interface {
	GetSpan() ParseSpan
}

type astBase struct {
	Span ParseSpan
}

func (a *astBase) GetSpan() ParseSpan { return a.Span }

// Undefined is the value of the `undefined` literal.
type Undefined struct{}

// EmptyExpr is an empty binding.
type EmptyExpr struct{ astBase }

// ImplicitReceiver is the receiver of bare names (`foo` reads `<ctx>.foo`).
type ImplicitReceiver struct{ astBase }

// ThisReceiver is an explicit `this`.
type ThisReceiver struct{ astBase }

// PropertyRead is `receiver.name`, or a bare name on an ImplicitReceiver.
type PropertyRead struct {
	astBase
	Receiver AST
	Name     string
	NameSpan ParseSpan
}

// SafePropertyRead is `receiver?.name`.
type SafePropertyRead struct {
	astBase
	Receiver AST
	Name     string
}

// PropertyWrite is `receiver.name = value`.
type PropertyWrite struct {
	astBase
	Receiver AST
	Name     string
	Value    AST
}

// KeyedRead is `receiver[key]`.
type KeyedRead struct {
	astBase
	Receiver AST
	Key      AST
}

// SafeKeyedRead is `receiver?.[key]`.
type SafeKeyedRead struct {
	astBase
	Receiver AST
	Key      AST
}

// KeyedWrite is `receiver[key] = value`.
type KeyedWrite struct {
	astBase
	Receiver AST
	Key      AST
	Value    AST
}

// Call is `receiver(args)`.
type Call struct {
	astBase
	Receiver AST
	Args     []AST
}

// SafeCall is `receiver?.(args)`.
type SafeCall struct {
	astBase
	Receiver AST
	Args     []AST
}

// BindingPipe is `exp | name:arg1:arg2`.
type BindingPipe struct {
	astBase
	Exp      AST
	Name     string
	Args     []AST
	NameSpan ParseSpan
}

// LiteralPrimitive holds nil, bool, float64, string or Undefined.
type LiteralPrimitive struct {
	astBase
	Value interface{}
}

// LiteralArray is `[a, b]`.
type LiteralArray struct {
	astBase
	Expressions []AST
}

// LiteralMapKey is one key of a map literal.
type LiteralMapKey struct {
	Key    string
	Quoted bool
}

// LiteralMap is `{a: 1, 'b': 2}`.
type LiteralMap struct {
	astBase
	Keys   []LiteralMapKey
	Values []AST
}

// Interpolation is `s0{{e0}}s1...`. len(Strings) == len(Expressions)+1.
type Interpolation struct {
	astBase
	Strings     []string
	Expressions []AST
}

// Binary is `left op right`.
type Binary struct {
	astBase
	Operation string
	Left      AST
	Right     AST
}

// Unary is `-expr` or `+expr`.
type Unary struct {
	astBase
	Operator string
	Expr     AST
}

// PrefixNot is `!expr`.
type PrefixNot struct {
	astBase
	Expression AST
}

// TypeofExpression is `typeof expr`.
type TypeofExpression struct {
	astBase
	Expression AST
}

// NonNullAssert is `expr!`.
type NonNullAssert struct {
	astBase
	Expression AST
}

// Conditional is `cond ? a : b`.
type Conditional struct {
	astBase
	Condition AST
	TrueExp   AST
	FalseExp  AST
}

// Chain is `a; b` in event handlers.
type Chain struct {
	astBase
	Expressions []AST
}

// ParenthesizedExpression keeps explicit grouping.
type ParenthesizedExpression struct {
	astBase
	Expression AST
}

// ASTWithSource wraps a parsed expression with its source text.
type ASTWithSource struct {
	AST      AST
	Source   string
	Location string
	Offset   int
	Errors   []*ParserError
}

// GetSpan returns the span of the wrapped expression
func (a *ASTWithSource) GetSpan() ParseSpan {
	if a.AST == nil {
		return ParseSpan{}
	}
	return a.AST.GetSpan()
}

// TemplateBinding is one entry of a structural directive microsyntax.
type TemplateBinding interface {
	isTemplateBinding()
}

// VariableBinding is `let name = value` or `value as name`. Value is the
// context property the variable reads, `$implicit` by default.
type VariableBinding struct {
	Key   string
	Value string
	Span  ParseSpan
}

// ExpressionBinding binds Key (e.g. `ngForOf`) to an expression. Value is
// nil for a bare directive key with no expression.
type ExpressionBinding struct {
	Key   string
	Value *ASTWithSource
	Span  ParseSpan
}

func (*VariableBinding) isTemplateBinding()   {}
func (*ExpressionBinding) isTemplateBinding() {}

// ParserError is a binding expression syntax error.
type ParserError struct {
	Message  string
	Input    string
	Location string
	Span     ParseSpan
}

func (e *ParserError) Error() string {
	return "Parser Error: " + e.Message + " in [" + e.Input + "] in " + e.Location
}
