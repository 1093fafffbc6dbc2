package output

import (
	"ngc-ir/packages/compiler/src/util"
)

// UnaryOperator represents unary operators
type UnaryOperator int

const (
	UnaryOperatorMinus UnaryOperator = iota
	UnaryOperatorPlus
)

// BinaryOperator represents binary operators
type BinaryOperator int

const (
	BinaryOperatorEquals BinaryOperator = iota
	BinaryOperatorNotEquals
	BinaryOperatorAssign
	BinaryOperatorIdentical
	BinaryOperatorNotIdentical
	BinaryOperatorMinus
	BinaryOperatorPlus
	BinaryOperatorDivide
	BinaryOperatorMultiply
	BinaryOperatorModulo
	BinaryOperatorAnd
	BinaryOperatorOr
	BinaryOperatorBitwiseOr
	BinaryOperatorBitwiseAnd
	BinaryOperatorLower
	BinaryOperatorLowerEquals
	BinaryOperatorBigger
	BinaryOperatorBiggerEquals
	BinaryOperatorNullishCoalesce
)

// OutputExpression is an expression of the generated output language.
type OutputExpression interface {
	GetSourceSpan() *util.ParseSourceSpan
	VisitExpression(visitor ExpressionVisitor, context interface{}) interface{}
	IsEquivalent(e OutputExpression) bool
	IsConstant() bool
	Clone() OutputExpression
}

// ExpressionVisitor is the interface for visiting expressions
type ExpressionVisitor interface {
	VisitReadVarExpr(ast *ReadVarExpr, context interface{}) interface{}
	VisitInvokeFunctionExpr(ast *InvokeFunctionExpr, context interface{}) interface{}
	VisitInstantiateExpr(ast *InstantiateExpr, context interface{}) interface{}
	VisitLiteralExpr(ast *LiteralExpr, context interface{}) interface{}
	VisitExternalExpr(ast *ExternalExpr, context interface{}) interface{}
	VisitConditionalExpr(ast *ConditionalExpr, context interface{}) interface{}
	VisitNotExpr(ast *NotExpr, context interface{}) interface{}
	VisitFunctionExpr(ast *FunctionExpr, context interface{}) interface{}
	VisitUnaryOperatorExpr(ast *UnaryOperatorExpr, context interface{}) interface{}
	VisitBinaryOperatorExpr(ast *BinaryOperatorExpr, context interface{}) interface{}
	VisitReadPropExpr(ast *ReadPropExpr, context interface{}) interface{}
	VisitReadKeyExpr(ast *ReadKeyExpr, context interface{}) interface{}
	VisitLiteralArrayExpr(ast *LiteralArrayExpr, context interface{}) interface{}
	VisitLiteralMapExpr(ast *LiteralMapExpr, context interface{}) interface{}
	VisitCommaExpr(ast *CommaExpr, context interface{}) interface{}
	VisitTypeofExpr(ast *TypeofExpr, context interface{}) interface{}
	VisitArrowFunctionExpr(ast *ArrowFunctionExpr, context interface{}) interface{}
	VisitParenthesizedExpr(ast *ParenthesizedExpr, context interface{}) interface{}
}

// ExpressionBase is the base struct for all expressions
type ExpressionBase struct {
	SourceSpan *util.ParseSourceSpan
}

// GetSourceSpan returns the source span
func (e *ExpressionBase) GetSourceSpan() *util.ParseSourceSpan {
	return e.SourceSpan
}

// ReadVarExpr represents a variable read expression
type ReadVarExpr struct {
	ExpressionBase
	Name string
}

// NewReadVarExpr creates a new ReadVarExpr
func NewReadVarExpr(name string, sourceSpan *util.ParseSourceSpan) *ReadVarExpr {
	return &ReadVarExpr{ExpressionBase: ExpressionBase{SourceSpan: sourceSpan}, Name: name}
}

// VisitExpression implements OutputExpression interface
func (r *ReadVarExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitReadVarExpr(r, context)
}

// IsEquivalent checks if two expressions are equivalent
func (r *ReadVarExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*ReadVarExpr); ok {
		return r.Name == other.Name
	}
	return false
}

// IsConstant returns false for variable reads
func (r *ReadVarExpr) IsConstant() bool { return false }

// Clone clones the expression
func (r *ReadVarExpr) Clone() OutputExpression {
	return NewReadVarExpr(r.Name, r.SourceSpan)
}

// LiteralExpr represents a literal expression. Value is one of nil, bool,
// int, float64 or string.
type LiteralExpr struct {
	ExpressionBase
	Value interface{}
}

// NewLiteralExpr creates a new LiteralExpr
func NewLiteralExpr(value interface{}, sourceSpan *util.ParseSourceSpan) *LiteralExpr {
	return &LiteralExpr{ExpressionBase: ExpressionBase{SourceSpan: sourceSpan}, Value: value}
}

// VisitExpression implements OutputExpression interface
func (l *LiteralExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralExpr(l, context)
}

// IsEquivalent checks if two expressions are equivalent
func (l *LiteralExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*LiteralExpr); ok {
		return l.Value == other.Value
	}
	return false
}

// IsConstant returns true for literals
func (l *LiteralExpr) IsConstant() bool { return true }

// Clone clones the expression
func (l *LiteralExpr) Clone() OutputExpression {
	return NewLiteralExpr(l.Value, l.SourceSpan)
}

// BinaryOperatorExpr represents a binary operator expression
type BinaryOperatorExpr struct {
	ExpressionBase
	Operator BinaryOperator
	Lhs      OutputExpression
	Rhs      OutputExpression
}

// NewBinaryOperatorExpr creates a new BinaryOperatorExpr
func NewBinaryOperatorExpr(operator BinaryOperator, lhs, rhs OutputExpression, sourceSpan *util.ParseSourceSpan) *BinaryOperatorExpr {
	return &BinaryOperatorExpr{
		ExpressionBase: ExpressionBase{SourceSpan: sourceSpan},
		Operator:       operator,
		Lhs:            lhs,
		Rhs:            rhs,
	}
}

// VisitExpression implements OutputExpression interface
func (b *BinaryOperatorExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitBinaryOperatorExpr(b, context)
}

// IsEquivalent checks if two expressions are equivalent
func (b *BinaryOperatorExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*BinaryOperatorExpr); ok {
		return b.Operator == other.Operator && b.Lhs.IsEquivalent(other.Lhs) && b.Rhs.IsEquivalent(other.Rhs)
	}
	return false
}

// IsConstant returns false for binary operators
func (b *BinaryOperatorExpr) IsConstant() bool { return false }

// Clone clones the expression
func (b *BinaryOperatorExpr) Clone() OutputExpression {
	return NewBinaryOperatorExpr(b.Operator, b.Lhs.Clone(), b.Rhs.Clone(), b.SourceSpan)
}

// InvokeFunctionExpr represents a function call
type InvokeFunctionExpr struct {
	ExpressionBase
	Fn   OutputExpression
	Args []OutputExpression
	Pure bool
}

// NewInvokeFunctionExpr creates a new InvokeFunctionExpr
func NewInvokeFunctionExpr(fn OutputExpression, args []OutputExpression, sourceSpan *util.ParseSourceSpan, pure bool) *InvokeFunctionExpr {
	return &InvokeFunctionExpr{
		ExpressionBase: ExpressionBase{SourceSpan: sourceSpan},
		Fn:             fn,
		Args:           args,
		Pure:           pure,
	}
}

// VisitExpression implements OutputExpression interface
func (i *InvokeFunctionExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitInvokeFunctionExpr(i, context)
}

// IsEquivalent checks if two expressions are equivalent
func (i *InvokeFunctionExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*InvokeFunctionExpr); ok {
		return i.Fn.IsEquivalent(other.Fn) && AreAllEquivalent(i.Args, other.Args) && i.Pure == other.Pure
	}
	return false
}

// IsConstant returns false for calls
func (i *InvokeFunctionExpr) IsConstant() bool { return false }

// Clone clones the expression
func (i *InvokeFunctionExpr) Clone() OutputExpression {
	return NewInvokeFunctionExpr(i.Fn.Clone(), CloneAll(i.Args), i.SourceSpan, i.Pure)
}

// InstantiateExpr represents a `new` expression
type InstantiateExpr struct {
	ExpressionBase
	ClassExpr OutputExpression
	Args      []OutputExpression
}

// NewInstantiateExpr creates a new InstantiateExpr
func NewInstantiateExpr(classExpr OutputExpression, args []OutputExpression, sourceSpan *util.ParseSourceSpan) *InstantiateExpr {
	return &InstantiateExpr{ExpressionBase: ExpressionBase{SourceSpan: sourceSpan}, ClassExpr: classExpr, Args: args}
}

// VisitExpression implements OutputExpression interface
func (i *InstantiateExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitInstantiateExpr(i, context)
}

// IsEquivalent checks if two expressions are equivalent
func (i *InstantiateExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*InstantiateExpr); ok {
		return i.ClassExpr.IsEquivalent(other.ClassExpr) && AreAllEquivalent(i.Args, other.Args)
	}
	return false
}

// IsConstant returns false
func (i *InstantiateExpr) IsConstant() bool { return false }

// Clone clones the expression
func (i *InstantiateExpr) Clone() OutputExpression {
	return NewInstantiateExpr(i.ClassExpr.Clone(), CloneAll(i.Args), i.SourceSpan)
}

// ExternalReference names a symbol exported from a module.
type ExternalReference struct {
	ModuleName string
	Name       string
}

// ExternalExpr represents a reference to an external symbol
type ExternalExpr struct {
	ExpressionBase
	Value *ExternalReference
}

// NewExternalExpr creates a new ExternalExpr
func NewExternalExpr(value *ExternalReference, sourceSpan *util.ParseSourceSpan) *ExternalExpr {
	return &ExternalExpr{ExpressionBase: ExpressionBase{SourceSpan: sourceSpan}, Value: value}
}

// VisitExpression implements OutputExpression interface
func (e *ExternalExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitExternalExpr(e, context)
}

// IsEquivalent checks if two expressions are equivalent
func (e *ExternalExpr) IsEquivalent(other OutputExpression) bool {
	if o, ok := other.(*ExternalExpr); ok {
		return e.Value.Name == o.Value.Name && e.Value.ModuleName == o.Value.ModuleName
	}
	return false
}

// IsConstant returns false
func (e *ExternalExpr) IsConstant() bool { return false }

// Clone clones the expression
func (e *ExternalExpr) Clone() OutputExpression {
	return NewExternalExpr(e.Value, e.SourceSpan)
}

// ConditionalExpr represents `cond ? a : b`
type ConditionalExpr struct {
	ExpressionBase
	Condition OutputExpression
	TrueCase  OutputExpression
	FalseCase OutputExpression
}

// NewConditionalExpr creates a new ConditionalExpr
func NewConditionalExpr(condition, trueCase, falseCase OutputExpression, sourceSpan *util.ParseSourceSpan) *ConditionalExpr {
	return &ConditionalExpr{
		ExpressionBase: ExpressionBase{SourceSpan: sourceSpan},
		Condition:      condition,
		TrueCase:       trueCase,
		FalseCase:      falseCase,
	}
}

// VisitExpression implements OutputExpression interface
func (c *ConditionalExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitConditionalExpr(c, context)
}

// IsEquivalent checks if two expressions are equivalent
func (c *ConditionalExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*ConditionalExpr)
	if !ok {
		return false
	}
	return c.Condition.IsEquivalent(other.Condition) &&
		c.TrueCase.IsEquivalent(other.TrueCase) &&
		NullSafeIsEquivalent(c.FalseCase, other.FalseCase)
}

// IsConstant returns false
func (c *ConditionalExpr) IsConstant() bool { return false }

// Clone clones the expression
func (c *ConditionalExpr) Clone() OutputExpression {
	var falseCase OutputExpression
	if c.FalseCase != nil {
		falseCase = c.FalseCase.Clone()
	}
	return NewConditionalExpr(c.Condition.Clone(), c.TrueCase.Clone(), falseCase, c.SourceSpan)
}

// NotExpr represents `!expr`
type NotExpr struct {
	ExpressionBase
	Condition OutputExpression
}

// NewNotExpr creates a new NotExpr
func NewNotExpr(condition OutputExpression, sourceSpan *util.ParseSourceSpan) *NotExpr {
	return &NotExpr{ExpressionBase: ExpressionBase{SourceSpan: sourceSpan}, Condition: condition}
}

// VisitExpression implements OutputExpression interface
func (n *NotExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitNotExpr(n, context)
}

// IsEquivalent checks if two expressions are equivalent
func (n *NotExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*NotExpr); ok {
		return n.Condition.IsEquivalent(other.Condition)
	}
	return false
}

// IsConstant returns false
func (n *NotExpr) IsConstant() bool { return false }

// Clone clones the expression
func (n *NotExpr) Clone() OutputExpression {
	return NewNotExpr(n.Condition.Clone(), n.SourceSpan)
}

// FnParam is a function parameter
type FnParam struct {
	Name string
}

// NewFnParam creates a new FnParam
func NewFnParam(name string) *FnParam {
	return &FnParam{Name: name}
}

// FunctionExpr represents a `function name(params) { ... }` expression
type FunctionExpr struct {
	ExpressionBase
	Params     []*FnParam
	Statements []OutputStatement
	Name       string
}

// NewFunctionExpr creates a new FunctionExpr
func NewFunctionExpr(params []*FnParam, statements []OutputStatement, sourceSpan *util.ParseSourceSpan, name string) *FunctionExpr {
	return &FunctionExpr{
		ExpressionBase: ExpressionBase{SourceSpan: sourceSpan},
		Params:         params,
		Statements:     statements,
		Name:           name,
	}
}

// VisitExpression implements OutputExpression interface
func (f *FunctionExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitFunctionExpr(f, context)
}

// IsEquivalent checks if two expressions are equivalent
func (f *FunctionExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*FunctionExpr)
	if !ok {
		return false
	}
	return areAllParamsEquivalent(f.Params, other.Params) && areAllStatementsEquivalent(f.Statements, other.Statements)
}

// IsEquivalentToStmt reports whether the function matches a declared function.
func (f *FunctionExpr) IsEquivalentToStmt(stmt *DeclareFunctionStmt) bool {
	return areAllParamsEquivalent(f.Params, stmt.Params) && areAllStatementsEquivalent(f.Statements, stmt.Statements)
}

// IsConstant returns false
func (f *FunctionExpr) IsConstant() bool { return false }

// Clone clones the expression
func (f *FunctionExpr) Clone() OutputExpression {
	return NewFunctionExpr(f.Params, f.Statements, f.SourceSpan, f.Name)
}

// ToDeclStmt converts the function expression into a hoisted declaration.
func (f *FunctionExpr) ToDeclStmt(name string, modifiers StmtModifier) *DeclareFunctionStmt {
	return NewDeclareFunctionStmt(name, f.Params, f.Statements, modifiers, f.SourceSpan)
}

// ArrowFunctionExpr represents `(params) => body`. Body is either an
// OutputExpression or a []OutputStatement.
type ArrowFunctionExpr struct {
	ExpressionBase
	Params []*FnParam
	Body   interface{}
}

// NewArrowFunctionExpr creates a new ArrowFunctionExpr
func NewArrowFunctionExpr(params []*FnParam, body interface{}, sourceSpan *util.ParseSourceSpan) *ArrowFunctionExpr {
	return &ArrowFunctionExpr{ExpressionBase: ExpressionBase{SourceSpan: sourceSpan}, Params: params, Body: body}
}

// VisitExpression implements OutputExpression interface
func (a *ArrowFunctionExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitArrowFunctionExpr(a, context)
}

// IsEquivalent checks if two expressions are equivalent
func (a *ArrowFunctionExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*ArrowFunctionExpr)
	if !ok || !areAllParamsEquivalent(a.Params, other.Params) {
		return false
	}
	switch body := a.Body.(type) {
	case OutputExpression:
		otherBody, ok := other.Body.(OutputExpression)
		return ok && body.IsEquivalent(otherBody)
	case []OutputStatement:
		otherBody, ok := other.Body.([]OutputStatement)
		return ok && areAllStatementsEquivalent(body, otherBody)
	}
	return false
}

// IsConstant returns false
func (a *ArrowFunctionExpr) IsConstant() bool { return false }

// Clone clones the expression
func (a *ArrowFunctionExpr) Clone() OutputExpression {
	body := a.Body
	if expr, ok := body.(OutputExpression); ok {
		body = expr.Clone()
	}
	return NewArrowFunctionExpr(a.Params, body, a.SourceSpan)
}

// UnaryOperatorExpr represents `-expr` or `+expr`
type UnaryOperatorExpr struct {
	ExpressionBase
	Operator UnaryOperator
	Expr     OutputExpression
}

// NewUnaryOperatorExpr creates a new UnaryOperatorExpr
func NewUnaryOperatorExpr(operator UnaryOperator, expr OutputExpression, sourceSpan *util.ParseSourceSpan) *UnaryOperatorExpr {
	return &UnaryOperatorExpr{ExpressionBase: ExpressionBase{SourceSpan: sourceSpan}, Operator: operator, Expr: expr}
}

// VisitExpression implements OutputExpression interface
func (u *UnaryOperatorExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitUnaryOperatorExpr(u, context)
}

// IsEquivalent checks if two expressions are equivalent
func (u *UnaryOperatorExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*UnaryOperatorExpr); ok {
		return u.Operator == other.Operator && u.Expr.IsEquivalent(other.Expr)
	}
	return false
}

// IsConstant returns false
func (u *UnaryOperatorExpr) IsConstant() bool { return false }

// Clone clones the expression
func (u *UnaryOperatorExpr) Clone() OutputExpression {
	return NewUnaryOperatorExpr(u.Operator, u.Expr.Clone(), u.SourceSpan)
}

// ReadPropExpr represents `receiver.name`
type ReadPropExpr struct {
	ExpressionBase
	Receiver OutputExpression
	Name     string
}

// NewReadPropExpr creates a new ReadPropExpr
func NewReadPropExpr(receiver OutputExpression, name string, sourceSpan *util.ParseSourceSpan) *ReadPropExpr {
	return &ReadPropExpr{ExpressionBase: ExpressionBase{SourceSpan: sourceSpan}, Receiver: receiver, Name: name}
}

// VisitExpression implements OutputExpression interface
func (r *ReadPropExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitReadPropExpr(r, context)
}

// IsEquivalent checks if two expressions are equivalent
func (r *ReadPropExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*ReadPropExpr); ok {
		return r.Name == other.Name && r.Receiver.IsEquivalent(other.Receiver)
	}
	return false
}

// IsConstant returns false
func (r *ReadPropExpr) IsConstant() bool { return false }

// Clone clones the expression
func (r *ReadPropExpr) Clone() OutputExpression {
	return NewReadPropExpr(r.Receiver.Clone(), r.Name, r.SourceSpan)
}

// ReadKeyExpr represents `receiver[index]`
type ReadKeyExpr struct {
	ExpressionBase
	Receiver OutputExpression
	Index    OutputExpression
}

// NewReadKeyExpr creates a new ReadKeyExpr
func NewReadKeyExpr(receiver, index OutputExpression, sourceSpan *util.ParseSourceSpan) *ReadKeyExpr {
	return &ReadKeyExpr{ExpressionBase: ExpressionBase{SourceSpan: sourceSpan}, Receiver: receiver, Index: index}
}

// VisitExpression implements OutputExpression interface
func (r *ReadKeyExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitReadKeyExpr(r, context)
}

// IsEquivalent checks if two expressions are equivalent
func (r *ReadKeyExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*ReadKeyExpr); ok {
		return r.Receiver.IsEquivalent(other.Receiver) && r.Index.IsEquivalent(other.Index)
	}
	return false
}

// IsConstant returns false
func (r *ReadKeyExpr) IsConstant() bool { return false }

// Clone clones the expression
func (r *ReadKeyExpr) Clone() OutputExpression {
	return NewReadKeyExpr(r.Receiver.Clone(), r.Index.Clone(), r.SourceSpan)
}

// LiteralArrayExpr represents `[a, b, c]`
type LiteralArrayExpr struct {
	ExpressionBase
	Entries []OutputExpression
}

// NewLiteralArrayExpr creates a new LiteralArrayExpr
func NewLiteralArrayExpr(entries []OutputExpression, sourceSpan *util.ParseSourceSpan) *LiteralArrayExpr {
	return &LiteralArrayExpr{ExpressionBase: ExpressionBase{SourceSpan: sourceSpan}, Entries: entries}
}

// VisitExpression implements OutputExpression interface
func (l *LiteralArrayExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralArrayExpr(l, context)
}

// IsEquivalent checks if two expressions are equivalent
func (l *LiteralArrayExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*LiteralArrayExpr); ok {
		return AreAllEquivalent(l.Entries, other.Entries)
	}
	return false
}

// IsConstant returns true when every entry is constant
func (l *LiteralArrayExpr) IsConstant() bool {
	for _, entry := range l.Entries {
		if !entry.IsConstant() {
			return false
		}
	}
	return true
}

// Clone clones the expression
func (l *LiteralArrayExpr) Clone() OutputExpression {
	return NewLiteralArrayExpr(CloneAll(l.Entries), l.SourceSpan)
}

// LiteralMapEntry is one `key: value` pair of a map literal
type LiteralMapEntry struct {
	Key    string
	Value  OutputExpression
	Quoted bool
}

// NewLiteralMapEntry creates a new LiteralMapEntry
func NewLiteralMapEntry(key string, value OutputExpression, quoted bool) *LiteralMapEntry {
	return &LiteralMapEntry{Key: key, Value: value, Quoted: quoted}
}

// LiteralMapExpr represents `{a: 1, b: 2}`
type LiteralMapExpr struct {
	ExpressionBase
	Entries []*LiteralMapEntry
}

// NewLiteralMapExpr creates a new LiteralMapExpr
func NewLiteralMapExpr(entries []*LiteralMapEntry, sourceSpan *util.ParseSourceSpan) *LiteralMapExpr {
	return &LiteralMapExpr{ExpressionBase: ExpressionBase{SourceSpan: sourceSpan}, Entries: entries}
}

// VisitExpression implements OutputExpression interface
func (l *LiteralMapExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralMapExpr(l, context)
}

// IsEquivalent checks if two expressions are equivalent
func (l *LiteralMapExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*LiteralMapExpr)
	if !ok || len(l.Entries) != len(other.Entries) {
		return false
	}
	for i, entry := range l.Entries {
		o := other.Entries[i]
		if entry.Key != o.Key || entry.Quoted != o.Quoted || !entry.Value.IsEquivalent(o.Value) {
			return false
		}
	}
	return true
}

// IsConstant returns true when every value is constant
func (l *LiteralMapExpr) IsConstant() bool {
	for _, entry := range l.Entries {
		if !entry.Value.IsConstant() {
			return false
		}
	}
	return true
}

// Clone clones the expression
func (l *LiteralMapExpr) Clone() OutputExpression {
	entries := make([]*LiteralMapEntry, len(l.Entries))
	for i, entry := range l.Entries {
		entries[i] = NewLiteralMapEntry(entry.Key, entry.Value.Clone(), entry.Quoted)
	}
	return NewLiteralMapExpr(entries, l.SourceSpan)
}

// CommaExpr represents `(a, b)`
type CommaExpr struct {
	ExpressionBase
	Parts []OutputExpression
}

// NewCommaExpr creates a new CommaExpr
func NewCommaExpr(parts []OutputExpression, sourceSpan *util.ParseSourceSpan) *CommaExpr {
	return &CommaExpr{ExpressionBase: ExpressionBase{SourceSpan: sourceSpan}, Parts: parts}
}

// VisitExpression implements OutputExpression interface
func (c *CommaExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitCommaExpr(c, context)
}

// IsEquivalent checks if two expressions are equivalent
func (c *CommaExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*CommaExpr); ok {
		return AreAllEquivalent(c.Parts, other.Parts)
	}
	return false
}

// IsConstant returns false
func (c *CommaExpr) IsConstant() bool { return false }

// Clone clones the expression
func (c *CommaExpr) Clone() OutputExpression {
	return NewCommaExpr(CloneAll(c.Parts), c.SourceSpan)
}

// TypeofExpr represents `typeof expr`
type TypeofExpr struct {
	ExpressionBase
	Expr OutputExpression
}

// NewTypeofExpr creates a new TypeofExpr
func NewTypeofExpr(expr OutputExpression, sourceSpan *util.ParseSourceSpan) *TypeofExpr {
	return &TypeofExpr{ExpressionBase: ExpressionBase{SourceSpan: sourceSpan}, Expr: expr}
}

// VisitExpression implements OutputExpression interface
func (t *TypeofExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitTypeofExpr(t, context)
}

// IsEquivalent checks if two expressions are equivalent
func (t *TypeofExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*TypeofExpr); ok {
		return t.Expr.IsEquivalent(other.Expr)
	}
	return false
}

// IsConstant returns false
func (t *TypeofExpr) IsConstant() bool { return t.Expr.IsConstant() }

// Clone clones the expression
func (t *TypeofExpr) Clone() OutputExpression {
	return NewTypeofExpr(t.Expr.Clone(), t.SourceSpan)
}

// ParenthesizedExpr keeps explicit grouping from the source
type ParenthesizedExpr struct {
	ExpressionBase
	Expr OutputExpression
}

// NewParenthesizedExpr creates a new ParenthesizedExpr
func NewParenthesizedExpr(expr OutputExpression, sourceSpan *util.ParseSourceSpan) *ParenthesizedExpr {
	return &ParenthesizedExpr{ExpressionBase: ExpressionBase{SourceSpan: sourceSpan}, Expr: expr}
}

// VisitExpression implements OutputExpression interface
func (p *ParenthesizedExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitParenthesizedExpr(p, context)
}

// IsEquivalent checks if two expressions are equivalent
func (p *ParenthesizedExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*ParenthesizedExpr); ok {
		return p.Expr.IsEquivalent(other.Expr)
	}
	return false
}

// IsConstant returns whether the inner expression is constant
func (p *ParenthesizedExpr) IsConstant() bool { return p.Expr.IsConstant() }

// Clone clones the expression
func (p *ParenthesizedExpr) Clone() OutputExpression {
	return NewParenthesizedExpr(p.Expr.Clone(), p.SourceSpan)
}

// AreAllEquivalent compares two expression lists element-wise
func AreAllEquivalent(base, other []OutputExpression) bool {
	if len(base) != len(other) {
		return false
	}
	for i := range base {
		if !base[i].IsEquivalent(other[i]) {
			return false
		}
	}
	return true
}

// NullSafeIsEquivalent compares expressions that may be nil
func NullSafeIsEquivalent(base, other OutputExpression) bool {
	if base == nil || other == nil {
		return base == nil && other == nil
	}
	return base.IsEquivalent(other)
}

// CloneAll clones every expression of a list
func CloneAll(exprs []OutputExpression) []OutputExpression {
	result := make([]OutputExpression, len(exprs))
	for i, e := range exprs {
		result[i] = e.Clone()
	}
	return result
}

func areAllParamsEquivalent(a, b []*FnParam) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}
