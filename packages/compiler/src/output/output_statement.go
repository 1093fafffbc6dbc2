package output

import (
	"ngc-ir/packages/compiler/src/util"
)

// StmtModifier is a bit set of declaration modifiers
type StmtModifier int

const (
	StmtModifierNone     StmtModifier = 0
	StmtModifierFinal    StmtModifier = 1 << 0
	StmtModifierExported StmtModifier = 1 << 1
)

// OutputStatement is a statement of the generated output language.
type OutputStatement interface {
	GetSourceSpan() *util.ParseSourceSpan
	VisitStatement(visitor StatementVisitor, context interface{}) interface{}
	IsEquivalent(stmt OutputStatement) bool
}

// StatementVisitor is the interface for visiting statements
type StatementVisitor interface {
	VisitDeclareVarStmt(stmt *DeclareVarStmt, context interface{}) interface{}
	VisitDeclareFunctionStmt(stmt *DeclareFunctionStmt, context interface{}) interface{}
	VisitExpressionStmt(stmt *ExpressionStatement, context interface{}) interface{}
	VisitReturnStmt(stmt *ReturnStatement, context interface{}) interface{}
	VisitIfStmt(stmt *IfStmt, context interface{}) interface{}
}

// StatementBase is the base struct for all statements
type StatementBase struct {
	Modifiers  StmtModifier
	SourceSpan *util.ParseSourceSpan
}

// GetSourceSpan returns the source span
func (s *StatementBase) GetSourceSpan() *util.ParseSourceSpan {
	return s.SourceSpan
}

// HasModifier checks whether the statement carries a modifier
func (s *StatementBase) HasModifier(modifier StmtModifier) bool {
	return s.Modifiers&modifier != 0
}

// DeclareVarStmt declares `const name = value;` or `let name;`
type DeclareVarStmt struct {
	StatementBase
	Name  string
	Value OutputExpression
}

// NewDeclareVarStmt creates a new DeclareVarStmt
func NewDeclareVarStmt(name string, value OutputExpression, modifiers StmtModifier, sourceSpan *util.ParseSourceSpan) *DeclareVarStmt {
	return &DeclareVarStmt{
		StatementBase: StatementBase{Modifiers: modifiers, SourceSpan: sourceSpan},
		Name:          name,
		Value:         value,
	}
}

// VisitStatement implements OutputStatement interface
func (d *DeclareVarStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitDeclareVarStmt(d, context)
}

// IsEquivalent checks if two statements are equivalent
func (d *DeclareVarStmt) IsEquivalent(stmt OutputStatement) bool {
	other, ok := stmt.(*DeclareVarStmt)
	return ok && d.Name == other.Name && NullSafeIsEquivalent(d.Value, other.Value)
}

// DeclareFunctionStmt declares a hoisted `function name(params) {}`
type DeclareFunctionStmt struct {
	StatementBase
	Name       string
	Params     []*FnParam
	Statements []OutputStatement
}

// NewDeclareFunctionStmt creates a new DeclareFunctionStmt
func NewDeclareFunctionStmt(name string, params []*FnParam, statements []OutputStatement, modifiers StmtModifier, sourceSpan *util.ParseSourceSpan) *DeclareFunctionStmt {
	return &DeclareFunctionStmt{
		StatementBase: StatementBase{Modifiers: modifiers, SourceSpan: sourceSpan},
		Name:          name,
		Params:        params,
		Statements:    statements,
	}
}

// VisitStatement implements OutputStatement interface
func (d *DeclareFunctionStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitDeclareFunctionStmt(d, context)
}

// IsEquivalent checks if two statements are equivalent
func (d *DeclareFunctionStmt) IsEquivalent(stmt OutputStatement) bool {
	other, ok := stmt.(*DeclareFunctionStmt)
	return ok && d.Name == other.Name && areAllParamsEquivalent(d.Params, other.Params) &&
		areAllStatementsEquivalent(d.Statements, other.Statements)
}

// ExpressionStatement evaluates an expression for its side effects
type ExpressionStatement struct {
	StatementBase
	Expr OutputExpression
}

// NewExpressionStatement creates a new ExpressionStatement
func NewExpressionStatement(expr OutputExpression, sourceSpan *util.ParseSourceSpan) *ExpressionStatement {
	return &ExpressionStatement{StatementBase: StatementBase{SourceSpan: sourceSpan}, Expr: expr}
}

// VisitStatement implements OutputStatement interface
func (e *ExpressionStatement) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitExpressionStmt(e, context)
}

// IsEquivalent checks if two statements are equivalent
func (e *ExpressionStatement) IsEquivalent(stmt OutputStatement) bool {
	other, ok := stmt.(*ExpressionStatement)
	return ok && e.Expr.IsEquivalent(other.Expr)
}

// ReturnStatement is `return value;`
type ReturnStatement struct {
	StatementBase
	Value OutputExpression
}

// NewReturnStatement creates a new ReturnStatement
func NewReturnStatement(value OutputExpression, sourceSpan *util.ParseSourceSpan) *ReturnStatement {
	return &ReturnStatement{StatementBase: StatementBase{SourceSpan: sourceSpan}, Value: value}
}

// VisitStatement implements OutputStatement interface
func (r *ReturnStatement) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitReturnStmt(r, context)
}

// IsEquivalent checks if two statements are equivalent
func (r *ReturnStatement) IsEquivalent(stmt OutputStatement) bool {
	other, ok := stmt.(*ReturnStatement)
	return ok && r.Value.IsEquivalent(other.Value)
}

// IfStmt is `if (condition) {...} else {...}`
type IfStmt struct {
	StatementBase
	Condition OutputExpression
	TrueCase  []OutputStatement
	FalseCase []OutputStatement
}

// NewIfStmt creates a new IfStmt
func NewIfStmt(condition OutputExpression, trueCase, falseCase []OutputStatement, sourceSpan *util.ParseSourceSpan) *IfStmt {
	return &IfStmt{
		StatementBase: StatementBase{SourceSpan: sourceSpan},
		Condition:     condition,
		TrueCase:      trueCase,
		FalseCase:     falseCase,
	}
}

// VisitStatement implements OutputStatement interface
func (i *IfStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitIfStmt(i, context)
}

// IsEquivalent checks if two statements are equivalent
func (i *IfStmt) IsEquivalent(stmt OutputStatement) bool {
	other, ok := stmt.(*IfStmt)
	return ok && i.Condition.IsEquivalent(other.Condition) &&
		areAllStatementsEquivalent(i.TrueCase, other.TrueCase) &&
		areAllStatementsEquivalent(i.FalseCase, other.FalseCase)
}

func areAllStatementsEquivalent(a, b []OutputStatement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].IsEquivalent(b[i]) {
			return false
		}
	}
	return true
}
