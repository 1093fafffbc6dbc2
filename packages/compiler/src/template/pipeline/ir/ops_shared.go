package ir

import "ngc-ir/packages/compiler/src/output"

// StatementOp wraps an output statement. It may appear in both create and
// update lists, and reification turns every other op into one.
type StatementOp struct {
	OpBase
	Statement output.OutputStatement
}

func NewStatementOp(statement output.OutputStatement) *StatementOp {
	return &StatementOp{Statement: statement}
}

func (*StatementOp) GetKind() OpKind { return OpKindStatement }
func (*StatementOp) isCreateOp()     {}
func (*StatementOp) isUpdateOp()     {}

// VariableOp declares Variable, initialized with Initializer
type VariableOp struct {
	OpBase
	Xref        XrefId
	Variable    SemanticVariable
	Initializer output.OutputExpression
	Flags       VariableFlags
}

func NewVariableOp(xref XrefId, variable SemanticVariable, initializer output.OutputExpression, flags VariableFlags) *VariableOp {
	return &VariableOp{Xref: xref, Variable: variable, Initializer: initializer, Flags: flags}
}

func (*VariableOp) GetKind() OpKind { return OpKindVariable }
func (*VariableOp) isCreateOp()     {}
func (*VariableOp) isUpdateOp()     {}

// NextContextStep returns the NextContextExpr of a statement op consisting
// only of a discarded nextContext() call.
func NextContextStep(op Op) (*NextContextExpr, bool) {
	stmtOp, ok := op.(*StatementOp)
	if !ok {
		return nil, false
	}
	stmt, ok := stmtOp.Statement.(*output.ExpressionStatement)
	if !ok {
		return nil, false
	}
	next, ok := stmt.Expr.(*NextContextExpr)
	return next, ok
}
