package output

// Shorthand constructors used by the template pipeline. None of them carry a
// source span; callers that need one use the NewXxx constructors directly.

// Variable reads a variable by name.
func Variable(name string) *ReadVarExpr {
	return NewReadVarExpr(name, nil)
}

// Literal wraps a primitive value.
func Literal(value interface{}) *LiteralExpr {
	return NewLiteralExpr(value, nil)
}

// NullExpr is the `null` literal.
var NullExpr = Literal(nil)

// TrueExpr and FalseExpr are the boolean literals.
var (
	TrueExpr  = Literal(true)
	FalseExpr = Literal(false)
)

// ImportExpr references an exported symbol.
func ImportExpr(ref *ExternalReference) *ExternalExpr {
	return NewExternalExpr(ref, nil)
}

// Prop reads `receiver.name`.
func Prop(receiver OutputExpression, name string) *ReadPropExpr {
	return NewReadPropExpr(receiver, name, nil)
}

// Key reads `receiver[index]`.
func Key(receiver, index OutputExpression) *ReadKeyExpr {
	return NewReadKeyExpr(receiver, index, nil)
}

// Call invokes fn with args.
func Call(fn OutputExpression, args ...OutputExpression) *InvokeFunctionExpr {
	if args == nil {
		args = []OutputExpression{}
	}
	return NewInvokeFunctionExpr(fn, args, nil, false)
}

// LiteralArr builds an array literal.
func LiteralArr(entries ...OutputExpression) *LiteralArrayExpr {
	if entries == nil {
		entries = []OutputExpression{}
	}
	return NewLiteralArrayExpr(entries, nil)
}

// LiteralStrings builds an array literal of strings.
func LiteralStrings(values []string) *LiteralArrayExpr {
	entries := make([]OutputExpression, len(values))
	for i, v := range values {
		entries[i] = Literal(v)
	}
	return NewLiteralArrayExpr(entries, nil)
}

// LiteralMap builds an object literal preserving entry order.
func LiteralMap(entries ...*LiteralMapEntry) *LiteralMapExpr {
	if entries == nil {
		entries = []*LiteralMapEntry{}
	}
	return NewLiteralMapExpr(entries, nil)
}

// Not negates an expression.
func Not(expr OutputExpression) *NotExpr {
	return NewNotExpr(expr, nil)
}

// Conditional builds `cond ? trueCase : falseCase`.
func Conditional(cond, trueCase, falseCase OutputExpression) *ConditionalExpr {
	return NewConditionalExpr(cond, trueCase, falseCase, nil)
}

// Binary builds a binary expression.
func Binary(op BinaryOperator, lhs, rhs OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(op, lhs, rhs, nil)
}

// Assign builds `target = value`.
func Assign(target, value OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(BinaryOperatorAssign, target, value, nil)
}

// Fn builds a function expression.
func Fn(params []*FnParam, statements []OutputStatement, name string) *FunctionExpr {
	return NewFunctionExpr(params, statements, nil, name)
}

// ArrowFn builds an arrow function; body is an expression or statements.
func ArrowFn(params []*FnParam, body interface{}) *ArrowFunctionExpr {
	return NewArrowFunctionExpr(params, body, nil)
}

// Params turns names into function parameters.
func Params(names ...string) []*FnParam {
	params := make([]*FnParam, len(names))
	for i, n := range names {
		params[i] = NewFnParam(n)
	}
	return params
}

// Stmt wraps an expression into a statement.
func Stmt(expr OutputExpression) *ExpressionStatement {
	return NewExpressionStatement(expr, nil)
}

// Return builds `return value;`.
func Return(value OutputExpression) *ReturnStatement {
	return NewReturnStatement(value, nil)
}

// Const declares `const name = value;`.
func Const(name string, value OutputExpression) *DeclareVarStmt {
	return NewDeclareVarStmt(name, value, StmtModifierFinal, nil)
}

// Let declares `let name;` or `let name = value;`.
func Let(name string, value OutputExpression) *DeclareVarStmt {
	return NewDeclareVarStmt(name, value, StmtModifierNone, nil)
}
