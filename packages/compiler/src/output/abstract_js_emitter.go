package output

import (
	"fmt"
	"strconv"
)

// AbstractJsEmitterVisitor prints output AST as JavaScript. External
// references are printed through the namespace aliases of Imports.
type AbstractJsEmitterVisitor struct {
	Imports *ImportManager
}

// NewAbstractJsEmitterVisitor creates a new AbstractJsEmitterVisitor
func NewAbstractJsEmitterVisitor(imports *ImportManager) *AbstractJsEmitterVisitor {
	if imports == nil {
		imports = NewImportManager()
	}
	return &AbstractJsEmitterVisitor{Imports: imports}
}

// EmitStatements prints statements, one per line.
func (v *AbstractJsEmitterVisitor) EmitStatements(stmts []OutputStatement) string {
	ctx := CreateRootEmitterVisitorContext()
	v.VisitAllStatements(stmts, ctx)
	return ctx.ToSource()
}

// EmitExpression prints a single expression.
func (v *AbstractJsEmitterVisitor) EmitExpression(expr OutputExpression) string {
	ctx := CreateRootEmitterVisitorContext()
	expr.VisitExpression(v, ctx)
	return ctx.ToSource()
}

func (v *AbstractJsEmitterVisitor) getContext(context interface{}) *EmitterVisitorContext {
	if ctx, ok := context.(*EmitterVisitorContext); ok {
		return ctx
	}
	panic(fmt.Sprintf("AssertionError: expected *EmitterVisitorContext, got %T", context))
}

// VisitAllStatements visits every statement in order
func (v *AbstractJsEmitterVisitor) VisitAllStatements(stmts []OutputStatement, ctx *EmitterVisitorContext) {
	for _, stmt := range stmts {
		stmt.VisitStatement(v, ctx)
	}
}

// VisitAllExpressions prints expressions separated by ", "
func (v *AbstractJsEmitterVisitor) VisitAllExpressions(exprs []OutputExpression, ctx *EmitterVisitorContext) {
	for i, expr := range exprs {
		if i > 0 {
			ctx.Print(", ", false)
		}
		v.visitOperand(expr, ctx, precedenceComma+1)
	}
}

// VisitDeclareVarStmt prints `const`/`let` declarations
func (v *AbstractJsEmitterVisitor) VisitDeclareVarStmt(stmt *DeclareVarStmt, context interface{}) interface{} {
	ctx := v.getContext(context)
	if stmt.HasModifier(StmtModifierExported) {
		ctx.Print("export ", false)
	}
	keyword := "let"
	if stmt.HasModifier(StmtModifierFinal) {
		keyword = "const"
	}
	ctx.Print(keyword+" "+stmt.Name, false)
	if stmt.Value != nil {
		ctx.Print(" = ", false)
		stmt.Value.VisitExpression(v, ctx)
	}
	ctx.Println(";")
	return nil
}

// VisitDeclareFunctionStmt visits a declare function statement
func (v *AbstractJsEmitterVisitor) VisitDeclareFunctionStmt(stmt *DeclareFunctionStmt, context interface{}) interface{} {
	ctx := v.getContext(context)
	if stmt.HasModifier(StmtModifierExported) {
		ctx.Print("export ", false)
	}
	ctx.Print(fmt.Sprintf("function %s(", stmt.Name), false)
	v.visitParams(stmt.Params, ctx)
	ctx.Println(") {")
	ctx.IncIndent()
	v.VisitAllStatements(stmt.Statements, ctx)
	ctx.DecIndent()
	ctx.Println("}")
	return nil
}

// VisitExpressionStmt visits an expression statement
func (v *AbstractJsEmitterVisitor) VisitExpressionStmt(stmt *ExpressionStatement, context interface{}) interface{} {
	ctx := v.getContext(context)
	stmt.Expr.VisitExpression(v, ctx)
	ctx.Println(";")
	return nil
}

// VisitReturnStmt visits a return statement
func (v *AbstractJsEmitterVisitor) VisitReturnStmt(stmt *ReturnStatement, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print("return ", false)
	stmt.Value.VisitExpression(v, ctx)
	ctx.Println(";")
	return nil
}

// VisitIfStmt visits an if statement
func (v *AbstractJsEmitterVisitor) VisitIfStmt(stmt *IfStmt, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print("if (", false)
	stmt.Condition.VisitExpression(v, ctx)
	ctx.Println(") {")
	ctx.IncIndent()
	v.VisitAllStatements(stmt.TrueCase, ctx)
	ctx.DecIndent()
	if len(stmt.FalseCase) > 0 {
		ctx.Println("} else {")
		ctx.IncIndent()
		v.VisitAllStatements(stmt.FalseCase, ctx)
		ctx.DecIndent()
	}
	ctx.Println("}")
	return nil
}

// VisitReadVarExpr visits a variable read
func (v *AbstractJsEmitterVisitor) VisitReadVarExpr(ast *ReadVarExpr, context interface{}) interface{} {
	v.getContext(context).Print(ast.Name, false)
	return nil
}

// VisitInvokeFunctionExpr visits a call
func (v *AbstractJsEmitterVisitor) VisitInvokeFunctionExpr(expr *InvokeFunctionExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	if expr.Pure {
		ctx.Print("/*@__PURE__*/ ", false)
	}
	v.visitOperand(expr.Fn, ctx, precedencePrimary)
	ctx.Print("(", false)
	v.VisitAllExpressions(expr.Args, ctx)
	ctx.Print(")", false)
	return nil
}

// VisitInstantiateExpr visits a `new` expression
func (v *AbstractJsEmitterVisitor) VisitInstantiateExpr(ast *InstantiateExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print("new ", false)
	v.visitOperand(ast.ClassExpr, ctx, precedencePrimary)
	ctx.Print("(", false)
	v.VisitAllExpressions(ast.Args, ctx)
	ctx.Print(")", false)
	return nil
}

// VisitLiteralExpr visits a literal
func (v *AbstractJsEmitterVisitor) VisitLiteralExpr(ast *LiteralExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	switch val := ast.Value.(type) {
	case nil:
		ctx.Print("null", false)
	case string:
		ctx.Print(EscapeIdentifier(val, false, true), false)
	case bool:
		ctx.Print(strconv.FormatBool(val), false)
	case int:
		ctx.Print(strconv.Itoa(val), false)
	case float64:
		ctx.Print(strconv.FormatFloat(val, 'f', -1, 64), false)
	default:
		ctx.Print(fmt.Sprintf("%v", val), false)
	}
	return nil
}

// VisitExternalExpr prints `alias.name`, or the bare name for local symbols
func (v *AbstractJsEmitterVisitor) VisitExternalExpr(ast *ExternalExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	if ast.Value.ModuleName != "" {
		ctx.Print(v.Imports.AliasFor(ast.Value.ModuleName)+".", false)
	}
	ctx.Print(ast.Value.Name, false)
	return nil
}

// VisitConditionalExpr visits a conditional expression
func (v *AbstractJsEmitterVisitor) VisitConditionalExpr(ast *ConditionalExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	v.visitOperand(ast.Condition, ctx, precedenceConditional+1)
	ctx.Print(" ? ", false)
	v.visitOperand(ast.TrueCase, ctx, precedenceConditional)
	ctx.Print(" : ", false)
	falseCase := ast.FalseCase
	if falseCase == nil {
		falseCase = NullExpr
	}
	v.visitOperand(falseCase, ctx, precedenceConditional)
	return nil
}

// VisitNotExpr visits a not expression
func (v *AbstractJsEmitterVisitor) VisitNotExpr(ast *NotExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print("!", false)
	v.visitOperand(ast.Condition, ctx, precedenceUnary)
	return nil
}

// VisitUnaryOperatorExpr visits a unary operator expression
func (v *AbstractJsEmitterVisitor) VisitUnaryOperatorExpr(ast *UnaryOperatorExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	switch ast.Operator {
	case UnaryOperatorPlus:
		ctx.Print("+", false)
	case UnaryOperatorMinus:
		ctx.Print("-", false)
	default:
		panic(fmt.Sprintf("AssertionError: unknown unary operator %d", ast.Operator))
	}
	v.visitOperand(ast.Expr, ctx, precedenceUnary)
	return nil
}

// VisitBinaryOperatorExpr visits a binary operator expression
func (v *AbstractJsEmitterVisitor) VisitBinaryOperatorExpr(ast *BinaryOperatorExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	operator, ok := binaryOperators[ast.Operator]
	if !ok {
		panic(fmt.Sprintf("AssertionError: unknown operator %d", ast.Operator))
	}
	prec := binaryPrecedence[ast.Operator]
	lhsPrec, rhsPrec := prec, prec+1
	if ast.Operator == BinaryOperatorAssign {
		// right-associative
		lhsPrec, rhsPrec = prec+1, prec
	}
	v.visitBinaryOperand(ast.Operator, ast.Lhs, ctx, lhsPrec)
	ctx.Print(" "+operator+" ", false)
	v.visitBinaryOperand(ast.Operator, ast.Rhs, ctx, rhsPrec)
	return nil
}

// VisitReadPropExpr visits a property read
func (v *AbstractJsEmitterVisitor) VisitReadPropExpr(ast *ReadPropExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	v.visitOperand(ast.Receiver, ctx, precedencePrimary)
	ctx.Print("."+ast.Name, false)
	return nil
}

// VisitReadKeyExpr visits a keyed read
func (v *AbstractJsEmitterVisitor) VisitReadKeyExpr(ast *ReadKeyExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	v.visitOperand(ast.Receiver, ctx, precedencePrimary)
	ctx.Print("[", false)
	ast.Index.VisitExpression(v, ctx)
	ctx.Print("]", false)
	return nil
}

// VisitLiteralArrayExpr visits an array literal
func (v *AbstractJsEmitterVisitor) VisitLiteralArrayExpr(ast *LiteralArrayExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print("[", false)
	v.VisitAllExpressions(ast.Entries, ctx)
	ctx.Print("]", false)
	return nil
}

// VisitLiteralMapExpr prints an object literal. Maps holding functions are
// printed one entry per line.
func (v *AbstractJsEmitterVisitor) VisitLiteralMapExpr(ast *LiteralMapExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	if len(ast.Entries) == 0 {
		ctx.Print("{}", false)
		return nil
	}
	multiline := false
	for _, entry := range ast.Entries {
		switch entry.Value.(type) {
		case *FunctionExpr, *ArrowFunctionExpr:
			multiline = true
		}
	}
	printKey := func(entry *LiteralMapEntry) {
		ctx.Print(EscapeIdentifier(entry.Key, false, entry.Quoted)+": ", false)
	}
	if !multiline {
		ctx.Print("{", false)
		for i, entry := range ast.Entries {
			if i > 0 {
				ctx.Print(", ", false)
			}
			printKey(entry)
			v.visitOperand(entry.Value, ctx, precedenceComma+1)
		}
		ctx.Print("}", false)
		return nil
	}
	ctx.Println("{")
	ctx.IncIndent()
	for _, entry := range ast.Entries {
		printKey(entry)
		v.visitOperand(entry.Value, ctx, precedenceComma+1)
		ctx.Println(",")
	}
	ctx.DecIndent()
	ctx.Print("}", false)
	return nil
}

// VisitCommaExpr visits a comma expression
func (v *AbstractJsEmitterVisitor) VisitCommaExpr(ast *CommaExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print("(", false)
	v.VisitAllExpressions(ast.Parts, ctx)
	ctx.Print(")", false)
	return nil
}

// VisitTypeofExpr visits a typeof expression
func (v *AbstractJsEmitterVisitor) VisitTypeofExpr(ast *TypeofExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print("typeof ", false)
	v.visitOperand(ast.Expr, ctx, precedenceUnary)
	return nil
}

// VisitParenthesizedExpr visits a parenthesized expression
func (v *AbstractJsEmitterVisitor) VisitParenthesizedExpr(ast *ParenthesizedExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print("(", false)
	ast.Expr.VisitExpression(v, ctx)
	ctx.Print(")", false)
	return nil
}

// VisitFunctionExpr visits a function expression
func (v *AbstractJsEmitterVisitor) VisitFunctionExpr(ast *FunctionExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	namePart := ""
	if ast.Name != "" {
		namePart = " " + ast.Name
	}
	ctx.Print(fmt.Sprintf("function%s(", namePart), false)
	v.visitParams(ast.Params, ctx)
	ctx.Println(") {")
	ctx.IncIndent()
	v.VisitAllStatements(ast.Statements, ctx)
	ctx.DecIndent()
	ctx.Print("}", false)
	return nil
}

// VisitArrowFunctionExpr visits an arrow function expression
func (v *AbstractJsEmitterVisitor) VisitArrowFunctionExpr(ast *ArrowFunctionExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print("(", false)
	v.visitParams(ast.Params, ctx)
	ctx.Print(") => ", false)

	switch body := ast.Body.(type) {
	case []OutputStatement:
		ctx.Println("{")
		ctx.IncIndent()
		v.VisitAllStatements(body, ctx)
		ctx.DecIndent()
		ctx.Print("}", false)
	case *LiteralMapExpr:
		ctx.Print("(", false)
		body.VisitExpression(v, ctx)
		ctx.Print(")", false)
	case OutputExpression:
		v.visitOperand(body, ctx, precedenceComma+1)
	}
	return nil
}

func (v *AbstractJsEmitterVisitor) visitParams(params []*FnParam, ctx *EmitterVisitorContext) {
	for i, param := range params {
		if i > 0 {
			ctx.Print(", ", false)
		}
		ctx.Print(param.Name, false)
	}
}

// visitOperand prints expr, wrapping it in parentheses when it binds looser
// than minPrec.
func (v *AbstractJsEmitterVisitor) visitOperand(expr OutputExpression, ctx *EmitterVisitorContext, minPrec int) {
	if precedenceOf(expr) < minPrec {
		ctx.Print("(", false)
		expr.VisitExpression(v, ctx)
		ctx.Print(")", false)
		return
	}
	expr.VisitExpression(v, ctx)
}

// visitBinaryOperand additionally parenthesizes `??` mixed with `||`/`&&`,
// which JS rejects without explicit grouping.
func (v *AbstractJsEmitterVisitor) visitBinaryOperand(parent BinaryOperator, expr OutputExpression, ctx *EmitterVisitorContext, minPrec int) {
	if child, ok := expr.(*BinaryOperatorExpr); ok && mixesNullish(parent, child.Operator) {
		ctx.Print("(", false)
		expr.VisitExpression(v, ctx)
		ctx.Print(")", false)
		return
	}
	v.visitOperand(expr, ctx, minPrec)
}

func mixesNullish(a, b BinaryOperator) bool {
	logical := func(op BinaryOperator) bool {
		return op == BinaryOperatorOr || op == BinaryOperatorAnd
	}
	return (a == BinaryOperatorNullishCoalesce && logical(b)) || (b == BinaryOperatorNullishCoalesce && logical(a))
}

func precedenceOf(expr OutputExpression) int {
	switch e := expr.(type) {
	case *BinaryOperatorExpr:
		return binaryPrecedence[e.Operator]
	case *ConditionalExpr:
		return precedenceConditional
	case *ArrowFunctionExpr:
		return precedenceConditional
	case *NotExpr, *UnaryOperatorExpr, *TypeofExpr:
		return precedenceUnary
	case *FunctionExpr:
		// function expressions are wrapped when called or dereferenced
		return precedenceUnary
	case *LiteralExpr:
		if f, ok := e.Value.(float64); ok && f < 0 {
			return precedenceUnary
		}
		if i, ok := e.Value.(int); ok && i < 0 {
			return precedenceUnary
		}
		return precedencePrimary
	default:
		return precedencePrimary
	}
}
