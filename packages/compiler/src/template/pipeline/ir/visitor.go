package ir

import (
	"ngc-ir/packages/compiler/src/output"
	constant "ngc-ir/packages/compiler/src/pool"
)

// VisitExpressionsInOp calls visitor on every expression contained in op,
// nested expressions first.
func VisitExpressionsInOp(op Op, visitor func(expr output.OutputExpression, flags VisitorContextFlag)) {
	TransformExpressionsInOp(op, func(expr output.OutputExpression, flags VisitorContextFlag) output.OutputExpression {
		visitor(expr, flags)
		return expr
	}, VisitorContextFlagNone)
}

// TransformExpressionsInOp replaces every expression contained in op with
// the result of transform. Expressions of child operations (listener
// handlers, track-by ops) are visited with VisitorContextFlagInChildOperation.
func TransformExpressionsInOp(op Op, transform ExpressionTransform, flags VisitorContextFlag) {
	tx := func(expr output.OutputExpression) output.OutputExpression {
		if expr == nil {
			return nil
		}
		return TransformExpressionsInExpression(expr, transform, flags)
	}

	switch o := op.(type) {
	case *PropertyOp:
		o.Expression = tx(o.Expression)
		transformInterpolation(o.Interpolation, transform, flags)
	case *AttributeOp:
		o.Expression = tx(o.Expression)
		transformInterpolation(o.Interpolation, transform, flags)
	case *TwoWayPropertyOp:
		o.Expression = tx(o.Expression)
	case *ClassPropOp:
		o.Expression = tx(o.Expression)
	case *StylePropOp:
		o.Expression = tx(o.Expression)
	case *ClassMapOp:
		o.Expression = tx(o.Expression)
		transformInterpolation(o.Interpolation, transform, flags)
	case *StyleMapOp:
		o.Expression = tx(o.Expression)
		transformInterpolation(o.Interpolation, transform, flags)
	case *InterpolateTextOp:
		transformInterpolation(o.Interpolation, transform, flags)
	case *StoreLetOp:
		o.Value = tx(o.Value)
	case *RepeaterOp:
		o.Collection = tx(o.Collection)
	case *ConditionalOp:
		o.Test = tx(o.Test)
		for i, cond := range o.Conditions {
			transformed, ok := tx(cond).(*ConditionalCaseExpr)
			if !ok {
				panic(NewInternalError("conditional case transformed into a different expression"))
			}
			o.Conditions[i] = transformed
		}
		o.Processed = tx(o.Processed)
		o.ContextValue = tx(o.ContextValue)
	case *VariableOp:
		o.Initializer = tx(o.Initializer)
	case *StatementOp:
		TransformExpressionsInStatement(o.Statement, transform, flags)
	case *ListenerOp:
		for _, inner := range o.HandlerOps.Ops() {
			TransformExpressionsInOp(inner, transform, flags|VisitorContextFlagInChildOperation)
		}
	case *RepeaterCreateOp:
		if o.TrackByOps == nil {
			o.Track = tx(o.Track)
		} else {
			for _, inner := range o.TrackByOps.Ops() {
				TransformExpressionsInOp(inner, transform, flags|VisitorContextFlagInChildOperation)
			}
		}
		o.TrackByFn = tx(o.TrackByFn)
	case *ProjectionDefOp:
		o.Def = tx(o.Def)
	case *ExtractedAttributeOp:
		o.Expression = tx(o.Expression)
	case *ProjectionOp, *ElementStartOp, *ElementOp, *ElementEndOp, *ContainerStartOp,
		*ContainerOp, *ContainerEndOp, *TemplateOp, *ConditionalCreateOp,
		*ConditionalBranchCreateOp, *TextOp, *NamespaceOp, *PipeOp, *DeclareLetOp,
		*DisableBindingsOp, *EnableBindingsOp, *AdvanceOp, *ListEndOp:
		// These operations contain no expressions.
	default:
		panic(NewInternalError("TransformExpressionsInOp doesn't handle %s", op.GetKind()))
	}
}

func transformInterpolation(interpolation *Interpolation, transform ExpressionTransform, flags VisitorContextFlag) {
	if interpolation == nil {
		return
	}
	for i, expr := range interpolation.Expressions {
		interpolation.Expressions[i] = TransformExpressionsInExpression(expr, transform, flags)
	}
}

// TransformExpressionsInExpression transforms the children of expr and then
// expr itself. Fixups handed out by the constant pool are leaves.
func TransformExpressionsInExpression(expr output.OutputExpression, transform ExpressionTransform, flags VisitorContextFlag) output.OutputExpression {
	tx := func(e output.OutputExpression) output.OutputExpression {
		if e == nil {
			return nil
		}
		return TransformExpressionsInExpression(e, transform, flags)
	}

	switch e := expr.(type) {
	case Expression:
		e.TransformInternalExpressions(transform, flags)
	case *output.BinaryOperatorExpr:
		e.Lhs = tx(e.Lhs)
		e.Rhs = tx(e.Rhs)
	case *output.UnaryOperatorExpr:
		e.Expr = tx(e.Expr)
	case *output.ReadPropExpr:
		e.Receiver = tx(e.Receiver)
	case *output.ReadKeyExpr:
		e.Receiver = tx(e.Receiver)
		e.Index = tx(e.Index)
	case *output.InvokeFunctionExpr:
		e.Fn = tx(e.Fn)
		for i, arg := range e.Args {
			e.Args[i] = tx(arg)
		}
	case *output.InstantiateExpr:
		e.ClassExpr = tx(e.ClassExpr)
		for i, arg := range e.Args {
			e.Args[i] = tx(arg)
		}
	case *output.LiteralArrayExpr:
		for i, entry := range e.Entries {
			e.Entries[i] = tx(entry)
		}
	case *output.LiteralMapExpr:
		for _, entry := range e.Entries {
			entry.Value = tx(entry.Value)
		}
	case *output.ConditionalExpr:
		e.Condition = tx(e.Condition)
		e.TrueCase = tx(e.TrueCase)
		e.FalseCase = tx(e.FalseCase)
	case *output.NotExpr:
		e.Condition = tx(e.Condition)
	case *output.TypeofExpr:
		e.Expr = tx(e.Expr)
	case *output.ParenthesizedExpr:
		e.Expr = tx(e.Expr)
	case *output.CommaExpr:
		for i, part := range e.Parts {
			e.Parts[i] = tx(part)
		}
	case *output.FunctionExpr:
		for _, stmt := range e.Statements {
			TransformExpressionsInStatement(stmt, transform, flags)
		}
	case *output.ArrowFunctionExpr:
		switch body := e.Body.(type) {
		case output.OutputExpression:
			e.Body = tx(body)
		case []output.OutputStatement:
			for _, stmt := range body {
				TransformExpressionsInStatement(stmt, transform, flags)
			}
		}
	case *output.ReadVarExpr, *output.LiteralExpr, *output.ExternalExpr, *constant.FixupExpression:
		// Leaves.
	default:
		panic(NewInternalError("unhandled expression kind: %T", expr))
	}
	return transform(expr, flags)
}

// TransformExpressionsInStatement transforms the expressions of stmt in place
func TransformExpressionsInStatement(stmt output.OutputStatement, transform ExpressionTransform, flags VisitorContextFlag) {
	tx := func(e output.OutputExpression) output.OutputExpression {
		if e == nil {
			return nil
		}
		return TransformExpressionsInExpression(e, transform, flags)
	}
	switch s := stmt.(type) {
	case *output.ExpressionStatement:
		s.Expr = tx(s.Expr)
	case *output.ReturnStatement:
		s.Value = tx(s.Value)
	case *output.DeclareVarStmt:
		s.Value = tx(s.Value)
	case *output.IfStmt:
		s.Condition = tx(s.Condition)
		for _, inner := range s.TrueCase {
			TransformExpressionsInStatement(inner, transform, flags)
		}
		for _, inner := range s.FalseCase {
			TransformExpressionsInStatement(inner, transform, flags)
		}
	case *output.DeclareFunctionStmt:
		for _, inner := range s.Statements {
			TransformExpressionsInStatement(inner, transform, flags)
		}
	default:
		panic(NewInternalError("unhandled statement kind: %T", stmt))
	}
}
