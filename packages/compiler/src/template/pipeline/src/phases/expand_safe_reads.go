package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// ExpandSafeReads finds all unresolved safe read expressions, and converts them into the appropriate output AST
// reads, guarded by null checks. We generate temporaries as needed, to avoid re-evaluating the same
// sub-expression multiple times.
//
// Safe read expressions such as `a?.b` have different semantics in Angular templates as
// compared to JavaScript. In particular, they default to `null` instead of `undefined`.
func ExpandSafeReads(job compilation.Job) {
	base := job.GetBase()
	for _, unit := range job.GetUnits() {
		transformUnitExpressions(unit, func(expr output.OutputExpression, _ ir.VisitorContextFlag) output.OutputExpression {
			return safeTransform(expr, base)
		})
		transformUnitExpressions(unit, ternaryTransform)
	}
}

// needsTemporaryInSafeAccess checks if an expression requires a temporary variable to be generated.
func needsTemporaryInSafeAccess(e output.OutputExpression) bool {
	switch expr := e.(type) {
	case *output.UnaryOperatorExpr:
		return needsTemporaryInSafeAccess(expr.Expr)
	case *output.BinaryOperatorExpr:
		return needsTemporaryInSafeAccess(expr.Lhs) || needsTemporaryInSafeAccess(expr.Rhs)
	case *output.ConditionalExpr:
		if expr.FalseCase != nil && needsTemporaryInSafeAccess(expr.FalseCase) {
			return true
		}
		return needsTemporaryInSafeAccess(expr.Condition) || needsTemporaryInSafeAccess(expr.TrueCase)
	case *output.NotExpr:
		return needsTemporaryInSafeAccess(expr.Condition)
	case *ir.AssignTemporaryExpr:
		return needsTemporaryInSafeAccess(expr.Expr)
	case *output.ReadPropExpr:
		return needsTemporaryInSafeAccess(expr.Receiver)
	case *output.ReadKeyExpr:
		return needsTemporaryInSafeAccess(expr.Receiver) || needsTemporaryInSafeAccess(expr.Index)
	case *output.ParenthesizedExpr:
		return needsTemporaryInSafeAccess(expr.Expr)
	case *output.InvokeFunctionExpr, *output.LiteralArrayExpr, *output.LiteralMapExpr,
		*ir.SafeInvokeFunctionExpr, *ir.PipeBindingExpr:
		return true
	}
	return false
}

// temporariesIn finds all temporary assignments in an expression
func temporariesIn(e output.OutputExpression) map[ir.XrefId]bool {
	temporaries := map[ir.XrefId]bool{}
	ir.TransformExpressionsInExpression(e, func(expr output.OutputExpression, _ ir.VisitorContextFlag) output.OutputExpression {
		if assign, ok := expr.(*ir.AssignTemporaryExpr); ok {
			temporaries[assign.Xref] = true
		}
		return expr
	}, ir.VisitorContextFlagNone)
	return temporaries
}

// eliminateTemporaryAssignments turns the assignments of tmps within e into reads
func eliminateTemporaryAssignments(e output.OutputExpression, tmps map[ir.XrefId]bool) output.OutputExpression {
	return ir.TransformExpressionsInExpression(e, func(expr output.OutputExpression, _ ir.VisitorContextFlag) output.OutputExpression {
		if assign, ok := expr.(*ir.AssignTemporaryExpr); ok && tmps[assign.Xref] {
			return ir.NewReadTemporaryExpr(assign.Xref)
		}
		return expr
	}, ir.VisitorContextFlagNone)
}

// safeTernaryWithTemporary creates a safe ternary expression, and writes the guarded expression to
// a temporary variable if it has side effects.
func safeTernaryWithTemporary(guardedExpr output.OutputExpression, body func(output.OutputExpression) output.OutputExpression, job *compilation.CompilationJob) *ir.SafeTernaryExpr {
	var guard, read output.OutputExpression
	if needsTemporaryInSafeAccess(guardedExpr) {
		xref := job.AllocateXrefId()
		guard = ir.NewAssignTemporaryExpr(guardedExpr, xref)
		read = ir.NewReadTemporaryExpr(xref)
	} else {
		guard = guardedExpr
		// Consider an expression like `a?.[b?.c]()?.d`. The `b?.c` will be transformed first,
		// introducing a temporary assignment into the key. Then, as part of expanding the `?.d`, that
		// assignment will be duplicated into both the guard and expression sides. We de-duplicate it,
		// by transforming it from an assignment into a read on the expression side.
		read = eliminateTemporaryAssignments(guardedExpr.Clone(), temporariesIn(guardedExpr))
	}
	return ir.NewSafeTernaryExpr(guard, body(read))
}

func accessReceiver(e output.OutputExpression) (output.OutputExpression, bool) {
	switch expr := e.(type) {
	case *output.ReadPropExpr:
		return expr.Receiver, true
	case *output.ReadKeyExpr:
		return expr.Receiver, true
	case *output.InvokeFunctionExpr:
		return expr.Fn, true
	case *ir.SafePropertyReadExpr:
		return expr.Receiver, true
	case *ir.SafeKeyedReadExpr:
		return expr.Receiver, true
	case *ir.SafeInvokeFunctionExpr:
		return expr.Receiver, true
	}
	return nil, false
}

// deepestSafeTernary finds the innermost safe ternary of an access chain
// whose receiver was already expanded.
func deepestSafeTernary(e output.OutputExpression) *ir.SafeTernaryExpr {
	receiver, ok := accessReceiver(e)
	if !ok {
		return nil
	}
	st, ok := receiver.(*ir.SafeTernaryExpr)
	if !ok {
		return nil
	}
	for {
		inner, ok := st.Expr.(*ir.SafeTernaryExpr)
		if !ok {
			return st
		}
		st = inner
	}
}

func safeTransform(e output.OutputExpression, job *compilation.CompilationJob) output.OutputExpression {
	receiver, ok := accessReceiver(e)
	if !ok {
		return e
	}

	if dst := deepestSafeTernary(e); dst != nil {
		// The access continues a chain that is already guarded: move it into
		// the guarded branch and let the ternary stand in its place.
		switch expr := e.(type) {
		case *output.InvokeFunctionExpr:
			dst.Expr = output.NewInvokeFunctionExpr(dst.Expr, expr.Args, expr.SourceSpan, expr.Pure)
		case *output.ReadPropExpr:
			dst.Expr = output.NewReadPropExpr(dst.Expr, expr.Name, expr.SourceSpan)
		case *output.ReadKeyExpr:
			dst.Expr = output.NewReadKeyExpr(dst.Expr, expr.Index, expr.SourceSpan)
		case *ir.SafeInvokeFunctionExpr:
			dst.Expr = safeTernaryWithTemporary(dst.Expr, func(r output.OutputExpression) output.OutputExpression {
				return output.Call(r, expr.Args...)
			}, job)
		case *ir.SafePropertyReadExpr:
			dst.Expr = safeTernaryWithTemporary(dst.Expr, func(r output.OutputExpression) output.OutputExpression {
				return output.Prop(r, expr.Name)
			}, job)
		case *ir.SafeKeyedReadExpr:
			dst.Expr = safeTernaryWithTemporary(dst.Expr, func(r output.OutputExpression) output.OutputExpression {
				return output.Key(r, expr.Index)
			}, job)
		}
		return receiver
	}

	switch expr := e.(type) {
	case *ir.SafeInvokeFunctionExpr:
		return safeTernaryWithTemporary(expr.Receiver, func(r output.OutputExpression) output.OutputExpression {
			return output.Call(r, expr.Args...)
		}, job)
	case *ir.SafePropertyReadExpr:
		return safeTernaryWithTemporary(expr.Receiver, func(r output.OutputExpression) output.OutputExpression {
			return output.Prop(r, expr.Name)
		}, job)
	case *ir.SafeKeyedReadExpr:
		return safeTernaryWithTemporary(expr.Receiver, func(r output.OutputExpression) output.OutputExpression {
			return output.Key(r, expr.Index)
		}, job)
	}
	return e
}

func ternaryTransform(e output.OutputExpression, _ ir.VisitorContextFlag) output.OutputExpression {
	st, ok := e.(*ir.SafeTernaryExpr)
	if !ok {
		return e
	}
	return output.NewParenthesizedExpr(output.Conditional(
		output.Binary(output.BinaryOperatorEquals, st.Guard, output.NullExpr),
		output.NullExpr,
		st.Expr,
	), nil)
}
