package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/render3/view"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// ResolveContexts resolves `ir.ContextExpr` expressions (which represent embedded view or component contexts) to
// either the `ctx` parameter to component functions (for the current view context) or to variables
// that store those contexts (for contexts accessed via the `nextContext()` instruction).
func ResolveContexts(job compilation.Job) {
	root := job.GetRoot()
	for _, unit := range job.GetUnits() {
		resolveContextsInOps(unit, unit == root, unit.GetCreate())
		resolveContextsInOps(unit, unit == root, unit.GetUpdate())
	}
}

func resolveContextsInOps(unit compilation.CompilationUnit, isRoot bool, ops *ir.OpList) {
	// Track the expressions used to access all available contexts within the current view, by the
	// view `ir.XrefId`.
	scope := map[ir.XrefId]output.OutputExpression{}

	// The current view's context is accessible via the `ctx` parameter.
	scope[unit.GetXref()] = output.Variable(view.CONTEXT_NAME)

	for _, op := range ops.Ops() {
		switch o := op.(type) {
		case *ir.VariableOp:
			if cv, ok := o.Variable.(*ir.ContextVariable); ok {
				scope[cv.View] = ir.NewReadVariableExpr(o.Xref)
			}
		case *ir.ListenerOp:
			resolveContextsInOps(unit, isRoot, o.HandlerOps)
		case *ir.RepeaterCreateOp:
			if o.TrackByOps != nil {
				resolveContextsInOps(unit, isRoot, o.TrackByOps)
			}
		}
	}

	if isRoot {
		// Prefer `ctx` of the root view to any variables which happen to contain the root context.
		scope[unit.GetXref()] = output.Variable(view.CONTEXT_NAME)
	}

	for _, op := range ops.Ops() {
		switch op.(type) {
		case *ir.ListenerOp:
			// Handler ops were resolved in their own scope above.
			continue
		case *ir.RepeaterCreateOp:
			if op.(*ir.RepeaterCreateOp).TrackByOps != nil {
				continue
			}
		}
		ir.TransformExpressionsInOp(op, func(expr output.OutputExpression, _ ir.VisitorContextFlag) output.OutputExpression {
			ctx, ok := expr.(*ir.ContextExpr)
			if !ok {
				return expr
			}
			resolved, ok := scope[ctx.View]
			if !ok {
				panic(ir.NewInternalError("no context found for reference to view %d from view %d", ctx.View, unit.GetXref()))
			}
			return resolved.Clone()
		}, ir.VisitorContextFlagNone)
	}
}
