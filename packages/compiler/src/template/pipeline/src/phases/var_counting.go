package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// CountVariables counts the number of variable slots used within each view, and stores that on the view itself, as
// well as propagates it to the ops declaring embedded views.
func CountVariables(job compilation.Job) {
	// First, count the vars used in each view, and update the view-level counter.
	for _, unit := range job.GetUnits() {
		varCount := 0

		// Count variables on top-level ops first. Don't explore nested expressions just yet.
		for _, op := range unit.GetCreate().Ops() {
			varCount += VarsUsedByOp(op)
		}
		for _, op := range unit.GetUpdate().Ops() {
			varCount += VarsUsedByOp(op)
		}

		// Count variables on expressions inside ops. We do this later because some of these expressions
		// might be conditional (e.g. `pipeBinding` inside of a ternary), and we don't want to interfere
		// with indices for top-level binding slots (e.g. `property`).
		countExpression := func(expr output.OutputExpression, _ ir.VisitorContextFlag) {
			switch e := expr.(type) {
			case *ir.PipeBindingExpr:
				// Pipes need to know where their own variables start.
				e.VarOffset = varCount
				varCount += 1 + len(e.Args)
			case *ir.StoreLetExpr:
				varCount++
			}
		}
		for _, op := range unit.GetCreate().Ops() {
			ir.VisitExpressionsInOp(op, countExpression)
		}
		for _, op := range unit.GetUpdate().Ops() {
			ir.VisitExpressionsInOp(op, countExpression)
		}

		unit.SetVars(varCount)
	}

	component, ok := job.(*compilation.ComponentCompilationJob)
	if !ok {
		return
	}
	// Add var counts for each view to the op which declares that view (if the view is an embedded
	// view).
	for _, view := range component.GetViews() {
		for _, op := range view.Create.Ops() {
			declaring, ok := op.(ir.EmbeddedViewOp)
			if !ok {
				continue
			}
			base := declaring.GetEmbeddedViewBase()
			base.Vars = childView(view, base.Xref).Vars
			if repeater, ok := op.(*ir.RepeaterCreateOp); ok && repeater.EmptyView != 0 {
				repeater.EmptyVars = childView(view, repeater.EmptyView).Vars
			}
		}
	}
}

// VarsUsedByOp counts the variable slots used by the op itself, not
// counting nested expressions.
func VarsUsedByOp(op ir.Op) int {
	switch o := op.(type) {
	case *ir.AttributeOp:
		// All of these bindings use 1 variable slot, plus 1 slot for every interpolated expression,
		// if any.
		return 1 + interpolationVars(o.Interpolation)
	case *ir.PropertyOp:
		return 1 + interpolationVars(o.Interpolation)
	case *ir.TwoWayPropertyOp:
		// Two-way properties can only have expressions so they only need one variable slot.
		return 1
	case *ir.StylePropOp, *ir.ClassPropOp:
		// Style & class bindings use 2 variable slots.
		return 2
	case *ir.StyleMapOp:
		return 2 + interpolationVars(o.Interpolation)
	case *ir.ClassMapOp:
		return 2 + interpolationVars(o.Interpolation)
	case *ir.InterpolateTextOp:
		// Text interpolations use a variable slot for each dynamic expression.
		return len(o.Interpolation.Expressions)
	case *ir.ConditionalOp, *ir.StoreLetOp:
		return 1
	case *ir.RepeaterCreateOp:
		// Repeaters with an empty view track whether it is shown.
		if o.EmptyView != 0 {
			return 1
		}
	}
	return 0
}

// interpolationVars is the number of extra slots an interpolated binding
// needs. A lone `{{e}}` is bound as e itself and needs none.
func interpolationVars(interpolation *ir.Interpolation) int {
	if interpolation == nil || interpolation.IsSingleExpression() {
		return 0
	}
	return len(interpolation.Expressions)
}
