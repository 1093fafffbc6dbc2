package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// MergeNextContextExpressions merges logically sequential `NextContextExpr` operations.
//
// `NextContextExpr` can be referenced repeatedly, "popping" the runtime's context stack each time.
// When two such expressions appear back-to-back, it's possible to merge them together into a single
// `NextContextExpr` that steps multiple contexts. This merging is possible if all conditions are met:
//
//   - The result of the `NextContextExpr` that's folded into the subsequent one is not stored (that
//     is, the call is purely side-effectful).
//   - No operations in between them uses the implicit context.
//
// A stored step whose variable is never read absorbs the discarded steps
// following it instead. Both forms keep the total number of steps.
func MergeNextContextExpressions(job compilation.Job) {
	for _, unit := range job.GetUnits() {
		for _, op := range unit.GetCreate().Ops() {
			if listener, ok := op.(*ir.ListenerOp); ok {
				mergeNextContextsInOps(listener.HandlerOps)
			}
		}
		mergeNextContextsInOps(unit.GetCreate())
		mergeNextContextsInOps(unit.GetUpdate())
	}
}

func mergeNextContextsInOps(ops *ir.OpList) {
	for _, op := range ops.Ops() {
		if op.GetPrev() == nil {
			// Merged away earlier in this pass.
			continue
		}
		if next, ok := ir.NextContextStep(op); ok {
			mergeForward(ops, op, next.Steps)
			continue
		}
		if variable, ok := op.(*ir.VariableOp); ok {
			if next, ok := variable.Initializer.(*ir.NextContextExpr); ok && !isVariableRead(ops, variable.Xref) {
				absorbFollowingSteps(ops, variable, next)
			}
		}
	}
}

// mergeForward folds the discarded step op into the first NextContextExpr
// found after it, unless something reads the context in between.
func mergeForward(ops *ir.OpList, op ir.Op, steps int) {
	for candidate := op.GetNext(); candidate != ops.Tail(); candidate = candidate.GetNext() {
		merged, blocked := false, false
		ir.VisitExpressionsInOp(candidate, func(expr output.OutputExpression, flags ir.VisitorContextFlag) {
			if merged || blocked || !ir.IsIrExpression(expr) {
				return
			}
			if flags&ir.VisitorContextFlagInChildOperation != 0 {
				// Child operations run at a different time.
				blocked = true
				return
			}
			switch e := expr.(type) {
			case *ir.NextContextExpr:
				e.Steps += steps
				merged = true
			case *ir.ContextExpr, *ir.GetCurrentViewExpr, *ir.ReferenceExpr, *ir.ContextLetReferenceExpr:
				blocked = true
			}
		})
		if merged {
			ops.Remove(op)
			return
		}
		if blocked {
			return
		}
	}
}

// absorbFollowingSteps adds the discarded steps directly after variable to
// its own initializer.
func absorbFollowingSteps(ops *ir.OpList, variable *ir.VariableOp, initializer *ir.NextContextExpr) {
	for candidate := variable.GetNext(); candidate != ops.Tail(); {
		next, ok := ir.NextContextStep(candidate)
		if !ok {
			return
		}
		following := candidate.GetNext()
		initializer.Steps += next.Steps
		ops.Remove(candidate)
		candidate = following
	}
}

func isVariableRead(ops *ir.OpList, xref ir.XrefId) bool {
	read := false
	for _, op := range ops.Ops() {
		ir.VisitExpressionsInOp(op, func(expr output.OutputExpression, _ ir.VisitorContextFlag) {
			if r, ok := expr.(*ir.ReadVariableExpr); ok && r.Xref == xref {
				read = true
			}
		})
		if read {
			return true
		}
	}
	return false
}
