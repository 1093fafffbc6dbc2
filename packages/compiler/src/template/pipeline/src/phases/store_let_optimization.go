package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// GenerateLocalLetReferences replaces the `storeLet` ops with variables that can be
// used to reference the value within the same view.
func GenerateLocalLetReferences(job *compilation.ComponentCompilationJob) {
	for _, view := range job.GetViews() {
		for _, op := range view.Update.Ops() {
			storeLet, ok := op.(*ir.StoreLetOp)
			if !ok {
				continue
			}
			variable := ir.NewIdentifierVariable(storeLet.DeclaredName, true)
			view.Update.Replace(storeLet, ir.NewVariableOp(
				job.AllocateXrefId(),
				variable,
				ir.NewStoreLetExpr(storeLet.Target, storeLet.Value, storeLet.SourceSpan),
				ir.VariableFlagsNone,
			))
		}
	}
}

// OptimizeStoreLet removes any `storeLet` calls that aren't referenced outside of the current view.
func OptimizeStoreLet(job compilation.Job) {
	letUsedExternally := make(map[ir.XrefId]bool)
	declareLetOps := make(map[ir.XrefId]*ir.DeclareLetOp)

	// `@let` declarations can be read by child views in listeners as well as
	// in update blocks, so every op is inspected.
	for _, unit := range job.GetUnits() {
		for _, op := range compilation.UnitOps(unit) {
			if declareLet, ok := op.(*ir.DeclareLetOp); ok {
				declareLetOps[declareLet.Xref] = declareLet
			}
			ir.VisitExpressionsInOp(op, func(expr output.OutputExpression, _ ir.VisitorContextFlag) {
				if ref, ok := expr.(*ir.ContextLetReferenceExpr); ok {
					letUsedExternally[ref.Target] = true
				}
			})
		}
	}

	for _, unit := range job.GetUnits() {
		for _, op := range unit.GetUpdate().Ops() {
			ir.TransformExpressionsInOp(op, func(expr output.OutputExpression, _ ir.VisitorContextFlag) output.OutputExpression {
				store, ok := expr.(*ir.StoreLetExpr)
				if !ok || letUsedExternally[store.Target] {
					return expr
				}
				// Pipes may inject from the node created by declareLet, so
				// it stays when the value uses one.
				if !hasPipe(store) {
					if declareLet, ok := declareLetOps[store.Target]; ok && declareLet.GetPrev() != nil {
						unit.GetCreate().Remove(declareLet)
					}
				}
				return store.Value
			}, ir.VisitorContextFlagNone)
		}
	}
}

func hasPipe(root *ir.StoreLetExpr) bool {
	result := false
	ir.TransformExpressionsInExpression(root.Value, func(expr output.OutputExpression, _ ir.VisitorContextFlag) output.OutputExpression {
		if _, ok := expr.(*ir.PipeBindingExpr); ok {
			result = true
		}
		return expr
	}, ir.VisitorContextFlagNone)
	return result
}
