package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// SaveAndRestoreView eagerly generates all save view variables; they will be optimized away later.
// When inside of a listener, we may need access to one or more enclosing views. Therefore, each
// view should save the current view, and each listener must have the ability to restore the
// appropriate view.
func SaveAndRestoreView(job *compilation.ComponentCompilationJob) {
	for _, view := range job.GetViews() {
		view.Create.Prepend([]ir.Op{
			ir.NewVariableOp(job.AllocateXrefId(), ir.NewSavedViewVariable(view.Xref), ir.NewGetCurrentViewExpr(), ir.VariableFlagsNone),
		})

		for _, op := range view.Create.Ops() {
			listener, ok := op.(*ir.ListenerOp)
			if !ok {
				continue
			}

			// Embedded views always need the save/restore view operations.
			needsRestoreView := view != job.Root
			if !needsRestoreView {
				// The root view only restores for reads of its slots.
				ir.VisitExpressionsInOp(listener, func(expr output.OutputExpression, _ ir.VisitorContextFlag) {
					switch expr.(type) {
					case *ir.ReferenceExpr, *ir.ContextLetReferenceExpr:
						needsRestoreView = true
					}
				})
			}
			if needsRestoreView {
				addSaveRestoreViewOperationToListener(view, listener)
			}
		}
	}
}

func addSaveRestoreViewOperationToListener(view *compilation.ViewCompilationUnit, listener *ir.ListenerOp) {
	listener.HandlerOps.Prepend([]ir.Op{
		ir.NewVariableOp(view.Job.AllocateXrefId(), ir.NewContextVariable(view.Xref), ir.NewRestoreViewExpr(view.Xref), ir.VariableFlagsNone),
	})

	// The "restore view" operations in listeners requires a call to `resetView` to reset the
	// context prior to returning from the listener operations. Find any `return` statements in
	// the listener body and wrap them in a call to reset the view.
	for _, handlerOp := range listener.HandlerOps.Ops() {
		stmtOp, ok := handlerOp.(*ir.StatementOp)
		if !ok {
			continue
		}
		if ret, ok := stmtOp.Statement.(*output.ReturnStatement); ok {
			ret.Value = ir.NewResetViewExpr(ret.Value)
		}
	}
}
