package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// CreatePipes adds a pipe creation op to the end of the create block of each
// view, for every pipe binding used by its update block.
func CreatePipes(job *compilation.ComponentCompilationJob) {
	for _, unit := range job.GetUnits() {
		processPipeBindingsInView(unit)
	}
}

func processPipeBindingsInView(unit compilation.CompilationUnit) {
	for _, updateOp := range unit.GetUpdate().Ops() {
		ir.VisitExpressionsInOp(updateOp, func(expr output.OutputExpression, flags ir.VisitorContextFlag) {
			pipe, ok := expr.(*ir.PipeBindingExpr)
			if !ok {
				return
			}
			if flags&ir.VisitorContextFlagInChildOperation != 0 {
				panic(ir.NewInternalError("pipe bindings should not appear in child expressions"))
			}
			unit.GetCreate().Push(ir.NewPipeOp(pipe.Target, pipe.TargetSlot, pipe.Name))
		})
	}
}
