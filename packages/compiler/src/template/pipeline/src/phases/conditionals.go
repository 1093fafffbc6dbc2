package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// GenerateConditionalExpressions folds the cases of each conditional into a
// single expression evaluating to the slot of the branch to render, or -1.
// A `@switch` test is stored in a temporary so it is evaluated only once.
func GenerateConditionalExpressions(job *compilation.ComponentCompilationJob) {
	for _, unit := range job.GetUnits() {
		for _, op := range unit.GetUpdate().Ops() {
			cond, ok := op.(*ir.ConditionalOp)
			if !ok {
				continue
			}

			var test output.OutputExpression = output.Literal(-1)
			conditions := cond.Conditions
			for i, c := range conditions {
				if c.Expr == nil {
					test = ir.NewSlotLiteralExpr(c.TargetSlot)
					conditions = append(conditions[:i:i], conditions[i+1:]...)
					break
				}
			}

			var tmp *ir.AssignTemporaryExpr
			if cond.Test != nil {
				tmp = ir.NewAssignTemporaryExpr(cond.Test, job.AllocateXrefId())
			}

			for i := len(conditions) - 1; i >= 0; i-- {
				c := conditions[i]
				if c.Expr == nil {
					continue
				}
				if tmp != nil {
					var subject output.OutputExpression = tmp
					if i != 0 {
						subject = ir.NewReadTemporaryExpr(tmp.Xref)
					}
					c.Expr = output.Binary(output.BinaryOperatorIdentical, subject, c.Expr)
				} else if c.Alias != nil {
					xref := job.AllocateXrefId()
					c.Expr = ir.NewAssignTemporaryExpr(c.Expr, xref)
					cond.ContextValue = ir.NewReadTemporaryExpr(xref)
				}
				test = output.Conditional(c.Expr, ir.NewSlotLiteralExpr(c.TargetSlot), test)
			}

			cond.Processed = test
			cond.Conditions = nil
		}
	}
}
