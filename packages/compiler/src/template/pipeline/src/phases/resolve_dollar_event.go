package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// ResolveDollarEvent transforms any variable inside a listener with the name `$event` into a output
// lexical read immediately, and does not participate in any of the normal logic for handling variables.
func ResolveDollarEvent(job compilation.Job) {
	for _, unit := range job.GetUnits() {
		for _, op := range unit.GetCreate().Ops() {
			listener, ok := op.(*ir.ListenerOp)
			if !ok {
				continue
			}
			ir.TransformExpressionsInOp(listener, func(expr output.OutputExpression, _ ir.VisitorContextFlag) output.OutputExpression {
				read, ok := expr.(*ir.LexicalReadExpr)
				if !ok || read.Name != "$event" {
					return expr
				}
				// Two-way listeners always consume `$event` so they omit this field.
				if !listener.IsTwoWay {
					listener.ConsumesDollarEvent = true
				}
				return output.NewReadVarExpr(read.Name, read.SourceSpan)
			}, ir.VisitorContextFlagInChildOperation)
		}
	}
}
