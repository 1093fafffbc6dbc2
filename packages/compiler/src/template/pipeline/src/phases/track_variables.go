package phases

import (
	"slices"

	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// GenerateTrackVariables finds variable usages inside the `track` expression on a `for` repeater,
// where the `$index` and `$item` variables are ambiently available, and replaces them with the
// appropriate output read.
func GenerateTrackVariables(job *compilation.ComponentCompilationJob) {
	for _, view := range job.GetViews() {
		for _, op := range view.Create.Ops() {
			repeater, ok := op.(*ir.RepeaterCreateOp)
			if !ok {
				continue
			}
			repeater.Track = ir.TransformExpressionsInExpression(repeater.Track, func(expr output.OutputExpression, _ ir.VisitorContextFlag) output.OutputExpression {
				read, ok := expr.(*ir.LexicalReadExpr)
				if !ok {
					return expr
				}
				if slices.Contains(repeater.VarNames.DollarIndex, read.Name) {
					return output.Variable("$index")
				}
				if read.Name == repeater.VarNames.DollarImplicit {
					return output.Variable("$item")
				}
				// Anything else is a read of the component, resolved by name
				// resolution.
				return expr
			}, ir.VisitorContextFlagNone)
		}
	}
}
