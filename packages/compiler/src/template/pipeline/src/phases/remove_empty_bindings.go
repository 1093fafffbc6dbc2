package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// RemoveEmptyBindings drops bindings whose expression is empty, e.g. `[foo]=""`.
// They would only ever set the property to undefined.
func RemoveEmptyBindings(job compilation.Job) {
	for _, unit := range job.GetUnits() {
		for _, op := range unit.GetUpdate().Ops() {
			var expr output.OutputExpression
			switch o := op.(type) {
			case *ir.PropertyOp:
				expr = o.Expression
			case *ir.TwoWayPropertyOp:
				expr = o.Expression
			case *ir.AttributeOp:
				expr = o.Expression
			case *ir.ClassPropOp:
				expr = o.Expression
			case *ir.StylePropOp:
				expr = o.Expression
			case *ir.ClassMapOp:
				expr = o.Expression
			case *ir.StyleMapOp:
				expr = o.Expression
			default:
				continue
			}
			if _, empty := expr.(*ir.EmptyExpr); empty {
				unit.GetUpdate().Remove(op)
			}
		}
	}
}
