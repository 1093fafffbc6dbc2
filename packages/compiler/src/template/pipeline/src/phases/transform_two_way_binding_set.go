package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
	pipeline_instruction "ngc-ir/packages/compiler/src/template/pipeline/src/instruction"
)

// TransformTwoWayBindingSet transforms a `TwoWayBindingSet` expression into an expression that either
// sets a value through the `twoWayBindingSet` instruction or falls back to setting
// the value directly. E.g. the expression `TwoWayBindingSet(target, value)` becomes:
// `ng.twoWayBindingSet(target, value) || (target = value)`.
func TransformTwoWayBindingSet(job compilation.Job) {
	for _, unit := range job.GetUnits() {
		for _, op := range unit.GetCreate().Ops() {
			listener, ok := op.(*ir.ListenerOp)
			if !ok || !listener.IsTwoWay {
				continue
			}
			// Scoped by iterating the handler's own ops; the rewrite ignores flags.
			for _, handlerOp := range listener.HandlerOps.Ops() {
				ir.TransformExpressionsInOp(handlerOp, transformTwoWayBindingSetExpr, ir.VisitorContextFlagInChildOperation)
			}
		}
	}
}

func transformTwoWayBindingSetExpr(expr output.OutputExpression, _ ir.VisitorContextFlag) output.OutputExpression {
	set, ok := expr.(*ir.TwoWayBindingSetExpr)
	if !ok {
		return expr
	}
	return TwoWayBindingSetCall(set.Target, set.Value)
}

// TwoWayBindingSetCall lowers a two-way write of value into target
func TwoWayBindingSetCall(target, value output.OutputExpression) output.OutputExpression {
	switch target.(type) {
	case *output.ReadPropExpr, *output.ReadKeyExpr:
		// `ng.twoWayBindingSet(target, value) || (target = value)`
		return output.Binary(output.BinaryOperatorOr,
			pipeline_instruction.TwoWayBindingSet(target, value),
			output.NewParenthesizedExpr(output.Assign(target.Clone(), value.Clone()), nil))
	case *ir.ReadVariableExpr:
		// A template variable is not assignable; a fallback assignment would
		// write into a constant. Invalid usages are flagged by the type checker.
		return pipeline_instruction.TwoWayBindingSet(target, value)
	}
	panic(ir.NewInternalError("unsupported expression in two-way action binding: %T", target))
}
