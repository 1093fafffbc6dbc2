package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// slotOwners indexes every slot-consuming create op of the job by xref
func slotOwners(job compilation.Job) map[ir.XrefId]ir.ConsumesSlot {
	owners := map[ir.XrefId]ir.ConsumesSlot{}
	for _, unit := range job.GetUnits() {
		for _, op := range unit.GetCreate().Ops() {
			if c, ok := op.(ir.ConsumesSlot); ok {
				owners[c.GetConsumesSlotTrait().Xref] = c
			}
		}
	}
	return owners
}

// transformUnitExpressions applies transform to every expression of the
// unit. Child operations are reached through their owning op.
func transformUnitExpressions(unit compilation.CompilationUnit, transform ir.ExpressionTransform) {
	for _, list := range []*ir.OpList{unit.GetCreate(), unit.GetUpdate()} {
		for _, op := range list.Ops() {
			ir.TransformExpressionsInOp(op, transform, ir.VisitorContextFlagNone)
		}
	}
}

// visitUnitExpressions is the read-only counterpart of transformUnitExpressions
func visitUnitExpressions(unit compilation.CompilationUnit, visitor func(expr output.OutputExpression, flags ir.VisitorContextFlag)) {
	transformUnitExpressions(unit, func(expr output.OutputExpression, flags ir.VisitorContextFlag) output.OutputExpression {
		visitor(expr, flags)
		return expr
	})
}

func stringLiteral(expr output.OutputExpression) (string, bool) {
	lit, ok := expr.(*output.LiteralExpr)
	if !ok {
		return "", false
	}
	s, ok := lit.Value.(string)
	return s, ok
}
