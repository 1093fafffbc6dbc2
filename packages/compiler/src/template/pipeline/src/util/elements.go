package pipeline_util

import (
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// CreateOpXrefMap indexes the slot-consuming create ops of unit by xref. The
// `@empty` view of a repeater maps to the repeater op itself, which carries
// its slot and attributes.
func CreateOpXrefMap(unit compilation.CompilationUnit) map[ir.XrefId]ir.ConsumesSlot {
	result := map[ir.XrefId]ir.ConsumesSlot{}
	for _, op := range unit.GetCreate().Ops() {
		consumer, ok := op.(ir.ConsumesSlot)
		if !ok {
			continue
		}
		result[consumer.GetConsumesSlotTrait().Xref] = consumer
		if repeater, ok := op.(*ir.RepeaterCreateOp); ok && repeater.EmptyView != 0 {
			result[repeater.EmptyView] = consumer
		}
	}
	return result
}

// LookupElement returns the element-like op with the given xref, panicking
// when there is none
func LookupElement(elements map[ir.XrefId]ir.ConsumesSlot, xref ir.XrefId) ir.ElementOrContainerOp {
	el, ok := elements[xref].(ir.ElementOrContainerOp)
	if !ok {
		panic(ir.NewInternalError("all attributes should have an element-like target, %d has none", xref))
	}
	return el
}
