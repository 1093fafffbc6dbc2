package phases

import (
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// AllocateSlots assigns data slots for all operations which implement `ConsumesSlotOpTrait`.
// Expressions referring to a slot share the handle of the declaring op, so assigning the handle
// in the job's arena makes the index visible to all of them.
//
// This phase is also responsible for counting the number of slots used for each view (its `decls`)
// and propagating that number into the operations which declare embedded views.
func AllocateSlots(job *compilation.ComponentCompilationJob) {
	for _, view := range job.GetViews() {
		// Slot indices start at 0 for each view (and are not unique between views).
		slotCount := 0
		for _, op := range view.Create.Ops() {
			consumer, ok := op.(ir.ConsumesSlot)
			if !ok {
				continue
			}
			trait := consumer.GetConsumesSlotTrait()
			job.Slots.Assign(trait.Handle, slotCount)
			// Each declaration may use more than 1 slot.
			slotCount += trait.NumSlotsUsed
		}
		view.Decls = slotCount
	}

	// Propagate the number of slots used for each view into the operations which declare it.
	for _, view := range job.GetViews() {
		for _, op := range view.Create.Ops() {
			declaring, ok := op.(ir.EmbeddedViewOp)
			if !ok {
				continue
			}
			base := declaring.GetEmbeddedViewBase()
			base.Decls = childView(view, base.Xref).Decls
			if repeater, ok := op.(*ir.RepeaterCreateOp); ok && repeater.EmptyView != 0 {
				repeater.EmptyDecls = childView(view, repeater.EmptyView).Decls
			}
		}
	}
}
