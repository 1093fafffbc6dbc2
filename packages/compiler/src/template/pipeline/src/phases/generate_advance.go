package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
	"ngc-ir/packages/compiler/src/util"
)

// GenerateAdvance generates `ir.AdvanceOp`s in between `ir.UpdateOp`s that ensure the runtime's
// implicit slot context will be advanced correctly.
func GenerateAdvance(job compilation.Job) {
	slots := job.GetBase().Slots
	for _, unit := range job.GetUnits() {
		// First build a map of all of the declarations in the view that have assigned slots.
		slotMap := map[ir.XrefId]int{}
		for _, op := range unit.GetCreate().Ops() {
			consumer, ok := op.(ir.ConsumesSlot)
			if !ok {
				continue
			}
			trait := consumer.GetConsumesSlotTrait()
			slot, assigned := slots.Lookup(trait.Handle)
			if !assigned {
				panic(ir.NewInternalError("expected slots to have been allocated before generating advance() calls"))
			}
			slotMap[trait.Xref] = slot
		}

		// Next, step through the update operations and generate `ir.AdvanceOp`s as required to ensure
		// the runtime's implicit slot counter will be set to the correct slot before executing each
		// update operation which depends on it.
		//
		// To do that, we track what the runtime's slot counter will be through the update operations.
		slotContext := 0
		for _, op := range unit.GetUpdate().Ops() {
			target, span, ok := slotContextConsumer(op)
			if !ok {
				continue
			}

			slot, ok := slotMap[target]
			if !ok {
				// We expect ops that _do_ depend on the slot counter to point at declarations that exist in
				// the `slotMap`.
				panic(ir.NewInternalError("reference to unknown slot for target %d", target))
			}

			// Does the slot counter need to be adjusted?
			if slotContext == slot {
				continue
			}
			delta := slot - slotContext
			if delta < 0 {
				panic(ir.NewInternalError("slot counter should never need to move backwards"))
			}
			unit.GetUpdate().InsertBefore(op, ir.NewAdvanceOp(delta, span))
			slotContext = slot
		}
	}
}

// slotContextConsumer returns the declaration op depends on through the
// implicit slot context. Besides ops carrying the trait, `storeLet` calls
// store into the selected slot.
func slotContextConsumer(op ir.Op) (ir.XrefId, *util.ParseSourceSpan, bool) {
	if dep, ok := op.(ir.DependsOnSlotContext); ok {
		trait := dep.GetDependsOnSlotContextTrait()
		return trait.Target, trait.SourceSpan, true
	}
	var store *ir.StoreLetExpr
	ir.VisitExpressionsInOp(op, func(expr output.OutputExpression, flags ir.VisitorContextFlag) {
		if s, ok := expr.(*ir.StoreLetExpr); ok && store == nil && flags&ir.VisitorContextFlagInChildOperation == 0 {
			store = s
		}
	})
	if store == nil {
		return 0, nil, false
	}
	return store.Target, store.SourceSpan, true
}
