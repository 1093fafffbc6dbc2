package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
	pipeline_util "ngc-ir/packages/compiler/src/template/pipeline/src/util"
)

// ExtractAttributes records the names of element bindings and listeners in
// the const array of their element, where directive matching looks for them.
// Attribute bindings to a constant become static attributes.
func ExtractAttributes(job compilation.Job) {
	host := job.GetBase().Kind == compilation.CompilationJobKindHost
	for _, unit := range job.GetUnits() {
		elements := pipeline_util.CreateOpXrefMap(unit)
		insert := func(extracted *ir.ExtractedAttributeOp) {
			owner, ok := elements[extracted.Target]
			if !ok {
				if !host {
					panic(ir.NewInternalError("no element for extracted attribute target %d", extracted.Target))
				}
				unit.GetCreate().Push(extracted)
				return
			}
			// After the attributes ingestion already extracted, so names
			// keep template order within a section.
			anchor := ir.Op(owner)
			for next := anchor.GetNext(); ; next = next.GetNext() {
				e, ok := next.(*ir.ExtractedAttributeOp)
				if !ok || e.Target != extracted.Target {
					break
				}
				anchor = next
			}
			unit.GetCreate().InsertAfter(anchor, extracted)
		}

		for _, op := range unit.GetUpdate().Ops() {
			switch o := op.(type) {
			case *ir.AttributeOp:
				if o.Interpolation != nil {
					continue
				}
				if _, ok := o.Expression.(*output.LiteralExpr); !ok {
					continue
				}
				insert(ir.NewExtractedAttributeOp(o.Target, ir.BindingKindAttribute, o.Namespace, o.Name, o.Expression))
				unit.GetUpdate().Remove(op)
			case *ir.PropertyOp:
				if host {
					continue
				}
				kind := ir.BindingKindProperty
				if o.IsStructuralTemplateAttribute {
					kind = ir.BindingKindTemplate
				}
				insert(ir.NewExtractedAttributeOp(o.Target, kind, "", o.Name, nil))
			case *ir.TwoWayPropertyOp:
				insert(ir.NewExtractedAttributeOp(o.Target, ir.BindingKindTwoWayProperty, "", o.Name, nil))
			}
		}

		if host {
			continue
		}
		for _, op := range unit.GetCreate().Ops() {
			listener, ok := op.(*ir.ListenerOp)
			if !ok || listener.IsTwoWay {
				continue
			}
			insert(ir.NewExtractedAttributeOp(listener.Target, ir.BindingKindProperty, "", listener.Name, nil))
		}
	}
}
