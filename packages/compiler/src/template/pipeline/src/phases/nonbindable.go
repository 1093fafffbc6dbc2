package phases

import (
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// DisableBindings emits `disableBindings` and `enableBindings` instructions around the children
// of every element or container marked with `ngNonBindable`. The non-bindable characteristic
// applies to all descendants, so nested markers each get their own pair.
func DisableBindings(job *compilation.ComponentCompilationJob) {
	elements := map[ir.XrefId]*ir.ElementOrContainerOpBase{}
	for _, unit := range job.GetUnits() {
		for _, op := range unit.GetCreate().Ops() {
			if el, ok := op.(ir.ElementOrContainerOp); ok {
				elements[el.GetElementBase().Xref] = el.GetElementBase()
			}
		}
	}

	for _, unit := range job.GetUnits() {
		create := unit.GetCreate()
		for _, op := range create.Ops() {
			switch o := op.(type) {
			case *ir.ElementStartOp:
				if o.NonBindable {
					create.InsertAfter(o, ir.NewDisableBindingsOp(o.Xref))
				}
			case *ir.ContainerStartOp:
				if o.NonBindable {
					create.InsertAfter(o, ir.NewDisableBindingsOp(o.Xref))
				}
			case *ir.ElementEndOp:
				if lookupNonBindable(elements, o.Xref) {
					create.InsertBefore(o, ir.NewEnableBindingsOp(o.Xref))
				}
			case *ir.ContainerEndOp:
				if lookupNonBindable(elements, o.Xref) {
					create.InsertBefore(o, ir.NewEnableBindingsOp(o.Xref))
				}
			}
		}
	}
}

func lookupNonBindable(elements map[ir.XrefId]*ir.ElementOrContainerOpBase, xref ir.XrefId) bool {
	el, ok := elements[xref]
	if !ok {
		panic(ir.NewInternalError("all end ops should have an element-like start"))
	}
	return el.NonBindable
}
