package phases

import (
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// EmitNamespaceChanges inserts a namespace switch before each element whose
// namespace differs from the active one. Every view starts out in HTML.
func EmitNamespaceChanges(job *compilation.ComponentCompilationJob) {
	for _, unit := range job.GetUnits() {
		active := ir.NamespaceHTML
		for _, op := range unit.GetCreate().Ops() {
			start, ok := op.(*ir.ElementStartOp)
			if !ok || start.Namespace == active {
				continue
			}
			unit.GetCreate().InsertBefore(op, ir.NewNamespaceOp(start.Namespace))
			active = start.Namespace
		}
	}
}
