package phases

import (
	"strings"

	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// RemoveContentSelectors drops the `select` attribute of `<ng-content>`. The
// selector feeds the projection definition and is never rendered.
func RemoveContentSelectors(job *compilation.ComponentCompilationJob) {
	for _, unit := range job.GetUnits() {
		projections := map[ir.XrefId]bool{}
		for _, op := range unit.GetCreate().Ops() {
			if projection, ok := op.(*ir.ProjectionOp); ok {
				projections[projection.Xref] = true
			}
		}
		for _, op := range unit.GetCreate().Ops() {
			attr, ok := op.(*ir.ExtractedAttributeOp)
			if ok && projections[attr.Target] && isSelectAttribute(attr.Name) {
				unit.GetCreate().Remove(op)
			}
		}
	}
}

func isSelectAttribute(name string) bool {
	return strings.ToLower(name) == "select"
}
