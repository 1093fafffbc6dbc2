package phases

import (
	"fmt"
	"sort"

	"ngc-ir/packages/compiler/src/core"
	"ngc-ir/packages/compiler/src/diagnostics"
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
	pipeline_conversion "ngc-ir/packages/compiler/src/template/pipeline/src/conversion"
)

// shareProjectionConsts forces the selector constants into the pool even on
// first use.
const shareProjectionConsts = true

// GenerateProjectionDefs numbers the projections of the component in
// template source order, fills in `ngContentSelectors` and adds the
// `projectionDef` instruction to the root view.
func GenerateProjectionDefs(job *compilation.ComponentCompilationJob) {
	var projections []*ir.ProjectionOp
	for _, unit := range job.GetUnits() {
		for _, op := range unit.GetCreate().Ops() {
			if projection, ok := op.(*ir.ProjectionOp); ok {
				projections = append(projections, projection)
			}
		}
	}
	if len(projections) == 0 {
		return
	}

	// Views are visited in allocation order, which differs from source order
	// when an `<ng-content>` sits inside an embedded view.
	sort.SliceStable(projections, func(i, j int) bool {
		return projections[i].SourceOrder < projections[j].SourceOrder
	})

	selectors := make([]string, len(projections))
	for i, projection := range projections {
		projection.ProjectionSlotIndex = i
		selectors[i] = projection.Selector
	}

	// A lone wildcard is the runtime default and needs no selector list, but
	// the definition itself is always required.
	var def output.OutputExpression
	if len(selectors) > 1 || selectors[0] != "*" {
		entries := make([]interface{}, len(selectors))
		for i, selector := range selectors {
			if selector == "*" {
				entries[i] = selector
				continue
			}
			parsed, err := core.ParseSelectorToR3Selector(selector)
			if err != nil {
				job.Diagnostics.Add(diagnostics.NewError(diagnostics.CodeTemplateParseError, projections[i].SourceSpan,
					fmt.Sprintf("Invalid projection selector %q: %v", selector, err)))
				entries[i] = selector
				continue
			}
			entries[i] = parsed
		}
		def = job.Pool.GetConstLiteral(pipeline_conversion.LiteralOrArrayLiteral(entries), shareProjectionConsts)
	}

	job.ContentSelectors = job.Pool.GetConstLiteral(output.LiteralStrings(selectors), shareProjectionConsts)
	job.Root.Create.Prepend([]ir.Op{ir.NewProjectionDefOp(def)})
}
