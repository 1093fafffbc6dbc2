package phases

import (
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// ResolveDefinitions marks the pipe dependency behind every pipe op as used.
// Directive usage is already recorded while matching elements at ingestion.
func ResolveDefinitions(job *compilation.ComponentCompilationJob) {
	for _, unit := range job.GetUnits() {
		for _, op := range unit.GetCreate().Ops() {
			if pipe, ok := op.(*ir.PipeOp); ok {
				job.MarkPipeUsed(pipe.Name)
			}
		}
	}
}
