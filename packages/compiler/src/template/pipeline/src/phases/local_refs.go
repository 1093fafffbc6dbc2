package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// LiftLocalRefs lifts local reference declarations on element-like structures within each view
// into an entry in the `consts` array for the whole component. Every reference also takes one
// data slot after its element.
func LiftLocalRefs(job *compilation.ComponentCompilationJob) {
	for _, unit := range job.GetUnits() {
		for _, op := range unit.GetCreate().Ops() {
			switch op.(type) {
			case *ir.ElementStartOp, *ir.ElementOp, *ir.ContainerStartOp, *ir.ContainerOp,
				*ir.TemplateOp, *ir.ConditionalCreateOp, *ir.ConditionalBranchCreateOp:
				base := op.(ir.ElementOrContainerOp).GetElementBase()
				if base.LocalRefsIndex != nil {
					panic(ir.NewInternalError("local refs of %d lifted twice", base.Xref))
				}
				base.NumSlotsUsed += len(base.LocalRefs)
				if len(base.LocalRefs) > 0 {
					index := job.AddConst(serializeLocalRefs(base.LocalRefs), nil)
					base.LocalRefsIndex = &index
				}
			}
		}
	}
}

func serializeLocalRefs(refs []ir.LocalRef) output.OutputExpression {
	constRefs := make([]output.OutputExpression, 0, len(refs)*2)
	for _, ref := range refs {
		constRefs = append(constRefs, output.Literal(ref.Name), output.Literal(ref.Target))
	}
	return output.LiteralArr(constRefs...)
}
