package phases

import (
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// CollapseEmptyInstructions replaces sequences of mergable instructions (e.g. `ElementStart` and `ElementEnd`)
// with a consolidated instruction (e.g. `Element`).
func CollapseEmptyInstructions(job compilation.Job) {
	for _, unit := range job.GetUnits() {
		create := unit.GetCreate()
		for _, op := range create.Ops() {
			switch op.(type) {
			case *ir.ElementEndOp, *ir.ContainerEndOp:
			default:
				continue
			}

			// Locate the previous op, looking past pipes.
			prev := op.GetPrev()
			for prev.GetKind() == ir.OpKindPipe {
				prev = prev.GetPrev()
			}

			switch start := prev.(type) {
			case *ir.ElementStartOp:
				if _, ok := op.(*ir.ElementEndOp); !ok {
					continue
				}
				create.Replace(start, ir.NewElementOpFrom(start))
				create.Remove(op)
			case *ir.ContainerStartOp:
				if _, ok := op.(*ir.ContainerEndOp); !ok {
					continue
				}
				create.Replace(start, ir.NewContainerOpFrom(start))
				create.Remove(op)
			}
		}
	}
}
