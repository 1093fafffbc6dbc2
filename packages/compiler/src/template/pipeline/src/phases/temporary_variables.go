package phases

import (
	"fmt"

	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// GenerateTemporaryVariables finds all assignments and usages of temporary variables, which are linked to each other with cross
// references. Generate names for each cross-reference, and add a `DeclareVarStmt` to initialize
// them at the beginning of the update block.
func GenerateTemporaryVariables(job compilation.Job) {
	for _, unit := range job.GetUnits() {
		unit.GetCreate().Prepend(generateTemporaries(unit.GetCreate()))
		unit.GetUpdate().Prepend(generateTemporaries(unit.GetUpdate()))
	}
}

func generateTemporaries(ops *ir.OpList) []ir.Op {
	opCount := 0
	var generated []ir.Op

	// For each op, search for any variables that are assigned or read. For each variable, generate a
	// name and produce a `DeclareVarStmt` to the beginning of the block.
	for _, op := range ops.Ops() {
		// Identify the final time each temp var is read.
		finalReads := map[ir.XrefId]*ir.ReadTemporaryExpr{}
		ir.VisitExpressionsInOp(op, func(expr output.OutputExpression, flags ir.VisitorContextFlag) {
			if flags&ir.VisitorContextFlagInChildOperation != 0 {
				return
			}
			if read, ok := expr.(*ir.ReadTemporaryExpr); ok {
				finalReads[read.Xref] = read
			}
		})

		// Name the temp vars, accounting for the fact that a name can be reused after it has been
		// read for the final time.
		count := 0
		defs := map[ir.XrefId]string{}
		var names []string
		seen := map[string]bool{}
		ir.VisitExpressionsInOp(op, func(expr output.OutputExpression, flags ir.VisitorContextFlag) {
			if flags&ir.VisitorContextFlagInChildOperation != 0 {
				return
			}
			switch e := expr.(type) {
			case *ir.AssignTemporaryExpr:
				if _, ok := defs[e.Xref]; !ok {
					name := fmt.Sprintf("tmp_%d_%d", opCount, count)
					count++
					defs[e.Xref] = name
					if !seen[name] {
						seen[name] = true
						names = append(names, name)
					}
				}
				e.Name = temporaryName(defs, e.Xref)
			case *ir.ReadTemporaryExpr:
				if finalReads[e.Xref] == e {
					count--
				}
				e.Name = temporaryName(defs, e.Xref)
			}
		})

		// Add declarations for the temp vars.
		for _, name := range names {
			generated = append(generated, ir.NewStatementOp(output.NewDeclareVarStmt(name, nil, output.StmtModifierNone, nil)))
		}
		opCount++

		switch o := op.(type) {
		case *ir.ListenerOp:
			o.HandlerOps.Prepend(generateTemporaries(o.HandlerOps))
		case *ir.RepeaterCreateOp:
			if o.TrackByOps != nil {
				o.TrackByOps.Prepend(generateTemporaries(o.TrackByOps))
			}
		}
	}
	return generated
}

func temporaryName(names map[ir.XrefId]string, xref ir.XrefId) string {
	name, ok := names[xref]
	if !ok {
		panic(ir.NewInternalError("found xref with unassigned name: %d", xref))
	}
	return name
}
