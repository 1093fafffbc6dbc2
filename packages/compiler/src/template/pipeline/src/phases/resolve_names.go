package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// savedView is the variable snapshotting the current view of a unit
type savedView struct {
	view     ir.XrefId
	variable ir.XrefId
}

// ResolveNames resolves lexical references in views (`ir.LexicalReadExpr`) to either a target variable or to
// property reads on the top-level component context.
//
// Also matches `ir.RestoreViewExpr` expressions with the variables of their corresponding saved
// views.
func ResolveNames(job compilation.Job) {
	root := job.GetRoot().GetXref()
	for _, unit := range job.GetUnits() {
		processLexicalScope(unit, root, unit.GetCreate(), nil)
		processLexicalScope(unit, root, unit.GetUpdate(), nil)
	}
}

func processLexicalScope(unit compilation.CompilationUnit, root ir.XrefId, ops *ir.OpList, saved *savedView) {
	// Maps names defined in the lexical scope of this template to the `ir.XrefId`s of the variable
	// declarations which represent those values.
	//
	// Since variables are generated in each view for the entire lexical scope (including any
	// identifiers from parent templates) only local variables need be considered here.
	scope := map[string]ir.XrefId{}

	// Symbols defined within the current scope. They take precedence over ones defined outside.
	localDefinitions := map[string]ir.XrefId{}

	for _, op := range ops.Ops() {
		switch o := op.(type) {
		case *ir.VariableOp:
			switch v := o.Variable.(type) {
			case *ir.IdentifierVariable:
				if v.Local {
					if _, ok := localDefinitions[v.Identifier]; ok {
						continue
					}
					localDefinitions[v.Identifier] = o.Xref
				} else if _, ok := scope[v.Identifier]; ok {
					continue
				}
				scope[v.Identifier] = o.Xref
			case *ir.AliasVariable:
				if _, ok := scope[v.Identifier]; ok {
					continue
				}
				scope[v.Identifier] = o.Xref
			case *ir.SavedViewVariable:
				saved = &savedView{view: v.View, variable: o.Xref}
			}
		case *ir.ListenerOp:
			// Listener functions have separate variable declarations, so process them as a separate
			// lexical scope.
			processLexicalScope(unit, root, o.HandlerOps, saved)
		case *ir.RepeaterCreateOp:
			if o.TrackByOps != nil {
				processLexicalScope(unit, root, o.TrackByOps, saved)
			}
		}
	}

	for _, op := range ops.Ops() {
		switch op.(type) {
		case *ir.ListenerOp:
			// Already processed with its own scope.
			continue
		case *ir.RepeaterCreateOp:
			if op.(*ir.RepeaterCreateOp).TrackByOps != nil {
				continue
			}
		}
		ir.TransformExpressionsInOp(op, func(expr output.OutputExpression, _ ir.VisitorContextFlag) output.OutputExpression {
			switch e := expr.(type) {
			case *ir.LexicalReadExpr:
				if xref, ok := localDefinitions[e.Name]; ok {
					return ir.NewReadVariableExpr(xref)
				}
				if xref, ok := scope[e.Name]; ok {
					return ir.NewReadVariableExpr(xref)
				}
				// Reading from the component context.
				return output.NewReadPropExpr(ir.NewContextExpr(root), e.Name, e.SourceSpan)
			case *ir.RestoreViewExpr:
				// Restores happen in listeners and read the view snapshotted
				// by the enclosing create list.
				if saved == nil || saved.view != e.View {
					panic(ir.NewInternalError("no saved view %d from view %d", e.View, unit.GetXref()))
				}
				e.Expr = ir.NewReadVariableExpr(saved.variable)
			}
			return expr
		}, ir.VisitorContextFlagNone)
	}

	for _, op := range ops.Ops() {
		if _, ok := op.(*ir.ListenerOp); ok {
			continue
		}
		ir.VisitExpressionsInOp(op, func(expr output.OutputExpression, _ ir.VisitorContextFlag) {
			if read, ok := expr.(*ir.LexicalReadExpr); ok {
				panic(ir.NewInternalError("no lexical reads should remain, but found read of %s", read.Name))
			}
		})
	}
}
