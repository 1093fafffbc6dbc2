package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/render3/view"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// OptimizeVariables optimizes variables declared and used in the IR.
//
// Variables are eagerly generated by pipeline stages for all possible values that could be
// referenced. This stage processes the list of declared variables and all variable usages,
// and optimizes where possible. It performs 3 main optimizations:
//
//   - It transforms variable declarations to side effectful expressions when the
//     variable is not used, but its initializer has global effects which other
//     operations rely upon.
//   - It removes variable declarations if those variables are not referenced and
//     either they do not have global effects, or nothing relies on them.
//   - It inlines variable declarations when those variables are only used once
//     and the inlining is semantically safe.
//
// To guarantee correctness, analysis of "fences" in the instruction lists is used to determine
// which optimizations are safe to perform.
func OptimizeVariables(job compilation.Job) {
	for _, unit := range job.GetUnits() {
		inlineAlwaysInlineVariables(unit.GetCreate())
		inlineAlwaysInlineVariables(unit.GetUpdate())
		for _, list := range childOpLists(unit) {
			inlineAlwaysInlineVariables(list)
		}

		optimizeVariablesInOpList(unit.GetCreate())
		optimizeVariablesInOpList(unit.GetUpdate())
		for _, list := range childOpLists(unit) {
			optimizeVariablesInOpList(list)
		}
	}
}

// childOpLists returns the handler lists of listeners and repeater track functions
func childOpLists(unit compilation.CompilationUnit) []*ir.OpList {
	var lists []*ir.OpList
	for _, op := range unit.GetCreate().Ops() {
		switch o := op.(type) {
		case *ir.ListenerOp:
			lists = append(lists, o.HandlerOps)
		case *ir.RepeaterCreateOp:
			if o.TrackByOps != nil {
				lists = append(lists, o.TrackByOps)
			}
		}
	}
	return lists
}

// fence is a bit set describing how an expression interacts with the
// runtime's current view context.
type fence int

const (
	fenceNone fence = 0
	// fenceViewContextRead: the expression reads from the current view context.
	fenceViewContextRead fence = 0b001
	// fenceViewContextWrite: the expression changes the current view context.
	fenceViewContextWrite fence = 0b010
	// fenceSideEffectful: the expression must run even if its result is unused.
	fenceSideEffectful fence = 0b100
)

// opInfo summarizes the variables an op reads and the fences it carries
type opInfo struct {
	variablesUsed map[ir.XrefId]bool
	fences        fence
}

func inlineAlwaysInlineVariables(ops *ir.OpList) {
	vars := map[ir.XrefId]*ir.VariableOp{}
	var order []*ir.VariableOp
	for _, op := range ops.Ops() {
		if v, ok := op.(*ir.VariableOp); ok && v.Flags&ir.VariableFlagsAlwaysInline != 0 {
			ir.VisitExpressionsInOp(v, func(expr output.OutputExpression, _ ir.VisitorContextFlag) {
				if e, ok := expr.(ir.Expression); ok && fencesForIrExpression(e) != fenceNone {
					panic(ir.NewInternalError("a context-sensitive variable was marked AlwaysInline"))
				}
			})
			vars[v.Xref] = v
			order = append(order, v)
		}
		ir.TransformExpressionsInOp(op, func(expr output.OutputExpression, _ ir.VisitorContextFlag) output.OutputExpression {
			if read, ok := expr.(*ir.ReadVariableExpr); ok {
				if v, ok := vars[read.Xref]; ok {
					return v.Initializer.Clone()
				}
			}
			return expr
		}, ir.VisitorContextFlagNone)
	}
	for _, v := range order {
		ops.Remove(v)
	}
}

func optimizeVariablesInOpList(ops *ir.OpList) {
	varDecls := map[ir.XrefId]*ir.VariableOp{}
	varUsages := map[ir.XrefId]int{}
	// Variables used outside of the immediate operation list, for example within the handler
	// operations of listeners in the current operation list.
	varRemoteUsages := map[ir.XrefId]bool{}
	infos := map[ir.Op]*opInfo{}
	var declOrder []ir.XrefId

	// First, extract information about variables declared or used within the whole list.
	for _, op := range ops.Ops() {
		if v, ok := op.(*ir.VariableOp); ok {
			if _, dup := varDecls[v.Xref]; dup {
				panic(ir.NewInternalError("should not see two declarations of the same variable: %d", v.Xref))
			}
			varDecls[v.Xref] = v
			varUsages[v.Xref] = 0
			declOrder = append(declOrder, v.Xref)
		}
		infos[op] = collectOpInfo(op)
		countVariableUsages(op, varUsages, varRemoteUsages)
	}

	// The next step is to remove any variable declarations for variables that aren't used. The
	// variable initializer expressions may be side-effectful, so they may need to be retained as
	// expression statements.

	// Track whether we've seen an operation which reads from the view context yet. This is used to
	// determine whether a context-sensitive initializer is safe to remove, or must be retained.
	contextIsUsed := false

	// Iteration happens in reverse, which guarantees that all reads of a variable are processed
	// prior to its declaration.
	snapshot := ops.Ops()
	for i := len(snapshot) - 1; i >= 0; i-- {
		op := snapshot[i]
		info := infos[op]

		if v, ok := op.(*ir.VariableOp); ok && varUsages[v.Xref] == 0 {
			// This variable is unused and can be removed. We might need to keep the initializer around,
			// though, if something depends on it running.
			if (contextIsUsed && info.fences&fenceViewContextWrite != 0) || info.fences&fenceSideEffectful != 0 {
				// The initializer either writes to the view context and a later op depends on that
				// write, or is inherently side-effectful. Keep it as a statement.
				stmtOp := ir.NewStatementOp(output.Stmt(v.Initializer))
				infos[stmtOp] = info
				ops.Replace(v, stmtOp)
			} else {
				// Removing this declaration may leave other variables unused. Since we're iterating
				// in reverse order, their declarations are still ahead of us.
				uncountVariableUsages(v, varUsages)
				ops.Remove(v)
			}
			delete(infos, op)
			delete(varDecls, v.Xref)
			delete(varUsages, v.Xref)
			continue
		}

		// Does this operation depend on the view context?
		if info.fences&fenceViewContextRead != 0 {
			contextIsUsed = true
		}
	}

	// Next, inline any remaining variables with exactly one usage.
	var toInline []ir.XrefId
	for _, id := range declOrder {
		count, ok := varUsages[id]
		if !ok {
			continue
		}
		decl := varDecls[id]
		// Variables used more than once, or across an operation boundary, stay.
		if count != 1 || decl.Flags&ir.VariableFlagsAlwaysInline != 0 || varRemoteUsages[id] {
			continue
		}
		toInline = append(toInline, id)
	}

	for len(toInline) > 0 {
		// We will attempt to inline this variable. If inlining fails (due to fences for example),
		// no future operation will make inlining legal.
		candidate := toInline[len(toInline)-1]
		toInline = toInline[:len(toInline)-1]
		decl := varDecls[candidate]
		declInfo := infos[decl]

		if decl.Flags&ir.VariableFlagsAlwaysInline != 0 {
			panic(ir.NewInternalError("found an 'AlwaysInline' variable after the always inlining pass"))
		}

		// Scan operations following the variable declaration and look for the point where that variable
		// is used. There should only be one usage given the precondition above.
		for target := decl.GetNext(); target.GetKind() != ir.OpKindListEnd; target = target.GetNext() {
			info := infos[target]

			if info.variablesUsed[candidate] {
				if !allowConservativeInlining(decl, target) {
					break
				}
				if tryInlineVariableInitializer(candidate, decl.Initializer, target, declInfo.fences) {
					// Inlining was successful! Update the tracking structures to reflect the inlined
					// variable.
					delete(info.variablesUsed, candidate)
					for id := range declInfo.variablesUsed {
						info.variablesUsed[id] = true
					}
					info.fences |= declInfo.fences

					delete(varDecls, candidate)
					delete(varUsages, candidate)
					delete(infos, decl)
					ops.Remove(decl)
				}
				// Whether inlining succeeded or failed, we're done processing this variable.
				break
			}

			// If the variable is not used in this operation, then we'd need to inline across it. Check if
			// that's safe to do.
			if !safeToInlinePastFences(info.fences, declInfo.fences) {
				break
			}
		}
	}
}

// fencesForIrExpression describes the fences of a single IR expression,
// not counting its children.
func fencesForIrExpression(expr ir.Expression) fence {
	switch expr.(type) {
	case *ir.NextContextExpr:
		return fenceViewContextRead | fenceViewContextWrite
	case *ir.RestoreViewExpr:
		return fenceViewContextRead | fenceViewContextWrite | fenceSideEffectful
	case *ir.StoreLetExpr:
		return fenceSideEffectful
	case *ir.ReferenceExpr, *ir.ContextLetReferenceExpr:
		return fenceViewContextRead
	}
	return fenceNone
}

func collectOpInfo(op ir.Op) *opInfo {
	info := &opInfo{variablesUsed: map[ir.XrefId]bool{}}
	ir.VisitExpressionsInOp(op, func(expr output.OutputExpression, _ ir.VisitorContextFlag) {
		e, ok := expr.(ir.Expression)
		if !ok {
			return
		}
		if read, ok := e.(*ir.ReadVariableExpr); ok {
			info.variablesUsed[read.Xref] = true
			return
		}
		info.fences |= fencesForIrExpression(e)
	})
	return info
}

// countVariableUsages counts the reads of variables declared in the current
// list. Reads inside child operations are also recorded as remote.
func countVariableUsages(op ir.Op, varUsages map[ir.XrefId]int, varRemoteUsages map[ir.XrefId]bool) {
	ir.VisitExpressionsInOp(op, func(expr output.OutputExpression, flags ir.VisitorContextFlag) {
		read, ok := expr.(*ir.ReadVariableExpr)
		if !ok {
			return
		}
		count, ok := varUsages[read.Xref]
		if !ok {
			// Declared outside the current scope of optimization.
			return
		}
		varUsages[read.Xref] = count + 1
		if flags&ir.VisitorContextFlagInChildOperation != 0 {
			varRemoteUsages[read.Xref] = true
		}
	})
}

func uncountVariableUsages(op ir.Op, varUsages map[ir.XrefId]int) {
	ir.VisitExpressionsInOp(op, func(expr output.OutputExpression, _ ir.VisitorContextFlag) {
		read, ok := expr.(*ir.ReadVariableExpr)
		if !ok {
			return
		}
		count, ok := varUsages[read.Xref]
		if !ok {
			return
		}
		if count == 0 {
			panic(ir.NewInternalError("inaccurate variable count: %d - found another read but count is already 0", read.Xref))
		}
		varUsages[read.Xref] = count - 1
	})
}

// safeToInlinePastFences reports whether an initializer with declFences may
// move across an op carrying fences.
func safeToInlinePastFences(fences, declFences fence) bool {
	if fences&fenceViewContextWrite != 0 {
		// An operation which writes the view context can't be crossed by a read of it.
		if declFences&fenceViewContextRead != 0 {
			return false
		}
	} else if fences&fenceViewContextRead != 0 {
		// Nor can a write cross a read.
		if declFences&fenceViewContextWrite != 0 {
			return false
		}
	}
	return true
}

// tryInlineVariableInitializer replaces the read of id in target with
// initializer, unless an IR expression evaluated before the read forbids it.
func tryInlineVariableInitializer(id ir.XrefId, initializer output.OutputExpression, target ir.Op, declFences fence) bool {
	inlined := false
	inliningAllowed := true

	ir.TransformExpressionsInOp(target, func(expr output.OutputExpression, flags ir.VisitorContextFlag) output.OutputExpression {
		e, ok := expr.(ir.Expression)
		if !ok || inlined || !inliningAllowed {
			return expr
		}
		if flags&ir.VisitorContextFlagInChildOperation != 0 && declFences&fenceViewContextRead != 0 {
			// Variables sensitive to the current context can't move into operation closures.
			return expr
		}
		if read, ok := e.(*ir.ReadVariableExpr); ok {
			if read.Xref == id {
				inlined = true
				return initializer
			}
			return expr
		}
		inliningAllowed = safeToInlinePastFences(fencesForIrExpression(e), declFences)
		return expr
	}, ir.VisitorContextFlagNone)
	return inlined
}

// allowConservativeInlining keeps the declarations the runtime's reference
// output keeps: identifiers stay declared unless they alias `ctx`, and
// contexts are only inlined into other variables.
func allowConservativeInlining(decl *ir.VariableOp, target ir.Op) bool {
	switch decl.Variable.(type) {
	case *ir.IdentifierVariable:
		read, ok := decl.Initializer.(*output.ReadVarExpr)
		return ok && read.Name == view.CONTEXT_NAME
	case *ir.ContextVariable:
		_, ok := target.(*ir.VariableOp)
		return ok
	}
	return true
}
