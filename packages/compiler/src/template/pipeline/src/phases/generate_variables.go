package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// GenerateVariables prepends to each view's update block, each listener
// handler and each track function a preamble declaring every variable the
// code might read: context variables, aliases, local references and `@let`
// declarations of the view and of all its ancestors. Ancestor variables are
// reached through `nextContext()` steps. Unused declarations are dropped
// later by variable optimization.
func GenerateVariables(job *compilation.ComponentCompilationJob) {
	recursivelyProcessView(job.Root, nil)
}

// scope is the set of names a view makes available to itself and its
// descendants. Scopes are kept on an explicit stack during the traversal,
// innermost last.
type scope struct {
	view ir.XrefId

	// Shared by every next-context variable stepping into this view.
	viewContextVariable *ir.ContextVariable

	contextVariables map[string]*ir.IdentifierVariable
	aliases          []*ir.AliasVariable
	references       []scopeReference
	letDeclarations  []scopeLetDeclaration
}

type scopeReference struct {
	targetId   ir.XrefId
	targetSlot ir.SlotHandle
	offset     int
	variable   *ir.IdentifierVariable
}

type scopeLetDeclaration struct {
	targetId   ir.XrefId
	targetSlot ir.SlotHandle
	variable   *ir.IdentifierVariable
}

func recursivelyProcessView(view *compilation.ViewCompilationUnit, stack []*scope) {
	s := getScopeForView(view)
	// Full slice expression: siblings must not share the appended tail.
	stack = append(stack[:len(stack):len(stack)], s)

	for _, op := range view.Create.Ops() {
		switch o := op.(type) {
		case *ir.TemplateOp:
			recursivelyProcessView(childView(view, o.Xref), stack)
		case *ir.ConditionalCreateOp:
			recursivelyProcessView(childView(view, o.Xref), stack)
		case *ir.ConditionalBranchCreateOp:
			recursivelyProcessView(childView(view, o.Xref), stack)
		case *ir.RepeaterCreateOp:
			recursivelyProcessView(childView(view, o.Xref), stack)
			if o.EmptyView != 0 {
				recursivelyProcessView(childView(view, o.EmptyView), stack)
			}
			if o.TrackByOps != nil {
				o.TrackByOps.Prepend(generateVariablesInScopeForView(view, stack, false))
			}
		case *ir.ListenerOp:
			o.HandlerOps.Prepend(generateVariablesInScopeForView(view, stack, true))
		}
	}
	view.Update.Prepend(generateVariablesInScopeForView(view, stack, false))
}

func childView(view *compilation.ViewCompilationUnit, xref ir.XrefId) *compilation.ViewCompilationUnit {
	child, ok := view.Job.Views[xref]
	if !ok {
		panic(ir.NewInternalError("no view with xref %d", xref))
	}
	return child
}

func getScopeForView(view *compilation.ViewCompilationUnit) *scope {
	s := &scope{
		view:                view.Xref,
		viewContextVariable: ir.NewContextVariable(view.Xref),
		contextVariables:    map[string]*ir.IdentifierVariable{},
		aliases:             view.Aliases,
	}
	for _, cv := range view.ContextVariables {
		s.contextVariables[cv.Name] = ir.NewIdentifierVariable(cv.Name, false)
	}

	for _, op := range view.Create.Ops() {
		switch o := op.(type) {
		case *ir.ElementStartOp, *ir.ContainerStartOp, *ir.TemplateOp, *ir.ConditionalCreateOp, *ir.ConditionalBranchCreateOp:
			base := o.(ir.ElementOrContainerOp).GetElementBase()
			for offset, ref := range base.LocalRefs {
				s.references = append(s.references, scopeReference{
					targetId:   base.Xref,
					targetSlot: base.Handle,
					offset:     offset,
					variable:   ir.NewIdentifierVariable(ref.Name, false),
				})
			}
		case *ir.DeclareLetOp:
			s.letDeclarations = append(s.letDeclarations, scopeLetDeclaration{
				targetId:   o.Xref,
				targetSlot: o.Handle,
				variable:   ir.NewIdentifierVariable(o.DeclaredName, false),
			})
		}
	}
	return s
}

// generateVariablesInScopeForView declares the variables of every scope on
// the stack, innermost first, for code running in view. isCallback is set
// for listener handlers, which run outside of the update pass and so cannot
// rely on the view's own `@let` values having been stored.
func generateVariablesInScopeForView(view *compilation.ViewCompilationUnit, stack []*scope, isCallback bool) []ir.Op {
	job := view.Job
	var ops []ir.Op
	current := view.Xref
	for i := len(stack) - 1; i >= 0; i-- {
		s := stack[i]
		if s.view != view.Xref {
			// Switch to the ancestor's context; the switch itself declares a
			// variable because the context may be read directly.
			steps := parentHops(job, current, s.view)
			ops = append(ops, ir.NewVariableOp(job.AllocateXrefId(), s.viewContextVariable, ir.NewNextContextExpr(steps), ir.VariableFlagsNone))
			current = s.view
		}

		scopeView := childView(view, s.view)
		for _, cv := range scopeView.ContextVariables {
			var value output.OutputExpression = ir.NewContextExpr(s.view)
			if cv.Value != compilation.ContextRef {
				value = output.Prop(value, cv.Value)
			}
			ops = append(ops, ir.NewVariableOp(job.AllocateXrefId(), s.contextVariables[cv.Name], value, ir.VariableFlagsNone))
		}

		for _, alias := range s.aliases {
			ops = append(ops, ir.NewVariableOp(job.AllocateXrefId(), alias, alias.Expression.Clone(), ir.VariableFlagsAlwaysInline))
		}

		for _, ref := range s.references {
			ops = append(ops, ir.NewVariableOp(job.AllocateXrefId(), ref.variable, ir.NewReferenceExpr(ref.targetId, ref.targetSlot, ref.offset), ir.VariableFlagsNone))
		}

		if s.view != view.Xref || isCallback {
			for _, decl := range s.letDeclarations {
				ops = append(ops, ir.NewVariableOp(job.AllocateXrefId(), decl.variable, ir.NewContextLetReferenceExpr(decl.targetId, decl.targetSlot), ir.VariableFlagsNone))
			}
		}
	}
	return ops
}

// parentHops counts the parent links between view from and its ancestor to
func parentHops(job *compilation.ComponentCompilationJob, from, to ir.XrefId) int {
	steps := 0
	for current := from; current != to; steps++ {
		unit := job.Views[current]
		if unit == nil || unit.Parent == nil {
			panic(ir.NewInternalError("view %d is not an ancestor of view %d", to, from))
		}
		current = *unit.Parent
	}
	return steps
}
