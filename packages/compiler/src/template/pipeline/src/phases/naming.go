package phases

import (
	"fmt"
	"strings"

	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
	"ngc-ir/packages/compiler/src/util"
)

// NameFunctionsAndVariables generates names for functions and variables across all views.
// This includes propagating those names into any `ir.ReadVariableExpr`s of those variables, so that
// the reads can be emitted correctly.
func NameFunctionsAndVariables(job compilation.Job) {
	state := &namingState{}
	addNamesToUnit(job.GetRoot(), job.GetBase().ComponentName, state)
}

type namingState struct {
	index int
}

func addNamesToUnit(unit compilation.CompilationUnit, baseName string, state *namingState) {
	job := unit.GetJob()
	base := job.GetBase()
	if unit.GetFnName() == "" {
		// Several components with the same name may share one pool.
		unit.SetFnName(base.Pool.UniqueName(util.SanitizeIdentifier(fmt.Sprintf("%s_%s", baseName, job.GetFnSuffix()))))
	}

	// Keep track of the names we assign to variables in the view. We'll need to propagate these
	// into reads of those variables afterwards.
	varNames := map[ir.XrefId]string{}

	for _, op := range compilation.UnitOps(unit) {
		switch o := op.(type) {
		case *ir.ListenerOp:
			if o.HandlerFnName != "" {
				break
			}
			if o.HostListener {
				o.HandlerFnName = fmt.Sprintf("%s_%s_HostBindingHandler", baseName, o.Name)
			} else {
				slot, ok := base.Slots.Lookup(o.TargetSlot)
				if !ok {
					panic(ir.NewInternalError("expected a slot to be assigned to listener %q", o.Name))
				}
				o.HandlerFnName = fmt.Sprintf("%s_%s_%s_%d_listener", unit.GetFnName(), strings.Replace(o.Tag, "-", "_", 1), o.Name, slot)
			}
			o.HandlerFnName = util.SanitizeIdentifier(o.HandlerFnName)
		case *ir.VariableOp:
			varNames[o.Xref] = variableName(o.Variable, state)
		case *ir.RepeaterCreateOp:
			views := unitViews(unit)
			slot := base.Slots.Slot(o.Handle)
			if o.EmptyView != 0 {
				// The empty view function is at slot +2 (metadata is in the first slot).
				addNamesToUnit(views[o.EmptyView], fmt.Sprintf("%s_%sEmpty_%d", baseName, o.FunctionNameSuffix, slot+2), state)
			}
			// The primary view function is at slot +1.
			addNamesToUnit(views[o.Xref], fmt.Sprintf("%s_%s_%d", baseName, o.FunctionNameSuffix, slot+1), state)
		case *ir.TemplateOp:
			nameEmbeddedView(unit, o.Xref, o.Handle, o.FunctionNameSuffix, baseName, state)
		case *ir.ConditionalCreateOp:
			nameEmbeddedView(unit, o.Xref, o.Handle, o.FunctionNameSuffix, baseName, state)
		case *ir.ConditionalBranchCreateOp:
			nameEmbeddedView(unit, o.Xref, o.Handle, o.FunctionNameSuffix, baseName, state)
		case *ir.StylePropOp:
			o.Name = stripImportant(normalizeStylePropName(o.Name))
		case *ir.ClassPropOp:
			o.Name = stripImportant(o.Name)
		}
	}

	// Having named all variables declared in the view, now we can push those names into the
	// `ir.ReadVariableExpr` expressions which represent reads of those variables.
	visitUnitExpressions(unit, func(expr output.OutputExpression, _ ir.VisitorContextFlag) {
		read, ok := expr.(*ir.ReadVariableExpr)
		if !ok || read.Name != "" {
			return
		}
		name, ok := varNames[read.Xref]
		if !ok {
			panic(ir.NewInternalError("variable %d not yet named", read.Xref))
		}
		read.Name = name
	})
}

func nameEmbeddedView(unit compilation.CompilationUnit, xref ir.XrefId, handle ir.SlotHandle, suffix, baseName string, state *namingState) {
	slot := unit.GetJob().GetBase().Slots.Slot(handle)
	if suffix != "" {
		suffix = "_" + suffix
	}
	addNamesToUnit(unitViews(unit)[xref], fmt.Sprintf("%s%s_%d", baseName, suffix, slot), state)
}

func unitViews(unit compilation.CompilationUnit) map[ir.XrefId]*compilation.ViewCompilationUnit {
	view, ok := unit.(*compilation.ViewCompilationUnit)
	if !ok {
		panic(ir.NewInternalError("embedded views are only valid in template compilation"))
	}
	return view.Job.Views
}

// variableName names a variable on first use; names are shared by every
// declaration of the same semantic variable.
func variableName(variable ir.SemanticVariable, state *namingState) string {
	if name := variable.GetName(); name != "" {
		return name
	}
	var name string
	switch v := variable.(type) {
	case *ir.ContextVariable:
		name = fmt.Sprintf("ctx_r%d", state.index)
		state.index++
	case *ir.IdentifierVariable:
		// A template identifier `ctx` must not shadow the function parameter.
		prefix := ""
		if v.Identifier == "ctx" {
			prefix = "i"
		}
		state.index++
		name = fmt.Sprintf("%s_%sr%d", v.Identifier, prefix, state.index)
	default:
		state.index++
		name = fmt.Sprintf("_r%d", state.index)
	}
	variable.SetName(name)
	return name
}

func normalizeStylePropName(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	return util.Hyphenate(name)
}

func stripImportant(name string) string {
	if idx := strings.LastIndex(name, "!important"); idx > -1 {
		return name[:idx]
	}
	return name
}
