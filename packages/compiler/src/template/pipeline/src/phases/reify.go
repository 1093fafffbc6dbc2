package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
	ng "ngc-ir/packages/compiler/src/template/pipeline/src/instruction"
)

// Reify compiles semantic operations across all views and generates output `o.Statement`s with actual
// runtime calls in their place.
//
// Reification replaces semantic operations with selected Ivy instructions and other generated code
// structures. After reification, the create/update operation lists of all views should only contain
// `ir.StatementOp`s (which wrap generated `o.Statement`s).
func Reify(job compilation.Job) {
	for _, unit := range job.GetUnits() {
		reifyCreateOperations(unit, unit.GetCreate())
		reifyUpdateOperations(unit, unit.GetUpdate())
	}
}

func reifyCreateOperations(unit compilation.CompilationUnit, ops *ir.OpList) {
	slots := unit.GetJob().GetBase().Slots
	for _, op := range ops.Ops() {
		ir.TransformExpressionsInOp(op, func(expr output.OutputExpression, _ ir.VisitorContextFlag) output.OutputExpression {
			return reifyIrExpression(unit, expr)
		}, ir.VisitorContextFlagNone)

		switch o := op.(type) {
		case *ir.TextOp:
			ops.Replace(o, ng.Text(slots.Slot(o.Handle), o.InitialValue, o.SourceSpan))
		case *ir.ElementStartOp:
			ops.Replace(o, ng.ElementStart(slots.Slot(o.Handle), o.Tag, o.Attributes, o.LocalRefsIndex, o.StartSourceSpan))
		case *ir.ElementOp:
			ops.Replace(o, ng.Element(slots.Slot(o.Handle), o.Tag, o.Attributes, o.LocalRefsIndex, o.SourceSpan))
		case *ir.ElementEndOp:
			ops.Replace(o, ng.ElementEnd(o.SourceSpan))
		case *ir.ContainerStartOp:
			ops.Replace(o, ng.ElementContainerStart(slots.Slot(o.Handle), o.Attributes, o.LocalRefsIndex, o.StartSourceSpan))
		case *ir.ContainerOp:
			ops.Replace(o, ng.ElementContainer(slots.Slot(o.Handle), o.Attributes, o.LocalRefsIndex, o.SourceSpan))
		case *ir.ContainerEndOp:
			ops.Replace(o, ng.ElementContainerEnd())
		case *ir.TemplateOp:
			child := viewOf(unit, o.Xref)
			ops.Replace(o, ng.Template(slots.Slot(o.Handle), output.Variable(child.FnName), o.Decls, o.Vars, o.Tag, o.Attributes, o.LocalRefsIndex, o.StartSourceSpan))
		case *ir.ConditionalCreateOp:
			child := viewOf(unit, o.Xref)
			ops.Replace(o, ng.ConditionalCreate(slots.Slot(o.Handle), output.Variable(child.FnName), o.Decls, o.Vars, o.Tag, o.Attributes, o.LocalRefsIndex, o.StartSourceSpan))
		case *ir.ConditionalBranchCreateOp:
			child := viewOf(unit, o.Xref)
			ops.Replace(o, ng.ConditionalBranchCreate(slots.Slot(o.Handle), output.Variable(child.FnName), o.Decls, o.Vars, o.Tag, o.Attributes, o.LocalRefsIndex, o.StartSourceSpan))
		case *ir.RepeaterCreateOp:
			primary := viewOf(unit, o.Xref)
			var empty *ng.RepeaterEmptyView
			if o.EmptyView != 0 {
				empty = &ng.RepeaterEmptyView{
					FnName:     viewOf(unit, o.EmptyView).FnName,
					Decls:      o.EmptyDecls,
					Vars:       o.EmptyVars,
					Tag:        o.EmptyTag,
					ConstIndex: o.EmptyAttributes,
				}
			}
			ops.Replace(o, ng.RepeaterCreate(slots.Slot(o.Handle), primary.FnName, o.Decls, o.Vars, o.Tag, o.Attributes, reifyTrackBy(unit, o), o.UsesComponentInstance, empty, o.SourceSpan))
		case *ir.PipeOp:
			ops.Replace(o, ng.Pipe(slots.Slot(o.Handle), o.Name))
		case *ir.DeclareLetOp:
			ops.Replace(o, ng.DeclareLet(slots.Slot(o.Handle), o.SourceSpan))
		case *ir.ListenerOp:
			handler := reifyListenerHandler(unit, o.HandlerFnName, o.HandlerOps, o.ConsumesDollarEvent)
			if o.IsTwoWay {
				ops.Replace(o, ng.TwoWayListener(o.Name, handler, o.SourceSpan))
			} else {
				ops.Replace(o, ng.Listener(o.Name, handler, o.EventTarget, o.SourceSpan))
			}
		case *ir.VariableOp:
			ops.Replace(o, reifyVariable(o))
		case *ir.NamespaceOp:
			ops.Replace(o, ng.Namespace(o.Active))
		case *ir.DisableBindingsOp:
			ops.Replace(o, ng.DisableBindings())
		case *ir.EnableBindingsOp:
			ops.Replace(o, ng.EnableBindings())
		case *ir.ProjectionDefOp:
			ops.Replace(o, ng.ProjectionDef(o.Def))
		case *ir.ProjectionOp:
			ops.Replace(o, ng.Projection(slots.Slot(o.Handle), o.ProjectionSlotIndex, o.Attributes, o.SourceSpan))
		case *ir.StatementOp:
			// Already reified.
		default:
			panic(ir.NewInternalError("unsupported reification of create op %s", op.GetKind()))
		}
	}
}

func reifyUpdateOperations(unit compilation.CompilationUnit, ops *ir.OpList) {
	host := unit.GetJob().GetBase().Kind == compilation.CompilationJobKindHost
	for _, op := range ops.Ops() {
		ir.TransformExpressionsInOp(op, func(expr output.OutputExpression, _ ir.VisitorContextFlag) output.OutputExpression {
			return reifyIrExpression(unit, expr)
		}, ir.VisitorContextFlagNone)

		switch o := op.(type) {
		case *ir.AdvanceOp:
			ops.Replace(o, ng.Advance(o.Delta, o.SourceSpan))
		case *ir.PropertyOp:
			if host {
				ops.Replace(o, ng.HostProperty(o.Name, o.Expression, o.Sanitizer, o.SourceSpan))
			} else {
				ops.Replace(o, ng.Property(o.Name, o.Expression, o.Interpolation, o.Sanitizer, o.SourceSpan))
			}
		case *ir.TwoWayPropertyOp:
			ops.Replace(o, ng.TwoWayProperty(o.Name, o.Expression, nil, o.SourceSpan))
		case *ir.StylePropOp:
			ops.Replace(o, ng.StyleProp(o.Name, o.Expression, o.Unit, o.SourceSpan))
		case *ir.ClassPropOp:
			ops.Replace(o, ng.ClassProp(o.Name, o.Expression, o.SourceSpan))
		case *ir.StyleMapOp:
			ops.Replace(o, ng.StyleMap(o.Expression, o.Interpolation, o.SourceSpan))
		case *ir.ClassMapOp:
			ops.Replace(o, ng.ClassMap(o.Expression, o.Interpolation, o.SourceSpan))
		case *ir.InterpolateTextOp:
			ops.Replace(o, ng.TextInterpolate(o.Interpolation.Strings, o.Interpolation.Expressions, o.SourceSpan))
		case *ir.AttributeOp:
			ops.Replace(o, ng.Attribute(o.Name, o.Expression, o.Interpolation, o.Sanitizer, o.Namespace, o.SourceSpan))
		case *ir.VariableOp:
			ops.Replace(o, reifyVariable(o))
		case *ir.ConditionalOp:
			if o.Processed == nil {
				panic(ir.NewInternalError("conditional test was not set"))
			}
			ops.Replace(o, ng.Conditional(o.Processed, o.ContextValue, o.SourceSpan))
		case *ir.RepeaterOp:
			ops.Replace(o, ng.Repeater(o.Collection, o.SourceSpan))
		case *ir.StoreLetOp:
			panic(ir.NewInternalError("unexpected storeLet %s", o.DeclaredName))
		case *ir.StatementOp:
			// Already reified.
		default:
			panic(ir.NewInternalError("unsupported reification of update op %s", op.GetKind()))
		}
	}
}

func reifyVariable(op *ir.VariableOp) *ir.StatementOp {
	name := op.Variable.GetName()
	if name == "" {
		panic(ir.NewInternalError("expected variable %d to have been named", op.Xref))
	}
	return ir.NewStatementOp(output.NewDeclareVarStmt(name, op.Initializer, output.StmtModifierFinal, nil))
}

func reifyIrExpression(unit compilation.CompilationUnit, expr output.OutputExpression) output.OutputExpression {
	if !ir.IsIrExpression(expr) {
		return expr
	}
	slots := unit.GetJob().GetBase().Slots

	switch e := expr.(type) {
	case *ir.NextContextExpr:
		return ng.NextContext(e.Steps)
	case *ir.ReferenceExpr:
		return ng.Reference(slots.Slot(e.TargetSlot) + 1 + e.Offset)
	case *ir.LexicalReadExpr:
		panic(ir.NewInternalError("unresolved LexicalRead of %s", e.Name))
	case *ir.TwoWayBindingSetExpr:
		panic(ir.NewInternalError("unresolved TwoWayBindingSet"))
	case *ir.RestoreViewExpr:
		if e.Expr == nil {
			panic(ir.NewInternalError("unresolved RestoreView of view %d", e.View))
		}
		return ng.RestoreView(e.Expr)
	case *ir.ResetViewExpr:
		return ng.ResetView(e.Expr)
	case *ir.GetCurrentViewExpr:
		return ng.GetCurrentView()
	case *ir.ReadVariableExpr:
		if e.Name == "" {
			panic(ir.NewInternalError("read of unnamed variable %d", e.Xref))
		}
		return output.Variable(e.Name)
	case *ir.ReadTemporaryExpr:
		return output.Variable(e.Name)
	case *ir.AssignTemporaryExpr:
		return output.Assign(output.Variable(e.Name), e.Expr)
	case *ir.PipeBindingExpr:
		return ng.PipeBind(slots.Slot(e.TargetSlot), e.VarOffset, e.Args)
	case *ir.SlotLiteralExpr:
		return output.Literal(slots.Slot(e.Slot))
	case *ir.ContextLetReferenceExpr:
		return ng.ReadContextLet(slots.Slot(e.TargetSlot))
	case *ir.StoreLetExpr:
		return ng.StoreLet(e.Value, e.SourceSpan)
	case *ir.TrackContextExpr:
		return output.Variable("this")
	}
	panic(ir.NewInternalError("unsupported reification of ir.Expression kind %d", expr.(ir.Expression).GetExprKind()))
}

// reifyListenerHandler lists the statements of a listener into its handler
// function. `$event` becomes a parameter when it is read.
func reifyListenerHandler(unit compilation.CompilationUnit, name string, handlerOps *ir.OpList, consumesDollarEvent bool) *output.FunctionExpr {
	// First, reify all instruction calls within `handlerOps`.
	reifyUpdateOperations(unit, handlerOps)

	var params []*output.FnParam
	if consumesDollarEvent {
		params = output.Params("$event")
	}
	return output.Fn(params, reifiedStatements(handlerOps), name)
}

func reifiedStatements(ops *ir.OpList) []output.OutputStatement {
	var stmts []output.OutputStatement
	for _, op := range ops.Ops() {
		stmtOp, ok := op.(*ir.StatementOp)
		if !ok {
			panic(ir.NewInternalError("expected reified statements, but found op %s", op.GetKind()))
		}
		stmts = append(stmts, stmtOp.Statement)
	}
	return stmts
}

// reifyTrackBy returns the track function of a repeater, pooling it as a
// shared `_forTrack` constant when it was not optimized into a builtin.
func reifyTrackBy(unit compilation.CompilationUnit, op *ir.RepeaterCreateOp) output.OutputExpression {
	// If the tracking function was created already, there's nothing left to do.
	if op.TrackByFn != nil {
		return op.TrackByFn
	}

	params := output.Params("$index", "$item")
	var fn output.OutputExpression
	if op.TrackByOps == nil {
		// Without additional ops the function just returns the expression.
		if op.UsesComponentInstance {
			fn = output.Fn(params, []output.OutputStatement{output.Return(op.Track)}, "")
		} else {
			fn = output.ArrowFn(params, op.Track)
		}
	} else {
		reifyUpdateOperations(unit, op.TrackByOps)
		stmts := reifiedStatements(op.TrackByOps)
		ret, single := singleReturn(stmts)
		// Functions that use the component instance need to be a `function`
		// expression, so that `this` is bound.
		if op.UsesComponentInstance || !single {
			fn = output.Fn(params, stmts, "")
		} else {
			fn = output.ArrowFn(params, ret.Value)
		}
	}
	op.TrackByFn = unit.GetJob().GetBase().Pool.GetSharedFunctionReference(fn, "_forTrack", true)
	return op.TrackByFn
}

func singleReturn(stmts []output.OutputStatement) (*output.ReturnStatement, bool) {
	if len(stmts) != 1 {
		return nil, false
	}
	ret, ok := stmts[0].(*output.ReturnStatement)
	return ret, ok
}

// viewOf returns the embedded view xref of a template compilation
func viewOf(unit compilation.CompilationUnit, xref ir.XrefId) *compilation.ViewCompilationUnit {
	return unitViews(unit)[xref]
}
