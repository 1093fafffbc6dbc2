package phases

import (
	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/render3/r3_identifiers"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
)

// OptimizeTrackFns optimizes `track` functions in `for` repeaters. They can sometimes be "optimized,"
// i.e. transformed into inline expressions, in lieu of an external function call. For example,
// tracking by `$index` can be optimized into an inline `trackByIndex` reference. This phase checks
// track expressions for optimizable cases.
func OptimizeTrackFns(job *compilation.ComponentCompilationJob) {
	rootView := job.Root.Xref
	for _, unit := range job.GetUnits() {
		for _, op := range unit.GetCreate().Ops() {
			repeater, ok := op.(*ir.RepeaterCreateOp)
			if !ok {
				continue
			}

			if read, ok := repeater.Track.(*output.ReadVarExpr); ok && read.Name == "$index" {
				// Top-level access of `$index` uses the built in `repeaterTrackByIndex`.
				repeater.TrackByFn = output.ImportExpr(r3_identifiers.RepeaterTrackByIndex)
				continue
			}
			if read, ok := repeater.Track.(*output.ReadVarExpr); ok && read.Name == "$item" {
				// Top-level access of the item uses the built in `repeaterTrackByIdentity`.
				repeater.TrackByFn = output.ImportExpr(r3_identifiers.RepeaterTrackByIdentity)
				continue
			}

			if method, ok := trackByMethod(rootView, repeater.Track); ok {
				// The method might use `this` internally.
				repeater.UsesComponentInstance = true

				if unit.GetXref() == rootView {
					// Top-level method calls in the form of `fn($index, item)` can be passed in directly.
					repeater.TrackByFn = method
				} else {
					// Outside the root view the component has to be fetched first.
					repeater.TrackByFn = output.Prop(output.Call(output.ImportExpr(r3_identifiers.ComponentInstance)), method.Name)
					// The original track expression is never emitted. Overwrite it so that the
					// context read in it is not resolved later.
					repeater.Track = repeater.TrackByFn
				}
				continue
			}

			// The track function could not be optimized. Context reads in a track function are
			// emitted specially.
			repeater.Track = ir.TransformExpressionsInExpression(repeater.Track, func(expr output.OutputExpression, _ ir.VisitorContextFlag) output.OutputExpression {
				switch e := expr.(type) {
				case *ir.PipeBindingExpr:
					panic(ir.NewInternalError("illegal state: pipes are not allowed in this context"))
				case *ir.ContextExpr:
					repeater.UsesComponentInstance = true
					return ir.NewTrackContextExpr(e.View)
				}
				return expr
			}, ir.VisitorContextFlagNone)

			// The tracking expression gets an op list of its own, since it may need additional
			// ops when generating the final code (e.g. temporary variables).
			trackOps := ir.NewOpList()
			trackOps.Push(ir.NewStatementOp(output.NewReturnStatement(repeater.Track, repeater.Track.GetSourceSpan())))
			repeater.TrackByOps = trackOps
		}
	}
}

// trackByMethod matches `fn($index)` and `fn($index, $item)` where `fn` is a
// method of the component, and returns the method read.
func trackByMethod(rootView ir.XrefId, expr output.OutputExpression) (*output.ReadPropExpr, bool) {
	call, ok := expr.(*output.InvokeFunctionExpr)
	if !ok || len(call.Args) == 0 || len(call.Args) > 2 {
		return nil, false
	}
	method, ok := call.Fn.(*output.ReadPropExpr)
	if !ok {
		return nil, false
	}
	if ctx, ok := method.Receiver.(*ir.ContextExpr); !ok || ctx.View != rootView {
		return nil, false
	}
	if arg, ok := call.Args[0].(*output.ReadVarExpr); !ok || arg.Name != "$index" {
		return nil, false
	}
	if len(call.Args) == 1 {
		return method, true
	}
	if arg, ok := call.Args[1].(*output.ReadVarExpr); !ok || arg.Name != "$item" {
		return nil, false
	}
	return method, true
}
