package pipeline

import (
	"github.com/rs/zerolog/log"

	"ngc-ir/packages/compiler/src/output"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
	"ngc-ir/packages/compiler/src/template/pipeline/src/phases"
)

// Phase represents a compilation phase
type Phase struct {
	Kind compilation.CompilationJobKind
	Name string
	Fn   interface{} // func(compilation.Job) | func(*compilation.ComponentCompilationJob) | func(*compilation.HostBindingCompilationJob)
}

var phasesList = []Phase{
	{compilation.CompilationJobKindTmpl, "RemoveContentSelectors", phases.RemoveContentSelectors},
	{compilation.CompilationJobKindTmpl, "EmitNamespaceChanges", phases.EmitNamespaceChanges},
	{compilation.CompilationJobKindBoth, "DeduplicateTextBindings", phases.DeduplicateTextBindings},
	{compilation.CompilationJobKindBoth, "ExtractAttributes", phases.ExtractAttributes},
	{compilation.CompilationJobKindBoth, "ParseExtractedStyles", phases.ParseExtractedStyles},
	{compilation.CompilationJobKindBoth, "RemoveEmptyBindings", phases.RemoveEmptyBindings},
	{compilation.CompilationJobKindTmpl, "GenerateConditionalExpressions", phases.GenerateConditionalExpressions},
	{compilation.CompilationJobKindTmpl, "CreatePipes", phases.CreatePipes},
	{compilation.CompilationJobKindTmpl, "ResolveDefinitions", phases.ResolveDefinitions},
	{compilation.CompilationJobKindTmpl, "GenerateProjectionDefs", phases.GenerateProjectionDefs},
	{compilation.CompilationJobKindTmpl, "GenerateLocalLetReferences", phases.GenerateLocalLetReferences},
	{compilation.CompilationJobKindTmpl, "GenerateVariables", phases.GenerateVariables},
	{compilation.CompilationJobKindTmpl, "SaveAndRestoreView", phases.SaveAndRestoreView},
	{compilation.CompilationJobKindBoth, "ResolveDollarEvent", phases.ResolveDollarEvent},
	{compilation.CompilationJobKindTmpl, "GenerateTrackVariables", phases.GenerateTrackVariables},
	{compilation.CompilationJobKindBoth, "ResolveNames", phases.ResolveNames},
	{compilation.CompilationJobKindTmpl, "TransformTwoWayBindingSet", phases.TransformTwoWayBindingSet},
	{compilation.CompilationJobKindTmpl, "OptimizeTrackFns", phases.OptimizeTrackFns},
	{compilation.CompilationJobKindBoth, "ResolveContexts", phases.ResolveContexts},
	{compilation.CompilationJobKindBoth, "ResolveSanitizers", phases.ResolveSanitizers},
	{compilation.CompilationJobKindTmpl, "LiftLocalRefs", phases.LiftLocalRefs},
	{compilation.CompilationJobKindBoth, "ExpandSafeReads", phases.ExpandSafeReads},
	{compilation.CompilationJobKindBoth, "StripNonrequiredParentheses", phases.StripNonrequiredParentheses},
	{compilation.CompilationJobKindBoth, "GenerateTemporaryVariables", phases.GenerateTemporaryVariables},
	{compilation.CompilationJobKindBoth, "OptimizeVariables", phases.OptimizeVariables},
	{compilation.CompilationJobKindBoth, "OptimizeStoreLet", phases.OptimizeStoreLet},
	{compilation.CompilationJobKindTmpl, "AllocateSlots", phases.AllocateSlots},
	{compilation.CompilationJobKindBoth, "CollectElementConsts", phases.CollectElementConsts},
	{compilation.CompilationJobKindBoth, "CountVariables", phases.CountVariables},
	{compilation.CompilationJobKindTmpl, "GenerateAdvance", phases.GenerateAdvance},
	{compilation.CompilationJobKindBoth, "NameFunctionsAndVariables", phases.NameFunctionsAndVariables},
	{compilation.CompilationJobKindTmpl, "MergeNextContextExpressions", phases.MergeNextContextExpressions},
	{compilation.CompilationJobKindTmpl, "CollapseEmptyInstructions", phases.CollapseEmptyInstructions},
	{compilation.CompilationJobKindTmpl, "DisableBindings", phases.DisableBindings},
	{compilation.CompilationJobKindBoth, "Reify", phases.Reify},
	{compilation.CompilationJobKindBoth, "Chain", phases.Chain},
	{compilation.CompilationJobKindTmpl, "CheckUnusedImports", phases.CheckUnusedImports},
}

// Transform runs all transformation phases in the correct order against a compilation job.
// After this processing, the compilation should be in a state where it can be emitted.
func Transform(job compilation.Job) {
	base := job.GetBase()
	for _, phase := range phasesList {
		if phase.Kind != base.Kind && phase.Kind != compilation.CompilationJobKindBoth {
			continue
		}
		log.Debug().
			Str("component", base.ComponentName).
			Str("phase", phase.Name).
			Int("units", len(job.GetUnits())).
			Msg("running phase")

		switch fn := phase.Fn.(type) {
		case func(compilation.Job):
			fn(job)
		case func(*compilation.ComponentCompilationJob):
			if componentJob, ok := job.(*compilation.ComponentCompilationJob); ok {
				fn(componentJob)
			}
		case func(*compilation.HostBindingCompilationJob):
			if hostJob, ok := job.(*compilation.HostBindingCompilationJob); ok {
				fn(hostJob)
			}
		default:
			panic(ir.NewInternalError("phase %s has an unexpected signature %T", phase.Name, phase.Fn))
		}
	}
}

// EmitTemplateFn compiles all views in the given ComponentCompilationJob into the final template function.
// Embedded views are hoisted into the job's ConstantPool as function declarations.
func EmitTemplateFn(job *compilation.ComponentCompilationJob) *output.FunctionExpr {
	rootFn := EmitView(job.Root)
	emitChildViews(job, job.Root)
	return rootFn
}

func emitChildViews(job *compilation.ComponentCompilationJob, parent *compilation.ViewCompilationUnit) {
	for _, view := range job.GetViews() {
		if view.Parent == nil || *view.Parent != parent.Xref {
			continue
		}

		// Child views are emitted depth-first.
		emitChildViews(job, view)

		viewFn := EmitView(view)
		job.Pool.AddStatement(viewFn.ToDeclStmt(viewFn.Name, output.StmtModifierNone))
	}
}

// EmitView emits a template function for an individual ViewCompilationUnit
// (which may be either the root view or an embedded view).
func EmitView(view *compilation.ViewCompilationUnit) *output.FunctionExpr {
	if view.FnName == "" {
		panic(ir.NewInternalError("view %d is unnamed", view.Xref))
	}
	return renderFunction(view, view.FnName)
}

// EmitHostBindingFunction emits the host binding function, or nil when the
// host declares no bindings or listeners.
func EmitHostBindingFunction(job *compilation.HostBindingCompilationJob) *output.FunctionExpr {
	if job.Root.FnName == "" {
		panic(ir.NewInternalError("host binding function is unnamed"))
	}
	if job.Root.Create.Len() == 0 && job.Root.Update.Len() == 0 {
		return nil
	}
	return renderFunction(job.Root, job.Root.FnName)
}

func renderFunction(unit compilation.CompilationUnit, name string) *output.FunctionExpr {
	createStatements := reifiedStatements(unit.GetCreate(), "create")
	updateStatements := reifiedStatements(unit.GetUpdate(), "update")

	var statements []output.OutputStatement
	statements = append(statements, maybeGenerateRfBlock(1, createStatements)...)
	statements = append(statements, maybeGenerateRfBlock(2, updateStatements)...)
	return output.Fn(output.Params("rf", "ctx"), statements, name)
}

func reifiedStatements(ops *ir.OpList, list string) []output.OutputStatement {
	var statements []output.OutputStatement
	for _, op := range ops.Ops() {
		stmtOp, ok := op.(*ir.StatementOp)
		if !ok {
			panic(ir.NewInternalError("expected all %s ops to have been compiled, but got %s", list, op.GetKind()))
		}
		statements = append(statements, stmtOp.Statement)
	}
	return statements
}

func maybeGenerateRfBlock(flag int, statements []output.OutputStatement) []output.OutputStatement {
	if len(statements) == 0 {
		return nil
	}
	condition := output.Binary(output.BinaryOperatorBitwiseAnd, output.Variable("rf"), output.Literal(flag))
	return []output.OutputStatement{output.NewIfStmt(condition, statements, nil, nil)}
}
