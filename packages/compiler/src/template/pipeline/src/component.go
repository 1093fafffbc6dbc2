package pipeline

import (
	"fmt"

	"ngc-ir/packages/compiler/src/core"
	"ngc-ir/packages/compiler/src/css"
	"ngc-ir/packages/compiler/src/diagnostics"
	"ngc-ir/packages/compiler/src/output"
	constant "ngc-ir/packages/compiler/src/pool"
	"ngc-ir/packages/compiler/src/render3/r3_identifiers"
	"ngc-ir/packages/compiler/src/render3/view"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
	pipeline_conversion "ngc-ir/packages/compiler/src/template/pipeline/src/conversion"
	"ngc-ir/packages/compiler/src/template/pipeline/src/ingest"
)

// ComponentDefinition is the compiled form of one component: the
// `ɵɵdefineComponent({...})` expression plus the statements it depends on
// (hoisted child views, pooled constants, track functions).
type ComponentDefinition struct {
	Name       string
	Expression output.OutputExpression
	Statements []output.OutputStatement

	Diagnostics []diagnostics.Diagnostic

	// Positions in the component's declarations that the template used.
	UsedDependencies []int
}

// CompileComponent runs the whole pipeline for meta. Statements created in
// pool during this call are attributed to the returned definition.
func CompileComponent(meta *view.R3ComponentMetadata, pool *constant.ConstantPool, opts ingest.Options) (*ComponentDefinition, error) {
	before := len(pool.Statements())

	job := ingest.IngestComponent(meta, meta.Template.Nodes, pool, opts)
	Transform(job)

	var hostJob *compilation.HostBindingCompilationJob
	if !meta.Host.IsEmpty() {
		hostJob = ingest.IngestHostBinding(meta.Name, &meta.Host, pool)
		Transform(hostJob)
		job.Diagnostics.Merge(hostJob.Diagnostics)
	}

	def, err := EmitComponent(job, meta, hostJob)
	if err != nil {
		return nil, err
	}
	def.Statements = append(append([]output.OutputStatement{}, pool.Statements()[before:]...), def.Statements...)
	return def, nil
}

// EmitComponent builds the `ɵɵdefineComponent` call of a transformed job.
// hostJob may be nil when the component declares no host bindings.
func EmitComponent(job *compilation.ComponentCompilationJob, meta *view.R3ComponentMetadata, hostJob *compilation.HostBindingCompilationJob) (*ComponentDefinition, error) {
	definitionMap := view.NewDefinitionMap()
	definitionMap.Set("type", meta.Type)

	selectors, err := core.ParseSelectorToR3Selector(meta.Selector)
	if err != nil {
		return nil, fmt.Errorf("component %s: invalid selector %q: %w", meta.Name, meta.Selector, err)
	}
	if len(selectors) > 0 {
		definitionMap.Set("selectors", pipeline_conversion.LiteralOrArrayLiteral(selectors))

		// Only the first selector of a component can carry attributes.
		first, err := css.ParseCssSelector(meta.Selector)
		if err != nil {
			return nil, fmt.Errorf("component %s: invalid selector %q: %w", meta.Name, meta.Selector, err)
		}
		if attrs := first[0].GetAttrs(); len(attrs) > 0 {
			definitionMap.Set("attrs", output.LiteralStrings(attrs))
		}
	}

	if hostJob != nil {
		if hostFn := EmitHostBindingFunction(hostJob); hostFn != nil {
			definitionMap.Set("hostBindings", hostFn)
		}
		if hostJob.Root.Vars > 0 {
			definitionMap.Set("hostVars", output.Literal(hostJob.Root.Vars))
		}
		if hostJob.Root.Attributes != nil {
			definitionMap.Set("hostAttrs", hostJob.Root.Attributes)
		}
	}

	var features []output.OutputExpression
	if meta.Providers != nil {
		features = append(features, output.Call(output.ImportExpr(r3_identifiers.ProvidersFeature), meta.Providers))
	}
	if meta.UsesInheritance {
		features = append(features, output.ImportExpr(r3_identifiers.InheritDefinitionFeature))
	}
	if len(features) > 0 {
		definitionMap.Set("features", output.LiteralArr(features...))
	}

	templateFn := EmitTemplateFn(job)
	definitionMap.Set("decls", output.Literal(job.Root.Decls))
	definitionMap.Set("vars", output.Literal(job.Root.Vars))

	if len(meta.ViewQueries) > 0 {
		definitionMap.Set("viewQuery", CreateViewQueriesFunction(meta.ViewQueries, job.Pool, meta.Name))
	}
	if len(meta.Queries) > 0 {
		definitionMap.Set("contentQueries", CreateContentQueriesFunction(meta.Queries, job.Pool, meta.Name))
	}

	if consts := constsExpression(job); consts != nil {
		definitionMap.Set("consts", consts)
	}
	definitionMap.Set("template", templateFn)
	definitionMap.Set("standalone", output.Literal(meta.IsStandalone))
	if meta.IsSignal {
		definitionMap.Set("signals", output.Literal(true))
	}

	encapsulation := meta.Encapsulation
	if len(meta.Styles) > 0 {
		definitionMap.Set("styles", output.LiteralStrings(compileStyles(meta.Styles, encapsulation)))
	} else if encapsulation == core.ViewEncapsulationEmulated {
		// Without styles there is nothing to scope.
		encapsulation = core.ViewEncapsulationNone
	}
	definitionMap.Set("encapsulation", output.Literal(int(encapsulation)))

	definitionMap.Set("ngContentSelectors", job.ContentSelectors)
	if len(meta.ExportAs) > 0 {
		definitionMap.Set("exportAs", output.LiteralStrings(meta.ExportAs))
	}
	if meta.ChangeDetection != nil && *meta.ChangeDetection != core.ChangeDetectionStrategyDefault {
		definitionMap.Set("changeDetection", output.Literal(int(*meta.ChangeDetection)))
	}
	definitionMap.Set("inputs", view.CreateInputsLiteral(meta.Inputs))
	definitionMap.Set("outputs", view.CreateOutputsLiteral(meta.Outputs))
	definitionMap.Set("dependencies", dependenciesExpression(job))

	return &ComponentDefinition{
		Name:             meta.Name,
		Expression:       output.Call(output.ImportExpr(r3_identifiers.DefineComponent), definitionMap.ToLiteralMap()),
		Diagnostics:      job.Diagnostics.Items(),
		UsedDependencies: job.UsedDependencies(),
	}, nil
}

// constsExpression returns the consts array, wrapped in a function when some
// constants need initializer statements.
func constsExpression(job *compilation.ComponentCompilationJob) output.OutputExpression {
	if len(job.Consts) == 0 {
		return nil
	}
	consts := output.LiteralArr(job.Consts...)
	if len(job.ConstsInitializers) == 0 {
		return consts
	}
	body := append(append([]output.OutputStatement{}, job.ConstsInitializers...), output.Return(consts))
	return output.Fn(nil, body, "")
}

// dependenciesExpression lists used directives and pipes, plus every module
// since module contents are not tracked individually.
func dependenciesExpression(job *compilation.ComponentCompilationJob) output.OutputExpression {
	var deps []output.OutputExpression
	for i, decl := range job.AvailableDependencies {
		dep := decl.Dependency()
		if job.IsDependencyUsed(i) || dep.Kind == view.R3TemplateDependencyKindNgModule {
			deps = append(deps, dep.Type)
		}
	}
	if len(deps) == 0 {
		return nil
	}
	list := output.LiteralArr(deps...)
	if job.DeclarationListEmitMode == view.DeclarationListEmitModeClosure {
		return output.ArrowFn(nil, list)
	}
	return list
}

func compileStyles(styles []string, encapsulation core.ViewEncapsulation) []string {
	if encapsulation != core.ViewEncapsulationEmulated {
		return styles
	}
	shadow := css.NewShadowCss()
	shimmed := make([]string, len(styles))
	for i, style := range styles {
		shimmed[i] = shadow.ShimCssText(style, css.ContentAttr, css.HostAttr)
	}
	return shimmed
}
