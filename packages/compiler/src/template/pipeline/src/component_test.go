package pipeline_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-ir/packages/compiler/src/core"
	"ngc-ir/packages/compiler/src/diagnostics"
	"ngc-ir/packages/compiler/src/output"
	constant "ngc-ir/packages/compiler/src/pool"
	"ngc-ir/packages/compiler/src/render3/view"
	pipeline "ngc-ir/packages/compiler/src/template/pipeline/src"
	"ngc-ir/packages/compiler/src/template/pipeline/src/ingest"
	"ngc-ir/packages/compiler/src/template_parser"
)

func directive(name, selector string, exportAs ...string) *view.R3DirectiveDependencyMetadata {
	return &view.R3DirectiveDependencyMetadata{
		R3TemplateDependency: view.R3TemplateDependency{Kind: view.R3TemplateDependencyKindDirective, Type: output.Variable(name)},
		Selector:             selector,
		ExportAs:             exportAs,
	}
}

func pipe(name, pipeName string) *view.R3PipeDependencyMetadata {
	return &view.R3PipeDependencyMetadata{
		R3TemplateDependency: view.R3TemplateDependency{Kind: view.R3TemplateDependencyKindPipe, Type: output.Variable(name)},
		Name:                 pipeName,
	}
}

func metadata(t *testing.T, template string, deps ...view.R3TemplateDependencyMetadata) *view.R3ComponentMetadata {
	t.Helper()
	parsed := template_parser.ParseTemplate(template, "test.html")
	for _, err := range parsed.Errors {
		t.Fatalf("unexpected parse error: %s", err.Msg)
	}
	return &view.R3ComponentMetadata{
		Name:         "TestCmp",
		Type:         output.Variable("TestCmp"),
		Template:     view.R3ComponentTemplateMetadata{Nodes: parsed.Nodes, File: parsed.File},
		Declarations: deps,
		IsStandalone: true,
	}
}

func compile(t *testing.T, meta *view.R3ComponentMetadata) (*pipeline.ComponentDefinition, string) {
	t.Helper()
	def, err := pipeline.CompileComponent(meta, constant.NewConstantPool(), ingest.Options{File: meta.Template.File})
	require.NoError(t, err)
	return def, pipeline.EmitModule([]*pipeline.ComponentDefinition{def})
}

func assertContainsAll(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		assert.Contains(t, got, w)
	}
}

func TestCompileComponent(t *testing.T) {
	t.Run("should compile interpolated text", func(t *testing.T) {
		def, out := compile(t, metadata(t, "<div>{{ name }}</div>"))
		assert.Empty(t, def.Diagnostics)
		assert.True(t, strings.HasPrefix(out, "import * as i0 from '@angular/core';\n"))
		assertContainsAll(t, out,
			"TestCmp.ɵcmp = i0.ɵɵdefineComponent({",
			"type: TestCmp,",
			"decls: 2,",
			"vars: 1,",
			"template: function TestCmp_Template(rf, ctx) {",
			"i0.ɵɵelementStart(0, 'div');",
			"i0.ɵɵtext(1);",
			"i0.ɵɵelementEnd();",
			"i0.ɵɵadvance();",
			"i0.ɵɵtextInterpolate(ctx.name);",
			"standalone: true,",
			"encapsulation: 2,",
		)
		assert.NotContains(t, out, "dependencies")
	})

	t.Run("should hoist structural templates into their own function", func(t *testing.T) {
		def, out := compile(t, metadata(t, `<div *ngIf="show">x</div>`, directive("NgIf", "[ngIf]")))
		assert.Empty(t, def.Diagnostics)
		assertContainsAll(t, out,
			"function TestCmp_div_0_Template(rf, ctx) {",
			"i0.ɵɵtext(1, 'x');",
			"i0.ɵɵtemplate(0, TestCmp_div_0_Template, 2, 0, 'div', 0);",
			"i0.ɵɵproperty('ngIf', ctx.show);",
			"decls: 1,",
			"vars: 1,",
			"dependencies: [NgIf],",
		)
		// The embedded view is declared before the definition that uses it.
		assert.Less(t, strings.Index(out, "function TestCmp_div_0_Template"), strings.Index(out, "TestCmp.ɵcmp"))
		assert.Equal(t, []int{0}, def.UsedDependencies)
	})

	t.Run("should read the parent context from embedded views", func(t *testing.T) {
		_, out := compile(t, metadata(t, `<div *ngIf="show">{{ name }}</div>`, directive("NgIf", "[ngIf]")))
		assertContainsAll(t, out,
			"i0.ɵɵnextContext()",
			"i0.ɵɵtextInterpolate(ctx_r0.name);",
		)
	})

	t.Run("should chain consecutive instructions", func(t *testing.T) {
		_, out := compile(t, metadata(t, "<div></div><span></span>"))
		assert.Contains(t, out, "i0.ɵɵelement(0, 'div')(1, 'span');")
	})

	t.Run("should compile control flow blocks", func(t *testing.T) {
		_, out := compile(t, metadata(t, `@if (a) { <p>yes</p> } @else { <p>no</p> }`))
		assertContainsAll(t, out,
			"function TestCmp_Conditional_0_Template(rf, ctx) {",
			"i0.ɵɵconditional(ctx.a ? 0 : 1);",
		)

		_, out = compile(t, metadata(t, `<ul>@for (item of items; track item.id) { <li>{{ item.name }}</li> }</ul>`))
		assertContainsAll(t, out,
			"i0.ɵɵrepeaterCreate(",
			"i0.ɵɵrepeater(ctx.items);",
			"($index, $item) => $item.id",
		)
	})

	t.Run("should desugar two-way bindings", func(t *testing.T) {
		_, out := compile(t, metadata(t, `<input [(ngModel)]="name">`, directive("NgModel", "[ngModel]", "ngModel")))
		assertContainsAll(t, out,
			"i0.ɵɵtwoWayProperty('ngModel', ctx.name);",
			"i0.ɵɵtwoWayBindingSet(ctx.name, $event) || (ctx.name = $event);",
		)
	})

	t.Run("should create and bind pipes", func(t *testing.T) {
		def, out := compile(t, metadata(t, `<p>{{ d | date }}</p>`, pipe("DatePipe", "date")))
		assert.Empty(t, def.Diagnostics)
		assertContainsAll(t, out,
			"i0.ɵɵpipe(2, 'date');",
			"i0.ɵɵpipeBind1(",
			"dependencies: [DatePipe],",
		)
	})

	t.Run("should project content in source order", func(t *testing.T) {
		_, out := compile(t, metadata(t, `<ng-content select="header"></ng-content><ng-content></ng-content>`))
		assertContainsAll(t, out,
			"i0.ɵɵprojectionDef(",
			"i0.ɵɵprojection(0)",
			"(1, 1)",
			"ngContentSelectors: ",
		)
	})

	t.Run("should define projection for a lone wildcard", func(t *testing.T) {
		_, out := compile(t, metadata(t, `<ng-content></ng-content>`))
		assertContainsAll(t, out,
			"const _c0 = ['*'];",
			"i0.ɵɵprojectionDef();",
			"i0.ɵɵprojection(0);",
			"ngContentSelectors: _c0,",
		)
	})

	t.Run("should keep ngNonBindable content static", func(t *testing.T) {
		_, out := compile(t, metadata(t, `<div ngNonBindable>{{ raw }}</div>`))
		assertContainsAll(t, out,
			"i0.ɵɵdisableBindings();",
			"i0.ɵɵtext(1, '{{ raw }}');",
			"i0.ɵɵenableBindings();",
		)
		assert.NotContains(t, out, "textInterpolate")
	})

	t.Run("should warn about unused imports", func(t *testing.T) {
		def, out := compile(t, metadata(t, "<p>hi</p>", directive("TooltipDirective", "[tooltip]")))
		var codes []diagnostics.Code
		for _, d := range def.Diagnostics {
			codes = append(codes, d.Code)
		}
		if diff := cmp.Diff([]diagnostics.Code{diagnostics.CodeUnusedStandaloneImports}, codes); diff != "" {
			t.Errorf("unexpected diagnostics (-want +got):\n%s", diff)
		}
		assert.Equal(t, "TooltipDirective is not used within the template of TestCmp", def.Diagnostics[0].Message)
		assert.NotContains(t, out, "dependencies")
	})
}

func TestEmitComponentOptions(t *testing.T) {
	t.Run("should emit selectors and metadata fields", func(t *testing.T) {
		meta := metadata(t, "<p>x</p>")
		meta.Selector = "app-root[main]"
		onPush := core.ChangeDetectionStrategyOnPush
		meta.ChangeDetection = &onPush
		meta.ExportAs = []string{"root"}
		meta.IsSignal = true
		meta.Inputs = []view.R3InputMetadata{
			{ClassPropertyName: "value", BindingPropertyName: "value"},
			{ClassPropertyName: "size", BindingPropertyName: "sz"},
		}
		meta.Outputs = []view.R3OutputMetadata{{ClassPropertyName: "changed", BindingPropertyName: "change"}}

		_, out := compile(t, meta)
		assertContainsAll(t, out,
			"selectors: [['app-root', 'main', '']],",
			"exportAs: ['root'],",
			"signals: true,",
			"inputs: {value: 'value', size: [0, 'sz', 'size']},",
			"outputs: {changed: 'change'},",
		)
		assert.Contains(t, out, "changeDetection: 0,")
	})

	t.Run("should leave change detection to the runtime by default", func(t *testing.T) {
		_, out := compile(t, metadata(t, "<p>x</p>"))
		assert.NotContains(t, out, "changeDetection")

		meta := metadata(t, "<p>x</p>")
		eager := core.ChangeDetectionStrategyDefault
		meta.ChangeDetection = &eager
		_, out = compile(t, meta)
		assert.NotContains(t, out, "changeDetection")
	})

	t.Run("should scope styles for emulated encapsulation", func(t *testing.T) {
		meta := metadata(t, "<p>x</p>")
		meta.Styles = []string{"p { color: red; }"}
		_, out := compile(t, meta)
		assertContainsAll(t, out,
			"p[_ngcontent-%COMP%]",
			"encapsulation: 0,",
		)
	})

	t.Run("should generate query functions", func(t *testing.T) {
		meta := metadata(t, "<p>x</p>")
		meta.ViewQueries = []view.R3QueryMetadata{
			{PropertyName: "item", First: true, PredicateSelectors: []string{"item"}, Descendants: true, EmitDistinctChangesOnly: true},
			{PropertyName: "rows", PredicateType: output.Variable("RowDirective"), IsSignal: true},
		}
		meta.Queries = []view.R3QueryMetadata{
			{PropertyName: "tabs", PredicateType: output.Variable("TabComponent"), Read: output.Variable("ElementRef")},
		}
		_, out := compile(t, meta)
		assertContainsAll(t, out,
			"const _c0 = ['item'];",
			"viewQuery: function TestCmp_Query(rf, ctx) {",
			"i0.ɵɵviewQuery(_c0, 5);",
			"i0.ɵɵviewQuerySignal(ctx.rows, RowDirective, 0);",
			"let _t;",
			"i0.ɵɵqueryRefresh(_t = i0.ɵɵloadQuery()) && (ctx.item = _t.first);",
			"i0.ɵɵqueryAdvance();",
			"contentQueries: function TestCmp_ContentQueries(rf, ctx, dirIndex) {",
			"i0.ɵɵcontentQuery(dirIndex, TabComponent, 0, ElementRef);",
			"(ctx.tabs = _t);",
		)
	})

	t.Run("should wrap dependencies in a closure when asked", func(t *testing.T) {
		meta := metadata(t, `<div *ngIf="a"></div>`, directive("NgIf", "[ngIf]"))
		meta.DeclarationListEmitMode = view.DeclarationListEmitModeClosure
		_, out := compile(t, meta)
		assert.Contains(t, out, "dependencies: () => [NgIf],")
	})

	t.Run("should reject invalid selectors", func(t *testing.T) {
		meta := metadata(t, "<p>x</p>")
		meta.Selector = "a:not(:not(b))"
		_, err := pipeline.CompileComponent(meta, constant.NewConstantPool(), ingest.Options{})
		assert.ErrorContains(t, err, "invalid selector")
	})
}

func TestEmitModule(t *testing.T) {
	shared := &view.R3DirectiveDependencyMetadata{
		R3TemplateDependency: view.R3TemplateDependency{
			Kind: view.R3TemplateDependencyKindDirective,
			Type: output.ImportExpr(&output.ExternalReference{ModuleName: "./shared/button.component", Name: "ButtonComponent"}),
		},
		Selector:    "app-button",
		IsComponent: true,
	}
	_, out := compile(t, metadata(t, "<app-button></app-button>", shared))

	lines := strings.Split(out, "\n")
	want := []string{
		"import * as i0 from '@angular/core';",
		"import * as i1 from './shared/button.component';",
		"",
	}
	if diff := cmp.Diff(want, lines[:3]); diff != "" {
		t.Errorf("unexpected module header (-want +got):\n%s", diff)
	}
	assert.Contains(t, out, "dependencies: [i1.ButtonComponent],")
	assert.True(t, strings.HasSuffix(out, ");\n"))
}
