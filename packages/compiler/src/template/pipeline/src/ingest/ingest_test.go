package ingest_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngc-ir/packages/compiler/src/diagnostics"
	"ngc-ir/packages/compiler/src/expression_parser"
	"ngc-ir/packages/compiler/src/output"
	constant "ngc-ir/packages/compiler/src/pool"
	"ngc-ir/packages/compiler/src/render3"
	"ngc-ir/packages/compiler/src/render3/view"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
	"ngc-ir/packages/compiler/src/template/pipeline/src/ingest"
)

var parser = expression_parser.NewParser(expression_parser.NewLexer())

func binding(src string) *expression_parser.ASTWithSource {
	return parser.ParseBinding(src, "test", 0)
}

func interpolation(src string) *expression_parser.ASTWithSource {
	return parser.ParseInterpolation(src, "test", 0)
}

func ingestNodes(t *testing.T, deps []view.R3TemplateDependencyMetadata, opts ingest.Options, nodes ...render3.Node) *compilation.ComponentCompilationJob {
	t.Helper()
	meta := &view.R3ComponentMetadata{Name: "TestCmp", Declarations: deps}
	return ingest.IngestComponent(meta, nodes, constant.NewConstantPool(), opts)
}

func kinds(list *ir.OpList) []ir.OpKind {
	var result []ir.OpKind
	for _, op := range list.Ops() {
		result = append(result, op.GetKind())
	}
	return result
}

func codes(job *compilation.ComponentCompilationJob) []diagnostics.Code {
	var result []diagnostics.Code
	for _, d := range job.Diagnostics.Items() {
		result = append(result, d.Code)
	}
	return result
}

func ngIf(children ...render3.Node) *render3.Template {
	return render3.NewTemplate("div", nil, nil, nil,
		[]render3.Node{render3.NewBoundAttribute("ngIf", render3.BindingTypeProperty, binding("show"), "", nil)},
		[]render3.Node{render3.NewElement("div", nil, nil, nil, children, nil, nil)}, nil, nil, nil)
}

func TestIngestElements(t *testing.T) {
	t.Run("should ingest an element with interpolated text", func(t *testing.T) {
		job := ingestNodes(t, nil, ingest.Options{},
			render3.NewElement("div", nil, nil, nil, []render3.Node{
				render3.NewBoundText(interpolation("{{ name }}"), nil),
			}, nil, nil))

		wantCreate := []ir.OpKind{ir.OpKindElementStart, ir.OpKindText, ir.OpKindElementEnd}
		if diff := cmp.Diff(wantCreate, kinds(job.Root.Create)); diff != "" {
			t.Errorf("unexpected create ops (-want +got):\n%s", diff)
		}
		wantUpdate := []ir.OpKind{ir.OpKindInterpolateText}
		if diff := cmp.Diff(wantUpdate, kinds(job.Root.Update)); diff != "" {
			t.Errorf("unexpected update ops (-want +got):\n%s", diff)
		}
		text := job.Root.Update.Ops()[0].(*ir.InterpolateTextOp)
		read, ok := text.Interpolation.Expressions[0].(*ir.LexicalReadExpr)
		if !ok || read.Name != "name" {
			t.Errorf("expected a lexical read of name, got %#v", text.Interpolation.Expressions[0])
		}
	})

	t.Run("should route bindings by kind", func(t *testing.T) {
		job := ingestNodes(t, nil, ingest.Options{},
			render3.NewElement("input", []*render3.TextAttribute{render3.NewTextAttribute("type", "text", nil)},
				[]*render3.BoundAttribute{
					render3.NewBoundAttribute("value", render3.BindingTypeProperty, binding("v"), "", nil),
					render3.NewBoundAttribute("aria-label", render3.BindingTypeAttribute, binding("label"), "", nil),
					render3.NewBoundAttribute("active", render3.BindingTypeClass, binding("on"), "", nil),
					render3.NewBoundAttribute("width", render3.BindingTypeStyle, binding("w"), "px", nil),
					render3.NewBoundAttribute("class", render3.BindingTypeProperty, binding("classes"), "", nil),
				},
				[]*render3.BoundEvent{render3.NewBoundEvent("input", render3.ParsedEventTypeRegular, parser.ParseAction("onInput($event)", "test", 0), "", nil)},
				nil, nil, nil))

		wantCreate := []ir.OpKind{ir.OpKindElementStart, ir.OpKindExtractedAttribute, ir.OpKindListener, ir.OpKindElementEnd}
		if diff := cmp.Diff(wantCreate, kinds(job.Root.Create)); diff != "" {
			t.Errorf("unexpected create ops (-want +got):\n%s", diff)
		}
		wantUpdate := []ir.OpKind{ir.OpKindProperty, ir.OpKindAttribute, ir.OpKindClassProp, ir.OpKindStyleProp, ir.OpKindClassMap}
		if diff := cmp.Diff(wantUpdate, kinds(job.Root.Update)); diff != "" {
			t.Errorf("unexpected update ops (-want +got):\n%s", diff)
		}
		style := job.Root.Update.Ops()[3].(*ir.StylePropOp)
		if style.Unit != "px" {
			t.Errorf("expected unit px, got %q", style.Unit)
		}
	})

	t.Run("should desugar two-way bindings", func(t *testing.T) {
		job := ingestNodes(t, nil, ingest.Options{},
			render3.NewElement("input", nil,
				[]*render3.BoundAttribute{render3.NewBoundAttribute("ngModel", render3.BindingTypeTwoWay, binding("name"), "", nil)},
				[]*render3.BoundEvent{render3.NewBoundEvent("ngModelChange", render3.ParsedEventTypeTwoWay, parser.ParseAction("name", "test", 0), "", nil)},
				nil, nil, nil))

		listener := job.Root.Create.Ops()[1].(*ir.ListenerOp)
		if !listener.IsTwoWay {
			t.Fatalf("expected a two-way listener")
		}
		stmt := listener.HandlerOps.Ops()[0].(*ir.StatementOp).Statement.(*output.ExpressionStatement)
		if _, ok := stmt.Expr.(*ir.TwoWayBindingSetExpr); !ok {
			t.Errorf("expected a two-way binding set, got %T", stmt.Expr)
		}
		if _, ok := job.Root.Update.Ops()[0].(*ir.TwoWayPropertyOp); !ok {
			t.Errorf("expected a two-way property op")
		}
	})
}

func TestIngestViews(t *testing.T) {
	t.Run("should allocate one child unit for a structural template", func(t *testing.T) {
		job := ingestNodes(t, nil, ingest.Options{Lenient: true}, ngIf(render3.NewText("hi", nil)))

		views := job.GetViews()
		if len(views) != 2 {
			t.Fatalf("expected 2 views, got %d", len(views))
		}
		child := views[1]
		if child.Parent == nil || *child.Parent != job.Root.Xref {
			t.Errorf("expected the child view to have the root as parent")
		}
		tmpl := job.Root.Create.Ops()[0].(*ir.TemplateOp)
		if tmpl.Xref != child.Xref || tmpl.TemplateKind != ir.TemplateKindStructural {
			t.Errorf("expected a structural template op for the child view, got %#v", tmpl)
		}
		property := job.Root.Update.Ops()[0].(*ir.PropertyOp)
		if !property.IsStructuralTemplateAttribute || property.Name != "ngIf" {
			t.Errorf("expected the ngIf binding to target the template, got %#v", property)
		}
	})

	t.Run("should never reuse an xref", func(t *testing.T) {
		job := ingestNodes(t, nil, ingest.Options{Lenient: true},
			render3.NewElement("ul", nil, nil, nil, []render3.Node{
				render3.NewForLoopBlock(render3.NewVariable("item", "", nil), binding("items"), binding("item.id"),
					[]*render3.Variable{render3.NewVariable("$index", "$index", nil), render3.NewVariable("i", "$index", nil)},
					[]render3.Node{render3.NewElement("li", nil, nil, nil, []render3.Node{render3.NewBoundText(interpolation("{{item | upper}}"), nil)}, nil, nil)},
					render3.NewForLoopBlockEmpty([]render3.Node{render3.NewText("none", nil)}, nil), nil),
				render3.NewIfBlock([]*render3.IfBlockBranch{
					render3.NewIfBlockBranch(binding("a"), []render3.Node{render3.NewText("a", nil)}, nil, nil),
					render3.NewIfBlockBranch(nil, []render3.Node{render3.NewText("b", nil)}, nil, nil),
				}, nil),
			}, nil, nil))

		seen := map[ir.XrefId]bool{}
		check := func(xref ir.XrefId) {
			if seen[xref] {
				t.Errorf("xref %d allocated twice", xref)
			}
			seen[xref] = true
		}
		for _, unit := range job.GetViews() {
			for _, op := range unit.Create.Ops() {
				switch o := op.(type) {
				case *ir.ElementStartOp:
					check(o.Xref)
				case *ir.TextOp:
					check(o.Xref)
				case *ir.RepeaterCreateOp:
					check(o.Xref)
					check(o.EmptyView)
				case ir.EmbeddedViewOp:
					check(o.GetElementBase().Xref)
				}
			}
		}
		for _, unit := range job.GetViews()[1:] {
			if !seen[unit.Xref] {
				t.Errorf("view %d has no owning op", unit.Xref)
			}
		}
	})

	t.Run("should record @for builtins", func(t *testing.T) {
		job := ingestNodes(t, nil, ingest.Options{},
			render3.NewForLoopBlock(render3.NewVariable("item", "", nil), binding("items"), binding("$index"),
				[]*render3.Variable{
					render3.NewVariable("$index", "$index", nil),
					render3.NewVariable("$first", "$first", nil),
					render3.NewVariable("i", "$index", nil),
				}, nil, nil, nil))

		repeater := job.Root.Create.Ops()[0].(*ir.RepeaterCreateOp)
		want := ir.RepeaterVarNames{DollarIndex: []string{"$index", "i"}, DollarImplicit: "item"}
		if diff := cmp.Diff(want, repeater.VarNames); diff != "" {
			t.Errorf("unexpected var names (-want +got):\n%s", diff)
		}
		body := job.Views[repeater.Xref]
		var aliases []string
		for _, alias := range body.Aliases {
			aliases = append(aliases, alias.Identifier)
		}
		if diff := cmp.Diff([]string{"$first", "i"}, aliases); diff != "" {
			t.Errorf("unexpected aliases (-want +got):\n%s", diff)
		}
		if _, ok := job.Root.Update.Ops()[0].(*ir.RepeaterOp); !ok {
			t.Errorf("expected a repeater op")
		}
	})

	t.Run("should number projections in source order", func(t *testing.T) {
		job := ingestNodes(t, nil, ingest.Options{},
			render3.NewContent("header", nil, nil, nil),
			render3.NewIfBlock([]*render3.IfBlockBranch{
				render3.NewIfBlockBranch(binding("x"), []render3.Node{render3.NewContent("", nil, nil, nil)}, nil, nil),
			}, nil),
			render3.NewContent("footer", nil, nil, nil))

		orders := map[string]int{}
		for _, unit := range job.GetViews() {
			for _, op := range unit.Create.Ops() {
				if p, ok := op.(*ir.ProjectionOp); ok {
					orders[p.Selector] = p.SourceOrder
				}
			}
		}
		if diff := cmp.Diff(map[string]int{"header": 0, "*": 1, "footer": 2}, orders); diff != "" {
			t.Errorf("unexpected source order (-want +got):\n%s", diff)
		}
	})
}

func TestIngestDiagnostics(t *testing.T) {
	ngIfDirective := &view.R3DirectiveDependencyMetadata{
		R3TemplateDependency: view.R3TemplateDependency{Kind: view.R3TemplateDependencyKindDirective, Type: output.Variable("NgIf")},
		Selector:             "[ngIf]",
	}
	ngModel := &view.R3DirectiveDependencyMetadata{
		R3TemplateDependency: view.R3TemplateDependency{Kind: view.R3TemplateDependencyKindDirective, Type: output.Variable("NgModel")},
		Selector:             "[ngModel]",
		ExportAs:             []string{"ngModel"},
	}

	t.Run("should report a structural directive nothing provides", func(t *testing.T) {
		job := ingestNodes(t, nil, ingest.Options{}, ngIf())
		if diff := cmp.Diff([]diagnostics.Code{diagnostics.CodeMissingControlFlowDirective}, codes(job)); diff != "" {
			t.Errorf("unexpected diagnostics (-want +got):\n%s", diff)
		}
	})

	t.Run("should mark a matched directive used", func(t *testing.T) {
		job := ingestNodes(t, []view.R3TemplateDependencyMetadata{ngModel, ngIfDirective}, ingest.Options{}, ngIf())
		if job.Diagnostics.Len() != 0 {
			t.Errorf("expected no diagnostics, got %v", job.Diagnostics.Items())
		}
		if diff := cmp.Diff([]int{1}, job.UsedDependencies()); diff != "" {
			t.Errorf("unexpected used dependencies (-want +got):\n%s", diff)
		}
	})

	t.Run("should check reference exports against matched directives", func(t *testing.T) {
		input := func(ref string) *render3.Element {
			return render3.NewElement("input", nil,
				[]*render3.BoundAttribute{render3.NewBoundAttribute("ngModel", render3.BindingTypeProperty, binding("v"), "", nil)},
				nil, nil, []*render3.Reference{render3.NewReference("m", ref, nil)}, nil)
		}
		deps := []view.R3TemplateDependencyMetadata{ngModel}
		if job := ingestNodes(t, deps, ingest.Options{}, input("ngModel")); job.Diagnostics.Len() != 0 {
			t.Errorf("expected no diagnostics, got %v", job.Diagnostics.Items())
		}
		job := ingestNodes(t, deps, ingest.Options{}, input("ngForm"))
		if diff := cmp.Diff([]diagnostics.Code{diagnostics.CodeMissingReferenceTarget}, codes(job)); diff != "" {
			t.Errorf("unexpected diagnostics (-want +got):\n%s", diff)
		}
	})

	t.Run("should report unknown pipes unless lenient", func(t *testing.T) {
		text := func() render3.Node { return render3.NewBoundText(interpolation("{{ d | date }}"), nil) }
		job := ingestNodes(t, nil, ingest.Options{}, text())
		if diff := cmp.Diff([]diagnostics.Code{diagnostics.CodeMissingPipe}, codes(job)); diff != "" {
			t.Errorf("unexpected diagnostics (-want +got):\n%s", diff)
		}
		if job := ingestNodes(t, nil, ingest.Options{Lenient: true}, text()); job.Diagnostics.Len() != 0 {
			t.Errorf("expected no diagnostics when lenient, got %v", job.Diagnostics.Items())
		}
	})
}

func TestIngestHostBinding(t *testing.T) {
	t.Run("should ingest host attributes, properties and listeners", func(t *testing.T) {
		meta := &view.R3HostMetadata{
			Attributes: []view.R3HostAttribute{{Name: "role", Value: "button"}},
			Properties: []view.R3HostBinding{
				{Key: "title", Expression: "label"},
				{Key: "attr.aria-disabled", Expression: "disabled"},
				{Key: "class.active", Expression: "active"},
				{Key: "style.width.px", Expression: "width"},
			},
			Listeners: []view.R3HostBinding{{Key: "window:resize", Expression: "onResize()"}},
		}
		job := ingest.IngestHostBinding("TestCmp", meta, constant.NewConstantPool())

		wantCreate := []ir.OpKind{ir.OpKindExtractedAttribute, ir.OpKindListener}
		if diff := cmp.Diff(wantCreate, kinds(job.Root.Create)); diff != "" {
			t.Errorf("unexpected create ops (-want +got):\n%s", diff)
		}
		wantUpdate := []ir.OpKind{ir.OpKindProperty, ir.OpKindAttribute, ir.OpKindClassProp, ir.OpKindStyleProp}
		if diff := cmp.Diff(wantUpdate, kinds(job.Root.Update)); diff != "" {
			t.Errorf("unexpected update ops (-want +got):\n%s", diff)
		}
		listener := job.Root.Create.Ops()[1].(*ir.ListenerOp)
		if listener.Name != "resize" || listener.EventTarget != "window" || !listener.HostListener {
			t.Errorf("unexpected listener %#v", listener)
		}
	})

	t.Run("should reject pipes in host bindings", func(t *testing.T) {
		meta := &view.R3HostMetadata{Properties: []view.R3HostBinding{{Key: "title", Expression: "label | upper"}}}
		job := ingest.IngestHostBinding("TestCmp", meta, constant.NewConstantPool())
		if job.Diagnostics.Len() != 1 || job.Diagnostics.Items()[0].Code != diagnostics.CodeTemplateParseError {
			t.Errorf("expected one parse error, got %v", job.Diagnostics.Items())
		}
	})
}
