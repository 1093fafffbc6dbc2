package phases_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-ir/packages/compiler/src/output"
	constant "ngc-ir/packages/compiler/src/pool"
	"ngc-ir/packages/compiler/src/render3/view"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/compilation"
	"ngc-ir/packages/compiler/src/template/pipeline/src/ingest"
	pipeline_instruction "ngc-ir/packages/compiler/src/template/pipeline/src/instruction"
	"ngc-ir/packages/compiler/src/template/pipeline/src/phases"
	"ngc-ir/packages/compiler/src/template_parser"
)

func ingestTemplate(t *testing.T, template string) *compilation.ComponentCompilationJob {
	t.Helper()
	parsed := template_parser.ParseTemplate(template, "test.html")
	require.Empty(t, parsed.Errors)
	meta := &view.R3ComponentMetadata{Name: "TestCmp"}
	return ingest.IngestComponent(meta, parsed.Nodes, constant.NewConstantPool(), ingest.Options{File: parsed.File, Lenient: true})
}

func emit(stmts ...output.OutputStatement) string {
	return output.NewAbstractJsEmitterVisitor(output.NewImportManager("@angular/core")).EmitStatements(stmts)
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"color: red", []string{"color", "red"}},
		{"color: red; height: auto;", []string{"color", "red", "height", "auto"}},
		{"backgroundColor: blue", []string{"background-color", "blue"}},
		{"--mainColor: x", []string{"--mainColor", "x"}},
		{"background: url('a;b.png')", []string{"background", "url('a;b.png')"}},
		{"content: 'a:b'; width: calc(1px; 2px)", []string{"content", "'a:b'", "width", "calc(1px; 2px)"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, phases.ParseStyle(tt.in)); diff != "" {
			t.Errorf("ParseStyle(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestStripNonrequiredParentheses(t *testing.T) {
	firstExpression := func(job *compilation.ComponentCompilationJob) output.OutputExpression {
		for _, op := range job.Root.Update.Ops() {
			if text, ok := op.(*ir.InterpolateTextOp); ok {
				return text.Interpolation.Expressions[0]
			}
		}
		t.Fatal("no text interpolation")
		return nil
	}

	job := ingestTemplate(t, "<p>{{ (a) }}</p>")
	phases.StripNonrequiredParentheses(job)
	_, ok := firstExpression(job).(*ir.LexicalReadExpr)
	assert.True(t, ok, "expected the grouping to be stripped, got %T", firstExpression(job))

	job = ingestTemplate(t, "<p>{{ (a ?? b) || c }}</p>")
	phases.StripNonrequiredParentheses(job)
	or, ok := firstExpression(job).(*output.BinaryOperatorExpr)
	require.True(t, ok)
	_, ok = or.Lhs.(*output.ParenthesizedExpr)
	assert.True(t, ok, "mixing ?? and || needs its parentheses")
}

func TestChainOperationsInList(t *testing.T) {
	ops := ir.NewOpList()
	ops.Push(pipeline_instruction.ElementStart(0, "div", nil, nil, nil))
	ops.Push(pipeline_instruction.ElementStart(1, "span", nil, nil, nil))
	ops.Push(pipeline_instruction.Text(2, "hi", nil))
	ops.Push(pipeline_instruction.ElementEnd(nil))
	ops.Push(pipeline_instruction.ElementEnd(nil))

	phases.ChainOperationsInList(ops)

	var stmts []output.OutputStatement
	for _, op := range ops.Ops() {
		stmts = append(stmts, op.(*ir.StatementOp).Statement)
	}
	want := "i0.ɵɵelementStart(0, 'div')(1, 'span');\n" +
		"i0.ɵɵtext(2, 'hi');\n" +
		"i0.ɵɵelementEnd()();"
	if diff := cmp.Diff(want, emit(stmts...)); diff != "" {
		t.Errorf("unexpected chain (-want +got):\n%s", diff)
	}
}

func TestVarsUsedByOp(t *testing.T) {
	job := ingestTemplate(t, `<div [title]="t" [class.on]="x">{{ a }} and {{ b }}</div>`)
	total := 0
	for _, op := range job.Root.Update.Ops() {
		total += phases.VarsUsedByOp(op)
	}
	// property 1, class binding 2, two-expression interpolation 2
	assert.Equal(t, 5, total)
}

// viewDepth counts the parent links from view to the root
func viewDepth(job *compilation.ComponentCompilationJob, view *compilation.ViewCompilationUnit) int {
	depth := 0
	for view.Parent != nil {
		view = job.Views[*view.Parent]
		depth++
	}
	return depth
}

func contextSteps(ops *ir.OpList) []int {
	var steps []int
	for _, op := range ops.Ops() {
		ir.VisitExpressionsInOp(op, func(expr output.OutputExpression, _ ir.VisitorContextFlag) {
			if next, ok := expr.(*ir.NextContextExpr); ok {
				steps = append(steps, next.Steps)
			}
		})
	}
	return steps
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func TestGenerateVariables(t *testing.T) {
	job := ingestTemplate(t, `<div *ngIf="a"><p *ngIf="b"><span *ngIf="c">{{ d }}</span></p></div>`)
	phases.GenerateVariables(job)

	byDepth := map[int][]int{}
	for _, view := range job.GetViews() {
		byDepth[viewDepth(job, view)] = contextSteps(view.Update)
	}
	want := map[int][]int{
		0: nil,
		1: {1},
		2: {1, 1},
		3: {1, 1, 1},
	}
	if diff := cmp.Diff(want, byDepth); diff != "" {
		t.Errorf("unexpected context steps by view depth (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, sum(byDepth[3]))
}

func TestMergeNextContextExpressions(t *testing.T) {
	nextStmt := func(steps int) ir.Op {
		return ir.NewStatementOp(output.Stmt(ir.NewNextContextExpr(steps)))
	}
	run := func(t *testing.T, build func(job *compilation.ComponentCompilationJob, ops *ir.OpList)) *ir.OpList {
		t.Helper()
		job := ingestTemplate(t, "<p></p>")
		ops := job.Root.Update
		for _, op := range ops.Ops() {
			ops.Remove(op)
		}
		build(job, ops)
		before := sum(contextSteps(ops))
		phases.MergeNextContextExpressions(job)
		assert.Equal(t, before, sum(contextSteps(ops)), "merging must keep the total number of steps")
		return ops
	}

	t.Run("should merge discarded steps forward", func(t *testing.T) {
		ops := run(t, func(job *compilation.ComponentCompilationJob, ops *ir.OpList) {
			xref := job.AllocateXrefId()
			ops.Push(nextStmt(1))
			ops.Push(nextStmt(1))
			ops.Push(ir.NewVariableOp(xref, ir.NewContextVariable(job.Root.Xref), ir.NewNextContextExpr(1), ir.VariableFlagsNone))
			ops.Push(ir.NewStatementOp(output.Stmt(ir.NewReadVariableExpr(xref))))
		})
		assert.Equal(t, 2, ops.Len())
		variable, ok := ops.Ops()[0].(*ir.VariableOp)
		require.True(t, ok)
		assert.Equal(t, 3, variable.Initializer.(*ir.NextContextExpr).Steps)
	})

	t.Run("should not merge across a context read", func(t *testing.T) {
		ops := run(t, func(job *compilation.ComponentCompilationJob, ops *ir.OpList) {
			ops.Push(nextStmt(1))
			ops.Push(ir.NewStatementOp(output.Stmt(ir.NewContextExpr(job.Root.Xref))))
			ops.Push(nextStmt(2))
		})
		assert.Equal(t, []int{1, 2}, contextSteps(ops))
	})

	t.Run("should not merge into child operations", func(t *testing.T) {
		ops := run(t, func(job *compilation.ComponentCompilationJob, ops *ir.OpList) {
			handler := ir.NewOpList()
			handler.Push(nextStmt(1))
			ops.Push(nextStmt(1))
			ops.Push(ir.NewListenerOp(job.Root.Xref, job.Slots.New(), "click", "div", handler, "", false, nil))
		})
		assert.Equal(t, 2, ops.Len())
	})

	t.Run("should absorb steps into an unread variable", func(t *testing.T) {
		ops := run(t, func(job *compilation.ComponentCompilationJob, ops *ir.OpList) {
			ops.Push(ir.NewVariableOp(job.AllocateXrefId(), ir.NewContextVariable(job.Root.Xref), ir.NewNextContextExpr(1), ir.VariableFlagsNone))
			ops.Push(nextStmt(1))
			ops.Push(nextStmt(1))
		})
		require.Equal(t, 1, ops.Len())
		assert.Equal(t, []int{3}, contextSteps(ops))
	})

	t.Run("should keep steps after a read variable", func(t *testing.T) {
		ops := run(t, func(job *compilation.ComponentCompilationJob, ops *ir.OpList) {
			xref := job.AllocateXrefId()
			ops.Push(ir.NewVariableOp(xref, ir.NewContextVariable(job.Root.Xref), ir.NewNextContextExpr(1), ir.VariableFlagsNone))
			ops.Push(ir.NewStatementOp(output.Stmt(ir.NewReadVariableExpr(xref))))
			ops.Push(nextStmt(1))
		})
		assert.Equal(t, []int{1, 1}, contextSteps(ops))
	})
}

func TestTwoWayBindingSetCall(t *testing.T) {
	event := output.Variable("$event")

	prop := phases.TwoWayBindingSetCall(output.Prop(output.Variable("ctx"), "name"), event)
	assert.Equal(t, "i0.ɵɵtwoWayBindingSet(ctx.name, $event) || (ctx.name = $event);", emit(output.Stmt(prop)))

	key := phases.TwoWayBindingSetCall(output.Key(output.Variable("ctx"), output.Literal("k")), event)
	assert.Equal(t, "i0.ɵɵtwoWayBindingSet(ctx['k'], $event) || (ctx['k'] = $event);", emit(output.Stmt(key)))

	variable := phases.TwoWayBindingSetCall(ir.NewReadVariableExpr(1), event)
	call, ok := variable.(*output.InvokeFunctionExpr)
	require.True(t, ok, "variables are set through the instruction only, got %T", variable)
	assert.Len(t, call.Args, 2)

	assert.Panics(t, func() {
		phases.TwoWayBindingSetCall(output.Variable("name"), event)
	})
}

func TestGenerateProjectionDefs(t *testing.T) {
	job := ingestTemplate(t, `<ng-content select="header"></ng-content>@if (x) {<ng-content></ng-content>}<ng-content select="footer"></ng-content>`)
	phases.GenerateProjectionDefs(job)

	slots := map[string]int{}
	for _, view := range job.GetViews() {
		for _, op := range view.Create.Ops() {
			if p, ok := op.(*ir.ProjectionOp); ok {
				slots[p.Selector] = p.ProjectionSlotIndex
			}
		}
	}
	if diff := cmp.Diff(map[string]int{"header": 0, "*": 1, "footer": 2}, slots); diff != "" {
		t.Errorf("unexpected projection slots (-want +got):\n%s", diff)
	}
	_, ok := job.Root.Create.Ops()[0].(*ir.ProjectionDefOp)
	assert.True(t, ok, "projectionDef must come first")
	assert.NotNil(t, job.ContentSelectors)

	job = ingestTemplate(t, `<ng-content></ng-content>`)
	phases.GenerateProjectionDefs(job)
	def, ok := job.Root.Create.Ops()[0].(*ir.ProjectionDefOp)
	require.True(t, ok, "a lone wildcard still needs projectionDef")
	assert.Nil(t, def.Def, "a lone wildcard has no selector list")
	assert.NotNil(t, job.ContentSelectors)
}
