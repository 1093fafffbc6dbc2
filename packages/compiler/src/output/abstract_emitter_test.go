package output_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngc-ir/packages/compiler/src/output"
)

func emit(stmts ...output.OutputStatement) string {
	return output.NewAbstractJsEmitterVisitor(output.NewImportManager("@angular/core")).EmitStatements(stmts)
}

func emitExpr(expr output.OutputExpression) string {
	return output.NewAbstractJsEmitterVisitor(output.NewImportManager("@angular/core")).EmitExpression(expr)
}

func TestEscapeIdentifier(t *testing.T) {
	t.Run("should escape single quotes", func(t *testing.T) {
		if got := output.EscapeIdentifier("'", false, true); got != `'\''` {
			t.Errorf("Expected %q, got %q", `'\''`, got)
		}
	})

	t.Run("should escape newlines", func(t *testing.T) {
		if got := output.EscapeIdentifier("\n", false, true); got != `'\n'` {
			t.Errorf("Expected %q, got %q", `'\n'`, got)
		}
	})

	t.Run("should escape $ when requested", func(t *testing.T) {
		if got := output.EscapeIdentifier("$", true, true); got != `'\$'` {
			t.Errorf("Expected %q, got %q", `'\$'`, got)
		}
	})

	t.Run("should add quotes for non-identifiers", func(t *testing.T) {
		if got := output.EscapeIdentifier("data-id", false, false); got != "'data-id'" {
			t.Errorf("Expected %q, got %q", "'data-id'", got)
		}
		if got := output.EscapeIdentifier("type", false, false); got != "type" {
			t.Errorf("Expected %q, got %q", "type", got)
		}
	})
}

func TestJsEmitter(t *testing.T) {
	core := func(name string) output.OutputExpression {
		return output.ImportExpr(&output.ExternalReference{ModuleName: "@angular/core", Name: name})
	}

	t.Run("should print instruction calls through the namespace alias", func(t *testing.T) {
		got := emit(output.Stmt(output.Call(core("ɵɵelementStart"), output.Literal(0), output.Literal("div"))))
		if diff := cmp.Diff("i0.ɵɵelementStart(0, 'div');", got); diff != "" {
			t.Errorf("unexpected output (-want +got):\n%s", diff)
		}
	})

	t.Run("should print const and let declarations", func(t *testing.T) {
		got := emit(
			output.Const("ctx_r0", output.Call(core("ɵɵnextContext"))),
			output.Let("_t", nil),
		)
		want := "const ctx_r0 = i0.ɵɵnextContext();\nlet _t;"
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("unexpected output (-want +got):\n%s", diff)
		}
	})

	t.Run("should print function expressions with nested blocks", func(t *testing.T) {
		fn := output.Fn(output.Params("rf", "ctx"), []output.OutputStatement{
			output.NewIfStmt(
				output.Binary(output.BinaryOperatorBitwiseAnd, output.Variable("rf"), output.Literal(1)),
				[]output.OutputStatement{output.Stmt(output.Call(core("ɵɵtext"), output.Literal(0)))},
				nil, nil),
		}, "Comp_Template")
		got := emit(output.Stmt(fn))
		want := "function Comp_Template(rf, ctx) {\n" +
			"  if (rf & 1) {\n" +
			"    i0.ɵɵtext(0);\n" +
			"  }\n" +
			"};"
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("unexpected output (-want +got):\n%s", diff)
		}
	})

	t.Run("should parenthesize by precedence", func(t *testing.T) {
		sum := output.Binary(output.BinaryOperatorPlus, output.Variable("a"), output.Variable("b"))
		product := output.Binary(output.BinaryOperatorMultiply, sum, output.Variable("c"))
		if got := emitExpr(product); got != "(a + b) * c" {
			t.Errorf("Expected %q, got %q", "(a + b) * c", got)
		}

		cond := output.Conditional(
			output.Binary(output.BinaryOperatorEquals, output.Variable("a"), output.NullExpr),
			output.NullExpr,
			output.Prop(output.Variable("a"), "b"))
		if got := emitExpr(cond); got != "a == null ? null : a.b" {
			t.Errorf("Expected %q, got %q", "a == null ? null : a.b", got)
		}

		assign := output.Binary(output.BinaryOperatorOr,
			output.Call(core("ɵɵtwoWayBindingSet"), output.Variable("t"), output.Variable("v")),
			output.Assign(output.Variable("t"), output.Variable("v")))
		if got := emitExpr(assign); got != "i0.ɵɵtwoWayBindingSet(t, v) || (t = v)" {
			t.Errorf("Expected %q, got %q", "i0.ɵɵtwoWayBindingSet(t, v) || (t = v)", got)
		}
	})

	t.Run("should wrap object literal arrow bodies", func(t *testing.T) {
		arrow := output.ArrowFn(nil, output.LiteralMap(output.NewLiteralMapEntry("a", output.Literal(1), false)))
		if got := emitExpr(arrow); got != "() => ({a: 1})" {
			t.Errorf("Expected %q, got %q", "() => ({a: 1})", got)
		}
	})

	t.Run("should register new modules with increasing aliases", func(t *testing.T) {
		imports := output.NewImportManager("@angular/core")
		printer := output.NewAbstractJsEmitterVisitor(imports)
		got := printer.EmitExpression(output.ImportExpr(&output.ExternalReference{ModuleName: "./dir", Name: "Dir"}))
		if got != "i1.Dir" {
			t.Errorf("Expected %q, got %q", "i1.Dir", got)
		}
		if diff := cmp.Diff([]string{"@angular/core", "./dir"}, imports.Modules()); diff != "" {
			t.Errorf("unexpected modules (-want +got):\n%s", diff)
		}
	})
}
