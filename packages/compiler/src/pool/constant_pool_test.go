package constant_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngc-ir/packages/compiler/src/output"
	constant "ngc-ir/packages/compiler/src/pool"
)

func printExpr(expr output.OutputExpression) string {
	return output.NewAbstractJsEmitterVisitor(nil).EmitExpression(expr)
}

func attrs() output.OutputExpression {
	return output.LiteralArr(output.Literal("class"), output.Literal("box"))
}

func TestConstantPool(t *testing.T) {
	t.Run("should return simple literals unchanged", func(t *testing.T) {
		pool := constant.NewConstantPool()
		lit := output.Literal("short")
		if got := pool.GetConstLiteral(lit, true); got != output.OutputExpression(lit) {
			t.Errorf("expected the literal itself, got %T", got)
		}
		if len(pool.Statements()) != 0 {
			t.Errorf("expected no statements, got %d", len(pool.Statements()))
		}
	})

	t.Run("should pool long strings", func(t *testing.T) {
		pool := constant.NewConstantPool()
		long := output.Literal(strings.Repeat("x", constant.PoolInclusionLengthThresholdForStrings))
		got := pool.GetConstLiteral(long, true)
		if printExpr(got) != "_c0" {
			t.Errorf("expected _c0, got %s", printExpr(got))
		}
	})

	t.Run("should share a literal on its second occurrence", func(t *testing.T) {
		pool := constant.NewConstantPool()
		first := pool.GetConstLiteral(attrs(), false)
		if printExpr(first) != "['class', 'box']" {
			t.Errorf("expected inline literal before sharing, got %s", printExpr(first))
		}
		second := pool.GetConstLiteral(attrs(), false)
		if printExpr(first) != "_c0" || printExpr(second) != "_c0" {
			t.Errorf("expected both usages to print _c0, got %s and %s", printExpr(first), printExpr(second))
		}
		third := pool.GetConstLiteral(attrs(), false)
		if printExpr(third) != "_c0" {
			t.Errorf("expected _c0, got %s", printExpr(third))
		}
		if len(pool.Statements()) != 1 {
			t.Fatalf("expected exactly one declaration, got %d", len(pool.Statements()))
		}
		decl := output.NewAbstractJsEmitterVisitor(nil).EmitStatements(pool.Statements())
		if diff := cmp.Diff("const _c0 = ['class', 'box'];", decl); diff != "" {
			t.Errorf("unexpected declaration (-want +got):\n%s", diff)
		}
	})

	t.Run("should number constants independently of unique names", func(t *testing.T) {
		pool := constant.NewConstantPool()
		if got := pool.UniqueName("_c"); got != "_c" {
			t.Errorf("expected _c, got %s", got)
		}
		got := pool.GetConstLiteral(attrs(), true)
		if printExpr(got) != "_c0" {
			t.Errorf("expected _c0, got %s", printExpr(got))
		}
	})

	t.Run("should suffix repeated unique names", func(t *testing.T) {
		pool := constant.NewConstantPool()
		names := []string{pool.UniqueName("foo"), pool.UniqueName("foo"), pool.UniqueName("foo")}
		if diff := cmp.Diff([]string{"foo", "foo_1", "foo_2"}, names); diff != "" {
			t.Errorf("unexpected names (-want +got):\n%s", diff)
		}
	})

	t.Run("should share equivalent functions", func(t *testing.T) {
		pool := constant.NewConstantPool()
		track := func() output.OutputExpression {
			return output.ArrowFn(output.Params("$index", "$item"), output.Prop(output.Variable("$item"), "id"))
		}
		a := pool.GetSharedFunctionReference(track(), "_forTrack", true)
		b := pool.GetSharedFunctionReference(track(), "_forTrack", true)
		if printExpr(a) != "_forTrack0" || printExpr(b) != "_forTrack0" {
			t.Errorf("expected _forTrack0 twice, got %s and %s", printExpr(a), printExpr(b))
		}
		other := output.ArrowFn(output.Params("$index", "$item"), output.Prop(output.Variable("$item"), "key"))
		if got := pool.GetSharedFunctionReference(other, "_forTrack", true); printExpr(got) != "_forTrack1" {
			t.Errorf("expected _forTrack1, got %s", printExpr(got))
		}
	})
}
