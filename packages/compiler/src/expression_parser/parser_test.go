package expression_parser_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngc-ir/packages/compiler/src/expression_parser"
)

func newParser() *expression_parser.Parser {
	return expression_parser.NewParser(expression_parser.NewLexer())
}

func checkAction(exp string, expected ...string) func(*testing.T) {
	return func(t *testing.T) {
		ast := newParser().ParseAction(exp, "test", 0)
		want := exp
		if len(expected) > 0 {
			want = expected[0]
		}
		if len(ast.Errors) > 0 {
			t.Fatalf("unexpected errors: %v", ast.Errors[0])
		}
		if got := expression_parser.Serialize(ast.AST); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}

func checkBinding(exp string, expected ...string) func(*testing.T) {
	return func(t *testing.T) {
		ast := newParser().ParseBinding(exp, "test", 0)
		want := exp
		if len(expected) > 0 {
			want = expected[0]
		}
		if len(ast.Errors) > 0 {
			t.Fatalf("unexpected errors: %v", ast.Errors[0])
		}
		if got := expression_parser.Serialize(ast.AST); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}

func expectBindingError(text string, message string) func(*testing.T) {
	return func(t *testing.T) {
		ast := newParser().ParseBinding(text, "test", 0)
		for _, err := range ast.Errors {
			if strings.Contains(err.Message, message) {
				return
			}
		}
		t.Errorf("Expected an error containing %q, got %v", message, ast.Errors)
	}
}

func TestParser(t *testing.T) {
	t.Run("parseAction", func(t *testing.T) {
		t.Run("should parse numbers", checkAction("1"))
		t.Run("should parse strings", checkAction(`"a"`, "'a'"))
		t.Run("should parse null", checkAction("null"))
		t.Run("should parse undefined", checkAction("undefined"))
		t.Run("should parse unary - expressions", checkAction("-1"))
		t.Run("should parse unary ! expressions", checkAction("!true"))
		t.Run("should parse postfix ! expression", checkAction("a!.b"))
		t.Run("should parse multiplicative expressions", checkAction("3 * 4 / 2 % 5"))
		t.Run("should parse additive expressions", checkAction("3 + 6 - 2"))
		t.Run("should parse relational expressions", checkAction("2 < 3 && 3 >= 2"))
		t.Run("should parse strict equality expressions", checkAction("a === b || c !== d"))
		t.Run("should parse nullish coalescing", checkAction("a ?? b"))
		t.Run("should parse typeof expression", checkAction("typeof a"))
		t.Run("should parse grouped expressions", checkAction("(1 + 2) * 3"))
		t.Run("should parse conditional", checkAction("a ? b : c"))
		t.Run("should parse property writes", checkAction("a.b = c"))
		t.Run("should parse implicit property writes", checkAction("name = $event"))
		t.Run("should parse keyed writes", checkAction("a[k] = v"))
		t.Run("should parse chains", checkAction("a(); b()"))
		t.Run("should parse safe navigation", checkAction("a?.b?.[0]?.(c)"))
		t.Run("should parse literal maps", checkAction("{a: 1, 'b': 2}"))
		t.Run("should parse shorthand map entries", checkAction("{a}", "{a: a}"))
		t.Run("should parse literal arrays", checkAction("[1, [2]]"))
		t.Run("should parse this", checkAction("this.a"))
	})

	t.Run("parseBinding", func(t *testing.T) {
		t.Run("should parse pipes", checkBinding("a | uppercase"))
		t.Run("should parse pipes with arguments", checkBinding("a | slice:1:2"))
		t.Run("should parse chained pipes", checkBinding("a | b | c"))
		t.Run("should parse a pipe in a conditional branch", checkBinding("c ? (a | p) : b"))
		t.Run("should reject assignments", expectBindingError("a = 1", "Bindings cannot contain assignments"))
		t.Run("should reject chains", expectBindingError("a; b", "Binding expression cannot contain chained expression"))
		t.Run("should reject interpolation", expectBindingError("{{a}}", "Got interpolation ({{}}) where expression was expected"))
		t.Run("should report lexer errors", expectBindingError("a # b", "Unexpected character [#]"))
		t.Run("should report an incomplete conditional", expectBindingError("a ? b", "requires all 3 expressions"))
	})

	t.Run("spans", func(t *testing.T) {
		t.Run("should record absolute spans", func(t *testing.T) {
			ast := newParser().ParseBinding("foo.bar", "test", 10)
			read, ok := ast.AST.(*expression_parser.PropertyRead)
			if !ok {
				t.Fatalf("expected PropertyRead, got %T", ast.AST)
			}
			if diff := cmp.Diff(expression_parser.ParseSpan{Start: 10, End: 17}, read.GetSpan()); diff != "" {
				t.Errorf("unexpected span (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(expression_parser.ParseSpan{Start: 14, End: 17}, read.NameSpan); diff != "" {
				t.Errorf("unexpected name span (-want +got):\n%s", diff)
			}
		})

		t.Run("should report the span of the wrapped expression", func(t *testing.T) {
			ast := newParser().ParseBinding("a + b", "test", 4)
			if diff := cmp.Diff(expression_parser.ParseSpan{Start: 4, End: 9}, ast.GetSpan()); diff != "" {
				t.Errorf("unexpected span (-want +got):\n%s", diff)
			}
			if got := expression_parser.Serialize(ast); got != "a + b" {
				t.Errorf("Expected %q, got %q", "a + b", got)
			}
		})
	})
}

func TestParseInterpolation(t *testing.T) {
	t.Run("should return nil without interpolation", func(t *testing.T) {
		if ast := newParser().ParseInterpolation("plain text", "test", 0); ast != nil {
			t.Errorf("expected nil, got %v", ast)
		}
	})

	t.Run("should split strings and expressions", func(t *testing.T) {
		ast := newParser().ParseInterpolation("Hello {{ name }}!{{a + b}}", "test", 0)
		interpolation := ast.AST.(*expression_parser.Interpolation)
		if diff := cmp.Diff([]string{"Hello ", "!", ""}, interpolation.Strings); diff != "" {
			t.Errorf("unexpected strings (-want +got):\n%s", diff)
		}
		var exprs []string
		for _, expr := range interpolation.Expressions {
			exprs = append(exprs, expression_parser.Serialize(expr))
		}
		if diff := cmp.Diff([]string{"name", "a + b"}, exprs); diff != "" {
			t.Errorf("unexpected expressions (-want +got):\n%s", diff)
		}
		name := interpolation.Expressions[0].(*expression_parser.PropertyRead)
		if name.GetSpan().Start != 9 {
			t.Errorf("expected absolute start 9, got %d", name.GetSpan().Start)
		}
	})

	t.Run("should ignore braces in quotes", func(t *testing.T) {
		ast := newParser().ParseInterpolation("{{ '}}' + a }}", "test", 0)
		interpolation := ast.AST.(*expression_parser.Interpolation)
		if got := expression_parser.Serialize(interpolation.Expressions[0]); got != "'}}' + a" {
			t.Errorf("unexpected expression %q", got)
		}
	})

	t.Run("should report blank expressions", func(t *testing.T) {
		ast := newParser().ParseInterpolation("a {{ }} b", "test", 0)
		if len(ast.Errors) == 0 || !strings.Contains(ast.Errors[0].Message, "Blank expressions") {
			t.Errorf("expected blank expression error, got %v", ast.Errors)
		}
	})
}

type binding struct {
	Kind  string
	Key   string
	Value string
}

func keyValues(bindings []expression_parser.TemplateBinding) []binding {
	var result []binding
	for _, b := range bindings {
		switch b := b.(type) {
		case *expression_parser.VariableBinding:
			result = append(result, binding{Kind: "let", Key: b.Key, Value: b.Value})
		case *expression_parser.ExpressionBinding:
			value := ""
			if b.Value != nil {
				value = expression_parser.Serialize(b.Value.AST)
			}
			result = append(result, binding{Kind: "expr", Key: b.Key, Value: value})
		}
	}
	return result
}

func TestParseTemplateBindings(t *testing.T) {
	parse := func(key, value string) []binding {
		bindings, errs := newParser().ParseTemplateBindings(key, value, "test", 0, 0)
		if len(errs) > 0 {
			t.Fatalf("unexpected errors: %v", errs[0])
		}
		return keyValues(bindings)
	}

	t.Run("should parse ngFor microsyntax", func(t *testing.T) {
		got := parse("ngFor", "let item of items; let i = index; trackBy: byId")
		want := []binding{
			{Kind: "expr", Key: "ngFor"},
			{Kind: "let", Key: "item", Value: "$implicit"},
			{Kind: "expr", Key: "ngForOf", Value: "items"},
			{Kind: "let", Key: "i", Value: "index"},
			{Kind: "expr", Key: "ngForTrackBy", Value: "byId"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("unexpected bindings (-want +got):\n%s", diff)
		}
	})

	t.Run("should parse ngIf with else", func(t *testing.T) {
		got := parse("ngIf", "cond; else other")
		want := []binding{
			{Kind: "expr", Key: "ngIf", Value: "cond"},
			{Kind: "expr", Key: "ngIfElse", Value: "other"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("unexpected bindings (-want +got):\n%s", diff)
		}
	})

	t.Run("should parse as bindings", func(t *testing.T) {
		got := parse("ngIf", "user$ | async as user")
		want := []binding{
			{Kind: "expr", Key: "ngIf", Value: "user$ | async"},
			{Kind: "let", Key: "user", Value: "ngIf"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("unexpected bindings (-want +got):\n%s", diff)
		}
	})

	t.Run("should parse index as alias", func(t *testing.T) {
		got := parse("ngFor", "let x of xs; index as i")
		if diff := cmp.Diff(binding{Kind: "let", Key: "i", Value: "index"}, got[len(got)-1]); diff != "" {
			t.Errorf("unexpected binding (-want +got):\n%s", diff)
		}
	})
}
