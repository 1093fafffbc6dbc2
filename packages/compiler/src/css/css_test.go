package css_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngc-ir/packages/compiler/src/css"
)

func TestParseCssSelector(t *testing.T) {
	t.Run("should parse element, class, attribute and :not", func(t *testing.T) {
		selectors, err := css.ParseCssSelector("button.primary[type=submit]:not(.disabled), [ngIf]")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(selectors) != 2 {
			t.Fatalf("expected 2 selectors, got %d", len(selectors))
		}
		first := selectors[0]
		if first.Element != "button" {
			t.Errorf("expected element button, got %q", first.Element)
		}
		if diff := cmp.Diff([]string{"primary"}, first.ClassNames); diff != "" {
			t.Errorf("unexpected classes (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"type", "submit"}, first.Attrs); diff != "" {
			t.Errorf("unexpected attrs (-want +got):\n%s", diff)
		}
		if len(first.NotSelectors) != 1 || first.NotSelectors[0].String() != ".disabled" {
			t.Errorf("unexpected :not selectors %v", first.NotSelectors)
		}
		if got := selectors[1].String(); got != "[ngIf]" {
			t.Errorf("expected [ngIf], got %q", got)
		}
	})

	t.Run("should reject nested :not", func(t *testing.T) {
		if _, err := css.ParseCssSelector("a:not(:not(.b))"); err == nil {
			t.Errorf("expected an error")
		}
	})
}

func TestSelectorMatcher(t *testing.T) {
	matcher := css.NewSelectorMatcher[int]()
	matcher.AddSelectables(css.MustParseCssSelector("[ngIf]"), 0)
	matcher.AddSelectables(css.MustParseCssSelector("button.primary:not([disabled])"), 1)
	matcher.AddSelectables(css.MustParseCssSelector("my-cmp"), 2)

	collect := func(element *css.CssSelector) []int {
		var got []int
		matcher.Match(element, func(_ *css.CssSelector, idx int) {
			got = append(got, idx)
		})
		return got
	}

	t.Run("should match attribute selectors case-insensitively", func(t *testing.T) {
		element := css.CreateElementCssSelector("ng-template", [][2]string{{"ngIf", ""}})
		if diff := cmp.Diff([]int{0}, collect(element)); diff != "" {
			t.Errorf("unexpected matches (-want +got):\n%s", diff)
		}
	})

	t.Run("should honour classes and :not", func(t *testing.T) {
		ok := css.CreateElementCssSelector("button", [][2]string{{"class", "big primary"}})
		if diff := cmp.Diff([]int{1}, collect(ok)); diff != "" {
			t.Errorf("unexpected matches (-want +got):\n%s", diff)
		}
		disabled := css.CreateElementCssSelector("button", [][2]string{{"class", "primary"}, {"disabled", ""}})
		if got := collect(disabled); len(got) != 0 {
			t.Errorf("expected no matches, got %v", got)
		}
	})
}

func TestShimCssText(t *testing.T) {
	shim := func(cssText string) string {
		return css.NewShadowCss().ShimCssText(cssText, "contenta", "hosta")
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple selector", "one {color: red;}", "one[contenta] { color: red; }"},
		{"selector list", "one, two {}", "one[contenta], two[contenta] {}"},
		{"descendant and child", "one > two three {}", "one[contenta] > two[contenta] three[contenta] {}"},
		{"pseudo class", "a:hover {}", "a[contenta]:hover {}"},
		{"host", ":host {display: block;}", "[hosta] { display: block; }"},
		{"host with selector", ":host(.active) .x {}", ".active[hosta] .x[contenta] {}"},
		{"ng-deep", ".a ::ng-deep .b {}", ".a[contenta] .b {}"},
		{"media", "@media screen { div {} }", "@media screen { div[contenta] {} }"},
		{"keyframes untouched", "@keyframes spin { from {} }", "@keyframes spin { from {} }"},
		{"comments", "/* c */ p {}", "p[contenta] {}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, shim(tt.in)); diff != "" {
				t.Errorf("unexpected shim (-want +got):\n%s", diff)
			}
		})
	}
}
