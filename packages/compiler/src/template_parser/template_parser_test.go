package template_parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-ir/packages/compiler/src/render3"
	"ngc-ir/packages/compiler/src/template_parser"
)

func parse(t *testing.T, source string) *template_parser.ParsedTemplate {
	t.Helper()
	parsed := template_parser.ParseTemplate(source, "test.html")
	for _, err := range parsed.Errors {
		t.Errorf("unexpected parse error: %s", err.Msg)
	}
	return parsed
}

func parseWithErrors(t *testing.T, source string) []string {
	t.Helper()
	parsed := template_parser.ParseTemplate(source, "test.html")
	var messages []string
	for _, err := range parsed.Errors {
		messages = append(messages, err.Msg)
	}
	return messages
}

// humanize flattens nodes into one line per node, indented by depth
func humanize(nodes []render3.Node) []string {
	var out []string
	var visit func(nodes []render3.Node, depth int)
	visit = func(nodes []render3.Node, depth int) {
		indent := strings.Repeat("  ", depth)
		for _, node := range nodes {
			switch n := node.(type) {
			case *render3.Element:
				out = append(out, indent+"Element "+n.Name)
				for _, a := range n.Attributes {
					out = append(out, fmt.Sprintf("%s  @%s=%q", indent, a.Name, a.Value))
				}
				for _, in := range n.Inputs {
					out = append(out, fmt.Sprintf("%s  [%d]%s=%s%s", indent, in.Type, in.Name, in.Value.Source, unitSuffix(in.Unit)))
				}
				for _, o := range n.Outputs {
					out = append(out, fmt.Sprintf("%s  (%d)%s%s=%s", indent, o.Type, targetPrefix(o.Target), o.Name, o.Handler.Source))
				}
				for _, r := range n.References {
					out = append(out, fmt.Sprintf("%s  #%s=%q", indent, r.Name, r.Value))
				}
				visit(n.Children, depth+1)
			case *render3.Template:
				out = append(out, indent+"Template "+n.TagName)
				for _, a := range n.TemplateAttrs {
					switch ta := a.(type) {
					case *render3.TextAttribute:
						out = append(out, fmt.Sprintf("%s  *%s", indent, ta.Name))
					case *render3.BoundAttribute:
						out = append(out, fmt.Sprintf("%s  *%s=%s", indent, ta.Name, ta.Value.Source))
					}
				}
				for _, in := range n.Inputs {
					out = append(out, fmt.Sprintf("%s  [%d]%s=%s", indent, in.Type, in.Name, in.Value.Source))
				}
				for _, v := range n.Variables {
					out = append(out, fmt.Sprintf("%s  let %s=%s", indent, v.Name, v.Value))
				}
				for _, r := range n.References {
					out = append(out, fmt.Sprintf("%s  #%s=%q", indent, r.Name, r.Value))
				}
				visit(n.Children, depth+1)
			case *render3.Content:
				out = append(out, indent+"Content "+n.Selector)
				for _, a := range n.Attributes {
					out = append(out, fmt.Sprintf("%s  @%s=%q", indent, a.Name, a.Value))
				}
			case *render3.Text:
				out = append(out, fmt.Sprintf("%sText %q", indent, n.Value))
			case *render3.BoundText:
				out = append(out, fmt.Sprintf("%sBoundText %q", indent, n.Value.Source))
			case *render3.IfBlock:
				out = append(out, indent+"IfBlock")
				for _, b := range n.Branches {
					line := indent + "  Branch"
					if b.Expression != nil {
						line += " " + strings.TrimSpace(b.Expression.Source)
					}
					if b.ExpressionAlias != nil {
						line += " as " + b.ExpressionAlias.Name
					}
					out = append(out, line)
					visit(b.Children, depth+2)
				}
			case *render3.SwitchBlock:
				out = append(out, indent+"SwitchBlock "+strings.TrimSpace(n.Expression.Source))
				for _, c := range n.Cases {
					line := indent + "  Default"
					if c.Expression != nil {
						line = indent + "  Case " + strings.TrimSpace(c.Expression.Source)
					}
					out = append(out, line)
					visit(c.Children, depth+2)
				}
			case *render3.ForLoopBlock:
				out = append(out, fmt.Sprintf("%sForLoopBlock %s of %s track %s", indent, n.Item.Name,
					strings.TrimSpace(n.Expression.Source), strings.TrimSpace(n.TrackBy.Source)))
				for _, v := range n.ContextVariables {
					if v.Name != v.Value {
						out = append(out, fmt.Sprintf("%s  let %s=%s", indent, v.Name, v.Value))
					}
				}
				visit(n.Children, depth+1)
				if n.Empty != nil {
					out = append(out, indent+"  Empty")
					visit(n.Empty.Children, depth+2)
				}
			case *render3.LetDeclaration:
				out = append(out, fmt.Sprintf("%sLet %s=%s", indent, n.Name, strings.TrimSpace(n.Value.Source)))
			default:
				out = append(out, fmt.Sprintf("%s%T", indent, node))
			}
		}
	}
	visit(nodes, 0)
	return out
}

func unitSuffix(unit string) string {
	if unit == "" {
		return ""
	}
	return " (" + unit + ")"
}

func targetPrefix(target string) string {
	if target == "" {
		return ""
	}
	return target + ":"
}

func checkTemplate(t *testing.T, source string, want []string) {
	t.Helper()
	parsed := parse(t, source)
	if diff := cmp.Diff(want, humanize(parsed.Nodes)); diff != "" {
		t.Errorf("unexpected nodes for %q (-want +got):\n%s", source, diff)
	}
}

func TestParseElementsAndText(t *testing.T) {
	t.Run("should parse interpolated text", func(t *testing.T) {
		checkTemplate(t, `<div>{{ name }}</div>`, []string{
			"Element div",
			`  BoundText "{{ name }}"`,
		})
	})

	t.Run("should keep operators that look like markup inside interpolations", func(t *testing.T) {
		checkTemplate(t, `<span>{{ a && b }}</span>`, []string{
			"Element span",
			`  BoundText "{{ a && b }}"`,
		})
	})

	t.Run("should drop whitespace-only text and collapse runs", func(t *testing.T) {
		checkTemplate(t, "<div>\n  <span>a\n\n   b</span>\n</div>", []string{
			"Element div",
			"  Element span",
			`    Text "a b"`,
		})
	})

	t.Run("should preserve whitespace inside pre", func(t *testing.T) {
		checkTemplate(t, "<pre>  a\n b</pre>", []string{
			"Element pre",
			`  Text "  a\n b"`,
		})
	})

	t.Run("should drop the first newline of a textarea", func(t *testing.T) {
		checkTemplate(t, "<textarea>\nabc</textarea>", []string{
			"Element textarea",
			`  Text "abc"`,
		})
	})

	t.Run("should allow self-closing void and custom elements", func(t *testing.T) {
		checkTemplate(t, `<br/><app-item/>`, []string{
			"Element br",
			"Element app-item",
		})
	})

	t.Run("should decode entities", func(t *testing.T) {
		checkTemplate(t, `<p>a &amp; b &#64;if</p>`, []string{
			"Element p",
			`  Text "a & b @if"`,
		})
	})

	t.Run("should apply svg namespaces", func(t *testing.T) {
		checkTemplate(t, `<svg><rect></rect><foreignObject><div></div></foreignObject></svg>`, []string{
			"Element :svg:svg",
			"  Element :svg:rect",
			"  Element :svg:foreignObject",
			"    Element div",
		})
	})

	t.Run("should collect inline styles and drop scripts", func(t *testing.T) {
		parsed := parse(t, `<style>.a { color: red; }</style><script>alert(1)</script><b></b>`)
		require.Len(t, parsed.Styles, 1)
		assert.Equal(t, ".a { color: red; }", parsed.Styles[0])
		assert.Equal(t, []string{"Element b"}, humanize(parsed.Nodes))
	})
}

func TestParseBindings(t *testing.T) {
	t.Run("should sort attributes by kind", func(t *testing.T) {
		checkTemplate(t, `<input title="t" [value]="v" bind-id="i" (input)="onInput($event)" on-blur="touched()" #box ref-other="ngModel">`, []string{
			"Element input",
			`  @title="t"`,
			"  [0]value=v",
			"  [0]id=i",
			"  (0)input=onInput($event)",
			"  (0)blur=touched()",
			`  #box=""`,
			`  #other="ngModel"`,
		})
	})

	t.Run("should parse prefixed property bindings", func(t *testing.T) {
		checkTemplate(t, `<div [attr.aria-label]="label" [class.active]="on" [style.width.px]="w" [style.color]="c"></div>`, []string{
			"Element div",
			"  [1]aria-label=label",
			"  [2]active=on",
			"  [3]width=w (px)",
			"  [3]color=c",
		})
	})

	t.Run("should desugar two-way bindings", func(t *testing.T) {
		checkTemplate(t, `<input [(ngModel)]="name">`, []string{
			"Element input",
			"  [4]ngModel=name",
			"  (1)ngModelChange=name",
		})
	})

	t.Run("should split global event targets", func(t *testing.T) {
		checkTemplate(t, `<div (window:resize)="onResize()"></div>`, []string{
			"Element div",
			"  (0)window:resize=onResize()",
		})
	})

	t.Run("should turn interpolated attributes into property bindings", func(t *testing.T) {
		checkTemplate(t, `<img src="/img/{{ id }}.png">`, []string{
			"Element img",
			"  [0]src=/img/{{ id }}.png",
		})
	})

	t.Run("should strip data- prefixes", func(t *testing.T) {
		checkTemplate(t, `<div data-bind-title="t"></div>`, []string{
			"Element div",
			"  [0]title=t",
		})
	})

	t.Run("should drop i18n markers", func(t *testing.T) {
		checkTemplate(t, `<p i18n i18n-title title="x"></p>`, []string{
			"Element p",
			`  @title="x"`,
		})
	})
}

func TestParseTemplates(t *testing.T) {
	t.Run("should wrap structural directives in a template", func(t *testing.T) {
		checkTemplate(t, `<li *ngFor="let item of items; let i = index; trackBy: byId">{{ item }}</li>`, []string{
			"Template li",
			"  *ngFor",
			"  *ngForOf=items",
			"  *ngForTrackBy=byId",
			"  let item=$implicit",
			"  let i=index",
			"  Element li",
			`    BoundText "{{ item }}"`,
		})
	})

	t.Run("should parse ngIf with an alias", func(t *testing.T) {
		checkTemplate(t, `<div *ngIf="user as u">{{ u.name }}</div>`, []string{
			"Template div",
			"  *ngIf=user",
			"  let u=ngIf",
			"  Element div",
			`    BoundText "{{ u.name }}"`,
		})
	})

	t.Run("should parse ng-template variables and references", func(t *testing.T) {
		checkTemplate(t, `<ng-template let-item let-idx="index" #tpl [ngIf]="show"><b>{{ item }}</b></ng-template>`, []string{
			"Template ng-template",
			"  [0]ngIf=show",
			"  let item=$implicit",
			"  let idx=index",
			`  #tpl=""`,
			"  Element b",
			`    BoundText "{{ item }}"`,
		})
	})

	t.Run("should parse ng-content selectors", func(t *testing.T) {
		checkTemplate(t, `<ng-content select="[header]" class="x"></ng-content><ng-content></ng-content>`, []string{
			"Content [header]",
			`  @class="x"`,
			"Content *",
		})
	})

	t.Run("should keep ngNonBindable children static", func(t *testing.T) {
		checkTemplate(t, `<div ngNonBindable><span [title]="x">{{ raw }}</span></div>`, []string{
			"Element div",
			`  @ngNonBindable=""`,
			"  Element span",
			`    @[title]="x"`,
			`    Text "{{ raw }}"`,
		})
	})
}

func TestParseControlFlow(t *testing.T) {
	t.Run("should parse connected @if blocks", func(t *testing.T) {
		checkTemplate(t, `@if (a; as x) { <b>{{ x }}</b> } @else if (b) { two } @else { three }`, []string{
			"IfBlock",
			"  Branch a as x",
			"    Element b",
			`      BoundText "{{ x }}"`,
			"  Branch b",
			`    Text " two "`,
			"  Branch",
			`    Text " three "`,
		})
	})

	t.Run("should parse @switch", func(t *testing.T) {
		checkTemplate(t, `@switch (mode) { @case ('a') { <i></i> } @default { none } }`, []string{
			"SwitchBlock mode",
			"  Case 'a'",
			"    Element i",
			"  Default",
			`    Text " none "`,
		})
	})

	t.Run("should parse @for with aliases and @empty", func(t *testing.T) {
		checkTemplate(t, `<ul>@for (item of items; track item.id; let i = $index, odd = $odd) { <li>{{ i }}</li> } @empty { <li>none</li> }</ul>`, []string{
			"Element ul",
			"  ForLoopBlock item of items track item.id",
			"    let i=$index",
			"    let odd=$odd",
			"    Element li",
			`      BoundText "{{ i }}"`,
			"    Empty",
			"      Element li",
			`        Text "none"`,
		})
	})

	t.Run("should expose every loop builtin", func(t *testing.T) {
		parsed := parse(t, `@for (x of xs; track $index) {}`)
		require.Len(t, parsed.Nodes, 1)
		loop := parsed.Nodes[0].(*render3.ForLoopBlock)
		var names []string
		for _, v := range loop.ContextVariables {
			names = append(names, v.Name)
		}
		assert.Equal(t, []string{"$index", "$first", "$last", "$even", "$odd", "$count"}, names)
	})

	t.Run("should parse @let declarations", func(t *testing.T) {
		checkTemplate(t, `@let total = a + b; <p>{{ total }}</p>`, []string{
			"Let total=a + b",
			"Element p",
			`  BoundText "{{ total }}"`,
		})
	})

	t.Run("should not close blocks inside interpolations", func(t *testing.T) {
		checkTemplate(t, `@if (ok) {{{ map }}}`, []string{
			"IfBlock",
			"  Branch ok",
			`    BoundText "{{ map }}"`,
		})
	})

	t.Run("should leave unknown @ names as text", func(t *testing.T) {
		checkTemplate(t, `<p>mail me@example.com</p>`, []string{
			"Element p",
			`  Text "mail me@example.com"`,
		})
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"missing track", `@for (item of items) {}`, `@for loop must have a "track" expression`},
		{"stray closing brace", `<p>}</p>`, "Unexpected closing block"},
		{"unclosed block", `@if (a) { <b></b>`, `Unclosed block "@if"`},
		{"else without if", `@else { x }`, "@else block can only be used after an @if or @else if block."},
		{"let outside ng-template", `<div let-x></div>`, `"let-" is only supported on ng-template elements.`},
		{"multiple template bindings", `<div *ngIf="a" *ngFor="let x of xs"></div>`, "Can't have multiple template bindings"},
		{"case outside switch", `@case (1) { x }`, "@case block can only be used inside an @switch block"},
		{"bad for expression", `@for (items; track $index) {}`, "@for loop expression must match the pattern"},
		{"unknown let variable", `@for (x of xs; track x; let i = $idx) {}`, `Unknown "let" parameter variable "$idx"`},
		{"dash in reference", `<div #my-ref></div>`, `"-" is not allowed in reference names`},
		{"self-closed html element", `<div/>`, "Only void, custom and foreign elements can be self closed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := parseWithErrors(t, tt.source)
			require.NotEmpty(t, messages)
			found := false
			for _, m := range messages {
				if strings.Contains(m, tt.want) {
					found = true
				}
			}
			assert.Truef(t, found, "expected an error containing %q, got %v", tt.want, messages)
		})
	}
}
