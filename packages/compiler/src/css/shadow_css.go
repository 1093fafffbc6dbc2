package css

import (
	"strings"
)

const (
	// ContentAttr and HostAttr carry the %COMP% placeholder that the runtime
	// replaces with the component id.
	ContentAttr = "_ngcontent-%COMP%"
	HostAttr    = "_nghost-%COMP%"

	polyfillHost = ":host"
	ngDeep       = "::ng-deep"
)

// groupingAtRules contain nested rules that are scoped recursively. Other
// at-rules (@keyframes, @font-face, @import, ...) are copied unchanged.
var groupingAtRules = []string{"@media", "@supports", "@container", "@layer", "@document", "@scope"}

// ShadowCss emulates view encapsulation by rewriting selectors so they only
// apply inside one component's view.
type ShadowCss struct{}

// NewShadowCss creates a new ShadowCss
func NewShadowCss() *ShadowCss {
	return &ShadowCss{}
}

// ShimCssText scopes every rule of cssText with the content attribute
// selector, and rewrites `:host` into the host attribute selector.
func (sc *ShadowCss) ShimCssText(cssText string, contentAttr string, hostAttr string) string {
	cssText = stripComments(cssText)
	return strings.TrimSpace(ProcessRules(cssText, func(rule *CssRule) *CssRule {
		selector := rule.Selector
		if strings.HasPrefix(selector, "@") {
			if isGroupingAtRule(selector) {
				return NewCssRule(selector, sc.ShimCssText(rule.Content, contentAttr, hostAttr))
			}
			return rule
		}
		return NewCssRule(sc.scopeSelectorList(selector, contentAttr, hostAttr), rule.Content)
	}))
}

func isGroupingAtRule(selector string) bool {
	for _, name := range groupingAtRules {
		if strings.HasPrefix(selector, name) {
			return true
		}
	}
	return false
}

func (sc *ShadowCss) scopeSelectorList(selector, contentAttr, hostAttr string) string {
	parts := splitTopLevel(selector, ',')
	for i, part := range parts {
		parts[i] = sc.scopeSelector(strings.TrimSpace(part), contentAttr, hostAttr)
	}
	return strings.Join(parts, ", ")
}

// scopeSelector rewrites one complex selector. Compound selectors after
// ::ng-deep are left unscoped.
func (sc *ShadowCss) scopeSelector(selector, contentAttr, hostAttr string) string {
	tokens := tokenizeSelector(selector)
	var out []string
	deep := false
	for _, token := range tokens {
		switch {
		case token == ngDeep:
			deep = true
			continue
		case isCombinator(token):
			out = append(out, token)
			continue
		case strings.HasPrefix(token, polyfillHost):
			out = append(out, scopeHost(token, hostAttr))
			continue
		case deep:
			out = append(out, token)
			continue
		}
		out = append(out, scopeCompound(token, contentAttr))
	}
	return strings.Join(trimCombinators(out), " ")
}

// scopeHost turns `:host` into `[host]` and `:host(.a)` into `.a[host]`.
func scopeHost(token, hostAttr string) string {
	rest := token[len(polyfillHost):]
	attr := "[" + hostAttr + "]"
	if strings.HasPrefix(rest, "(") {
		end := matchingParen(rest)
		if end > 0 {
			inner := strings.TrimSpace(rest[1:end])
			return scopeCompound(inner, hostAttr) + rest[end+1:]
		}
	}
	return attr + rest
}

// scopeCompound inserts the attribute before any pseudo-class or
// pseudo-element: `a:hover` becomes `a[attr]:hover`.
func scopeCompound(compound, attr string) string {
	depth := 0
	for i := 0; i < len(compound); i++ {
		switch compound[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case ':':
			if depth == 0 {
				return compound[:i] + "[" + attr + "]" + compound[i:]
			}
		}
	}
	return compound + "[" + attr + "]"
}

func matchingParen(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isCombinator(token string) bool {
	return token == ">" || token == "+" || token == "~"
}

func trimCombinators(tokens []string) []string {
	for len(tokens) > 0 && isCombinator(tokens[0]) {
		tokens = tokens[1:]
	}
	return tokens
}

// tokenizeSelector splits a complex selector into compound selectors and
// combinators, keeping bracketed and parenthesized text intact.
func tokenizeSelector(selector string) []string {
	var tokens []string
	var current strings.Builder
	depth := 0
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	for i := 0; i < len(selector); i++ {
		c := selector[i]
		switch {
		case c == '[' || c == '(':
			depth++
			current.WriteByte(c)
		case c == ']' || c == ')':
			depth--
			current.WriteByte(c)
		case depth == 0 && (c == ' ' || c == '\t' || c == '\n'):
			flush()
		case depth == 0 && (c == '>' || c == '+' || c == '~'):
			flush()
			tokens = append(tokens, string(c))
		default:
			current.WriteByte(c)
		}
	}
	flush()
	return tokens
}

func splitTopLevel(text string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, text[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, text[start:])
}

func stripComments(input string) string {
	var b strings.Builder
	for {
		start := strings.Index(input, "/*")
		if start < 0 {
			b.WriteString(input)
			return b.String()
		}
		b.WriteString(input[:start])
		end := strings.Index(input[start+2:], "*/")
		if end < 0 {
			return b.String()
		}
		input = input[start+2+end+2:]
	}
}

// CssRule is a selector (or at-rule prelude) with its block content.
type CssRule struct {
	Selector string
	Content  string
}

// NewCssRule creates a new CssRule
func NewCssRule(selector string, content string) *CssRule {
	return &CssRule{Selector: selector, Content: content}
}

// ProcessRules calls ruleCallback for every top-level rule of input and
// reassembles the result. Statements without a block, such as `@import`,
// are copied unchanged.
func ProcessRules(input string, ruleCallback func(rule *CssRule) *CssRule) string {
	var out []string
	i := 0
	for i < len(input) {
		// prelude runs until `{` or a top-level `;`
		j := i
		for j < len(input) && input[j] != '{' && input[j] != ';' {
			if input[j] == '"' || input[j] == '\'' {
				j = skipString(input, j)
				continue
			}
			j++
		}
		prelude := strings.TrimSpace(input[i:min(j, len(input))])
		if j >= len(input) {
			if prelude != "" {
				out = append(out, prelude)
			}
			break
		}
		if input[j] == ';' {
			if prelude != "" {
				out = append(out, prelude+";")
			}
			i = j + 1
			continue
		}
		end := matchingBrace(input, j)
		content := input[j+1 : min(end, len(input))]
		rule := ruleCallback(NewCssRule(prelude, strings.TrimSpace(content)))
		out = append(out, rule.Selector+" {"+formatContent(rule.Content)+"}")
		i = end + 1
	}
	return strings.Join(out, "\n")
}

func formatContent(content string) string {
	if content == "" {
		return ""
	}
	return " " + content + " "
}

func matchingBrace(input string, open int) int {
	depth := 0
	for k := open; k < len(input); k++ {
		switch input[k] {
		case '"', '\'':
			k = skipString(input, k) - 1
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return len(input)
}

func skipString(input string, start int) int {
	quote := input[start]
	for k := start + 1; k < len(input); k++ {
		if input[k] == '\\' {
			k++
			continue
		}
		if input[k] == quote {
			return k + 1
		}
	}
	return len(input)
}
