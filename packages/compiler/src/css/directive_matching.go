package css

import (
	"fmt"
	"regexp"
	"strings"
)

// regex group indices for selectorRegexp
const (
	groupNot            = 1
	groupTag            = 2
	groupPrefix         = 3
	groupAttribute      = 4
	groupAttrValueDQ    = 5
	groupAttrValueSQ    = 6
	groupAttrValueBare  = 7
	groupNotEnd         = 8
	groupSeparator      = 9
	selectorWildcardTag = "*"
)

// Go regexps have no backreferences, so each quote style gets its own group.
var selectorRegexp = regexp.MustCompile(
	`(\:not\()|` +
		`(([\.\#]?)[-\w]+)|` +
		`(?:\[([-.\w*\\$]+)(?:=(?:"([^"]*)"|'([^']*)'|([^\]\s]+)))?\])|` +
		`(\))|` +
		`(\s*,\s*)`,
)

// CssSelector is one compound selector: an optional element name plus
// attribute, class and `:not()` constraints.
type CssSelector struct {
	Element      string
	ClassNames   []string
	Attrs        []string // name, value pairs
	NotSelectors []*CssSelector
}

// NewCssSelector creates a new CssSelector
func NewCssSelector() *CssSelector {
	return &CssSelector{}
}

// ParseCssSelector parses a comma separated selector list
func ParseCssSelector(selector string) ([]*CssSelector, error) {
	var results []*CssSelector

	addResult := func(cssSel *CssSelector) {
		if len(cssSel.NotSelectors) > 0 && cssSel.Element == "" &&
			len(cssSel.ClassNames) == 0 && len(cssSel.Attrs) == 0 {
			cssSel.Element = selectorWildcardTag
		}
		results = append(results, cssSel)
	}

	cssSelector := NewCssSelector()
	current := cssSelector
	inNot := false

	for _, match := range selectorRegexp.FindAllStringSubmatch(selector, -1) {
		if match[groupNot] != "" {
			if inNot {
				return nil, fmt.Errorf("nesting :not in a selector is not allowed")
			}
			inNot = true
			current = NewCssSelector()
			cssSelector.NotSelectors = append(cssSelector.NotSelectors, current)
		}

		if tag := match[groupTag]; tag != "" {
			switch match[groupPrefix] {
			case "#":
				current.AddAttribute("id", tag[1:])
			case ".":
				current.AddClassName(tag[1:])
			default:
				current.Element = tag
			}
		}

		if attribute := match[groupAttribute]; attribute != "" {
			value := match[groupAttrValueDQ]
			if value == "" {
				value = match[groupAttrValueSQ]
			}
			if value == "" {
				value = match[groupAttrValueBare]
			}
			name, err := unescapeAttribute(attribute)
			if err != nil {
				return nil, err
			}
			current.AddAttribute(name, value)
		}

		if match[groupNotEnd] != "" {
			inNot = false
			current = cssSelector
		}

		if match[groupSeparator] != "" {
			if inNot {
				return nil, fmt.Errorf("multiple selectors in :not are not supported")
			}
			addResult(cssSelector)
			cssSelector = NewCssSelector()
			current = cssSelector
		}
	}

	addResult(cssSelector)
	return results, nil
}

// MustParseCssSelector panics when selector is malformed.
func MustParseCssSelector(selector string) []*CssSelector {
	selectors, err := ParseCssSelector(selector)
	if err != nil {
		panic(err)
	}
	return selectors
}

func unescapeAttribute(attr string) (string, error) {
	var b strings.Builder
	escaping := false
	for i := 0; i < len(attr); i++ {
		char := attr[i]
		if char == '\\' {
			escaping = true
			continue
		}
		if char == '$' && !escaping {
			return "", fmt.Errorf(`error in attribute selector "%s". unescaped "$" is not supported. please escape with "\$"`, attr)
		}
		escaping = false
		b.WriteByte(char)
	}
	return b.String(), nil
}

// GetAttrs returns attribute pairs with the class list folded in as a
// leading `class` pair.
func (cs *CssSelector) GetAttrs() []string {
	var result []string
	if len(cs.ClassNames) > 0 {
		result = append(result, "class", strings.Join(cs.ClassNames, " "))
	}
	return append(result, cs.Attrs...)
}

// AddAttribute adds an attribute constraint. Values are compared lowercase.
func (cs *CssSelector) AddAttribute(name string, value string) {
	cs.Attrs = append(cs.Attrs, name, strings.ToLower(value))
}

// AddClassName adds a class constraint
func (cs *CssSelector) AddClassName(name string) {
	cs.ClassNames = append(cs.ClassNames, strings.ToLower(name))
}

// String returns the selector in CSS syntax
func (cs *CssSelector) String() string {
	var b strings.Builder
	b.WriteString(cs.Element)
	for _, klass := range cs.ClassNames {
		b.WriteString("." + klass)
	}
	for i := 0; i+1 < len(cs.Attrs); i += 2 {
		name := strings.ReplaceAll(strings.ReplaceAll(cs.Attrs[i], `\`, `\\`), "$", `\$`)
		if value := cs.Attrs[i+1]; value != "" {
			fmt.Fprintf(&b, "[%s=%s]", name, value)
		} else {
			fmt.Fprintf(&b, "[%s]", name)
		}
	}
	for _, notSelector := range cs.NotSelectors {
		fmt.Fprintf(&b, ":not(%s)", notSelector)
	}
	return b.String()
}

// CreateElementCssSelector describes an element by its tag name and static
// attributes so it can be matched against directive selectors.
func CreateElementCssSelector(elementName string, attributes [][2]string) *CssSelector {
	cssSelector := NewCssSelector()
	cssSelector.Element = elementName
	for _, attr := range attributes {
		name := strings.ToLower(attr[0])
		cssSelector.AddAttribute(name, attr[1])
		if name == "class" {
			for _, className := range strings.Fields(attr[1]) {
				cssSelector.AddClassName(className)
			}
		}
	}
	return cssSelector
}

// SelectorMatcher finds the contexts whose selectors match an element.
type SelectorMatcher[T any] struct {
	entries []selectorEntry[T]
}

type selectorEntry[T any] struct {
	selector *CssSelector
	context  T
}

// NewSelectorMatcher creates a new SelectorMatcher
func NewSelectorMatcher[T any]() *SelectorMatcher[T] {
	return &SelectorMatcher[T]{}
}

// AddSelectables registers every selector of a list with the same context
func (sm *SelectorMatcher[T]) AddSelectables(cssSelectors []*CssSelector, context T) {
	for _, selector := range cssSelectors {
		sm.entries = append(sm.entries, selectorEntry[T]{selector: selector, context: context})
	}
}

// Match calls matchedCallback for every registered selector matching
// element, in registration order, and reports whether any matched.
func (sm *SelectorMatcher[T]) Match(element *CssSelector, matchedCallback func(selector *CssSelector, context T)) bool {
	matched := false
	for _, entry := range sm.entries {
		if !matches(entry.selector, element) {
			continue
		}
		matched = true
		if matchedCallback != nil {
			matchedCallback(entry.selector, entry.context)
		}
	}
	return matched
}

func matches(selector, element *CssSelector) bool {
	if selector.Element != "" && selector.Element != selectorWildcardTag &&
		!strings.EqualFold(selector.Element, element.Element) {
		return false
	}
	for _, className := range selector.ClassNames {
		if !containsString(element.ClassNames, className) {
			return false
		}
	}
	for i := 0; i+1 < len(selector.Attrs); i += 2 {
		if !hasAttribute(element, selector.Attrs[i], selector.Attrs[i+1]) {
			return false
		}
	}
	for _, notSelector := range selector.NotSelectors {
		if matches(notSelector, element) {
			return false
		}
	}
	return true
}

func hasAttribute(element *CssSelector, name, value string) bool {
	for i := 0; i+1 < len(element.Attrs); i += 2 {
		if !strings.EqualFold(element.Attrs[i], name) {
			continue
		}
		if value == "" || element.Attrs[i+1] == value {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
