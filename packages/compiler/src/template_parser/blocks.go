package template_parser

import (
	"fmt"
	"regexp"
	"strings"

	"ngc-ir/packages/compiler/src/render3"
	"ngc-ir/packages/compiler/src/util"
)

// forLoopBuiltins are the context variables every `@for` view exposes
var forLoopBuiltins = []string{"$index", "$first", "$last", "$even", "$odd", "$count"}

var (
	forLoopExpressionPattern = regexp.MustCompile(`^\s*([0-9A-Za-z_$]*)\s+of\s+([\S\s]*)$`)
	forLoopTrackPattern      = regexp.MustCompile(`^track\s+([\S\s]*)$`)
	forLoopLetPattern        = regexp.MustCompile(`^let\s+([\S\s]*)$`)
	conditionalAliasPattern  = regexp.MustCompile(`^(as\s+)(.*)$`)
	identifierPattern        = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
)

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenElement
	tokenBlockStart
	tokenBlockEnd
	tokenLet
)

// token is one structural piece of an element's content
type token struct {
	kind       tokenKind
	start, end int
	item       contentItem

	// Block name (`if`, `else if`, ...) or `@let` name.
	name string
	// Raw block parameters between the parentheses, or the `@let` value.
	params      string
	paramsStart int
	hasParams   bool
}

// blockFrame collects the children of an open block
type blockFrame struct {
	open     token
	children []render3.Node
}

// buildNodes converts content items into nodes, assembling control flow
// blocks that span several items
func (p *templateParser) buildNodes(items []contentItem, ctx elementContext) []render3.Node {
	var tokens []token
	for _, item := range items {
		if item.element != nil {
			tokens = append(tokens, token{kind: tokenElement, start: item.start, end: item.end, item: item})
			continue
		}
		if ctx.nonBindable {
			tokens = append(tokens, token{kind: tokenText, start: item.start, end: item.end})
			continue
		}
		tokens = append(tokens, p.scanText(item.start, item.end)...)
	}

	stack := []*blockFrame{{}}
	top := func() *blockFrame { return stack[len(stack)-1] }
	for _, tok := range tokens {
		switch tok.kind {
		case tokenText:
			if node := p.textNode(tok.start, tok.end, ctx); node != nil {
				top().children = append(top().children, node)
			}
		case tokenElement:
			if node := p.element(tok.item.element, ctx); node != nil {
				top().children = append(top().children, node)
			}
		case tokenLet:
			if node := p.letDeclaration(tok); node != nil {
				top().children = append(top().children, node)
			}
		case tokenBlockStart:
			stack = append(stack, &blockFrame{open: tok})
		case tokenBlockEnd:
			if len(stack) == 1 {
				p.reportError(`Unexpected closing block. The block may have been closed earlier. `+
					`If you meant to write the } character, you should use the "&#125;" HTML entity instead.`, tok.start, tok.end)
				continue
			}
			frame := top()
			stack = stack[:len(stack)-1]
			p.closeBlock(frame, top(), tok.end)
		}
	}
	for len(stack) > 1 {
		frame := top()
		stack = stack[:len(stack)-1]
		p.reportError(fmt.Sprintf("Unclosed block \"@%s\"", frame.open.name), frame.open.start, frame.open.end)
		p.closeBlock(frame, top(), frame.open.end)
	}
	return stack[0].children
}

// scanText splits a text range on block starts, block ends and `@let`
// declarations. Interpolations are skipped so their `}}` never closes a
// block.
func (p *templateParser) scanText(start, end int) []token {
	var tokens []token
	textStart := start
	flush := func(upTo int) {
		if upTo > textStart {
			tokens = append(tokens, token{kind: tokenText, start: textStart, end: upTo})
		}
	}
	src := p.source
	for i := start; i < end; {
		switch {
		case src[i] == '{' && i+1 < end && src[i+1] == '{':
			closing := strings.Index(string(src[i+2:end]), "}}")
			if closing < 0 {
				i = end
				continue
			}
			i += closing + 4
		case src[i] == '@':
			tok, next, ok := p.scanBlockStart(i, end)
			if !ok {
				i++
				continue
			}
			flush(i)
			tokens = append(tokens, tok)
			i, textStart = next, next
		case src[i] == '}':
			flush(i)
			tokens = append(tokens, token{kind: tokenBlockEnd, start: i, end: i + 1})
			i++
			textStart = i
		default:
			i++
		}
	}
	flush(end)
	return tokens
}

// scanBlockStart recognizes `@name (params) {` or `@let name = value;` at at.
// Unknown names are left as text.
func (p *templateParser) scanBlockStart(at, end int) (token, int, bool) {
	src := p.source
	i := at + 1
	name := readWord(src, i, end)
	i += len(name)
	if name == "else" {
		j := skipSpace(src, i, end)
		if word := readWord(src, j, end); word == "if" {
			name = "else if"
			i = j + len(word)
		}
	}

	switch name {
	case "let":
		return p.scanLetDeclaration(at, i, end)
	case "if", "else if", "else", "switch", "case", "default", "for", "empty":
	default:
		return token{}, 0, false
	}

	tok := token{kind: tokenBlockStart, start: at, name: name}
	i = skipSpace(src, i, end)
	if i < end && src[i] == '(' {
		closing := matchingParen(src, i, end)
		if closing < 0 {
			p.reportError(fmt.Sprintf("Unclosed parameters of block \"@%s\"", name), at, end)
			return token{}, 0, false
		}
		tok.params = string(src[i+1 : closing])
		tok.paramsStart = i + 1
		tok.hasParams = true
		i = skipSpace(src, closing+1, end)
	}
	if i >= end || src[i] != '{' {
		p.reportError(fmt.Sprintf("Incomplete block \"@%s\". If you meant to write the @ character, "+
			`you should use the "&#64;" HTML entity instead.`, name), at, i)
		return token{}, 0, false
	}
	tok.end = i + 1
	return tok, tok.end, true
}

func (p *templateParser) scanLetDeclaration(at, i, end int) (token, int, bool) {
	src := p.source
	i = skipSpace(src, i, end)
	name := readIdentifier(src, i, end)
	if name == "" {
		p.reportError("Invalid @let declaration: missing name", at, i)
		return token{}, 0, false
	}
	i = skipSpace(src, i+len(name), end)
	if i >= end || src[i] != '=' {
		p.reportError(fmt.Sprintf("Invalid @let declaration %q: missing \"=\"", name), at, i)
		return token{}, 0, false
	}
	valueStart := i + 1
	terminator := topLevelIndex(src, valueStart, end, ';')
	if terminator < 0 {
		p.reportError(fmt.Sprintf("Unterminated @let declaration %q", name), at, end)
		return token{}, 0, false
	}
	tok := token{
		kind:        tokenLet,
		start:       at,
		end:         terminator + 1,
		name:        name,
		params:      string(src[valueStart:terminator]),
		paramsStart: valueStart,
		hasParams:   true,
	}
	return tok, tok.end, true
}

func (p *templateParser) letDeclaration(tok token) render3.Node {
	if strings.TrimSpace(tok.params) == "" {
		p.reportError(fmt.Sprintf("@let declaration %q must have a value", tok.name), tok.start, tok.end)
		return nil
	}
	value := p.bindings.ParseExpression(tok.params, tok.paramsStart)
	return render3.NewLetDeclaration(tok.name, value, p.span(tok.start, tok.end))
}

// closeBlock turns a finished frame into a node of parent. Connected blocks
// (`@else`, `@empty`, `@case`) attach to the block they continue.
func (p *templateParser) closeBlock(frame, parent *blockFrame, end int) {
	open := frame.open
	span := p.span(open.start, end)
	switch open.name {
	case "if":
		branch := p.ifBranch(frame, span)
		if branch != nil {
			parent.children = append(parent.children, render3.NewIfBlock([]*render3.IfBlockBranch{branch}, span))
		}

	case "else if", "else":
		ifBlock, ok := lastSignificant(parent.children).(*render3.IfBlock)
		if !ok || ifBlock.Branches[len(ifBlock.Branches)-1].Expression == nil {
			p.reportError(fmt.Sprintf("@%s block can only be used after an @if or @else if block.", open.name), open.start, open.end)
			return
		}
		var branch *render3.IfBlockBranch
		if open.name == "else" {
			if open.hasParams {
				p.reportError("@else block cannot have parameters", open.start, open.end)
			}
			branch = render3.NewIfBlockBranch(nil, frame.children, nil, span)
		} else {
			branch = p.ifBranch(frame, span)
		}
		if branch != nil {
			ifBlock.Branches = append(ifBlock.Branches, branch)
			ifBlock.Span = p.span(ifBlock.Span.Start.Offset, end)
		}

	case "switch":
		if !open.hasParams || strings.TrimSpace(open.params) == "" {
			p.reportError("@switch block must have exactly one parameter", open.start, open.end)
			return
		}
		var cases []*render3.SwitchBlockCase
		for _, child := range frame.children {
			switch c := child.(type) {
			case *render3.SwitchBlockCase:
				cases = append(cases, c)
			case *render3.Text:
				if strings.TrimSpace(c.Value) != "" {
					p.reportError("@switch block can only contain @case and @default blocks", open.start, open.end)
				}
			default:
				p.reportError("@switch block can only contain @case and @default blocks", open.start, open.end)
			}
		}
		expression := p.bindings.ParseExpression(open.params, open.paramsStart)
		parent.children = append(parent.children, render3.NewSwitchBlock(expression, cases, span))

	case "case", "default":
		if parent.open.name != "switch" {
			p.reportError(fmt.Sprintf("@%s block can only be used inside an @switch block", open.name), open.start, open.end)
			return
		}
		var switchCase *render3.SwitchBlockCase
		if open.name == "default" {
			switchCase = render3.NewSwitchBlockCase(nil, frame.children, span)
		} else {
			if !open.hasParams || strings.TrimSpace(open.params) == "" {
				p.reportError("@case block must have exactly one parameter", open.start, open.end)
				return
			}
			switchCase = render3.NewSwitchBlockCase(p.bindings.ParseExpression(open.params, open.paramsStart), frame.children, span)
		}
		parent.children = append(parent.children, switchCase)

	case "for":
		if forBlock := p.forBlock(frame, span); forBlock != nil {
			parent.children = append(parent.children, forBlock)
		}

	case "empty":
		forBlock, ok := lastSignificant(parent.children).(*render3.ForLoopBlock)
		if !ok || forBlock.Empty != nil {
			p.reportError("@empty block can only be used after an @for block.", open.start, open.end)
			return
		}
		forBlock.Empty = render3.NewForLoopBlockEmpty(frame.children, span)
		forBlock.Span = p.span(forBlock.Span.Start.Offset, end)
	}
}

// ifBranch builds an `@if`/`@else if` branch: `(expr; as alias)`
func (p *templateParser) ifBranch(frame *blockFrame, span *util.ParseSourceSpan) *render3.IfBlockBranch {
	open := frame.open
	params := splitParameters(open.params, open.paramsStart)
	if !open.hasParams || len(params) == 0 {
		p.reportError(fmt.Sprintf("Conditional block \"@%s\" does not have an expression", open.name), open.start, open.end)
		return nil
	}
	expression := p.bindings.ParseExpression(params[0].text, params[0].offset)

	var alias *render3.Variable
	for _, param := range params[1:] {
		match := conditionalAliasPattern.FindStringSubmatch(param.text)
		if match == nil {
			p.reportError(fmt.Sprintf("Unrecognized conditional parameter %q", param.text), param.offset, param.offset+len(param.text))
			continue
		}
		if open.name != "if" {
			p.reportError(`"as" expression is only allowed on the primary @if block`, param.offset, param.offset+len(param.text))
			continue
		}
		name := strings.TrimSpace(match[2])
		if !identifierPattern.MatchString(name) {
			p.reportError(fmt.Sprintf("Invalid alias name %q", name), param.offset, param.offset+len(param.text))
			continue
		}
		alias = render3.NewVariable(name, name, p.span(param.offset, param.offset+len(param.text)))
	}
	return render3.NewIfBlockBranch(expression, frame.children, alias, span)
}

// forBlock builds a `@for (item of items; track expr; let i = $index) {}`
func (p *templateParser) forBlock(frame *blockFrame, span *util.ParseSourceSpan) *render3.ForLoopBlock {
	open := frame.open
	params := splitParameters(open.params, open.paramsStart)
	if !open.hasParams || len(params) == 0 {
		p.reportError("@for loop does not have an expression", open.start, open.end)
		return nil
	}

	match := forLoopExpressionPattern.FindStringSubmatch(params[0].text)
	if match == nil || strings.TrimSpace(match[2]) == "" {
		p.reportError(`Cannot parse expression. @for loop expression must match the pattern "<identifier> of <expression>"`,
			params[0].offset, params[0].offset+len(params[0].text))
		return nil
	}
	itemName := match[1]
	if !identifierPattern.MatchString(itemName) {
		p.reportError(fmt.Sprintf("Invalid @for loop item name %q", itemName), params[0].offset, params[0].offset+len(params[0].text))
		return nil
	}
	expressionOffset := params[0].offset + len(params[0].text) - len(match[2])
	expression := p.bindings.ParseExpression(match[2], expressionOffset)
	item := render3.NewVariable(itemName, "$implicit", p.span(params[0].offset, params[0].offset+len(itemName)))

	contextVariables := make([]*render3.Variable, 0, len(forLoopBuiltins))
	for _, builtin := range forLoopBuiltins {
		contextVariables = append(contextVariables, render3.NewVariable(builtin, builtin, p.span(open.start, open.end)))
	}

	var track *paramText
	for _, param := range params[1:] {
		if m := forLoopTrackPattern.FindStringSubmatch(param.text); m != nil {
			if track != nil {
				p.reportError(`@for loop can only have one "track" expression`, param.offset, param.offset+len(param.text))
				continue
			}
			track = &paramText{text: m[1], offset: param.offset + len(param.text) - len(m[1])}
			continue
		}
		if m := forLoopLetPattern.FindStringSubmatch(param.text); m != nil {
			contextVariables = p.forLoopLetParameter(m[1], param.offset+len(param.text)-len(m[1]), contextVariables)
			continue
		}
		p.reportError(fmt.Sprintf("Unrecognized @for loop parameter %q", param.text), param.offset, param.offset+len(param.text))
	}
	if track == nil {
		p.reportError(`@for loop must have a "track" expression`, open.start, open.end)
		return nil
	}
	trackExpression := p.bindings.ParseExpression(track.text, track.offset)

	return render3.NewForLoopBlock(item, expression, trackExpression, contextVariables, frame.children, nil, span)
}

// forLoopLetParameter parses `let i = $index, e = $even` into aliases of the
// loop builtins
func (p *templateParser) forLoopLetParameter(text string, offset int, variables []*render3.Variable) []*render3.Variable {
	for _, part := range splitTopLevel(text, offset, ',') {
		name, value, ok := strings.Cut(part.text, "=")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		end := part.offset + len(part.text)
		switch {
		case !ok || name == "" || value == "":
			p.reportError(`Invalid @for loop "let" parameter. Parameter should match the pattern "<name> = <variable name>"`, part.offset, end)
		case !isForLoopBuiltin(value):
			p.reportError(fmt.Sprintf("Unknown \"let\" parameter variable %q. The allowed variables are: %s",
				value, strings.Join(forLoopBuiltins, ", ")), part.offset, end)
		case hasVariable(variables, name):
			p.reportError(fmt.Sprintf("Duplicate \"let\" parameter variable %q", name), part.offset, end)
		default:
			variables = append(variables, render3.NewVariable(name, value, p.span(part.offset, end)))
		}
	}
	return variables
}

type paramText struct {
	text   string
	offset int
}

// splitParameters splits block parameters on top-level `;`
func splitParameters(params string, offset int) []paramText {
	return splitTopLevel(params, offset, ';')
}

// splitTopLevel splits text on sep outside of strings and brackets, trimming
// each part and dropping empty ones
func splitTopLevel(text string, offset int, sep byte) []paramText {
	var parts []paramText
	src := []byte(text)
	start := 0
	for start <= len(src) {
		index := topLevelIndex(src, start, len(src), sep)
		partEnd := index
		if index < 0 {
			partEnd = len(src)
		}
		raw := text[start:partEnd]
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" {
			lead := len(raw) - len(strings.TrimLeft(raw, " \f\n\r\t\v"))
			parts = append(parts, paramText{text: trimmed, offset: offset + start + lead})
		}
		if index < 0 {
			break
		}
		start = index + 1
	}
	return parts
}

// topLevelIndex finds sep in src[start:end] outside of string literals and
// brackets, returning -1 when there is none
func topLevelIndex(src []byte, start, end int, sep byte) int {
	depth := 0
	var quote byte
	for i := start; i < end; i++ {
		c := src[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == sep && depth == 0:
			return i
		}
	}
	return -1
}

// matchingParen returns the index of the `)` closing the `(` at open
func matchingParen(src []byte, open, end int) int {
	depth := 0
	var quote byte
	for i := open; i < end; i++ {
		c := src[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func readWord(src []byte, i, end int) string {
	j := i
	for j < end && src[j] >= 'a' && src[j] <= 'z' {
		j++
	}
	return string(src[i:j])
}

func readIdentifier(src []byte, i, end int) string {
	j := i
	for j < end {
		c := src[j]
		isLetter := c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !isLetter && (j == i || c < '0' || c > '9') {
			break
		}
		j++
	}
	return string(src[i:j])
}

func skipSpace(src []byte, i, end int) int {
	for i < end && strings.IndexByte(" \f\n\r\t\v", src[i]) >= 0 {
		i++
	}
	return i
}

// lastSignificant returns the last node that is not whitespace-only text
func lastSignificant(nodes []render3.Node) render3.Node {
	for i := len(nodes) - 1; i >= 0; i-- {
		if text, ok := nodes[i].(*render3.Text); ok && strings.TrimSpace(text.Value) == "" {
			continue
		}
		return nodes[i]
	}
	return nil
}

func isForLoopBuiltin(name string) bool {
	for _, builtin := range forLoopBuiltins {
		if builtin == name {
			return true
		}
	}
	return false
}

func hasVariable(variables []*render3.Variable, name string) bool {
	for _, v := range variables {
		if v.Name == name {
			return true
		}
	}
	return false
}
