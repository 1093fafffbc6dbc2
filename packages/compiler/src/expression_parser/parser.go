package expression_parser

import (
	"fmt"
	"strings"
)

// EOF is returned when the parser peeks past the last token
var EOF = NewToken(-1, -1, TokenTypeCharacter, 0, "")

// ParseFlags represents the possible parse modes to be used as a bitmask
type ParseFlags int

const (
	ParseFlagsNone ParseFlags = 0
	// ParseFlagsAction indicates whether an output binding is being parsed
	ParseFlagsAction ParseFlags = 1 << 0
)

const (
	interpolationStart = "{{"
	interpolationEnd   = "}}"
)

// Parser parses binding expressions
type Parser struct {
	lexer *Lexer
}

// NewParser creates a new Parser
func NewParser(lexer *Lexer) *Parser {
	return &Parser{lexer: lexer}
}

// ParseAction parses an event handler. Assignments and `;` chains are allowed.
func (p *Parser) ParseAction(input string, location string, absoluteOffset int) *ASTWithSource {
	var errors []*ParserError
	ast := p.newParseAST(input, location, absoluteOffset, ParseFlagsAction, &errors).parseChain()
	return &ASTWithSource{AST: ast, Source: input, Location: location, Offset: absoluteOffset, Errors: errors}
}

// ParseBinding parses a property binding expression
func (p *Parser) ParseBinding(input string, location string, absoluteOffset int) *ASTWithSource {
	var errors []*ParserError
	if strings.Contains(input, interpolationStart) {
		p.checkNoInterpolation(input, location, absoluteOffset, &errors)
	}
	ast := p.newParseAST(input, location, absoluteOffset, ParseFlagsNone, &errors).parseChain()
	return &ASTWithSource{AST: ast, Source: input, Location: location, Offset: absoluteOffset, Errors: errors}
}

// ParseInterpolation splits text on `{{ }}` and parses every expression.
// It returns nil when the text holds no interpolation.
func (p *Parser) ParseInterpolation(input string, location string, absoluteOffset int) *ASTWithSource {
	var errors []*ParserError
	strs, exprs, offsets := p.splitInterpolation(input, location, absoluteOffset, &errors)
	if len(exprs) == 0 {
		return nil
	}
	asts := make([]AST, 0, len(exprs))
	for i, expr := range exprs {
		parser := p.newParseAST(expr, location, absoluteOffset+offsets[i], ParseFlagsNone, &errors)
		asts = append(asts, parser.parseChain())
	}
	interpolation := &Interpolation{
		astBase:     astBase{Span: ParseSpan{Start: absoluteOffset, End: absoluteOffset + len(input)}},
		Strings:     strs,
		Expressions: asts,
	}
	return &ASTWithSource{AST: interpolation, Source: input, Location: location, Offset: absoluteOffset, Errors: errors}
}

// ParseTemplateBindings parses the microsyntax of a structural directive,
// e.g. `*ngFor="let item of items; index as i; trackBy: byId"`.
// templateKey is the directive name without `*`.
func (p *Parser) ParseTemplateBindings(templateKey string, templateValue string, location string, keyOffset int, valueOffset int) ([]TemplateBinding, []*ParserError) {
	var errors []*ParserError
	parser := p.newParseAST(templateValue, location, valueOffset, ParseFlagsNone, &errors)
	key := &bindingKey{
		source: templateKey,
		span:   ParseSpan{Start: keyOffset, End: keyOffset + len(templateKey)},
	}
	return parser.parseTemplateBindings(key), errors
}

func (p *Parser) newParseAST(input, location string, offset int, flags ParseFlags, errors *[]*ParserError) *parseAST {
	return &parseAST{
		input:      input,
		location:   location,
		offset:     offset,
		tokens:     p.lexer.Tokenize(input),
		parseFlags: flags,
		errors:     errors,
	}
}

func (p *Parser) checkNoInterpolation(input, location string, offset int, errors *[]*ParserError) {
	start := strings.Index(input, interpolationStart)
	if start < 0 || !strings.Contains(input[start:], interpolationEnd) {
		return
	}
	*errors = append(*errors, &ParserError{
		Message:  fmt.Sprintf("Got interpolation (%s%s) where expression was expected at column %d", interpolationStart, interpolationEnd, start),
		Input:    input,
		Location: location,
		Span:     ParseSpan{Start: offset + start, End: offset + len(input)},
	})
}

// splitInterpolation returns the literal fragments, the raw expression texts
// and the offset of every expression text within input.
func (p *Parser) splitInterpolation(input, location string, offset int, errors *[]*ParserError) ([]string, []string, []int) {
	var strs, exprs []string
	var offsets []int
	i := 0
	atInterpolation := false
	for i < len(input) {
		if !atInterpolation {
			start := strings.Index(input[i:], interpolationStart)
			if start < 0 {
				strs = append(strs, input[i:])
				i = len(input)
				break
			}
			strs = append(strs, input[i:i+start])
			i += start
			atInterpolation = true
			continue
		}
		fullStart := i
		exprStart := fullStart + len(interpolationStart)
		exprEnd := interpolationEndIndex(input, exprStart)
		if exprEnd < 0 {
			// unterminated: the rest is text
			atInterpolation = false
			strs[len(strs)-1] += input[fullStart:]
			i = len(input)
			break
		}
		text := input[exprStart:exprEnd]
		if strings.TrimSpace(text) == "" {
			*errors = append(*errors, &ParserError{
				Message:  fmt.Sprintf("Blank expressions are not allowed in interpolated strings at column %d", fullStart),
				Input:    input,
				Location: location,
				Span:     ParseSpan{Start: offset + fullStart, End: offset + exprEnd + len(interpolationEnd)},
			})
		}
		exprs = append(exprs, text)
		offsets = append(offsets, exprStart)
		i = exprEnd + len(interpolationEnd)
		atInterpolation = false
	}
	if !atInterpolation && len(strs) == len(exprs) {
		strs = append(strs, "")
	}
	return strs, exprs, offsets
}

// interpolationEndIndex finds the closing `}}`, ignoring quoted text.
func interpolationEndIndex(input string, start int) int {
	var quote byte
	for i := start; i < len(input); i++ {
		c := input[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case strings.HasPrefix(input[i:], interpolationEnd):
			return i
		}
	}
	return -1
}

type bindingKey struct {
	source string
	span   ParseSpan
}

type parseAST struct {
	input             string
	location          string
	offset            int
	tokens            []*Token
	parseFlags        ParseFlags
	errors            *[]*ParserError
	index             int
	rparensExpected   int
	rbracketsExpected int
	rbracesExpected   int
}

func (p *parseAST) peek(offset int) *Token {
	i := p.index + offset
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	return EOF
}

func (p *parseAST) next() *Token {
	return p.peek(0)
}

func (p *parseAST) atEOF() bool {
	return p.index >= len(p.tokens)
}

func (p *parseAST) inputIndex() int {
	if p.atEOF() {
		return p.currentEndIndex()
	}
	return p.next().Index + p.offset
}

func (p *parseAST) currentEndIndex() int {
	if p.index > 0 {
		return p.peek(-1).End + p.offset
	}
	if len(p.tokens) == 0 {
		return len(p.input) + p.offset
	}
	return p.next().Index + p.offset
}

func (p *parseAST) span(start int) ParseSpan {
	end := p.currentEndIndex()
	if start > end {
		start, end = end, start
	}
	return ParseSpan{Start: start, End: end}
}

func (p *parseAST) advance() {
	p.index++
}

func (p *parseAST) isAction() bool {
	return p.parseFlags&ParseFlagsAction != 0
}

func (p *parseAST) consumeOptionalCharacter(code rune) bool {
	if p.next().IsCharacter(code) {
		p.advance()
		return true
	}
	return false
}

func (p *parseAST) consumeOptionalOperator(op string) bool {
	if p.next().IsOperator(op) {
		p.advance()
		return true
	}
	return false
}

func (p *parseAST) expectCharacter(code rune) {
	if p.consumeOptionalCharacter(code) {
		return
	}
	p.error(fmt.Sprintf("Missing expected %c", code))
}

func (p *parseAST) peekKeywordLet() bool {
	return p.next().IsKeywordValue("let")
}

func (p *parseAST) peekKeywordAs() bool {
	return p.next().IsKeywordValue("as")
}

func (p *parseAST) expectIdentifierOrKeyword() string {
	n := p.next()
	if !n.IsIdentifier() && !n.IsKeyword() {
		p.error(fmt.Sprintf("Unexpected %s, expected identifier or keyword", prettyPrintToken(n)))
		return ""
	}
	p.advance()
	return n.String()
}

func (p *parseAST) expectIdentifierOrKeywordOrString() string {
	n := p.next()
	if !n.IsIdentifier() && !n.IsKeyword() && !n.IsString() {
		p.error(fmt.Sprintf("Unexpected %s, expected identifier, keyword, or string", prettyPrintToken(n)))
		return ""
	}
	p.advance()
	return n.String()
}

func prettyPrintToken(tok *Token) string {
	if tok == EOF {
		return "end of input"
	}
	return "token " + tok.String()
}

func (p *parseAST) parseChain() AST {
	var exprs []AST
	start := p.inputIndex()
	for p.index < len(p.tokens) {
		exprs = append(exprs, p.parsePipe())

		if p.consumeOptionalCharacter(';') {
			if !p.isAction() {
				p.error("Binding expression cannot contain chained expression")
			}
			for p.consumeOptionalCharacter(';') {
			}
		} else if p.index < len(p.tokens) {
			errorIndex := p.index
			p.error(fmt.Sprintf("Unexpected token '%s'", p.next()))
			if p.index == errorIndex {
				break
			}
		}
	}
	switch len(exprs) {
	case 0:
		return &EmptyExpr{astBase{Span: ParseSpan{Start: p.offset, End: p.offset + len(p.input)}}}
	case 1:
		return exprs[0]
	}
	return &Chain{astBase: astBase{Span: p.span(start)}, Expressions: exprs}
}

func (p *parseAST) parsePipe() AST {
	start := p.inputIndex()
	result := p.parseExpression()
	if !p.consumeOptionalOperator("|") {
		return result
	}
	if p.isAction() {
		p.error("Cannot have a pipe in an action expression")
	}
	for {
		nameStart := p.inputIndex()
		name := p.expectIdentifierOrKeyword()
		nameSpan := p.span(nameStart)
		var args []AST
		for p.consumeOptionalCharacter(':') {
			args = append(args, p.parseExpression())
		}
		result = &BindingPipe{
			astBase:  astBase{Span: p.span(start)},
			Exp:      result,
			Name:     name,
			Args:     args,
			NameSpan: nameSpan,
		}
		if !p.consumeOptionalOperator("|") {
			return result
		}
	}
}

func (p *parseAST) parseExpression() AST {
	return p.parseConditional()
}

func (p *parseAST) parseConditional() AST {
	start := p.inputIndex()
	result := p.parseLogicalOr()
	if !p.consumeOptionalOperator("?") {
		return result
	}
	yes := p.parsePipe()
	var no AST
	if !p.consumeOptionalCharacter(':') {
		end := p.inputIndex()
		expression := p.input[start-p.offset : end-p.offset]
		p.error(fmt.Sprintf("Conditional expression %s requires all 3 expressions", expression))
		no = &EmptyExpr{astBase{Span: p.span(start)}}
	} else {
		no = p.parsePipe()
	}
	return &Conditional{astBase: astBase{Span: p.span(start)}, Condition: result, TrueExp: yes, FalseExp: no}
}

// parseBinaryLevel parses a left-associative chain of the given operators.
func (p *parseAST) parseBinaryLevel(operators []string, operand func() AST) AST {
	start := p.inputIndex()
	result := operand()
	for {
		matched := ""
		for _, op := range operators {
			if p.next().IsOperator(op) {
				matched = op
				break
			}
		}
		if matched == "" {
			return result
		}
		p.advance()
		right := operand()
		result = &Binary{astBase: astBase{Span: p.span(start)}, Operation: matched, Left: result, Right: right}
	}
}

func (p *parseAST) parseLogicalOr() AST {
	return p.parseBinaryLevel([]string{"||"}, p.parseLogicalAnd)
}

func (p *parseAST) parseLogicalAnd() AST {
	return p.parseBinaryLevel([]string{"&&"}, p.parseNullishCoalescing)
}

func (p *parseAST) parseNullishCoalescing() AST {
	return p.parseBinaryLevel([]string{"??"}, p.parseEquality)
}

func (p *parseAST) parseEquality() AST {
	return p.parseBinaryLevel([]string{"==", "!=", "===", "!=="}, p.parseRelational)
}

func (p *parseAST) parseRelational() AST {
	return p.parseBinaryLevel([]string{"<", ">", "<=", ">="}, p.parseAdditive)
}

func (p *parseAST) parseAdditive() AST {
	return p.parseBinaryLevel([]string{"+", "-"}, p.parseMultiplicative)
}

func (p *parseAST) parseMultiplicative() AST {
	return p.parseBinaryLevel([]string{"*", "%", "/"}, p.parsePrefix)
}

func (p *parseAST) parsePrefix() AST {
	n := p.next()
	start := p.inputIndex()
	switch {
	case n.IsOperator("+"), n.IsOperator("-"):
		p.advance()
		expr := p.parsePrefix()
		return &Unary{astBase: astBase{Span: p.span(start)}, Operator: n.StrValue, Expr: expr}
	case n.IsOperator("!"):
		p.advance()
		expr := p.parsePrefix()
		return &PrefixNot{astBase: astBase{Span: p.span(start)}, Expression: expr}
	case n.IsKeywordValue("typeof"):
		p.advance()
		expr := p.parsePrefix()
		return &TypeofExpression{astBase: astBase{Span: p.span(start)}, Expression: expr}
	}
	return p.parseCallChain()
}

func (p *parseAST) parseCallChain() AST {
	start := p.inputIndex()
	result := p.parsePrimary()
	for {
		switch {
		case p.consumeOptionalCharacter('.'):
			result = p.parseAccessMember(result, start, false)
		case p.consumeOptionalOperator("?."):
			switch {
			case p.consumeOptionalCharacter('('):
				result = p.parseCall(result, start, true)
			case p.consumeOptionalCharacter('['):
				result = p.parseKeyedReadOrWrite(result, start, true)
			default:
				result = p.parseAccessMember(result, start, true)
			}
		case p.consumeOptionalCharacter('['):
			result = p.parseKeyedReadOrWrite(result, start, false)
		case p.consumeOptionalCharacter('('):
			result = p.parseCall(result, start, false)
		case p.consumeOptionalOperator("!"):
			result = &NonNullAssert{astBase: astBase{Span: p.span(start)}, Expression: result}
		default:
			return result
		}
	}
}

func (p *parseAST) parsePrimary() AST {
	n := p.next()
	start := p.inputIndex()
	switch {
	case n.IsCharacter('('):
		p.rparensExpected++
		p.advance()
		result := p.parsePipe()
		p.rparensExpected--
		p.expectCharacter(')')
		return &ParenthesizedExpression{astBase: astBase{Span: p.span(start)}, Expression: result}
	case n.IsKeywordValue("null"):
		p.advance()
		return &LiteralPrimitive{astBase: astBase{Span: p.span(start)}, Value: nil}
	case n.IsKeywordValue("undefined"):
		p.advance()
		return &LiteralPrimitive{astBase: astBase{Span: p.span(start)}, Value: Undefined{}}
	case n.IsKeywordValue("true"):
		p.advance()
		return &LiteralPrimitive{astBase: astBase{Span: p.span(start)}, Value: true}
	case n.IsKeywordValue("false"):
		p.advance()
		return &LiteralPrimitive{astBase: astBase{Span: p.span(start)}, Value: false}
	case n.IsKeywordValue("this"):
		p.advance()
		return &ThisReceiver{astBase{Span: p.span(start)}}
	case n.IsCharacter('['):
		p.rbracketsExpected++
		p.advance()
		elements := p.parseExpressionList(']')
		p.rbracketsExpected--
		p.expectCharacter(']')
		return &LiteralArray{astBase: astBase{Span: p.span(start)}, Expressions: elements}
	case n.IsCharacter('{'):
		return p.parseLiteralMap()
	case n.IsIdentifier():
		receiver := &ImplicitReceiver{astBase{Span: ParseSpan{Start: start, End: start}}}
		return p.parseAccessMember(receiver, start, false)
	case n.IsNumber():
		p.advance()
		return &LiteralPrimitive{astBase: astBase{Span: p.span(start)}, Value: n.NumValue}
	case n.IsString():
		p.advance()
		return &LiteralPrimitive{astBase: astBase{Span: p.span(start)}, Value: n.StrValue}
	case n.IsError():
		p.skip()
	case p.atEOF():
		p.error("Unexpected end of expression: " + p.input)
	default:
		p.error(fmt.Sprintf("Unexpected token %s", n))
	}
	return &EmptyExpr{astBase{Span: p.span(start)}}
}

func (p *parseAST) parseExpressionList(terminator rune) []AST {
	var result []AST
	if p.next().IsCharacter(terminator) {
		return result
	}
	for {
		result = append(result, p.parsePipe())
		if !p.consumeOptionalCharacter(',') {
			return result
		}
	}
}

func (p *parseAST) parseLiteralMap() AST {
	start := p.inputIndex()
	p.expectCharacter('{')
	var keys []LiteralMapKey
	var values []AST
	if !p.consumeOptionalCharacter('}') {
		p.rbracesExpected++
		for {
			keyStart := p.inputIndex()
			quoted := p.next().IsString()
			key := p.expectIdentifierOrKeywordOrString()
			keys = append(keys, LiteralMapKey{Key: key, Quoted: quoted})
			switch {
			case quoted:
				p.expectCharacter(':')
				values = append(values, p.parsePipe())
			case p.consumeOptionalCharacter(':'):
				values = append(values, p.parsePipe())
			default:
				// shorthand `{a}` reads `a` from the context
				receiver := &ImplicitReceiver{astBase{Span: ParseSpan{Start: keyStart, End: keyStart}}}
				values = append(values, &PropertyRead{
					astBase:  astBase{Span: p.span(keyStart)},
					Receiver: receiver,
					Name:     key,
					NameSpan: p.span(keyStart),
				})
			}
			if !p.consumeOptionalCharacter(',') || p.next().IsCharacter('}') {
				break
			}
		}
		p.rbracesExpected--
		p.expectCharacter('}')
	}
	return &LiteralMap{astBase: astBase{Span: p.span(start)}, Keys: keys, Values: values}
}

func (p *parseAST) parseAccessMember(receiver AST, start int, isSafe bool) AST {
	nameStart := p.inputIndex()
	name := p.expectIdentifierOrKeyword()
	nameSpan := p.span(nameStart)

	if isSafe {
		if p.next().IsOperator("=") {
			p.error("The '?.' operator cannot be used in the assignment")
		}
		return &SafePropertyRead{astBase: astBase{Span: p.span(start)}, Receiver: receiver, Name: name}
	}
	if p.next().IsOperator("=") {
		if !p.isAction() {
			p.error("Bindings cannot contain assignments")
			return &EmptyExpr{astBase{Span: p.span(start)}}
		}
		p.advance()
		value := p.parseConditional()
		return &PropertyWrite{astBase: astBase{Span: p.span(start)}, Receiver: receiver, Name: name, Value: value}
	}
	return &PropertyRead{astBase: astBase{Span: p.span(start)}, Receiver: receiver, Name: name, NameSpan: nameSpan}
}

func (p *parseAST) parseCall(receiver AST, start int, isSafe bool) AST {
	p.rparensExpected++
	args := p.parseExpressionList(')')
	p.rparensExpected--
	p.expectCharacter(')')
	if isSafe {
		return &SafeCall{astBase: astBase{Span: p.span(start)}, Receiver: receiver, Args: args}
	}
	return &Call{astBase: astBase{Span: p.span(start)}, Receiver: receiver, Args: args}
}

func (p *parseAST) parseKeyedReadOrWrite(receiver AST, start int, isSafe bool) AST {
	p.rbracketsExpected++
	key := p.parsePipe()
	p.rbracketsExpected--
	p.expectCharacter(']')
	if isSafe {
		if p.next().IsOperator("=") {
			p.error("The '?.' operator cannot be used in the assignment")
		}
		return &SafeKeyedRead{astBase: astBase{Span: p.span(start)}, Receiver: receiver, Key: key}
	}
	if p.next().IsOperator("=") {
		if !p.isAction() {
			p.error("Bindings cannot contain assignments")
			return &EmptyExpr{astBase{Span: p.span(start)}}
		}
		p.advance()
		value := p.parseConditional()
		return &KeyedWrite{astBase: astBase{Span: p.span(start)}, Receiver: receiver, Key: key, Value: value}
	}
	return &KeyedRead{astBase: astBase{Span: p.span(start)}, Receiver: receiver, Key: key}
}

func (p *parseAST) expectTemplateBindingKey() *bindingKey {
	var result strings.Builder
	start := p.inputIndex()
	for {
		result.WriteString(p.expectIdentifierOrKeywordOrString())
		if !p.consumeOptionalOperator("-") {
			break
		}
		result.WriteString("-")
	}
	source := result.String()
	return &bindingKey{source: source, span: ParseSpan{Start: start, End: start + len(source)}}
}

func (p *parseAST) parseTemplateBindings(templateKey *bindingKey) []TemplateBinding {
	bindings := p.parseDirectiveKeywordBindings(templateKey)
	for p.index < len(p.tokens) {
		before := p.index
		if letBinding := p.parseLetBinding(); letBinding != nil {
			bindings = append(bindings, letBinding)
		} else {
			// either `value as key` or `keyword expression`
			key := p.expectTemplateBindingKey()
			if binding := p.parseAsBinding(key); binding != nil {
				bindings = append(bindings, binding)
			} else {
				// of -> ngForOf, trackBy -> ngForTrackBy
				if key.source != "" {
					key.source = templateKey.source + strings.ToUpper(key.source[:1]) + key.source[1:]
				}
				bindings = append(bindings, p.parseDirectiveKeywordBindings(key)...)
			}
		}
		p.consumeStatementTerminator()
		if p.index == before {
			p.advance()
		}
	}
	return bindings
}

func (p *parseAST) parseDirectiveKeywordBindings(key *bindingKey) []TemplateBinding {
	p.consumeOptionalCharacter(':') // trackBy: trackByFunction
	value := p.getDirectiveBoundTarget()
	spanEnd := p.inputIndex()
	// `*ngIf="cond | pipe as x"` binds x to the value of ngIf
	asBinding := p.parseAsBinding(key)
	if asBinding == nil {
		p.consumeStatementTerminator()
		spanEnd = p.inputIndex()
	}
	bindings := []TemplateBinding{&ExpressionBinding{
		Key:   key.source,
		Value: value,
		Span:  ParseSpan{Start: key.span.Start, End: spanEnd},
	}}
	if asBinding != nil {
		bindings = append(bindings, asBinding)
	}
	return bindings
}

func (p *parseAST) getDirectiveBoundTarget() *ASTWithSource {
	if p.next() == EOF || p.peekKeywordAs() || p.peekKeywordLet() {
		return nil
	}
	ast := p.parsePipe()
	span := ast.GetSpan()
	return &ASTWithSource{
		AST:      ast,
		Source:   p.input[span.Start-p.offset : span.End-p.offset],
		Location: p.location,
		Offset:   span.Start,
		Errors:   *p.errors,
	}
}

func (p *parseAST) parseAsBinding(value *bindingKey) TemplateBinding {
	if !p.peekKeywordAs() {
		return nil
	}
	p.advance()
	key := p.expectTemplateBindingKey()
	p.consumeStatementTerminator()
	return &VariableBinding{
		Key:   key.source,
		Value: value.source,
		Span:  ParseSpan{Start: value.span.Start, End: p.inputIndex()},
	}
}

func (p *parseAST) parseLetBinding() TemplateBinding {
	if !p.peekKeywordLet() {
		return nil
	}
	spanStart := p.inputIndex()
	p.advance()
	key := p.expectTemplateBindingKey()
	value := "$implicit"
	if p.consumeOptionalOperator("=") {
		value = p.expectTemplateBindingKey().source
	}
	p.consumeStatementTerminator()
	return &VariableBinding{Key: key.source, Value: value, Span: ParseSpan{Start: spanStart, End: p.inputIndex()}}
}

func (p *parseAST) consumeStatementTerminator() {
	if !p.consumeOptionalCharacter(';') {
		p.consumeOptionalCharacter(',')
	}
}

// error records an error and skips tokens until a recoverable point
func (p *parseAST) error(message string) {
	*p.errors = append(*p.errors, &ParserError{
		Message:  message + " " + p.errorLocationText(p.index),
		Input:    p.input,
		Location: p.location,
		Span:     ParseSpan{Start: p.inputIndex(), End: p.currentEndIndex()},
	})
	p.skip()
}

func (p *parseAST) errorLocationText(index int) string {
	if index < len(p.tokens) {
		return fmt.Sprintf("at column %d", p.tokens[index].Index+1)
	}
	return "at the end of the expression"
}

func (p *parseAST) skip() {
	n := p.next()
	for p.index < len(p.tokens) &&
		!n.IsCharacter(';') &&
		!n.IsOperator("|") &&
		(p.rparensExpected <= 0 || !n.IsCharacter(')')) &&
		(p.rbracesExpected <= 0 || !n.IsCharacter('}')) &&
		(p.rbracketsExpected <= 0 || !n.IsCharacter(']')) {
		if n.IsError() {
			*p.errors = append(*p.errors, &ParserError{
				Message:  n.StrValue,
				Input:    p.input,
				Location: p.location,
				Span:     ParseSpan{Start: n.Index + p.offset, End: n.End + p.offset},
			})
		}
		p.advance()
		n = p.next()
	}
}
