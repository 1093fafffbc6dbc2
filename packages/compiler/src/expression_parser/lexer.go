package expression_parser

import (
	"strconv"
	"strings"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenTypeCharacter TokenType = iota
	TokenTypeIdentifier
	TokenTypeKeyword
	TokenTypeString
	TokenTypeOperator
	TokenTypeNumber
	TokenTypeError
)

var keywords = map[string]bool{
	"let":       true,
	"as":        true,
	"null":      true,
	"undefined": true,
	"true":      true,
	"false":     true,
	"this":      true,
	"typeof":    true,
}

const eof rune = 0

// Token represents a token in the expression
type Token struct {
	Index    int
	End      int
	Type     TokenType
	NumValue float64
	StrValue string
}

// NewToken creates a new Token
func NewToken(index, end int, typ TokenType, numValue float64, strValue string) *Token {
	return &Token{Index: index, End: end, Type: typ, NumValue: numValue, StrValue: strValue}
}

// IsCharacter checks if the token is the given character
func (t *Token) IsCharacter(code rune) bool {
	return t.Type == TokenTypeCharacter && t.StrValue == string(code)
}

// IsNumber checks if the token is a number
func (t *Token) IsNumber() bool { return t.Type == TokenTypeNumber }

// IsString checks if the token is a string
func (t *Token) IsString() bool { return t.Type == TokenTypeString }

// IsOperator checks if the token is the given operator
func (t *Token) IsOperator(operator string) bool {
	return t.Type == TokenTypeOperator && t.StrValue == operator
}

// IsIdentifier checks if the token is an identifier
func (t *Token) IsIdentifier() bool { return t.Type == TokenTypeIdentifier }

// IsKeyword checks if the token is any keyword
func (t *Token) IsKeyword() bool { return t.Type == TokenTypeKeyword }

// IsKeywordValue checks if the token is the given keyword
func (t *Token) IsKeywordValue(keyword string) bool {
	return t.Type == TokenTypeKeyword && t.StrValue == keyword
}

// IsError checks if the token is a lexer error
func (t *Token) IsError() bool { return t.Type == TokenTypeError }

// String returns the token text
func (t *Token) String() string {
	if t.Type == TokenTypeNumber {
		return strconv.FormatFloat(t.NumValue, 'f', -1, 64)
	}
	return t.StrValue
}

// Lexer splits binding expressions into tokens
type Lexer struct{}

// NewLexer creates a new Lexer
func NewLexer() *Lexer {
	return &Lexer{}
}

// Tokenize tokenizes the given text
func (l *Lexer) Tokenize(text string) []*Token {
	s := newScanner(text)
	return s.scan()
}

type scanner struct {
	input  string
	length int
	peek   rune
	index  int
	tokens []*Token
}

func newScanner(input string) *scanner {
	s := &scanner{input: input, length: len(input), index: -1}
	s.advance()
	return s
}

func (s *scanner) advance() {
	s.index++
	if s.index >= s.length {
		s.peek = eof
	} else {
		s.peek = rune(s.input[s.index])
	}
}

func (s *scanner) scan() []*Token {
	for token := s.scanToken(); token != nil; token = s.scanToken() {
		s.tokens = append(s.tokens, token)
	}
	return s.tokens
}

func (s *scanner) scanToken() *Token {
	for s.index < s.length && isWhitespace(s.peek) {
		s.advance()
	}
	if s.index >= s.length {
		return nil
	}

	peek := s.peek
	if isIdentifierStart(peek) {
		return s.scanIdentifier()
	}
	if isDigit(peek) {
		return s.scanNumber(s.index)
	}

	start := s.index
	switch peek {
	case '.':
		s.advance()
		if isDigit(s.peek) {
			return s.scanNumber(start)
		}
		return newCharacterToken(start, s.index, '.')
	case '(', ')', '{', '}', '[', ']', ',', ':', ';':
		s.advance()
		return newCharacterToken(start, s.index, peek)
	case '\'', '"':
		return s.scanString()
	case '+', '-', '*', '/', '%', '^':
		s.advance()
		return newOperatorToken(start, s.index, string(peek))
	case '?':
		return s.scanQuestion(start)
	case '<', '>':
		return s.scanComplexOperator(start, string(peek), '=', "=")
	case '!', '=':
		return s.scanComplexOperator(start, string(peek), '=', "=", '=')
	case '&':
		return s.scanComplexOperator(start, "&", '&', "&")
	case '|':
		return s.scanComplexOperator(start, "|", '|', "|")
	}

	s.advance()
	return s.error("Unexpected character ["+string(peek)+"]", 0)
}

func (s *scanner) scanComplexOperator(start int, one string, twoCode rune, two string, threeCode ...rune) *Token {
	s.advance()
	str := one
	if s.peek == twoCode {
		s.advance()
		str += two
	}
	if len(threeCode) > 0 && s.peek == threeCode[0] {
		s.advance()
		str += string(threeCode[0])
	}
	return newOperatorToken(start, s.index, str)
}

func (s *scanner) scanQuestion(start int) *Token {
	s.advance()
	operator := "?"
	// `a ?? b` or `a?.b`
	if s.peek == '?' || s.peek == '.' {
		operator += string(s.peek)
		s.advance()
	}
	return newOperatorToken(start, s.index, operator)
}

func (s *scanner) scanIdentifier() *Token {
	start := s.index
	s.advance()
	for isIdentifierPart(s.peek) {
		s.advance()
	}
	str := s.input[start:s.index]
	if keywords[str] {
		return newKeywordToken(start, s.index, str)
	}
	return newIdentifierToken(start, s.index, str)
}

func (s *scanner) scanNumber(start int) *Token {
	simple := s.index == start
	hasSeparators := false
	s.advance()
	for {
		switch {
		case isDigit(s.peek):
		case s.peek == '_':
			// separators must sit between two digits
			if s.index >= s.length-1 || !isDigit(rune(s.input[s.index-1])) || !isDigit(rune(s.input[s.index+1])) {
				return s.error("Invalid numeric separator", 0)
			}
			hasSeparators = true
		case s.peek == '.':
			simple = false
		case s.peek == 'e' || s.peek == 'E':
			s.advance()
			if s.peek == '-' || s.peek == '+' {
				s.advance()
			}
			if !isDigit(s.peek) {
				return s.error("Invalid exponent", -1)
			}
			simple = false
		default:
			str := s.input[start:s.index]
			if hasSeparators {
				str = strings.ReplaceAll(str, "_", "")
			}
			var value float64
			if simple {
				n, _ := strconv.ParseInt(str, 10, 64)
				value = float64(n)
			} else {
				value, _ = strconv.ParseFloat(str, 64)
			}
			return newNumberToken(start, s.index, value)
		}
		s.advance()
	}
}

func (s *scanner) scanString() *Token {
	start := s.index
	quote := s.peek
	s.advance()

	var buffer strings.Builder
	marker := s.index
	for s.peek != quote {
		switch {
		case s.peek == '\\':
			buffer.WriteString(s.input[marker:s.index])
			s.advance()
			if s.peek == 'u' {
				if s.index+5 > s.length {
					return s.error("Invalid unicode escape", 0)
				}
				hex := s.input[s.index+1 : s.index+5]
				code, err := strconv.ParseInt(hex, 16, 32)
				if err != nil {
					return s.error("Invalid unicode escape [\\u"+hex+"]", 0)
				}
				buffer.WriteRune(rune(code))
				for i := 0; i < 5; i++ {
					s.advance()
				}
			} else {
				buffer.WriteRune(unescape(s.peek))
				s.advance()
			}
			marker = s.index
		case s.index >= s.length:
			return s.error("Unterminated quote", 0)
		default:
			s.advance()
		}
	}
	buffer.WriteString(s.input[marker:s.index])
	s.advance()
	return NewToken(start, s.index, TokenTypeString, 0, buffer.String())
}

func (s *scanner) error(message string, offset int) *Token {
	position := s.index + offset
	return NewToken(position, s.index, TokenTypeError, 0,
		"Lexer Error: "+message+" at column "+strconv.Itoa(position)+" in expression ["+s.input+"]")
}

func isWhitespace(code rune) bool {
	return (code >= '\t' && code <= ' ') || code == 0xA0
}

func isDigit(code rune) bool {
	return '0' <= code && code <= '9'
}

func isIdentifierStart(code rune) bool {
	return ('a' <= code && code <= 'z') || ('A' <= code && code <= 'Z') || code == '_' || code == '$'
}

func isIdentifierPart(code rune) bool {
	return isIdentifierStart(code) || isDigit(code)
}

func unescape(code rune) rune {
	switch code {
	case 'n':
		return '\n'
	case 'f':
		return '\f'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'v':
		return '\v'
	default:
		return code
	}
}

func newCharacterToken(index, end int, code rune) *Token {
	return NewToken(index, end, TokenTypeCharacter, float64(code), string(code))
}

func newIdentifierToken(index, end int, text string) *Token {
	return NewToken(index, end, TokenTypeIdentifier, 0, text)
}

func newKeywordToken(index, end int, text string) *Token {
	return NewToken(index, end, TokenTypeKeyword, 0, text)
}

func newOperatorToken(index, end int, text string) *Token {
	return NewToken(index, end, TokenTypeOperator, 0, text)
}

func newNumberToken(index, end int, n float64) *Token {
	return NewToken(index, end, TokenTypeNumber, n, "")
}
