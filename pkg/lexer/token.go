package lexer

import (
	"esparse/pkg/source"
)

// TokenType represents the type of a token.
type TokenType string

// --- Token Types ---
const (
	Boolean           TokenType = "Boolean"
	Identifier        TokenType = "Identifier"
	PrivateIdentifier TokenType = "PrivateIdentifier"
	Keyword           TokenType = "Keyword"
	Null              TokenType = "Null"
	Numeric           TokenType = "Numeric"
	BigInt            TokenType = "BigInt"
	Punctuator        TokenType = "Punctuator"
	String            TokenType = "String"
	RegularExpression TokenType = "RegularExpression"
	Template          TokenType = "Template"
	Comment           TokenType = "Comment"
	JSXText           TokenType = "JSXText"
	JSXIdentifier     TokenType = "JSXIdentifier"
)

// Token represents a lexical token. Tokens are immutable once scanned, except
// for a "/" punctuator that gets reconsumed as a regular expression.
type Token struct {
	Type     TokenType             `json:"type"`
	Value    string                `json:"value"` // The raw text of the token (lexeme)
	Location source.SourceLocation `json:"location"`

	newlineBefore bool     // a line terminator separates this token from the previous one
	comments      []*Token // comments scanned between the previous token and this one
	slashState    *rawState
	name          string // decoded name of an identifier written with escapes
}

// NewToken creates a token spanning loc.
func NewToken(typ TokenType, value string, loc source.SourceLocation) *Token {
	return &Token{Type: typ, Value: value, Location: loc}
}

// NewlineBefore reports whether a line terminator (possibly inside a
// comment) precedes the token.
func (t *Token) NewlineBefore() bool {
	return t.newlineBefore
}

// Comments returns the comment tokens scanned right before this token.
func (t *Token) Comments() []*Token {
	return t.comments
}

// Name returns the identifier name of a word token with escape sequences
// decoded. For other tokens it returns Value.
func (t *Token) Name() string {
	if t.name != "" {
		return t.name
	}
	if t.Type == PrivateIdentifier {
		return t.Value[1:]
	}
	return t.Value
}

// Escaped reports whether an identifier token contains escape sequences.
func (t *Token) Escaped() bool {
	return t.name != ""
}

// Start returns the position of the first character of the token.
func (t *Token) Start() source.Position {
	return t.Location.Start
}

// End returns the position after the last character of the token.
func (t *Token) End() source.Position {
	return t.Location.End
}

// Is reports whether the token's value is one of values.
func (t *Token) Is(values ...string) bool {
	if t == nil {
		return false
	}
	for _, v := range values {
		if t.Value == v {
			return true
		}
	}
	return false
}

// IsPunctuator reports whether the token is the punctuator value.
func (t *Token) IsPunctuator(value string) bool {
	return t != nil && t.Type == Punctuator && t.Value == value
}

// Consumed is the payload of the TokenConsumed event. Token is nil for the
// end of input, in which case Comments holds the comments after the last token.
type Consumed struct {
	Token    *Token
	Comments []*Token
}

// --- Word tables ---

// keywords are always reserved.
var keywords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "finally": true,
	"for": true, "function": true, "if": true, "import": true, "in": true,
	"instanceof": true, "new": true, "return": true, "super": true, "switch": true,
	"this": true, "throw": true, "try": true, "typeof": true, "var": true,
	"void": true, "while": true, "with": true,
}

// strictKeywords are reserved only in strict mode code.
var strictKeywords = map[string]bool{
	"implements": true, "interface": true, "let": true, "package": true,
	"private": true, "protected": true, "public": true, "static": true, "yield": true,
}

// IsKeyword reports whether word is reserved in every context.
func IsKeyword(word string) bool {
	return keywords[word]
}

// IsStrictKeyword reports whether word is reserved in strict mode code only.
func IsStrictKeyword(word string) bool {
	return strictKeywords[word]
}

// IsReservedWord reports whether word cannot be used as an identifier
// reference or binding, given the strictness and module flags.
func IsReservedWord(word string, strict, module bool) bool {
	switch {
	case keywords[word]:
		return true
	case word == "null" || word == "true" || word == "false":
		return true
	case strict && strictKeywords[word]:
		return true
	case module && word == "await":
		return true
	}
	return false
}

// classifyWord returns the token type for an unescaped word.
func classifyWord(word string, strict, module bool) TokenType {
	switch {
	case word == "null":
		return Null
	case word == "true" || word == "false":
		return Boolean
	case keywords[word]:
		return Keyword
	case strict && strictKeywords[word]:
		return Keyword
	case module && word == "await":
		return Keyword
	}
	return Identifier
}
