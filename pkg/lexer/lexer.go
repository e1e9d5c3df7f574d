// Package lexer implements the pull based ECMAScript scanner. The parser asks
// for the current token and one token of lookahead, and consumes tokens
// explicitly. Fatal scan errors are raised by panicking with an
// *errors.SyntaxError; callers recover them at their API boundary
// (see errors.Recover).
package lexer

import (
	"fmt"
	"slices"

	"esparse/pkg/errors"
	"esparse/pkg/events"
	"esparse/pkg/features"
	"esparse/pkg/source"
)

const eof rune = -1

// Options configures a Lexer.
type Options struct {
	Module    bool // module goal: "await" is reserved, HTML comments are disabled
	Strict    bool
	Features  features.Features
	Events    *events.Emitter
	Extension Extension
}

// Extension lets a grammar extension (such as JSX) scan its own tokens.
// Each hook is called at its place in the token priority order and returns
// nil when it does not apply at the current position.
type Extension interface {
	ScanIdentifier(l *Lexer) *Token
	ScanPunctuator(l *Lexer) *Token
	ScanString(l *Lexer) *Token
}

type bracket int

const (
	paren bracket = iota
	square
	curly
)

// rawState is the bracket and template nesting at a given position. Every
// "/" token keeps a copy so it can be rescanned as a regular expression.
type rawState struct {
	brackets  [3]int
	templates []int
}

// Lexer holds the state of the scanner.
type Lexer struct {
	src    []rune
	length int

	pos     int // index of the next character to scan
	line    int // current 1-based line number
	column  int // current 0-based column number
	prevEnd int // end index of the last scanned token, -1 before the first one

	strict   bool
	module   bool
	features features.Features
	events   *events.Emitter
	ext      Extension

	punctuators *LSM

	current, next             *Token
	currentLoaded, nextLoaded bool

	brackets  [3]int
	templates []int // curly depth at which each open template substitution started

	lastConsumed *Token
	pending      []*Token // comments waiting for the next token
	eofComments  []*Token // comments between the last token and the end of input
	newline      bool     // a line terminator was skipped since the last token
}

// NewLexer creates a new Lexer over input.
func NewLexer(input string, opts Options) *Lexer {
	return NewLexerRunes([]rune(input), opts)
}

// NewLexerRunes creates a new Lexer over already decoded characters.
func NewLexerRunes(src []rune, opts Options) *Lexer {
	l := &Lexer{
		src:      src,
		length:   len(src),
		line:     1,
		prevEnd:  -1,
		strict:   opts.Strict,
		module:   opts.Module,
		features: opts.Features,
		events:   opts.Events,
		ext:      opts.Extension,
	}
	l.punctuators = newPunctuatorMatcher(opts.Features)
	return l
}

// punctuatorList is the complete punctuator vocabulary. Feature gated
// entries are removed by newPunctuatorMatcher.
var punctuatorList = []string{
	"{", "}", "(", ")", "[", "]", ".", "...", ";", ",", "<", ">", "<=", ">=",
	"==", "!=", "===", "!==", "+", "-", "*", "%", "**", "++", "--", "<<", ">>",
	">>>", "&", "|", "^", "!", "~", "&&", "||", "??", "?", "?.", ":", "=", "+=",
	"-=", "*=", "%=", "**=", "<<=", ">>=", ">>>=", "&=", "|=", "^=", "&&=",
	"||=", "??=", "=>", "/", "/=",
}

func newPunctuatorMatcher(f features.Features) *LSM {
	m := NewLSM(punctuatorList, false)
	if !f.ExponentiationOperator {
		m.Remove("**")
		m.Remove("**=")
	}
	if !f.CoalescingOperator {
		m.Remove("??")
	}
	if !f.OptionalChaining {
		m.Remove("?.")
	}
	if !f.LogicalAssignmentOperators {
		m.Remove("&&=")
		m.Remove("||=")
		m.Remove("??=")
	}
	return m
}

// Features returns the feature set the lexer was created with.
func (l *Lexer) Features() features.Features {
	return l.features
}

// IsModule reports whether the source is scanned with the module goal.
func (l *Lexer) IsModule() bool {
	return l.module
}

// IsStrictMode reports whether strict mode is currently active.
func (l *Lexer) IsStrictMode() bool {
	return l.strict
}

// SetStrictMode toggles strict mode. Already scanned lookahead tokens are
// reclassified so that strict mode keywords get the right type.
func (l *Lexer) SetStrictMode(strict bool) {
	if l.strict == strict {
		return
	}
	l.strict = strict
	if l.currentLoaded {
		l.current = l.reclassify(l.current)
	}
	if l.nextLoaded {
		l.next = l.reclassify(l.next)
	}
}

func (l *Lexer) reclassify(tok *Token) *Token {
	if tok == nil || tok.name != "" || (tok.Type != Identifier && tok.Type != Keyword) || !strictKeywords[tok.Value] {
		return tok
	}
	typ := classifyWord(tok.Value, l.strict, l.module)
	if typ == tok.Type {
		return tok
	}
	cp := *tok
	cp.Type = typ
	return &cp
}

// --- Token access ---

// Token returns the current token, scanning it if needed. It returns nil at
// the end of input.
func (l *Lexer) Token() *Token {
	if !l.currentLoaded {
		l.current = l.scan()
		l.currentLoaded = true
	}
	return l.current
}

// NextToken returns the token following the current one. After a "/" or
// "/=" token a scan failure is not fatal: the slash may still be rescanned
// as a regular expression, so nil is returned and nothing is cached.
func (l *Lexer) NextToken() *Token {
	if l.Token() == nil {
		return nil
	}
	if !l.nextLoaded {
		if l.IsAfterSlash() {
			return l.scanTolerant()
		}
		l.next = l.scan()
		l.nextLoaded = true
	}
	return l.next
}

func (l *Lexer) scanTolerant() (tok *Token) {
	pos, line, column, prevEnd := l.pos, l.line, l.column, l.prevEnd
	raw := l.rawState()
	pending, eofComments := l.pending, l.eofComments
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*errors.SyntaxError); !ok {
				panic(r)
			}
			l.pos, l.line, l.column, l.prevEnd = pos, line, column, prevEnd
			l.setRawState(raw)
			l.pending, l.eofComments = pending, eofComments
			tok = nil
		}
	}()
	tok = l.scan()
	l.next, l.nextLoaded = tok, true
	return tok
}

// IsAfterSlash reports whether the current token is a "/" or "/=" punctuator,
// which may yet be rescanned as the start of a regular expression.
func (l *Lexer) IsAfterSlash() bool {
	tok := l.Token()
	return tok != nil && tok.slashState != nil
}

// Is reports whether the current token's value is one of values.
func (l *Lexer) Is(values ...string) bool {
	return l.Token().Is(values...)
}

// NextIs reports whether the token after the current one has one of values.
func (l *Lexer) NextIs(values ...string) bool {
	return l.NextToken().Is(values...)
}

// Consume advances past the current token and returns it, or nil at the end
// of input.
func (l *Lexer) Consume() *Token {
	tok := l.Token()
	if tok == nil {
		return nil
	}
	l.lastConsumed = tok
	if l.events.Has(events.TokenConsumed) {
		l.events.Fire(events.TokenConsumed, &Consumed{Token: tok, Comments: tok.comments})
	}
	if l.nextLoaded {
		l.current, l.next = l.next, nil
		l.nextLoaded = false
	} else {
		l.current = nil
		l.currentLoaded = false
	}
	return tok
}

// ConsumeToken consumes the current token if its value is value.
func (l *Lexer) ConsumeToken(value string) *Token {
	if tok := l.Token(); tok != nil && tok.Value == value && tok.Type != String && tok.Type != Template {
		return l.Consume()
	}
	return nil
}

// ConsumeEnd reports the end of input to TokenConsumed listeners together
// with the comments found after the last token.
func (l *Lexer) ConsumeEnd() {
	if l.Token() != nil {
		return
	}
	if l.events.Has(events.TokenConsumed) {
		l.events.Fire(events.TokenConsumed, &Consumed{Comments: l.eofComments})
	}
}

// EOFComments returns the comments between the last token and the end of input.
func (l *Lexer) EOFComments() []*Token {
	return l.eofComments
}

// LastConsumed returns the most recently consumed token.
func (l *Lexer) LastConsumed() *Token {
	return l.lastConsumed
}

// LastConsumedEnd returns the end position of the most recently consumed
// token, or the start of the source when nothing was consumed yet.
func (l *Lexer) LastConsumedEnd() source.Position {
	if l.lastConsumed == nil {
		return source.NewPosition(1, 0, 0)
	}
	return l.lastConsumed.Location.End
}

// CurrentPosition returns the start of the current token, or the end of the
// input when there is no current token.
func (l *Lexer) CurrentPosition() source.Position {
	if tok := l.Token(); tok != nil {
		return tok.Location.Start
	}
	return l.ScanPosition()
}

// ReconsumeCurrentTokenAsRegexp rescans the current "/" or "/=" token as a
// regular expression literal. It returns nil when the current token is not a
// slash.
func (l *Lexer) ReconsumeCurrentTokenAsRegexp() *Token {
	tok := l.Token()
	if tok == nil || tok.slashState == nil {
		return nil
	}
	start := tok.Location.Start
	l.pos, l.line, l.column = start.Index, start.Line, start.Column
	l.setRawState(*tok.slashState)
	l.next, l.nextLoaded = nil, false
	l.pending, l.eofComments = nil, nil

	re := l.scanRegexp(start)
	re.newlineBefore = tok.newlineBefore
	re.comments = tok.comments
	l.prevEnd = re.Location.End.Index
	l.current = re
	return re
}

// --- Helpers for extensions ---

// PeekChar returns the character offset positions after the scan position,
// or -1 past the end of input.
func (l *Lexer) PeekChar(offset int) rune {
	if i := l.pos + offset; i >= 0 && i < l.length {
		return l.src[i]
	}
	return eof
}

// ReadChar consumes one character, or a CRLF pair, updating line and column.
func (l *Lexer) ReadChar() {
	l.readChar()
}

// ScanPosition returns the position of the next character to scan.
func (l *Lexer) ScanPosition() source.Position {
	return source.NewPosition(l.line, l.column, l.pos)
}

// Errorf raises a fatal syntax error at pos.
func (l *Lexer) Errorf(pos source.Position, format string, args ...interface{}) {
	panic(errors.NewSyntaxError(pos, format, args...))
}

// All scans the rest of the input without grammatical context ("/" is never
// a regular expression) and returns the tokens.
func (l *Lexer) All() (toks []*Token, err error) {
	defer errors.Recover(&err)
	for tok := l.Token(); tok != nil; tok = l.Token() {
		toks = append(toks, l.Consume())
	}
	return toks, nil
}

func (l *Lexer) rawState() rawState {
	return rawState{brackets: l.brackets, templates: slices.Clone(l.templates)}
}

func (l *Lexer) setRawState(s rawState) {
	l.brackets = s.brackets
	l.templates = slices.Clone(s.templates)
}

func (l *Lexer) makeToken(typ TokenType, start source.Position) *Token {
	return &Token{
		Type:     typ,
		Value:    string(l.src[start.Index:l.pos]),
		Location: source.SourceLocation{Start: start, End: l.ScanPosition()},
	}
}

func describe(ch rune) string {
	if ch == eof {
		return "end of input"
	}
	return fmt.Sprintf("character %q", ch)
}
