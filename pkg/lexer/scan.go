package lexer

import (
	"strings"

	"esparse/pkg/source"
)

// scan skips whitespace and comments and reads the next token. It returns
// nil at the end of input.
func (l *Lexer) scan() *Token {
	l.newline = false
	l.skipWhitespace()
	comments, newline := l.pending, l.newline
	l.pending = nil

	if l.pos >= l.length {
		l.eofComments = comments
		l.checkClosed()
		return nil
	}

	start := l.ScanPosition()
	tok := l.scanToken()
	if tok == nil {
		l.Errorf(start, "Unexpected %s", describe(l.PeekChar(0)))
	}
	tok.newlineBefore = newline
	tok.comments = comments
	l.prevEnd = tok.Location.End.Index
	return tok
}

// scanToken tries each token production in priority order.
func (l *Lexer) scanToken() *Token {
	if l.ext != nil {
		if tok := l.ext.ScanIdentifier(l); tok != nil {
			return tok
		}
	}
	if tok := l.scanTemplate(); tok != nil {
		return tok
	}
	if tok := l.scanNumber(); tok != nil {
		return tok
	}
	if l.ext != nil {
		if tok := l.ext.ScanPunctuator(l); tok != nil {
			return tok
		}
	}
	if tok := l.scanPunctuator(); tok != nil {
		return tok
	}
	if tok := l.scanWord(); tok != nil {
		return tok
	}
	if l.ext != nil {
		if tok := l.ext.ScanString(l); tok != nil {
			return tok
		}
	}
	return l.scanString()
}

func (l *Lexer) checkClosed() {
	end := l.ScanPosition()
	if len(l.templates) > 0 {
		l.Errorf(end, "Unterminated template")
	}
	for b, name := range [3]string{"(", "[", "{"} {
		if l.brackets[b] > 0 {
			l.Errorf(end, "Unclosed %s", name)
		}
	}
}

// readChar consumes one character, treating CRLF as a single line
// terminator, and keeps line and column current.
func (l *Lexer) readChar() {
	if l.pos >= l.length {
		return
	}
	if IsLineTerminator(l.src[l.pos]) {
		n, _, _ := lineTerminators.Match(l.src, l.pos)
		l.pos += n
		l.line++
		l.column = 0
		return
	}
	l.pos++
	l.column++
}

// --- Whitespace and comments ---

func (l *Lexer) skipWhitespace() {
	for {
		ch := l.PeekChar(0)
		switch {
		case IsLineTerminator(ch):
			l.readChar()
			l.newline = true
		case IsWhitespace(ch):
			l.readChar()
		case ch == '/' && l.PeekChar(1) == '/':
			l.skipLineComment(2)
		case ch == '/' && l.PeekChar(1) == '*':
			l.skipMultilineComment()
		case !l.module && ch == '<' && l.PeekChar(1) == '!' && l.PeekChar(2) == '-' && l.PeekChar(3) == '-':
			l.skipLineComment(4)
		case !l.module && ch == '-' && l.PeekChar(1) == '-' && l.PeekChar(2) == '>' && (l.newline || l.prevEnd < 0):
			// "-->" only opens a comment at the beginning of a line
			l.skipLineComment(3)
		default:
			return
		}
	}
}

// skipLineComment reads until the end of the line. The line terminator is
// left for skipWhitespace.
func (l *Lexer) skipLineComment(open int) {
	start := l.ScanPosition()
	for i := 0; i < open; i++ {
		l.readChar()
	}
	for ch := l.PeekChar(0); ch != eof && !IsLineTerminator(ch); ch = l.PeekChar(0) {
		l.readChar()
	}
	l.pending = append(l.pending, l.makeToken(Comment, start))
}

// skipMultilineComment consumes a /* */ comment, including the delimiters.
func (l *Lexer) skipMultilineComment() {
	start := l.ScanPosition()
	l.readChar()
	l.readChar()
	for {
		ch := l.PeekChar(0)
		switch {
		case ch == eof:
			l.Errorf(start, "Unterminated comment")
		case ch == '*' && l.PeekChar(1) == '/':
			l.readChar()
			l.readChar()
			l.pending = append(l.pending, l.makeToken(Comment, start))
			return
		case IsLineTerminator(ch):
			l.newline = true
		}
		l.readChar()
	}
}

// --- Templates ---

// scanTemplate reads a template head (starting with a backtick) or, when the
// "}" closes an open substitution, a template continuation.
func (l *Lexer) scanTemplate() *Token {
	ch := l.PeekChar(0)
	switch {
	case ch == '`':
	case ch == '}' && len(l.templates) > 0 && l.templates[len(l.templates)-1] == l.brackets[curly]:
		l.templates = l.templates[:len(l.templates)-1]
	default:
		return nil
	}
	start := l.ScanPosition()
	l.readChar()
	for {
		ch := l.PeekChar(0)
		switch {
		case ch == eof:
			l.Errorf(start, "Unterminated template")
		case ch == '`':
			l.readChar()
			return l.makeToken(Template, start)
		case ch == '$' && l.PeekChar(1) == '{':
			l.readChar()
			l.readChar()
			l.templates = append(l.templates, l.brackets[curly])
			return l.makeToken(Template, start)
		case ch == '\\':
			l.readChar()
			l.readChar()
		default:
			l.readChar()
		}
	}
}

// --- Numbers ---

// scanNumber reads a numeric or bigint literal. Radix prefixes, legacy octal,
// fractions, exponents, separators and the bigint suffix are handled here;
// strict mode restrictions are left to the parser.
func (l *Lexer) scanNumber() *Token {
	ch := l.PeekChar(0)
	if !isDigit(ch) && !(ch == '.' && isDigit(l.PeekChar(1))) {
		return nil
	}
	start := l.ScanPosition()
	typ := Numeric

	if ch == '0' {
		base := 0
		switch l.PeekChar(1) {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			l.readChar()
			l.readChar()
			if l.readDigits(base) == 0 {
				l.Errorf(start, "Invalid numeric literal")
			}
			if l.PeekChar(0) == 'n' && l.features.BigInt {
				l.readChar()
				typ = BigInt
			}
			return l.finishNumber(typ, start)
		}
		if isDigit(l.PeekChar(1)) {
			// Legacy octal (017) or a decimal with a leading zero (089)
			octal := true
			l.readChar()
			for ch := l.PeekChar(0); isDigit(ch); ch = l.PeekChar(0) {
				if !isOctalDigit(ch) {
					octal = false
				}
				l.readChar()
			}
			if l.PeekChar(0) == '_' {
				l.Errorf(l.ScanPosition(), "Numeric separators are not allowed here")
			}
			if octal {
				return l.finishNumber(typ, start)
			}
			l.readFraction()
			return l.finishNumber(typ, start)
		}
		if l.PeekChar(1) == '_' {
			l.Errorf(source.NewPosition(start.Line, start.Column+1, start.Index+1), "Numeric separators are not allowed here")
		}
	}

	decimal := false
	if ch == '.' {
		decimal = true
	} else {
		l.readDigits(10)
		decimal = l.PeekChar(0) == '.' || l.PeekChar(0) == 'e' || l.PeekChar(0) == 'E'
	}
	l.readFraction()
	if !decimal && l.PeekChar(0) == 'n' && l.features.BigInt {
		l.readChar()
		typ = BigInt
	}
	return l.finishNumber(typ, start)
}

// readFraction reads an optional ".digits" part and an optional exponent.
func (l *Lexer) readFraction() {
	if l.PeekChar(0) == '.' {
		l.readChar()
		l.readDigits(10)
	}
	if ch := l.PeekChar(0); ch == 'e' || ch == 'E' {
		l.readChar()
		if ch := l.PeekChar(0); ch == '+' || ch == '-' {
			l.readChar()
		}
		if l.readDigits(10) == 0 {
			l.Errorf(l.ScanPosition(), "Invalid numeric literal")
		}
	}
}

// readDigits reads a run of digits of the given base, with numeric
// separators when the feature is on, and returns the number of digits read.
func (l *Lexer) readDigits(base int) int {
	n := 0
	for {
		ch := l.PeekChar(0)
		if isDigitForBase(ch, base) {
			l.readChar()
			n++
			continue
		}
		if ch == '_' && l.features.NumericLiteralSeparator {
			// Separator must sit between two digits
			if n == 0 || !isDigitForBase(l.PeekChar(1), base) {
				l.Errorf(l.ScanPosition(), "Numeric separators are not allowed here")
			}
			l.readChar()
			continue
		}
		return n
	}
}

func (l *Lexer) finishNumber(typ TokenType, start source.Position) *Token {
	if ch := l.PeekChar(0); IsIdentifierStart(ch) || isDigit(ch) || ch == '\\' {
		l.Errorf(l.ScanPosition(), "Invalid numeric literal")
	}
	return l.makeToken(typ, start)
}

// --- Punctuators ---

func (l *Lexer) scanPunctuator() *Token {
	n, match, ok := l.punctuators.Match(l.src, l.pos)
	if !ok {
		return nil
	}
	// "?.5" is a conditional followed by a number
	if match == "?." && isDigit(l.PeekChar(2)) {
		n, match = 1, "?"
	}

	start := l.ScanPosition()
	var slash *rawState
	switch match {
	case "/", "/=":
		s := l.rawState()
		slash = &s
	case "(":
		l.brackets[paren]++
	case "[":
		l.brackets[square]++
	case "{":
		l.brackets[curly]++
	case ")":
		l.closeBracket(paren)
	case "]":
		l.closeBracket(square)
	case "}":
		l.closeBracket(curly)
	}
	// Punctuators never contain line terminators
	l.pos += n
	l.column += n

	tok := l.makeToken(Punctuator, start)
	tok.slashState = slash
	return tok
}

func (l *Lexer) closeBracket(b bracket) {
	if l.brackets[b] > 0 {
		l.brackets[b]--
	}
}

// --- Identifiers and keywords ---

func (l *Lexer) scanWord() *Token {
	start := l.ScanPosition()
	private := false
	if l.PeekChar(0) == '#' {
		if !l.features.PrivateMethodsAndFields || !l.identifierStartsAt(1) {
			return nil
		}
		private = true
		l.readChar()
	} else if !l.identifierStartsAt(0) {
		return nil
	}

	name, escaped := l.readIdentifierName()
	switch {
	case private:
		tok := l.makeToken(PrivateIdentifier, start)
		if escaped {
			tok.name = name
		}
		return tok
	case escaped:
		// Escaped words are never keywords
		tok := l.makeToken(Identifier, start)
		tok.name = name
		return tok
	}
	return l.makeToken(classifyWord(name, l.strict, l.module), start)
}

func (l *Lexer) identifierStartsAt(offset int) bool {
	ch := l.PeekChar(offset)
	return IsIdentifierStart(ch) || ch == '\\' && l.PeekChar(offset+1) == 'u'
}

// readIdentifierName reads an IdentifierName and returns it with escape
// sequences decoded.
func (l *Lexer) readIdentifierName() (string, bool) {
	var sb strings.Builder
	escaped := false
	for first := true; ; first = false {
		ch := l.PeekChar(0)
		if ch == '\\' {
			pos := l.ScanPosition()
			r := l.readUnicodeEscape()
			if (first && !IsIdentifierStart(r)) || (!first && !IsIdentifierPart(r)) {
				l.Errorf(pos, "Invalid Unicode escape sequence")
			}
			sb.WriteRune(r)
			escaped = true
			continue
		}
		if (first && IsIdentifierStart(ch)) || (!first && IsIdentifierPart(ch)) {
			sb.WriteRune(ch)
			l.readChar()
			continue
		}
		return sb.String(), escaped
	}
}

// readUnicodeEscape reads \uXXXX or \u{X...} and returns the character.
func (l *Lexer) readUnicodeEscape() rune {
	pos := l.ScanPosition()
	l.readChar() // '\'
	if l.PeekChar(0) != 'u' {
		l.Errorf(pos, "Invalid Unicode escape sequence")
	}
	l.readChar()
	r, n := DecodeUnicodeEscape(l.src[l.pos:])
	if n == 0 {
		l.Errorf(pos, "Invalid Unicode escape sequence")
	}
	l.pos += n
	l.column += n
	return r
}

// DecodeUnicodeEscape decodes the part of a \u escape that follows the "u":
// four hex digits or a braced code point. It returns the character and the
// number of characters used, or 0 when the sequence is malformed.
func DecodeUnicodeEscape(s []rune) (rune, int) {
	if len(s) > 0 && s[0] == '{' {
		var r rune
		i := 1
		for ; i < len(s) && s[i] != '}'; i++ {
			v := HexValue(s[i])
			if v < 0 {
				return 0, 0
			}
			r = r*16 + rune(v)
			if r > 0x10FFFF {
				return 0, 0
			}
		}
		if i == 1 || i >= len(s) {
			return 0, 0
		}
		return r, i + 1
	}
	if len(s) < 4 {
		return 0, 0
	}
	var r rune
	for i := 0; i < 4; i++ {
		v := HexValue(s[i])
		if v < 0 {
			return 0, 0
		}
		r = r*16 + rune(v)
	}
	return r, 4
}

// --- Strings ---

// scanString reads a quoted string literal. The token value is the raw text
// including quotes; escapes are validated by the parser.
func (l *Lexer) scanString() *Token {
	quote := l.PeekChar(0)
	if quote != '"' && quote != '\'' {
		return nil
	}
	start := l.ScanPosition()
	l.readChar()
	for {
		ch := l.PeekChar(0)
		switch {
		case ch == quote:
			l.readChar()
			return l.makeToken(String, start)
		case ch == eof || ch == '\n' || ch == '\r':
			l.Errorf(start, "Unterminated string")
		case (ch == ls || ch == ps) && !l.features.ParagraphLineSeparatorInStrings:
			l.Errorf(l.ScanPosition(), "Unterminated string")
		case ch == '\\':
			l.readChar()
			if l.PeekChar(0) == eof {
				l.Errorf(start, "Unterminated string")
			}
			l.readChar()
		default:
			l.readChar()
		}
	}
}

// --- Regular expressions ---

// scanRegexp reads a regular expression literal starting at the "/" under
// the scan position, flags included.
func (l *Lexer) scanRegexp(start source.Position) *Token {
	l.readChar() // '/'
	inClass := false
body:
	for {
		ch := l.PeekChar(0)
		switch {
		case ch == eof || IsLineTerminator(ch):
			l.Errorf(start, "Unterminated regular expression")
		case ch == '\\':
			l.readChar()
			if next := l.PeekChar(0); next == eof || IsLineTerminator(next) {
				l.Errorf(start, "Unterminated regular expression")
			}
		case ch == '[':
			inClass = true
		case ch == ']':
			inClass = false
		case ch == '/' && !inClass:
			l.readChar()
			break body
		}
		l.readChar()
	}
	for IsIdentifierPart(l.PeekChar(0)) {
		l.readChar()
	}
	return l.makeToken(RegularExpression, start)
}
