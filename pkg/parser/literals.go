package parser

import (
	"math/big"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/dlclark/regexp2"

	"esparse/pkg/ast"
	"esparse/pkg/lexer"
)

// --- Identifiers ---

type identMode int

const (
	identReference identMode = iota
	identBinding
	identLabel
)

// parseIdentifier parses an identifier used as a reference, a binding or a
// label. It returns nil without consuming anything when the current token
// cannot be one in the current context. A reserved word written with
// escapes is an error.
func (p *Parser) parseIdentifier(mode identMode) *ast.Identifier {
	tok := p.l.Token()
	if tok == nil || (tok.Type != lexer.Identifier && tok.Type != lexer.Keyword) {
		return nil
	}
	name := tok.Name()
	strict := p.l.IsStrictMode()
	reserved := false
	switch {
	case lexer.IsKeyword(name):
		reserved = true
	case name == "yield":
		reserved = p.ctx.allowYield || strict
	case name == "await":
		reserved = p.ctx.allowAwait || p.module
	case strict && lexer.IsStrictKeyword(name):
		reserved = true
	case lexer.IsReservedWord(name, strict, p.module):
		reserved = true
	}
	if reserved {
		if tok.Escaped() {
			p.error(tok.Start(), "Keyword must not contain escaped characters")
		}
		return nil
	}
	if mode == identBinding && strict && (name == "eval" || name == "arguments") {
		p.error(tok.Start(), "Unexpected eval or arguments in strict mode")
	}
	p.l.Consume()
	return p.identifierFromToken(tok)
}

// parseIdentifierName parses any word, reserved or not, as used after "."
// and in property keys.
func (p *Parser) parseIdentifierName() *ast.Identifier {
	tok := p.l.Token()
	if tok == nil {
		return nil
	}
	switch tok.Type {
	case lexer.Identifier, lexer.Keyword, lexer.Boolean, lexer.Null:
		p.l.Consume()
		return p.identifierFromToken(tok)
	}
	return nil
}

func (p *Parser) parsePrivateIdentifier() ast.Node {
	tok := p.l.Consume()
	if p.classDepth == 0 {
		p.error(tok.Start(), "Private field '%s' must be declared in an enclosing class", tok.Value)
	}
	id := createNode[*ast.PrivateIdentifier](p, ast.PrivateIdentifierType, tok.Start())
	id.Name = tok.Name()
	return completeNodeAt(p, id, tok.End())
}

// --- Literals ---

func (p *Parser) parseLiteral() ast.Node {
	tok := p.l.Consume()
	start := tok.Start()
	switch tok.Type {
	case lexer.Null:
		lit := createNode[*ast.NullLiteral](p, ast.NullLiteralType, start)
		lit.Raw = tok.Value
		return completeNode(p, lit)
	case lexer.Boolean:
		lit := createNode[*ast.BooleanLiteral](p, ast.BooleanLiteralType, start)
		lit.Value, lit.Raw = tok.Value == "true", tok.Value
		return completeNode(p, lit)
	case lexer.Numeric:
		lit := createNode[*ast.NumericLiteral](p, ast.NumericLiteralType, start)
		lit.Value, lit.Raw = p.numericValue(tok), tok.Value
		return completeNode(p, lit)
	case lexer.BigInt:
		lit := createNode[*ast.BigIntLiteral](p, ast.BigIntLiteralType, start)
		lit.Value, lit.Raw = bigIntValue(tok.Value), tok.Value
		return completeNode(p, lit)
	case lexer.String:
		lit := createNode[*ast.StringLiteral](p, ast.StringLiteralType, start)
		lit.Value, lit.Raw = p.stringValue(tok), tok.Value
		return completeNode(p, lit)
	}
	p.error(start, "Unexpected token %s", tok.Value)
	return nil
}

// numericValue computes the value of a numeric token. Legacy octal literals
// and decimals with a leading zero are rejected in strict mode.
func (p *Parser) numericValue(tok *lexer.Token) float64 {
	raw := strings.ReplaceAll(tok.Value, "_", "")
	if len(raw) > 1 && raw[0] == '0' {
		switch raw[1] {
		case 'x', 'X':
			return parseRadix(raw[2:], 16)
		case 'o', 'O':
			return parseRadix(raw[2:], 8)
		case 'b', 'B':
			return parseRadix(raw[2:], 2)
		}
		if isLegacyOctal(raw) {
			if p.l.IsStrictMode() {
				p.error(tok.Start(), "Octal literals are not allowed in strict mode")
			}
			return parseRadix(raw[1:], 8)
		}
		if raw[1] >= '0' && raw[1] <= '9' && p.l.IsStrictMode() {
			p.error(tok.Start(), "Decimals with leading zeros are not allowed in strict mode")
		}
	}
	// Out of range values round to infinity, like the language does
	v, _ := strconv.ParseFloat(raw, 64)
	return v
}

func isLegacyOctal(raw string) bool {
	for _, c := range raw[1:] {
		if c < '0' || c > '7' {
			return false
		}
	}
	return true
}

func parseRadix(digits string, base int) float64 {
	i, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return 0
	}
	f, _ := new(big.Float).SetInt(i).Float64()
	return f
}

// bigIntValue returns the decimal digits of a bigint literal.
func bigIntValue(raw string) string {
	i, ok := new(big.Int).SetString(strings.TrimSuffix(raw, "n"), 0)
	if !ok {
		return strings.TrimSuffix(raw, "n")
	}
	return i.String()
}

func (p *Parser) stringValue(tok *lexer.Token) string {
	chars := []rune(tok.Value)
	value, legacy, bad := decodeEscapes(chars[1:len(chars)-1], stringEscapes)
	if bad != nil {
		p.error(tok.Start(), "Invalid escape sequence: %s", bad.msg)
	}
	if legacy && p.l.IsStrictMode() {
		p.error(tok.Start(), "Octal escape sequences are not allowed in strict mode")
	}
	return value
}

// --- Escape sequences ---

type escapeMode int

const (
	stringEscapes escapeMode = iota
	templateEscapes
)

type escapeError struct {
	offset int
	msg    string
}

// decodeEscapes cooks the body of a string or template literal. It reports
// whether a legacy octal escape (or \8, \9) was used, and the first invalid
// escape. In templates every legacy escape is invalid.
func decodeEscapes(body []rune, mode escapeMode) (string, bool, *escapeError) {
	var sb strings.Builder
	legacy := false
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' {
			sb.WriteRune(ch)
			continue
		}
		at := i
		i++
		if i >= len(body) {
			return sb.String(), legacy, &escapeError{at, "unterminated escape"}
		}
		ch = body[i]
		switch ch {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case '\n', '\u2028', '\u2029':
		case 'x':
			if i+2 >= len(body) || lexer.HexValue(body[i+1]) < 0 || lexer.HexValue(body[i+2]) < 0 {
				return sb.String(), legacy, &escapeError{at, "malformed hexadecimal escape"}
			}
			sb.WriteRune(rune(lexer.HexValue(body[i+1])*16 + lexer.HexValue(body[i+2])))
			i += 2
		case 'u':
			r, n := lexer.DecodeUnicodeEscape(body[i+1:])
			if n == 0 {
				return sb.String(), legacy, &escapeError{at, "malformed Unicode character escape"}
			}
			i += n
			if utf16.IsSurrogate(r) && r < 0xDC00 && i+2 < len(body) && body[i+1] == '\\' && body[i+2] == 'u' {
				if lo, m := lexer.DecodeUnicodeEscape(body[i+3:]); m > 0 && lo >= 0xDC00 && lo <= 0xDFFF {
					r = utf16.DecodeRune(r, lo)
					i += 2 + m
				}
			}
			sb.WriteRune(r)
		case '0', '1', '2', '3', '4', '5', '6', '7':
			if ch == '0' && (i+1 >= len(body) || body[i+1] < '0' || body[i+1] > '9') {
				sb.WriteByte(0)
				continue
			}
			if mode == templateEscapes {
				return sb.String(), legacy, &escapeError{at, "octal escape sequences are not allowed in templates"}
			}
			legacy = true
			// Up to three digits, the value stays below 256
			v := int(ch - '0')
			limit := 2
			if ch <= '3' {
				limit = 3
			}
			for n := 1; n < limit && i+1 < len(body) && body[i+1] >= '0' && body[i+1] <= '7'; n++ {
				i++
				v = v*8 + int(body[i]-'0')
			}
			sb.WriteRune(rune(v))
		case '8', '9':
			if mode == templateEscapes {
				return sb.String(), legacy, &escapeError{at, "\\8 and \\9 are not allowed in templates"}
			}
			legacy = true
			sb.WriteRune(ch)
		default:
			sb.WriteRune(ch)
		}
	}
	return sb.String(), legacy, nil
}

// hasLegacyOctalEscape reports whether a raw string literal contains a
// legacy octal escape or \8, \9.
func hasLegacyOctalEscape(raw []rune) bool {
	for i := 0; i+1 < len(raw); i++ {
		if raw[i] != '\\' {
			continue
		}
		next := raw[i+1]
		switch {
		case next == '0':
			if i+2 < len(raw) && raw[i+2] >= '0' && raw[i+2] <= '9' {
				return true
			}
		case next >= '1' && next <= '9':
			return true
		}
		i++
	}
	return false
}

// normalizeLineEndings replaces CRLF and CR with LF, as required for the raw
// value of template elements.
func normalizeLineEndings(chars []rune) []rune {
	out := make([]rune, 0, len(chars))
	for i := 0; i < len(chars); i++ {
		if chars[i] == '\r' {
			if i+1 < len(chars) && chars[i+1] == '\n' {
				i++
			}
			out = append(out, '\n')
			continue
		}
		out = append(out, chars[i])
	}
	return out
}

// --- Regular expressions ---

const regExpFlags = "dgimsuy"

func (p *Parser) parseRegExpLiteral() ast.Node {
	tok := p.l.ReconsumeCurrentTokenAsRegexp()
	if tok == nil {
		p.unexpected()
	}
	p.l.Consume()
	slash := strings.LastIndexByte(tok.Value, '/')
	pattern, flags := tok.Value[1:slash], tok.Value[slash+1:]
	for i, f := range flags {
		if !strings.ContainsRune(regExpFlags, f) || strings.ContainsRune(flags[:i], f) {
			p.error(tok.Start(), "Invalid regular expression flags")
		}
	}
	if p.opts.ValidateRegExp {
		p.validateRegExp(tok, pattern, flags)
	}
	lit := createNode[*ast.RegExpLiteral](p, ast.RegExpLiteralType, tok.Start())
	lit.Pattern, lit.Flags, lit.Raw = pattern, flags, tok.Value
	return completeNode(p, lit)
}

// validateRegExp compiles the pattern with an ECMAScript compatible engine.
// Patterns with the u flag use syntax the engine does not know and are not
// checked.
func (p *Parser) validateRegExp(tok *lexer.Token, pattern, flags string) {
	if strings.ContainsRune(flags, 'u') {
		return
	}
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	if strings.ContainsRune(flags, 'i') {
		opts |= regexp2.IgnoreCase
	}
	if strings.ContainsRune(flags, 'm') {
		opts |= regexp2.Multiline
	}
	if _, err := regexp2.Compile(pattern, opts); err != nil {
		p.error(tok.Start(), "Invalid regular expression: /%s/: %v", pattern, err)
	}
}
