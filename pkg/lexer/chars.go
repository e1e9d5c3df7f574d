package lexer

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

var (
	idStart    = rangetable.Merge(unicode.L, unicode.Nl, unicode.Other_ID_Start)
	idContinue = rangetable.Merge(idStart, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
)

const (
	zwnj = '\u200c'
	zwj  = '\u200d'
	ls   = '\u2028'
	ps   = '\u2029'
)

// lineTerminators is shared by every lexer; "\r\n" counts as one terminator.
var lineTerminators = NewLSM([]string{"\n", "\r", "\r\n", string(ls), string(ps)}, true)

// IsIdentifierStart reports whether ch can start an identifier.
func IsIdentifierStart(ch rune) bool {
	if ch < 0x80 {
		return isLetter(ch) || ch == '$' || ch == '_'
	}
	return unicode.Is(idStart, ch)
}

// IsIdentifierPart reports whether ch can continue an identifier.
func IsIdentifierPart(ch rune) bool {
	if ch < 0x80 {
		return isLetter(ch) || isDigit(ch) || ch == '$' || ch == '_'
	}
	return ch == zwnj || ch == zwj || unicode.Is(idContinue, ch)
}

// IsLineTerminator reports whether ch is LF, CR, LS or PS.
func IsLineTerminator(ch rune) bool {
	return ch == '\n' || ch == '\r' || ch == ls || ch == ps
}

// IsWhitespace reports whether ch is a whitespace character other than a
// line terminator.
func IsWhitespace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\v', '\f', '\u00a0', '\ufeff':
		return true
	}
	return ch >= 0x80 && unicode.Is(unicode.Zs, ch)
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isOctalDigit(ch rune) bool {
	return '0' <= ch && ch <= '7'
}

func isBinaryDigit(ch rune) bool {
	return ch == '0' || ch == '1'
}

// isDigitForBase checks if a character is a valid digit for the given base.
func isDigitForBase(ch rune, base int) bool {
	switch base {
	case 2:
		return isBinaryDigit(ch)
	case 8:
		return isOctalDigit(ch)
	case 10:
		return isDigit(ch)
	case 16:
		return isHexDigit(ch)
	default:
		return false
	}
}

// HexValue returns the value of a hexadecimal digit, or -1.
func HexValue(ch rune) int {
	switch {
	case isDigit(ch):
		return int(ch - '0')
	case 'a' <= ch && ch <= 'f':
		return int(ch-'a') + 10
	case 'A' <= ch && ch <= 'F':
		return int(ch-'A') + 10
	}
	return -1
}
