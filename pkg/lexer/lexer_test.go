package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esparse/pkg/events"
	"esparse/pkg/features"
)

type tok struct {
	typ   TokenType
	value string
}

func latest() Options {
	return Options{Features: features.Latest()}
}

func scanAll(t *testing.T, src string, opts Options) []*Token {
	t.Helper()
	toks, err := NewLexer(src, opts).All()
	require.NoError(t, err, "source: %s", src)
	return toks
}

func simplify(toks []*Token) []tok {
	out := make([]tok, len(toks))
	for i, t := range toks {
		out[i] = tok{t.Type, t.Value}
	}
	return out
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected []tok
	}{
		{"let five = 5;", []tok{{Identifier, "let"}, {Identifier, "five"}, {Punctuator, "="}, {Numeric, "5"}, {Punctuator, ";"}}},
		{"if (a) return null", []tok{{Keyword, "if"}, {Punctuator, "("}, {Identifier, "a"}, {Punctuator, ")"}, {Keyword, "return"}, {Null, "null"}}},
		{"true false", []tok{{Boolean, "true"}, {Boolean, "false"}}},
		{"a >>>= b", []tok{{Identifier, "a"}, {Punctuator, ">>>="}, {Identifier, "b"}}},
		{"a ?? b ?. c", []tok{{Identifier, "a"}, {Punctuator, "??"}, {Identifier, "b"}, {Punctuator, "?."}, {Identifier, "c"}}},
		{"a?.5:1", []tok{{Identifier, "a"}, {Punctuator, "?"}, {Numeric, ".5"}, {Punctuator, ":"}, {Numeric, "1"}}},
		{"x => x ** 2", []tok{{Identifier, "x"}, {Punctuator, "=>"}, {Identifier, "x"}, {Punctuator, "**"}, {Numeric, "2"}}},
		{"...rest", []tok{{Punctuator, "..."}, {Identifier, "rest"}}},
		{`"foo" 'bar\'s'`, []tok{{String, `"foo"`}, {String, `'bar\'s'`}}},
		{"#priv", []tok{{PrivateIdentifier, "#priv"}}},
		{"$_ été λ", []tok{{Identifier, "$_"}, {Identifier, "été"}, {Identifier, "λ"}}},
		{"a / b /= c", []tok{{Identifier, "a"}, {Punctuator, "/"}, {Identifier, "b"}, {Punctuator, "/="}, {Identifier, "c"}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, simplify(scanAll(t, tt.input, latest())))
		})
	}
}

func TestScanNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected []tok
	}{
		{"0x1F", []tok{{Numeric, "0x1F"}}},
		{".5", []tok{{Numeric, ".5"}}},
		{"0b1010 0o17 0O7", []tok{{Numeric, "0b1010"}, {Numeric, "0o17"}, {Numeric, "0O7"}}},
		{"1.5e+10 2E-3 3.", []tok{{Numeric, "1.5e+10"}, {Numeric, "2E-3"}, {Numeric, "3."}}},
		{"012 089 08.5", []tok{{Numeric, "012"}, {Numeric, "089"}, {Numeric, "08.5"}}},
		{"10n 0xFFn", []tok{{BigInt, "10n"}, {BigInt, "0xFFn"}}},
		{"1_000_000 0x_1", nil},
		{"1..toString", []tok{{Numeric, "1."}, {Punctuator, "."}, {Identifier, "toString"}}},
		{". a", []tok{{Punctuator, "."}, {Identifier, "a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if tt.expected == nil {
				_, err := NewLexer(tt.input, latest()).All()
				assert.Error(t, err)
				return
			}
			assert.Equal(t, tt.expected, simplify(scanAll(t, tt.input, latest())))
		})
	}
}

func TestNumericSeparators(t *testing.T) {
	// Without the feature "_" glues an identifier to the number
	_, err := NewLexer("1_000", Options{Features: features.ES2020()}).All()
	assert.Error(t, err)

	toks := scanAll(t, "1_000.0_1e1_0 0b1_0", latest())
	assert.Equal(t, []tok{{Numeric, "1_000.0_1e1_0"}, {Numeric, "0b1_0"}}, simplify(toks))

	for _, bad := range []string{"1__0", "1_", "0_1", "1_.5", "1._5", "01_2", "1e_1"} {
		_, err := NewLexer(bad, latest()).All()
		assert.Error(t, err, bad)
	}
}

func TestInvalidNumbers(t *testing.T) {
	for _, bad := range []string{"3in x", "0x", "0b2", "1e", "1.5n", "0xg"} {
		_, err := NewLexer(bad, latest()).All()
		assert.Error(t, err, bad)
	}
	// Without BigInt the suffix is an identifier glued to the number
	_, err := NewLexer("10n", Options{}).All()
	assert.Error(t, err)
}

func TestFeatureGatedPunctuators(t *testing.T) {
	toks := scanAll(t, "a ** b ?? c &&= d", Options{})
	assert.Equal(t, []tok{
		{Identifier, "a"}, {Punctuator, "*"}, {Punctuator, "*"}, {Identifier, "b"},
		{Punctuator, "?"}, {Punctuator, "?"}, {Identifier, "c"},
		{Punctuator, "&&"}, {Punctuator, "="}, {Identifier, "d"},
	}, simplify(toks))

	toks = scanAll(t, "a?.b", Options{})
	assert.Equal(t, []tok{{Identifier, "a"}, {Punctuator, "?"}, {Punctuator, "."}, {Identifier, "b"}}, simplify(toks))

	_, err := NewLexer("#x", Options{}).All()
	assert.Error(t, err)
}

func TestTemplates(t *testing.T) {
	toks := scanAll(t, "`a${b}c${ {d} }e` `plain`", latest())
	assert.Equal(t, []tok{
		{Template, "`a${"}, {Identifier, "b"}, {Template, "}c${"},
		{Punctuator, "{"}, {Identifier, "d"}, {Punctuator, "}"},
		{Template, "}e`"}, {Template, "`plain`"},
	}, simplify(toks))

	toks = scanAll(t, "`${`${a}`}`", latest())
	assert.Equal(t, []tok{
		{Template, "`${"}, {Template, "`${"}, {Identifier, "a"}, {Template, "}`"}, {Template, "}`"},
	}, simplify(toks))

	for _, bad := range []string{"`abc", "`${a", "`${a}"} {
		_, err := NewLexer(bad, latest()).All()
		assert.Error(t, err, bad)
	}
}

func TestStrings(t *testing.T) {
	for _, bad := range []string{`"abc`, "'a\nb'", `"\`} {
		_, err := NewLexer(bad, latest()).All()
		assert.Error(t, err, bad)
	}

	// Line continuations are part of the string and advance the line count
	toks := scanAll(t, "'a\\\nb' c", latest())
	require.Len(t, toks, 2)
	assert.Equal(t, 2, toks[1].Location.Start.Line)

	src := "'a\u2028b'"
	_, err := NewLexer(src, Options{Features: features.ES2018()}).All()
	assert.Error(t, err)
	toks = scanAll(t, src, Options{Features: features.ES2019()})
	assert.Equal(t, String, toks[0].Type)
}

func TestStrictKeywords(t *testing.T) {
	toks := scanAll(t, "let yield static", Options{})
	for _, tk := range toks {
		assert.Equal(t, Identifier, tk.Type, tk.Value)
	}
	toks = scanAll(t, "let yield static", Options{Strict: true})
	for _, tk := range toks {
		assert.Equal(t, Keyword, tk.Type, tk.Value)
	}

	l := NewLexer("let x", Options{})
	require.Equal(t, Identifier, l.Token().Type)
	l.SetStrictMode(true)
	assert.Equal(t, Keyword, l.Token().Type)
	l.SetStrictMode(false)
	assert.Equal(t, Identifier, l.Token().Type)
}

func TestAwaitKeyword(t *testing.T) {
	assert.Equal(t, Identifier, scanAll(t, "await", Options{})[0].Type)
	assert.Equal(t, Keyword, scanAll(t, "await", Options{Module: true})[0].Type)
}

func TestIdentifierEscapes(t *testing.T) {
	toks := scanAll(t, `ab a\u{62}c \u0069f`, latest())
	require.Len(t, toks, 3)
	assert.Equal(t, "ab", toks[0].Name())
	assert.Equal(t, `ab`, toks[0].Value)
	assert.Equal(t, "abc", toks[1].Name())
	assert.True(t, toks[1].Escaped())
	// Escaped keywords stay identifiers
	assert.Equal(t, Identifier, toks[2].Type)
	assert.Equal(t, "if", toks[2].Name())

	for _, bad := range []string{`1a`, `a\u0020`, `\x41`, `\u{110000}`, `\u12`} {
		_, err := NewLexer(bad, latest()).All()
		assert.Error(t, err, bad)
	}
}

func TestComments(t *testing.T) {
	toks := scanAll(t, "/* a */ x // b\n/* c\n */ y // end", latest())
	require.Len(t, toks, 2)

	require.Len(t, toks[0].Comments(), 1)
	assert.Equal(t, "/* a */", toks[0].Comments()[0].Value)
	assert.False(t, toks[0].NewlineBefore())

	require.Len(t, toks[1].Comments(), 2)
	assert.Equal(t, "// b", toks[1].Comments()[0].Value)
	assert.Equal(t, "/* c\n */", toks[1].Comments()[1].Value)
	assert.True(t, toks[1].NewlineBefore())

	_, err := NewLexer("/* open", latest()).All()
	assert.Error(t, err)
}

func TestHTMLComments(t *testing.T) {
	toks := scanAll(t, "a <!-- b\n--> c\nd", Options{})
	assert.Equal(t, []tok{{Identifier, "a"}, {Identifier, "d"}}, simplify(toks))
	assert.Equal(t, "<!-- b", toks[1].Comments()[0].Value)
	assert.Equal(t, "--> c", toks[1].Comments()[1].Value)

	// Not at the start of a line: a decrement followed by ">"
	toks = scanAll(t, "a --> b", Options{})
	assert.Equal(t, []tok{{Identifier, "a"}, {Punctuator, "--"}, {Punctuator, ">"}, {Identifier, "b"}}, simplify(toks))

	// Modules have no HTML comments
	toks = scanAll(t, "a <!-- b", Options{Module: true})
	assert.Equal(t, "<", toks[1].Value)
}

func TestLineTerminatorsAndPositions(t *testing.T) {
	toks := scanAll(t, "a\r\nb\rc\u2028d\ne", latest())
	require.Len(t, toks, 5)
	for i, tk := range toks {
		assert.Equal(t, i+1, tk.Location.Start.Line, tk.Value)
		assert.Equal(t, 0, tk.Location.Start.Column, tk.Value)
	}
	assert.Equal(t, 3, toks[1].Location.Start.Index)

	toks = scanAll(t, "\u00e9\u00e9 = 1", latest())
	// Indexes count characters, not bytes
	assert.Equal(t, 2, toks[0].Location.End.Index)
	assert.Equal(t, 3, toks[1].Location.Start.Index)
}

func TestUnclosedBrackets(t *testing.T) {
	for _, bad := range []string{"(a", "[", "{ x", "a @ b"} {
		_, err := NewLexer(bad, latest()).All()
		assert.Error(t, err, bad)
	}
}

func TestReconsumeAsRegexp(t *testing.T) {
	l := NewLexer("/[/]+(a)/gi.test(x)", latest())
	require.True(t, l.IsAfterSlash())
	re := l.ReconsumeCurrentTokenAsRegexp()
	require.NotNil(t, re)
	assert.Equal(t, RegularExpression, re.Type)
	assert.Equal(t, "/[/]+(a)/gi", re.Value)
	assert.Equal(t, 11, re.Location.End.Index)
	l.Consume()
	assert.Equal(t, ".", l.Token().Value)

	// A lookahead that cannot be scanned after a slash is not fatal
	l = NewLexer("/'/", latest())
	require.True(t, l.IsAfterSlash())
	assert.Nil(t, l.NextToken())
	re = l.ReconsumeCurrentTokenAsRegexp()
	assert.Equal(t, "/'/", re.Value)

	// Brackets opened while scanning ahead are forgotten
	l = NewLexer("x = /(/", latest())
	l.Consume()
	l.Consume()
	assert.Equal(t, "(", l.NextToken().Value)
	re = l.ReconsumeCurrentTokenAsRegexp()
	assert.Equal(t, "/(/", re.Value)
	l.Consume()
	assert.Nil(t, l.Token())

	for _, bad := range []string{"/abc", "/a\n/", "/[/"} {
		l := NewLexer(bad, latest())
		_, err := func() (tok *Token, err error) {
			defer recoverInto(&err)
			return l.ReconsumeCurrentTokenAsRegexp(), nil
		}()
		assert.Error(t, err, bad)
	}
}

func TestStateRestore(t *testing.T) {
	src := "a + `x${b}y` / c /* z */ d"
	straight := scanAll(t, src, latest())

	l := NewLexer(src, latest())
	l.Consume()
	state := l.GetState()
	for l.Token() != nil {
		l.Consume()
	}
	l.SetState(state)

	rest, err := l.All()
	require.NoError(t, err)
	assert.Equal(t, straight[1:], rest)
}

func TestStateEvents(t *testing.T) {
	em := events.NewEmitter()
	var consumed []string
	em.On(events.TokenConsumed, func(p any) {
		c := p.(*Consumed)
		if c.Token != nil {
			consumed = append(consumed, c.Token.Value)
		}
	})
	em.On(events.FreezeState, func(p any) {
		p.(*events.Snapshot).Save("consumed", len(consumed))
	})
	em.On(events.ResetState, func(p any) {
		n, _ := p.(*events.Snapshot).Load("consumed")
		consumed = consumed[:n.(int)]
	})

	l := NewLexer("a b c", Options{Events: em})
	l.Consume()
	s := l.GetState()
	l.Consume()
	l.Consume()
	assert.Equal(t, []string{"a", "b", "c"}, consumed)
	l.SetState(s)
	assert.Equal(t, []string{"a"}, consumed)
	assert.Equal(t, "b", l.Token().Value)
}

func TestDeterminism(t *testing.T) {
	src := "function f(a, b = `t${a}`) { return a ?? b?.c ** 2 } // done"
	first := scanAll(t, src, latest())
	second := scanAll(t, src, latest())
	assert.Equal(t, first, second)
}

func TestEOFComments(t *testing.T) {
	l := NewLexer("a // tail", latest())
	l.Consume()
	assert.Nil(t, l.Token())
	require.Len(t, l.EOFComments(), 1)
	assert.Equal(t, "// tail", l.EOFComments()[0].Value)
	assert.Equal(t, 9, l.CurrentPosition().Index)
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = r.(error)
	}
}
