package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"esparse/pkg/ast"
	"esparse/pkg/errors"
	"esparse/pkg/features"
	"esparse/pkg/lexer"
)

func scriptOpts() *Options {
	return DefaultOptions()
}

func moduleOpts() *Options {
	opts := DefaultOptions()
	opts.SourceType = Module
	return opts
}

func parseOK(t *testing.T, src string, opts *Options) *ast.Program {
	t.Helper()
	prog, err := Parse(src, opts)
	require.NoError(t, err, "source: %s", src)
	require.NotNil(t, prog)
	return prog
}

func parseFail(t *testing.T, src string, opts *Options) *errors.SyntaxError {
	t.Helper()
	_, err := Parse(src, opts)
	require.Error(t, err, "source: %s", src)
	var syntaxErr *errors.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	return syntaxErr
}

// expr returns the expression of the first statement.
func expr(t *testing.T, prog *ast.Program) ast.Node {
	t.Helper()
	require.NotEmpty(t, prog.Body)
	stmt, ok := prog.Body[0].(*ast.ExpressionStatement)
	require.True(t, ok, "first statement is %T", prog.Body[0])
	return stmt.Expression
}

func TestExponentiationIsRightAssociative(t *testing.T) {
	prog := parseOK(t, "2 ** 3 ** 2;", scriptOpts())
	outer, ok := expr(t, prog).(*ast.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, "**", outer.Operator)
	assert.IsType(t, &ast.NumericLiteral{}, outer.Left)
	inner, ok := outer.Right.(*ast.BinaryExpression)
	require.True(t, ok, "right operand should be a BinaryExpression")
	assert.Equal(t, 3.0, inner.Left.(*ast.NumericLiteral).Value)
	assert.Equal(t, 2.0, inner.Right.(*ast.NumericLiteral).Value)
}

func TestBinaryPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a + b * c;", "(a + (b * c))"},
		{"a * b + c;", "((a * b) + c)"},
		{"a - b - c;", "((a - b) - c)"},
		{"a || b && c;", "(a || (b && c))"},
		{"a | b ^ c & d;", "(a | (b ^ (c & d)))"},
		{"a == b < c;", "(a == (b < c))"},
		{"a << b + c;", "(a << (b + c))"},
		{"a ?? b ?? c;", "((a ?? b) ?? c)"},
		{"a instanceof b in c;", "((a instanceof b) in c)"},
		{"-a * b;", "((-a) * b)"},
		{"(-a) ** b;", "((-a) ** b)"},
		{"a ** -b;", "(a ** (-b))"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := parseOK(t, tt.input, scriptOpts())
			assert.Equal(t, tt.expected, render(expr(t, prog)))
		})
	}
}

// render prints operators fully parenthesized.
func render(n ast.Node) string {
	switch e := n.(type) {
	case *ast.Identifier:
		return e.Name
	case *ast.NumericLiteral:
		return e.Raw
	case *ast.BinaryExpression:
		return "(" + render(e.Left) + " " + e.Operator + " " + render(e.Right) + ")"
	case *ast.LogicalExpression:
		return "(" + render(e.Left) + " " + e.Operator + " " + render(e.Right) + ")"
	case *ast.UnaryExpression:
		return "(" + e.Operator + render(e.Argument) + ")"
	case *ast.ParenthesizedExpression:
		return render(e.Expression)
	}
	return "?"
}

func TestBinaryErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"a ?? b || c;", "cannot be mixed"},
		{"a && b ?? c;", "cannot be mixed"},
		{"-a ** b;", "Unary operator used immediately before exponentiation"},
		{"async function f() { await a ** b; }", "Unary operator used immediately before exponentiation"},
		{"a +;", "Unexpected token ;"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := parseFail(t, tt.input, scriptOpts())
			assert.Contains(t, err.Msg, tt.msg)
		})
	}
}

func TestStrictModeOctal(t *testing.T) {
	err := parseFail(t, `"use strict"; 012;`, scriptOpts())
	assert.Contains(t, err.Msg, "Octal literals")

	prog := parseOK(t, "012;", scriptOpts())
	assert.Equal(t, 10.0, expr(t, prog).(*ast.NumericLiteral).Value)

	err = parseFail(t, `function f() { "use strict"; return 07; }`, scriptOpts())
	assert.Contains(t, err.Msg, "Octal literals")

	err = parseFail(t, `"\01"; "use strict";`, scriptOpts())
	assert.Contains(t, err.Msg, "Octal escape sequences")

	err = parseFail(t, "08;", moduleOpts())
	assert.Contains(t, err.Msg, "leading zeros")
}

func TestDirectives(t *testing.T) {
	prog := parseOK(t, `"use strict"; 'other'; ("not a directive");`, scriptOpts())
	require.Len(t, prog.Body, 3)
	assert.Equal(t, "use strict", prog.Body[0].(*ast.ExpressionStatement).Directive)
	assert.Equal(t, "other", prog.Body[1].(*ast.ExpressionStatement).Directive)
	assert.Empty(t, prog.Body[2].(*ast.ExpressionStatement).Directive)

	parseOK(t, `function f(a, b) { "use strict"; }`, scriptOpts())
	for _, params := range []string{"a = 1", "...a", "[a]", "{a}"} {
		err := parseFail(t, "function f("+params+") { \"use strict\"; }", scriptOpts())
		assert.Contains(t, err.Msg, "non-simple parameter list", params)
	}
	parseFail(t, `"use strict"; with (a) {}`, scriptOpts())
	parseFail(t, `"use strict"; delete a;`, scriptOpts())
	parseFail(t, `"use strict"; var eval;`, scriptOpts())
	parseOK(t, `with (a) {} delete a; var eval;`, scriptOpts())
}

func TestOptionalChains(t *testing.T) {
	prog := parseOK(t, "new (a?.b)();", scriptOpts())
	newExpr, ok := expr(t, prog).(*ast.NewExpression)
	require.True(t, ok)
	paren, ok := newExpr.Callee.(*ast.ParenthesizedExpression)
	require.True(t, ok)
	assert.IsType(t, &ast.ChainExpression{}, paren.Expression)

	prog = parseOK(t, "a?.b.c(d)?.[e];", scriptOpts())
	chain, ok := expr(t, prog).(*ast.ChainExpression)
	require.True(t, ok)
	member := chain.Expression.(*ast.MemberExpression)
	assert.True(t, member.Optional)
	assert.True(t, member.Computed)

	tests := []struct {
		input string
		msg   string
	}{
		{"a?.b()++;", "Invalid left-hand side in postfix operation"},
		{"++a?.b;", "Invalid left-hand side in prefix operation"},
		{"a?.b = 1;", "Invalid left-hand side in assignment"},
		{"a?.b += 1;", "Invalid left-hand side in assignment"},
		{"new a?.b();", "Invalid optional chain from new expression"},
		{"a?.b`x`;", "Invalid tagged template on optional chain"},
		{"a?.`x`;", "Invalid tagged template on optional chain"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := parseFail(t, tt.input, scriptOpts())
			assert.Contains(t, err.Msg, tt.msg)
		})
	}
}

func TestNewMatchesArgumentLists(t *testing.T) {
	prog := parseOK(t, "new new a()();", scriptOpts())
	outer := expr(t, prog).(*ast.NewExpression)
	inner, ok := outer.Callee.(*ast.NewExpression)
	require.True(t, ok)
	assert.Equal(t, "a", inner.Callee.(*ast.Identifier).Name)
	assert.Empty(t, outer.Arguments)

	prog = parseOK(t, "new a;", scriptOpts())
	assert.Empty(t, expr(t, prog).(*ast.NewExpression).Arguments)

	prog = parseOK(t, "new a.b(1).c;", scriptOpts())
	member := expr(t, prog).(*ast.MemberExpression)
	created := member.Object.(*ast.NewExpression)
	assert.IsType(t, &ast.MemberExpression{}, created.Callee)
	assert.Len(t, created.Arguments, 1)

	prog = parseOK(t, "new new a;", scriptOpts())
	assert.IsType(t, &ast.NewExpression{}, expr(t, prog).(*ast.NewExpression).Callee)

	prog = parseOK(t, "function f() { return new.target; }", scriptOpts())
	ret := prog.Body[0].(*ast.FunctionDeclaration).Body.Body[0].(*ast.ReturnStatement)
	meta := ret.Argument.(*ast.MetaProperty)
	assert.Equal(t, "new", meta.Meta.Name)
	assert.Equal(t, "target", meta.Property.Name)
}

func TestArrowFunctions(t *testing.T) {
	prog := parseOK(t, "x => x * 2;", scriptOpts())
	arrow := expr(t, prog).(*ast.ArrowFunctionExpression)
	assert.True(t, arrow.Expression)
	assert.Len(t, arrow.Params, 1)

	prog = parseOK(t, "(a, {b}, [c] = [], ...d) => { return a; };", scriptOpts())
	arrow = expr(t, prog).(*ast.ArrowFunctionExpression)
	assert.False(t, arrow.Expression)
	require.Len(t, arrow.Params, 4)
	assert.IsType(t, &ast.ObjectPattern{}, arrow.Params[1])
	assert.IsType(t, &ast.AssignmentPattern{}, arrow.Params[2])
	assert.IsType(t, &ast.RestElement{}, arrow.Params[3])

	prog = parseOK(t, "async (a) => await a;", scriptOpts())
	arrow = expr(t, prog).(*ast.ArrowFunctionExpression)
	assert.True(t, arrow.Async)
	assert.IsType(t, &ast.AwaitExpression{}, arrow.Body)

	prog = parseOK(t, "async x => x;", scriptOpts())
	assert.True(t, expr(t, prog).(*ast.ArrowFunctionExpression).Async)

	prog = parseOK(t, "async(a);", scriptOpts())
	assert.IsType(t, &ast.CallExpression{}, expr(t, prog))

	prog = parseOK(t, "(a, b);", scriptOpts())
	paren := expr(t, prog).(*ast.ParenthesizedExpression)
	assert.IsType(t, &ast.SequenceExpression{}, paren.Expression)

	parseFail(t, "(a, b)\n=> a;", scriptOpts())
	parseFail(t, "(a, a) => a;", scriptOpts())
	parseFail(t, "(a + b) => a;", scriptOpts())
	err := parseFail(t, "(a) => { a +; };", scriptOpts())
	assert.Contains(t, err.Msg, "Unexpected token ;")
}

func TestRewindIsLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	opts := scriptOpts()
	opts.Logger = zap.New(core)
	parseOK(t, "(a, b);", opts)

	rewinds := logs.FilterMessage("rewind").All()
	require.Len(t, rewinds, 1)
	assert.Equal(t, "arrow parameters", rewinds[0].ContextMap()["production"])
	assert.Equal(t, 1, logs.FilterMessage("parsed").Len())
}

func TestDestructuringAssignment(t *testing.T) {
	prog := parseOK(t, "({a, b: [c, ...d], e = 1} = obj);", scriptOpts())
	paren := expr(t, prog).(*ast.ParenthesizedExpression)
	assign := paren.Expression.(*ast.AssignmentExpression)
	pattern, ok := assign.Left.(*ast.ObjectPattern)
	require.True(t, ok)
	require.Len(t, pattern.Properties, 3)
	second := pattern.Properties[1].(*ast.AssignmentProperty)
	arr := second.Value.(*ast.ArrayPattern)
	assert.IsType(t, &ast.RestElement{}, arr.Elements[1])
	third := pattern.Properties[2].(*ast.AssignmentProperty)
	assert.True(t, third.Shorthand)
	assert.IsType(t, &ast.AssignmentPattern{}, third.Value)

	prog = parseOK(t, "[a, , b = 2] = c;", scriptOpts())
	arrPattern := expr(t, prog).(*ast.AssignmentExpression).Left.(*ast.ArrayPattern)
	require.Len(t, arrPattern.Elements, 3)
	assert.Nil(t, arrPattern.Elements[1])

	parseOK(t, "for ({a = 1} of list);", scriptOpts())

	err := parseFail(t, "({a = 1});", scriptOpts())
	assert.Contains(t, err.Msg, "Invalid shorthand property initializer")
	parseFail(t, "[a + b] = c;", scriptOpts())
	parseFail(t, "({a() {}} = b);", scriptOpts())
	parseFail(t, "[...a, b] = c;", scriptOpts())
	parseFail(t, "1 = a;", scriptOpts())

	// A comma after the rest element is fine in a literal only.
	parseOK(t, "x = [...a,];", scriptOpts())
	parseOK(t, "x = {...a,};", scriptOpts())
	for _, src := range []string{"[...a,] = b;", "({...a,} = b);", "[[...a,]] = b;", "for ([...a,] of b);"} {
		err = parseFail(t, src, scriptOpts())
		assert.Equal(t, "Rest element must be last element", err.Msg, src)
	}
}

func TestDeclarations(t *testing.T) {
	prog := parseOK(t, "let {a, b: [c] = []} = obj, d; const e = 1;", scriptOpts())
	decl := prog.Body[0].(*ast.VariableDeclaration)
	assert.Equal(t, "let", decl.Kind)
	require.Len(t, decl.Declarations, 2)
	assert.IsType(t, &ast.ObjectPattern{}, decl.Declarations[0].ID)

	parseFail(t, "const a;", scriptOpts())
	parseFail(t, "let [a];", scriptOpts())
	parseFail(t, "let let = 1;", scriptOpts())
	parseOK(t, "var let = 1; let;", scriptOpts())
	parseFail(t, "if (a) function f() {}", scriptOpts())
}

func TestStatements(t *testing.T) {
	sources := []string{
		"if (a) b; else c;",
		"for (var i = 0; i < 10; i++) {}",
		"for (const k in o) {}",
		"for (let v of list) {}",
		"for (;;) break;",
		"outer: for (;;) { continue outer; }",
		"while (a) a--;",
		"do a++; while (a < 10) b();",
		"switch (a) { case 1: b(); break; default: c(); }",
		"try { a(); } catch (e) { b(); } finally { c(); }",
		"try {} catch ({message}) {}",
		"throw new Error('x');",
		"debugger;",
		"a\nb",
		"var a = 1\nvar b = 2",
		"function* g() { yield; yield a; yield* b; }",
		"function* g() { function f(a = yield) {} }",
		"async function f() { for await (const x of y) {} }",
	}
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			parseOK(t, src, scriptOpts())
		})
	}

	failures := []string{
		"a b",
		"return;",
		"throw\na;",
		"switch (a) { default: default: }",
		"try {}",
		"for (let a = 1 of b);",
		"for await (const x of y);",
		`"use strict"; function* g() { function f(a = yield) {} }`,
		"function* g(a = yield) {}",
		"async function f(a = await b) {}",
	}
	for _, src := range failures {
		t.Run(src, func(t *testing.T) {
			parseFail(t, src, scriptOpts())
		})
	}
}

func TestClasses(t *testing.T) {
	src := `class A extends B {
		#x = 1;
		static y;
		static { this.z = 1; }
		constructor() { super(); }
		get x() { return this.#x; }
		set x(v) { this.#x = v; }
		static async *gen() {}
		has(o) { return #x in o; }
		#m() {}
		'quoted'() {}
		[computed] = 2
	}`
	prog := parseOK(t, src, scriptOpts())
	class := prog.Body[0].(*ast.ClassDeclaration)
	assert.Equal(t, "A", class.ID.Name)
	require.Len(t, class.Body.Body, 11)
	assert.IsType(t, &ast.PropertyDefinition{}, class.Body.Body[0])
	assert.IsType(t, &ast.StaticBlock{}, class.Body.Body[2])
	ctor := class.Body.Body[3].(*ast.MethodDefinition)
	assert.Equal(t, "constructor", ctor.Kind)
	getter := class.Body.Body[4].(*ast.MethodDefinition)
	assert.Equal(t, "get", getter.Kind)
	gen := class.Body.Body[6].(*ast.MethodDefinition)
	assert.True(t, gen.Static)
	assert.True(t, gen.Value.Async)
	assert.True(t, gen.Value.Generator)

	failures := []struct {
		input string
		msg   string
	}{
		{"class A { constructor() {} constructor() {} }", "only have one constructor"},
		{"class A { get constructor() {} }", "special method"},
		{"class A { static prototype() {} }", "prototype"},
		{"class A { constructor = 1 }", "constructor"},
		{"class A { #constructor() {} }", "#constructor"},
		{"this.#x;", "must be declared in an enclosing class"},
		{"class A { get x(a) {} }", "Getter"},
		{"class A { set x() {} }", "Setter"},
		{"class A { m() { delete this.#x; } #x; }", "Private fields can not be deleted"},
		{"class A { m() { var yield; } }", "yield"},
	}
	for _, tt := range failures {
		t.Run(tt.input, func(t *testing.T) {
			err := parseFail(t, tt.input, scriptOpts())
			assert.Contains(t, err.Msg, tt.msg)
		})
	}
}

func TestObjectLiterals(t *testing.T) {
	prog := parseOK(t, "({a, b: 1, [c]: 2, d() {}, get e() { return 1; }, set e(v) {}, async f() {}, *g() {}, ...h, 'i': 3, 4: 5});", scriptOpts())
	obj := expr(t, prog).(*ast.ParenthesizedExpression).Expression.(*ast.ObjectExpression)
	require.Len(t, obj.Properties, 11)
	assert.True(t, obj.Properties[0].(*ast.Property).Shorthand)
	assert.True(t, obj.Properties[2].(*ast.Property).Computed)
	assert.True(t, obj.Properties[3].(*ast.Property).Method)
	assert.Equal(t, "get", obj.Properties[4].(*ast.Property).Kind)
	assert.IsType(t, &ast.SpreadElement{}, obj.Properties[8])

	prog = parseOK(t, "({async, get, set});", scriptOpts())
	obj = expr(t, prog).(*ast.ParenthesizedExpression).Expression.(*ast.ObjectExpression)
	for _, prop := range obj.Properties {
		assert.True(t, prop.(*ast.Property).Shorthand)
	}

	parseFail(t, "({if});", scriptOpts())
	parseFail(t, "({a b});", scriptOpts())
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"0x1F;", 31},
		{".5;", 0.5},
		{"1_000_000;", 1000000},
		{"0b101;", 5},
		{"0o17;", 15},
		{"1e3;", 1000},
		{"5.;", 5},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := parseOK(t, tt.input, scriptOpts())
			assert.Equal(t, tt.expected, expr(t, prog).(*ast.NumericLiteral).Value)
		})
	}

	prog := parseOK(t, "0x10n;", scriptOpts())
	big := expr(t, prog).(*ast.BigIntLiteral)
	assert.Equal(t, "16", big.Value)
	assert.Equal(t, "0x10n", big.Raw)

	prog = parseOK(t, `"a\x41B\u{43}\n\
b";`, scriptOpts())
	assert.Equal(t, "aABC\nb", expr(t, prog).(*ast.StringLiteral).Value)

	prog = parseOK(t, `"😀";`, scriptOpts())
	assert.Equal(t, "\U0001F600", expr(t, prog).(*ast.StringLiteral).Value)

	prog = parseOK(t, `"\101";`, scriptOpts())
	assert.Equal(t, "A", expr(t, prog).(*ast.StringLiteral).Value)

	parseFail(t, `"\x4";`, scriptOpts())
	parseFail(t, `"\u{110000}";`, scriptOpts())
}

func TestRegularExpressions(t *testing.T) {
	prog := parseOK(t, "a = /[/]+/gi;", scriptOpts())
	re := expr(t, prog).(*ast.AssignmentExpression).Right.(*ast.RegExpLiteral)
	assert.Equal(t, "[/]+", re.Pattern)
	assert.Equal(t, "gi", re.Flags)

	prog = parseOK(t, "a / b / c;", scriptOpts())
	assert.IsType(t, &ast.BinaryExpression{}, expr(t, prog))

	err := parseFail(t, "/a/gg;", scriptOpts())
	assert.Contains(t, err.Msg, "flags")
	parseFail(t, "/a/x;", scriptOpts())

	opts := scriptOpts()
	opts.ValidateRegExp = true
	parseOK(t, "/a(b|c)*/i;", opts)
	err = parseFail(t, "/a(/;", opts)
	assert.Contains(t, err.Msg, "Invalid regular expression")
	err = parseFail(t, "x = /(/m;", opts)
	assert.Contains(t, err.Msg, "/(/")
	parseOK(t, "x = /^a$/m;", opts)

	// Bodies are only compiled on request, and never with the u flag.
	parseOK(t, "x = /(/;", scriptOpts())
	parseOK(t, "x = /(/u;", opts)
}

func TestTemplates(t *testing.T) {
	prog := parseOK(t, "`a${b}c${d}e`;", scriptOpts())
	tpl := expr(t, prog).(*ast.TemplateLiteral)
	require.Len(t, tpl.Quasis, 3)
	require.Len(t, tpl.Expressions, 2)
	assert.Equal(t, "a", tpl.Quasis[0].Value.Raw)
	assert.False(t, tpl.Quasis[0].Tail)
	assert.True(t, tpl.Quasis[2].Tail)
	assert.Equal(t, 1, tpl.Quasis[0].Loc().Start.Index)
	assert.Equal(t, 2, tpl.Quasis[0].Loc().End.Index)

	prog = parseOK(t, "`line\r\nnext`;", scriptOpts())
	quasi := expr(t, prog).(*ast.TemplateLiteral).Quasis[0]
	assert.Equal(t, "line\nnext", quasi.Value.Raw)
	require.NotNil(t, quasi.Value.Cooked)
	assert.Equal(t, "line\nnext", *quasi.Value.Cooked)

	prog = parseOK(t, "tag`\\unicode`;", scriptOpts())
	tagged := expr(t, prog).(*ast.TaggedTemplateExpression)
	assert.Nil(t, tagged.Quasi.Quasis[0].Value.Cooked)
	assert.Equal(t, `\unicode`, tagged.Quasi.Quasis[0].Value.Raw)

	parseFail(t, "`\\unicode`;", scriptOpts())
	parseFail(t, "`\\01`;", scriptOpts())
	parseOK(t, "`${`${a}`}`;", scriptOpts())
}

func TestModules(t *testing.T) {
	src := `import def, * as ns from "a";
import {b, c as d, "e f" as g} from 'b';
import "side-effect";
export const x = 1;
export function f() {}
export default class {}
export {x as y, f};
export * from "c";
export * as h from "d";
export {"i j" as k} from "e";`
	prog := parseOK(t, src, moduleOpts())
	require.Len(t, prog.Body, 10)
	assert.Equal(t, "module", prog.SourceType)

	imp := prog.Body[0].(*ast.ImportDeclaration)
	require.Len(t, imp.Specifiers, 2)
	assert.IsType(t, &ast.ImportDefaultSpecifier{}, imp.Specifiers[0])
	assert.IsType(t, &ast.ImportNamespaceSpecifier{}, imp.Specifiers[1])
	assert.Equal(t, "a", imp.Source.Value)

	named := prog.Body[1].(*ast.ImportDeclaration)
	require.Len(t, named.Specifiers, 3)
	spec := named.Specifiers[2].(*ast.ImportSpecifier)
	assert.Equal(t, "e f", spec.Imported.(*ast.StringLiteral).Value)
	assert.Equal(t, "g", spec.Local.Name)

	assert.Empty(t, prog.Body[2].(*ast.ImportDeclaration).Specifiers)
	assert.IsType(t, &ast.VariableDeclaration{}, prog.Body[3].(*ast.ExportNamedDeclaration).Declaration)
	def := prog.Body[5].(*ast.ExportDefaultDeclaration)
	assert.Nil(t, def.Declaration.(*ast.ClassDeclaration).ID)
	assert.Nil(t, prog.Body[7].(*ast.ExportAllDeclaration).Exported)
	assert.Equal(t, "h", prog.Body[8].(*ast.ExportAllDeclaration).Exported.(*ast.Identifier).Name)

	parseOK(t, "import('a'); import.meta.url;", moduleOpts())
	parseOK(t, "export default async function () {}", moduleOpts())
	parseOK(t, "export default a + b;", moduleOpts())

	failures := []string{
		"export {if};",
		`export {"a b"};`,
		"import {if} from 'a';",
		"import a from b;",
		"with (a) {}",
		"var await;",
		"<!-- html comment",
	}
	for _, src := range failures {
		t.Run(src, func(t *testing.T) {
			parseFail(t, src, moduleOpts())
		})
	}

	// Module syntax is not part of scripts
	parseFail(t, "import a from 'a';", scriptOpts())
	parseFail(t, "import.meta;", scriptOpts())
	parseOK(t, "var await; <!-- html comment", scriptOpts())
}

func TestCommentAttachment(t *testing.T) {
	opts := scriptOpts()
	opts.Comments = true
	prog := parseOK(t, "/*a*/ var x; // b", opts)
	decl := prog.Body[0].(*ast.VariableDeclaration)
	require.Len(t, decl.LeadingComments, 1)
	assert.Equal(t, "a", decl.LeadingComments[0].Text)
	assert.Equal(t, ast.MultilineComment, decl.LeadingComments[0].Kind)
	require.Len(t, decl.TrailingComments, 1)
	assert.Equal(t, " b", decl.TrailingComments[0].Text)
	assert.Equal(t, ast.InlineComment, decl.TrailingComments[0].Kind)
}

func TestCommentAttachmentPlacement(t *testing.T) {
	opts := scriptOpts()
	opts.Comments = true

	// A comment inside an empty block belongs to the block
	prog := parseOK(t, "function f() { /* empty */ }", opts)
	body := prog.Body[0].(*ast.FunctionDeclaration).Body
	require.Len(t, body.TrailingComments, 1)
	assert.Equal(t, " empty ", body.TrailingComments[0].Text)

	// Comments inside a rewound arrow attempt are attached once
	prog = parseOK(t, "(/* c */ a, b);", opts)
	var count int
	ast.Inspect(prog, func(n ast.Node) bool {
		if n != nil {
			count += len(n.NodeBase().LeadingComments) + len(n.NodeBase().TrailingComments)
		}
		return true
	})
	assert.Equal(t, 1, count)

	// A comment in an empty program falls back to the program
	prog = parseOK(t, "// only", opts)
	require.Len(t, prog.TrailingComments, 1)
	assert.Equal(t, " only", prog.TrailingComments[0].Text)

	// Without the option nothing is attached
	prog = parseOK(t, "/*a*/ var x;", scriptOpts())
	assert.Empty(t, prog.Body[0].NodeBase().LeadingComments)
}

func TestSpanCoverage(t *testing.T) {
	sources := []string{
		"",
		"  ",
		"a + b * c;",
		"function f(a, b = 1) { return a ** b; }\n",
		"class A extends B { #x = 1; static { this.#x; } get y() { return #x in this; } }",
		"let {a, b: [c] = []} = obj;",
		"x = `a${b}c`;",
		"/* lead */ foo(); // trail\n",
		"label: for (const [k, v] of map) if (k) continue label;",
	}
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			prog := parseOK(t, src, scriptOpts())
			length := len([]rune(src))
			assert.Equal(t, 0, prog.Start())
			assert.Equal(t, length, prog.End())

			var stack []ast.Node
			ast.Inspect(prog, func(n ast.Node) bool {
				if n == nil {
					stack = stack[:len(stack)-1]
					return true
				}
				if len(stack) > 0 {
					parent := stack[len(stack)-1]
					assert.True(t, parent.Loc().Contains(n.Loc()),
						"%s %s not inside %s %s", n.Type(), n.Loc(), parent.Type(), parent.Loc())
				}
				stack = append(stack, n)
				return true
			})
		})
	}
}

func TestTokenize(t *testing.T) {
	toks, err := Tokenize("a = /re/g; b = a / 2;", scriptOpts())
	require.NoError(t, err)
	var types []lexer.TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []lexer.TokenType{
		lexer.Identifier, lexer.Punctuator, lexer.RegularExpression, lexer.Punctuator,
		lexer.Identifier, lexer.Punctuator, lexer.Identifier, lexer.Punctuator, lexer.Numeric, lexer.Punctuator,
	}, types)
	assert.Equal(t, "/re/g", toks[2].Value)

	opts := scriptOpts()
	opts.Comments = true
	toks, err = Tokenize("a /* c */ + b // d", opts)
	require.NoError(t, err)
	var values []string
	for _, tok := range toks {
		values = append(values, tok.Value)
	}
	assert.Equal(t, []string{"a", "/* c */", "+", "b", "// d"}, values)

	_, err = Tokenize("a +", scriptOpts())
	assert.Error(t, err)
}

func TestTokenizeIsDeterministic(t *testing.T) {
	src := "async (a, {b}) => { return `x${a}` + /y/.source; }; (c, d);"
	first, err := Tokenize(src, scriptOpts())
	require.NoError(t, err)
	second, err := Tokenize(src, scriptOpts())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRewindLeavesTokensUnchanged(t *testing.T) {
	// "(a, b)" is first tried as arrow parameters, then rewound and parsed
	// as an expression; the tokens must match a plain scan.
	src := "(a, b) + (c);"
	parsed, err := Tokenize(src, scriptOpts())
	require.NoError(t, err)
	scanned, err := lexer.NewLexer(src, lexer.Options{Features: features.Latest()}).All()
	require.NoError(t, err)
	require.Equal(t, len(scanned), len(parsed))
	for i := range scanned {
		assert.Equal(t, scanned[i].Type, parsed[i].Type)
		assert.Equal(t, scanned[i].Value, parsed[i].Value)
		assert.Equal(t, scanned[i].Location, parsed[i].Location)
	}
}

func TestFeatureFlags(t *testing.T) {
	tests := []struct {
		feature string
		input   string
		module  bool
	}{
		{"exponentiationOperator", "a ** b;", false},
		{"asyncAwait", "async function f() { await x; }", false},
		{"trailingCommaFunctionCallDeclaration", "f(a, b,);", false},
		{"forInInitializer", "for (var a = 0 in b);", false},
		{"asyncIterationGenerators", "async function* g() {}", false},
		{"restSpreadProperties", "({...a});", false},
		{"optionalCatchBinding", "try {} catch {}", false},
		{"paragraphLineSeparatorInStrings", "'\u2028';", false},
		{"dynamicImport", "import('a');", false},
		{"bigInt", "1n;", false},
		{"exportedNameInExportAll", "export * as ns from 'a';", true},
		{"importMeta", "import.meta;", true},
		{"coalescingOperator", "a ?? b;", false},
		{"optionalChaining", "a?.b;", false},
		{"logicalAssignmentOperators", "a ||= b;", false},
		{"numericLiteralSeparator", "1_000;", false},
		{"privateMethodsAndFields", "class A { #m() {} }", false},
		{"classFields", "class A { x = 1 }", false},
		{"classFieldsPrivateIn", "class A { #x; m(o) { return #x in o; } }", false},
		{"topLevelAwait", "await x;", true},
		{"classStaticBlock", "class A { static {} }", false},
		{"arbitraryModuleNSNames", "let a; export { a as 'b c' };", true},
		{"skipEscapeSeqCheckInTaggedTemplates", "tag`\\unicode`;", false},
	}
	for _, tt := range tests {
		t.Run(tt.feature, func(t *testing.T) {
			opts := scriptOpts()
			if tt.module {
				opts = moduleOpts()
			}
			parseOK(t, tt.input, opts)

			off := features.Latest()
			require.NoError(t, off.Set(tt.feature, false))
			opts.Features = off
			_, err := Parse(tt.input, opts)
			assert.Error(t, err, "%s should be rejected without %s", tt.input, tt.feature)
		})
	}
}

func TestParseBytes(t *testing.T) {
	// UTF-16LE with a byte order mark
	data := []byte{0xFF, 0xFE, 'a', 0, ';', 0}
	prog, err := ParseBytes(data, nil)
	require.NoError(t, err)
	assert.Equal(t, "a", expr(t, prog).(*ast.Identifier).Name)

	opts := DefaultOptions()
	opts.StrictEncoding = true
	_, err = ParseBytes([]byte{'a', 0xFF, ';'}, opts)
	var encErr *errors.EncodingError
	assert.ErrorAs(t, err, &encErr)
}

func TestParserIsSingleUse(t *testing.T) {
	p := New("a;", nil)
	_, err := p.Parse()
	require.NoError(t, err)
	_, err = p.Parse()
	assert.Error(t, err)
}

func TestErrorPositions(t *testing.T) {
	err := parseFail(t, "var a = 1;\nvar b = ;", scriptOpts())
	assert.Equal(t, 2, err.Position.Line)
	assert.Equal(t, 8, err.Position.Column)
	assert.Equal(t, 19, err.Position.Index)
}

func TestArena(t *testing.T) {
	arena := ast.NewArena()
	opts := scriptOpts()
	opts.Arena = arena
	prog := parseOK(t, "a + b;", opts)
	assert.Equal(t, "(a + b)", render(expr(t, prog)))
	assert.Greater(t, arena.Allocated(), 0)
}
