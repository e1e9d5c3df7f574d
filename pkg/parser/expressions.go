package parser

import (
	"esparse/pkg/ast"
	"esparse/pkg/lexer"
)

// Precedence levels for binary operators
const (
	_           int = iota
	LOGICAL_OR      // || ??
	LOGICAL_AND     // &&
	BITWISE_OR      // |
	BITWISE_XOR     // ^
	BITWISE_AND     // &
	EQUALS          // ==, !=, ===, !==
	LESSGREATER     // <, >, <=, >=, instanceof, in
	SHIFT           // <<, >>, >>>
	SUM             // + or -
	PRODUCT         // *, / or %
	POWER           // ** (reduced right to left)
)

var precedences = map[string]int{
	"||":         LOGICAL_OR,
	"??":         LOGICAL_OR,
	"&&":         LOGICAL_AND,
	"|":          BITWISE_OR,
	"^":          BITWISE_XOR,
	"&":          BITWISE_AND,
	"==":         EQUALS,
	"!=":         EQUALS,
	"===":        EQUALS,
	"!==":        EQUALS,
	"<":          LESSGREATER,
	">":          LESSGREATER,
	"<=":         LESSGREATER,
	">=":         LESSGREATER,
	"instanceof": LESSGREATER,
	"in":         LESSGREATER,
	"<<":         SHIFT,
	">>":         SHIFT,
	">>>":        SHIFT,
	"+":          SUM,
	"-":          SUM,
	"*":          PRODUCT,
	"/":          PRODUCT,
	"%":          PRODUCT,
	"**":         POWER,
}

var assignmentOperators = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "<<=": true, ">>=": true, ">>>=": true, "&=": true, "|=": true,
	"^=": true, "&&=": true, "||=": true, "??=": true,
}

var unaryOperators = map[string]bool{
	"delete": true, "void": true, "typeof": true,
	"+": true, "-": true, "~": true, "!": true,
}

// --- Expressions ---

// parseExpression parses a comma separated sequence of assignment
// expressions. It returns nil when no expression starts at the current token.
func (p *Parser) parseExpression() ast.Node {
	start := p.l.CurrentPosition()
	first := p.parseAssignmentExpression()
	if first == nil || !p.l.Token().IsPunctuator(",") {
		return first
	}
	seq := createNode[*ast.SequenceExpression](p, ast.SequenceExpressionType, start)
	seq.Expressions = []ast.Node{first}
	for p.l.ConsumeToken(",") != nil {
		seq.Expressions = append(seq.Expressions, p.must(p.parseAssignmentExpression()))
	}
	return completeNode(p, seq)
}

func (p *Parser) parseAssignmentExpression() ast.Node {
	if p.isYield() {
		return p.parseYieldExpression()
	}
	if arrow := p.parseArrowFunction(); arrow != nil {
		return arrow
	}
	start := p.l.CurrentPosition()
	left := p.parseConditionalExpression()
	if left == nil {
		return nil
	}
	tok := p.l.Token()
	if tok == nil || tok.Type != lexer.Punctuator || !assignmentOperators[tok.Value] {
		return left
	}
	if tok.Value == "=" {
		left = p.toAssignmentTarget(left, "assignment")
	} else {
		p.checkSimpleTarget(left, "assignment")
	}
	p.l.Consume()
	expr := createNode[*ast.AssignmentExpression](p, ast.AssignmentExpressionType, start)
	expr.Operator, expr.Left = tok.Value, left
	expr.Right = p.must(p.parseAssignmentExpression())
	return completeNode(p, expr)
}

func (p *Parser) isYield() bool {
	tok := p.l.Token()
	return p.ctx.allowYield && tok != nil && tok.Value == "yield"
}

func (p *Parser) isAwait() bool {
	tok := p.l.Token()
	return p.ctx.allowAwait && tok != nil && tok.Value == "await"
}

func (p *Parser) parseYieldExpression() ast.Node {
	tok := p.l.Consume()
	if p.ctx.inParams {
		p.error(tok.Start(), "Yield expression not allowed in formal parameter")
	}
	expr := createNode[*ast.YieldExpression](p, ast.YieldExpressionType, tok.Start())
	if next := p.l.Token(); next != nil && !next.NewlineBefore() {
		if next.IsPunctuator("*") {
			p.l.Consume()
			expr.Delegate = true
			expr.Argument = p.must(p.parseAssignmentExpression())
		} else if !endsYieldArgument(next) {
			expr.Argument = p.parseAssignmentExpression()
		}
	}
	return completeNode(p, expr)
}

func endsYieldArgument(tok *lexer.Token) bool {
	if tok.Type != lexer.Punctuator {
		return tok.Type == lexer.Keyword && tok.Value == "in"
	}
	switch tok.Value {
	case ")", "]", "}", ",", ";", ":", "?":
		return true
	}
	return false
}

func (p *Parser) parseConditionalExpression() ast.Node {
	start := p.l.CurrentPosition()
	test := p.parseBinaryExpression()
	if test == nil || !p.l.Token().IsPunctuator("?") {
		return test
	}
	p.l.Consume()
	expr := createNode[*ast.ConditionalExpression](p, ast.ConditionalExpressionType, start)
	expr.Test = test
	expr.Consequent = p.must(withIn(p, true, p.parseAssignmentExpression))
	p.expect(":")
	expr.Alternate = p.must(p.parseAssignmentExpression())
	return completeNode(p, expr)
}

// --- Binary expressions ---

func (p *Parser) binaryPrecedence(tok *lexer.Token) int {
	if tok == nil {
		return 0
	}
	switch tok.Type {
	case lexer.Punctuator:
		return precedences[tok.Value]
	case lexer.Keyword:
		if tok.Value == "instanceof" || (tok.Value == "in" && p.ctx.allowIn) {
			return LESSGREATER
		}
	}
	return 0
}

// parseBinaryExpression flattens a run of binary operators into operands
// and operators, then reduces the list by descending precedence.
func (p *Parser) parseBinaryExpression() ast.Node {
	first := p.parseBinaryOperand()
	if first == nil {
		return nil
	}
	operands := []ast.Node{first}
	var operators []string
	hasCoalesce, hasLogical := false, false
	for {
		tok := p.l.Token()
		if p.binaryPrecedence(tok) == 0 {
			break
		}
		switch tok.Value {
		case "??":
			hasCoalesce = true
		case "&&", "||":
			hasLogical = true
		}
		if hasCoalesce && hasLogical {
			p.error(tok.Start(), "Logical expressions and coalesce expressions cannot be mixed. Wrap either by parentheses")
		}
		if last := operands[len(operands)-1]; tok.Value == "**" && isUnaryOperand(last) {
			p.error(last.Loc().Start, "Unary operator used immediately before exponentiation expression. Parenthesis must be used to disambiguate operator precedence")
		}
		p.l.Consume()
		operands = append(operands, p.must(p.parseBinaryOperand()))
		operators = append(operators, tok.Value)
	}
	return p.reduceBinary(operands, operators)
}

func isUnaryOperand(n ast.Node) bool {
	switch n.(type) {
	case *ast.UnaryExpression, *ast.AwaitExpression:
		return true
	}
	return false
}

// parseBinaryOperand parses a unary expression, or a private name that is
// the left operand of "in".
func (p *Parser) parseBinaryOperand() ast.Node {
	tok := p.l.Token()
	if tok != nil && tok.Type == lexer.PrivateIdentifier && p.features.ClassFieldsPrivateIn {
		if next := p.l.NextToken(); next != nil && next.Type == lexer.Keyword && next.Value == "in" && p.ctx.allowIn {
			return p.parsePrivateIdentifier()
		}
	}
	return p.parseUnaryExpression()
}

func (p *Parser) reduceBinary(operands []ast.Node, operators []string) ast.Node {
	combine := func(i int) {
		operands[i] = p.binaryNode(operands[i], operators[i], operands[i+1])
		operands = append(operands[:i+1], operands[i+2:]...)
		operators = append(operators[:i], operators[i+1:]...)
	}
	for prec := POWER; prec >= LOGICAL_OR && len(operators) > 0; prec-- {
		if prec == POWER {
			for i := len(operators) - 1; i >= 0; i-- {
				if precedences[operators[i]] == POWER {
					combine(i)
				}
			}
			continue
		}
		for i := 0; i < len(operators); {
			if precedences[operators[i]] == prec {
				combine(i)
			} else {
				i++
			}
		}
	}
	return operands[0]
}

func (p *Parser) binaryNode(left ast.Node, op string, right ast.Node) ast.Node {
	if _, ok := right.(*ast.PrivateIdentifier); ok {
		p.error(right.Loc().Start, "Unexpected private name")
	}
	if _, ok := left.(*ast.PrivateIdentifier); ok && op != "in" {
		p.error(left.Loc().Start, "Unexpected private name")
	}
	start, end := left.Loc().Start, right.Loc().End
	switch op {
	case "&&", "||", "??":
		expr := createNode[*ast.LogicalExpression](p, ast.LogicalExpressionType, start)
		expr.Operator, expr.Left, expr.Right = op, left, right
		return completeNodeAt(p, expr, end)
	}
	expr := createNode[*ast.BinaryExpression](p, ast.BinaryExpressionType, start)
	expr.Operator, expr.Left, expr.Right = op, left, right
	return completeNodeAt(p, expr, end)
}

// --- Unary and update expressions ---

func (p *Parser) parseUnaryExpression() ast.Node {
	tok := p.l.Token()
	if tok == nil {
		return nil
	}
	switch {
	case (tok.Type == lexer.Punctuator || tok.Type == lexer.Keyword) && unaryOperators[tok.Value]:
		p.l.Consume()
		expr := createNode[*ast.UnaryExpression](p, ast.UnaryExpressionType, tok.Start())
		expr.Operator, expr.Prefix = tok.Value, true
		expr.Argument = p.must(p.parseUnaryExpression())
		if tok.Value == "delete" {
			p.checkDelete(expr.Argument)
		}
		return completeNode(p, expr)
	case tok.IsPunctuator("++") || tok.IsPunctuator("--"):
		p.l.Consume()
		expr := createNode[*ast.UpdateExpression](p, ast.UpdateExpressionType, tok.Start())
		expr.Operator, expr.Prefix = tok.Value, true
		expr.Argument = p.must(p.parseUnaryExpression())
		p.checkSimpleTarget(expr.Argument, "prefix operation")
		return completeNode(p, expr)
	case p.isAwait():
		return p.parseAwaitExpression()
	}
	return p.parsePostfixExpression()
}

func (p *Parser) checkDelete(arg ast.Node) {
	target := unwrapParens(arg)
	if _, ok := target.(*ast.Identifier); ok && p.l.IsStrictMode() {
		p.error(arg.Loc().Start, "Deleting local variable in strict mode")
	}
	if chain, ok := target.(*ast.ChainExpression); ok {
		target = chain.Expression
	}
	if m, ok := target.(*ast.MemberExpression); ok {
		if _, private := m.Property.(*ast.PrivateIdentifier); private {
			p.error(m.Property.Loc().Start, "Private fields can not be deleted")
		}
	}
}

func (p *Parser) parseAwaitExpression() ast.Node {
	tok := p.l.Consume()
	if p.ctx.inParams {
		p.error(tok.Start(), "Await expression not allowed in formal parameter")
	}
	expr := createNode[*ast.AwaitExpression](p, ast.AwaitExpressionType, tok.Start())
	expr.Argument = p.must(p.parseUnaryExpression())
	return completeNode(p, expr)
}

func (p *Parser) parsePostfixExpression() ast.Node {
	start := p.l.CurrentPosition()
	arg := p.parseLeftHandSideExpression()
	if arg == nil {
		return nil
	}
	tok := p.l.Token()
	if tok == nil || tok.NewlineBefore() || !(tok.IsPunctuator("++") || tok.IsPunctuator("--")) {
		return arg
	}
	p.checkSimpleTarget(arg, "postfix operation")
	p.l.Consume()
	expr := createNode[*ast.UpdateExpression](p, ast.UpdateExpressionType, start)
	expr.Operator, expr.Argument = tok.Value, arg
	return completeNode(p, expr)
}

// --- Left-hand side expressions ---

// parseLeftHandSideExpression parses new, call and member expressions. The
// "new" keywords are collected first and matched with argument lists from
// the innermost one outward; the remaining ones build NewExpressions without
// arguments. A chain containing "?." is wrapped in a ChainExpression.
func (p *Parser) parseLeftHandSideExpression() ast.Node {
	start := p.l.CurrentPosition()
	var news []*lexer.Token
	for tok := p.l.Token(); tok != nil && tok.Type == lexer.Keyword && tok.Value == "new" && !p.l.NextIs("."); tok = p.l.Token() {
		news = append(news, p.l.Consume())
	}
	object := p.parsePrimaryExpression()
	if object == nil {
		if len(news) > 0 {
			p.unexpected()
		}
		return nil
	}
	if _, ok := object.(*ast.ImportExpression); ok && len(news) > 0 {
		p.error(object.Loc().Start, "Cannot use new with import")
	}

	optional := false
loop:
	for {
		tok := p.l.Token()
		if tok == nil {
			break
		}
		switch {
		case tok.IsPunctuator("."):
			p.l.Consume()
			object = p.memberExpression(object, p.parseMemberProperty(), false, false)
		case tok.IsPunctuator("?."):
			if len(news) > 0 {
				p.error(tok.Start(), "Invalid optional chain from new expression")
			}
			p.l.Consume()
			optional = true
			switch next := p.l.Token(); {
			case next.IsPunctuator("("):
				object = p.callExpression(object, true)
			case next.IsPunctuator("["):
				object = p.memberExpression(object, p.parseComputedProperty(), true, true)
			case next != nil && next.Type == lexer.Template:
				p.error(next.Start(), "Invalid tagged template on optional chain")
			default:
				object = p.memberExpression(object, p.parseMemberProperty(), false, true)
			}
		case tok.IsPunctuator("["):
			object = p.memberExpression(object, p.parseComputedProperty(), true, false)
		case tok.IsPunctuator("("):
			if len(news) == 0 {
				object = p.callExpression(object, false)
				break
			}
			newTok := news[len(news)-1]
			news = news[:len(news)-1]
			expr := createNode[*ast.NewExpression](p, ast.NewExpressionType, newTok.Start())
			expr.Callee = object
			expr.Arguments = p.parseArguments()
			object = completeNode(p, expr)
		case tok.Type == lexer.Template && tok.Value[0] == '`':
			if optional {
				p.error(tok.Start(), "Invalid tagged template on optional chain")
			}
			expr := createNode[*ast.TaggedTemplateExpression](p, ast.TaggedTemplateExpressionType, object.Loc().Start)
			expr.Tag = object
			expr.Quasi = p.parseTemplateLiteral(true)
			object = completeNode(p, expr)
		default:
			break loop
		}
	}

	for i := len(news) - 1; i >= 0; i-- {
		expr := createNode[*ast.NewExpression](p, ast.NewExpressionType, news[i].Start())
		expr.Callee = object
		expr.Arguments = []ast.Node{}
		object = completeNode(p, expr)
	}
	if optional {
		chain := createNode[*ast.ChainExpression](p, ast.ChainExpressionType, start)
		chain.Expression = object
		object = completeNode(p, chain)
	}
	return object
}

func (p *Parser) memberExpression(object, property ast.Node, computed, optional bool) ast.Node {
	expr := createNode[*ast.MemberExpression](p, ast.MemberExpressionType, object.Loc().Start)
	expr.Object, expr.Property = object, property
	expr.Computed, expr.Optional = computed, optional
	return completeNode(p, expr)
}

func (p *Parser) callExpression(callee ast.Node, optional bool) ast.Node {
	expr := createNode[*ast.CallExpression](p, ast.CallExpressionType, callee.Loc().Start)
	expr.Callee, expr.Optional = callee, optional
	expr.Arguments = p.parseArguments()
	return completeNode(p, expr)
}

// parseMemberProperty parses the name after "." or "?.".
func (p *Parser) parseMemberProperty() ast.Node {
	if tok := p.l.Token(); tok != nil && tok.Type == lexer.PrivateIdentifier {
		return p.parsePrivateIdentifier()
	}
	id := p.parseIdentifierName()
	if id == nil {
		p.unexpected()
	}
	return id
}

func (p *Parser) parseComputedProperty() ast.Node {
	p.expect("[")
	prop := p.must(withIn(p, true, p.parseExpression))
	p.expect("]")
	return prop
}

func (p *Parser) parseArguments() []ast.Node {
	p.expect("(")
	args := withIn(p, true, func() []ast.Node {
		args := []ast.Node{}
		for !p.l.Is(")") {
			args = append(args, p.parseSpreadOr(p.parseAssignmentExpression))
			if p.l.ConsumeToken(",") == nil {
				break
			}
			if p.l.Is(")") && !p.features.TrailingCommaFunctionCallDeclaration {
				p.unexpected()
			}
		}
		return args
	})
	p.expect(")")
	return args
}

// parseSpreadOr parses "..." followed by an assignment expression, or
// whatever fn parses. The result is never nil.
func (p *Parser) parseSpreadOr(fn func() ast.Node) ast.Node {
	if tok := p.l.ConsumeToken("..."); tok != nil {
		spread := createNode[*ast.SpreadElement](p, ast.SpreadElementType, tok.Start())
		spread.Argument = p.must(p.parseAssignmentExpression())
		return completeNode(p, spread)
	}
	return p.must(fn())
}

// --- Primary expressions ---

func (p *Parser) parsePrimaryExpression() ast.Node {
	if p.ext != nil {
		if n := p.ext.ParsePrimary(p); !ast.IsNil(n) {
			return n
		}
	}
	tok := p.l.Token()
	if tok == nil {
		return nil
	}
	switch tok.Type {
	case lexer.Identifier:
		if p.isAsyncFunction() {
			return p.parseFunctionExpression()
		}
		if id := p.parseIdentifier(identReference); id != nil {
			return id
		}
		return nil
	case lexer.Keyword:
		switch tok.Value {
		case "this":
			p.l.Consume()
			return completeNode(p, createNode[*ast.ThisExpression](p, ast.ThisExpressionType, tok.Start()))
		case "function":
			return p.parseFunctionExpression()
		case "class":
			return p.parseClassExpression()
		case "super":
			return p.parseSuper()
		case "new":
			return p.parseNewTarget()
		case "import":
			return p.parseImportCallOrMeta()
		}
		return nil
	case lexer.Null, lexer.Boolean, lexer.Numeric, lexer.BigInt, lexer.String:
		return p.parseLiteral()
	case lexer.Template:
		if tok.Value[0] == '`' {
			return p.parseTemplateLiteral(false)
		}
	case lexer.Punctuator:
		switch tok.Value {
		case "(":
			return p.parseParenthesizedExpression()
		case "[":
			return p.parseArrayLiteral()
		case "{":
			return p.parseObjectLiteral()
		case "/", "/=":
			return p.parseRegExpLiteral()
		}
	}
	return nil
}

func (p *Parser) parseParenthesizedExpression() ast.Node {
	start := p.expect("(").Start()
	expr := createNode[*ast.ParenthesizedExpression](p, ast.ParenthesizedExpressionType, start)
	expr.Expression = p.must(withIn(p, true, p.parseExpression))
	p.expect(")")
	return completeNode(p, expr)
}

func (p *Parser) parseSuper() ast.Node {
	tok := p.l.Consume()
	sup := completeNode(p, createNode[*ast.Super](p, ast.SuperType, tok.Start()))
	if next := p.l.Token(); !next.IsPunctuator("(") && !next.IsPunctuator(".") && !next.IsPunctuator("[") {
		p.error(tok.Start(), "'super' keyword unexpected here")
	}
	return sup
}

func (p *Parser) parseNewTarget() ast.Node {
	tok := p.l.Consume()
	meta := p.identifierFromToken(tok)
	p.expect(".")
	prop := p.parseIdentifierName()
	if prop == nil || prop.Name != "target" {
		p.error(tok.Start(), "Invalid meta property new.%s", p.l.LastConsumed().Value)
	}
	expr := createNode[*ast.MetaProperty](p, ast.MetaPropertyType, tok.Start())
	expr.Meta, expr.Property = meta, prop
	return completeNode(p, expr)
}

func (p *Parser) parseImportCallOrMeta() ast.Node {
	tok := p.l.Consume()
	switch {
	case p.l.Token().IsPunctuator("(") && p.features.DynamicImport:
		p.l.Consume()
		expr := createNode[*ast.ImportExpression](p, ast.ImportExpressionType, tok.Start())
		expr.Source = p.must(withIn(p, true, p.parseAssignmentExpression))
		p.expect(")")
		return completeNode(p, expr)
	case p.l.Token().IsPunctuator(".") && p.module && p.features.ImportMeta:
		meta := p.identifierFromToken(tok)
		p.l.Consume()
		prop := p.parseIdentifierName()
		if prop == nil || prop.Name != "meta" {
			p.error(tok.Start(), "Invalid meta property import.%s", p.l.LastConsumed().Value)
		}
		expr := createNode[*ast.MetaProperty](p, ast.MetaPropertyType, tok.Start())
		expr.Meta, expr.Property = meta, prop
		return completeNode(p, expr)
	}
	p.unexpected()
	return nil
}

// --- Array and object literals ---

func (p *Parser) parseArrayLiteral() ast.Node {
	start := p.expect("[").Start()
	arr := createNode[*ast.ArrayExpression](p, ast.ArrayExpressionType, start)
	arr.Elements = []ast.Node{}
	withIn(p, true, func() bool {
		for !p.l.Is("]") {
			if p.l.ConsumeToken(",") != nil {
				arr.Elements = append(arr.Elements, nil)
				continue
			}
			el := p.parseSpreadOr(p.parseAssignmentExpression)
			arr.Elements = append(arr.Elements, el)
			if !p.l.Is("]") {
				p.expect(",")
				p.markSpreadComma(arr, el)
			}
		}
		return true
	})
	p.expect("]")
	return completeNode(p, arr)
}

func (p *Parser) markSpreadComma(literal, el ast.Node) {
	if _, ok := el.(*ast.SpreadElement); !ok {
		return
	}
	if p.spreadCommas == nil {
		p.spreadCommas = make(map[ast.Node]bool)
	}
	p.spreadCommas[literal] = true
}

func (p *Parser) parseObjectLiteral() ast.Node {
	start := p.expect("{").Start()
	obj := createNode[*ast.ObjectExpression](p, ast.ObjectExpressionType, start)
	obj.Properties = []ast.Node{}
	withIn(p, true, func() bool {
		for !p.l.Is("}") {
			member := p.parseObjectMember()
			obj.Properties = append(obj.Properties, member)
			if !p.l.Is("}") {
				p.expect(",")
				p.markSpreadComma(obj, member)
			}
		}
		return true
	})
	p.expect("}")
	return completeNode(p, obj)
}

func (p *Parser) parseObjectMember() ast.Node {
	tok := p.l.Token()
	if tok == nil {
		p.unexpected()
	}
	start := tok.Start()
	if tok.IsPunctuator("...") {
		if !p.features.RestSpreadProperties {
			p.unexpected()
		}
		return p.parseSpreadOr(nil)
	}

	async := false
	if p.features.AsyncAwait && p.isModifier("async") && !p.l.NextToken().IsPunctuator(",") && !p.l.NextToken().IsPunctuator(":") {
		p.l.Consume()
		async = true
	}
	generator := false
	if p.l.Token().IsPunctuator("*") {
		if async && !p.features.AsyncIterationGenerators {
			p.unexpected()
		}
		p.l.Consume()
		generator = true
	}
	kind := "init"
	if !async && !generator && (p.isModifier("get") || p.isModifier("set")) &&
		!p.l.NextToken().IsPunctuator(",") && !p.l.NextToken().IsPunctuator(":") {
		kind = p.l.Consume().Value
	}

	keyTok := p.l.Token()
	key, computed := p.parsePropertyKey(false)
	if key == nil {
		p.unexpected()
	}
	prop := createNode[*ast.Property](p, ast.PropertyType, start)
	prop.Key, prop.Computed, prop.Kind = key, computed, kind

	switch {
	case p.l.Is("("):
		prop.Method = kind == "init"
		prop.Value = p.parseMethod(kind, async, generator)
	case async || generator || kind != "init":
		p.unexpected()
	case p.l.ConsumeToken(":") != nil:
		prop.Value = p.must(p.parseAssignmentExpression())
	default:
		// Shorthand: the key must also be a valid identifier reference
		if keyTok.Type != lexer.Identifier && !(keyTok.Type == lexer.Keyword && (keyTok.Value == "yield" || keyTok.Value == "await" || keyTok.Value == "let")) {
			p.unexpected()
		}
		value := p.shorthandValue(keyTok)
		prop.Shorthand = true
		if eq := p.l.ConsumeToken("="); eq != nil {
			init := createNode[*ast.AssignmentExpression](p, ast.AssignmentExpressionType, value.Loc().Start)
			init.Operator, init.Left = "=", value
			init.Right = p.must(p.parseAssignmentExpression())
			prop.Value = completeNode(p, init)
			p.coverInits = append(p.coverInits, init)
		} else {
			prop.Value = value
		}
	}
	return completeNode(p, prop)
}

// shorthandValue validates the key of a shorthand property as an identifier
// reference and returns it as the property value.
func (p *Parser) shorthandValue(keyTok *lexer.Token) *ast.Identifier {
	name := keyTok.Name()
	switch {
	case name == "yield" && (p.ctx.allowYield || p.l.IsStrictMode()),
		name == "await" && (p.ctx.allowAwait || p.module),
		p.l.IsStrictMode() && lexer.IsStrictKeyword(name),
		keyTok.Escaped() && lexer.IsReservedWord(name, p.l.IsStrictMode(), p.module):
		p.error(keyTok.Start(), "Unexpected token %s", keyTok.Value)
	}
	id := createNode[*ast.Identifier](p, ast.IdentifierType, keyTok.Start())
	id.Name = name
	return completeNodeAt(p, id, keyTok.End())
}

// parsePropertyKey parses a property name: an identifier name, a string or
// numeric literal, a computed key or, in classes, a private name. It returns
// nil when no key starts at the current token.
func (p *Parser) parsePropertyKey(allowPrivate bool) (ast.Node, bool) {
	tok := p.l.Token()
	if tok == nil {
		return nil, false
	}
	switch tok.Type {
	case lexer.Identifier, lexer.Keyword, lexer.Boolean, lexer.Null:
		return p.parseIdentifierName(), false
	case lexer.String, lexer.Numeric, lexer.BigInt:
		return p.parseLiteral(), false
	case lexer.PrivateIdentifier:
		if !allowPrivate {
			p.unexpected()
		}
		return p.parsePrivateIdentifier(), false
	case lexer.Punctuator:
		if tok.Value == "[" {
			return p.parseComputedProperty(), true
		}
	}
	return nil, false
}

// --- Templates ---

func (p *Parser) parseTemplateLiteral(tagged bool) *ast.TemplateLiteral {
	start := p.l.CurrentPosition()
	tpl := createNode[*ast.TemplateLiteral](p, ast.TemplateLiteralType, start)
	tpl.Expressions = []ast.Node{}
	for {
		tok := p.l.Token()
		if tok == nil || tok.Type != lexer.Template {
			p.unexpected()
		}
		p.l.Consume()
		elem := p.templateElement(tok, tagged)
		tpl.Quasis = append(tpl.Quasis, elem)
		if elem.Tail {
			break
		}
		tpl.Expressions = append(tpl.Expressions, p.must(withIn(p, true, p.parseExpression)))
		if next := p.l.Token(); next == nil || next.Type != lexer.Template || next.Value[0] != '}' {
			p.unexpected()
		}
	}
	return completeNode(p, tpl)
}

// templateElement builds the quasi of a template token. The element spans
// the text between the delimiters.
func (p *Parser) templateElement(tok *lexer.Token, tagged bool) *ast.TemplateElement {
	chars := []rune(tok.Value)
	closeLen := 1
	tail := true
	if len(chars) >= 2 && chars[len(chars)-2] == '$' && chars[len(chars)-1] == '{' {
		closeLen, tail = 2, false
	}
	body := chars[1 : len(chars)-closeLen]

	start := tok.Start()
	start.Column++
	start.Index++
	end := tok.End()
	end.Column -= closeLen
	end.Index -= closeLen
	elem := createNode[*ast.TemplateElement](p, ast.TemplateElementType, start)
	elem.Tail = tail

	raw := normalizeLineEndings(body)
	elem.Value.Raw = string(raw)
	cooked, _, bad := decodeEscapes(raw, templateEscapes)
	switch {
	case bad == nil:
		elem.Value.Cooked = &cooked
	case tagged && p.features.SkipEscapeSeqCheckInTaggedTemplates:
	default:
		p.error(tok.Start(), "Invalid escape sequence in template: %s", bad.msg)
	}
	return completeNodeAt(p, elem, end)
}

// --- Helpers ---

// identifierFromToken builds an Identifier spanning tok.
func (p *Parser) identifierFromToken(tok *lexer.Token) *ast.Identifier {
	id := createNode[*ast.Identifier](p, ast.IdentifierType, tok.Start())
	id.Name = tok.Name()
	return completeNodeAt(p, id, tok.End())
}

func unwrapParens(n ast.Node) ast.Node {
	for {
		paren, ok := n.(*ast.ParenthesizedExpression)
		if !ok {
			return n
		}
		n = paren.Expression
	}
}

// checkSimpleTarget fails unless n can be the target of a compound
// assignment or an update expression.
func (p *Parser) checkSimpleTarget(n ast.Node, what string) {
	switch t := unwrapParens(n).(type) {
	case *ast.Identifier:
		if p.l.IsStrictMode() && (t.Name == "eval" || t.Name == "arguments") {
			p.error(t.Loc().Start, "Assigning to %s in strict mode", t.Name)
		}
		return
	case *ast.MemberExpression:
		return
	}
	p.error(n.Loc().Start, "Invalid left-hand side in %s", what)
}
