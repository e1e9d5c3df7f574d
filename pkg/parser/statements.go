package parser

import (
	"esparse/pkg/ast"
	"esparse/pkg/lexer"
	"esparse/pkg/source"
)

// --- Statement lists ---

// parseDirectivePrologue parses the leading string literal statements of a
// program or function body. A "use strict" directive switches the lexer to
// strict mode; onStrict is then called with the directive position.
func (p *Parser) parseDirectivePrologue(onStrict func(pos source.Position)) []ast.Node {
	var body []ast.Node
	var directives []*ast.StringLiteral
	for tok := p.l.Token(); tok != nil && tok.Type == lexer.String; tok = p.l.Token() {
		stmt := p.parseStatement()
		body = append(body, stmt)
		es, ok := stmt.(*ast.ExpressionStatement)
		if !ok {
			break
		}
		lit, ok := es.Expression.(*ast.StringLiteral)
		if !ok {
			break
		}
		es.Directive = lit.Raw[1 : len(lit.Raw)-1]
		directives = append(directives, lit)
		if es.Directive != "use strict" {
			continue
		}
		if onStrict != nil {
			onStrict(lit.Loc().Start)
		}
		if !p.l.IsStrictMode() {
			p.l.SetStrictMode(true)
			for _, d := range directives {
				if hasLegacyOctalEscape([]rune(d.Raw)) {
					p.error(d.Loc().Start, "Octal escape sequences are not allowed in strict mode")
				}
			}
		}
	}
	return body
}

// parseStatementList parses statement list items up to "}" or the end of input.
func (p *Parser) parseStatementList() []ast.Node {
	var list []ast.Node
	for tok := p.l.Token(); tok != nil && !tok.IsPunctuator("}"); tok = p.l.Token() {
		list = append(list, p.parseStatementListItem())
	}
	return list
}

func (p *Parser) parseStatementListItem() ast.Node {
	if decl := p.parseDeclaration(); decl != nil {
		return decl
	}
	return p.must(p.parseStatement())
}

// parseDeclaration parses a function, class or lexical declaration, or
// returns nil.
func (p *Parser) parseDeclaration() ast.Node {
	tok := p.l.Token()
	switch {
	case tok == nil:
		return nil
	case tok.Type == lexer.Keyword && tok.Value == "function":
		return p.parseFunctionDeclaration(tok.Start(), false, false)
	case p.isAsyncFunction():
		return p.parseFunctionDeclaration(tok.Start(), true, false)
	case tok.Type == lexer.Keyword && tok.Value == "class":
		return p.parseClassDeclaration(tok.Start(), false)
	case tok.Type == lexer.Keyword && tok.Value == "const", p.isLetDeclaration():
		return p.parseVariableStatement()
	}
	return nil
}

// isAsyncFunction reports whether the current tokens are "async function"
// with no line break in between.
func (p *Parser) isAsyncFunction() bool {
	tok := p.l.Token()
	if !p.features.AsyncAwait || tok == nil || tok.Type != lexer.Identifier || tok.Value != "async" {
		return false
	}
	next := p.l.NextToken()
	return next != nil && next.Type == lexer.Keyword && next.Value == "function" && !next.NewlineBefore()
}

// isLetDeclaration reports whether "let" starts a lexical declaration rather
// than being used as an identifier.
func (p *Parser) isLetDeclaration() bool {
	tok := p.l.Token()
	if tok == nil || tok.Value != "let" {
		return false
	}
	next := p.l.NextToken()
	if next == nil {
		return false
	}
	switch next.Type {
	case lexer.Identifier:
		return true
	case lexer.Punctuator:
		return next.Value == "[" || next.Value == "{"
	case lexer.Keyword:
		return next.Value == "yield" || next.Value == "await" || next.Value == "let"
	}
	return false
}

// --- Statements ---

func (p *Parser) parseStatement() ast.Node {
	tok := p.l.Token()
	if tok == nil {
		return nil
	}
	switch tok.Type {
	case lexer.Punctuator:
		switch tok.Value {
		case "{":
			return p.parseBlockStatement()
		case ";":
			p.l.Consume()
			return completeNode(p, createNode[*ast.EmptyStatement](p, ast.EmptyStatementType, tok.Start()))
		}
	case lexer.Keyword:
		switch tok.Value {
		case "var":
			return p.parseVariableStatement()
		case "if":
			return p.parseIfStatement()
		case "for":
			return p.parseForStatement()
		case "while":
			return p.parseWhileStatement()
		case "do":
			return p.parseDoWhileStatement()
		case "continue", "break":
			return p.parseJumpStatement()
		case "return":
			return p.parseReturnStatement()
		case "with":
			return p.parseWithStatement()
		case "switch":
			return p.parseSwitchStatement()
		case "throw":
			return p.parseThrowStatement()
		case "try":
			return p.parseTryStatement()
		case "debugger":
			p.l.Consume()
			stmt := createNode[*ast.DebuggerStatement](p, ast.DebuggerStatementType, tok.Start())
			p.assertEndOfStatement()
			return completeNode(p, stmt)
		case "function", "class":
			p.error(tok.Start(), "Unexpected token %s: declarations are not allowed here", tok.Value)
		}
	}
	if stmt := p.parseLabeledStatement(); stmt != nil {
		return stmt
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	start := p.l.CurrentPosition()
	p.expect("{")
	block := createNode[*ast.BlockStatement](p, ast.BlockStatementType, start)
	block.Body = p.parseStatementList()
	p.expect("}")
	return completeNode(p, block)
}

func (p *Parser) parseExpressionStatement() ast.Node {
	tok := p.l.Token()
	if tok == nil {
		return nil
	}
	if p.isAsyncFunction() || (tok.Value == "let" && p.l.NextIs("[")) {
		p.unexpected()
	}
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	stmt := createNode[*ast.ExpressionStatement](p, ast.ExpressionStatementType, tok.Start())
	stmt.Expression = expr
	p.assertEndOfStatement()
	return completeNode(p, stmt)
}

func (p *Parser) parseLabeledStatement() ast.Node {
	tok := p.l.Token()
	if tok == nil || tok.Type != lexer.Identifier || !p.l.NextToken().IsPunctuator(":") {
		return nil
	}
	label := p.parseIdentifier(identLabel)
	if label == nil {
		return nil
	}
	p.expect(":")
	stmt := createNode[*ast.LabeledStatement](p, ast.LabeledStatementType, tok.Start())
	stmt.Label = label
	if next := p.l.Token(); next != nil && next.Type == lexer.Keyword && next.Value == "function" && !p.l.IsStrictMode() {
		stmt.Body = p.parseFunctionDeclaration(next.Start(), false, false)
	} else {
		stmt.Body = p.must(p.parseStatement())
	}
	return completeNode(p, stmt)
}

func (p *Parser) parseIfStatement() ast.Node {
	start := p.expect("if").Start()
	stmt := createNode[*ast.IfStatement](p, ast.IfStatementType, start)
	stmt.Test = p.parseParenthesizedCondition()
	stmt.Consequent = p.must(p.parseStatement())
	if p.l.ConsumeToken("else") != nil {
		stmt.Alternate = p.must(p.parseStatement())
	}
	return completeNode(p, stmt)
}

// parseParenthesizedCondition parses "(" Expression ")".
func (p *Parser) parseParenthesizedCondition() ast.Node {
	p.expect("(")
	test := withIn(p, true, p.parseExpression)
	p.must(test)
	p.expect(")")
	return test
}

func (p *Parser) parseWhileStatement() ast.Node {
	start := p.expect("while").Start()
	stmt := createNode[*ast.WhileStatement](p, ast.WhileStatementType, start)
	stmt.Test = p.parseParenthesizedCondition()
	stmt.Body = p.must(p.parseStatement())
	return completeNode(p, stmt)
}

func (p *Parser) parseDoWhileStatement() ast.Node {
	start := p.expect("do").Start()
	stmt := createNode[*ast.DoWhileStatement](p, ast.DoWhileStatementType, start)
	stmt.Body = p.must(p.parseStatement())
	p.expect("while")
	stmt.Test = p.parseParenthesizedCondition()
	// A semicolon is inserted after do-while even without a line break
	p.l.ConsumeToken(";")
	return completeNode(p, stmt)
}

func (p *Parser) parseJumpStatement() ast.Node {
	tok := p.l.Consume()
	var label *ast.Identifier
	if next := p.l.Token(); next != nil && next.Type == lexer.Identifier && !next.NewlineBefore() {
		label = p.parseIdentifier(identLabel)
	}
	p.assertEndOfStatement()
	if tok.Value == "break" {
		stmt := createNode[*ast.BreakStatement](p, ast.BreakStatementType, tok.Start())
		stmt.Label = label
		return completeNode(p, stmt)
	}
	stmt := createNode[*ast.ContinueStatement](p, ast.ContinueStatementType, tok.Start())
	stmt.Label = label
	return completeNode(p, stmt)
}

func (p *Parser) parseReturnStatement() ast.Node {
	tok := p.l.Consume()
	if !p.ctx.allowReturn {
		p.error(tok.Start(), "Illegal return statement")
	}
	stmt := createNode[*ast.ReturnStatement](p, ast.ReturnStatementType, tok.Start())
	if next := p.l.Token(); next != nil && !next.NewlineBefore() && !next.IsPunctuator(";") && !next.IsPunctuator("}") {
		stmt.Argument = withIn(p, true, p.parseExpression)
	}
	p.assertEndOfStatement()
	return completeNode(p, stmt)
}

func (p *Parser) parseThrowStatement() ast.Node {
	tok := p.l.Consume()
	if next := p.l.Token(); next != nil && next.NewlineBefore() {
		p.error(next.Start(), "Illegal newline after throw")
	}
	stmt := createNode[*ast.ThrowStatement](p, ast.ThrowStatementType, tok.Start())
	stmt.Argument = p.must(withIn(p, true, p.parseExpression))
	p.assertEndOfStatement()
	return completeNode(p, stmt)
}

func (p *Parser) parseWithStatement() ast.Node {
	tok := p.l.Consume()
	if p.l.IsStrictMode() {
		p.error(tok.Start(), "Strict mode code may not include a with statement")
	}
	stmt := createNode[*ast.WithStatement](p, ast.WithStatementType, tok.Start())
	stmt.Object = p.parseParenthesizedCondition()
	stmt.Body = p.must(p.parseStatement())
	return completeNode(p, stmt)
}

func (p *Parser) parseSwitchStatement() ast.Node {
	start := p.expect("switch").Start()
	stmt := createNode[*ast.SwitchStatement](p, ast.SwitchStatementType, start)
	stmt.Discriminant = p.parseParenthesizedCondition()
	stmt.Cases = []*ast.SwitchCase{}
	p.expect("{")
	hasDefault := false
	for !p.l.Is("}") {
		tok := p.l.Token()
		if tok == nil {
			p.unexpected()
		}
		sc := createNode[*ast.SwitchCase](p, ast.SwitchCaseType, tok.Start())
		switch {
		case p.l.ConsumeToken("case") != nil:
			sc.Test = p.must(withIn(p, true, p.parseExpression))
		case p.l.ConsumeToken("default") != nil:
			if hasDefault {
				p.error(tok.Start(), "More than one default clause in switch statement")
			}
			hasDefault = true
		default:
			p.unexpected()
		}
		p.expect(":")
		sc.Consequent = []ast.Node{}
		for next := p.l.Token(); next != nil && !next.IsPunctuator("}") && !(next.Type == lexer.Keyword && (next.Value == "case" || next.Value == "default")); next = p.l.Token() {
			sc.Consequent = append(sc.Consequent, p.parseStatementListItem())
		}
		stmt.Cases = append(stmt.Cases, completeNode(p, sc))
	}
	p.expect("}")
	return completeNode(p, stmt)
}

func (p *Parser) parseTryStatement() ast.Node {
	start := p.expect("try").Start()
	stmt := createNode[*ast.TryStatement](p, ast.TryStatementType, start)
	stmt.Block = p.parseBlockStatement()
	if tok := p.l.ConsumeToken("catch"); tok != nil {
		handler := createNode[*ast.CatchClause](p, ast.CatchClauseType, tok.Start())
		if p.l.ConsumeToken("(") != nil {
			handler.Param = p.must(p.parseBindingTarget())
			p.expect(")")
		} else if !p.features.OptionalCatchBinding {
			p.unexpected()
		}
		handler.Body = p.parseBlockStatement()
		stmt.Handler = completeNode(p, handler)
	}
	if p.l.ConsumeToken("finally") != nil {
		stmt.Finalizer = p.parseBlockStatement()
	}
	if stmt.Handler == nil && stmt.Finalizer == nil {
		p.error(p.l.CurrentPosition(), "Missing catch or finally after try")
	}
	return completeNode(p, stmt)
}

// --- Variable declarations ---

// parseVariableStatement parses a var, let or const declaration statement.
func (p *Parser) parseVariableStatement() ast.Node {
	tok := p.l.Consume()
	decl := createNode[*ast.VariableDeclaration](p, ast.VariableDeclarationType, tok.Start())
	decl.Kind = tok.Value
	decl.Declarations = p.parseVariableDeclarations(decl.Kind, false)
	if decl.Declarations == nil {
		p.unexpected()
	}
	p.assertEndOfStatement()
	return completeNode(p, decl)
}

func (p *Parser) parseVariableDeclarations(kind string, inFor bool) []*ast.VariableDeclarator {
	return charSeparatedListOf(p, func() *ast.VariableDeclarator {
		return p.parseVariableDeclarator(kind, inFor)
	}, ",")
}

func (p *Parser) parseVariableDeclarator(kind string, inFor bool) *ast.VariableDeclarator {
	start := p.l.CurrentPosition()
	id := p.parseBindingTarget()
	if id == nil {
		return nil
	}
	if ident, ok := id.(*ast.Identifier); ok && kind != "var" && ident.Name == "let" {
		p.error(ident.Loc().Start, "let is disallowed as a lexically bound name")
	}
	d := createNode[*ast.VariableDeclarator](p, ast.VariableDeclaratorType, start)
	d.ID = id
	if p.l.ConsumeToken("=") != nil {
		d.Init = p.must(p.parseAssignmentExpression())
	} else if !inFor {
		p.checkDeclaratorInit(kind, d)
	}
	return completeNode(p, d)
}

func (p *Parser) checkDeclaratorInit(kind string, d *ast.VariableDeclarator) {
	if d.Init != nil {
		return
	}
	if kind == "const" {
		p.error(d.Loc().Start, "Missing initializer in const declaration")
	}
	if _, ok := d.ID.(*ast.Identifier); !ok {
		p.error(d.Loc().Start, "Missing initializer in destructuring declaration")
	}
}

// --- Loops ---

func (p *Parser) parseForStatement() ast.Node {
	start := p.expect("for").Start()
	await := false
	if tok := p.l.Token(); tok != nil && tok.Value == "await" {
		if !p.ctx.allowAwait || !p.features.AsyncIterationGenerators {
			p.unexpected()
		}
		p.l.Consume()
		await = true
	}
	p.expect("(")

	var init ast.Node
	switch tok := p.l.Token(); {
	case tok == nil:
		p.unexpected()
	case tok.IsPunctuator(";"):
	case tok.Type == lexer.Keyword && (tok.Value == "var" || tok.Value == "const"), p.isLetDeclaration():
		p.l.Consume()
		decl := createNode[*ast.VariableDeclaration](p, ast.VariableDeclarationType, tok.Start())
		decl.Kind = tok.Value
		decl.Declarations = withIn(p, false, func() []*ast.VariableDeclarator {
			return p.parseVariableDeclarations(decl.Kind, true)
		})
		if decl.Declarations == nil {
			p.unexpected()
		}
		completeNode(p, decl)
		if len(decl.Declarations) == 1 && (p.l.Is("in") || p.l.Is("of")) {
			d := decl.Declarations[0]
			if d.Init != nil && !p.allowsForInInitializer(decl) {
				p.error(d.Loc().Start, "for-%s loop variable declaration may not have an initializer", p.l.Token().Value)
			}
			return p.parseForInOf(start, decl, await)
		}
		for _, d := range decl.Declarations {
			p.checkDeclaratorInit(decl.Kind, d)
		}
		init = decl
	default:
		expr := p.must(withIn(p, false, p.parseExpression))
		if p.l.Is("in") || p.l.Is("of") {
			if p.l.Is("of") {
				if id, ok := expr.(*ast.Identifier); ok && id.Name == "async" && !await {
					p.error(id.Loc().Start, "The left-hand side of a for-of loop may not be 'async'")
				}
			}
			return p.parseForInOf(start, p.toAssignmentTarget(expr, "for loop"), await)
		}
		init = expr
	}

	if await {
		p.unexpected()
	}
	stmt := createNode[*ast.ForStatement](p, ast.ForStatementType, start)
	stmt.Init = init
	p.expect(";")
	if !p.l.Is(";") {
		stmt.Test = p.must(withIn(p, true, p.parseExpression))
	}
	p.expect(";")
	if !p.l.Is(")") {
		stmt.Update = p.must(withIn(p, true, p.parseExpression))
	}
	p.expect(")")
	stmt.Body = p.must(p.parseStatement())
	return completeNode(p, stmt)
}

// allowsForInInitializer reports whether the legacy "for (var a = b in c)"
// form applies to decl.
func (p *Parser) allowsForInInitializer(decl *ast.VariableDeclaration) bool {
	if !p.l.Is("in") || decl.Kind != "var" || p.l.IsStrictMode() || !p.features.ForInInitializer {
		return false
	}
	_, ok := decl.Declarations[0].ID.(*ast.Identifier)
	return ok
}

func (p *Parser) parseForInOf(start source.Position, left ast.Node, await bool) ast.Node {
	if p.l.ConsumeToken("in") != nil {
		if await {
			p.error(start, "for await requires an of clause")
		}
		stmt := createNode[*ast.ForInStatement](p, ast.ForInStatementType, start)
		stmt.Left = left
		stmt.Right = p.must(withIn(p, true, p.parseExpression))
		p.expect(")")
		stmt.Body = p.must(p.parseStatement())
		return completeNode(p, stmt)
	}
	p.expect("of")
	stmt := createNode[*ast.ForOfStatement](p, ast.ForOfStatementType, start)
	stmt.Left = left
	stmt.Await = await
	stmt.Right = p.must(withIn(p, true, p.parseAssignmentExpression))
	p.expect(")")
	stmt.Body = p.must(p.parseStatement())
	return completeNode(p, stmt)
}
