package parser

import (
	"esparse/pkg/ast"
	"esparse/pkg/lexer"
	"esparse/pkg/source"
)

// --- Classes ---

func (p *Parser) parseClassDeclaration(start source.Position, optionalName bool) ast.Node {
	decl := createNode[*ast.ClassDeclaration](p, ast.ClassDeclarationType, start)
	p.parseClass(&decl.Class, optionalName)
	return completeNode(p, decl)
}

func (p *Parser) parseClassExpression() ast.Node {
	expr := createNode[*ast.ClassExpression](p, ast.ClassExpressionType, p.l.CurrentPosition())
	p.parseClass(&expr.Class, true)
	return completeNode(p, expr)
}

// parseClass parses a class from the "class" keyword on. All parts of a
// class are strict mode code.
func (p *Parser) parseClass(c *ast.Class, optionalName bool) {
	p.expect("class")
	wasStrict := p.l.IsStrictMode()
	p.l.SetStrictMode(true)

	if tok := p.l.Token(); tok != nil && tok.Type == lexer.Identifier {
		c.ID = p.parseIdentifier(identBinding)
	}
	if c.ID == nil && !optionalName {
		p.unexpected()
	}
	if p.l.ConsumeToken("extends") != nil {
		c.SuperClass = p.must(p.parseLeftHandSideExpression())
	}
	c.Body = p.parseClassBody()
	p.l.SetStrictMode(wasStrict)
}

func (p *Parser) parseClassBody() *ast.ClassBody {
	start := p.l.CurrentPosition()
	p.expect("{")
	body := createNode[*ast.ClassBody](p, ast.ClassBodyType, start)
	body.Body = []ast.Node{}

	p.classDepth++
	defer func() { p.classDepth-- }()

	hasConstructor := false
	for !p.l.Is("}") {
		if p.l.ConsumeToken(";") != nil {
			continue
		}
		elem := p.parseClassElement()
		if m, ok := elem.(*ast.MethodDefinition); ok && m.Kind == "constructor" {
			if hasConstructor {
				p.error(m.Loc().Start, "A class may only have one constructor")
			}
			hasConstructor = true
		}
		body.Body = append(body.Body, elem)
	}
	p.expect("}")
	return completeNode(p, body)
}

// isModifier reports whether the current token is word used as a modifier
// (static, async, get, set) rather than as a member name, by checking the
// token that follows it.
func (p *Parser) isModifier(word string) bool {
	tok := p.l.Token()
	if tok == nil || tok.Value != word {
		return false
	}
	next := p.l.NextToken()
	if next == nil {
		return false
	}
	if next.Type == lexer.Punctuator {
		switch next.Value {
		case "(", "=", ";", "}":
			return false
		}
	}
	return word != "async" || !next.NewlineBefore()
}

func (p *Parser) parseClassElement() ast.Node {
	start := p.l.CurrentPosition()

	static := false
	if p.isModifier("static") {
		p.l.Consume()
		static = true
		if p.l.Is("{") {
			if !p.features.ClassStaticBlock {
				p.unexpected()
			}
			return p.parseStaticBlock(start)
		}
	}

	async := false
	if p.features.AsyncAwait && p.isModifier("async") {
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
	kind := "method"
	if !async && !generator && (p.isModifier("get") || p.isModifier("set")) {
		kind = p.l.Consume().Value
	}

	keyTok := p.l.Token()
	key, computed := p.parsePropertyKey(true)
	if key == nil {
		p.unexpected()
	}
	name := ""
	if !computed {
		name = propertyKeyName(key)
	}
	_, private := key.(*ast.PrivateIdentifier)
	if private && name == "constructor" {
		p.error(keyTok.Start(), "Classes may not have a private field named '#constructor'")
	}
	if static && name == "prototype" && !private {
		p.error(keyTok.Start(), "Classes may not have a static property named 'prototype'")
	}

	if p.l.Is("(") {
		if name == "constructor" && !static && !private {
			if kind != "method" || async || generator {
				p.error(keyTok.Start(), "Class constructor may not be a special method")
			}
			kind = "constructor"
		}
		method := createNode[*ast.MethodDefinition](p, ast.MethodDefinitionType, start)
		method.Key, method.Computed, method.Static = key, computed, static
		method.Kind = kind
		method.Value = p.parseMethod(kind, async, generator)
		return completeNode(p, method)
	}

	// Field definition
	if kind != "method" || async || generator || !p.features.ClassFields {
		p.unexpected()
	}
	if name == "constructor" && !private {
		p.error(keyTok.Start(), "Classes may not have a field named 'constructor'")
	}
	field := createNode[*ast.PropertyDefinition](p, ast.PropertyDefinitionType, start)
	field.Key, field.Computed, field.Static = key, computed, static
	if p.l.ConsumeToken("=") != nil {
		field.Value = p.must(isolate(p, context{allowIn: true}, p.parseAssignmentExpression))
	}
	p.assertEndOfStatement()
	return completeNode(p, field)
}

func (p *Parser) parseStaticBlock(start source.Position) ast.Node {
	p.expect("{")
	block := createNode[*ast.StaticBlock](p, ast.StaticBlockType, start)
	block.Body = isolate(p, context{allowIn: true}, p.parseStatementList)
	p.expect("}")
	return completeNode(p, block)
}

// propertyKeyName returns the static name of a non computed property key.
func propertyKeyName(key ast.Node) string {
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Name
	case *ast.StringLiteral:
		return k.Value
	case *ast.PrivateIdentifier:
		return k.Name
	}
	return ""
}
