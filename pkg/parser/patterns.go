package parser

import (
	"esparse/pkg/ast"
	"esparse/pkg/lexer"
)

// --- Binding patterns ---

// parseBindingTarget parses a binding identifier or a destructuring pattern.
// It returns nil when none starts at the current token.
func (p *Parser) parseBindingTarget() ast.Node {
	tok := p.l.Token()
	switch {
	case tok.IsPunctuator("["):
		return p.parseArrayBindingPattern()
	case tok.IsPunctuator("{"):
		return p.parseObjectBindingPattern()
	}
	if id := p.parseIdentifier(identBinding); id != nil {
		return id
	}
	return nil
}

// parseBindingElement parses a binding target with an optional default value.
func (p *Parser) parseBindingElement() ast.Node {
	target := p.parseBindingTarget()
	if target == nil {
		return nil
	}
	return p.parseBindingDefault(target)
}

func (p *Parser) parseBindingDefault(target ast.Node) ast.Node {
	if p.l.ConsumeToken("=") == nil {
		return target
	}
	pattern := createNode[*ast.AssignmentPattern](p, ast.AssignmentPatternType, target.Loc().Start)
	pattern.Left = target
	pattern.Right = p.must(withIn(p, true, p.parseAssignmentExpression))
	return completeNode(p, pattern)
}

// parseRestElement parses "..." followed by a binding target, or returns nil
// when the current token is not "...".
func (p *Parser) parseRestElement() ast.Node {
	tok := p.l.ConsumeToken("...")
	if tok == nil {
		return nil
	}
	rest := createNode[*ast.RestElement](p, ast.RestElementType, tok.Start())
	rest.Argument = p.must(p.parseBindingTarget())
	if p.l.Is("=") {
		p.error(p.l.CurrentPosition(), "Rest element may not have a default initializer")
	}
	return completeNode(p, rest)
}

func (p *Parser) parseArrayBindingPattern() ast.Node {
	start := p.expect("[").Start()
	pattern := createNode[*ast.ArrayPattern](p, ast.ArrayPatternType, start)
	pattern.Elements = []ast.Node{}
	for !p.l.Is("]") {
		if p.l.ConsumeToken(",") != nil {
			pattern.Elements = append(pattern.Elements, nil)
			continue
		}
		if rest := p.parseRestElement(); rest != nil {
			pattern.Elements = append(pattern.Elements, rest)
			break
		}
		pattern.Elements = append(pattern.Elements, p.must(p.parseBindingElement()))
		if !p.l.Is("]") {
			p.expect(",")
		}
	}
	p.expect("]")
	return completeNode(p, pattern)
}

func (p *Parser) parseObjectBindingPattern() ast.Node {
	start := p.expect("{").Start()
	pattern := createNode[*ast.ObjectPattern](p, ast.ObjectPatternType, start)
	pattern.Properties = []ast.Node{}
	for !p.l.Is("}") {
		if p.l.Is("...") {
			if !p.features.RestSpreadProperties {
				p.unexpected()
			}
			rest := p.parseRestElement()
			if _, ok := rest.(*ast.RestElement).Argument.(*ast.Identifier); !ok {
				p.error(rest.Loc().Start, "`...` must be followed by an identifier in declaration contexts")
			}
			pattern.Properties = append(pattern.Properties, rest)
			break
		}
		pattern.Properties = append(pattern.Properties, p.parseBindingProperty())
		if !p.l.Is("}") {
			p.expect(",")
		}
	}
	p.expect("}")
	return completeNode(p, pattern)
}

func (p *Parser) parseBindingProperty() ast.Node {
	start := p.l.CurrentPosition()
	prop := createNode[*ast.AssignmentProperty](p, ast.AssignmentPropertyType, start)
	prop.Kind = "init"

	tok := p.l.Token()
	if tok != nil && (tok.Type == lexer.Identifier || tok.Type == lexer.Keyword) && !p.l.NextIs(":") {
		id := p.parseIdentifier(identBinding)
		if id == nil {
			p.unexpected()
		}
		prop.Key = p.identifierFromToken(tok)
		prop.Value = p.parseBindingDefault(id)
		prop.Shorthand = true
		return completeNode(p, prop)
	}

	key, computed := p.parsePropertyKey(false)
	if key == nil {
		p.unexpected()
	}
	prop.Key, prop.Computed = key, computed
	p.expect(":")
	prop.Value = p.must(p.parseBindingElement())
	return completeNode(p, prop)
}

// --- Expression to pattern conversion ---

// toAssignmentTarget reinterprets an expression parsed as the left side of
// "=" (or of a for-in/of loop) as an assignment pattern.
func (p *Parser) toAssignmentTarget(expr ast.Node, what string) ast.Node {
	switch e := expr.(type) {
	case *ast.Identifier:
		p.checkSimpleTarget(e, what)
		return e
	case *ast.MemberExpression:
		return e
	case *ast.ParenthesizedExpression:
		// Only simple targets may be parenthesized
		p.checkSimpleTarget(e, what)
		return e
	case *ast.ArrayPattern, *ast.ObjectPattern:
		return e
	case *ast.ArrayExpression:
		return p.toArrayPattern(e, what)
	case *ast.ObjectExpression:
		return p.toObjectPattern(e, what)
	}
	p.error(expr.Loc().Start, "Invalid left-hand side in %s", what)
	return nil
}

// toAssignmentElement converts an element of a destructuring assignment,
// which may carry a default value.
func (p *Parser) toAssignmentElement(expr ast.Node, what string) ast.Node {
	assign, ok := expr.(*ast.AssignmentExpression)
	if !ok {
		return p.toAssignmentTarget(expr, what)
	}
	if assign.Operator != "=" {
		p.error(assign.Loc().Start, "Invalid destructuring assignment target")
	}
	if p.resolvedInits == nil {
		p.resolvedInits = make(map[*ast.AssignmentExpression]bool)
	}
	p.resolvedInits[assign] = true
	pattern := createNode[*ast.AssignmentPattern](p, ast.AssignmentPatternType, assign.Loc().Start)
	pattern.Left = p.toAssignmentTarget(assign.Left, what)
	pattern.Right = assign.Right
	return completeNodeAt(p, pattern, assign.Loc().End)
}

func (p *Parser) toRestElement(spread *ast.SpreadElement, what string) ast.Node {
	if _, ok := spread.Argument.(*ast.AssignmentExpression); ok {
		p.error(spread.Argument.Loc().Start, "Rest element may not have a default initializer")
	}
	rest := createNode[*ast.RestElement](p, ast.RestElementType, spread.Loc().Start)
	rest.Argument = p.toAssignmentTarget(spread.Argument, what)
	return completeNodeAt(p, rest, spread.Loc().End)
}

func (p *Parser) toArrayPattern(arr *ast.ArrayExpression, what string) ast.Node {
	pattern := createNode[*ast.ArrayPattern](p, ast.ArrayPatternType, arr.Loc().Start)
	pattern.Elements = make([]ast.Node, len(arr.Elements))
	for i, el := range arr.Elements {
		switch e := el.(type) {
		case nil:
		case *ast.SpreadElement:
			if i != len(arr.Elements)-1 || p.spreadCommas[arr] {
				p.error(e.Loc().Start, "Rest element must be last element")
			}
			pattern.Elements[i] = p.toRestElement(e, what)
		default:
			pattern.Elements[i] = p.toAssignmentElement(e, what)
		}
	}
	return completeNodeAt(p, pattern, arr.Loc().End)
}

func (p *Parser) toObjectPattern(obj *ast.ObjectExpression, what string) ast.Node {
	pattern := createNode[*ast.ObjectPattern](p, ast.ObjectPatternType, obj.Loc().Start)
	pattern.Properties = make([]ast.Node, len(obj.Properties))
	for i, member := range obj.Properties {
		switch m := member.(type) {
		case *ast.SpreadElement:
			if i != len(obj.Properties)-1 || p.spreadCommas[obj] {
				p.error(m.Loc().Start, "Rest element must be last element")
			}
			rest := p.toRestElement(m, what)
			switch rest.(*ast.RestElement).Argument.(type) {
			case *ast.Identifier, *ast.MemberExpression:
			default:
				p.error(m.Loc().Start, "`...` must be followed by an assignable reference in assignment contexts")
			}
			pattern.Properties[i] = rest
		case *ast.Property:
			if m.Kind != "init" || m.Method {
				p.error(m.Loc().Start, "Invalid destructuring assignment target")
			}
			prop := createNode[*ast.AssignmentProperty](p, ast.AssignmentPropertyType, m.Loc().Start)
			prop.Key, prop.Kind = m.Key, "init"
			prop.Shorthand, prop.Computed = m.Shorthand, m.Computed
			prop.Value = p.toAssignmentElement(m.Value, what)
			pattern.Properties[i] = completeNodeAt(p, prop, m.Loc().End)
		}
	}
	return completeNodeAt(p, pattern, obj.Loc().End)
}
