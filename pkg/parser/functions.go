package parser

import (
	"esparse/pkg/ast"
	"esparse/pkg/lexer"
	"esparse/pkg/source"
)

// functionInfo describes the function whose parameters and body are being
// checked.
type functionInfo struct {
	id        *ast.Identifier
	params    []ast.Node
	async     bool
	generator bool
	arrow     bool
	method    bool
}

// --- Function declarations and expressions ---

// parseFunctionDeclaration parses a function declaration. In an export
// default declaration the name is optional.
func (p *Parser) parseFunctionDeclaration(start source.Position, async, optionalName bool) ast.Node {
	if async {
		p.l.Consume()
	}
	p.expect("function")
	generator := p.parseGeneratorStar(async)
	decl := createNode[*ast.FunctionDeclaration](p, ast.FunctionDeclarationType, start)
	decl.Async, decl.Generator = async, generator
	if tok := p.l.Token(); tok == nil || !tok.IsPunctuator("(") || !optionalName {
		decl.ID = p.parseIdentifier(identBinding)
		if decl.ID == nil {
			p.unexpected()
		}
	}
	p.parseFunctionRest(&decl.Function)
	return completeNode(p, decl)
}

// parseFunctionExpression parses "function" or "async function" in
// expression position.
func (p *Parser) parseFunctionExpression() ast.Node {
	start := p.l.CurrentPosition()
	async := p.isAsyncFunction()
	if async {
		p.l.Consume()
	}
	p.expect("function")
	generator := p.parseGeneratorStar(async)
	expr := createNode[*ast.FunctionExpression](p, ast.FunctionExpressionType, start)
	expr.Async, expr.Generator = async, generator
	if !p.l.Is("(") {
		// The name of a function expression follows its own yield and await rules
		ctx := p.ctx
		ctx.allowYield, ctx.allowAwait = generator, async
		expr.ID = isolate(p, ctx, func() *ast.Identifier { return p.parseIdentifier(identBinding) })
		if expr.ID == nil {
			p.unexpected()
		}
	}
	p.parseFunctionRest(&expr.Function)
	return completeNode(p, expr)
}

func (p *Parser) parseGeneratorStar(async bool) bool {
	tok := p.l.Token()
	if !tok.IsPunctuator("*") {
		return false
	}
	if async && !p.features.AsyncIterationGenerators {
		p.unexpected()
	}
	p.l.Consume()
	return true
}

// parseFunctionRest parses the parameters and the body of fn.
func (p *Parser) parseFunctionRest(fn *ast.Function) {
	fn.Params = p.parseFunctionParams(fn.Async, fn.Generator)
	fn.Body = p.parseFunctionBody(functionInfo{
		id:        fn.ID,
		params:    fn.Params,
		async:     fn.Async,
		generator: fn.Generator,
	})
}

// parseMethod parses the parameters and body of an object or class method.
// The FunctionExpression starts at the parameter list.
func (p *Parser) parseMethod(kind string, async, generator bool) *ast.FunctionExpression {
	fn := createNode[*ast.FunctionExpression](p, ast.FunctionExpressionType, p.l.CurrentPosition())
	fn.Async, fn.Generator = async, generator
	fn.Params = p.parseFunctionParams(async, generator)
	switch kind {
	case "get":
		if len(fn.Params) != 0 {
			p.error(fn.Loc().Start, "Getter must not have any formal parameters")
		}
	case "set":
		if len(fn.Params) != 1 {
			p.error(fn.Loc().Start, "Setter must have exactly one formal parameter")
		}
		if _, ok := fn.Params[0].(*ast.RestElement); ok {
			p.error(fn.Params[0].Loc().Start, "Setter function argument must not be a rest parameter")
		}
	}
	fn.Body = p.parseFunctionBody(functionInfo{
		params:    fn.Params,
		async:     async,
		generator: generator,
		method:    true,
	})
	return completeNode(p, fn)
}

// --- Parameters ---

func (p *Parser) parseFunctionParams(async, generator bool) []ast.Node {
	ctx := context{allowIn: true, allowAwait: async, allowYield: generator, inParams: true}
	return isolate(p, ctx, p.parseFormalParameters)
}

// parseFormalParameters parses a parenthesized parameter list.
func (p *Parser) parseFormalParameters() []ast.Node {
	p.expect("(")
	params := []ast.Node{}
	for !p.l.Is(")") {
		if rest := p.parseRestElement(); rest != nil {
			params = append(params, rest)
			if p.l.Is(",") {
				p.error(p.l.CurrentPosition(), "Rest parameter must be last formal parameter")
			}
			break
		}
		params = append(params, p.must(p.parseBindingElement()))
		if p.l.ConsumeToken(",") == nil {
			break
		}
		if p.l.Is(")") && !p.features.TrailingCommaFunctionCallDeclaration {
			p.unexpected()
		}
	}
	p.expect(")")
	return params
}

// --- Bodies ---

// parseFunctionBody parses a function body. The body is strict when the
// surrounding code is, or when it starts with a "use strict" directive; in
// the latter case the name and parameters are validated again.
func (p *Parser) parseFunctionBody(info functionInfo) *ast.BlockStatement {
	start := p.l.CurrentPosition()
	p.expect("{")
	block := createNode[*ast.BlockStatement](p, ast.BlockStatementType, start)
	wasStrict := p.l.IsStrictMode()
	ctx := context{
		allowIn:     true,
		allowReturn: true,
		allowYield:  info.generator,
		allowAwait:  info.async,
	}
	block.Body = isolate(p, ctx, func() []ast.Node {
		body := p.parseDirectivePrologue(func(pos source.Position) {
			if !isSimpleParameterList(info.params) {
				p.error(pos, "Illegal 'use strict' directive in function with non-simple parameter list")
			}
		})
		p.checkParams(info)
		return append(body, p.parseStatementList()...)
	})
	p.expect("}")
	p.l.SetStrictMode(wasStrict)
	return completeNode(p, block)
}

func isSimpleParameterList(params []ast.Node) bool {
	for _, param := range params {
		if param.Type().IsPattern() {
			return false
		}
	}
	return true
}

// checkParams validates the function name and parameter names once the
// strictness of the body is known.
func (p *Parser) checkParams(info functionInfo) {
	strict := p.l.IsStrictMode()
	if strict && info.id != nil {
		p.checkStrictBinding(info.id)
	}
	unique := strict || info.arrow || info.method || !isSimpleParameterList(info.params)
	seen := make(map[string]bool)
	for _, param := range info.params {
		for _, id := range boundNames(param) {
			if strict {
				p.checkStrictBinding(id)
			}
			if unique && seen[id.Name] {
				p.error(id.Loc().Start, "Duplicate parameter name not allowed in this context")
			}
			seen[id.Name] = true
		}
	}
}

// checkStrictBinding rejects names that cannot be bound in strict mode code.
func (p *Parser) checkStrictBinding(id *ast.Identifier) {
	switch {
	case id.Name == "eval" || id.Name == "arguments":
		p.error(id.Loc().Start, "Unexpected eval or arguments in strict mode")
	case lexer.IsStrictKeyword(id.Name):
		p.error(id.Loc().Start, "Unexpected strict mode reserved word")
	}
}

// boundNames returns the identifiers bound by a binding target.
func boundNames(target ast.Node) []*ast.Identifier {
	var names []*ast.Identifier
	var collect func(n ast.Node)
	collect = func(n ast.Node) {
		switch t := n.(type) {
		case *ast.Identifier:
			names = append(names, t)
		case *ast.AssignmentPattern:
			collect(t.Left)
		case *ast.RestElement:
			collect(t.Argument)
		case *ast.ArrayPattern:
			for _, el := range t.Elements {
				if !ast.IsNil(el) {
					collect(el)
				}
			}
		case *ast.ObjectPattern:
			for _, prop := range t.Properties {
				collect(prop)
			}
		case *ast.AssignmentProperty:
			collect(t.Value)
		}
	}
	collect(target)
	return names
}

// --- Arrow functions ---

// parseArrowFunction parses an arrow function, or returns nil without
// consuming anything when the current tokens do not start one.
func (p *Parser) parseArrowFunction() ast.Node {
	tok := p.l.Token()
	if tok == nil {
		return nil
	}
	start := tok.Start()
	switch {
	case tok.Type == lexer.Identifier && tok.Value == "async" && p.features.AsyncAwait && p.isAsyncArrowStart():
		var params []ast.Node
		if !p.speculate("async arrow parameters", func() bool {
			p.l.Consume()
			params = p.parseArrowParameters(true)
			return p.atArrow()
		}) {
			return nil
		}
		return p.parseArrowFunctionBody(start, params, true)
	case tok.Type == lexer.Identifier:
		next := p.l.NextToken()
		if !next.IsPunctuator("=>") || next.NewlineBefore() {
			return nil
		}
		params := p.parseArrowParameters(false)
		return p.parseArrowFunctionBody(start, params, false)
	case tok.IsPunctuator("("):
		var params []ast.Node
		if !p.speculate("arrow parameters", func() bool {
			params = p.parseArrowParameters(false)
			return p.atArrow()
		}) {
			return nil
		}
		return p.parseArrowFunctionBody(start, params, false)
	}
	return nil
}

// isAsyncArrowStart reports whether the token after "async" could start
// arrow parameters on the same line.
func (p *Parser) isAsyncArrowStart() bool {
	next := p.l.NextToken()
	return next != nil && !next.NewlineBefore() && (next.IsPunctuator("(") || next.Type == lexer.Identifier)
}

func (p *Parser) atArrow() bool {
	tok := p.l.Token()
	return tok.IsPunctuator("=>") && !tok.NewlineBefore()
}

func (p *Parser) parseArrowParameters(async bool) []ast.Node {
	ctx := p.ctx
	ctx.allowIn = true
	ctx.inParams = true
	if async {
		ctx.allowAwait = true
	}
	return isolate(p, ctx, func() []ast.Node {
		if p.l.Is("(") {
			return p.parseFormalParameters()
		}
		id := p.parseIdentifier(identBinding)
		if id == nil {
			p.unexpected()
		}
		return []ast.Node{id}
	})
}

func (p *Parser) parseArrowFunctionBody(start source.Position, params []ast.Node, async bool) ast.Node {
	p.expect("=>")
	arrow := createNode[*ast.ArrowFunctionExpression](p, ast.ArrowFunctionExpressionType, start)
	arrow.Params, arrow.Async = params, async
	info := functionInfo{params: params, async: async, arrow: true}
	if p.l.Is("{") {
		arrow.Body = p.parseFunctionBody(info)
		return completeNode(p, arrow)
	}
	p.checkParams(info)
	ctx := context{allowIn: p.ctx.allowIn, allowAwait: async}
	arrow.Body = p.must(isolate(p, ctx, p.parseAssignmentExpression))
	arrow.Expression = true
	return completeNode(p, arrow)
}
