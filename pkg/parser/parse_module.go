package parser

import (
	"esparse/pkg/ast"
	"esparse/pkg/lexer"
)

// --- Module items ---

// parseModuleItem parses an import or export declaration. It returns nil
// for anything else, including import() calls and import.meta, which are
// left to the expression grammar.
func (p *Parser) parseModuleItem() ast.Node {
	tok := p.l.Token()
	if tok == nil || tok.Type != lexer.Keyword {
		return nil
	}
	switch tok.Value {
	case "import":
		if p.l.NextIs("(", ".") {
			return nil
		}
		return p.parseImportDeclaration()
	case "export":
		return p.parseExportDeclaration()
	}
	return nil
}

func (p *Parser) parseImportDeclaration() ast.Node {
	start := p.expect("import").Start()
	decl := createNode[*ast.ImportDeclaration](p, ast.ImportDeclarationType, start)
	decl.Specifiers = []ast.Node{}

	if tok := p.l.Token(); tok != nil && tok.Type == lexer.String {
		decl.Source = p.parseModuleSpecifier()
		p.assertEndOfStatement()
		return completeNode(p, decl)
	}

	if tok := p.l.Token(); tok != nil && (tok.Type == lexer.Identifier || tok.Type == lexer.Keyword) {
		if local := p.parseIdentifier(identBinding); local != nil {
			spec := createNode[*ast.ImportDefaultSpecifier](p, ast.ImportDefaultSpecifierType, local.Loc().Start)
			spec.Local = local
			decl.Specifiers = append(decl.Specifiers, completeNode(p, spec))
			if p.l.ConsumeToken(",") == nil {
				p.expectContextual("from")
				decl.Source = p.parseModuleSpecifier()
				p.assertEndOfStatement()
				return completeNode(p, decl)
			}
		}
	}

	switch {
	case p.l.Token().IsPunctuator("*"):
		tok := p.l.Consume()
		p.expectContextual("as")
		spec := createNode[*ast.ImportNamespaceSpecifier](p, ast.ImportNamespaceSpecifierType, tok.Start())
		spec.Local = p.parseIdentifier(identBinding)
		if spec.Local == nil {
			p.unexpected()
		}
		decl.Specifiers = append(decl.Specifiers, completeNode(p, spec))
	case p.l.Token().IsPunctuator("{"):
		p.l.Consume()
		for !p.l.Is("}") {
			decl.Specifiers = append(decl.Specifiers, p.parseImportSpecifier())
			if !p.l.Is("}") {
				p.expect(",")
			}
		}
		p.expect("}")
	default:
		p.unexpected()
	}
	p.expectContextual("from")
	decl.Source = p.parseModuleSpecifier()
	p.assertEndOfStatement()
	return completeNode(p, decl)
}

func (p *Parser) parseImportSpecifier() ast.Node {
	tok := p.l.Token()
	if tok == nil {
		p.unexpected()
	}
	spec := createNode[*ast.ImportSpecifier](p, ast.ImportSpecifierType, tok.Start())
	spec.Imported = p.parseModuleExportName()
	if p.isContextual("as") {
		p.l.Consume()
		spec.Local = p.parseIdentifier(identBinding)
		if spec.Local == nil {
			p.unexpected()
		}
		return completeNode(p, spec)
	}
	// Without "as" the imported name is also the local binding
	if tok.Type != lexer.Identifier || lexer.IsReservedWord(tok.Name(), true, true) {
		p.error(tok.Start(), "Unexpected reserved word %s", tok.Value)
	}
	if name := tok.Name(); name == "eval" || name == "arguments" {
		p.error(tok.Start(), "Unexpected eval or arguments in strict mode")
	}
	spec.Local = p.identifierFromToken(tok)
	return completeNode(p, spec)
}

func (p *Parser) parseExportDeclaration() ast.Node {
	start := p.expect("export").Start()
	tok := p.l.Token()
	if tok == nil {
		p.unexpected()
	}

	switch {
	case tok.IsPunctuator("*"):
		p.l.Consume()
		decl := createNode[*ast.ExportAllDeclaration](p, ast.ExportAllDeclarationType, start)
		if p.isContextual("as") {
			if !p.features.ExportedNameInExportAll {
				p.unexpected()
			}
			p.l.Consume()
			decl.Exported = p.parseModuleExportName()
		}
		p.expectContextual("from")
		decl.Source = p.parseModuleSpecifier()
		p.assertEndOfStatement()
		return completeNode(p, decl)

	case tok.Type == lexer.Keyword && tok.Value == "default":
		p.l.Consume()
		decl := createNode[*ast.ExportDefaultDeclaration](p, ast.ExportDefaultDeclarationType, start)
		decl.Declaration = p.parseExportDefault()
		return completeNode(p, decl)

	case tok.IsPunctuator("{"):
		decl := createNode[*ast.ExportNamedDeclaration](p, ast.ExportNamedDeclarationType, start)
		decl.Specifiers = p.parseExportSpecifiers()
		if p.isContextual("from") {
			p.l.Consume()
			decl.Source = p.parseModuleSpecifier()
		} else {
			p.checkLocalExports(decl.Specifiers)
		}
		p.assertEndOfStatement()
		return completeNode(p, decl)
	}

	decl := createNode[*ast.ExportNamedDeclaration](p, ast.ExportNamedDeclarationType, start)
	decl.Specifiers = []*ast.ExportSpecifier{}
	if tok.Type == lexer.Keyword && tok.Value == "var" {
		decl.Declaration = p.parseVariableStatement()
	} else {
		decl.Declaration = p.parseDeclaration()
	}
	if decl.Declaration == nil {
		p.unexpected()
	}
	return completeNode(p, decl)
}

// parseExportDefault parses what follows "export default": a function or
// class declaration whose name is optional, or an expression.
func (p *Parser) parseExportDefault() ast.Node {
	tok := p.l.Token()
	switch {
	case tok == nil:
		p.unexpected()
	case tok.Type == lexer.Keyword && tok.Value == "function":
		return p.parseFunctionDeclaration(tok.Start(), false, true)
	case p.isAsyncFunction():
		return p.parseFunctionDeclaration(tok.Start(), true, true)
	case tok.Type == lexer.Keyword && tok.Value == "class":
		return p.parseClassDeclaration(tok.Start(), true)
	}
	expr := p.must(p.parseAssignmentExpression())
	p.assertEndOfStatement()
	return expr
}

func (p *Parser) parseExportSpecifiers() []*ast.ExportSpecifier {
	p.expect("{")
	specs := []*ast.ExportSpecifier{}
	for !p.l.Is("}") {
		start := p.l.CurrentPosition()
		spec := createNode[*ast.ExportSpecifier](p, ast.ExportSpecifierType, start)
		spec.Local = p.parseModuleExportName()
		if p.isContextual("as") {
			p.l.Consume()
			spec.Exported = p.parseModuleExportName()
		} else {
			spec.Exported = p.cloneName(spec.Local)
		}
		specs = append(specs, completeNode(p, spec))
		if !p.l.Is("}") {
			p.expect(",")
		}
	}
	p.expect("}")
	return specs
}

// checkLocalExports rejects specifiers that cannot refer to a local binding,
// which is only allowed when re-exporting from another module.
func (p *Parser) checkLocalExports(specs []*ast.ExportSpecifier) {
	for _, spec := range specs {
		switch local := spec.Local.(type) {
		case *ast.StringLiteral:
			p.error(local.Loc().Start, "A string literal cannot be used as an exported binding without `from`")
		case *ast.Identifier:
			if lexer.IsReservedWord(local.Name, true, true) {
				p.error(local.Loc().Start, "Unexpected reserved word %s", local.Name)
			}
		}
	}
}

// parseModuleExportName parses an identifier name or, with arbitrary module
// namespace names, a string literal.
func (p *Parser) parseModuleExportName() ast.Node {
	tok := p.l.Token()
	if tok != nil && tok.Type == lexer.String {
		if !p.features.ArbitraryModuleNSNames {
			p.unexpected()
		}
		return p.parseLiteral()
	}
	id := p.parseIdentifierName()
	if id == nil {
		p.unexpected()
	}
	return id
}

// cloneName copies an identifier or string literal used both as the local
// and the exported name of a specifier.
func (p *Parser) cloneName(n ast.Node) ast.Node {
	switch name := n.(type) {
	case *ast.Identifier:
		id := createNode[*ast.Identifier](p, ast.IdentifierType, name.Loc().Start)
		id.Name = name.Name
		return completeNodeAt(p, id, name.Loc().End)
	case *ast.StringLiteral:
		lit := createNode[*ast.StringLiteral](p, ast.StringLiteralType, name.Loc().Start)
		lit.Value, lit.Raw = name.Value, name.Raw
		return completeNodeAt(p, lit, name.Loc().End)
	}
	return n
}

func (p *Parser) parseModuleSpecifier() *ast.StringLiteral {
	tok := p.l.Token()
	if tok == nil || tok.Type != lexer.String {
		p.unexpected()
	}
	return p.parseLiteral().(*ast.StringLiteral)
}

// isContextual reports whether the current token is the unescaped word.
func (p *Parser) isContextual(word string) bool {
	tok := p.l.Token()
	return tok != nil && tok.Type == lexer.Identifier && tok.Value == word
}

func (p *Parser) expectContextual(word string) {
	if !p.isContextual(word) {
		p.unexpected()
	}
	p.l.Consume()
}
