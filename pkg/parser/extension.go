package parser

import (
	"esparse/pkg/ast"
	"esparse/pkg/lexer"
)

// Extension plugs an additional grammar, such as JSX, into the parser. The
// lexer hooks scan the extension's tokens; ParsePrimary is tried before the
// core primary expressions and returns nil when it does not apply.
type Extension interface {
	lexer.Extension
	ParsePrimary(p *Parser) ast.Node
}
