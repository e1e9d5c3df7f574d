// Package parser implements a recursive descent parser for ECMAScript.
//
// The parser pulls tokens from a lexer.Lexer and builds an ast.Program. It
// supports the script and module goals, a configurable feature set that
// models the different editions, and optional attachment of comments to
// nodes. Ambiguous productions (arrow parameters, async arrows) are resolved
// by taking a lexer snapshot, trying the production and rewinding when it
// does not match.
//
// Grammar violations are fatal: they unwind the parser by panicking with an
// *errors.SyntaxError which is recovered once, at the Parse boundary.
package parser

import (
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"esparse/pkg/ast"
	"esparse/pkg/errors"
	"esparse/pkg/events"
	"esparse/pkg/features"
	"esparse/pkg/lexer"
	"esparse/pkg/source"
	"esparse/pkg/source/charset"
)

// SourceType is the goal symbol the source is parsed with.
type SourceType string

const (
	Script SourceType = "script"
	Module SourceType = "module"
)

// Options configures a Parser.
type Options struct {
	SourceType SourceType
	// Features selects the grammar. Its zero value is the ES2015 grammar;
	// DefaultOptions enables every feature.
	Features features.Features
	// SourceEncoding names the encoding of the input given to ParseBytes.
	// Empty means UTF-8 unless a byte order mark says otherwise; "auto"
	// detects the encoding.
	SourceEncoding string
	StrictEncoding bool
	// Comments enables comment attachment and, for Tokenize, comment tokens.
	Comments bool
	// JSX is the grammar extension used for JSX. Nil disables JSX.
	JSX            Extension
	ValidateRegExp bool
	Logger         *zap.Logger
	Arena          *ast.Arena
}

// DefaultOptions returns options for a script parsed with every feature.
func DefaultOptions() *Options {
	return &Options{SourceType: Script, Features: features.Latest()}
}

// context holds the grammar parameters of the production being parsed.
type context struct {
	allowIn     bool
	allowYield  bool
	allowAwait  bool
	allowReturn bool
	inParams    bool // formal parameters: yield and await expressions are errors
}

// Parser builds a syntax tree from a token stream. A Parser is single use.
type Parser struct {
	l        *lexer.Lexer
	opts     Options
	features features.Features
	module   bool
	ext      Extension

	events *events.Emitter
	arena  *ast.Arena
	logger *zap.Logger

	ctx        context
	classDepth int

	// Shorthand properties with an initializer ({a = 1}) are only valid if
	// the object literal ends up converted to a pattern.
	coverInits    []*ast.AssignmentExpression
	resolvedInits map[*ast.AssignmentExpression]bool

	// Array and object literals with a comma after a spread element. They
	// cannot become patterns when the spread is their last element.
	spreadCommas map[ast.Node]bool

	comments *commentRegistry
	used     bool
}

// New creates a parser for src. A nil opts means DefaultOptions.
func New(src string, opts *Options) *Parser {
	if opts == nil {
		opts = DefaultOptions()
	}
	chars := []rune(src)
	p := &Parser{
		opts:     *opts,
		features: opts.Features,
		module:   opts.SourceType == Module,
		ext:      opts.JSX,
		events:   events.NewEmitter(),
		arena:    opts.Arena,
		logger:   opts.Logger,
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.opts.SourceType == "" {
		p.opts.SourceType = Script
	}
	lexOpts := lexer.Options{
		Module:   p.module,
		Strict:   p.module,
		Features: opts.Features,
		Events:   p.events,
	}
	if p.ext != nil {
		lexOpts.Extension = p.ext
	}
	p.l = lexer.NewLexerRunes(chars, lexOpts)
	if opts.Comments {
		p.comments = newCommentRegistry(p.events, len(chars))
	}
	p.ctx = context{
		allowIn:    true,
		allowAwait: p.module && p.features.TopLevelAwait,
	}
	return p
}

// Parse parses the whole source and returns the Program node.
func (p *Parser) Parse() (prog *ast.Program, err error) {
	if p.used {
		return nil, pkgerrors.New("parser: Parse called twice on the same Parser")
	}
	p.used = true
	defer errors.Recover(&err)
	prog = p.parseProgram()
	return prog, nil
}

// Parse parses src with opts (nil means DefaultOptions).
func Parse(src string, opts *Options) (*ast.Program, error) {
	return New(src, opts).Parse()
}

// ParseBytes decodes data according to the encoding options and parses it.
func ParseBytes(data []byte, opts *Options) (*ast.Program, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	src, err := charset.Decode(data, opts.SourceEncoding, opts.StrictEncoding)
	if err != nil {
		return nil, err
	}
	return Parse(src, opts)
}

// Lexer returns the lexer the parser reads from. Extensions use it to
// inspect and consume tokens.
func (p *Parser) Lexer() *lexer.Lexer {
	return p.l
}

// Features returns the enabled grammar features.
func (p *Parser) Features() features.Features {
	return p.features
}

// --- Node lifecycle ---

// createNode allocates a node of type t starting at start.
func createNode[T ast.Node](p *Parser, t ast.Type, start source.Position) T {
	n := p.arena.New(t)
	n.NodeBase().SetStart(start)
	if p.events.Has(events.NodeCreated) {
		p.events.Fire(events.NodeCreated, n)
	}
	return n.(T)
}

// completeNode ends n at the last consumed token.
func completeNode[T ast.Node](p *Parser, n T) T {
	return completeNodeAt(p, n, p.l.LastConsumedEnd())
}

func completeNodeAt[T ast.Node](p *Parser, n T, end source.Position) T {
	n.NodeBase().SetEnd(end)
	if p.events.Has(events.NodeCompleted) {
		p.events.Fire(events.NodeCompleted, n)
	}
	return n
}

// --- Errors ---

// error raises a fatal syntax error at pos.
func (p *Parser) error(pos source.Position, format string, args ...interface{}) {
	panic(errors.NewSyntaxError(pos, format, args...))
}

// Errorf raises a fatal syntax error at pos. It is meant for extensions.
func (p *Parser) Errorf(pos source.Position, format string, args ...interface{}) {
	p.error(pos, format, args...)
}

// unexpected raises an error about the current token.
func (p *Parser) unexpected() {
	tok := p.l.Token()
	if tok == nil {
		p.error(p.l.CurrentPosition(), "Unexpected end of input")
	}
	p.error(tok.Start(), "Unexpected token %s", tok.Value)
}

// expect consumes the token value or fails.
func (p *Parser) expect(value string) *lexer.Token {
	if tok := p.l.ConsumeToken(value); tok != nil {
		return tok
	}
	p.unexpected()
	return nil
}

// must fails on the current token when a required production is missing.
func (p *Parser) must(n ast.Node) ast.Node {
	if ast.IsNil(n) {
		p.unexpected()
	}
	return n
}

// --- Context ---

// isolate runs fn with the grammar parameters set to ctx and restores the
// previous parameters afterwards, also when fn fails.
func isolate[T any](p *Parser, ctx context, fn func() T) T {
	saved := p.ctx
	p.ctx = ctx
	defer func() { p.ctx = saved }()
	return fn()
}

// withIn runs fn with the in operator allowed or not.
func withIn[T any](p *Parser, allowIn bool, fn func() T) T {
	ctx := p.ctx
	ctx.allowIn = allowIn
	return isolate(p, ctx, fn)
}

// charSeparatedListOf parses items with fn while sep follows. fn returns nil
// when no item starts at the current token; a separator that is not followed
// by an item is an error.
func charSeparatedListOf[T ast.Node](p *Parser, fn func() T, sep string) []T {
	var list []T
	for {
		item := fn()
		if ast.IsNil(item) {
			if len(list) > 0 {
				p.unexpected()
			}
			return nil
		}
		list = append(list, item)
		if p.l.ConsumeToken(sep) == nil {
			return list
		}
	}
}

// assertEndOfStatement applies automatic semicolon insertion: a statement
// ends at ";", before "}", at the end of input or before a line break.
func (p *Parser) assertEndOfStatement() {
	tok := p.l.Token()
	switch {
	case tok == nil:
	case tok.IsPunctuator(";"):
		p.l.Consume()
	case tok.IsPunctuator("}"), tok.NewlineBefore():
	default:
		p.unexpected()
	}
}

// --- Speculative parsing ---

type parserState struct {
	lexer      lexer.State
	coverInits int
}

func (p *Parser) saveState() parserState {
	return parserState{lexer: p.l.GetState(), coverInits: len(p.coverInits)}
}

func (p *Parser) restoreState(s parserState, production string) {
	p.logger.Debug("rewind",
		zap.String("production", production),
		zap.Int("index", p.l.CurrentPosition().Index))
	p.l.SetState(s.lexer)
	p.coverInits = p.coverInits[:s.coverInits]
}

// speculate runs fn and reports whether it matched. When fn fails with a
// syntax error or returns false the parser is rewound to where it was.
func (p *Parser) speculate(production string, fn func() bool) (ok bool) {
	state := p.saveState()
	defer func() {
		if r := recover(); r != nil {
			if _, isSyntax := r.(*errors.SyntaxError); !isSyntax {
				panic(r)
			}
			p.restoreState(state, production)
			ok = false
		}
	}()
	if !fn() {
		p.restoreState(state, production)
		return false
	}
	return true
}

// --- Program ---

func (p *Parser) parseProgram() *ast.Program {
	prog := createNode[*ast.Program](p, ast.ProgramType, source.NewPosition(1, 0, 0))
	prog.SourceType = string(p.opts.SourceType)
	prog.Body = p.parseDirectivePrologue(nil)
	for tok := p.l.Token(); tok != nil; tok = p.l.Token() {
		var item ast.Node
		if p.module {
			item = p.parseModuleItem()
		}
		if item == nil {
			item = p.parseStatementListItem()
		}
		prog.Body = append(prog.Body, item)
	}
	p.l.ConsumeEnd()
	p.checkCoverInits()
	completeNodeAt(p, prog, p.l.CurrentPosition())
	p.events.Fire(events.EndParsing, prog)
	p.logger.Debug("parsed",
		zap.String("sourceType", prog.SourceType),
		zap.Int("statements", len(prog.Body)),
		zap.Int("arenaNodes", p.arena.Allocated()))
	return prog
}

func (p *Parser) checkCoverInits() {
	for _, init := range p.coverInits {
		if !p.resolvedInits[init] {
			p.error(init.Loc().Start, "Invalid shorthand property initializer")
		}
	}
}
