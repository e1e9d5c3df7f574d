package parser

import (
	"strings"

	"esparse/pkg/ast"
	"esparse/pkg/events"
	"esparse/pkg/lexer"
)

// commentGroup is a run of comments found between two tokens. prev is the end
// index of the token before them, next the start index of the token after
// them (the source length at the end of input).
type commentGroup struct {
	prev, next int
	comments   []*ast.Comment
}

// commentRegistry collects comments and completed nodes while the parser
// runs and attaches the comments once the program is complete. It listens to
// the parser events only, so the grammar code is unaware of it.
type commentRegistry struct {
	length  int
	prevEnd int
	groups  []commentGroup
	nodes   []ast.Node // in completion order
}

type registryMark struct {
	prevEnd, groups, nodes int
}

func newCommentRegistry(em *events.Emitter, length int) *commentRegistry {
	r := &commentRegistry{length: length}
	em.On(events.TokenConsumed, func(payload any) {
		r.consumed(payload.(*lexer.Consumed))
	})
	em.On(events.NodeCompleted, func(payload any) {
		r.nodes = append(r.nodes, payload.(ast.Node))
	})
	em.On(events.FreezeState, func(payload any) {
		payload.(*events.Snapshot).Save(r, registryMark{r.prevEnd, len(r.groups), len(r.nodes)})
	})
	em.On(events.ResetState, func(payload any) {
		v, ok := payload.(*events.Snapshot).Load(r)
		if !ok {
			return
		}
		m := v.(registryMark)
		r.prevEnd = m.prevEnd
		r.groups = r.groups[:m.groups]
		r.nodes = r.nodes[:m.nodes]
	})
	em.On(events.EndParsing, func(payload any) {
		r.attach(payload.(*ast.Program))
	})
	return r
}

func (r *commentRegistry) consumed(c *lexer.Consumed) {
	next := r.length
	if c.Token != nil {
		next = c.Token.Start().Index
	}
	if len(c.Comments) > 0 {
		group := commentGroup{prev: r.prevEnd, next: next}
		for _, tok := range c.Comments {
			group.comments = append(group.comments, commentFromToken(tok))
		}
		r.groups = append(r.groups, group)
	}
	if c.Token != nil {
		r.prevEnd = c.Token.End().Index
	}
}

// attach places every comment group. A group leads the outermost node that
// starts right after it, otherwise trails the outermost node that ends right
// before it, otherwise trails the smallest node that encloses it.
func (r *commentRegistry) attach(prog *ast.Program) {
	live := make(map[ast.Node]bool)
	ast.Inspect(prog, func(n ast.Node) bool {
		live[n] = true
		return true
	})
	var nodes []ast.Node
	for _, n := range r.nodes {
		if live[n] && n != ast.Node(prog) {
			nodes = append(nodes, n)
		}
	}

	for _, g := range r.groups {
		if n := lastMatching(nodes, func(n ast.Node) bool { return n.NodeBase().Start() == g.next }); n != nil {
			n.NodeBase().AddLeadingComments(g.comments...)
			continue
		}
		if n := lastMatching(nodes, func(n ast.Node) bool { return n.NodeBase().End() == g.prev }); n != nil {
			n.NodeBase().AddTrailingComments(g.comments...)
			continue
		}
		var inner ast.Node = prog
		for _, n := range nodes {
			b := n.NodeBase()
			if b.Start() <= g.prev && b.End() >= g.next && (inner == ast.Node(prog) || b.Location.Len() < inner.Loc().Len()) {
				inner = n
			}
		}
		inner.NodeBase().AddTrailingComments(g.comments...)
	}
}

func lastMatching(nodes []ast.Node, match func(ast.Node) bool) ast.Node {
	for i := len(nodes) - 1; i >= 0; i-- {
		if match(nodes[i]) {
			return nodes[i]
		}
	}
	return nil
}

// commentFromToken converts a comment token to a Comment node.
func commentFromToken(tok *lexer.Token) *ast.Comment {
	c := ast.New(ast.CommentType).(*ast.Comment)
	c.SetStart(tok.Start())
	c.SetEnd(tok.End())
	c.Raw = tok.Value
	switch raw := tok.Value; {
	case strings.HasPrefix(raw, "//"):
		c.Kind, c.Text = ast.InlineComment, raw[2:]
	case strings.HasPrefix(raw, "/*"):
		c.Kind, c.Text = ast.MultilineComment, strings.TrimSuffix(raw[2:], "*/")
	case strings.HasPrefix(raw, "<!--"):
		c.Kind, c.Text = ast.HTMLOpenComment, raw[4:]
	case strings.HasPrefix(raw, "-->"):
		c.Kind, c.Text = ast.HTMLCloseComment, raw[3:]
	}
	return c
}
