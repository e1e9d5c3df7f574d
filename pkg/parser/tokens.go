package parser

import (
	"esparse/pkg/events"
	"esparse/pkg/lexer"
)

// tokenRecorder keeps the tokens consumed by the parser. Tokens consumed by a
// speculative parse that is rewound are dropped again.
type tokenRecorder struct {
	tokens   []*lexer.Token
	comments bool
}

func newTokenRecorder(em *events.Emitter, comments bool) *tokenRecorder {
	r := &tokenRecorder{comments: comments}
	em.On(events.TokenConsumed, func(payload any) {
		c := payload.(*lexer.Consumed)
		if r.comments {
			r.tokens = append(r.tokens, c.Comments...)
		}
		if c.Token != nil {
			r.tokens = append(r.tokens, c.Token)
		}
	})
	em.On(events.FreezeState, func(payload any) {
		payload.(*events.Snapshot).Save(r, len(r.tokens))
	})
	em.On(events.ResetState, func(payload any) {
		if n, ok := payload.(*events.Snapshot).Load(r); ok {
			r.tokens = r.tokens[:n.(int)]
		}
	})
	return r
}

// Tokenize parses src and returns its tokens in source order. Running the
// grammar is what tells a regular expression from a division. With
// opts.Comments the comment tokens are interleaved.
func Tokenize(src string, opts *Options) ([]*lexer.Token, error) {
	p := New(src, opts)
	rec := newTokenRecorder(p.events, p.opts.Comments)
	if _, err := p.Parse(); err != nil {
		return nil, err
	}
	return rec.tokens, nil
}
