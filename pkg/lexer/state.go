package lexer

import (
	"slices"

	"esparse/pkg/events"
)

// State is a snapshot of the whole scanner, used by the parser to try a
// production and rewind when it does not match.
type State struct {
	pos, line, column, prevEnd int
	strict                     bool

	current, next             *Token
	currentLoaded, nextLoaded bool

	raw          rawState
	lastConsumed *Token
	pending      []*Token
	eofComments  []*Token

	snapshot *events.Snapshot
}

// GetState captures the scanner state. Pending lookahead tokens are scanned
// first, unless the current token is a slash that may still become a
// regular expression. FreezeState listeners can store their own state in
// the snapshot.
func (l *Lexer) GetState() State {
	if tok := l.Token(); tok != nil && tok.slashState == nil {
		l.NextToken()
	}
	snap := &events.Snapshot{}
	l.events.Fire(events.FreezeState, snap)
	return State{
		pos:           l.pos,
		line:          l.line,
		column:        l.column,
		prevEnd:       l.prevEnd,
		strict:        l.strict,
		current:       l.current,
		next:          l.next,
		currentLoaded: l.currentLoaded,
		nextLoaded:    l.nextLoaded,
		raw:           l.rawState(),
		lastConsumed:  l.lastConsumed,
		pending:       slices.Clone(l.pending),
		eofComments:   l.eofComments,
		snapshot:      snap,
	}
}

// SetState restores a state captured by GetState. ResetState listeners get
// the snapshot they filled when the state was captured.
func (l *Lexer) SetState(s State) {
	l.pos, l.line, l.column, l.prevEnd = s.pos, s.line, s.column, s.prevEnd
	l.strict = s.strict
	l.current, l.next = s.current, s.next
	l.currentLoaded, l.nextLoaded = s.currentLoaded, s.nextLoaded
	l.setRawState(s.raw)
	l.lastConsumed = s.lastConsumed
	l.pending = slices.Clone(s.pending)
	l.eofComments = s.eofComments
	l.events.Fire(events.ResetState, s.snapshot)
}
