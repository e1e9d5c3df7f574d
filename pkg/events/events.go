// Package events is the small publish/subscribe mechanism the lexer and the
// parser use to notify observers (comment tracking, token recording) of token
// and node lifecycle events.
package events

// Kind identifies an event. The set is closed.
type Kind int

const (
	// TokenConsumed carries a *lexer.Consumed.
	TokenConsumed Kind = iota
	// NodeCreated carries the freshly allocated ast.Node.
	NodeCreated
	// NodeCompleted carries the ast.Node whose span is now known.
	NodeCompleted
	// FreezeState carries the *Snapshot attached to a lexer state.
	FreezeState
	// ResetState carries the *Snapshot of the state being restored.
	ResetState
	// EndParsing carries the finished *ast.Program.
	EndParsing

	numKinds
)

var kindNames = [numKinds]string{
	TokenConsumed: "TokenConsumed",
	NodeCreated:   "NodeCreated",
	NodeCompleted: "NodeCompleted",
	FreezeState:   "FreezeState",
	ResetState:    "ResetState",
	EndParsing:    "EndParsing",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "Unknown"
	}
	return kindNames[k]
}

// Handler receives the payload of an event.
type Handler func(payload any)

// Emitter dispatches events to handlers registered per kind.
// The zero value is ready to use.
type Emitter struct {
	slots [numKinds][]Handler
}

// NewEmitter creates an empty emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// On registers h for events of kind k. Handlers run in registration order.
func (e *Emitter) On(k Kind, h Handler) {
	e.slots[k] = append(e.slots[k], h)
}

// Has reports whether at least one handler listens to k.
func (e *Emitter) Has(k Kind) bool {
	return e != nil && len(e.slots[k]) > 0
}

// Fire invokes every handler registered for k with payload.
func (e *Emitter) Fire(k Kind, payload any) {
	if e == nil {
		return
	}
	for _, h := range e.slots[k] {
		h(payload)
	}
}

// Snapshot lets listeners store their own state next to a lexer snapshot so
// that it can be restored transactionally on ResetState.
type Snapshot struct {
	entries map[any]any
}

// Save stores v under key.
func (s *Snapshot) Save(key, v any) {
	if s.entries == nil {
		s.entries = make(map[any]any)
	}
	s.entries[key] = v
}

// Load returns the value stored under key.
func (s *Snapshot) Load(key any) (any, bool) {
	v, ok := s.entries[key]
	return v, ok
}
