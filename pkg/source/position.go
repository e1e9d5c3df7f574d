package source

import "fmt"

// Position represents a specific point in the decoded source text.
// Line is 1-based, Column is 0-based (character index within the line) and
// Index is the 0-based character offset from the beginning of the source.
// Offsets count decoded characters, not bytes.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Index  int `json:"index"`
}

// NewPosition creates a new position.
func NewPosition(line, column, index int) Position {
	return Position{Line: line, Column: column, Index: index}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SourceLocation is the span covered by a token or a node.
type SourceLocation struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Len returns the number of characters covered by the location.
func (l SourceLocation) Len() int {
	return l.End.Index - l.Start.Index
}

// Contains reports whether other lies entirely inside l.
func (l SourceLocation) Contains(other SourceLocation) bool {
	return l.Start.Index <= other.Start.Index && other.End.Index <= l.End.Index
}

func (l SourceLocation) String() string {
	return fmt.Sprintf("%s-%s", l.Start, l.End)
}
