package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"esparse/pkg/source"
)

// Error is the interface implemented by all esparse errors.
type Error interface {
	error
	Pos() source.Position
	Kind() string // "Syntax" or "Encoding"
	// Message returns the specific error message without position info.
	Message() string
	Unwrap() error
}

// SyntaxError represents a malformed token or a grammar violation.
type SyntaxError struct {
	source.Position
	Msg   string
	Cause error // Underlying cause, if any
}

// NewSyntaxError creates a SyntaxError at pos with a formatted message.
func NewSyntaxError(pos source.Position, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Position: pos, Msg: fmt.Sprintf(format, args...)}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *SyntaxError) Pos() source.Position { return e.Position }
func (e *SyntaxError) Kind() string         { return "Syntax" }
func (e *SyntaxError) Message() string      { return e.Msg }
func (e *SyntaxError) Unwrap() error        { return e.Cause }
func (e *SyntaxError) CausedBy(cause error) *SyntaxError {
	e.Cause = cause
	return e
}

// MarshalJSON renders the error as {"message": ..., "position": {...}}.
func (e *SyntaxError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Message  string          `json:"message"`
		Position source.Position `json:"position"`
	}{e.Msg, e.Position})
}

// EncodingError is raised when the raw input cannot be decoded. It has no
// meaningful source position: the failure happens before positions exist.
type EncodingError struct {
	Msg   string
	Cause error
}

func (e *EncodingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Encoding Error: %s: %v", e.Msg, e.Cause)
	}
	return fmt.Sprintf("Encoding Error: %s", e.Msg)
}
func (e *EncodingError) Pos() source.Position { return source.Position{} }
func (e *EncodingError) Kind() string         { return "Encoding" }
func (e *EncodingError) Message() string      { return e.Msg }
func (e *EncodingError) Unwrap() error        { return e.Cause }

// MarshalJSON renders the error as {"message": ...}.
func (e *EncodingError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Message string `json:"message"`
	}{e.Msg})
}

// --- Error Reporting ---

// DisplayErrors writes a list of errors to w in a user-friendly format,
// including the source line and position marker.
func DisplayErrors(w io.Writer, src string, errs []Error) {
	if len(errs) == 0 {
		return
	}

	lines := strings.Split(src, "\n")

	for _, err := range errs {
		pos := err.Pos()
		kind := err.Kind()
		msg := err.Message()

		// Encoding errors and out of range lines get no source excerpt
		lineIdx := pos.Line - 1
		if kind == "Encoding" || lineIdx < 0 || lineIdx >= len(lines) {
			fmt.Fprintf(w, "%s Error: %s\n", kind, msg)
			continue
		}

		sourceLine := strings.TrimRight(lines[lineIdx], "\r\n\t ")

		// Format: <Kind> Error at <Line>:<Column>: <Message>
		fmt.Fprintf(w, "%s Error at %d:%d: %s\n", kind, pos.Line, pos.Column, msg)
		fmt.Fprintf(w, "  %s\n", sourceLine)

		// Column is a character index, tabs are kept so the caret lines up
		var marker strings.Builder
		for i, r := range []rune(sourceLine) {
			if i >= pos.Column {
				break
			}
			if r == '\t' {
				marker.WriteRune('\t')
			} else {
				marker.WriteRune(' ')
			}
		}
		marker.WriteRune('^')
		fmt.Fprintf(w, "  %s\n", marker.String())
		fmt.Fprintln(w)
	}
}

// Recover turns a panicking *SyntaxError into an error stored in *err.
// Any other panic value is re-raised. Use it as a deferred call at API
// boundaries of code that signals fatal errors by panicking.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if se, ok := r.(*SyntaxError); ok {
		*err = se
		return
	}
	panic(r)
}
