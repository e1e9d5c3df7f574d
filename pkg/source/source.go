package source

import "path/filepath"

// SourceFile represents a source file with its decoded content and metadata
type SourceFile struct {
	Name    string // Display name (e.g., "script.js", "<stdin>")
	Path    string // Full file path (empty for stdin/eval)
	Content string // The decoded source code
	chars   []rune // Cached decoded characters (lazy initialization)
}

// NewSourceFile creates a new source file
func NewSourceFile(name, path, content string) *SourceFile {
	return &SourceFile{
		Name:    name,
		Path:    path,
		Content: content,
	}
}

// NewStdinSource creates a source file for stdin input
func NewStdinSource(content string) *SourceFile {
	return &SourceFile{
		Name:    "<stdin>",
		Content: content,
	}
}

// Chars returns the content as a slice of decoded characters (cached).
// Positions produced by the lexer index into this slice.
func (sf *SourceFile) Chars() []rune {
	if sf.chars == nil {
		sf.chars = []rune(sf.Content)
	}
	return sf.chars
}

// Len returns the number of decoded characters in the source.
func (sf *SourceFile) Len() int {
	return len(sf.Chars())
}

// Slice returns the text between two character offsets.
func (sf *SourceFile) Slice(start, end int) string {
	chars := sf.Chars()
	if start < 0 {
		start = 0
	}
	if end > len(chars) {
		end = len(chars)
	}
	if start >= end {
		return ""
	}
	return string(chars[start:end])
}

// DisplayPath returns the best path for display (prefers Path, falls back to Name)
func (sf *SourceFile) DisplayPath() string {
	if sf.Path != "" {
		return sf.Path
	}
	return sf.Name
}

// FromFile creates a SourceFile from a file path and already decoded content
func FromFile(filePath, content string) *SourceFile {
	name := filepath.Base(filePath)
	return NewSourceFile(name, filePath, content)
}
