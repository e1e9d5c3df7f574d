package lexer

import (
	"unicode/utf8"
)

// LSM (longest sequence matcher) finds the longest member of a fixed
// vocabulary of character sequences starting at a given offset.
type LSM struct {
	handleEncoding bool
	entries        map[rune]*lsmEntry
}

type lsmEntry struct {
	maxLength int
	// unit key -> original sequence
	sequences map[string]string
}

// NewLSM creates a matcher for sequences. When handleEncoding is set,
// sequences and input are compared character by character (multi-byte UTF-8
// characters count as one unit); otherwise byte by byte.
func NewLSM(sequences []string, handleEncoding bool) *LSM {
	m := &LSM{handleEncoding: handleEncoding, entries: make(map[rune]*lsmEntry)}
	for _, s := range sequences {
		m.Add(s)
	}
	return m
}

func (m *LSM) units(s string) []rune {
	if m.handleEncoding {
		return []rune(s)
	}
	u := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		u[i] = rune(s[i])
	}
	return u
}

// Add registers a sequence.
func (m *LSM) Add(sequence string) {
	u := m.units(sequence)
	if len(u) == 0 {
		return
	}
	e, ok := m.entries[u[0]]
	if !ok {
		e = &lsmEntry{sequences: make(map[string]string)}
		m.entries[u[0]] = e
	}
	e.sequences[string(u)] = sequence
	if len(u) > e.maxLength {
		e.maxLength = len(u)
	}
}

// Remove unregisters a sequence and recomputes the maximum length of the
// sequences sharing its first unit.
func (m *LSM) Remove(sequence string) {
	u := m.units(sequence)
	if len(u) == 0 {
		return
	}
	e, ok := m.entries[u[0]]
	if !ok {
		return
	}
	delete(e.sequences, string(u))
	if len(e.sequences) == 0 {
		delete(m.entries, u[0])
		return
	}
	e.maxLength = 0
	for key := range e.sequences {
		if n := len([]rune(key)); n > e.maxLength {
			e.maxLength = n
		}
	}
}

// Has reports whether sequence is registered.
func (m *LSM) Has(sequence string) bool {
	u := m.units(sequence)
	if len(u) == 0 {
		return false
	}
	e, ok := m.entries[u[0]]
	if !ok {
		return false
	}
	_, ok = e.sequences[string(u)]
	return ok
}

// Match returns the longest registered sequence found in units starting at
// index, together with the number of units it spans.
func (m *LSM) Match(units []rune, index int) (int, string, bool) {
	if index >= len(units) {
		return 0, "", false
	}
	e, ok := m.entries[units[index]]
	if !ok {
		return 0, "", false
	}
	if e.maxLength == 1 {
		return 1, e.sequences[string(units[index:index+1])], true
	}
	consumed, match := 0, ""
	for n := 1; n <= e.maxLength && index+n <= len(units); n++ {
		if seq, ok := e.sequences[string(units[index:index+n])]; ok {
			consumed, match = n, seq
		}
	}
	return consumed, match, consumed > 0
}

// MatchString is Match for raw strings. offset and the returned count are
// expressed in bytes.
func (m *LSM) MatchString(s string, offset int) (int, string, bool) {
	if offset >= len(s) {
		return 0, "", false
	}
	var units []rune
	var widths []int
	for i := offset; i < len(s); {
		r, w := rune(s[i]), 1
		if m.handleEncoding {
			r, w = utf8.DecodeRuneInString(s[i:])
		}
		if len(units) == 0 {
			if _, ok := m.entries[r]; !ok {
				return 0, "", false
			}
		}
		units = append(units, r)
		widths = append(widths, w)
		if len(units) >= m.entries[units[0]].maxLength {
			break
		}
		i += w
	}
	n, match, ok := m.Match(units, 0)
	if !ok {
		return 0, "", false
	}
	bytes := 0
	for _, w := range widths[:n] {
		bytes += w
	}
	return bytes, match, true
}
