package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceFileSlice(t *testing.T) {
	sf := FromFile("/tmp/src/a.js", "let π = 3;")
	assert.Equal(t, "a.js", sf.Name)
	assert.Equal(t, "/tmp/src/a.js", sf.DisplayPath())
	assert.Equal(t, 10, sf.Len())

	assert.Equal(t, "π", sf.Slice(4, 5))
	assert.Equal(t, "let", sf.Slice(-3, 3))
	assert.Equal(t, "3;", sf.Slice(8, 99))
	assert.Equal(t, "", sf.Slice(5, 4))

	assert.Equal(t, "<stdin>", NewStdinSource("x").DisplayPath())
}

func TestSourceLocation(t *testing.T) {
	outer := SourceLocation{Start: NewPosition(1, 0, 0), End: NewPosition(2, 3, 12)}
	inner := SourceLocation{Start: NewPosition(1, 4, 4), End: NewPosition(1, 8, 8)}

	assert.True(t, outer.Contains(inner))
	assert.True(t, outer.Contains(outer))
	assert.False(t, inner.Contains(outer))
	assert.Equal(t, 12, outer.Len())
	assert.Equal(t, "1:0-2:3", outer.String())
}
