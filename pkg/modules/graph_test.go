package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphTopologicalOrder(t *testing.T) {
	g := NewGraph()
	for _, m := range []string{"main.js", "a.js", "b.js", "shared.js"} {
		g.AddModule(m, nil)
	}
	g.AddDependency("main.js", "a.js")
	g.AddDependency("main.js", "b.js")
	g.AddDependency("a.js", "shared.js")
	g.AddDependency("b.js", "shared.js")
	g.AddDependency("b.js", "shared.js")

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"shared.js", "a.js", "b.js", "main.js"}, order)

	assert.Equal(t, 2, g.ImportCount("shared.js"))
	assert.Equal(t, []string{"shared.js"}, g.Dependencies("b.js"))
	assert.Equal(t, 2, g.Depth("main.js"))
	assert.Equal(t, 0, g.Depth("shared.js"))
	assert.Empty(t, g.CircularModules())
}

func TestGraphCycles(t *testing.T) {
	g := NewGraph()
	for _, m := range []string{"a.js", "b.js", "c.js", "leaf.js"} {
		g.AddModule(m, nil)
	}
	g.AddDependency("a.js", "b.js")
	g.AddDependency("b.js", "c.js")
	g.AddDependency("c.js", "a.js")
	g.AddDependency("c.js", "leaf.js")

	_, err := g.TopologicalOrder()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular dependency")
	assert.Equal(t, []string{"a.js", "b.js", "c.js"}, g.CircularModules())
	assert.Equal(t, 3, g.Depth("a.js"))
}

func TestGraphExternal(t *testing.T) {
	g := NewGraph()
	g.AddModule("main.js", &ParseResult{ModulePath: "main.js"})
	g.AddExternal("react")
	g.AddDependency("main.js", "react")

	assert.True(t, g.IsExternal("react"))
	assert.False(t, g.IsExternal("main.js"))
	assert.Nil(t, g.Result("react"))
	assert.Equal(t, "main.js", g.Result("main.js").ModulePath)
	assert.Equal(t, []string{"main.js", "react"}, g.Modules())

	g.AddModule("react", &ParseResult{ModulePath: "react"})
	assert.False(t, g.IsExternal("react"))
}
