package modules

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverCanResolve(t *testing.T) {
	resolver := NewResolver(fstest.MapFS{})

	tests := []struct {
		specifier  string
		canResolve bool
	}{
		{"./relative.js", true},
		{"../parent.js", true},
		{"/absolute.js", true},
		{"bare-module", false},
		{"@scoped/module", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.canResolve, resolver.CanResolve(tt.specifier), tt.specifier)
	}
}

func TestResolverResolve(t *testing.T) {
	fsys := fstest.MapFS{
		"src/main.js":         {Data: []byte("")},
		"src/util.mjs":        {Data: []byte("")},
		"src/lib/index.js":    {Data: []byte("")},
		"src/exact.js":        {Data: []byte("")},
		"shared/constants.js": {Data: []byte("")},
	}
	resolver := NewResolver(fsys)

	tests := []struct {
		specifier string
		from      string
		expected  string
	}{
		{"./exact.js", "src/main.js", "src/exact.js"},
		{"./util", "src/main.js", "src/util.mjs"},
		{"./lib", "src/main.js", "src/lib/index.js"},
		{"../shared/constants", "src/main.js", "shared/constants.js"},
		{"/shared/constants.js", "src/main.js", "shared/constants.js"},
		{"./src/main.js", "", "src/main.js"},
	}
	for _, tt := range tests {
		t.Run(tt.specifier, func(t *testing.T) {
			resolved, err := resolver.Resolve(tt.specifier, tt.from)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resolved)
		})
	}

	_, err := resolver.Resolve("./missing", "src/main.js")
	assert.ErrorContains(t, err, "module not found")
	_, err = resolver.Resolve("../../outside.js", "src/main.js")
	assert.ErrorContains(t, err, "escapes the root")
	_, err = resolver.Resolve("pkg", "src/main.js")
	assert.Error(t, err)
}

func TestCrawl(t *testing.T) {
	fsys := fstest.MapFS{
		"main.js":       {Data: []byte(`import {a} from "./a.js"; import b from "./b"; import React from "react";`)},
		"a.js":          {Data: []byte(`import {shared} from "./lib/shared.js"; export const a = 1;`)},
		"b.js":          {Data: []byte(`export {shared as default} from "./lib/shared.js"; import("./lazy.js");`)},
		"lazy.js":       {Data: []byte(`export default 1;`)},
		"lib/shared.js": {Data: []byte(`export const shared = {};`)},
	}
	config := DefaultPoolConfig()
	config.NumWorkers = 2

	graph, err := Crawl(context.Background(), fsys, []string{"main.js"}, config)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.js", "b.js", "lazy.js", "lib/shared.js", "main.js", "react"}, graph.Modules())
	assert.Equal(t, []string{"a.js", "b.js", "react"}, graph.Dependencies("main.js"))
	assert.True(t, graph.IsExternal("react"))
	assert.Equal(t, 2, graph.ImportCount("lib/shared.js"))
	assert.Equal(t, 2, graph.Depth("main.js"))

	order, err := graph.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, "main.js", order[len(order)-1])

	result := graph.Result("a.js")
	require.NotNil(t, result)
	assert.NoError(t, result.Error)
	assert.Equal(t, "a", result.ExportSpecs[0].ExportName)
}

func TestCrawlReportsParseErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"main.js":   {Data: []byte(`import "./broken.js";`)},
		"broken.js": {Data: []byte(`export const = 1;`)},
	}
	graph, err := Crawl(context.Background(), fsys, []string{"main.js"}, nil)
	require.NoError(t, err)
	require.True(t, graph.Has("broken.js"))
	assert.Error(t, graph.Result("broken.js").Error)
}

func TestCrawlMissingFile(t *testing.T) {
	fsys := fstest.MapFS{
		"main.js": {Data: []byte(`import "./missing.js";`)},
	}
	_, err := Crawl(context.Background(), fsys, []string{"main.js"}, nil)
	assert.ErrorContains(t, err, "module not found")

	_, err = Crawl(context.Background(), fsys, []string{"nope.js"}, nil)
	assert.ErrorContains(t, err, "reading nope.js")
}
