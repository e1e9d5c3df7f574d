package modules

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Graph records which modules import which. Modules that could not be
// resolved to a source (bare specifiers such as "react") are kept as
// external leaves.
type Graph struct {
	modules   map[string]*ParseResult // nil result for external modules
	depGraph  map[string][]string     // module -> dependencies
	depCounts map[string]int          // module -> number of importers
	external  map[string]bool
	mutex     sync.RWMutex
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		modules:   make(map[string]*ParseResult),
		depGraph:  make(map[string][]string),
		depCounts: make(map[string]int),
		external:  make(map[string]bool),
	}
}

// AddModule records a parsed module.
func (g *Graph) AddModule(modulePath string, result *ParseResult) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.modules[modulePath] = result
	delete(g.external, modulePath)
}

// AddExternal records a dependency that is not parsed.
func (g *Graph) AddExternal(modulePath string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.modules[modulePath]; !ok {
		g.modules[modulePath] = nil
		g.external[modulePath] = true
	}
}

// AddDependency records that from imports to. Repeated edges are kept once.
func (g *Graph) AddDependency(from, to string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	for _, dep := range g.depGraph[from] {
		if dep == to {
			return
		}
	}
	g.depGraph[from] = append(g.depGraph[from], to)
	g.depCounts[to]++
}

// Has reports whether the module is part of the graph.
func (g *Graph) Has(modulePath string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	_, ok := g.modules[modulePath]
	return ok
}

// IsExternal reports whether the module was recorded without a source.
func (g *Graph) IsExternal(modulePath string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	return g.external[modulePath]
}

// Result returns the parse result of a module, nil for external ones.
func (g *Graph) Result(modulePath string) *ParseResult {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	return g.modules[modulePath]
}

// Modules returns every module path, sorted.
func (g *Graph) Modules() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	return g.sortedModules()
}

func (g *Graph) sortedModules() []string {
	paths := make([]string, 0, len(g.modules))
	for p := range g.modules {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Dependencies returns the modules imported by modulePath in import order.
func (g *Graph) Dependencies(modulePath string) []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	deps := g.depGraph[modulePath]
	result := make([]string, len(deps))
	copy(result, deps)
	return result
}

// ImportCount returns how many modules import modulePath.
func (g *Graph) ImportCount(modulePath string) int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	return g.depCounts[modulePath]
}

// Depth returns the length of the longest dependency chain starting at
// modulePath. Edges closing a cycle are not followed.
func (g *Graph) Depth(modulePath string) int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	return g.depth(modulePath, make(map[string]bool))
}

func (g *Graph) depth(modulePath string, visiting map[string]bool) int {
	visiting[modulePath] = true
	defer delete(visiting, modulePath)

	maxDepth := 0
	for _, dep := range g.depGraph[modulePath] {
		if visiting[dep] {
			continue
		}
		if d := g.depth(dep, visiting) + 1; d > maxDepth {
			maxDepth = d
		}
	}
	return maxDepth
}

// CircularModules returns the sorted modules that are part of an import
// cycle.
func (g *Graph) CircularModules() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var circular []string
	for _, modulePath := range g.sortedModules() {
		if g.reaches(modulePath, modulePath, make(map[string]bool)) {
			circular = append(circular, modulePath)
		}
	}
	return circular
}

// reaches reports whether target can be reached from the dependencies of
// from.
func (g *Graph) reaches(from, target string, seen map[string]bool) bool {
	for _, dep := range g.depGraph[from] {
		if dep == target {
			return true
		}
		if seen[dep] {
			continue
		}
		seen[dep] = true
		if g.reaches(dep, target, seen) {
			return true
		}
	}
	return false
}

// TopologicalOrder returns the modules with every module after its
// dependencies. It fails when the graph has a cycle.
func (g *Graph) TopologicalOrder() ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Kahn's algorithm on the reversed edges: a module is ready once all of
	// its dependencies are placed.
	pending := make(map[string]int, len(g.modules))
	dependents := make(map[string][]string)
	for _, modulePath := range g.sortedModules() {
		pending[modulePath] = len(g.depGraph[modulePath])
		for _, dep := range g.depGraph[modulePath] {
			dependents[dep] = append(dependents[dep], modulePath)
		}
	}

	var queue, result []string
	for _, modulePath := range g.sortedModules() {
		if pending[modulePath] == 0 {
			queue = append(queue, modulePath)
		}
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)
		for _, dependent := range dependents[current] {
			pending[dependent]--
			if pending[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(result) != len(g.modules) {
		var remaining []string
		placed := make(map[string]bool, len(result))
		for _, p := range result {
			placed[p] = true
		}
		for _, p := range g.sortedModules() {
			if !placed[p] {
				remaining = append(remaining, p)
			}
		}
		return nil, errors.Errorf("circular dependency detected among modules: %v", remaining)
	}
	return result, nil
}
