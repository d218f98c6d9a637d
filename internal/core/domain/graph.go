package domain

import (
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is the dependency graph of a snapshot restricted to one platform.
// It is immutable once built and safe for concurrent reads.
type Graph struct {
	components map[string]Component
	deps       map[string][]string
	dependents map[string][]string
	order      []string
}

// BuildGraph filters the snapshot's components by platform, validates that
// the remaining dependency relation is acyclic, and precomputes a
// deterministic topological order (dependencies first, ties broken
// lexicographically).
//
// Edges to components that were filtered out by the platform do not apply on
// this host and are dropped.
func BuildGraph(snapshot *Snapshot, platform Platform) (*Graph, error) {
	g := &Graph{
		components: make(map[string]Component),
		deps:       make(map[string][]string),
		dependents: make(map[string][]string),
	}
	for _, id := range snapshot.IDs() {
		c, _ := snapshot.Component(id)
		if c.SupportsPlatform(platform) {
			g.components[id] = c
		}
	}
	for _, id := range g.ids() {
		c := g.components[id]
		for _, dep := range c.Dependencies {
			if _, ok := g.components[dep]; !ok {
				continue
			}
			g.deps[id] = append(g.deps[id], dep)
			g.dependents[dep] = append(g.dependents[dep], id)
		}
		sort.Strings(g.deps[id])
	}
	for id := range g.dependents {
		sort.Strings(g.dependents[id])
	}
	if err := g.detectCycles(); err != nil {
		return nil, err
	}
	g.order = g.topoSort()
	return g, nil
}

// Has reports whether the graph contains the given id.
func (g *Graph) Has(id string) bool {
	_, ok := g.components[id]
	return ok
}

// Component returns the component with the given id, if present.
func (g *Graph) Component(id string) (Component, bool) {
	c, ok := g.components[id]
	return c, ok
}

// Len returns the number of components in the graph.
func (g *Graph) Len() int {
	return len(g.components)
}

// IDs returns every component id in the graph in lexicographic order.
func (g *Graph) IDs() []string {
	return g.ids()
}

// Dependencies returns the direct, platform-applicable dependencies of id.
func (g *Graph) Dependencies(id string) []string {
	return g.deps[id]
}

// Dependents returns the components directly depending on id.
func (g *Graph) Dependents(id string) []string {
	return g.dependents[id]
}

// ForwardClosure returns the requested ids plus everything they transitively
// depend on: the full set that must be present for the request to function.
// Unknown ids fail with ErrUnknownComponent naming every offender.
func (g *Graph) ForwardClosure(requested []string) ([]string, error) {
	return g.closure(requested, g.deps)
}

// ReverseClosure returns the requested ids plus everything that transitively
// depends on any of them: the full set left broken if the requested ids were
// removed. Unknown ids fail with ErrUnknownComponent naming every offender.
func (g *Graph) ReverseClosure(requested []string) ([]string, error) {
	return g.closure(requested, g.dependents)
}

func (g *Graph) closure(requested []string, edges map[string][]string) ([]string, error) {
	var unknown []string
	for _, id := range requested {
		if !g.Has(id) {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, zerr.With(ErrUnknownComponent, "components", strings.Join(unknown, ", "))
	}

	seen := make(map[string]bool, len(requested))
	stack := append([]string(nil), requested...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		stack = append(stack, edges[id]...)
	}

	result := make([]string, 0, len(seen))
	for id := range seen {
		result = append(result, id)
	}
	sort.Strings(result)
	return result, nil
}

// TopoOrder returns the given ids ordered so that every dependency precedes
// its dependents. Ids not present in the graph are ignored.
func (g *Graph) TopoOrder(ids []string) []string {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	ordered := make([]string, 0, len(ids))
	for _, id := range g.order {
		if want[id] {
			ordered = append(ordered, id)
		}
	}
	return ordered
}

// ReverseTopoOrder returns the given ids ordered so that every dependent
// precedes the dependencies it relies on. This is the safe removal order.
func (g *Graph) ReverseTopoOrder(ids []string) []string {
	ordered := g.TopoOrder(ids)
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}
	return ordered
}

// detectCycles runs a DFS over the graph in lexicographic id order so that
// the same snapshot always reports the same cycle.
func (g *Graph) detectCycles() error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(g.components))
	var path []string

	var visit func(id string) error
	visit = func(id string) error {
		state[id] = visiting
		path = append(path, id)
		for _, dep := range g.deps[id] {
			switch state[dep] {
			case visiting:
				return cycleError(path, dep)
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		state[id] = done
		path = path[:len(path)-1]
		return nil
	}

	for _, id := range g.ids() {
		if state[id] == unvisited {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// cycleError names every component participating in the detected cycle.
func cycleError(path []string, repeated string) error {
	start := 0
	for i, id := range path {
		if id == repeated {
			start = i
			break
		}
	}
	members := append([]string(nil), path[start:]...)
	sort.Strings(members)
	err := zerr.With(ErrCycleDetected, "components", strings.Join(members, ", "))
	return zerr.With(err, "cycle", strings.Join(append(path[start:], repeated), " -> "))
}

// topoSort produces a deterministic dependencies-first ordering using Kahn's
// algorithm with a lexicographically sorted ready queue. Only called on
// graphs already known to be acyclic.
func (g *Graph) topoSort() []string {
	inDegree := make(map[string]int, len(g.components))
	for id := range g.components {
		inDegree[id] = len(g.deps[id])
	}
	var ready []string
	for _, id := range g.ids() {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}
	order := make([]string, 0, len(g.components))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		released := false
		for _, dep := range g.dependents[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
				released = true
			}
		}
		if released {
			sort.Strings(ready)
		}
	}
	return order
}

func (g *Graph) ids() []string {
	ids := make([]string, 0, len(g.components))
	for id := range g.components {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
