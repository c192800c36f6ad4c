// Package graph implements the dependency graph the orchestrator walks to
// build and destroy targets: node/edge construction with cycle detection,
// successor/predecessor queries, and a deterministic topological order.
package graph

import (
	"github.com/alexisbeaulieu97/depctl/pkg/depctlerr"
)

// Dependencies is the dependency list for a single target. A target with one
// dependency and a target with several are both expressed the same way; the
// type exists so callers reading Construct's edges argument see intent
// ("this is a dependency list") rather than a bare []string.
type Dependencies []string

// Dep builds a Dependencies value from one or more target names. It exists
// so a single dependency reads as naturally as several:
// graph.Dep("base") or graph.Dep("left", "right").
func Dep(names ...string) Dependencies {
	return Dependencies(names)
}

// Graph is an immutable-after-construction directed graph of target names.
// Edges point from a target to the dependencies it needs.
type Graph struct {
	order        []string
	nodes        map[string]struct{}
	successors   map[string][]string
	predecessors map[string][]string
}

// Construct builds a Graph from the given nodes (in the order they should be
// enumerated) and edges (target -> its dependencies). Every edge endpoint
// must already appear in nodes. Construction fails with a CircularDependency
// if the declared edges contain a cycle, and with an UnknownTarget if any
// edge names a target absent from nodes.
func Construct(nodes []string, edges map[string]Dependencies) (*Graph, error) {
	g := &Graph{
		nodes:        make(map[string]struct{}, len(nodes)),
		successors:   make(map[string][]string, len(nodes)),
		predecessors: make(map[string][]string, len(nodes)),
	}

	for _, n := range nodes {
		if _, exists := g.nodes[n]; exists {
			continue
		}
		g.nodes[n] = struct{}{}
		g.order = append(g.order, n)
	}

	known := g.order

	for target := range edges {
		if _, ok := g.nodes[target]; !ok {
			return nil, depctlerr.NewUnknownTarget(target, known)
		}
	}

	// Record edges in node insertion order so predecessor lists do not
	// depend on map iteration order.
	for _, target := range g.order {
		for _, dep := range edges[target] {
			if _, ok := g.nodes[dep]; !ok {
				return nil, depctlerr.NewUnknownTarget(dep, known)
			}
			g.successors[target] = append(g.successors[target], dep)
			g.predecessors[dep] = append(g.predecessors[dep], target)
		}
	}

	if cycle := detectCycle(g.order, g.successors); cycle != nil {
		return nil, depctlerr.NewCircularDependency(cycle)
	}

	return g, nil
}

// Nodes returns the graph's node names in insertion order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.order...)
}

// Successors returns n's dependencies (what n needs), in declaration order.
func (g *Graph) Successors(n string) ([]string, error) {
	if _, ok := g.nodes[n]; !ok {
		return nil, depctlerr.NewUnknownTarget(n, g.order)
	}
	return append([]string(nil), g.successors[n]...), nil
}

// Predecessors returns the targets that depend on n (who needs n).
func (g *Graph) Predecessors(n string) ([]string, error) {
	if _, ok := g.nodes[n]; !ok {
		return nil, depctlerr.NewUnknownTarget(n, g.order)
	}
	return append([]string(nil), g.predecessors[n]...), nil
}

// TopologicalOrder returns a valid build order: every target's dependencies
// appear before it. Targets with no dependencies are taken in insertion
// order, and every other target is queued as soon as its last dependency has
// been placed, so the result is deterministic for a given graph.
func (g *Graph) TopologicalOrder() []string {
	indegree := make(map[string]int, len(g.order))
	for _, n := range g.order {
		indegree[n] = len(g.successors[n])
	}

	var ready []string
	for _, n := range g.order {
		if indegree[n] == 0 {
			ready = append(ready, n)
		}
	}

	var result []string
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		result = append(result, n)

		for _, dependent := range g.predecessors[n] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	return result
}

// detectCycle runs a DFS with an explicit visiting stack over the
// successors adjacency and returns the first cycle path found (e.g.
// []string{"a", "b", "a"}), or nil if the graph is acyclic.
func detectCycle(order []string, successors map[string][]string) []string {
	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	state := make(map[string]int, len(order))
	var stack []string
	var cycle []string

	var dfs func(string) bool
	dfs = func(node string) bool {
		state[node] = visiting
		stack = append(stack, node)

		for _, dep := range successors[node] {
			switch state[dep] {
			case visiting:
				idx := indexOf(stack, dep)
				cycle = append(append([]string(nil), stack[idx:]...), dep)
				return true
			case unvisited:
				if dfs(dep) {
					return true
				}
			}
		}

		state[node] = visited
		stack = stack[:len(stack)-1]
		return false
	}

	for _, n := range order {
		if state[n] == unvisited {
			if dfs(n) {
				return cycle
			}
		}
	}

	return nil
}

func indexOf(stack []string, target string) int {
	for i, v := range stack {
		if v == target {
			return i
		}
	}
	return 0
}
