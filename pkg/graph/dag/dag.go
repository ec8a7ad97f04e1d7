// Package dag implements a small directed acyclic graph with deterministic
// topological ordering.
//
// Vertices carry an Order used to break ties. TopologicalSort repeatedly
// emits the ready vertex with the lowest Order, so a vertex follows its
// dependencies as closely as declaration order allows. TopologicalSortLevels
// groups vertices by depth instead: every vertex in level N depends only on
// vertices in levels < N.
package dag

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Vertex is a node of the graph.
type Vertex[T comparable] struct {
	ID T
	// Order is the declaration order, used as a stable tie breaker.
	Order int
	// DependsOn holds the IDs this vertex must come after.
	DependsOn map[T]struct{}
}

// DirectedAcyclicGraph is a set of vertices and dependency edges that rejects
// edges which would introduce a cycle.
type DirectedAcyclicGraph[T comparable] struct {
	Vertices map[T]*Vertex[T]
}

// NewDirectedAcyclicGraph returns an empty graph.
func NewDirectedAcyclicGraph[T comparable]() *DirectedAcyclicGraph[T] {
	return &DirectedAcyclicGraph[T]{
		Vertices: make(map[T]*Vertex[T]),
	}
}

// AddVertex adds a vertex. Adding the same ID twice is an error.
func (d *DirectedAcyclicGraph[T]) AddVertex(id T, order int) error {
	if _, exists := d.Vertices[id]; exists {
		return fmt.Errorf("vertex %v already exists", id)
	}
	d.Vertices[id] = &Vertex[T]{
		ID:        id,
		Order:     order,
		DependsOn: make(map[T]struct{}),
	}
	return nil
}

// AddDependencies records that vertex `from` depends on every vertex in
// `dependencies`. The edges are rolled back if they would create a cycle.
func (d *DirectedAcyclicGraph[T]) AddDependencies(from T, dependencies []T) error {
	vertex, ok := d.Vertices[from]
	if !ok {
		return &UnknownVertexError[T]{ID: from}
	}

	added := make([]T, 0, len(dependencies))
	for _, dep := range dependencies {
		if dep == from {
			return fmt.Errorf("vertex %v cannot depend on itself", from)
		}
		if _, ok := d.Vertices[dep]; !ok {
			return &UnknownVertexError[T]{ID: dep, From: &from}
		}
		if _, exists := vertex.DependsOn[dep]; !exists {
			vertex.DependsOn[dep] = struct{}{}
			added = append(added, dep)
		}
	}

	if cyclic, cycle := d.hasCycle(); cyclic {
		for _, dep := range added {
			delete(vertex.DependsOn, dep)
		}
		return &CycleError[T]{Cycle: cycle}
	}
	return nil
}

// TopologicalSort returns every vertex ID such that each vertex comes after
// all of its dependencies. Among the vertices whose dependencies have all
// been emitted, the one with the lowest Order comes next.
func (d *DirectedAcyclicGraph[T]) TopologicalSort() ([]T, error) {
	if cyclic, cycle := d.hasCycle(); cyclic {
		return nil, &CycleError[T]{Cycle: cycle}
	}

	remaining, dependents := d.inDegrees()
	var ready []T
	for id, n := range remaining {
		if n == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]T, 0, len(d.Vertices))
	for len(ready) > 0 {
		d.sortByOrder(ready)
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		for _, dependent := range dependents[id] {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}
	return order, nil
}

// TopologicalSortLevels groups vertices into levels. Vertices in the same
// level are independent of each other and sorted by Order.
func (d *DirectedAcyclicGraph[T]) TopologicalSortLevels() ([][]T, error) {
	if cyclic, cycle := d.hasCycle(); cyclic {
		return nil, &CycleError[T]{Cycle: cycle}
	}

	remaining, dependents := d.inDegrees()
	var current []T
	for id, n := range remaining {
		if n == 0 {
			current = append(current, id)
		}
	}

	var levels [][]T
	for len(current) > 0 {
		d.sortByOrder(current)
		levels = append(levels, current)

		var next []T
		for _, id := range current {
			for _, dependent := range dependents[id] {
				remaining[dependent]--
				if remaining[dependent] == 0 {
					next = append(next, dependent)
				}
			}
		}
		current = next
	}
	return levels, nil
}

// inDegrees returns the number of dependencies of every vertex and, for every
// vertex, the vertices that depend on it.
func (d *DirectedAcyclicGraph[T]) inDegrees() (map[T]int, map[T][]T) {
	remaining := make(map[T]int, len(d.Vertices))
	dependents := make(map[T][]T, len(d.Vertices))
	for id, v := range d.Vertices {
		remaining[id] = len(v.DependsOn)
		for dep := range v.DependsOn {
			dependents[dep] = append(dependents[dep], id)
		}
	}
	return remaining, dependents
}

func (d *DirectedAcyclicGraph[T]) sortByOrder(ids []T) {
	slices.SortFunc(ids, func(a, b T) int {
		return d.Vertices[a].Order - d.Vertices[b].Order
	})
}

// hasCycle runs a depth-first search and returns the first cycle found, in
// dependency order, with the starting vertex repeated at the end.
func (d *DirectedAcyclicGraph[T]) hasCycle() (bool, []T) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[T]int, len(d.Vertices))

	ids := make([]T, 0, len(d.Vertices))
	for id := range d.Vertices {
		ids = append(ids, id)
	}
	d.sortByOrder(ids)

	var path []T
	var visit func(id T) []T
	visit = func(id T) []T {
		state[id] = visiting
		path = append(path, id)

		deps := make([]T, 0, len(d.Vertices[id].DependsOn))
		for dep := range d.Vertices[id].DependsOn {
			deps = append(deps, dep)
		}
		d.sortByOrder(deps)

		for _, dep := range deps {
			switch state[dep] {
			case visiting:
				start := slices.Index(path, dep)
				cycle := slices.Clone(path[start:])
				return append(cycle, dep)
			case unvisited:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}

		path = path[:len(path)-1]
		state[id] = done
		return nil
	}

	for _, id := range ids {
		if state[id] == unvisited {
			if cycle := visit(id); cycle != nil {
				return true, cycle
			}
		}
	}
	return false, nil
}

// CycleError is returned when an edge would close a cycle.
type CycleError[T comparable] struct {
	Cycle []T
}

func (e *CycleError[T]) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, id := range e.Cycle {
		parts[i] = fmt.Sprint(id)
	}
	return "graph contains a cycle: " + strings.Join(parts, " -> ")
}

// AsCycleError returns err as a *CycleError, or nil if it is not one.
func AsCycleError[T comparable](err error) *CycleError[T] {
	var cycleErr *CycleError[T]
	if errors.As(err, &cycleErr) {
		return cycleErr
	}
	return nil
}

// UnknownVertexError is returned when an edge references a missing vertex.
type UnknownVertexError[T comparable] struct {
	ID   T
	From *T
}

func (e *UnknownVertexError[T]) Error() string {
	if e.From != nil {
		return fmt.Sprintf("vertex %v depends on unknown vertex %v", *e.From, e.ID)
	}
	return fmt.Sprintf("unknown vertex %v", e.ID)
}
