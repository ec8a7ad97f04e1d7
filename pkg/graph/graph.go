// Package graph implements the dependency-graph reconcile engine.
//
// A Graph is a fixed set of Nodes, validated and ordered once at startup. A
// Scheduler walks that order on every reconcile pass, applying nodes whose
// dependencies are satisfied and recording one Outcome per node. Nothing is
// persisted between passes; the cluster is the source of truth.
package graph

import (
	"fmt"
	"slices"

	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/trustification/trustify-operator/pkg/graph/dag"
)

// Graph is an immutable, topologically ordered set of nodes.
type Graph[O client.Object] struct {
	nodes map[string]Node[O]
	order []string
}

// New validates the nodes and computes their evaluation order. It returns an
// error if a name is duplicated, an edge points at an unknown node, or the
// edges form a cycle.
func New[O client.Object](nodes ...Node[O]) (*Graph[O], error) {
	d := dag.NewDirectedAcyclicGraph[string]()
	byName := make(map[string]Node[O], len(nodes))

	for i, n := range nodes {
		if n.Name == "" {
			return nil, fmt.Errorf("node at index %d has no name", i)
		}
		if n.Desired == nil {
			return nil, fmt.Errorf("node %q has no desired-state function", n.Name)
		}
		if err := d.AddVertex(n.Name, i); err != nil {
			return nil, fmt.Errorf("failed to add node: %w", err)
		}
		byName[n.Name] = n
	}

	for _, n := range nodes {
		if err := d.AddDependencies(n.Name, n.DependsOn); err != nil {
			return nil, fmt.Errorf("failed to add dependencies of node %q: %w", n.Name, err)
		}
	}

	order, err := d.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("failed to order nodes: %w", err)
	}

	return &Graph[O]{nodes: byName, order: order}, nil
}

// Order returns the node names in evaluation order.
func (g *Graph[O]) Order() []string {
	return slices.Clone(g.order)
}

// Node returns the node with the given name.
func (g *Graph[O]) Node(name string) (Node[O], bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Len returns the number of nodes.
func (g *Graph[O]) Len() int {
	return len(g.order)
}
