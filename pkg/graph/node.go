package graph

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Node describes one managed child resource and the rules for reconciling it.
//
// Only Name and Desired are mandatory. A nil IsActive means always active, a
// nil Matches means the object is never updated once it exists, and a nil
// IsReady means the node has no readiness predicate.
type Node[O client.Object] struct {
	// Name is the stable identity of the node within the graph.
	Name string

	// DependsOn lists nodes that must be inactive, or applied and ready,
	// earlier in the same pass.
	DependsOn []string

	// Desired builds the full object to create. It must not mutate owner.
	Desired func(ctx context.Context, owner O, rc *ReconcileContext) (client.Object, error)

	// IsActive decides whether the node applies to this owner at all.
	IsActive func(owner O, rc *ReconcileContext) bool

	// Precondition is checked after dependencies and before any cluster
	// access. A false result blocks the node with the returned reason.
	Precondition func(owner O, rc *ReconcileContext) (bool, string)

	// Matches compares the live object with the desired one. Returning false
	// triggers an update.
	Matches func(actual, desired client.Object) bool

	// Generate fills costly parts of desired, such as key material, right
	// before it is created or updated. Matches sees desired without them.
	Generate func(ctx context.Context, owner O, desired client.Object) error

	// IsReady reads the live object's status.
	IsReady func(actual client.Object) bool

	// Validate reports configuration problems that do not stop the node from
	// being applied. It runs for inactive nodes too. An empty string means no
	// warning.
	Validate func(owner O) string
}

func (n Node[O]) active(owner O, rc *ReconcileContext) bool {
	return n.IsActive == nil || n.IsActive(owner, rc)
}
