package graph

// Outcome is the result of evaluating one node in one pass.
type Outcome string

const (
	OutcomeInactive  Outcome = "Inactive"
	OutcomeCreated   Outcome = "Created"
	OutcomeUpdated   Outcome = "Updated"
	OutcomeUnchanged Outcome = "Unchanged"
	OutcomeBlocked   Outcome = "BlockedOnDependency"
	OutcomeFailed    Outcome = "Failed"
)

// Applied reports whether the node finished without blocking or failing.
func (o Outcome) Applied() bool {
	switch o {
	case OutcomeInactive, OutcomeCreated, OutcomeUpdated, OutcomeUnchanged:
		return true
	}
	return false
}

// NodeResult records what happened to one node.
type NodeResult struct {
	Name    string
	Outcome Outcome

	// HasReadiness is true when the node declares a readiness predicate.
	HasReadiness bool
	// Ready is the predicate's value, or true when there is none or the node
	// is inactive.
	Ready bool

	// Message explains a Blocked or Failed outcome.
	Message string
	// Warning carries a configuration problem that did not block the node.
	Warning string

	Err error
}

// Result is the ordered list of node results for one pass.
type Result struct {
	Nodes []NodeResult
	index map[string]int
}

func (r *Result) add(nr NodeResult) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	r.index[nr.Name] = len(r.Nodes)
	r.Nodes = append(r.Nodes, nr)
}

// Get returns the result for the named node, if it was evaluated.
func (r Result) Get(name string) (NodeResult, bool) {
	i, ok := r.index[name]
	if !ok {
		return NodeResult{}, false
	}
	return r.Nodes[i], true
}

// Failed returns every node whose outcome is Failed, in evaluation order.
func (r Result) Failed() []NodeResult {
	var out []NodeResult
	for _, n := range r.Nodes {
		if n.Outcome == OutcomeFailed {
			out = append(out, n)
		}
	}
	return out
}

// Warnings returns every node with a configuration warning.
func (r Result) Warnings() []NodeResult {
	var out []NodeResult
	for _, n := range r.Nodes {
		if n.Warning != "" {
			out = append(out, n)
		}
	}
	return out
}

// Converged reports whether every node was applied and every declared
// readiness predicate holds.
func (r Result) Converged() bool {
	for _, n := range r.Nodes {
		if !n.Outcome.Applied() || !n.Ready {
			return false
		}
	}
	return true
}

// Append records a result produced outside a scheduler, such as a step the
// control loop runs between graphs. Its name must not clash with a node's.
func (r *Result) Append(nr NodeResult) {
	r.add(nr)
}

// Merge appends the nodes of other, which must come from a different graph.
func (r *Result) Merge(other Result) {
	for _, n := range other.Nodes {
		r.add(n)
	}
}
