package keycloak

import (
	"errors"
	"slices"
)

// State is a provisioning stage. Later stages imply every earlier one.
type State string

const (
	StateAbsent                State = "Absent"
	StateOperatorSubscribing   State = "OperatorSubscribing"
	StateOperatorReady         State = "OperatorReady"
	StateIdentityServerCreated State = "IdentityServerCreated"
	StateIdentityServerReady   State = "IdentityServerReady"
	StateRealmCreated          State = "RealmCreated"
	StateRealmReady            State = "RealmReady"
)

var stateOrder = []State{
	StateAbsent,
	StateOperatorSubscribing,
	StateOperatorReady,
	StateIdentityServerCreated,
	StateIdentityServerReady,
	StateRealmCreated,
	StateRealmReady,
}

// Index is the position of s in the chain, or -1 for an unknown state.
func (s State) Index() int {
	return slices.Index(stateOrder, s)
}

// AtLeast reports whether s is other or a later stage.
func (s State) AtLeast(other State) bool {
	return s.Index() >= other.Index()
}

// ErrStage marks a stage that failed on the external side, as opposed to
// one that is still in progress. Callers back off longer on it.
var ErrStage = errors.New("identity provisioning stage failed")

// Progress is the outcome of one Advance call.
type Progress struct {
	// State is the furthest stage reached in this call.
	State State
	// Ready is true once the realm import is done.
	Ready bool
	// Message describes what the chain is waiting for.
	Message string
}
