package graph

import (
	"errors"
	"fmt"
)

// ErrKeyAlreadySet is returned when a ReconcileContext key is written twice.
var ErrKeyAlreadySet = errors.New("reconcile context key already set")

// Key identifies a typed value stored in a ReconcileContext.
type Key[V any] struct {
	name string
}

// NewKey returns a key for values of type V.
func NewKey[V any](name string) Key[V] {
	return Key[V]{name: name}
}

// String returns the key name.
func (k Key[V]) String() string {
	return k.name
}

// ReconcileContext carries values computed once per reconcile pass and shared
// by every node evaluated in that pass. Each key may be written only once.
//
// A ReconcileContext belongs to a single pass and is not safe for concurrent
// use.
type ReconcileContext struct {
	values map[string]any
}

// NewReconcileContext returns an empty context for one pass.
func NewReconcileContext() *ReconcileContext {
	return &ReconcileContext{values: make(map[string]any)}
}

// Put stores v under k. It fails if k has already been written in this pass.
func Put[V any](rc *ReconcileContext, k Key[V], v V) error {
	if _, exists := rc.values[k.name]; exists {
		return fmt.Errorf("%w: %s", ErrKeyAlreadySet, k.name)
	}
	rc.values[k.name] = v
	return nil
}

// Lookup returns the value stored under k and whether it was present.
func Lookup[V any](rc *ReconcileContext, k Key[V]) (V, bool) {
	var zero V
	if rc == nil {
		return zero, false
	}
	raw, ok := rc.values[k.name]
	if !ok {
		return zero, false
	}
	v, ok := raw.(V)
	return v, ok
}

// Has reports whether k has been written.
func Has[V any](rc *ReconcileContext, k Key[V]) bool {
	_, ok := Lookup(rc, k)
	return ok
}
