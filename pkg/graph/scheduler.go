package graph

import (
	"context"
	"fmt"
	"reflect"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Scheduler evaluates a Graph against the cluster for one owner per call.
// It keeps no state between calls.
type Scheduler[O client.Object] struct {
	Client client.Client
	// Scheme is used to set the owner as controller of every applied object.
	// Owner references are skipped when nil.
	Scheme *runtime.Scheme
	// Recorder is optional.
	Recorder record.EventRecorder
	Graph    *Graph[O]
}

// Run evaluates every node once, in topological order. API errors do not
// stop the pass: they fail the node and block its dependents only.
func (s *Scheduler[O]) Run(ctx context.Context, owner O, rc *ReconcileContext) Result {
	var result Result
	for _, name := range s.Graph.order {
		node := s.Graph.nodes[name]
		nr := s.evaluate(ctx, node, owner, rc, &result)
		result.add(nr)
	}
	return result
}

func (s *Scheduler[O]) evaluate(
	ctx context.Context,
	node Node[O],
	owner O,
	rc *ReconcileContext,
	prior *Result,
) NodeResult {
	l := log.FromContext(ctx).WithValues("node", node.Name)
	nr := NodeResult{Name: node.Name, HasReadiness: node.IsReady != nil}

	// Validation runs for inactive nodes too.
	if node.Validate != nil {
		nr.Warning = node.Validate(owner)
	}

	if !node.active(owner, rc) {
		l.V(1).Info("Node inactive")
		nr.Outcome = OutcomeInactive
		nr.Ready = true
		return nr
	}

	if reason, blocked := blockedBy(node, prior); blocked {
		l.V(1).Info("Node blocked", "reason", reason)
		nr.Outcome = OutcomeBlocked
		nr.Message = reason
		return nr
	}

	if node.Precondition != nil {
		if ok, reason := node.Precondition(owner, rc); !ok {
			l.V(1).Info("Node precondition not met", "reason", reason)
			nr.Outcome = OutcomeBlocked
			nr.Message = reason
			return nr
		}
	}

	desired, err := node.Desired(ctx, owner, rc)
	if err != nil {
		return s.fail(ctx, owner, nr, fmt.Errorf("failed to build desired object: %w", err))
	}
	if s.Scheme != nil {
		if err := ctrl.SetControllerReference(owner, desired, s.Scheme); err != nil {
			return s.fail(ctx, owner, nr, fmt.Errorf("failed to set controller reference: %w", err))
		}
	}

	live := emptyLike(desired)
	err = s.Client.Get(ctx, client.ObjectKeyFromObject(desired), live)
	switch {
	case apierrors.IsNotFound(err):
		if err := generate(ctx, node, owner, desired); err != nil {
			return s.fail(ctx, owner, nr, err)
		}
		if err := s.Client.Create(ctx, desired); err != nil {
			return s.fail(ctx, owner, nr, fmt.Errorf("failed to create %s: %w", desired.GetName(), err))
		}
		l.Info("Created object", "name", desired.GetName())
		s.event(owner, "Normal", "Created", "Created %s %s", node.Name, desired.GetName())
		nr.Outcome = OutcomeCreated
		live = desired
	case err != nil:
		return s.fail(ctx, owner, nr, fmt.Errorf("failed to get %s: %w", desired.GetName(), err))
	case node.Matches == nil || node.Matches(live, desired):
		nr.Outcome = OutcomeUnchanged
	default:
		if err := generate(ctx, node, owner, desired); err != nil {
			return s.fail(ctx, owner, nr, err)
		}
		desired.SetResourceVersion(live.GetResourceVersion())
		if err := s.Client.Update(ctx, desired); err != nil {
			return s.fail(ctx, owner, nr, fmt.Errorf("failed to update %s: %w", desired.GetName(), err))
		}
		l.Info("Updated object", "name", desired.GetName())
		s.event(owner, "Normal", "Updated", "Updated %s %s", node.Name, desired.GetName())
		nr.Outcome = OutcomeUpdated
		live = desired
	}

	nr.Ready = true
	if node.IsReady != nil {
		nr.Ready = node.IsReady(live)
	}
	return nr
}

func generate[O client.Object](ctx context.Context, node Node[O], owner O, desired client.Object) error {
	if node.Generate == nil {
		return nil
	}
	if err := node.Generate(ctx, owner, desired); err != nil {
		return fmt.Errorf("failed to generate %s: %w", desired.GetName(), err)
	}
	return nil
}

// blockedBy reports the first dependency that prevents node from running.
// Inactive dependencies count as ready.
func blockedBy[O client.Object](node Node[O], prior *Result) (string, bool) {
	for _, dep := range node.DependsOn {
		r, ok := prior.Get(dep)
		switch {
		case !ok:
			return fmt.Sprintf("dependency %s was not evaluated", dep), true
		case !r.Outcome.Applied():
			return fmt.Sprintf("dependency %s is %s", dep, r.Outcome), true
		case !r.Ready:
			return fmt.Sprintf("dependency %s is not ready", dep), true
		}
	}
	return "", false
}

func (s *Scheduler[O]) fail(ctx context.Context, owner O, nr NodeResult, err error) NodeResult {
	log.FromContext(ctx).Error(err, "Node failed", "node", nr.Name)
	s.event(owner, "Warning", "NodeFailed", "%s: %v", nr.Name, err)
	nr.Outcome = OutcomeFailed
	nr.Message = err.Error()
	nr.Err = err
	return nr
}

func (s *Scheduler[O]) event(owner O, eventType, reason, format string, args ...any) {
	if s.Recorder == nil {
		return
	}
	s.Recorder.Eventf(owner, eventType, reason, format, args...)
}

// emptyLike returns a zero object of the same concrete type as obj, ready to
// be filled by a Get.
func emptyLike(obj client.Object) client.Object {
	if u, ok := obj.(*unstructured.Unstructured); ok {
		out := &unstructured.Unstructured{}
		out.SetGroupVersionKind(u.GroupVersionKind())
		return out
	}
	return reflect.New(reflect.TypeOf(obj).Elem()).Interface().(client.Object)
}
