package trustify

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/log"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
	"github.com/trustification/trustify-operator/pkg/monitoring"
	"github.com/trustification/trustify-operator/pkg/util/status"
)

// updateStatus writes the outcome of a pass with a single status update.
// The transition time only moves when the condition type changes.
func (r *TrustifyReconciler) updateStatus(
	ctx context.Context,
	cr *trustifyv1alpha1.Trustify,
	cond trustifyv1alpha1.WorkloadCondition,
	out *passOutcome,
) error {
	ctx, span := monitoring.StartChildSpan(ctx, "Trustify.UpdateStatus")
	defer span.End()

	prev := cr.Status.Condition
	if prev != nil && prev.Type == cond.Type {
		cond.LastTransitionTime = prev.LastTransitionTime
	} else {
		cond.LastTransitionTime = metav1.Now()
		from := "None"
		if prev != nil {
			from = string(prev.Type)
		}
		log.FromContext(ctx).Info("Condition changed", "from", from, "to", cond.Type)
		eventType := "Normal"
		if cond.Type == trustifyv1alpha1.ConditionError {
			eventType = "Warning"
		}
		r.Recorder.Eventf(cr, eventType, "ConditionChange", "%s -> %s: %s", from, cond.Type, cond.Message)
	}

	cr.Status.Condition = &cond
	meta.SetStatusCondition(&cr.Status.Conditions, status.ReadyCondition(cond, cr.Generation))
	cr.Status.ObservedGeneration = cr.Generation
	// Without a pass the node and provisioning fields keep their last values.
	if out != nil {
		cr.Status.Nodes = status.NodeSummaries(out.result)
		cr.Status.ProvisioningState = ""
		if cr.IsKeycloakRequired() {
			cr.Status.ProvisioningState = string(out.progress.State)
		}
	}

	if err := r.Status().Update(ctx, cr); err != nil {
		monitoring.RecordSpanError(span, err)
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}
