package monitoring

import (
	"time"

	"github.com/trustification/trustify-operator/pkg/graph"
)

// SetWorkloadInfo sets the info-style gauge for a Trustify resource.
// Old condition labels are cleaned up via DeletePartialMatch.
func SetWorkloadInfo(name, namespace, condition string) {
	workloadInfo.DeletePartialMatch(map[string]string{
		"name":      name,
		"namespace": namespace,
	})
	workloadInfo.WithLabelValues(name, namespace, condition).Set(1)
}

// RecordNodeOutcomes counts the outcome of every node in a pass.
func RecordNodeOutcomes(r graph.Result) {
	for _, n := range r.Nodes {
		nodeOutcomesTotal.WithLabelValues(n.Name, string(n.Outcome)).Inc()
	}
}

// SetProvisioningState records how far identity provisioning got.
func SetProvisioningState(name, namespace string, index int) {
	provisioningState.WithLabelValues(name, namespace).Set(float64(index))
}

// RecordPassDuration observes the latency of a pass that ended with result.
func RecordPassDuration(result string, d time.Duration) {
	passDuration.WithLabelValues(result).Observe(d.Seconds())
}

// ForgetWorkload drops every per-workload series once the resource is gone.
func ForgetWorkload(name, namespace string) {
	labels := map[string]string{"name": name, "namespace": namespace}
	workloadInfo.DeletePartialMatch(labels)
	provisioningState.DeletePartialMatch(labels)
}
