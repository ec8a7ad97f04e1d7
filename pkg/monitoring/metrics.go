package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

// Domain-specific metric collectors.
//
// These complement the generic controller-runtime metrics (reconcile counts,
// durations, work queue depth, etc.) with operator-specific state that the
// framework cannot know about.
var (
	workloadInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trustify_operator_workload_info",
			Help: "Info-style metric for Trustify discovery and condition tracking. Always 1.",
		},
		[]string{"name", "namespace", "condition"},
	)

	nodeOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustify_operator_node_outcomes_total",
			Help: "Number of graph node evaluations by node and outcome.",
		},
		[]string{"node", "outcome"},
	)

	provisioningState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trustify_operator_provisioning_state",
			Help: "Index of the furthest identity provisioning stage reached, 0 when absent.",
		},
		[]string{"name", "namespace"},
	)

	passDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trustify_operator_reconcile_pass_duration_seconds",
			Help:    "Latency of one Trustify reconcile pass in seconds, by aggregated condition.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)
)

func init() {
	metrics.Registry.MustRegister(Collectors()...)
}

// Collectors returns all registered metric collectors. This is useful for
// testing that metrics are properly registered.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		workloadInfo,
		nodeOutcomesTotal,
		provisioningState,
		passDuration,
	}
}
