// Package monitoring provides Prometheus metrics and tracing helpers for
// the Trustify Operator. It exposes domain-specific gauges and counters
// that complement the generic controller-runtime metrics already registered
// by the framework.
//
// All metrics follow the naming convention trustify_operator_<metric>_<unit>
// and are registered against controller-runtime's default Prometheus registry
// on import.
//
// Usage in controllers:
//
//	monitoring.SetWorkloadInfo(cr.Name, cr.Namespace, string(cond.Type))
//	monitoring.RecordNodeOutcomes(result)
//	monitoring.SetProvisioningState(cr.Name, cr.Namespace, progress.State.Index())
package monitoring
