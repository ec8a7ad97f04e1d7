package trustify

import (
	"github.com/trustification/trustify-operator/pkg/graph"
)

var (
	// LabelsKey holds the standard labels shared by every child object.
	LabelsKey = graph.NewKey[map[string]string]("labels")

	// HostnameKey holds the public hostname, when one is configured or can
	// be derived from the cluster ingress domain.
	HostnameKey = graph.NewKey[string]("hostname")

	// DefaultCertKey holds the PEM bundle of the cluster's default router
	// certificate, when present.
	DefaultCertKey = graph.NewKey[[]byte]("default-cert")

	// IdentityInfraReadyKey is set by the control loop once the identity
	// graph has converged, so the identity server can be created.
	IdentityInfraReadyKey = graph.NewKey[bool]("identity-infra-ready")

	// IdentityReadyKey is set by the control loop once the embedded identity
	// server and its realm are ready.
	IdentityReadyKey = graph.NewKey[bool]("identity-ready")
)

// labelsFrom returns the pass labels, or nil when discovery has not run.
func labelsFrom(rc *graph.ReconcileContext) map[string]string {
	labels, _ := graph.Lookup(rc, LabelsKey)
	return labels
}
