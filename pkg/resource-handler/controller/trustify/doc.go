// Package trustify declares the child resources of a Trustify deployment as
// graph nodes.
//
// Two graphs are built. The identity graph holds the objects that must exist
// before the Keycloak operator can bring up an identity server: its TLS
// secret and its PostgreSQL instance. The main graph holds the Trustify
// database, API server, UI and ingress. Both are evaluated by a
// graph.Scheduler on every pass.
//
// Values discovered once per pass are passed to the nodes through the
// graph.ReconcileContext keys declared in this package.
package trustify
