// Package trustify implements the controller for the Trustify resource.
//
// One pass of the controller:
//
//  1. Discovery:
//     It computes the per-pass context: the standard labels, the public
//     hostname (from the spec or the OpenShift ingress domain) and the
//     cluster's default router certificate. The two cluster lookups run
//     concurrently.
//
//  2. Identity Infrastructure:
//     It schedules the identity graph, which holds the Keycloak TLS secret
//     and the Keycloak database. All of it is inactive unless the workload
//     uses the embedded identity server.
//
//  3. Identity Provisioning:
//     It advances the Keycloak provisioning chain (operator subscription,
//     Keycloak server, realm import). The Keycloak server is only created
//     once the identity graph has converged.
//
//  4. Application:
//     It schedules the application graph (database, API server, UI and
//     ingress). The graph is skipped while identity provisioning is
//     incomplete.
//
//  5. Status Aggregation:
//     It folds every node outcome into a single Processing, Successful or
//     Error condition, writes it with one status update and requeues until
//     the workload is Successful.
//
// Deletion removes the Keycloak server and realm import before the
// finalizer is released. Every other child is garbage collected through its
// owner reference.
package trustify
