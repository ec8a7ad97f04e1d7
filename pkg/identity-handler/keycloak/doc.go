// Package keycloak provisions the embedded identity server of a Trustify
// workload through the Keycloak operator.
//
// Provisioning walks a fixed chain of stages: subscribe to the operator via
// OLM, wait for its ClusterServiceVersion, create a Keycloak server, wait for
// it, import the trustify realm and wait for the import. The stage reached is
// recomputed from live objects on every call and never stored, so every
// step checks whether its object already exists before creating it.
//
// All external kinds are handled as unstructured objects; the operator does
// not link against the OLM or Keycloak APIs.
package keycloak
