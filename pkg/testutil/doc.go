// Package testutil provides helpers for controller unit tests.
//
// NewFakeClient wraps the controller-runtime fake client with a
// FailureConfig, so a test can make a single Get, Create, Update or status
// write fail and assert how the reconciler reports it:
//
//	c := testutil.NewFakeClient(scheme, &testutil.FailureConfig{
//	    OnCreate: testutil.FailOnObjectName("demo-trustify-ui-service", testutil.ErrInjected),
//	}, []client.Object{cr}, cr)
//
// Kinds served by other operators, such as Keycloak or OLM subscriptions,
// are handled as unstructured objects. AddUnstructuredKinds registers them
// with a scheme so the fake client can store and list them.
package testutil
