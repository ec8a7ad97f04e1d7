// Package metadata provides the labels shared by every object the operator
// manages for a Trustify resource.
//
// The functions here are component-agnostic. Callers pass the component and
// selector group they are building for.
package metadata
