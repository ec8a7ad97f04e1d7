package metadata

import "maps"

// Standard Kubernetes label keys following kubernetes.io conventions.
//
// See: https://kubernetes.io/docs/concepts/overview/working-with-objects/common-labels/
const (
	// LabelAppName is the standard label key for the application name. The
	// operator sets it to the Trustify resource name.
	LabelAppName = "app.kubernetes.io/name"

	// LabelAppComponent is the standard label key for the component within the
	// application.
	LabelAppComponent = "app.kubernetes.io/component"

	// LabelAppPartOf is the standard label key for the name of a higher level
	// application this one is part of.
	LabelAppPartOf = "app.kubernetes.io/part-of"

	// LabelAppManagedBy is the standard label key for the tool managing the
	// resource.
	LabelAppManagedBy = "app.kubernetes.io/managed-by"
)

const (
	// ManagedByTrustify identifies the operator managing these resources.
	ManagedByTrustify = "trustify-operator"

	// LabelCluster marks every object that belongs to a Trustify deployment.
	LabelCluster = "trustify-operator/cluster"

	// ClusterTrustify is the value of LabelCluster.
	ClusterTrustify = "trustify"

	// LabelGroup selects the pods of one tier. Services use it as their
	// selector together with LabelAppName.
	LabelGroup = "trustify-operator/group"
)

// Selector groups.
const (
	GroupDB     = "db"
	GroupServer = "server"
	GroupUI     = "ui"
	GroupOIDC   = "oidc"
)

// BuildStandardLabels builds the labels shared by every child of the
// Trustify resource crName. They are computed once per pass and stored in the
// reconcile context.
//
// Example usage:
//
//	labels := BuildStandardLabels("demo")
//	// Returns: {
//	//   "app.kubernetes.io/managed-by": "trustify-operator",
//	//   "app.kubernetes.io/name": "demo",
//	//   "app.kubernetes.io/part-of": "demo",
//	//   "trustify-operator/cluster": "trustify",
//	// }
func BuildStandardLabels(crName string) map[string]string {
	return map[string]string{
		LabelAppManagedBy: ManagedByTrustify,
		LabelAppName:      crName,
		LabelAppPartOf:    crName,
		LabelCluster:      ClusterTrustify,
	}
}

// WithComponent returns a copy of labels with the component label set.
func WithComponent(labels map[string]string, component string) map[string]string {
	out := maps.Clone(labels)
	if out == nil {
		out = make(map[string]string, 1)
	}
	out[LabelAppComponent] = component
	return out
}

// SelectorLabels returns the pod selector for one tier of crName.
func SelectorLabels(crName, group string) map[string]string {
	return map[string]string{
		LabelAppName: crName,
		LabelGroup:   group,
	}
}

// MergeLabels merges custom labels with standard labels.
//
// Note that standard labels take precedence over custom labels to prevent users
// from overriding critical operator-managed labels.
func MergeLabels(standardLabels, customLabels map[string]string) map[string]string {
	merged := make(map[string]string)

	maps.Copy(merged, customLabels)
	maps.Copy(merged, standardLabels)

	return merged
}
