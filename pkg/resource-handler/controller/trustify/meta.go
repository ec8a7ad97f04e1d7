package trustify

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
	"github.com/trustification/trustify-operator/pkg/cluster-handler/names"
	"github.com/trustification/trustify-operator/pkg/graph"
	"github.com/trustification/trustify-operator/pkg/resource-handler/controller/metadata"
)

// objectMeta returns the metadata of the child of cr with the given suffix.
func objectMeta(
	cr *trustifyv1alpha1.Trustify,
	rc *graph.ReconcileContext,
	suffix names.Suffix,
	component string,
) metav1.ObjectMeta {
	labels := labelsFrom(rc)
	if labels == nil {
		labels = metadata.BuildStandardLabels(cr.Name)
	}
	return metav1.ObjectMeta{
		Name:      names.Child(cr.Name, suffix),
		Namespace: cr.Namespace,
		Labels:    metadata.WithComponent(labels, component),
	}
}
