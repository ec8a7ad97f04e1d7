package trustify

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
	"github.com/trustification/trustify-operator/pkg/cluster-handler/names"
	"github.com/trustification/trustify-operator/pkg/graph"
)

const (
	NodeCommonConfigMap = "common-configmap"

	// CommonCAKey holds the cluster's default router certificate.
	CommonCAKey = "service-ca.crt"
)

// commonConfigMapNode publishes the default router certificate, which
// exists only on clusters that have one.
func commonConfigMapNode() graph.Node[*trustifyv1alpha1.Trustify] {
	return graph.Node[*trustifyv1alpha1.Trustify]{
		Name: NodeCommonConfigMap,
		IsActive: func(_ *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) bool {
			return graph.Has(rc, DefaultCertKey)
		},
		Desired: func(_ context.Context, cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) (client.Object, error) {
			pem, _ := graph.Lookup(rc, DefaultCertKey)
			return &corev1.ConfigMap{
				ObjectMeta: objectMeta(cr, rc, names.CommonConfigMap, "common"),
				Data:       map[string]string{CommonCAKey: string(pem)},
			}, nil
		},
		Matches: configMapMatches,
	}
}
