// Package absent classifies API errors that mean an object is not on the
// cluster, either because it does not exist or because its kind is not served.
//
// Kinds from other operators (Keycloak, OLM, the OpenShift ingress config)
// are only served once their CRDs are installed. A lookup or delete of such
// a kind on a cluster without them fails with a RESTMapper error instead of
// NotFound.
package absent

import (
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/runtime"
)

// Is reports whether err means the object, or its whole kind, does not exist
// on the cluster.
func Is(err error) bool {
	return apierrors.IsNotFound(err) || meta.IsNoMatchError(err) || runtime.IsNotRegisteredError(err)
}

// Ignore returns nil when Is(err), and err otherwise.
func Ignore(err error) error {
	if Is(err) {
		return nil
	}
	return err
}
