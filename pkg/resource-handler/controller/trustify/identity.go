package trustify

import (
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
	"github.com/trustification/trustify-operator/pkg/cert"
	"github.com/trustification/trustify-operator/pkg/cluster-handler/names"
	"github.com/trustification/trustify-operator/pkg/graph"
)

const (
	NodeKeycloakTLS = "keycloak-tls"

	identityComponent = "keycloak"

	annotationDNSNames = "trustify.org/dns-names"
)

// keycloakDNSNames are the names the identity server is reached by inside
// the cluster.
func keycloakDNSNames(cr *trustifyv1alpha1.Trustify) []string {
	svc := names.Child(cr.Name, names.KeycloakService)
	return []string{
		fmt.Sprintf("%s.%s.svc", svc, cr.Namespace),
		svc,
		fmt.Sprintf("%s.%s.svc.cluster.local", svc, cr.Namespace),
	}
}

// KeycloakTLSSecretName returns the secret the identity server serves
// HTTPS with: the one from the spec, or the generated one.
func KeycloakTLSSecretName(cr *trustifyv1alpha1.Trustify) string {
	if o := cr.Spec.OIDC; o != nil && o.Embedded != nil && o.Embedded.TLSSecret != "" {
		return o.Embedded.TLSSecret
	}
	return names.Child(cr.Name, names.KeycloakTLSSecret)
}

func keycloakTLSNode() graph.Node[*trustifyv1alpha1.Trustify] {
	return graph.Node[*trustifyv1alpha1.Trustify]{
		Name: NodeKeycloakTLS,
		IsActive: func(cr *trustifyv1alpha1.Trustify, _ *graph.ReconcileContext) bool {
			return cr.IsKeycloakRequired() &&
				KeycloakTLSSecretName(cr) == names.Child(cr.Name, names.KeycloakTLSSecret)
		},
		Desired: func(_ context.Context, cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) (client.Object, error) {
			return buildKeycloakTLSSecret(cr, rc), nil
		},
		Matches: keycloakTLSMatches,
		Generate: func(_ context.Context, _ *trustifyv1alpha1.Trustify, desired client.Object) error {
			return issueKeycloakCertificate(desired.(*corev1.Secret))
		},
	}
}

// keycloakTLSMatches keeps the live certificate unless it is close to
// expiry or was issued for other names than the desired ones.
func keycloakTLSMatches(actual, desired client.Object) bool {
	a, ok := actual.(*corev1.Secret)
	if !ok {
		return false
	}
	return !cert.NeedsRenewal(a.Data[corev1.TLSCertKey], tlsDNSNames(desired))
}

func tlsDNSNames(secret client.Object) []string {
	v := secret.GetAnnotations()[annotationDNSNames]
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

// buildKeycloakTLSSecret returns the secret without key material. The
// certificate is only issued when the secret has to be written.
func buildKeycloakTLSSecret(cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) *corev1.Secret {
	meta := objectMeta(cr, rc, names.KeycloakTLSSecret, identityComponent)
	meta.Annotations = map[string]string{
		annotationDNSNames: strings.Join(keycloakDNSNames(cr), ","),
	}
	return &corev1.Secret{
		ObjectMeta: meta,
		Type:       corev1.SecretTypeTLS,
	}
}

func issueKeycloakCertificate(secret *corev1.Secret) error {
	bundle, err := cert.SelfSigned(tlsDNSNames(secret)...)
	if err != nil {
		return fmt.Errorf("failed to generate keycloak certificate: %w", err)
	}
	secret.Data = bundle.SecretData()
	return nil
}
