package trustify

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
	"github.com/trustification/trustify-operator/pkg/graph"
	"github.com/trustification/trustify-operator/pkg/resource-handler/controller/metadata"
	nodes "github.com/trustification/trustify-operator/pkg/resource-handler/controller/trustify"
	"github.com/trustification/trustify-operator/pkg/util/absent"
)

const (
	// IngressConfigName is the cluster-scoped OpenShift ingress config.
	IngressConfigName = "cluster"

	// RouterCertsNamespace and RouterCertsSecret locate the default
	// certificate of the OpenShift router.
	RouterCertsNamespace = "openshift-ingress"
	RouterCertsSecret    = "router-certs-default"
)

// IngressConfigGVK is the OpenShift cluster ingress configuration.
var IngressConfigGVK = schema.GroupVersionKind{
	Group:   "config.openshift.io",
	Version: "v1",
	Kind:    "Ingress",
}

// buildReconcileContext computes the pass context for cr. Lookups of
// objects that do not exist on this cluster leave their key unset.
func (r *TrustifyReconciler) buildReconcileContext(
	ctx context.Context,
	cr *trustifyv1alpha1.Trustify,
) (*graph.ReconcileContext, error) {
	rc := graph.NewReconcileContext()
	if err := graph.Put(rc, nodes.LabelsKey, metadata.BuildStandardLabels(cr.Name)); err != nil {
		return nil, err
	}

	var (
		hostname string
		cert     []byte
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hostname, err = r.discoverHostname(gctx, cr)
		return err
	})
	g.Go(func() error {
		var err error
		cert, err = r.discoverDefaultCert(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if hostname != "" {
		if err := graph.Put(rc, nodes.HostnameKey, hostname); err != nil {
			return nil, err
		}
	}
	if len(cert) > 0 {
		if err := graph.Put(rc, nodes.DefaultCertKey, cert); err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// discoverHostname returns the spec hostname, or "<ns>-<name>.<domain>" when
// the cluster publishes an ingress domain.
func (r *TrustifyReconciler) discoverHostname(ctx context.Context, cr *trustifyv1alpha1.Trustify) (string, error) {
	if cr.Spec.Hostname != nil && cr.Spec.Hostname.Hostname != "" {
		return cr.Spec.Hostname.Hostname, nil
	}

	ingress := &unstructured.Unstructured{}
	ingress.SetGroupVersionKind(IngressConfigGVK)
	if err := r.Get(ctx, client.ObjectKey{Name: IngressConfigName}, ingress); err != nil {
		if absent.Is(err) {
			log.FromContext(ctx).V(1).Info("No cluster ingress domain found")
			return "", nil
		}
		return "", fmt.Errorf("failed to get ingress config: %w", err)
	}

	domain, _, _ := unstructured.NestedString(ingress.Object, "spec", "domain")
	if domain == "" {
		return "", nil
	}
	return fmt.Sprintf("%s-%s.%s", cr.Namespace, cr.Name, domain), nil
}

// discoverDefaultCert returns the PEM certificate of the default router.
func (r *TrustifyReconciler) discoverDefaultCert(ctx context.Context) ([]byte, error) {
	secret := &corev1.Secret{}
	key := client.ObjectKey{Namespace: RouterCertsNamespace, Name: RouterCertsSecret}
	if err := r.Get(ctx, key, secret); err != nil {
		if absent.Is(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get default router certificate: %w", err)
	}
	return secret.Data[corev1.TLSCertKey], nil
}
