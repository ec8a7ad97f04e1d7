package trustify

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
	"github.com/trustification/trustify-operator/pkg/graph"
	"github.com/trustification/trustify-operator/pkg/resource-handler/controller/metadata"
	nodes "github.com/trustification/trustify-operator/pkg/resource-handler/controller/trustify"
	"github.com/trustification/trustify-operator/pkg/testutil"
)

func ingressConfig(domain string) *unstructured.Unstructured {
	u := &unstructured.Unstructured{}
	u.SetGroupVersionKind(IngressConfigGVK)
	u.SetName(IngressConfigName)
	if domain != "" {
		u.Object["spec"] = map[string]any{"domain": domain}
	}
	return u
}

func routerCerts() *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Namespace: RouterCertsNamespace, Name: RouterCertsSecret},
		Data:       map[string][]byte{corev1.TLSCertKey: []byte("router-pem")},
	}
}

func TestBuildReconcileContext(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cr              *trustifyv1alpha1.Trustify
		objs            []client.Object
		openshift       bool
		failures        *testutil.FailureConfig
		wantHostname    string
		wantCert        string
		wantErrContains string
	}{
		"openshift cluster": {
			cr:           testCR(),
			objs:         []client.Object{ingressConfig("apps.example.com"), routerCerts()},
			openshift:    true,
			wantHostname: "trustify-demo.apps.example.com",
			wantCert:     "router-pem",
		},
		"spec hostname wins over the cluster domain": {
			cr: testCR(func(cr *trustifyv1alpha1.Trustify) {
				cr.Spec.Hostname = &trustifyv1alpha1.HostnameSpec{Hostname: "sbom.example.org"}
			}),
			objs:         []client.Object{ingressConfig("apps.example.com")},
			openshift:    true,
			wantHostname: "sbom.example.org",
		},
		"ingress config without a domain": {
			cr:        testCR(),
			objs:      []client.Object{ingressConfig("")},
			openshift: true,
		},
		"cluster without the openshift ingress kind": {
			cr: testCR(),
		},
		"router certificate lookup fails": {
			cr:        testCR(),
			openshift: true,
			failures: &testutil.FailureConfig{
				OnGet: testutil.FailOnKeyName(RouterCertsSecret, testutil.ErrNetworkTimeout),
			},
			wantErrContains: "failed to get default router certificate",
		},
		"ingress config lookup fails": {
			cr:        testCR(),
			openshift: true,
			failures: &testutil.FailureConfig{
				OnGet: testutil.FailOnKeyName(IngressConfigName, testutil.ErrPermissionError),
			},
			wantErrContains: "failed to get ingress config",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			scheme := setupScheme(t)
			mapper := meta.NewDefaultRESTMapper(nil)
			mapper.Add(corev1.SchemeGroupVersion.WithKind("Secret"), meta.RESTScopeNamespace)
			if tc.openshift {
				mapper.Add(IngressConfigGVK, meta.RESTScopeRoot)
			}
			c := fake.NewClientBuilder().
				WithScheme(scheme).
				WithRESTMapper(mapper).
				WithObjects(tc.objs...).
				WithInterceptorFuncs(tc.failures.Funcs()).
				Build()
			r := &TrustifyReconciler{Client: c, Scheme: scheme}

			rc, err := r.buildReconcileContext(t.Context(), tc.cr)
			if tc.wantErrContains != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErrContains) {
					t.Fatalf("buildReconcileContext() error = %v, want substring %q", err, tc.wantErrContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("buildReconcileContext() unexpected error: %v", err)
			}

			labels, _ := graph.Lookup(rc, nodes.LabelsKey)
			if diff := cmp.Diff(metadata.BuildStandardLabels(testName), labels); diff != "" {
				t.Errorf("labels mismatch (-want +got):\n%s", diff)
			}

			hostname, ok := graph.Lookup(rc, nodes.HostnameKey)
			if hostname != tc.wantHostname || ok != (tc.wantHostname != "") {
				t.Errorf("hostname = %q (set %v), want %q", hostname, ok, tc.wantHostname)
			}

			cert, ok := graph.Lookup(rc, nodes.DefaultCertKey)
			if string(cert) != tc.wantCert || ok != (tc.wantCert != "") {
				t.Errorf("default cert = %q (set %v), want %q", cert, ok, tc.wantCert)
			}
		})
	}
}
