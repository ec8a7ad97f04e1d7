package keycloak

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
	"github.com/trustification/trustify-operator/pkg/cluster-handler/names"
	"github.com/trustification/trustify-operator/pkg/resource-handler/controller/metadata"
	nodes "github.com/trustification/trustify-operator/pkg/resource-handler/controller/trustify"
)

const (
	// SubscriptionName is shared by every workload in a namespace.
	SubscriptionName  = "my-keycloak-operator"
	OperatorGroupName = "operatorgroup"
	// PackageName is the catalog package of the Keycloak operator.
	PackageName = "keycloak-operator"
)

var (
	SubscriptionGVK = schema.GroupVersionKind{
		Group: "operators.coreos.com", Version: "v1alpha1", Kind: "Subscription",
	}
	OperatorGroupGVK = schema.GroupVersionKind{
		Group: "operators.coreos.com", Version: "v1", Kind: "OperatorGroup",
	}
	ClusterServiceVersionGVK = schema.GroupVersionKind{
		Group: "operators.coreos.com", Version: "v1alpha1", Kind: "ClusterServiceVersion",
	}
	KeycloakGVK = schema.GroupVersionKind{
		Group: "k8s.keycloak.org", Version: "v2alpha1", Kind: "Keycloak",
	}
	RealmImportGVK = schema.GroupVersionKind{
		Group: "k8s.keycloak.org", Version: "v2alpha1", Kind: "KeycloakRealmImport",
	}
)

// GVKs lists every external kind the provisioner reads or writes.
func GVKs() []schema.GroupVersionKind {
	return []schema.GroupVersionKind{
		SubscriptionGVK,
		OperatorGroupGVK,
		ClusterServiceVersionGVK,
		KeycloakGVK,
		RealmImportGVK,
	}
}

func newObject(gvk schema.GroupVersionKind, namespace, name string) *unstructured.Unstructured {
	u := &unstructured.Unstructured{}
	u.SetGroupVersionKind(gvk)
	u.SetNamespace(namespace)
	u.SetName(name)
	return u
}

func buildSubscription(namespace string, cfg Config) *unstructured.Unstructured {
	u := newObject(SubscriptionGVK, namespace, SubscriptionName)
	u.Object["spec"] = map[string]any{
		"name":            PackageName,
		"channel":         cfg.Channel,
		"source":          cfg.Source,
		"sourceNamespace": cfg.SourceNamespace,
	}
	return u
}

func buildOperatorGroup(namespace string) *unstructured.Unstructured {
	u := newObject(OperatorGroupGVK, namespace, OperatorGroupName)
	u.Object["spec"] = map[string]any{
		"targetNamespaces": []any{namespace},
	}
	return u
}

func secretSelector(ref *corev1.SecretKeySelector) map[string]any {
	if ref == nil {
		return nil
	}
	return map[string]any{"name": ref.Name, "key": ref.Key}
}

// buildKeycloak describes a single-instance server on the workload's
// identity database, serving HTTPS with the identity TLS secret under
// KeycloakRelativePath. The operator's own ingress is disabled.
func buildKeycloak(cr *trustifyv1alpha1.Trustify) *unstructured.Unstructured {
	conn := nodes.KeycloakDBConnection(cr)
	db := map[string]any{
		"vendor":   "postgres",
		"host":     conn.Host,
		"port":     int64(conn.Port),
		"database": conn.Database,
	}
	if s := secretSelector(conn.UsernameSecret); s != nil {
		db["usernameSecret"] = s
	}
	if s := secretSelector(conn.PasswordSecret); s != nil {
		db["passwordSecret"] = s
	}

	u := newObject(KeycloakGVK, cr.Namespace, names.Child(cr.Name, names.Keycloak))
	u.SetLabels(keycloakLabels(cr))
	u.Object["spec"] = map[string]any{
		"instances": int64(1),
		"db":        db,
		"http": map[string]any{
			"tlsSecret": nodes.KeycloakTLSSecretName(cr),
		},
		"ingress": map[string]any{
			"enabled": false,
		},
		"hostname": map[string]any{
			"strict": false,
		},
		"additionalOptions": []any{
			map[string]any{"name": "http-relative-path", "value": nodes.KeycloakRelativePath},
		},
	}
	return u
}

func buildRealmImport(cr *trustifyv1alpha1.Trustify) *unstructured.Unstructured {
	u := newObject(RealmImportGVK, cr.Namespace, names.Child(cr.Name, names.KeycloakRealmImport))
	u.SetLabels(keycloakLabels(cr))
	u.Object["spec"] = map[string]any{
		"keycloakCRName": names.Child(cr.Name, names.Keycloak),
		"realm":          realm(),
	}
	return u
}

func keycloakLabels(cr *trustifyv1alpha1.Trustify) map[string]string {
	return metadata.WithComponent(metadata.BuildStandardLabels(cr.Name), "keycloak")
}

// conditionStatus returns the status and message of the named condition in
// status.conditions. Both are empty when the condition is absent.
func conditionStatus(u *unstructured.Unstructured, condType string) (status, message string) {
	conds, _, _ := unstructured.NestedSlice(u.Object, "status", "conditions")
	for _, c := range conds {
		m, ok := c.(map[string]any)
		if !ok || m["type"] != condType {
			continue
		}
		status, _ = m["status"].(string)
		message, _ = m["message"].(string)
		return status, message
	}
	return "", ""
}
