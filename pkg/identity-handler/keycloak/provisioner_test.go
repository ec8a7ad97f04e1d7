package keycloak

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
	"github.com/trustification/trustify-operator/pkg/cluster-handler/names"
	"github.com/trustification/trustify-operator/pkg/graph"
	nodes "github.com/trustification/trustify-operator/pkg/resource-handler/controller/trustify"
	"github.com/trustification/trustify-operator/pkg/testutil"
)

const testNamespace = "trustify"

func setupScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		t.Fatalf("failed to add client-go scheme: %v", err)
	}
	if err := trustifyv1alpha1.AddToScheme(scheme); err != nil {
		t.Fatalf("failed to add trustify scheme: %v", err)
	}
	testutil.AddUnstructuredKinds(scheme, GVKs()...)
	return scheme
}

func testCR() *trustifyv1alpha1.Trustify {
	return &trustifyv1alpha1.Trustify{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "demo",
			Namespace: testNamespace,
			UID:       "demo-uid",
		},
		Spec: trustifyv1alpha1.TrustifySpec{
			OIDC: &trustifyv1alpha1.OIDCSpec{Enabled: true},
		},
	}
}

func withStatus(u *unstructured.Unstructured, status map[string]any) *unstructured.Unstructured {
	u.Object["status"] = status
	return u
}

func conditions(pairs ...string) map[string]any {
	var conds []any
	for i := 0; i+1 < len(pairs); i += 2 {
		conds = append(conds, map[string]any{
			"type":    pairs[i],
			"status":  pairs[i+1],
			"message": pairs[i] + " message",
		})
	}
	return map[string]any{"conditions": conds}
}

func subscription(healthy bool, csv string) *unstructured.Unstructured {
	status := map[string]any{
		"catalogHealth": []any{map[string]any{"healthy": healthy}},
	}
	if csv != "" {
		status["currentCSV"] = csv
	}
	return withStatus(buildSubscription(testNamespace, DefaultConfig()), status)
}

func csv(phase string) *unstructured.Unstructured {
	return withStatus(newObject(ClusterServiceVersionGVK, testNamespace, "keycloak-operator.v26"), map[string]any{
		"phase":   phase,
		"message": "install strategy failed",
	})
}

func keycloakServer(conds ...string) *unstructured.Unstructured {
	return withStatus(buildKeycloak(testCR()), conditions(conds...))
}

func realmImport(conds ...string) *unstructured.Unstructured {
	return withStatus(buildRealmImport(testCR()), conditions(conds...))
}

func exists(t *testing.T, c client.Client, gvk schema.GroupVersionKind, name string) bool {
	t.Helper()
	u := &unstructured.Unstructured{}
	u.SetGroupVersionKind(gvk)
	err := c.Get(context.Background(), client.ObjectKey{Namespace: testNamespace, Name: name}, u)
	if err != nil && client.IgnoreNotFound(err) != nil {
		t.Fatalf("Get(%s %s) unexpected error: %v", gvk.Kind, name, err)
	}
	return err == nil
}

func TestAdvance(t *testing.T) {
	t.Parallel()

	operatorReady := []client.Object{subscription(true, "keycloak-operator.v26"), csv("Succeeded")}

	tests := map[string]struct {
		existing    []client.Object
		infraReady  bool
		wantState   State
		wantReady   bool
		wantMessage string
		wantErr     error
		wantCreated []schema.GroupVersionKind
		wantAbsent  []schema.GroupVersionKind
	}{
		"empty namespace subscribes to the operator": {
			wantState:   StateOperatorSubscribing,
			wantMessage: "Subscription is not healthy",
			wantCreated: []schema.GroupVersionKind{SubscriptionGVK, OperatorGroupGVK},
			wantAbsent:  []schema.GroupVersionKind{KeycloakGVK},
		},
		"subscription without current csv": {
			existing:    []client.Object{subscription(true, "")},
			wantState:   StateOperatorSubscribing,
			wantMessage: "Subscription does not have currentCSV",
		},
		"csv not yet created": {
			existing:    []client.Object{subscription(true, "keycloak-operator.v26")},
			wantState:   StateOperatorSubscribing,
			wantMessage: "ClusterServiceVersion does not exist",
		},
		"csv installing": {
			existing:    []client.Object{subscription(true, "keycloak-operator.v26"), csv("Installing")},
			wantState:   StateOperatorSubscribing,
			wantMessage: "CSV has not Succeeded yet. Waiting for it.",
		},
		"csv failed": {
			existing:  []client.Object{subscription(true, "keycloak-operator.v26"), csv("Failed")},
			wantState: StateOperatorSubscribing,
			wantErr:   ErrStage,
		},
		"operator ready but identity infra is not": {
			existing:    operatorReady,
			wantState:   StateOperatorReady,
			wantMessage: "Waiting for the identity server database and TLS secret",
			wantAbsent:  []schema.GroupVersionKind{KeycloakGVK},
		},
		"identity server created once infra is ready": {
			existing:    operatorReady,
			infraReady:  true,
			wantState:   StateIdentityServerCreated,
			wantMessage: "Waiting for Keycloak demo-keycloak to be Ready",
			wantCreated: []schema.GroupVersionKind{KeycloakGVK},
			wantAbsent:  []schema.GroupVersionKind{RealmImportGVK},
		},
		"existing identity server is resumed without infra": {
			existing:    append([]client.Object{keycloakServer("Ready", "True")}, operatorReady...),
			wantState:   StateRealmCreated,
			wantMessage: "Waiting for KeycloakRealmImport demo-realm-import to be Done",
			wantCreated: []schema.GroupVersionKind{RealmImportGVK},
		},
		"identity server has errors": {
			existing:  append([]client.Object{keycloakServer("Ready", "False", "HasErrors", "True")}, operatorReady...),
			wantState: StateIdentityServerCreated,
			wantErr:   ErrStage,
		},
		"realm import has errors": {
			existing: append([]client.Object{
				keycloakServer("Ready", "True"),
				realmImport("Done", "False", "HasErrors", "True"),
			}, operatorReady...),
			wantState: StateRealmCreated,
			wantErr:   ErrStage,
		},
		"realm ready": {
			existing: append([]client.Object{
				keycloakServer("Ready", "True"),
				realmImport("Done", "True"),
			}, operatorReady...),
			wantState:   StateRealmReady,
			wantReady:   true,
			wantMessage: "Identity server is ready",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			scheme := setupScheme(t)
			c := testutil.NewFakeClient(scheme, nil, tc.existing)
			p := &Provisioner{
				Client:   c,
				Scheme:   scheme,
				Recorder: record.NewFakeRecorder(10),
				Config:   DefaultConfig(),
			}

			rc := graph.NewReconcileContext()
			if tc.infraReady {
				if err := graph.Put(rc, nodes.IdentityInfraReadyKey, true); err != nil {
					t.Fatalf("Put() error = %v", err)
				}
			}

			got, err := p.Advance(context.Background(), testCR(), rc)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Advance() error = %v, want %v", err, tc.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Advance() unexpected error: %v", err)
			}

			if got.State != tc.wantState {
				t.Errorf("State = %s, want %s", got.State, tc.wantState)
			}
			if got.Ready != tc.wantReady {
				t.Errorf("Ready = %v, want %v", got.Ready, tc.wantReady)
			}
			if tc.wantMessage != "" && got.Message != tc.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tc.wantMessage)
			}

			for _, gvk := range tc.wantCreated {
				if !exists(t, c, gvk, objectName(gvk)) {
					t.Errorf("%s was not created", gvk.Kind)
				}
			}
			for _, gvk := range tc.wantAbsent {
				if exists(t, c, gvk, objectName(gvk)) {
					t.Errorf("%s should not exist", gvk.Kind)
				}
			}
		})
	}
}

func objectName(gvk schema.GroupVersionKind) string {
	switch gvk {
	case SubscriptionGVK:
		return SubscriptionName
	case OperatorGroupGVK:
		return OperatorGroupName
	case KeycloakGVK:
		return names.Child("demo", names.Keycloak)
	case RealmImportGVK:
		return names.Child("demo", names.KeycloakRealmImport)
	}
	return ""
}

func TestAdvance_ReusesOperatorGroup(t *testing.T) {
	t.Parallel()

	scheme := setupScheme(t)
	group := newObject(OperatorGroupGVK, testNamespace, "existing-group")
	c := testutil.NewFakeClient(scheme, nil, []client.Object{group})
	p := &Provisioner{Client: c, Config: DefaultConfig()}

	if _, err := p.Advance(context.Background(), testCR(), graph.NewReconcileContext()); err != nil {
		t.Fatalf("Advance() unexpected error: %v", err)
	}

	list := &unstructured.UnstructuredList{}
	list.SetGroupVersionKind(OperatorGroupGVK.GroupVersion().WithKind("OperatorGroupList"))
	if err := c.List(context.Background(), list, client.InNamespace(testNamespace)); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var got []string
	for _, item := range list.Items {
		got = append(got, item.GetName())
	}
	if diff := cmp.Diff([]string{"existing-group"}, got); diff != "" {
		t.Errorf("OperatorGroups mismatch (-want +got):\n%s", diff)
	}
	if !exists(t, c, SubscriptionGVK, SubscriptionName) {
		t.Error("Subscription was not created")
	}
}

func TestAdvance_Monotonic(t *testing.T) {
	t.Parallel()

	scheme := setupScheme(t)
	c := testutil.NewFakeClient(scheme, nil, nil)
	p := &Provisioner{Client: c, Scheme: scheme, Config: DefaultConfig()}
	cr := testCR()
	ctx := context.Background()

	rc := graph.NewReconcileContext()
	if err := graph.Put(rc, nodes.IdentityInfraReadyKey, true); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Each step plays the part of OLM or the Keycloak operator and then
	// expects the chain to move forward and never back.
	steps := []struct {
		external func(t *testing.T)
		want     State
	}{
		{want: StateOperatorSubscribing},
		{
			external: func(t *testing.T) {
				update(t, c, subscription(true, "keycloak-operator.v26"))
				if err := c.Create(ctx, csv("Succeeded")); err != nil {
					t.Fatalf("Create(csv) error = %v", err)
				}
			},
			want: StateIdentityServerCreated,
		},
		{
			external: func(t *testing.T) { update(t, c, keycloakServer("Ready", "True")) },
			want:     StateRealmCreated,
		},
		{
			external: func(t *testing.T) { update(t, c, realmImport("Done", "True")) },
			want:     StateRealmReady,
		},
		{want: StateRealmReady},
	}

	last := StateAbsent
	for i, step := range steps {
		if step.external != nil {
			step.external(t)
		}
		got, err := p.Advance(ctx, cr, rc)
		if err != nil {
			t.Fatalf("step %d: Advance() unexpected error: %v", i, err)
		}
		if got.State != step.want {
			t.Fatalf("step %d: State = %s, want %s", i, got.State, step.want)
		}
		if !got.State.AtLeast(last) {
			t.Fatalf("step %d: State went back from %s to %s", i, last, got.State)
		}
		last = got.State
	}
}

// update overwrites the stored object's spec and status with obj's.
func update(t *testing.T, c client.Client, obj *unstructured.Unstructured) {
	t.Helper()
	current := &unstructured.Unstructured{}
	current.SetGroupVersionKind(obj.GroupVersionKind())
	if err := c.Get(context.Background(), client.ObjectKeyFromObject(obj), current); err != nil {
		t.Fatalf("Get(%s) error = %v", obj.GetName(), err)
	}
	current.Object["spec"] = obj.Object["spec"]
	current.Object["status"] = obj.Object["status"]
	if err := c.Update(context.Background(), current); err != nil {
		t.Fatalf("Update(%s) error = %v", obj.GetName(), err)
	}
}

func TestAdvance_OwnerReference(t *testing.T) {
	t.Parallel()

	scheme := setupScheme(t)
	c := testutil.NewFakeClient(scheme, nil, []client.Object{
		subscription(true, "keycloak-operator.v26"),
		csv("Succeeded"),
	})
	p := &Provisioner{Client: c, Scheme: scheme, Config: DefaultConfig()}
	rc := graph.NewReconcileContext()
	_ = graph.Put(rc, nodes.IdentityInfraReadyKey, true)

	if _, err := p.Advance(context.Background(), testCR(), rc); err != nil {
		t.Fatalf("Advance() unexpected error: %v", err)
	}

	kc := &unstructured.Unstructured{}
	kc.SetGroupVersionKind(KeycloakGVK)
	key := client.ObjectKey{Namespace: testNamespace, Name: "demo-keycloak"}
	if err := c.Get(context.Background(), key, kc); err != nil {
		t.Fatalf("Get(Keycloak) error = %v", err)
	}
	refs := kc.GetOwnerReferences()
	if len(refs) != 1 || refs[0].Kind != "Trustify" || refs[0].Name != "demo" {
		t.Fatalf("OwnerReferences = %+v, want the Trustify controller", refs)
	}
	if refs[0].Controller == nil || !*refs[0].Controller {
		t.Error("owner reference is not the controller")
	}

	tls, _, _ := unstructured.NestedString(kc.Object, "spec", "http", "tlsSecret")
	if tls != "demo-keycloak-tls" {
		t.Errorf("spec.http.tlsSecret = %q, want demo-keycloak-tls", tls)
	}
	host, _, _ := unstructured.NestedString(kc.Object, "spec", "db", "host")
	if host != "demo-keycloak-db-service" {
		t.Errorf("spec.db.host = %q, want demo-keycloak-db-service", host)
	}
}

func TestAdvance_ClientErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		existing []client.Object
		failures *testutil.FailureConfig
		wantErr  string
	}{
		"subscription get": {
			failures: &testutil.FailureConfig{
				OnGet: testutil.FailOnKeyName(SubscriptionName, testutil.ErrNetworkTimeout),
			},
			wantErr: "failed to get Subscription",
		},
		"operator group list": {
			failures: &testutil.FailureConfig{
				OnList: func(client.ObjectList) error { return testutil.ErrPermissionError },
			},
			wantErr: "failed to list OperatorGroups",
		},
		"subscription create": {
			failures: &testutil.FailureConfig{
				OnCreate: testutil.FailOnObjectName(SubscriptionName, testutil.ErrInjected),
			},
			wantErr: "failed to create Subscription",
		},
		"keycloak get": {
			existing: []client.Object{subscription(true, "keycloak-operator.v26"), csv("Succeeded")},
			failures: &testutil.FailureConfig{
				OnGet: testutil.FailOnKeyName("demo-keycloak", testutil.ErrNetworkTimeout),
			},
			wantErr: "failed to get Keycloak",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			scheme := setupScheme(t)
			c := testutil.NewFakeClient(scheme, tc.failures, tc.existing)
			p := &Provisioner{Client: c, Scheme: scheme, Config: DefaultConfig()}

			_, err := p.Advance(context.Background(), testCR(), graph.NewReconcileContext())
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Advance() error = %v, want substring %q", err, tc.wantErr)
			}
			if errors.Is(err, ErrStage) {
				t.Errorf("client error %v must not be a stage error", err)
			}
		})
	}
}

func TestCleanup(t *testing.T) {
	t.Parallel()

	scheme := setupScheme(t)
	c := testutil.NewFakeClient(scheme, nil, []client.Object{
		subscription(true, "keycloak-operator.v26"),
		keycloakServer("Ready", "True"),
		realmImport("Done", "True"),
	})
	p := &Provisioner{Client: c, Scheme: scheme, Config: DefaultConfig()}

	if err := p.Cleanup(context.Background(), testCR()); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if exists(t, c, KeycloakGVK, "demo-keycloak") || exists(t, c, RealmImportGVK, "demo-realm-import") {
		t.Error("identity objects still exist after Cleanup()")
	}
	if !exists(t, c, SubscriptionGVK, SubscriptionName) {
		t.Error("Cleanup() removed the shared Subscription")
	}

	// A second run finds nothing and still succeeds.
	if err := p.Cleanup(context.Background(), testCR()); err != nil {
		t.Errorf("second Cleanup() error = %v", err)
	}
}

func TestCleanup_DeleteErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		onDelete func(client.Object) error
		wantErr  error
	}{
		"keycloak kinds not served": {
			onDelete: testutil.FailKindNotServed(KeycloakGVK.Group),
		},
		"delete forbidden": {
			onDelete: testutil.FailOnObjectName("demo-realm-import", testutil.ErrPermissionError),
			wantErr:  testutil.ErrPermissionError,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			scheme := setupScheme(t)
			c := testutil.NewFakeClient(scheme, &testutil.FailureConfig{OnDelete: tc.onDelete}, nil)
			p := &Provisioner{Client: c, Scheme: scheme, Config: DefaultConfig()}

			err := p.Cleanup(context.Background(), testCR())
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("Cleanup() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Cleanup() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestState(t *testing.T) {
	t.Parallel()

	if !StateRealmReady.AtLeast(StateOperatorReady) {
		t.Error("RealmReady should be at least OperatorReady")
	}
	if StateOperatorSubscribing.AtLeast(StateIdentityServerCreated) {
		t.Error("OperatorSubscribing should be before IdentityServerCreated")
	}
	if got := State("bogus").Index(); got != -1 {
		t.Errorf("Index() of unknown state = %d, want -1", got)
	}
}
