package testutil

import (
	"context"
	"errors"
	"testing"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

func newScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := corev1.AddToScheme(scheme); err != nil {
		t.Fatalf("failed to add corev1 to scheme: %v", err)
	}
	return scheme
}

func TestNewFakeClient_Get(t *testing.T) {
	t.Parallel()

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "demo", Namespace: "default"},
	}
	key := client.ObjectKey{Name: "demo", Namespace: "default"}

	tests := map[string]struct {
		config  *FailureConfig
		wantErr error
	}{
		"nil config": {},
		"fail on name": {
			config:  &FailureConfig{OnGet: FailOnKeyName("demo", ErrInjected)},
			wantErr: ErrInjected,
		},
		"different name": {
			config: &FailureConfig{OnGet: FailOnKeyName("other", ErrInjected)},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := NewFakeClient(newScheme(t), tc.config, []client.Object{cm.DeepCopy()})
			err := c.Get(context.Background(), key, &corev1.ConfigMap{})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Get() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewFakeClient_Writes(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		config *FailureConfig
		call   func(context.Context, client.Client, *corev1.ConfigMap) error
	}{
		"create": {
			config: &FailureConfig{OnCreate: FailOnObjectName("new", ErrPermissionError)},
			call: func(ctx context.Context, c client.Client, _ *corev1.ConfigMap) error {
				return c.Create(ctx, &corev1.ConfigMap{
					ObjectMeta: metav1.ObjectMeta{Name: "new", Namespace: "default"},
				})
			},
		},
		"update": {
			config: &FailureConfig{OnUpdate: FailOnType(&corev1.ConfigMap{}, ErrPermissionError)},
			call: func(ctx context.Context, c client.Client, cm *corev1.ConfigMap) error {
				return c.Update(ctx, cm)
			},
		},
		"patch": {
			config: &FailureConfig{OnPatch: FailOnObjectName("demo", ErrPermissionError)},
			call: func(ctx context.Context, c client.Client, cm *corev1.ConfigMap) error {
				return c.Patch(ctx, cm, client.MergeFrom(cm.DeepCopy()))
			},
		},
		"delete": {
			config: &FailureConfig{OnDelete: FailOnObjectName("demo", ErrPermissionError)},
			call: func(ctx context.Context, c client.Client, cm *corev1.ConfigMap) error {
				return c.Delete(ctx, cm)
			},
		},
		"list": {
			config: &FailureConfig{OnList: func(client.ObjectList) error { return ErrPermissionError }},
			call: func(ctx context.Context, c client.Client, _ *corev1.ConfigMap) error {
				return c.List(ctx, &corev1.ConfigMapList{})
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			cm := &corev1.ConfigMap{
				ObjectMeta: metav1.ObjectMeta{Name: "demo", Namespace: "default"},
			}
			c := NewFakeClient(newScheme(t), tc.config, []client.Object{cm})

			got := &corev1.ConfigMap{}
			if err := c.Get(ctx, client.ObjectKeyFromObject(cm), got); err != nil {
				t.Fatalf("Get() unexpected error: %v", err)
			}
			if err := tc.call(ctx, c, got); !errors.Is(err, ErrPermissionError) {
				t.Errorf("error = %v, want %v", err, ErrPermissionError)
			}
		})
	}
}

func TestNewFakeClient_StatusUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pod := &corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "demo", Namespace: "default"}}
	c := NewFakeClient(newScheme(t), &FailureConfig{
		OnStatusUpdate: FailObjAfterNCalls(1, ErrNetworkTimeout),
	}, []client.Object{pod}, pod)

	got := &corev1.Pod{}
	if err := c.Get(ctx, client.ObjectKeyFromObject(pod), got); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}

	got.Status.Message = "first"
	if err := c.Status().Update(ctx, got); err != nil {
		t.Fatalf("first status update: unexpected error: %v", err)
	}
	got.Status.Message = "second"
	if err := c.Status().Update(ctx, got); !errors.Is(err, ErrNetworkTimeout) {
		t.Errorf("second status update error = %v, want %v", err, ErrNetworkTimeout)
	}
}

func TestAddUnstructuredKinds(t *testing.T) {
	t.Parallel()

	gvk := schema.GroupVersionKind{Group: "k8s.keycloak.org", Version: "v2alpha1", Kind: "Keycloak"}
	scheme := newScheme(t)
	AddUnstructuredKinds(scheme, gvk)

	if !scheme.Recognizes(gvk) {
		t.Fatalf("scheme does not recognize %v", gvk)
	}
	if !scheme.Recognizes(gvk.GroupVersion().WithKind("KeycloakList")) {
		t.Fatalf("scheme does not recognize the list kind of %v", gvk)
	}

	ctx := context.Background()
	c := NewFakeClient(scheme, nil, nil)

	u := &unstructured.Unstructured{}
	u.SetGroupVersionKind(gvk)
	u.SetName("demo-keycloak")
	u.SetNamespace("default")
	if err := c.Create(ctx, u); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	list := &unstructured.UnstructuredList{}
	list.SetGroupVersionKind(gvk.GroupVersion().WithKind("KeycloakList"))
	if err := c.List(ctx, list, client.InNamespace("default")); err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(list.Items) != 1 {
		t.Errorf("List() returned %d items, want 1", len(list.Items))
	}
}

func TestFailKindNotServed(t *testing.T) {
	t.Parallel()

	fail := FailKindNotServed("k8s.keycloak.org")

	keycloak := &unstructured.Unstructured{}
	keycloak.SetGroupVersionKind(schema.GroupVersionKind{Group: "k8s.keycloak.org", Version: "v2alpha1", Kind: "Keycloak"})
	err := fail(keycloak)
	if !meta.IsNoMatchError(err) {
		t.Errorf("error = %v, want a no kind match error", err)
	}

	subscription := &unstructured.Unstructured{}
	subscription.SetGroupVersionKind(schema.GroupVersionKind{Group: "operators.coreos.com", Version: "v1alpha1", Kind: "Subscription"})
	if err := fail(subscription); err != nil {
		t.Errorf("error for another group = %v, want nil", err)
	}
}
