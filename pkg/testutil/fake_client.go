package testutil

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"
)

// FailureConfig configures when the fake client should return errors.
// Each hook receives the object or key and returns a non-nil error to fail the
// call before it reaches the underlying fake.
type FailureConfig struct {
	OnGet          func(key client.ObjectKey) error
	OnList         func(list client.ObjectList) error
	OnCreate       func(obj client.Object) error
	OnUpdate       func(obj client.Object) error
	OnPatch        func(obj client.Object) error
	OnDelete       func(obj client.Object) error
	OnStatusUpdate func(obj client.Object) error
}

// Funcs converts the config into interceptor hooks for fake.ClientBuilder.
func (fc *FailureConfig) Funcs() interceptor.Funcs {
	if fc == nil {
		return interceptor.Funcs{}
	}
	return interceptor.Funcs{
		Get: func(ctx context.Context, c client.WithWatch, key client.ObjectKey, obj client.Object, opts ...client.GetOption) error {
			if fc.OnGet != nil {
				if err := fc.OnGet(key); err != nil {
					return err
				}
			}
			return c.Get(ctx, key, obj, opts...)
		},
		List: func(ctx context.Context, c client.WithWatch, list client.ObjectList, opts ...client.ListOption) error {
			if fc.OnList != nil {
				if err := fc.OnList(list); err != nil {
					return err
				}
			}
			return c.List(ctx, list, opts...)
		},
		Create: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.CreateOption) error {
			if fc.OnCreate != nil {
				if err := fc.OnCreate(obj); err != nil {
					return err
				}
			}
			return c.Create(ctx, obj, opts...)
		},
		Update: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.UpdateOption) error {
			if fc.OnUpdate != nil {
				if err := fc.OnUpdate(obj); err != nil {
					return err
				}
			}
			return c.Update(ctx, obj, opts...)
		},
		Patch: func(ctx context.Context, c client.WithWatch, obj client.Object, patch client.Patch, opts ...client.PatchOption) error {
			if fc.OnPatch != nil {
				if err := fc.OnPatch(obj); err != nil {
					return err
				}
			}
			return c.Patch(ctx, obj, patch, opts...)
		},
		Delete: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.DeleteOption) error {
			if fc.OnDelete != nil {
				if err := fc.OnDelete(obj); err != nil {
					return err
				}
			}
			return c.Delete(ctx, obj, opts...)
		},
		SubResourceUpdate: func(ctx context.Context, c client.Client, subResourceName string, obj client.Object, opts ...client.SubResourceUpdateOption) error {
			if subResourceName == "status" && fc.OnStatusUpdate != nil {
				if err := fc.OnStatusUpdate(obj); err != nil {
					return err
				}
			}
			return c.SubResource(subResourceName).Update(ctx, obj, opts...)
		},
	}
}

// NewFakeClient builds a fake client with status subresources enabled for
// statusObjs and failures injected according to fc. fc may be nil.
func NewFakeClient(
	scheme *runtime.Scheme,
	fc *FailureConfig,
	objs []client.Object,
	statusObjs ...client.Object,
) client.WithWatch {
	return fake.NewClientBuilder().
		WithScheme(scheme).
		WithObjects(objs...).
		WithStatusSubresource(statusObjs...).
		WithInterceptorFuncs(fc.Funcs()).
		Build()
}

// AddUnstructuredKinds registers each gvk and its list kind in scheme as
// unstructured types, so the fake client can serve kinds whose Go types the
// module does not import.
func AddUnstructuredKinds(scheme *runtime.Scheme, gvks ...schema.GroupVersionKind) {
	for _, gvk := range gvks {
		scheme.AddKnownTypeWithName(gvk, &unstructured.Unstructured{})
		scheme.AddKnownTypeWithName(gvk.GroupVersion().WithKind(gvk.Kind+"List"), &unstructured.UnstructuredList{})
	}
}

// FailOnObjectName returns an error if the object name matches.
func FailOnObjectName(name string, err error) func(client.Object) error {
	return func(obj client.Object) error {
		if obj.GetName() == name {
			return err
		}
		return nil
	}
}

// FailOnKeyName returns an error if the key name matches.
func FailOnKeyName(name string, err error) func(client.ObjectKey) error {
	return func(key client.ObjectKey) error {
		if key.Name == name {
			return err
		}
		return nil
	}
}

// FailOnType returns an error for objects of the same Go type as sample.
func FailOnType(sample client.Object, err error) func(client.Object) error {
	want := fmt.Sprintf("%T", sample)
	return func(obj client.Object) error {
		if fmt.Sprintf("%T", obj) == want {
			return err
		}
		return nil
	}
}

// FailKindNotServed returns an Object failure function that reports the
// object's kind as unknown to the API server when its group is one of groups.
// It mirrors a cluster where the CRDs for those groups are not installed.
func FailKindNotServed(groups ...string) func(client.Object) error {
	return func(obj client.Object) error {
		gvk := obj.GetObjectKind().GroupVersionKind()
		if !slices.Contains(groups, gvk.Group) {
			return nil
		}
		return &meta.NoKindMatchError{
			GroupKind:        gvk.GroupKind(),
			SearchedVersions: []string{gvk.Version},
		}
	}
}

// FailObjAfterNCalls returns an Object failure function that fails after N
// successful calls.
func FailObjAfterNCalls(n int, err error) func(client.Object) error {
	count := 0
	return func(client.Object) error {
		count++
		if count > n {
			return err
		}
		return nil
	}
}

// Common errors for testing
var (
	ErrInjected        = errors.New("injected test error")
	ErrNetworkTimeout  = errors.New("network timeout")
	ErrPermissionError = errors.New("permission denied")
)
