package keycloak

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
	"github.com/trustification/trustify-operator/pkg/cluster-handler/names"
	"github.com/trustification/trustify-operator/pkg/graph"
	nodes "github.com/trustification/trustify-operator/pkg/resource-handler/controller/trustify"
	"github.com/trustification/trustify-operator/pkg/util/absent"
)

// Config selects the catalog the Keycloak operator is installed from.
type Config struct {
	Channel         string
	Source          string
	SourceNamespace string
}

// DefaultConfig installs from the community catalog.
func DefaultConfig() Config {
	return Config{
		Channel:         "fast",
		Source:          "operatorhubio-catalog",
		SourceNamespace: "olm",
	}
}

// Provisioner advances the identity provisioning chain of a workload.
// It keeps no state between calls.
type Provisioner struct {
	Client client.Client
	// Scheme is used to make the workload the controller of the Keycloak
	// server and realm import. Owner references are skipped when nil.
	Scheme *runtime.Scheme
	// Recorder is optional.
	Recorder record.EventRecorder
	Config   Config
}

// Advance probes each stage in order, creating the objects of stages that
// have not started yet, and stops at the first stage that is not complete.
//
// The Keycloak server is only created once nodes.IdentityInfraReadyKey is
// set in rc. A nil error with Progress.Ready false means provisioning is in
// progress; errors wrapping ErrStage mean an external object reported
// failure.
func (p *Provisioner) Advance(
	ctx context.Context,
	cr *trustifyv1alpha1.Trustify,
	rc *graph.ReconcileContext,
) (Progress, error) {
	progress := Progress{State: StateAbsent}

	sub, err := p.ensureSubscription(ctx, cr)
	if err != nil {
		return progress, err
	}
	progress.State = StateOperatorSubscribing

	ready, msg, err := p.operatorReady(ctx, sub)
	if err != nil || !ready {
		progress.Message = msg
		return progress, err
	}
	progress.State = StateOperatorReady

	kc, err := p.get(ctx, KeycloakGVK, cr.Namespace, names.Child(cr.Name, names.Keycloak))
	switch {
	case apierrors.IsNotFound(err):
		if infra, _ := graph.Lookup(rc, nodes.IdentityInfraReadyKey); !infra {
			progress.Message = "Waiting for the identity server database and TLS secret"
			return progress, nil
		}
		kc = buildKeycloak(cr)
		if err := p.create(ctx, cr, kc); err != nil {
			return progress, err
		}
	case err != nil:
		return progress, fmt.Errorf("failed to get Keycloak: %w", err)
	}
	progress.State = StateIdentityServerCreated

	if ready, msg, err := readyCondition(kc, "Ready"); err != nil || !ready {
		progress.Message = msg
		return progress, err
	}
	progress.State = StateIdentityServerReady

	realm, err := p.get(ctx, RealmImportGVK, cr.Namespace, names.Child(cr.Name, names.KeycloakRealmImport))
	switch {
	case apierrors.IsNotFound(err):
		realm = buildRealmImport(cr)
		if err := p.create(ctx, cr, realm); err != nil {
			return progress, err
		}
	case err != nil:
		return progress, fmt.Errorf("failed to get KeycloakRealmImport: %w", err)
	}
	progress.State = StateRealmCreated

	if ready, msg, err := readyCondition(realm, "Done"); err != nil || !ready {
		progress.Message = msg
		return progress, err
	}
	progress.State = StateRealmReady
	progress.Ready = true
	progress.Message = "Identity server is ready"
	return progress, nil
}

// ensureSubscription returns the namespace's operator subscription,
// creating it, and an operator group when the namespace has none, first.
func (p *Provisioner) ensureSubscription(
	ctx context.Context,
	cr *trustifyv1alpha1.Trustify,
) (*unstructured.Unstructured, error) {
	sub, err := p.get(ctx, SubscriptionGVK, cr.Namespace, SubscriptionName)
	if err == nil {
		return sub, nil
	}
	if !apierrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to get Subscription: %w", err)
	}

	groups := &unstructured.UnstructuredList{}
	groups.SetGroupVersionKind(OperatorGroupGVK.GroupVersion().WithKind(OperatorGroupGVK.Kind + "List"))
	if err := p.Client.List(ctx, groups, client.InNamespace(cr.Namespace)); err != nil {
		return nil, fmt.Errorf("failed to list OperatorGroups: %w", err)
	}
	if len(groups.Items) == 0 {
		if err := p.create(ctx, nil, buildOperatorGroup(cr.Namespace)); err != nil {
			return nil, err
		}
	}

	log.FromContext(ctx).Info("Installing the Keycloak operator", "channel", p.Config.Channel, "source", p.Config.Source)
	sub = buildSubscription(cr.Namespace, p.Config)
	if err := p.create(ctx, nil, sub); err != nil {
		return nil, err
	}
	p.event(cr, "Normal", "ProvisioningStage", "Subscribed to the %s package", PackageName)
	return sub, nil
}

// operatorReady checks the subscription and its current CSV, in the order
// OLM fills them in.
func (p *Provisioner) operatorReady(ctx context.Context, sub *unstructured.Unstructured) (bool, string, error) {
	health, _, _ := unstructured.NestedSlice(sub.Object, "status", "catalogHealth")
	healthy := false
	for _, h := range health {
		if m, ok := h.(map[string]any); ok && m["healthy"] == true {
			healthy = true
			break
		}
	}
	if !healthy {
		return false, "Subscription is not healthy", nil
	}

	csvName, _, _ := unstructured.NestedString(sub.Object, "status", "currentCSV")
	if csvName == "" {
		return false, "Subscription does not have currentCSV", nil
	}

	csv, err := p.get(ctx, ClusterServiceVersionGVK, sub.GetNamespace(), csvName)
	if apierrors.IsNotFound(err) {
		return false, "ClusterServiceVersion does not exist", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("failed to get ClusterServiceVersion %s: %w", csvName, err)
	}

	phase, _, _ := unstructured.NestedString(csv.Object, "status", "phase")
	switch phase {
	case "Succeeded":
		return true, "", nil
	case "Failed":
		reason, _, _ := unstructured.NestedString(csv.Object, "status", "message")
		msg := fmt.Sprintf("ClusterServiceVersion %s failed: %s", csvName, reason)
		return false, msg, fmt.Errorf("%w: %s", ErrStage, msg)
	}
	return false, "CSV has not Succeeded yet. Waiting for it.", nil
}

// readyCondition reads the named condition of a Keycloak object. A true
// HasErrors condition is a stage error.
func readyCondition(u *unstructured.Unstructured, condType string) (bool, string, error) {
	if status, msg := conditionStatus(u, "HasErrors"); status == "True" {
		full := fmt.Sprintf("%s %s has errors: %s", u.GetKind(), u.GetName(), msg)
		return false, full, fmt.Errorf("%w: %s", ErrStage, full)
	}
	if status, _ := conditionStatus(u, condType); status == "True" {
		return true, "", nil
	}
	return false, fmt.Sprintf("Waiting for %s %s to be %s", u.GetKind(), u.GetName(), condType), nil
}

// Cleanup deletes the realm import and the Keycloak server of cr. The
// operator subscription is shared by the namespace and is left alone.
// Objects that are gone, and kinds the cluster does not serve, count as
// deleted.
func (p *Provisioner) Cleanup(ctx context.Context, cr *trustifyv1alpha1.Trustify) error {
	for _, obj := range []*unstructured.Unstructured{
		newObject(RealmImportGVK, cr.Namespace, names.Child(cr.Name, names.KeycloakRealmImport)),
		newObject(KeycloakGVK, cr.Namespace, names.Child(cr.Name, names.Keycloak)),
	} {
		if err := p.Client.Delete(ctx, obj); absent.Ignore(err) != nil {
			return fmt.Errorf("failed to delete %s %s: %w", obj.GetKind(), obj.GetName(), err)
		}
	}
	return nil
}

func (p *Provisioner) get(
	ctx context.Context,
	gvk schema.GroupVersionKind,
	namespace, name string,
) (*unstructured.Unstructured, error) {
	u := &unstructured.Unstructured{}
	u.SetGroupVersionKind(gvk)
	if err := p.Client.Get(ctx, client.ObjectKey{Namespace: namespace, Name: name}, u); err != nil {
		return nil, err
	}
	return u, nil
}

// create creates obj, owned by owner when owner is non-nil.
func (p *Provisioner) create(ctx context.Context, owner *trustifyv1alpha1.Trustify, obj *unstructured.Unstructured) error {
	if owner != nil && p.Scheme != nil {
		if err := ctrl.SetControllerReference(owner, obj, p.Scheme); err != nil {
			return fmt.Errorf("failed to set controller reference on %s: %w", obj.GetKind(), err)
		}
	}
	if err := p.Client.Create(ctx, obj); err != nil {
		return fmt.Errorf("failed to create %s %s: %w", obj.GetKind(), obj.GetName(), err)
	}
	if owner != nil {
		log.FromContext(ctx).Info("Created identity object", "kind", obj.GetKind(), "name", obj.GetName())
		p.event(owner, "Normal", "ProvisioningStage", "Created %s %s", obj.GetKind(), obj.GetName())
	}
	return nil
}

func (p *Provisioner) event(obj runtime.Object, eventType, reason, format string, args ...any) {
	if p.Recorder == nil {
		return
	}
	p.Recorder.Eventf(obj, eventType, reason, format, args...)
}
