package trustify

import (
	"context"
	"errors"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
	"github.com/trustification/trustify-operator/pkg/graph"
	"github.com/trustification/trustify-operator/pkg/identity-handler/keycloak"
	"github.com/trustification/trustify-operator/pkg/monitoring"
	nodes "github.com/trustification/trustify-operator/pkg/resource-handler/controller/trustify"
	"github.com/trustification/trustify-operator/pkg/util/status"
)

const (
	finalizerName = "trustify.org/finalizer"

	// ProvisioningNode is the result entry recorded for the identity
	// provisioning step between the two graphs.
	ProvisioningNode = "identity-provisioning"

	// DefaultRequeueDelay is used while a workload is Processing or in Error.
	DefaultRequeueDelay = 5 * time.Second
	// DefaultStageErrorRequeueDelay is used when an external object reported
	// a failure that is unlikely to clear quickly.
	DefaultStageErrorRequeueDelay = 30 * time.Second
)

// TrustifyReconciler reconciles a Trustify object.
type TrustifyReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder

	// IdentityGraph and Graph are built once at start.
	IdentityGraph *graph.Graph[*trustifyv1alpha1.Trustify]
	Graph         *graph.Graph[*trustifyv1alpha1.Trustify]

	Keycloak keycloak.Config

	// Zero values select the defaults.
	RequeueDelay           time.Duration
	StageErrorRequeueDelay time.Duration
}

// passOutcome is what a pass computed before its status is written.
type passOutcome struct {
	result     graph.Result
	progress   keycloak.Progress
	stageError bool
}

// Reconcile runs one pass for a Trustify resource.
//
// +kubebuilder:rbac:groups=trustify.org,resources=trustifies,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=trustify.org,resources=trustifies/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=trustify.org,resources=trustifies/finalizers,verbs=update
// +kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=services;configmaps;secrets;persistentvolumeclaims,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=networking.k8s.io,resources=ingresses,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch
// +kubebuilder:rbac:groups=operators.coreos.com,resources=subscriptions;operatorgroups,verbs=get;list;watch;create
// +kubebuilder:rbac:groups=operators.coreos.com,resources=clusterserviceversions,verbs=get;list;watch
// +kubebuilder:rbac:groups=k8s.keycloak.org,resources=keycloaks;keycloakrealmimports,verbs=get;list;watch;create;delete
// +kubebuilder:rbac:groups=config.openshift.io,resources=ingresses,verbs=get
func (r *TrustifyReconciler) Reconcile(
	ctx context.Context,
	req ctrl.Request,
) (ctrl.Result, error) {
	start := time.Now()
	ctx, span := monitoring.StartReconcileSpan(ctx, "Trustify.Reconcile", req.Name, req.Namespace, "Trustify")
	defer span.End()
	ctx = monitoring.EnrichLoggerWithTrace(ctx)
	l := log.FromContext(ctx)

	cr := &trustifyv1alpha1.Trustify{}
	if err := r.Get(ctx, req.NamespacedName, cr); err != nil {
		if apierrors.IsNotFound(err) {
			l.Info("Trustify resource not found, ignoring")
			monitoring.ForgetWorkload(req.Name, req.Namespace)
			return ctrl.Result{}, nil
		}
		monitoring.RecordSpanError(span, err)
		return ctrl.Result{}, fmt.Errorf("failed to get Trustify: %w", err)
	}

	if !cr.DeletionTimestamp.IsZero() {
		return r.handleDelete(ctx, cr)
	}

	if !controllerutil.ContainsFinalizer(cr, finalizerName) {
		controllerutil.AddFinalizer(cr, finalizerName)
		if err := r.Update(ctx, cr); err != nil {
			return ctrl.Result{}, fmt.Errorf("failed to add finalizer: %w", err)
		}
		r.Recorder.Event(cr, "Normal", "Finalizer", "Added finalizer")
	}

	rc, err := r.buildReconcileContext(ctx, cr)
	if err != nil {
		l.Error(err, "Failed to build reconcile context")
		monitoring.RecordSpanError(span, err)
		cond := trustifyv1alpha1.WorkloadCondition{
			Type:    trustifyv1alpha1.ConditionError,
			Message: err.Error(),
		}
		if err := r.updateStatus(ctx, cr, cond, nil); err != nil {
			l.Error(err, "Failed to update status")
			return ctrl.Result{}, err
		}
		monitoring.SetWorkloadInfo(cr.Name, cr.Namespace, string(cond.Type))
		return ctrl.Result{RequeueAfter: r.requeueDelay()}, nil
	}

	out := r.runPass(ctx, cr, rc)
	cond := status.Aggregate(out.result)

	if err := r.updateStatus(ctx, cr, cond, &out); err != nil {
		l.Error(err, "Failed to update status")
		monitoring.RecordSpanError(span, err)
		return ctrl.Result{}, err
	}

	monitoring.SetWorkloadInfo(cr.Name, cr.Namespace, string(cond.Type))
	monitoring.RecordNodeOutcomes(out.result)
	monitoring.RecordPassDuration(string(cond.Type), time.Since(start))

	switch {
	case cond.Type == trustifyv1alpha1.ConditionSuccessful:
		l.V(1).Info("Trustify is ready")
		return ctrl.Result{}, nil
	case out.stageError:
		return ctrl.Result{RequeueAfter: r.stageErrorRequeueDelay()}, nil
	}
	return ctrl.Result{RequeueAfter: r.requeueDelay()}, nil
}

// runPass schedules the identity graph, advances provisioning and then
// schedules the application graph when the identity server is ready.
func (r *TrustifyReconciler) runPass(
	ctx context.Context,
	cr *trustifyv1alpha1.Trustify,
	rc *graph.ReconcileContext,
) passOutcome {
	var out passOutcome

	schedCtx, span := monitoring.StartChildSpan(ctx, "Trustify.Schedule")
	out.result = r.scheduler(r.IdentityGraph).Run(schedCtx, cr, rc)
	span.End()

	if cr.IsKeycloakRequired() {
		ready := r.provision(ctx, cr, rc, &out)
		monitoring.SetProvisioningState(cr.Name, cr.Namespace, out.progress.State.Index())
		if !ready {
			return out
		}
	}

	schedCtx, span = monitoring.StartChildSpan(ctx, "Trustify.Schedule")
	out.result.Merge(r.scheduler(r.Graph).Run(schedCtx, cr, rc))
	span.End()
	return out
}

// provision advances the identity chain and records it as one result entry.
// It reports whether the identity server is ready.
func (r *TrustifyReconciler) provision(
	ctx context.Context,
	cr *trustifyv1alpha1.Trustify,
	rc *graph.ReconcileContext,
	out *passOutcome,
) bool {
	ctx, span := monitoring.StartChildSpan(ctx, "Trustify.Provision")
	defer span.End()
	l := log.FromContext(ctx)

	if out.result.Converged() {
		if err := graph.Put(rc, nodes.IdentityInfraReadyKey, true); err != nil {
			l.Error(err, "Failed to record identity infrastructure readiness")
		}
	}

	p := &keycloak.Provisioner{
		Client:   r.Client,
		Scheme:   r.Scheme,
		Recorder: r.Recorder,
		Config:   r.Keycloak,
	}
	progress, err := p.Advance(ctx, cr, rc)
	out.progress = progress

	nr := graph.NodeResult{Name: ProvisioningNode, HasReadiness: true, Message: progress.Message}
	switch {
	case errors.Is(err, keycloak.ErrStage):
		out.stageError = true
		l.Info("Identity provisioning stage failed", "state", progress.State, "reason", err.Error())
		monitoring.RecordSpanError(span, err)
		nr.Outcome = graph.OutcomeBlocked
		nr.Message = err.Error()
		nr.Err = err
	case err != nil:
		l.Error(err, "Identity provisioning failed", "state", progress.State)
		monitoring.RecordSpanError(span, err)
		nr.Outcome = graph.OutcomeFailed
		nr.Message = err.Error()
		nr.Err = err
	case !progress.Ready:
		l.Info("Waiting for identity provisioning", "state", progress.State, "message", progress.Message)
		nr.Outcome = graph.OutcomeBlocked
	default:
		nr.Outcome = graph.OutcomeUnchanged
		nr.Ready = true
		nr.Message = ""
		if err := graph.Put(rc, nodes.IdentityReadyKey, true); err != nil {
			l.Error(err, "Failed to record identity readiness")
		}
	}
	out.result.Append(nr)
	return progress.Ready && err == nil
}

func (r *TrustifyReconciler) scheduler(
	g *graph.Graph[*trustifyv1alpha1.Trustify],
) *graph.Scheduler[*trustifyv1alpha1.Trustify] {
	return &graph.Scheduler[*trustifyv1alpha1.Trustify]{
		Client:   r.Client,
		Scheme:   r.Scheme,
		Recorder: r.Recorder,
		Graph:    g,
	}
}

func (r *TrustifyReconciler) handleDelete(
	ctx context.Context,
	cr *trustifyv1alpha1.Trustify,
) (ctrl.Result, error) {
	if !controllerutil.ContainsFinalizer(cr, finalizerName) {
		return ctrl.Result{}, nil
	}

	p := &keycloak.Provisioner{Client: r.Client}
	if err := p.Cleanup(ctx, cr); err != nil {
		r.Recorder.Eventf(cr, "Warning", "Cleanup", "Failed to delete identity server: %v", err)
		return ctrl.Result{}, err
	}

	controllerutil.RemoveFinalizer(cr, finalizerName)
	if err := r.Update(ctx, cr); err != nil {
		return ctrl.Result{}, fmt.Errorf("failed to remove finalizer: %w", err)
	}
	monitoring.ForgetWorkload(cr.Name, cr.Namespace)
	r.Recorder.Event(cr, "Normal", "Deleted", "Object finalized and deleted")
	return ctrl.Result{}, nil
}

func (r *TrustifyReconciler) requeueDelay() time.Duration {
	if r.RequeueDelay > 0 {
		return r.RequeueDelay
	}
	return DefaultRequeueDelay
}

func (r *TrustifyReconciler) stageErrorRequeueDelay() time.Duration {
	if r.StageErrorRequeueDelay > 0 {
		return r.StageErrorRequeueDelay
	}
	return DefaultStageErrorRequeueDelay
}

// SetupWithManager sets up the controller with the Manager.
func (r *TrustifyReconciler) SetupWithManager(
	mgr ctrl.Manager,
	opts ...controller.Options,
) error {
	controllerOpts := controller.Options{}
	if len(opts) > 0 {
		controllerOpts = opts[0]
	}

	return ctrl.NewControllerManagedBy(mgr).
		For(&trustifyv1alpha1.Trustify{}).
		Owns(&appsv1.Deployment{}).
		Owns(&corev1.Service{}).
		Owns(&corev1.ConfigMap{}).
		Owns(&corev1.Secret{}).
		Owns(&corev1.PersistentVolumeClaim{}).
		Owns(&networkingv1.Ingress{}).
		WithOptions(controllerOpts).
		Complete(r)
}
