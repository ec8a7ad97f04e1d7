/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"crypto/tls"
	"flag"
	"os"
	"time"

	// Import all Kubernetes client auth plugins (e.g. Azure, GCP, OIDC, etc.)
	_ "k8s.io/client-go/plugin/pkg/client/auth"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/metrics/filters"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
	trustifycontroller "github.com/trustification/trustify-operator/pkg/cluster-handler/controller/trustify"
	"github.com/trustification/trustify-operator/pkg/identity-handler/keycloak"
	"github.com/trustification/trustify-operator/pkg/resource-handler/controller/trustify"
)

var (
	scheme   = runtime.NewScheme()
	setupLog = ctrl.Log.WithName("setup")
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(trustifyv1alpha1.AddToScheme(scheme))
	// +kubebuilder:scaffold:scheme
}

func main() {
	var metricsAddr string
	var enableLeaderElection bool
	var probeAddr string
	var secureMetrics bool
	var enableHTTP2 bool
	var tlsOpts []func(*tls.Config)

	// Reconciler Flags
	var watchNamespace string
	var maxConcurrentReconciles int
	var requeueDelay time.Duration
	var stageErrorRequeueDelay time.Duration

	// Workload Default Flags
	nodeConfig := trustify.DefaultConfig()
	keycloakConfig := keycloak.DefaultConfig()

	flag.StringVar(&metricsAddr, "metrics-bind-address", "0", "The address the metrics endpoint binds to.")
	flag.StringVar(&probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	flag.BoolVar(&enableLeaderElection, "leader-elect", false, "Enable leader election for controller manager.")
	flag.BoolVar(&secureMetrics, "metrics-secure", true, "If set, the metrics endpoint is served securely via HTTPS.")
	flag.BoolVar(&enableHTTP2, "enable-http2", false, "If set, HTTP/2 will be enabled for the metrics server")

	flag.StringVar(&watchNamespace, "watch-namespace", os.Getenv("POD_NAMESPACE"),
		"Namespace to watch for Trustify resources. Empty watches every namespace.")
	flag.IntVar(&maxConcurrentReconciles, "max-concurrent-reconciles", 1,
		"Number of Trustify resources reconciled in parallel.")
	flag.DurationVar(&requeueDelay, "requeue-delay", trustifycontroller.DefaultRequeueDelay,
		"Delay before a workload that is not Successful is reconciled again.")
	flag.DurationVar(&stageErrorRequeueDelay, "stage-error-requeue-delay",
		trustifycontroller.DefaultStageErrorRequeueDelay,
		"Delay before retrying after the identity server reported a failure.")

	flag.StringVar(&nodeConfig.ServerImage, "server-image",
		envOr("RELATED_IMAGE_SERVER", trustify.DefaultServerImage), "Default API server image")
	flag.StringVar(&nodeConfig.UIImage, "ui-image",
		envOr("RELATED_IMAGE_UI", trustify.DefaultUIImage), "Default UI image")
	flag.StringVar(&nodeConfig.DBImage, "db-image",
		envOr("RELATED_IMAGE_DB", trustify.DefaultDBImage), "Default embedded PostgreSQL image")
	flag.StringVar(&nodeConfig.PVCSize, "default-pvc-size", "10Gi",
		"Size of volumes whose Trustify spec does not set one")

	flag.StringVar(&keycloakConfig.Channel, "keycloak-channel", keycloakConfig.Channel,
		"Catalog channel of the Keycloak operator subscription")
	flag.StringVar(&keycloakConfig.Source, "keycloak-source", keycloakConfig.Source,
		"Catalog source of the Keycloak operator subscription")
	flag.StringVar(&keycloakConfig.SourceNamespace, "keycloak-source-namespace", keycloakConfig.SourceNamespace,
		"Namespace of the Keycloak operator catalog source")

	opts := zap.Options{Development: true}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))

	disableHTTP2 := func(c *tls.Config) {
		setupLog.Info("disabling http/2")
		c.NextProtos = []string{"http/1.1"}
	}
	if !enableHTTP2 {
		tlsOpts = append(tlsOpts, disableHTTP2)
	}

	metricsServerOptions := metricsserver.Options{
		BindAddress:   metricsAddr,
		SecureServing: secureMetrics,
		TLSOpts:       tlsOpts,
	}

	if secureMetrics {
		metricsServerOptions.FilterProvider = filters.WithAuthenticationAndAuthorization
	}

	// 1. Build the graphs. A topology error is a programming error and
	// stops the operator before it touches the cluster.
	identityGraph, err := trustify.NewIdentityGraph(nodeConfig)
	if err != nil {
		setupLog.Error(err, "invalid identity graph")
		os.Exit(1)
	}
	workloadGraph, err := trustify.NewGraph(nodeConfig)
	if err != nil {
		setupLog.Error(err, "invalid workload graph")
		os.Exit(1)
	}

	cacheOpts := cache.Options{}
	if watchNamespace != "" {
		setupLog.Info("watching a single namespace", "namespace", watchNamespace)
		cacheOpts.DefaultNamespaces = map[string]cache.Config{watchNamespace: {}}
	}

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme:                 scheme,
		Metrics:                metricsServerOptions,
		HealthProbeBindAddress: probeAddr,
		LeaderElection:         enableLeaderElection,
		LeaderElectionID:       "trustify-operator.trustify.org",
		Cache:                  cacheOpts,
		Client: client.Options{
			// The default router certificate lives outside the watched namespace.
			Cache: &client.CacheOptions{
				DisableFor: []client.Object{
					&corev1.Secret{},
				},
			},
		},
	})
	if err != nil {
		setupLog.Error(err, "unable to start manager")
		os.Exit(1)
	}

	// 2. Initialize Controllers
	if err = (&trustifycontroller.TrustifyReconciler{
		Client:                 mgr.GetClient(),
		Scheme:                 mgr.GetScheme(),
		Recorder:               mgr.GetEventRecorderFor("trustify-operator"),
		IdentityGraph:          identityGraph,
		Graph:                  workloadGraph,
		Keycloak:               keycloakConfig,
		RequeueDelay:           requeueDelay,
		StageErrorRequeueDelay: stageErrorRequeueDelay,
	}).SetupWithManager(mgr, controller.Options{
		MaxConcurrentReconciles: maxConcurrentReconciles,
	}); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "Trustify")
		os.Exit(1)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	setupLog.Info("starting manager")
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		setupLog.Error(err, "problem running manager")
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
