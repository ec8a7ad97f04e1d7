package trustify

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
	"github.com/trustification/trustify-operator/pkg/cluster-handler/names"
	"github.com/trustification/trustify-operator/pkg/graph"
	"github.com/trustification/trustify-operator/pkg/resource-handler/controller/metadata"
)

const (
	NodeUIDeployment = "ui-deployment"
	NodeUIService    = "ui-service"
	NodeIngress      = "ingress"

	// UIPort is the HTTP port of the UI.
	UIPort int32 = 8080

	uiComponent      = "ui"
	uiCAPath         = "/opt/app-root/src/ca.crt"
	uiCAVolumeName   = "common-ca"
	ingressComponent = "ingress"
)

func uiNodes(cfg Config) []graph.Node[*trustifyv1alpha1.Trustify] {
	return []graph.Node[*trustifyv1alpha1.Trustify]{
		{
			Name:      NodeUIDeployment,
			DependsOn: []string{NodeCommonConfigMap},
			Desired: func(_ context.Context, cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) (client.Object, error) {
				return buildUIDeployment(cr, rc, cfg), nil
			},
			Matches: deploymentMatches,
			IsReady: deploymentReady,
		},
		{
			Name: NodeUIService,
			Desired: func(_ context.Context, cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) (client.Object, error) {
				return buildUIService(cr, rc), nil
			},
			Matches: serviceMatches,
		},
		{
			Name:      NodeIngress,
			DependsOn: []string{NodeUIService},
			Desired: func(_ context.Context, cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) (client.Object, error) {
				return buildIngress(cr, rc), nil
			},
			Matches: ingressMatches,
			IsReady: ingressReady,
		},
	}
}

func uiEnv(cr *trustifyv1alpha1.Trustify) []corev1.EnvVar {
	var env []corev1.EnvVar
	switch {
	case cr.IsKeycloakRequired():
		env = append(env,
			envValue("OIDC_SERVER_URL", RealmURL(cr)),
			envValue("OIDC_CLIENT_ID", FrontendClient),
			envValue("OIDC_SERVER_IS_EMBEDDED", "true"),
			envValue("OIDC_SERVER_EMBEDDED_PATH", RealmPath()),
			envValue("AUTH_REQUIRED", "true"),
		)
	case cr.IsOIDCEnabled():
		issuer, uiClient, _ := oidcClients(cr)
		env = append(env,
			envValue("OIDC_SERVER_URL", issuer),
			envValue("OIDC_CLIENT_ID", uiClient),
			envValue("AUTH_REQUIRED", "true"),
		)
	default:
		env = append(env, envValue("AUTH_REQUIRED", "false"))
	}
	return append(env,
		envValue("ANALYTICS_ENABLED", "false"),
		envValue("TRUSTIFY_API_URL", ServerURL(cr)),
		envValue("UI_INGRESS_PROXY_BODY_SIZE", "50m"),
		envValue("NODE_EXTRA_CA_CERTS", uiCAPath),
	)
}

func buildUIDeployment(
	cr *trustifyv1alpha1.Trustify,
	rc *graph.ReconcileContext,
	cfg Config,
) *appsv1.Deployment {
	meta := objectMeta(cr, rc, names.UIDeployment, uiComponent)
	selector := metadata.SelectorLabels(cr.Name, metadata.GroupUI)

	var (
		volumes []corev1.Volume
		mounts  []corev1.VolumeMount
	)
	if graph.Has(rc, DefaultCertKey) {
		volumes = append(volumes, corev1.Volume{
			Name: uiCAVolumeName,
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{
						Name: names.Child(cr.Name, names.CommonConfigMap),
					},
				},
			},
		})
		mounts = append(mounts, corev1.VolumeMount{
			Name:      uiCAVolumeName,
			MountPath: uiCAPath,
			SubPath:   CommonCAKey,
			ReadOnly:  true,
		})
	}

	probe := &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			HTTPGet: &corev1.HTTPGetAction{
				Path: "/",
				Port: intstr.FromInt32(UIPort),
			},
		},
		InitialDelaySeconds: 10,
		PeriodSeconds:       10,
		FailureThreshold:    3,
	}

	return &appsv1.Deployment{
		ObjectMeta: meta,
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To[int32](1),
			Selector: &metav1.LabelSelector{MatchLabels: selector},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: metadata.MergeLabels(selector, meta.Labels),
				},
				Spec: corev1.PodSpec{
					ImagePullSecrets: cr.Spec.ImagePullSecrets,
					Containers: []corev1.Container{
						{
							Name:            "ui",
							Image:           cfg.uiImage(cr),
							ImagePullPolicy: cfg.pullPolicy(cr),
							Env:             uiEnv(cr),
							Ports: []corev1.ContainerPort{
								{Name: "http", ContainerPort: UIPort, Protocol: corev1.ProtocolTCP},
							},
							LivenessProbe:  probe,
							ReadinessProbe: probe,
							VolumeMounts:   mounts,
							Resources:      cr.Spec.UIResources,
						},
					},
					Volumes: volumes,
				},
			},
		},
	}
}

func buildUIService(cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: objectMeta(cr, rc, names.UIService, uiComponent),
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: metadata.SelectorLabels(cr.Name, metadata.GroupUI),
			Ports: []corev1.ServicePort{
				{
					Name:       "http",
					Port:       UIPort,
					TargetPort: intstr.FromInt32(UIPort),
					Protocol:   corev1.ProtocolTCP,
				},
			},
		},
	}
}

// buildIngress routes every path to the UI. The rule has no host when none
// was configured or discovered.
func buildIngress(cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) *networkingv1.Ingress {
	host, _ := graph.Lookup(rc, HostnameKey)
	return &networkingv1.Ingress{
		ObjectMeta: objectMeta(cr, rc, names.Ingress, ingressComponent),
		Spec: networkingv1.IngressSpec{
			Rules: []networkingv1.IngressRule{
				{
					Host: host,
					IngressRuleValue: networkingv1.IngressRuleValue{
						HTTP: &networkingv1.HTTPIngressRuleValue{
							Paths: []networkingv1.HTTPIngressPath{
								{
									Path:     "/",
									PathType: ptr.To(networkingv1.PathTypePrefix),
									Backend: networkingv1.IngressBackend{
										Service: &networkingv1.IngressServiceBackend{
											Name: names.Child(cr.Name, names.UIService),
											Port: networkingv1.ServiceBackendPort{Number: UIPort},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}
