package trustify

import (
	"maps"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/api/equality"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Drift matchers only look at the fields that an upgrade or a manual edit
// is expected to change. Everything else is written on create and then left
// alone.

// deploymentMatches compares the image of the first container.
func deploymentMatches(actual, desired client.Object) bool {
	a, ok := actual.(*appsv1.Deployment)
	if !ok {
		return false
	}
	d := desired.(*appsv1.Deployment)
	ac, dc := a.Spec.Template.Spec.Containers, d.Spec.Template.Spec.Containers
	if len(ac) == 0 || ac[0].Image == "" {
		return false
	}
	return len(dc) > 0 && ac[0].Image == dc[0].Image
}

func configMapMatches(actual, desired client.Object) bool {
	a, ok := actual.(*corev1.ConfigMap)
	if !ok {
		return false
	}
	return maps.Equal(a.Data, desired.(*corev1.ConfigMap).Data)
}

// serviceMatches compares port numbers and names, ignoring the node ports
// and cluster IPs the API server fills in.
func serviceMatches(actual, desired client.Object) bool {
	a, ok := actual.(*corev1.Service)
	if !ok {
		return false
	}
	d := desired.(*corev1.Service)
	if len(a.Spec.Ports) != len(d.Spec.Ports) {
		return false
	}
	for i := range a.Spec.Ports {
		if a.Spec.Ports[i].Name != d.Spec.Ports[i].Name || a.Spec.Ports[i].Port != d.Spec.Ports[i].Port {
			return false
		}
	}
	return maps.Equal(a.Spec.Selector, d.Spec.Selector)
}

func ingressMatches(actual, desired client.Object) bool {
	a, ok := actual.(*networkingv1.Ingress)
	if !ok {
		return false
	}
	d := desired.(*networkingv1.Ingress)
	return equality.Semantic.DeepEqual(a.Spec.Rules, d.Spec.Rules) &&
		equality.Semantic.DeepEqual(a.Spec.TLS, d.Spec.TLS)
}

// deploymentReady holds once at least one replica is ready.
func deploymentReady(actual client.Object) bool {
	d, ok := actual.(*appsv1.Deployment)
	return ok && d.Status.ReadyReplicas >= 1
}

// ingressReady holds once the ingress controller has assigned an address.
func ingressReady(actual client.Object) bool {
	i, ok := actual.(*networkingv1.Ingress)
	return ok && len(i.Status.LoadBalancer.Ingress) > 0
}
