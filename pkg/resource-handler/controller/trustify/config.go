package trustify

import (
	corev1 "k8s.io/api/core/v1"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
)

const (
	// DefaultServerImage is the default trustd container image.
	DefaultServerImage = "ghcr.io/trustification/trustd:latest"
	// DefaultUIImage is the default UI container image.
	DefaultUIImage = "ghcr.io/trustification/trustify-ui:latest"
	// DefaultDBImage is the default PostgreSQL image for embedded databases.
	DefaultDBImage = "quay.io/sclorg/postgresql-15-c9s:latest"
)

// Config holds operator-wide defaults that a Trustify spec may override.
type Config struct {
	ServerImage     string
	UIImage         string
	DBImage         string
	ImagePullPolicy corev1.PullPolicy
	// PVCSize is used for every volume whose spec does not set a size.
	PVCSize string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		ServerImage:     DefaultServerImage,
		UIImage:         DefaultUIImage,
		DBImage:         DefaultDBImage,
		ImagePullPolicy: corev1.PullIfNotPresent,
	}
}

func (c Config) serverImage(cr *trustifyv1alpha1.Trustify) string {
	return firstNonEmpty(cr.Spec.ServerImage, c.ServerImage, DefaultServerImage)
}

func (c Config) uiImage(cr *trustifyv1alpha1.Trustify) string {
	return firstNonEmpty(cr.Spec.UIImage, c.UIImage, DefaultUIImage)
}

func (c Config) dbImage(cr *trustifyv1alpha1.Trustify) string {
	return firstNonEmpty(cr.Spec.DBImage, c.DBImage, DefaultDBImage)
}

func (c Config) pullPolicy(cr *trustifyv1alpha1.Trustify) corev1.PullPolicy {
	if cr.Spec.ImagePullPolicy != "" {
		return cr.Spec.ImagePullPolicy
	}
	if c.ImagePullPolicy != "" {
		return c.ImagePullPolicy
	}
	return corev1.PullIfNotPresent
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
