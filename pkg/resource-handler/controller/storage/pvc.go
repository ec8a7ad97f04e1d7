// Package storage builds the PersistentVolumeClaims that back the Trustify
// database, the Keycloak database, and filesystem storage for the server.
package storage

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// DefaultSize is used when the Trustify spec does not set a size.
const DefaultSize = "10G"

// BuildPVC creates a ReadWriteOnce PersistentVolumeClaim.
//
// Parameters:
//   - name, namespace, labels: object metadata
//   - storageClassName: Optional storage class name (nil uses cluster default)
//   - size: requested capacity (e.g., "10Gi"); empty means DefaultSize
func BuildPVC(
	name, namespace string,
	labels map[string]string,
	storageClassName *string,
	size string,
) (*corev1.PersistentVolumeClaim, error) {
	if size == "" {
		size = DefaultSize
	}
	quantity, err := resource.ParseQuantity(size)
	if err != nil {
		return nil, fmt.Errorf("invalid pvc size %q: %w", size, err)
	}

	pvc := &corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    labels,
		},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{
				corev1.ReadWriteOnce,
			},
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{
					corev1.ResourceStorage: quantity,
				},
			},
		},
	}

	if storageClassName != nil && *storageClassName != "" {
		pvc.Spec.StorageClassName = storageClassName
	}

	return pvc, nil
}
