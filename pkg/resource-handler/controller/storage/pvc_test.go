package storage

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
)

func TestBuildPVC(t *testing.T) {
	labels := map[string]string{"app.kubernetes.io/name": "demo"}

	tests := map[string]struct {
		storageClassName *string
		size             string
		want             *corev1.PersistentVolumeClaim
		wantErr          bool
	}{
		"storage class and size": {
			storageClassName: ptr.To("fast-ssd"),
			size:             "20Gi",
			want: &corev1.PersistentVolumeClaim{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "demo-trustify-db-pvc",
					Namespace: "default",
					Labels:    labels,
				},
				Spec: corev1.PersistentVolumeClaimSpec{
					AccessModes:      []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
					StorageClassName: ptr.To("fast-ssd"),
					Resources: corev1.VolumeResourceRequirements{
						Requests: corev1.ResourceList{
							corev1.ResourceStorage: resource.MustParse("20Gi"),
						},
					},
				},
			},
		},
		"defaults - cluster storage class and default size": {
			storageClassName: ptr.To(""),
			want: &corev1.PersistentVolumeClaim{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "demo-trustify-db-pvc",
					Namespace: "default",
					Labels:    labels,
				},
				Spec: corev1.PersistentVolumeClaimSpec{
					AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
					Resources: corev1.VolumeResourceRequirements{
						Requests: corev1.ResourceList{
							corev1.ResourceStorage: resource.MustParse(DefaultSize),
						},
					},
				},
			},
		},
		"invalid size": {
			size:    "ten gigs",
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := BuildPVC("demo-trustify-db-pvc", "default", labels, tc.storageClassName, tc.size)
			if (err != nil) != tc.wantErr {
				t.Fatalf("BuildPVC() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("BuildPVC() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
