package trustify

import (
	"context"
	"crypto/rand"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
	"github.com/trustification/trustify-operator/pkg/cluster-handler/names"
	"github.com/trustification/trustify-operator/pkg/graph"
	"github.com/trustification/trustify-operator/pkg/resource-handler/controller/metadata"
	"github.com/trustification/trustify-operator/pkg/resource-handler/controller/storage"
)

const (
	// DBPort is the PostgreSQL port of every embedded database.
	DBPort int32 = 5432

	// Keys of the generated database secrets.
	DBSecretUsernameKey = "username"
	DBSecretPasswordKey = "password"
	DBSecretDatabaseKey = "database"

	dbDataPath   = "/var/lib/pgsql/data"
	dbVolumeName = "db-pvol"
)

// postgres describes one embedded PostgreSQL instance: a PVC, a secret with
// generated credentials, a single-replica deployment and a service.
type postgres struct {
	// prefix of the node names, e.g. "db" gives "db-pvc".
	prefix string
	// component label value.
	component string
	// group is the pod selector group.
	group    string
	database string
	username string

	pvc, secret, deployment, service names.Suffix

	// active decides whether the instance is needed at all.
	active func(cr *trustifyv1alpha1.Trustify) bool
	// embedded returns the tuning settings, or nil.
	embedded func(cr *trustifyv1alpha1.Trustify) *trustifyv1alpha1.EmbeddedDatabaseSpec
}

var trustifyDB = postgres{
	prefix:     "db",
	component:  "db",
	group:      metadata.GroupDB,
	database:   "trustify",
	username:   "trustify",
	pvc:        names.DBPVC,
	secret:     names.DBSecret,
	deployment: names.DBDeployment,
	service:    names.DBService,
	active:     (*trustifyv1alpha1.Trustify).IsDatabaseRequired,
	embedded: func(cr *trustifyv1alpha1.Trustify) *trustifyv1alpha1.EmbeddedDatabaseSpec {
		if cr.Spec.Database == nil {
			return nil
		}
		return cr.Spec.Database.EmbeddedDatabase
	},
}

var keycloakDB = postgres{
	prefix:     "keycloak-db",
	component:  "keycloak-db",
	group:      metadata.GroupOIDC,
	database:   "keycloak",
	username:   "keycloak",
	pvc:        names.KeycloakDBPVC,
	secret:     names.KeycloakDBSecret,
	deployment: names.KeycloakDBDeployment,
	service:    names.KeycloakDBService,
	active:     (*trustifyv1alpha1.Trustify).IsKeycloakDatabaseRequired,
	embedded: func(cr *trustifyv1alpha1.Trustify) *trustifyv1alpha1.EmbeddedDatabaseSpec {
		if db := cr.KeycloakDatabase(); db != nil {
			return db.EmbeddedDatabase
		}
		return nil
	},
}

// Node names of the embedded databases.
const (
	NodeDBPVC        = "db-pvc"
	NodeDBSecret     = "db-secret"
	NodeDBDeployment = "db-deployment"
	NodeDBService    = "db-service"

	NodeKeycloakDBPVC        = "keycloak-db-pvc"
	NodeKeycloakDBSecret     = "keycloak-db-secret"
	NodeKeycloakDBDeployment = "keycloak-db-deployment"
	NodeKeycloakDBService    = "keycloak-db-service"
)

func (p postgres) node(kind string) string {
	return p.prefix + "-" + kind
}

func (p postgres) isActive(cr *trustifyv1alpha1.Trustify, _ *graph.ReconcileContext) bool {
	return p.active(cr)
}

// nodes returns the four nodes of the instance. The deployment waits for the
// volume and the credentials.
func (p postgres) nodes(cfg Config) []graph.Node[*trustifyv1alpha1.Trustify] {
	return []graph.Node[*trustifyv1alpha1.Trustify]{
		{
			Name:     p.node("pvc"),
			IsActive: p.isActive,
			Desired: func(_ context.Context, cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) (client.Object, error) {
				return p.buildPVC(cr, rc, cfg)
			},
		},
		{
			Name:     p.node("secret"),
			IsActive: p.isActive,
			Desired: func(_ context.Context, cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) (client.Object, error) {
				return p.buildSecret(cr, rc), nil
			},
		},
		{
			Name:      p.node("deployment"),
			DependsOn: []string{p.node("pvc"), p.node("secret")},
			IsActive:  p.isActive,
			Desired: func(_ context.Context, cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) (client.Object, error) {
				return p.buildDeployment(cr, rc, cfg), nil
			},
			Matches: deploymentMatches,
			IsReady: deploymentReady,
		},
		{
			Name:     p.node("service"),
			IsActive: p.isActive,
			Desired: func(_ context.Context, cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) (client.Object, error) {
				return p.buildService(cr, rc), nil
			},
			Matches: serviceMatches,
		},
	}
}

func (p postgres) buildPVC(
	cr *trustifyv1alpha1.Trustify,
	rc *graph.ReconcileContext,
	cfg Config,
) (*corev1.PersistentVolumeClaim, error) {
	meta := objectMeta(cr, rc, p.pvc, p.component)
	var class *string
	size := cfg.PVCSize
	if e := p.embedded(cr); e != nil {
		class = e.StorageClassName
		size = firstNonEmpty(e.PVCSize, size)
	}
	return storage.BuildPVC(meta.Name, meta.Namespace, meta.Labels, class, size)
}

// buildSecret generates fresh credentials. The node has no matcher, so they
// are only written when the secret does not exist yet.
func (p postgres) buildSecret(cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: objectMeta(cr, rc, p.secret, p.component),
		Type:       corev1.SecretTypeOpaque,
		StringData: map[string]string{
			DBSecretUsernameKey: p.username,
			DBSecretPasswordKey: rand.Text(),
			DBSecretDatabaseKey: p.database,
		},
	}
}

func (p postgres) secretRef(cr *trustifyv1alpha1.Trustify, key string) *corev1.SecretKeySelector {
	return &corev1.SecretKeySelector{
		LocalObjectReference: corev1.LocalObjectReference{Name: names.Child(cr.Name, p.secret)},
		Key:                  key,
	}
}

func (p postgres) buildDeployment(
	cr *trustifyv1alpha1.Trustify,
	rc *graph.ReconcileContext,
	cfg Config,
) *appsv1.Deployment {
	meta := objectMeta(cr, rc, p.deployment, p.component)
	selector := metadata.SelectorLabels(cr.Name, p.group)

	var resources corev1.ResourceRequirements
	if e := p.embedded(cr); e != nil {
		resources = e.Resources
	}

	probe := func(args ...string) *corev1.Probe {
		return &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				Exec: &corev1.ExecAction{
					Command: append([]string{"/usr/libexec/check-container"}, args...),
				},
			},
			InitialDelaySeconds: 10,
			TimeoutSeconds:      10,
			PeriodSeconds:       10,
			FailureThreshold:    3,
		}
	}

	return &appsv1.Deployment{
		ObjectMeta: meta,
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To[int32](1),
			Strategy: appsv1.DeploymentStrategy{Type: appsv1.RecreateDeploymentStrategyType},
			Selector: &metav1.LabelSelector{MatchLabels: selector},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: metadata.MergeLabels(selector, meta.Labels),
				},
				Spec: corev1.PodSpec{
					ImagePullSecrets:              cr.Spec.ImagePullSecrets,
					TerminationGracePeriodSeconds: ptr.To[int64](60),
					Containers: []corev1.Container{
						{
							Name:            "postgres",
							Image:           cfg.dbImage(cr),
							ImagePullPolicy: cfg.pullPolicy(cr),
							Env: []corev1.EnvVar{
								{Name: "POSTGRESQL_USER", ValueFrom: &corev1.EnvVarSource{SecretKeyRef: p.secretRef(cr, DBSecretUsernameKey)}},
								{Name: "POSTGRESQL_PASSWORD", ValueFrom: &corev1.EnvVarSource{SecretKeyRef: p.secretRef(cr, DBSecretPasswordKey)}},
								{Name: "POSTGRESQL_DATABASE", ValueFrom: &corev1.EnvVarSource{SecretKeyRef: p.secretRef(cr, DBSecretDatabaseKey)}},
							},
							Ports: []corev1.ContainerPort{
								{Name: "tcp", ContainerPort: DBPort, Protocol: corev1.ProtocolTCP},
							},
							LivenessProbe:  probe("--live"),
							ReadinessProbe: probe("--ready"),
							VolumeMounts: []corev1.VolumeMount{
								{Name: dbVolumeName, MountPath: dbDataPath},
							},
							Resources: resources,
						},
					},
					Volumes: []corev1.Volume{
						{
							Name: dbVolumeName,
							VolumeSource: corev1.VolumeSource{
								PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
									ClaimName: names.Child(cr.Name, p.pvc),
								},
							},
						},
					},
				},
			},
		},
	}
}

func (p postgres) buildService(cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: objectMeta(cr, rc, p.service, p.component),
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: metadata.SelectorLabels(cr.Name, p.group),
			Ports: []corev1.ServicePort{
				{
					Name:       "tcp",
					Port:       DBPort,
					TargetPort: intstr.FromInt32(DBPort),
					Protocol:   corev1.ProtocolTCP,
				},
			},
		},
	}
}

// serviceHost returns the in-cluster DNS name of the database service.
func (p postgres) serviceHost(cr *trustifyv1alpha1.Trustify) string {
	return fmt.Sprintf("%s.%s.svc", names.Child(cr.Name, p.service), cr.Namespace)
}
