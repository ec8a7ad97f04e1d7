package trustify

import (
	"context"
	"fmt"
	"path"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/yaml"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
	"github.com/trustification/trustify-operator/pkg/cluster-handler/names"
	"github.com/trustification/trustify-operator/pkg/graph"
	"github.com/trustification/trustify-operator/pkg/resource-handler/controller/metadata"
	"github.com/trustification/trustify-operator/pkg/resource-handler/controller/storage"
)

const (
	NodeServerConfigMap  = "server-configmap"
	NodeServerPVC        = "server-pvc"
	NodeServerDeployment = "server-deployment"
	NodeServerService    = "server-service"

	// ServerPort serves the API.
	ServerPort int32 = 8080
	// ServerInfraPort serves health probes and metrics.
	ServerInfraPort int32 = 9010

	// AuthConfigKey is the key of the auth configuration in the server
	// configmap.
	AuthConfigKey = "auth.yaml"

	authConfigPath    = "/etc/config/configuration.yaml"
	storageMountPath  = "/opt/trustify"
	tlsMountPath      = "/mnt/certificates"
	serviceAccountCA  = "/run/secrets/kubernetes.io/serviceaccount/service-ca.crt"
	serverComponent   = "server"
	authVolumeName    = "authentication-configuration-pvol"
	storageVolumeName = "trustify-pvol"
	tlsVolumeName     = "trustify-tls-certificates"
)

// authConfig is the document the server reads from AUTH_CONFIGURATION.
type authConfig struct {
	Authentication authentication `json:"authentication"`
}

type authentication struct {
	Clients []authClient `json:"clients"`
}

type authClient struct {
	ClientID  string `json:"clientId"`
	IssuerURL string `json:"issuerUrl"`
}

func serverNodes(cfg Config) []graph.Node[*trustifyv1alpha1.Trustify] {
	return []graph.Node[*trustifyv1alpha1.Trustify]{
		{
			Name: NodeServerConfigMap,
			IsActive: func(cr *trustifyv1alpha1.Trustify, _ *graph.ReconcileContext) bool {
				return cr.IsOIDCEnabled()
			},
			Desired: func(_ context.Context, cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) (client.Object, error) {
				return buildServerConfigMap(cr, rc)
			},
			Matches:  configMapMatches,
			Validate: validateOIDC,
		},
		{
			Name: NodeServerPVC,
			IsActive: func(cr *trustifyv1alpha1.Trustify, _ *graph.ReconcileContext) bool {
				return storageStrategy(cr) == trustifyv1alpha1.StorageStrategyFilesystem
			},
			Desired: func(_ context.Context, cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) (client.Object, error) {
				return buildServerPVC(cr, rc, cfg)
			},
		},
		{
			Name: NodeServerDeployment,
			DependsOn: []string{
				NodeDBDeployment,
				NodeDBService,
				NodeServerConfigMap,
				NodeServerPVC,
			},
			Precondition: identityReady,
			Desired: func(_ context.Context, cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) (client.Object, error) {
				return buildServerDeployment(cr, rc, cfg), nil
			},
			Matches:  deploymentMatches,
			IsReady:  deploymentReady,
			Validate: validateDatabase,
		},
		{
			Name: NodeServerService,
			Desired: func(_ context.Context, cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) (client.Object, error) {
				return buildServerService(cr, rc), nil
			},
			Matches: serviceMatches,
		},
	}
}

// identityReady blocks the server until the embedded identity server can
// issue tokens for its clients.
func identityReady(cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) (bool, string) {
	if !cr.IsKeycloakRequired() {
		return true, ""
	}
	if ready, _ := graph.Lookup(rc, IdentityReadyKey); !ready {
		return false, "waiting for the identity server realm"
	}
	return true, ""
}

func storageStrategy(cr *trustifyv1alpha1.Trustify) trustifyv1alpha1.StorageStrategyType {
	if cr.Spec.Storage == nil || cr.Spec.Storage.Type == "" {
		return trustifyv1alpha1.StorageStrategyFilesystem
	}
	return cr.Spec.Storage.Type
}

// oidcClients returns the issuer and the ui and server client ids.
func oidcClients(cr *trustifyv1alpha1.Trustify) (issuer, uiClient, serverClient string) {
	if cr.IsKeycloakRequired() {
		return RealmURL(cr), FrontendClient, BackendClient
	}
	if ext := cr.Spec.OIDC.External; ext != nil {
		return ext.ServerURL, ext.UIClientID, ext.ServerClientID
	}
	return "", "", ""
}

func buildServerConfigMap(cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) (*corev1.ConfigMap, error) {
	issuer, uiClient, serverClient := oidcClients(cr)
	doc := authConfig{
		Authentication: authentication{
			Clients: []authClient{
				{ClientID: uiClient, IssuerURL: issuer},
				{ClientID: serverClient, IssuerURL: issuer},
			},
		},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", AuthConfigKey, err)
	}
	return &corev1.ConfigMap{
		ObjectMeta: objectMeta(cr, rc, names.ServerConfigMap, serverComponent),
		Data:       map[string]string{AuthConfigKey: string(out)},
	}, nil
}

func buildServerPVC(
	cr *trustifyv1alpha1.Trustify,
	rc *graph.ReconcileContext,
	cfg Config,
) (*corev1.PersistentVolumeClaim, error) {
	meta := objectMeta(cr, rc, names.ServerPVC, serverComponent)
	size := cfg.PVCSize
	var class *string
	if s := cr.Spec.Storage; s != nil {
		size = firstNonEmpty(s.PVCSize, size)
		class = s.StorageClassName
	}
	return storage.BuildPVC(meta.Name, meta.Namespace, meta.Labels, class, size)
}

func envValue(name, value string) corev1.EnvVar {
	return corev1.EnvVar{Name: name, Value: value}
}

func envSecret(name string, ref *corev1.SecretKeySelector) corev1.EnvVar {
	return corev1.EnvVar{Name: name, ValueFrom: &corev1.EnvVarSource{SecretKeyRef: ref}}
}

// databaseEnv points the server at the embedded database or at the external
// one from the spec. Unset external fields are left out.
func databaseEnv(cr *trustifyv1alpha1.Trustify) []corev1.EnvVar {
	if cr.IsDatabaseRequired() {
		return []corev1.EnvVar{
			envSecret("TRUSTD_DB_USER", trustifyDB.secretRef(cr, DBSecretUsernameKey)),
			envSecret("TRUSTD_DB_PASSWORD", trustifyDB.secretRef(cr, DBSecretPasswordKey)),
			envValue("TRUSTD_DB_NAME", trustifyDB.database),
			envValue("TRUSTD_DB_HOST", trustifyDB.serviceHost(cr)),
			envValue("TRUSTD_DB_PORT", fmt.Sprint(DBPort)),
		}
	}

	ext := cr.Spec.Database.ExternalDatabase
	if ext == nil {
		return nil
	}
	var env []corev1.EnvVar
	if ext.UsernameSecret != nil {
		env = append(env, envSecret("TRUSTD_DB_USER", ext.UsernameSecret))
	}
	if ext.PasswordSecret != nil {
		env = append(env, envSecret("TRUSTD_DB_PASSWORD", ext.PasswordSecret))
	}
	optional := []struct{ name, value string }{
		{"TRUSTD_DB_NAME", ext.Name},
		{"TRUSTD_DB_HOST", ext.Host},
		{"TRUSTD_DB_PORT", ext.Port},
		{"TRUSTD_DB_SSLMODE", ext.SSLMode},
	}
	for _, o := range optional {
		if o.value != "" {
			env = append(env, envValue(o.name, o.value))
		}
	}
	if ext.PoolMinSize != nil {
		env = append(env, envValue("TRUSTD_DB_MIN_CONN", fmt.Sprint(*ext.PoolMinSize)))
	}
	if ext.PoolMaxSize != nil {
		env = append(env, envValue("TRUSTD_DB_MAX_CONN", fmt.Sprint(*ext.PoolMaxSize)))
	}
	return env
}

// podConfig collects the env, volumes and mounts of the server container.
type podConfig struct {
	env     []corev1.EnvVar
	volumes []corev1.Volume
	mounts  []corev1.VolumeMount
}

func (p *podConfig) mount(v corev1.Volume, m corev1.VolumeMount) {
	p.volumes = append(p.volumes, v)
	p.mounts = append(p.mounts, m)
}

func (p *podConfig) addStorage(cr *trustifyv1alpha1.Trustify) {
	strategy := storageStrategy(cr)
	p.env = append(p.env, envValue("TRUSTD_STORAGE_STRATEGY", string(strategy)))
	if s := cr.Spec.Storage; s != nil && s.Compression != "" {
		p.env = append(p.env, envValue("TRUSTD_STORAGE_COMPRESSION", s.Compression))
	}

	switch strategy {
	case trustifyv1alpha1.StorageStrategyFilesystem:
		p.env = append(p.env, envValue("TRUSTD_STORAGE_FS_PATH", path.Join(storageMountPath, "storage")))
		p.mount(
			corev1.Volume{
				Name: storageVolumeName,
				VolumeSource: corev1.VolumeSource{
					PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
						ClaimName: names.Child(cr.Name, names.ServerPVC),
					},
				},
			},
			corev1.VolumeMount{Name: storageVolumeName, MountPath: storageMountPath},
		)
	case trustifyv1alpha1.StorageStrategyS3:
		s3 := cr.Spec.Storage.S3
		if s3 == nil {
			return
		}
		p.env = append(p.env,
			envValue("TRUSTD_S3_BUCKET", s3.Bucket),
			envValue("TRUSTD_S3_REGION", s3.Region),
		)
		if s3.AccessKey != nil {
			p.env = append(p.env, envSecret("TRUSTD_S3_ACCESS_KEY", s3.AccessKey))
		}
		if s3.SecretKey != nil {
			p.env = append(p.env, envSecret("TRUSTD_S3_SECRET_KEY", s3.SecretKey))
		}
	}
}

func (p *podConfig) addTLS(cr *trustifyv1alpha1.Trustify) {
	if cr.Spec.HTTP == nil || cr.Spec.HTTP.TLSSecret == "" {
		return
	}
	p.env = append(p.env,
		envValue("HTTP_SERVER_TLS_ENABLED", "true"),
		envValue("HTTP_SERVER_TLS_CERTIFICATE_FILE", path.Join(tlsMountPath, corev1.TLSCertKey)),
		envValue("HTTP_SERVER_TLS_KEY_FILE", path.Join(tlsMountPath, corev1.TLSPrivateKeyKey)),
	)
	p.mount(
		corev1.Volume{
			Name: tlsVolumeName,
			VolumeSource: corev1.VolumeSource{
				Secret: &corev1.SecretVolumeSource{SecretName: cr.Spec.HTTP.TLSSecret},
			},
		},
		corev1.VolumeMount{Name: tlsVolumeName, MountPath: tlsMountPath, ReadOnly: true},
	)
}

func (p *podConfig) addOIDC(cr *trustifyv1alpha1.Trustify) {
	if !cr.IsOIDCEnabled() {
		p.env = append(p.env, envValue("AUTH_DISABLED", "true"))
		return
	}
	issuer, uiClient, _ := oidcClients(cr)
	p.env = append(p.env,
		envValue("AUTH_DISABLED", "false"),
		envValue("AUTH_CONFIGURATION", authConfigPath),
		envValue("UI_ISSUER_URL", issuer),
		envValue("UI_CLIENT_ID", uiClient),
	)
	p.mount(
		corev1.Volume{
			Name: authVolumeName,
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{
						Name: names.Child(cr.Name, names.ServerConfigMap),
					},
				},
			},
		},
		corev1.VolumeMount{Name: authVolumeName, MountPath: authConfigPath, SubPath: AuthConfigKey},
	)
}

func serverPodConfig(cr *trustifyv1alpha1.Trustify) podConfig {
	p := podConfig{
		env: []corev1.EnvVar{
			envValue("RUST_LOG", "info"),
			envValue("INFRASTRUCTURE_ENABLED", "true"),
			envValue("INFRASTRUCTURE_BIND", fmt.Sprintf("[::]:%d", ServerInfraPort)),
			envValue("CLIENT_TLS_CA_CERTIFICATES", serviceAccountCA),
			envValue("HTTP_SERVER_BIND_ADDR", "::"),
		},
	}
	p.env = append(p.env, databaseEnv(cr)...)
	p.addTLS(cr)
	p.addStorage(cr)
	p.addOIDC(cr)
	p.env = append(p.env, trustifyv1alpha1.BuildOTELEnvVars(cr.Spec.Observability)...)
	return p
}

func buildServerDeployment(
	cr *trustifyv1alpha1.Trustify,
	rc *graph.ReconcileContext,
	cfg Config,
) *appsv1.Deployment {
	meta := objectMeta(cr, rc, names.ServerDeployment, serverComponent)
	selector := metadata.SelectorLabels(cr.Name, metadata.GroupServer)
	pod := serverPodConfig(cr)
	image := cfg.serverImage(cr)

	probe := func(p string) *corev1.Probe {
		return &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				HTTPGet: &corev1.HTTPGetAction{
					Path: p,
					Port: intstr.FromInt32(ServerInfraPort),
				},
			},
			InitialDelaySeconds: 5,
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
					TerminationGracePeriodSeconds: ptr.To[int64](70),
					InitContainers: []corev1.Container{
						{
							Name:            "migrate",
							Image:           image,
							ImagePullPolicy: cfg.pullPolicy(cr),
							Command:         []string{"/usr/local/bin/trustd"},
							Args:            []string{"db", "migrate"},
							Env:             databaseEnv(cr),
						},
					},
					Containers: []corev1.Container{
						{
							Name:            "server",
							Image:           image,
							ImagePullPolicy: cfg.pullPolicy(cr),
							Command:         []string{"/usr/local/bin/trustd"},
							Args:            []string{"api", "--sample-data"},
							Env:             pod.env,
							Ports: []corev1.ContainerPort{
								{Name: "http", ContainerPort: ServerPort, Protocol: corev1.ProtocolTCP},
								{Name: "http-infra", ContainerPort: ServerInfraPort, Protocol: corev1.ProtocolTCP},
							},
							LivenessProbe:  probe("/health/live"),
							ReadinessProbe: probe("/health/ready"),
							StartupProbe:   probe("/health/startup"),
							VolumeMounts:   pod.mounts,
							Resources:      cr.Spec.ServerResources,
						},
					},
					Volumes: pod.volumes,
				},
			},
		},
	}
}

func buildServerService(cr *trustifyv1alpha1.Trustify, rc *graph.ReconcileContext) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: objectMeta(cr, rc, names.ServerService, serverComponent),
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: metadata.SelectorLabels(cr.Name, metadata.GroupServer),
			Ports: []corev1.ServicePort{
				{
					Name:       "http",
					Port:       ServerPort,
					TargetPort: intstr.FromInt32(ServerPort),
					Protocol:   corev1.ProtocolTCP,
				},
			},
		},
	}
}

// ServerURL returns the in-cluster URL of the API server.
func ServerURL(cr *trustifyv1alpha1.Trustify) string {
	scheme := "http"
	if cr.Spec.HTTP != nil && cr.Spec.HTTP.TLSSecret != "" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s.%s.svc:%d", scheme, names.Child(cr.Name, names.ServerService), cr.Namespace, ServerPort)
}
