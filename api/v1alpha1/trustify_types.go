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

package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NOTE: json tags are required.  Any new fields you add must have json tags for
// the fields to be serialized.

// TrustifySpec defines the desired state of Trustify.
type TrustifySpec struct {
	// ServerImage is the container image for the API server.
	// +optional
	ServerImage string `json:"serverImage,omitempty"`

	// UIImage is the container image for the web UI.
	// +optional
	UIImage string `json:"uiImage,omitempty"`

	// DBImage is the container image for the embedded PostgreSQL databases.
	// +optional
	DBImage string `json:"dbImage,omitempty"`

	// ImagePullPolicy applies to every container managed by the operator.
	// +kubebuilder:validation:Enum=Always;Never;IfNotPresent
	// +optional
	ImagePullPolicy corev1.PullPolicy `json:"imagePullPolicy,omitempty"`

	// ImagePullSecrets is an optional list of references to secrets in the same namespace
	// to use for pulling the images.
	// +optional
	ImagePullSecrets []corev1.LocalObjectReference `json:"imagePullSecrets,omitempty"`

	// Database configures the server database.
	// +optional
	Database *DatabaseSpec `json:"database,omitempty"`

	// Storage configures where uploaded documents are kept.
	// +optional
	Storage *StorageSpec `json:"storage,omitempty"`

	// OIDC configures authentication.
	// +optional
	OIDC *OIDCSpec `json:"oidc,omitempty"`

	// HTTP configures TLS for the API server.
	// +optional
	HTTP *HTTPSpec `json:"http,omitempty"`

	// Hostname overrides the discovered ingress hostname.
	// +optional
	Hostname *HostnameSpec `json:"hostname,omitempty"`

	// Observability configures OpenTelemetry export from the API server.
	// +optional
	Observability *ObservabilityConfig `json:"observability,omitempty"`

	// ServerResources defines the resource requirements for the API server container.
	// +optional
	ServerResources corev1.ResourceRequirements `json:"serverResources,omitempty"`

	// UIResources defines the resource requirements for the UI container.
	// +optional
	UIResources corev1.ResourceRequirements `json:"uiResources,omitempty"`
}

// DatabaseSpec selects between an operator-managed PostgreSQL and an external one.
type DatabaseSpec struct {
	// External disables the embedded database and connects to ExternalDatabase.
	// +optional
	External bool `json:"external,omitempty"`

	// ExternalDatabase holds the connection settings when External is true.
	// +optional
	ExternalDatabase *ExternalDatabaseSpec `json:"externalDatabase,omitempty"`

	// EmbeddedDatabase tunes the operator-managed database.
	// +optional
	EmbeddedDatabase *EmbeddedDatabaseSpec `json:"embeddedDatabase,omitempty"`
}

// ExternalDatabaseSpec points at a PostgreSQL instance not managed by the operator.
type ExternalDatabaseSpec struct {
	// +optional
	UsernameSecret *corev1.SecretKeySelector `json:"usernameSecret,omitempty"`
	// +optional
	PasswordSecret *corev1.SecretKeySelector `json:"passwordSecret,omitempty"`
	// +optional
	Name string `json:"name,omitempty"`
	// +optional
	Host string `json:"host,omitempty"`
	// +optional
	Port string `json:"port,omitempty"`
	// +optional
	PoolMinSize *int32 `json:"poolMinSize,omitempty"`
	// +optional
	PoolMaxSize *int32 `json:"poolMaxSize,omitempty"`
	// +kubebuilder:validation:Enum=disable;allow;prefer;require;verify-ca;verify-full
	// +optional
	SSLMode string `json:"sslMode,omitempty"`
}

// EmbeddedDatabaseSpec tunes the operator-managed PostgreSQL deployment.
type EmbeddedDatabaseSpec struct {
	// PVCSize is the requested size of the data volume, e.g. "10Gi".
	// +optional
	PVCSize string `json:"pvcSize,omitempty"`

	// StorageClassName for the data volume. Nil uses the cluster default.
	// +optional
	StorageClassName *string `json:"storageClassName,omitempty"`

	// Resources for the database container.
	// +optional
	Resources corev1.ResourceRequirements `json:"resources,omitempty"`
}

// StorageStrategyType selects the document storage backend.
// +kubebuilder:validation:Enum=filesystem;s3
type StorageStrategyType string

const (
	StorageStrategyFilesystem StorageStrategyType = "filesystem"
	StorageStrategyS3         StorageStrategyType = "s3"
)

// StorageSpec configures document storage for the API server.
type StorageSpec struct {
	// +kubebuilder:default=filesystem
	// +optional
	Type StorageStrategyType `json:"type,omitempty"`

	// Compression applied to stored documents, e.g. "zstd".
	// +optional
	Compression string `json:"compression,omitempty"`

	// PVCSize is the requested size of the filesystem volume.
	// +optional
	PVCSize string `json:"pvcSize,omitempty"`

	// +optional
	StorageClassName *string `json:"storageClassName,omitempty"`

	// S3 is required when Type is s3.
	// +optional
	S3 *S3StorageSpec `json:"s3,omitempty"`
}

// S3StorageSpec holds S3 bucket settings.
type S3StorageSpec struct {
	Bucket string `json:"bucket"`
	Region string `json:"region"`
	// +optional
	AccessKey *corev1.SecretKeySelector `json:"accessKey,omitempty"`
	// +optional
	SecretKey *corev1.SecretKeySelector `json:"secretKey,omitempty"`
}

// OIDCProviderType selects the identity provider flavour.
// +kubebuilder:validation:Enum=Embedded;External
type OIDCProviderType string

const (
	OIDCProviderEmbedded OIDCProviderType = "Embedded"
	OIDCProviderExternal OIDCProviderType = "External"
)

// OIDCSpec configures authentication for the server and UI.
type OIDCSpec struct {
	// Enabled turns authentication on.
	// +optional
	Enabled bool `json:"enabled,omitempty"`

	// Type defaults to Embedded, in which case the operator provisions Keycloak.
	// +optional
	Type OIDCProviderType `json:"type,omitempty"`

	// External is used when Type is External.
	// +optional
	External *ExternalOIDCSpec `json:"external,omitempty"`

	// Embedded tunes the operator-provisioned identity server.
	// +optional
	Embedded *EmbeddedOIDCSpec `json:"embedded,omitempty"`
}

// ExternalOIDCSpec points at an identity provider not managed by the operator.
type ExternalOIDCSpec struct {
	ServerURL string `json:"serverUrl"`
	// +optional
	UIClientID string `json:"uiClientId,omitempty"`
	// +optional
	ServerClientID string `json:"serverClientId,omitempty"`
	// TLSSecret holds the CA bundle used to reach ServerURL.
	// +optional
	TLSSecret string `json:"tlsSecret,omitempty"`
}

// EmbeddedOIDCSpec tunes the operator-provisioned Keycloak.
type EmbeddedOIDCSpec struct {
	// TLSSecret overrides the generated Keycloak HTTPS secret.
	// +optional
	TLSSecret string `json:"tlsSecret,omitempty"`

	// Database configures the Keycloak database.
	// +optional
	Database *DatabaseSpec `json:"database,omitempty"`
}

// HTTPSpec configures TLS termination on the API server.
type HTTPSpec struct {
	// TLSSecret is a kubernetes.io/tls secret mounted into the server.
	// +optional
	TLSSecret string `json:"tlsSecret,omitempty"`
}

// HostnameSpec overrides the public hostname.
type HostnameSpec struct {
	// +optional
	Hostname string `json:"hostname,omitempty"`
}

// ConditionType is the aggregated state of a reconcile pass.
// +kubebuilder:validation:Enum=Processing;Successful;Error
type ConditionType string

const (
	ConditionProcessing ConditionType = "Processing"
	ConditionSuccessful ConditionType = "Successful"
	ConditionError      ConditionType = "Error"
)

// WorkloadCondition is the single aggregated condition written after every pass.
type WorkloadCondition struct {
	Type ConditionType `json:"type"`

	// +optional
	Message string `json:"message,omitempty"`

	// +optional
	LastTransitionTime metav1.Time `json:"lastTransitionTime,omitempty"`
}

// NodeStatus summarises one managed child for the latest pass.
type NodeStatus struct {
	Name    string `json:"name"`
	Outcome string `json:"outcome"`
	// +optional
	Ready bool `json:"ready,omitempty"`
	// +optional
	Message string `json:"message,omitempty"`
}

// TrustifyStatus defines the observed state of Trustify.
type TrustifyStatus struct {
	// ObservedGeneration reflects the generation of the most recently observed Trustify spec.
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// Condition is the aggregated result of the latest reconcile pass.
	// +optional
	Condition *WorkloadCondition `json:"condition,omitempty"`

	// ProvisioningState is the furthest identity provisioning stage reached.
	// +optional
	ProvisioningState string `json:"provisioningState,omitempty"`

	// Nodes lists per-child outcomes of the latest pass.
	// +listType=map
	// +listMapKey=name
	// +optional
	Nodes []NodeStatus `json:"nodes,omitempty"`

	// Conditions represent the latest available observations of the Trustify state.
	// +listType=map
	// +listMapKey=type
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Status",type=string,JSONPath=`.status.condition.type`
// +kubebuilder:printcolumn:name="Identity",type=string,JSONPath=`.status.provisioningState`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// Trustify is the Schema for the trustifies API
type Trustify struct {
	metav1.TypeMeta `json:",inline"`

	// metadata is a standard object metadata
	// +optional
	metav1.ObjectMeta `json:"metadata,omitempty,omitzero"`

	// spec defines the desired state of Trustify
	// +required
	Spec TrustifySpec `json:"spec"`

	// status defines the observed state of Trustify
	// +optional
	Status TrustifyStatus `json:"status,omitempty,omitzero"`
}

// +kubebuilder:object:root=true

// TrustifyList contains a list of Trustify
type TrustifyList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Trustify `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Trustify{}, &TrustifyList{})
}

// IsDatabaseRequired reports whether the operator manages the server database.
func (t *Trustify) IsDatabaseRequired() bool {
	return t.Spec.Database == nil || !t.Spec.Database.External
}

// IsOIDCEnabled reports whether authentication is turned on.
func (t *Trustify) IsOIDCEnabled() bool {
	return t.Spec.OIDC != nil && t.Spec.OIDC.Enabled
}

// IsKeycloakRequired reports whether the embedded identity server must be provisioned.
func (t *Trustify) IsKeycloakRequired() bool {
	if !t.IsOIDCEnabled() {
		return false
	}
	return t.Spec.OIDC.Type == "" || t.Spec.OIDC.Type == OIDCProviderEmbedded
}

// IsKeycloakDatabaseRequired reports whether the operator manages the Keycloak database.
func (t *Trustify) IsKeycloakDatabaseRequired() bool {
	if !t.IsKeycloakRequired() {
		return false
	}
	db := t.KeycloakDatabase()
	return db == nil || !db.External
}

// KeycloakDatabase returns the Keycloak database settings, or nil.
func (t *Trustify) KeycloakDatabase() *DatabaseSpec {
	if t.Spec.OIDC == nil || t.Spec.OIDC.Embedded == nil {
		return nil
	}
	return t.Spec.OIDC.Embedded.Database
}
