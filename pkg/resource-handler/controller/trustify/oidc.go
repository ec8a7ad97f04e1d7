package trustify

import (
	"fmt"
	"strconv"

	corev1 "k8s.io/api/core/v1"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
	"github.com/trustification/trustify-operator/pkg/cluster-handler/names"
)

const (
	// KeycloakRelativePath is the HTTP path the identity server is served under.
	KeycloakRelativePath = "/auth"
	// RealmName is the realm imported for every workload.
	RealmName = "trustify"
	// FrontendClient is the public client used by the UI.
	FrontendClient = "frontend"
	// BackendClient is the bearer-only client used by the API server.
	BackendClient = "backend"

	// KeycloakServicePort is the HTTPS port of the service the Keycloak
	// operator creates.
	KeycloakServicePort = 8443
)

// KeycloakServiceURL returns the in-cluster base URL of the identity server.
func KeycloakServiceURL(cr *trustifyv1alpha1.Trustify) string {
	return fmt.Sprintf("https://%s.%s.svc:%d",
		names.Child(cr.Name, names.KeycloakService), cr.Namespace, KeycloakServicePort)
}

// RealmPath is the realm path relative to the server root.
func RealmPath() string {
	return KeycloakRelativePath + "/realms/" + RealmName
}

// RealmURL returns the issuer URL of the realm.
func RealmURL(cr *trustifyv1alpha1.Trustify) string {
	return KeycloakServiceURL(cr) + RealmPath()
}

// DBConnection is how the identity server reaches its database.
type DBConnection struct {
	Host           string
	Port           int32
	Database       string
	UsernameSecret *corev1.SecretKeySelector
	PasswordSecret *corev1.SecretKeySelector
}

// KeycloakDBConnection returns the embedded database of the identity server,
// or the external one from the spec. Missing external settings are left
// empty; they are reported as warnings by the identity graph.
func KeycloakDBConnection(cr *trustifyv1alpha1.Trustify) DBConnection {
	if cr.IsKeycloakDatabaseRequired() {
		return DBConnection{
			Host:           names.Child(cr.Name, keycloakDB.service),
			Port:           DBPort,
			Database:       keycloakDB.database,
			UsernameSecret: keycloakDB.secretRef(cr, DBSecretUsernameKey),
			PasswordSecret: keycloakDB.secretRef(cr, DBSecretPasswordKey),
		}
	}

	conn := DBConnection{Port: DBPort}
	db := cr.KeycloakDatabase()
	if db == nil || db.ExternalDatabase == nil {
		return conn
	}
	ext := db.ExternalDatabase
	conn.Host = ext.Host
	conn.Database = ext.Name
	conn.UsernameSecret = ext.UsernameSecret
	conn.PasswordSecret = ext.PasswordSecret
	if p, err := strconv.ParseInt(ext.Port, 10, 32); err == nil {
		conn.Port = int32(p)
	}
	return conn
}
