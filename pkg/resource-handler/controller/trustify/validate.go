package trustify

import (
	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
)

// validateOIDC warns about an external provider without an issuer.
func validateOIDC(cr *trustifyv1alpha1.Trustify) string {
	if !cr.IsOIDCEnabled() || cr.IsKeycloakRequired() {
		return ""
	}
	if ext := cr.Spec.OIDC.External; ext == nil || ext.ServerURL == "" {
		return "oidc type is External but no serverUrl is configured"
	}
	return ""
}

func validateDatabase(cr *trustifyv1alpha1.Trustify) string {
	if cr.IsDatabaseRequired() {
		return ""
	}
	return externalDatabaseProblem("database", cr.Spec.Database)
}

func validateKeycloakDatabase(cr *trustifyv1alpha1.Trustify) string {
	if !cr.IsKeycloakRequired() || cr.IsKeycloakDatabaseRequired() {
		return ""
	}
	return externalDatabaseProblem("keycloak database", cr.KeycloakDatabase())
}

func externalDatabaseProblem(what string, db *trustifyv1alpha1.DatabaseSpec) string {
	ext := db.ExternalDatabase
	switch {
	case ext == nil:
		return what + " is external but externalDatabase is not set"
	case ext.UsernameSecret == nil || ext.PasswordSecret == nil:
		return what + " is external but has no username or password secret"
	case ext.Host == "":
		return what + " is external but has no host"
	}
	return ""
}
