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

// Package names generates deterministic names for the objects owned by a
// Trustify resource.
//
// Child objects are named "<cr>-<suffix>", for example "demo-trustify-db-pvc".
// When that would exceed the limit for the object kind, the name is truncated
// and a hash of the untruncated parts is appended after a "---" mark, so two
// long names that share a prefix never collide.
package names

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

const (
	// hashBytes is the number of bytes included in the result of Hash().
	// This must never be changed since it would rename existing objects.
	hashBytes = 4

	hashLength = 2 * hashBytes

	// truncationMark separates a truncated name from its hash.
	truncationMark = "---"

	// minTruncatedLength is one leading character, the mark and the hash.
	minTruncatedLength = 1 + len(truncationMark) + hashLength
)

// Constraints specifies rules that the output of Join must follow.
type Constraints struct {
	// MaxLength is the maximum length of the output including any hash
	// suffix. It must be at least 12; smaller values panic.
	MaxLength int
	// ValidFirstChar reports whether r may start the output.
	ValidFirstChar func(r rune) bool
}

var (
	// DefaultConstraints are the name constraints for objects in Kubernetes
	// that don't have any special rules.
	DefaultConstraints = Constraints{
		MaxLength:      253,
		ValidFirstChar: isLowercaseAlphanumeric,
	}
	// ServiceConstraints are name constraints for Service objects.
	ServiceConstraints = Constraints{
		MaxLength:      63,
		ValidFirstChar: isLowercaseLetter,
	}
	// DeploymentConstraints leave room for the ReplicaSet and Pod suffixes
	// that the deployment controller appends.
	DeploymentConstraints = Constraints{
		MaxLength:      47,
		ValidFirstChar: isLowercaseLetter,
	}
)

// Suffix identifies one kind of child object.
type Suffix string

const (
	CommonConfigMap Suffix = "trustify-common-configmap"

	DBPVC        Suffix = "trustify-db-pvc"
	DBSecret     Suffix = "trustify-db-secret"
	DBDeployment Suffix = "trustify-db-deployment"
	DBService    Suffix = "trustify-db-service"

	ServerConfigMap  Suffix = "trustify-server-configmap"
	ServerPVC        Suffix = "trustify-server-pvc"
	ServerDeployment Suffix = "trustify-server-deployment"
	ServerService    Suffix = "trustify-server-service"

	UIDeployment Suffix = "trustify-ui-deployment"
	UIService    Suffix = "trustify-ui-service"
	Ingress      Suffix = "trustify-ingress"

	KeycloakTLSSecret    Suffix = "keycloak-tls"
	KeycloakDBPVC        Suffix = "keycloak-db-pvc"
	KeycloakDBSecret     Suffix = "keycloak-db-secret"
	KeycloakDBDeployment Suffix = "keycloak-db-deployment"
	KeycloakDBService    Suffix = "keycloak-db-service"

	// Keycloak and KeycloakRealmImport are created by the provisioner.
	// KeycloakService is created by the Keycloak operator for the Keycloak CR.
	Keycloak            Suffix = "keycloak"
	KeycloakService     Suffix = "keycloak-service"
	KeycloakRealmImport Suffix = "realm-import"
)

// Child returns the name of the child object of crName with the given suffix,
// using the constraints appropriate for its kind.
func Child(crName string, s Suffix) string {
	return Join(constraintsFor(s), crName, string(s))
}

func constraintsFor(s Suffix) Constraints {
	switch {
	case strings.HasSuffix(string(s), "-service"):
		return ServiceConstraints
	case strings.HasSuffix(string(s), "-deployment"):
		return DeploymentConstraints
	}
	return DefaultConstraints
}

// Hash computes a hash suffix for the given name parts.
func Hash(parts []string) string {
	h := md5.New()
	for _, part := range parts {
		h.Write([]byte(part))
		// The separator must differ from '-' so that moving a substring
		// between adjacent parts changes the hash.
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:hashBytes])
}

// Join concatenates parts with '-' and enforces cons on the result.
//
// Characters that are not valid in a name are lowercased or replaced with
// '-'. If the result fits, it is returned as is. Otherwise it is truncated
// and the hash of the original parts is appended after a truncation mark.
func Join(cons Constraints, parts ...string) string {
	if cons.MaxLength < minTruncatedLength {
		panic(
			fmt.Sprintf(
				"MaxLength of %v is invalid; must be at least %v",
				cons.MaxLength,
				minTruncatedLength,
			),
		)
	}

	if len(parts) == 0 {
		return ""
	}

	transform := func(r rune) rune {
		if isLowercaseAlphanumeric(r) || r == '-' {
			return r
		}
		if isUppercaseLetter(r) {
			return unicode.ToLower(r)
		}
		return '-'
	}
	newParts := make([]string, 0, len(parts))
	for _, part := range parts {
		newParts = append(newParts, strings.Map(transform, part))
	}

	// From here on newParts contain only ASCII.
	if first := newParts[0]; len(first) == 0 || !cons.ValidFirstChar(rune(first[0])) {
		newParts[0] = "x" + first
	}

	joined := strings.Join(newParts, "-")
	if len(joined) <= cons.MaxLength {
		return joined
	}

	keep := cons.MaxLength - len(truncationMark) - hashLength
	return joined[:keep] + truncationMark + Hash(parts)
}

func isLowercaseLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isUppercaseLetter(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLowercaseAlphanumeric(r rune) bool {
	return isLowercaseLetter(r) || isDigit(r)
}
