package keycloak

import (
	nodes "github.com/trustification/trustify-operator/pkg/resource-handler/controller/trustify"
)

const (
	roleUser  = "user"
	roleAdmin = "admin"

	// DeveloperUser is the seed account created in every realm.
	DeveloperUser = "developer"
)

var documentScopes = []string{
	"read:document",
	"create:document",
	"update:document",
	"delete:document",
}

// realm returns the realm representation imported for every workload:
// application roles, one client scope per document permission mapped to the
// user role, a seed developer account, a public client for the UI and a
// bearer-only client for the API server.
func realm() map[string]any {
	scopes := make([]any, 0, len(documentScopes))
	mappings := make(map[string]any, len(documentScopes))
	for _, s := range documentScopes {
		scopes = append(scopes, map[string]any{
			"name":     s,
			"protocol": "openid-connect",
		})
		mappings[s] = []any{map[string]any{"roles": []any{roleUser}}}
	}

	defaultScopes := []any{
		"acr",
		"address",
		"basic",
		"email",
		"microprofile-jwt",
		"offline_access",
		"phone",
		"profile",
		"roles",
	}
	for _, s := range documentScopes {
		defaultScopes = append(defaultScopes, s)
	}

	return map[string]any{
		"realm":   nodes.RealmName,
		"enabled": true,
		"roles": map[string]any{
			"realm": []any{
				map[string]any{"name": roleUser, "description": "User of the application", "composite": false},
				map[string]any{"name": roleAdmin, "description": "Admin of the application", "composite": false},
			},
		},
		"clientScopes":             scopes,
		"clientScopeScopeMappings": mappings,
		"users": []any{
			map[string]any{
				"username":  DeveloperUser,
				"email":     "developer@trustify.org",
				"firstName": "Developer",
				"lastName":  "Developer",
				"enabled":   true,
				"realmRoles": []any{
					"default-roles-trustify",
					"offline_access",
					"uma_authorization",
					roleUser,
				},
				"credentials": []any{
					map[string]any{"type": "password", "value": "password", "temporary": false},
				},
			},
		},
		"clients": []any{
			map[string]any{
				"clientId":            nodes.FrontendClient,
				"publicClient":        true,
				"redirectUris":        []any{"*"},
				"webOrigins":          []any{"*"},
				"defaultClientScopes": defaultScopes,
			},
			map[string]any{
				"clientId":   nodes.BackendClient,
				"bearerOnly": true,
			},
		},
	}
}
