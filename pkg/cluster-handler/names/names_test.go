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

package names

import (
	"strings"
	"testing"
)

func TestHash(t *testing.T) {
	if got, want := Hash([]string{"hello", "world"}), "1dd41005"; got != want {
		t.Fatalf("Hash() = %q, want %q", got, want)
	}
	if Hash([]string{"a-b", "c"}) == Hash([]string{"a", "b-c"}) {
		t.Error("moving a substring between parts must change the hash")
	}
}

func TestChild(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cr     string
		suffix Suffix
		want   string
	}{
		"database pvc": {
			cr:     "demo",
			suffix: DBPVC,
			want:   "demo-trustify-db-pvc",
		},
		"server deployment": {
			cr:     "demo",
			suffix: ServerDeployment,
			want:   "demo-trustify-server-deployment",
		},
		"keycloak tls secret": {
			cr:     "demo",
			suffix: KeycloakTLSSecret,
			want:   "demo-keycloak-tls",
		},
		"realm import": {
			cr:     "demo",
			suffix: KeycloakRealmImport,
			want:   "demo-realm-import",
		},
		"uppercase is lowered": {
			cr:     "Demo",
			suffix: Ingress,
			want:   "demo-trustify-ingress",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := Child(tc.cr, tc.suffix); got != tc.want {
				t.Errorf("Child(%q, %q) = %q, want %q", tc.cr, tc.suffix, got, tc.want)
			}
		})
	}
}

func TestChildTruncation(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 60)

	svc := Child(long, ServerService)
	if len(svc) != ServiceConstraints.MaxLength {
		t.Errorf("len(%q) = %d, want %d", svc, len(svc), ServiceConstraints.MaxLength)
	}
	if !strings.Contains(svc, truncationMark) {
		t.Errorf("truncated name %q has no truncation mark", svc)
	}

	deploy := Child(long, UIDeployment)
	if len(deploy) != DeploymentConstraints.MaxLength {
		t.Errorf("len(%q) = %d, want %d", deploy, len(deploy), DeploymentConstraints.MaxLength)
	}

	// Two crs that only differ after the cut still get distinct names.
	if Child(long+"1", DBService) == Child(long+"2", DBService) {
		t.Error("truncated names collided")
	}

	// Secrets and configmaps have the full 253 characters.
	if got := Child(long, DBSecret); got != long+"-trustify-db-secret" {
		t.Errorf("Child() = %q, want no truncation", got)
	}
}

func TestJoin(t *testing.T) {
	cons := Constraints{
		MaxLength:      50,
		ValidFirstChar: isLowercaseLetter,
	}

	table := []struct {
		input []string
		want  string
	}{
		{
			input: []string{"UpperCase-Letters", "Are-Lowercased"},
			want:  "uppercase-letters-are-lowercased",
		},
		{
			input: []string{"disallowed_symbols", "are.replaced"},
			want:  "disallowed-symbols-are-replaced",
		},
		{
			input: []string{"-disallowed first chars", "-are prefixed"},
			want:  "x-disallowed-first-chars--are-prefixed",
		},
		{
			input: []string{"really-really-ridiculously-long-inputs-are-truncated-here"},
			want:  "really-really-ridiculously-long-inputs-" + truncationMark + Hash([]string{"really-really-ridiculously-long-inputs-are-truncated-here"}),
		},
	}

	for _, test := range table {
		if got := Join(cons, test.input...); got != test.want {
			t.Errorf("Join(%v) = %q; want %q", test.input, got, test.want)
		}
	}
}

func TestInvalidConstraintsPanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for invalid constraints")
		}
	}()

	Join(Constraints{MaxLength: 5, ValidFirstChar: isLowercaseLetter}, "test")
}

func TestEmptyParts(t *testing.T) {
	if got := Join(DefaultConstraints); got != "" {
		t.Errorf("expected empty string for empty parts, got %q", got)
	}
}
