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

// Package v1alpha1 defines the API types for the Trustify Operator.
//
// This package contains the Go type definitions for the Custom Resources in
// the trustify.org API group. These types are used by kubebuilder to generate:
//   - CustomResourceDefinitions (CRDs)
//   - DeepCopy methods
//
// # Custom Resources
//
//   - Trustify: one Trustify installation. Users choose the database, document
//     storage, authentication and hostname here.
//
// # Managed Objects
//
// The operator does not define child resources of its own. A Trustify owns
// plain Kubernetes objects, plus the Keycloak resources it asks the Keycloak
// operator to serve:
//
//	Trustify
//	├── PostgreSQL PVC, Secret, Deployment, Service (embedded database)
//	├── API server ConfigMap, PVC, Deployment, Service
//	├── UI Deployment, Service
//	├── Ingress
//	└── Identity server (embedded OIDC)
//	    ├── Keycloak TLS Secret, PostgreSQL objects
//	    ├── OperatorGroup, Subscription (Keycloak operator)
//	    ├── Keycloak
//	    └── KeycloakRealmImport
//
// # Versioning
//
// This is the v1alpha1 version, indicating the API is in early development
// and may change in backward-incompatible ways.
package v1alpha1
