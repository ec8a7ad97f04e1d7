package trustify

import (
	"fmt"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
	"github.com/trustification/trustify-operator/pkg/graph"
)

// NewIdentityGraph returns the nodes the embedded identity server needs
// before it can be provisioned. Every node is inactive unless the workload
// requires the embedded server.
func NewIdentityGraph(cfg Config) (*graph.Graph[*trustifyv1alpha1.Trustify], error) {
	nodes := []graph.Node[*trustifyv1alpha1.Trustify]{keycloakTLSNode()}
	db := keycloakDB.nodes(cfg)
	for i := range db {
		if db[i].Name == NodeKeycloakDBDeployment {
			db[i].Validate = validateKeycloakDatabase
		}
	}
	nodes = append(nodes, db...)

	g, err := graph.New(nodes...)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity graph: %w", err)
	}
	return g, nil
}

// NewGraph returns the application nodes: database, API server and UI.
func NewGraph(cfg Config) (*graph.Graph[*trustifyv1alpha1.Trustify], error) {
	var nodes []graph.Node[*trustifyv1alpha1.Trustify]
	nodes = append(nodes, commonConfigMapNode())
	nodes = append(nodes, trustifyDB.nodes(cfg)...)
	nodes = append(nodes, serverNodes(cfg)...)
	nodes = append(nodes, uiNodes(cfg)...)

	g, err := graph.New(nodes...)
	if err != nil {
		return nil, fmt.Errorf("failed to build workload graph: %w", err)
	}
	return g, nil
}
