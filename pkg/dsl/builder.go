package dsl

import (
	"fmt"

	"github.com/aretw0/easybake/pkg/dag"
	"github.com/aretw0/easybake/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	order []domain.TaskID
	nodes map[domain.TaskID]*NodeBuilder
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[domain.TaskID]*NodeBuilder),
	}
}

// Add creates a new node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id domain.TaskID) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: dag.Node{
			ID:      id,
			Kind:    dag.KindTask,
			Trigger: dag.AllSuccess,
			Retries: dag.DefaultRetries,
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build compiles and validates the graph. Nodes keep the order in which they were added.
func (b *Builder) Build() (*dag.Graph, error) {
	g := dag.New()
	for _, id := range b.order {
		if err := g.Add(b.nodes[id].node); err != nil {
			return nil, fmt.Errorf("failed to add node %s: %w", id, err)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}
	return g, nil
}
