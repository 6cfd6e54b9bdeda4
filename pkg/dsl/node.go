package dsl

import (
	"context"
	"time"

	"github.com/aretw0/easybake/pkg/dag"
	"github.com/aretw0/easybake/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    dag.Node
	builder *Builder
}

// Do sets the node's action and marks it as a plain task.
func (n *NodeBuilder) Do(action dag.Action) *NodeBuilder {
	n.node.Kind = dag.KindTask
	n.node.Action = action
	return n
}

// Branch sets a decision function and marks the node as a branch point.
func (n *NodeBuilder) Branch(decide func(ctx context.Context, rc *dag.RunContext) (dag.Selection, error)) *NodeBuilder {
	n.node.Kind = dag.KindBranch
	n.node.Action = func(ctx context.Context, rc *dag.RunContext) (any, error) {
		return decide(ctx, rc)
	}
	return n
}

// After adds upstream dependencies.
func (n *NodeBuilder) After(ids ...domain.TaskID) *NodeBuilder {
	n.node.Upstream = append(n.node.Upstream, ids...)
	return n
}

// Trigger sets the trigger rule (default dag.AllSuccess).
func (n *NodeBuilder) Trigger(rule dag.TriggerRule) *NodeBuilder {
	n.node.Trigger = rule
	return n
}

// Retry overrides the runner's retry policy for this node.
// A count of zero or less disables retries.
func (n *NodeBuilder) Retry(retries int, delay time.Duration) *NodeBuilder {
	if retries <= 0 {
		retries = dag.NoRetries
	}
	n.node.Retries = retries
	n.node.RetryDelay = delay
	return n
}

// Describe sets a human readable description.
func (n *NodeBuilder) Describe(text string) *NodeBuilder {
	n.node.Description = text
	return n
}

// Build returns the underlying dag.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() dag.Node {
	return n.node
}
