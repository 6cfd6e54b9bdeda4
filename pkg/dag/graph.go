package dag

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/easybake/pkg/domain"
)

var (
	// ErrDuplicateNode is returned when two nodes share an ID.
	ErrDuplicateNode = errors.New("duplicate node")
	// ErrUnknownNode is returned when an edge points to a node that does not exist.
	ErrUnknownNode = errors.New("unknown node")
	// ErrCycle is returned when the graph is not acyclic.
	ErrCycle = errors.New("cycle detected")
	// ErrInvalidNode is returned for nodes that cannot be executed.
	ErrInvalidNode = errors.New("invalid node")
)

// Graph is a directed acyclic graph of Nodes.
// It is built once and read concurrently afterwards; it is not safe for concurrent mutation.
type Graph struct {
	order      []domain.TaskID
	nodes      map[domain.TaskID]*Node
	downstream map[domain.TaskID][]domain.TaskID
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes:      make(map[domain.TaskID]*Node),
		downstream: make(map[domain.TaskID][]domain.TaskID),
	}
}

// Add inserts a node. Edges are only checked by Validate, so nodes may be added in any order.
func (g *Graph) Add(n Node) error {
	if n.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidNode)
	}
	if _, ok := g.nodes[n.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
	}
	if n.Retries < NoRetries {
		return fmt.Errorf("%w: %s has negative retries", ErrInvalidNode, n.ID)
	}
	if n.Kind == "" {
		n.Kind = KindTask
	}
	if n.Trigger == "" {
		n.Trigger = AllSuccess
	}
	n.Upstream = append([]domain.TaskID(nil), n.Upstream...)

	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
	for _, up := range n.Upstream {
		g.downstream[up] = append(g.downstream[up], n.ID)
	}
	return nil
}

// Validate checks edges, trigger rules and acyclicity.
func (g *Graph) Validate() error {
	for _, id := range g.order {
		n := g.nodes[id]
		if n.Action == nil {
			return fmt.Errorf("%w: %s has no action", ErrInvalidNode, id)
		}
		switch n.Trigger {
		case AllSuccess, NoneFailedMinOneSuccess:
		default:
			return fmt.Errorf("%w: %s has unknown trigger rule %q", ErrInvalidNode, id, n.Trigger)
		}
		seen := make(map[domain.TaskID]bool)
		for _, up := range n.Upstream {
			if up == id {
				return fmt.Errorf("%w: self-referential edge on %s", ErrCycle, id)
			}
			if _, ok := g.nodes[up]; !ok {
				return fmt.Errorf("%w: %s depends on %s", ErrUnknownNode, id, up)
			}
			if seen[up] {
				return fmt.Errorf("%w: %s lists %s twice", ErrInvalidNode, id, up)
			}
			seen[up] = true
		}
	}
	return g.detectCycles()
}

// detectCycles runs a depth-first search with three sets of nodes:
// permanent (fully visited), temporary (on the current path) and unvisited.
func (g *Graph) detectCycles() error {
	permanent := make(map[domain.TaskID]bool)
	temporary := make(map[domain.TaskID]bool)

	var visit func(id domain.TaskID) error
	visit = func(id domain.TaskID) error {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			return fmt.Errorf("%w: involving node '%s'", ErrCycle, id)
		}
		temporary[id] = true
		for _, down := range g.downstream[id] {
			if err := visit(down); err != nil {
				return err
			}
		}
		delete(temporary, id)
		permanent[id] = true
		return nil
	}

	for _, id := range g.order {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id domain.TaskID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// IDs returns node IDs in insertion order.
func (g *Graph) IDs() []domain.TaskID {
	return append([]domain.TaskID(nil), g.order...)
}

// Upstream returns the direct dependencies of a node.
func (g *Graph) Upstream(id domain.TaskID) []domain.TaskID {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return append([]domain.TaskID(nil), n.Upstream...)
}

// Downstream returns the nodes that directly depend on id, in insertion order.
func (g *Graph) Downstream(id domain.TaskID) []domain.TaskID {
	return append([]domain.TaskID(nil), g.downstream[id]...)
}

// Roots returns nodes without upstream edges, in insertion order.
func (g *Graph) Roots() []domain.TaskID {
	var roots []domain.TaskID
	for _, id := range g.order {
		if len(g.nodes[id].Upstream) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// TopologicalOrder returns every node after all of its upstream nodes.
// Ties are broken alphabetically so the order is deterministic.
// The graph must be valid.
func (g *Graph) TopologicalOrder() []domain.TaskID {
	indegree := make(map[domain.TaskID]int, len(g.nodes))
	for _, id := range g.order {
		indegree[id] = len(g.nodes[id].Upstream)
	}

	ready := g.Roots()
	var out []domain.TaskID
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		id := ready[0]
		ready = ready[1:]
		out = append(out, id)
		for _, down := range g.downstream[id] {
			indegree[down]--
			if indegree[down] == 0 {
				ready = append(ready, down)
			}
		}
	}
	return out
}
