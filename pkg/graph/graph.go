// Package graph declares a static, validated workflow graph.
//
// A Graph is a table of nodes built once with New and never mutated afterwards, so it can be
// shared by any number of concurrent runs. Each node names its default successor; a node may
// override it at run time through Result.Next.
package graph

import (
	"context"
	"fmt"

	"github.com/aretw0/aura/pkg/domain"
)

// Terminal is the pseudo-node that ends a run.
const Terminal = "__end__"

// Result is the update a node returns after running.
type Result struct {
	// Messages are appended to the state (or replace it when Replace is set).
	Messages []domain.Message
	Replace  bool
	// Next overrides the declared successor when non-empty.
	Next string
}

// RunFunc executes one node against the run state.
type RunFunc func(ctx context.Context, state *domain.WorkflowState) (Result, error)

// Node is a named step of the workflow.
type Node struct {
	Name string
	// Next is the declared successor (another node name or Terminal).
	Next string
	Run  RunFunc
}

// Graph is an immutable, validated set of nodes with one entry point.
type Graph struct {
	entry string
	order []string
	nodes map[string]Node
}

// New validates the nodes and builds a Graph starting at entry.
func New(entry string, nodes ...Node) (*Graph, error) {
	g := &Graph{
		entry: entry,
		order: make([]string, 0, len(nodes)),
		nodes: make(map[string]Node, len(nodes)),
	}

	if len(nodes) == 0 {
		return nil, invalid("", "graph has no nodes")
	}

	for _, n := range nodes {
		if n.Name == "" {
			return nil, invalid("", "node name is empty")
		}
		if n.Name == Terminal {
			return nil, invalid(n.Name, "node name is reserved")
		}
		if _, dup := g.nodes[n.Name]; dup {
			return nil, invalid(n.Name, "duplicate node name")
		}
		if n.Run == nil {
			return nil, invalid(n.Name, "node has no run function")
		}
		g.nodes[n.Name] = n
		g.order = append(g.order, n.Name)
	}

	if _, ok := g.nodes[entry]; !ok {
		return nil, &domain.InvariantError{Node: entry, Err: fmt.Errorf("%w: entry node is not declared", domain.ErrUnknownNode)}
	}

	for _, name := range g.order {
		next := g.nodes[name].Next
		if next == "" {
			return nil, invalid(name, "node has no declared successor")
		}
		if next == Terminal {
			continue
		}
		if _, ok := g.nodes[next]; !ok {
			return nil, &domain.InvariantError{Node: name, Err: fmt.Errorf("%w: %q", domain.ErrUnknownNode, next)}
		}
	}

	if _, err := g.walk(); err != nil {
		return nil, err
	}

	return g, nil
}

func invalid(node, reason string) error {
	return &domain.InvariantError{Node: node, Err: fmt.Errorf("%w: %s", domain.ErrInvalidGraph, reason)}
}

// walk follows the declared edges from the entry to Terminal.
func (g *Graph) walk() ([]string, error) {
	visited := make(map[string]bool, len(g.nodes))
	path := make([]string, 0, len(g.nodes))

	for current := g.entry; current != Terminal; current = g.nodes[current].Next {
		if visited[current] {
			return nil, &domain.InvariantError{Node: current, Err: domain.ErrCycleDetected}
		}
		visited[current] = true
		path = append(path, current)
	}
	return path, nil
}

// Entry returns the name of the first node.
func (g *Graph) Entry() string {
	return g.entry
}

// Node looks up a node by name.
func (g *Graph) Node(name string) (Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Nodes returns the node names in declaration order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.order...)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Path returns the declared path from the entry to Terminal (Terminal excluded).
func (g *Graph) Path() []string {
	path, _ := g.walk()
	return path
}
