// Package graph provides the dependency graph over subtask IDs used for
// plan ordering and complexity estimates.
package graph

import "sort"

// Node is one subtask's position in the dependency graph.
type Node struct {
	// ID is the subtask ID this node represents.
	ID int
	// DependsOn lists IDs this node is blocked by (forward edges).
	DependsOn []int
	// RequiredBy lists IDs blocked by this node (reverse edges).
	RequiredBy []int
}

// DependencyGraph is a directed graph of subtask dependencies. It is built
// once per plan and immutable thereafter; execution is single-threaded, so
// no locking is needed.
//
// The graph assumes acyclic input but does not reject cycles: every
// traversal carries a visited set, so a cycle degrades to ignored back
// edges rather than non-termination. Callers that want hard rejection can
// check HasCycle after Build.
type DependencyGraph struct {
	nodes map[int]*Node
}

// Build constructs a graph from a map of subtask ID to the IDs it depends
// on. Reverse edges are computed by inversion. Edges referencing unknown
// IDs are ignored; normalization upstream is expected to have dropped them.
func Build(deps map[int][]int) *DependencyGraph {
	g := &DependencyGraph{nodes: make(map[int]*Node, len(deps))}

	for id := range deps {
		g.nodes[id] = &Node{ID: id}
	}
	for id, depIDs := range deps {
		for _, depID := range depIDs {
			if _, ok := g.nodes[depID]; !ok {
				continue
			}
			g.nodes[id].DependsOn = append(g.nodes[id].DependsOn, depID)
			g.nodes[depID].RequiredBy = append(g.nodes[depID].RequiredBy, id)
		}
	}
	return g
}

// Node returns the node for the given ID, or nil if absent.
func (g *DependencyGraph) Node(id int) *Node {
	return g.nodes[id]
}

// Size returns the number of nodes in the graph.
func (g *DependencyGraph) Size() int {
	return len(g.nodes)
}

// IDs returns all node IDs in ascending order.
func (g *DependencyGraph) IDs() []int {
	ids := make([]int, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Dependencies returns the IDs the given node depends on.
func (g *DependencyGraph) Dependencies(id int) []int {
	if n := g.nodes[id]; n != nil {
		return n.DependsOn
	}
	return nil
}

// Dependents returns the IDs that depend on the given node.
func (g *DependencyGraph) Dependents(id int) []int {
	if n := g.nodes[id]; n != nil {
		return n.RequiredBy
	}
	return nil
}

// RootCount returns the number of nodes with no dependencies. These are
// the subtasks that could in principle run in parallel.
func (g *DependencyGraph) RootCount() int {
	count := 0
	for _, n := range g.nodes {
		if len(n.DependsOn) == 0 {
			count++
		}
	}
	return count
}

// ExecutionOrder returns node IDs in an order where every dependency comes
// before the nodes that depend on it. Uses depth-first post-order from
// every node with a visited set; iteration is by ascending ID so the order
// is deterministic.
func (g *DependencyGraph) ExecutionOrder() []int {
	visited := make(map[int]bool, len(g.nodes))
	order := make([]int, 0, len(g.nodes))

	var visit func(id int)
	visit = func(id int) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, depID := range g.nodes[id].DependsOn {
			visit(depID)
		}
		order = append(order, id)
	}

	for _, id := range g.IDs() {
		visit(id)
	}
	return order
}

// HasCycle returns true if the graph contains a circular dependency.
// Uses depth-first search with coloring to detect back edges.
func (g *DependencyGraph) HasCycle() bool {
	// Color states: 0 = white (unvisited), 1 = gray (in progress), 2 = black (done).
	colors := make(map[int]int, len(g.nodes))

	var visit func(id int) bool
	visit = func(id int) bool {
		colors[id] = 1
		for _, depID := range g.nodes[id].DependsOn {
			switch colors[depID] {
			case 1:
				return true
			case 0:
				if visit(depID) {
					return true
				}
			}
		}
		colors[id] = 2
		return false
	}

	for id := range g.nodes {
		if colors[id] == 0 {
			if visit(id) {
				return true
			}
		}
	}
	return false
}

// MaxDepth returns the length of the longest dependency chain in the
// graph. Each path carries its own visited set so a cycle cannot recurse
// forever; a node with no dependencies has depth 1.
func (g *DependencyGraph) MaxDepth() int {
	var depth func(id int, onPath map[int]bool) int
	depth = func(id int, onPath map[int]bool) int {
		onPath[id] = true
		defer delete(onPath, id)

		longest := 0
		for _, depID := range g.nodes[id].DependsOn {
			if onPath[depID] {
				continue
			}
			if d := depth(depID, onPath); d > longest {
				longest = d
			}
		}
		return longest + 1
	}

	maxDepth := 0
	for id := range g.nodes {
		if d := depth(id, make(map[int]bool)); d > maxDepth {
			maxDepth = d
		}
	}
	return maxDepth
}
