// Package graph provides the native graph representation the dispatch
// layer routes on: an undirected adjacency structure with node and edge
// attribute maps and a per-object conversion cache.
//
// The dispatch layer itself never depends on this package; it sees graphs
// as opaque values and probes them for the capabilities declared in
// package backend. A *Graph carries no backend tag, so it is always the
// native representation.
package graph

import (
	"fmt"
)

// Attrs is a free-form attribute map attached to nodes and edges.
type Attrs map[string]any

// edgeKey orders an undirected node pair canonically.
type edgeKey struct {
	u, v string
}

func keyOf(u, v string) edgeKey {
	if u > v {
		u, v = v, u
	}
	return edgeKey{u, v}
}

// Graph is an undirected graph with attributed nodes and edges. Node and
// edge iteration follow insertion order. Graph is not safe for concurrent
// mutation.
type Graph struct {
	nodeOrder []string
	nodes     map[string]Attrs
	edgeOrder []edgeKey
	edges     map[edgeKey]Attrs
	adjacency map[string][]string
	cache     map[string]any
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[string]Attrs),
		edges:     make(map[edgeKey]Attrs),
		adjacency: make(map[string][]string),
	}
}

// AddNode inserts a node, merging attrs into any existing attribute map.
// Mutation invalidates cached conversions.
func (g *Graph) AddNode(id string, attrs Attrs) {
	existing, ok := g.nodes[id]
	if !ok {
		existing = make(Attrs)
		g.nodes[id] = existing
		g.nodeOrder = append(g.nodeOrder, id)
	}
	for k, v := range attrs {
		existing[k] = v
	}
	g.cache = nil
}

// AddEdge inserts an undirected edge, adding missing endpoints, and merges
// attrs into any existing attribute map. Mutation invalidates cached
// conversions.
func (g *Graph) AddEdge(u, v string, attrs Attrs) {
	g.AddNode(u, nil)
	g.AddNode(v, nil)
	k := keyOf(u, v)
	existing, ok := g.edges[k]
	if !ok {
		existing = make(Attrs)
		g.edges[k] = existing
		g.edgeOrder = append(g.edgeOrder, k)
		g.adjacency[u] = append(g.adjacency[u], v)
		if u != v {
			g.adjacency[v] = append(g.adjacency[v], u)
		}
	}
	for k, v := range attrs {
		existing[k] = v
	}
	g.cache = nil
}

// HasNode reports whether id is a node of g.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all node ids in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// Edge is one undirected edge with its attributes.
type Edge struct {
	U, V  string
	Attrs Attrs
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edgeOrder))
	for _, k := range g.edgeOrder {
		out = append(out, Edge{U: k.u, V: k.v, Attrs: g.edges[k]})
	}
	return out
}

// Neighbors returns the adjacent nodes of id in insertion order.
func (g *Graph) Neighbors(id string) []string {
	adj := g.adjacency[id]
	out := make([]string, len(adj))
	copy(out, adj)
	return out
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return len(g.nodeOrder) }

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int { return len(g.edgeOrder) }

// NodeAttr returns one attribute of a node.
func (g *Graph) NodeAttr(id, attr string) (any, bool) {
	attrs, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	v, ok := attrs[attr]
	return v, ok
}

// NodeAttrs returns a copy of a node's attribute map.
func (g *Graph) NodeAttrs(id string) Attrs {
	attrs, ok := g.nodes[id]
	if !ok {
		return nil
	}
	out := make(Attrs, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

// EdgeAttr returns one attribute of the edge between u and v.
func (g *Graph) EdgeAttr(u, v, attr string) (any, bool) {
	attrs, ok := g.edges[keyOf(u, v)]
	if !ok {
		return nil, false
	}
	val, ok := attrs[attr]
	return val, ok
}

// HasEdge reports whether u and v are connected.
func (g *Graph) HasEdge(u, v string) bool {
	_, ok := g.edges[keyOf(u, v)]
	return ok
}

func (g *Graph) String() string {
	return fmt.Sprintf("graph with %d nodes and %d edges", len(g.nodeOrder), len(g.edgeOrder))
}

// CachedConversion returns the cached backend conversion of g, if any.
// Together with CacheConversion this satisfies the backend.Cacher
// capability.
func (g *Graph) CachedConversion(backend string) (any, bool) {
	v, ok := g.cache[backend]
	return v, ok
}

// CacheConversion stores a backend conversion of g on the object. The
// cache is dropped whenever g is mutated through AddNode or AddEdge.
func (g *Graph) CacheConversion(backend string, converted any) {
	if g.cache == nil {
		g.cache = make(map[string]any)
	}
	g.cache[backend] = converted
}

// Path returns a path graph with nodes "0".."n-1" connected in a line.
// Handy for tests and examples.
func Path(n int) *Graph {
	g := New()
	for i := 0; i < n; i++ {
		g.AddNode(fmt.Sprint(i), nil)
	}
	for i := 1; i < n; i++ {
		g.AddEdge(fmt.Sprint(i-1), fmt.Sprint(i), nil)
	}
	return g
}
