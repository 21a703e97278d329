package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("a", Attrs{"color": "red"})
	assert.True(t, g.HasNode("a"))
	assert.Equal(t, 1, g.NumNodes())

	// Re-adding merges attributes instead of replacing the node.
	g.AddNode("a", Attrs{"size": 3})
	assert.Equal(t, 1, g.NumNodes())

	v, ok := g.NodeAttr("a", "color")
	require.True(t, ok)
	assert.Equal(t, "red", v)
	_, ok = g.NodeAttr("a", "size")
	assert.True(t, ok)
}

func TestAddEdge(t *testing.T) {
	g := New()

	g.AddEdge("a", "b", Attrs{"weight": 2.5})
	assert.True(t, g.HasNode("a"))
	assert.True(t, g.HasNode("b"))
	assert.True(t, g.HasEdge("a", "b"))
	assert.True(t, g.HasEdge("b", "a"), "edges are undirected")

	w, ok := g.EdgeAttr("b", "a", "weight")
	require.True(t, ok)
	assert.Equal(t, 2.5, w)

	assert.Equal(t, []string{"b"}, g.Neighbors("a"))
	assert.Equal(t, []string{"a"}, g.Neighbors("b"))
}

func TestInsertionOrder(t *testing.T) {
	g := New()
	g.AddEdge("c", "a", nil)
	g.AddEdge("a", "b", nil)
	g.AddNode("z", nil)

	assert.Equal(t, []string{"c", "a", "b", "z"}, g.Nodes())

	edges := g.Edges()
	require.Len(t, edges, 2)
	assert.True(t, edges[0].U == "a" && edges[0].V == "c")
}

func TestPath(t *testing.T) {
	g := Path(4)
	assert.Equal(t, 4, g.NumNodes())
	assert.Equal(t, 3, g.NumEdges())
	assert.True(t, g.HasEdge("0", "1"))
	assert.True(t, g.HasEdge("2", "3"))
	assert.False(t, g.HasEdge("0", "3"))
}

func TestConversionCache(t *testing.T) {
	g := Path(2)

	_, ok := g.CachedConversion("demo")
	assert.False(t, ok)

	g.CacheConversion("demo", "converted")
	v, ok := g.CachedConversion("demo")
	require.True(t, ok)
	assert.Equal(t, "converted", v)

	// Mutation drops cached conversions.
	g.AddEdge("1", "2", nil)
	_, ok = g.CachedConversion("demo")
	assert.False(t, ok)
}
