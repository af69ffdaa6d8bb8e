package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveNodeRewiresSharedEdges(t *testing.T) {
	g := BuildGraph(twoSquares(), 0)
	id := nodeAt(t, g, Point{2, 1})
	p, n, ok := g.neighbourPair(id)
	require.True(t, ok)

	g.removeNode(id, p, n)

	assert.True(t, g.Nodes[id].Removed)
	assert.Nil(t, g.EdgeOwners(p, id))
	assert.Nil(t, g.EdgeOwners(id, n))
	assert.ElementsMatch(t, []int{0, 1}, g.EdgeOwners(p, n))
	assert.Equal(t, 7, g.Paths[0].Len())
	assert.Equal(t, 7, g.Paths[1].Len())

	for _, e := range g.Edges {
		if (e.A == id || e.B == id) && !e.Removed {
			t.Fatalf("edge %d-%d still live", e.A, e.B)
		}
	}
}

func TestSimplifyGraphRejectsExistingEdge(t *testing.T) {
	// removing (1,1) would join (0,0) and (2,0), which the other line already does
	g := BuildGraph([]Feature{
		{LayerID: "a", Kind: KindLine, Points: pts(0, 0, 1, 1, 2, 0)},
		{LayerID: "b", Kind: KindLine, Points: pts(0, 0, 2, 0)},
	}, 0)

	stats := simplifyGraph(g, 0.1, ScopeGlobal, MetricArea)
	assert.Equal(t, 0, stats.Removed)
	assert.True(t, stats.Exhausted)
	assert.False(t, g.Nodes[nodeAt(t, g, Point{1, 1})].Removed)
}

func TestSimplifyGraphStopsAtTarget(t *testing.T) {
	g := BuildGraph([]Feature{tentLine("a")}, 0)
	stats := simplifyGraph(g, 0.5, ScopeGlobal, MetricArea)

	assert.Equal(t, 5, stats.Target)
	assert.Equal(t, 5, stats.Removed)
	assert.Equal(t, 2, stats.Locked)
	assert.False(t, stats.Exhausted)
	assert.Equal(t, 5, g.TotalPoints())
}

func TestRemovalTargetsLayerScope(t *testing.T) {
	g := BuildGraph([]Feature{
		{LayerID: "a", Kind: KindLine, Points: pts(0, 0, 1, 1, 2, 0, 3, 1)},
		{LayerID: "b", Kind: KindLine, Points: pts(0, 5, 1, 6, 2, 5, 3, 6)},
	}, 0)
	targets := newRemovalTargets(g, 0.5, ScopeLayer)

	assert.Equal(t, 4, targets.target)
	assert.False(t, targets.met())

	a := nodeAt(t, g, Point{1, 1})
	b := nodeAt(t, g, Point{1, 6})
	targets.record(g, a)
	targets.record(g, nodeAt(t, g, Point{2, 0}))
	assert.False(t, targets.allows(g, a))
	assert.True(t, targets.allows(g, b))
	assert.False(t, targets.met())
}
