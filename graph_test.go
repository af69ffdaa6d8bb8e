package main

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGraphSharedNodesAndEdges(t *testing.T) {
	g := BuildGraph([]Feature{
		{LayerID: "roads", FeatureID: 1, Kind: KindLine, Points: pts(0, 0, 1, 0, 2, 0, 3, 0)},
		{LayerID: "rivers", FeatureID: 1, Kind: KindLine, Points: pts(1, 0, 2, 0, 2, 1)},
	}, 0)

	require.Empty(t, g.diagnostics)
	assert.Len(t, g.Nodes, 5)
	assert.Len(t, g.Edges, 4)

	a := g.registry.Intern(Point{1, 0})
	b := g.registry.Intern(Point{2, 0})
	assert.ElementsMatch(t, []int{0, 1}, g.Nodes[a].Owners)
	assert.ElementsMatch(t, []int{0, 1}, g.EdgeOwners(a, b))
	assert.ElementsMatch(t, []int{0, 1}, g.EdgeOwners(b, a))

	end := g.registry.Intern(Point{3, 0})
	assert.Equal(t, []int{0}, g.EdgeOwners(b, end))
	assert.Nil(t, g.EdgeOwners(a, end))

	assert.Equal(t, 7, g.TotalPoints())
	assert.Equal(t, map[string]int{"roads": 4, "rivers": 3}, g.LayerPoints())
}

func TestBuildGraphRing(t *testing.T) {
	g := BuildGraph([]Feature{
		{LayerID: "parcels", FeatureID: 9, Kind: KindPolygon, Points: pts(0, 0, 1, 0, 1, 1, 0, 1, 0, 0)},
	}, 0)

	require.Len(t, g.Paths, 1)
	path := g.Paths[0]
	assert.True(t, path.Closed)
	assert.Len(t, path.Nodes, 4)
	assert.Equal(t, 5, path.Len())
	assert.False(t, path.Removed())
	assert.Len(t, g.Edges, 4)

	ids := path.walk()
	require.Len(t, ids, 5)
	assert.Equal(t, ids[0], ids[4])

	for _, e := range g.Edges {
		assert.True(t, e.Closed)
	}
}

func TestBuildGraphSkipsMalformedFeatures(t *testing.T) {
	tests := []struct {
		name    string
		feature Feature
		wantErr error
	}{
		{"empty", Feature{Kind: KindLine}, ErrEmptyGeometry},
		{"single point line", Feature{Kind: KindLine, Points: pts(0, 0)}, ErrInputShape},
		{"short ring", Feature{Kind: KindPolygon, Points: pts(0, 0, 1, 0, 0, 0)}, ErrInputShape},
		{"open ring", Feature{Kind: KindPolygon, Points: pts(0, 0, 1, 0, 1, 1, 0, 1)}, ErrInputShape},
		{"unknown kind", Feature{Kind: Kind(7), Points: pts(0, 0, 1, 1)}, ErrInputShape},
		{"nan", Feature{Kind: KindLine, Points: []Point{{0, 0}, {math.NaN(), 1}}}, ErrInputShape},
		{"degenerate ring", Feature{Kind: KindPolygon, Points: pts(0, 0, 1, 0, 0, 0, 1, 0, 0, 0)}, ErrInputShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.feature.LayerID = "bad"
			tt.feature.FeatureID = 3
			g := BuildGraph([]Feature{
				tt.feature,
				{LayerID: "good", Kind: KindLine, Points: pts(5, 5, 6, 6)},
			}, 0)

			require.Len(t, g.diagnostics, 1)
			d := g.diagnostics[0]
			assert.Equal(t, SeverityWarning, d.Severity)
			assert.True(t, errors.Is(d, tt.wantErr), d.Message)

			var fe *FeatureError
			require.True(t, errors.As(d, &fe))
			assert.Equal(t, "bad", fe.LayerID)
			assert.Equal(t, int64(3), fe.FeatureID)

			assert.True(t, g.Paths[0].Skipped)
			assert.False(t, g.Paths[1].Skipped)
			assert.Equal(t, 2, g.TotalPoints())
		})
	}
}

func TestBuildGraphToleranceSnapping(t *testing.T) {
	g := BuildGraph([]Feature{
		{LayerID: "a", Kind: KindLine, Points: pts(0, 0, 1, 0, 2, 0)},
		{LayerID: "b", Kind: KindLine, Points: pts(1.001, 0.001, 1, 5)},
	}, 0.01)

	assert.Len(t, g.Nodes, 4)
	shared := g.registry.Intern(Point{1, 0})
	assert.ElementsMatch(t, []int{0, 1}, g.Nodes[shared].Owners)
}

func TestFeaturePathUnlinkRingHead(t *testing.T) {
	g := BuildGraph([]Feature{
		{Kind: KindPolygon, Points: pts(0, 0, 2, 0, 2, 2, 1, 3, 0, 2, 0, 0)},
	}, 0)
	path := g.Paths[0]

	path.unlink(0)
	assert.True(t, path.Removed())
	assert.Equal(t, 5, path.Len())

	ids := path.walk()
	require.Len(t, ids, 5)
	assert.Equal(t, Point{2, 0}, g.Nodes[ids[0]].Pt)
	assert.Equal(t, ids[0], ids[4])
}

func TestBuildGraphPointSetHasNoEdges(t *testing.T) {
	g := BuildGraph([]Feature{
		{LayerID: "poi", Kind: KindPoint, Points: pts(0, 0, 1, 0, 2, 0)},
	}, 0)

	assert.Len(t, g.Nodes, 3)
	assert.Empty(t, g.Edges)
	assert.Equal(t, 3, g.TotalPoints())
}
