package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphComponents(t *testing.T) {
	g := BuildGraph([]Feature{
		{LayerID: "a", Kind: KindLine, Points: pts(0, 0, 1, 0)},
		{LayerID: "b", Kind: KindLine, Points: pts(10, 10, 11, 10)},
		{LayerID: "a", Kind: KindLine, Points: pts(1, 0, 2, 0)},
		{LayerID: "c", Kind: KindLine, Points: pts(7)}, // skipped
		{LayerID: "b", Kind: KindLine, Points: pts(2, 0, 2, 5)},
	}, 0)

	assert.Equal(t, [][]int{{0, 2, 4}, {1}}, g.components())
}

func TestSimplifyComponentsWorkers(t *testing.T) {
	in := append(latticeGrid(), tentLine("far"))
	for i := range in[len(in)-1].Points {
		in[len(in)-1].Points[i].X += 100
	}

	g := BuildGraph(in, 0)
	require.Len(t, g.components(), 2)

	for _, workers := range []int{1, 4} {
		opts := DefaultOptions()
		opts.Workers = workers

		results, err := simplifyComponents(g, 0.5, opts)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, []int{0, 1, 2, 3, 4}, results[0].paths)
		assert.Equal(t, []int{5}, results[1].paths)
		assert.Equal(t, 5, results[1].stats.Target)
		assert.Len(t, results[1].features[0].Points, 5)
	}
}
