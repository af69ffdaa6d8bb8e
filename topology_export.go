package main

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// EdgeLines returns the live edges of the graph as line segments, one per
// shared edge, with the owning features as properties
func (g *Graph) EdgeLines() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for i := range g.Edges {
		e := &g.Edges[i]
		if e.Removed {
			continue
		}

		owners := make([]string, 0, len(e.Owners))
		for _, o := range e.Owners {
			owners = append(owners, g.Paths[o].LayerID)
		}

		f := geojson.NewFeature(orb.LineString{g.Nodes[e.A].Pt.orb(), g.Nodes[e.B].Pt.orb()})
		f.ID = i
		f.Properties["owners"] = len(e.Owners)
		f.Properties["layers"] = owners
		f.Properties["shared"] = len(e.Owners) > 1
		f.Properties["closed"] = e.Closed
		fc.Append(f)
	}

	return fc
}

// NodePoints returns the nodes of the graph that are still in use, with
// their owner count and lock state
func (g *Graph) NodePoints() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Removed || len(n.Owners) == 0 {
			continue
		}
		f := geojson.NewFeature(n.Pt.orb())
		f.ID = i
		f.Properties["owners"] = len(n.Owners)
		f.Properties["locked"] = n.Locked
		fc.Append(f)
	}

	return fc
}

// ExportTopology builds the shared topology of a batch and returns its
// edges and nodes, without simplifying
func ExportTopology(features []Feature, opts Options) (edges, nodes *geojson.FeatureCollection) {
	g := BuildGraph(features, opts.Tolerance)
	rank(g, opts.Metric)
	return g.EdgeLines(), g.NodePoints()
}
