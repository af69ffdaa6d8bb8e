package main

import (
	"fmt"
)

// Extract walks every path back into a feature, in input order.
// When nothing was removed from the graph every feature is emitted exactly as
// it came in. Otherwise every path is emitted from canonical node
// coordinates, so snapped vertices stay coincident across owners. A path that
// comes out open, short or through a removed node is reverted to its input
// points with a diagnostic.
func Extract(g *Graph) ([]Feature, []Diagnostic) {
	features := make([]Feature, 0, len(g.Paths))
	var diagnostics []Diagnostic
	edited := g.edited()

	for _, path := range g.Paths {
		f := Feature{
			LayerID:   path.LayerID,
			FeatureID: path.FeatureID,
			Kind:      path.Kind,
		}

		if path.Skipped || !edited {
			f.Points = append([]Point(nil), path.Original...)
			features = append(features, f)
			continue
		}

		points, err := g.pathPoints(path)
		if err != nil {
			diagnostics = append(diagnostics,
				newDiagnostic(SeverityWarning, "extract", path.LayerID, path.FeatureID, err))
			points = append([]Point(nil), path.Original...)
		}
		f.Points = points
		features = append(features, f)
	}

	return features, diagnostics
}

func (g *Graph) pathPoints(path *FeaturePath) ([]Point, error) {
	ids := path.walk()
	if len(ids) != path.Len() {
		return nil, fmt.Errorf("%w: walked %d points, expected %d", ErrTopologyInconsistent, len(ids), path.Len())
	}
	if len(ids) < path.Kind.MinPoints() {
		return nil, fmt.Errorf("%w: %d points below minimum %d", ErrTopologyInconsistent, len(ids), path.Kind.MinPoints())
	}
	if path.Closed && ids[0] != ids[len(ids)-1] {
		return nil, fmt.Errorf("%w: ring is no longer closed", ErrTopologyInconsistent)
	}

	points := make([]Point, len(ids))
	for i, id := range ids {
		if g.Nodes[id].Removed {
			return nil, fmt.Errorf("%w: path still references removed node %d", ErrTopologyInconsistent, id)
		}
		points[i] = g.Nodes[id].Pt
	}
	return points, nil
}

// edited reports whether any path of the graph lost a vertex
func (g *Graph) edited() bool {
	for _, path := range g.Paths {
		if path.Removed() {
			return true
		}
	}
	return false
}
