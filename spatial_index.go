package main

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// nodeEntry wraps a registered node location for R-tree storage
type nodeEntry struct {
	ID   NodeID
	Pt   Point
	BBox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *nodeEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// SpatialIndex answers "which node lies within tolerance of this point"
type SpatialIndex struct {
	tree      *rtreego.Rtree
	tolerance float64
}

// NewSpatialIndex creates an empty index for the given snapping tolerance
func NewSpatialIndex(tolerance float64) *SpatialIndex {
	return &SpatialIndex{
		tree:      rtreego.NewTree(2, 25, 50), // 2D, min 25, max 50 entries per node
		tolerance: tolerance,
	}
}

// Insert registers a node location
func (si *SpatialIndex) Insert(id NodeID, p Point) {
	si.tree.Insert(&nodeEntry{
		ID:   id,
		Pt:   p,
		BBox: rtreego.Point{p.X, p.Y}.ToRect(si.tolerance),
	})
}

// Nearest returns the lowest-id node within tolerance of p.
// Lowest id keeps snapping deterministic when several nodes qualify.
func (si *SpatialIndex) Nearest(p Point) (NodeID, bool) {
	query := rtreego.Point{p.X, p.Y}.ToRect(si.tolerance)
	results := si.tree.SearchIntersect(query)
	if len(results) == 0 {
		return 0, false
	}

	candidates := make([]*nodeEntry, 0, len(results))
	for _, item := range results {
		entry := item.(*nodeEntry)
		if pointsEqual(entry.Pt, p, si.tolerance) {
			candidates = append(candidates, entry)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ID < candidates[j].ID
	})
	return candidates[0].ID, true
}

// Size returns the number of indexed nodes
func (si *SpatialIndex) Size() int {
	return si.tree.Size()
}
