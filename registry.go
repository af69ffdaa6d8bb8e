package main

// NodeID addresses a node in the graph arena
type NodeID int

// Registry interns coordinates into canonical node ids.
// It is single-writer: only the construction phase uses it.
type Registry struct {
	nodes   []Point
	exact   map[Point]NodeID
	spatial *SpatialIndex
}

// NewRegistry creates a registry. With tolerance 0 coincidence is exact
// coordinate equality; otherwise any point within tolerance of an already
// registered node maps to that node.
func NewRegistry(tolerance float64) *Registry {
	r := &Registry{
		exact: make(map[Point]NodeID),
	}
	if tolerance > 0 {
		r.spatial = NewSpatialIndex(tolerance)
	}
	return r
}

// Intern returns the canonical node for p, creating it if absent
func (r *Registry) Intern(p Point) NodeID {
	if id, ok := r.exact[p]; ok {
		return id
	}
	if r.spatial != nil {
		if id, ok := r.spatial.Nearest(p); ok {
			r.exact[p] = id
			return id
		}
	}

	id := NodeID(len(r.nodes))
	r.nodes = append(r.nodes, p)
	r.exact[p] = id
	if r.spatial != nil {
		r.spatial.Insert(id, p)
	}
	return id
}

// Point returns the canonical coordinates of a node
func (r *Registry) Point(id NodeID) Point {
	return r.nodes[id]
}

// Len returns how many distinct nodes have been registered
func (r *Registry) Len() int {
	return len(r.nodes)
}
