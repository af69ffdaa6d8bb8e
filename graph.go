package main

import (
	"fmt"
)

// EdgeID addresses an edge in the graph arena
type EdgeID int

// Node is a canonical shared vertex of the topology graph
type Node struct {
	Pt      Point
	Owners  []int     // indices of owning paths
	Edges   []EdgeID  // incident edges, including removed ones
	Locked  bool      // never a removal candidate
	Removed bool
	occ     []slotRef // every place a path visits this node
	version int
}

// Edge joins two nodes that are consecutive in at least one path
type Edge struct {
	A, B    NodeID
	Owners  []int
	Closed  bool // traversed by at least one ring
	Removed bool
}

type edgeKey struct {
	a, b NodeID
}

func newEdgeKey(a, b NodeID) edgeKey {
	if b < a {
		a, b = b, a
	}
	return edgeKey{a, b}
}

type slotRef struct {
	Path int
	Slot int
}

// FeaturePath is the node sequence of one input feature.
// Rings are stored without their closing repeat; Closed marks them.
// Slots form a doubly linked list so removals splice in constant time.
type FeaturePath struct {
	LayerID   string
	FeatureID int64
	Kind      Kind
	Closed    bool
	Nodes     []NodeID // one per slot, in input order
	Original  []Point  // input snapshot, emitted on fallback
	Skipped   bool     // excluded from the graph
	Input     int      // position in the input batch

	prev, next []int
	head       int
	count      int // live slots
}

// Len returns the current point count, including a ring's closing repeat
func (p *FeaturePath) Len() int {
	if p.Skipped {
		return len(p.Original)
	}
	if p.Closed {
		return p.count + 1
	}
	return p.count
}

// Removed reports whether any vertex has been removed from the path
func (p *FeaturePath) Removed() bool {
	return !p.Skipped && p.count != len(p.Nodes)
}

// neighbours returns the nodes on either side of a slot; ok is false for
// the terminal slots of an open path.
func (p *FeaturePath) neighbours(slot int) (prev, next NodeID, ok bool) {
	ps, ns := p.prev[slot], p.next[slot]
	if ps < 0 || ns < 0 {
		return 0, 0, false
	}
	return p.Nodes[ps], p.Nodes[ns], true
}

func (p *FeaturePath) unlink(slot int) {
	ps, ns := p.prev[slot], p.next[slot]
	if ps >= 0 {
		p.next[ps] = ns
	}
	if ns >= 0 {
		p.prev[ns] = ps
	}
	if p.head == slot {
		// the ring re-closes on the following vertex
		p.head = ns
	}
	p.prev[slot], p.next[slot] = -1, -1
	p.count--
}

// walk returns the live node sequence, closing rings
func (p *FeaturePath) walk() []NodeID {
	ids := make([]NodeID, 0, p.Len())
	if p.count == 0 {
		return ids
	}
	slot := p.head
	for i := 0; i < p.count; i++ {
		ids = append(ids, p.Nodes[slot])
		slot = p.next[slot]
		if slot < 0 {
			break
		}
	}
	if p.Closed {
		ids = append(ids, p.Nodes[p.head])
	}
	return ids
}

// Graph is the shared node/edge pool plus every path of one batch
type Graph struct {
	Nodes []Node
	Edges []Edge
	Paths []*FeaturePath

	registry    *Registry
	edgeIndex   map[edgeKey]EdgeID
	diagnostics []Diagnostic
}

// BuildGraph interns every feature into a shared topology graph.
// Features that cannot form their geometry kind are kept as skipped paths
// with a diagnostic; they never fail the batch.
func BuildGraph(features []Feature, tolerance float64) *Graph {
	g := &Graph{
		Paths:     make([]*FeaturePath, 0, len(features)),
		registry:  NewRegistry(tolerance),
		edgeIndex: make(map[edgeKey]EdgeID),
	}

	for i, f := range features {
		path := &FeaturePath{
			LayerID:   f.LayerID,
			FeatureID: f.FeatureID,
			Kind:      f.Kind,
			Original:  append([]Point(nil), f.Points...),
			Input:     i,
		}
		g.Paths = append(g.Paths, path)

		if err := validateFeature(f); err != nil {
			g.skip(path, err)
			continue
		}
		if err := g.addPath(len(g.Paths)-1, path); err != nil {
			g.skip(path, err)
		}
	}

	return g
}

func validateFeature(f Feature) error {
	n := len(f.Points)
	if n == 0 {
		return ErrEmptyGeometry
	}
	minPoints := f.Kind.MinPoints()
	if minPoints == 0 {
		return fmt.Errorf("%w: unknown geometry kind %d", ErrInputShape, int(f.Kind))
	}
	for _, p := range f.Points {
		if !p.IsFinite() {
			return fmt.Errorf("%w: non-finite coordinate (%v, %v)", ErrInputShape, p.X, p.Y)
		}
	}
	if n < minPoints {
		return fmt.Errorf("%w: insufficient points (%d) for %s", ErrInputShape, n, f.Kind)
	}
	if f.Kind == KindPolygon && f.Points[0] != f.Points[n-1] {
		return fmt.Errorf("%w: polygon ring is not closed", ErrInputShape)
	}
	return nil
}

func (g *Graph) skip(path *FeaturePath, err error) {
	path.Skipped = true
	path.Nodes = nil
	g.diagnostics = append(g.diagnostics,
		newDiagnostic(SeverityWarning, "build", path.LayerID, path.FeatureID, err))
}

func (g *Graph) addPath(idx int, path *FeaturePath) error {
	points := path.Original
	if path.Kind == KindPolygon {
		path.Closed = true
		points = points[:len(points)-1]
	}

	ids := make([]NodeID, len(points))
	distinct := make(map[NodeID]struct{}, len(points))
	for i, p := range points {
		ids[i] = g.intern(p)
		distinct[ids[i]] = struct{}{}
	}
	if path.Closed && len(distinct) < 3 {
		return fmt.Errorf("%w: ring collapses to %d distinct vertices", ErrInputShape, len(distinct))
	}

	n := len(ids)
	path.Nodes = ids
	path.prev = make([]int, n)
	path.next = make([]int, n)
	path.count = n
	for s := 0; s < n; s++ {
		path.prev[s] = s - 1
		path.next[s] = s + 1
	}
	path.next[n-1] = -1
	if path.Closed {
		path.prev[0] = n - 1
		path.next[n-1] = 0
	}

	for s, id := range ids {
		node := &g.Nodes[id]
		if len(node.Owners) == 0 || node.Owners[len(node.Owners)-1] != idx {
			node.Owners = append(node.Owners, idx)
		}
		node.occ = append(node.occ, slotRef{Path: idx, Slot: s})

		// a point set has no segments between its members
		if ns := path.next[s]; path.Kind != KindPoint && ns >= 0 && ids[ns] != id {
			g.linkEdge(id, ids[ns], []int{idx}, path.Closed)
		}
	}
	return nil
}

func (g *Graph) intern(p Point) NodeID {
	id := g.registry.Intern(p)
	if int(id) == len(g.Nodes) {
		g.Nodes = append(g.Nodes, Node{Pt: g.registry.Point(id)})
	}
	return id
}

// linkEdge interns the edge a-b and adds owners to it
func (g *Graph) linkEdge(a, b NodeID, owners []int, closed bool) EdgeID {
	key := newEdgeKey(a, b)
	id, ok := g.edgeIndex[key]
	if !ok {
		id = EdgeID(len(g.Edges))
		g.Edges = append(g.Edges, Edge{A: key.a, B: key.b})
		g.edgeIndex[key] = id
		g.Nodes[a].Edges = append(g.Nodes[a].Edges, id)
		g.Nodes[b].Edges = append(g.Nodes[b].Edges, id)
	}
	e := &g.Edges[id]
	for _, o := range owners {
		if !containsInt(e.Owners, o) {
			e.Owners = append(e.Owners, o)
		}
	}
	e.Closed = e.Closed || closed
	return id
}

// unlinkEdge drops an owner from the edge a-b, retiring it once unowned
func (g *Graph) unlinkEdge(a, b NodeID, owner int) {
	key := newEdgeKey(a, b)
	id, ok := g.edgeIndex[key]
	if !ok {
		return
	}
	e := &g.Edges[id]
	e.Owners = removeInt(e.Owners, owner)
	if len(e.Owners) == 0 {
		e.Removed = true
		delete(g.edgeIndex, key)
	}
}

func (g *Graph) hasEdge(a, b NodeID) bool {
	_, ok := g.edgeIndex[newEdgeKey(a, b)]
	return ok
}

// EdgeOwners returns the owning paths of the live edge a-b, if any
func (g *Graph) EdgeOwners(a, b NodeID) []int {
	id, ok := g.edgeIndex[newEdgeKey(a, b)]
	if !ok {
		return nil
	}
	return g.Edges[id].Owners
}

// TotalPoints sums the current point count of every graph path
func (g *Graph) TotalPoints() int {
	total := 0
	for _, p := range g.Paths {
		if !p.Skipped {
			total += p.Len()
		}
	}
	return total
}

// LayerPoints sums the current point count of graph paths per layer
func (g *Graph) LayerPoints() map[string]int {
	counts := make(map[string]int)
	for _, p := range g.Paths {
		if !p.Skipped {
			counts[p.LayerID] += p.Len()
		}
	}
	return counts
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func removeInt(s []int, v int) []int {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
