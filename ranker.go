package main

import (
	"fmt"
	"math"
	"strings"
)

// Metric selects how the cost of removing a vertex is measured
type Metric int

const (
	// MetricArea is the effective area of the triangle a vertex forms with its neighbours
	MetricArea Metric = iota
	// MetricDistance is the perpendicular distance from a vertex to the segment joining its neighbours
	MetricDistance
)

func (m Metric) String() string {
	switch m {
	case MetricArea:
		return "area"
	case MetricDistance:
		return "distance"
	}
	return fmt.Sprintf("metric(%d)", int(m))
}

func (m Metric) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Metric) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "area":
		*m = MetricArea
	case "distance":
		*m = MetricDistance
	default:
		return fmt.Errorf("unknown metric %q", string(text))
	}
	return nil
}

func (m Metric) measure(prev, p, next Point) float64 {
	if m == MetricDistance {
		return perpendicularDistance(p, prev, next)
	}
	return triangleArea(prev, p, next)
}

// neighbourPair returns the two nodes every owner sees around id.
// ok is false when the node cannot be spliced out consistently: it ends an
// open path, belongs to a point feature, is visited twice by one path, or
// is a junction with other than two distinct neighbours.
func (g *Graph) neighbourPair(id NodeID) (p, q NodeID, ok bool) {
	node := &g.Nodes[id]
	if len(node.occ) == 0 {
		return 0, 0, false
	}

	seenPaths := make(map[int]struct{}, len(node.occ))
	var pair [2]NodeID
	found := 0
	for _, ref := range node.occ {
		if _, dup := seenPaths[ref.Path]; dup {
			return 0, 0, false
		}
		seenPaths[ref.Path] = struct{}{}

		path := g.Paths[ref.Path]
		if path.Kind == KindPoint {
			return 0, 0, false
		}
		prev, next, interior := path.neighbours(ref.Slot)
		if !interior || prev == next || prev == id || next == id {
			return 0, 0, false
		}
		for _, n := range [2]NodeID{prev, next} {
			switch {
			case found > 0 && pair[0] == n:
			case found > 1 && pair[1] == n:
			case found == 2:
				return 0, 0, false
			default:
				pair[found] = n
				found++
			}
		}
	}
	if found != 2 {
		return 0, 0, false
	}
	return pair[0], pair[1], true
}

// atMinimum reports whether removing one vertex would put any owner of id
// below its geometry kind's minimum
func (g *Graph) atMinimum(id NodeID) bool {
	for _, owner := range g.Nodes[id].Owners {
		path := g.Paths[owner]
		if path.Len()-1 < path.Kind.MinPoints() {
			return true
		}
	}
	return false
}

// removalCost is the largest cost id has along any owning path, so a
// shared vertex is judged by its most significant role
func (g *Graph) removalCost(id NodeID, metric Metric) float64 {
	node := &g.Nodes[id]
	cost := 0.0
	for _, ref := range node.occ {
		prev, next, ok := g.Paths[ref.Path].neighbours(ref.Slot)
		if !ok {
			continue
		}
		c := metric.measure(g.Nodes[prev].Pt, node.Pt, g.Nodes[next].Pt)
		if math.IsNaN(c) {
			continue
		}
		cost = math.Max(cost, c)
	}
	return cost
}

// rank locks every node that can never be removed and queues the rest
func rank(g *Graph, metric Metric) *RemovalQueue {
	q := newRemovalQueue(len(g.Nodes))
	for i := range g.Nodes {
		id := NodeID(i)
		node := &g.Nodes[i]
		if _, _, ok := g.neighbourPair(id); !ok || g.atMinimum(id) {
			node.Locked = true
			continue
		}
		node.version++
		q.add(id, g.removalCost(id, metric), node.version)
	}
	return q
}

// requeue recomputes the cost of a node whose neighbourhood changed
func (g *Graph) requeue(q *RemovalQueue, id NodeID, metric Metric) {
	node := &g.Nodes[id]
	if node.Locked || node.Removed {
		return
	}
	node.version++
	q.add(id, g.removalCost(id, metric), node.version)
}
