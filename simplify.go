package main

import (
	"math"
)

// removalTargets tracks how many points remain against how many may remain
type removalTargets struct {
	scope       Scope
	total       int
	target      int
	layerCount  map[string]int
	layerTarget map[string]int
}

// targetCount is ceil(retain * n), tolerant of float noise such as 0.3*10
func targetCount(retain float64, n int) int {
	t := int(math.Ceil(retain*float64(n) - 1e-9))
	if t > n {
		return n
	}
	if t < 0 {
		return 0
	}
	return t
}

func newRemovalTargets(g *Graph, retain float64, scope Scope) *removalTargets {
	t := &removalTargets{
		scope: scope,
		total: g.TotalPoints(),
	}
	t.target = targetCount(retain, t.total)

	if scope == ScopeLayer {
		t.layerCount = g.LayerPoints()
		t.layerTarget = make(map[string]int, len(t.layerCount))
		t.target = 0
		for layer, n := range t.layerCount {
			t.layerTarget[layer] = targetCount(retain, n)
			t.target += t.layerTarget[layer]
		}
	}
	return t
}

func (t *removalTargets) met() bool {
	if t.scope != ScopeLayer {
		return t.total <= t.target
	}
	for layer, n := range t.layerCount {
		if n > t.layerTarget[layer] {
			return false
		}
	}
	return true
}

// allows reports whether removing id keeps every owner layer at or above its target
func (t *removalTargets) allows(g *Graph, id NodeID) bool {
	if t.scope != ScopeLayer {
		return true
	}
	for _, owner := range g.Nodes[id].Owners {
		layer := g.Paths[owner].LayerID
		if t.layerCount[layer] <= t.layerTarget[layer] {
			return false
		}
	}
	return true
}

func (t *removalTargets) record(g *Graph, id NodeID) {
	for _, owner := range g.Nodes[id].Owners {
		t.total--
		if t.layerCount != nil {
			t.layerCount[g.Paths[owner].LayerID]--
		}
	}
}

type driverStats struct {
	Target    int
	Removed   int
	Locked    int
	Exhausted bool
}

// simplifyGraph removes the cheapest removable nodes until the target is
// met or nothing removable is left. Every removal splices the node out of
// all of its owners at once.
func simplifyGraph(g *Graph, retain float64, scope Scope, metric Metric) driverStats {
	targets := newRemovalTargets(g, retain, scope)
	stats := driverStats{Target: targets.target}
	if targets.met() {
		return stats
	}

	q := rank(g, metric)
	for i := range g.Nodes {
		if g.Nodes[i].Locked {
			stats.Locked++
		}
	}
	for !targets.met() {
		c, ok := q.next()
		if !ok {
			stats.Exhausted = true
			break
		}

		id := c.Node
		node := &g.Nodes[id]
		if node.Removed || node.Locked || c.Version != node.version {
			continue
		}
		// neighbouring removals may have changed what this node sits between
		p, n, ok := g.neighbourPair(id)
		if !ok || g.atMinimum(id) || g.hasEdge(p, n) || !targets.allows(g, id) {
			continue
		}

		targets.record(g, id)
		g.removeNode(id, p, n)
		stats.Removed++

		g.requeue(q, p, metric)
		g.requeue(q, n, metric)
	}
	return stats
}

// removeNode splices id out of every owning path, joining p and n directly
func (g *Graph) removeNode(id, p, n NodeID) {
	node := &g.Nodes[id]
	closed := false
	for _, ref := range node.occ {
		path := g.Paths[ref.Path]
		path.unlink(ref.Slot)
		closed = closed || path.Closed
	}
	for _, owner := range node.Owners {
		g.unlinkEdge(p, id, owner)
		g.unlinkEdge(id, n, owner)
	}
	g.linkEdge(p, n, node.Owners, closed)

	node.Removed = true
	node.occ = nil
}
