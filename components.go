package main

import (
	"log"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// components groups graph paths that share at least one node.
// Each component lists path indices in input order; components are ordered
// by their first path.
func (g *Graph) components() [][]int {
	parent := make([]int, len(g.Paths))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if rb < ra {
			ra, rb = rb, ra
		}
		parent[rb] = ra
	}

	for i := range g.Nodes {
		owners := g.Nodes[i].Owners
		if len(owners) < 2 {
			continue
		}
		for _, o := range owners[1:] {
			union(owners[0], o)
		}
	}

	groups := make(map[int][]int)
	for i, p := range g.Paths {
		if p.Skipped {
			continue
		}
		root := find(i)
		groups[root] = append(groups[root], i)
	}

	result := make([][]int, 0, len(groups))
	for _, members := range groups {
		result = append(result, members)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i][0] < result[j][0]
	})
	return result
}

type componentResult struct {
	paths       []int
	features    []Feature
	diagnostics []Diagnostic
	stats       driverStats
}

// simplifyComponents runs the driver on every connected component of g in
// parallel. Each worker rebuilds a private graph from its component's
// features, so no node or edge is shared between workers.
func simplifyComponents(g *Graph, retain float64, opts Options) ([]componentResult, error) {
	comps := g.components()
	results := make([]componentResult, len(comps))

	if opts.Verbose {
		log.Printf("   Components: %d (workers: %d)\n", len(comps), opts.workers())
	}

	var (
		eg      errgroup.Group
		logMu   sync.Mutex
		workers = opts.workers()
	)
	eg.SetLimit(workers)

	for ci, members := range comps {
		eg.Go(func() error {
			features := make([]Feature, len(members))
			for k, idx := range members {
				path := g.Paths[idx]
				features[k] = Feature{
					LayerID:   path.LayerID,
					FeatureID: path.FeatureID,
					Kind:      path.Kind,
					Points:    path.Original,
				}
			}

			sub := BuildGraph(features, opts.Tolerance)
			stats := simplifyGraph(sub, retain, ScopeGlobal, opts.Metric)
			out, diags := Extract(sub)

			results[ci] = componentResult{
				paths:       members,
				features:    out,
				diagnostics: append(sub.diagnostics, diags...),
				stats:       stats,
			}

			if opts.Verbose {
				logMu.Lock()
				log.Printf("   Component %d: %d features, removed %d points\n", ci, len(members), stats.Removed)
				logMu.Unlock()
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
