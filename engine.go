package main

import (
	"fmt"
	"log"
	"sort"
	"time"
)

// LayerStats counts points for one layer of a batch
type LayerStats struct {
	Features         int `json:"features"`
	OriginalPoints   int `json:"originalPoints"`
	SimplifiedPoints int `json:"simplifiedPoints"`
}

// Stats summarises one Simplify call
type Stats struct {
	InputPoints       int                   `json:"inputPoints"`       // points of features that entered the graph
	OutputPoints      int                   `json:"outputPoints"`      // the same features after simplification
	PassthroughPoints int                   `json:"passthroughPoints"` // points of features returned untouched
	TargetPoints      int                   `json:"targetPoints"`
	Removed           int                   `json:"removed"`
	RequestedRatio    float64               `json:"requestedRatio"` // fraction to retain
	AchievedRatio     float64               `json:"achievedRatio"`
	Nodes             int                   `json:"nodes"`
	Edges             int                   `json:"edges"`
	SharedNodes       int                   `json:"sharedNodes"`
	LockedNodes       int                   `json:"lockedNodes"`
	Components        int                   `json:"components,omitempty"`
	Layers            map[string]LayerStats `json:"layers"`
	Elapsed           time.Duration         `json:"elapsed"`
}

// Result is the simplified batch
type Result struct {
	Features    []Feature    `json:"features"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Stats       Stats        `json:"stats"`
}

// Simplify reduces the point count of a batch of features toward ratio
// while keeping shared vertices and edges coincident across features and
// layers. The only errors returned are parameter errors; per-feature
// problems are reported as diagnostics and the feature is returned as-is.
func Simplify(features []Feature, ratio float64, opts Options) (*Result, error) {
	retain, err := retention(ratio, opts.RatioMode)
	if err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	if opts.Verbose {
		log.Printf("🗺️  Building topology graph from %d features...\n", len(features))
	}

	g := BuildGraph(features, opts.Tolerance)
	res := &Result{
		Diagnostics: append([]Diagnostic(nil), g.diagnostics...),
		Stats: Stats{
			InputPoints:    g.TotalPoints(),
			RequestedRatio: retain,
			Nodes:          len(g.Nodes),
			Edges:          len(g.Edges),
			SharedNodes:    countShared(g),
		},
	}

	if opts.Verbose {
		log.Printf("   Unique nodes: %d, edges: %d, shared nodes: %d\n",
			res.Stats.Nodes, res.Stats.Edges, res.Stats.SharedNodes)
	}

	exhausted := false
	if opts.Scope == ScopeComponent {
		results, err := simplifyComponents(g, retain, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to simplify components: %w", err)
		}
		res.Features, _ = Extract(g) // skipped features; components fill in the rest
		for _, r := range results {
			for k, idx := range r.paths {
				res.Features[g.Paths[idx].Input] = r.features[k]
			}
			res.Diagnostics = append(res.Diagnostics, r.diagnostics...)
			res.Stats.TargetPoints += r.stats.Target
			res.Stats.Removed += r.stats.Removed
			res.Stats.LockedNodes += r.stats.Locked
			exhausted = exhausted || r.stats.Exhausted
		}
		res.Stats.Components = len(results)
	} else {
		stats := simplifyGraph(g, retain, opts.Scope, opts.Metric)
		var diags []Diagnostic
		res.Features, diags = Extract(g)
		res.Diagnostics = append(res.Diagnostics, diags...)
		res.Stats.TargetPoints = stats.Target
		res.Stats.Removed = stats.Removed
		res.Stats.LockedNodes = stats.Locked
		exhausted = stats.Exhausted
	}

	res.Stats.Layers = layerStats(g, res.Features)
	for _, path := range g.Paths {
		n := len(res.Features[path.Input].Points)
		if path.Skipped {
			res.Stats.PassthroughPoints += n
		} else {
			res.Stats.OutputPoints += n
		}
	}
	if res.Stats.InputPoints > 0 {
		res.Stats.AchievedRatio = float64(res.Stats.OutputPoints) / float64(res.Stats.InputPoints)
	} else {
		res.Stats.AchievedRatio = 1
	}

	if exhausted && res.Stats.OutputPoints > res.Stats.TargetPoints {
		err := fmt.Errorf("%w: kept %d of %d points (%.4f), requested %.4f",
			ErrRatioUnreachable, res.Stats.OutputPoints, res.Stats.InputPoints,
			res.Stats.AchievedRatio, retain)
		res.Diagnostics = append(res.Diagnostics, newDiagnostic(SeverityInfo, "simplify", "", 0, err))
	}

	res.Stats.Elapsed = time.Since(startTime)
	if opts.Verbose {
		log.Printf("   ✅ Simplified: %d → %d points (target %d, achieved ratio %.4f)\n",
			res.Stats.InputPoints, res.Stats.OutputPoints, res.Stats.TargetPoints, res.Stats.AchievedRatio)
		log.Printf("   ⏱️  Simplify time: %.2f seconds\n", res.Stats.Elapsed.Seconds())
	}
	return res, nil
}

// Percent is the share of the layer's points that was removed, in percent
func (s LayerStats) Percent() float64 {
	return simplificationPercent(s.OriginalPoints, s.SimplifiedPoints)
}

func simplificationPercent(original, simplified int) float64 {
	if original == 0 {
		return 0
	}
	return float64(original-simplified) / float64(original) * 100
}

func countShared(g *Graph) int {
	shared := 0
	for i := range g.Nodes {
		if len(g.Nodes[i].Owners) > 1 {
			shared++
		}
	}
	return shared
}

func layerStats(g *Graph, out []Feature) map[string]LayerStats {
	stats := make(map[string]LayerStats)
	for _, path := range g.Paths {
		s := stats[path.LayerID]
		s.Features++
		s.OriginalPoints += len(path.Original)
		s.SimplifiedPoints += len(out[path.Input].Points)
		stats[path.LayerID] = s
	}
	return stats
}

// LayerNames returns the layers of a stats map in a stable order
func LayerNames(layers map[string]LayerStats) []string {
	names := make([]string, 0, len(layers))
	for name := range layers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
