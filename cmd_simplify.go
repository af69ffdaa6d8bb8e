package main

import (
	"fmt"
	"log"
	"os"

	"github.com/paulmach/orb/geojson"
)

type CmdSimplify struct {
	global *GlobalOptions

	SimplifyFlags
	Out      string `short:"o" long:"out" default:"." description:"Output directory"`
	Topology bool   `long:"topology" description:"Also write the shared edges and nodes of the input"`
}

func init() {
	_, err := parser.AddCommand("simplify",
		"Simplify GeoJSON layers",
		"Simplify several GeoJSON layers together, keeping shared boundaries coincident. Each file is one layer.",
		&CmdSimplify{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd *CmdSimplify) Usage() string {
	return "[OPTIONS] layer.geojson..."
}

func (cmd *CmdSimplify) Execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no input layers given, usage: %s", cmd.Usage())
	}

	cfg, err := cmd.global.LoadConfig()
	if err != nil {
		return err
	}
	if err := cmd.Apply(&cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(cmd.Out, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	layers, err := LoadLayers(args)
	if err != nil {
		return err
	}

	if _, err := SimplifyLayers(layers, cfg, cmd.Out); err != nil {
		return err
	}
	if cmd.Topology {
		return WriteTopology(layers, cfg, cmd.Out)
	}
	return nil
}

// WriteTopology writes the shared edge and node network of the input layers
func WriteTopology(layers []*Layer, cfg Config, outDir string) error {
	batch := FlattenLayers(layers)
	edges, nodes := ExportTopology(batch.Features, cfg.Simplify)
	log.Printf("📊 Topology: %d edges, %d nodes\n", len(edges.Features), len(nodes.Features))

	for name, fc := range map[string]*geojson.FeatureCollection{
		"topology_edges": edges,
		"topology_nodes": nodes,
	} {
		path, err := WriteLayer(outDir, name, fc)
		if err != nil {
			return err
		}
		log.Printf("   💾 %s\n", path)
	}
	return nil
}

// SimplifyLayers runs the engine over all layers at once and writes one
// <layer><suffix>.geojson per input layer into outDir
func SimplifyLayers(layers []*Layer, cfg Config, outDir string) ([]string, error) {
	log.Printf("Simplification ratio: %v (%s, %s scope)\n", cfg.Ratio, cfg.Simplify.RatioMode, cfg.Simplify.Scope)

	batch := FlattenLayers(layers)
	if len(batch.Features) == 0 {
		log.Println("⚠️  No data to process! Output layers will be empty.")
	}

	res, err := Simplify(batch.Features, cfg.Ratio, cfg.Simplify)
	if err != nil {
		return nil, fmt.Errorf("failed to simplify: %w", err)
	}
	logResult(res)

	collections := batch.Rebuild(res.Features)
	paths := make([]string, 0, len(layers))
	for i, layer := range layers {
		path, err := WriteLayer(outDir, layer.Name+cfg.OutputSuffix, collections[i])
		if err != nil {
			return paths, err
		}
		log.Printf("   💾 %s\n", path)
		paths = append(paths, path)
	}
	return paths, nil
}

func logResult(res *Result) {
	for _, d := range res.Diagnostics {
		if d.Severity == SeverityWarning {
			log.Printf("⚠️  %s\n", d.Message)
		} else {
			log.Printf("ℹ️  %s\n", d.Message)
		}
	}

	for _, name := range LayerNames(res.Stats.Layers) {
		s := res.Stats.Layers[name]
		log.Printf("   Layer %s: %d features, %d → %d points, simplification %.2f%%\n",
			name, s.Features, s.OriginalPoints, s.SimplifiedPoints, s.Percent())
	}
	total, kept := res.Stats.InputPoints+res.Stats.PassthroughPoints, res.Stats.OutputPoints+res.Stats.PassthroughPoints
	log.Printf("✅ Total: %d → %d points, simplification %.2f%% (achieved ratio %.4f, requested %.4f)\n",
		total, kept, simplificationPercent(total, kept), res.Stats.AchievedRatio, res.Stats.RequestedRatio)
}
