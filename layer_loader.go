package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Layer is one input collection of features, named after its source
type Layer struct {
	Name       string
	Collection *geojson.FeatureCollection
}

// LoadLayers loads every GeoJSON file as a layer named after the file.
// Unreadable files are logged and skipped.
func LoadLayers(files []string) ([]*Layer, error) {
	log.Printf("Loading layers from %d GeoJSON files...\n", len(files))

	layers := make([]*Layer, 0, len(files))
	for _, file := range files {
		layer, err := LoadLayerFile(file)
		if err != nil {
			log.Printf("⚠️  %v\n", err)
			continue
		}
		log.Printf("   ✅ Loaded %d features from %s\n", len(layer.Collection.Features), filepath.Base(file))
		layers = append(layers, layer)
	}

	if len(layers) == 0 {
		return nil, fmt.Errorf("no layers loaded from %d files", len(files))
	}
	return layers, nil
}

// LoadLayerFile reads one GeoJSON FeatureCollection
func LoadLayerFile(file string) (*Layer, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	return &Layer{Name: layerName(file), Collection: fc}, nil
}

func layerName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// WriteLayer writes a collection to dir/<name>.geojson and returns the path
func WriteLayer(dir, name string, fc *geojson.FeatureCollection) (string, error) {
	data, err := fc.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("failed to marshal layer %s: %w", name, err)
	}
	path := filepath.Join(dir, name+".geojson")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

// LayerBatch is a set of layers flattened into engine features. Every
// engine entry is one part of a source geometry: a ring, a line or a point set.
type LayerBatch struct {
	Layers   []*Layer
	Features []Feature
	entries  [][][]int // layer -> feature -> engine entries, in geometry order
}

// FlattenLayers splits every geometry of every layer into engine features
func FlattenLayers(layers []*Layer) *LayerBatch {
	b := &LayerBatch{
		Layers:  layers,
		entries: make([][][]int, len(layers)),
	}

	for li, layer := range layers {
		b.entries[li] = make([][]int, len(layer.Collection.Features))
		for fi, f := range layer.Collection.Features {
			add := func(kind Kind, points []Point) {
				b.entries[li][fi] = append(b.entries[li][fi], len(b.Features))
				b.Features = append(b.Features, Feature{
					LayerID:   layer.Name,
					FeatureID: int64(fi),
					Kind:      kind,
					Points:    points,
				})
			}

			switch g := f.Geometry.(type) {
			case orb.Point:
				add(KindPoint, []Point{{X: g[0], Y: g[1]}})
			case orb.MultiPoint:
				add(KindPoint, fromOrb(g))
			case orb.LineString:
				add(KindLine, fromOrb(g))
			case orb.MultiLineString:
				for _, ls := range g {
					add(KindLine, fromOrb(ls))
				}
			case orb.Ring:
				add(KindPolygon, fromOrb(g))
			case orb.Polygon:
				for _, r := range g {
					add(KindPolygon, fromOrb(r))
				}
			case orb.MultiPolygon:
				for _, p := range g {
					for _, r := range p {
						add(KindPolygon, fromOrb(r))
					}
				}
			default:
				log.Printf("⚠️  Layer %s, feature ID %d: unsupported geometry %T, using original geometry\n",
					layer.Name, fi, f.Geometry)
			}
		}
	}

	return b
}

// Rebuild reassembles simplified engine features into one collection per
// layer, keeping ids, properties and geometry types of the input
func (b *LayerBatch) Rebuild(out []Feature) []*geojson.FeatureCollection {
	result := make([]*geojson.FeatureCollection, len(b.Layers))

	for li, layer := range b.Layers {
		fc := geojson.NewFeatureCollection()
		for fi, f := range layer.Collection.Features {
			entries := b.entries[li][fi]
			next := func() []Point {
				p := out[entries[0]].Points
				entries = entries[1:]
				return p
			}

			nf := geojson.NewFeature(f.Geometry)
			nf.ID = f.ID
			nf.BBox = nil
			nf.Properties = f.Properties.Clone()

			switch g := f.Geometry.(type) {
			case orb.Point:
				if pts := next(); len(pts) > 0 {
					nf.Geometry = pts[0].orb()
				}
			case orb.MultiPoint:
				nf.Geometry = orb.MultiPoint(toOrb(next()))
			case orb.LineString:
				nf.Geometry = orb.LineString(toOrb(next()))
			case orb.MultiLineString:
				mls := make(orb.MultiLineString, len(g))
				for i := range g {
					mls[i] = orb.LineString(toOrb(next()))
				}
				nf.Geometry = mls
			case orb.Ring:
				nf.Geometry = orb.Ring(toOrb(next()))
			case orb.Polygon:
				poly := make(orb.Polygon, len(g))
				for i := range g {
					poly[i] = orb.Ring(toOrb(next()))
				}
				nf.Geometry = poly
			case orb.MultiPolygon:
				mp := make(orb.MultiPolygon, len(g))
				for i, p := range g {
					mp[i] = make(orb.Polygon, len(p))
					for j := range p {
						mp[i][j] = orb.Ring(toOrb(next()))
					}
				}
				nf.Geometry = mp
			}
			fc.Append(nf)
		}
		result[li] = fc
	}

	return result
}

func fromOrb(points []orb.Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: p[0], Y: p[1]}
	}
	return out
}

func toOrb(points []Point) []orb.Point {
	out := make([]orb.Point, len(points))
	for i, p := range points {
		out[i] = p.orb()
	}
	return out
}
