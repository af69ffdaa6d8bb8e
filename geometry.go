package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Point is a single vertex of a feature
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Kind is the geometry kind of a feature
type Kind int

const (
	KindPoint Kind = iota + 1
	KindLine
	KindPolygon
)

// MinPoints returns the smallest point count a feature of this kind may have.
// A polygon ring needs 3 distinct vertices plus the closing repeat.
func (k Kind) MinPoints() int {
	switch k {
	case KindPoint:
		return 1
	case KindLine:
		return 2
	case KindPolygon:
		return 4
	}
	return 0
}

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindPolygon:
		return "polygon"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "point":
		*k = KindPoint
	case "line", "linestring":
		*k = KindLine
	case "polygon":
		*k = KindPolygon
	default:
		return fmt.Errorf("unknown geometry kind %q", string(text))
	}
	return nil
}

// Feature is one entry of a batch: a layer-scoped feature and its vertices
type Feature struct {
	LayerID   string  `json:"layerId"`
	FeatureID int64   `json:"featureId"`
	Kind      Kind    `json:"kind"`
	Points    []Point `json:"points"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// IsFinite reports whether both coordinates are real numbers
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

func (p Point) orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// crossProduct calculates the cross product of vectors (b-a) and (c-a)
func crossProduct(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// triangleArea is the effective area a vertex contributes between its neighbours
func triangleArea(prev, p, next Point) float64 {
	return math.Abs(crossProduct(prev, p, next)) / 2
}

// perpendicularDistance calculates the distance from point to the segment lineStart-lineEnd
func perpendicularDistance(point, lineStart, lineEnd Point) float64 {
	return planar.DistanceFromSegment(lineStart.orb(), lineEnd.orb(), point.orb())
}

// pointsEqual checks if two points are equal within tolerance
func pointsEqual(a, b Point, tolerance float64) bool {
	if tolerance <= 0 {
		return a == b
	}
	return a.Distance(b) <= tolerance
}
