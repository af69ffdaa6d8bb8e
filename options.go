package main

import (
	"fmt"
	"math"
	"runtime"
	"strings"
)

// RatioMode says what the ratio passed to Simplify measures
type RatioMode int

const (
	// RetainFraction: the ratio is the fraction of points kept, in (0, 1]
	RetainFraction RatioMode = iota
	// RemoveFraction: the ratio is the fraction of points removed, in [0, 1)
	RemoveFraction
)

func (m RatioMode) String() string {
	switch m {
	case RetainFraction:
		return "retain"
	case RemoveFraction:
		return "remove"
	}
	return fmt.Sprintf("ratiomode(%d)", int(m))
}

func (m RatioMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *RatioMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "retain":
		*m = RetainFraction
	case "remove":
		*m = RemoveFraction
	default:
		return fmt.Errorf("unknown ratio mode %q", string(text))
	}
	return nil
}

// Scope says which set of points a target count applies to
type Scope int

const (
	// ScopeGlobal: one target over every feature of the batch
	ScopeGlobal Scope = iota
	// ScopeLayer: one target per layer
	ScopeLayer
	// ScopeComponent: one target per connected component, components run in parallel
	ScopeComponent
)

func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeLayer:
		return "layer"
	case ScopeComponent:
		return "component"
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Scope) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "global":
		*s = ScopeGlobal
	case "layer":
		*s = ScopeLayer
	case "component":
		*s = ScopeComponent
	default:
		return fmt.Errorf("unknown scope %q", string(text))
	}
	return nil
}

// Options tunes one Simplify call
type Options struct {
	RatioMode RatioMode `json:"ratioMode" yaml:"ratio_mode"`
	Scope     Scope     `json:"scope" yaml:"scope"`
	Metric    Metric    `json:"metric" yaml:"metric"`
	Tolerance float64   `json:"tolerance" yaml:"tolerance"` // snapping distance, 0 = exact
	Workers   int       `json:"workers" yaml:"workers"`     // ScopeComponent pool size, 0 = NumCPU
	Verbose   bool      `json:"verbose" yaml:"verbose"`
}

// DefaultOptions keeps a fraction of all points, exact coincidence, area metric
func DefaultOptions() Options {
	return Options{
		RatioMode: RetainFraction,
		Scope:     ScopeGlobal,
		Metric:    MetricArea,
	}
}

func (o Options) validate() error {
	if math.IsNaN(o.Tolerance) || math.IsInf(o.Tolerance, 0) || o.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance %v", ErrInvalidOptions, o.Tolerance)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalidOptions, o.Workers)
	}
	if o.RatioMode != RetainFraction && o.RatioMode != RemoveFraction {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, o.RatioMode)
	}
	if o.Scope < ScopeGlobal || o.Scope > ScopeComponent {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, o.Scope)
	}
	if o.Metric != MetricArea && o.Metric != MetricDistance {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, o.Metric)
	}
	return nil
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// retention converts a caller ratio into the fraction of points to keep
func retention(ratio float64, mode RatioMode) (float64, error) {
	if math.IsNaN(ratio) {
		return 0, fmt.Errorf("%w: NaN", ErrInvalidRatio)
	}
	switch mode {
	case RemoveFraction:
		if ratio < 0 || ratio >= 1 {
			return 0, fmt.Errorf("%w: %v removed, want [0, 1)", ErrInvalidRatio, ratio)
		}
		return 1 - ratio, nil
	default:
		if ratio <= 0 || ratio > 1 {
			return 0, fmt.Errorf("%w: %v retained, want (0, 1]", ErrInvalidRatio, ratio)
		}
		return ratio, nil
	}
}
