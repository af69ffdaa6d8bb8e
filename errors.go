package main

import (
	"errors"
	"fmt"
)

// Batch-level errors. These are the only errors Simplify returns.
var (
	ErrInvalidRatio   = errors.New("invalid simplification ratio")
	ErrInvalidOptions = errors.New("invalid simplification options")
)

// Per-feature conditions. They never fail a batch; they are surfaced as
// diagnostics wrapping a *FeatureError.
var (
	// ErrInputShape marks a feature whose point list cannot form its geometry kind.
	ErrInputShape = errors.New("malformed point list")

	// ErrEmptyGeometry marks a feature with no points at all.
	ErrEmptyGeometry = errors.New("empty geometry")

	// ErrTopologyInconsistent marks a path that came out of the graph open or
	// below its minimum; the feature is reverted to its input points.
	ErrTopologyInconsistent = errors.New("topology reconstruction inconsistent")

	// ErrRatioUnreachable is informational: every remaining vertex was locked
	// before the target count was met.
	ErrRatioUnreachable = errors.New("target ratio unreachable")
)

// Severity grades a diagnostic
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// FeatureError ties a per-feature condition to the feature it happened on.
type FeatureError struct {
	Op        string
	LayerID   string
	FeatureID int64
	Err       error
}

func (e *FeatureError) Error() string {
	if e.LayerID == "" && e.Op != "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: layer %s, feature ID %d: %v", e.Op, e.LayerID, e.FeatureID, e.Err)
}

func (e *FeatureError) Unwrap() error {
	return e.Err
}

// Diagnostic is a note attached to a batch result
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Err      error    `json:"-"`
	Message  string   `json:"message"`
}

func newDiagnostic(sev Severity, op, layerID string, featureID int64, err error) Diagnostic {
	fe := &FeatureError{Op: op, LayerID: layerID, FeatureID: featureID, Err: err}
	return Diagnostic{Severity: sev, Err: fe, Message: fe.Error()}
}

func (d Diagnostic) Error() string {
	return d.Message
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}
