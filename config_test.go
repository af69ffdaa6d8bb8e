package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "topocartgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, 0.5, cfg.Ratio)
	assert.Equal(t, ScopeGlobal, cfg.Simplify.Scope)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
listen: ":9090"
read_timeout: 10s
ratio: 0.3
output_suffix: _gen
simplify:
  ratio_mode: remove
  scope: layer
  metric: distance
  tolerance: 0.01
  workers: 2
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, defaultWriteTimeout, cfg.WriteTimeout)
	assert.Equal(t, 0.3, cfg.Ratio)
	assert.Equal(t, "_gen", cfg.OutputSuffix)
	assert.Equal(t, Options{
		RatioMode: RemoveFraction,
		Scope:     ScopeLayer,
		Metric:    MetricDistance,
		Tolerance: 0.01,
		Workers:   2,
	}, cfg.Simplify)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "ratio: 0.3\nsimplify:\n  scope: layer\n")
	t.Setenv("TOPOCARTGEN_RATIO", "0.7")
	t.Setenv("TOPOCARTGEN_SCOPE", "component")
	t.Setenv("TOPOCARTGEN_WORKERS", "3")
	t.Setenv("TOPOCARTGEN_VERBOSE", "true")
	t.Setenv("TOPOCARTGEN_WRITE_TIMEOUT", "1m")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.7, cfg.Ratio)
	assert.Equal(t, ScopeComponent, cfg.Simplify.Scope)
	assert.Equal(t, 3, cfg.Simplify.Workers)
	assert.True(t, cfg.Simplify.Verbose)
	assert.Equal(t, time.Minute, cfg.WriteTimeout)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "ratio: [1, 2"))
		assert.Error(t, err)
	})

	t.Run("unknown scope", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "simplify:\n  scope: planet\n"))
		assert.Error(t, err)
	})

	t.Run("ratio out of range", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "ratio: 1.5\n"))
		assert.ErrorIs(t, err, ErrInvalidRatio)
	})

	t.Run("remove everything", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "ratio: 1\nsimplify:\n  ratio_mode: remove\n"))
		assert.ErrorIs(t, err, ErrInvalidRatio)
	})

	t.Run("bad env", func(t *testing.T) {
		t.Setenv("TOPOCARTGEN_TOLERANCE", "wide")
		_, err := LoadConfig("")
		assert.Error(t, err)
	})

	t.Run("negative tolerance", func(t *testing.T) {
		t.Setenv("TOPOCARTGEN_TOLERANCE", "-1")
		_, err := LoadConfig("")
		assert.ErrorIs(t, err, ErrInvalidOptions)
	})
}

func TestSimplifyFlagsApply(t *testing.T) {
	cfg := DefaultConfig()
	flags := SimplifyFlags{Ratio: 0.2, Scope: "layer", Metric: "distance", Workers: 4}
	require.NoError(t, flags.Apply(&cfg))

	assert.Equal(t, 0.2, cfg.Ratio)
	assert.Equal(t, ScopeLayer, cfg.Simplify.Scope)
	assert.Equal(t, MetricDistance, cfg.Simplify.Metric)
	assert.Equal(t, 4, cfg.Simplify.Workers)

	cfg = DefaultConfig()
	flags = SimplifyFlags{Ratio: 1, RatioMode: "remove"}
	assert.ErrorIs(t, flags.Apply(&cfg), ErrInvalidRatio)
}
