package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the CLI and the HTTP service
type Config struct {
	Listen       string        `yaml:"listen"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	Ratio        float64       `yaml:"ratio"`
	OutputSuffix string        `yaml:"output_suffix"`
	Simplify     Options       `yaml:"simplify"`
}

const (
	defaultListen       = ":8080"
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 5 * time.Minute
	defaultRatio        = 0.5
	defaultOutputSuffix = "_simplified"
)

// DefaultConfig returns the built-in settings
func DefaultConfig() Config {
	return Config{
		Listen:       defaultListen,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		Ratio:        defaultRatio,
		OutputSuffix: defaultOutputSuffix,
		Simplify:     DefaultOptions(),
	}
}

// LoadConfig applies, in order: defaults, the YAML file at path (if any),
// then TOPOCARTGEN_* environment variables.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if _, err := retention(cfg.Ratio, cfg.Simplify.RatioMode); err != nil {
		return Config{}, fmt.Errorf("invalid ratio in config: %w", err)
	}
	if err := cfg.Simplify.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("TOPOCARTGEN_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("TOPOCARTGEN_OUTPUT_SUFFIX"); v != "" {
		cfg.OutputSuffix = v
	}

	if v := os.Getenv("TOPOCARTGEN_RATIO"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TOPOCARTGEN_RATIO: %w", err)
		}
		cfg.Ratio = f
	}
	if v := os.Getenv("TOPOCARTGEN_TOLERANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TOPOCARTGEN_TOLERANCE: %w", err)
		}
		cfg.Simplify.Tolerance = f
	}
	if v := os.Getenv("TOPOCARTGEN_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TOPOCARTGEN_WORKERS: %w", err)
		}
		cfg.Simplify.Workers = n
	}
	if v := os.Getenv("TOPOCARTGEN_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TOPOCARTGEN_VERBOSE: %w", err)
		}
		cfg.Simplify.Verbose = b
	}

	if v := os.Getenv("TOPOCARTGEN_RATIO_MODE"); v != "" {
		if err := cfg.Simplify.RatioMode.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid TOPOCARTGEN_RATIO_MODE: %w", err)
		}
	}
	if v := os.Getenv("TOPOCARTGEN_SCOPE"); v != "" {
		if err := cfg.Simplify.Scope.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid TOPOCARTGEN_SCOPE: %w", err)
		}
	}
	if v := os.Getenv("TOPOCARTGEN_METRIC"); v != "" {
		if err := cfg.Simplify.Metric.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid TOPOCARTGEN_METRIC: %w", err)
		}
	}

	for key, target := range map[string]*time.Duration{
		"TOPOCARTGEN_READ_TIMEOUT":  &cfg.ReadTimeout,
		"TOPOCARTGEN_WRITE_TIMEOUT": &cfg.WriteTimeout,
	} {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*target = d
		}
	}
	return nil
}
