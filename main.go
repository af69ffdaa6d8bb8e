package main

import (
	"log"
	"os"

	"github.com/jessevdk/go-flags"
)

// GlobalOptions are accepted by every command
type GlobalOptions struct {
	Config  string `short:"c" long:"config" description:"YAML configuration file"`
	Verbose bool   `short:"v" long:"verbose" description:"Log simplification progress"`
}

var globalOpts = GlobalOptions{}
var parser = flags.NewParser(&globalOpts, flags.Default)

// LoadConfig reads the configuration named on the command line
func (g *GlobalOptions) LoadConfig() (Config, error) {
	cfg, err := LoadConfig(g.Config)
	if err != nil {
		return Config{}, err
	}
	if g.Verbose {
		cfg.Simplify.Verbose = true
	}
	return cfg, nil
}

// SimplifyFlags override the configured simplification settings
type SimplifyFlags struct {
	Ratio     float64 `short:"r" long:"ratio" description:"Simplification ratio (0-1)"`
	RatioMode string  `long:"ratio-mode" choice:"retain" choice:"remove" description:"Whether the ratio is kept or removed"`
	Scope     string  `long:"scope" choice:"global" choice:"layer" choice:"component" description:"What the ratio applies to"`
	Metric    string  `long:"metric" choice:"area" choice:"distance" description:"Vertex importance metric"`
	Tolerance float64 `long:"tolerance" description:"Snapping distance for shared vertices"`
	Workers   int     `long:"workers" description:"Worker pool size for component scope"`
}

// Apply overlays the flags that were set onto cfg
func (f *SimplifyFlags) Apply(cfg *Config) error {
	if f.Ratio != 0 {
		cfg.Ratio = f.Ratio
	}
	if f.RatioMode != "" {
		if err := cfg.Simplify.RatioMode.UnmarshalText([]byte(f.RatioMode)); err != nil {
			return err
		}
	}
	if f.Scope != "" {
		if err := cfg.Simplify.Scope.UnmarshalText([]byte(f.Scope)); err != nil {
			return err
		}
	}
	if f.Metric != "" {
		if err := cfg.Simplify.Metric.UnmarshalText([]byte(f.Metric)); err != nil {
			return err
		}
	}
	if f.Tolerance != 0 {
		cfg.Simplify.Tolerance = f.Tolerance
	}
	if f.Workers != 0 {
		cfg.Simplify.Workers = f.Workers
	}
	if _, err := retention(cfg.Ratio, cfg.Simplify.RatioMode); err != nil {
		return err
	}
	return cfg.Simplify.validate()
}

func main() {
	log.SetFlags(log.LstdFlags)

	if _, err := parser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
