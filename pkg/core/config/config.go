package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"

	"sales_deepdive/pkg/core/adhoc"
	"sales_deepdive/pkg/core/indicators"
	"sales_deepdive/pkg/core/pareto"
)

// Config bundles every engine's thresholds. It is loaded once and passed
// explicitly into each engine call; there is no ambient global state, so
// test runs can carry different thresholds side by side.
type Config struct {
	Pareto     pareto.Config     `yaml:"pareto" json:"pareto"`
	Adhoc      adhoc.Config      `yaml:"adhoc" json:"adhoc"`
	Indicators indicators.Config `yaml:"indicators" json:"indicators"`
}

// Default returns the built-in thresholds: 80/95 ABC cuts, 2% gap
// tolerance, 2-vs-3 month ad-hoc windows.
func Default() Config {
	return Config{
		Pareto:     pareto.DefaultConfig(),
		Adhoc:      adhoc.DefaultConfig(),
		Indicators: indicators.DefaultConfig(),
	}
}

// Load reads a config file, dispatching on extension: .yaml/.yml via yaml,
// .hjson/.json via hjson (hjson accepts plain JSON too). Fields absent from
// the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse yaml config %s: %w", path, err)
		}
	case ".hjson", ".json":
		if err := hjson.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse hjson config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format %q (want .yaml, .yml, .hjson or .json)", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects threshold combinations no engine can run with.
func (c Config) Validate() error {
	if c.Pareto.ACut <= 0 || c.Pareto.BCut <= c.Pareto.ACut || c.Pareto.BCut > 1 {
		return fmt.Errorf("config error: ABC cuts must satisfy 0 < a_cut < b_cut <= 1, got %.2f/%.2f",
			c.Pareto.ACut, c.Pareto.BCut)
	}
	if c.Indicators.Tolerance <= 0 || c.Indicators.Tolerance >= 1 {
		return fmt.Errorf("config error: gap tolerance must be in (0,1), got %.4f", c.Indicators.Tolerance)
	}
	if c.Adhoc.RecentMonths < 1 || c.Adhoc.PriorMonths < 1 {
		return fmt.Errorf("config error: ad-hoc windows must be at least 1 month, got %d/%d",
			c.Adhoc.RecentMonths, c.Adhoc.PriorMonths)
	}
	return nil
}
