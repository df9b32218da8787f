// Package config defines the configuration types and defaults for mergealign.
package config

import (
	"fmt"

	"github.com/dacharyc/diffalign"
)

// Config is the top-level configuration.
type Config struct {
	Diff    DiffConfig    `yaml:"diff" toml:"diff"`
	Display DisplayConfig `yaml:"display" toml:"display"`
}

// DiffConfig holds line differ settings.
type DiffConfig struct {
	Algorithm      string `yaml:"algorithm" toml:"algorithm"`
	Heuristic      bool   `yaml:"heuristic" toml:"heuristic"`
	Minimal        bool   `yaml:"minimal" toml:"minimal"`
	CostLimit      int    `yaml:"cost_limit" toml:"cost_limit"`
	Preprocessing  bool   `yaml:"preprocessing" toml:"preprocessing"`
	Postprocessing bool   `yaml:"postprocessing" toml:"postprocessing"`
	MaxLines       int    `yaml:"max_lines" toml:"max_lines"`
}

// DisplayConfig holds renderer settings.
type DisplayConfig struct {
	Color       string `yaml:"color" toml:"color"`
	Width       int    `yaml:"width" toml:"width"`
	TabWidth    int    `yaml:"tab_width" toml:"tab_width"`
	LineNumbers bool   `yaml:"line_numbers" toml:"line_numbers"`
	WordDiff    bool   `yaml:"word_diff" toml:"word_diff"`
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Diff: DiffConfig{
			Algorithm:      "myers",
			Heuristic:      true,
			Preprocessing:  true,
			Postprocessing: true,
		},
		Display: DisplayConfig{
			Color:       "auto",
			TabWidth:    4,
			LineNumbers: true,
			WordDiff:    true,
		},
	}
}

// Validate reports the first setting with an unusable value.
func (c *Config) Validate() error {
	if _, err := parseAlgorithm(c.Diff.Algorithm); err != nil {
		return err
	}
	switch c.Display.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("display.color: unknown mode %q (want auto, on or off)", c.Display.Color)
	}
	if c.Diff.CostLimit < 0 {
		return fmt.Errorf("diff.cost_limit: must not be negative, got %d", c.Diff.CostLimit)
	}
	if c.Diff.MaxLines < 0 {
		return fmt.Errorf("diff.max_lines: must not be negative, got %d", c.Diff.MaxLines)
	}
	if c.Display.Width < 0 {
		return fmt.Errorf("display.width: must not be negative, got %d", c.Display.Width)
	}
	if c.Display.TabWidth < 1 {
		return fmt.Errorf("display.tab_width: must be at least 1, got %d", c.Display.TabWidth)
	}
	return nil
}

// Options converts the diff section into differ options.
func (c *Config) Options() ([]diffalign.Option, error) {
	algo, err := parseAlgorithm(c.Diff.Algorithm)
	if err != nil {
		return nil, err
	}
	opts := []diffalign.Option{
		diffalign.WithAlgorithm(algo),
		diffalign.WithHeuristic(c.Diff.Heuristic),
		diffalign.WithMinimal(c.Diff.Minimal),
		diffalign.WithPreprocessing(c.Diff.Preprocessing),
		diffalign.WithPostprocessing(c.Diff.Postprocessing),
	}
	if c.Diff.CostLimit > 0 {
		opts = append(opts, diffalign.WithCostLimit(c.Diff.CostLimit))
	}
	if c.Diff.MaxLines > 0 {
		opts = append(opts, diffalign.WithMaxLines(c.Diff.MaxLines))
	}
	return opts, nil
}

func parseAlgorithm(name string) (diffalign.Algorithm, error) {
	switch name {
	case "", "myers":
		return diffalign.Myers, nil
	case "histogram":
		return diffalign.Histogram, nil
	}
	return 0, fmt.Errorf("diff.algorithm: unknown algorithm %q (want myers or histogram)", name)
}
