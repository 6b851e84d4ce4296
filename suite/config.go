// Package suite loads the benchmark run configuration: which engine to
// measure, the two execution modes to compare, and the benchmark
// catalog.
package suite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ModeConfig names one engine execution mode and the arguments that
// select it. The benchmark file is appended after Args on every run.
type ModeConfig struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

// Config is the full description of a comparison run.
type Config struct {
	Engine        string     `yaml:"engine"`
	BenchDir      string     `yaml:"bench_dir"`
	Trials        int        `yaml:"trials"`
	Warmup        int        `yaml:"warmup"`
	TargetSpeedup float64    `yaml:"target_speedup"`
	Baseline      ModeConfig `yaml:"baseline"`
	Alternate     ModeConfig `yaml:"alternate"`
	Benchmarks    []string   `yaml:"benchmarks"`
}

// Default returns the reference configuration: the stock interpreter
// versus the bytecode VM over the standard benchmark catalog.
func Default() Config {
	return Config{
		Engine:        "./target/debug/ruff",
		BenchDir:      "examples/benchmarks",
		Trials:        3,
		Warmup:        0,
		TargetSpeedup: 10,
		Baseline:      ModeConfig{Name: "Interpreter", Args: []string{"run"}},
		Alternate:     ModeConfig{Name: "VM", Args: []string{"run", "--vm"}},
		Benchmarks: []string{
			"fibonacci.ruff",
			"primes.ruff",
			"sorting.ruff",
			"strings.ruff",
			"dict_ops.ruff",
			"nested_loops.ruff",
			"higher_order.ruff",
		},
	}
}

// Load reads a YAML configuration file over the defaults and validates
// the result. Keys absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.Engine == "" {
		return errors.New("engine is required")
	}
	if c.Trials < 1 {
		return fmt.Errorf("trials must be at least 1, got %d", c.Trials)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("warmup must not be negative, got %d", c.Warmup)
	}
	if c.TargetSpeedup <= 0 {
		return fmt.Errorf("target_speedup must be positive, got %v", c.TargetSpeedup)
	}
	if c.Baseline.Name == "" || c.Alternate.Name == "" {
		return errors.New("both baseline and alternate modes must be named")
	}
	if len(c.Benchmarks) == 0 {
		return errors.New("benchmarks list is empty")
	}
	return nil
}

// BenchmarkFile returns the path of one catalog entry under BenchDir.
func (c Config) BenchmarkFile(name string) string {
	return filepath.Join(c.BenchDir, name)
}
