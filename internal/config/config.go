// Package config loads Mimir's four recognized options (§6, §A.2): strict,
// quiet, action_cost_default, and deadline, merging a YAML file (if present)
// over built-in defaults, the way codenerd's internal/config.Load layers a
// YAML file over DefaultConfig before CLI flags get the final say.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mimirplan/mimir/internal/mimirerr"
)

// Config holds every option the grounder's public surface recognizes.
type Config struct {
	// Strict rejects PDDL constructs outside the supported subset instead
	// of silently ignoring them (UnsupportedConstruct).
	Strict bool `yaml:"strict"`
	// Quiet silences logging below Error.
	Quiet bool `yaml:"quiet"`
	// ActionCostDefault is substituted for an action's cost expression
	// when it evaluates to NaN (§4.7).
	ActionCostDefault float64 `yaml:"action_cost_default"`
	// Deadline bounds a single grounding call; zero means no deadline.
	Deadline time.Duration `yaml:"deadline"`
	// Verbose raises the logger to Debug level.
	Verbose bool `yaml:"verbose"`
	// StorePath names the optional sqlite cache file (§B.4) that the
	// successor command opens; empty disables it. The CLI writes no ground
	// instances to it and reads none from it.
	StorePath string `yaml:"store_path"`
}

// Default returns Mimir's built-in defaults, matching §6's documented
// recognized-configuration defaults exactly.
func Default() *Config {
	return &Config{
		Strict:            false,
		Quiet:             false,
		ActionCostDefault: 1,
		Deadline:          0,
		Verbose:           false,
		StorePath:         "",
	}
}

// Load reads a YAML file at path and merges it over Default. A missing file
// is not an error: the defaults are returned as-is, matching codenerd's
// Load behavior of falling back to defaults rather than failing.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the grounder cannot act on.
func (c *Config) Validate() error {
	if c.ActionCostDefault < 0 {
		return mimirerr.Invariant("action_cost_default must be non-negative, got %v", c.ActionCostDefault)
	}
	if c.Deadline < 0 {
		return mimirerr.Invariant("deadline must be non-negative, got %v", c.Deadline)
	}
	return nil
}
