// Package config loads the two configuration surfaces named in spec.md
// §6: a project config (root, include/exclude globs) from
// `.graphqlintel.kdl`, and lint rule configuration from a YAML file
// (`rules: { <rule_name>: off|warn|error }`, with `presets`).
//
// Grounded on the teacher's internal/config package: Config/Project
// struct shape and the KDL-then-defaults load order come from
// config.go, the KDL node-walking helpers from kdl_config.go, and
// ValidateAndSetDefaults's smart-defaults pass from validator.go.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/graphqlintel/graphqlintel/internal/apperr"
)

// Config is the project-level configuration: where the project lives
// and which files belong to it.
type Config struct {
	Project     Project
	Performance Performance
	Include     []string
	Exclude     []string
}

type Project struct {
	Root string
	Name string
}

// Performance mirrors the teacher's Performance struct, trimmed to the
// fields internal/watch actually consumes (spec.md §4.2 "writes are not
// batched internally; callers coalesce").
type Performance struct {
	DebounceMs          int
	ParallelFileWorkers int
}

// Default returns the zero-config defaults used when no .graphqlintel.kdl
// is present, matching the teacher's config.go Load fallback.
func Default(root string) *Config {
	return &Config{
		Project: Project{Root: root},
		Performance: Performance{
			DebounceMs:          300,
			ParallelFileWorkers: 0,
		},
		Include: []string{"**/*.graphql", "**/*.graphqls", "**/*.gql", "**/*.ts", "**/*.tsx", "**/*.js", "**/*.jsx"},
		Exclude: defaultExclusions(),
	}
}

func defaultExclusions() []string {
	return []string{
		"**/.git/**",
		"**/node_modules/**",
		"**/vendor/**",
		"**/dist/**",
		"**/build/**",
		"**/out/**",
		"**/*.min.js",
		"**/*_test.go",
		"**/__tests__/**",
		"**/testdata/**",
	}
}

// Load reads .graphqlintel.kdl from dir if present, else returns
// Default(dir). A config file that fails to parse is an apperr.Error
// (CategoryConfig), never a panic — this is a CLI boundary concern, the
// analysis core never sees it.
func Load(dir string) (*Config, error) {
	kdlPath := filepath.Join(dir, ".graphqlintel.kdl")
	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return Default(dir), nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, apperr.IO("read", kdlPath, err)
	}

	cfg, err := parseKDL(dir, string(content))
	if err != nil {
		return nil, apperr.Config(kdlPath, err)
	}
	return cfg, nil
}

// Validator applies the smart defaults and bounds checks spec.md leaves
// to implementation discretion, mirroring the teacher's
// Validator.ValidateAndSetDefaults.
type Validator struct{}

func NewValidator() *Validator { return &Validator{} }

// ValidateAndSetDefaults checks cfg for out-of-range values and fills in
// CPU-derived defaults, returning every problem found rather than
// stopping at the first (spec.md §7 "Config" category).
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	var errs []error

	if cfg.Project.Root == "" {
		errs = append(errs, apperr.Config("project.root", errEmptyRoot))
	}
	if cfg.Performance.DebounceMs < 0 {
		errs = append(errs, apperr.Config("performance.debounce_ms", errNegativeDebounce))
	}
	if cfg.Performance.ParallelFileWorkers < 0 {
		errs = append(errs, apperr.Config("performance.parallel_file_workers", errNegativeWorkers))
	}

	if cfg.Performance.DebounceMs == 0 {
		cfg.Performance.DebounceMs = 300
	}
	if cfg.Performance.ParallelFileWorkers == 0 {
		cfg.Performance.ParallelFileWorkers = max(1, runtime.NumCPU()-1)
	}

	if len(errs) == 0 {
		return nil
	}
	return apperr.NewMulti(errs)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
