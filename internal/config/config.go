// Package config loads the runtype configuration from runtype.config.json
// or runtype.config.yaml.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the runtype configuration.
type Config struct {
	// AssertionMode governs value-site behaviour: "off", "warn" or
	// "assert".
	AssertionMode string `json:"assertionMode,omitempty" yaml:"assertionMode"`

	// Annotate controls whether the transformer emits descriptor
	// construction at all. Off means pass-through.
	Annotate bool `json:"annotate" yaml:"annotate"`

	// LibraryID is the module identifier the runtime is imported under in
	// transformed output.
	LibraryID string `json:"libraryId,omitempty" yaml:"libraryId"`

	// SuppressTypeNames lists type names whose references collapse to any.
	SuppressTypeNames []string `json:"suppressTypeNames,omitempty" yaml:"suppressTypeNames"`

	// Include and Exclude are glob patterns selecting the modules to
	// transform.
	Include []string `json:"include,omitempty" yaml:"include"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude"`

	// Strict promotes converter warnings to errors.
	Strict bool `json:"strict,omitempty" yaml:"strict"`

	// Quiet suppresses converter warnings.
	Quiet bool `json:"quiet,omitempty" yaml:"quiet"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		AssertionMode: "assert",
		Annotate:      true,
		LibraryID:     "runtype",
		Include:       []string{"src/**/*.ast.json"},
	}
}

// Load reads and parses a runtype config file. The format follows the file
// extension: .json, or .yaml/.yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
		}
	}

	if result := config.Validate(); !result.IsValid() {
		return nil, fmt.Errorf("invalid config file %q: %s", path, strings.Join(result.Errors, "; "))
	}
	return &config, nil
}

// ValidationResult holds config validation results.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Validate performs thorough config validation with suggestions.
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{}

	switch c.AssertionMode {
	case "", "off", "warn", "assert":
	default:
		result.Errors = append(result.Errors,
			fmt.Sprintf("assertionMode: invalid value %q — must be off, warn, or assert", c.AssertionMode))
	}

	if c.LibraryID == "" {
		result.Errors = append(result.Errors, "libraryId: must not be empty")
	}

	for _, pattern := range c.Include {
		if !strings.Contains(pattern, "*") && !strings.HasSuffix(pattern, ".json") {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("include: pattern %q doesn't contain a wildcard or .json extension — did you mean %q?", pattern, pattern+"/**/*.ast.json"))
		}
	}

	if !c.Annotate && c.AssertionMode != "" && c.AssertionMode != "off" {
		result.Warnings = append(result.Warnings,
			"annotate is off — assertionMode has no effect on pass-through output")
	}

	return result
}

// Discover looks for a config file starting at dir and walking upward.
// It returns "" when no config exists; callers fall back to DefaultConfig.
func Discover(dir string) string {
	names := []string{"runtype.config.json", "runtype.config.yaml", "runtype.config.yml"}
	for {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
