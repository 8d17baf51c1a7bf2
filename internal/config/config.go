package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/l3aro/go-ccm/pkg/instr"
	"gopkg.in/yaml.v3"
)

// GraphLevel selects which graph the reported headline measures come from.
type GraphLevel string

const (
	GraphBytecode GraphLevel = "bytecode"
	GraphSource   GraphLevel = "source"
)

// Config holds all configuration for ccm.
type Config struct {
	// InstructionSet selects the opcode classification table.
	InstructionSet string `yaml:"instruction_set" env:"CCM_INSTRUCTION_SET"`

	// GraphLevel is the default graph for headline output.
	GraphLevel GraphLevel `yaml:"graph_level" env:"CCM_GRAPH_LEVEL"`

	// Risk thresholds on the bytecode-level McCabe value.
	LowThreshold    int `yaml:"low_threshold" env:"CCM_LOW_THRESHOLD"`
	MediumThreshold int `yaml:"medium_threshold" env:"CCM_MEDIUM_THRESHOLD"`

	// Result cache settings.
	CacheEnabled bool   `yaml:"cache_enabled" env:"CCM_CACHE_ENABLED"`
	CachePath    string `yaml:"cache_path" env:"CCM_CACHE_PATH"`
	CacheSize    int    `yaml:"cache_size" env:"CCM_CACHE_SIZE"`

	// Workers bounds the analysis worker pool for listings.
	Workers int `yaml:"workers" env:"CCM_WORKERS"`

	// Logging
	Verbose bool `yaml:"verbose" env:"CCM_VERBOSE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		InstructionSet:  "cpython-3.7",
		GraphLevel:      GraphBytecode,
		LowThreshold:    9,
		MediumThreshold: 19,
		CacheEnabled:    true,
		CachePath:       defaultCachePath(),
		CacheSize:       4096,
		Workers:         0, // 0 means one per CPU
		Verbose:         false,
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ccm/results.msgb"
	}
	return filepath.Join(home, ".ccm", "results.msgb")
}

// globalConfigFilePath returns the global config file path (~/.ccm/config.yaml)
func globalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ccm/config.yaml"
	}
	return filepath.Join(home, ".ccm", "config.yaml")
}

// projectConfigFilePath returns the project-level config file path (./.ccm/config.yaml)
func projectConfigFilePath() string {
	return ".ccm/config.yaml"
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Project-level config (./.ccm/config.yaml)
// 2. Environment variables
// 3. Global config (~/.ccm/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	globalConfigPath := globalConfigFilePath()
	if data, err := os.ReadFile(globalConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", globalConfigPath, err)
		}
	}

	projectConfigPath := projectConfigFilePath()
	if data, err := os.ReadFile(projectConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", projectConfigPath, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CCM_INSTRUCTION_SET"); v != "" {
		cfg.InstructionSet = v
	}
	if v := os.Getenv("CCM_GRAPH_LEVEL"); v != "" {
		cfg.GraphLevel = GraphLevel(v)
	}
	if v := os.Getenv("CCM_LOW_THRESHOLD"); v != "" {
		if i := parseInt(v); i > 0 {
			cfg.LowThreshold = i
		}
	}
	if v := os.Getenv("CCM_MEDIUM_THRESHOLD"); v != "" {
		if i := parseInt(v); i > 0 {
			cfg.MediumThreshold = i
		}
	}
	if v := os.Getenv("CCM_CACHE_ENABLED"); v != "" {
		cfg.CacheEnabled = v == "true" || v == "1" || v == "yes"
	}
	if v := os.Getenv("CCM_CACHE_PATH"); v != "" {
		cfg.CachePath = v
	}
	if v := os.Getenv("CCM_CACHE_SIZE"); v != "" {
		if i := parseInt(v); i > 0 {
			cfg.CacheSize = i
		}
	}
	if v := os.Getenv("CCM_WORKERS"); v != "" {
		if i := parseInt(v); i > 0 {
			cfg.Workers = i
		}
	}
	if v := os.Getenv("CCM_VERBOSE"); v != "" {
		cfg.Verbose = v == "true" || v == "1" || v == "yes"
	}
}

// Validate checks that the configuration has valid required fields
func (c *Config) Validate() error {
	if _, err := instr.Lookup(c.InstructionSet); err != nil {
		return fmt.Errorf("invalid instruction_set: %w", err)
	}

	switch c.GraphLevel {
	case GraphBytecode, GraphSource:
		// Valid
	default:
		return fmt.Errorf("invalid graph_level: %s (must be 'bytecode' or 'source')", c.GraphLevel)
	}

	if c.LowThreshold <= 0 {
		return fmt.Errorf("low_threshold must be positive")
	}
	if c.MediumThreshold <= c.LowThreshold {
		return fmt.Errorf("medium_threshold must be greater than low_threshold")
	}

	if c.CacheEnabled {
		if c.CachePath == "" {
			return fmt.Errorf("cache_path is required when cache_enabled is true")
		}
		if c.CacheSize <= 0 {
			return fmt.Errorf("cache_size must be positive")
		}
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative")
	}

	return nil
}

// Table returns the opcode table selected by the configuration.
func (c *Config) Table() (*instr.OpTable, error) {
	return instr.Lookup(c.InstructionSet)
}

// parseInt attempts to parse a string as int
func parseInt(s string) int {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0
	}
	return i
}
