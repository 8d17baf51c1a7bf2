package healthcheck

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/l3aro/go-ccm/internal/config"
	"github.com/l3aro/go-ccm/pkg/cache"
	"github.com/l3aro/go-ccm/pkg/instr"
)

// CheckStatus represents the health status of a single component.
type CheckStatus struct {
	Name   string // "config", "instruction set", "cache"
	Detail string
	Status string // "ready", "disabled", "error"
	Error  string
}

// Result contains the full health check output for display.
type Result struct {
	SavedPath      string
	SavedScope     string // "global" or "project"
	EffectivePath  string
	EffectiveScope string // "global" or "project"
	Checks         []CheckStatus
}

// Healthy reports whether no check is in an error state.
func (r *Result) Healthy() bool {
	for _, c := range r.Checks {
		if c.Status == "error" {
			return false
		}
	}
	return true
}

// Check performs a health check against the given config.
// savedPath is where the user saved config (may be empty outside init).
// effectivePath is the config file actually in use (considering priority).
func Check(cfg *config.Config, savedPath string, effectivePath string) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	result := &Result{
		SavedPath:      savedPath,
		SavedScope:     scopeFromPath(savedPath),
		EffectivePath:  effectivePath,
		EffectiveScope: scopeFromPath(effectivePath),
	}

	result.Checks = append(result.Checks,
		checkConfig(cfg),
		checkInstructionSet(cfg),
		checkCache(cfg),
	)

	return result, nil
}

// scopeFromPath determines "global" or "project" scope from a config file path.
// Returns empty string if path is empty.
func scopeFromPath(path string) string {
	if path == "" {
		return ""
	}

	home, err := os.UserHomeDir()
	if err == nil {
		globalDir := filepath.Join(home, ".ccm")
		if strings.HasPrefix(path, globalDir) {
			return "global"
		}
	}

	return "project"
}

// checkConfig validates the effective configuration.
func checkConfig(cfg *config.Config) CheckStatus {
	status := CheckStatus{Name: "config"}

	if err := cfg.Validate(); err != nil {
		status.Status = "error"
		status.Error = err.Error()
		return status
	}

	status.Status = "ready"
	status.Detail = fmt.Sprintf("thresholds %d/%d, graph level %s",
		cfg.LowThreshold, cfg.MediumThreshold, cfg.GraphLevel)
	return status
}

// checkInstructionSet verifies the configured opcode table is registered.
func checkInstructionSet(cfg *config.Config) CheckStatus {
	status := CheckStatus{Name: "instruction set", Detail: cfg.InstructionSet}

	table, err := instr.Lookup(cfg.InstructionSet)
	if err != nil {
		status.Status = "error"
		status.Error = fmt.Sprintf("%v (available: %s)", err, strings.Join(instr.Versions(), ", "))
		return status
	}

	status.Status = "ready"
	status.Detail = table.Version()
	return status
}

// checkCache verifies the cache file is loadable and its directory writable.
func checkCache(cfg *config.Config) CheckStatus {
	status := CheckStatus{Name: "cache", Detail: cfg.CachePath}

	if !cfg.CacheEnabled {
		status.Status = "disabled"
		return status
	}

	lru := cache.NewLRU(cfg.CacheSize)
	if err := lru.LoadFile(cfg.CachePath); err != nil {
		status.Status = "error"
		status.Error = fmt.Sprintf("cache file unreadable: %v", err)
		return status
	}

	dir := filepath.Dir(cfg.CachePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		status.Status = "error"
		status.Error = fmt.Sprintf("cache directory not writable: %v", err)
		return status
	}

	probe, err := os.CreateTemp(dir, ".ccm-probe-*")
	if err != nil {
		status.Status = "error"
		status.Error = fmt.Sprintf("cache directory not writable: %v", err)
		return status
	}
	probe.Close()
	os.Remove(probe.Name())

	status.Status = "ready"
	status.Detail = fmt.Sprintf("%s (%d entries)", cfg.CachePath, lru.Len())
	return status
}
