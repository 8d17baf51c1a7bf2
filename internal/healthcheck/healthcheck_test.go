package healthcheck

import (
	"path/filepath"
	"testing"

	"github.com/l3aro/go-ccm/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.CachePath = filepath.Join(t.TempDir(), "results.msgb")
	return cfg
}

func findCheck(t *testing.T, r *Result, name string) CheckStatus {
	t.Helper()
	for _, c := range r.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("Check %q not found in result", name)
	return CheckStatus{}
}

func TestCheckWithNilConfig(t *testing.T) {
	_, err := Check(nil, "", "")
	if err == nil {
		t.Error("Expected error for nil config, got nil")
	}
}

func TestCheckHealthyDefaults(t *testing.T) {
	result, err := Check(testConfig(t), "", "")
	if err != nil {
		t.Fatalf("Check() failed: %v", err)
	}

	if !result.Healthy() {
		t.Errorf("Expected healthy result, got %+v", result.Checks)
	}

	if got := findCheck(t, result, "instruction set").Detail; got != "cpython-3.7" {
		t.Errorf("instruction set detail = %q, want cpython-3.7", got)
	}
	if got := findCheck(t, result, "cache").Status; got != "ready" {
		t.Errorf("cache status = %q, want ready", got)
	}
}

func TestCheckUnknownInstructionSet(t *testing.T) {
	cfg := testConfig(t)
	cfg.InstructionSet = "cpython-0.9"

	result, err := Check(cfg, "", "")
	if err != nil {
		t.Fatalf("Check() failed: %v", err)
	}

	if result.Healthy() {
		t.Error("Expected unhealthy result for unknown instruction set")
	}

	check := findCheck(t, result, "instruction set")
	if check.Status != "error" {
		t.Errorf("instruction set status = %q, want error", check.Status)
	}
	if check.Error == "" {
		t.Error("Expected error detail listing available versions")
	}
}

func TestCheckCacheDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.CacheEnabled = false

	result, err := Check(cfg, "", "")
	if err != nil {
		t.Fatalf("Check() failed: %v", err)
	}

	if got := findCheck(t, result, "cache").Status; got != "disabled" {
		t.Errorf("cache status = %q, want disabled", got)
	}
	if !result.Healthy() {
		t.Error("Disabled cache should not make the result unhealthy")
	}
}

func TestCheckInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.MediumThreshold = cfg.LowThreshold

	result, err := Check(cfg, "", "")
	if err != nil {
		t.Fatalf("Check() failed: %v", err)
	}

	check := findCheck(t, result, "config")
	if check.Status != "error" {
		t.Errorf("config status = %q, want error", check.Status)
	}
}

func TestScopeFromPath(t *testing.T) {
	if got := scopeFromPath(""); got != "" {
		t.Errorf("scopeFromPath(\"\") = %q, want empty", got)
	}
	if got := scopeFromPath(filepath.Join(".ccm", "config.yaml")); got != "project" {
		t.Errorf("scopeFromPath(project path) = %q, want project", got)
	}
}
