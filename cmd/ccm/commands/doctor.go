package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/l3aro/go-ccm/internal/config"
	"github.com/l3aro/go-ccm/internal/healthcheck"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on configuration and cache",
	Long: `Checks that the configuration is valid, the configured instruction
set is registered, and the result cache is readable and writable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, configPath, err := loadConfigWithPath()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		result, err := healthcheck.Check(cfg, configPath, configPath)
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}

		displayDoctorResult(result)

		if !result.Healthy() {
			return fmt.Errorf("health check failed: one or more checks reported errors")
		}

		return nil
	},
}

func loadConfigWithPath() (*config.Config, string, error) {
	projectConfigPath := filepath.Join(".ccm", "config.yaml")
	projectExists := fileExists(projectConfigPath)

	home, _ := os.UserHomeDir()
	globalConfigPath := ""
	if home != "" {
		globalConfigPath = filepath.Join(home, ".ccm", "config.yaml")
	}
	globalExists := fileExists(globalConfigPath)

	var effectivePath string
	if projectExists {
		effectivePath = projectConfigPath
	} else if globalExists {
		effectivePath = globalConfigPath
	} else {
		return nil, "", fmt.Errorf("no configuration found\n"+
			"Checked paths:\n"+
			"  - %s (project)\n"+
			"  - %s (global)\n"+
			"Run 'ccm init' to create a configuration file",
			projectConfigPath, globalConfigPath)
	}

	cfg, err := config.LoadFromFile(effectivePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config from %s: %w", effectivePath, err)
	}

	return cfg, effectivePath, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func displayDoctorResult(result *healthcheck.Result) {
	fmt.Printf("Using config: %s (%s)\n\n", result.EffectivePath, result.EffectiveScope)

	for _, check := range result.Checks {
		fmt.Printf("%s %s", statusIcon(check.Status), check.Name)
		if check.Detail != "" {
			fmt.Printf(": %s", check.Detail)
		}
		fmt.Println()
		if check.Error != "" && check.Status == "error" {
			fmt.Printf("    %s\n", check.Error)
		}
	}
}

func statusIcon(status string) string {
	switch status {
	case "ready":
		return "✓"
	case "disabled":
		return "-"
	case "error":
		return "✗"
	default:
		return "•"
	}
}
