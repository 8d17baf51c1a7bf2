package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/l3aro/go-ccm/internal/config"
	"github.com/l3aro/go-ccm/internal/healthcheck"
	"github.com/l3aro/go-ccm/pkg/instr"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ccm configuration interactively",
	Long: `Guides you through setting up ccm configuration step by step.
Creates a config file with the instruction set, risk thresholds, and
result cache settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit()
	},
}

func runInit() error {
	cfg := config.DefaultConfig()

	// === SECTION 1: Instruction Set ===
	options := make([]huh.Option[string], 0, len(instr.Versions()))
	for _, v := range instr.Versions() {
		options = append(options, huh.NewOption(v, v))
	}

	instructionSet := cfg.InstructionSet
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Instruction Set - Opcode classification table").
				Description("Select the bytecode dialect your listings use").
				Options(options...).
				Value(&instructionSet),
		),
	)
	err := form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}
	cfg.InstructionSet = instructionSet

	// === SECTION 2: Risk Thresholds ===
	lowStr := strconv.Itoa(cfg.LowThreshold)
	mediumStr := strconv.Itoa(cfg.MediumThreshold)
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Low risk threshold (McCabe values up to this are low risk)").
				Placeholder(lowStr).
				Value(&lowStr).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Medium risk threshold (values above are high risk)").
				Placeholder(mediumStr).
				Value(&mediumStr).
				Validate(validatePositiveInt),
		),
	)
	err = form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}
	cfg.LowThreshold, _ = strconv.Atoi(lowStr)
	cfg.MediumThreshold, _ = strconv.Atoi(mediumStr)

	// === SECTION 3: Result Cache ===
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Result Cache - Reuse measures for unchanged callables").
				Description("Enable the persistent result cache?").
				Affirmative("Yes, enable cache").
				Negative("No, analyze from scratch").
				Value(&cfg.CacheEnabled),
		),
	)
	err = form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	if cfg.CacheEnabled {
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Cache file path").
					Placeholder(cfg.CachePath).
					Value(&cfg.CachePath),
			),
		)
		err = form.Run()
		if err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
	}

	// === SECTION 4: Config Location ===
	var saveLocationChoice string
	home, _ := os.UserHomeDir()
	globalPath := filepath.Join(home, ".ccm", "config.yaml")
	projectPath := filepath.Join(".ccm", "config.yaml")

	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Save Configuration").
				Description("Where to save the configuration file?").
				Options(
					huh.NewOption("Global (~/.ccm/config.yaml)", "global"),
					huh.NewOption("Project (./.ccm/config.yaml)", "project"),
				).
				Value(&saveLocationChoice),
		),
	)
	err = form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	savePath := globalPath
	if saveLocationChoice == "project" {
		savePath = projectPath
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	if err := cfg.Save(savePath); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}

	fmt.Printf("Configuration saved to %s\n\n", savePath)

	result, err := healthcheck.Check(cfg, savePath, savePath)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	displayDoctorResult(result)

	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}
