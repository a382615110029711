package cmd

import (
	"errors"
	"fmt"

	"github.com/openclaw/qianne/internal/config"
	"github.com/openclaw/qianne/internal/tui"
	"github.com/openclaw/qianne/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		// A broken file is what setup is for; start from defaults.
		printWarning("ignoring current config: %v", err)
		cfg = config.DefaultConfig()
	}
	return setupWizard(cfg)
}

// setupWizard runs the huh form and saves the answers. It is shared by
// `qianne setup` and the first start of the TUI.
func setupWizard(cfg config.Config) error {
	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("setup canceled")
		}
		return err
	}
	vals.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	path := config.Path()
	if flagConfig != "" {
		path = flagConfig
	}
	if err := config.SaveFile(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	theme.SetActive(cfg.Appearance.Theme)

	fmt.Println()
	fmt.Printf("  Saved to %s\n", path)
	fmt.Println("  Run `qianne setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
