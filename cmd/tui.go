package cmd

import (
	"fmt"

	"github.com/openclaw/qianne/internal/config"
	"github.com/openclaw/qianne/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// First start: ask for the API address before anything connects.
	if flagConfig == "" && !config.Exists() && !stdinIsPiped() {
		if err := setupWizard(config.DefaultConfig()); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{tui: true})
	if err != nil {
		return err
	}
	defer a.Close()

	// Force TrueColor so background styling always produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Deps{
		Auth:      a.auth,
		Dashboard: a.dash,
		Router:    a.router,
		Config:    a.cfg,
		Log:       a.log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
