package cmd

import (
	"fmt"
	"strconv"

	"github.com/openclaw/qianne/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := config.Path()
	if flagConfig != "" {
		path = flagConfig
	}
	fmt.Printf("  Config file: %s\n", path)
	if flagConfig != "" || config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [API]")
	fmt.Printf("    Base URL:    %s\n", cfg.API.BaseURL)
	fmt.Printf("    Timeout:     %s\n", cfg.Timeout())
	if cfg.API.TicketPath != "" {
		fmt.Printf("    Ticket path: %s\n", cfg.API.TicketPath)
	}
	fmt.Println()

	fmt.Println("  [Storage]")
	fmt.Printf("    Backend: %s\n", cfg.Storage.Backend)
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		fmt.Printf("    Path:    %s\n", cfg.DBPath())
	case config.BackendRedis:
		fmt.Printf("    Address: %s (db %d)\n", cfg.Storage.RedisAddr, cfg.Storage.RedisDB)
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	fmt.Printf("    File:  %s (TUI only)\n", cfg.LogPath())
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto refresh: %s\n", strconv.FormatBool(cfg.TUI.AutoRefresh))
	fmt.Printf("    Interval:     %s\n", cfg.RefreshInterval())
	fmt.Println()

	fmt.Println("  Run `qianne setup` to reconfigure.")
	return nil
}
