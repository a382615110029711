package cmd

import (
	"fmt"
	"sort"

	"github.com/openclaw/qianne/internal/cli"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the API is reachable",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	h, err := a.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("%s unreachable: %w", a.client.BaseURL(), err)
	}

	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := [][2]string{{"server", a.client.BaseURL()}}
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, fmt.Sprint(h[k])})
	}

	fmt.Println()
	fmt.Print(cli.RenderKeyValues(pairs))
	fmt.Println()
	return nil
}
