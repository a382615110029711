package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/openclaw/qianne/internal/api"
	"github.com/openclaw/qianne/internal/cli"
	"github.com/openclaw/qianne/internal/dashboard"

	"github.com/spf13/cobra"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Fetch every dashboard slice and print them",
	Long: "Fetches summary, monthly, categories, payment methods and timeline\n" +
		"concurrently. Slices that fail are reported; the rest still print.",
	Args: cobra.NoArgs,
	RunE: runAll,
}

func init() {
	rootCmd.AddCommand(allCmd)
}

func runAll(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		err := a.dash.FetchAllData(ctx)
		snap := a.dash.Snapshot()

		var fe *dashboard.FetchError
		switch {
		case err == nil:
		case errors.Is(err, api.ErrUnauthorized):
			return err
		case errors.As(err, &fe):
			if fe.Failed == fe.Total {
				return err
			}
		default:
			return err
		}

		printHeader("全部数据")
		printSections(snap)

		if fe != nil {
			fmt.Println()
			printWarning("%s", snap.Error)
			for _, se := range fe.Errs {
				fmt.Println(cli.MutedStyle().Render(fmt.Sprintf("    %s: %v", se.Slice, se.Err)))
			}
		}
		fmt.Println()
		return nil
	})
}
