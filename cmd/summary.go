package cmd

import (
	"context"
	"fmt"

	"github.com/openclaw/qianne/internal/api"
	"github.com/openclaw/qianne/internal/cli"
	"github.com/openclaw/qianne/internal/dashboard"
	"github.com/openclaw/qianne/internal/router"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Spending totals (default command)",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		if err := a.dash.FetchSummary(ctx); err != nil {
			return err
		}
		snap := a.dash.Snapshot()

		fmt.Println()
		fmt.Println(cli.RenderTitle(router.AppName + "  支出总览"))
		fmt.Println()
		fmt.Print(cli.RenderTable(summaryTable(snap)))
		return nil
	})
}

func summaryTable(snap dashboard.Snapshot) cli.Table {
	earliest, latest := "-", "-"
	if s := snap.Summary; s != nil {
		earliest = dateOrDash(s.EarliestDate)
		latest = dateOrDash(s.LatestDate)
	}
	return cli.Table{
		Headers: []string{"指标", "数值"},
		Rows: [][]string{
			{"总支出", cli.FormatCurrency(snap.TotalExpenses())},
			{"交易笔数", cli.FormatCount(snap.TotalTransactions())},
			{"平均每笔", cli.FormatCurrency(snap.AvgExpense())},
			cli.SeparatorRow,
			{"最早记录", earliest},
			{"最近记录", latest},
		},
	}
}

func dateOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return cli.FormatDate(*s)
}

// printSummarySection is the summary block of `qianne all`.
func printSummarySection(snap dashboard.Snapshot) {
	if snap.Summary == nil {
		return
	}
	fmt.Print(cli.RenderTable(withTitle(summaryTable(snap), "支出总览")))
}

func withTitle(t cli.Table, title string) cli.Table {
	t.Title = title
	return t
}

// firstOr returns the first element's value for bar scaling; the API sorts
// these lists largest first.
func firstOr[T any](items []T, value func(T) float64) float64 {
	if len(items) == 0 {
		return 0
	}
	return value(items[0])
}

func categoryTotal(c api.CategoryExpense) float64 { return c.TotalAmount }
func paymentTotal(p api.PaymentMethod) float64    { return p.TotalSpent }
