package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/openclaw/qianne/internal/api"
	"github.com/openclaw/qianne/internal/cli"
	"github.com/openclaw/qianne/internal/dashboard"
	"github.com/openclaw/qianne/internal/router"

	"github.com/spf13/cobra"
)

const barWidth = 20

var (
	flagAll  bool
	flagDays int
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Monthly spending totals",
	Args:  cobra.NoArgs,
	RunE:  runMonthly,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Spending by category (top 10)",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

var paymentCmd = &cobra.Command{
	Use:     "payment",
	Aliases: []string{"payments"},
	Short:   "Spending by payment method (main 8)",
	Args:    cobra.NoArgs,
	RunE:    runPayment,
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Daily spending",
	Args:  cobra.NoArgs,
	RunE:  runTimeline,
}

func init() {
	categoriesCmd.Flags().BoolVarP(&flagAll, "all", "a", false, "Show every category")
	paymentCmd.Flags().BoolVarP(&flagAll, "all", "a", false, "Show every payment method")
	timelineCmd.Flags().IntVarP(&flagDays, "days", "n", 30, "Number of most recent days to show (0 = all)")

	rootCmd.AddCommand(monthlyCmd, categoriesCmd, paymentCmd, timelineCmd)
}

func printHeader(title string) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(router.AppName + "  " + title))
	fmt.Println()
}

// ─── Monthly ────────────────────────────────────────────────────

func runMonthly(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		if err := a.dash.FetchMonthlyData(ctx); err != nil {
			return err
		}
		snap := a.dash.Snapshot()
		printHeader("月度支出")
		if len(snap.Monthly) == 0 {
			fmt.Println("  暂无月度数据。")
			return nil
		}
		fmt.Print(cli.RenderTable(monthlyTable(snap.Monthly)))
		fmt.Printf("\n  趋势  %s\n\n", cli.AmountStyle().Render(cli.RenderSparkline(monthlyTrend(snap.Monthly))))
		return nil
	})
}

func monthlyTable(months []api.MonthlyExpense) cli.Table {
	rows := make([][]string, len(months))
	for i, m := range months {
		rows[i] = []string{
			cli.FormatYearMonth(m.Year, m.Month),
			cli.FormatCount(m.TransactionCount),
			cli.FormatCurrency(m.MonthlyTotal),
			cli.FormatCurrency(m.AvgTransaction),
		}
	}
	return cli.Table{Headers: []string{"月份", "笔数", "总额", "均价"}, Rows: rows}
}

// monthlyTrend returns totals oldest first; the API lists newest first.
func monthlyTrend(months []api.MonthlyExpense) []float64 {
	vals := make([]float64, len(months))
	for i, m := range months {
		vals[len(months)-1-i] = m.MonthlyTotal
	}
	return vals
}

// ─── Categories ─────────────────────────────────────────────────

func runCategories(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		if err := a.dash.FetchCategories(ctx); err != nil {
			return err
		}
		snap := a.dash.Snapshot()
		cats := snap.TopCategories()
		title := fmt.Sprintf("支出最多的 %d 个分类", len(cats))
		if flagAll {
			cats = snap.Categories
			title = fmt.Sprintf("全部 %d 个分类", len(cats))
		}
		printHeader(title)
		if len(cats) == 0 {
			fmt.Println("  暂无分类数据。")
			return nil
		}
		fmt.Print(cli.RenderTable(categoryTable(cats)))
		if !flagAll && len(snap.Categories) > len(cats) {
			fmt.Println(cli.MutedStyle().Render(fmt.Sprintf("  还有 %d 个分类，使用 --all 查看全部", len(snap.Categories)-len(cats))))
		}
		return nil
	})
}

func categoryTable(cats []api.CategoryExpense) cli.Table {
	peak := firstOr(cats, categoryTotal)
	rows := make([][]string, len(cats))
	for i, c := range cats {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			c.Label(),
			cli.FormatCount(c.Count),
			cli.FormatCurrency(c.TotalAmount),
			cli.FormatCurrency(c.AvgAmount),
			cli.RenderHorizontalBar(c.TotalAmount, peak, barWidth),
		}
	}
	return cli.Table{Headers: []string{"#", "分类", "笔数", "总额", "均价", ""}, Rows: rows}
}

// ─── Payment methods ────────────────────────────────────────────

func runPayment(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		if err := a.dash.FetchPaymentMethods(ctx); err != nil {
			return err
		}
		snap := a.dash.Snapshot()
		pays := snap.MainPaymentMethods()
		title := "常用支付方式"
		if flagAll {
			pays = snap.PaymentMethods
			title = fmt.Sprintf("全部 %d 种支付方式", len(pays))
		}
		printHeader(title)
		if len(pays) == 0 {
			fmt.Println("  暂无支付数据。")
			return nil
		}
		fmt.Print(cli.RenderTable(paymentTable(pays)))
		if !flagAll && len(snap.PaymentMethods) > len(pays) {
			fmt.Println(cli.MutedStyle().Render(fmt.Sprintf("  还有 %d 种，使用 --all 查看全部", len(snap.PaymentMethods)-len(pays))))
		}
		return nil
	})
}

func paymentTable(pays []api.PaymentMethod) cli.Table {
	peak := firstOr(pays, paymentTotal)
	rows := make([][]string, len(pays))
	for i, p := range pays {
		account := p.PayAccount
		if account == "" {
			account = "未知账户"
		}
		rows[i] = []string{
			account,
			cli.FormatCount(p.UsageCount),
			cli.FormatCurrency(p.TotalSpent),
			cli.FormatCurrency(p.AvgPerTransaction),
			cli.RenderHorizontalBar(p.TotalSpent, peak, barWidth),
		}
	}
	return cli.Table{Headers: []string{"账户", "次数", "总额", "均价", ""}, Rows: rows}
}

// ─── Timeline ───────────────────────────────────────────────────

func runTimeline(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		if err := a.dash.FetchTimeline(ctx); err != nil {
			return err
		}
		days := lastDays(a.dash.Snapshot().Timeline, flagDays)
		printHeader(fmt.Sprintf("每日支出 (最近 %d 天有记录)", len(days)))
		if len(days) == 0 {
			fmt.Println("  暂无时间线数据。")
			return nil
		}
		fmt.Print(cli.RenderTable(timelineTable(days)))

		vals := make([]float64, len(days))
		for i, d := range days {
			vals[i] = d.DailyTotal
		}
		fmt.Printf("\n  趋势  %s\n\n", cli.AmountStyle().Render(cli.RenderSparkline(vals)))
		return nil
	})
}

// lastDays keeps the newest n entries; the API lists days oldest first.
func lastDays(days []api.TimelineData, n int) []api.TimelineData {
	if n <= 0 || n >= len(days) {
		return days
	}
	return days[len(days)-n:]
}

func timelineTable(days []api.TimelineData) cli.Table {
	rows := make([][]string, len(days))
	for i, d := range days {
		weekday := ""
		if t, ok := cli.ParseDate(d.Date); ok {
			weekday = cli.FormatDayOfWeek(t.Weekday())
		}
		rows[i] = []string{
			cli.FormatDate(d.Date),
			weekday,
			cli.FormatCount(d.TransactionCount),
			cli.FormatCurrency(d.DailyTotal),
		}
	}
	return cli.Table{Headers: []string{"日期", "", "笔数", "总额"}, Rows: rows}
}

// printSections renders every slice for `qianne all`, skipping slices that
// never loaded.
func printSections(snap dashboard.Snapshot) {
	printSummarySection(snap)
	if len(snap.Monthly) > 0 {
		fmt.Println()
		fmt.Print(cli.RenderTable(withTitle(monthlyTable(snap.Monthly), "月度支出")))
	}
	if cats := snap.TopCategories(); len(cats) > 0 {
		fmt.Println()
		fmt.Print(cli.RenderTable(withTitle(categoryTable(cats), "支出最多的分类")))
	}
	if pays := snap.MainPaymentMethods(); len(pays) > 0 {
		fmt.Println()
		fmt.Print(cli.RenderTable(withTitle(paymentTable(pays), "常用支付方式")))
	}
	if days := lastDays(snap.Timeline, 14); len(days) > 0 {
		fmt.Println()
		fmt.Print(cli.RenderTable(withTitle(timelineTable(days), "最近每日支出")))
	}
}
