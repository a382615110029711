package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openclaw/qianne/internal/api"
	"github.com/openclaw/qianne/internal/cli"
	"github.com/openclaw/qianne/internal/dashboard"
	"github.com/openclaw/qianne/internal/tui/components"
	"github.com/openclaw/qianne/internal/tui/theme"
)

const (
	overviewMonths   = 24
	overviewTopRows  = 5
	overviewChartH   = 10
	compactChartH    = 7
	overviewMinCards = 2
)

func (a App) renderOverviewTab(snap dashboard.Snapshot, cw int) string {
	t := theme.Active
	var b strings.Builder

	// Row 1: metric cards.
	b.WriteString(components.MetricCardRow(overviewMetrics(snap), cw))
	b.WriteString("\n")

	// Row 2: monthly spend, oldest left.
	if len(snap.Monthly) > 0 {
		vals, labels := monthlySeries(snap.Monthly, overviewMonths)
		chartH := overviewChartH
		if a.isCompactLayout() {
			chartH = compactChartH
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("月度支出 (近%d个月)", len(vals)),
			components.BarChart(vals, labels, t.Accent, components.CardInnerWidth(cw), chartH),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: top categories and payment methods.
	halves := components.LayoutRow(cw, overviewMinCards)
	catBody := mutedLine("暂无分类数据")
	if cats := snap.TopCategories(); len(cats) > 0 {
		catBody = components.HBarList(categoryBars(cats[:min(len(cats), overviewTopRows)]), t.Orange, components.CardInnerWidth(halves[0]))
	}
	payBody := mutedLine("暂无支付数据")
	if pays := snap.MainPaymentMethods(); len(pays) > 0 {
		payBody = components.HBarList(paymentBars(pays[:min(len(pays), overviewTopRows)]), t.Cyan, components.CardInnerWidth(halves[1]))
	}

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("支出最多的分类", catBody, cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("常用支付方式", payBody, cw))
	} else {
		b.WriteString(components.CardRow([]string{
			components.ContentCard("支出最多的分类", catBody, halves[0]),
			components.ContentCard("常用支付方式", payBody, halves[1]),
		}))
	}

	return b.String()
}

func overviewMetrics(snap dashboard.Snapshot) []components.Metric {
	since := ""
	if s := snap.Summary; s != nil && s.EarliestDate != nil && *s.EarliestDate != "" {
		since = "自 " + cli.FormatDate(*s.EarliestDate)
	}
	latest := ""
	if s := snap.Summary; s != nil && s.LatestDate != nil && *s.LatestDate != "" {
		latest = "最近 " + cli.FormatDate(*s.LatestDate)
	}

	month := components.Metric{Label: "本月", Value: "-"}
	if len(snap.Monthly) > 0 {
		cur := snap.Monthly[0]
		month.Label = cli.FormatYearMonth(cur.Year, cur.Month)
		month.Value = cli.FormatCurrency(cur.MonthlyTotal)
		if len(snap.Monthly) > 1 {
			month.Delta = "较上月 " + cli.FormatDelta(cur.MonthlyTotal, snap.Monthly[1].MonthlyTotal)
		}
	}

	return []components.Metric{
		{Label: "总支出", Value: cli.FormatCurrency(snap.TotalExpenses()), Delta: since},
		{Label: "交易笔数", Value: cli.FormatCount(snap.TotalTransactions()), Delta: latest},
		{Label: "平均每笔", Value: cli.FormatCurrency(snap.AvgExpense())},
		month,
	}
}

// monthlySeries returns up to limit months in chronological order. The API
// lists months newest first. Labels show the year on the first bar and on
// each January.
func monthlySeries(months []api.MonthlyExpense, limit int) ([]float64, []string) {
	n := min(len(months), limit)
	vals := make([]float64, n)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		m := months[n-1-i]
		vals[i] = m.MonthlyTotal
		mon, _ := strconv.Atoi(strings.TrimSpace(m.Month))
		if i == 0 || mon == 1 {
			year := strings.TrimSpace(m.Year)
			if len(year) == 4 {
				year = year[2:]
			}
			labels[i] = fmt.Sprintf("%s/%d", year, mon)
		} else {
			labels[i] = strconv.Itoa(mon)
		}
	}
	return vals, labels
}

func categoryBars(cats []api.CategoryExpense) []components.HBar {
	rows := make([]components.HBar, len(cats))
	for i, c := range cats {
		rows[i] = components.HBar{Label: c.Label(), Value: c.TotalAmount, Text: cli.FormatCurrency(c.TotalAmount)}
	}
	return rows
}

func paymentBars(pays []api.PaymentMethod) []components.HBar {
	rows := make([]components.HBar, len(pays))
	for i, p := range pays {
		rows[i] = components.HBar{Label: paymentLabel(p), Value: p.TotalSpent, Text: cli.FormatCurrency(p.TotalSpent)}
	}
	return rows
}

func paymentLabel(p api.PaymentMethod) string {
	if strings.TrimSpace(p.PayAccount) == "" {
		return "未知账户"
	}
	return p.PayAccount
}
