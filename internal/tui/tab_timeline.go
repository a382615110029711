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

	"github.com/charmbracelet/lipgloss"
)

const recentDays = 12

func (a App) renderTimelineTab(snap dashboard.Snapshot, cw int) string {
	t := theme.Active
	if len(snap.Timeline) == 0 {
		return components.ContentCard("时间洞察", mutedLine("暂无时间线数据"), cw)
	}

	var b strings.Builder

	// The API lists days oldest first; the chart keeps the newest days
	// that fit.
	vals := make([]float64, len(snap.Timeline))
	for i, d := range snap.Timeline {
		vals[i] = d.DailyTotal
	}
	chartH := overviewChartH
	if a.isCompactLayout() {
		chartH = compactChartH
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("每日支出 (%d 天有记录)", len(snap.Timeline)),
		components.BarChart(vals, timelineLabels(snap.Timeline), t.Blue, components.CardInnerWidth(cw), chartH),
		cw,
	))
	b.WriteString("\n")

	n := min(len(snap.Timeline), recentDays)
	recent := make([]api.TimelineData, n)
	for i := range n {
		recent[i] = snap.Timeline[len(snap.Timeline)-1-i]
	}

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("最近记录", recentDayRows(recent, components.CardInnerWidth(cw)), cw))
		return b.String()
	}

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("最近记录", recentDayRows(recent, components.CardInnerWidth(halves[0])), halves[0]),
		components.ContentCard("单日支出", components.HBarList(dayBars(recent), t.Blue, components.CardInnerWidth(halves[1])), halves[1]),
	}))
	return b.String()
}

// timelineLabels labels the first bar and each month start "M/D", others
// with the day number.
func timelineLabels(days []api.TimelineData) []string {
	labels := make([]string, len(days))
	prevMonth := -1
	for i, d := range days {
		dt, ok := cli.ParseDate(d.Date)
		if !ok {
			labels[i] = d.Date
			continue
		}
		m := int(dt.Month())
		if i == 0 || m != prevMonth {
			labels[i] = fmt.Sprintf("%d/%d", m, dt.Day())
		} else {
			labels[i] = strconv.Itoa(dt.Day())
		}
		prevMonth = m
	}
	return labels
}

func recentDayRows(days []api.TimelineData, innerW int) string {
	t := theme.Active
	dateStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dayStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	amountStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	const dateW, weekdayW, amountW = 14, 5, 14
	countW := max(innerW-dateW-weekdayW-amountW, 4)

	var b strings.Builder
	for i, d := range days {
		weekday := ""
		if dt, ok := cli.ParseDate(d.Date); ok {
			weekday = cli.FormatDayOfWeek(dt.Weekday())
		}
		b.WriteString(dateStyle.Render(padCells(cli.FormatDate(d.Date), dateW)))
		b.WriteString(dayStyle.Render(padCells(weekday, weekdayW)))
		b.WriteString(amountStyle.Render(padLeftCells(cli.FormatCurrency(d.DailyTotal), amountW)))
		b.WriteString(countStyle.Render(padLeftCells(cli.FormatCount(d.TransactionCount)+"笔", countW)))
		if i < len(days)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func dayBars(days []api.TimelineData) []components.HBar {
	rows := make([]components.HBar, len(days))
	for i, d := range days {
		rows[i] = components.HBar{Label: cli.FormatShortDate(d.Date), Value: d.DailyTotal, Text: cli.FormatCurrency(d.DailyTotal)}
	}
	return rows
}
