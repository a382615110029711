package tui

import (
	"fmt"
	"strings"

	"github.com/openclaw/qianne/internal/api"
	"github.com/openclaw/qianne/internal/cli"
	"github.com/openclaw/qianne/internal/dashboard"
	"github.com/openclaw/qianne/internal/tui/components"
	"github.com/openclaw/qianne/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderCategoriesTab(snap dashboard.Snapshot, cw int) string {
	if len(snap.Categories) == 0 {
		return components.ContentCard("分类分析", mutedLine("暂无分类数据"), cw)
	}

	cats := snap.TopCategories()
	title := fmt.Sprintf("支出最多的 %d 个分类 (共 %d 个, a 显示全部)", len(cats), len(snap.Categories))
	if a.showAllCategories {
		cats = snap.Categories
		title = fmt.Sprintf("全部 %d 个分类 (a 只看前 %d)", len(cats), dashboard.TopCategoryLimit)
	}

	total := snap.TotalExpenses()

	listW, statsW := cw, cw
	if !a.isCompactLayout() {
		widths := components.LayoutRow(cw, 3)
		listW = widths[0] + widths[1]
		statsW = widths[2]
	}

	list := components.ContentCard(title, shareRows(cats, total, components.CardInnerWidth(listW)), listW)
	stats := components.ContentCard("笔数与均价", categoryDetails(cats, components.CardInnerWidth(statsW)), statsW)

	if a.isCompactLayout() {
		return list + "\n" + stats
	}
	return components.CardRow([]string{list, stats})
}

// shareRows renders one ShareBar per category, each sized as a share of total.
func shareRows(cats []api.CategoryExpense, total float64, innerW int) string {
	labelW, textW := 0, 0
	texts := make([]string, len(cats))
	for i, c := range cats {
		labelW = max(labelW, lipgloss.Width(c.Label()))
		texts[i] = fmt.Sprintf("%s · %s笔", cli.FormatCurrency(c.TotalAmount), cli.FormatCount(c.Count))
		textW = max(textW, lipgloss.Width(texts[i]))
	}
	labelW = min(labelW, innerW/4)
	// label, space, bar, space, "100.0%", two spaces, text
	barW := max(innerW-labelW-1-1-6-2-textW, 6)

	var b strings.Builder
	for i, c := range cats {
		pct := 0.0
		if total > 0 {
			pct = c.TotalAmount / total
		}
		b.WriteString(components.ShareBar(c.Label(), pct, texts[i], labelW, barW))
		if i < len(cats)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// categoryDetails lists each category's count and average, as reported by
// the API.
func categoryDetails(cats []api.CategoryExpense, innerW int) string {
	t := theme.Active
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	numStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	const countW, avgW = 6, 12
	nameW := max(innerW-countW-avgW-2, 6)

	var b strings.Builder
	b.WriteString(headerStyle.Render(padCells("分类", nameW) + " " + padLeftCells("笔数", countW) + " " + padLeftCells("均价", avgW)))
	for _, c := range cats {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(padCells(truncateCells(c.Label(), nameW), nameW)))
		b.WriteString(numStyle.Render(" " + padLeftCells(cli.FormatCount(c.Count), countW)))
		b.WriteString(numStyle.Render(" " + padLeftCells(cli.FormatCurrency(c.AvgAmount), avgW)))
	}
	return b.String()
}

// padLeftCells left-pads s with spaces to w terminal cells.
func padLeftCells(s string, w int) string {
	return strings.Repeat(" ", max(w-lipgloss.Width(s), 0)) + s
}

// padCells right-pads s with spaces to w terminal cells.
func padCells(s string, w int) string {
	return s + strings.Repeat(" ", max(w-lipgloss.Width(s), 0))
}

// truncateCells cuts s to at most w terminal cells.
func truncateCells(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if used+rw > w-1 {
			break
		}
		b.WriteRune(r)
		used += rw
	}
	return b.String() + "…"
}
