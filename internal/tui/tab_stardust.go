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

func (a App) renderStardustTab(snap dashboard.Snapshot, cw, h int) string {
	if snap.Stardust == nil {
		body := mutedLine("暂无星辰数据 · r 重新加载")
		if a.stardustLoading {
			body = a.spinner.View() + mutedLine(" 正在加载星辰数据…")
		}
		return components.ContentCard("消费星辰 (实验)", body, cw)
	}

	planets := snap.Stardust.Planets()
	if len(planets) == 0 {
		return components.ContentCard("消费星辰 (实验)", mutedLine("没有可显示的分类"), cw)
	}

	listW, orbitW := cw, cw
	if !a.isCompactLayout() {
		halves := components.LayoutRow(cw, 2)
		listW, orbitW = halves[0], halves[1]
	}
	visible := max(h-3, 3)
	if a.isCompactLayout() {
		visible = max(h/2-3, 3)
	}

	cursor := min(a.stardust.cursor, len(planets)-1)
	sel := planets[cursor]
	orbit := snap.Stardust.Orbit(sel.Category)

	list := components.ContentCard(
		fmt.Sprintf("行星 (%d 个分类)", len(planets)),
		a.planetRows(planets, *snap.Stardust, components.CardInnerWidth(listW), visible),
		listW,
	)
	dust := components.ContentCard(
		fmt.Sprintf("%s 的星尘 (%d 笔)", sel.Name, len(orbit)),
		orbitRows(orbit, components.CardInnerWidth(orbitW), visible),
		orbitW,
	)

	if a.isCompactLayout() {
		return list + "\n" + dust
	}
	return components.CardRow([]string{list, dust})
}

func (a App) planetRows(planets []api.StardustNode, data api.StardustData, innerW, visible int) string {
	t := theme.Active
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	const glyphW, amountW, countW = 3, 14, 8
	nameW := max(innerW-2-glyphW-amountW-countW, 6)

	start, end := a.stardust.window(len(planets), visible)
	var b strings.Builder
	for i := start; i < end; i++ {
		p := planets[i]
		marker := "  "
		if i == a.stardust.cursor {
			marker = "▸ "
		}
		line := marker +
			padCells(planetGlyph(p.SymbolSize), glyphW) +
			padCells(truncateCells(p.Name, nameW), nameW) +
			padLeftCells(cli.FormatCurrency(p.Value), amountW) +
			padLeftCells(cli.FormatCount(int64(len(data.Orbit(p.Category))))+"笔", countW)
		if i == a.stardust.cursor {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if end < len(planets) {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  还有 %d 个 · j/k 移动", len(planets)-end)))
	}
	return b.String()
}

func orbitRows(orbit []api.StardustNode, innerW, visible int) string {
	if len(orbit) == 0 {
		return mutedLine("没有交易")
	}
	t := theme.Active
	dustStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	amountStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	const glyphW, amountW = 2, 14
	nameW := max(innerW-glyphW-amountW, 6)

	n := min(len(orbit), visible)
	var b strings.Builder
	for i, d := range orbit[:n] {
		b.WriteString(dustStyle.Render(padCells(dustGlyph(d.SymbolSize), glyphW)))
		b.WriteString(nameStyle.Render(padCells(truncateCells(d.Name, nameW), nameW)))
		b.WriteString(amountStyle.Render(padLeftCells(cli.FormatCurrency(d.Value), amountW)))
		if i < n-1 {
			b.WriteString("\n")
		}
	}
	if n < len(orbit) {
		b.WriteString("\n")
		b.WriteString(amountStyle.Render(fmt.Sprintf("… 另有 %d 笔", len(orbit)-n)))
	}
	return b.String()
}

// planetGlyph maps a planet's symbol size (10-80) to a glyph.
func planetGlyph(size float64) string {
	switch {
	case size >= 60:
		return "●"
	case size >= 30:
		return "◉"
	default:
		return "○"
	}
}

// dustGlyph maps a transaction's symbol size (3-30) to a glyph.
func dustGlyph(size float64) string {
	switch {
	case size >= 20:
		return "✦"
	case size >= 8:
		return "•"
	default:
		return "·"
	}
}
