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

func (a App) renderPaymentTab(snap dashboard.Snapshot, cw, h int) string {
	pays := snap.PaymentMethods
	if len(pays) == 0 {
		return components.ContentCard("支付方式", mutedLine("暂无支付数据"), cw)
	}

	listW, detailW := cw, cw
	if !a.isCompactLayout() {
		listW = max(cw*3/5, 40)
		detailW = cw - listW
	}

	// Card border (2) plus title row (1).
	visible := max(h-3, 3)
	if a.isCompactLayout() {
		visible = max(h/2-3, 3)
	}

	list := components.ContentCard(
		fmt.Sprintf("支付方式 (%d, 前%d为常用)", len(pays), dashboard.MainPaymentLimit),
		a.paymentRows(pays, components.CardInnerWidth(listW), visible),
		listW,
	)

	cursor := min(a.payment.cursor, len(pays)-1)
	sel := pays[cursor]
	detail := components.ContentCard(paymentLabel(sel), paymentDetail(sel, snap.TotalExpenses(), cursor, components.CardInnerWidth(detailW)), detailW)

	if a.isCompactLayout() {
		return list + "\n" + detail
	}
	return components.CardRow([]string{list, detail})
}

func (a App) paymentRows(pays []api.PaymentMethod, innerW, visible int) string {
	t := theme.Active
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mainStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	const countW, amountW = 8, 14
	nameW := max(innerW-2-countW-amountW, 8)

	start, end := a.payment.window(len(pays), visible)
	var b strings.Builder
	for i := start; i < end; i++ {
		p := pays[i]
		marker := "  "
		if i == a.payment.cursor {
			marker = "▸ "
		}
		line := marker +
			padCells(truncateCells(paymentLabel(p), nameW), nameW) +
			padLeftCells(cli.FormatCount(p.UsageCount)+"次", countW) +
			padLeftCells(cli.FormatCurrency(p.TotalSpent), amountW)

		switch {
		case i == a.payment.cursor:
			b.WriteString(selectedStyle.Render(line))
		case i < dashboard.MainPaymentLimit:
			b.WriteString(mainStyle.Render(line))
		default:
			b.WriteString(rowStyle.Render(line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if end < len(pays) {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  还有 %d 项 · j/k 移动", len(pays)-end)))
	}
	return b.String()
}

func paymentDetail(p api.PaymentMethod, total float64, rank int, innerW int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)

	share := 0.0
	if total > 0 {
		share = p.TotalSpent / total
	}
	kind := "其他"
	if rank < dashboard.MainPaymentLimit {
		kind = "常用"
	}

	rows := [][2]string{
		{"排名", fmt.Sprintf("#%d (%s)", rank+1, kind)},
		{"使用次数", cli.FormatCount(p.UsageCount)},
		{"总支出", cli.FormatCurrency(p.TotalSpent)},
		{"平均每笔", cli.FormatCurrency(p.AvgPerTransaction)},
		{"占总支出", cli.FormatPercent(share)},
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(labelStyle.Render(padCells(r[0], 10)))
		b.WriteString(valueStyle.Render(truncateCells(r[1], max(innerW-10, 4))))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(components.ProgressBar(share, max(innerW-6, 10)))
	return b.String()
}
