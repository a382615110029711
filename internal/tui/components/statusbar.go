package components

import (
	"time"

	"github.com/openclaw/qianne/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Status is what the bottom bar reports.
type Status struct {
	User        string
	Error       string
	FetchedAt   time.Time
	Refreshing  bool
	AutoRefresh bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status, now time.Time) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	okStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	left := base.Render(" [?]帮助  [r]刷新  [L]退出登录  [q]退出")
	if s.Error != "" {
		left += base.Render("  ") + errStyle.Render("✗ "+s.Error)
	}

	var right string
	switch {
	case s.Refreshing:
		right = accent.Render("刷新中… ")
	case !s.FetchedAt.IsZero():
		right = okStyle.Render("●") + base.Render(" updated "+humanize.RelTime(s.FetchedAt, now, "ago", "from now")+" ")
	}
	if s.AutoRefresh {
		right = accent.Render("[自动] ") + right
	}
	if s.User != "" {
		right += base.Render(s.User + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	gap := lipgloss.NewStyle().Background(t.Surface).Width(padding).Render("")

	return lipgloss.NewStyle().Background(t.Surface).Width(width).MaxWidth(width).Render(left + gap + right)
}
