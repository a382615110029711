package components

import (
	"strings"

	"github.com/openclaw/qianne/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// tabStyles returns the active and inactive tab styles. Both pad one cell
// on each side.
func tabStyles() (active, inactive, key lipgloss.Style) {
	t := theme.Active
	active = lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)
	inactive = lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Padding(0, 1)
	key = lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)
	return active, inactive, key
}

// tabLabel is the text inside the tab padding. Inactive tabs show their
// shortcut key.
func tabLabel(tab Tab, active bool) (prefix, name string) {
	if active {
		return "", tab.Name
	}
	return string(tab.Key) + " ", tab.Name
}

// TabVisualWidth returns the rendered width of a tab, in cells.
func TabVisualWidth(tab Tab, active bool) int {
	prefix, name := tabLabel(tab, active)
	return lipgloss.Width(prefix) + lipgloss.Width(name) + 2
}

// RenderTabBar renders tabs on one line, separated by a single cell.
func RenderTabBar(tabs []Tab, activeIdx int, width int) string {
	t := theme.Active
	activeStyle, inactiveStyle, keyStyle := tabStyles()
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	parts := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		prefix, name := tabLabel(tab, i == activeIdx)
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(name))
			continue
		}
		// Padding is split so the key keeps its own color.
		left := lipgloss.NewStyle().Background(t.Surface).Render(" ")
		parts = append(parts, left+keyStyle.Render(prefix)+inactiveStyle.PaddingLeft(0).Render(name))
	}

	bar := strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(bar)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(tabs []Tab, key rune) int {
	for i, tab := range tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
