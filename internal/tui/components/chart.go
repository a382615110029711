package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/openclaw/qianne/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(blocks[idx]) //nolint:gosec // bounds checked above
	}

	return style.Render(buf.String())
}

// BarChart renders values as vertical bars over a y axis labelled in
// yuan. When there are more values than columns the series is resampled.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	sc := newAxisScale(values, height)
	chartW := max(width-sc.labelW-1, 5)

	values, labels = resample(values, labels, (chartW+1)/3)
	n := len(values)
	gap := 1
	if n == 1 {
		gap = 0
	}
	barW := min(max((chartW-(n-1)*gap)/n, 2), 6)
	axisLen := n*barW + (n-1)*gap

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	partial := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for row := sc.rows; row >= 1; row-- {
		top := sc.ceiling * float64(row) / float64(sc.rows)
		bottom := sc.ceiling * float64(row-1) / float64(sc.rows)

		// Upper rows are drawn brighter.
		barColor := t.Accent
		if pct := float64(row) / float64(sc.rows); pct > 0.8 {
			barColor = t.AccentBright
		} else if pct > 0.5 {
			barColor = color
		}
		bar := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)

		b.WriteString(axis.Render(fmt.Sprintf("%*s│", sc.labelW, sc.tickAt(row))))
		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(" "))
			}
			switch {
			case v >= top:
				b.WriteString(bar.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * float64(len(partial)))
				idx = min(max(idx, 1), len(partial)) - 1
				b.WriteString(bar.Render(strings.Repeat(string(partial[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axis.Render(fmt.Sprintf("%*s└", sc.labelW, "0") + strings.Repeat("─", axisLen)))
	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", sc.labelW+1)))
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render(xAxisLabels(labels, barW+gap, axisLen)))
	}
	return b.String()
}

// axisScale is the y axis of a BarChart: rows terminal rows tall, topped
// at ceiling, with a tick label every rowsPerTick rows.
type axisScale struct {
	step        float64
	ceiling     float64
	rows        int
	rowsPerTick int
	labelW      int
}

func newAxisScale(values []float64, height int) axisScale {
	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	step := niceStep(peak)
	maxTicks := max(height/2, 2)
	for math.Ceil(peak/step) > float64(maxTicks) {
		step *= 2
	}
	ticks := max(int(math.Ceil(peak/step)), 1)
	perTick := max(height/ticks, 2)

	sc := axisScale{
		step:        step,
		ceiling:     float64(ticks) * step,
		rows:        perTick * ticks,
		rowsPerTick: perTick,
	}
	sc.labelW = max(lipgloss.Width(yuanLabel(sc.ceiling))+1, 4)
	return sc
}

// tickAt returns the label for a chart row, or "" between ticks.
func (sc axisScale) tickAt(row int) string {
	if row%sc.rowsPerTick != 0 {
		return ""
	}
	return yuanLabel(sc.step * float64(row/sc.rowsPerTick))
}

// niceStep picks a 1/2/5 x 10^k interval giving roughly five ticks.
func niceStep(peak float64) float64 {
	if peak <= 0 {
		return 1
	}
	rough := peak / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// yuanLabel abbreviates an axis value with Chinese magnitudes.
func yuanLabel(v float64) string {
	trim := func(x float64, unit string) string {
		if x == math.Trunc(x) {
			return fmt.Sprintf("%.0f%s", x, unit)
		}
		return fmt.Sprintf("%.1f%s", x, unit)
	}
	switch {
	case v >= 1e8:
		return trim(v/1e8, "亿")
	case v >= 1e4:
		return trim(v/1e4, "万")
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// resample keeps at most limit evenly spaced points, first and last
// included. Labels are resampled alongside when they match values.
func resample(values []float64, labels []string, limit int) ([]float64, []string) {
	n := len(values)
	limit = max(limit, 2)
	if n <= limit {
		return values, labels
	}
	keepLabels := len(labels) == n
	outV := make([]float64, limit)
	var outL []string
	if keepLabels {
		outL = make([]string, limit)
	}
	for i := range outV {
		src := i * (n - 1) / (limit - 1)
		outV[i] = values[src]
		if keepLabels {
			outL[i] = labels[src]
		}
	}
	return outV, outL
}

// xAxisLabels lays labels under their bars left to right, skipping any
// that would overlap, and always tries to show the last one.
func xAxisLabels(labels []string, pitch, axisLen int) string {
	n := len(labels)
	var row strings.Builder
	col, last := 0, -1
	step := max(1, n*8/(axisLen+1))
	for i := 0; i < n; i += step {
		pos, w := i*pitch, lipgloss.Width(labels[i])
		if pos < col || pos+w > axisLen {
			continue
		}
		row.WriteString(strings.Repeat(" ", pos-col) + labels[i] + " ")
		col, last = pos+w+1, i
	}
	if n > 1 && last != n-1 {
		w := lipgloss.Width(labels[n-1])
		if pos := axisLen - w; pos >= col {
			row.WriteString(strings.Repeat(" ", pos-col) + labels[n-1])
		}
	}
	return strings.TrimRight(row.String(), " ")
}

// HBar is one row of a horizontal bar list.
type HBar struct {
	Label string
	Value float64
	Text  string
}

// HBarList renders labeled horizontal bars scaled to the largest value.
// Labels are padded to a common cell width so CJK names line up.
func HBarList(rows []HBar, color lipgloss.Color, width int) string {
	if len(rows) == 0 {
		return ""
	}
	t := theme.Active

	labelW, textW, peak := 0, 0, 0.0
	for _, r := range rows {
		labelW = max(labelW, lipgloss.Width(r.Label))
		textW = max(textW, lipgloss.Width(r.Text))
		peak = math.Max(peak, r.Value)
	}
	labelW = min(labelW, width/3)
	barMax := max(width-labelW-textW-3, 4)
	if peak <= 0 {
		peak = 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for i, r := range rows {
		label := truncateCells(r.Label, labelW)
		barLen := int(math.Round(r.Value / peak * float64(barMax)))
		barLen = min(max(barLen, 0), barMax)

		b.WriteString(labelStyle.Render(label))
		b.WriteString(space.Render(strings.Repeat(" ", labelW-lipgloss.Width(label)+1)))
		b.WriteString(barStyle.Render(strings.Repeat("█", barLen)))
		b.WriteString(space.Render(strings.Repeat(" ", barMax-barLen+1)))
		b.WriteString(space.Render(strings.Repeat(" ", textW-lipgloss.Width(r.Text))))
		b.WriteString(textStyle.Render(r.Text))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// truncateCells cuts s to at most w terminal cells, ending in "…" when cut.
func truncateCells(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	if w <= 1 {
		return "…"
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
