// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "¥"

var printer = message.NewPrinter(language.MustParse("zh-CN"))

// FormatNumber renders v with zh-CN digit grouping and exactly decimals
// fraction digits, rounding halves away from zero. Large values are never
// abbreviated.
// e.g., FormatNumber(1234567.891, 2) -> "1,234,567.89"
func FormatNumber(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	if decimals < 0 {
		decimals = 0
	}
	// number.Decimal rounds half to even.
	p := math.Pow10(decimals)
	if r := math.Round(v*p) / p; !math.IsInf(r, 0) {
		v = r
	}
	return printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(decimals),
		number.MaxFractionDigits(decimals),
	))
}

// FormatCount renders an integer count with grouping.
func FormatCount(n int64) string {
	return FormatNumber(float64(n), 0)
}

// FormatAmount renders a money value with two decimals.
func FormatAmount(v float64) string {
	return FormatNumber(v, 2)
}

// FormatCurrency renders a money value with the currency symbol in front
// of any sign: -5 -> "¥-5.00".
func FormatCurrency(v float64) string {
	return CurrencySymbol + FormatAmount(v)
}

// FormatDelta formats the change from previous to current with a sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatCurrency(delta)
	}
	return FormatCurrency(delta)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDuration formats seconds into a human-readable duration.
// e.g., 3725 -> "1h 2m", 125 -> "2m", 45 -> "45s"
func FormatDuration(secs int64) string {
	if secs <= 0 {
		return "0s"
	}

	hours := secs / 3600
	mins := (secs % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	if mins > 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%ds", secs)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses the date formats the API emits.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders an ISO date as a long-form zh-CN date.
// e.g., "2024-03-05" -> "2024年3月5日". Unparseable input is returned as is.
func FormatDate(iso string) string {
	t, ok := ParseDate(iso)
	if !ok {
		return iso
	}
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

// FormatShortDate renders "3月5日", for chart axes.
func FormatShortDate(iso string) string {
	t, ok := ParseDate(iso)
	if !ok {
		return iso
	}
	return fmt.Sprintf("%d月%d日", int(t.Month()), t.Day())
}

// FormatMonth renders "YYYY-MM" as "{year}年{month}月".
// e.g., "2024-03" -> "2024年3月"
func FormatMonth(ym string) string {
	year, month, ok := strings.Cut(strings.TrimSpace(ym), "-")
	if !ok {
		return ym
	}
	return FormatYearMonth(year, month)
}

// FormatYearMonth is FormatMonth for separate year and month fields.
func FormatYearMonth(year, month string) string {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return year + "-" + month
	}
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil || m < 1 || m > 12 {
		return year + "-" + month
	}
	return fmt.Sprintf("%d年%d月", y, m)
}

// FormatDayOfWeek returns the zh-CN short weekday name.
func FormatDayOfWeek(weekday time.Weekday) string {
	days := []string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}
	if weekday >= 0 && int(weekday) < len(days) {
		return days[weekday]
	}
	return "???"
}
