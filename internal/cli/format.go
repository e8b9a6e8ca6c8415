// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/currency"
)

// Placeholder is shown in place of a metric that has no samples.
const Placeholder = "--"

// FormatNumber adds dot separators to an integer, European style.
// e.g., 1234567 -> "1.234.567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	return currency.GroupThousands(strconv.FormatInt(n, 10), '.')
}

// FormatDuration formats seconds into a human-readable duration.
// e.g., 3725 -> "1h 2m", 125 -> "2m 5s", 45 -> "45s"
func FormatDuration(secs int64) string {
	if secs <= 0 {
		return "0s"
	}

	hours := secs / 3600
	mins := (secs % 3600) / 60
	rem := secs % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	if mins > 0 {
		if rem > 0 {
			return fmt.Sprintf("%dm %ds", mins, rem)
		}
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%ds", secs)
}

// FormatSeconds renders milliseconds as seconds with one decimal, e.g. "1.3s".
func FormatSeconds(ms float64) string {
	return fmt.Sprintf("%.1fs", ms/1000)
}

// FormatHours renders seconds as hours with one decimal, e.g. "12.5h".
func FormatHours(secs float64) string {
	return fmt.Sprintf("%.1fh", secs/3600)
}

// FormatRate formats a 0-100 value with one decimal and no sign, e.g. "25.0".
func FormatRate(pct float64) string {
	return fmt.Sprintf("%.1f", pct)
}

// FormatPercent formats a 0-100 value with one decimal, e.g. "25.0%".
func FormatPercent(pct float64) string {
	return FormatRate(pct) + "%"
}

// FormatWholePercent formats an integer percentage, e.g. "75%".
func FormatWholePercent(pct int) string {
	return strconv.Itoa(pct) + "%"
}
