package display

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatBytes returns a human-readable IEC size ("1.5 KiB", "700 MiB").
// Negative values keep their sign.
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatCount returns n with thousands separators ("12,500").
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatPercent returns part/total as a percentage with one decimal, or
// "-" when total is zero.
func FormatPercent(part, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}
