// Package util holds small formatting helpers for the status line.
package util

import (
	"fmt"
	"time"
)

// FormatDuration formats a position as m:ss, or h:mm:ss from one hour up.
// Negative durations read as zero.
func FormatDuration(d time.Duration) string {
	total := int(max(d, 0) / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatInterval formats a frame interval in whole milliseconds, switching
// to seconds at one second.
func FormatInterval(d time.Duration) string {
	if d >= time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}
