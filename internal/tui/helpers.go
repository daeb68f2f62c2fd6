package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// formatTime renders a relative timestamp for sidebar rows and transcripts.
func formatTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// formatChatTime formats a message timestamp as a short wall-clock time (H:MM).
// For messages older than today it shows "NdAgo" to save column space.
func formatChatTime(t time.Time) string {
	now := time.Now()
	// Same calendar day.
	y1, mo1, d1 := t.Date()
	y2, mo2, d2 := now.Date()
	if y1 == y2 && mo1 == mo2 && d1 == d2 {
		return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
	}
	days := int(now.Sub(t).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return fmt.Sprintf("%dd ago", days)
}

// cleanPreview strips markdown headers and collapses whitespace from a
// session summary so sidebar rows show meaningful content instead of
// "# Header Name".
func cleanPreview(raw string) string {
	// Replace newlines with spaces first
	s := strings.ReplaceAll(raw, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")

	// Strip leading markdown header markers (# ## ### etc.)
	for strings.HasPrefix(s, "#") {
		s = strings.TrimLeft(s, "#")
		s = strings.TrimLeft(s, " ")
	}

	// Collapse runs of whitespace
	parts := strings.Fields(s)
	s = strings.Join(parts, " ")

	return strings.TrimSpace(s)
}
