package tui

import (
	"fmt"
	"strings"

	"signal-desk/internal/dashboard"

	"github.com/charmbracelet/lipgloss"
)

// RenderBar renders a horizontal percentage bar.
func RenderBar(label string, percent, barWidth int, style lipgloss.Style) string {
	if barWidth <= 0 {
		barWidth = 20
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * barWidth / 100
	empty := barWidth - filled

	bar := style.Render(strings.Repeat("█", filled)) + SubtextStyle.Render(strings.Repeat("░", empty))
	return fmt.Sprintf("%-20s %s %d%%", label, bar, percent)
}

// RenderStatus renders one labelled indicator in its tone.
func RenderStatus(label string, st dashboard.Status) string {
	return fmt.Sprintf("%-20s %s", label, ToneStyle(st.Tone).Render(st.Text))
}

// RenderBanner renders a visible alert box, or nothing.
func RenderBanner(title string, b dashboard.Banner, style lipgloss.Style) string {
	if !b.Visible() {
		return ""
	}
	return style.Render(title + ": " + string(b.Message))
}

// FormatHistoryEntry renders a trade as a single line.
func FormatHistoryEntry(e dashboard.HistoryEntry, tag string, selected bool) string {
	cursor := "  "
	if selected {
		cursor = CursorStyle.Render("> ")
	}
	return fmt.Sprintf("%s%-8s %-11s %-6s %3d%%  %s",
		cursor,
		e.Time,
		e.Prediction,
		e.Result,
		e.Confidence,
		ClassStyle(e.Class).Render(tag),
	)
}
