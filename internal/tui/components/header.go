package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/storyreel/internal/tui/styles"
)

// RenderHeader renders the application header with a right-aligned status
func RenderHeader(width int, status string, statusColor lipgloss.Color) string {
	left := styles.StyleHeaderTitle.Render(" StoryReel ")

	if statusColor == "" {
		statusColor = styles.ColorTextMuted
	}
	right := lipgloss.NewStyle().
		Foreground(statusColor).
		Padding(0, 1).
		Render(status)

	spacing := width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 0 {
		spacing = 0
	}

	headerBg := lipgloss.NewStyle().
		Background(styles.ColorSurface).
		Width(width)

	return headerBg.Render(left + strings.Repeat(" ", spacing) + right)
}

// RenderBanner renders a full-width error or warning line.
// Returns "" when text is empty.
func RenderBanner(width int, text string, isError bool) string {
	if text == "" {
		return ""
	}

	style := styles.StyleBannerWarning
	icon := "⚠ "
	if isError {
		style = styles.StyleBannerError
		icon = "✗ "
	}
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(icon + text)
}
