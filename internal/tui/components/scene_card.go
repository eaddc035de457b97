package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/storyreel/internal/models"
	"github.com/angristan/storyreel/internal/tui/styles"
)

// RenderSceneCard renders a single film strip card
func RenderSceneCard(scene models.Scene, index int, selected bool, width int) string {
	statusStyle := lipgloss.NewStyle().Foreground(styles.StatusColor(scene.Status))
	status := statusStyle.Render(styles.StatusIcon(scene.Status))
	title := styles.StyleSceneTitle.Render(fmt.Sprintf("Scene %d", index+1))

	inner := width - 4 // border + padding
	if inner < 8 {
		inner = 8
	}

	line1 := fmt.Sprintf("%s %s", status, title)

	var line2 string
	if scene.Status == models.StatusError {
		line2 = styles.StyleError.Render(Truncate(scene.Error, inner))
	} else {
		line2 = styles.StyleTextMuted.Render(Truncate(scene.Prompt, inner))
	}

	cardStyle := styles.StyleSceneCard
	if selected {
		cardStyle = styles.StyleSceneCardSelected
	}

	return cardStyle.Width(inner + 2).Render(line1 + "\n" + line2)
}

// RenderFilmStrip renders the cards around the current scene side by side
func RenderFilmStrip(scenes []models.Scene, current, width int) string {
	if len(scenes) == 0 || width <= 0 {
		return ""
	}

	cardWidth := 24
	visible := width / (cardWidth + 1)
	if visible < 1 {
		visible = 1
		cardWidth = width - 1
	}
	if visible > len(scenes) {
		visible = len(scenes)
	}

	// Keep the current scene in view
	start := current - visible/2
	if start < 0 {
		start = 0
	}
	if start+visible > len(scenes) {
		start = len(scenes) - visible
	}

	cards := make([]string, 0, visible)
	for i := start; i < start+visible; i++ {
		cards = append(cards, RenderSceneCard(scenes[i], i, i == current, cardWidth), " ")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// Truncate shortens s to maxLen runes, adding an ellipsis when cut.
// Newlines are folded into spaces.
func Truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if maxLen <= 0 {
		return ""
	}
	if len(r) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return "…"
	}
	return string(r[:maxLen-1]) + "…"
}
