package components

import (
	"fmt"
	"strings"

	"github.com/angristan/storyreel/internal/models"
	"github.com/angristan/storyreel/internal/tui/styles"
)

// RenderProgressBar renders one segment per scene, coloured by status,
// followed by a "done/total" counter. Segments are stretched to fill width.
func RenderProgressBar(scenes []models.Scene, width int) string {
	counts := models.CountStatuses(scenes)
	label := fmt.Sprintf(" %d/%d", counts.Done(), counts.Total())

	if len(scenes) == 0 {
		return styles.StyleProgressEmpty.Render(strings.Repeat("─", max(width-len(label), 0))) + label
	}

	barWidth := width - len(label)
	if barWidth < len(scenes) {
		barWidth = len(scenes)
	}

	var b strings.Builder
	for i := 0; i < barWidth; i++ {
		scene := scenes[i*len(scenes)/barWidth]
		switch scene.Status {
		case models.StatusCompleted:
			b.WriteString(styles.StyleProgressDone.Render("█"))
		case models.StatusError:
			b.WriteString(styles.StyleProgressFailed.Render("█"))
		case models.StatusGenerating:
			b.WriteString(styles.StyleProgressActive.Render("▒"))
		default:
			b.WriteString(styles.StyleProgressEmpty.Render("─"))
		}
	}

	b.WriteString(styles.StyleTextMuted.Render(label))
	return b.String()
}
