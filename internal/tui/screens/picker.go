package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/storyreel/internal/models"
	"github.com/angristan/storyreel/internal/tui/components"
	"github.com/angristan/storyreel/internal/tui/messages"
	"github.com/angristan/storyreel/internal/tui/styles"
)

// PickerModel is the scene picker modal
type PickerModel struct {
	scenes   []models.Scene
	selected int

	// Window size
	width  int
	height int
}

// NewPickerModel creates a new scene picker
func NewPickerModel() PickerModel {
	return PickerModel{}
}

// SetSize sets the terminal size
func (m *PickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetScenes sets the scene list, keeping the selection in range
func (m *PickerModel) SetScenes(scenes []models.Scene) {
	m.scenes = scenes
	if m.selected >= len(scenes) {
		m.selected = max(len(scenes)-1, 0)
	}
}

// Open preselects the given scene
func (m *PickerModel) Open(current int) {
	if current >= 0 && current < len(m.scenes) {
		m.selected = current
	}
}

// Selected returns the highlighted index
func (m PickerModel) Selected() int {
	return m.selected
}

// Update handles messages
func (m PickerModel) Update(msg tea.Msg) (PickerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "g", "q":
			return m, func() tea.Msg { return messages.HidePickerMsg{} }

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.scenes)-1 {
				m.selected++
			}

		case "home":
			m.selected = 0

		case "end":
			m.selected = max(len(m.scenes)-1, 0)

		case "enter":
			if m.selected >= 0 && m.selected < len(m.scenes) {
				index := m.selected
				return m, func() tea.Msg {
					return messages.GoToSceneMsg{Index: index}
				}
			}
		}
	}

	return m, nil
}

// View renders the picker modal
func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(styles.StyleModalTitle.Render("Scenes"))
	b.WriteString("\n\n")

	// Responsive width (70% of screen, 40-70 chars)
	modalWidth := m.width * 70 / 100
	if modalWidth < 40 {
		modalWidth = 40
	}
	if modalWidth > 70 {
		modalWidth = 70
	}
	textWidth := modalWidth - 16

	for i, scene := range m.scenes {
		style := styles.StyleListItem
		cursor := "  "
		if i == m.selected {
			style = styles.StyleListItemSelected
			cursor = "> "
		}

		icon := lipgloss.NewStyle().
			Foreground(styles.StatusColor(scene.Status)).
			Render(styles.StatusIcon(scene.Status))
		label := fmt.Sprintf("%2d. %s", i+1, components.Truncate(scene.Prompt, textWidth))

		b.WriteString(cursor + icon + " " + style.Render(label) + "\n")
	}

	if len(m.scenes) == 0 {
		b.WriteString(styles.StyleTextMuted.Render("No scenes available"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.StyleHelp.Render("↑/↓ navigate • enter show • esc close"))

	modal := styles.StyleModal.Width(modalWidth).Render(b.String())

	// Center in screen
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
