package screens

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/storyreel/internal/models"
	"github.com/angristan/storyreel/internal/playback"
	"github.com/angristan/storyreel/internal/tui/components"
	"github.com/angristan/storyreel/internal/tui/messages"
	"github.com/angristan/storyreel/internal/tui/styles"
)

// delayStep is the change applied by the +/- keys
const delayStep = 500 * time.Millisecond

// PlaybackControl is the part of the playback controller the player drives
type PlaybackControl interface {
	PlayPause()
	Next()
	Prev()
	GoTo(i int) bool
	SetDelay(d time.Duration) time.Duration
	State() playback.State
}

// PlayerModel is the slideshow screen
type PlayerModel struct {
	scenes  []models.Scene
	state   playback.State
	loading bool
	spinner spinner.Model
	images  *components.ImageCache

	// Window size
	width  int
	height int
}

// NewPlayerModel creates the slideshow screen
func NewPlayerModel() PlayerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StyleSpinner

	return PlayerModel{
		spinner: sp,
		images:  components.NewImageCache(),
	}
}

// Init initializes the player screen
func (m PlayerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetSize sets the terminal size
func (m *PlayerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetScenes replaces the scene list
func (m *PlayerModel) SetScenes(scenes []models.Scene) {
	m.scenes = scenes
}

// SetState sets the playback state to display
func (m *PlayerModel) SetState(s playback.State) {
	m.state = s
}

// SetLoading sets whether a run is still generating
func (m *PlayerModel) SetLoading(loading bool) {
	m.loading = loading
}

// ResetImages drops cached renderings, used when a new run starts
func (m *PlayerModel) ResetImages() {
	m.images.Clear()
}

// Current returns the scene being shown, if any
func (m PlayerModel) Current() (models.Scene, bool) {
	if len(m.scenes) == 0 || m.state.Index < 0 || m.state.Index >= len(m.scenes) {
		return models.Scene{}, false
	}
	return m.scenes[m.state.Index], true
}

// Update handles messages
func (m PlayerModel) Update(msg tea.Msg, ctrl PlaybackControl) (PlayerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if ctrl == nil {
			return m, nil
		}

		switch key := msg.String(); key {
		case " ", "space", "p":
			ctrl.PlayPause()

		case "right", "l":
			ctrl.Next()

		case "left", "h":
			ctrl.Prev()

		case "+", "=":
			ctrl.SetDelay(ctrl.State().Delay + delayStep)

		case "-", "_":
			ctrl.SetDelay(ctrl.State().Delay - delayStep)

		case "g":
			if len(m.scenes) > 0 {
				return m, func() tea.Msg { return messages.ShowPickerMsg{} }
			}

		case "n", "e":
			return m, func() tea.Msg { return messages.ShowComposeMsg{} }

		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			ctrl.GoTo(int(key[0] - '1'))

		case "0":
			ctrl.GoTo(9)

		default:
			return m, nil
		}

		m.state = ctrl.State()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the player screen
func (m PlayerModel) View() string {
	if len(m.scenes) == 0 {
		return styles.StyleTextMuted.Render("No scenes yet. Press n to write a story.")
	}

	var b strings.Builder

	scene, _ := m.Current()

	// Reserved lines: caption(2) + controls(1) + progress(1) + strip(4) + help(1) + spacing(2)
	imageRows := m.height - 11
	if imageRows < 3 {
		imageRows = 3
	}
	imageCols := m.width - 2
	if imageCols < 10 {
		imageCols = 10
	}

	b.WriteString(m.renderStage(scene, imageCols, imageRows))
	b.WriteString("\n")
	b.WriteString(m.renderCaption(scene))
	b.WriteString("\n")
	b.WriteString(m.renderControls())
	b.WriteString("\n")
	b.WriteString(components.RenderProgressBar(m.scenes, m.width))
	b.WriteString("\n")
	b.WriteString(components.RenderFilmStrip(m.scenes, m.state.Index, m.width))
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

// renderStage draws the image area for the current scene
func (m PlayerModel) renderStage(scene models.Scene, cols, rows int) string {
	var content string

	switch scene.Status {
	case models.StatusCompleted:
		img, err := m.images.Render(scene, cols, rows)
		if err != nil {
			content = styles.StyleError.Render("Cannot display image: " + err.Error())
		} else {
			content = img
		}

	case models.StatusGenerating:
		content = fmt.Sprintf("%s Generating image...", m.spinner.View())

	case models.StatusError:
		content = styles.StyleError.Render("✗ " + scene.Error)

	default:
		content = styles.StyleTextMuted.Render("Waiting for generation...")
	}

	return lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center, content)
}

func (m PlayerModel) renderCaption(scene models.Scene) string {
	badge := lipgloss.NewStyle().
		Foreground(styles.StatusColor(scene.Status)).
		Render(styles.StatusIcon(scene.Status) + " " + scene.Status.String())

	title := styles.StyleSceneTitle.Render(fmt.Sprintf("Scene %d/%d", m.state.Index+1, len(m.scenes)))

	captionWidth := m.width
	if captionWidth < 20 {
		captionWidth = 20
	}
	caption := styles.StyleCaption.Render(components.Truncate(scene.Prompt, captionWidth))

	return title + "  " + badge + "\n" + caption
}

func (m PlayerModel) renderControls() string {
	var status string
	if m.state.Playing {
		status = styles.StyleSuccess.Render("▶ Playing")
	} else {
		status = styles.StyleTextMuted.Render("⏸ Paused")
	}

	delay := styles.StyleTextMuted.Render(fmt.Sprintf(" • %.1fs per scene", m.state.Delay.Seconds()))

	gen := ""
	if m.loading {
		counts := models.CountStatuses(m.scenes)
		gen = fmt.Sprintf("  %s generating %d/%d", m.spinner.View(), counts.Done(), counts.Total())
	}

	return status + delay + gen
}

func (m PlayerModel) renderHelp() string {
	keys := []string{
		styles.StyleHelpKey.Render("space") + " play/pause",
		styles.StyleHelpKey.Render("←→") + " prev/next",
		styles.StyleHelpKey.Render("1-9") + " scene",
		styles.StyleHelpKey.Render("g") + " go to",
		styles.StyleHelpKey.Render("+/-") + " delay",
		styles.StyleHelpKey.Render("n") + " new story",
		styles.StyleHelpKey.Render("q") + " quit",
	}

	// For narrow terminals, show fewer keys
	if m.width < 70 {
		keys = []string{
			styles.StyleHelpKey.Render("space") + " play",
			styles.StyleHelpKey.Render("←→") + " nav",
			styles.StyleHelpKey.Render("q") + " quit",
		}
	}

	return styles.StyleHelp.Render(strings.Join(keys, "  "))
}
