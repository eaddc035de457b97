package screens

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/storyreel/internal/playback"
	"github.com/angristan/storyreel/internal/tui/messages"
	"github.com/angristan/storyreel/internal/tui/styles"
)

// composeFocus is the focused compose field
type composeFocus int

const (
	focusStory composeFocus = iota
	focusDelay
)

const storyPlaceholder = `Once upon a time, in a land of floating islands, a young sky-pirate named Kael discovered a map to a legendary treasure.

The map led him to a forgotten temple guarded by ancient stone golems.

Inside, instead of gold, he found a glowing crystal that pulsed with the heartbeat of the world.`

// ComposeModel is the story editor screen
type ComposeModel struct {
	story    textarea.Model
	delay    textinput.Model
	spinner  spinner.Model
	focus    composeFocus
	disabled bool
	hasRun   bool

	// Window size
	width  int
	height int
}

// NewComposeModel creates the story editor with the given scene delay
func NewComposeModel(delayMs int) ComposeModel {
	ta := textarea.New()
	ta.Placeholder = storyPlaceholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(int(playback.DefaultDelay.Milliseconds()))
	ti.CharLimit = 7
	ti.Width = 8
	ti.SetValue(strconv.Itoa(delayMs))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StyleSpinner

	return ComposeModel{
		story:   ta,
		delay:   ti,
		spinner: sp,
	}
}

// Init initializes the compose screen
func (m ComposeModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// SetSize sets the terminal size
func (m *ComposeModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	w := width - 6
	if w < 20 {
		w = 20
	}
	h := height - 12
	if h < 3 {
		h = 3
	}
	m.story.SetWidth(w)
	m.story.SetHeight(h)
}

// SetDisabled blocks submission while a run is generating
func (m *ComposeModel) SetDisabled(disabled bool) {
	m.disabled = disabled
}

// SetHasRun enables the "back to player" shortcut
func (m *ComposeModel) SetHasRun(hasRun bool) {
	m.hasRun = hasRun
}

// SetStory replaces the story text
func (m *ComposeModel) SetStory(text string) {
	m.story.SetValue(text)
}

// Story returns the current story text
func (m ComposeModel) Story() string {
	return m.story.Value()
}

// DelayMillis returns the delay field interpreted the way it is submitted
func (m ComposeModel) DelayMillis() int {
	return ParseDelayMillis(m.delay.Value())
}

// Update handles messages
func (m ComposeModel) Update(msg tea.Msg) (ComposeModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			m.toggleFocus()
			return m, nil

		case "ctrl+s":
			if m.disabled {
				return m, nil
			}
			submit := messages.SubmitStoryMsg{
				Text:    m.story.Value(),
				DelayMs: m.DelayMillis(),
			}
			m.delay.SetValue(strconv.Itoa(submit.DelayMs))
			return m, func() tea.Msg { return submit }

		case "esc":
			if m.hasRun {
				return m, func() tea.Msg { return messages.ShowPlayerMsg{} }
			}
			return m, nil
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.disabled {
		return m, nil
	}

	// Route input to the focused field
	var cmd tea.Cmd
	switch m.focus {
	case focusStory:
		m.story, cmd = m.story.Update(msg)
	case focusDelay:
		m.delay, cmd = m.delay.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *ComposeModel) toggleFocus() {
	if m.focus == focusStory {
		m.focus = focusDelay
		m.story.Blur()
		m.delay.Focus()
		return
	}
	m.focus = focusStory
	m.delay.Blur()
	m.story.Focus()
}

// View renders the compose screen
func (m ComposeModel) View() string {
	var b strings.Builder

	b.WriteString(styles.StyleLabel.Render("Your story"))
	b.WriteString(styles.StyleTextMuted.Render("  (separate scenes with a blank line)"))
	b.WriteString("\n")

	storyStyle := styles.StyleInput
	delayStyle := styles.StyleInput
	switch {
	case m.disabled:
		storyStyle = styles.StyleInputDisabled
		delayStyle = styles.StyleInputDisabled
	case m.focus == focusStory:
		storyStyle = styles.StyleInputFocused
	default:
		delayStyle = styles.StyleInputFocused
	}

	b.WriteString(storyStyle.Render(m.story.View()))
	b.WriteString("\n")

	delayLine := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.StyleLabel.Render("Scene delay (ms) "),
		delayStyle.Render(m.delay.View()),
	)
	b.WriteString(delayLine)
	b.WriteString("\n\n")

	if m.disabled {
		b.WriteString(fmt.Sprintf("%s Generating scenes...", m.spinner.View()))
	} else {
		b.WriteString(styles.StylePrimary.Render("ctrl+s") + styles.StyleTextMuted.Render(" generate scenes"))
	}
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m ComposeModel) renderHelp() string {
	keys := []string{
		styles.StyleHelpKey.Render("tab") + " switch field",
		styles.StyleHelpKey.Render("ctrl+s") + " generate",
	}
	if m.hasRun {
		keys = append(keys, styles.StyleHelpKey.Render("esc")+" player")
	}
	keys = append(keys, styles.StyleHelpKey.Render("ctrl+c")+" quit")

	return styles.StyleHelp.Render(strings.Join(keys, "  "))
}

// ParseDelayMillis interprets the delay field: a leading integer is used,
// anything unparsable or zero falls back to the default, and the result is
// never below the minimum delay.
func ParseDelayMillis(s string) int {
	minMs := int(playback.MinDelay.Milliseconds())
	defMs := int(playback.DefaultDelay.Milliseconds())

	n, ok := leadingInt(strings.TrimSpace(s))
	if !ok || n == 0 {
		return defMs
	}
	if n < minMs {
		return minMs
	}
	return n
}

// leadingInt parses an optional sign followed by digits, ignoring the rest
func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
