package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/storyreel/internal/api"
	"github.com/angristan/storyreel/internal/config"
	"github.com/angristan/storyreel/internal/models"
	"github.com/angristan/storyreel/internal/pipeline"
	"github.com/angristan/storyreel/internal/playback"
	"github.com/angristan/storyreel/internal/tui/components"
	"github.com/angristan/storyreel/internal/tui/messages"
	"github.com/angristan/storyreel/internal/tui/screens"
	"github.com/angristan/storyreel/internal/tui/styles"
)

// Screen represents the current screen state
type Screen int

const (
	ScreenCompose Screen = iota
	ScreenPlayer
	ScreenPicker
)

// Options tune the application model
type Options struct {
	// Story to prefill and submit on start
	Story  string
	Logger *slog.Logger
	// Shown as a banner on start, e.g. a missing credential
	StartupErr error
}

// Model is the main application model
type Model struct {
	// Configuration
	config *config.Config
	logger *slog.Logger

	// Generation and playback
	pipe *pipeline.Pipeline
	ctrl *playback.Controller

	// Current run
	run     *pipeline.Run
	runID   string
	updates chan pipeline.Update
	scenes  []models.Scene
	loading bool

	// Latest playback state, fed by the controller callback
	playbackCh chan playback.State

	// Global banner
	banner        string
	bannerIsError bool

	// Story submitted on Init
	initialStory string

	// Current screen
	screen Screen

	// Screen models
	compose screens.ComposeModel
	player  screens.PlayerModel
	picker  screens.PickerModel

	// Window size
	width  int
	height int

	// Context for cancellation
	ctx    context.Context
	cancel context.CancelFunc
}

// NewModel creates a new application model. gen may be nil when no backend
// is configured; submissions then fail with config.ErrNotConfigured.
func NewModel(cfg *config.Config, gen api.ImageGenerator, opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	playbackCh := make(chan playback.State, 1)
	ctrl := playback.New(
		playback.WithDelay(cfg.SceneDelay()),
		playback.WithOnChange(func(s playback.State) {
			sendLatest(playbackCh, s)
		}),
	)

	pipe := pipeline.New(gen, pipeline.Options{
		MaxScenes:   cfg.MaxScenes,
		StyleSuffix: cfg.StyleSuffix,
		MinInterval: cfg.MinRequestInterval,
		Logger:      logger,
	})

	m := Model{
		config:       cfg,
		logger:       logger,
		pipe:         pipe,
		ctrl:         ctrl,
		playbackCh:   playbackCh,
		initialStory: opts.Story,
		screen:       ScreenCompose,
		compose:      screens.NewComposeModel(int(ctrl.State().Delay.Milliseconds())),
		player:       screens.NewPlayerModel(),
		picker:       screens.NewPickerModel(),
		ctx:          ctx,
		cancel:       cancel,
	}

	if opts.Story != "" {
		m.compose.SetStory(opts.Story)
	}
	if opts.StartupErr != nil {
		m.setBanner(opts.StartupErr, true)
	}

	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("StoryReel"),
		m.compose.Init(),
		m.player.Init(),
		waitForPlayback(m.playbackCh),
	}

	if strings.TrimSpace(m.initialStory) != "" {
		submit := messages.SubmitStoryMsg{
			Text:    m.initialStory,
			DelayMs: m.compose.DelayMillis(),
		}
		cmds = append(cmds, func() tea.Msg { return submit })
	}

	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeScreens()

	case tea.KeyMsg:
		// Global key handlers
		switch msg.String() {
		case "ctrl+c":
			return m, m.quit()
		case "q":
			if m.screen == ScreenPlayer {
				return m, m.quit()
			}
		}

	case messages.SubmitStoryMsg:
		return m.submit(msg)

	case messages.SceneUpdatedMsg:
		if msg.RunID != m.runID || msg.Index < 0 || msg.Index >= len(m.scenes) {
			m.logger.Debug("ignoring stale scene update", "run_id", msg.RunID, "scene", msg.Index)
			return m, nil
		}
		m.scenes = slices.Clone(m.scenes)
		m.scenes[msg.Index] = msg.Scene
		m.player.SetScenes(m.scenes)
		m.picker.SetScenes(m.scenes)
		return m, waitForUpdate(m.updates)

	case messages.RunFinishedMsg:
		if msg.RunID != m.runID {
			return m, nil
		}
		m.loading = false
		m.player.SetLoading(false)
		m.compose.SetDisabled(false)
		if w := msg.Summary.Warning(); w != "" {
			m.banner = w
			m.bannerIsError = false
		}
		m.resizeScreens()
		return m, nil

	case messages.PlaybackChangedMsg:
		m.player.SetState(msg.State)
		return m, waitForPlayback(m.playbackCh)

	case messages.ErrorMsg:
		m.setBanner(msg.Err, true)
		m.resizeScreens()
		return m, nil

	case messages.ShowPickerMsg:
		m.picker.SetScenes(m.scenes)
		m.picker.Open(m.ctrl.State().Index)
		m.screen = ScreenPicker
		return m, nil

	case messages.HidePickerMsg:
		m.screen = ScreenPlayer
		return m, nil

	case messages.GoToSceneMsg:
		m.ctrl.GoTo(msg.Index)
		m.player.SetState(m.ctrl.State())
		m.screen = ScreenPlayer
		return m, nil

	case messages.ShowComposeMsg:
		m.screen = ScreenCompose
		return m, nil

	case messages.ShowPlayerMsg:
		if len(m.scenes) > 0 {
			m.screen = ScreenPlayer
		}
		return m, nil

	case spinner.TickMsg:
		// Both screens own a spinner; keep both ticking
		var cmd tea.Cmd
		m.compose, cmd = m.compose.Update(msg)
		cmds = append(cmds, cmd)
		m.player, cmd = m.player.Update(msg, m.ctrl)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// Route to current screen
	switch m.screen {
	case ScreenCompose:
		var cmd tea.Cmd
		m.compose, cmd = m.compose.Update(msg)
		cmds = append(cmds, cmd)

	case ScreenPlayer:
		var cmd tea.Cmd
		m.player, cmd = m.player.Update(msg, m.ctrl)
		cmds = append(cmds, cmd)

	case ScreenPicker:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the current screen
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if banner := components.RenderBanner(m.width, m.banner, m.bannerIsError); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}

	switch m.screen {
	case ScreenCompose:
		b.WriteString(m.compose.View())
	case ScreenPlayer:
		b.WriteString(m.player.View())
	case ScreenPicker:
		b.WriteString(m.picker.View())
	default:
		b.WriteString("Unknown screen")
	}

	return b.String()
}

func (m Model) renderHeader() string {
	counts := models.CountStatuses(m.scenes)

	var status string
	var color lipgloss.Color
	switch {
	case m.loading:
		status = fmt.Sprintf("⟳ Generating %d/%d", counts.Done(), counts.Total())
		color = styles.ColorWarning
	case m.pipe.Generator() == nil:
		status = "✗ Not configured"
		color = styles.ColorError
	case len(m.scenes) > 0:
		status = fmt.Sprintf("● %d scenes • %s", len(m.scenes), m.pipe.Generator().Name())
		color = styles.ColorSuccess
	default:
		status = "● " + m.pipe.Generator().Name()
		color = styles.ColorSuccess
	}

	return components.RenderHeader(m.width, status, color)
}

// clearScenes drops the previous run's scenes and stops playback
func (m *Model) clearScenes() {
	m.run = nil
	m.runID = ""
	m.scenes = nil
	m.ctrl.Reset(0)
	m.compose.SetHasRun(false)
	m.player.ResetImages()
	m.player.SetScenes(nil)
	m.player.SetState(m.ctrl.State())
	m.picker.SetScenes(nil)
}

// submit starts a new run from the compose screen
func (m Model) submit(msg messages.SubmitStoryMsg) (Model, tea.Cmd) {
	if msg.DelayMs > 0 {
		m.ctrl.SetDelayMillis(msg.DelayMs)
	}

	run, err := m.pipe.Submit(msg.Text)
	if err != nil {
		m.logger.Info("submission refused", "error", err)
		if errors.Is(err, pipeline.ErrEmptyInput) {
			m.clearScenes()
		}
		m.setBanner(err, true)
		m.resizeScreens()
		return m, nil
	}

	m.banner = ""
	m.run = run
	m.runID = run.ID()
	m.scenes = run.Scenes()
	// Room for every notification of the run so Execute never blocks
	m.updates = make(chan pipeline.Update, 2*run.Len()+1)
	m.loading = true

	m.ctrl.Reset(len(m.scenes))

	m.compose.SetDisabled(true)
	m.compose.SetHasRun(true)
	m.player.ResetImages()
	m.player.SetScenes(m.scenes)
	m.player.SetLoading(true)
	m.player.SetState(m.ctrl.State())
	m.picker.SetScenes(m.scenes)
	m.screen = ScreenPlayer
	m.resizeScreens()

	return m, tea.Batch(
		executeRunCmd(m.ctx, run, m.updates),
		waitForUpdate(m.updates),
	)
}

func (m Model) quit() tea.Cmd {
	m.cancel()
	m.ctrl.Stop()
	return tea.Quit
}

func (m *Model) setBanner(err error, isError bool) {
	m.banner = bannerText(err)
	m.bannerIsError = isError
}

// resizeScreens gives each screen the space below header and banner
func (m *Model) resizeScreens() {
	bodyHeight := m.height - 1
	if m.banner != "" {
		bodyHeight--
	}
	m.compose.SetSize(m.width, bodyHeight)
	m.player.SetSize(m.width, bodyHeight)
	m.picker.SetSize(m.width, bodyHeight)
}

// Commands

// executeRunCmd generates every scene of the run, forwarding updates to ch
func executeRunCmd(ctx context.Context, run *pipeline.Run, ch chan<- pipeline.Update) tea.Cmd {
	return func() tea.Msg {
		defer close(ch)
		run.Execute(ctx, func(u pipeline.Update) {
			ch <- u
		})
		return nil
	}
}

// waitForUpdate turns the next pipeline update into a message
func waitForUpdate(ch <-chan pipeline.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		if u.Done {
			return messages.RunFinishedMsg{RunID: u.RunID, Summary: u.Summary}
		}
		return messages.SceneUpdatedMsg{RunID: u.RunID, Index: u.Index, Scene: u.Scene}
	}
}

// waitForPlayback turns the next controller change into a message
func waitForPlayback(ch <-chan playback.State) tea.Cmd {
	return func() tea.Msg {
		return messages.PlaybackChangedMsg{State: <-ch}
	}
}

// sendLatest replaces any unread state so the UI always sees the newest one
func sendLatest(ch chan playback.State, s playback.State) {
	for {
		select {
		case ch <- s:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// bannerText turns an error into a sentence for display
func bannerText(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	if errors.Is(err, config.ErrNotConfigured) {
		msg += " (or run with --demo)"
	}

	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}
