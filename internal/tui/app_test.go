package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/angristan/storyreel/internal/api"
	"github.com/angristan/storyreel/internal/config"
	"github.com/angristan/storyreel/internal/models"
	"github.com/angristan/storyreel/internal/pipeline"
	"github.com/angristan/storyreel/internal/tui/messages"
)

func newDemoModel(t *testing.T) Model {
	t.Helper()

	cfg := config.Default()
	cfg.Backend = config.BackendDemo
	model := NewModel(cfg, &api.DemoGenerator{}, Options{})
	t.Cleanup(func() {
		model.cancel()
		model.ctrl.Stop()
	})

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

// runToCompletion executes the current run and feeds every update back
// into the model, the way the bubbletea runtime would.
func runToCompletion(t *testing.T, m Model) Model {
	t.Helper()

	if m.run == nil {
		t.Fatal("Expected an active run")
	}
	executeRunCmd(m.ctx, m.run, m.updates)()

	for {
		msg := waitForUpdate(m.updates)()
		if msg == nil {
			return m
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
		if _, ok := msg.(messages.RunFinishedMsg); ok {
			return m
		}
	}
}

func TestDemoModeRun(t *testing.T) {
	model := newDemoModel(t)

	if model.screen != ScreenCompose {
		t.Errorf("Expected ScreenCompose, got %d", model.screen)
	}

	updated, _ := model.Update(messages.SubmitStoryMsg{
		Text:    "A knight rides out.\n\nThe bridge collapses [fail].\n\nA feast at dawn.",
		DelayMs: 1000,
	})
	model = updated.(Model)

	if model.screen != ScreenPlayer {
		t.Errorf("Expected ScreenPlayer after submit, got %d", model.screen)
	}
	if !model.loading {
		t.Error("Expected loading while the run executes")
	}
	if len(model.scenes) != 3 {
		t.Fatalf("Expected 3 scenes, got %d", len(model.scenes))
	}
	for i, s := range model.scenes {
		if s.Status != models.StatusPending {
			t.Errorf("Scene %d: expected pending, got %s", i, s.Status)
		}
	}
	if d := model.ctrl.State().Delay.Milliseconds(); d != 1000 {
		t.Errorf("Expected delay 1000ms, got %d", d)
	}

	model = runToCompletion(t, model)

	if model.loading {
		t.Error("Expected loading to end after RunFinishedMsg")
	}

	want := []models.Status{models.StatusCompleted, models.StatusError, models.StatusCompleted}
	for i, s := range model.scenes {
		if s.Status != want[i] {
			t.Errorf("Scene %d: expected %s, got %s", i, want[i], s.Status)
		}
	}

	if model.banner != pipeline.PartialFailureWarning {
		t.Errorf("Expected partial failure warning, got %q", model.banner)
	}
	if model.bannerIsError {
		t.Error("Partial failure should be a warning, not an error")
	}

	view := model.View()
	if !strings.Contains(view, "Scene 1/3") {
		t.Error("View should show the current scene position")
	}
	if !strings.Contains(view, "Some images could not be generated") {
		t.Error("View should show the warning banner")
	}
}

func TestSubmitWithoutGenerator(t *testing.T) {
	cfg := config.Default()
	model := NewModel(cfg, nil, Options{})
	t.Cleanup(model.cancel)

	updated, _ := model.Update(messages.SubmitStoryMsg{Text: "A story."})
	model = updated.(Model)

	if model.screen != ScreenCompose {
		t.Errorf("Expected to stay on compose, got %d", model.screen)
	}
	if !model.bannerIsError || !strings.Contains(model.banner, "not configured") {
		t.Errorf("Expected not configured banner, got %q", model.banner)
	}
	if len(model.scenes) != 0 {
		t.Error("Expected no scenes")
	}
	if !strings.Contains(model.View(), "Not configured") {
		t.Error("Header should report the missing backend")
	}
}

func TestSubmitEmptyStory(t *testing.T) {
	model := newDemoModel(t)

	updated, _ := model.Update(messages.SubmitStoryMsg{Text: "  \n\n  "})
	model = updated.(Model)

	if model.banner != "Please provide some text to generate scenes" {
		t.Errorf("Unexpected banner %q", model.banner)
	}
	if model.screen != ScreenCompose {
		t.Errorf("Expected to stay on compose, got %d", model.screen)
	}
}

func TestSubmitEmptyStoryClearsPreviousRun(t *testing.T) {
	model := newDemoModel(t)

	updated, _ := model.Update(messages.SubmitStoryMsg{Text: "one\n\ntwo"})
	model = runToCompletion(t, updated.(Model))
	model.ctrl.GoTo(1)
	model.ctrl.PlayPause()

	updated, _ = model.Update(messages.SubmitStoryMsg{Text: "   "})
	model = updated.(Model)

	if len(model.scenes) != 0 {
		t.Errorf("Expected scenes to be cleared, got %d", len(model.scenes))
	}
	state := model.ctrl.State()
	if state.Count != 0 || state.Index != 0 || state.Playing {
		t.Errorf("Expected stopped playback at index 0, got %+v", state)
	}
	if model.runID != "" {
		t.Errorf("Expected no active run, got %s", model.runID)
	}
}

func TestStaleUpdatesIgnored(t *testing.T) {
	model := newDemoModel(t)

	updated, _ := model.Update(messages.SubmitStoryMsg{Text: "one\n\ntwo"})
	model = updated.(Model)

	stale := models.Scene{ID: "old", Status: models.StatusCompleted}
	updated, cmd := model.Update(messages.SceneUpdatedMsg{RunID: "previous-run", Index: 0, Scene: stale})
	model = updated.(Model)

	if cmd != nil {
		t.Error("Stale updates should not schedule further work")
	}
	if model.scenes[0].ID == "old" {
		t.Error("Stale update should not replace the scene")
	}

	updated, _ = model.Update(messages.RunFinishedMsg{RunID: "previous-run"})
	model = updated.(Model)
	if !model.loading {
		t.Error("Stale RunFinishedMsg should not end loading")
	}
}

func TestSecondSubmitRefusedWhileLoading(t *testing.T) {
	model := newDemoModel(t)

	updated, _ := model.Update(messages.SubmitStoryMsg{Text: "one\n\ntwo"})
	model = updated.(Model)
	firstRun := model.runID

	updated, _ = model.Update(messages.SubmitStoryMsg{Text: "three"})
	model = updated.(Model)

	if model.runID != firstRun {
		t.Error("Expected the running submission to be kept")
	}
	if !strings.Contains(model.banner, "already in progress") {
		t.Errorf("Expected run in progress banner, got %q", model.banner)
	}
}

func TestPlayerKeys(t *testing.T) {
	model := newDemoModel(t)

	updated, _ := model.Update(messages.SubmitStoryMsg{Text: "one\n\ntwo\n\nthree"})
	model = updated.(Model)
	model = runToCompletion(t, model)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRight})
	model = updated.(Model)
	if got := model.ctrl.State().Index; got != 1 {
		t.Errorf("Expected index 1 after right, got %d", got)
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	model = updated.(Model)
	if got := model.ctrl.State().Index; got != 2 {
		t.Errorf("Expected index 2 after '3', got %d", got)
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeySpace})
	model = updated.(Model)
	if !model.ctrl.State().Playing {
		t.Error("Expected space to start playback")
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyLeft})
	model = updated.(Model)
	s := model.ctrl.State()
	if s.Index != 1 || s.Playing {
		t.Errorf("Expected paused at index 1 after left, got %+v", s)
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	model = updated.(Model)
	if d := model.ctrl.State().Delay.Milliseconds(); d != 3500 {
		t.Errorf("Expected delay 3500ms after '+', got %d", d)
	}
}

func TestPickerFlow(t *testing.T) {
	model := newDemoModel(t)

	updated, _ := model.Update(messages.SubmitStoryMsg{Text: "one\n\ntwo\n\nthree"})
	model = updated.(Model)

	updated, _ = model.Update(messages.ShowPickerMsg{})
	model = updated.(Model)
	if model.screen != ScreenPicker {
		t.Fatalf("Expected ScreenPicker, got %d", model.screen)
	}

	updated, _ = model.Update(messages.GoToSceneMsg{Index: 2})
	model = updated.(Model)
	if model.screen != ScreenPlayer {
		t.Errorf("Expected ScreenPlayer after picking, got %d", model.screen)
	}
	if got := model.ctrl.State().Index; got != 2 {
		t.Errorf("Expected index 2, got %d", got)
	}
}

func TestPlaybackChangedMsg(t *testing.T) {
	model := newDemoModel(t)

	updated, _ := model.Update(messages.SubmitStoryMsg{Text: "one\n\ntwo"})
	model = updated.(Model)

	// Reset during submit published a state through the callback
	msg := waitForPlayback(model.playbackCh)()
	changed, ok := msg.(messages.PlaybackChangedMsg)
	if !ok {
		t.Fatalf("Expected PlaybackChangedMsg, got %T", msg)
	}
	if changed.State.Count != 2 {
		t.Errorf("Expected count 2, got %d", changed.State.Count)
	}

	_, cmd := model.Update(changed)
	if cmd == nil {
		t.Error("Expected to keep waiting for playback changes")
	}
}

func TestBannerText(t *testing.T) {
	got := bannerText(config.ErrNotConfigured)
	if !strings.HasPrefix(got, "Image generator is not configured") {
		t.Errorf("Expected capitalised message, got %q", got)
	}
	if !strings.Contains(got, "--demo") {
		t.Errorf("Expected demo hint, got %q", got)
	}
	if bannerText(nil) != "" {
		t.Error("Expected empty banner for nil error")
	}
}
