package screens

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/angristan/storyreel/internal/models"
	"github.com/angristan/storyreel/internal/playback"
	"github.com/angristan/storyreel/internal/tui/messages"
)

func TestParseDelayMillis(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"3000", 3000},
		{"1500", 1500},
		{"100", 500},
		{"500", 500},
		{"-5", 500},
		{"0", 3000},
		{"", 3000},
		{"abc", 3000},
		{"  2000  ", 2000},
		{"1200ms", 1200},
	}

	for _, tt := range tests {
		if got := ParseDelayMillis(tt.input); got != tt.want {
			t.Errorf("ParseDelayMillis(%q) = %d, expected %d", tt.input, got, tt.want)
		}
	}
}

func TestComposeSubmit(t *testing.T) {
	m := NewComposeModel(3000)
	m.SetSize(80, 30)
	m.SetStory("A dragon.\n\nA knight.")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("Expected ctrl+s to produce a command")
	}

	msg, ok := cmd().(messages.SubmitStoryMsg)
	if !ok {
		t.Fatalf("Expected SubmitStoryMsg, got %T", cmd())
	}
	if msg.Text != "A dragon.\n\nA knight." {
		t.Errorf("Unexpected story %q", msg.Text)
	}
	if msg.DelayMs != 3000 {
		t.Errorf("Expected delay 3000, got %d", msg.DelayMs)
	}
}

func TestComposeDisabled(t *testing.T) {
	m := NewComposeModel(3000)
	m.SetStory("A dragon.")
	m.SetDisabled(true)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("Expected no submission while disabled")
	}

	if !strings.Contains(m.View(), "Generating scenes") {
		t.Error("Disabled view should show progress")
	}
}

func TestComposeFocusSwitch(t *testing.T) {
	m := NewComposeModel(3000)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusDelay {
		t.Errorf("Expected delay field focused after tab, got %d", m.focus)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusStory {
		t.Errorf("Expected story field focused after second tab, got %d", m.focus)
	}
}

func TestComposeEscReturnsToPlayer(t *testing.T) {
	m := NewComposeModel(3000)

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc}); cmd != nil {
		t.Error("Expected esc to do nothing before the first run")
	}

	m.SetHasRun(true)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("Expected esc to return to the player")
	}
	if _, ok := cmd().(messages.ShowPlayerMsg); !ok {
		t.Errorf("Expected ShowPlayerMsg, got %T", cmd())
	}
}

// fakeControl records calls from the player
type fakeControl struct {
	state playback.State
	calls []string
}

func (f *fakeControl) PlayPause() { f.calls = append(f.calls, "playpause") }
func (f *fakeControl) Next()      { f.calls = append(f.calls, "next") }
func (f *fakeControl) Prev()      { f.calls = append(f.calls, "prev") }

func (f *fakeControl) GoTo(i int) bool {
	f.calls = append(f.calls, "goto")
	f.state.Index = i
	return true
}

func (f *fakeControl) SetDelay(d time.Duration) time.Duration {
	f.calls = append(f.calls, "delay")
	f.state.Delay = d
	return d
}

func (f *fakeControl) State() playback.State { return f.state }

func testScenes() []models.Scene {
	return []models.Scene{
		{ID: "a", Prompt: "A dragon wakes.", Status: models.StatusCompleted},
		{ID: "b", Prompt: "A knight rides.", Status: models.StatusError, Error: "quota exceeded"},
		{ID: "c", Prompt: "They fight.", Status: models.StatusGenerating},
	}
}

func TestPlayerKeyBindings(t *testing.T) {
	tests := []struct {
		key  tea.KeyMsg
		want string
	}{
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, "playpause"},
		{tea.KeyMsg{Type: tea.KeyRight}, "next"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}}, "next"},
		{tea.KeyMsg{Type: tea.KeyLeft}, "prev"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}}, "prev"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}}, "goto"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}}, "delay"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}}, "delay"},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			ctrl := &fakeControl{state: playback.State{Count: 3, Delay: time.Second}}
			m := NewPlayerModel()
			m.SetScenes(testScenes())

			m.Update(tt.key, ctrl)

			if len(ctrl.calls) != 1 || ctrl.calls[0] != tt.want {
				t.Errorf("Expected %s, got %v", tt.want, ctrl.calls)
			}
		})
	}
}

func TestPlayerDelayStep(t *testing.T) {
	ctrl := &fakeControl{state: playback.State{Count: 3, Delay: 3 * time.Second}}
	m := NewPlayerModel()
	m.SetScenes(testScenes())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}}, ctrl)
	if ctrl.state.Delay != 2500*time.Millisecond {
		t.Errorf("Expected 2.5s, got %v", ctrl.state.Delay)
	}
	if m.state.Delay != ctrl.state.Delay {
		t.Error("Expected player to refresh its state after a key")
	}
}

func TestPlayerPickerAndCompose(t *testing.T) {
	ctrl := &fakeControl{state: playback.State{Count: 3}}
	m := NewPlayerModel()
	m.SetScenes(testScenes())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}}, ctrl)
	if cmd == nil {
		t.Fatal("Expected g to open the picker")
	}
	if _, ok := cmd().(messages.ShowPickerMsg); !ok {
		t.Errorf("Expected ShowPickerMsg, got %T", cmd())
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}, ctrl)
	if cmd == nil {
		t.Fatal("Expected n to return to compose")
	}
	if _, ok := cmd().(messages.ShowComposeMsg); !ok {
		t.Errorf("Expected ShowComposeMsg, got %T", cmd())
	}
}

func TestPlayerView(t *testing.T) {
	m := NewPlayerModel()
	m.SetSize(100, 40)

	if !strings.Contains(m.View(), "No scenes yet") {
		t.Error("Expected empty state message")
	}

	m.SetScenes(testScenes())
	m.SetState(playback.State{Index: 1, Count: 3, Delay: 3 * time.Second})

	view := m.View()
	if !strings.Contains(view, "Scene 2/3") {
		t.Error("Expected scene position in view")
	}
	if !strings.Contains(view, "quota exceeded") {
		t.Error("Expected the failed scene's error in view")
	}
	if !strings.Contains(view, "3.0s per scene") {
		t.Error("Expected the delay in view")
	}
}

func TestPickerNavigation(t *testing.T) {
	m := NewPickerModel()
	m.SetSize(80, 24)
	m.SetScenes(testScenes())
	m.Open(1)

	if m.Selected() != 1 {
		t.Fatalf("Expected selection 1, got %d", m.Selected())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.Selected() != 2 {
		t.Errorf("Expected selection clamped at 2, got %d", m.Selected())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Expected enter to pick a scene")
	}
	msg, ok := cmd().(messages.GoToSceneMsg)
	if !ok || msg.Index != 1 {
		t.Errorf("Expected GoToSceneMsg{1}, got %#v", cmd())
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("Expected esc to close the picker")
	}
	if _, ok := cmd().(messages.HidePickerMsg); !ok {
		t.Errorf("Expected HidePickerMsg, got %T", cmd())
	}

	if !strings.Contains(m.View(), "A dragon wakes.") {
		t.Error("Expected prompts listed in the picker")
	}
}
