package messages

import (
	"github.com/angristan/storyreel/internal/models"
	"github.com/angristan/storyreel/internal/pipeline"
	"github.com/angristan/storyreel/internal/playback"
)

// SubmitStoryMsg requests a new generation run
type SubmitStoryMsg struct {
	Text    string
	DelayMs int
}

// SceneUpdatedMsg carries one scene transition of a run
type SceneUpdatedMsg struct {
	RunID string
	Index int
	Scene models.Scene
}

// RunFinishedMsg indicates every scene of a run is terminal
type RunFinishedMsg struct {
	RunID   string
	Summary pipeline.Summary
}

// PlaybackChangedMsg carries the latest playback state
type PlaybackChangedMsg struct {
	State playback.State
}

// ErrorMsg indicates an error occurred
type ErrorMsg struct {
	Err error
}

// ShowPickerMsg requests showing the scene picker modal
type ShowPickerMsg struct{}

// HidePickerMsg requests hiding the scene picker modal
type HidePickerMsg struct{}

// GoToSceneMsg jumps playback to a scene
type GoToSceneMsg struct {
	Index int
}

// ShowComposeMsg returns to the story editor
type ShowComposeMsg struct{}

// ShowPlayerMsg returns to the slideshow
type ShowPlayerMsg struct{}
