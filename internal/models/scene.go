package models

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

// Status is the generation state of a scene
type Status string

const (
	StatusPending    Status = "pending"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// ErrInvalidTransition is returned when a scene is moved out of order
var ErrInvalidTransition = errors.New("invalid scene status transition")

// IsTerminal reports whether no further transitions are allowed
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

func (s Status) String() string {
	return string(s)
}

// Image is a generated still image
type Image struct {
	// Raw encoded bytes (PNG or JPEG)
	Data []byte
	// MIME type reported by the generator, e.g. "image/png"
	MIMEType string
}

// DataURL returns the image as a data: URL
func (i *Image) DataURL() string {
	mime := i.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(i.Data))
}

// Scene represents one paragraph of a story and its generated image
type Scene struct {
	// Unique identifier, stable for the scene's lifetime
	ID string
	// Paragraph text as entered by the user
	Prompt string
	// Prompt plus style suffix, sent verbatim to the generator
	FullPrompt string
	// data: URL of the generated image (set only when completed)
	ImageURL string
	// Decoded image backing ImageURL (set only when completed)
	Image *Image
	// Current generation state
	Status Status
	// Failure description (set only on error)
	Error string
}

// NewScenes creates one pending scene per prompt, in order
func NewScenes(prompts []string, suffix string, now time.Time) []*Scene {
	scenes := make([]*Scene, len(prompts))
	stamp := now.UnixMilli()
	for i, prompt := range prompts {
		full := prompt
		if suffix != "" {
			full = prompt + " " + suffix
		}
		scenes[i] = &Scene{
			ID:         fmt.Sprintf("scene-%d-%d", i, stamp),
			Prompt:     prompt,
			FullPrompt: full,
			Status:     StatusPending,
		}
	}
	return scenes
}

// MarkGenerating moves a pending scene to generating
func (s *Scene) MarkGenerating() error {
	if s.Status != StatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, StatusGenerating)
	}
	s.Status = StatusGenerating
	return nil
}

// MarkCompleted attaches the image to a generating scene
func (s *Scene) MarkCompleted(img *Image) error {
	if s.Status != StatusGenerating {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, StatusCompleted)
	}
	if img == nil || len(img.Data) == 0 {
		return fmt.Errorf("%w: completed without image", ErrInvalidTransition)
	}
	s.Image = img
	s.ImageURL = img.DataURL()
	s.Status = StatusCompleted
	return nil
}

// MarkFailed records a failure on a generating scene
func (s *Scene) MarkFailed(msg string) error {
	if s.Status != StatusGenerating {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, StatusError)
	}
	if msg == "" {
		msg = "Failed to generate image"
	}
	s.Error = msg
	s.Status = StatusError
	return nil
}

// HasImage returns true if the scene has a displayable image
func (s *Scene) HasImage() bool {
	return s.Status == StatusCompleted && s.Image != nil
}

// Clone creates a copy of the scene that shares no mutable state
func (s *Scene) Clone() *Scene {
	clone := *s
	if s.Image != nil {
		img := Image{MIMEType: s.Image.MIMEType}
		img.Data = append([]byte(nil), s.Image.Data...)
		clone.Image = &img
	}
	return &clone
}

// StatusCounts tallies scenes per status
type StatusCounts struct {
	Pending    int
	Generating int
	Completed  int
	Failed     int
}

// Total returns the number of counted scenes
func (c StatusCounts) Total() int {
	return c.Pending + c.Generating + c.Completed + c.Failed
}

// Done returns the number of scenes in a terminal state
func (c StatusCounts) Done() int {
	return c.Completed + c.Failed
}

// CountStatuses tallies the scenes by status
func CountStatuses(scenes []Scene) StatusCounts {
	var c StatusCounts
	for _, s := range scenes {
		switch s.Status {
		case StatusPending:
			c.Pending++
		case StatusGenerating:
			c.Generating++
		case StatusCompleted:
			c.Completed++
		case StatusError:
			c.Failed++
		}
	}
	return c
}
