package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{
			name: "three paragraphs",
			text: "A\n\nB\n\nC",
			max:  10,
			want: []string{"A", "B", "C"},
		},
		{
			name: "multiple blank lines and whitespace",
			text: "  First  \n\n\n   \n\tSecond\n \nThird\n",
			max:  10,
			want: []string{"First", "Second", "Third"},
		},
		{
			name: "single newline keeps paragraph together",
			text: "line one\nline two\n\nnext",
			max:  10,
			want: []string{"line one\nline two", "next"},
		},
		{
			name: "windows line endings",
			text: "A\r\n\r\nB",
			max:  10,
			want: []string{"A", "B"},
		},
		{
			name: "truncated to max",
			text: "1\n\n2\n\n3\n\n4",
			max:  2,
			want: []string{"1", "2"},
		},
		{
			name: "no cap",
			text: "1\n\n2\n\n3",
			max:  0,
			want: []string{"1", "2", "3"},
		},
		{
			name: "whitespace only",
			text: " \n\n\t\n  \n",
			max:  10,
			want: nil,
		},
		{
			name: "empty",
			text: "",
			max:  10,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitParagraphs(tt.text, tt.max)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d paragraphs, got %d (%q)", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Paragraph %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestSplitParagraphs_CountIsMinOfParagraphsAndMax(t *testing.T) {
	for n := 0; n <= 12; n++ {
		parts := make([]string, n)
		for i := range parts {
			parts[i] = strings.Repeat("x", i+1)
		}
		text := strings.Join(parts, "\n\n")

		for _, max := range []int{1, 3, 10} {
			want := n
			if want > max {
				want = max
			}
			if got := len(SplitParagraphs(text, max)); got != want {
				t.Errorf("n=%d max=%d: expected %d paragraphs, got %d", n, max, want, got)
			}
		}
	}
}

func TestNewScenes(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	scenes := NewScenes([]string{"A", "B", "C"}, "Epic style.", now)

	if len(scenes) != 3 {
		t.Fatalf("Expected 3 scenes, got %d", len(scenes))
	}

	seen := map[string]bool{}
	for i, s := range scenes {
		if s.Status != StatusPending {
			t.Errorf("Scene %d: expected pending, got %s", i, s.Status)
		}
		if want := s.Prompt + " Epic style."; s.FullPrompt != want {
			t.Errorf("Scene %d: expected full prompt %q, got %q", i, want, s.FullPrompt)
		}
		if s.ImageURL != "" || s.Image != nil || s.Error != "" {
			t.Errorf("Scene %d: expected no image or error on a pending scene", i)
		}
		if seen[s.ID] {
			t.Errorf("Scene %d: duplicate ID %s", i, s.ID)
		}
		seen[s.ID] = true
	}

	if scenes[0].ID != "scene-0-1700000000000" {
		t.Errorf("Expected ID scene-0-1700000000000, got %s", scenes[0].ID)
	}
}

func TestNewScenes_EmptySuffix(t *testing.T) {
	scenes := NewScenes([]string{"A"}, "", time.Now())
	if scenes[0].FullPrompt != "A" {
		t.Errorf("Expected full prompt %q, got %q", "A", scenes[0].FullPrompt)
	}
}

func TestSceneTransitions_Completed(t *testing.T) {
	s := NewScenes([]string{"A"}, "", time.Now())[0]

	if err := s.MarkGenerating(); err != nil {
		t.Fatalf("MarkGenerating: %v", err)
	}
	img := &Image{Data: []byte{1, 2, 3}, MIMEType: "image/png"}
	if err := s.MarkCompleted(img); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}

	if s.Status != StatusCompleted {
		t.Errorf("Expected completed, got %s", s.Status)
	}
	if s.ImageURL != "data:image/png;base64,AQID" {
		t.Errorf("Unexpected image URL %q", s.ImageURL)
	}
	if s.Error != "" {
		t.Errorf("Expected no error, got %q", s.Error)
	}
	if !s.HasImage() {
		t.Error("Expected HasImage to be true")
	}
}

func TestSceneTransitions_Failed(t *testing.T) {
	s := NewScenes([]string{"A"}, "", time.Now())[0]

	if err := s.MarkGenerating(); err != nil {
		t.Fatalf("MarkGenerating: %v", err)
	}
	if err := s.MarkFailed("quota"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	if s.Status != StatusError {
		t.Errorf("Expected error, got %s", s.Status)
	}
	if s.Error != "quota" {
		t.Errorf("Expected error message quota, got %q", s.Error)
	}
	if s.ImageURL != "" || s.Image != nil {
		t.Error("Expected no image on a failed scene")
	}
}

func TestSceneTransitions_FailedDefaultMessage(t *testing.T) {
	s := &Scene{Status: StatusGenerating}
	if err := s.MarkFailed(""); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if s.Error != "Failed to generate image" {
		t.Errorf("Expected default message, got %q", s.Error)
	}
}

func TestSceneTransitions_Invalid(t *testing.T) {
	img := &Image{Data: []byte{1}}

	tests := []struct {
		name  string
		from  Status
		apply func(s *Scene) error
	}{
		{"skip generating to completed", StatusPending, func(s *Scene) error { return s.MarkCompleted(img) }},
		{"skip generating to error", StatusPending, func(s *Scene) error { return s.MarkFailed("x") }},
		{"generating twice", StatusGenerating, func(s *Scene) error { return s.MarkGenerating() }},
		{"regress from completed", StatusCompleted, func(s *Scene) error { return s.MarkGenerating() }},
		{"regress from error", StatusError, func(s *Scene) error { return s.MarkGenerating() }},
		{"error after completed", StatusCompleted, func(s *Scene) error { return s.MarkFailed("x") }},
		{"completed without image", StatusGenerating, func(s *Scene) error { return s.MarkCompleted(nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Scene{Status: tt.from}
			err := tt.apply(s)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("Expected ErrInvalidTransition, got %v", err)
			}
			if s.Status != tt.from {
				t.Errorf("Expected status to stay %s, got %s", tt.from, s.Status)
			}
		})
	}
}

func TestSceneClone(t *testing.T) {
	s := &Scene{ID: "a", Status: StatusCompleted, Image: &Image{Data: []byte{9}}}
	clone := s.Clone()

	clone.Image.Data[0] = 1
	clone.Status = StatusError

	if s.Image.Data[0] != 9 {
		t.Error("Clone shares image data with the original")
	}
	if s.Status != StatusCompleted {
		t.Error("Clone shares status with the original")
	}
}

func TestCountStatuses(t *testing.T) {
	scenes := []Scene{
		{Status: StatusPending},
		{Status: StatusGenerating},
		{Status: StatusCompleted},
		{Status: StatusCompleted},
		{Status: StatusError},
	}

	c := CountStatuses(scenes)
	if c.Pending != 1 || c.Generating != 1 || c.Completed != 2 || c.Failed != 1 {
		t.Errorf("Unexpected counts %+v", c)
	}
	if c.Total() != 5 {
		t.Errorf("Expected total 5, got %d", c.Total())
	}
	if c.Done() != 3 {
		t.Errorf("Expected 3 done, got %d", c.Done())
	}
}

func TestStatusIsTerminal(t *testing.T) {
	if StatusPending.IsTerminal() || StatusGenerating.IsTerminal() {
		t.Error("Expected pending and generating to be non-terminal")
	}
	if !StatusCompleted.IsTerminal() || !StatusError.IsTerminal() {
		t.Error("Expected completed and error to be terminal")
	}
}
