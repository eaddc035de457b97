package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/angristan/storyreel/internal/config"
	"github.com/angristan/storyreel/internal/models"
)

// ImageGenerator defines the interface for turning a prompt into an image.
// This abstraction allows for remote backends and demo mode alike.
type ImageGenerator interface {
	// Generate returns exactly one still image for the prompt
	Generate(ctx context.Context, prompt string) (*models.Image, error)

	// Name identifies the backend for display
	Name() string
}

// Compile-time checks that all backends implement ImageGenerator
var (
	_ ImageGenerator = (*GeminiGenerator)(nil)
	_ ImageGenerator = (*SDWebUIClient)(nil)
	_ ImageGenerator = (*DemoGenerator)(nil)
)

// NewGenerator creates the generator selected by cfg.Backend.
// A missing credential fails with config.ErrNotConfigured before any
// request is made.
func NewGenerator(ctx context.Context, cfg *config.Config) (ImageGenerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	switch cfg.Backend {
	case config.BackendGemini:
		return NewGeminiGenerator(ctx, cfg.APIKey, cfg.ImageModel, httpClient)
	case config.BackendSDWebUI:
		return NewSDWebUIClient(cfg.SDWebUI, httpClient), nil
	case config.BackendDemo:
		return NewDemoGenerator(), nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
}
