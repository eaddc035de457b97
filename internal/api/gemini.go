package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/angristan/storyreel/internal/models"
)

var (
	ErrInvalidAPIKey = errors.New("invalid API key: check the GEMINI_API_KEY environment variable")
	ErrQuotaExceeded = errors.New("API quota exceeded: check your Gemini API usage limits")
	ErrNoImageData   = errors.New("no image data received from API")
)

const geminiOutputMIMEType = "image/png"

// imageModels is the subset of *genai.Models used here
type imageModels interface {
	GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// GeminiGenerator generates images with the Gemini (Imagen) API
type GeminiGenerator struct {
	model  string
	models imageModels
}

// NewGeminiGenerator creates a generator backed by the Gemini API
func NewGeminiGenerator(ctx context.Context, apiKey, model string, httpClient *http.Client) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiGenerator{
		model:  model,
		models: client.Models,
	}, nil
}

// Name returns the backend name
func (g *GeminiGenerator) Name() string {
	return "gemini/" + g.model
}

// Generate requests a single PNG for the prompt
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (*models.Image, error) {
	resp, err := g.models.GenerateImages(ctx, g.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: geminiOutputMIMEType,
	})
	if err != nil {
		return nil, mapGeminiError(err)
	}

	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, ErrNoImageData
	}
	generated := resp.GeneratedImages[0]
	if generated == nil || generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
		return nil, ErrNoImageData
	}

	mime := generated.Image.MIMEType
	if mime == "" {
		mime = geminiOutputMIMEType
	}

	return &models.Image{
		Data:     generated.Image.ImageBytes,
		MIMEType: mime,
	}, nil
}

// mapGeminiError turns well-known API failures into sentinel errors
func mapGeminiError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "API_KEY_INVALID"), strings.Contains(msg, "API key not valid"):
		return ErrInvalidAPIKey
	case strings.Contains(msg, "Quota exceeded"), strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return ErrQuotaExceeded
	}
	return fmt.Errorf("gemini API error: %w", err)
}
