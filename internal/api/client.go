package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/angristan/storyreel/internal/config"
	"github.com/angristan/storyreel/internal/models"
)

// Defaults for the Stable Diffusion WebUI txt2img endpoint
const (
	DefaultSDSteps    = 25
	DefaultSDWidth    = 768
	DefaultSDHeight   = 512
	defaultSDCFGScale = 7.0
)

// SDWebUIClient generates images with a self-hosted Stable Diffusion WebUI
type SDWebUIClient struct {
	baseURL string
	steps   int
	width   int
	height  int
	client  *http.Client
}

// NewSDWebUIClient creates a new SD WebUI client
func NewSDWebUIClient(cfg config.SDWebUIConfig, httpClient *http.Client) *SDWebUIClient {
	c := &SDWebUIClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		steps:   cfg.Steps,
		width:   cfg.Width,
		height:  cfg.Height,
		client:  httpClient,
	}
	if c.steps <= 0 {
		c.steps = DefaultSDSteps
	}
	if c.width <= 0 {
		c.width = DefaultSDWidth
	}
	if c.height <= 0 {
		c.height = DefaultSDHeight
	}
	if c.client == nil {
		c.client = http.DefaultClient
	}
	return c
}

// Name returns the backend name
func (c *SDWebUIClient) Name() string {
	return "sdwebui"
}

// txt2imgRequest is the body sent to /sdapi/v1/txt2img
type txt2imgRequest struct {
	Prompt    string  `json:"prompt"`
	Steps     int     `json:"steps"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	CFGScale  float64 `json:"cfg_scale,omitempty"`
	BatchSize int     `json:"batch_size,omitempty"`
}

// txt2imgResponse represents the txt2img response
type txt2imgResponse struct {
	Images []string `json:"images"`
	Info   string   `json:"info"`
	Error  string   `json:"error,omitempty"`
}

// doRequest performs a JSON API request
func (c *SDWebUIClient) doRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.client.Do(req)
}

// Generate requests one image for the prompt
func (c *SDWebUIClient) Generate(ctx context.Context, prompt string) (img *models.Image, err error) {
	body, err := json.Marshal(txt2imgRequest{
		Prompt:    prompt,
		Steps:     c.steps,
		Width:     c.width,
		Height:    c.height,
		CFGScale:  defaultSDCFGScale,
		BatchSize: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, "POST", "/sdapi/v1/txt2img", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to reach SD WebUI: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	var apiResp txt2imgResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode txt2img response: %w", err)
	}

	if apiResp.Error != "" {
		return nil, fmt.Errorf("API error: %s", apiResp.Error)
	}
	if len(apiResp.Images) == 0 {
		return nil, ErrNoImageData
	}

	data, err := base64.StdEncoding.DecodeString(apiResp.Images[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoImageData
	}

	return &models.Image{
		Data:     data,
		MIMEType: http.DetectContentType(data),
	}, nil
}
