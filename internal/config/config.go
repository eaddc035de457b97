package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names
const (
	BackendGemini  = "gemini"
	BackendSDWebUI = "sdwebui"
	BackendDemo    = "demo"
)

// Defaults
const (
	DefaultBackend        = BackendGemini
	DefaultImageModel     = "imagen-3.0-generate-002"
	DefaultMaxScenes      = 10
	DefaultStyleSuffix    = "Epic cinematic still, detailed, vibrant colors, anime movie style."
	DefaultSceneDelayMs   = 3000
	MinSceneDelayMs       = 500
	DefaultRequestTimeout = 2 * time.Minute
)

// Environment variables holding credentials. They are never written to disk.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvAPIKey       = "API_KEY"
	EnvSDWebUIURL   = "SD_WEBUI_URL"
)

var (
	ErrNotConfigured  = errors.New("image generator is not configured")
	ErrUnknownBackend = errors.New("unknown backend")
)

// SDWebUIConfig stores settings for a self-hosted Stable Diffusion WebUI
type SDWebUIConfig struct {
	// Base URL, e.g. http://127.0.0.1:7860
	URL string `yaml:"url,omitempty"`
	// Sampling steps per image
	Steps int `yaml:"steps,omitempty"`
	// Output size in pixels
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// Config stores all application configuration
type Config struct {
	// Which image generator to use: gemini, sdwebui or demo
	Backend string `yaml:"backend"`
	// Model name passed to the Gemini image API
	ImageModel string `yaml:"image_model"`
	// Maximum number of scenes per submission
	MaxScenes int `yaml:"max_scenes"`
	// Appended to every prompt
	StyleSuffix string `yaml:"style_suffix"`
	// Initial slideshow delay
	SceneDelayMs int `yaml:"scene_delay_ms"`
	// Minimum spacing between two generator calls (0 = no pacing)
	MinRequestInterval time.Duration `yaml:"min_request_interval,omitempty"`
	// Per-call timeout for generator requests
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty"`

	SDWebUI SDWebUIConfig `yaml:"sdwebui,omitempty"`

	// Credential read from the environment
	APIKey string `yaml:"-"`
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	return &Config{
		Backend:        DefaultBackend,
		ImageModel:     DefaultImageModel,
		MaxScenes:      DefaultMaxScenes,
		StyleSuffix:    DefaultStyleSuffix,
		SceneDelayMs:   DefaultSceneDelayMs,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// configDir returns the configuration directory path
func configDir() (string, error) {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "storyreel"), nil
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "storyreel"), nil
}

// Path returns the full path to the config file
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration from disk and the environment
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.normalize()

	return cfg, nil
}

// applyEnv reads credentials and overrides from the environment
func (c *Config) applyEnv() {
	c.APIKey = os.Getenv(EnvGeminiAPIKey)
	if c.APIKey == "" {
		c.APIKey = os.Getenv(EnvAPIKey)
	}
	if url := os.Getenv(EnvSDWebUIURL); url != "" {
		c.SDWebUI.URL = url
	}
}

// normalize replaces unset or out-of-range values with defaults
func (c *Config) normalize() {
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	if c.ImageModel == "" {
		c.ImageModel = DefaultImageModel
	}
	if c.MaxScenes <= 0 {
		c.MaxScenes = DefaultMaxScenes
	}
	if c.SceneDelayMs == 0 {
		c.SceneDelayMs = DefaultSceneDelayMs
	}
	if c.SceneDelayMs < MinSceneDelayMs {
		c.SceneDelayMs = MinSceneDelayMs
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MinRequestInterval < 0 {
		c.MinRequestInterval = 0
	}
}

// Save writes the configuration to disk. Credentials are not saved.
func (c *Config) Save() error {
	dir, err := configDir()
	if err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := Path()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Validate checks that the selected backend can be reached.
// A missing credential is reported as ErrNotConfigured.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendGemini:
		if c.APIKey == "" {
			return fmt.Errorf("%w: set the %s environment variable", ErrNotConfigured, EnvGeminiAPIKey)
		}
	case BackendSDWebUI:
		if c.SDWebUI.URL == "" {
			return fmt.Errorf("%w: set the %s environment variable or sdwebui.url", ErrNotConfigured, EnvSDWebUIURL)
		}
	case BackendDemo:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	return nil
}

// SceneDelay returns the configured slideshow delay
func (c *Config) SceneDelay() time.Duration {
	return time.Duration(c.SceneDelayMs) * time.Millisecond
}
