package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"time"

	"github.com/angristan/storyreel/internal/models"
)

const (
	demoImageWidth  = 96
	demoImageHeight = 64

	// DemoFailMarker makes the demo generator fail for a prompt
	DemoFailMarker = "[fail]"
)

// ErrDemoFailure is returned for prompts containing DemoFailMarker
var ErrDemoFailure = errors.New("demo generator refused the prompt")

// DemoGenerator implements ImageGenerator without any network access.
// Images are painted from a hash of the prompt so each scene looks different.
type DemoGenerator struct {
	// Simulated latency per call
	Delay time.Duration

	mu    sync.Mutex
	calls int
}

// NewDemoGenerator creates a demo generator with a short simulated delay
func NewDemoGenerator() *DemoGenerator {
	return &DemoGenerator{Delay: 800 * time.Millisecond}
}

// Name returns the backend name
func (d *DemoGenerator) Name() string {
	return "demo"
}

// Calls returns how many times Generate was invoked
func (d *DemoGenerator) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// Generate paints a gradient for the prompt after the simulated delay
func (d *DemoGenerator) Generate(ctx context.Context, prompt string) (*models.Image, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()

	// Simulate network delay for realistic demo experience
	if d.Delay > 0 {
		select {
		case <-time.After(d.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if strings.Contains(prompt, DemoFailMarker) {
		return nil, ErrDemoFailure
	}

	data, err := paintDemoImage(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to encode demo image: %w", err)
	}

	return &models.Image{Data: data, MIMEType: "image/png"}, nil
}

// paintDemoImage draws a diagonal two-colour gradient seeded by the prompt
func paintDemoImage(prompt string) ([]byte, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(prompt))
	seed := h.Sum64()

	from := color.RGBA{uint8(seed), uint8(seed >> 8), uint8(seed >> 16), 255}
	to := color.RGBA{uint8(seed >> 24), uint8(seed >> 32), uint8(seed >> 40), 255}

	img := image.NewRGBA(image.Rect(0, 0, demoImageWidth, demoImageHeight))
	span := demoImageWidth + demoImageHeight - 2
	for y := 0; y < demoImageHeight; y++ {
		for x := 0; x < demoImageWidth; x++ {
			t := float64(x+y) / float64(span)
			img.SetRGBA(x, y, color.RGBA{
				R: lerp(from.R, to.R, t),
				G: lerp(from.G, to.G, t),
				B: lerp(from.B, to.B, t),
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}
