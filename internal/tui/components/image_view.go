package components

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/patrickmn/go-cache"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/angristan/storyreel/internal/models"
)

// RenderImage draws img with upper half blocks, two pixels per cell, scaled
// to fit within cols x rows while keeping the aspect ratio.
func RenderImage(img *models.Image, cols, rows int) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", fmt.Errorf("no image data")
	}
	if cols <= 0 || rows <= 0 {
		return "", nil
	}

	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	w, h := fitSize(src.Bounds().Dx(), src.Bounds().Dy(), cols, rows*2)
	if h%2 == 1 {
		h++
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var b strings.Builder
	for y := 0; y < h; y += 2 {
		if y > 0 {
			b.WriteString("\n")
		}
		for x := 0; x < w; x++ {
			top := hexColor(dst.RGBAAt(x, y))
			bottom := hexColor(dst.RGBAAt(x, y+1))
			b.WriteString(lipgloss.NewStyle().
				Foreground(top).
				Background(bottom).
				Render("▀"))
		}
	}

	return b.String(), nil
}

// fitSize scales (w, h) to fit inside (maxW, maxH) keeping the ratio
func fitSize(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}

	outW := maxW
	outH := h * maxW / w
	if outH > maxH {
		outH = maxH
		outW = w * maxH / h
	}
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	return outW, outH
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B))
}

// renderTTL bounds how long an unused rendering stays cached
const renderTTL = 10 * time.Minute

// ImageCache remembers renderings per scene and size so views redrawn on
// every spinner tick do not rescale the image each time.
type ImageCache struct {
	entries *cache.Cache
}

// NewImageCache creates an empty cache
func NewImageCache() *ImageCache {
	return &ImageCache{entries: cache.New(renderTTL, 2*renderTTL)}
}

// Render returns the cached rendering of the scene's image at the given size
func (c *ImageCache) Render(scene models.Scene, cols, rows int) (string, error) {
	key := fmt.Sprintf("%s@%dx%d", scene.ID, cols, rows)

	if out, ok := c.entries.Get(key); ok {
		return out.(string), nil
	}

	out, err := RenderImage(scene.Image, cols, rows)
	if err != nil {
		return "", err
	}

	c.entries.Set(key, out, cache.DefaultExpiration)
	return out, nil
}

// Clear drops every cached rendering
func (c *ImageCache) Clear() {
	c.entries.Flush()
}
