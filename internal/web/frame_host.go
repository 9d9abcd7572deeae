package web

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/rook-computer/starfield/internal/render"
)

// MaxCanvasSide bounds canvases requested over the API.
const MaxCanvasSide = 4096

// FrameHost is the renderer behind the HTTP preview: it keeps the latest
// composed frame for GET /frame.png.
type FrameHost struct {
	Palette render.Palette
	HUD     *render.HUD

	mu     sync.RWMutex
	canvas image.Rectangle
	latest *image.RGBA
	angle  float32
	frames uint64
}

func NewFrameHost(width, height int, palette render.Palette) *FrameHost {
	return &FrameHost{Palette: palette, canvas: image.Rect(0, 0, width, height)}
}

func (h *FrameHost) Start(ctx context.Context) error { return nil }
func (h *FrameHost) Stop() error                     { return nil }

func (h *FrameHost) Bounds() image.Rectangle {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.canvas
}

func (h *FrameHost) Present(frame render.Frame) {
	img := render.Compose(frame, h.Palette)
	if img != nil && h.HUD != nil {
		h.HUD.Draw(img, frame)
	}
	h.mu.Lock()
	h.latest = img
	h.angle = frame.Angle
	h.frames++
	h.mu.Unlock()
}

// Resize changes the canvas later frames are drawn for.
func (h *FrameHost) Resize(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxCanvasSide || height > MaxCanvasSide {
		return fmt.Errorf("canvas %dx%d outside 1..%d", width, height, MaxCanvasSide)
	}
	h.mu.Lock()
	h.canvas = image.Rect(0, 0, width, height)
	h.mu.Unlock()
	return nil
}

// Latest returns the most recent composed frame, nil before the first one.
func (h *FrameHost) Latest() (img *image.RGBA, angle float32, frames uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.angle, h.frames
}
