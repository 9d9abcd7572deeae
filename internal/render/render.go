package render

import (
	"context"
	"errors"
	"image"
	"sync"
)

// Renderer is a host that shows composed frames.
type Renderer interface {
	Start(ctx context.Context) error
	Stop() error
	// Bounds returns the canvas the next frame should be drawn for.
	Bounds() image.Rectangle
	Present(frame Frame)
}

// Logger is the component-tagged logger used by renderers.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// NoopRenderer presents nothing; it remembers the last frame for headless
// runs and tests.
type NoopRenderer struct {
	Canvas image.Rectangle

	mu     sync.Mutex
	frames int
	last   Frame
}

func NewNoopRenderer(width, height int) *NoopRenderer {
	return &NoopRenderer{Canvas: image.Rect(0, 0, width, height)}
}

func (n *NoopRenderer) Start(ctx context.Context) error { return nil }
func (n *NoopRenderer) Stop() error                     { return nil }
func (n *NoopRenderer) Bounds() image.Rectangle         { return n.Canvas }

func (n *NoopRenderer) Present(frame Frame) {
	n.mu.Lock()
	n.frames++
	n.last = frame
	n.mu.Unlock()
}

// Frames returns how many frames were presented and the most recent one.
func (n *NoopRenderer) Frames() (int, Frame) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.frames, n.last
}

// MultiRenderer presents every frame to several hosts. The first host
// decides the canvas.
type MultiRenderer []Renderer

func (m MultiRenderer) Start(ctx context.Context) error {
	for i, r := range m {
		if err := r.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = m[j].Stop()
			}
			return err
		}
	}
	return nil
}

func (m MultiRenderer) Stop() error {
	var errs []error
	for i := len(m) - 1; i >= 0; i-- {
		if err := m[i].Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiRenderer) Bounds() image.Rectangle {
	if len(m) == 0 {
		return image.Rectangle{}
	}
	return m[0].Bounds()
}

func (m MultiRenderer) Present(frame Frame) {
	for _, r := range m {
		r.Present(frame)
	}
}
