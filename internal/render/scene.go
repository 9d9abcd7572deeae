package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/gg"
	"github.com/rook-computer/starfield/internal/clock"
	"github.com/rook-computer/starfield/internal/starfield"
	"github.com/rook-computer/starfield/internal/state"
)

// Frame is the output of one paint: the backdrop layer and the system
// layer, to be composited in that order.
type Frame struct {
	Size     image.Point
	Angle    float32
	Backdrop *Geometry
	System   *Geometry
}

// Empty reports whether the frame covers no pixels.
func (f Frame) Empty() bool {
	return f.Size.X <= 0 || f.Size.Y <= 0
}

// Scene draws the two star layers, each through its own cache. The
// backdrop is rebuilt on resize or InvalidateAll; the system layer is
// rebuilt after every InvalidateSystem.
type Scene struct {
	Clock   clock.Clock
	Palette Palette
	Logger  Logger

	backdrop Cache
	system   Cache
}

func NewScene(c clock.Clock, palette Palette) *Scene {
	return &Scene{Clock: c, Palette: palette}
}

// Draw renders the frame for bounds from a state snapshot.
func (s *Scene) Draw(bounds image.Rectangle, snap state.State) Frame {
	size := bounds.Canon().Size()
	if size.X < 0 || size.Y < 0 {
		size = image.Point{}
	}

	angle, err := s.Clock.Angle(snap.Start, snap.Current)
	if err != nil {
		s.errorf("scene", "rotation: %v", err)
		angle = 0
	}

	return Frame{
		Size:  size,
		Angle: angle,
		Backdrop: s.backdrop.Draw(size, func(dc *gg.Context) {
			s.paintBackdrop(dc, snap.Stars)
		}),
		System: s.system.DrawVersion(size, snap.Ticks, func(dc *gg.Context) {
			s.paintSystem(dc, snap.Stars, angle)
		}),
	}
}

// InvalidateSystem marks the rotating layer stale.
func (s *Scene) InvalidateSystem() { s.system.Clear() }

// InvalidateAll marks both layers stale.
func (s *Scene) InvalidateAll() {
	s.backdrop.Clear()
	s.system.Clear()
}

func (s *Scene) BackdropStats() CacheStats { return s.backdrop.Stats() }
func (s *Scene) SystemStats() CacheStats   { return s.system.Stats() }

// paintBackdrop fills one square per star, centered on the star, with the
// origin moved to the canvas center.
func (s *Scene) paintBackdrop(dc *gg.Context, stars []starfield.Star) {
	center := canvasCenter(dc)
	dc.SetColor(s.foreground())
	err := withTransform(dc, func(dc *gg.Context) {
		dc.Translate(center.X, center.Y)
	}, func(dc *gg.Context) error {
		for _, star := range stars {
			side := float64(star.Size)
			dc.DrawRectangle(float64(star.Position.X)-side/2, float64(star.Position.Y)-side/2, side, side)
		}
		return dc.Fill()
	})
	if err != nil {
		s.errorf("scene", "backdrop fill: %v", err)
	}
}

// paintSystem fills one circle per star. Every star gets its own
// translate-rotate scope around the canvas center, so the field turns as
// one rigid disk and radial distances never change.
func (s *Scene) paintSystem(dc *gg.Context, stars []starfield.Star, angle float32) {
	center := canvasCenter(dc)
	dc.SetColor(s.foreground())
	for i, star := range stars {
		err := withTransform(dc, func(dc *gg.Context) {
			dc.Translate(center.X, center.Y)
			dc.Rotate(float64(angle))
		}, func(dc *gg.Context) error {
			dc.DrawCircle(float64(star.Position.X), float64(star.Position.Y), float64(star.Size))
			return dc.Fill()
		})
		if err != nil {
			s.errorf("scene", "system fill star %d: %v", i, err)
		}
	}
}

func (s *Scene) foreground() color.Color {
	if s.Palette.Foreground == nil {
		return DefaultPalette.Foreground
	}
	return s.Palette.Foreground
}

func (s *Scene) errorf(component, format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Errorf(component, format, args...)
	}
}

func canvasCenter(dc *gg.Context) gg.Point {
	return gg.Pt(float64(dc.Width())/2, float64(dc.Height())/2)
}

// Compose flattens a frame onto an opaque background: backdrop first, the
// system layer over it. Empty frames yield nil.
func Compose(frame Frame, palette Palette) *image.RGBA {
	if frame.Empty() {
		return nil
	}
	bg := palette.Background
	if bg == nil {
		bg = DefaultPalette.Background
	}
	out := image.NewRGBA(image.Rectangle{Max: frame.Size})
	draw.Draw(out, out.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	for _, layer := range []*Geometry{frame.Backdrop, frame.System} {
		if layer.Empty() {
			continue
		}
		draw.Draw(out, out.Bounds(), layer.Image, layer.Image.Bounds().Min, draw.Over)
	}
	return out
}
