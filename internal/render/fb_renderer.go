package render

import (
	"context"
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	fb "github.com/gonutz/framebuffer"
	"github.com/rook-computer/starfield/internal/render/layout"
	xdraw "golang.org/x/image/draw"
)

// DefaultFBDevice is the framebuffer FBRenderer opens when Device is empty.
const DefaultFBDevice = "/dev/fb0"

// FBRenderer shows frames on the Linux framebuffer. Frames are drawn for
// a fixed logical canvas and scaled to the physical framebuffer,
// letterboxed to keep their aspect ratio.
type FBRenderer struct {
	Device  string
	Canvas  image.Rectangle
	Palette Palette
	HUD     *HUD
	Logger  Logger

	mu      sync.Mutex
	fbDev   *fb.Device
	staging *image.RGBA
	running atomic.Bool
}

func NewFBRenderer(width, height int, palette Palette) *FBRenderer {
	return &FBRenderer{
		Device:  DefaultFBDevice,
		Canvas:  image.Rect(0, 0, width, height),
		Palette: palette,
	}
}

func (r *FBRenderer) Start(ctx context.Context) error {
	path := r.Device
	if path == "" {
		path = DefaultFBDevice
	}
	dev, err := fb.Open(path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.fbDev = dev
	bounds := dev.Bounds()
	r.staging = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	r.mu.Unlock()

	if r.Logger != nil {
		r.Logger.Infof("fb", "framebuffer %s open, bounds=%dx%d canvas=%dx%d", path, bounds.Dx(), bounds.Dy(), r.Canvas.Dx(), r.Canvas.Dy())
	}
	r.running.Store(true)
	return nil
}

func (r *FBRenderer) Stop() error {
	r.running.Store(false)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fbDev != nil {
		r.fbDev.Close()
		r.fbDev = nil
	}
	return nil
}

func (r *FBRenderer) Bounds() image.Rectangle { return r.Canvas }

// Present composes the frame, stamps the HUD and blits it.
func (r *FBRenderer) Present(frame Frame) {
	if !r.running.Load() {
		return
	}
	img := Compose(frame, r.Palette)
	if img == nil {
		return
	}
	if r.HUD != nil {
		r.HUD.Draw(img, frame)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fbDev == nil {
		return
	}
	letterbox(r.staging, img, r.background())
	blitToFB(r.fbDev, r.staging)
}

func (r *FBRenderer) background() color.Color {
	if r.Palette.Background == nil {
		return DefaultPalette.Background
	}
	return r.Palette.Background
}

// letterbox scales src into dst keeping its aspect ratio and fills the
// remaining bars with bg.
func letterbox(dst *image.RGBA, src *image.RGBA, bg color.Color) {
	xdraw.Draw(dst, dst.Bounds(), &image.Uniform{C: bg}, image.Point{}, xdraw.Src)
	target := layout.Fit(dst.Bounds(), src.Bounds().Size())
	if target.Empty() {
		return
	}
	xdraw.NearestNeighbor.Scale(dst, target, src, src.Bounds(), xdraw.Src, nil)
}

// blitToFB copies the staging image onto the device pixel by pixel.
func blitToFB(dev *fb.Device, staging *image.RGBA) {
	bounds := dev.Bounds()
	width := min(bounds.Dx(), staging.Bounds().Dx())
	height := min(bounds.Dy(), staging.Bounds().Dy())
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixel := staging.RGBAAt(x, y)
			dev.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
}
