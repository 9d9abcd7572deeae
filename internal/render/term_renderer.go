package render

import (
	"context"
	"image"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// upperHalf draws the top pixel of a cell in the foreground color and the
// bottom pixel in the background color.
const upperHalf = '▀'

// TermRenderer shows frames in a terminal through tcell. Each cell covers
// two vertically stacked regions of the canvas; a region takes the
// brightest pixel it contains so sub-pixel stars stay visible.
type TermRenderer struct {
	Canvas  image.Rectangle
	Palette Palette
	Logger  Logger
	// OnExit is called once when Esc, q or Ctrl-C is pressed.
	OnExit func()
	// Screen overrides the terminal screen, e.g. with a simulation screen.
	Screen tcell.Screen

	mu       sync.Mutex
	exitOnce sync.Once
	done     chan struct{}
}

func NewTermRenderer(width, height int, palette Palette) *TermRenderer {
	return &TermRenderer{Canvas: image.Rect(0, 0, width, height), Palette: palette}
}

func (r *TermRenderer) Start(ctx context.Context) error {
	screen := r.Screen
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.HideCursor()
	screen.Clear()

	r.mu.Lock()
	r.Screen = screen
	r.done = make(chan struct{})
	r.mu.Unlock()

	go r.pollEvents(screen)
	if r.Logger != nil {
		w, h := screen.Size()
		r.Logger.Infof("term", "terminal open, cells=%dx%d canvas=%dx%d", w, h, r.Canvas.Dx(), r.Canvas.Dy())
	}
	return nil
}

func (r *TermRenderer) Stop() error {
	r.mu.Lock()
	screen := r.Screen
	done := r.done
	r.done = nil
	r.mu.Unlock()
	if screen == nil || done == nil {
		return nil
	}
	close(done)
	screen.Fini()
	return nil
}

func (r *TermRenderer) Bounds() image.Rectangle { return r.Canvas }

func (r *TermRenderer) Present(frame Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Screen == nil || r.done == nil {
		return
	}
	img := Compose(frame, r.Palette)
	if img == nil {
		return
	}

	cols, rows := r.Screen.Size()
	cells := Downsample(img, cols, rows*2)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := cells[(2*y)*cols+x]
			bottom := cells[(2*y+1)*cols+x]
			style := tcell.StyleDefault.Foreground(tcellColor(top)).Background(tcellColor(bottom))
			r.Screen.SetContent(x, y, upperHalf, nil, style)
		}
	}
	r.Screen.Show()
}

func (r *TermRenderer) pollEvents(screen tcell.Screen) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				r.exitOnce.Do(func() {
					if r.Logger != nil {
						r.Logger.Infof("term", "exit key pressed")
					}
					if r.OnExit != nil {
						r.OnExit()
					}
				})
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

// Downsample reduces img to a cols x rows grid, row-major. Each entry is
// the brightest pixel of its region.
func Downsample(img *image.RGBA, cols, rows int) []color.RGBA {
	if img == nil || cols <= 0 || rows <= 0 {
		return nil
	}
	bounds := img.Bounds()
	out := make([]color.RGBA, cols*rows)
	for gy := 0; gy < rows; gy++ {
		y0 := bounds.Min.Y + gy*bounds.Dy()/rows
		y1 := max(bounds.Min.Y+(gy+1)*bounds.Dy()/rows, y0+1)
		for gx := 0; gx < cols; gx++ {
			x0 := bounds.Min.X + gx*bounds.Dx()/cols
			x1 := max(bounds.Min.X+(gx+1)*bounds.Dx()/cols, x0+1)
			out[gy*cols+gx] = brightest(img, image.Rect(x0, y0, x1, y1).Intersect(bounds))
		}
	}
	return out
}

func brightest(img *image.RGBA, region image.Rectangle) color.RGBA {
	var best color.RGBA
	bestLuma := -1
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			c := img.RGBAAt(x, y)
			luma := 299*int(c.R) + 587*int(c.G) + 114*int(c.B)
			if luma > bestLuma {
				best, bestLuma = c, luma
			}
		}
	}
	return best
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
