package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/rook-computer/starfield/internal/clock"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const (
	hudFontSize = 18
	hudDPI      = 96
	hudMargin   = 12
)

// HUD stamps a caption with the current rotation into the top-left corner
// of a composed frame.
type HUD struct {
	Title  string
	Color  color.Color
	Logger Logger

	ttFont *truetype.Font
}

// NewHUD parses the embedded Go font. When parsing fails the HUD falls back
// to the fixed 7x13 face.
func NewHUD(title string, fg color.Color, logger Logger) *HUD {
	h := &HUD{Title: title, Color: fg, Logger: logger}
	tt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		if logger != nil {
			logger.Errorf("hud", "truetype parse failed, using basicfont: %v", err)
		}
		return h
	}
	h.ttFont = tt
	return h
}

// Caption returns the text drawn for frame.
func (h *HUD) Caption(frame Frame) string {
	return fmt.Sprintf("%s  %5.1f°", h.Title, clock.Degrees(clock.Normalize(frame.Angle)))
}

// Draw writes the caption onto img.
func (h *HUD) Draw(img *image.RGBA, frame Frame) {
	if img == nil {
		return
	}
	fg := h.Color
	if fg == nil {
		fg = DefaultPalette.Foreground
	}
	text := h.Caption(frame)

	if h.ttFont == nil {
		drawer := &font.Drawer{Dst: img, Src: image.NewUniform(fg), Face: basicfont.Face7x13}
		drawer.Dot = fixed.P(hudMargin, hudMargin+basicfont.Face7x13.Ascent)
		drawer.DrawString(text)
		return
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(hudDPI)
	ctx.SetFont(h.ttFont)
	ctx.SetFontSize(hudFontSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(fg))
	ctx.SetHinting(font.HintingFull)

	baseline := hudMargin + int(ctx.PointToFixed(hudFontSize)>>6)
	if _, err := ctx.DrawString(text, freetype.Pt(hudMargin, baseline)); err != nil && h.Logger != nil {
		h.Logger.Errorf("hud", "draw caption: %v", err)
	}
}
