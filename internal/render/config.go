package render

import (
	"image/color"

	"github.com/gogpu/gg"
)

// Palette holds the scene colors. Stars are filled with Foreground on a
// Background-filled canvas.
type Palette struct {
	Foreground color.Color
	Background color.Color
}

// DefaultPalette is white stars on a black sky.
var DefaultPalette = Palette{
	Foreground: color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	Background: color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
}

// PaletteFromHex builds a palette from "#rrggbb" strings. Validation of the
// strings is the caller's job; gg treats malformed input as black.
func PaletteFromHex(foreground, background string) Palette {
	return Palette{
		Foreground: gg.Hex(foreground).Color(),
		Background: gg.Hex(background).Color(),
	}
}
