// Package layout places logical canvases inside physical display areas.
package layout

import "image"

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// CenterIn returns a rectangle of size (widthPx,heightPx) centered in rect.
// The size is clamped to rect.
func CenterIn(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	widthPx = clamp(widthPx, 0, rect.Dx())
	heightPx = clamp(heightPx, 0, rect.Dy())
	minX := rect.Min.X + (rect.Dx()-widthPx)/2
	minY := rect.Min.Y + (rect.Dy()-heightPx)/2
	return image.Rect(minX, minY, minX+widthPx, minY+heightPx)
}

// Fit returns the largest rectangle with the aspect ratio of src that fits
// in dst, centered. The bars left over are the letterbox.
func Fit(dst image.Rectangle, src image.Point) image.Rectangle {
	dst = Normalize(dst)
	if src.X <= 0 || src.Y <= 0 || dst.Empty() {
		return image.Rectangle{Min: dst.Min, Max: dst.Min}
	}
	width := dst.Dx()
	height := width * src.Y / src.X
	if height > dst.Dy() {
		height = dst.Dy()
		width = height * src.X / src.Y
	}
	return CenterIn(dst, width, height)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
