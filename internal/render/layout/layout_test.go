package layout

import (
	"image"
	"testing"
)

func TestNormalize(t *testing.T) {
	got := Normalize(image.Rectangle{Min: image.Pt(10, 20), Max: image.Pt(0, 5)})
	want := image.Rect(0, 5, 10, 20)
	if got != want {
		t.Fatalf("Normalize() = %v, want %v", got, want)
	}
}

func TestCenterIn(t *testing.T) {
	tests := []struct {
		name string
		rect image.Rectangle
		w, h int
		want image.Rectangle
	}{
		{"smaller", image.Rect(0, 0, 100, 100), 50, 20, image.Rect(25, 40, 75, 60)},
		{"clamped", image.Rect(0, 0, 100, 100), 500, 500, image.Rect(0, 0, 100, 100)},
		{"negative size", image.Rect(0, 0, 100, 100), -5, 10, image.Rect(50, 45, 50, 55)},
		{"offset rect", image.Rect(10, 10, 30, 30), 10, 10, image.Rect(15, 15, 25, 25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CenterIn(tt.rect, tt.w, tt.h); got != tt.want {
				t.Errorf("CenterIn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name string
		dst  image.Rectangle
		src  image.Point
		want image.Rectangle
	}{
		{"same aspect", image.Rect(0, 0, 1920, 1080), image.Pt(1280, 720), image.Rect(0, 0, 1920, 1080)},
		{"pillarbox", image.Rect(0, 0, 1920, 1080), image.Pt(1024, 768), image.Rect(240, 0, 1680, 1080)},
		{"letterbox", image.Rect(0, 0, 800, 800), image.Pt(800, 400), image.Rect(0, 200, 800, 600)},
		{"empty source", image.Rect(0, 0, 800, 800), image.Pt(0, 400), image.Rect(0, 0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fit(tt.dst, tt.src); got != tt.want {
				t.Errorf("Fit() = %v, want %v", got, tt.want)
			}
		})
	}
}
