package render

import (
	"image"
	"sync"
	"testing"

	"github.com/gogpu/gg"
)

func countingPaint(calls *int) func(dc *gg.Context) {
	return func(dc *gg.Context) {
		*calls++
		dc.SetRGB(1, 1, 1)
		dc.DrawRectangle(1, 1, 4, 4)
		_ = dc.Fill()
	}
}

func TestCacheDrawIsMemoized(t *testing.T) {
	var c Cache
	calls := 0
	size := image.Pt(32, 16)

	first := c.Draw(size, countingPaint(&calls))
	second := c.Draw(size, countingPaint(&calls))

	if calls != 1 {
		t.Fatalf("paint called %d times, want 1", calls)
	}
	if first != second {
		t.Fatal("second Draw returned a different geometry")
	}
	if first.Size != size {
		t.Errorf("Size = %v, want %v", first.Size, size)
	}
	if got := first.Image.Bounds().Size(); got != size {
		t.Errorf("image size = %v, want %v", got, size)
	}
	stats := c.Stats()
	if stats.Rebuilds != 1 || stats.Hits != 1 {
		t.Errorf("Stats() = %+v, want 1 rebuild and 1 hit", stats)
	}
}

func TestCacheClearForcesRebuild(t *testing.T) {
	tests := []struct {
		name       string
		firstSize  image.Point
		secondSize image.Point
	}{
		{"same size", image.Pt(20, 20), image.Pt(20, 20)},
		{"resized", image.Pt(20, 20), image.Pt(40, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Cache
			calls := 0
			c.Draw(tt.firstSize, countingPaint(&calls))
			c.Clear()
			g := c.Draw(tt.secondSize, countingPaint(&calls))
			if calls != 2 {
				t.Fatalf("paint called %d times, want 2", calls)
			}
			if g.Size != tt.secondSize {
				t.Fatalf("Size = %v, want %v", g.Size, tt.secondSize)
			}
			if got := c.Stats().Clears; got != 1 {
				t.Fatalf("Clears = %d, want 1", got)
			}
		})
	}
}

func TestCacheResizeRebuilds(t *testing.T) {
	var c Cache
	calls := 0
	old := c.Draw(image.Pt(10, 10), countingPaint(&calls))
	fresh := c.Draw(image.Pt(12, 10), countingPaint(&calls))
	if calls != 2 {
		t.Fatalf("paint called %d times, want 2", calls)
	}
	if old == fresh {
		t.Fatal("resize reused the old geometry")
	}
	again := c.Draw(image.Pt(12, 10), countingPaint(&calls))
	if calls != 2 || again != fresh {
		t.Fatal("same size after resize was not served from cache")
	}
}

func TestCacheRepeatedClearsRebuildOnce(t *testing.T) {
	var c Cache
	calls := 0
	c.Clear()
	c.Clear()
	for i := 0; i < 3; i++ {
		c.Draw(image.Pt(8, 8), countingPaint(&calls))
	}
	if calls != 1 {
		t.Fatalf("paint called %d times, want 1", calls)
	}
}

func TestCacheZeroArea(t *testing.T) {
	var c Cache
	calls := 0
	g := c.Draw(image.Pt(0, 50), countingPaint(&calls))
	if calls != 0 {
		t.Fatalf("paint called %d times for zero area", calls)
	}
	if !g.Empty() {
		t.Fatal("zero-area geometry has pixels")
	}
}

func TestCachePaintsPixels(t *testing.T) {
	var c Cache
	calls := 0
	g := c.Draw(image.Pt(8, 8), countingPaint(&calls))
	if a := g.Image.RGBAAt(3, 3).A; a == 0 {
		t.Fatal("painted pixel is transparent")
	}
	if a := g.Image.RGBAAt(7, 7).A; a != 0 {
		t.Fatalf("unpainted pixel alpha = %d, want 0", a)
	}
}

func TestCacheConcurrentClearAndDraw(t *testing.T) {
	var c Cache
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			c.Clear()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if g := c.Draw(image.Pt(4, 4), func(*gg.Context) {}); g == nil {
				t.Error("Draw returned nil")
				return
			}
		}
	}()
	wg.Wait()

	stats := c.Stats()
	if stats.Hits+stats.Rebuilds != 200 {
		t.Fatalf("hits+rebuilds = %d, want 200", stats.Hits+stats.Rebuilds)
	}
}

func TestCacheDrawVersionRebuildsOnNewVersion(t *testing.T) {
	var c Cache
	calls := 0
	size := image.Pt(16, 16)

	c.DrawVersion(size, 1, countingPaint(&calls))
	c.DrawVersion(size, 1, countingPaint(&calls))
	if calls != 1 {
		t.Fatalf("paint called %d times for one version, want 1", calls)
	}

	g := c.DrawVersion(size, 2, countingPaint(&calls))
	if calls != 2 {
		t.Fatalf("paint called %d times after version change, want 2", calls)
	}
	if g.Version != 2 {
		t.Fatalf("Version = %d, want 2", g.Version)
	}
	if got := c.Stats(); got.Rebuilds != 2 || got.Hits != 1 || got.Clears != 0 {
		t.Fatalf("Stats() = %+v", got)
	}
}
