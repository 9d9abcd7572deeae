// Package starfield generates the fixed star sets both scene layers draw.
package starfield

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// DefaultCount is the number of stars in a generated field.
const DefaultCount = 100

// Size bounds for a single star, half-open.
const (
	MinSize = 0.5
	MaxSize = 1.0
)

// ErrInvalidDimensions is returned when the canvas bounds or the star
// count cannot describe a field.
var ErrInvalidDimensions = errors.New("starfield: invalid dimensions")

// Point is a position relative to the canvas center.
type Point struct {
	X, Y float32
}

// Star is one point of light. Stars are never modified after generation.
type Star struct {
	Position Point
	Size     float32
}

// NewSource returns a random source for Generate.
// A zero seed means "seed from the current time".
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Generate scatters count stars uniformly over [-w/2, w/2) x [-h/2, h/2).
// Positions are centered on the origin so that rotating about the canvas
// center needs no re-centering.
func Generate(width, height float32, count int, rng *rand.Rand) ([]Star, error) {
	if !(width > 0) || !(height > 0) || math.IsInf(float64(width), 0) || math.IsInf(float64(height), 0) {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidDimensions, width, height)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: star count %d", ErrInvalidDimensions, count)
	}
	if rng == nil {
		rng = NewSource(0)
	}

	stars := make([]Star, count)
	for i := range stars {
		stars[i] = Star{
			Position: Point{
				X: uniform(rng, -width/2, width/2),
				Y: uniform(rng, -height/2, height/2),
			},
			Size: uniform(rng, MinSize, MaxSize),
		}
	}
	return stars, nil
}

// uniform draws from [lo, hi). float32 rounding can land exactly on hi,
// which is folded back to lo.
func uniform(rng *rand.Rand, lo, hi float32) float32 {
	v := lo + rng.Float32()*(hi-lo)
	if v >= hi {
		return lo
	}
	return v
}
