// Package clock maps elapsed wall-clock time to the rotation angle of the
// star system layer.
package clock

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultPeriod is the time for one full revolution.
const DefaultPeriod = 60 * time.Second

// ErrInvalidTimestamp is returned when the clock is asked about a moment
// before its start.
var ErrInvalidTimestamp = errors.New("clock: timestamp before start")

// Clock converts elapsed time to radians at a constant angular velocity of
// 2π per Period.
type Clock struct {
	Period time.Duration
}

// New returns a Clock turning once per period. Non-positive periods fall
// back to DefaultPeriod.
func New(period time.Duration) Clock {
	if period <= 0 {
		period = DefaultPeriod
	}
	return Clock{Period: period}
}

// Velocity returns the angular velocity in radians per second.
func (c Clock) Velocity() float64 {
	period := c.Period
	if period <= 0 {
		period = DefaultPeriod
	}
	return 2 * math.Pi / period.Seconds()
}

// Angle returns the rotation in radians reached at now for an animation
// that began at start. The result is not wrapped to [0, 2π).
func (c Clock) Angle(start, now time.Time) (float32, error) {
	if now.Before(start) {
		return 0, fmt.Errorf("%w: %s is %s before start", ErrInvalidTimestamp, now.Format(time.RFC3339Nano), start.Sub(now))
	}
	elapsed := now.Sub(start)
	// Whole seconds and the sub-second remainder are summed separately so
	// long runs keep nanosecond resolution.
	seconds := float64(elapsed/time.Second) + float64(elapsed%time.Second)/float64(time.Second)
	return float32(seconds * c.Velocity()), nil
}

// Normalize folds an angle into [0, 2π).
func Normalize(angle float32) float32 {
	a := math.Mod(float64(angle), 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	r := float32(a)
	if float64(r) >= 2*math.Pi {
		return 0
	}
	return r
}

// Degrees converts radians to degrees.
func Degrees(angle float32) float64 {
	return float64(angle) * 180 / math.Pi
}
