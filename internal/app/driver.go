package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rook-computer/starfield/internal/clock"
	"github.com/rook-computer/starfield/internal/state"
)

// rejectLogEvery bounds how often RunTicks reports rejected ticks.
const rejectLogEvery = time.Second

// DefaultTickInterval is the animation cadence.
const DefaultTickInterval = 10 * time.Millisecond

// Invalidator is the cache owner a tick makes stale.
type Invalidator interface {
	InvalidateSystem()
}

// Driver advances the animation. It is the only writer of the scene state:
// every tick moves the current time forward and marks the rotating layer
// stale. The backdrop is never touched.
type Driver struct {
	Interval time.Duration
	Store    *state.Store
	Scene    Invalidator
	Logger   Logger

	// tickMu orders skewed ticks from Run against manual ones from Skew.
	tickMu sync.Mutex
	skew   time.Duration

	accepted atomic.Uint64
	rejected atomic.Uint64
}

func NewDriver(interval time.Duration, store *state.Store, scene Invalidator) *Driver {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Driver{Interval: interval, Store: store, Scene: scene, Logger: NoopLogger{}}
}

// Tick applies one tick stamped ts. A rejected tick changes nothing.
func (d *Driver) Tick(ts time.Time) error {
	if err := d.Store.Advance(ts); err != nil {
		d.rejected.Add(1)
		return err
	}
	d.Scene.InvalidateSystem()
	d.accepted.Add(1)
	return nil
}

// Skew moves the animation forward by offset right away and shifts every
// later ticker timestamp by the same amount, so real ticks keep landing
// after the manual one. Negative offsets are rejected.
func (d *Driver) Skew(offset time.Duration) error {
	if offset < 0 {
		d.rejected.Add(1)
		return fmt.Errorf("skew %s: %w", offset, clock.ErrInvalidTimestamp)
	}
	d.tickMu.Lock()
	defer d.tickMu.Unlock()
	if err := d.Tick(d.Store.Snapshot().Current.Add(offset)); err != nil {
		return err
	}
	d.skew += offset
	return nil
}

// Offset returns the total shift applied by Skew.
func (d *Driver) Offset() time.Duration {
	d.tickMu.Lock()
	defer d.tickMu.Unlock()
	return d.skew
}

// Run ticks every Interval until ctx is done.
func (d *Driver) Run(ctx context.Context) {
	interval := d.Interval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	d.RunTicks(ctx, ticker.C)
}

// RunTicks applies every timestamp received on ticks, shifted by the
// current skew, until ctx is done or the channel is closed. Rejections
// are logged at most once per second with a count.
func (d *Driver) RunTicks(ctx context.Context, ticks <-chan time.Time) {
	var (
		lastLog    time.Time
		suppressed int
	)
	for {
		select {
		case <-ctx.Done():
			return
		case ts, ok := <-ticks:
			if !ok {
				return
			}
			err := d.skewedTick(ts)
			if err == nil {
				continue
			}
			if time.Since(lastLog) < rejectLogEvery {
				suppressed++
				continue
			}
			if suppressed > 0 {
				d.logger().Errorf("driver", "tick rejected: %v (%d more since last report)", err, suppressed)
			} else {
				d.logger().Errorf("driver", "tick rejected: %v", err)
			}
			lastLog = time.Now()
			suppressed = 0
		}
	}
}

func (d *Driver) skewedTick(ts time.Time) error {
	d.tickMu.Lock()
	defer d.tickMu.Unlock()
	return d.Tick(ts.Add(d.skew))
}

// Counts returns how many ticks were applied and rejected.
func (d *Driver) Counts() (accepted, rejected uint64) {
	return d.accepted.Load(), d.rejected.Load()
}

func (d *Driver) logger() Logger {
	if d.Logger == nil {
		return NoopLogger{}
	}
	return d.Logger
}
