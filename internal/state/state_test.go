package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rook-computer/starfield/internal/clock"
	"github.com/rook-computer/starfield/internal/starfield"
)

func newTestStore(t *testing.T) (*Store, time.Time) {
	t.Helper()
	stars, err := starfield.Generate(800, 600, 10, starfield.NewSource(3))
	if err != nil {
		t.Fatal(err)
	}
	start := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	return NewStore(stars, start), start
}

func TestNewStore(t *testing.T) {
	store, start := newTestStore(t)
	snap := store.Snapshot()
	if snap.Phase != BOOTING {
		t.Errorf("Phase = %v, want booting", snap.Phase)
	}
	if !snap.Current.Equal(start) {
		t.Errorf("Current = %v, want start %v", snap.Current, start)
	}
	if snap.Elapsed() != 0 {
		t.Errorf("Elapsed() = %v, want 0", snap.Elapsed())
	}
	if len(snap.Stars) != 10 {
		t.Errorf("len(Stars) = %d, want 10", len(snap.Stars))
	}
}

func TestAdvance(t *testing.T) {
	store, start := newTestStore(t)
	for i := 1; i <= 3; i++ {
		if err := store.Advance(start.Add(time.Duration(i) * 10 * time.Millisecond)); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	snap := store.Snapshot()
	if snap.Ticks != 3 {
		t.Errorf("Ticks = %d, want 3", snap.Ticks)
	}
	if snap.Elapsed() != 30*time.Millisecond {
		t.Errorf("Elapsed() = %v, want 30ms", snap.Elapsed())
	}
}

func TestAdvanceRejectsPastTimestamps(t *testing.T) {
	store, start := newTestStore(t)
	if err := store.Advance(start.Add(time.Second)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		ts   time.Time
	}{
		{"before start", start.Add(-time.Nanosecond)},
		{"before last tick", start.Add(500 * time.Millisecond)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Advance(tt.ts)
			if !errors.Is(err, clock.ErrInvalidTimestamp) {
				t.Fatalf("Advance() error = %v, want ErrInvalidTimestamp", err)
			}
			snap := store.Snapshot()
			if snap.Ticks != 1 || snap.Elapsed() != time.Second {
				t.Fatalf("rejected tick mutated state: ticks=%d elapsed=%v", snap.Ticks, snap.Elapsed())
			}
		})
	}
}

func TestSnapshotIsStableAcrossTicks(t *testing.T) {
	store, start := newTestStore(t)
	snap := store.Snapshot()
	if err := store.Advance(start.Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	if snap.Ticks != 0 || !snap.Current.Equal(start) {
		t.Fatalf("snapshot changed after Advance: %+v", snap)
	}
}

func TestConcurrentAdvanceAndSnapshot(t *testing.T) {
	store, start := newTestStore(t)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 1; i <= 500; i++ {
			_ = store.Advance(start.Add(time.Duration(i) * time.Millisecond))
		}
	}()
	go func() {
		defer wg.Done()
		var last uint64
		for i := 0; i < 500; i++ {
			snap := store.Snapshot()
			if snap.Ticks < last {
				t.Errorf("ticks went backwards: %d after %d", snap.Ticks, last)
				return
			}
			last = snap.Ticks
		}
	}()
	wg.Wait()
	if got := store.Snapshot().Ticks; got != 500 {
		t.Fatalf("Ticks = %d, want 500", got)
	}
}

func TestPhaseString(t *testing.T) {
	store, _ := newTestStore(t)
	store.SetPhase(RUNNING)
	if got := store.Snapshot().Phase.String(); got != "running" {
		t.Fatalf("Phase = %q, want running", got)
	}
	if got := Phase(9).String(); got != "phase(9)" {
		t.Fatalf("Phase(9) = %q", got)
	}
}
