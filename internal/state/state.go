package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/rook-computer/starfield/internal/clock"
	"github.com/rook-computer/starfield/internal/starfield"
)

type Phase int

const (
	BOOTING Phase = iota
	RUNNING
	STOPPED
)

func (p Phase) String() string {
	switch p {
	case BOOTING:
		return "booting"
	case RUNNING:
		return "running"
	case STOPPED:
		return "stopped"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is the animation state of the scene. Stars is shared read-only
// between snapshots; Current and Ticks are the only fields that move.
type State struct {
	Phase   Phase
	Stars   []starfield.Star
	Start   time.Time
	Current time.Time
	Ticks   uint64
}

// Elapsed returns the animation time reached by the last tick.
func (s State) Elapsed() time.Duration {
	return s.Current.Sub(s.Start)
}

// Store owns the scene state. Ticks write through Advance; paints read
// value snapshots.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore(stars []starfield.Star, start time.Time) *Store {
	return &Store{state: State{Phase: BOOTING, Stars: stars, Start: start, Current: start}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

// Advance moves the current time to ts. Timestamps earlier than the start
// or than the previous tick are rejected and leave the state untouched.
func (store *Store) Advance(ts time.Time) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if ts.Before(store.state.Start) {
		return fmt.Errorf("advance: %w", clock.ErrInvalidTimestamp)
	}
	if ts.Before(store.state.Current) {
		return fmt.Errorf("advance: %w: %s behind last tick", clock.ErrInvalidTimestamp, store.state.Current.Sub(ts))
	}
	store.state.Current = ts
	store.state.Ticks++
	return nil
}
