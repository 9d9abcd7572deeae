package app

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rook-computer/starfield/internal/clock"
	"github.com/rook-computer/starfield/internal/config"
	"github.com/rook-computer/starfield/internal/render"
	"github.com/rook-computer/starfield/internal/starfield"
	"github.com/rook-computer/starfield/internal/state"
)

type App struct {
	Store  *state.Store
	Scene  *render.Scene
	Driver *Driver
	Render render.Renderer
	Logger Logger

	FrameInterval time.Duration

	paintMu    sync.Mutex
	lastBounds image.Rectangle

	exitOnce atomic.Bool
	exitCh   chan error
}

// New generates the star field for the configured canvas and wires the
// scene, the store and the tick driver. The canvas size is only used to
// seed the field; frames are drawn for whatever the renderer reports.
func New(cfg config.Config, renderer render.Renderer) (*App, error) {
	stars, err := starfield.Generate(float32(cfg.Width), float32(cfg.Height), cfg.Stars, starfield.NewSource(cfg.Seed))
	if err != nil {
		return nil, fmt.Errorf("generate stars: %w", err)
	}
	if renderer == nil {
		renderer = render.NewNoopRenderer(cfg.Width, cfg.Height)
	}

	store := state.NewStore(stars, time.Now())
	scene := render.NewScene(clock.New(cfg.RotationPeriod), render.PaletteFromHex(cfg.Foreground, cfg.Background))
	return &App{
		Store:         store,
		Scene:         scene,
		Driver:        NewDriver(cfg.TickInterval, store, scene),
		Render:        renderer,
		Logger:        NoopLogger{},
		FrameInterval: cfg.FrameInterval(),
		exitCh:        make(chan error, 1),
	}, nil
}

// SetLogger hands logger to every component that logs.
func (app *App) SetLogger(logger Logger) {
	if logger == nil {
		logger = NoopLogger{}
	}
	app.Logger = logger
	app.Driver.Logger = logger
	app.Scene.Logger = logger
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start runs the tick driver and the paint loop until ctx is done or Exit
// is called.
func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)

	if err := app.Render.Start(ctx); err != nil {
		app.Logger.Errorf("app", "renderer start error: %v", err)
		return err
	}
	defer app.Render.Stop()

	app.Store.SetPhase(state.RUNNING)
	defer app.Store.SetPhase(state.STOPPED)

	// First frame right away instead of waiting a full paint interval.
	app.Paint()

	loopCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		app.Driver.Run(loopCtx)
	}()
	go func() {
		defer wg.Done()
		app.RunLoop(loopCtx)
	}()

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-app.exitCh:
	}
	cancel()
	wg.Wait()

	accepted, rejected := app.Driver.Counts()
	app.Logger.Infof("app", "stopped after %d ticks (%d rejected)", accepted, rejected)
	return err
}

// Paint draws one frame for the renderer's current bounds from a state
// snapshot and presents it.
func (app *App) Paint() render.Frame {
	app.paintMu.Lock()
	defer app.paintMu.Unlock()

	bounds := app.Render.Bounds()
	if bounds != app.lastBounds {
		app.Logger.Infof("app", "canvas %dx%d", bounds.Dx(), bounds.Dy())
		app.lastBounds = bounds
	}
	frame := app.Scene.Draw(bounds, app.Store.Snapshot())
	app.Render.Present(frame)
	return frame
}

// RunLoop paints every FrameInterval until ctx is done.
func (app *App) RunLoop(ctx context.Context) {
	interval := app.FrameInterval
	if interval <= 0 {
		interval = time.Second / 30
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	lastLog := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame := app.Paint()
			if time.Since(lastLog) > time.Second {
				snap := app.Store.Snapshot()
				app.Logger.Infof("app", "heartbeat ticks=%d angle=%.3f backdrop=%+v system=%+v",
					snap.Ticks, frame.Angle, app.Scene.BackdropStats(), app.Scene.SystemStats())
				lastLog = time.Now()
			}
		}
	}
}
