package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/starfield/internal/app"
	"github.com/rook-computer/starfield/internal/config"
	"github.com/rook-computer/starfield/internal/render"
	"github.com/rook-computer/starfield/internal/system"
)

func main() {
	var fbDevice string
	cfg, err := config.Load(func(cfg *config.Config) {
		// Flags override the environment.
		flag.IntVar(&cfg.Width, "width", cfg.Width, "canvas width the star field is generated for")
		flag.IntVar(&cfg.Height, "height", cfg.Height, "canvas height the star field is generated for")
		flag.IntVar(&cfg.Stars, "stars", cfg.Stars, "number of stars")
		flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "star field seed; 0 picks one from the clock")
		flag.DurationVar(&cfg.RotationPeriod, "period", cfg.RotationPeriod, "time for one full rotation")
		flag.BoolVar(&cfg.HUD, "hud", cfg.HUD, "draw the title and rotation angle")
		flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging to ./starfield-debug.log")
		flag.StringVar(&cfg.StdioLog, "stdio-log", cfg.StdioLog, "redirect stdout+stderr (including panics) to this file; also configurable via STARFIELD_STDIO_LOG")
		flag.StringVar(&fbDevice, "fb", render.DefaultFBDevice, "framebuffer device")
		flag.Parse()
	})
	if err != nil {
		config.Exitf("config error: %v", err)
	}

	// Best-effort: the console is in graphics mode while we run, so panics
	// are only readable from a file.
	if cfg.StdioLog != "" {
		if err := redirectStdIO(cfg.StdioLog); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	var logger app.Logger = app.NoopLogger{}
	if cfg.Debug {
		f, err := os.OpenFile("./starfield-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	palette := render.PaletteFromHex(cfg.Foreground, cfg.Background)
	renderer := render.NewFBRenderer(cfg.Width, cfg.Height, palette)
	renderer.Device = fbDevice
	renderer.Logger = logger
	if cfg.HUD {
		renderer.HUD = render.NewHUD(cfg.Title, palette.Foreground, logger)
	}

	a, err := app.New(cfg, renderer)
	if err != nil {
		config.Exitf("app init error: %v", err)
	}
	a.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	restore := system.EnterGraphicsConsole(logger)
	defer restore()
	system.StartExitOnKeys(ctx, logger, system.DefaultExitKeys, func() { a.Exit(nil) })

	if err := a.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Errorf("main", "app error: %v", err)
		restore()
		config.Exitf("app error: %v", err)
	}
}
