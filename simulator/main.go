package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/gg"
	"github.com/rook-computer/starfield/internal/app"
	"github.com/rook-computer/starfield/internal/config"
	"github.com/rook-computer/starfield/internal/render"
	"github.com/rook-computer/starfield/internal/web"
)

func main() {
	var (
		staticDir string
		term      bool
		logPath   string
	)
	cfg, err := config.Load(func(cfg *config.Config) {
		flag.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "http listen address; also configurable via STARFIELD_LISTEN")
		flag.BoolVar(&cfg.DevMode, "dev", cfg.DevMode, "enable dev mode (permissive CORS); also configurable via STARFIELD_DEV")
		flag.IntVar(&cfg.Width, "width", cfg.Width, "canvas width")
		flag.IntVar(&cfg.Height, "height", cfg.Height, "canvas height")
		flag.IntVar(&cfg.Stars, "stars", cfg.Stars, "number of stars")
		flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "star field seed; 0 picks one from the clock")
		flag.DurationVar(&cfg.RotationPeriod, "period", cfg.RotationPeriod, "time for one full rotation")
		flag.BoolVar(&cfg.HUD, "hud", cfg.HUD, "draw the title and rotation angle")
		flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log at debug level")
		flag.StringVar(&staticDir, "static-dir", "", "serve static UI from this directory (optional); when empty, the embedded preview page is served")
		flag.BoolVar(&term, "term", false, "also show the animation in this terminal")
		flag.StringVar(&logPath, "log", "", "write logs to this file instead of stderr (implied as ./starfield-sim.log with -term)")
		flag.Parse()
	})
	if err != nil {
		config.Exitf("config error: %v", err)
	}

	// The terminal host owns the screen; keep logs off it.
	if term && logPath == "" {
		logPath = "./starfield-sim.log"
	}
	var logOut io.Writer = os.Stderr
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			config.Exitf("log open error: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slogger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	gg.SetLogger(slogger)
	logger := app.NewSlogLogger(slogger)

	palette := render.PaletteFromHex(cfg.Foreground, cfg.Background)
	host := web.NewFrameHost(cfg.Width, cfg.Height, palette)
	if cfg.HUD {
		host.HUD = render.NewHUD(cfg.Title, palette.Foreground, logger)
	}

	var renderer render.Renderer = host
	var termHost *render.TermRenderer
	if term {
		termHost = render.NewTermRenderer(cfg.Width, cfg.Height, palette)
		termHost.Logger = logger
		renderer = render.MultiRenderer{host, termHost}
	}

	a, err := app.New(cfg, renderer)
	if err != nil {
		config.Exitf("app init error: %v", err)
	}
	a.SetLogger(logger)
	if termHost != nil {
		termHost.OnExit = func() { a.Exit(nil) }
	}

	mux, err := web.NewDefaultMux(staticDir, web.APIV1Deps{
		Store: a.Store,
		Scene: a.Scene,
		Clock: a.Scene.Clock,
		Host:  host,
	})
	if err != nil {
		config.Exitf("web setup error: %v", err)
	}
	registerSimEndpoints(mux, NewSimControl(a))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := web.NewHTTPServer(cfg.ListenAddr, mux)
	server.DevMode = cfg.DevMode
	server.Logger = logger
	if err := server.Start(ctx); err != nil {
		config.Exitf("server start error: %v", err)
	}
	defer server.Stop()

	if !term {
		fmt.Println("Star field simulator listening on", server.Addr)
		fmt.Println("Preview: http://" + displayAddr(server.Addr) + "/")
	}

	if err := a.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Errorf("main", "app error: %v", err)
	}
}

func displayAddr(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	switch host {
	case "", "::", "0.0.0.0":
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
