// Package config holds the runtime settings of the star field binaries.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is read from STARFIELD_* environment variables. Command-line
// flags in the binaries override it.
type Config struct {
	Width          int           `env:"STARFIELD_WIDTH" envDefault:"1024"`
	Height         int           `env:"STARFIELD_HEIGHT" envDefault:"768"`
	Stars          int           `env:"STARFIELD_STARS" envDefault:"100"`
	Seed           int64         `env:"STARFIELD_SEED" envDefault:"0"`
	TickInterval   time.Duration `env:"STARFIELD_TICK" envDefault:"10ms"`
	RotationPeriod time.Duration `env:"STARFIELD_PERIOD" envDefault:"60s"`
	FPS            int           `env:"STARFIELD_FPS" envDefault:"30"`
	Foreground     string        `env:"STARFIELD_FG" envDefault:"#ffffff"`
	Background     string        `env:"STARFIELD_BG" envDefault:"#000000"`
	HUD            bool          `env:"STARFIELD_HUD" envDefault:"false"`
	Title          string        `env:"STARFIELD_TITLE" envDefault:"Rock Scissors Paper"`
	ListenAddr     string        `env:"STARFIELD_LISTEN" envDefault:":8080"`
	DevMode        bool          `env:"STARFIELD_DEV" envDefault:"false"`
	Debug          bool          `env:"STARFIELD_DEBUG" envDefault:"false"`
	StdioLog       string        `env:"STARFIELD_STDIO_LOG"`
}

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment, lets override adjust the result (the
// binaries bind their flags there, with env values as defaults) and
// validates what comes out. override may be nil.
func Load(override func(*Config)) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if override != nil {
		override(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the scene cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size must be positive (got %dx%d)", c.Width, c.Height))
	}
	if c.Stars < 0 {
		errs = append(errs, fmt.Errorf("star count must not be negative (got %d)", c.Stars))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick interval must be positive (got %s)", c.TickInterval))
	}
	if c.RotationPeriod <= 0 {
		errs = append(errs, fmt.Errorf("rotation period must be positive (got %s)", c.RotationPeriod))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive (got %d)", c.FPS))
	}
	if !hexColor.MatchString(c.Foreground) {
		errs = append(errs, fmt.Errorf("foreground must be a hex color (got %q)", c.Foreground))
	}
	if !hexColor.MatchString(c.Background) {
		errs = append(errs, fmt.Errorf("background must be a hex color (got %q)", c.Background))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// FrameInterval is the paint period derived from FPS.
func (c Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(c.FPS)
}
