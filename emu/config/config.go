// Package config holds the emulator settings shared by every frontend.
// Values come from flags, CHYP8_* environment variables and the optional
// ~/.chyp8 config file, merged by viper.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/beanboi7/chyp8/emu/capture"
	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/host"
)

const (
	KeyRefresh     = "refresh"
	KeyCycles      = "cycles"
	KeyStack       = "stack"
	KeyScale       = "scale"
	KeySeed        = "seed"
	KeyKeys        = "keys"
	KeyLit         = "lit"
	KeyUnlit       = "unlit"
	KeyVolume      = "volume"
	KeyMute        = "mute"
	KeyTone        = "tone"
	KeySound       = "sound"
	KeyScreenshots = "screenshots"
	KeyLogLevel    = "log-level"
)

// DefaultKeys maps logical keys 0..F to the physical keys of the same name.
const DefaultKeys = "0123456789abcdef"

type Config struct {
	Refresh     int     `mapstructure:"refresh"`
	Cycles      int     `mapstructure:"cycles"`
	Stack       int     `mapstructure:"stack"`
	Scale       int     `mapstructure:"scale"`
	Seed        int64   `mapstructure:"seed"`
	Keys        string  `mapstructure:"keys"`
	Lit         string  `mapstructure:"lit"`
	Unlit       string  `mapstructure:"unlit"`
	Volume      float64 `mapstructure:"volume"`
	Mute        bool    `mapstructure:"mute"`
	Tone        float64 `mapstructure:"tone"`
	Sound       string  `mapstructure:"sound"`
	Screenshots string  `mapstructure:"screenshots"`
	LogLevel    string  `mapstructure:"log-level"`
}

func Default() Config {
	return Config{
		Refresh:     60,
		Cycles:      cpu.DefaultBatchSize,
		Stack:       cpu.DefaultStackDepth,
		Scale:       10,
		Keys:        DefaultKeys,
		Lit:         "#ffffff",
		Unlit:       "#f9912f",
		Volume:      0,
		Tone:        440,
		Screenshots: "~/chyp8/screenshots",
		LogLevel:    "info",
	}
}

// SetDefaults registers Default() with v so unset keys fall back to it.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyRefresh, d.Refresh)
	v.SetDefault(KeyCycles, d.Cycles)
	v.SetDefault(KeyStack, d.Stack)
	v.SetDefault(KeyScale, d.Scale)
	v.SetDefault(KeySeed, d.Seed)
	v.SetDefault(KeyKeys, d.Keys)
	v.SetDefault(KeyLit, d.Lit)
	v.SetDefault(KeyUnlit, d.Unlit)
	v.SetDefault(KeyVolume, d.Volume)
	v.SetDefault(KeyMute, d.Mute)
	v.SetDefault(KeyTone, d.Tone)
	v.SetDefault(KeySound, d.Sound)
	v.SetDefault(KeyScreenshots, d.Screenshots)
	v.SetDefault(KeyLogLevel, d.LogLevel)
}

// Load decodes v into a Config, expands ~ in paths and validates the result.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	var err error
	if cfg.Sound, err = homedir.Expand(cfg.Sound); err != nil {
		return Config{}, fmt.Errorf("sound: %w", err)
	}
	if cfg.Screenshots, err = homedir.Expand(cfg.Screenshots); err != nil {
		return Config{}, fmt.Errorf("screenshots: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Refresh <= 0 || c.Refresh > host.MaxRefresh {
		errs = append(errs, fmt.Errorf("refresh must be in 1..%d Hz, got %d", host.MaxRefresh, c.Refresh))
	}
	if c.Cycles <= 0 {
		errs = append(errs, fmt.Errorf("cycles must be positive, got %d", c.Cycles))
	}
	if c.Stack <= 0 || c.Stack > cpu.MaxStackDepth {
		errs = append(errs, fmt.Errorf("stack must be in 1..%d, got %d", cpu.MaxStackDepth, c.Stack))
	}
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("scale must be positive, got %d", c.Scale))
	}
	if c.Tone <= 0 {
		errs = append(errs, fmt.Errorf("tone must be positive, got %g", c.Tone))
	}
	if _, err := c.Keymap(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Palette(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Keymap returns the physical key for each logical key 0..F.
func (c Config) Keymap() ([16]rune, error) {
	var keys [16]rune

	runes := []rune(strings.ToLower(c.Keys))
	if len(runes) != len(keys) {
		return keys, fmt.Errorf("keys must name 16 keys, got %d", len(runes))
	}

	seen := make(map[rune]bool, len(keys))
	for i, r := range runes {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z') {
			return keys, fmt.Errorf("keys: %q is not a letter or digit", r)
		}
		if seen[r] {
			return keys, fmt.Errorf("keys: %q mapped twice", r)
		}
		seen[r] = true
		keys[i] = r
	}
	return keys, nil
}

func (c Config) Palette() (capture.Palette, error) {
	lit, err := parseColor(c.Lit)
	if err != nil {
		return capture.Palette{}, fmt.Errorf("lit: %w", err)
	}
	unlit, err := parseColor(c.Unlit)
	if err != nil {
		return capture.Palette{}, fmt.Errorf("unlit: %w", err)
	}
	return capture.Palette{Lit: lit, Unlit: unlit}, nil
}

func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("log-level: %w", err)
	}
	return level, nil
}

// parseColor accepts #rrggbb.
func parseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("%q is not a #rrggbb color", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%q is not a #rrggbb color", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}
