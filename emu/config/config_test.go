package config

import (
	"image/color"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

func loadYAML(t *testing.T, doc string) (Config, error) {
	t.Helper()

	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(doc)); err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	return Load(v)
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadYAML(t, "")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Refresh != 60 || cfg.Cycles != 10 || cfg.Stack != 16 || cfg.Scale != 10 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	pal, err := cfg.Palette()
	if err != nil {
		t.Fatal(err)
	}
	if pal.Unlit != (color.RGBA{R: 0xf9, G: 0x91, B: 0x2f, A: 0xff}) {
		t.Errorf("Unlit = %v", pal.Unlit)
	}

	home, err := homedir.Dir()
	if err != nil {
		t.Skip("no home directory")
	}
	if want := filepath.Join(home, "chyp8", "screenshots"); cfg.Screenshots != want {
		t.Errorf("Screenshots\nwant:%s\nhave:%s", want, cfg.Screenshots)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := loadYAML(t, `
refresh: 30
cycles: 20
stack: 256
keys: "x123qweasdzc4rfv"
lit: "#00ff00"
log-level: debug
`)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Refresh != 30 || cfg.Cycles != 20 || cfg.Stack != 256 {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	keys, err := cfg.Keymap()
	if err != nil {
		t.Fatal(err)
	}
	if keys[0] != 'x' || keys[0xF] != 'v' {
		t.Errorf("Keymap = %q", string(keys[:]))
	}

	level, err := cfg.Level()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("Level = %v, %v", level, err)
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		Name   string
		Modify func(c *Config)
		Want   string
	}{
		{"refresh", func(c *Config) { c.Refresh = 0 }, "refresh"},
		{"refresh too fast", func(c *Config) { c.Refresh = 2000000000 }, "refresh"},
		{"cycles", func(c *Config) { c.Cycles = -1 }, "cycles"},
		{"stack too deep", func(c *Config) { c.Stack = 257 }, "stack"},
		{"scale", func(c *Config) { c.Scale = 0 }, "scale"},
		{"short keymap", func(c *Config) { c.Keys = "0123" }, "16 keys"},
		{"duplicate key", func(c *Config) { c.Keys = "0023456789abcdef" }, "twice"},
		{"bad key", func(c *Config) { c.Keys = "0123456789abcde!" }, "letter or digit"},
		{"bad color", func(c *Config) { c.Lit = "white" }, "lit"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log-level"},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			cfg := Default()
			test.Modify(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate succeeded")
			}
			if !strings.Contains(err.Error(), test.Want) {
				t.Errorf("error %q does not mention %q", err, test.Want)
			}
		})
	}
}
