package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/kinelab/internal/overlay"
	"github.com/san-kum/kinelab/internal/scene"
	"github.com/san-kum/kinelab/internal/spawn"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDemo   = "ramp"
	DefaultFPS    = 60
	DefaultFrames = 600
	DefaultWidth  = 1200.0
	DefaultHeight = 800.0
	DefaultVolume = 0.2
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Demo     string             `yaml:"demo"`
	FPS      int                `yaml:"fps"`
	Frames   int                `yaml:"frames"`
	Viewport scene.Viewport     `yaml:"viewport"`
	Params   map[string]float64 `yaml:"params,omitempty"`
	Spawn    SpawnConfig        `yaml:"spawn"`
	Overlay  OverlayConfig      `yaml:"overlay"`
	Log      LogConfig          `yaml:"log"`
	Audio    AudioConfig        `yaml:"audio"`
}

type SpawnConfig struct {
	Interval int     `yaml:"interval"`
	Capacity int     `yaml:"capacity"`
	Policy   string  `yaml:"policy"`
	SizeMin  float64 `yaml:"size_min"`
	SizeMax  float64 `yaml:"size_max"`
	Seed     int64   `yaml:"seed"`
}

type OverlayConfig struct {
	Metric string `yaml:"metric"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

func DefaultConfig() *Config {
	sp := spawn.DefaultConfig()
	return &Config{
		Demo:     DefaultDemo,
		FPS:      DefaultFPS,
		Frames:   DefaultFrames,
		Viewport: scene.Viewport{Width: DefaultWidth, Height: DefaultHeight},
		Params:   map[string]float64{},
		Spawn: SpawnConfig{
			Interval: sp.Interval,
			Capacity: sp.Capacity,
			Policy:   sp.Policy.String(),
			SizeMin:  sp.SizeMin,
			SizeMax:  sp.SizeMax,
			Seed:     sp.Seed,
		},
		Overlay: OverlayConfig{Metric: overlay.MetricProjection.String()},
		Log:     LogConfig{Level: "info"},
		Audio:   AudioConfig{Volume: DefaultVolume},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	if cfg.Params == nil {
		cfg.Params = map[string]float64{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields a host cannot run without. Parameter values are
// not range-checked here; the parameter store clamps them.
func (c *Config) Validate() error {
	switch {
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.FPS)
	case c.Frames < 0:
		return fmt.Errorf("%w: frames must not be negative, got %d", ErrInvalid, c.Frames)
	case c.Viewport.Width <= 0 || c.Viewport.Height <= 0:
		return fmt.Errorf("%w: viewport must be positive, got %vx%v", ErrInvalid, c.Viewport.Width, c.Viewport.Height)
	case c.Spawn.Interval <= 0:
		return fmt.Errorf("%w: spawn interval must be positive, got %d", ErrInvalid, c.Spawn.Interval)
	case c.Spawn.Capacity < 0:
		return fmt.Errorf("%w: spawn capacity must not be negative, got %d", ErrInvalid, c.Spawn.Capacity)
	case c.Spawn.Policy != "" && c.Spawn.Policy != spawn.DropOldest.String() && c.Spawn.Policy != spawn.Refuse.String():
		return fmt.Errorf("%w: unknown spawn policy %q", ErrInvalid, c.Spawn.Policy)
	case c.Spawn.SizeMax < c.Spawn.SizeMin:
		return fmt.Errorf("%w: spawn size_max %v below size_min %v", ErrInvalid, c.Spawn.SizeMax, c.Spawn.SizeMin)
	case c.Overlay.Metric != "" && c.Overlay.Metric != overlay.MetricProjection.String() && c.Overlay.Metric != overlay.MetricMagnitude.String():
		return fmt.Errorf("%w: unknown overlay metric %q", ErrInvalid, c.Overlay.Metric)
	case c.Audio.Volume < 0 || c.Audio.Volume > 1:
		return fmt.Errorf("%w: audio volume must be in [0,1], got %v", ErrInvalid, c.Audio.Volume)
	}
	return nil
}

func (c *Config) SpawnOptions() spawn.Config {
	return spawn.Config{
		Interval: c.Spawn.Interval,
		Capacity: c.Spawn.Capacity,
		Policy:   spawn.ParsePolicy(c.Spawn.Policy),
		SizeMin:  c.Spawn.SizeMin,
		SizeMax:  c.Spawn.SizeMax,
		Seed:     c.Spawn.Seed,
	}
}

func (c *Config) OverlayMetric() overlay.Metric {
	return overlay.ParseMetric(c.Overlay.Metric)
}

// ApplyPreset layers a named preset's parameters over the current ones.
func (c *Config) ApplyPreset(name string) error {
	p := GetPreset(c.Demo, name)
	if p == nil {
		return fmt.Errorf("%w: no preset %q for demo %q", ErrInvalid, name, c.Demo)
	}
	if c.Params == nil {
		c.Params = map[string]float64{}
	}
	for k, v := range p.Params {
		c.Params[k] = v
	}
	return nil
}

// ParseOverride splits a key=value flag into its parts.
func ParseOverride(s string) (string, float64, error) {
	key, raw, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", 0, fmt.Errorf("%w: override %q is not key=value", ErrInvalid, s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: override %q: %v", ErrInvalid, s, err)
	}
	return key, v, nil
}
