package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/san-kum/kinelab/internal/audio"
	"github.com/san-kum/kinelab/internal/config"
	"github.com/san-kum/kinelab/internal/demo"
	"github.com/san-kum/kinelab/internal/lab"
	"github.com/san-kum/kinelab/internal/metrics"
	"github.com/san-kum/kinelab/internal/params"
	"github.com/spf13/cobra"
)

// loadConfig layers defaults, the config file, the preset and --set
// overrides, in that order. A demo argument replaces the configured demo.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if len(args) > 0 {
		if args[0] != cfg.Demo {
			cfg.Params = map[string]float64{}
		}
		cfg.Demo = args[0]
	}
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	for _, o := range overrides {
		k, v, err := config.ParseOverride(o)
		if err != nil {
			return nil, err
		}
		cfg.Params[k] = v
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("audio") {
		cfg.Audio.Enabled = withAudio
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger returns a json logger writing to the configured file, or a
// discarding one when no file is set. The terminal belongs to the host.
func newLogger(c config.LogConfig) (*slog.Logger, io.Closer, error) {
	if c.File == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(c.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("log file: %w", err)
	}
	h := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: parseLevel(c.Level)})
	return slog.New(h), f, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// host builds live sessions for the interactive front ends. Configured
// parameters apply only to the configured demo; demos picked from a menu
// start at their slider defaults.
type host struct {
	cfg   *config.Config
	log   *slog.Logger
	demos *demo.Registry
	sound *audio.Sonifier
}

func newHost(cfg *config.Config, log *slog.Logger) *host {
	return &host{cfg: cfg, log: log, demos: demo.NewRegistry(), sound: startSound(cfg, log)}
}

// startSound opens the audio stream when enabled. A missing device only
// disables sound.
func startSound(cfg *config.Config, log *slog.Logger) *audio.Sonifier {
	if !cfg.Audio.Enabled {
		return nil
	}
	s := audio.NewSonifier(cfg.Audio.Volume)
	if err := s.Start(); err != nil {
		log.Warn("audio disabled", "error", err)
		return nil
	}
	return s
}

func (h *host) Close() {
	if h.sound != nil {
		h.sound.Stop()
	}
}

func (h *host) build(name string) (demo.Definition, *params.Store, *lab.Session, error) {
	def, err := h.demos.Get(name)
	if err != nil {
		return demo.Definition{}, nil, nil, err
	}
	var values map[string]float64
	if name == h.cfg.Demo {
		values = h.cfg.Params
	}
	store, err := params.NewStore(def.Sliders, values)
	if err != nil {
		return demo.Definition{}, nil, nil, fmt.Errorf("%s: %w", name, err)
	}

	session := lab.New(def, lab.Options{
		Logger: h.log,
		Spawn:  h.cfg.SpawnOptions(),
		Metric: h.cfg.OverlayMetric(),
	})
	for _, m := range metrics.Default(name) {
		session.AddMetric(m)
	}
	if h.sound != nil {
		session.AddObserver(h.sound)
	}
	h.log.Info("demo loaded", "demo", name, "params", store.Snapshot())
	return def, store, session, nil
}
