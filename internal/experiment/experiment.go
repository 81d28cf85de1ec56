// Package experiment runs a demo headlessly for a fixed number of frames and
// records its overlay trace.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/kinelab/internal/demo"
	"github.com/san-kum/kinelab/internal/engine"
	"github.com/san-kum/kinelab/internal/lab"
	"github.com/san-kum/kinelab/internal/metrics"
	"github.com/san-kum/kinelab/internal/overlay"
	"github.com/san-kum/kinelab/internal/params"
	"github.com/san-kum/kinelab/internal/scene"
	"github.com/san-kum/kinelab/internal/spawn"
	"github.com/san-kum/kinelab/internal/storage"
)

type Config struct {
	Demo     string
	Frames   int
	Viewport scene.Viewport
	Params   map[string]float64
	Spawn    spawn.Config
	Metric   overlay.Metric
	Script   string
	// FPS paces frames in real time when positive; zero runs flat out.
	FPS    int
	Logger *slog.Logger
}

type Result struct {
	Meta    storage.RunMetadata
	Samples []storage.Sample
	Last    lab.Output
}

type Experiment struct {
	cfg      Config
	store    *params.Store
	session  *lab.Session
	script   Script
	recorder *recorder
}

// New resolves the demo and script, seeds the parameter store and wires the
// demo's default metrics and the trace recorder into a fresh session.
func New(cfg Config, demos *demo.Registry, scripts *Registry) (*Experiment, error) {
	def, err := demos.Get(cfg.Demo)
	if err != nil {
		return nil, err
	}
	if cfg.Script == "" {
		cfg.Script = DefaultScript(cfg.Demo)
	}
	script, err := scripts.Get(cfg.Script, cfg.Viewport)
	if err != nil {
		return nil, err
	}
	store, err := params.NewStore(def.Sliders, cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("experiment %s: %w", cfg.Demo, err)
	}

	session := lab.New(def, lab.Options{
		Logger: cfg.Logger,
		Spawn:  cfg.Spawn,
		Metric: cfg.Metric,
	})
	for _, m := range metrics.Default(cfg.Demo) {
		session.AddMetric(m)
	}
	rec := &recorder{session: session}
	session.AddObserver(rec)

	return &Experiment{
		cfg:      cfg,
		store:    store,
		session:  session,
		script:   script,
		recorder: rec,
	}, nil
}

// Session returns the underlying session for adding observers.
func (e *Experiment) Session() *lab.Session { return e.session }

// Run advances the session for the configured number of frames. A cancelled
// context stops it between frames.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	var pace <-chan time.Time
	if e.cfg.FPS > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(e.cfg.FPS))
		defer ticker.Stop()
		pace = ticker.C
	}

	var last lab.Output
	for f := 0; f < e.cfg.Frames; f++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if pace != nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-pace:
			}
		}
		last = e.session.Advance(lab.Input{
			Params:   e.store.Snapshot(),
			Pointer:  e.script.At(f),
			Viewport: e.cfg.Viewport,
		})
	}

	return &Result{
		Meta: storage.RunMetadata{
			Demo:     e.cfg.Demo,
			Seed:     e.cfg.Spawn.Seed,
			Duration: e.session.Elapsed(),
			Width:    e.cfg.Viewport.Width,
			Height:   e.cfg.Viewport.Height,
			Params:   e.store.Snapshot(),
			Metrics:  e.session.Metrics(),
		},
		Samples: e.recorder.samples,
		Last:    last,
	}, nil
}

// recorder turns every frame into one storage sample.
type recorder struct {
	session *lab.Session
	samples []storage.Sample
}

func (r *recorder) OnFrame(out lab.Output, w *engine.World) {
	sm := storage.Sample{
		Frame:         out.Frame,
		Time:          out.Time,
		Distance:      out.Readout.Distance,
		Speed:         out.Readout.Speed,
		Acceleration:  out.Readout.Acceleration,
		VSquared:      out.Readout.VSquared,
		TwoAS:         out.Readout.TwoAS,
		FinalSpeed:    out.Readout.FinalSpeed,
		KineticEnergy: w.KineticEnergy(),
		Bodies:        w.BodyCount(),
	}
	if b := r.session.Subject(); b != nil {
		pos := b.Position()
		sm.X, sm.Y = pos.X, pos.Y
	}
	r.samples = append(r.samples, sm)
}
