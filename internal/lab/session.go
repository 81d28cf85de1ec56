// Package lab is the per-demo scene controller. A Session owns one world and
// turns a stream of per-frame inputs into stepped physics, spawned bodies,
// overlay readouts and draw commands.
package lab

import (
	"log/slog"

	"github.com/san-kum/kinelab/internal/demo"
	"github.com/san-kum/kinelab/internal/engine"
	"github.com/san-kum/kinelab/internal/overlay"
	"github.com/san-kum/kinelab/internal/params"
	"github.com/san-kum/kinelab/internal/render"
	"github.com/san-kum/kinelab/internal/scene"
	"github.com/san-kum/kinelab/internal/spawn"
)

type Options struct {
	Logger *slog.Logger
	Spawn  spawn.Config
	Metric overlay.Metric
}

func DefaultOptions() Options {
	return Options{
		Logger: slog.New(slog.DiscardHandler),
		Spawn:  spawn.DefaultConfig(),
		Metric: overlay.MetricProjection,
	}
}

// Session is not safe for concurrent use; a single frame loop drives it.
type Session struct {
	def     demo.Definition
	log     *slog.Logger
	world   *engine.World
	spawner *spawn.Spawner
	calc    *overlay.Calculator

	metrics   []Metric
	observers []Observer

	frame   scene.Frame
	prev    params.Snapshot
	vp      scene.Viewport
	pending Reason
	wasDown bool

	frameNo int
	elapsed float64
	builds  int
}

func New(def demo.Definition, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		def:     def,
		log:     opts.Logger.With("demo", def.Name),
		world:   engine.NewWorld(),
		spawner: spawn.New(opts.Spawn),
		calc:    overlay.NewCalculator(opts.Metric),
	}
}

func (s *Session) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Session) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Session) Definition() demo.Definition { return s.def }
func (s *Session) World() *engine.World        { return s.world }
func (s *Session) Spawner() *spawn.Spawner     { return s.spawner }
func (s *Session) Frame() scene.Frame          { return s.frame }
func (s *Session) FrameNo() int                { return s.frameNo }
func (s *Session) Elapsed() float64            { return s.elapsed }
func (s *Session) Builds() int                 { return s.builds }

// Reset asks for a rebuild at the start of the next frame.
func (s *Session) Reset() {
	s.pending = ReasonReset
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Metrics returns the current value of every registered metric.
func (s *Session) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Advance runs one frame: reconcile, pointer, step, spawn, derive, map.
func (s *Session) Advance(in Input) Output {
	p := in.Params
	if p == nil {
		p = params.Snapshot{}
	}
	press := in.Pointer.Down && !s.wasDown

	d := Reconcile(s.prev, p, s.def.Structural, s.vp, in.Viewport)
	if !d.Rebuild && s.pending != ReasonNone {
		d = Decision{Rebuild: true, Reason: s.pending}
	}
	if !d.Rebuild && press && s.def.Pointer == demo.PointerReset {
		d = Decision{Rebuild: true, Reason: ReasonPointer}
	}
	if d.Rebuild {
		s.rebuild(p, in.Viewport, d)
	}
	s.def.Patch(s.world, p)

	if s.def.Pointer == demo.PointerDrag {
		switch {
		case press:
			if b := s.world.Grab(in.Pointer.Pos); b != nil {
				s.log.Debug("grabbed body", "role", b.Role().String(), "id", b.ID())
			}
		case in.Pointer.Down:
			s.world.Drag(in.Pointer.Pos)
		case s.wasDown:
			s.world.Release()
		}
	}

	s.world.Step(demo.StepParams(p))
	s.elapsed += s.world.Dt()

	var spawned spawn.Result
	if s.def.Pointer == demo.PointerSpawn {
		spawned = s.spawner.MaybeSpawn(in.Pointer.Down, in.Pointer.Pos, s.frameNo, s.world)
		if spawned.Evicted {
			s.log.Debug("spawner evicted oldest body", "live", s.spawner.Live())
		}
		if spawned.Refused {
			s.log.Debug("spawner at capacity", "live", s.spawner.Live())
		}
		if spawned.Err != nil {
			s.log.Warn("spawner eviction failed", "error", spawned.Err)
		}
	}

	readout := s.derive()
	if s.def.ResetOffscreen && s.offscreen(in.Viewport) {
		s.pending = ReasonOffscreen
	}

	cmds := render.Map(s.world, s.frame, readout, in.Viewport)
	if s.def.Hint != "" {
		cmds = append(cmds, render.Hint(s.def.Hint, in.Viewport))
	}

	out := Output{
		Frame:   s.frameNo,
		Time:    s.elapsed,
		Cmds:    cmds,
		Readout: readout,
		Rebuilt: d.Rebuild,
		Reason:  d.Reason,
		Spawn:   spawned,
	}
	for _, m := range s.metrics {
		m.Observe(s.world, readout, s.elapsed)
	}
	for _, o := range s.observers {
		o.OnFrame(out, s.world)
	}

	s.frameNo++
	s.prev = p.Clone()
	s.vp = in.Viewport
	s.wasDown = in.Pointer.Down
	return out
}

func (s *Session) rebuild(p params.Snapshot, vp scene.Viewport, d Decision) {
	sc := s.def.Build(p, vp)
	if err := s.world.Load(sc); err != nil {
		// builders only emit in-range references; keep whatever loaded
		s.log.Error("scene load failed", "err", err)
	}
	s.frame = sc.Frame
	s.spawner.Forget()
	s.calc.Reset()
	s.pending = ReasonNone
	s.builds++
	s.log.Info("scene rebuilt",
		"reason", d.Reason.String(),
		"changed", d.Changed,
		"width", vp.Width,
		"height", vp.Height,
		"bodies", s.world.BodyCount(),
	)
}

// Subject is the body the overlay tracks, or nil when the demo tracks none.
func (s *Session) Subject() *engine.Body {
	if !s.frame.Tracks() {
		return nil
	}
	return s.world.SceneBody(s.frame.Subject)
}

func (s *Session) derive() overlay.Readout {
	b := s.Subject()
	if b == nil {
		return overlay.Readout{}
	}
	return s.calc.Derive(overlay.Sample{
		Position: b.Position(),
		Velocity: b.Velocity(),
		Frame:    s.frameNo,
	}, s.frame, s.world.Gravity())
}

// offscreen reports whether the tracked body has left past the right or
// bottom edge.
func (s *Session) offscreen(vp scene.Viewport) bool {
	b := s.Subject()
	if b == nil {
		return false
	}
	pos := b.Position()
	return pos.Y > vp.Height || pos.X > vp.Width
}
