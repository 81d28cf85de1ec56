package lab

import (
	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/engine"
	"github.com/san-kum/kinelab/internal/overlay"
	"github.com/san-kum/kinelab/internal/params"
	"github.com/san-kum/kinelab/internal/render"
	"github.com/san-kum/kinelab/internal/scene"
	"github.com/san-kum/kinelab/internal/spawn"
)

type Pointer struct {
	Pos  cp.Vector
	Down bool
}

// Input is what the host hands the controller once per frame.
type Input struct {
	Params   params.Snapshot
	Pointer  Pointer
	Viewport scene.Viewport
}

// Output is one frame's result.
type Output struct {
	Frame   int
	Time    float64
	Cmds    []render.Cmd
	Readout overlay.Readout
	Rebuilt bool
	Reason  Reason
	Spawn   spawn.Result
}

// Metric accumulates one scalar over a run.
type Metric interface {
	Name() string
	Observe(w *engine.World, r overlay.Readout, t float64)
	Value() float64
	Reset()
}

// Observer sees every frame after it has been stepped and derived.
type Observer interface {
	OnFrame(out Output, w *engine.World)
}
