package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/lab"
	"github.com/san-kum/kinelab/internal/scene"
)

var ErrUnknownScript = errors.New("experiment: unknown pointer script")

// Press holds the pointer down for frames [From, To), moving it linearly
// from Start to End.
type Press struct {
	From, To   int
	Start, End cp.Vector
}

// Script is the pointer a headless run replays in place of a user.
type Script []Press

func (s Script) At(frame int) lab.Pointer {
	for _, p := range s {
		if frame < p.From || frame >= p.To {
			continue
		}
		t := 0.0
		if span := p.To - p.From - 1; span > 0 {
			t = float64(frame-p.From) / float64(span)
		}
		return lab.Pointer{Pos: p.Start.Lerp(p.End, t), Down: true}
	}
	return lab.Pointer{}
}

type Registry struct {
	scripts map[string]func(scene.Viewport) Script
}

func NewRegistry() *Registry {
	r := &Registry{
		scripts: make(map[string]func(scene.Viewport) Script),
	}

	r.scripts["idle"] = func(scene.Viewport) Script { return nil }
	r.scripts["hold"] = func(vp scene.Viewport) Script {
		at := cp.Vector{X: vp.Width / 2, Y: vp.Height / 3}
		return Script{{From: 0, To: 60, Start: at, End: at}}
	}
	r.scripts["pluck"] = func(vp scene.Viewport) Script {
		weight := cp.Vector{X: vp.Width / 2, Y: scene.WeightY}
		return Script{{From: 0, To: 30, Start: weight, End: weight.Add(cp.Vector{Y: 120})}}
	}
	r.scripts["tap"] = func(vp scene.Viewport) Script {
		at := cp.Vector{X: vp.Width / 2, Y: vp.Height / 2}
		return Script{{From: 300, To: 301, Start: at, End: at}}
	}

	return r
}

func (r *Registry) Get(name string, vp scene.Viewport) (Script, error) {
	fn, ok := r.scripts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScript, name)
	}
	return fn(vp), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scripts))
	for name := range r.scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultScript is the pointer script that shows a demo off when none is
// named.
func DefaultScript(demo string) string {
	switch demo {
	case "falling":
		return "hold"
	case "spring":
		return "pluck"
	}
	return "idle"
}
