// Package demo describes the three demos: their slider surfaces, which
// parameters force a rebuild, how the pointer behaves and how live
// parameters are pushed into an already-built world.
package demo

import (
	"math"

	"github.com/san-kum/kinelab/internal/engine"
	"github.com/san-kum/kinelab/internal/params"
	"github.com/san-kum/kinelab/internal/scene"
)

type PointerMode uint8

const (
	// PointerSpawn drops boxes under a held pointer.
	PointerSpawn PointerMode = iota
	// PointerDrag grabs the dynamic body under the pointer.
	PointerDrag
	// PointerReset rebuilds the scene on press.
	PointerReset
)

func (m PointerMode) String() string {
	switch m {
	case PointerSpawn:
		return "spawn"
	case PointerDrag:
		return "drag"
	case PointerReset:
		return "reset"
	}
	return "unknown"
}

// Definition is everything the controller needs to run one demo.
type Definition struct {
	Name    string
	Title   string
	Hint    string
	Sliders params.Surface
	// Structural keys rebuild the scene when they change; every other key is
	// patched into the live world each frame.
	Structural []string
	Pointer    PointerMode
	// ResetOffscreen rebuilds the scene once the tracked body leaves the viewport.
	ResetOffscreen bool

	Build func(params.Snapshot, scene.Viewport) scene.Scene
	Patch func(*engine.World, params.Snapshot)
}

// StepParams reads the world-level knobs from a snapshot. Demos that do not
// expose them run at scale 1.
func StepParams(p params.Snapshot) engine.StepParams {
	return engine.StepParams{
		GravityScale: p.Get(scene.KeyGravityScale, 1),
		TimeScale:    p.Get(scene.KeyTimeScale, 1),
	}
}

// massTolerance is the smallest mass change worth pushing into the engine.
const massTolerance = 0.1

func Falling() Definition {
	return Definition{
		Name:  "falling",
		Title: "Falling Shapes",
		Hint:  "hold the pointer down to drop boxes",
		Sliders: params.Surface{
			{Label: "Gravity Scale", Key: scene.KeyGravityScale, Min: 0, Max: 5, Step: 0.1, Default: 1},
			{Label: "Time Scale", Key: scene.KeyTimeScale, Min: 0.1, Max: 3, Step: 0.1, Default: 1},
		},
		Pointer: PointerSpawn,
		Build:   scene.BuildFalling,
		Patch:   func(*engine.World, params.Snapshot) {},
	}
}

func Spring() Definition {
	return Definition{
		Name:  "spring",
		Title: "Spring-Mass System",
		Hint:  "drag the weight to stretch the spring",
		Sliders: params.Surface{
			{Label: "Stiffness", Key: scene.KeyStiffness, Min: 0.001, Max: 0.2, Step: 0.001, Default: scene.DefaultStiffness},
			{Label: "Damping", Key: scene.KeyDamping, Min: 0, Max: 0.5, Step: 0.01, Default: scene.DefaultDamping},
			{Label: "Rest Length", Key: scene.KeyLength, Min: 50, Max: 400, Step: 10, Default: scene.DefaultRestLength},
			{Label: "Mass", Key: scene.KeyMass, Min: 1, Max: 50, Step: 1, Default: scene.DefaultMass},
		},
		Pointer: PointerDrag,
		Build:   scene.BuildSpring,
		Patch:   patchSpring,
	}
}

func Ramp() Definition {
	return Definition{
		Name:  "ramp",
		Title: "Ramp & Kinematics",
		Hint:  "click to reset the car",
		Sliders: params.Surface{
			{Label: "Angle", Key: scene.KeyAngle, Min: 10, Max: 60, Step: 1, Default: scene.DefaultRampAngle},
			{Label: "Length", Key: scene.KeyLength, Min: 300, Max: 800, Step: 50, Default: scene.DefaultRampLength},
			{Label: "Friction", Key: scene.KeyFriction, Min: 0, Max: 0.1, Step: 0.001, Default: scene.DefaultRampFriction},
		},
		Structural:     []string{scene.KeyAngle, scene.KeyLength},
		Pointer:        PointerReset,
		ResetOffscreen: true,
		Build:          scene.BuildRamp,
		Patch:          patchRamp,
	}
}

func patchSpring(w *engine.World, p params.Snapshot) {
	if springs := w.Springs(); len(springs) > 0 {
		s := springs[0]
		s.SetStiffness(scene.SpringStiffness(p.Get(scene.KeyStiffness, scene.DefaultStiffness)))
		s.SetDamping(scene.SpringDamping(p.Get(scene.KeyDamping, scene.DefaultDamping)))
		s.SetRestLength(p.Get(scene.KeyLength, scene.DefaultRestLength))
	}
	if weight := w.FirstWithRole(scene.RoleWeight); weight != nil {
		m := p.Get(scene.KeyMass, scene.DefaultMass)
		if math.Abs(weight.Mass()-m) > massTolerance {
			weight.SetMass(m)
		}
	}
}

func patchRamp(w *engine.World, p params.Snapshot) {
	if ramp := w.FirstWithRole(scene.RoleRamp); ramp != nil {
		ramp.SetFriction(p.Get(scene.KeyFriction, scene.DefaultRampFriction))
	}
}
