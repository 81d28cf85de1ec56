package metrics

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/engine"
	"github.com/san-kum/kinelab/internal/overlay"
	"github.com/san-kum/kinelab/internal/params"
	"github.com/san-kum/kinelab/internal/scene"
)

func fallingWorld(t *testing.T) *engine.World {
	t.Helper()
	w := engine.NewWorld()
	if err := w.Load(scene.BuildFalling(params.Snapshot{}, scene.Viewport{Width: 800, Height: 600})); err != nil {
		t.Fatal(err)
	}
	return w
}

func TestEnergyGrowsWhileFalling(t *testing.T) {
	w := fallingWorld(t)
	w.AddBody(scene.Box(cp.Vector{X: 400, Y: 50}, 30))
	m := NewEnergy()

	m.Observe(w, overlay.Readout{}, 0)
	if m.Value() != 0 {
		t.Errorf("expected zero energy at rest, got %f", m.Value())
	}

	for i := 0; i < 10; i++ {
		w.Step(engine.DefaultStepParams())
	}
	m.Observe(w, overlay.Readout{}, 0)
	if m.Value() <= 0 {
		t.Error("expected positive mean energy once falling")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("reset should clear the mean")
	}
}

func TestPeakSpeed(t *testing.T) {
	m := NewPeakSpeed()
	for _, v := range []float64{3, 9, 4} {
		m.Observe(nil, overlay.Readout{Speed: v}, 0)
	}
	if m.Value() != 9 {
		t.Errorf("expected 9, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(5)
	if m.Value() != 1 {
		t.Error("no samples should read as stable")
	}
	for _, v := range []float64{1, 2, 10, 20} {
		m.Observe(nil, overlay.Readout{Tracking: true, Speed: v}, 0)
	}
	m.Observe(nil, overlay.Readout{Speed: 100}, 0)
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestKinematicsError(t *testing.T) {
	m := NewKinematicsError(50)
	m.Observe(nil, overlay.Readout{Tracking: true, Distance: 10, VSquared: 1, TwoAS: 100}, 0)
	m.Observe(nil, overlay.Readout{Tracking: true, Distance: 100, VSquared: 90, TwoAS: 100}, 0)
	m.Observe(nil, overlay.Readout{Tracking: true, Distance: 300, Landed: true, VSquared: 1, TwoAS: 100}, 0)

	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("expected 0.1, got %f", m.Value())
	}
}

func TestPopulation(t *testing.T) {
	w := fallingWorld(t)
	m := NewPopulation(scene.RoleBox)
	if m.Name() != "box_count" {
		t.Errorf("unexpected name %q", m.Name())
	}

	a := w.AddBody(scene.Box(cp.Vector{X: 100, Y: 50}, 30))
	w.AddBody(scene.Box(cp.Vector{X: 200, Y: 50}, 30))
	m.Observe(w, overlay.Readout{}, 0)
	if err := w.RemoveBody(a); err != nil {
		t.Fatal(err)
	}
	m.Observe(w, overlay.Readout{}, 0)

	if m.Value() != 2 {
		t.Errorf("expected peak of 2, got %f", m.Value())
	}
}

func TestDefault(t *testing.T) {
	for demo, want := range map[string]int{"falling": 2, "spring": 3, "ramp": 3} {
		if got := len(Default(demo)); got != want {
			t.Errorf("%s: expected %d metrics, got %d", demo, want, got)
		}
	}
}
