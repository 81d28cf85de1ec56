package analysis

import (
	"math"
	"strings"
	"testing"
)

func sine(freq, dt float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) * dt)
	}
	return out
}

func TestDominantFrequency(t *testing.T) {
	dt := 1.0 / 60
	got := DominantFrequency(sine(2, dt, 600), dt)
	if math.Abs(got-2) > 1e-9 {
		t.Errorf("expected 2 Hz, got %v", got)
	}
}

func TestDominantFrequency_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		dt   float64
	}{
		{"empty", nil, 0.1},
		{"single", []float64{1}, 0.1},
		{"flat", []float64{3, 3, 3, 3, 3, 3}, 0.1},
		{"zero dt", sine(2, 0.01, 100), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DominantFrequency(tt.data, tt.dt); got != 0 {
				t.Errorf("expected 0, got %v", got)
			}
		})
	}
}

func TestMeasuredPeriod(t *testing.T) {
	dt := 1.0 / 60
	got := MeasuredPeriod(sine(1.5, dt, 600), dt)
	if math.Abs(got-1/1.5) > 1e-3 {
		t.Errorf("expected period %v, got %v", 1/1.5, got)
	}
	if MeasuredPeriod([]float64{0, 1, 2, 3, 4}, dt) != 0 {
		t.Error("a ramp has no period")
	}
}

func TestVelocity(t *testing.T) {
	data := []float64{0, 1, 4, 9, 16}
	v := Velocity(data, 1)
	want := []float64{1, 2, 4, 6, 7}
	for i := range want {
		if v[i] != want[i] {
			t.Errorf("v[%d] = %v, want %v", i, v[i], want[i])
		}
	}
	if got := Velocity([]float64{5}, 1); len(got) != 1 || got[0] != 0 {
		t.Errorf("single sample should give zero velocity, got %v", got)
	}
}

func TestPhasePortrait(t *testing.T) {
	p := NewPhasePortrait([]float64{1, 2, 3}, []float64{4, 5})
	if len(p.Points) != 2 || p.Points[1].X != 2 || p.Points[1].Y != 5 {
		t.Errorf("unexpected points %+v", p.Points)
	}
}

func TestPhasePortraitToASCII(t *testing.T) {
	dt := 1.0 / 60
	x := sine(1, dt, 120)
	out := PhasePortraitToASCII(NewPhasePortrait(x, Velocity(x, dt)), 40, 12)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(lines))
	}
	for i, l := range lines {
		if n := len([]rune(l)); n != 40 {
			t.Errorf("row %d has %d columns", i, n)
		}
	}
	if !strings.Contains(out, "•") || !strings.Contains(out, "│") || !strings.Contains(out, "─") {
		t.Errorf("expected points and both axes:\n%s", out)
	}
	if PhasePortraitToASCII(&PhasePortrait2D{}, 40, 12) != "" {
		t.Error("empty portrait should render nothing")
	}
}
