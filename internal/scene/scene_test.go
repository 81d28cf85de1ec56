package scene

import (
	"math"
	"reflect"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/params"
)

var testViewport = Viewport{Width: 1200, Height: 800}

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestBuildRampDeterministic(t *testing.T) {
	p := params.Snapshot{KeyAngle: 37, KeyLength: 650, KeyFriction: 0.02}

	a := BuildRamp(p, testViewport)
	b := BuildRamp(p, testViewport)

	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical arguments produced different scenes")
	}
	for i := range a.Bodies {
		pa, pb := a.Bodies[i].Position, b.Bodies[i].Position
		if math.Float64bits(pa.X) != math.Float64bits(pb.X) || math.Float64bits(pa.Y) != math.Float64bits(pb.Y) {
			t.Errorf("body %d placement differs bitwise: %v vs %v", i, pa, pb)
		}
	}
}

func TestRampTopCorner(t *testing.T) {
	geo := PlaceRamp(testViewport, Radians(30), 500)

	// top end of the center line is (150, 760-250); upper face is 10px along the normal
	want := cp.Vector{X: 150 + 10*0.5, Y: 510 - 10*math.Sqrt(3)/2}
	if !near(geo.Top.X, want.X, 1e-9) || !near(geo.Top.Y, want.Y, 1e-9) {
		t.Errorf("expected top corner %v, got %v", want, geo.Top)
	}
	if !near(geo.LandingX, 150+500*math.Sqrt(3)/2, 1e-9) {
		t.Errorf("unexpected landing x %f", geo.LandingX)
	}
}

func TestCarRestsOnRamp(t *testing.T) {
	for _, deg := range []float64{10, 30, 45, 60} {
		p := params.Snapshot{KeyAngle: deg, KeyLength: 500}
		sc := BuildRamp(p, testViewport)
		geo := PlaceRamp(testViewport, Radians(deg), 500)

		car := sc.Bodies[sc.Find(RoleCar)]
		ramp := sc.Bodies[sc.Find(RoleRamp)]

		if d := DistanceToLine(car.Position, geo.Top, geo.Direction); !near(d, CarHeight/2, 1e-9) {
			t.Errorf("angle %v: car center is %f from the surface, want %f", deg, d, CarHeight/2)
		}
		if d := DistanceToLine(car.Position, ramp.Position, geo.Direction); !near(d, (RampThickness+CarHeight)/2, 1e-9) {
			t.Errorf("angle %v: car center is %f from the ramp axis", deg, d)
		}
		if side := car.Position.Sub(ramp.Position).Dot(geo.Normal); side <= 0 {
			t.Errorf("angle %v: car is below the ramp", deg)
		}
		if along := car.Position.Sub(geo.Top).Dot(geo.Direction); !near(along, CarLength/2, 1e-9) {
			t.Errorf("angle %v: car is %f down the slope, want %f", deg, along, CarLength/2)
		}
		if car.Angle != ramp.Angle {
			t.Errorf("angle %v: car angle %f does not match ramp %f", deg, car.Angle, ramp.Angle)
		}
	}
}

func TestRampFrame(t *testing.T) {
	sc := BuildRamp(params.Snapshot{KeyAngle: 30, KeyLength: 500}, testViewport)
	f := sc.Frame

	if !f.Tracks() || sc.Bodies[f.Subject].Role != RoleCar {
		t.Fatalf("frame should track the car, got subject %d", f.Subject)
	}
	if f.Origin != sc.Bodies[f.Subject].Position {
		t.Error("frame origin should be the car's spawn point")
	}
	if !near(f.Direction.Length(), 1, 1e-12) {
		t.Errorf("direction is not a unit vector: %v", f.Direction)
	}
	if f.SurfaceAngle != Radians(30) {
		t.Errorf("unexpected surface angle %f", f.SurfaceAngle)
	}
}

func TestGroundMatchesViewport(t *testing.T) {
	for _, vp := range []Viewport{{800, 600}, {1920, 1080}, {333, 777}} {
		for name, build := range map[string]func(params.Snapshot, Viewport) Scene{
			"ramp":    BuildRamp,
			"falling": BuildFalling,
		} {
			sc := build(params.Snapshot{}, vp)
			g := sc.Bodies[sc.Find(RoleGround)]
			if g.Geometry.Width != vp.Width || g.Geometry.Height != GroundHeight {
				t.Errorf("%s %v: ground is %vx%v", name, vp, g.Geometry.Width, g.Geometry.Height)
			}
			if g.Position != (cp.Vector{X: vp.Width / 2, Y: vp.Height - GroundHeight/2}) {
				t.Errorf("%s %v: ground at %v", name, vp, g.Position)
			}
		}
	}
}

func TestRampWallIsSensor(t *testing.T) {
	sc := BuildRamp(params.Snapshot{}, testViewport)
	wall := sc.Bodies[sc.Find(RoleWall)]
	if !wall.Sensor || wall.Kind != KindStatic {
		t.Errorf("wall should be a static sensor, got %+v", wall)
	}
	if wall.Geometry.Height != testViewport.Height {
		t.Errorf("wall height %f, want %f", wall.Geometry.Height, testViewport.Height)
	}
}

func TestBuildSpring(t *testing.T) {
	p := params.Snapshot{KeyStiffness: 0.1, KeyDamping: 0.2, KeyLength: 150, KeyMass: 7}
	sc := BuildSpring(p, testViewport)

	if len(sc.Constraints) != 1 {
		t.Fatalf("expected 1 spring, got %d", len(sc.Constraints))
	}
	c := sc.Constraints[0]
	if c.Stiffness != 0.1*StiffnessScale || c.Damping != 0.2*DampingScale || c.RestLength != 150 {
		t.Errorf("unexpected spring %+v", c)
	}
	if sc.Bodies[c.A].Role != RoleAnchor || sc.Bodies[c.B].Role != RoleWeight {
		t.Error("spring should connect anchor to weight")
	}
	if w := sc.Bodies[c.B]; w.Mass != 7 || w.Position.X != testViewport.Width/2 {
		t.Errorf("unexpected weight %+v", w)
	}
	if !math.IsInf(sc.Frame.LandingX, 1) {
		t.Error("spring demo should not detect landings")
	}
}

func TestBuildSpringDefaults(t *testing.T) {
	sc := BuildSpring(params.Snapshot{}, testViewport)
	c := sc.Constraints[0]
	if c.RestLength != DefaultRestLength || c.Stiffness != SpringStiffness(DefaultStiffness) {
		t.Errorf("defaults not applied: %+v", c)
	}
}

func TestBuildFallingTracksNothing(t *testing.T) {
	sc := BuildFalling(params.Snapshot{}, testViewport)
	if sc.Frame.Tracks() {
		t.Error("falling demo should not track a body")
	}
	if len(sc.Bodies) != 1 {
		t.Errorf("expected only the ground, got %d bodies", len(sc.Bodies))
	}
}

func TestBox(t *testing.T) {
	b := Box(cp.Vector{X: 10, Y: 20}, 30)
	if b.Kind != KindDynamic || b.Role != RoleBox {
		t.Errorf("unexpected box kind/role %v/%v", b.Kind, b.Role)
	}
	if !near(b.Mass, 0.9, 1e-12) {
		t.Errorf("expected mass 0.9, got %f", b.Mass)
	}
}

func TestExtremeCornerTieBreak(t *testing.T) {
	// axis-aligned: both left corners project to -50 on +x
	corners := RotatedCorners(cp.Vector{}, 100, 20, 0)
	up := cp.Vector{X: 0, Y: -1}

	got := ExtremeCorner(corners, cp.Vector{X: 1, Y: 0}, false, up)
	if got != (cp.Vector{X: -50, Y: -10}) {
		t.Errorf("expected upper-left corner, got %v", got)
	}
	got = ExtremeCorner(corners, cp.Vector{X: 1, Y: 0}, true, up.Neg())
	if got != (cp.Vector{X: 50, Y: 10}) {
		t.Errorf("expected lower-right corner, got %v", got)
	}
}

func TestPredictedPeriod(t *testing.T) {
	got := PredictedPeriod(5, 0.05)
	want := 2 * math.Pi * math.Sqrt(5/(0.05*StiffnessScale))
	if !near(got, want, 1e-12) {
		t.Errorf("expected %f, got %f", want, got)
	}
	if PredictedPeriod(5, 0) != 0 {
		t.Error("zero stiffness should yield 0")
	}
}

func TestDegenerateAngleDoesNotPanic(t *testing.T) {
	for _, deg := range []float64{0, 90} {
		sc := BuildRamp(params.Snapshot{KeyAngle: deg}, testViewport)
		if len(sc.Bodies) != 4 {
			t.Errorf("angle %v: expected 4 bodies, got %d", deg, len(sc.Bodies))
		}
	}
}
