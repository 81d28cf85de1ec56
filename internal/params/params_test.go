package params

import (
	"errors"
	"math"
	"sync"
	"testing"
)

var testSurface = Surface{
	{Label: "Angle", Key: "angle", Min: 10, Max: 60, Step: 1, Default: 30},
	{Label: "Friction", Key: "friction", Min: 0, Max: 0.1, Step: 0.001, Default: 0.001},
}

func TestNewStoreDefaults(t *testing.T) {
	st, err := NewStore(testSurface, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	snap := st.Snapshot()
	if snap["angle"] != 30 {
		t.Errorf("expected angle 30, got %f", snap["angle"])
	}
	if snap["friction"] != 0.001 {
		t.Errorf("expected friction 0.001, got %f", snap["friction"])
	}
}

func TestNewStoreOverrides(t *testing.T) {
	st, err := NewStore(testSurface, map[string]float64{"angle": 45})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if v, _ := st.Get("angle"); v != 45 {
		t.Errorf("expected 45, got %f", v)
	}

	_, err = NewStore(testSurface, map[string]float64{"nope": 1})
	if !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestSetClamps(t *testing.T) {
	st, _ := NewStore(testSurface, nil)

	tests := []struct {
		in, want float64
	}{
		{5, 10},
		{90, 60},
		{42, 42},
		{math.NaN(), 30},
	}
	for _, tt := range tests {
		if err := st.Set("angle", tt.in); err != nil {
			t.Fatalf("set: %v", err)
		}
		if v, _ := st.Get("angle"); v != tt.want {
			t.Errorf("set(%v): expected %v, got %v", tt.in, tt.want, v)
		}
	}
}

func TestNudgeSnapsToStep(t *testing.T) {
	st, _ := NewStore(testSurface, nil)
	for i := 0; i < 7; i++ {
		if _, err := st.Nudge("friction", 1); err != nil {
			t.Fatalf("nudge: %v", err)
		}
	}
	v, _ := st.Get("friction")
	if math.Abs(v-0.008) > 1e-12 {
		t.Errorf("expected 0.008, got %.15f", v)
	}

	v, _ = st.Nudge("angle", -100)
	if v != 10 {
		t.Errorf("expected nudge to clamp at 10, got %f", v)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	st, _ := NewStore(testSurface, nil)
	snap := st.Snapshot()
	_ = st.Set("angle", 50)
	if snap["angle"] != 30 {
		t.Errorf("snapshot changed after store write: %f", snap["angle"])
	}
	snap["angle"] = 11
	if v, _ := st.Get("angle"); v != 50 {
		t.Errorf("store changed after snapshot write: %f", v)
	}
}

func TestSnapshotChanged(t *testing.T) {
	a := Snapshot{"angle": 30, "length": 500, "friction": 0.01}
	b := Snapshot{"angle": 45, "length": 500, "friction": 0.02}

	changed := a.Changed(b, []string{"angle", "length"})
	if len(changed) != 1 || changed[0] != "angle" {
		t.Errorf("expected [angle], got %v", changed)
	}

	if got := a.Changed(Snapshot{}, []string{"length"}); len(got) != 1 {
		t.Errorf("missing key should count as changed, got %v", got)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	st, _ := NewStore(testSurface, nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = st.Set("angle", float64(10+i))
		}(i)
		go func() {
			defer wg.Done()
			_ = st.Snapshot()
		}()
	}
	wg.Wait()
}
