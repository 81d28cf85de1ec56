package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func samples() []Sample {
	return []Sample{
		{Frame: 0, Time: 0, X: 170, Y: 500, Speed: 0, Acceleration: 500, Bodies: 4},
		{Frame: 1, Time: 1.0 / 60, X: 170.1, Y: 500.1, Distance: 0.14, Speed: 8.3, Acceleration: 500, VSquared: 68.89, TwoAS: 140, Bodies: 4},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{
		Demo:    "ramp",
		Seed:    42,
		Params:  map[string]float64{"angle": 30},
		Metrics: map[string]float64{"peak_speed": 8.3},
	}, samples())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "ramp_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Demo != "ramp" || meta.Seed != 42 || meta.Frames != 2 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["peak_speed"] != 8.3 || meta.Params["angle"] != 30 {
		t.Errorf("maps not persisted: %+v", meta)
	}

	got, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got))
	}
	if got[1].Frame != 1 || got[1].Speed != 8.3 || got[1].Bodies != 4 || got[1].TwoAS != 140 {
		t.Errorf("unexpected sample %+v", got[1])
	}
}

func TestLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadSamples("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	st := New(t.TempDir())
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	st.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	for _, d := range []string{"falling", "spring", "ramp"} {
		if _, err := st.Save(RunMetadata{Demo: d}, nil); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 || runs[0].Demo != "ramp" || runs[2].Demo != "falling" {
		t.Errorf("unexpected order %+v", runs)
	}
}

func TestListMissingDir(t *testing.T) {
	runs, err := New("/nonexistent/kinelab/runs").List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v %v", runs, err)
	}
}

func TestSeries(t *testing.T) {
	speed, err := Series(samples(), "speed")
	if err != nil {
		t.Fatal(err)
	}
	if len(speed) != 2 || speed[1] != 8.3 {
		t.Errorf("unexpected series %v", speed)
	}
	if _, err := Series(samples(), "colour"); err == nil {
		t.Error("expected an error for an unknown column")
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, RunMetadata{ID: "ramp_1", Demo: "ramp"}, samples()); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		ID      string   `json:"id"`
		Samples []Sample `json:"samples"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.ID != "ramp_1" || len(doc.Samples) != 2 {
		t.Errorf("unexpected document %+v", doc)
	}
}
