package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Demo      string             `json:"demo"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Frames    int                `json:"frames"`
	Duration  float64            `json:"duration"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Params    map[string]float64 `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Sample is one frame of a recorded overlay trace.
type Sample struct {
	Frame         int     `json:"frame"`
	Time          float64 `json:"time"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Distance      float64 `json:"distance"`
	Speed         float64 `json:"speed"`
	Acceleration  float64 `json:"acceleration"`
	VSquared      float64 `json:"v_squared"`
	TwoAS         float64 `json:"two_as"`
	FinalSpeed    float64 `json:"final_speed"`
	KineticEnergy float64 `json:"kinetic_energy"`
	Bodies        int     `json:"bodies"`
}

var header = []string{"frame", "time", "x", "y", "distance", "speed", "acceleration", "v_squared", "two_as", "final_speed", "kinetic_energy", "bodies"}

func (s Sample) record() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	return []string{
		strconv.Itoa(s.Frame), f(s.Time), f(s.X), f(s.Y), f(s.Distance), f(s.Speed),
		f(s.Acceleration), f(s.VSquared), f(s.TwoAS), f(s.FinalSpeed), f(s.KineticEnergy),
		strconv.Itoa(s.Bodies),
	}
}

// Save writes a run's metadata and samples under a fresh run directory and
// returns the run id.
func (s *Store) Save(meta RunMetadata, samples []Sample) (string, error) {
	ts := s.now()
	runID := fmt.Sprintf("%s_%d", meta.Demo, ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = ts
	meta.Frames = len(samples)

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, samples); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteCSV writes samples with a header row.
func WriteCSV(out io.Writer, samples []Sample) error {
	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, sm := range samples {
		if err := w.Write(sm.record()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(header)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		sm, err := parseSample(rec)
		if err != nil {
			continue
		}
		samples = append(samples, sm)
	}
	return samples, nil
}

func parseSample(rec []string) (Sample, error) {
	var (
		sm   Sample
		err  error
		vals [10]float64
	)
	if sm.Frame, err = strconv.Atoi(rec[0]); err != nil {
		return sm, err
	}
	for i := range vals {
		if vals[i], err = strconv.ParseFloat(rec[i+1], 64); err != nil {
			return sm, err
		}
	}
	if sm.Bodies, err = strconv.Atoi(rec[11]); err != nil {
		return sm, err
	}
	sm.Time, sm.X, sm.Y = vals[0], vals[1], vals[2]
	sm.Distance, sm.Speed, sm.Acceleration = vals[3], vals[4], vals[5]
	sm.VSquared, sm.TwoAS, sm.FinalSpeed, sm.KineticEnergy = vals[6], vals[7], vals[8], vals[9]
	return sm, nil
}

// Series extracts one named column from samples, for plotting.
func Series(samples []Sample, column string) ([]float64, error) {
	pick := map[string]func(Sample) float64{
		"x":              func(s Sample) float64 { return s.X },
		"y":              func(s Sample) float64 { return s.Y },
		"distance":       func(s Sample) float64 { return s.Distance },
		"speed":          func(s Sample) float64 { return s.Speed },
		"v_squared":      func(s Sample) float64 { return s.VSquared },
		"two_as":         func(s Sample) float64 { return s.TwoAS },
		"kinetic_energy": func(s Sample) float64 { return s.KineticEnergy },
		"bodies":         func(s Sample) float64 { return float64(s.Bodies) },
	}[column]
	if pick == nil {
		return nil, fmt.Errorf("storage: unknown column %q", column)
	}
	out := make([]float64, len(samples))
	for i, sm := range samples {
		out[i] = pick(sm)
	}
	return out, nil
}

// ExportJSON writes a run's metadata and samples as a single JSON document.
func ExportJSON(out io.Writer, meta RunMetadata, samples []Sample) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		RunMetadata
		Samples []Sample `json:"samples"`
	}{meta, samples})
}
