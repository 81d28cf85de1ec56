// Package params holds the live, UI-editable parameter set of a demo.
//
// The UI writes into a [Store] at any time; the frame loop takes one
// [Snapshot] per frame and passes it by value into the controller, so the
// simulation never holds a reference to mutable UI state.
package params

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

var (
	// ErrUnknownParam indicates a key that is not part of the demo's surface.
	ErrUnknownParam = errors.New("params: unknown parameter")
)

// Slider describes one named numeric control.
type Slider struct {
	Label   string  `yaml:"label"`
	Key     string  `yaml:"key"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Step    float64 `yaml:"step"`
	Default float64 `yaml:"default"`
}

// Clamp limits v to the slider range.
func (s Slider) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return s.Default
	}
	return math.Max(s.Min, math.Min(s.Max, v))
}

// Surface is the fixed, ordered set of sliders a demo exposes.
type Surface []Slider

func (s Surface) Lookup(key string) (Slider, bool) {
	for _, sl := range s {
		if sl.Key == key {
			return sl, true
		}
	}
	return Slider{}, false
}

func (s Surface) Keys() []string {
	keys := make([]string, len(s))
	for i, sl := range s {
		keys[i] = sl.Key
	}
	return keys
}

func (s Surface) Defaults() Snapshot {
	snap := make(Snapshot, len(s))
	for _, sl := range s {
		snap[sl.Key] = sl.Default
	}
	return snap
}

// Snapshot is a frame-local copy of every parameter value.
type Snapshot map[string]float64

// Get returns the value for key, or fallback when the demo does not define it.
func (s Snapshot) Get(key string, fallback float64) float64 {
	if v, ok := s[key]; ok {
		return v
	}
	return fallback
}

func (s Snapshot) Clone() Snapshot {
	c := make(Snapshot, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Changed lists the keys (among keys) whose values differ between s and other.
// A key missing on one side counts as changed.
func (s Snapshot) Changed(other Snapshot, keys []string) []string {
	var changed []string
	for _, k := range keys {
		a, okA := s[k]
		b, okB := other[k]
		if okA != okB || a != b {
			changed = append(changed, k)
		}
	}
	return changed
}

// SortedKeys returns the snapshot's keys in lexical order.
func (s Snapshot) SortedKeys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Store is the mutable configuration owned by the UI. All methods are safe
// for concurrent use; a value written before a frame boundary is visible to
// the next Snapshot.
type Store struct {
	mu      sync.RWMutex
	surface Surface
	values  map[string]float64
}

// NewStore seeds a store with the surface defaults, then applies overrides.
// Unknown override keys are rejected.
func NewStore(surface Surface, overrides map[string]float64) (*Store, error) {
	s := &Store{
		surface: surface,
		values:  surface.Defaults(),
	}
	for k, v := range overrides {
		if err := s.Set(k, v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Surface() Surface { return s.surface }

// Set writes a value, clamped to the slider range.
func (s *Store) Set(key string, v float64) error {
	sl, ok := s.surface.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, key)
	}
	s.mu.Lock()
	s.values[key] = sl.Clamp(v)
	s.mu.Unlock()
	return nil
}

// Nudge moves a value by n slider steps and returns the new value.
func (s *Store) Nudge(key string, n int) (float64, error) {
	sl, ok := s.surface.Lookup(key)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParam, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := sl.Clamp(s.values[key] + float64(n)*sl.Step)
	// snap to the step grid so repeated nudges don't accumulate float drift
	if sl.Step > 0 {
		v = sl.Clamp(sl.Min + math.Round((v-sl.Min)/sl.Step)*sl.Step)
	}
	s.values[key] = v
	return v, nil
}

func (s *Store) Get(key string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Reset restores every slider to its default.
func (s *Store) Reset() {
	s.mu.Lock()
	s.values = s.surface.Defaults()
	s.mu.Unlock()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot(s.values).Clone()
}
