package config

import (
	"sort"

	"github.com/san-kum/kinelab/internal/scene"
)

var Presets = map[string]map[string]*Config{
	"falling": {
		"moon": {
			Demo:   "falling",
			Params: map[string]float64{scene.KeyGravityScale: 0.2},
		},
		"slowmo": {
			Demo:   "falling",
			Params: map[string]float64{scene.KeyTimeScale: 0.3},
		},
		"heavy": {
			Demo:   "falling",
			Params: map[string]float64{scene.KeyGravityScale: 3},
		},
	},
	"spring": {
		"soft": {
			Demo:   "spring",
			Params: map[string]float64{scene.KeyStiffness: 0.01, scene.KeyDamping: 0.02},
		},
		"stiff": {
			Demo:   "spring",
			Params: map[string]float64{scene.KeyStiffness: 0.18, scene.KeyDamping: 0.05},
		},
		"heavy": {
			Demo:   "spring",
			Params: map[string]float64{scene.KeyMass: 40, scene.KeyLength: 300},
		},
	},
	"ramp": {
		"icy": {
			Demo:   "ramp",
			Params: map[string]float64{scene.KeyFriction: 0},
		},
		"steep": {
			Demo:   "ramp",
			Params: map[string]float64{scene.KeyAngle: 55},
		},
		"long": {
			Demo:   "ramp",
			Params: map[string]float64{scene.KeyAngle: 20, scene.KeyLength: 800},
		},
	},
}

func GetPreset(demo, preset string) *Config {
	demoPresets, ok := Presets[demo]
	if !ok {
		return nil
	}
	cfg, ok := demoPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(demo string) []string {
	demoPresets, ok := Presets[demo]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(demoPresets))
	for name := range demoPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
