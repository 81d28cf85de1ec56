// Package analysis measures recorded motion traces.
//
// The package includes tools for checking a run against the closed-form
// predictions shown in the overlays:
//
//   - [DominantFrequency]: strongest oscillation frequency of a trace via FFT
//   - [MeasuredPeriod]: mean time between upward mean-crossings
//   - [NewPhasePortrait]: displacement/velocity pairs of a trace
//   - [PhasePortraitToASCII]: quick terminal rendering of a portrait
//
// # Spring period
//
// A weight on an undamped spring oscillates with period 2π√(m/k). Comparing
// that with a recorded displacement trace:
//
//	measured := analysis.MeasuredPeriod(distance, dt)
//	predicted := scene.PredictedPeriod(mass, stiffness)
package analysis
