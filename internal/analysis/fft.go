package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitudes of the first half of the FFT of data
// after removing its mean.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	spectrum := fft.FFTReal(detrend(data))
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency is the frequency, in Hz, of the strongest non-DC bin of
// data sampled every dt seconds. It returns 0 for traces too short or flat
// to have one.
func DominantFrequency(data []float64, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	ps := PowerSpectrum(data)
	best, peak := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > peak {
			best, peak = k, ps[k]
		}
	}
	if best == 0 || peak < 1e-12 {
		return 0
	}
	return float64(best) / (float64(len(data)) * dt)
}

// MeasuredPeriod is the mean interval between upward crossings of the
// trace's mean, with linear interpolation between samples. It needs at least
// two crossings.
func MeasuredPeriod(data []float64, dt float64) float64 {
	if dt <= 0 || len(data) < 3 {
		return 0
	}
	x := detrend(data)

	var crossings []float64
	for i := 1; i < len(x); i++ {
		prev, curr := x[i-1], x[i]
		if prev < 0 && curr >= 0 {
			frac := -prev / (curr - prev)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			crossings = append(crossings, (float64(i-1)+frac)*dt)
		}
	}
	if len(crossings) < 2 {
		return 0
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1)
}

func detrend(data []float64) []float64 {
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - mean
	}
	return out
}
