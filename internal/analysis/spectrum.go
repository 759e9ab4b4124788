package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum returns the magnitude spectrum of the series up to the Nyquist
// bin. The mean is removed first so the DC component does not swamp the
// oscillatory content.
func Spectrum(series []float64) []float64 {
	n := len(series)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	mags := make([]float64, n/2)
	for i := range mags {
		mags[i] = cmplx.Abs(spectrum[i])
	}
	return mags
}

// DominantPeriod returns the period in epochs of the strongest oscillatory
// component, or 0 when the series carries no frequency content.
func DominantPeriod(series []float64) float64 {
	mags := Spectrum(series)
	if len(mags) < 2 {
		return 0
	}

	best := 1
	for i := 2; i < len(mags); i++ {
		if mags[i] > mags[best] {
			best = i
		}
	}
	if mags[best] == 0 {
		return 0
	}
	return float64(len(series)) / float64(best)
}
