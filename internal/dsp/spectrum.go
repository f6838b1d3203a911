// internal/dsp/spectrum.go
package dsp

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PeakFrequency estimates the dominant frequency of a real-valued series in
// Hz from the magnitude spectrum, ignoring the DC bin. It returns zero when
// the input is too short or the sample rate is not positive; callers fall
// back to a fixed reference frequency in that case.
func PeakFrequency(values []float64, sampleRate float64) float64 {
	if len(values) < 4 || sampleRate <= 0 {
		return 0
	}

	spectrum := fft.FFTReal(values)

	// Only bins up to Nyquist carry independent information.
	half := len(spectrum) / 2
	bestBin := 0
	bestMag := 0.0
	for i := 1; i <= half; i++ {
		if mag := cmplx.Abs(spectrum[i]); mag > bestMag {
			bestMag = mag
			bestBin = i
		}
	}
	if bestBin == 0 {
		return 0
	}
	return float64(bestBin) * sampleRate / float64(len(values))
}
