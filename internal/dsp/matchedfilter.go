// internal/dsp/matchedfilter.go
package dsp

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrLengthMismatch indicates signal and template lengths differ; the
	// search always synthesizes matching lengths, so hitting this from the
	// public API points at a synthesizer bug
	ErrLengthMismatch = errors.New("signal and template lengths differ")
)

// Score computes the matched-filter statistic between a conditioned signal
// and a template of equal length:
//
//	snr = sum(s[i]*t[i]) / sqrt(sum(s[i]^2) * sum(t[i]^2)) * sqrt(N)
//
// The normalized cross-correlation is scaled by sqrt(N) so scores are
// comparable across template lengths. A zero-power signal or template scores
// zero rather than dividing by zero.
func Score(signal, template []float64) (float64, error) {
	if len(signal) != len(template) {
		return 0, ErrLengthMismatch
	}
	if len(signal) == 0 {
		return 0, nil
	}

	correlation := floats.Dot(signal, template)
	signalPower := floats.Dot(signal, signal)
	templatePower := floats.Dot(template, template)
	if signalPower == 0 || templatePower == 0 {
		return 0, nil
	}

	n := float64(len(signal))
	return correlation / math.Sqrt(signalPower*templatePower) * math.Sqrt(n), nil
}
