// internal/dsp/preprocess.go
// Package dsp implements the signal-conditioning and matched-filter stages
// of the strain detection pipeline.
package dsp

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultHighpassCutoffHz removes seismic and instrumental drift below
	// the detector's sensitive band
	DefaultHighpassCutoffHz = 20.0
	// DefaultMinSamples is the shortest series worth analyzing; below this
	// the whitening statistics and the template grid are meaningless
	DefaultMinSamples = 1000
)

var (
	// ErrInsufficientSamples indicates the input series is shorter than the
	// minimum analyzable window
	ErrInsufficientSamples = errors.New("insufficient samples for analysis")
	// ErrDegenerateSignal indicates a zero-variance input for which
	// whitening is undefined
	ErrDegenerateSignal = errors.New("degenerate signal: zero variance")
	// ErrInvalidSampleRate indicates the sample rate must be positive
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	// ErrInvalidCutoff indicates the high-pass cutoff must be positive
	ErrInvalidCutoff = errors.New("high-pass cutoff must be positive")
)

// PreprocessorConfig holds the conditioning parameters.
// All values should come from the application config file.
type PreprocessorConfig struct {
	// CutoffHz is the high-pass cutoff frequency in Hz (from config: highpass_cutoff)
	CutoffHz float64
	// MinSamples is the minimum series length to attempt analysis (from config: min_samples)
	MinSamples int
}

// DefaultPreprocessorConfig returns the standard conditioning parameters.
func DefaultPreprocessorConfig() PreprocessorConfig {
	return PreprocessorConfig{
		CutoffHz:   DefaultHighpassCutoffHz,
		MinSamples: DefaultMinSamples,
	}
}

// Preprocessor conditions raw strain series: a causal single-pole high-pass
// removes low-frequency drift, then the series is whitened to zero mean and
// unit variance. Condition is a pure function over its input.
type Preprocessor struct {
	config PreprocessorConfig
}

// NewPreprocessor validates the configuration and returns a Preprocessor.
func NewPreprocessor(cfg PreprocessorConfig) (*Preprocessor, error) {
	if cfg.CutoffHz <= 0 {
		return nil, ErrInvalidCutoff
	}
	if cfg.MinSamples < 2 {
		cfg.MinSamples = DefaultMinSamples
	}
	return &Preprocessor{config: cfg}, nil
}

// Config returns the current configuration.
func (p *Preprocessor) Config() PreprocessorConfig {
	return p.config
}

// Condition applies the high-pass and whitening stages and returns a new
// series of the same length. The input is not modified.
func (p *Preprocessor) Condition(values []float64, sampleRate float64) ([]float64, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if len(values) < p.config.MinSamples {
		return nil, ErrInsufficientSamples
	}

	filtered := HighPass(values, sampleRate, p.config.CutoffHz)
	if err := whiten(filtered); err != nil {
		return nil, err
	}
	return filtered, nil
}

// HighPass applies a causal single-pole IIR high-pass filter:
//
//	y[i] = alpha * (y[i-1] + x[i] - x[i-1])
//
// with alpha = RC / (RC + dt), RC = 1 / (2*pi*cutoff). The first output is
// zero, seeded from x[0]. The template-bank search runs candidate templates
// through the same filter as the signal so scores compare like with like.
func HighPass(x []float64, sampleRate, cutoffHz float64) []float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoffHz)
	dt := 1.0 / sampleRate
	alpha := rc / (rc + dt)

	y := make([]float64, len(x))
	if len(x) == 0 {
		return y
	}
	y[0] = 0
	for i := 1; i < len(x); i++ {
		y[i] = alpha * (y[i-1] + x[i] - x[i-1])
	}
	return y
}

// whiten normalizes the series in place to zero mean and unit standard
// deviation, using population statistics over the whole window.
func whiten(x []float64) error {
	mean := stat.Mean(x, nil)
	floats.AddConst(-mean, x)

	// Population standard deviation of the centered series.
	sd := math.Sqrt(floats.Dot(x, x) / float64(len(x)))
	if sd == 0 {
		return ErrDegenerateSignal
	}
	floats.Scale(1/sd, x)
	return nil
}

// PeakStrain returns the largest absolute value in the series, zero for an
// empty series.
func PeakStrain(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	// Peak = max(|max|, |min|), computed from the two extremes.
	hi := math.Abs(floats.Max(values))
	lo := math.Abs(floats.Min(values))
	return math.Max(hi, lo)
}
