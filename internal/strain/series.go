// internal/strain/series.go
// Package strain defines the detector's input data model: uniformly sampled,
// dimensionless strain series, plus the plain-text file format the CLI uses
// to exchange them.
package strain

import (
	"errors"
	"math"
)

const (
	// DefaultSpacingTolerance is the allowed relative deviation of the
	// sample spacing from the nominal 1/sampleRate interval
	DefaultSpacingTolerance = 1e-6
)

var (
	// ErrEmptySeries indicates a series needs at least one sample
	ErrEmptySeries = errors.New("series must contain at least one sample")
	// ErrInvalidSampleRate indicates the sample rate must be positive
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	// ErrNonMonotonicTime indicates sample times must strictly increase
	ErrNonMonotonicTime = errors.New("sample times must be strictly increasing")
	// ErrNonUniformSpacing indicates the sample spacing deviates from the
	// nominal interval beyond the configured tolerance
	ErrNonUniformSpacing = errors.New("sample spacing is not uniform")
)

// Sample is one strain measurement: a time in seconds and a dimensionless
// strain value.
type Sample struct {
	Time  float64
	Value float64
}

// Series is an ordered, uniformly sampled strain series.
type Series struct {
	values     []float64
	sampleRate float64
}

// New builds a series from raw values at the given sample rate; sample times
// are implied by position.
func New(values []float64, sampleRate float64) (*Series, error) {
	if len(values) == 0 {
		return nil, ErrEmptySeries
	}
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	v := make([]float64, len(values))
	copy(v, values)
	return &Series{values: v, sampleRate: sampleRate}, nil
}

// FromSamples builds a series from timestamped samples, verifying that the
// times strictly increase and that the spacing is constant within the given
// relative tolerance (DefaultSpacingTolerance when tolerance <= 0). The
// sample rate is inferred from the mean spacing.
func FromSamples(samples []Sample, tolerance float64) (*Series, error) {
	if len(samples) == 0 {
		return nil, ErrEmptySeries
	}
	if tolerance <= 0 {
		tolerance = DefaultSpacingTolerance
	}

	values := make([]float64, len(samples))
	values[0] = samples[0].Value
	if len(samples) == 1 {
		// A single sample has no spacing to infer; rate 1 Hz by convention.
		return &Series{values: values, sampleRate: 1}, nil
	}

	span := samples[len(samples)-1].Time - samples[0].Time
	if span <= 0 {
		return nil, ErrNonMonotonicTime
	}
	dt := span / float64(len(samples)-1)

	for i := 1; i < len(samples); i++ {
		step := samples[i].Time - samples[i-1].Time
		if step <= 0 {
			return nil, ErrNonMonotonicTime
		}
		if math.Abs(step-dt) > tolerance*dt {
			return nil, ErrNonUniformSpacing
		}
		values[i] = samples[i].Value
	}

	return &Series{values: values, sampleRate: 1 / dt}, nil
}

// Values returns a copy of the sample values.
func (s *Series) Values() []float64 {
	v := make([]float64, len(s.values))
	copy(v, s.values)
	return v
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.values)
}

// SampleRate returns the nominal sample rate in Hz.
func (s *Series) SampleRate() float64 {
	return s.sampleRate
}

// Duration returns the covered time span in seconds.
func (s *Series) Duration() float64 {
	return float64(len(s.values)) / s.sampleRate
}
