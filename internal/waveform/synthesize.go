// internal/waveform/synthesize.go
// Package waveform generates synthetic compact-binary inspiral templates
// using a simplified post-Newtonian chirp model. Synthesis is a pure
// function of the physical parameters; two calls with identical arguments
// produce bit-identical templates.
package waveform

import (
	"errors"
	"math"

	"github.com/gravwave/gwdetect/internal/physics"
)

const (
	// FallbackFrequencyHz is the frequency used when the time to coalescence
	// is not positive and the chirp model is undefined
	FallbackFrequencyHz = 100.0
	// AmplitudeScale brings the raw post-Newtonian amplitude into the
	// numeric range of detector strain values
	AmplitudeScale = 1.0e22
)

var (
	// ErrInvalidMass indicates a component mass must be positive
	ErrInvalidMass = errors.New("component mass must be positive")
	// ErrInvalidSampleRate indicates the sample rate must be positive
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	// ErrInvalidDuration indicates the template duration must be positive
	ErrInvalidDuration = errors.New("duration must be positive")
)

// Params fixes the physical and sampling parameters of one template.
type Params struct {
	// Mass1Kg is the heavier component mass in kilograms
	Mass1Kg float64
	// Mass2Kg is the lighter component mass in kilograms
	Mass2Kg float64
	// SampleRate is the output sample rate in Hz
	SampleRate float64
	// Duration is the template length in seconds; coalescence is placed at
	// the end of the window
	Duration float64
}

// Synthesizer generates inspiral templates. The chirp-mass dependent terms
// are precomputed once per parameter set, mirroring how single-bin detectors
// precompute their coefficients.
type Synthesizer struct {
	params Params

	// chirpTimeScale is G*Mc/c^3 in seconds; chirpFactor its -5/8 power,
	// shared by the frequency and phase formulas
	chirpTimeScale float64
	chirpFactor    float64
	// ampScale is the tau-independent part of the amplitude
	ampScale float64
}

// NewSynthesizer validates the parameters and precomputes the chirp terms.
func NewSynthesizer(p Params) (*Synthesizer, error) {
	if p.Mass1Kg <= 0 || p.Mass2Kg <= 0 {
		return nil, ErrInvalidMass
	}
	if p.SampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if p.Duration <= 0 {
		return nil, ErrInvalidDuration
	}

	mc, err := physics.ChirpMass(p.Mass1Kg, p.Mass2Kg)
	if err != nil {
		return nil, err
	}

	g := physics.GravitationalConstant
	c := physics.SpeedOfLight

	timeScale := g * mc / (c * c * c)
	return &Synthesizer{
		params:         p,
		chirpTimeScale: timeScale,
		chirpFactor:    math.Pow(timeScale, -5.0/8.0),
		ampScale:       math.Pow(g*mc/(c*c), 5.0/4.0) * AmplitudeScale,
	}, nil
}

// Params returns the synthesizer's parameter set.
func (s *Synthesizer) Params() Params {
	return s.params
}

// Frequency returns the instantaneous gravitational-wave frequency in Hz at
// time-to-coalescence tau seconds. For tau <= 0 the chirp model is undefined
// and the fixed fallback frequency is returned.
func (s *Synthesizer) Frequency(tau float64) float64 {
	if tau <= 0 {
		return FallbackFrequencyHz
	}
	return 1.0 / (8.0 * math.Pi) * math.Pow(5.0/tau, 3.0/8.0) * s.chirpFactor
}

// phase returns the orbital phase at time-to-coalescence tau (tau > 0).
func (s *Synthesizer) phase(tau float64) float64 {
	return -2.0 * math.Pow(tau/5.0, 5.0/8.0) * s.chirpFactor
}

// amplitude returns the scaled strain amplitude at time-to-coalescence tau
// (tau > 0).
func (s *Synthesizer) amplitude(tau float64) float64 {
	return s.ampScale * math.Pow(tau, -1.0/4.0)
}

// Generate produces the template samples: A(tau) * cos(Phi(tau)) for each
// sample instant, with tau the remaining time to coalescence. Samples at or
// past the coalescence instant have zero amplitude.
func (s *Synthesizer) Generate() []float64 {
	// Round rather than truncate: duration often arrives as length/rate, and
	// the product must reproduce the original sample count exactly.
	n := int(math.Round(s.params.Duration * s.params.SampleRate))
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i) / s.params.SampleRate
		tau := s.params.Duration - t
		if tau <= 0 {
			// Frequency clamps to the fallback and amplitude drops to zero
			// past coalescence, so the sample itself is zero.
			continue
		}
		samples[i] = s.amplitude(tau) * math.Cos(s.phase(tau))
	}
	return samples
}

// Synthesize is the convenience form: validate, precompute and generate in
// one call.
func Synthesize(mass1Kg, mass2Kg, sampleRate, duration float64) ([]float64, error) {
	s, err := NewSynthesizer(Params{
		Mass1Kg:    mass1Kg,
		Mass2Kg:    mass2Kg,
		SampleRate: sampleRate,
		Duration:   duration,
	})
	if err != nil {
		return nil, err
	}
	return s.Generate(), nil
}
