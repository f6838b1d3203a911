// internal/physics/derived.go
// Package physics provides the derived-quantity formulas for compact binary
// coalescences: mass combinations, radiated energy, peak luminosity and the
// simplified distance/redshift estimates.
//
// All formulas are deliberately the simplified, non-relativistic
// approximations used throughout the engine. They must not be upgraded to the
// full relativistic treatment without revisiting every caller.
package physics

import (
	"errors"
	"math"
)

// Physical constants fixed for the engine.
const (
	// GravitationalConstant is G in m^3 kg^-1 s^-2
	GravitationalConstant = 6.67430e-11
	// SpeedOfLight is c in m/s
	SpeedOfLight = 299792458.0
	// SolarMassKg is one solar mass in kilograms
	SolarMassKg = 1.989e30
	// MetersPerMegaparsec converts megaparsecs to meters
	MetersPerMegaparsec = 3.0857e22

	// DefaultPeakFrequencyHz is the peak gravitational-wave frequency assumed
	// when no measured spectrum is available (typical for stellar-mass mergers)
	DefaultPeakFrequencyHz = 100.0
	// DefaultHubbleConstantKmsMpc is the Hubble constant in km/s/Mpc
	DefaultHubbleConstantKmsMpc = 70.0
)

var (
	// ErrInvalidParameter indicates a non-positive mass, strain, frequency or
	// distance was passed to a formula that requires positive input
	ErrInvalidParameter = errors.New("parameter must be positive")
)

// Derived holds the on-demand derived quantities for a detection or a
// catalog event. Values are computed, never stored on the source record.
type Derived struct {
	// RadiatedEnergyJoules is the mass-energy radiated as gravitational waves
	RadiatedEnergyJoules float64
	// PeakLuminosityWatts is the peak gravitational-wave luminosity
	PeakLuminosityWatts float64
	// DistanceMegaparsecs is the estimated luminosity distance
	DistanceMegaparsecs float64
	// Redshift is the cosmological redshift at that distance (Hubble's law)
	Redshift float64
}

// ChirpMass computes (m1*m2)^(3/5) / (m1+m2)^(1/5) in the units of its
// inputs. The chirp mass principally determines the frequency evolution of
// an inspiral and is symmetric in m1, m2.
func ChirpMass(m1, m2 float64) (float64, error) {
	if m1 <= 0 || m2 <= 0 {
		return 0, ErrInvalidParameter
	}
	return math.Pow(m1*m2, 3.0/5.0) / math.Pow(m1+m2, 1.0/5.0), nil
}

// ReducedMass computes m1*m2 / (m1+m2) in the units of its inputs.
func ReducedMass(m1, m2 float64) (float64, error) {
	if m1 <= 0 || m2 <= 0 {
		return 0, ErrInvalidParameter
	}
	return m1 * m2 / (m1 + m2), nil
}

// SymmetricMassRatio computes eta = mu / M, which peaks at 0.25 for equal
// masses.
func SymmetricMassRatio(m1, m2 float64) (float64, error) {
	mu, err := ReducedMass(m1, m2)
	if err != nil {
		return 0, err
	}
	return mu / (m1 + m2), nil
}

// RadiatedEnergy computes the energy radiated over the coalescence from the
// mass deficit: (m1 + m2 - finalMass) * Msun * c^2. Masses are in solar
// masses, the result in joules. The final mass must be positive and not
// exceed the total mass.
func RadiatedEnergy(m1, m2, finalMass float64) (float64, error) {
	if m1 <= 0 || m2 <= 0 || finalMass <= 0 {
		return 0, ErrInvalidParameter
	}
	if finalMass > m1+m2 {
		return 0, ErrInvalidParameter
	}
	deficitKg := (m1 + m2 - finalMass) * SolarMassKg
	return deficitKg * SpeedOfLight * SpeedOfLight, nil
}

// PeakLuminosity estimates the peak gravitational-wave luminosity in watts
// for a system of the given chirp mass (kilograms), scaled against a
// 10-solar-mass reference system radiating at the natural luminosity c^5/G.
func PeakLuminosity(chirpMassKg float64) (float64, error) {
	if chirpMassKg <= 0 {
		return 0, ErrInvalidParameter
	}
	ratio := chirpMassKg / (10 * SolarMassKg)
	c := SpeedOfLight
	return (c * c * c * c * c / GravitationalConstant) * ratio * ratio, nil
}

// EstimateDistanceMpc estimates the luminosity distance in megaparsecs from
// the observed peak strain, the component masses in solar masses and the
// peak gravitational-wave frequency in Hz:
//
//	d = 4 * (G*Mc/c^2)^(5/4) * (pi*f)^(2/3) / h
//
// This is a leading-order amplitude scaling, accurate only to within a
// factor of a few; it matches the estimate shown alongside catalog events.
func EstimateDistanceMpc(observedStrain, m1, m2, peakFrequencyHz float64) (float64, error) {
	if observedStrain <= 0 || peakFrequencyHz <= 0 {
		return 0, ErrInvalidParameter
	}
	mc, err := ChirpMass(m1, m2)
	if err != nil {
		return 0, err
	}
	mcKg := mc * SolarMassKg

	c2 := SpeedOfLight * SpeedOfLight
	amp := 4 * math.Pow(GravitationalConstant*mcKg/c2, 5.0/4.0) *
		math.Pow(math.Pi*peakFrequencyHz, 2.0/3.0)
	meters := amp / observedStrain
	return meters / MetersPerMegaparsec, nil
}

// Redshift computes the cosmological redshift for a distance in megaparsecs
// via Hubble's law: z = H0 * d / c. Valid only for z << 1.
func Redshift(distanceMpc, hubbleConstantKmsMpc float64) (float64, error) {
	if distanceMpc <= 0 || hubbleConstantKmsMpc <= 0 {
		return 0, ErrInvalidParameter
	}
	cKms := SpeedOfLight / 1000.0
	return hubbleConstantKmsMpc * distanceMpc / cKms, nil
}

// DerivedFor computes the full derived-quantity set for a coalescence with
// component masses m1, m2 and post-merger mass finalMass (all solar masses),
// given the observed peak strain and peak frequency.
func DerivedFor(m1, m2, finalMass, observedStrain, peakFrequencyHz, hubbleConstantKmsMpc float64) (Derived, error) {
	energy, err := RadiatedEnergy(m1, m2, finalMass)
	if err != nil {
		return Derived{}, err
	}

	mc, err := ChirpMass(m1, m2)
	if err != nil {
		return Derived{}, err
	}
	lum, err := PeakLuminosity(mc * SolarMassKg)
	if err != nil {
		return Derived{}, err
	}

	dist, err := EstimateDistanceMpc(observedStrain, m1, m2, peakFrequencyHz)
	if err != nil {
		return Derived{}, err
	}
	z, err := Redshift(dist, hubbleConstantKmsMpc)
	if err != nil {
		return Derived{}, err
	}

	return Derived{
		RadiatedEnergyJoules: energy,
		PeakLuminosityWatts:  lum,
		DistanceMegaparsecs:  dist,
		Redshift:             z,
	}, nil
}
