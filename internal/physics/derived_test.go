// internal/physics/derived_test.go
package physics

import (
	"errors"
	"math"
	"testing"
)

const relTolerance = 1e-9

func relClose(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= relTolerance*math.Max(math.Abs(a), math.Abs(b))
}

func TestChirpMass_EqualMasses(t *testing.T) {
	// For m1 = m2 = m: Mc = m^(6/5) / (2m)^(1/5) = m * 2^(-1/5)
	m := 30.0
	want := m * math.Pow(2, -1.0/5.0)

	got, err := ChirpMass(m, m)
	if err != nil {
		t.Fatalf("ChirpMass failed: %v", err)
	}
	if !relClose(got, want) {
		t.Errorf("ChirpMass(%v, %v) = %v, want %v", m, m, got, want)
	}
}

func TestChirpMass_Symmetric(t *testing.T) {
	a, err1 := ChirpMass(36, 29)
	b, err2 := ChirpMass(29, 36)
	if err1 != nil || err2 != nil {
		t.Fatalf("ChirpMass failed: %v, %v", err1, err2)
	}
	if a != b {
		t.Errorf("ChirpMass not symmetric: %v != %v", a, b)
	}
}

func TestChirpMass_InvalidInputs(t *testing.T) {
	testCases := []struct {
		name   string
		m1, m2 float64
	}{
		{"zero m1", 0, 10},
		{"zero m2", 10, 0},
		{"negative m1", -5, 10},
		{"negative m2", 10, -5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ChirpMass(tc.m1, tc.m2); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got: %v", err)
			}
		})
	}
}

func TestReducedMass(t *testing.T) {
	got, err := ReducedMass(36, 29)
	if err != nil {
		t.Fatalf("ReducedMass failed: %v", err)
	}
	want := 36.0 * 29.0 / 65.0
	if !relClose(got, want) {
		t.Errorf("ReducedMass(36, 29) = %v, want %v", got, want)
	}
}

func TestSymmetricMassRatio_PeaksAtQuarter(t *testing.T) {
	eta, err := SymmetricMassRatio(20, 20)
	if err != nil {
		t.Fatalf("SymmetricMassRatio failed: %v", err)
	}
	if !relClose(eta, 0.25) {
		t.Errorf("equal-mass eta = %v, want 0.25", eta)
	}

	unequal, err := SymmetricMassRatio(50, 5)
	if err != nil {
		t.Fatalf("SymmetricMassRatio failed: %v", err)
	}
	if unequal >= 0.25 {
		t.Errorf("unequal-mass eta = %v, want < 0.25", unequal)
	}
}

func TestRadiatedEnergy_GW150914(t *testing.T) {
	// GW150914: 36 + 29 solar masses merging to 62, three solar masses
	// radiated: (36+29-62) * Msun * c^2.
	got, err := RadiatedEnergy(36, 29, 62)
	if err != nil {
		t.Fatalf("RadiatedEnergy failed: %v", err)
	}
	want := 3.0 * 1.989e30 * 299792458.0 * 299792458.0
	if !relClose(got, want) {
		t.Errorf("RadiatedEnergy(36, 29, 62) = %v, want %v", got, want)
	}
	// Sanity: about 5.4e47 joules
	if got < 5.3e47 || got > 5.5e47 {
		t.Errorf("RadiatedEnergy(36, 29, 62) = %v, expected ~5.39e47 J", got)
	}
}

func TestRadiatedEnergy_Invalid(t *testing.T) {
	testCases := []struct {
		name              string
		m1, m2, finalMass float64
	}{
		{"zero final mass", 36, 29, 0},
		{"negative final mass", 36, 29, -1},
		{"final mass exceeds total", 36, 29, 70},
		{"zero m1", 0, 29, 20},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := RadiatedEnergy(tc.m1, tc.m2, tc.finalMass); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got: %v", err)
			}
		})
	}
}

func TestPeakLuminosity_ReferenceSystem(t *testing.T) {
	// A 10-solar-mass chirp mass radiates at exactly c^5/G in this scaling.
	got, err := PeakLuminosity(10 * SolarMassKg)
	if err != nil {
		t.Fatalf("PeakLuminosity failed: %v", err)
	}
	c := SpeedOfLight
	want := c * c * c * c * c / GravitationalConstant
	if !relClose(got, want) {
		t.Errorf("PeakLuminosity(10 Msun) = %v, want %v", got, want)
	}
}

func TestPeakLuminosity_ScalesQuadratically(t *testing.T) {
	l1, err := PeakLuminosity(10 * SolarMassKg)
	if err != nil {
		t.Fatalf("PeakLuminosity failed: %v", err)
	}
	l2, err := PeakLuminosity(20 * SolarMassKg)
	if err != nil {
		t.Fatalf("PeakLuminosity failed: %v", err)
	}
	if !relClose(l2, 4*l1) {
		t.Errorf("doubling chirp mass: luminosity ratio = %v, want 4", l2/l1)
	}
}

func TestEstimateDistanceMpc(t *testing.T) {
	// GW150914-like inputs. The leading-order amplitude formula at a fixed
	// reference frequency lands near 3.55e6 Mpc, far above the published
	// ~410 Mpc; the estimate is an order-of-magnitude scale, not a fit.
	d, err := EstimateDistanceMpc(1.0e-21, 36, 29, DefaultPeakFrequencyHz)
	if err != nil {
		t.Fatalf("EstimateDistanceMpc failed: %v", err)
	}
	if d < 3.5e6 || d > 3.6e6 {
		t.Errorf("distance = %v Mpc, want about 3.55e6", d)
	}
}

func TestEstimateDistanceMpc_StrainScaling(t *testing.T) {
	// Halving the observed strain doubles the inferred distance.
	d1, err := EstimateDistanceMpc(1.0e-21, 30, 25, 100)
	if err != nil {
		t.Fatalf("EstimateDistanceMpc failed: %v", err)
	}
	d2, err := EstimateDistanceMpc(0.5e-21, 30, 25, 100)
	if err != nil {
		t.Fatalf("EstimateDistanceMpc failed: %v", err)
	}
	if !relClose(d2, 2*d1) {
		t.Errorf("distance ratio = %v, want 2", d2/d1)
	}
}

func TestEstimateDistanceMpc_Invalid(t *testing.T) {
	if _, err := EstimateDistanceMpc(0, 30, 25, 100); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("zero strain: expected ErrInvalidParameter, got: %v", err)
	}
	if _, err := EstimateDistanceMpc(1e-21, 30, 25, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("zero frequency: expected ErrInvalidParameter, got: %v", err)
	}
	if _, err := EstimateDistanceMpc(1e-21, -30, 25, 100); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("negative mass: expected ErrInvalidParameter, got: %v", err)
	}
}

func TestRedshift(t *testing.T) {
	// z = H0 * d / c: 410 Mpc at H0=70 gives z ~ 0.096.
	z, err := Redshift(410, 70)
	if err != nil {
		t.Fatalf("Redshift failed: %v", err)
	}
	want := 70.0 * 410.0 / (299792458.0 / 1000.0)
	if !relClose(z, want) {
		t.Errorf("Redshift(410, 70) = %v, want %v", z, want)
	}
	if z < 0.05 || z > 0.15 {
		t.Errorf("Redshift(410, 70) = %v, expected ~0.096", z)
	}
}

func TestRedshift_Invalid(t *testing.T) {
	if _, err := Redshift(0, 70); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("zero distance: expected ErrInvalidParameter, got: %v", err)
	}
	if _, err := Redshift(-10, 70); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("negative distance: expected ErrInvalidParameter, got: %v", err)
	}
	if _, err := Redshift(410, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("zero Hubble constant: expected ErrInvalidParameter, got: %v", err)
	}
}

func TestDerivedFor_AllFieldsPopulated(t *testing.T) {
	d, err := DerivedFor(36, 29, 62, 1.0e-21, DefaultPeakFrequencyHz, DefaultHubbleConstantKmsMpc)
	if err != nil {
		t.Fatalf("DerivedFor failed: %v", err)
	}
	if d.RadiatedEnergyJoules <= 0 {
		t.Errorf("RadiatedEnergyJoules = %v, want positive", d.RadiatedEnergyJoules)
	}
	if d.PeakLuminosityWatts <= 0 {
		t.Errorf("PeakLuminosityWatts = %v, want positive", d.PeakLuminosityWatts)
	}
	if d.DistanceMegaparsecs <= 0 {
		t.Errorf("DistanceMegaparsecs = %v, want positive", d.DistanceMegaparsecs)
	}
	if d.Redshift <= 0 {
		t.Errorf("Redshift = %v, want positive", d.Redshift)
	}
}

func TestDerivedFor_PropagatesInvalid(t *testing.T) {
	if _, err := DerivedFor(36, 29, 0, 1e-21, 100, 70); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got: %v", err)
	}
}
