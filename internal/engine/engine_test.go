// internal/engine/engine_test.go
package engine

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/gravwave/gwdetect/internal/dsp"
	"github.com/gravwave/gwdetect/internal/physics"
	"github.com/gravwave/gwdetect/internal/search"
	"github.com/gravwave/gwdetect/internal/waveform"
)

const (
	testSampleRate = 4096.0
	testNumSamples = 4096
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e
}

// injectedSeries is a scaled template plus deterministic low-amplitude noise.
func injectedSeries(t *testing.T, m1, m2 float64) []float64 {
	t.Helper()
	template, err := waveform.Synthesize(
		m1*physics.SolarMassKg, m2*physics.SolarMassKg,
		testSampleRate, testNumSamples/testSampleRate,
	)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	scale := 1e-21 / dsp.PeakStrain(template)
	rng := rand.New(rand.NewSource(1))
	out := make([]float64, len(template))
	for i, v := range template {
		out[i] = v*scale + 1e-24*(2*rng.Float64()-1)
	}
	return out
}

func TestDetect_InjectedSignal(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Detect(context.Background(), injectedSeries(t, 30, 25), testSampleRate)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if res == nil {
		t.Fatal("expected a detection, got none")
	}

	if res.SNR <= search.DefaultSNRThreshold {
		t.Errorf("SNR = %v, want > %v", res.SNR, search.DefaultSNRThreshold)
	}
	if math.Abs(res.M1Solar-30) > search.DefaultMassStepSolar {
		t.Errorf("m1 = %v, want 30 +/- %v", res.M1Solar, search.DefaultMassStepSolar)
	}
	if math.Abs(res.M2Solar-25) > search.DefaultMassStepSolar {
		t.Errorf("m2 = %v, want 25 +/- %v", res.M2Solar, search.DefaultMassStepSolar)
	}
	if res.PeakFrequencyHz <= 0 {
		t.Errorf("PeakFrequencyHz = %v, want positive", res.PeakFrequencyHz)
	}
	if res.DetectedAt.IsZero() {
		t.Error("DetectedAt not set")
	}
}

func TestDetect_PureNoise(t *testing.T) {
	e := newTestEngine(t)

	rng := rand.New(rand.NewSource(11))
	values := make([]float64, testNumSamples)
	for i := range values {
		values[i] = 1e-22 * (2*rng.Float64() - 1)
	}

	res, err := e.Detect(context.Background(), values, testSampleRate)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if res != nil {
		t.Errorf("expected no detection on noise, got SNR %v", res.SNR)
	}
}

func TestDetect_TooShort(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Detect(context.Background(), make([]float64, 100), testSampleRate)
	if !errors.Is(err, dsp.ErrInsufficientSamples) {
		t.Errorf("expected ErrInsufficientSamples, got: %v", err)
	}
}

func TestDetect_ConstantInput(t *testing.T) {
	e := newTestEngine(t)

	values := make([]float64, testNumSamples)
	for i := range values {
		values[i] = 2.0e-21
	}

	_, err := e.Detect(context.Background(), values, testSampleRate)
	if !errors.Is(err, dsp.ErrDegenerateSignal) {
		t.Errorf("expected ErrDegenerateSignal, got: %v", err)
	}
}

func TestDetect_Cancellation(t *testing.T) {
	e := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Detect(ctx, injectedSeries(t, 30, 25), testSampleRate)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestDerived_FromDetection(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Detect(context.Background(), injectedSeries(t, 40, 35), testSampleRate)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if res == nil {
		t.Fatal("expected a detection")
	}

	d, err := e.Derived(res)
	if err != nil {
		t.Fatalf("Derived failed: %v", err)
	}
	if d.RadiatedEnergyJoules <= 0 || d.PeakLuminosityWatts <= 0 {
		t.Errorf("derived energies must be positive: %+v", d)
	}
	if d.DistanceMegaparsecs <= 0 || d.Redshift <= 0 {
		t.Errorf("derived distance/redshift must be positive: %+v", d)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.MassStepSolar = 0
	if _, err := New(cfg, nil); !errors.Is(err, search.ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid, got: %v", err)
	}

	cfg = DefaultConfig()
	cfg.Preprocessor.CutoffHz = -1
	if _, err := New(cfg, nil); !errors.Is(err, dsp.ErrInvalidCutoff) {
		t.Errorf("expected ErrInvalidCutoff, got: %v", err)
	}
}
