// internal/monitor/monitor_test.go
package monitor

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/gravwave/gwdetect/internal/dsp"
	"github.com/gravwave/gwdetect/internal/engine"
	"github.com/gravwave/gwdetect/internal/physics"
	"github.com/gravwave/gwdetect/internal/waveform"
)

const testSampleRate = 4096.0

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(engine.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("engine.New failed: %v", err)
	}
	return e
}

func testConfig() Config {
	return Config{
		SampleRate: testSampleRate,
		WindowSize: 4096,
		Interval:   time.Millisecond,
		ChunkSize:  1024,
	}
}

// injectedValues is a rescaled inspiral plus faint deterministic noise.
func injectedValues(t *testing.T, n int) []float64 {
	t.Helper()
	template, err := waveform.Synthesize(
		30*physics.SolarMassKg, 25*physics.SolarMassKg,
		testSampleRate, float64(n)/testSampleRate,
	)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	scale := 1e-21 / dsp.PeakStrain(template)
	rng := rand.New(rand.NewSource(5))
	out := make([]float64, n)
	for i, v := range template {
		out[i] = v*scale + 1e-24*(2*rng.Float64()-1)
	}
	return out
}

func TestReplaySource(t *testing.T) {
	src := NewReplaySource([]float64{1, 2, 3, 4, 5})

	buf := make([]float64, 3)
	n, err := src.Read(buf)
	if err != nil || n != 3 {
		t.Fatalf("first Read = (%d, %v), want (3, nil)", n, err)
	}
	n, err = src.Read(buf)
	if err != nil || n != 2 {
		t.Fatalf("second Read = (%d, %v), want (2, nil)", n, err)
	}
	if _, err = src.Read(buf); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got: %v", err)
	}
}

func TestSyntheticSource_Deterministic(t *testing.T) {
	cfg := SyntheticConfig{SampleRate: testSampleRate, NoiseAmplitude: 1e-22, Seed: 9}

	a, err := NewSyntheticSource(cfg)
	if err != nil {
		t.Fatalf("NewSyntheticSource failed: %v", err)
	}
	b, err := NewSyntheticSource(cfg)
	if err != nil {
		t.Fatalf("NewSyntheticSource failed: %v", err)
	}

	bufA := make([]float64, 256)
	bufB := make([]float64, 256)
	if _, err := a.Read(bufA); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if _, err := b.Read(bufB); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	for i := range bufA {
		if bufA[i] != bufB[i] {
			t.Fatalf("sample %d differs for identical seeds", i)
		}
	}
}

func TestSyntheticSource_Injection(t *testing.T) {
	cfg := SyntheticConfig{
		SampleRate:       testSampleRate,
		NoiseAmplitude:   1e-24,
		Seed:             1,
		InjectEvery:      512,
		InjectMass1Solar: 30,
		InjectMass2Solar: 25,
		InjectPeakStrain: 1e-21,
		InjectDuration:   0.25,
	}
	src, err := NewSyntheticSource(cfg)
	if err != nil {
		t.Fatalf("NewSyntheticSource failed: %v", err)
	}

	buf := make([]float64, 4096)
	if _, err := src.Read(buf); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if peak := dsp.PeakStrain(buf); peak < 0.5e-21 {
		t.Errorf("peak = %v, expected injected waveform to dominate the noise", peak)
	}
}

func TestNew_Validation(t *testing.T) {
	eng := testEngine(t)
	src := NewReplaySource([]float64{1})

	testCases := []struct {
		name    string
		build   func() (*Monitor, error)
		wantErr error
	}{
		{"nil engine", func() (*Monitor, error) { return New(testConfig(), nil, src, nil) }, ErrEngineRequired},
		{"nil source", func() (*Monitor, error) { return New(testConfig(), eng, nil, nil) }, ErrSourceRequired},
		{"zero window", func() (*Monitor, error) {
			cfg := testConfig()
			cfg.WindowSize = 0
			return New(cfg, eng, src, nil)
		}, ErrInvalidWindow},
		{"zero interval", func() (*Monitor, error) {
			cfg := testConfig()
			cfg.Interval = 0
			return New(cfg, eng, src, nil)
		}, ErrInvalidInterval},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.build(); !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got: %v", tc.wantErr, err)
			}
		})
	}
}

func TestMonitor_Lifecycle(t *testing.T) {
	m, err := New(testConfig(), testEngine(t), NewSyntheticSourceMust(t), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !m.IsRunning() {
		t.Error("IsRunning = false after Start")
	}
	if err := m.Start(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start: expected ErrAlreadyRunning, got: %v", err)
	}

	if err := m.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if m.IsRunning() {
		t.Error("IsRunning = true after Stop")
	}
	if err := m.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("second Stop: expected ErrNotRunning, got: %v", err)
	}
}

func TestMonitor_CancelClearsRunning(t *testing.T) {
	m, err := New(testConfig(), testEngine(t), NewSyntheticSourceMust(t), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	cancel()

	deadline := time.After(5 * time.Second)
	for m.IsRunning() {
		select {
		case <-deadline:
			t.Fatal("IsRunning still true after context cancellation")
		case <-time.After(time.Millisecond):
		}
	}

	if err := m.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Stop after cancellation: expected ErrNotRunning, got: %v", err)
	}
}

// NewSyntheticSourceMust builds a quiet noise source for lifecycle tests.
func NewSyntheticSourceMust(t *testing.T) *SyntheticSource {
	t.Helper()
	src, err := NewSyntheticSource(SyntheticConfig{
		SampleRate:     testSampleRate,
		NoiseAmplitude: 1e-22,
		Seed:           2,
	})
	if err != nil {
		t.Fatalf("NewSyntheticSource failed: %v", err)
	}
	return src
}

func TestMonitor_DetectsInjectedReplay(t *testing.T) {
	values := injectedValues(t, 4096)
	// Replay the window twice so the loop keeps ticking after it fills.
	doubled := append(append([]float64{}, values...), values...)

	m, err := New(testConfig(), testEngine(t), NewReplaySource(doubled), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got := make(chan *engine.Result, 16)
	m.SetCallback(func(r *engine.Result) { got <- r })

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() {
		if err := m.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
			t.Errorf("Stop failed: %v", err)
		}
	}()

	select {
	case res := <-got:
		if res.SNR <= 8 {
			t.Errorf("SNR = %v, want > 8", res.SNR)
		}
		if res.M1Solar < 25 || res.M1Solar > 35 {
			t.Errorf("m1 = %v, want near 30", res.M1Solar)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("no detection within deadline")
	}

	if m.Detections() == 0 {
		t.Error("Detections counter not incremented")
	}
}

func TestMonitor_SnapshotIsolated(t *testing.T) {
	m, err := New(testConfig(), testEngine(t), NewReplaySource(make([]float64, 8192)), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	snap := m.Snapshot()
	for i := range snap {
		snap[i] = 42 // must not corrupt the live window
	}
	snap2 := m.Snapshot()
	for _, v := range snap2 {
		if v == 42 {
			t.Fatal("snapshot aliases the live buffer")
		}
	}

	if err := m.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
		t.Errorf("Stop failed: %v", err)
	}
}
