// internal/search/bank.go
// Package search sweeps a template bank over a 2-D grid of component masses,
// scoring each synthesized template against the conditioned strain series
// with the matched filter and gating the best score on an SNR threshold.
package search

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/gravwave/gwdetect/internal/dsp"
	"github.com/gravwave/gwdetect/internal/physics"
	"github.com/gravwave/gwdetect/internal/waveform"
)

const (
	// DefaultMassMinSolar is the lightest grid mass in solar masses
	DefaultMassMinSolar = 5.0
	// DefaultMassMaxSolar is the heaviest grid mass in solar masses
	DefaultMassMaxSolar = 95.0
	// DefaultMassStepSolar is the grid spacing in solar masses
	DefaultMassStepSolar = 5.0
	// DefaultSNRThreshold gates detections; scores at or below it are
	// reported as no detection
	DefaultSNRThreshold = 8.0
)

var (
	// ErrInvalidGrid indicates the mass grid bounds or step are unusable
	ErrInvalidGrid = errors.New("mass grid requires 0 < min <= max and step > 0")
	// ErrInvalidThreshold indicates the SNR threshold must be positive
	ErrInvalidThreshold = errors.New("snr threshold must be positive")
	// ErrEmptySignal indicates there is nothing to search
	ErrEmptySignal = errors.New("conditioned signal is empty")
)

// MassPair is one grid coordinate: component masses in solar masses with
// m1 >= m2 enforced by construction.
type MassPair struct {
	M1Solar float64
	M2Solar float64
}

// NewMassPair orders the components so the heavier mass comes first. The
// mass formulas are symmetric; canonical ordering keeps the grid free of
// duplicates.
func NewMassPair(m1, m2 float64) MassPair {
	if m2 > m1 {
		m1, m2 = m2, m1
	}
	return MassPair{M1Solar: m1, M2Solar: m2}
}

// Detection is the accepted search outcome. Produced only when the best
// score clears the threshold; a quiet series yields no Detection at all.
type Detection struct {
	// SNR is the matched-filter statistic of the winning template
	SNR float64
	// M1Solar and M2Solar are the winning template's component masses
	M1Solar float64
	M2Solar float64
	// ChirpMassSolar and TotalMassSolar are derived from the masses
	ChirpMassSolar float64
	TotalMassSolar float64
	// PeakStrain is the largest absolute value of the conditioned series
	PeakStrain float64
}

// Config holds the template-bank parameters.
// All values should come from the application config file.
type Config struct {
	// MassMinSolar is the smallest component mass (from config: mass_min)
	MassMinSolar float64
	// MassMaxSolar is the largest component mass (from config: mass_max)
	MassMaxSolar float64
	// MassStepSolar is the grid spacing (from config: mass_step)
	MassStepSolar float64
	// SNRThreshold gates the best score (from config: snr_threshold)
	SNRThreshold float64
	// TemplateCutoffHz is the high-pass cutoff applied to each template
	// before scoring, matching the signal conditioning so the filter's
	// distortion cancels out of the comparison; <= 0 selects the default
	// (from config: highpass_cutoff)
	TemplateCutoffHz float64
	// Workers is the number of scoring goroutines; <= 0 means NumCPU
	// (from config: workers)
	Workers int
}

// DefaultConfig returns the standard grid.
func DefaultConfig() Config {
	return Config{
		MassMinSolar:     DefaultMassMinSolar,
		MassMaxSolar:     DefaultMassMaxSolar,
		MassStepSolar:    DefaultMassStepSolar,
		SNRThreshold:     DefaultSNRThreshold,
		TemplateCutoffHz: dsp.DefaultHighpassCutoffHz,
		Workers:          0,
	}
}

// Bank is an immutable template bank: the grid is laid out once at
// construction, in deterministic iteration order.
type Bank struct {
	config Config
	pairs  []MassPair
}

// NewBank validates the configuration and lays out the mass grid.
func NewBank(cfg Config) (*Bank, error) {
	if cfg.MassMinSolar <= 0 || cfg.MassMaxSolar < cfg.MassMinSolar || cfg.MassStepSolar <= 0 {
		return nil, ErrInvalidGrid
	}
	if cfg.SNRThreshold <= 0 {
		return nil, ErrInvalidThreshold
	}
	if cfg.TemplateCutoffHz <= 0 {
		cfg.TemplateCutoffHz = dsp.DefaultHighpassCutoffHz
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	var pairs []MassPair
	for m1 := cfg.MassMinSolar; m1 <= cfg.MassMaxSolar+1e-9; m1 += cfg.MassStepSolar {
		for m2 := cfg.MassMinSolar; m2 <= m1+1e-9; m2 += cfg.MassStepSolar {
			pairs = append(pairs, NewMassPair(m1, m2))
		}
	}

	return &Bank{config: cfg, pairs: pairs}, nil
}

// Config returns the bank's configuration.
func (b *Bank) Config() Config {
	return b.config
}

// GridSize returns the number of mass pairs in the bank.
func (b *Bank) GridSize() int {
	return len(b.pairs)
}

// Pairs returns a copy of the grid in iteration order.
func (b *Bank) Pairs() []MassPair {
	out := make([]MassPair, len(b.pairs))
	copy(out, b.pairs)
	return out
}

// cell is one scored grid coordinate during the reduce phase.
type cell struct {
	index int
	snr   float64
}

// Search scores every template in the bank against the conditioned signal
// and returns the best match if it clears the SNR threshold, or nil for no
// detection. Cells are scored in parallel; the reduction is deterministic
// because ties and equal scores resolve to the lowest grid index, matching
// sequential first-wins iteration order. Cancellation is cooperative
// between cells.
func (b *Bank) Search(ctx context.Context, conditioned []float64, sampleRate float64) (*Detection, error) {
	if len(conditioned) == 0 {
		return nil, ErrEmptySignal
	}
	if sampleRate <= 0 {
		return nil, dsp.ErrInvalidSampleRate
	}

	duration := float64(len(conditioned)) / sampleRate

	workers := b.config.Workers
	if workers > len(b.pairs) {
		workers = len(b.pairs)
	}

	indices := make(chan int)
	results := make(chan cell, workers)
	errCh := make(chan error, workers)
	stop := make(chan struct{})
	defer close(stop)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indices {
				pair := b.pairs[idx]
				template, err := waveform.Synthesize(
					pair.M1Solar*physics.SolarMassKg,
					pair.M2Solar*physics.SolarMassKg,
					sampleRate,
					duration,
				)
				if err != nil {
					errCh <- err
					return
				}
				// The signal went through the high-pass before scoring;
				// the template must see the same filter or the filter's
				// distortion biases the grid toward the wrong masses.
				template = dsp.HighPass(template, sampleRate, b.config.TemplateCutoffHz)
				snr, err := dsp.Score(conditioned, template)
				if err != nil {
					errCh <- err
					return
				}
				results <- cell{index: idx, snr: snr}
			}
		}()
	}

	go func() {
		defer close(indices)
		for i := range b.pairs {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case indices <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	best := cell{index: -1}
	for c := range results {
		if best.index < 0 || c.snr > best.snr || (c.snr == best.snr && c.index < best.index) {
			best = c
		}
	}

	select {
	case err := <-errCh:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if best.index < 0 {
		return nil, ErrEmptySignal
	}

	if best.snr <= b.config.SNRThreshold {
		return nil, nil
	}

	pair := b.pairs[best.index]
	chirp, err := physics.ChirpMass(pair.M1Solar, pair.M2Solar)
	if err != nil {
		return nil, err
	}

	return &Detection{
		SNR:            best.snr,
		M1Solar:        pair.M1Solar,
		M2Solar:        pair.M2Solar,
		ChirpMassSolar: chirp,
		TotalMassSolar: pair.M1Solar + pair.M2Solar,
		PeakStrain:     dsp.PeakStrain(conditioned),
	}, nil
}
