// internal/monitor/monitor.go
// Package monitor implements the streaming variant of the detection
// pipeline: samples from a source accumulate in a bounded circular buffer
// owned by one goroutine, and detection re-runs periodically on an
// immutable snapshot of the latest window.
package monitor

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/gravwave/gwdetect/internal/engine"
	"github.com/gravwave/gwdetect/internal/recovery"
)

var (
	// ErrAlreadyRunning indicates the monitor has been started
	ErrAlreadyRunning = errors.New("monitor already running")
	// ErrNotRunning indicates the monitor is stopped
	ErrNotRunning = errors.New("monitor not running")
	// ErrSourceRequired indicates a sample source is required
	ErrSourceRequired = errors.New("sample source is required")
	// ErrEngineRequired indicates a detection engine is required
	ErrEngineRequired = errors.New("detection engine is required")
	// ErrInvalidWindow indicates the window must hold at least one sample
	ErrInvalidWindow = errors.New("window size must be positive")
	// ErrInvalidInterval indicates the tick interval must be positive
	ErrInvalidInterval = errors.New("tick interval must be positive")
)

// DetectionCallback receives accepted detections. It is invoked from the
// monitor goroutine and must be fast and non-blocking.
type DetectionCallback func(*engine.Result)

// Config holds the streaming parameters.
// All values should come from the application config file.
type Config struct {
	// SampleRate is the source sample rate in Hz (from config: sample_rate)
	SampleRate float64
	// WindowSize is the circular buffer capacity in samples (from config: monitor_window)
	WindowSize int
	// Interval is the time between detection passes (from config: monitor_interval_ms)
	Interval time.Duration
	// ChunkSize is the number of samples pulled from the source per tick;
	// <= 0 derives it from the sample rate and interval
	ChunkSize int
}

// Monitor owns the buffer and the periodic detection loop.
type Monitor struct {
	config Config
	eng    *engine.Engine
	source SampleSource
	logger *zap.Logger

	mu      sync.Mutex
	ring    *ring
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	callbackPtr atomic.Pointer[DetectionCallback]

	// detections counts accepted candidates since Start
	detections atomic.Int64
}

// New validates the configuration and wires the monitor.
func New(cfg Config, eng *engine.Engine, source SampleSource, logger *zap.Logger) (*Monitor, error) {
	if eng == nil {
		return nil, ErrEngineRequired
	}
	if source == nil {
		return nil, ErrSourceRequired
	}
	if cfg.WindowSize <= 0 {
		return nil, ErrInvalidWindow
	}
	if cfg.Interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = int(cfg.SampleRate * cfg.Interval.Seconds())
		if cfg.ChunkSize <= 0 {
			cfg.ChunkSize = 1
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Monitor{
		config: cfg,
		eng:    eng,
		source: source,
		logger: logger,
		ring:   newRing(cfg.WindowSize),
	}, nil
}

// SetCallback registers the detection callback. Safe to call while running.
func (m *Monitor) SetCallback(cb DetectionCallback) {
	if cb == nil {
		m.callbackPtr.Store(nil)
	} else {
		m.callbackPtr.Store(&cb)
	}
}

// Start launches the monitor loop. It returns immediately; the loop stops
// when the context is canceled, the source ends, or Stop is called.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	m.mu.Unlock()

	go func() {
		defer close(m.doneCh)
		defer recovery.HandlePanic()
		m.loop(ctx)
	}()
	return nil
}

// Stop halts the loop and waits for it to exit.
func (m *Monitor) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return ErrNotRunning
	}
	m.running = false
	close(m.stopCh)
	done := m.doneCh
	m.mu.Unlock()

	<-done
	return nil
}

// IsRunning reports whether the loop is active.
func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Snapshot returns a copy of the current window, oldest sample first.
func (m *Monitor) Snapshot() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ring.Snapshot()
}

// Detections returns the number of accepted candidates since Start.
func (m *Monitor) Detections() int64 {
	return m.detections.Load()
}

func (m *Monitor) loop(ctx context.Context) {
	// Every exit path clears the running flag, including context
	// cancellation, so IsRunning never reports a dead loop.
	defer m.markStopped()

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	chunk := make([]float64, m.config.ChunkSize)
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
		}

		n, err := m.source.Read(chunk)
		if n > 0 {
			m.mu.Lock()
			m.ring.Append(chunk[:n])
			full := m.ring.Full()
			var window []float64
			if full {
				window = m.ring.Snapshot()
			}
			m.mu.Unlock()

			if full {
				m.analyze(ctx, window)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				m.logger.Error("sample source failed", zap.Error(err))
			}
			return
		}
	}
}

// markStopped clears the running flag when the loop exits.
func (m *Monitor) markStopped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
}

func (m *Monitor) analyze(ctx context.Context, window []float64) {
	res, err := m.eng.Detect(ctx, window, m.config.SampleRate)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			m.logger.Warn("detection pass failed", zap.Error(err))
		}
		return
	}
	if res == nil {
		return
	}

	m.detections.Add(1)
	if cbPtr := m.callbackPtr.Load(); cbPtr != nil {
		(*cbPtr)(res)
	}
}
