// cmd/monitor.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gravwave/gwdetect/internal/config"
	"github.com/gravwave/gwdetect/internal/engine"
	"github.com/gravwave/gwdetect/internal/monitor"
	"github.com/gravwave/gwdetect/internal/output/jsonl"
	"github.com/gravwave/gwdetect/internal/strain"
)

var (
	monReplay      string
	monInjectEvery int
	monInjectM1    float64
	monInjectM2    float64
	monInjectPeak  float64
	monNoise       float64
	monSeed        int64
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the streaming detector on a live sample source",
	Long: `Continuously fills a sliding window from a sample source and re-runs
the detection pipeline on each full window. By default the source is
synthetic noise with optional periodic inspiral injections; --replay
streams a recorded strain file instead. Stops on Ctrl-C or when the
source is exhausted.`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monReplay, "replay", "", "strain file to stream instead of synthetic noise")
	monitorCmd.Flags().IntVar(&monInjectEvery, "inject-every", 0, "inject an inspiral after this many samples (0 disables)")
	monitorCmd.Flags().Float64Var(&monInjectM1, "inject-m1", 30, "injected first component mass in solar masses")
	monitorCmd.Flags().Float64Var(&monInjectM2, "inject-m2", 25, "injected second component mass in solar masses")
	monitorCmd.Flags().Float64Var(&monInjectPeak, "inject-peak-strain", 1e-21, "peak strain of injected waveforms")
	monitorCmd.Flags().Float64Var(&monNoise, "noise", 1e-24, "synthetic noise amplitude")
	monitorCmd.Flags().Int64Var(&monSeed, "seed", 1, "synthetic noise seed")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	settings, err := config.Get()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := newLogger(settings.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	eng, err := engine.New(engineConfig(settings), logger)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	source, err := buildSource(settings)
	if err != nil {
		return err
	}

	mon, err := monitor.New(monitor.Config{
		SampleRate: settings.SampleRate,
		WindowSize: settings.MonitorWindow,
		Interval:   time.Duration(settings.MonitorIntervalMs) * time.Millisecond,
	}, eng, source, logger)
	if err != nil {
		return fmt.Errorf("build monitor: %w", err)
	}

	var writer *jsonl.Writer
	if settings.OutputPath != "" {
		writer, err = jsonl.NewWriter(settings.OutputPath, 64)
		if err != nil {
			return fmt.Errorf("open export: %w", err)
		}
		defer func() { _ = writer.Close() }()
	}

	mon.SetCallback(func(res *engine.Result) {
		logger.Info("candidate",
			zap.Float64("snr", res.SNR),
			zap.Float64("m1_solar", res.M1Solar),
			zap.Float64("m2_solar", res.M2Solar))
		if writer != nil {
			if err := writer.Write(res); err != nil {
				logger.Warn("export failed", zap.Error(err))
			}
		}
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := mon.Start(ctx); err != nil {
		return fmt.Errorf("start monitor: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	logger.Info("monitor running",
		zap.Float64("sample_rate", settings.SampleRate),
		zap.Int("window", settings.MonitorWindow))

	// Block until a signal arrives or the source runs dry.
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for mon.IsRunning() {
		select {
		case <-sigCh:
			logger.Info("shutting down")
			cancel()
			if err := mon.Stop(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d detections\n", mon.Detections())
			return nil
		case <-ticker.C:
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "source exhausted, %d detections\n", mon.Detections())
	return nil
}

func buildSource(settings *config.Settings) (monitor.SampleSource, error) {
	if monReplay != "" {
		values, err := strain.ReadValues(monReplay)
		if err != nil {
			return nil, fmt.Errorf("read replay file: %w", err)
		}
		return monitor.NewReplaySource(values), nil
	}

	src, err := monitor.NewSyntheticSource(monitor.SyntheticConfig{
		SampleRate:       settings.SampleRate,
		NoiseAmplitude:   monNoise,
		Seed:             monSeed,
		InjectEvery:      monInjectEvery,
		InjectMass1Solar: monInjectM1,
		InjectMass2Solar: monInjectM2,
		InjectPeakStrain: monInjectPeak,
		InjectDuration:   0.25,
	})
	if err != nil {
		return nil, fmt.Errorf("build synthetic source: %w", err)
	}
	return src, nil
}
