// cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gravwave/gwdetect/internal/config"
	"github.com/gravwave/gwdetect/internal/dsp"
	"github.com/gravwave/gwdetect/internal/engine"
	"github.com/gravwave/gwdetect/internal/search"
)

var rootCmd = &cobra.Command{
	Use:   "gwdetect",
	Short: "Matched-filter gravitational-wave detector for strain time series",
	Long: `A matched-filter detection pipeline for compact binary coalescences.
It conditions raw strain data, sweeps a template bank of inspiral waveforms
and reports the best-matching candidate with its derived physics.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags (override config file)
	rootCmd.PersistentFlags().Float64P("sample-rate", "r", 4096, "strain sample rate in Hz")
	rootCmd.PersistentFlags().Float64P("threshold", "t", 8.0, "SNR detection threshold")
	rootCmd.PersistentFlags().StringP("output", "o", "", "JSONL detection export path")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")

	// Bind flags to viper
	viper.BindPFlag("sample_rate", rootCmd.PersistentFlags().Lookup("sample-rate"))
	viper.BindPFlag("snr_threshold", rootCmd.PersistentFlags().Lookup("threshold"))
	viper.BindPFlag("output_path", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds a console logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		lvl,
	)
	return zap.New(core), nil
}

// engineConfig maps the application settings onto the pipeline configuration.
func engineConfig(s *config.Settings) engine.Config {
	return engine.Config{
		Preprocessor: dsp.PreprocessorConfig{
			CutoffHz:   s.HighpassCutoff,
			MinSamples: s.MinSamples,
		},
		Search: search.Config{
			MassMinSolar:     s.MassMin,
			MassMaxSolar:     s.MassMax,
			MassStepSolar:    s.MassStep,
			SNRThreshold:     s.SNRThreshold,
			TemplateCutoffHz: s.HighpassCutoff,
			Workers:          s.Workers,
		},
		HubbleConstantKmsMpc: s.HubbleConstant,
	}
}
