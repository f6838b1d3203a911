// cmd/detect.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gravwave/gwdetect/internal/config"
	"github.com/gravwave/gwdetect/internal/engine"
	"github.com/gravwave/gwdetect/internal/output/jsonl"
	"github.com/gravwave/gwdetect/internal/strain"
)

var detectCmd = &cobra.Command{
	Use:   "detect <strain-file>",
	Short: "Run the detection pipeline on a recorded strain file",
	Long: `Reads a strain time series from a text file (one value per line, or
time,value pairs), conditions it and sweeps the template bank. Prints the
best candidate and its derived physics, or reports that nothing cleared
the threshold.`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	settings, err := config.Get()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := newLogger(settings.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	samples, hasTime, err := strain.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read strain file: %w", err)
	}

	series, err := buildSeries(samples, hasTime, settings.SampleRate)
	if err != nil {
		return fmt.Errorf("build series: %w", err)
	}

	eng, err := engine.New(engineConfig(settings), logger)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	res, err := eng.Detect(cmd.Context(), series.Values(), series.SampleRate())
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}
	if res == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No candidate cleared the detection threshold.")
		return nil
	}

	printResult(cmd, eng, res)

	if settings.OutputPath != "" {
		if err := exportResult(settings.OutputPath, res); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	return nil
}

// buildSeries turns file samples into a series. A time column carries its
// own rate, even when it happens to tick at 1 Hz; bare-value files use the
// configured sample rate.
func buildSeries(samples []strain.Sample, hasTime bool, configuredRate float64) (*strain.Series, error) {
	if hasTime {
		return strain.FromSamples(samples, strain.DefaultSpacingTolerance)
	}
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}
	return strain.New(values, configuredRate)
}

func printResult(cmd *cobra.Command, eng *engine.Engine, res *engine.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Detection at %s\n", res.DetectedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(out, "  SNR:            %.2f\n", res.SNR)
	fmt.Fprintf(out, "  Masses:         %.1f + %.1f solar masses\n", res.M1Solar, res.M2Solar)
	fmt.Fprintf(out, "  Chirp mass:     %.2f solar masses\n", res.ChirpMassSolar)
	fmt.Fprintf(out, "  Peak frequency: %.1f Hz\n", res.PeakFrequencyHz)

	derived, err := eng.Derived(res)
	if err != nil {
		fmt.Fprintf(out, "  (derived physics unavailable: %v)\n", err)
		return
	}
	fmt.Fprintf(out, "  Radiated energy: %.3g J\n", derived.RadiatedEnergyJoules)
	fmt.Fprintf(out, "  Peak luminosity: %.3g W\n", derived.PeakLuminosityWatts)
	fmt.Fprintf(out, "  Distance:        %.0f Mpc\n", derived.DistanceMegaparsecs)
	fmt.Fprintf(out, "  Redshift:        %.4f\n", derived.Redshift)
}

func exportResult(path string, res *engine.Result) error {
	w, err := jsonl.NewWriter(path, 16)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if err := w.Write(res); err != nil {
		return err
	}
	return w.Flush()
}
