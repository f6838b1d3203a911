// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	AppName       = "gwdetect"
	ConfigType    = "yaml"
	DefaultConfig = `# Strain Detection Configuration

# Input signal
sample_rate: 4096       # Strain sample rate in Hz
min_samples: 1000       # Minimum series length to attempt detection

# Signal conditioning
highpass_cutoff: 20     # Single-pole high-pass cutoff in Hz (removes seismic drift)

# Template bank
mass_min: 5             # Smallest component mass in solar masses
mass_max: 95            # Largest component mass in solar masses
mass_step: 5            # Grid spacing in solar masses
snr_threshold: 8.0      # Detection gate; best matched-filter score must exceed this
workers: 0              # Scoring goroutines (0 = all CPUs)

# Derived physics
peak_frequency: 100     # Reference peak frequency in Hz when no spectrum is available
hubble_constant: 70     # Hubble constant in km/s/Mpc for redshift estimates

# Streaming monitor
monitor_interval_ms: 250  # Time between detection passes
monitor_window: 4096      # Circular buffer capacity in samples

# Output
output_path: ""         # JSONL detection export ("" disables)
log_level: "info"       # Log level: debug, info, warn, error
`
)

// Settings holds all application configuration
type Settings struct {
	// Input signal
	SampleRate float64 `mapstructure:"sample_rate"`
	MinSamples int     `mapstructure:"min_samples"`

	// Signal conditioning
	HighpassCutoff float64 `mapstructure:"highpass_cutoff"`

	// Template bank
	MassMin      float64 `mapstructure:"mass_min"`
	MassMax      float64 `mapstructure:"mass_max"`
	MassStep     float64 `mapstructure:"mass_step"`
	SNRThreshold float64 `mapstructure:"snr_threshold"`
	Workers      int     `mapstructure:"workers"`

	// Derived physics
	PeakFrequency  float64 `mapstructure:"peak_frequency"`
	HubbleConstant float64 `mapstructure:"hubble_constant"`

	// Streaming monitor
	MonitorIntervalMs int `mapstructure:"monitor_interval_ms"`
	MonitorWindow     int `mapstructure:"monitor_window"`

	// Output
	OutputPath string `mapstructure:"output_path"`
	LogLevel   string `mapstructure:"log_level"`
}

// Init initializes Viper with defaults and config file.
// Config file search order: current directory, then ~/.config/gwdetect/
func Init() error {
	// Set defaults
	viper.SetDefault("sample_rate", 4096)
	viper.SetDefault("min_samples", 1000)
	viper.SetDefault("highpass_cutoff", 20)
	viper.SetDefault("mass_min", 5)
	viper.SetDefault("mass_max", 95)
	viper.SetDefault("mass_step", 5)
	viper.SetDefault("snr_threshold", 8.0)
	viper.SetDefault("workers", 0)
	viper.SetDefault("peak_frequency", 100)
	viper.SetDefault("hubble_constant", 70)
	viper.SetDefault("monitor_interval_ms", 250)
	viper.SetDefault("monitor_window", 4096)
	viper.SetDefault("output_path", "")
	viper.SetDefault("log_level", "info")

	// Support both config.yaml and .config.yaml
	viper.SetConfigType(ConfigType)

	// Priority order: current directory first, then XDG config
	viper.AddConfigPath(".")

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	viper.AddConfigPath(filepath.Join(configDir, AppName))

	// Try .config.yaml first (hidden file), then config.yaml
	viper.SetConfigName(".config")
	if err = viper.ReadInConfig(); err != nil {
		// Try config.yaml as fallback
		viper.SetConfigName("config")
		err = viper.ReadInConfig()
	}

	// Read config file - if not found, create default in XDG config dir
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// No config found - create default in ~/.config/gwdetect/
			xdgConfigPath := filepath.Join(configDir, AppName)
			if err = ensureConfigExists(xdgConfigPath); err != nil {
				return err
			}
			// Read the newly created config
			if err = viper.ReadInConfig(); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
		} else {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

func ensureConfigExists(configPath string) error {
	configFile := filepath.Join(configPath, "config.yaml")

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err = os.MkdirAll(configPath, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
		if err = os.WriteFile(configFile, []byte(DefaultConfig), 0644); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
	}
	return nil
}

// Get returns the current settings
func Get() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &s, nil
}

// Validate checks that all settings are within acceptable ranges
func (s *Settings) Validate() error {
	var errs []error

	// Input signal
	if s.SampleRate < 128 || s.SampleRate > 65536 {
		errs = append(errs, fmt.Errorf("sample_rate must be between 128 and 65536 Hz, got %v", s.SampleRate))
	}
	if s.MinSamples < 2 {
		errs = append(errs, fmt.Errorf("min_samples must be at least 2, got %d", s.MinSamples))
	}

	// Signal conditioning
	if s.HighpassCutoff <= 0 {
		errs = append(errs, fmt.Errorf("highpass_cutoff must be positive, got %v", s.HighpassCutoff))
	}
	// Nyquist check: the cutoff must sit below half the sample rate
	if s.HighpassCutoff >= s.SampleRate/2 {
		errs = append(errs, fmt.Errorf("highpass_cutoff (%v Hz) must be less than Nyquist frequency (%v Hz)", s.HighpassCutoff, s.SampleRate/2))
	}

	// Template bank
	if s.MassMin <= 0 {
		errs = append(errs, fmt.Errorf("mass_min must be positive, got %v", s.MassMin))
	}
	if s.MassMax < s.MassMin {
		errs = append(errs, fmt.Errorf("mass_max (%v) must not be below mass_min (%v)", s.MassMax, s.MassMin))
	}
	if s.MassStep <= 0 {
		errs = append(errs, fmt.Errorf("mass_step must be positive, got %v", s.MassStep))
	}
	if s.SNRThreshold <= 0 {
		errs = append(errs, fmt.Errorf("snr_threshold must be positive, got %v", s.SNRThreshold))
	}
	if s.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", s.Workers))
	}

	// Derived physics
	if s.PeakFrequency <= 0 {
		errs = append(errs, fmt.Errorf("peak_frequency must be positive, got %v", s.PeakFrequency))
	}
	if s.HubbleConstant <= 0 {
		errs = append(errs, fmt.Errorf("hubble_constant must be positive, got %v", s.HubbleConstant))
	}

	// Streaming monitor
	if s.MonitorIntervalMs < 1 || s.MonitorIntervalMs > 60000 {
		errs = append(errs, fmt.Errorf("monitor_interval_ms must be between 1 and 60000, got %d", s.MonitorIntervalMs))
	}
	if s.MonitorWindow < s.MinSamples {
		errs = append(errs, fmt.Errorf("monitor_window (%d) must be at least min_samples (%d)", s.MonitorWindow, s.MinSamples))
	}

	// Output
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[s.LogLevel] {
		errs = append(errs, fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", s.LogLevel))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
