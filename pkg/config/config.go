// Package config loads the lickcalc YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chrissnell/lickcalc/internal/licks"
)

// MicrostructureConfig holds the default segmentation parameters
type MicrostructureConfig struct {
	// InterburstInterval is the ILI threshold in seconds; intervals at or below
	// it keep licks in the same burst
	InterburstInterval float64 `yaml:"interburst_interval"`

	// ClusterInterval is the ILI threshold for clusters (0 disables clusters)
	ClusterInterval float64 `yaml:"cluster_interval"`

	MinLicksPerBurst  int     `yaml:"min_licks_per_burst"`
	LongLickThreshold float64 `yaml:"long_lick_threshold"`
	RemoveLongLicks   bool    `yaml:"remove_long_licks"`
}

// AnalysisConfig holds analysis options that are not segmentation parameters
type AnalysisConfig struct {
	// MinBurstsForWeibull is the fewest bursts a session needs for a Weibull fit
	MinBurstsForWeibull int `yaml:"min_bursts_for_weibull"`
}

// HistogramConfig controls the histogram series returned by the API
type HistogramConfig struct {
	ILIBins           int     `yaml:"ili_bins"`
	ILIMax            float64 `yaml:"ili_max"`
	LickLengthBinSize float64 `yaml:"lick_length_bin_size"`
	SessionBinSize    float64 `yaml:"session_bin_size"`
}

// ServerConfig configures the REST server
type ServerConfig struct {
	ListenAddr      string        `yaml:"listen_addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// StorageConfig selects the results table backend. An empty backend disables
// storage.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	DSN     string `yaml:"dsn"`
}

// Config is the complete lickcalc configuration
type Config struct {
	// LogLevel sets the production log level (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	Microstructure MicrostructureConfig `yaml:"microstructure"`
	Analysis       AnalysisConfig       `yaml:"analysis"`
	Histograms     HistogramConfig      `yaml:"histograms"`
	Server         ServerConfig         `yaml:"server"`
	Storage        StorageConfig        `yaml:"storage"`
}

// Storage backends
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// DefaultConfig returns a Config with the standard lick analysis defaults
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Microstructure: MicrostructureConfig{
			InterburstInterval: 0.5,
			MinLicksPerBurst:   1,
			LongLickThreshold:  0.3,
		},
		Analysis: AnalysisConfig{
			MinBurstsForWeibull: 10,
		},
		Histograms: HistogramConfig{
			ILIBins:           licks.DefaultILIBins,
			ILIMax:            licks.DefaultILIMax,
			LickLengthBinSize: licks.DefaultLickLengthBinSize,
			SessionBinSize:    30,
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    32 << 20,
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// Keys present in the file override the defaults; unknown keys are an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()

	if err := decode(f, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration over the defaults
func Parse(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if err := decode(r, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Params returns the analysis parameters described by the configuration
func (c *Config) Params() licks.Params {
	return licks.Params{
		BurstILIThreshold:   c.Microstructure.InterburstInterval,
		ClusterILIThreshold: c.Microstructure.ClusterInterval,
		MinLicksPerBurst:    c.Microstructure.MinLicksPerBurst,
		LongLickThreshold:   c.Microstructure.LongLickThreshold,
		LongLickRemoval:     c.Microstructure.RemoveLongLicks,
		MinBurstsForWeibull: c.Analysis.MinBurstsForWeibull,
	}
}

// Validate checks every section and returns all problems found
func (c *Config) Validate() error {
	var errs []error
	if err := c.Params().Validate(); err != nil {
		errs = append(errs, err)
	}

	h := c.Histograms
	if h.ILIBins < 1 {
		errs = append(errs, fmt.Errorf("histograms.ili_bins must be at least 1, got %d", h.ILIBins))
	}
	if !(h.ILIMax > 0) {
		errs = append(errs, fmt.Errorf("histograms.ili_max must be positive, got %v", h.ILIMax))
	}
	if !(h.LickLengthBinSize > 0) {
		errs = append(errs, fmt.Errorf("histograms.lick_length_bin_size must be positive, got %v", h.LickLengthBinSize))
	}
	if !(h.SessionBinSize > 0) {
		errs = append(errs, fmt.Errorf("histograms.session_bin_size must be positive, got %v", h.SessionBinSize))
	}

	if c.Server.ListenAddr == "" {
		errs = append(errs, errors.New("server.listen_addr is required"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes))
	}

	switch strings.ToLower(c.Storage.Backend) {
	case "":
	case BackendSQLite:
	case BackendPostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage.dsn is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be %q or %q, got %q", BackendSQLite, BackendPostgres, c.Storage.Backend))
	}

	return errors.Join(errs...)
}

// Warnings returns notes about values that are valid but outside the range
// usually used for rodent licking data
func (c *Config) Warnings() []string {
	var warnings []string
	m := c.Microstructure
	if m.InterburstInterval > 3 {
		warnings = append(warnings, fmt.Sprintf("microstructure.interburst_interval %.2fs is above the usual 0-3s range", m.InterburstInterval))
	}
	if m.LongLickThreshold < 0.1 || m.LongLickThreshold > 1 {
		warnings = append(warnings, fmt.Sprintf("microstructure.long_lick_threshold %.2fs is outside the usual 0.1-1s range", m.LongLickThreshold))
	}
	if m.ClusterInterval > 0 && m.ClusterInterval == m.InterburstInterval {
		warnings = append(warnings, "microstructure.cluster_interval equals interburst_interval; clusters are disabled")
	}
	if s := c.Histograms.SessionBinSize; s < 5 || s > 300 {
		warnings = append(warnings, fmt.Sprintf("histograms.session_bin_size %.0fs is outside the usual 5-300s range", s))
	}
	return warnings
}
