package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chrissnell/lickcalc/internal/licks"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	p := cfg.Params()
	if p.BurstILIThreshold != 0.5 || p.MinLicksPerBurst != 1 || p.LongLickThreshold != 0.3 {
		t.Errorf("unexpected default params: %+v", p)
	}
	if p.LongLickRemoval || p.ClusterILIThreshold != 0 {
		t.Errorf("removal and clusters should be off by default: %+v", p)
	}
	if p.MinBurstsForWeibull != 10 {
		t.Errorf("MinBurstsForWeibull = %d, want 10", p.MinBurstsForWeibull)
	}
	if len(cfg.Warnings()) != 0 {
		t.Errorf("default config has warnings: %v", cfg.Warnings())
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("expected defaults, got listen addr %q", cfg.Server.ListenAddr)
	}
}

func TestLoadConfigValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configContent := `log_level: debug
microstructure:
  interburst_interval: 1.0
  cluster_interval: 3.0
  min_licks_per_burst: 3
  remove_long_licks: true
analysis:
  min_bursts_for_weibull: 4
server:
  listen_addr: 127.0.0.1:9000
  read_timeout: 5s
storage:
  backend: sqlite
  dsn: results.db
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	p := cfg.Params()
	if p.BurstILIThreshold != 1.0 || p.ClusterILIThreshold != 3.0 || p.MinLicksPerBurst != 3 {
		t.Errorf("unexpected params: %+v", p)
	}
	if !p.LongLickRemoval || p.MinBurstsForWeibull != 4 {
		t.Errorf("unexpected params: %+v", p)
	}
	// untouched keys keep their defaults
	if p.LongLickThreshold != 0.3 {
		t.Errorf("LongLickThreshold = %v, want default 0.3", p.LongLickThreshold)
	}
	if cfg.Server.ReadTimeout != 5*time.Second || cfg.Server.WriteTimeout != 60*time.Second {
		t.Errorf("unexpected timeouts: %v / %v", cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	}
	if cfg.Storage.Backend != BackendSQLite || cfg.Storage.DSN != "results.db" {
		t.Errorf("unexpected storage: %+v", cfg.Storage)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "unknown key", content: "microstructure:\n  burst_gap: 1\n", want: "burst_gap"},
		{name: "malformed yaml", content: "microstructure: [1, 2\n", want: "failed to parse"},
		{name: "zero threshold", content: "microstructure:\n  interburst_interval: 0\n", want: "burst ILI threshold"},
		{name: "cluster below burst", content: "microstructure:\n  cluster_interval: 0.2\n", want: "cluster"},
		{name: "bad backend", content: "storage:\n  backend: mysql\n", want: "storage.backend"},
		{name: "postgres without dsn", content: "storage:\n  backend: postgres\n", want: "storage.dsn"},
		{name: "zero ili bins", content: "histograms:\n  ili_bins: 0\n", want: "ili_bins"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.content))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseParamErrorsWrapSentinel(t *testing.T) {
	_, err := Parse(strings.NewReader("microstructure:\n  min_licks_per_burst: 0\n"))
	if !errors.Is(err, licks.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Microstructure.InterburstInterval != 0.5 {
		t.Errorf("expected defaults for an empty document, got %+v", cfg.Microstructure)
	}
}

func TestWarnings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Microstructure.InterburstInterval = 5
	cfg.Microstructure.LongLickThreshold = 2
	cfg.Histograms.SessionBinSize = 600

	if got := cfg.Warnings(); len(got) != 3 {
		t.Errorf("expected 3 warnings, got %v", got)
	}
}
