package config

import (
	"strings"
	"time"

	"github.com/marmos91/gridaccounts/internal/ratelimit"
	"github.com/marmos91/gridaccounts/pkg/api"
	"github.com/marmos91/gridaccounts/pkg/database"
	"github.com/marmos91/gridaccounts/pkg/models"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Zero values are replaced with defaults; explicit values are preserved.
// The mapping storage provider is never defaulted.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyShutdownTimeoutDefaults(cfg)
	applyDatabaseDefaults(&cfg.Database)
	applyMappingDefaults(&cfg.Mapping)
	applyRegistrationDefaults(&cfg.Registration)
	cfg.Notify.ApplyDefaults()
	applyMetricsDefaults(&cfg.Metrics)
	applyAPIDefaults(&cfg.API)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyTelemetryDefaults sets OpenTelemetry defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}

	applyProfilingDefaults(&cfg.Profiling)
}

// applyProfilingDefaults sets Pyroscope profiling defaults.
func applyProfilingDefaults(cfg *ProfilingConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4040"
	}
	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = []string{
			"cpu",
			"alloc_objects",
			"alloc_space",
			"inuse_objects",
			"inuse_space",
			"goroutines",
		}
	}
}

func applyShutdownTimeoutDefaults(cfg *Config) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(cfg *database.Config) {
	cfg.ApplyDefaults()
}

func applyMappingDefaults(cfg *MappingConfig) {
	cfg.StorageProvider = strings.ToLower(strings.TrimSpace(cfg.StorageProvider))
	if cfg.Realm == "" {
		cfg.Realm = models.DefaultRealm
	}
}

func applyRegistrationDefaults(cfg *RegistrationConfig) {
	cfg.Policy.ApplyDefaults()
	if cfg.RateLimit.Enabled() && cfg.RateLimit.IdleTTL == 0 {
		cfg.RateLimit.IdleTTL = ratelimit.DefaultIdleTTL
	}
}

// applyMetricsDefaults sets the metrics port when metrics are enabled.
func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

func applyAPIDefaults(cfg *api.APIConfig) {
	cfg.ApplyDefaults()
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// The mapping store defaults to the in-memory driver here so that a freshly
// generated file starts without external dependencies.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Database: database.Config{
			Type: database.DatabaseTypeSQLite,
		},
		Mapping: MappingConfig{
			StorageProvider: "memory",
		},
		Registration: RegistrationConfig{
			RateLimit: ratelimit.Config{
				RPS:   1,
				Burst: 5,
			},
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
