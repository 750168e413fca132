package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output 'stdout', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_ShutdownTimeout(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown timeout 30s, got %v", cfg.ShutdownTimeout)
	}
}

func TestApplyDefaults_API(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.API.Port != 8080 {
		t.Errorf("Expected default API port 8080, got %d", cfg.API.Port)
	}
	if cfg.API.ReadTimeout != 10*time.Second {
		t.Errorf("Expected default read timeout 10s, got %v", cfg.API.ReadTimeout)
	}
	if cfg.API.IdleTimeout != 60*time.Second {
		t.Errorf("Expected default idle timeout 60s, got %v", cfg.API.IdleTimeout)
	}
	if cfg.API.JWT.Issuer != "gridacct" {
		t.Errorf("Expected default issuer 'gridacct', got %q", cfg.API.JWT.Issuer)
	}
	if !cfg.API.IsEnabled() {
		t.Error("Expected API to be enabled by default")
	}
}

func TestApplyDefaults_Mapping(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Mapping.StorageProvider != "" {
		t.Errorf("Expected storage provider to stay empty, got %q", cfg.Mapping.StorageProvider)
	}
	if cfg.Mapping.Realm != "useraccounts_connect_map" {
		t.Errorf("Expected default realm, got %q", cfg.Mapping.Realm)
	}
}

func TestApplyDefaults_Registration(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Registration.GridName != "My Grid" {
		t.Errorf("Expected default grid name 'My Grid', got %q", cfg.Registration.GridName)
	}
	if cfg.Registration.AdminLanguage != "en-US" {
		t.Errorf("Expected default admin language 'en-US', got %q", cfg.Registration.AdminLanguage)
	}
	if cfg.Registration.RateLimit.Enabled() {
		t.Error("Expected rate limiting to stay disabled without rps/burst")
	}
	if cfg.Registration.RateLimit.IdleTTL != 0 {
		t.Errorf("Expected no idle TTL for a disabled limiter, got %v", cfg.Registration.RateLimit.IdleTTL)
	}
}

func TestApplyDefaults_Metrics(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Metrics.Port != 0 {
		t.Errorf("Expected no metrics port while disabled, got %d", cfg.Metrics.Port)
	}

	cfg = &Config{Metrics: MetricsConfig{Enabled: true}}
	ApplyDefaults(cfg)
	if cfg.Metrics.Port != 9090 {
		t.Errorf("Expected default metrics port 9090, got %d", cfg.Metrics.Port)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "debug",
			Format: "json",
			Output: "stderr",
		},
		ShutdownTimeout: 5 * time.Second,
		Mapping: MappingConfig{
			StorageProvider: " Postgres ",
			Realm:           "grid_map",
		},
		Accounts: AccountsConfig{CountCacheTTL: -1},
	}
	cfg.API.Port = 9999
	cfg.Registration.GridName = "Other Grid"
	cfg.Registration.PendingIdentifier = "[waiting] "

	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected level normalized to 'DEBUG', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected format 'json' preserved, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Expected output 'stderr' preserved, got %q", cfg.Logging.Output)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("Expected shutdown timeout 5s preserved, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Mapping.StorageProvider != "postgres" {
		t.Errorf("Expected storage provider normalized to 'postgres', got %q", cfg.Mapping.StorageProvider)
	}
	if cfg.Mapping.Realm != "grid_map" {
		t.Errorf("Expected realm preserved, got %q", cfg.Mapping.Realm)
	}
	if cfg.Accounts.CountCacheTTL != -1 {
		t.Errorf("Expected negative count cache TTL preserved, got %v", cfg.Accounts.CountCacheTTL)
	}
	if cfg.API.Port != 9999 {
		t.Errorf("Expected API port 9999 preserved, got %d", cfg.API.Port)
	}
	if cfg.Registration.GridName != "Other Grid" {
		t.Errorf("Expected grid name preserved, got %q", cfg.Registration.GridName)
	}
	if cfg.Registration.PendingIdentifier != "[waiting] " {
		t.Errorf("Expected pending identifier preserved, got %q", cfg.Registration.PendingIdentifier)
	}
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.Database.Type != "sqlite" {
		t.Errorf("Expected default database 'sqlite', got %q", cfg.Database.Type)
	}
	if cfg.Mapping.StorageProvider != "memory" {
		t.Errorf("Expected default storage provider 'memory', got %q", cfg.Mapping.StorageProvider)
	}
	if !cfg.Registration.RateLimit.Enabled() {
		t.Error("Expected the generated config to rate limit registration")
	}
	if cfg.Registration.RateLimit.IdleTTL != 10*time.Minute {
		t.Errorf("Expected idle TTL 10m, got %v", cfg.Registration.RateLimit.IdleTTL)
	}
}
