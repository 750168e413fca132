package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestInitConfig_Success(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	configPath, err := InitConfig(false)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	contentStr := string(content)
	expectedSections := []string{
		"# gridacct Configuration File",
		"logging:",
		"database:",
		"mapping:",
		"registration:",
		"notify:",
		"api:",
	}

	for _, section := range expectedSections {
		if !strings.Contains(contentStr, section) {
			t.Errorf("Config file missing section: %s", section)
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		t.Fatalf("Generated config is not valid YAML: %v", err)
	}
}

func TestInitConfig_AlreadyExists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := InitConfig(false); err != nil {
		t.Fatalf("First InitConfig failed: %v", err)
	}

	_, err := InitConfig(false)
	if err == nil {
		t.Fatal("Expected error when config already exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected 'already exists' error, got: %v", err)
	}
}

func TestInitConfigToPath_Force(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom", "config.yaml")

	if err := InitConfigToPath(configPath, false); err != nil {
		t.Fatalf("First InitConfigToPath failed: %v", err)
	}
	first, _ := Load(configPath)

	if err := InitConfigToPath(configPath, true); err != nil {
		t.Fatalf("InitConfigToPath with force failed: %v", err)
	}
	second, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load recreated config: %v", err)
	}

	if first != nil && first.API.JWT.Secret == second.API.JWT.Secret {
		t.Error("Expected a new JWT secret after forced re-init")
	}
}

func TestGeneratedConfigIsLoadable(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	if err := InitConfigToPath(configPath, false); err != nil {
		t.Fatalf("InitConfigToPath failed: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected INFO log level in generated config, got %q", cfg.Logging.Level)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("Expected port 8080 in generated config, got %d", cfg.API.Port)
	}
	if cfg.Mapping.StorageProvider != "memory" {
		t.Errorf("Expected memory storage provider, got %q", cfg.Mapping.StorageProvider)
	}
	if cfg.Registration.PendingIdentifier != "*pending* " {
		t.Errorf("Expected pending identifier to keep its trailing space, got %q", cfg.Registration.PendingIdentifier)
	}
}

func TestGeneratedConfigHasJWTSecret(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	if err := InitConfigToPath(configPath, false); err != nil {
		t.Fatalf("InitConfigToPath failed: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if len(cfg.API.JWT.Secret) < 32 {
		t.Errorf("Expected JWT secret to be at least 32 chars, got %d", len(cfg.API.JWT.Secret))
	}
}
