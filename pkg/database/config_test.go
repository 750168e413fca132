package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaults_SQLitePath(t *testing.T) {
	t.Run("UsesXDGConfigHome", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)

		cfg := &Config{}
		cfg.ApplyDefaults()

		if cfg.Type != DatabaseTypeSQLite {
			t.Errorf("Type = %q, expected sqlite", cfg.Type)
		}
		expected := filepath.Join(tmpDir, "gridacct", "accounts.db")
		if cfg.SQLite.Path != expected {
			t.Errorf("SQLite.Path = %q, expected %q", cfg.SQLite.Path, expected)
		}
	})

	t.Run("FallbackWithoutXDG", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")

		cfg := &Config{Type: DatabaseTypeSQLite}
		cfg.ApplyDefaults()

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".config", "gridacct", "accounts.db")
		if cfg.SQLite.Path != expected {
			t.Errorf("SQLite.Path = %q, expected %q", cfg.SQLite.Path, expected)
		}
	})
}

func TestApplyDefaults_PreservesExplicitPath(t *testing.T) {
	customPath := "/custom/path/to/db.sqlite"
	cfg := &Config{
		Type:   DatabaseTypeSQLite,
		SQLite: SQLiteConfig{Path: customPath},
	}
	cfg.ApplyDefaults()

	if cfg.SQLite.Path != customPath {
		t.Errorf("SQLite.Path = %q, expected %q (explicit path should be preserved)", cfg.SQLite.Path, customPath)
	}
}

func TestApplyDefaults_Postgres(t *testing.T) {
	cfg := &Config{Type: DatabaseTypePostgres}
	cfg.ApplyDefaults()

	if cfg.Postgres.Port != 5432 || cfg.Postgres.SSLMode != "disable" {
		t.Errorf("unexpected defaults: %+v", cfg.Postgres)
	}
	if cfg.Postgres.MaxOpenConns != 25 || cfg.Postgres.MaxIdleConns != 5 {
		t.Errorf("unexpected pool defaults: %+v", cfg.Postgres)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite ok", Config{Type: DatabaseTypeSQLite, SQLite: SQLiteConfig{Path: ":memory:"}}, false},
		{"sqlite missing path", Config{Type: DatabaseTypeSQLite}, true},
		{"postgres ok", Config{Type: DatabaseTypePostgres, Postgres: PostgresConfig{Host: "db", Database: "grid", User: "grid"}}, false},
		{"postgres missing host", Config{Type: DatabaseTypePostgres, Postgres: PostgresConfig{Database: "grid", User: "grid"}}, true},
		{"postgres missing user", Config{Type: DatabaseTypePostgres, Postgres: PostgresConfig{Host: "db", Database: "grid"}}, true},
		{"unknown type", Config{Type: "mysql"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "grid", SSLMode: "require"}
	want := "host=db port=5432 user=u password=p dbname=grid sslmode=require"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
	wantURL := "postgres://u:p@db:5432/grid?sslmode=require"
	if got := cfg.URL(); got != wantURL {
		t.Errorf("URL() = %q, want %q", got, wantURL)
	}
}

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("UNIQUE constraint failed: accounts.first_name"), true},
		{errors.New(`ERROR: duplicate key value violates unique constraint "idx_accounts_scope_name"`), true},
		{errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		if got := IsUniqueConstraintError(tt.err); got != tt.want {
			t.Errorf("IsUniqueConstraintError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
