package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.HTTP.Addr != ":3000" {
		t.Errorf("HTTP.Addr = %s, want :3000", cfg.HTTP.Addr)
	}
	if cfg.Catalog.Path != "" {
		t.Errorf("Catalog.Path = %q, want built-in", cfg.Catalog.Path)
	}
	if cfg.Database.Path != "" {
		t.Errorf("Database.Path = %q, want journal disabled", cfg.Database.Path)
	}
	if cfg.EditsProtected() {
		t.Error("edits should be open without a secret")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"negative cache", func(c *Config) { c.Cache.Size = -1 }, "cache.size"},
		{"short secret", func(c *Config) { c.Auth.Secret = "short" }, "auth.secret"},
		{"long secret", func(c *Config) { c.Auth.Secret = strings.Repeat("k", MinSecretLength) }, ""},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, "auth.tokenTTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %s", err, tt.wantErr)
			}
		})
	}
}

func TestConfigSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Catalog.Path = "/srv/catalog.yaml"
	cfg.Database.Path = filepath.Join(tmpDir, "edits.db")
	cfg.Cache.Size = 64
	cfg.HTTP.ReadTimeout = 30 * time.Second

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}
	if loaded.Catalog.Path != "/srv/catalog.yaml" {
		t.Errorf("Catalog.Path = %s", loaded.Catalog.Path)
	}
	if loaded.Database.Path != cfg.Database.Path {
		t.Errorf("Database.Path = %s, want %s", loaded.Database.Path, cfg.Database.Path)
	}
	if loaded.Cache.Size != 64 {
		t.Errorf("Cache.Size = %d, want 64", loaded.Cache.Size)
	}
	if loaded.HTTP.ReadTimeout != 30*time.Second {
		t.Errorf("HTTP.ReadTimeout = %s, want 30s", loaded.HTTP.ReadTimeout)
	}
}

func TestLoadFromPathAppliesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("environment: production\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Environment != "production" {
		t.Errorf("Environment = %s, want production", cfg.Environment)
	}
	if cfg.HTTP.MetricsPath != "/metrics" {
		t.Errorf("HTTP.MetricsPath = %s, want /metrics", cfg.HTTP.MetricsPath)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("Auth.TokenTTL = %s, want 24h", cfg.Auth.TokenTTL)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("cache:\n  size: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CACHE_SIZE", "99")

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Cache.Size != 99 {
		t.Errorf("Cache.Size = %d, want 99", cfg.Cache.Size)
	}
}

func TestLoadFromPathRejectsShortSecret(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("auth:\n  secret: tooshort\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := LoadFromPath(configPath); err == nil {
		t.Error("LoadFromPath() should reject a short secret")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("DATABASE_PATH", "/tmp/journal.db")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error: %v", err)
	}
	if cfg.HTTP.Addr != ":9999" {
		t.Errorf("HTTP.Addr = %s, want :9999", cfg.HTTP.Addr)
	}
	if cfg.Database.Path != "/tmp/journal.db" {
		t.Errorf("Database.Path = %s", cfg.Database.Path)
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	found := FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	// Explicit path doesn't exist, should fall back
	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	if FindConfigPath() == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}

	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	if err := cfg.Save(explicit); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, explicit)
	if got := FindConfigPath(); got != explicit {
		t.Errorf("FindConfigPath() = %s, want %s", got, explicit)
	}
}

func TestSearchPathsOrder(t *testing.T) {
	t.Setenv(EnvConfigPath, "/explicit.yaml")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("HOME", "/home/me")

	paths := SearchPaths()
	if len(paths) != 5 {
		t.Fatalf("SearchPaths() = %v, want 5 entries", paths)
	}
	if paths[0] != "/explicit.yaml" {
		t.Errorf("first = %s, want explicit path", paths[0])
	}
	if filepath.Base(paths[1]) != ConfigFileName {
		t.Errorf("second = %s, want working directory file", paths[1])
	}
	if paths[2] != "/xdg/domainverse/config.yaml" {
		t.Errorf("third = %s", paths[2])
	}
	if paths[4] != "/etc/domainverse/config.yaml" {
		t.Errorf("last = %s", paths[4])
	}
}

// unsetForTest removes key for the duration of the test and restores it after
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadFromPathReadsDotEnv(t *testing.T) {
	unsetForTest(t, "CATALOG_PATH")
	unsetForTest(t, "AUTH_TOKEN_TTL")

	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	// an explicit path outside the working directory, as with --config
	configPath := filepath.Join(t.TempDir(), "explicit.yaml")
	if err := DefaultConfig().Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	dotEnv := "CATALOG_PATH=/srv/catalog.yaml\nAUTH_TOKEN_TTL=2h\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(dotEnv), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}
	if cfg.Catalog.Path != "/srv/catalog.yaml" {
		t.Errorf("Catalog.Path = %q, want value from .env", cfg.Catalog.Path)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("Auth.TokenTTL = %s, want 2h", cfg.Auth.TokenTTL)
	}
}
