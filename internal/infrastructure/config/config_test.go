package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
registry:
  source_url: "http://localhost:9999/oui.csv"
  cache_dir: "/tmp/ouidb-test"
  basename: "registry"
  ttl: 2h
  rebuild_on_corrupt_cache: false
iot:
  basename: "iot"
mqtt:
  enabled: true
  broker:
    host: "broker.local"
    port: 1883
    client_id: "test-client"
  qos: 1
api:
  host: "0.0.0.0"
  port: 8080
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Registry.SourceURL != "http://localhost:9999/oui.csv" {
		t.Errorf("Registry.SourceURL = %q", cfg.Registry.SourceURL)
	}

	if cfg.Registry.CacheDir != "/tmp/ouidb-test" {
		t.Errorf("Registry.CacheDir = %q, want %q", cfg.Registry.CacheDir, "/tmp/ouidb-test")
	}

	if cfg.Registry.TTL != 2*time.Hour {
		t.Errorf("Registry.TTL = %v, want 2h", cfg.Registry.TTL)
	}

	if cfg.Registry.RebuildOnCorruptCache {
		t.Error("Registry.RebuildOnCorruptCache = true, want false")
	}

	// Unset keys keep their defaults
	if cfg.Registry.UserAgent != DefaultUserAgent {
		t.Errorf("Registry.UserAgent = %q, want default", cfg.Registry.UserAgent)
	}

	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}

	if cfg.Registry.SourceURL != DefaultSourceURL {
		t.Errorf("Registry.SourceURL = %q, want default", cfg.Registry.SourceURL)
	}
}

func TestLoadOrDefault_InvalidFileIsAnError(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadOrDefault(configPath); err == nil {
		t.Error("LoadOrDefault() expected error for invalid YAML, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
registry:
  source_url: ""
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error for empty registry.source_url, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing cache dir",
			mutate:  func(c *Config) { c.Registry.CacheDir = "" },
			wantErr: true,
		},
		{
			name:    "basename with separator",
			mutate:  func(c *Config) { c.Registry.Basename = "../oui" },
			wantErr: true,
		},
		{
			name:    "zero TTL",
			mutate:  func(c *Config) { c.Registry.TTL = 0 },
			wantErr: true,
		},
		{
			name:    "negative fetch timeout",
			mutate:  func(c *Config) { c.Registry.FetchTimeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "iot basename collides with registry",
			mutate:  func(c *Config) { c.IoT.Basename = c.Registry.Basename },
			wantErr: true,
		},
		{
			name:    "invalid QoS",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: true,
		},
		{
			name:    "invalid port low",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid port high",
			mutate:  func(c *Config) { c.API.Port = 70000 },
			wantErr: true,
		},
		{
			name: "mqtt enabled without host",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.Broker.Host = ""
			},
			wantErr: true,
		},
		{
			name:    "influxdb enabled without url",
			mutate:  func(c *Config) { c.InfluxDB.Enabled = true },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := &Config{
		API: APIConfig{
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 45,
				Idle:  60,
			},
		},
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}

	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}

	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	t.Setenv("OUIDB_REGISTRY_SOURCE_URL", "http://mirror.local/oui.csv")
	t.Setenv("OUIDB_REGISTRY_CACHE_DIR", "/var/cache/ouidb")
	t.Setenv("OUIDB_MQTT_HOST", "mqtt.example.com")
	t.Setenv("OUIDB_MQTT_USERNAME", "testuser")
	t.Setenv("OUIDB_MQTT_PASSWORD", "testpass")
	t.Setenv("OUIDB_API_HOST", "192.168.1.1")
	t.Setenv("OUIDB_INFLUXDB_TOKEN", "secret-token")

	applyEnvOverrides(cfg)

	if cfg.Registry.SourceURL != "http://mirror.local/oui.csv" {
		t.Errorf("Registry.SourceURL = %q", cfg.Registry.SourceURL)
	}

	if cfg.Registry.CacheDir != "/var/cache/ouidb" {
		t.Errorf("Registry.CacheDir = %q, want %q", cfg.Registry.CacheDir, "/var/cache/ouidb")
	}

	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}

	if cfg.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "testuser")
	}

	if cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "testpass")
	}

	if cfg.API.Host != "192.168.1.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "192.168.1.1")
	}

	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}
}

func TestExpandPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg := defaultConfig()
	cfg.Registry.CacheDir = "~/cache/oui"
	cfg.expandPaths()

	want := filepath.Join(home, "cache", "oui")
	if cfg.Registry.CacheDir != want {
		t.Errorf("CacheDir = %q, want %q", cfg.Registry.CacheDir, want)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Registry.TTL != 24*time.Hour {
		t.Errorf("defaultConfig Registry.TTL = %v, want 24h", cfg.Registry.TTL)
	}

	if !cfg.Registry.RebuildOnCorruptCache {
		t.Error("defaultConfig should rebuild on corrupt cache")
	}

	if cfg.Registry.CacheDir == "" {
		t.Error("defaultConfig should have non-empty Registry.CacheDir")
	}

	if cfg.Registry.Basename != "iee_oui" {
		t.Errorf("defaultConfig Registry.Basename = %q, want %q", cfg.Registry.Basename, "iee_oui")
	}

	if cfg.MQTT.Enabled || cfg.InfluxDB.Enabled {
		t.Error("defaultConfig should leave MQTT and InfluxDB disabled")
	}

	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("defaultConfig MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
}
