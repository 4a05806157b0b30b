package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for the registry source and cache.
const (
	// DefaultSourceURL is the IEEE MA-L registry export.
	DefaultSourceURL = "https://standards-oui.ieee.org/oui/oui.csv"

	// DefaultUserAgent is sent with registry downloads. The IEEE front end
	// rejects requests carrying Go's default agent.
	DefaultUserAgent = "Mozilla/5.0"

	// DefaultTTL is how long a downloaded snapshot is considered fresh.
	DefaultTTL = 24 * time.Hour

	// DefaultCacheDirName is created under the user's home directory.
	DefaultCacheDirName = "NG_OUI_DB"

	// DefaultBasename names the registry snapshot triple:
	// iee_oui.csv, iee_oui.json and iee_oui.mpk.
	DefaultBasename = "iee_oui"
)

// Config is the root configuration structure for ouidb.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Registry RegistryConfig `yaml:"registry"`
	IoT      IoTConfig      `yaml:"iot"`
	API      APIConfig      `yaml:"api"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// RegistryConfig controls where the registry comes from and how it is cached.
type RegistryConfig struct {
	// SourceURL is fetched with a single GET when the snapshot is missing or stale.
	SourceURL string `yaml:"source_url"`

	// CacheDir holds the raw snapshot and its derived dumps.
	// Default: ~/NG_OUI_DB
	CacheDir string `yaml:"cache_dir"`

	// Basename names the snapshot triple (<basename>.csv/.json/.mpk).
	Basename string `yaml:"basename"`

	// TTL is the snapshot freshness window.
	// Default: 24h
	TTL time.Duration `yaml:"ttl"`

	// FetchTimeout bounds the download. 0 leaves the HTTP client default (none).
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// UserAgent is sent with the download request.
	UserAgent string `yaml:"user_agent"`

	// RebuildOnCorruptCache re-parses the raw snapshot when the binary dump
	// cannot be decoded. When false the decode error is returned.
	// Default: true
	RebuildOnCorruptCache bool `yaml:"rebuild_on_corrupt_cache"`
}

// IoTConfig contains IoT classifier settings.
type IoTConfig struct {
	// Basename names the manufacturer set dumps (<basename>.json/.mpk),
	// stored alongside the registry snapshot.
	Basename string `yaml:"basename"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: OUIDB_SECTION_KEY
// For example: OUIDB_REGISTRY_CACHE_DIR, OUIDB_MQTT_HOST
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return finish(cfg)
}

// LoadOrDefault behaves like Load but falls back to the defaults when the
// file does not exist. The command-line tool works without any config file.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		cfg, err := Load(path)
		if err == nil || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}
	return finish(defaultConfig())
}

// Default returns the validated default configuration without consulting
// the environment.
func Default() *Config {
	return defaultConfig()
}

func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)
	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{
			SourceURL:             DefaultSourceURL,
			CacheDir:              defaultCacheDir(),
			Basename:              DefaultBasename,
			TTL:                   DefaultTTL,
			UserAgent:             DefaultUserAgent,
			RebuildOnCorruptCache: true,
		},
		IoT: IoTConfig{
			Basename: "iot_manufacturers",
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8484,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "ouidb",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			Org:    "ouidb",
			Bucket: "ouidb",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// defaultCacheDir returns ~/NG_OUI_DB, or a relative directory of the same
// name when the home directory cannot be determined.
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultCacheDirName
	}
	return filepath.Join(home, DefaultCacheDirName)
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: OUIDB_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Registry
	if v := os.Getenv("OUIDB_REGISTRY_SOURCE_URL"); v != "" {
		cfg.Registry.SourceURL = v
	}
	if v := os.Getenv("OUIDB_REGISTRY_CACHE_DIR"); v != "" {
		cfg.Registry.CacheDir = v
	}

	// MQTT
	if v := os.Getenv("OUIDB_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("OUIDB_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("OUIDB_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("OUIDB_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// InfluxDB
	if v := os.Getenv("OUIDB_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// expandPaths resolves a leading "~/" in the cache directory.
func (c *Config) expandPaths() {
	dir := c.Registry.CacheDir
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			c.Registry.CacheDir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
		}
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Registry validation
	if c.Registry.SourceURL == "" {
		errs = append(errs, "registry.source_url is required")
	}
	if c.Registry.CacheDir == "" {
		errs = append(errs, "registry.cache_dir is required")
	}
	if c.Registry.Basename == "" || strings.ContainsAny(c.Registry.Basename, `/\`) {
		errs = append(errs, "registry.basename must be a plain file name")
	}
	if c.Registry.TTL <= 0 {
		errs = append(errs, "registry.ttl must be positive")
	}
	if c.Registry.FetchTimeout < 0 {
		errs = append(errs, "registry.fetch_timeout must not be negative")
	}

	// IoT validation
	if c.IoT.Basename == "" || strings.ContainsAny(c.IoT.Basename, `/\`) {
		errs = append(errs, "iot.basename must be a plain file name")
	}
	if c.IoT.Basename == c.Registry.Basename {
		errs = append(errs, "iot.basename must differ from registry.basename")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled && c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
