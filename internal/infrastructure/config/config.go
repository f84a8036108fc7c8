package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/BilalX570/File-Management-System-Project/internal/shared/digest"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Workspace WorkspaceConfig `yaml:"workspace" toml:"workspace"`
	Recycle   RecycleConfig   `yaml:"recycle" toml:"recycle"`
	Logging   LogConfig       `yaml:"logging" toml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" toml:"cors"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port     string `envconfig:"PORT" default:"8000" yaml:"port" toml:"port"`
	Host     string `envconfig:"HOST" default:"0.0.0.0" yaml:"host" toml:"host"`
	Compress bool   `envconfig:"COMPRESS" default:"true" yaml:"compress" toml:"compress"`
}

// WorkspaceConfig locates the managed directory and its bookkeeping files.
type WorkspaceConfig struct {
	Root       string `envconfig:"WORKSPACE_ROOT" default:"." yaml:"root" toml:"root"`
	Manifest   string `envconfig:"MANIFEST_FILE" default:"files.txt" yaml:"manifest" toml:"manifest"`
	RecycleDir string `envconfig:"RECYCLE_DIR" default:"recycle_bin" yaml:"recycle_dir" toml:"recycle_dir"`
	CreateRoot bool   `envconfig:"WORKSPACE_CREATE" default:"true" yaml:"create_root" toml:"create_root"`
	Checksum   string `envconfig:"CHECKSUM_ALGORITHM" default:"blake2b" yaml:"checksum" toml:"checksum"`
}

// RecycleConfig holds the recycle bin quota.
type RecycleConfig struct {
	MaxItems int   `envconfig:"RECYCLE_MAX_ITEMS" default:"100" yaml:"max_items" toml:"max_items"`
	MaxBytes int64 `envconfig:"RECYCLE_MAX_BYTES" default:"104857600" yaml:"max_bytes" toml:"max_bytes"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" yaml:"rps" toml:"rps"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" yaml:"burst" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" yaml:"enabled" toml:"enabled"`
}

// CORSConfig holds allowed origins.
type CORSConfig struct {
	Origins []string `envconfig:"CORS_ORIGINS" default:"*" yaml:"origins" toml:"origins"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadFile loads the environment, then overlays a YAML or TOML file.
// Keys absent from the file keep their environment or default value.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse toml config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     "8000",
			Host:     "0.0.0.0",
			Compress: true,
		},
		Workspace: WorkspaceConfig{
			Root:       ".",
			Manifest:   "files.txt",
			RecycleDir: "recycle_bin",
			CreateRoot: true,
			Checksum:   string(digest.BLAKE2b),
		},
		Recycle: RecycleConfig{
			MaxItems: 100,
			MaxBytes: 100 * 1024 * 1024,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		CORS: CORSConfig{
			Origins: []string{"*"},
		},
	}
}

// Validate rejects values the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Workspace.Root == "" {
		return fmt.Errorf("workspace root is required")
	}
	if c.Workspace.Manifest == "" || c.Workspace.RecycleDir == "" {
		return fmt.Errorf("manifest and recycle dir are required")
	}
	if _, err := digest.Parse(c.Workspace.Checksum); err != nil {
		return err
	}
	if c.Recycle.MaxItems <= 0 {
		return fmt.Errorf("recycle max items must be positive, got %d", c.Recycle.MaxItems)
	}
	if c.Recycle.MaxBytes <= 0 {
		return fmt.Errorf("recycle max bytes must be positive, got %d", c.Recycle.MaxBytes)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive when enabled")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
