package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all LocalBoard configuration.
type Config struct {
	Board   BoardConfig   `yaml:"board"`
	Storage StorageConfig `yaml:"storage"`
	Sync    SyncConfig    `yaml:"sync"`
	Hub     HubConfig     `yaml:"hub"`
	Logging LoggingConfig `yaml:"logging"`
}

// BoardConfig sets up the drawing surface and pen.
type BoardConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Color       string  `yaml:"color"`
	StrokeWidth float64 `yaml:"stroke_width"`
}

// StorageConfig picks the persistence backend.
type StorageConfig struct {
	Backend   string `yaml:"backend"` // memory, sqlite, redis
	Path      string `yaml:"path"`
	RedisAddr string `yaml:"redis_addr"`
	Namespace string `yaml:"namespace"`
}

// SyncConfig picks the broadcast transport.
type SyncConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Transport string `yaml:"transport"` // local, redis, websocket
	Channel   string `yaml:"channel"`
	RedisAddr string `yaml:"redis_addr"`
	HubAddr   string `yaml:"hub_addr"`
	Discover  bool   `yaml:"discover"`
}

// HubConfig configures `localboard hub`.
type HubConfig struct {
	Addr      string `yaml:"addr"`
	Advertise bool   `yaml:"advertise"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Board: BoardConfig{
			Width:       1024,
			Height:      700,
			Color:       "#111111",
			StrokeWidth: 4,
		},
		Storage: StorageConfig{
			Backend:   "sqlite",
			Path:      DefaultDataPath(),
			Namespace: "localboard",
		},
		Sync: SyncConfig{
			Enabled:   false,
			Transport: "local",
			Channel:   "localboard-canvas",
		},
		Hub: HubConfig{
			Addr:      ":8888",
			Advertise: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultDataPath is where the sqlite store lives unless configured.
func DefaultDataPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "localboard", "board.db")
}

// DefaultPath is the config file read when --config is not given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "localboard.yaml"
	}
	return filepath.Join(dir, "localboard", "config.yaml")
}

// Load reads path over the defaults. A missing file is not an error.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LOCALBOARD_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("LOCALBOARD_REDIS_ADDR"); v != "" {
		c.Storage.RedisAddr = v
		c.Sync.RedisAddr = v
	}
	if v := os.Getenv("LOCALBOARD_HUB"); v != "" {
		c.Sync.HubAddr = v
		c.Sync.Transport = "websocket"
	}
	if v := os.Getenv("LOCALBOARD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks enumerations and the settings each choice depends on.
func (c *Config) Validate() error {
	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		return fmt.Errorf("board size must be positive, got %gx%g", c.Board.Width, c.Board.Height)
	}
	if c.Board.StrokeWidth <= 0 {
		return fmt.Errorf("stroke_width must be positive, got %g", c.Board.StrokeWidth)
	}
	switch c.Storage.Backend {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the sqlite backend")
		}
	case "redis":
		if c.Storage.RedisAddr == "" {
			return errors.New("storage.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Sync.Transport {
	case "local", "websocket":
	case "redis":
		if c.Sync.RedisAddr == "" {
			return errors.New("sync.redis_addr is required for the redis transport")
		}
	default:
		return fmt.Errorf("unknown sync transport %q", c.Sync.Transport)
	}
	if c.Sync.Channel == "" {
		return errors.New("sync.channel cannot be empty")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}
