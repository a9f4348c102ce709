package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all photosieve configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Library  LibraryConfig  `yaml:"library"`
	Batch    BatchConfig    `yaml:"batch"`
}

type ServerConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LibraryConfig struct {
	Root string `yaml:"root"`
}

type BatchConfig struct {
	DefaultSize   int    `yaml:"default_size"`
	MinSize       int    `yaml:"min_size"`
	MaxSize       int    `yaml:"max_size"`
	DefaultMode   string `yaml:"default_mode"`
	CooldownHours int    `yaml:"cooldown_hours"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 38642,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		Batch: BatchConfig{
			DefaultSize:   10,
			MinSize:       5,
			MaxSize:       50,
			DefaultMode:   "random_walk",
			CooldownHours: 24,
		},
	}
}

// Load builds a Config from defaults, then the YAML file at path (if
// non-empty), then PHOTOSIEVE_* environment overrides, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PHOTOSIEVE_BIND"); v != "" {
		cfg.Server.Bind = v
	}
	if v := os.Getenv("PHOTOSIEVE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PHOTOSIEVE_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("PHOTOSIEVE_LIBRARY"); v != "" {
		cfg.Library.Root = v
	}
	if v := os.Getenv("PHOTOSIEVE_MODE"); v != "" {
		cfg.Batch.DefaultMode = v
	}
}

func (c *Config) validate() error {
	if c.Batch.MinSize < 1 {
		return fmt.Errorf("batch min_size %d: must be >= 1", c.Batch.MinSize)
	}
	if c.Batch.MaxSize < c.Batch.MinSize {
		return fmt.Errorf("batch max_size %d: must be >= min_size %d", c.Batch.MaxSize, c.Batch.MinSize)
	}
	if c.Batch.CooldownHours < 1 {
		return fmt.Errorf("cooldown_hours %d: must be >= 1", c.Batch.CooldownHours)
	}
	return nil
}

// ClampBatchSize bounds a requested batch size to the configured range.
// Zero (unset) maps to the default size.
func (c *Config) ClampBatchSize(size int) int {
	if size == 0 {
		size = c.Batch.DefaultSize
	}
	if size < c.Batch.MinSize {
		return c.Batch.MinSize
	}
	if size > c.Batch.MaxSize {
		return c.Batch.MaxSize
	}
	return size
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
