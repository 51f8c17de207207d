// Package config loads the demo host configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SCENEEXTRAS_"

const (
	DefaultLogLevel = "info"
	DefaultTPS      = 60
	DefaultGravity  = 9.8
)

// Scene is one scene the host loads and watches under an identifier.
type Scene struct {
	ID   string `json:"id" yaml:"id" toml:"id"`
	Path string `json:"path" yaml:"path" toml:"path"`
}

// Config holds runtime parameters for the demo host. Zero values mean
// "unspecified" and are replaced by defaults.
type Config struct {
	AssetsDir   string  `json:"assets_dir" yaml:"assets_dir" toml:"assets_dir" env:"ASSETS_DIR"`
	Scenes      []Scene `json:"scenes" yaml:"scenes" toml:"scenes"`
	Script      string  `json:"script" yaml:"script" toml:"script" env:"SCRIPT"`
	ExtrasKey   string  `json:"extras_key" yaml:"extras_key" toml:"extras_key" env:"EXTRAS_KEY"`
	HotReload   bool    `json:"hot_reload" yaml:"hot_reload" toml:"hot_reload" env:"HOT_RELOAD"`
	LogLevel    string  `json:"log_level" yaml:"log_level" toml:"log_level" env:"LOG_LEVEL"`
	MetricsAddr string  `json:"metrics_addr" yaml:"metrics_addr" toml:"metrics_addr" env:"METRICS_ADDR"`
	Ticks       int     `json:"ticks" yaml:"ticks" toml:"ticks" env:"TICKS"`
	TPS         int     `json:"tps" yaml:"tps" toml:"tps" env:"TPS"`
	Gravity     float64 `json:"gravity" yaml:"gravity" toml:"gravity" env:"GRAVITY"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{
		Scenes: []Scene{{ID: "shooting_squares", Path: "scenes/shooting_squares.gltf"}},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads a configuration file based on its extension, applies
// environment overrides and defaults, and validates the result. An empty
// path starts from Default.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = ReadFile(path); err != nil {
			return cfg, err
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ReadFile decodes path without defaults or overrides.
func ReadFile(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("config: unsupported extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// ParseEnv overrides fields from SCENEEXTRAS_* environment variables.
func ParseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.TPS <= 0 {
		c.TPS = DefaultTPS
	}
	if c.Gravity == 0 {
		c.Gravity = DefaultGravity
	}
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if len(c.Scenes) == 0 {
		errs = append(errs, errors.New("scenes: at least one scene is required"))
	}
	seen := make(map[string]bool, len(c.Scenes))
	for i, s := range c.Scenes {
		if strings.TrimSpace(s.ID) == "" {
			errs = append(errs, fmt.Errorf("scenes[%d].id: must not be empty", i))
		} else if seen[s.ID] {
			errs = append(errs, fmt.Errorf("scenes[%d].id: duplicate %q", i, s.ID))
		}
		seen[s.ID] = true
		if strings.TrimSpace(s.Path) == "" {
			errs = append(errs, fmt.Errorf("scenes[%d].path: must not be empty", i))
		}
	}
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	if c.Ticks < 0 {
		errs = append(errs, fmt.Errorf("ticks: must not be negative, got %d", c.Ticks))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}
