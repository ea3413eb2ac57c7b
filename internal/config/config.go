package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Backend names accepted in store.backend
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

const (
	defaultConfigPath     = "~/.config/studio-session/config.toml"
	defaultStorePath      = "~/.local/share/studio-session/session.db"
	defaultRedisPrefix    = "studio-session"
	defaultWebhookTimeout = 10
)

// Store selects and configures the durable key-value backend.
type Store struct {
	Backend     string `toml:"backend"`
	Path        string `toml:"path"`
	RedisURL    string `toml:"redis_url"`
	RedisPrefix string `toml:"redis_prefix"`
}

// Webhooks configures outbound lifecycle notifications. URLs maps an event
// type to its endpoint; DefaultURL receives everything else.
type Webhooks struct {
	DefaultURL     string            `toml:"default_url"`
	TimeoutSeconds int               `toml:"timeout_seconds"`
	URLs           map[string]string `toml:"urls"`
}

// Session controls engine behavior.
type Session struct {
	AutoSync bool `toml:"auto_sync"`
}

// Config is the full configuration file.
type Config struct {
	Store    Store    `toml:"store"`
	Webhooks Webhooks `toml:"webhooks"`
	Session  Session  `toml:"session"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Store: Store{
			Backend:     BackendSQLite,
			Path:        defaultStorePath,
			RedisPrefix: defaultRedisPrefix,
		},
		Webhooks: Webhooks{
			TimeoutSeconds: defaultWebhookTimeout,
			URLs:           map[string]string{},
		},
		Session: Session{AutoSync: true},
	}
}

// DefaultConfigPath returns the expanded default location of the config file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A missing file
// yields the defaults. It returns the config, the resolved path and whether
// the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(expanded); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return expanded, true, nil
}

// WriteSample writes the default configuration to path. An existing file is
// left alone unless overwrite is set.
func WriteSample(path string, overwrite bool) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(expanded); err == nil {
			return fmt.Errorf("config already exists at %s", expanded)
		}
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(expanded, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Encode renders cfg as TOML.
func Encode(cfg *Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}

func expandPath(pathValue string) (string, error) {
	pathValue = strings.TrimSpace(pathValue)
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath applies the same ~ and absolute-path rules the loader uses.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
