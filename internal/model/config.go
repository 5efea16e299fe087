package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default remote settings. The base address and timeouts are constants
// of the product; the config file only exists to point at another server.
const (
	DefaultBaseURL           = "http://jsonplaceholder.typicode.com/todos"
	DefaultListTimeoutSec    = 10
	DefaultRequestTimeoutSec = 5
)

// RemoteConfig holds the settings for the remote todo collection.
type RemoteConfig struct {
	// BaseURL is the collection endpoint, e.g. https://host/todos.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// ListTimeoutSec bounds the GET of the full collection.
	ListTimeoutSec int `mapstructure:"list_timeout_sec" yaml:"list_timeout_sec"`

	// RequestTimeoutSec bounds every single-item call.
	RequestTimeoutSec int `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
}

// ListTimeout returns ListTimeoutSec as a duration.
func (c RemoteConfig) ListTimeout() time.Duration {
	return time.Duration(c.ListTimeoutSec) * time.Second
}

// RequestTimeout returns RequestTimeoutSec as a duration.
func (c RemoteConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// ServerConfig holds settings for the reference todo server.
type ServerConfig struct {
	Addr   string `mapstructure:"addr" yaml:"addr"`
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Remote  RemoteConfig  `mapstructure:"remote" yaml:"remote"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// configDir returns ~/.config/todo-sync, or "." when there is no home.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "todo-sync")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/todo-sync/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultLogPath returns the file the TUI logs to when none is configured.
func DefaultLogPath() string {
	return filepath.Join(configDir(), "todo.log")
}

// DefaultAppConfig returns the built-in configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Remote: RemoteConfig{
			BaseURL:           DefaultBaseURL,
			ListTimeoutSec:    DefaultListTimeoutSec,
			RequestTimeoutSec: DefaultRequestTimeoutSec,
		},
		Server: ServerConfig{
			Addr:   ":8080",
			DBPath: ":memory:",
			Prefix: "/todos",
		},
		Log: LogConfig{
			Level: "info",
			File:  DefaultLogPath(),
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with TODO_ override file values
// (TODO_REMOTE_BASE_URL, TODO_SERVER_ADDR, ...). A missing file yields
// the defaults plus any environment overrides.
func LoadConfig(path string) (*AppConfig, error) {
	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values and so
	// AutomaticEnv can see every key during Unmarshal.
	v.SetDefault("remote.base_url", def.Remote.BaseURL)
	v.SetDefault("remote.list_timeout_sec", def.Remote.ListTimeoutSec)
	v.SetDefault("remote.request_timeout_sec", def.Remote.RequestTimeoutSec)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.db_path", def.Server.DBPath)
	v.SetDefault("server.prefix", def.Server.Prefix)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("display.theme", def.Display.Theme)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// Non-positive timeouts would disable the bound entirely.
	if cfg.Remote.ListTimeoutSec <= 0 {
		cfg.Remote.ListTimeoutSec = DefaultListTimeoutSec
	}
	if cfg.Remote.RequestTimeoutSec <= 0 {
		cfg.Remote.RequestTimeoutSec = DefaultRequestTimeoutSec
	}
	cfg.Remote.BaseURL = strings.TrimRight(cfg.Remote.BaseURL, "/")
	if cfg.Remote.BaseURL == "" {
		cfg.Remote.BaseURL = DefaultBaseURL
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("remote", cfg.Remote)
	v.Set("server", cfg.Server)
	v.Set("log", cfg.Log)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
