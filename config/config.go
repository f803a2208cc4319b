// Package config loads careermatrix settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"careermatrix/matrix"

	"gopkg.in/yaml.v3"
)

const (
	configDir      = ".careermatrix"
	configFileName = "config.yaml"
)

// Config is the full settings file.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Server   ServerConfig   `yaml:"server"`
	History  HistoryConfig  `yaml:"history"`
	Terminal TerminalConfig `yaml:"terminal"`
	Editor   EditorConfig   `yaml:"editor"`
	Axes     matrix.Axes    `yaml:"axes"`
}

// StoreConfig selects where templates live.
type StoreConfig struct {
	Kind string `yaml:"kind"` // file, memory or remote
	Dir  string `yaml:"dir"`
	URL  string `yaml:"url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr              string `yaml:"addr"`
	SaveRatePerMinute int    `yaml:"save_rate_per_minute"`
}

// HistoryConfig bounds undo history.
type HistoryConfig struct {
	Capacity int `yaml:"capacity"`
}

// TerminalConfig tunes the terminal editor.
type TerminalConfig struct {
	ResizeDebounce Duration `yaml:"resize_debounce"`
}

// EditorConfig holds editing defaults.
type EditorConfig struct {
	DefaultArrowColor string   `yaml:"default_arrow_color"`
	Palette           []string `yaml:"palette"`
}

// Duration wraps time.Duration for YAML strings like "75ms".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}

// DefaultPath returns $HOME/.careermatrix/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(configDir, configFileName)
	}
	return filepath.Join(home, configDir, configFileName)
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Kind: "file",
		},
		Server: ServerConfig{
			Addr:              "127.0.0.1:8080",
			SaveRatePerMinute: 120,
		},
		History: HistoryConfig{
			Capacity: 500,
		},
		Terminal: TerminalConfig{
			ResizeDebounce: Duration{75 * time.Millisecond},
		},
		Editor: EditorConfig{
			DefaultArrowColor: matrix.DefaultArrowColor,
		},
		Axes: matrix.DefaultAxes(),
	}
}

// Load reads the config file at path. Returns nil, nil if the file does not
// exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadAndMerge loads the config file and fills unset fields from Default.
// An empty path uses DefaultPath; a missing file yields the defaults.
func LoadAndMerge(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	defaults := Default()
	if cfg == nil {
		return defaults, nil
	}
	return Merge(cfg, defaults), nil
}

// Merge returns partial with every zero field taken from defaults.
func Merge(partial, defaults *Config) *Config {
	result := *partial

	if result.Store.Kind == "" {
		result.Store.Kind = defaults.Store.Kind
	}
	if result.Store.Dir == "" {
		result.Store.Dir = defaults.Store.Dir
	}
	if result.Store.URL == "" {
		result.Store.URL = defaults.Store.URL
	}

	if result.Server.Addr == "" {
		result.Server.Addr = defaults.Server.Addr
	}
	if result.Server.SaveRatePerMinute == 0 {
		result.Server.SaveRatePerMinute = defaults.Server.SaveRatePerMinute
	}

	if result.History.Capacity == 0 {
		result.History.Capacity = defaults.History.Capacity
	}
	if result.Terminal.ResizeDebounce.Duration == 0 {
		result.Terminal.ResizeDebounce = defaults.Terminal.ResizeDebounce
	}

	if result.Editor.DefaultArrowColor == "" {
		result.Editor.DefaultArrowColor = defaults.Editor.DefaultArrowColor
	}
	if len(result.Editor.Palette) == 0 {
		result.Editor.Palette = append([]string(nil), defaults.Editor.Palette...)
	}

	if len(result.Axes.Positions) == 0 {
		result.Axes.Positions = append([]string(nil), defaults.Axes.Positions...)
	}
	if len(result.Axes.Levels) == 0 {
		result.Axes.Levels = append([]string(nil), defaults.Axes.Levels...)
	}
	return &result
}

// Save writes the config to path, creating its directory.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) validate() error {
	switch c.Store.Kind {
	case "", "file", "memory", "remote":
	default:
		return fmt.Errorf("store.kind must be file, memory or remote, got %q", c.Store.Kind)
	}
	if c.History.Capacity < 0 {
		return fmt.Errorf("history.capacity must not be negative")
	}
	if c.Server.SaveRatePerMinute < 0 {
		return fmt.Errorf("server.save_rate_per_minute must not be negative")
	}
	if c.Editor.DefaultArrowColor != "" {
		if _, err := matrix.NormalizeColor(c.Editor.DefaultArrowColor); err != nil {
			return fmt.Errorf("editor.default_arrow_color: %w", err)
		}
	}
	for _, p := range c.Editor.Palette {
		if _, err := matrix.NormalizeColor(p); err != nil {
			return fmt.Errorf("editor.palette: %w", err)
		}
	}
	return nil
}
