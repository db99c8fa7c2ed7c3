package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// AppDirName is the directory under the user config dir holding all app data.
const AppDirName = "DelinOCR"

const configFileName = "config.yaml"

// WindowConfig holds the initial window options.
type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	MinWidth  int    `yaml:"minWidth"`
	MinHeight int    `yaml:"minHeight"`
}

// Config is the application configuration read at launch.
type Config struct {
	Window WindowConfig `yaml:"window"`

	// Plugins lists the enabled plugins by name. Attach order is fixed by
	// the bootstrapper, not by the order given here.
	Plugins []string `yaml:"plugins"`

	// Commands lists the command handlers exposed to the front-end.
	Commands []string `yaml:"commands"`

	LogLevel string `yaml:"logLevel"`

	// WindowAutosave saves the window state periodically; zero disables it.
	WindowAutosave time.Duration `yaml:"windowAutosave"`

	// DataDir overrides the data directory; empty means the user config dir.
	DataDir string `yaml:"dataDir"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "Delin OCR",
			Width:     1024,
			Height:    768,
			MinWidth:  400,
			MinHeight: 600,
		},
		Plugins:  []string{"os", "sql", "fs", "opener", "share", "window-state"},
		Commands: []string{"greet", "settings", "tags"},
		LogLevel: "info",
	}
}

// DefaultPath returns the config file location inside the user config dir.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppDirName, configFileName), nil
}

// Load reads the config at path. A missing file yields the defaults; fields
// left empty in the file are filled from the defaults. An explicit empty
// list for plugins or commands is kept.
func Load(path string) (*Config, error) {
	defaults := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if c.Window.Title == "" {
		c.Window.Title = defaults.Window.Title
	}
	if c.Window.Width <= 0 {
		c.Window.Width = defaults.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = defaults.Window.Height
	}
	if c.Window.MinWidth <= 0 {
		c.Window.MinWidth = defaults.Window.MinWidth
	}
	if c.Window.MinHeight <= 0 {
		c.Window.MinHeight = defaults.Window.MinHeight
	}
	if c.Plugins == nil {
		c.Plugins = defaults.Plugins
	}
	if c.Commands == nil {
		c.Commands = defaults.Commands
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.WindowAutosave < 0 {
		return nil, fmt.Errorf("windowAutosave must not be negative: %s", c.WindowAutosave)
	}
	return &c, nil
}

// ResolveDataDir returns the data directory and makes sure it exists.
func (c *Config) ResolveDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(configDir, AppDirName)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data dir: %w", err)
	}
	return dir, nil
}
