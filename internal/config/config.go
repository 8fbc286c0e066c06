package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the rcbar configuration.
type Config struct {
	Host     HostConfig     `yaml:"host"`
	Poll     PollConfig     `yaml:"poll"`
	Palette  PaletteConfig  `yaml:"palette"`
	Launcher LauncherConfig `yaml:"launcher"`
	Log      LogConfig      `yaml:"log"`
}

// HostConfig describes the control API the palette talks to.
type HostConfig struct {
	URL       string `yaml:"url"`        // Base URL of the control API
	User      string `yaml:"user"`       // Basic auth user (empty = no auth)
	Password  string `yaml:"password"`   // Basic auth password
	Local     bool   `yaml:"local"`      // Host runs on this machine; enables reveal of mount points
	TimeoutMs int    `yaml:"timeout_ms"` // Per-request timeout
}

// PollConfig holds refresh intervals for the live cache.
type PollConfig struct {
	RemotesIntervalSec   int `yaml:"remotes_interval_sec"`
	ResourcesIntervalSec int `yaml:"resources_interval_sec"`
}

// PaletteConfig holds TUI settings.
type PaletteConfig struct {
	DebounceMs       int  `yaml:"debounce_ms"`
	MaxResults       int  `yaml:"max_results"`
	ShowDescriptions bool `yaml:"show_descriptions"`
}

// LauncherConfig controls how windows and URLs are opened.
type LauncherConfig struct {
	OpenCommand string `yaml:"open_command"` // e.g. "xdg-open" or "open -a Safari"
	UIBaseURL   string `yaml:"ui_base_url"`  // Prefix for command window routes
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Overrides the default palette log file
}

// Limits applied by Validate.
const (
	minMaxResults = 5
	maxMaxResults = 200
	maxDebounceMs = 1000
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Host: HostConfig{
			URL:       "http://localhost:5572",
			Local:     true,
			TimeoutMs: 3000,
		},
		Poll: PollConfig{
			RemotesIntervalSec:   60,
			ResourcesIntervalSec: 5,
		},
		Palette: PaletteConfig{
			DebounceMs:       40,
			MaxResults:       30,
			ShowDescriptions: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Timeout returns the per-request timeout for the control API.
func (h HostConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutMs) * time.Millisecond
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFromFile(DefaultPaths().ConfigFile())
}

// LoadFromFile loads configuration from path. A missing file yields the
// defaults. Environment overrides are applied after the file.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveToFile(DefaultPaths().ConfigFile())
}

// SaveToFile saves the configuration to path. The file may hold a password,
// so it is written owner-only.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Get retrieves a configuration value by dot-separated key, e.g. "host.url".
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "host":
		return c.getHostField(field)
	case "poll":
		return c.getPollField(field)
	case "palette":
		return c.getPaletteField(field)
	case "launcher":
		return c.getLauncherField(field)
	case "log":
		return c.getLogField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "host":
		return c.setHostField(field, value)
	case "poll":
		return c.setPollField(field, value)
	case "palette":
		return c.setPaletteField(field, value)
	case "launcher":
		return c.setLauncherField(field, value)
	case "log":
		return c.setLogField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func splitKey(key string) (section, field string, err error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

func (c *Config) getHostField(field string) (string, error) {
	switch field {
	case "url":
		return c.Host.URL, nil
	case "user":
		return c.Host.User, nil
	case "password":
		return c.Host.Password, nil
	case "local":
		return strconv.FormatBool(c.Host.Local), nil
	case "timeout_ms":
		return strconv.Itoa(c.Host.TimeoutMs), nil
	default:
		return "", fmt.Errorf("unknown field: host.%s", field)
	}
}

func (c *Config) setHostField(field, value string) error {
	switch field {
	case "url":
		if err := validateHostURL(value); err != nil {
			return err
		}
		c.Host.URL = value
	case "user":
		c.Host.User = value
	case "password":
		c.Host.Password = value
	case "local":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for local: %w", err)
		}
		c.Host.Local = v
	case "timeout_ms":
		v, err := parsePositive("timeout_ms", value)
		if err != nil {
			return err
		}
		c.Host.TimeoutMs = v
	default:
		return fmt.Errorf("unknown field: host.%s", field)
	}
	return nil
}

func (c *Config) getPollField(field string) (string, error) {
	switch field {
	case "remotes_interval_sec":
		return strconv.Itoa(c.Poll.RemotesIntervalSec), nil
	case "resources_interval_sec":
		return strconv.Itoa(c.Poll.ResourcesIntervalSec), nil
	default:
		return "", fmt.Errorf("unknown field: poll.%s", field)
	}
}

func (c *Config) setPollField(field, value string) error {
	switch field {
	case "remotes_interval_sec":
		v, err := parsePositive("remotes_interval_sec", value)
		if err != nil {
			return err
		}
		c.Poll.RemotesIntervalSec = v
	case "resources_interval_sec":
		v, err := parsePositive("resources_interval_sec", value)
		if err != nil {
			return err
		}
		c.Poll.ResourcesIntervalSec = v
	default:
		return fmt.Errorf("unknown field: poll.%s", field)
	}
	return nil
}

func (c *Config) getPaletteField(field string) (string, error) {
	switch field {
	case "debounce_ms":
		return strconv.Itoa(c.Palette.DebounceMs), nil
	case "max_results":
		return strconv.Itoa(c.Palette.MaxResults), nil
	case "show_descriptions":
		return strconv.FormatBool(c.Palette.ShowDescriptions), nil
	default:
		return "", fmt.Errorf("unknown field: palette.%s", field)
	}
}

func (c *Config) setPaletteField(field, value string) error {
	switch field {
	case "debounce_ms":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for debounce_ms: %w", err)
		}
		if v < 0 {
			return errors.New("invalid debounce_ms: must be non-negative")
		}
		c.Palette.DebounceMs = min(v, maxDebounceMs)
	case "max_results":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_results: %w", err)
		}
		c.Palette.MaxResults = clamp(v, minMaxResults, maxMaxResults)
	case "show_descriptions":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for show_descriptions: %w", err)
		}
		c.Palette.ShowDescriptions = v
	default:
		return fmt.Errorf("unknown field: palette.%s", field)
	}
	return nil
}

func (c *Config) getLauncherField(field string) (string, error) {
	switch field {
	case "open_command":
		return c.Launcher.OpenCommand, nil
	case "ui_base_url":
		return c.Launcher.UIBaseURL, nil
	default:
		return "", fmt.Errorf("unknown field: launcher.%s", field)
	}
}

func (c *Config) setLauncherField(field, value string) error {
	switch field {
	case "open_command":
		c.Launcher.OpenCommand = value
	case "ui_base_url":
		c.Launcher.UIBaseURL = value
	default:
		return fmt.Errorf("unknown field: launcher.%s", field)
	}
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	case "file":
		return c.Log.File, nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid level: %s (must be debug, info, warn, or error)", value)
		}
		c.Log.Level = value
	case "file":
		c.Log.File = value
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

// Validate rejects unusable settings and clamps palette sizes into range.
func (c *Config) Validate() error {
	if err := validateHostURL(c.Host.URL); err != nil {
		return err
	}
	if c.Host.TimeoutMs <= 0 {
		return errors.New("host.timeout_ms must be > 0")
	}
	if c.Poll.RemotesIntervalSec <= 0 {
		return errors.New("poll.remotes_interval_sec must be > 0")
	}
	if c.Poll.ResourcesIntervalSec <= 0 {
		return errors.New("poll.resources_interval_sec must be > 0")
	}
	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	c.Palette.DebounceMs = clamp(c.Palette.DebounceMs, 0, maxDebounceMs)
	c.Palette.MaxResults = clamp(c.Palette.MaxResults, minMaxResults, maxMaxResults)
	return nil
}

func validateHostURL(raw string) error {
	if raw == "" {
		return errors.New("host.url must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("host.url is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("host.url must use http or https (got: %s)", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("host.url has no host (got: %s)", raw)
	}
	return nil
}

func parsePositive(name, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", name, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", name)
	}
	return v, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies RCBAR_* environment variables on top of the
// loaded values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("RCBAR_HOST_URL"); v != "" {
		c.Host.URL = v
	}
	if v := os.Getenv("RCBAR_HOST_USER"); v != "" {
		c.Host.User = v
	}
	if v := os.Getenv("RCBAR_HOST_PASSWORD"); v != "" {
		c.Host.Password = v
	}
	if v := os.Getenv("RCBAR_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("RCBAR_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
}

// ListKeys returns every settable configuration key.
func ListKeys() []string {
	return []string{
		"host.url",
		"host.user",
		"host.password",
		"host.local",
		"host.timeout_ms",
		"poll.remotes_interval_sec",
		"poll.resources_interval_sec",
		"palette.debounce_ms",
		"palette.max_results",
		"palette.show_descriptions",
		"launcher.open_command",
		"launcher.ui_base_url",
		"log.level",
		"log.file",
	}
}
