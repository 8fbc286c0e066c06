// Package config provides configuration management for rcbar.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "rcbar"

// Paths holds the on-disk locations rcbar uses.
type Paths struct {
	// ConfigDir holds config.yaml (~/.config/rcbar)
	ConfigDir string

	// DataDir holds the remote snapshot database and logs (~/.local/share/rcbar)
	DataDir string
}

// DefaultPaths follows the XDG base directories, or %APPDATA% and
// %LOCALAPPDATA% on Windows.
func DefaultPaths() *Paths {
	home := homeDir()
	configBase := envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	dataBase := envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	if runtime.GOOS == "windows" {
		configBase = envOr("APPDATA", filepath.Join(home, "AppData", "Roaming"))
		dataBase = envOr("LOCALAPPDATA", filepath.Join(home, "AppData", "Local"))
	}
	return &Paths{
		ConfigDir: filepath.Join(configBase, appName),
		DataDir:   filepath.Join(dataBase, appName),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ConfigFile is config.yaml inside ConfigDir.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// DatabaseFile returns the path to the remote snapshot database.
func (p *Paths) DatabaseFile() string {
	return filepath.Join(p.DataDir, "rcbar.db")
}

// LogDir holds rcbar.log.
func (p *Paths) LogDir() string {
	return filepath.Join(p.DataDir, "logs")
}

// LogFile returns the default log file used by the interactive palette.
func (p *Paths) LogFile() string {
	return filepath.Join(p.LogDir(), "rcbar.log")
}

// EnsureDirectories creates the config, data and log directories.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ConfigDir, p.DataDir, p.LogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	if runtime.GOOS == "windows" {
		return os.Getenv("USERPROFILE")
	}
	return os.Getenv("HOME")
}
