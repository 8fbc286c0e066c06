package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	paths := DefaultPaths()

	if paths.ConfigDir == "" {
		t.Error("ConfigDir is empty")
	}
	if paths.DataDir == "" {
		t.Error("DataDir is empty")
	}
	if !filepath.IsAbs(paths.ConfigDir) {
		t.Errorf("ConfigDir should be absolute: %s", paths.ConfigDir)
	}
	if !filepath.IsAbs(paths.DataDir) {
		t.Errorf("DataDir should be absolute: %s", paths.DataDir)
	}
}

func TestDefaultPaths_XDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG test not applicable on Windows")
	}

	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	t.Setenv("XDG_DATA_HOME", "/custom/data")

	paths := DefaultPaths()

	if paths.ConfigDir != "/custom/config/rcbar" {
		t.Errorf("ConfigDir = %s, want /custom/config/rcbar", paths.ConfigDir)
	}
	if paths.DataDir != "/custom/data/rcbar" {
		t.Errorf("DataDir = %s, want /custom/data/rcbar", paths.DataDir)
	}
}

func TestPaths_Files(t *testing.T) {
	paths := &Paths{ConfigDir: "/c", DataDir: "/d"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"config", paths.ConfigFile(), filepath.Join("/c", "config.yaml")},
		{"database", paths.DatabaseFile(), filepath.Join("/d", "rcbar.db")},
		{"log dir", paths.LogDir(), filepath.Join("/d", "logs")},
		{"log file", paths.LogFile(), filepath.Join("/d", "logs", "rcbar.log")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %s, want %s", tt.name, tt.got, tt.want)
		}
	}
}

func TestPaths_EnsureDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	paths := &Paths{
		ConfigDir: filepath.Join(tmpDir, "config"),
		DataDir:   filepath.Join(tmpDir, "data"),
	}

	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}

	for _, dir := range []string{paths.ConfigDir, paths.DataDir, paths.LogDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("directory %s not created: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("RCBAR_TEST_DIR", "")
	if got := envOr("RCBAR_TEST_DIR", "/fallback"); got != "/fallback" {
		t.Errorf("envOr(unset) = %q, want /fallback", got)
	}
	t.Setenv("RCBAR_TEST_DIR", "/set")
	if got := envOr("RCBAR_TEST_DIR", "/fallback"); got != "/set" {
		t.Errorf("envOr(set) = %q, want /set", got)
	}
}

func TestHomeDir(t *testing.T) {
	home := homeDir()
	if home == "" {
		t.Error("homeDir() returned empty string")
	}
	if strings.ContainsRune(home, 0) {
		t.Errorf("homeDir() returned invalid path: %q", home)
	}
}
