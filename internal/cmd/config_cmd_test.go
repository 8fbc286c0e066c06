package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/runger/rcbar/internal/config"
)

func TestConfigCmd_List(t *testing.T) {
	setupEnv(t, "http://localhost:5572")

	out, err := executeCmd(t, "config")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	for _, key := range config.ListKeys() {
		if !strings.Contains(out, key+" = ") {
			t.Errorf("expected key %q in output", key)
		}
	}
	if !strings.Contains(out, "Config file: ") {
		t.Errorf("expected config file path in output: %q", out)
	}
}

func TestConfigCmd_Get(t *testing.T) {
	setupEnv(t, "http://nas:5572")

	out, err := executeCmd(t, "config", "host.url")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if strings.TrimSpace(out) != "http://nas:5572" {
		t.Errorf("host.url = %q, want env override", out)
	}

	out, err = executeCmd(t, "config", "launcher.open_command")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if !strings.Contains(out, "(not set)") {
		t.Errorf("expected (not set), got %q", out)
	}
}

func TestConfigCmd_GetUnknownKey(t *testing.T) {
	setupEnv(t, "http://localhost:5572")

	if _, err := executeCmd(t, "config", "nope.key"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestConfigCmd_SetPersists(t *testing.T) {
	setupEnv(t, "http://localhost:5572")

	out, err := executeCmd(t, "config", "launcher.open_command", "xdg-open")
	if err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if !strings.Contains(out, "launcher.open_command = xdg-open") {
		t.Errorf("unexpected set output: %q", out)
	}

	data, err := os.ReadFile(config.DefaultPaths().ConfigFile())
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "open_command: xdg-open") {
		t.Errorf("config file missing value: %s", data)
	}
}

func TestConfigCmd_SetShowsClampedValue(t *testing.T) {
	setupEnv(t, "http://localhost:5572")

	out, err := executeCmd(t, "config", "palette.max_results", "1000")
	if err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if !strings.Contains(out, "palette.max_results = 200") {
		t.Errorf("expected clamped value, got %q", out)
	}
}

func TestConfigCmd_SetInvalid(t *testing.T) {
	setupEnv(t, "http://localhost:5572")

	if _, err := executeCmd(t, "config", "log.level", "loud"); err == nil {
		t.Error("expected error for invalid log level")
	}
	if _, err := os.Stat(config.DefaultPaths().ConfigFile()); !os.IsNotExist(err) {
		t.Error("invalid value must not be saved")
	}
}

func TestDisplayValue(t *testing.T) {
	disableColors()
	t.Cleanup(applyColorMode)

	tests := []struct {
		key, value, want string
	}{
		{"host.url", "http://x", "http://x"},
		{"host.password", "secret", "********"},
		{"host.password", "", "(not set)"},
		{"log.file", "", "(not set)"},
	}
	for _, tt := range tests {
		if got := displayValue(tt.key, tt.value); got != tt.want {
			t.Errorf("displayValue(%q, %q) = %q, want %q", tt.key, tt.value, got, tt.want)
		}
	}
}
