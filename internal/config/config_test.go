package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cwarden/zcal/internal/calendar"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.WeekStartDay.Weekday() != time.Sunday {
		t.Errorf("Wrong default week start day: %v", cfg.WeekStartDay.Weekday())
	}

	if cfg.DateFormat != "Jan 2, 2006" {
		t.Errorf("Wrong default date format: %s", cfg.DateFormat)
	}

	if cfg.View() != calendar.ViewMonth {
		t.Errorf("Wrong default view: %s", cfg.View())
	}

	if cfg.Theme() != calendar.ThemeGradient {
		t.Errorf("Wrong default theme: %s", cfg.Theme())
	}

	if !cfg.WatchStorage {
		t.Error("Storage watching should be enabled by default")
	}

	if cfg.MessageTimeout != 3*time.Second {
		t.Errorf("Wrong default message timeout: %v", cfg.MessageTimeout)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	content := `# Test config file
data_dir: ` + filepath.Join(tmpDir, "data") + `
week_start_day: monday
startup_view: day
default_theme: dark
watch_storage: false
confirm_delete: false
message_timeout: 5s
log_level: DEBUG
`

	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg, err := LoadFile(configFile)
	if err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if cfg.DataDir != filepath.Join(tmpDir, "data") {
		t.Errorf("Wrong data dir: %s", cfg.DataDir)
	}

	if cfg.WeekStartDay.Weekday() != time.Monday {
		t.Errorf("Wrong week start day: %v", cfg.WeekStartDay.Weekday())
	}

	if cfg.View() != calendar.ViewDay {
		t.Errorf("Wrong startup view: %s", cfg.View())
	}

	if cfg.Theme() != calendar.ThemeDark {
		t.Errorf("Wrong theme: %s", cfg.Theme())
	}

	if cfg.WatchStorage || cfg.ConfirmDelete {
		t.Error("Boolean settings should be disabled")
	}

	if cfg.MessageTimeout != 5*time.Second {
		t.Errorf("Wrong message timeout: %v", cfg.MessageTimeout)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Log level should be lowercased: %s", cfg.LogLevel)
	}

	// Untouched keys keep defaults
	if cfg.DateFormat != "Jan 2, 2006" {
		t.Errorf("Wrong date format: %s", cfg.DateFormat)
	}

	if cfg.LogFile != filepath.Join(tmpDir, "data", "zcal.log") {
		t.Errorf("Log file should default into the data dir: %s", cfg.LogFile)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"week start", "week_start_day: wednesday\n", "week_start_day"},
		{"view", "startup_view: week\n", "startup_view"},
		{"theme", "default_theme: neon\n", "default_theme"},
		{"log level", "log_level: loud\n", "log_level"},
		{"log format", "log_format: xml\n", "log_format"},
		{"yaml", "startup_view: [\n", "error loading config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := LoadFile(path)
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadConfigSearchPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_DATA_HOME", "")

	xdg := filepath.Join(tmpDir, "xdg")
	t.Setenv("XDG_CONFIG_HOME", xdg)
	if err := os.MkdirAll(filepath.Join(xdg, "zcal"), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(xdg, "zcal", "config.yaml"), []byte("default_theme: pastel\n"), 0644); err != nil {
		t.Fatal(err)
	}

	explicit := filepath.Join(tmpDir, "explicit.yaml")
	if err := os.WriteFile(explicit, []byte("default_theme: minimal\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ZCAL_CONFIG", explicit)
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Theme() != calendar.ThemeMinimal {
		t.Errorf("ZCAL_CONFIG should win, got theme %s", cfg.Theme())
	}

	t.Setenv("ZCAL_CONFIG", "")
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Theme() != calendar.ThemePastel {
		t.Errorf("XDG config should be used, got theme %s", cfg.Theme())
	}

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "empty"))
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Theme() != calendar.DefaultTheme {
		t.Errorf("Expected defaults without a config file, got theme %s", cfg.Theme())
	}
	if cfg.DataDir != filepath.Join(tmpDir, ".local", "share", "zcal") {
		t.Errorf("Wrong default data dir: %s", cfg.DataDir)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.WeekStartDay = Weekday(time.Monday)
	cfg.DefaultTheme = "dark"
	cfg.MessageTimeout = 10 * time.Second
	cfg.Normalize()

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Wrong permissions: %v", info.Mode().Perm())
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "week_start_day: monday") {
		t.Errorf("Week start should be written as a name:\n%s", data)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.WeekStartDay.Weekday() != time.Monday || loaded.Theme() != calendar.ThemeDark || loaded.MessageTimeout != 10*time.Second {
		t.Errorf("Round trip mismatch: %+v", loaded)
	}
}

func TestExpandHome(t *testing.T) {
	home, _ := os.UserHomeDir()

	if got := expandHome("~/cal"); got != filepath.Join(home, "cal") {
		t.Errorf("expandHome(~/cal) = %s", got)
	}
	if got := expandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("expandHome should leave absolute paths alone: %s", got)
	}
}
