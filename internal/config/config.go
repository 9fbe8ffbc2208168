package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cwarden/zcal/internal/calendar"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Storage settings
	DataDir      string `yaml:"data_dir"`
	ExportDir    string `yaml:"export_dir"`
	ShareCommand string `yaml:"share_command"`
	WatchStorage bool   `yaml:"watch_storage"`

	// Display settings
	WeekStartDay Weekday `yaml:"week_start_day"`
	DateFormat   string  `yaml:"date_format"`
	StartupView  string  `yaml:"startup_view"`
	DefaultTheme string  `yaml:"default_theme"`

	// Behavior settings
	ConfirmDelete  bool          `yaml:"confirm_delete"`
	MessageTimeout time.Duration `yaml:"message_timeout"`

	// Logging; the TUI owns the terminal so logs always go to a file.
	LogFile   string `yaml:"log_file"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Weekday is a time.Weekday written as a day name in YAML.
type Weekday time.Weekday

func (w Weekday) Weekday() time.Weekday {
	return time.Weekday(w)
}

func (w Weekday) MarshalYAML() (interface{}, error) {
	return strings.ToLower(time.Weekday(w).String()), nil
}

func (w *Weekday) UnmarshalYAML(value *yaml.Node) error {
	day, err := ParseWeekday(value.Value)
	if err != nil {
		return err
	}
	*w = Weekday(day)
	return nil
}

// ParseWeekday accepts the week starts a month grid supports.
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday", "sun", "0":
		return time.Sunday, nil
	case "monday", "mon", "1":
		return time.Monday, nil
	}
	return time.Sunday, fmt.Errorf("invalid week_start_day: %s", s)
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:      defaultDataDir(),
		ExportDir:    ".",
		WatchStorage: true,

		WeekStartDay: Weekday(time.Sunday),
		DateFormat:   "Jan 2, 2006",
		StartupView:  string(calendar.DefaultView),
		DefaultTheme: string(calendar.DefaultTheme),

		ConfirmDelete:  true,
		MessageTimeout: 3 * time.Second,

		LogLevel:  "info",
		LogFormat: "text",
	}
}

// LoadConfig reads the first config file found in the usual locations,
// falling back to defaults when there is none.
func LoadConfig() (*Config, error) {
	configPaths := []string{
		os.Getenv("ZCAL_CONFIG"),
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configPaths = append(configPaths, filepath.Join(xdg, "zcal", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		configPaths = append(configPaths, filepath.Join(home, ".config", "zcal", "config.yaml"))
	}

	for _, path := range configPaths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	cfg := DefaultConfig()
	cfg.Normalize()
	return cfg, nil
}

// LoadFile reads a YAML config. Keys missing from the file keep their
// defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file %s does not exist", path)
		}
		return nil, fmt.Errorf("error reading config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Validate rejects values outside the closed sets.
func (c *Config) Validate() error {
	if _, err := calendar.ParseView(c.StartupView); err != nil {
		return fmt.Errorf("startup_view: %w", err)
	}
	if _, err := calendar.ParseTheme(c.DefaultTheme); err != nil {
		return fmt.Errorf("default_theme: %w", err)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log_format: %s", c.LogFormat)
	}
	if c.MessageTimeout < 0 {
		return fmt.Errorf("invalid message_timeout: %s", c.MessageTimeout)
	}
	return nil
}

// Normalize expands paths and fills in derived defaults.
func (c *Config) Normalize() {
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	c.DataDir = expandHome(c.DataDir)

	if c.ExportDir == "" {
		c.ExportDir = "."
	}
	c.ExportDir = expandHome(c.ExportDir)

	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, "zcal.log")
	}
	c.LogFile = expandHome(c.LogFile)

	if c.DateFormat == "" {
		c.DateFormat = "Jan 2, 2006"
	}
	if c.MessageTimeout == 0 {
		c.MessageTimeout = 3 * time.Second
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	c.LogFormat = strings.ToLower(c.LogFormat)
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

// View is the validated startup view.
func (c *Config) View() calendar.View {
	v, err := calendar.ParseView(c.StartupView)
	if err != nil {
		return calendar.DefaultView
	}
	return v
}

// Theme is the validated theme used until one is saved.
func (c *Config) Theme() calendar.Theme {
	th, err := calendar.ParseTheme(c.DefaultTheme)
	if err != nil {
		return calendar.DefaultTheme
	}
	return th
}

// Save writes c as YAML via a temp file and rename, with 0600 permissions.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".zcal-config-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "zcal")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "zcal")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
