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

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// CalendarConfig holds the layout constants consumed by the calendar core
// and the terminal grid.
type CalendarConfig struct {
	// HourHeight is the number of pixels per hour on the time grid.
	HourHeight float64 `mapstructure:"hour_height" yaml:"hour_height"`

	// MinTaskHeight is the pixel floor applied to every task block.
	MinTaskHeight float64 `mapstructure:"min_task_height" yaml:"min_task_height"`

	// WeekStart names the first day of the week (e.g., "sunday", "monday").
	WeekStart string `mapstructure:"week_start" yaml:"week_start"`

	// RowsPerHour is how many terminal rows render one hour.
	RowsPerHour int `mapstructure:"rows_per_hour" yaml:"rows_per_hour"`

	// DefaultView is the view shown at startup ("day", "week", "month").
	DefaultView string `mapstructure:"default_view" yaml:"default_view"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// StorageConfig locates the task database.
type StorageConfig struct {
	Path string `mapstructure:"path" yaml:"path"`

	// PollIntervalSec is how often the calendar checks the database for
	// changes made by other processes. Zero disables the check.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Calendar CalendarConfig `mapstructure:"calendar" yaml:"calendar"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
}

// configDir returns ~/.config/taskcal, falling back to the working directory.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "taskcal")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskcal/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultDBPath returns the default SQLite database path.
func DefaultDBPath() string {
	return filepath.Join(configDir(), "tasks.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Calendar: CalendarConfig{
			HourHeight:    60,
			MinTaskHeight: 25,
			WeekStart:     "sunday",
			RowsPerHour:   2,
			DefaultView:   "week",
		},
		Display: DisplayConfig{
			Theme: "default",
		},
		Storage: StorageConfig{
			Path:            DefaultDBPath(),
			PollIntervalSec: 5,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
// Environment variables prefixed with TASKCAL_ override file values
// (e.g., TASKCAL_CALENDAR_WEEK_START=monday).
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("taskcal")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := defaultAppConfig()
	v.SetDefault("calendar.hour_height", def.Calendar.HourHeight)
	v.SetDefault("calendar.min_task_height", def.Calendar.MinTaskHeight)
	v.SetDefault("calendar.week_start", def.Calendar.WeekStart)
	v.SetDefault("calendar.rows_per_hour", def.Calendar.RowsPerHour)
	v.SetDefault("calendar.default_view", def.Calendar.DefaultView)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("storage.poll_interval_sec", def.Storage.PollIntervalSec)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that all values are usable by the calendar.
func (c *AppConfig) Validate() error {
	if c.Calendar.HourHeight <= 0 {
		return fmt.Errorf("%w: calendar.hour_height must be positive, got %v",
			ErrInvalidConfig, c.Calendar.HourHeight)
	}
	if c.Calendar.MinTaskHeight < 0 {
		return fmt.Errorf("%w: calendar.min_task_height must not be negative, got %v",
			ErrInvalidConfig, c.Calendar.MinTaskHeight)
	}
	if c.Calendar.RowsPerHour < 1 || c.Calendar.RowsPerHour > 12 {
		return fmt.Errorf("%w: calendar.rows_per_hour must be between 1 and 12, got %d",
			ErrInvalidConfig, c.Calendar.RowsPerHour)
	}
	if c.Storage.PollIntervalSec < 0 {
		return fmt.Errorf("%w: storage.poll_interval_sec must not be negative, got %d",
			ErrInvalidConfig, c.Storage.PollIntervalSec)
	}
	if _, err := ParseWeekday(c.Calendar.WeekStart); err != nil {
		return err
	}
	switch strings.ToLower(c.Calendar.DefaultView) {
	case "day", "week", "month":
	default:
		return fmt.Errorf("%w: calendar.default_view %q", ErrInvalidConfig, c.Calendar.DefaultView)
	}
	return nil
}

// WeekStart returns the configured first day of the week.
func (c *AppConfig) WeekStart() time.Weekday {
	wd, err := ParseWeekday(c.Calendar.WeekStart)
	if err != nil {
		return time.Sunday
	}
	return wd
}

// ParseWeekday parses a weekday name such as "monday" or "Mon".
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("%w: unknown weekday %q", ErrInvalidConfig, s)
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

	v.Set("calendar", cfg.Calendar)
	v.Set("display", cfg.Display)
	v.Set("storage", cfg.Storage)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
