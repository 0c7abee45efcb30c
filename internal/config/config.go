// Package config loads cafedesk settings from a YAML file with environment
// overrides. A missing file is created with the defaults on first run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/balkashynov/cafedesk/internal/models"
)

const (
	appDir    = ".cafedesk"
	envPrefix = "CAFEDESK"
)

const (
	keyDatabasePath     = "database.path"
	keyWarningThreshold = "timer.warning_threshold"
	keyPollInterval     = "timer.poll_interval"
	keyEventBuffer      = "timer.event_buffer"
	keyLogLevel         = "logging.level"
	keyLogFile          = "logging.file"
	keyLogMaxSizeMB     = "logging.max_size_mb"
	keyLogMaxBackups    = "logging.max_backups"
	keyCurrency         = "billing.currency"
	keySeedSystems      = "systems.seed"
)

// Config holds every tunable setting.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Timer    TimerConfig    `mapstructure:"timer"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Billing  BillingConfig  `mapstructure:"billing"`
	Systems  SystemsConfig  `mapstructure:"systems"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type TimerConfig struct {
	WarningThreshold time.Duration `mapstructure:"warning_threshold"`
	PollInterval     time.Duration `mapstructure:"poll_interval"`
	EventBuffer      int           `mapstructure:"event_buffer"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type BillingConfig struct {
	Currency string `mapstructure:"currency"`
}

type SystemsConfig struct {
	Seed []SeedSystem `mapstructure:"seed"`
}

// SeedSystem is a workstation created on first run.
type SeedSystem struct {
	Name string  `mapstructure:"name"`
	Type string  `mapstructure:"type"`
	Rate float64 `mapstructure:"rate"`
}

// Dir returns the directory holding the database, config and logs.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, appDir), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// Load reads the config at path, writing a default file if none exists.
// CAFEDESK_* environment variables override file values, e.g.
// CAFEDESK_TIMER_WARNING_THRESHOLD=10m.
func Load(path string) (*Config, error) {
	dir := filepath.Dir(path)

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, dir)

	err := v.ReadInConfig()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file failed: %w", err)
		}

		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := v.WriteConfig(); err != nil {
			return nil, fmt.Errorf("writing default config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config failed: %w", err)
	}

	cfg.Database.Path = expandHome(cfg.Database.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault(keyDatabasePath, filepath.Join(dir, "cafedesk.db"))
	v.SetDefault(keyWarningThreshold, "5m")
	v.SetDefault(keyPollInterval, "1s")
	v.SetDefault(keyEventBuffer, 64)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFile, filepath.Join(dir, "cafedesk.log"))
	v.SetDefault(keyLogMaxSizeMB, 10)
	v.SetDefault(keyLogMaxBackups, 3)
	v.SetDefault(keyCurrency, "₹")
	v.SetDefault(keySeedSystems, []map[string]any{
		{"name": "PS-4", "type": "Console", "rate": 100},
		{"name": "PS-5", "type": "Console", "rate": 100},
		{"name": "XB-01", "type": "Console", "rate": 100},
		{"name": "XB-02", "type": "Console", "rate": 100},
		{"name": "PC-01", "type": "PC", "rate": 100},
		{"name": "PC-02", "type": "PC", "rate": 100},
	})
}

// Validate rejects settings the timer and logger cannot run with.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database.path must be set")
	}
	if c.Timer.WarningThreshold <= 0 {
		return fmt.Errorf("timer.warning_threshold must be positive, got %s", c.Timer.WarningThreshold)
	}
	if c.Timer.PollInterval <= 0 {
		return fmt.Errorf("timer.poll_interval must be positive, got %s", c.Timer.PollInterval)
	}
	if c.Timer.EventBuffer < 0 {
		return fmt.Errorf("timer.event_buffer cannot be negative, got %d", c.Timer.EventBuffer)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 {
		return errors.New("logging.max_size_mb and logging.max_backups cannot be negative")
	}
	for _, s := range c.Systems.Seed {
		if strings.TrimSpace(s.Name) == "" {
			return errors.New("systems.seed entries need a name")
		}
		if s.Rate <= 0 {
			return fmt.Errorf("systems.seed %s: rate must be positive", s.Name)
		}
	}
	return nil
}

// SeedSystems converts the configured seed list into system records.
func (c *Config) SeedSystems() []models.System {
	systems := make([]models.System, 0, len(c.Systems.Seed))
	for _, s := range c.Systems.Seed {
		typ := s.Type
		if typ == "" {
			typ = "Console"
		}
		systems = append(systems, models.System{
			Name:              s.Name,
			Type:              typ,
			DefaultHourlyRate: s.Rate,
			Availability:      models.Available,
		})
	}
	return systems
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
