// Package config loads gutenbridge configuration with viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"gutenbridge/settings"
)

// Settings backends.
const (
	BackendMemory = settings.BackendMemory
	BackendFile   = settings.BackendFile
	BackendSQLite = settings.BackendSQLite
)

const EnvPrefix = "GUTENBRIDGE"

type Config struct {
	Port     string `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	// Empty LogFile logs to stderr only.
	LogFile       string `mapstructure:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
	LogMaxAgeDays int    `mapstructure:"log_max_age_days"`

	SettingsBackend string `mapstructure:"settings_backend"`
	SettingsPath    string `mapstructure:"settings_path"`

	ContentTimeout time.Duration `mapstructure:"content_timeout"`
	SingleSiteMode bool          `mapstructure:"single_site_mode"`

	Features Features `mapstructure:"features"`
}

type Features struct {
	NativeEditor bool `mapstructure:"native_editor"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size_mb", 20)
	v.SetDefault("log_max_backups", 10)
	v.SetDefault("log_max_age_days", 30)
	v.SetDefault("settings_backend", BackendFile)
	v.SetDefault("settings_path", "/data/editor-settings.json")
	v.SetDefault("content_timeout", "10s")
	v.SetDefault("single_site_mode", false)
	v.SetDefault("features.native_editor", false)
}

// Load reads configuration from defaults, an optional config file and
// GUTENBRIDGE_* environment variables, in increasing priority. An explicit
// configFile must exist; otherwise ./gutenbridge.yaml is read if present.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("gutenbridge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch c.SettingsBackend {
	case BackendMemory:
	case BackendFile, BackendSQLite:
		if c.SettingsPath == "" {
			return fmt.Errorf("settings_path is required for the %s backend", c.SettingsBackend)
		}
	default:
		return fmt.Errorf("invalid settings backend: %q", c.SettingsBackend)
	}
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.ContentTimeout <= 0 {
		return fmt.Errorf("content_timeout must be positive, got %s", c.ContentTimeout)
	}
	return nil
}

// FeatureFlags is the process-wide flag set for the settings store.
func (c Config) FeatureFlags() settings.Flags {
	return settings.Flags{
		settings.FlagNativeEditor: c.Features.NativeEditor,
	}
}
