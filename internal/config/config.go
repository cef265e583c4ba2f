// Package config loads the notebook configuration from YAML, environment
// variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. NOTEBOOK_DATABASE_PATH.
const EnvPrefix = "NOTEBOOK"

// DatabaseConfig locates the note database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path" validate:"required"`
}

// LogConfig controls where log output goes while the terminal UI runs.
type LogConfig struct {
	File string `mapstructure:"file" yaml:"file" validate:"required"`
}

// ExportConfig holds settings for .eml export.
type ExportConfig struct {
	// From is the address written into the From header of exported notes.
	From string `mapstructure:"from" yaml:"from" validate:"required,email"`
}

// PrivacyConfig holds settings for the passcode gate.
type PrivacyConfig struct {
	// Service is the keyring service the passcode hash is stored under.
	Service string `mapstructure:"service" yaml:"service" validate:"required"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Export   ExportConfig   `mapstructure:"export" yaml:"export"`
	Privacy  PrivacyConfig  `mapstructure:"privacy" yaml:"privacy"`
}

// Dir returns ~/.config/notebook.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "notebook")
}

// DefaultPath returns the default path for the configuration file.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(Dir(), "notebook.db"))
	v.SetDefault("log.file", filepath.Join(Dir(), "notebook.log"))
	v.SetDefault("export.from", "notebook@localhost.localdomain")
	v.SetDefault("privacy.service", "notebook")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// Defaults are plain strings; decoding them cannot fail.
	_ = v.Unmarshal(cfg)
	return cfg
}

// Load reads configuration from path. Values are resolved in viper's usual
// order: flags, NOTEBOOK_* environment variables, the file, then defaults.
// A missing file is not an error. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"db":       "database.path",
	"log-file": "log.file",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}
	return nil
}

// Validate checks required fields and formats.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Save writes cfg to a YAML file at path, creating parent directories if
// needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("log", cfg.Log)
	v.Set("export", cfg.Export)
	v.Set("privacy", cfg.Privacy)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
