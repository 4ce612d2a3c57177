// Package config loads taskgraph settings from config files, environment and
// defaults through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. TASKGRAPH_DB_PATH.
const EnvPrefix = "TASKGRAPH"

// Config is the full taskgraph configuration.
type Config struct {
	DB          DBConfig     `mapstructure:"db"`
	Log         LogConfig    `mapstructure:"log"`
	Limits      LimitsConfig `mapstructure:"limits"`
	DefaultList string       `mapstructure:"default_list"`
}

// DBConfig locates the SQLite database.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"` // empty means stderr
	Format string `mapstructure:"format"`
}

// LimitsConfig bounds graph traversals.
type LimitsConfig struct {
	MaxDependencyDepth int `mapstructure:"max_dependency_depth"`
	MaxHierarchyDepth  int `mapstructure:"max_hierarchy_depth"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DB:  DBConfig{Path: DefaultDBPath()},
		Log: LogConfig{Level: "warn", Format: "json"},
		Limits: LimitsConfig{
			MaxDependencyDepth: 64,
			MaxHierarchyDepth:  256,
		},
	}
}

// DefaultDBPath returns ~/.taskgraph/taskgraph.db, or a relative path when
// the home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".taskgraph", "taskgraph.db")
	}
	return filepath.Join(home, ".taskgraph", "taskgraph.db")
}

// ConfigDir returns the user config directory, honoring XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskgraph")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "taskgraph")
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("db.path", d.DB.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("limits.max_dependency_depth", d.Limits.MaxDependencyDepth)
	v.SetDefault("limits.max_hierarchy_depth", d.Limits.MaxHierarchyDepth)
	v.SetDefault("default_list", d.DefaultList)
}

// Init wires config sources into v: an explicit file or the search path
// (./.taskgraph, then the user config dir), plus TASKGRAPH_* env vars.
// A missing config file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".taskgraph")
		if dir := ConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}
