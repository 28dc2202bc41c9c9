// Package config loads recipebook settings from defaults, an optional
// recipebook.yaml, a .env file, RECIPEBOOK_* environment variables and
// command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hammamikhairi/recipebook/internal/ingredient"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

// EnvPrefix prefixes every environment variable, e.g. RECIPEBOOK_DATA or
// RECIPEBOOK_LOG_LEVEL.
const EnvPrefix = "RECIPEBOOK"

// Config is the resolved application configuration.
type Config struct {
	Data     string         `mapstructure:"data"`
	Watch    bool           `mapstructure:"watch"`
	Log      LogConfig      `mapstructure:"log"`
	Units    UnitsConfig    `mapstructure:"units"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Export   ExportConfig   `mapstructure:"export"`
	Server   ServerConfig   `mapstructure:"server"`
	Sessions SessionsConfig `mapstructure:"sessions"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// UnitsConfig controls ingredient unit parsing.
type UnitsConfig struct {
	Strict bool `mapstructure:"strict"`
}

// CatalogConfig controls catalog loading.
type CatalogConfig struct {
	Dedupe bool `mapstructure:"dedupe"`
}

// ExportConfig controls recipe export.
type ExportConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
}

// SessionsConfig controls where checklist sessions are kept. An empty Dir
// keeps them in memory for the life of the process.
type SessionsConfig struct {
	Dir  string        `mapstructure:"dir"`
	Keep time.Duration `mapstructure:"keep"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// New returns a viper instance with defaults and environment binding set
// up. Flags are bound to it by the caller before Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data", "recipes.csv")
	v.SetDefault("watch", false)

	v.SetDefault("log.level", "normal")
	v.SetDefault("log.file", "")

	v.SetDefault("units.strict", true)
	v.SetDefault("catalog.dedupe", false)

	v.SetDefault("export.dir", ".")
	v.SetDefault("export.format", "text")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")

	v.SetDefault("sessions.dir", "")
	v.SetDefault("sessions.keep", "720h")
}

// Load reads .env, then the config file, and decodes everything into a
// Config. An empty file searches for recipebook.yaml in the working
// directory and in $HOME/.config/recipebook; not finding one is fine.
func Load(v *viper.Viper, file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("recipebook")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "recipebook"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the values that have no usable fallback.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Data) == "" {
		return fmt.Errorf("data path is required")
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Sessions.Keep < 0 {
		return fmt.Errorf("sessions.keep must not be negative")
	}
	return nil
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logger.Level {
	lvl, _ := logger.ParseLevel(c.Log.Level)
	return lvl
}

// UnitPolicy returns the ingredient parser policy.
func (c *Config) UnitPolicy() ingredient.UnitPolicy {
	if c.Units.Strict {
		return ingredient.Strict
	}
	return ingredient.Lenient
}
