// Package config loads runtime settings from an optional config.yaml, an
// optional .env file and CITYEVENTS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "CITYEVENTS"

// Config is the complete runtime configuration.
type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Sulekha   SulekhaConfig   `mapstructure:"sulekha"`
	Horoscope HoroscopeConfig `mapstructure:"horoscope"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

// HTTPConfig controls the shared outbound client.
type HTTPConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
	DelayMin          time.Duration `mapstructure:"delay_min"`
	DelayMax          time.Duration `mapstructure:"delay_max"`
	DetailConcurrency int           `mapstructure:"detail_concurrency"`
	FetchDetails      bool          `mapstructure:"fetch_details"`
}

type SulekhaConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type HoroscopeConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	Concurrency int    `mapstructure:"concurrency"`
}

// DatabaseConfig selects the SQL driver. Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout", 15*time.Second)
	v.SetDefault("http.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("http.delay_min", 1*time.Second)
	v.SetDefault("http.delay_max", 3*time.Second)
	v.SetDefault("http.detail_concurrency", 1)
	v.SetDefault("http.fetch_details", true)

	v.SetDefault("sulekha.base_url", "https://events.sulekha.com")

	v.SetDefault("horoscope.base_url", "https://www.astroved.com")
	v.SetDefault("horoscope.concurrency", 6)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "cityevents.db")
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration. An explicit path must exist; otherwise a missing
// config.yaml is not an error and defaults plus environment apply.
func Load(path string) (*Config, error) {
	// .env is optional; a parse error in an existing file is reported.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/cityevents")
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks values that would otherwise fail deep inside a batch.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid database driver: %s (must be 'postgres' or 'sqlite')", c.Database.Driver)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	if c.HTTP.DelayMax < c.HTTP.DelayMin {
		return fmt.Errorf("http.delay_max (%s) is below http.delay_min (%s)", c.HTTP.DelayMax, c.HTTP.DelayMin)
	}
	if c.HTTP.DetailConcurrency < 1 {
		c.HTTP.DetailConcurrency = 1
	}
	if c.Horoscope.Concurrency < 1 {
		c.Horoscope.Concurrency = 1
	}
	return nil
}
