package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/vaudoise/backoffice/store"
)

// EnvPrefix prefixes environment overrides: BACKOFFICE_HTTP_ADDR, BACKOFFICE_DATABASE_DSN, ...
const EnvPrefix = "BACKOFFICE"

type Config struct {
	HTTP       HTTP         `mapstructure:"http"`
	Database   store.Config `mapstructure:"database"`
	Pagination Pagination   `mapstructure:"pagination"`
	Log        Log          `mapstructure:"log"`
}

type HTTP struct {
	Addr            string        `mapstructure:"addr"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Pagination struct {
	DefaultSize int `mapstructure:"default_size"`
	MaxSize     int `mapstructure:"max_size"`
}

type Log struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.dsn", "host=localhost port=5432 user=postgres password=postgres dbname=backoffice sslmode=disable")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("pagination.default_size", store.DefaultPageSize)
	v.SetDefault("pagination.max_size", store.MaxPageSize)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads config.yaml from dir, when present, then applies environment overrides.
// An empty dir only uses defaults and the environment.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if dir != "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrapf(err, "read config in %q", dir)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Pagination.DefaultSize <= 0 {
		return errors.Errorf("pagination.default_size must be positive, got %d", c.Pagination.DefaultSize)
	}
	if c.Pagination.MaxSize < c.Pagination.DefaultSize {
		return errors.Errorf("pagination.max_size %d is lower than pagination.default_size %d",
			c.Pagination.MaxSize, c.Pagination.DefaultSize)
	}
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is empty")
	}
	return nil
}
