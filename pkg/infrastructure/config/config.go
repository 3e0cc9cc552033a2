package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	App struct {
		Env  string
		Name string
	} `mapstructure:"app"`

	HTTP struct {
		Addr        string
		CORSOrigins []string `mapstructure:"cors_origins"`
	} `mapstructure:"http"`

	Log struct {
		Level string
	} `mapstructure:"log"`

	Store struct {
		Driver string
	} `mapstructure:"store"`

	Postgres struct {
		DSN             string
		MaxIdleConns    int           `mapstructure:"max_idle_conns"`
		MaxOpenConns    int           `mapstructure:"max_open_conns"`
		ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
		LogLevel        string        `mapstructure:"log_level"`
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
		Prefix  string
	} `mapstructure:"metrics"`

	Estimator struct {
		MaxParallel int `mapstructure:"max_parallel"`
	} `mapstructure:"estimator"`

	Seed struct {
		Dir string
	} `mapstructure:"seed"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.name", "blacksmith")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_idle_conns", 10)
	v.SetDefault("postgres.max_open_conns", 100)
	v.SetDefault("postgres.conn_max_lifetime", time.Hour)
	v.SetDefault("postgres.log_level", "warn")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.prefix", "blacksmith")
	v.SetDefault("estimator.max_parallel", 16)
	v.SetDefault("seed.dir", "")
}

// LoadDotEnv exports the variables of a .env file if one exists
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load reads the YAML file at path, if any, then applies BLACKSMITH_*
// environment overrides such as BLACKSMITH_POSTGRES_DSN.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("BLACKSMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate checks the settings that cannot be defaulted
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("postgres.dsn is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Estimator.MaxParallel < 1 {
		return fmt.Errorf("estimator.max_parallel must be positive, got %d", c.Estimator.MaxParallel)
	}
	return nil
}
