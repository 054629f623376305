package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/docutask/docutask/internal/types"
)

// Configuration is the root configuration for the service, loaded from
// environment variables (optionally seeded from a .env file) via viper.
type Configuration struct {
	Deployment Deployment       `mapstructure:"deployment"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Generation GenerationConfig `mapstructure:"generation"`
}

type Deployment struct {
	Mode string `mapstructure:"mode"` // "local", "production"
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level"`
}

type PostgresConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	User                  string `mapstructure:"user"`
	Password              string `mapstructure:"password"`
	DBName                string `mapstructure:"dbname"`
	SSLMode               string `mapstructure:"sslmode"`
	MaxOpenConns          int    `mapstructure:"max_open_conns"`
	MaxIdleConns          int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinute int    `mapstructure:"conn_max_lifetime_minutes"`
	AutoMigrate           bool   `mapstructure:"auto_migrate"`
}

// DSN returns the lib/pq connection string
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type CacheConfig struct {
	Type string `mapstructure:"type"` // "inmemory", "redis"
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type GenerationConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	// Per-1k-token rates used to convert reported usage into ledger cost
	InputCostPer1K  float64 `mapstructure:"input_cost_per_1k"`
	OutputCostPer1K float64 `mapstructure:"output_cost_per_1k"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds"`
}

// NewConfig loads configuration from the environment. A .env file in the
// working directory is honored in local mode; real environments set vars
// directly.
func NewConfig() (*Configuration, error) {
	// Best effort, absence of a .env file is not an error
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DOCUTASK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", "local")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "docutask")
	v.SetDefault("postgres.dbname", "docutask")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 60)
	v.SetDefault("postgres.auto_migrate", true)
	v.SetDefault("cache.type", "inmemory")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("generation.model", "gpt-4o-mini")
	v.SetDefault("generation.input_cost_per_1k", 0.00015)
	v.SetDefault("generation.output_cost_per_1k", 0.0006)
	v.SetDefault("generation.timeout_seconds", 120)
}

func (c *Configuration) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Postgres.Host == "" {
		return fmt.Errorf("postgres host is required")
	}
	return nil
}

// GetDefaultConfig returns a configuration suitable for tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: Deployment{Mode: "test"},
		Server:     ServerConfig{Address: ":0"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Cache:      CacheConfig{Type: "inmemory"},
		Generation: GenerationConfig{
			Model:           "gpt-4o-mini",
			InputCostPer1K:  0.00015,
			OutputCostPer1K: 0.0006,
		},
	}
}
