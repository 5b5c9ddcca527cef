package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "ORGANIZESE"

type Config struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Repository RepositoryConfig `mapstructure:"repository" yaml:"repository"`
	HTTP       HTTPConfig       `mapstructure:"http" yaml:"http"`
	Worker     WorkerConfig     `mapstructure:"worker" yaml:"worker"`
	Schedule   ScheduleConfig   `mapstructure:"schedule" yaml:"schedule"`
	Session    SessionConfig    `mapstructure:"session" yaml:"session"`
	Tracing    TracingConfig    `mapstructure:"tracing" yaml:"tracing"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port" yaml:"port"`
	Host            string        `mapstructure:"host" yaml:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url" yaml:"url"`
	MaxConnections int           `mapstructure:"max_connections" yaml:"max_connections"`
	MinConnections int           `mapstructure:"min_connections" yaml:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	PingRetries    int           `mapstructure:"ping_retries" yaml:"ping_retries"`
	MigrateOnStart bool          `mapstructure:"migrate_on_start" yaml:"migrate_on_start"`
}

type LoggingConfig struct {
	Development bool   `mapstructure:"development" yaml:"development"`
	Level       string `mapstructure:"level" yaml:"level"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type" yaml:"type"` // "postgres" or "inmemory"
}

type HTTPConfig struct {
	RateLimitRPM   int      `mapstructure:"rate_limit_rpm" yaml:"rate_limit_rpm"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// WorkerConfig controls the periodic history repair. It is off unless
// enabled explicitly: repair drops completions recorded for a previous
// scheduled date.
type WorkerConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	Interval  time.Duration `mapstructure:"interval" yaml:"interval"`
	BatchSize int           `mapstructure:"batch_size" yaml:"batch_size"`
}

type ScheduleConfig struct {
	TimeZone string `mapstructure:"time_zone" yaml:"time_zone"`
}

type SessionConfig struct {
	// Admins are the user ids allowed to impersonate other users.
	Admins []string `mapstructure:"admins" yaml:"admins"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

const (
	RepositoryPostgres = "postgres"
	RepositoryInMemory = "inmemory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("database.ping_retries", 5)
	v.SetDefault("database.migrate_on_start", true)

	v.SetDefault("logging.development", false)
	v.SetDefault("logging.level", "")
	v.SetDefault("repository.type", RepositoryInMemory)

	v.SetDefault("http.rate_limit_rpm", 100)
	v.SetDefault("http.allowed_origins", []string{"*"})

	v.SetDefault("worker.enabled", false)
	v.SetDefault("worker.interval", time.Hour)
	v.SetDefault("worker.batch_size", 100)

	v.SetDefault("schedule.time_zone", "America/Sao_Paulo")
	v.SetDefault("session.admins", []string{})

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "organizese")
}

// Load reads .env (if present), then config.yml from dir, then ORGANIZESE_*
// environment variables; later sources win. A missing config file is not an
// error.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir == "" {
		dir = "."
	}
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config.yml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.Repository.Type {
	case RepositoryInMemory:
	case RepositoryPostgres:
		if c.Database.URL == "" {
			problems = append(problems, "database.url is required for the postgres repository")
		}
		if c.Database.MinConnections > c.Database.MaxConnections {
			problems = append(problems, "database.min_connections exceeds database.max_connections")
		}
	default:
		problems = append(problems, fmt.Sprintf("repository.type %q is not one of postgres, inmemory", c.Repository.Type))
	}
	if c.Server.Port == "" {
		problems = append(problems, "server.port is required")
	}
	if c.HTTP.RateLimitRPM <= 0 {
		problems = append(problems, "http.rate_limit_rpm must be positive")
	}
	if c.Worker.Enabled && c.Worker.Interval <= 0 {
		problems = append(problems, "worker.interval must be positive when the worker is enabled")
	}
	if c.Worker.BatchSize <= 0 {
		problems = append(problems, "worker.batch_size must be positive")
	}
	if _, err := time.LoadLocation(c.Schedule.TimeZone); err != nil {
		problems = append(problems, fmt.Sprintf("schedule.time_zone %q is unknown", c.Schedule.TimeZone))
	}
	for _, raw := range c.Session.Admins {
		if _, err := uuid.Parse(raw); err != nil {
			problems = append(problems, fmt.Sprintf("session.admins entry %q is not a user id", raw))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// AdminIDs returns the parsed admin list. Validate has already rejected bad entries.
func (c *Config) AdminIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Session.Admins))
	for _, raw := range c.Session.Admins {
		if id, err := uuid.Parse(raw); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
