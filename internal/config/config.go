package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	RepositoryMongo    = "mongo"
	RepositoryPostgres = "postgres"
	RepositoryInMemory = "inmemory"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Worker     WorkerConfig     `mapstructure:"worker"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	AllowedOrigin   string        `mapstructure:"allowed_origin"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig - подключение к MongoDB. URI, если задан, важнее user/password/host.
type DatabaseConfig struct {
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	Host           string        `mapstructure:"host"`
	URI            string        `mapstructure:"uri"`
	Name           string        `mapstructure:"name"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type PostgresConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int32         `mapstructure:"max_connections"`
	MinConnections int32         `mapstructure:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type"` // "mongo", "postgres" или "inmemory"
}

type WorkerConfig struct {
	HealthInterval time.Duration `mapstructure:"health_interval"`
	MaxStartupTime time.Duration `mapstructure:"max_startup_time"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.host", "")
	v.SetDefault("server.allowed_origin", "http://localhost:5173")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.host", "cluster0.a75ke.mongodb.net")
	v.SetDefault("database.name", "Task24Hr")
	v.SetDefault("database.connect_timeout", 10*time.Second)

	v.SetDefault("postgres.max_connections", 10)
	v.SetDefault("postgres.min_connections", 2)
	v.SetDefault("postgres.idle_timeout", 5*time.Minute)

	v.SetDefault("logging.development", false)
	v.SetDefault("repository.type", RepositoryMongo)

	v.SetDefault("worker.health_interval", time.Minute)
	v.SetDefault("worker.max_startup_time", 2*time.Minute)
}

func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"server.port":         "PORT",
		"database.user":       "DB_USER",
		"database.password":   "DB_PASS",
		"database.uri":        "MONGODB_URI",
		"postgres.url":        "POSTGRES_URL",
		"repository.type":     "REPOSITORY_TYPE",
		"logging.development": "LOG_DEVELOPMENT",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("привязка %s к %s: %w", key, env, err)
		}
	}
	return nil
}

// Load читает .env (если есть), затем config.yml из paths (если есть), затем окружение.
func Load(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("не могу прочитать .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	v.SetConfigName("config")
	v.SetConfigType("yml")
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ошибка парсинга config.yml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositoryMongo:
		if c.Database.URI == "" && (c.Database.User == "" || c.Database.Password == "") {
			return errors.New("для mongo нужны DB_USER и DB_PASS либо MONGODB_URI")
		}
	case RepositoryPostgres:
		if c.Postgres.URL == "" {
			return errors.New("для postgres нужен POSTGRES_URL")
		}
	case RepositoryInMemory:
	default:
		return fmt.Errorf("неизвестный тип репозитория %q", c.Repository.Type)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// MongoURI собирает строку подключения к кластеру Atlas из учётных данных.
func (c *Config) MongoURI() string {
	if c.Database.URI != "" {
		return c.Database.URI
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority&appName=Cluster0",
		url.QueryEscape(c.Database.User),
		url.QueryEscape(c.Database.Password),
		c.Database.Host,
	)
}
