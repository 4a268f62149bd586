package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"LifeManager"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		LogFile  string `envconfig:"LOG_FILE" default:"lifemanager.log"`
	}

	Storage struct {
		Driver    string `envconfig:"STORAGE_DRIVER" default:"file"`
		Dir       string `envconfig:"STORAGE_DIR" default:".lifemanager"`
		KeyPrefix string `envconfig:"STORAGE_KEY_PREFIX" default:"lifemanager_"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"lifemanager"`
	}

	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
		Password string `envconfig:"REDIS_PASSWORD" default:""`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	}

	AutoSave struct {
		Enabled  bool          `envconfig:"AUTOSAVE_ENABLED" default:"true"`
		Interval time.Duration `envconfig:"AUTOSAVE_INTERVAL" default:"30s"`
	}

	Auth struct {
		JWTSecret      string        `envconfig:"JWT_SECRET" default:""`
		TokenTTL       time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
		PasswordScheme string        `envconfig:"PASSWORD_SCHEME" default:"bcrypt"`
		BcryptCost     int           `envconfig:"BCRYPT_COST" default:"10"`
	}

	Demo struct {
		Enabled  bool   `envconfig:"DEMO_ENABLED" default:"false"`
		Name     string `envconfig:"DEMO_NAME" default:"Demo User"`
		Email    string `envconfig:"DEMO_EMAIL" default:"demo@lifemanager.local"`
		Password string `envconfig:"DEMO_PASSWORD" default:"demo123"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	RateLimit struct {
		RPS   float64 `envconfig:"AUTH_RATE_LIMIT_RPS" default:"1"`
		Burst int     `envconfig:"AUTH_RATE_LIMIT_BURST" default:"5"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// LogLevel parses App.LogLevel, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}

	return level
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	cfg.Storage.Driver = strings.ToLower(cfg.Storage.Driver)

	switch cfg.Storage.Driver {
	case StorageMemory, StorageFile, StoragePostgres, StorageRedis:
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	return &cfg, nil
}
