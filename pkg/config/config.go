package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Abraxas-365/resumescan/pkg/errx"
	"github.com/joho/godotenv"
)

const (
	ScoringModeRules = "rules"
	ScoringModeModel = "model"
	ScoringModeLLM   = "llm"

	StorageDriverS3    = "s3"
	StorageDriverLocal = "local"

	devJWTSecret = "super-secret-key-please-change-me-in-production"
)

type Config struct {
	Env       string
	Port      string
	BodyLimit int
	LogLevel  string
	LogFormat string

	DB      DBConfig
	Redis   RedisConfig
	Storage StorageConfig
	JWT     JWTConfig
	Auth    AuthConfig
	Scoring ScoringConfig
	Events  EventsConfig
	Worker  WorkerConfig
}

type DBConfig struct {
	URL     string
	Host    string
	Port    string
	User    string
	Pass    string
	Name    string
	SSLMode string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN for lib/pq
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Pass, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

type StorageConfig struct {
	Driver    string
	Bucket    string
	Region    string
	Prefix    string
	LocalRoot string
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
	Issuer         string
}

// AuthConfig controls account creation. Admin accounts are otherwise only
// created by an existing admin.
type AuthConfig struct {
	AllowAdminSignup bool
}

type ScoringConfig struct {
	Mode        string
	ModelPath   string
	OpenAIKey   string
	OpenAIModel string
}

type EventsConfig struct {
	RabbitMQURL string
	Exchange    string
}

type WorkerConfig struct {
	Async   bool
	Workers int
}

// Load reads an optional .env file and then the process environment
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function, so tests need not touch os env
func FromEnv(getenv func(string) string) (*Config, error) {
	e := env{get: getenv}

	cfg := &Config{
		Env:       e.str("APP_ENV", "development"),
		Port:      e.str("PORT", "8080"),
		BodyLimit: e.int("BODY_LIMIT_MB", 12) * 1024 * 1024,
		LogLevel:  e.str("LOG_LEVEL", "info"),
		LogFormat: e.str("LOG_FORMAT", "console"),
		DB: DBConfig{
			URL:             e.str("DATABASE_URL", ""),
			Host:            e.str("DB_HOST", "localhost"),
			Port:            e.str("DB_PORT", "5432"),
			User:            e.str("DB_USER", "postgres"),
			Pass:            e.str("DB_PASS", ""),
			Name:            e.str("DB_NAME", "resume_scanner"),
			SSLMode:         e.str("DB_SSLMODE", "disable"),
			MaxOpenConns:    e.int("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    e.int("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: e.duration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr: e.str("REDIS_ADDR", "localhost:6379"),
			Pass: e.str("REDIS_PASS", ""),
			DB:   e.int("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Driver:    strings.ToLower(e.str("STORAGE_DRIVER", StorageDriverLocal)),
			Bucket:    e.str("AWS_BUCKET", ""),
			Region:    e.str("AWS_REGION", "us-east-1"),
			Prefix:    e.str("STORAGE_PREFIX", "uploads"),
			LocalRoot: e.str("STORAGE_LOCAL_ROOT", "./data/uploads"),
		},
		JWT: JWTConfig{
			SecretKey:      e.str("JWT_SECRET", ""),
			AccessTokenTTL: e.duration("JWT_ACCESS_TTL", 24*time.Hour),
			Issuer:         e.str("JWT_ISSUER", "resumescan"),
		},
		Auth: AuthConfig{
			AllowAdminSignup: e.bool("ALLOW_ADMIN_SIGNUP", false),
		},
		Scoring: ScoringConfig{
			Mode:        strings.ToLower(e.str("SCORING_MODE", ScoringModeRules)),
			ModelPath:   e.str("MODEL_PATH", ""),
			OpenAIKey:   e.str("OPENAI_API_KEY", ""),
			OpenAIModel: e.str("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Events: EventsConfig{
			RabbitMQURL: e.str("RABBITMQ_URL", ""),
			Exchange:    e.str("RABBITMQ_EXCHANGE", "analysis_events"),
		},
		Worker: WorkerConfig{
			Async:   e.bool("ASYNC_ANALYSIS", false),
			Workers: e.int("WORKERS", 3),
		},
	}

	if e.err != nil {
		return nil, e.err
	}

	if cfg.JWT.SecretKey == "" && cfg.IsDevelopment() {
		cfg.JWT.SecretKey = devJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == "test"
}

// Validate reports settings that cannot work together
func (c *Config) Validate() error {
	invalid := func(key, reason string) error {
		return errx.New("invalid configuration", errx.TypeValidation).
			WithDetail("key", key).
			WithDetail("reason", reason)
	}

	if c.JWT.SecretKey == "" {
		return invalid("JWT_SECRET", "required outside development")
	}
	switch c.Scoring.Mode {
	case ScoringModeRules:
	case ScoringModeModel:
		if c.Scoring.ModelPath == "" {
			return invalid("MODEL_PATH", "required when SCORING_MODE=model")
		}
	case ScoringModeLLM:
		if c.Scoring.OpenAIKey == "" {
			return invalid("OPENAI_API_KEY", "required when SCORING_MODE=llm")
		}
	default:
		return invalid("SCORING_MODE", "must be one of rules, model, llm")
	}
	switch c.Storage.Driver {
	case StorageDriverLocal:
	case StorageDriverS3:
		if c.Storage.Bucket == "" {
			return invalid("AWS_BUCKET", "required when STORAGE_DRIVER=s3")
		}
	default:
		return invalid("STORAGE_DRIVER", "must be s3 or local")
	}
	if c.Worker.Async && c.Worker.Workers < 1 {
		return invalid("WORKERS", "must be at least 1 when ASYNC_ANALYSIS is set")
	}
	return nil
}

// env collects the first parse error so FromEnv can report it once
type env struct {
	get func(string) string
	err error
}

func (e *env) str(key, def string) string {
	if v := strings.TrimSpace(e.get(key)); v != "" {
		return v
	}
	return def
}

func (e *env) int(key string, def int) int {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return n
}

func (e *env) bool(key string, def bool) bool {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return b
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return d
}

func (e *env) fail(key, value string, err error) {
	if e.err != nil {
		return
	}
	e.err = errx.Wrap(err, "invalid configuration", errx.TypeValidation).
		WithDetail("key", key).
		WithDetail("value", value)
}
