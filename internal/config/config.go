package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string `validate:"required"`
	GinMode  string `validate:"oneof=debug release test"`

	DBDriver    string `validate:"oneof=postgres mysql sqlite"`
	DatabaseURL string `validate:"required"`
	AutoMigrate bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LockBackend   string `validate:"oneof=redis sql"`
	EventsBackend string `validate:"oneof=redis local"`

	JWTSecret        string `validate:"required,min=16"`
	TelegramBotToken string
	TokenTTL         time.Duration `validate:"gt=0"`

	SpinDuration time.Duration `validate:"gt=0"`
	SpinGrace    time.Duration `validate:"gt=0"`

	CORSOrigins []string

	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads .env (if present) and the process environment. Variables already
// set in the environment win over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),
		GinMode:  getenv("GIN_MODE", "debug"),

		DBDriver:    getenv("DB_DRIVER", "postgres"),
		DatabaseURL: getenv("DATABASE_URL", ""),
		AutoMigrate: getbool("AUTO_MIGRATE", false),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		LockBackend:   getenv("LOCK_BACKEND", "redis"),
		EventsBackend: getenv("EVENTS_BACKEND", "redis"),

		JWTSecret:        getenv("JWT_SECRET", ""),
		TelegramBotToken: getenv("TELEGRAM_BOT_TOKEN", ""),
		TokenTTL:         getduration("TOKEN_TTL", 24*time.Hour),

		SpinDuration: getduration("SPIN_DURATION", 6*time.Second),
		SpinGrace:    getduration("SPIN_GRACE", 4*time.Second),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),
		LogFile:   getenv("LOG_FILE", ""),
	}

	if origins := getenv("CORS_ORIGINS", "*"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.LockBackend == "redis" || c.EventsBackend == "redis"
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func getint(key string, def int) int {
	if v, err := strconv.Atoi(getenv(key, "")); err == nil {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v, err := strconv.ParseBool(getenv(key, "")); err == nil {
		return v
	}
	return def
}

func getduration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(getenv(key, "")); err == nil {
		return v
	}
	return def
}
