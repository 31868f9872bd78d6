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

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"`             // current application environment (local, dev, production etc)
	TelegramAPIToken string    `mapstructure:"-"`               // Telegram API token loaded from environment
	VerbsJSONPath    string    `mapstructure:"verbs_json_path"` // path to JSON file with the seed verb catalog
	DB               DB        `mapstructure:"database"`        // database configuration section
	Redis            Redis     `mapstructure:"-"`               // optional Redis session store
	Quiz             Quiz      `mapstructure:"quiz"`
	Session          Session   `mapstructure:"session"`
	RateLimit        RateLimit `mapstructure:"ratelimit"`
	Metrics          Metrics   `mapstructure:"metrics"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int32         `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Redis is enabled only when REDIS_ADDR is set.
type Redis struct {
	Addr     string
	Password string
}

func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// Quiz controls game length and pacing between an answer and the next question.
type Quiz struct {
	Questions   int           `mapstructure:"questions"`
	AnswerDelay time.Duration `mapstructure:"answer_delay"`
}

type Session struct {
	TTL time.Duration `mapstructure:"ttl"` // idle conversation lifetime
}

// RateLimit is applied per Telegram user.
type RateLimit struct {
	PerSecond float64 `mapstructure:"per_second"`
	Burst     int     `mapstructure:"burst"`
}

type Metrics struct {
	Addr string `mapstructure:"addr"` // empty disables the /metrics listener
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Pick up a local .env file; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("verbs_json_path", "assets/data/verbs.json")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("quiz.questions", 10)
	v.SetDefault("quiz.answer_delay", "2500ms")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("ratelimit.per_second", 3)
	v.SetDefault("ratelimit.burst", 5)
	v.SetDefault("metrics.addr", ":9090")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}

	cfg.Redis = Redis{
		Addr:     v.GetString("redis_addr"),
		Password: v.GetString("redis_password"),
	}

	if cfg.Quiz.Questions <= 0 {
		return nil, fmt.Errorf("quiz.questions must be positive, got %d", cfg.Quiz.Questions)
	}

	return &cfg, nil
}
