package config

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

// Config is the single immutable configuration object, loaded once at
// process start and passed into each component at construction. Secrets
// (encryption key, JWT secret, SMTP credentials, relay endpoint) live here
// and are never re-read per request.
type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	JWTSecret string `env:"JWT_SECRET, required"`

	// EncryptionKey is the server-held symmetric secret protecting agreement
	// text at rest.
	EncryptionKey string `env:"ENCRYPTION_KEY, required"`

	// AllowedOrigins is the fixed cross-origin allow list; requests from any
	// other origin are rejected outright.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS, default=http://localhost:3000"`

	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL, default=2h"`
	ResetBaseURL  string        `env:"RESET_BASE_URL,  default=http://localhost:3000"`
	MailWorkers   int           `env:"MAIL_WORKERS,    default=2"`

	Mongo MongoConfig
	Redis RedisConfig
	Relay RelayConfig
	SMTP  SMTPConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=agreement_log"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type RelayConfig struct {
	URL     string        `env:"RELAY_URL,     default=http://localhost:8002/call-express"`
	Timeout time.Duration `env:"RELAY_TIMEOUT, default=30s"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context, logger zerolog.Logger) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		logger.Error().Err(err).Msg("failed to load configuration")
		return nil, err
	}
	return &cfg, nil
}
