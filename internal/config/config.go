package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerAddr  string `env:"SERVER_ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	JWTSecret         string `env:"JWT_SECRET"`
	JWKSURL           string `env:"JWKS_URL"`
	AccessTokenTTLSec int    `env:"ACCESS_TOKEN_TTL_SEC" envDefault:"3600"`
	RefreshTTLSec     int    `env:"REFRESH_TOKEN_TTL_SEC" envDefault:"604800"` // 7 days

	InviteTokenTTL time.Duration `env:"INVITE_TOKEN_TTL" envDefault:"336h"` // 14 days

	GeoAPIBaseURL string `env:"GEO_API_BASE_URL" envDefault:"http://ip-api.com/json"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	DocumentBucket string `env:"DOCUMENT_BUCKET" envDefault:"rentalcv-documents"`

	OutboxBatchSize int `env:"OUTBOX_BATCH_SIZE" envDefault:"50"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
