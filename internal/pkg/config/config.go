package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

var errEmptySecret = errors.New("config: JWT_SECRET must not be empty")

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=1h"`

	Mongo  MongoConfig
	Images ImagesConfig
	Posts  PostsConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=messages"`
}

type ImagesConfig struct {
	Dir            string `env:"IMAGE_DIR,       default=images"`
	CleanupWorkers int    `env:"CLEANUP_WORKERS, default=2"`
	// MaxUploadBytes bounds the multipart body of PUT /post-image.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES, default=10485760"`
}

type PostsConfig struct {
	PerPage int `env:"POSTS_PER_PAGE, default=2"`
	// LegacyOffset restores the (page-1)*page skip older clients depend on.
	LegacyOffset bool `env:"POSTS_LEGACY_OFFSET, default=false"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, errEmptySecret
	}
	return &cfg, nil
}

// MustLoad is Load for program start-up.
func MustLoad() *Config {
	cfg, err := Load(context.Background())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
