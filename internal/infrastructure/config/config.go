package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
	// AuthRecheckRole re-reads the user's role from the store on every request
	// instead of trusting the token's role claim for its lifetime.
	AuthRecheckRole bool   `env:"AUTH_RECHECK_ROLE, default=false"`
	LogLevel        string `env:"LOG_LEVEL,  default=info"`
	LogFile         string `env:"LOG_FILE"`
	LogMaxSizeMB    int    `env:"LOG_MAX_SIZE_MB, default=100"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Broadcast BroadcastConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=task_tracker"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type BroadcastConfig struct {
	// UseRedis bridges the broadcast channel across server instances through
	// Redis pub/sub. Off by default: a single instance needs no backbone.
	UseRedis bool   `env:"BROADCAST_REDIS,   default=false"`
	Channel  string `env:"BROADCAST_CHANNEL, default=task_events"`
	Buffer   int    `env:"BROADCAST_BUFFER,  default=16"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	return &cfg, nil
}
