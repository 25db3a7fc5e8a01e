package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,         default=8080"`
	Env      string `env:"ENV,          default=development"`
	LogLevel string `env:"LOG_LEVEL,    default=info"`

	// AdminEmails is the comma-separated, case-insensitive administrator
	// allowlist. Parsed exactly once at startup by the orchestrator.
	AdminEmails string `env:"ADMIN_EMAILS"`

	JWTSecret string `env:"JWT_SECRET"`

	// PortalURL is the base URL the orchestrator's HTTP client talks to.
	PortalURL string `env:"PORTAL_URL,   default=http://localhost:8080"`

	// Profile names the session slot this process watches in Redis, so
	// several consoles on one workstation can hold independent sessions.
	Profile string `env:"PORTAL_PROFILE, default=console"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=hospital_portal"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr    string        `env:"REDIS_ADDR,    default=localhost:6379"`
	DB      int           `env:"REDIS_DB,      default=0"`
	Timeout time.Duration `env:"REDIS_TIMEOUT, default=5s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
