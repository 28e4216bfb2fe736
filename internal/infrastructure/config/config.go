package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth      AuthConfig
	Cookie    CookieConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
}

// AuthConfig holds the token codec settings. Both key files must exist at
// startup; there is no fallback signing mode.
type AuthConfig struct {
	PrivateKeyPath  string        `env:"JWT_PRIVATE_KEY_PATH, default=certs/jwt-private.pem"`
	PublicKeyPath   string        `env:"JWT_PUBLIC_KEY_PATH,  default=certs/jwt-public.pem"`
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TOKEN_TTL,  default=30m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_TTL, default=720h"`
}

// CookieConfig shapes the refresh cookie. HttpOnly is not configurable and is
// always set by the cookie transport.
type CookieConfig struct {
	Name     string        `env:"REFRESH_COOKIE_NAME,     default=refresh_token"`
	Path     string        `env:"REFRESH_COOKIE_PATH,     default=/"`
	Domain   string        `env:"REFRESH_COOKIE_DOMAIN"`
	MaxAge   time.Duration `env:"REFRESH_COOKIE_MAX_AGE,  default=720h"`
	Secure   bool          `env:"REFRESH_COOKIE_SECURE,   default=true"`
	SameSite string        `env:"REFRESH_COOKIE_SAMESITE, default=lax"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// RateLimitConfig throttles the credential endpoints per client IP.
// LoginMax <= 0 disables throttling entirely.
type RateLimitConfig struct {
	LoginMax int           `env:"RATE_LIMIT_LOGIN_MAX, default=10"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW,    default=1m"`
}

// AdminConfig seeds the bootstrap superuser. An empty password skips
// bootstrap; never ship a default credential.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL, default=admin@example.com"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
