package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "THREADHAUS"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv                 = "THREADHAUS_APP_ENV"
	EnvPort                   = "THREADHAUS_APP_PORT"
	EnvRedisURL               = "THREADHAUS_REDIS_URL"
	EnvJWTSecret              = "THREADHAUS_JWT_SECRET"
	EnvJWTIssuer              = "THREADHAUS_JWT_ISSUER"
	EnvJWTExpMins             = "THREADHAUS_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "THREADHAUS_REFRESH_TOKEN_TTL_MINUTES"
	EnvGatewayBaseURL         = "THREADHAUS_GATEWAY_BASE_URL"
	EnvGatewayAPIKey          = "THREADHAUS_GATEWAY_API_KEY"
)

type Config struct {
	App           AppConfig
	Redis         RedisConfig
	JWT           JWTConfig
	AuthRateLimit AuthRateLimitConfig
	Gateway       GatewayConfig
	Cart          CartConfig
	Analytics     AnalyticsConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"THREADHAUS_APP_ENV" required:"true"`
	Port         string `envconfig:"THREADHAUS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"THREADHAUS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"THREADHAUS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"THREADHAUS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"THREADHAUS_REDIS_ADDR"`
	Password     string        `envconfig:"THREADHAUS_REDIS_PASSWORD"`
	DB           int           `envconfig:"THREADHAUS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"THREADHAUS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"THREADHAUS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"THREADHAUS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"THREADHAUS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"THREADHAUS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"THREADHAUS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"THREADHAUS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"THREADHAUS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"THREADHAUS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"THREADHAUS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"THREADHAUS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"THREADHAUS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// GatewayConfig points the service at the hosted identity/document store.
type GatewayConfig struct {
	BaseURL     string        `envconfig:"THREADHAUS_GATEWAY_BASE_URL" required:"true"`
	APIKey      string        `envconfig:"THREADHAUS_GATEWAY_API_KEY" required:"true"`
	ProjectID   string        `envconfig:"THREADHAUS_GATEWAY_PROJECT_ID"`
	HTTPTimeout time.Duration `envconfig:"THREADHAUS_GATEWAY_HTTP_TIMEOUT" default:"10s"`
}

type CartConfig struct {
	SnapshotTTL time.Duration `envconfig:"THREADHAUS_CART_SNAPSHOT_TTL" default:"168h"`
}

type AnalyticsConfig struct {
	TopProductsLimit int `envconfig:"THREADHAUS_ANALYTICS_TOP_PRODUCTS_LIMIT" default:"10"`
	SeriesDays       int `envconfig:"THREADHAUS_ANALYTICS_SERIES_DAYS" default:"30"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"THREADHAUS_CORS_ALLOWED_ORIGINS" default:"*"`
}
