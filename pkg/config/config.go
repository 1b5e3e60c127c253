package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is the envconfig prefix shared by every setting.
	EnvPrefix = "orderhub"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	Data          DataConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Session       SessionConfig
	AuthRateLimit AuthRateLimitConfig
	WhatsApp      WhatsAppConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if strings.TrimSpace(cfg.Data.Dir) == "" {
		return nil, fmt.Errorf("ORDERHUB_DATA_DIR is required")
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ORDERHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"ORDERHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ORDERHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ORDERHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DataConfig locates the flat-file data directory holding users.json,
// storeheader.json, OrderSuppliers.json, and the per-supplier order files.
type DataConfig struct {
	Dir               string `envconfig:"ORDERHUB_DATA_DIR" required:"true"`
	AllStoresSentinel string `envconfig:"ORDERHUB_ALL_STORES_SENTINEL" default:"ALL"`
	DefaultStore      string `envconfig:"ORDERHUB_DEFAULT_STORE" default:"NMC"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ORDERHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ORDERHUB_REDIS_ADDR"`
	Password     string        `envconfig:"ORDERHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORDERHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORDERHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORDERHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORDERHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORDERHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORDERHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ORDERHUB_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ORDERHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"ORDERHUB_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"ORDERHUB_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type SessionConfig struct {
	CookieName   string `envconfig:"ORDERHUB_SESSION_COOKIE_NAME" default:"orderhub_session"`
	CookieSecure bool   `envconfig:"ORDERHUB_SESSION_COOKIE_SECURE" default:"false"`
}

type AuthRateLimitConfig struct {
	LoginWindow    time.Duration `envconfig:"ORDERHUB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUserLimit int           `envconfig:"ORDERHUB_AUTH_RATE_LIMIT_LOGIN_USER_LIMIT" default:"5"`
	LoginIPLimit   int           `envconfig:"ORDERHUB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// WhatsAppConfig carries the messaging-provider credentials. All fields are
// optional; when AccountSID or AuthToken is empty the gateway runs as a no-op.
type WhatsAppConfig struct {
	AccountSID string        `envconfig:"ORDERHUB_WHATSAPP_ACCOUNT_SID"`
	AuthToken  string        `envconfig:"ORDERHUB_WHATSAPP_AUTH_TOKEN"`
	FromNumber string        `envconfig:"ORDERHUB_WHATSAPP_FROM_NUMBER"`
	BaseURL    string        `envconfig:"ORDERHUB_WHATSAPP_BASE_URL"`
	Timeout    time.Duration `envconfig:"ORDERHUB_WHATSAPP_TIMEOUT" default:"10s"`
}

// Enabled reports whether the provider credentials are complete.
func (w WhatsAppConfig) Enabled() bool {
	return strings.TrimSpace(w.AccountSID) != "" &&
		strings.TrimSpace(w.AuthToken) != "" &&
		strings.TrimSpace(w.FromNumber) != ""
}
