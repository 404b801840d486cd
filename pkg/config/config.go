package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable this service reads.
	EnvPrefix = "makersrow"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "MAKERSROW_DB_DSN"
	EnvDBHost = "MAKERSROW_DB_HOST"
	EnvDBUser = "MAKERSROW_DB_USER"
	EnvDBName = "MAKERSROW_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Checkout     CheckoutConfig
	GuestCart    GuestCartConfig
	OpenAI       OpenAIConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MAKERSROW_APP_ENV" required:"true"`
	Port         string `envconfig:"MAKERSROW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MAKERSROW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MAKERSROW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MAKERSROW_DB_DSN"`
	Driver string `envconfig:"MAKERSROW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MAKERSROW_DB_HOST"`
	LegacyPort     int    `envconfig:"MAKERSROW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MAKERSROW_DB_USER"`
	LegacyPassword string `envconfig:"MAKERSROW_DB_PASSWORD"`
	LegacyName     string `envconfig:"MAKERSROW_DB_NAME"`
	LegacySSLMode  string `envconfig:"MAKERSROW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MAKERSROW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MAKERSROW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MAKERSROW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MAKERSROW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MAKERSROW_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MAKERSROW_REDIS_ADDR"`
	Password     string        `envconfig:"MAKERSROW_REDIS_PASSWORD"`
	DB           int           `envconfig:"MAKERSROW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MAKERSROW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MAKERSROW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MAKERSROW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MAKERSROW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MAKERSROW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MAKERSROW_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MAKERSROW_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MAKERSROW_JWT_EXPIRATION_MINUTES" default:"60"`
}

// CheckoutConfig carries the checkout policy constants.
type CheckoutConfig struct {
	// FlatShippingFeeCents is charged once per checkout and divided across
	// manufacturer groups.
	FlatShippingFeeCents int `envconfig:"MAKERSROW_CHECKOUT_FLAT_SHIPPING_CENTS" default:"1000"`
}

// GuestCartConfig controls the Redis-backed guest cart store.
type GuestCartConfig struct {
	TTL time.Duration `envconfig:"MAKERSROW_GUEST_CART_TTL" default:"720h"`
}

type OpenAIConfig struct {
	APIKey  string        `envconfig:"MAKERSROW_OPENAI_API_KEY"`
	Model   string        `envconfig:"MAKERSROW_OPENAI_MODEL" default:"gpt-4o-mini"`
	BaseURL string        `envconfig:"MAKERSROW_OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	Timeout time.Duration `envconfig:"MAKERSROW_OPENAI_TIMEOUT" default:"10s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MAKERSROW_CORS_ALLOWED_ORIGINS" default:"*"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MAKERSROW_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
