package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type DB struct {
	DbHOST     string `env:"DB_HOST" envDefault:"localhost"`
	DbPORT     string `env:"DB_PORT" envDefault:"5432"`
	DbUSER     string `env:"DB_USER" envDefault:"postgres"`
	DbPASSWORD string `env:"DB_PASSWORD" envDefault:"password"`
	DbNAME     string `env:"DB_NAME" envDefault:"shiftsite"`
	DbSSLMODE  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// URL returns the connection string in the form golang-migrate expects.
func (d DB) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.DbUSER, d.DbPASSWORD),
		Host:     d.DbHOST + ":" + d.DbPORT,
		Path:     "/" + d.DbNAME,
		RawQuery: "sslmode=" + d.DbSSLMODE,
	}
	return u.String()
}

// DSN returns the key/value connection string used by lib/pq.
func (d DB) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.DbHOST,
		d.DbPORT,
		d.DbUSER,
		d.DbPASSWORD,
		d.DbNAME,
		d.DbSSLMODE,
	)
}

type MinIO struct {
	Endpoint   string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	AccessKey  string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey  string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	BucketName string `env:"MINIO_BUCKET_NAME" envDefault:"blog-images"`
	UseSSL     bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	Region     string `env:"MINIO_REGION" envDefault:"us-east-1"`
	PublicURL  string `env:"MINIO_PUBLIC_URL"`
}

type Auth struct {
	JWTSecretKey         string        `env:"JWT_SECRET_KEY"`
	AccessTokenDuration  time.Duration `env:"ACCESS_TOKEN_DURATION" envDefault:"1h"`
	RefreshTokenDuration time.Duration `env:"REFRESH_TOKEN_DURATION" envDefault:"168h"`
	RecoveryDuration     time.Duration `env:"RECOVERY_TOKEN_DURATION" envDefault:"1h"`
	MinPasswordLength    int           `env:"MIN_PASSWORD_LENGTH" envDefault:"6"`
	SecureCookies        bool          `env:"SECURE_COOKIES" envDefault:"false"`
}

type RateLimit struct {
	AuthPerMinute float64 `env:"RATE_LIMIT_AUTH_PER_MINUTE" envDefault:"20"`
	AuthBurst     int     `env:"RATE_LIMIT_AUTH_BURST" envDefault:"10"`
}

type Config struct {
	ServerPort        int    `env:"SERVER_PORT" envDefault:"8080"`
	SiteURL           string `env:"SITE_URL" envDefault:"http://localhost:8080"`
	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	MaxUploadSize     int64  `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"`
	DB                DB
	MinIO             MinIO
	Auth              Auth
	RateLimit         RateLimit
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env файл не найден, используем переменные окружения")
	}

	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY не установлен")
	}
	if c.Auth.MinPasswordLength < 1 {
		return fmt.Errorf("MIN_PASSWORD_LENGTH must be positive, got %d", c.Auth.MinPasswordLength)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive, got %d", c.MaxUploadSize)
	}
	return nil
}
