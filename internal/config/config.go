package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration. It is built once at startup and
// passed explicitly to every component that needs it.
type Config struct {
	Server        ServerConfig
	Admin         AdminConfig
	JWT           JWTConfig
	MongoDB       MongoDBConfig
	Redis         RedisConfig
	RateLimit     RateLimitConfig
	LoginThrottle LoginThrottleConfig
	MinIO         MinIOConfig
	SendGrid      SendGridConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
	FrontendDir string
	// AllowedOrigins limits CORS grants; empty echoes any origin.
	AllowedOrigins []string
	// TrustedProxies lists the proxy IPs/CIDRs whose X-Forwarded-For is
	// believed. Empty trusts none, so the client IP is the TCP peer.
	TrustedProxies []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// AdminConfig is the single shared back-office credential.
type AdminConfig struct {
	Username string
	Password string
}

type JWTConfig struct {
	Secret       string
	TokenTTL     time.Duration
	CookieName   string
	CookieMaxAge time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

// LoginThrottleConfig bounds failed login attempts per client. MaxFailures of
// zero disables throttling.
type LoginThrottleConfig struct {
	MaxFailures int
	Window      time.Duration
}

type MinIOConfig struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	UseSSL         bool
	Bucket         string
	PublicBaseURL  string
	MaxUploadBytes int64
}

type SendGridConfig struct {
	APIKey      string
	FromEmail   string
	FromName    string
	NotifyEmail string
}

// IsProduction reports whether cookies must be issued with the strict policy.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Server.Environment), "production")
}

// ValidateAuth reports every missing admin secret in one error.
func (c *Config) ValidateAuth() error {
	var missing []string
	if c.Admin.Username == "" {
		missing = append(missing, "ADMIN_USERNAME")
	}
	if c.Admin.Password == "" {
		missing = append(missing, "ADMIN_PASSWORD")
	}
	if c.JWT.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingAuthConfig, strings.Join(missing, ", "))
	}
	return nil
}

// ErrMissingAuthConfig is returned by ValidateAuth.
var ErrMissingAuthConfig = errors.New("missing admin auth configuration")

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5001")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("FRONTEND_DIR", "web/dist")
	v.SetDefault("JWT_TOKEN_TTL_MINUTES", 120)
	v.SetDefault("SESSION_COOKIE_NAME", "admin-token")
	v.SetDefault("SESSION_COOKIE_MAX_AGE_SECONDS", 86400)
	v.SetDefault("MONGODB_DATABASE", "realty")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("LOGIN_MAX_FAILURES", 5)
	v.SetDefault("LOGIN_FAILURE_WINDOW_MINUTES", 15)
	v.SetDefault("MINIO_BUCKET", "realty-uploads")
	v.SetDefault("MINIO_MAX_UPLOAD_BYTES", 8<<20)
	v.SetDefault("SENDGRID_FROM_NAME", "Farrukhnagar Realty")

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Host:           v.GetString("SERVER_HOST"),
			Environment:    v.GetString("SERVER_ENVIRONMENT"),
			FrontendDir:    v.GetString("FRONTEND_DIR"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
		},
		Admin: AdminConfig{
			Username: os.Getenv("ADMIN_USERNAME"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:       os.Getenv("JWT_SECRET"),
			TokenTTL:     time.Duration(v.GetInt("JWT_TOKEN_TTL_MINUTES")) * time.Minute,
			CookieName:   v.GetString("SESSION_COOKIE_NAME"),
			CookieMaxAge: time.Duration(v.GetInt("SESSION_COOKIE_MAX_AGE_SECONDS")) * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		LoginThrottle: LoginThrottleConfig{
			MaxFailures: v.GetInt("LOGIN_MAX_FAILURES"),
			Window:      time.Duration(v.GetInt("LOGIN_FAILURE_WINDOW_MINUTES")) * time.Minute,
		},
		MinIO: MinIOConfig{
			Endpoint:       v.GetString("MINIO_ENDPOINT"),
			AccessKey:      v.GetString("MINIO_ACCESS_KEY"),
			SecretKey:      os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:         v.GetBool("MINIO_USE_SSL"),
			Bucket:         v.GetString("MINIO_BUCKET"),
			PublicBaseURL:  v.GetString("MINIO_PUBLIC_BASE_URL"),
			MaxUploadBytes: v.GetInt64("MINIO_MAX_UPLOAD_BYTES"),
		},
		SendGrid: SendGridConfig{
			APIKey:      os.Getenv("SENDGRID_API_KEY"),
			FromEmail:   v.GetString("SENDGRID_FROM_EMAIL"),
			FromName:    v.GetString("SENDGRID_FROM_NAME"),
			NotifyEmail: v.GetString("LEAD_NOTIFY_EMAIL"),
		},
	}

	if cfg.JWT.TokenTTL <= 0 {
		return nil, fmt.Errorf("JWT_TOKEN_TTL_MINUTES must be positive")
	}
	if cfg.JWT.CookieMaxAge <= 0 {
		return nil, fmt.Errorf("SESSION_COOKIE_MAX_AGE_SECONDS must be positive")
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
