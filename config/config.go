package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AI       AIConfig
	Media    MediaConfig
	Drafts   DraftsConfig
	App      AppConfig
}

type ServerConfig struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	AllowOrigins  []string      `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	MaxBodyBytes  int64         `env:"MAX_BODY_BYTES" envDefault:"15728640"`
	ShutdownGrace time.Duration `env:"SHUTDOWN_GRACE" envDefault:"10s"`
}

type DatabaseConfig struct {
	URL      string `env:"DATABASE_URL"`
	SSLMode  string `env:"DB_SSLMODE"`
	MaxConns int    `env:"DB_MAX_CONNS" envDefault:"10"`
	MaxIdle  int    `env:"DB_MAX_IDLE" envDefault:"5"`
}

type RedisConfig struct {
	Addr       string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password   string        `env:"REDIS_PASSWORD"`
	DB         int           `env:"REDIS_DB" envDefault:"0"`
	SessionTTL time.Duration `env:"WIZARD_SESSION_TTL" envDefault:"72h"`
}

type AIConfig struct {
	APIKey         string        `env:"OPENAI_API_KEY"`
	BaseURL        string        `env:"OPENAI_BASE_URL"`
	TextModel      string        `env:"OPENAI_TEXT_MODEL" envDefault:"gpt-4o-mini"`
	ImageModel     string        `env:"OPENAI_IMAGE_MODEL" envDefault:"dall-e-3"`
	EditModel      string        `env:"OPENAI_IMAGE_EDIT_MODEL" envDefault:"dall-e-2"`
	ImageSize      string        `env:"OPENAI_IMAGE_SIZE" envDefault:"1024x1024"`
	RequestsPerSec float64       `env:"AI_REQUESTS_PER_SEC" envDefault:"2"`
	Burst          int           `env:"AI_BURST" envDefault:"3"`
	Timeout        time.Duration `env:"AI_TIMEOUT" envDefault:"90s"`
}

type MediaConfig struct {
	Backend  string `env:"MEDIA_BACKEND" envDefault:"local"`
	LocalDir string `env:"MEDIA_LOCAL_DIR" envDefault:"data/media"`
	Bucket   string `env:"MEDIA_S3_BUCKET"`
	Region   string `env:"MEDIA_S3_REGION" envDefault:"us-east-1"`
	Prefix   string `env:"MEDIA_S3_PREFIX" envDefault:"onboarding/"`
}

type DraftsConfig struct {
	PurgeSchedule string        `env:"DRAFT_PURGE_SCHEDULE" envDefault:"0 30 3 * * *"`
	Retention     time.Duration `env:"DRAFT_RETENTION" envDefault:"720h"`
}

type AppConfig struct {
	Name        string `env:"APP_NAME" envDefault:"onboarding-backend"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	LogMode     string `env:"LOG_MODE" envDefault:"development"`
	Version     string `env:"APP_VERSION" envDefault:"1.0.0"`
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	switch c.Media.Backend {
	case "local":
	case "s3":
		if c.Media.Bucket == "" {
			return fmt.Errorf("MEDIA_S3_BUCKET is required when MEDIA_BACKEND=s3")
		}
	default:
		return fmt.Errorf("MEDIA_BACKEND must be local or s3, got %q", c.Media.Backend)
	}

	return nil
}

func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// hostedProviders are database hosts that only accept TLS connections.
var hostedProviders = []string{
	"neon.tech",
	"render.com",
	"supabase.co",
	"supabase.com",
	"herokuapp.com",
	"railway.app",
	"rlwy.net",
	"amazonaws.com",
}

// DSN returns the connection string with an sslmode chosen for the target.
// An sslmode already present in the URL or set through DB_SSLMODE wins.
func (d *DatabaseConfig) DSN(production bool) string {
	u, err := url.Parse(d.URL)
	if err != nil || u.Scheme == "" {
		return d.URL
	}

	q := u.Query()
	switch {
	case d.SSLMode != "":
		q.Set("sslmode", d.SSLMode)
	case q.Get("sslmode") != "":
		return d.URL
	case production || isHostedProvider(u.Hostname()):
		q.Set("sslmode", "require")
	default:
		q.Set("sslmode", "disable")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func isHostedProvider(host string) bool {
	host = strings.ToLower(host)
	for _, suffix := range hostedProviders {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}
