package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key read from the
// environment, e.g. CLUB_PORT.
const EnvPrefix = "CLUB"

// DefaultConfigFile is read when present. Keys inside it are written
// without the prefix (PORT=8080); the environment always wins.
const DefaultConfigFile = "club.env"

type Config struct {
	Env       string `mapstructure:"ENV"`        // dev, staging, prod (default: dev)
	LogLevel  string `mapstructure:"LOG_LEVEL"`  // debug, info, warn, error (default: info)
	LogFormat string `mapstructure:"LOG_FORMAT"` // json, text (default: json)
	Port      int    `mapstructure:"PORT"`       // HTTP server port (default: 8080)

	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"` // sqlite or postgres (default: sqlite)
	DatabaseURL    string `mapstructure:"DATABASE_URL"`    // file path for sqlite, DSN for postgres

	PepperFile     string `mapstructure:"PEPPER_FILE"`      // created on first start (default: ./pepper)
	SigningKeyFile string `mapstructure:"SIGNING_KEY_FILE"` // Ed25519 PEM, created on first start (default: ./signing.pem)
	Issuer         string `mapstructure:"ISSUER"`           // iss and aud claim of session tokens
	BootstrapToken string `mapstructure:"BOOTSTRAP_TOKEN"`  // empty disables bootstrap
	SiteURL        string `mapstructure:"SITE_URL"`         // base of invitation links

	SessionTTL           time.Duration `mapstructure:"SESSION_TTL"`
	InvitationTTL        time.Duration `mapstructure:"INVITATION_TTL"`
	ShutdownGracePeriod  time.Duration `mapstructure:"SHUTDOWN_GRACE_PERIOD"`
	HousekeepingInterval time.Duration `mapstructure:"HOUSEKEEPING_INTERVAL"`

	// Requests per minute for each rate limit profile. Zero keeps the
	// built-in value.
	RateLimitStrict   int `mapstructure:"RATE_LIMIT_STRICT"`
	RateLimitModerate int `mapstructure:"RATE_LIMIT_MODERATE"`
	RateLimitLenient  int `mapstructure:"RATE_LIMIT_LENIENT"`
	RateLimitPublic   int `mapstructure:"RATE_LIMIT_PUBLIC"`
}

// LoadConfig reads the optional config file named by CLUB_CONFIG_FILE
// (default club.env), then the environment.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("PORT", 8080)
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("PEPPER_FILE", "pepper")
	v.SetDefault("SIGNING_KEY_FILE", "signing.pem")
	v.SetDefault("ISSUER", "clubhouse")
	v.SetDefault("BOOTSTRAP_TOKEN", "")
	v.SetDefault("SITE_URL", "http://localhost:8080")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("INVITATION_TTL", "168h")
	v.SetDefault("SHUTDOWN_GRACE_PERIOD", "10s")
	v.SetDefault("HOUSEKEEPING_INTERVAL", "1h")
	v.SetDefault("RATE_LIMIT_STRICT", 0)
	v.SetDefault("RATE_LIMIT_MODERATE", 0)
	v.SetDefault("RATE_LIMIT_LENIENT", 0)
	v.SetDefault("RATE_LIMIT_PUBLIC", 0)

	file := os.Getenv(EnvPrefix + "_CONFIG_FILE")
	if file == "" {
		file = DefaultConfigFile
	}
	v.SetConfigFile(file)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: reading %s: %w", file, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	cfg.Issuer = strings.TrimSpace(cfg.Issuer)
	if cfg.DatabaseDriver == "sqlite" && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "club.db"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("config: CLUB_DATABASE_URL must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown CLUB_DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: CLUB_PORT %d out of range", c.Port)
	}
	if c.Issuer == "" {
		return errors.New("config: CLUB_ISSUER must not be empty")
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: CLUB_SESSION_TTL must be positive")
	}
	if c.InvitationTTL <= 0 {
		return errors.New("config: CLUB_INVITATION_TTL must be positive")
	}
	return nil
}

// RateLimits overlays the per-minute overrides on the built-in profiles.
func (c Config) RateLimits() httpx.RateLimits {
	def := httpx.DefaultRateLimits()
	return httpx.RateLimits{
		Strict:   perMinute(c.RateLimitStrict).OrDefault(def.Strict),
		Moderate: perMinute(c.RateLimitModerate).OrDefault(def.Moderate),
		Lenient:  perMinute(c.RateLimitLenient).OrDefault(def.Lenient),
		Public:   perMinute(c.RateLimitPublic).OrDefault(def.Public),
	}
}

func perMinute(n int) httpx.RateLimitConfig {
	return httpx.RateLimitConfig{RequestsPerWindow: n, Window: time.Minute, Burst: n}
}
