package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/learnova/learnova/pkg/jwtx"
	"github.com/learnova/learnova/pkg/slogx"
)

type Config struct {
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	DatabaseDriver string // sqlite or postgres (default: sqlite)
	DatabaseFile   string // SQLite file (default: ./learnova.db)
	DatabaseURL    string // Postgres DSN, required for postgres

	APIBaseURL      string // Base of links served by this API (verify email)
	FrontendBaseURL string // Base of links served by the web app (reset, invite)

	JWTSecret    string        // Required: HS256 secret, at least 32 bytes
	JWTIssuer    string        // Issuer claim (default: learnova)
	JWTAccessTTL time.Duration // Access token lifetime (default: 60m)

	InviteTokenSecret     string // Keys invite token digests; invite operations fail without it
	InviteTokenAtCreation bool   // Attach tokens at upload instead of at send
	BootstrapToken        string // Optional: enables POST /v1/bootstrap

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	EmailLogoURL      string
	EmailSupportEmail string
	EmailBrandYear    string

	RedisURL string // Optional: shares rate limits across replicas

	RosterS3Endpoint  string // Optional: archives uploaded rosters
	RosterS3AccessKey string
	RosterS3SecretKey string
	RosterBucket      string
	RosterS3UseSSL    bool
}

// LoadConfig reads the configuration. A .env file and the YAML file named by
// CONFIG_FILE supply defaults; real environment variables always win.
func LoadConfig() (Config, error) {
	_ = godotenv.Load() // optional

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadConfigFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),

		DatabaseDriver: strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", "sqlite")),
		DatabaseFile:   getEnvOrDefault("DATABASE_FILE", "learnova.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		APIBaseURL:      getEnvOrDefault("API_BASE_URL", "http://localhost:8080"),
		FrontendBaseURL: getEnvOrDefault("FRONTEND_BASE_URL", "http://localhost:3000"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTIssuer:    getEnvOrDefault("JWT_ISSUER", "learnova"),
		JWTAccessTTL: getEnvDurationOrDefault("JWT_ACCESS_TTL", 60*time.Minute),

		InviteTokenSecret:     os.Getenv("INVITE_TOKEN_SECRET"),
		InviteTokenAtCreation: getEnvBoolOrDefault("INVITE_TOKEN_AT_CREATION", false),
		BootstrapToken:        os.Getenv("BOOTSTRAP_TOKEN"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),

		EmailLogoURL:      os.Getenv("EMAIL_LOGO_URL"),
		EmailSupportEmail: getEnvOrDefault("EMAIL_SUPPORT_EMAIL", "support@learnova.local"),
		EmailBrandYear:    os.Getenv("EMAIL_BRAND_YEAR"),

		RedisURL: os.Getenv("REDIS_URL"),

		RosterS3Endpoint:  os.Getenv("ROSTER_S3_ENDPOINT"),
		RosterS3AccessKey: os.Getenv("ROSTER_S3_ACCESS_KEY"),
		RosterS3SecretKey: os.Getenv("ROSTER_S3_SECRET_KEY"),
		RosterBucket:      getEnvOrDefault("ROSTER_BUCKET", "learnova-rosters"),
		RosterS3UseSSL:    getEnvBoolOrDefault("ROSTER_S3_USE_SSL", false),
	}

	return cfg, nil
}

// loadConfigFile exports every key of a flat YAML document that is not
// already set in the environment.
func loadConfigFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	for key, value := range values {
		key = strings.ToUpper(key)
		if _, set := os.LookupEnv(key); set || value == nil {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(value)); err != nil {
			return fmt.Errorf("apply config key %s: %w", key, err)
		}
	}
	return nil
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	var errs []error

	if len(c.JWTSecret) < jwtx.MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", jwtx.MinSecretLength))
	}
	switch c.DatabaseDriver {
	case "sqlite":
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("DATABASE_FILE is required for sqlite"))
		}
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER %q is not supported", c.DatabaseDriver))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}
	if c.JWTAccessTTL <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_TTL must be positive"))
	}

	return errors.Join(errs...)
}

// DSN is the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DatabaseDriver == "postgres" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", c.DatabaseFile)
}

// LogValue renders the configuration with secrets masked.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("env", c.Env),
		slog.Int("port", c.Port),
		slog.String("database_driver", c.DatabaseDriver),
		slog.String("api_base_url", c.APIBaseURL),
		slog.String("frontend_base_url", c.FrontendBaseURL),
		slog.String("jwt_issuer", c.JWTIssuer),
		slog.Duration("jwt_access_ttl", c.JWTAccessTTL),
		slog.String("jwt_secret", slogx.Mask(c.JWTSecret)),
		slog.String("invite_token_secret", slogx.Mask(c.InviteTokenSecret)),
		slog.Bool("invite_token_at_creation", c.InviteTokenAtCreation),
		slog.Bool("bootstrap_enabled", c.BootstrapToken != ""),
		slog.String("smtp_host", c.SMTPHost),
		slog.String("smtp_pass", slogx.Mask(c.SMTPPass)),
		slog.Bool("redis", c.RedisURL != ""),
		slog.String("roster_s3_endpoint", c.RosterS3Endpoint),
		slog.String("roster_s3_secret_key", slogx.Mask(c.RosterS3SecretKey)),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
