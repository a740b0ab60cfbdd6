package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/jobs"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

type Config struct {
	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 8080)

	DatabaseFile string // Path to SQLite database file (default: ./tenancy.db)
	PepperFile   string // Path to the password pepper file (default: ./pepper)
	Issuer       string // iss claim for every token (default: tenancy)

	AccessSecret  string        // Required outside dev: HS256 key for access tokens
	RefreshSecret string        // Required outside dev: HS256 key for refresh tokens, distinct from AccessSecret
	AccessTTL     time.Duration // default: 15m
	RefreshTTL    time.Duration // default: 14 days

	InviteTTL          time.Duration // default: 7 days
	ExposeInviteTokens bool          // Return invite tokens over HTTP (default: true in dev only)
	StoreOpTimeout     time.Duration // Per-attempt store timeout (default: 5s)
	RequestTimeout     time.Duration // Per-request timeout (default: 30s)

	RedisAddr     string // Optional in dev: without it notifications run in-process
	RedisPassword string
	RedisDB       int

	NotifyMaxRetry       int           // default: 5
	NotifyRetention      time.Duration // Dedupe window for notifications (default: 24h)
	NotifyFailureRate    float64       // Simulated mail provider failure rate, 0..1 (default: 0)
	WorkerConcurrency    int           // default: 10
	WorkerRetryBase      time.Duration // First retry delay, doubled per retry (default: 2s)
	OTLPEndpoint         string        // Optional: OTLP gRPC collector
	OTLPInsecure         bool
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// LoadConfig reads the environment. A .env file in the working directory is
// loaded first when present; real environment variables win.
func LoadConfig() Config {
	_ = godotenv.Load()

	env := getEnvOrDefault("ENV", EnvDev)
	return Config{
		Env:       env,
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		Port:      getEnvIntOrDefault("PORT", 8080),

		DatabaseFile: getEnvOrDefault("TENANCY_DATABASE_FILE", "tenancy.db"),
		PepperFile:   getEnvOrDefault("TENANCY_PEPPER_FILE", "pepper"),
		Issuer:       getEnvOrDefault("TENANCY_ISSUER", "tenancy"),

		AccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		RefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessTTL:     getEnvDurationOrDefault("JWT_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:    getEnvDurationOrDefault("JWT_REFRESH_TTL", 14*24*time.Hour),

		InviteTTL:          getEnvDurationOrDefault("INVITE_TTL", service.DefaultInviteTTL),
		ExposeInviteTokens: getEnvBoolOrDefault("EXPOSE_INVITE_TOKENS", env == EnvDev),
		StoreOpTimeout:     getEnvDurationOrDefault("STORE_OP_TIMEOUT", 5*time.Second),
		RequestTimeout:     getEnvDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),

		NotifyMaxRetry:    getEnvIntOrDefault("NOTIFY_MAX_RETRY", jobs.DefaultMaxRetry),
		NotifyRetention:   getEnvDurationOrDefault("NOTIFY_RETENTION", jobs.DefaultRetention),
		NotifyFailureRate: getEnvFloatOrDefault("NOTIFY_FAILURE_RATE", 0),
		WorkerConcurrency: getEnvIntOrDefault("WORKER_CONCURRENCY", 10),
		WorkerRetryBase:   getEnvDurationOrDefault("WORKER_RETRY_BASE", 2*time.Second),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure: getEnvBoolOrDefault("OTEL_EXPORTER_OTLP_INSECURE", false),

		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// Validate checks the configuration. In dev, missing JWT secrets are
// generated for the lifetime of the process; every restart then logs
// everyone out.
func (c *Config) Validate(logger *slog.Logger) error {
	if !slices.Contains([]string{EnvDev, EnvStaging, EnvProd}, c.Env) {
		return fmt.Errorf("ENV must be one of dev, staging, prod: got %q", c.Env)
	}

	if c.Env == EnvDev {
		for name, secret := range map[string]*string{
			"JWT_ACCESS_SECRET":  &c.AccessSecret,
			"JWT_REFRESH_SECRET": &c.RefreshSecret,
		} {
			if *secret != "" {
				continue
			}
			generated, err := cryptox.GenerateToken(cryptox.TokenSize256)
			if err != nil {
				return fmt.Errorf("generate %s: %w", name, err)
			}
			*secret = generated
			logger.Warn("generated ephemeral jwt secret, set it to keep sessions across restarts", "var", name)
		}
	}

	var errs []error
	if len(c.AccessSecret) < jwtx.MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_ACCESS_SECRET must be at least %d bytes", jwtx.MinSecretLength))
	}
	if len(c.RefreshSecret) < jwtx.MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_REFRESH_SECRET must be at least %d bytes", jwtx.MinSecretLength))
	}
	if c.AccessSecret != "" && c.AccessSecret == c.RefreshSecret {
		errs = append(errs, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ"))
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 || c.InviteTTL <= 0 {
		errs = append(errs, errors.New("token and invite TTLs must be positive"))
	}
	if c.Env == EnvProd && c.RedisAddr == "" {
		errs = append(errs, errors.New("REDIS_ADDR is required in prod"))
	}
	if c.NotifyFailureRate < 0 || c.NotifyFailureRate > 1 {
		errs = append(errs, errors.New("NOTIFY_FAILURE_RATE must be between 0 and 1"))
	}
	return errors.Join(errs...)
}

// Redis returns the queue connection settings.
func (c *Config) Redis() jobs.RedisConfig {
	return jobs.RedisConfig{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB}
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
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

	// Bare integers are seconds, matching JWT_ACCESS_TTL=900 style settings.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
