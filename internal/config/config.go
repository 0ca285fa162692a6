package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName          = "BankPortal"
	defaultAppEnv           = "development"
	defaultPort             = "3000"
	defaultLogLevel         = "info"
	defaultAPIBaseURL       = "http://localhost:8080"
	defaultAPITimeout       = 30 * time.Second
	defaultTokenStore       = StoreFile
	defaultTokenStorePath   = ".bank_portal/credential.json"
	defaultShutdownDelay    = 10 * time.Second
	defaultIdempotencyTTL   = 10 * time.Minute
	defaultLoginAttempts    = 5
	apiTimeoutSecondsEnvVar = "API_TIMEOUT_SECONDS"
	apiTimeoutDurEnvVar     = "API_TIMEOUT"
	idemTTLSecondsEnvVar    = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar        = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar   = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar  = "SHUTDOWN_TIMEOUT"
	tokenKeyLength          = 32
)

// Token store backends selectable through TOKEN_STORE.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	APIBaseURL     string
	APITimeout     time.Duration
	TokenStore     string
	TokenStorePath string
	TokenStoreKey  []byte
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
	LoginAttempts  int
}

// Load reads configuration values from the environment (and an optional .env
// file) and populates a Config instance.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		APIBaseURL:     strings.TrimSuffix(getEnv("API_BASE_URL", defaultAPIBaseURL), "/"),
		TokenStore:     strings.ToLower(getEnv("TOKEN_STORE", defaultTokenStore)),
		TokenStorePath: getEnv("TOKEN_STORE_PATH", defaultTokenStorePath),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		LoginAttempts:  defaultLoginAttempts,
	}

	var err error
	if cfg.APITimeout, err = durationFromEnv(apiTimeoutSecondsEnvVar, apiTimeoutDurEnvVar, defaultAPITimeout); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownPeriod, err = durationFromEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, defaultShutdownDelay); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationFromEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, defaultIdempotencyTTL); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("LOGIN_ATTEMPTS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOGIN_ATTEMPTS_PER_MINUTE: %w", err)
		}
		cfg.LoginAttempts = n
	}

	if v := os.Getenv("TOKEN_STORE_KEY"); v != "" {
		key, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TOKEN_STORE_KEY: %w", err)
		}
		if len(key) != tokenKeyLength {
			return Config{}, fmt.Errorf("TOKEN_STORE_KEY must decode to %d bytes, got %d", tokenKeyLength, len(key))
		}
		cfg.TokenStoreKey = key
	}

	switch cfg.TokenStore {
	case StoreMemory, StoreFile:
	case StoreRedis:
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when TOKEN_STORE=%s", StoreRedis)
		}
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when TOKEN_STORE=%s", StorePostgres)
		}
	default:
		return Config{}, fmt.Errorf("unsupported TOKEN_STORE %q", cfg.TokenStore)
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the portal runs in a local development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

func durationFromEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
