package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort                  = "8080"
	defaultDatabaseURL           = "file:homehub.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	defaultJWTAccessTTL          = "24h"
	defaultJWTSecret             = "change-me-jwt-secret"
	defaultAdminSecret           = "change-me-admin-secret"
	defaultInternalToken         = "change-me-internal-token"
	defaultLeaseSweepSchedule    = "@every 1h"
	defaultNotificationRetention = "2160h"
	defaultCleanupSchedule       = "@daily"
	defaultLeaseTermMonths       = "12"
	defaultCORSOrigins           = "http://localhost:3000,http://localhost:5173,http://127.0.0.1:5173"
)

type Config struct {
	AppEnv                      string
	Port                        string
	DatabaseURL                 string
	JWTSecret                   string
	JWTAccessTTL                time.Duration
	AdminSecret                 string
	InternalAPIToken            string
	CORSAllowedOrigins          []string
	LeaseSweepSchedule          string
	NotificationRetention       time.Duration
	NotificationCleanupSchedule string
	DefaultLeaseTermMonths      int
}

func Load() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.AdminSecret = strings.TrimSpace(getEnv("ADMIN_SECRET", defaultAdminSecret))
	cfg.InternalAPIToken = strings.TrimSpace(getEnv("INTERNAL_API_TOKEN", defaultInternalToken))
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins))
	cfg.LeaseSweepSchedule = strings.TrimSpace(getEnv("LEASE_SWEEP_SCHEDULE", defaultLeaseSweepSchedule))
	cfg.NotificationCleanupSchedule = strings.TrimSpace(getEnv("NOTIFICATION_CLEANUP_SCHEDULE", defaultCleanupSchedule))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	cfg.NotificationRetention, err = parseDurationEnv("NOTIFICATION_RETENTION", defaultNotificationRetention)
	if err != nil {
		return nil, err
	}

	cfg.DefaultLeaseTermMonths, err = parseIntEnv("DEFAULT_LEASE_TERM_MONTHS", defaultLeaseTermMonths)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.NotificationRetention <= 0 {
		return fmt.Errorf("NOTIFICATION_RETENTION must be > 0")
	}
	if cfg.DefaultLeaseTermMonths < 1 {
		return fmt.Errorf("DEFAULT_LEASE_TERM_MONTHS must be >= 1")
	}
	if cfg.LeaseSweepSchedule == "" {
		return fmt.Errorf("LEASE_SWEEP_SCHEDULE must not be empty")
	}
	if cfg.NotificationCleanupSchedule == "" {
		return fmt.Errorf("NOTIFICATION_CLEANUP_SCHEDULE must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.AdminSecret, defaultAdminSecret) {
			return fmt.Errorf("in prod/release ADMIN_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.InternalAPIToken, defaultInternalToken) {
			return fmt.Errorf("in prod/release INTERNAL_API_TOKEN must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
