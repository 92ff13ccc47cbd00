// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers      = []string{"sqlite", "postgres"}
	validQueueDrivers = []string{"local", "redis"}
)

// ErrMissingSecret is returned when no JWT secret was configured. The caller
// gets a freshly generated one from GenSecret to paste into the config.
var ErrMissingSecret = errors.New("no jwt secret provided")

// GenSecret returns a random hex string usable as jwt.secret
func GenSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func bindEnvs() {
	v.BindEnv("app.log_level", "APP_LOG_LEVEL")

	v.BindEnv("host.port", "HOST_PORT")
	v.BindEnv("host.cors_origins", "HOST_CORS_ORIGINS")

	v.BindEnv("db.driver", "DB_DRIVER")
	v.BindEnv("db.dsn", "DB_DSN")

	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("jwt.issuer", "JWT_ISSUER")
	v.BindEnv("jwt.access_ttl", "JWT_ACCESS_TTL")
	v.BindEnv("jwt.refresh_ttl", "JWT_REFRESH_TTL")

	v.BindEnv("verification.ttl", "VERIFICATION_TTL")
	v.BindEnv("verification.link_base", "VERIFICATION_LINK_BASE")
	v.BindEnv("verification.resend_cooldown", "VERIFICATION_RESEND_COOLDOWN")
	v.BindEnv("verification.resend_daily_limit", "VERIFICATION_RESEND_DAILY_LIMIT")

	v.BindEnv("mail.host", "MAIL_HOST")
	v.BindEnv("mail.port", "MAIL_PORT")
	v.BindEnv("mail.username", "MAIL_USERNAME")
	v.BindEnv("mail.password", "MAIL_PASSWORD")
	v.BindEnv("mail.sender", "MAIL_SENDER")

	v.BindEnv("queue.driver", "QUEUE_DRIVER")
	v.BindEnv("queue.workers", "QUEUE_WORKERS")
	v.BindEnv("queue.size", "QUEUE_SIZE")

	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	v.BindEnv("security.rate_limit", "SECURITY_RATE_LIMIT")
	v.BindEnv("security.body_limit", "SECURITY_BODY_LIMIT")
	v.BindEnv("security.turnstile_enabled", "TURNSTILE_ENABLED")
	v.BindEnv("security.turnstile_secret", "TURNSTILE_SECRET")

	v.BindEnv("cleanup.interval", "CLEANUP_INTERVAL")
	v.BindEnv("cleanup.unverified_max_age", "CLEANUP_UNVERIFIED_MAX_AGE")
	v.BindEnv("cache.ttl", "CACHE_TTL")
}

func setDefaults() {
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "database.db?_foreign_keys=on")

	v.SetDefault("jwt.issuer", "automarket")
	v.SetDefault("jwt.access_ttl", 5*time.Minute)
	v.SetDefault("jwt.refresh_ttl", 24*time.Hour)

	v.SetDefault("verification.ttl", 48*time.Hour)
	v.SetDefault("verification.link_base", "http://localhost:8080")
	v.SetDefault("verification.resend_cooldown", time.Minute)
	v.SetDefault("verification.resend_daily_limit", 5)

	v.SetDefault("mail.port", 587)

	v.SetDefault("queue.driver", "local")
	v.SetDefault("queue.workers", 2)
	v.SetDefault("queue.size", 100)

	v.SetDefault("redis.db", 0)

	v.SetDefault("security.rate_limit", 10)
	v.SetDefault("security.body_limit", 1<<20)
	v.SetDefault("security.turnstile_enabled", false)

	v.SetDefault("cleanup.interval", 24*time.Hour)
	v.SetDefault("cleanup.unverified_max_age", 30*24*time.Hour)
	v.SetDefault("cache.ttl", time.Minute)

	v.SetDefault("pagination.page_size", 10)
	v.SetDefault("pagination.max_page_size", 100)
}

// Setup prepares everything config-related so that the app can
// start working. path points at the TOML config file. Function will
// return an error if something is critically wrong and the application
// can't run because of that.
func Setup(path string) error {
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvs()
	setDefaults()

	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s file is missing", path)
		}

		return fmt.Errorf("failed to read config file, %w", err)
	}

	return Validate()
}

// Validate checks the values currently loaded into viper
func Validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("db.dsn can't be empty")
	}

	if v.GetString("jwt.secret") == "" {
		return ErrMissingSecret
	}

	if v.GetDuration("jwt.access_ttl") <= 0 {
		return errors.New("jwt.access_ttl must be bigger than 0")
	}

	if v.GetDuration("jwt.refresh_ttl") < v.GetDuration("jwt.access_ttl") {
		return errors.New("jwt.refresh_ttl can't be shorter than jwt.access_ttl")
	}

	if v.GetDuration("verification.ttl") <= 0 {
		return errors.New("verification.ttl must be bigger than 0")
	}

	if v.GetDuration("verification.resend_cooldown") < 0 {
		return errors.New("verification.resend_cooldown can't be negative")
	}

	if v.GetInt("verification.resend_daily_limit") <= 0 {
		return errors.New("verification.resend_daily_limit must be bigger than 0")
	}

	if !slices.Contains(validQueueDrivers, v.GetString("queue.driver")) {
		return errors.New("invalid queue driver provided")
	}

	if v.GetInt("queue.workers") <= 0 {
		return errors.New("queue.workers must be bigger than 0")
	}

	if v.GetString("queue.driver") == "redis" && v.GetString("redis.addr") == "" {
		return errors.New("redis.addr is required by the redis queue driver")
	}

	if v.GetInt("security.rate_limit") <= 0 {
		return errors.New("security.rate_limit must be bigger than 0")
	}

	if v.GetInt64("security.body_limit") <= 0 {
		return errors.New("security.body_limit must be bigger than 0")
	}

	if v.GetBool("security.turnstile_enabled") && v.GetString("security.turnstile_secret") == "" {
		return errors.New("security.turnstile_secret is required when turnstile is enabled")
	}

	if v.GetDuration("cleanup.interval") <= 0 {
		return errors.New("cleanup.interval must be bigger than 0")
	}

	if v.GetDuration("cleanup.unverified_max_age") < v.GetDuration("verification.ttl") {
		return errors.New("cleanup.unverified_max_age can't be shorter than verification.ttl")
	}

	if v.GetInt("pagination.page_size") <= 0 || v.GetInt("pagination.page_size") > v.GetInt("pagination.max_page_size") {
		return errors.New("pagination.page_size must be between 1 and pagination.max_page_size")
	}

	if v.GetString("mail.host") == "" {
		zap.L().Warn("No mail.host specified, verification emails will only be logged")
	}

	return nil
}
