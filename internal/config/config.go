package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultPort            = "8080"
	defaultDatabaseURL     = "tourism.db"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "168h"
	defaultWaafiBaseURL    = "https://api.waafipay.net/asm"
	defaultWaafiTimeout    = "30s"
	defaultCallbackRate    = "60"
	defaultLoginRate       = "20"
	defaultIdempotencyTTL  = "24h"
	defaultLogLevel        = "info"
	defaultShutdownTimeout = "10s"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	LogLevel    string

	JWTSecret string
	JWTTTL    time.Duration

	Waafi WaafiConfig
	// TestChargeCap limits the amount sent to the gateway. nil charges the full price.
	TestChargeCap *decimal.Decimal

	RedisURL       string
	IdempotencyTTL time.Duration

	TelegramBotToken    string
	TelegramAdminChatID int64

	CORSAllowedOrigins []string

	CallbackRatePerMinute int
	LoginRatePerMinute    int

	ShutdownTimeout time.Duration
}

type WaafiConfig struct {
	MerchantUID string
	APIUserID   string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
}

func (w WaafiConfig) Configured() bool {
	return w.MerchantUID != "" && w.APIUserID != "" && w.APIKey != ""
}

func Load() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("NODE_ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	cfg.Waafi = WaafiConfig{
		MerchantUID: strings.TrimSpace(os.Getenv("WAAFI_MERCHANT_UID")),
		APIUserID:   strings.TrimSpace(os.Getenv("WAAFI_API_USER_ID")),
		APIKey:      strings.TrimSpace(os.Getenv("WAAFI_API_KEY")),
		BaseURL:     strings.TrimSpace(getEnv("WAAFI_BASE_URL", defaultWaafiBaseURL)),
	}
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.TelegramBotToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.Waafi.Timeout, err = parseDurationEnv("WAAFI_TIMEOUT", defaultWaafiTimeout); err != nil {
		return nil, err
	}
	if cfg.IdempotencyTTL, err = parseDurationEnv("IDEMPOTENCY_TTL", defaultIdempotencyTTL); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return nil, err
	}
	if cfg.CallbackRatePerMinute, err = parseIntEnv("CALLBACK_RATE_PER_MINUTE", defaultCallbackRate); err != nil {
		return nil, err
	}
	if cfg.LoginRatePerMinute, err = parseIntEnv("LOGIN_RATE_PER_MINUTE", defaultLoginRate); err != nil {
		return nil, err
	}

	if raw := strings.TrimSpace(os.Getenv("PAYMENT_TEST_CHARGE_CAP")); raw != "" {
		capAmount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PAYMENT_TEST_CHARGE_CAP value %q: %w", raw, err)
		}
		cfg.TestChargeCap = &capAmount
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_ADMIN_CHAT_ID")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_CHAT_ID value %q: %w", raw, err)
		}
		cfg.TelegramAdminChatID = id
	}

	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProdLike() bool { return isProdLike(c.AppEnv) }

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.Waafi.Timeout <= 0 {
		return fmt.Errorf("WAAFI_TIMEOUT must be > 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	if cfg.CallbackRatePerMinute <= 0 {
		return fmt.Errorf("CALLBACK_RATE_PER_MINUTE must be > 0")
	}
	if cfg.LoginRatePerMinute <= 0 {
		return fmt.Errorf("LOGIN_RATE_PER_MINUTE must be > 0")
	}
	if cfg.TestChargeCap != nil && cfg.TestChargeCap.IsNegative() {
		return fmt.Errorf("PAYMENT_TEST_CHARGE_CAP must be >= 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if !cfg.Waafi.Configured() {
			return fmt.Errorf("in prod/release WAAFI_MERCHANT_UID, WAAFI_API_USER_ID and WAAFI_API_KEY must be set")
		}
		if cfg.TestChargeCap != nil {
			return fmt.Errorf("in prod/release PAYMENT_TEST_CHARGE_CAP must not be set")
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

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
