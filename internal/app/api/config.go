package api

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port            string `validate:"required,numeric"`
	PostgresDSN     string
	LocalDir        string
	Environment     string `validate:"required,oneof=local development staging production test"`
	LogLevel        string `validate:"required,oneof=debug info warn error"`
	OTLPEndpoint    string `validate:"omitempty,hostname_port"`
	OTLPInsecure    bool
	ShutdownTimeout time.Duration `validate:"gt=0,lte=5m"`
	// MaxDevices caps live devices; 0 disables the cap.
	MaxDevices int `validate:"gte=0"`
	// DeviceIdleTTL evicts devices not seen for this long; 0 keeps them.
	DeviceIdleTTL time.Duration `validate:"gte=0"`
}

// LoadConfig reads environment variables, applies defaults, and validates the result.
func LoadConfig() (Config, error) {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) (Config, error) {
	env := func(key, fallback string) string {
		if val := strings.TrimSpace(getenv(key)); val != "" {
			return val
		}
		return fallback
	}
	cfg := Config{
		Port:         env("PORT", "8080"),
		PostgresDSN:  env("POSTGRES_DSN", ""),
		LocalDir:     env("FAVORITES_LOCAL_DIR", ""),
		Environment:  strings.ToLower(env("ENVIRONMENT", "local")),
		LogLevel:     strings.ToLower(env("LOG_LEVEL", "info")),
		OTLPEndpoint: env("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure: env("OTEL_EXPORTER_OTLP_INSECURE", "1") != "0",
	}
	seconds, err := strconv.Atoi(env("SHUTDOWN_TIMEOUT_SECONDS", "5"))
	if err != nil {
		return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be an integer: %w", err)
	}
	cfg.ShutdownTimeout = time.Duration(seconds) * time.Second
	if cfg.MaxDevices, err = strconv.Atoi(env("DEVICE_MAX", "10000")); err != nil {
		return Config{}, fmt.Errorf("DEVICE_MAX must be an integer: %w", err)
	}
	minutes, err := strconv.Atoi(env("DEVICE_IDLE_TTL_MINUTES", "1440"))
	if err != nil {
		return Config{}, fmt.Errorf("DEVICE_IDLE_TTL_MINUTES must be an integer: %w", err)
	}
	cfg.DeviceIdleTTL = time.Duration(minutes) * time.Minute
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the struct tags and reports every failing field.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			messages := make([]string, 0, len(fieldErrors))
			for _, fe := range fieldErrors {
				messages = append(messages, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// SweepInterval is how often idle devices are evicted. Zero disables sweeping.
func (c Config) SweepInterval() time.Duration {
	if c.DeviceIdleTTL <= 0 {
		return 0
	}
	return min(c.DeviceIdleTTL/2, 10*time.Minute)
}

// SlogLevel maps LogLevel onto slog.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
