// Package config loads and validates service configuration from environment
// variables. Everything security-sensitive (signing secrets, the police
// credential) is injected here once at startup; nothing reads ambient
// globals later.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the gatepass service.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// RedisAddr is the Redis host:port. Defaults to "localhost:6379".
	RedisAddr string

	// KafkaBrokers is the broker list. Defaults to ["localhost:9092"].
	KafkaBrokers []string

	// GatepassSecret signs gatepass tokens embedded in QR codes. Required.
	GatepassSecret string

	// AuthSecret signs operator session tokens. Required, and deliberately
	// distinct from GatepassSecret so the two trust domains never share keys.
	AuthSecret string

	// PoliceAccessToken is the out-of-band credential checked on /verify.
	// Required. It never appears inside a gatepass token.
	PoliceAccessToken string

	// TokenTTL is the gatepass validity window. Defaults to 48h.
	// Set TOKEN_TTL_HOURS to override.
	TokenTTL time.Duration

	// StrictDocDates rejects compliance documents whose expiry date cannot
	// be parsed. Defaults to false, preserving the lenient behavior of the
	// system this replaces. Set STRICT_DOC_DATES=true to opt in.
	StrictDocDates bool

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: splitCSV(getEnv("KAFKA_BROKERS", "localhost:9092")),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	hours, err := strconv.Atoi(getEnv("TOKEN_TTL_HOURS", "48"))
	if err != nil || hours <= 0 {
		return Config{}, fmt.Errorf("TOKEN_TTL_HOURS must be a positive integer, got %q", os.Getenv("TOKEN_TTL_HOURS"))
	}
	cfg.TokenTTL = time.Duration(hours) * time.Hour

	cfg.StrictDocDates, err = strconv.ParseBool(getEnv("STRICT_DOC_DATES", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("STRICT_DOC_DATES must be a boolean, got %q", os.Getenv("STRICT_DOC_DATES"))
	}

	var missing []string
	for _, v := range []struct {
		key  string
		dest *string
	}{
		{"DATABASE_URL", &cfg.DatabaseURL},
		{"GATEPASS_SECRET", &cfg.GatepassSecret},
		{"AUTH_SECRET", &cfg.AuthSecret},
		{"POLICE_ACCESS_TOKEN", &cfg.PoliceAccessToken},
	} {
		*v.dest = os.Getenv(v.key)
		if *v.dest == "" {
			missing = append(missing, v.key)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring
// empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
