package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool
	GinMode     string

	// RatesFile is a YAML rate schedule. When empty the schedule is read from
	// the rate_versions table.
	RatesFile string

	// StrictReconciliation panics on a breakdown that fails reconciliation.
	// Defaults to on outside release mode.
	StrictReconciliation bool

	LogLevel string

	// CORSAllowedOrigins lists browser origins allowed to fetch receipts and
	// reports. Empty disables CORS handling.
	CORSAllowedOrigins []string
}

func Load() *Config {
	ginMode := getEnv("GIN_MODE", "debug")

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "5432"),
		DBUser:               getEnv("DB_USER", "cae"),
		DBPassword:           getEnv("DB_PASSWORD", "cae_secret"),
		DBName:               getEnv("DB_NAME", "cae"),
		DBSSLMode:            getEnv("DB_SSLMODE", "disable"),
		AutoMigrate:          getEnv("AUTO_MIGRATE", "false") == "true",
		GinMode:              ginMode,
		RatesFile:            getEnv("RATES_FILE", ""),
		StrictReconciliation: getBool("STRICT_RECONCILIATION", ginMode != "release"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins:   getList("CORS_ALLOWED_ORIGINS"),
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
