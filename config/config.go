// Package config loads server configuration from the environment.
// A .env file, when present, is loaded by cmd/server before Load runs.
package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port   int
	DBPath string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	c := &Config{
		Port:   8080,
		DBPath: getenv("DB_PATH", "rentals.db"),
	}
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Port = n
		}
	}
	return c
}
