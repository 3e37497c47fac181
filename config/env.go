// Package config reads settings from environment, with an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/zefrenchwan/lineage.git/cache"
)

const (
	ENV_DB_URL     = "LINEAGE_DB_URL"
	ENV_PORT       = "LINEAGE_PORT"
	ENV_CACHE_SIZE = "LINEAGE_CACHE_SIZE"
	ENV_WORKERS    = "LINEAGE_WORKERS"
	ENV_LOG_LEVEL  = "LINEAGE_LOG_LEVEL"
	ENV_LOG_FORMAT = "LINEAGE_LOG_FORMAT"
	ENV_MAX_DEPTH  = "LINEAGE_MAX_GENERATIONS"
	ENV_REQUIRE_DB = "LINEAGE_REQUIRE_DB"
)

const (
	DEFAULT_PORT            = ":8080"
	DEFAULT_WORKERS         = 4
	DEFAULT_LOG_LEVEL       = "info"
	DEFAULT_LOG_FORMAT      = "json"
	DEFAULT_MAX_GENERATIONS = 12
)

// Settings is the whole configuration of a lineage process
type Settings struct {
	DatabaseUrl    string
	Port           string
	CacheSize      int
	Workers        int
	LogLevel       string
	LogFormat      string
	MaxGenerations int

	// RequireDatabase makes serve fail when database is not set or not reachable
	RequireDatabase bool
}

// LoadEnv loads .env if present. It returns false when no file was loaded
func LoadEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}

// GetEnvString returns the value of key, or defaultValue if not set
func GetEnvString(key string, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	return value
}

// GetEnvNumeric returns the int value of key, or defaultValue if not set or invalid
func GetEnvNumeric(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	returnValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}

	return returnValue
}

// GetEnvBool returns the bool value of key, or defaultValue if not set or invalid
func GetEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	if value == "true" || value == "false" {
		return value == "true"
	}

	return defaultValue
}

// FromEnv reads settings from environment
func FromEnv() Settings {
	return Settings{
		DatabaseUrl:     GetEnvString(ENV_DB_URL, ""),
		Port:            GetEnvString(ENV_PORT, DEFAULT_PORT),
		CacheSize:       GetEnvNumeric(ENV_CACHE_SIZE, cache.DEFAULT_CAPACITY),
		Workers:         GetEnvNumeric(ENV_WORKERS, DEFAULT_WORKERS),
		LogLevel:        GetEnvString(ENV_LOG_LEVEL, DEFAULT_LOG_LEVEL),
		LogFormat:       GetEnvString(ENV_LOG_FORMAT, DEFAULT_LOG_FORMAT),
		MaxGenerations:  GetEnvNumeric(ENV_MAX_DEPTH, DEFAULT_MAX_GENERATIONS),
		RequireDatabase: GetEnvBool(ENV_REQUIRE_DB, false),
	}
}

// Validate checks values a process cannot run with
func (s Settings) Validate() error {
	if !strings.HasPrefix(s.Port, ":") {
		return fmt.Errorf("invalid port %s : it should be a : and a valid number", s.Port)
	} else if _, err := strconv.Atoi(s.Port[1:]); err != nil {
		return fmt.Errorf("invalid port %s : it should be a : and a valid number", s.Port)
	} else if s.CacheSize <= 0 {
		return fmt.Errorf("invalid cache size %d", s.CacheSize)
	} else if s.Workers <= 0 {
		return fmt.Errorf("invalid workers count %d", s.Workers)
	} else if s.MaxGenerations <= 0 {
		return fmt.Errorf("invalid max generations %d", s.MaxGenerations)
	} else if s.RequireDatabase && s.DatabaseUrl == "" {
		return fmt.Errorf("database required but %s is not set", ENV_DB_URL)
	}

	return nil
}
