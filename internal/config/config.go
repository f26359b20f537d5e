// Package config loads the daemon's process-wide settings from the
// environment once at startup (spec.md section 9's "process-wide
// configuration" design note: never a mutable global, construct once
// and thread down). Grounded on the teacher's LoadConfig/getEnv* helper
// shape, retargeted from HTTP-server and external-API settings to the
// fetcher/cache settings this module actually has.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the top-level settings struct cmd/server builds once and
// passes into forex.New's options.
type Config struct {
	Server   ServerConfig
	Fetcher  FetcherConfig
	Cache    CacheConfig
	LogLevel string
}

// ServerConfig governs the daemon's own HTTP surface (metrics and
// health only — this module has no REST API of its own, see spec.md
// section 1: "exposes... to in-process callers").
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// FetcherConfig governs the background refresh engine.
type FetcherConfig struct {
	SchedulerInterval time.Duration
	UseCache          bool
	AutoStart         bool
}

// CacheConfig governs the on-disk cache backend.
type CacheConfig struct {
	Path string
}

// Load reads Config from the environment, applying the same defaults
// spec.md section 6 names.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Fetcher: FetcherConfig{
			SchedulerInterval: getEnvDuration("FOREX_SCHEDULER_INTERVAL", 12*time.Hour),
			UseCache:          getEnvBool("FOREX_USE_CACHE", true),
			AutoStart:         getEnvBool("FOREX_AUTO_START", true),
		},
		Cache: CacheConfig{
			Path: getEnvString("FOREX_CACHE_PATH", ".forex_cache"),
		},
		LogLevel: getEnvString("LOG_LEVEL", "info"),
	}
	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		fmt.Printf("Warning: invalid value for %s, using default: %d\n", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		fmt.Printf("Warning: invalid value for %s, using default: %t\n", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		fmt.Printf("Warning: invalid duration for %s, using default: %s\n", key, defaultValue)
		return defaultValue
	}
	return value
}
