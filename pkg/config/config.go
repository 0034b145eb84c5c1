// Package config reads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the highway commands.
type Config struct {
	Addr          string
	CORSOrigin    string
	MaxConcurrent int
	PathCacheTTL  time.Duration
	Dialect       string
}

// Load reads .env files (default: ./.env) into the process environment
// without overriding variables already set, then builds a Config.
// A missing .env file is not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:       getEnv("HIGHWAY_ADDR", ":8080"),
		CORSOrigin: getEnv("HIGHWAY_CORS_ORIGIN", ""),
		Dialect:    getEnv("HIGHWAY_DIALECT", "en"),
	}

	n, err := strconv.Atoi(getEnv("HIGHWAY_MAX_CONCURRENT", strconv.Itoa(runtime.NumCPU()*2)))
	if err != nil || n < 1 {
		return Config{}, fmt.Errorf("HIGHWAY_MAX_CONCURRENT: want a positive integer, got %q", os.Getenv("HIGHWAY_MAX_CONCURRENT"))
	}
	cfg.MaxConcurrent = n

	ttl, err := time.ParseDuration(getEnv("HIGHWAY_PATH_CACHE_TTL", "1m"))
	if err != nil {
		return Config{}, fmt.Errorf("HIGHWAY_PATH_CACHE_TTL: %w", err)
	}
	cfg.PathCacheTTL = ttl

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
