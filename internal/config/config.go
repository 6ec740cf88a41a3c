// Package config handles application configuration.
package config

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port        int
	BaseURL     string
	IdleTimeout time.Duration // Scale-to-zero idle shutdown; 0 disables

	// Database
	DatabaseURL string

	// Authentication
	JWTSecret    string
	JWTExpiry    time.Duration
	APIKeyPepper []byte // 32-byte HKDF-derived key for hashing API keys

	// LLM provider (structured extraction)
	LLMProvider string // "openai", "anthropic", "openrouter", "ollama"
	LLMModel    string
	LLMAPIKey   string
	LLMBaseURL  string        // Optional override (Ollama, proxies)
	LLMTimeout  time.Duration // Client-side request timeout

	// BGG collaborators
	BGGAPIBaseURL         string        // XML API2 base
	BGGSiteBaseURL        string        // Canonical page URLs for scraping
	BGGCollectionAttempts int           // Retry cap while the collection endpoint is queued
	BGGCollectionDelay    time.Duration // Fixed delay between collection retries

	// Scraper
	ScrapeTimeout   time.Duration
	ScrapeUserAgent string

	// Import throttling
	EnhanceDelay time.Duration // Pause between enhanced items in a bulk run

	// CORS
	CORSOrigins []string

	// Object storage for mirrored cover images (S3-compatible)
	StorageEnabled   bool
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageRegion    string
	StoragePublicURL string // Public base URL for served objects
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		IdleTimeout: getEnvDuration("IDLE_TIMEOUT", 0),
		DatabaseURL: getEnv("DATABASE_URL", "file:meeplekeep.db?_journal=WAL&_timeout=5000"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: getEnvDuration("JWT_EXPIRY", 24*time.Hour),

		LLMProvider: getEnv("LLM_PROVIDER", "openai"),
		LLMModel:    getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMAPIKey:   getEnv("LLM_API_KEY", ""),
		LLMBaseURL:  getEnv("LLM_BASE_URL", ""),
		LLMTimeout:  getEnvDuration("LLM_TIMEOUT", 30*time.Second),

		BGGAPIBaseURL:         getEnv("BGG_API_BASE_URL", "https://boardgamegeek.com/xmlapi2"),
		BGGSiteBaseURL:        getEnv("BGG_SITE_BASE_URL", "https://boardgamegeek.com"),
		BGGCollectionAttempts: getEnvInt("BGG_COLLECTION_ATTEMPTS", 5),
		BGGCollectionDelay:    getEnvDuration("BGG_COLLECTION_DELAY", 2*time.Second),

		ScrapeTimeout:   getEnvDuration("SCRAPE_TIMEOUT", 30*time.Second),
		ScrapeUserAgent: getEnv("SCRAPE_USER_AGENT", defaultUserAgent),

		EnhanceDelay: getEnvDuration("ENHANCE_DELAY", 1*time.Second),

		CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),

		StorageEndpoint:  getEnv("AWS_ENDPOINT_URL_S3", ""),
		StorageAccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		StorageSecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		StorageBucket:    getEnvWithFallback("BUCKET_NAME", "STORAGE_BUCKET", ""),
		StorageRegion:    getEnv("AWS_REGION", "auto"),
		StoragePublicURL: getEnv("STORAGE_PUBLIC_URL", ""),
	}

	cfg.StorageEnabled = cfg.StorageBucket != "" && cfg.StorageEndpoint != ""

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	cfg.APIKeyPepper = deriveAPIKeyPepper(cfg.JWTSecret)

	return cfg, nil
}

// LLMEnabled returns true if a structured-extraction provider is
// configured. Ollama needs no API key.
func (c *Config) LLMEnabled() bool {
	return c.LLMAPIKey != "" || c.LLMProvider == "ollama"
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getEnvWithFallback(primary, fallback, defaultValue string) string {
	if value := os.Getenv(primary); value != "" {
		return value
	}
	if value := os.Getenv(fallback); value != "" {
		return value
	}
	return defaultValue
}

// deriveAPIKeyPepper creates a 32-byte key from the JWT secret using
// HKDF-SHA256. API key hashes are keyed with this pepper so a database
// leak alone does not allow offline verification of stolen keys.
func deriveAPIKeyPepper(secret string) []byte {
	salt := []byte("meeplekeep-api-pepper-v1")
	info := []byte("api-key-sha256-pepper")

	hkdfReader := hkdf.New(sha256.New, []byte(secret), salt, info)

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdfReader, key); err != nil {
		panic("hkdf: failed to derive key: " + err.Error())
	}

	return key
}
