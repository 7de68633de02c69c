package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Answer source modes selected by DB_API_BASE.
const (
	SourceMock   = "mock"
	SourceFake   = "fake"
	SourceRemote = "remote"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// CORS
	OriginURL   string // Single allowed origin in production (ORIGIN_URL)
	CORSOrigins string // Comma-separated allowed origins, overrides OriginURL

	// Answer backend
	DBAPIBase         string        // "", "mock", "fake" or the external API base URL
	DBAPIKey          string        // Static bearer token for the external API
	DBAPITokenURL     string        // OAuth2 client-credentials token endpoint
	DBAPIClientID     string
	DBAPIClientSecret string
	DBAPITimeout      time.Duration
	FakeAPIDelay      time.Duration // Simulated latency for the fake source

	// Knowledge base
	KnowledgeFile string // YAML file replacing the embedded seed
	AdminToken    string // Bearer token for the admin API; empty disables it

	// Storage
	DatabaseURL string // Optional query analytics store
	RedisURL    string // Optional limiter/session storage

	// Session
	SessionSecret string // Used for cookie encryption (min 32 chars)

	// Limits
	RateLimitMax    int
	RateLimitWindow time.Duration
	MaxQueryLength  int

	// Jobs
	UpstreamCheckInterval time.Duration

	// Site
	SiteTitle string // env: SITE_TITLE
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", getEnv("NODE_ENV", "development")),
		ServerAddr:  serverAddr(),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		OriginURL:   getEnv("ORIGIN_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", ""),

		DBAPIBase:         getEnv("DB_API_BASE", ""),
		DBAPIKey:          getEnv("DB_API_KEY", ""),
		DBAPITokenURL:     getEnv("DB_API_TOKEN_URL", ""),
		DBAPIClientID:     getEnv("DB_API_CLIENT_ID", ""),
		DBAPIClientSecret: getEnv("DB_API_CLIENT_SECRET", ""),
		DBAPITimeout:      getDuration("DB_API_TIMEOUT", 10*time.Second),
		FakeAPIDelay:      getDuration("FAKE_API_DELAY", 0),

		KnowledgeFile: getEnv("KNOWLEDGE_FILE", ""),
		AdminToken:    getEnv("ADMIN_TOKEN", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),

		RateLimitMax:    getInt("RATE_LIMIT_MAX", 3),
		RateLimitWindow: getDuration("RATE_LIMIT_WINDOW", time.Second),
		MaxQueryLength:  getInt("MAX_QUERY_LENGTH", 500),

		UpstreamCheckInterval: getDuration("UPSTREAM_CHECK_INTERVAL", time.Minute),

		SiteTitle: getEnv("SITE_TITLE", "צ'אט קולי"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d >= 0 {
		return d
	}
	return fallback
}

// serverAddr honours SERVER_ADDR, then a bare PORT.
func serverAddr() string {
	if addr := os.Getenv("SERVER_ADDR"); addr != "" {
		return addr
	}
	return ":" + getEnv("PORT", "3000")
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// Source returns which answer backend serves /api/ask.
func (c *Config) Source() string {
	switch strings.ToLower(strings.TrimSpace(c.DBAPIBase)) {
	case "", SourceMock:
		return SourceMock
	case SourceFake:
		return SourceFake
	default:
		return SourceRemote
	}
}

// AllowedOrigins returns the CORS allow list. A nil list means any origin,
// which is only the case in development without CORS_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	if c.CORSOrigins != "" {
		return strings.Split(c.CORSOrigins, ",")
	}
	if c.IsDev() {
		return nil
	}
	if c.OriginURL != "" {
		return []string{c.OriginURL}
	}
	return []string{c.BaseURL}
}

// IsAdminEnabled returns true if the admin API should be mounted.
func (c *Config) IsAdminEnabled() bool {
	return c.AdminToken != ""
}

// UsesClientCredentials returns true if the remote API uses OAuth2 client credentials.
func (c *Config) UsesClientCredentials() bool {
	return c.DBAPITokenURL != "" && c.DBAPIClientID != ""
}
