package config

import (
	"os"
	"strconv"
)

const defaultPlaylistSize = 30

// Config holds the application configuration
type Config struct {
	// Environment
	Environment string
	Port        string

	// Database
	DatabaseURL string

	// LLM API keys for the interview question provider
	OpenAIAPIKey      string
	GeminiAPIKey      string
	InterviewModel    string
	InterviewProvider string // "openai", "gemini", "scripted", or empty to infer

	// Catalog feature service
	CatalogBaseURL string
	CatalogAPIKey  string

	// Auth
	// - "none": No auth (self-hosted, local dev)
	// - "jwt": First-party accounts with JWT
	// - "gateway": Trust X-User-* headers from the edge gateway
	AuthMode       string
	JWTSecret      string
	SessionSecret  string
	GoogleClientID string
	GoogleSecret   string
	OAuthCallback  string

	// Playlist generation
	PlaylistSize int

	// Email (SES)
	AWSRegion    string
	FrontendURL  string
	EmailFrom    string
	EmailEnabled bool

	// Observability
	SentryDSN         string
	LangfusePublicKey string
	LangfuseSecretKey string
	LangfuseHost      string
	LangfuseEnabled   bool
}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		InterviewModel:    getEnv("INTERVIEW_MODEL", "gpt-5-mini"),
		InterviewProvider: getEnv("INTERVIEW_PROVIDER", ""),
		CatalogBaseURL:    getEnv("CATALOG_BASE_URL", ""),
		CatalogAPIKey:     getEnv("CATALOG_API_KEY", ""),
		AuthMode:          getEnv("AUTH_MODE", "none"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		GoogleClientID:    getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleSecret:      getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthCallback:     getEnv("OAUTH_CALLBACK_URL", "http://localhost:8080/api/auth/google/callback"),
		PlaylistSize:      getEnvInt("PLAYLIST_SIZE", defaultPlaylistSize),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:3000"),
		EmailFrom:         getEnv("EMAIL_FROM", ""),
		EmailEnabled:      getEnv("EMAIL_ENABLED", "false") == "true",
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:      getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:   getEnv("LANGFUSE_ENABLED", "false") == "true",
	}
}

func getEnvInt(key string, defaultValue int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// IsGatewayMode returns true if running behind an auth-terminating gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == "gateway"
}

// IsJWTMode returns true when first-party JWT auth is enabled
func (c *Config) IsJWTMode() bool {
	return c.AuthMode == "jwt"
}
