package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Provider family selector values.
const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
	ProviderMock   = "mock"
)

// Context sizing policy selector values.
const (
	ContextPolicyCount  = "count"
	ContextPolicyTokens = "tokens"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort        string
	DatabaseURL     string
	JWTSecret       string
	TokenExpiration time.Duration
	AdminPassword   string

	// AI provider selection. The hosted family named by AIProvider is used
	// only when its credential is present; otherwise the offline mock
	// provider is selected (not an error).
	AIProvider   string
	OpenAIKey    string
	GroqKey      string
	DefaultModel string

	// Context assembly bounds and policy.
	ContextMaxMessages int
	ContextMaxTokens   int
	ContextPolicy      string
}

// Load reads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func Load(logger *zap.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables only")
	}

	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		jwtSecret = "dev-only-insecure-secret"
		logger.Warn("JWT_SECRET not set, using insecure development default")
	}

	adminPassword := getEnv("ADMIN_PASSWORD", "")
	if adminPassword == "" {
		adminPassword = "admin"
		logger.Warn("ADMIN_PASSWORD not set, using insecure development default")
	}

	policy := getEnv("CONTEXT_POLICY", ContextPolicyCount)
	if policy != ContextPolicyCount && policy != ContextPolicyTokens {
		return nil, fmt.Errorf("invalid CONTEXT_POLICY %q (want %q or %q)", policy, ContextPolicyCount, ContextPolicyTokens)
	}

	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		DatabaseURL:        dbURL,
		JWTSecret:          jwtSecret,
		TokenExpiration:    time.Hour * time.Duration(getEnvInt(logger, "JWT_EXPIRATION_HOURS", 24)),
		AdminPassword:      adminPassword,
		AIProvider:         getEnv("AI_PROVIDER", ProviderMock),
		OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
		GroqKey:            getEnv("GROQ_API_KEY", ""),
		DefaultModel:       getEnv("DEFAULT_MODEL", "llama-3.3-70b-versatile"),
		ContextMaxMessages: getEnvInt(logger, "CONTEXT_MAX_MESSAGES", 10),
		ContextMaxTokens:   getEnvInt(logger, "CONTEXT_MAX_TOKENS", 4000),
		ContextPolicy:      policy,
	}

	logger.Info("configuration loaded",
		zap.String("port", cfg.HTTPPort),
		zap.String("ai_provider", cfg.AIProvider),
		zap.String("context_policy", cfg.ContextPolicy),
		zap.Int("context_max_messages", cfg.ContextMaxMessages))

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(logger *zap.Logger, key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warn("invalid integer environment variable, using default",
			zap.String("key", key),
			zap.String("value", raw),
			zap.Int("default", fallback))
		return fallback
	}
	return v
}
