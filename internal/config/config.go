// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/spetersoncode/cinematch"
	"github.com/spetersoncode/cinematch/client"
)

// Config holds the configuration loaded from environment variables.
type Config struct {
	// Server
	Port          string
	LogLevel      string // debug, info, warn, error
	SessionTTL    time.Duration
	SecureCookies bool
	CORSOrigins   []string

	// Provider selection
	Provider  cinematch.Provider
	Model     string
	MaxTokens int

	// API Keys
	GoogleKey    string
	OpenAIKey    string
	AnthropicKey string
}

// Load reads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func Load() (*Config, error) {
	_ = godotenv.Load()

	provider, err := cinematch.ParseProvider(os.Getenv("CINEMATCH_PROVIDER"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:          getEnvOrDefault("CINEMATCH_PORT", "3000"),
		LogLevel:      getEnvOrDefault("CINEMATCH_LOG_LEVEL", "info"),
		SessionTTL:    getEnvDurationOrDefault("CINEMATCH_SESSION_TTL", 2*time.Hour),
		SecureCookies: getEnvBoolOrDefault("CINEMATCH_SECURE_COOKIES", false),
		CORSOrigins:   splitList(os.Getenv("CINEMATCH_CORS_ORIGINS")),
		Provider:      provider,
		Model:         os.Getenv("CINEMATCH_MODEL"),
		MaxTokens:     getEnvIntOrDefault("CINEMATCH_MAX_TOKENS", 0),
		GoogleKey:     getEnvOrDefault("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:  os.Getenv("ANTHROPIC_API_KEY"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that configured values are usable. A missing API key is
// not an error: requests fail until one is provided.
func (c *Config) Validate() error {
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("CINEMATCH_PORT must be a port number, got %q", c.Port)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("CINEMATCH_SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("CINEMATCH_MAX_TOKENS must not be negative, got %d", c.MaxTokens)
	}
	return nil
}

// APIKeys returns the keys in the form the client expects.
func (c *Config) APIKeys() client.APIKeys {
	return client.APIKeys{
		Google:    c.GoogleKey,
		OpenAI:    c.OpenAIKey,
		Anthropic: c.AnthropicKey,
	}
}

// KeyEnv names the environment variable holding the selected provider's key.
func (c *Config) KeyEnv() string {
	switch c.Provider {
	case cinematch.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case cinematch.ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// Logger builds a text logger at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s (must be debug, info, warn, or error)", s)
	}
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
