package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host           string
	Port           string
	AllowedOrigins []string
	ReadOnly       bool
	LogLevel       string

	AzureOpenAIEndpoint   string
	AzureOpenAIAPIKey     string
	AzureOpenAIDeployment string
	AzureOpenAIAPIVersion string

	ChatMaxTokens int
	ChatTimeout   time.Duration
}

// Addr is the host:port the HTTP server binds to.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// FromEnv builds a Config from the process environment without touching .env files.
func FromEnv() (Config, error) {
	cfg := Config{
		Host:           getEnv("HOST", "0.0.0.0"),
		Port:           getEnv("PORT", "5000"),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		AzureOpenAIEndpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
		AzureOpenAIAPIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
		AzureOpenAIDeployment: getEnv("AZURE_OPENAI_DEPLOYMENT", ""),
		AzureOpenAIAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2025-01-01-preview"),
	}

	var err error
	if cfg.ReadOnly, err = strconv.ParseBool(getEnv("READ_ONLY", "false")); err != nil {
		return Config{}, fmt.Errorf("READ_ONLY: %w", err)
	}

	cfg.ChatMaxTokens, err = strconv.Atoi(getEnv("CHAT_MAX_TOKENS", "200"))
	if err != nil || cfg.ChatMaxTokens <= 0 {
		return Config{}, fmt.Errorf("CHAT_MAX_TOKENS must be a positive integer, got %q", os.Getenv("CHAT_MAX_TOKENS"))
	}

	cfg.ChatTimeout, err = time.ParseDuration(getEnv("CHAT_TIMEOUT", "30s"))
	if err != nil || cfg.ChatTimeout <= 0 {
		return Config{}, fmt.Errorf("CHAT_TIMEOUT must be a positive duration, got %q", os.Getenv("CHAT_TIMEOUT"))
	}

	if cfg.Port == "" {
		return Config{}, errors.New("PORT must not be empty")
	}
	if cfg.AzureOpenAIEndpoint == "" {
		return Config{}, errors.New("AZURE_OPENAI_ENDPOINT is required")
	}
	if cfg.AzureOpenAIAPIKey == "" {
		return Config{}, errors.New("AZURE_OPENAI_API_KEY is required")
	}
	if cfg.AzureOpenAIDeployment == "" {
		return Config{}, errors.New("AZURE_OPENAI_DEPLOYMENT is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
