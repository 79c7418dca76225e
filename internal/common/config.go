package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LLM providers understood by LLMConfig.Provider.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Ingest   IngestConfig
	LLM      LLMConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr        string
	GRPCAddr        string
	ShutdownTimeout time.Duration
}

// IngestConfig holds resume ingestion configuration
type IngestConfig struct {
	ResumeDir     string
	MaxUploadSize int64
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Provider     string
	Model        string
	APIKey       string
	BaseURL      string
	GeminiModel  string
	GeminiAPIKey string
	Temperature  float32
	Timeout      time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			HTTPAddr:        normalizeAddr(getEnv("HTTP_ADDR", ":8000")),
			GRPCAddr:        normalizeAddr(getEnv("GRPC_ADDR", ":9090")),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Ingest: IngestConfig{
			ResumeDir:     getEnv("RESUME_DIR", "./documents/resume"),
			MaxUploadSize: int64(getEnvAsInt("MAX_UPLOAD_MB", 32)) << 20,
		},
		LLM: LLMConfig{
			Provider:     strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI)),
			Model:        getEnv("OPENAI_MODEL", "gpt-4.1-mini"),
			APIKey:       getEnv("OPENAI_API_KEY", ""),
			BaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			Temperature:  getEnvAsFloat32("LLM_TEMPERATURE", 0.3),
			Timeout:      getEnvAsDuration("LLM_TIMEOUT", 45*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// normalizeAddr accepts "8000" as well as ":8000" or "host:8000".
func normalizeAddr(addr string) string {
	if addr != "" && !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}

// ValidateDatabase checks only what is needed to reach Postgres.
func (c *Config) ValidateDatabase() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	return nil
}

// ValidateLLM checks the credentials of the selected provider.
func (c *Config) ValidateLLM() error {
	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.LLM.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
		}
	case ProviderGemini:
		if c.LLM.GeminiAPIKey == "" {
			return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "LLM_PROVIDER must be openai or gemini", ErrInvalidInput)
	}
	if c.LLM.Timeout <= 0 {
		return NewAppError("CONFIG_ERROR", "LLM_TIMEOUT must be positive", ErrInvalidInput)
	}
	return nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if err := c.ValidateLLM(); err != nil {
		return err
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Ingest.ResumeDir == "" {
		return NewAppError("CONFIG_ERROR", "RESUME_DIR is required", ErrInvalidInput)
	}
	return nil
}
