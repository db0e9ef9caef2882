package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		errs = append(errs, fmt.Sprintf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env))
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1–65535, got %d", c.Server.Port))
	}

	// Usage quota
	if c.Usage.DailyLimit < 1 {
		errs = append(errs, fmt.Sprintf("USAGE_DAILY_LIMIT must be at least 1, got %d", c.Usage.DailyLimit))
	}
	if _, err := time.LoadLocation(c.Usage.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("USAGE_TIMEZONE %q is not a known location", c.Usage.Timezone))
	}

	switch c.Usage.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Port < 1 || c.Redis.Port > 65535 {
			errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1–65535, got %d", c.Redis.Port))
		}
	case BackendPostgres:
		if c.DB.Password == "" {
			errs = append(errs, "DB_PASSWORD is required when USAGE_BACKEND=postgres")
		}
		if c.DB.Port < 1 || c.DB.Port > 65535 {
			errs = append(errs, fmt.Sprintf("DB_PORT must be 1–65535, got %d", c.DB.Port))
		}
	default:
		errs = append(errs, fmt.Sprintf("USAGE_BACKEND must be one of memory, redis, postgres, got %q", c.Usage.Backend))
	}

	// LLM provider
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		errs = append(errs, fmt.Sprintf("LLM_PROVIDER must be openai or gemini, got %q", c.LLM.Provider))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Sprintf("LLM_TEMPERATURE must be 0–2, got %g", c.LLM.Temperature))
	}

	if c.Upload.MaxBytes < 1 {
		errs = append(errs, "UPLOAD_MAX_BYTES must be positive")
	}
	if c.PDF.MaxConcurrent < 0 {
		errs = append(errs, fmt.Sprintf("PDF_MAX_CONCURRENT must not be negative, got %d", c.PDF.MaxConcurrent))
	}

	// Missing LLM credential: warn only, the service still serves uploads and usage
	if !c.LLM.Configured() {
		slog.Warn("LLM API key is empty, analysis endpoints will report a configuration error", "provider", c.LLM.Provider)
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
