package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Usage store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Env    string
	Server ServerConfig
	CORS   CORSConfig
	Usage  UsageConfig
	Redis  RedisConfig
	DB     DBConfig
	NATS   NATSConfig
	LLM    LLMConfig
	Upload UploadConfig
	PDF    PDFConfig
	Log    LogConfig
}

// Development reports whether error details may be returned to callers.
func (c *Config) Development() bool {
	return c.Env == EnvDevelopment
}

type ServerConfig struct {
	Host string
	Port int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type UsageConfig struct {
	DailyLimit    int
	Backend       string
	Timezone      string
	TrustProxy    bool
	SweepInterval time.Duration
}

// Location resolves Timezone, falling back to UTC.
func (c UsageConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DBConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConns       int32
	MigrationsPath string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type NATSConfig struct {
	URL string
}

// Enabled reports whether usage events should be published.
func (c NATSConfig) Enabled() bool {
	return c.URL != ""
}

type LLMConfig struct {
	Provider      string
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiKey     string
	GeminiModel   string
	Temperature   float64
	Timeout       time.Duration
}

// Configured reports whether the selected provider has a credential.
func (c LLMConfig) Configured() bool {
	switch c.Provider {
	case ProviderGemini:
		return c.GeminiKey != ""
	default:
		return c.OpenAIKey != ""
	}
}

type UploadConfig struct {
	MaxBytes int64
}

type PDFConfig struct {
	ChromePath    string
	Timeout       time.Duration
	MaxConcurrent int
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads ./.env (when present) and then the process environment.
func Load() (*Config, error) {
	return load(".env")
}

func load(dotenvPath string) (*Config, error) {
	k := koanf.New(".")

	// .env keys go through the same A_B -> a.b mapping as the environment
	if _, err := os.Stat(dotenvPath); err == nil {
		if err := k.Load(file.Provider(dotenvPath), dotenv.ParserEnv("", ".", envKey)); err != nil {
			return nil, fmt.Errorf("loading %s: %w", dotenvPath, err)
		}
	}

	// Load environment variables (override .env)
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	return fromKoanf(k)
}

func envKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", "."))
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	cfg := &Config{
		Env: k.String("app.env"),
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: k.Int("server.port"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(k.String("cors.allowed.origins")),
		},
		Usage: UsageConfig{
			DailyLimit: k.Int("usage.daily.limit"),
			Backend:    strings.ToLower(k.String("usage.backend")),
			Timezone:   k.String("usage.timezone"),
			TrustProxy: k.Bool("usage.trust.proxy"),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		DB: DBConfig{
			Host:           k.String("db.host"),
			Port:           k.Int("db.port"),
			User:           k.String("db.user"),
			Password:       k.String("db.password"),
			Name:           k.String("db.name"),
			SSLMode:        k.String("db.sslmode"),
			MaxConns:       int32(k.Int("db.max.conns")),
			MigrationsPath: k.String("db.migrations.path"),
		},
		NATS: NATSConfig{
			URL: k.String("nats.url"),
		},
		LLM: LLMConfig{
			Provider:      strings.ToLower(k.String("llm.provider")),
			OpenAIKey:     k.String("openai.api.key"),
			OpenAIModel:   k.String("openai.model"),
			OpenAIBaseURL: k.String("openai.base.url"),
			GeminiKey:     k.String("gemini.api.key"),
			GeminiModel:   k.String("gemini.model"),
			Temperature:   k.Float64("llm.temperature"),
		},
		Upload: UploadConfig{
			MaxBytes: k.Int64("upload.max.bytes"),
		},
		PDF: PDFConfig{
			ChromePath:    k.String("pdf.chrome.path"),
			MaxConcurrent: k.Int("pdf.max.concurrent"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	// Apply defaults
	if cfg.Env == "" {
		cfg.Env = EnvDevelopment
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3001
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{
			"http://localhost:5173",
			"http://localhost:8080",
			"http://localhost:8081",
		}
	}
	if cfg.Usage.DailyLimit == 0 {
		cfg.Usage.DailyLimit = 3
	}
	if cfg.Usage.Backend == "" {
		cfg.Usage.Backend = BackendMemory
	}
	if cfg.Usage.Timezone == "" {
		cfg.Usage.Timezone = "UTC"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "fixora"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "fixora"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 10
	}
	if cfg.DB.MigrationsPath == "" {
		cfg.DB.MigrationsPath = "migrations"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderOpenAI
	}
	if cfg.LLM.OpenAIModel == "" {
		cfg.LLM.OpenAIModel = "gpt-4"
	}
	if cfg.LLM.GeminiModel == "" {
		cfg.LLM.GeminiModel = "gemini-2.5-flash"
	}
	if k.String("llm.temperature") == "" {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.Upload.MaxBytes == 0 {
		cfg.Upload.MaxBytes = 10 << 20
	}
	if cfg.PDF.MaxConcurrent == 0 {
		cfg.PDF.MaxConcurrent = 2
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// Parse durations
	var err error
	cfg.LLM.Timeout, err = durationOr(k, "llm.timeout", "60s")
	if err != nil {
		return nil, fmt.Errorf("parsing llm timeout: %w", err)
	}
	cfg.PDF.Timeout, err = durationOr(k, "pdf.timeout", "30s")
	if err != nil {
		return nil, fmt.Errorf("parsing pdf timeout: %w", err)
	}
	cfg.Usage.SweepInterval, err = durationOr(k, "usage.sweep.interval", "1h")
	if err != nil {
		return nil, fmt.Errorf("parsing usage sweep interval: %w", err)
	}

	return cfg, nil
}

func durationOr(k *koanf.Koanf, key, fallback string) (time.Duration, error) {
	s := k.String(key)
	if s == "" {
		s = fallback
	}
	return time.ParseDuration(s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
