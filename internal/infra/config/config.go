package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http" toml:"http"`
	Auth    AuthConfig    `yaml:"auth" toml:"auth"`
	CORS    CORSConfig    `yaml:"cors" toml:"cors"`
	LLM     LLMConfig     `yaml:"llm" toml:"llm"`
	Rewrite RewriteConfig `yaml:"rewrite" toml:"rewrite"`
	Usage   UsageConfig   `yaml:"usage" toml:"usage"`
	Log     LogConfig     `yaml:"log" toml:"log"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address" toml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout" toml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout" toml:"writeTimeout"`
	MaxBodyBytes int64           `yaml:"maxBodyBytes" toml:"maxBodyBytes"`
	RateLimit    RateLimitConfig `yaml:"rateLimit" toml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" toml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute" toml:"requestsPerMinute"`
	Burst             int  `yaml:"burst" toml:"burst"`
}

// AuthConfig holds the shared secret callers must present.
type AuthConfig struct {
	SharedSecret string `yaml:"sharedSecret" toml:"sharedSecret"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins" toml:"allowedOrigins"`
}

// LLMConfig contains settings for the OpenAI-compatible upstream.
type LLMConfig struct {
	APIKey       string        `yaml:"apiKey" toml:"apiKey"`
	BaseURL      string        `yaml:"baseUrl" toml:"baseUrl"`
	Model        string        `yaml:"model" toml:"model"`
	Temperature  float32       `yaml:"temperature" toml:"temperature"`
	Timeout      time.Duration `yaml:"timeout" toml:"timeout"`
	MaxAttempts  int           `yaml:"maxAttempts" toml:"maxAttempts"`
	RetryBackoff time.Duration `yaml:"retryBackoff" toml:"retryBackoff"`
}

// RewriteConfig defines prompt and input limits for the rewrite domain.
type RewriteConfig struct {
	SystemPrompt   string `yaml:"systemPrompt" toml:"systemPrompt"`
	MaxInputChars  int    `yaml:"maxInputChars" toml:"maxInputChars"`
	MaxInputTokens int    `yaml:"maxInputTokens" toml:"maxInputTokens"`
	MaxToneChars   int    `yaml:"maxToneChars" toml:"maxToneChars"`
	TokenEncoding  string `yaml:"tokenEncoding" toml:"tokenEncoding"`
}

// UsageConfig controls tone statistics and the rewrite audit log.
type UsageConfig struct {
	TrendingLimit  int            `yaml:"trendingLimit" toml:"trendingLimit"`
	MemoryCapacity int            `yaml:"memoryCapacity" toml:"memoryCapacity"`
	MemoryMaxTones int            `yaml:"memoryMaxTones" toml:"memoryMaxTones"`
	Redis          RedisConfig    `yaml:"redis" toml:"redis"`
	Postgres       PostgresConfig `yaml:"postgres" toml:"postgres"`
}

// RedisConfig contains connection information for the tone statistics store.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Addr    string `yaml:"addr" toml:"addr"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn" toml:"dsn"`
	MaxConns int32  `yaml:"maxConns" toml:"maxConns"`
	MinConns int32  `yaml:"minConns" toml:"minConns"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level      string `yaml:"level" toml:"level"`
	File       string `yaml:"file" toml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb" toml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups" toml:"maxBackups"`
}

// Load reads configuration from a YAML or TOML file, an optional .env file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	// Real environment variables win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	} else if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("HTTP_MAX_BODY_BYTES"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.HTTP.MaxBodyBytes = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("API_SECRET_KEY"); v != "" {
		cfg.Auth.SharedSecret = v
	}
	if v := os.Getenv("ALLOWED_ORIGIN"); v != "" {
		cfg.CORS.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = parsed
		}
	}
	if v := os.Getenv("LLM_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("LLM_RETRY_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.RetryBackoff = parsed
		}
	}
	if v := os.Getenv("REWRITE_SYSTEM_PROMPT"); v != "" {
		cfg.Rewrite.SystemPrompt = v
	}
	if v := os.Getenv("REWRITE_MAX_INPUT_CHARS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Rewrite.MaxInputChars = parsed
		}
	}
	if v := os.Getenv("REWRITE_MAX_INPUT_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Rewrite.MaxInputTokens = parsed
		}
	}
	if v := os.Getenv("REWRITE_MAX_TONE_CHARS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Rewrite.MaxToneChars = parsed
		}
	}
	if v := os.Getenv("REWRITE_TOKEN_ENCODING"); v != "" {
		cfg.Rewrite.TokenEncoding = v
	}
	if v := os.Getenv("USAGE_TRENDING_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Usage.TrendingLimit = parsed
		}
	}
	if v := os.Getenv("USAGE_MEMORY_CAPACITY"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Usage.MemoryCapacity = parsed
		}
	}
	if v := os.Getenv("USAGE_MEMORY_MAX_TONES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Usage.MemoryMaxTones = parsed
		}
	}
	if v := os.Getenv("USAGE_REDIS_ENABLED"); v != "" {
		cfg.Usage.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("USAGE_REDIS_ADDR"); v != "" {
		cfg.Usage.Redis.Addr = v
	}
	if v := os.Getenv("USAGE_POSTGRES_DSN"); v != "" {
		cfg.Usage.Postgres.DSN = v
	}
	if v := os.Getenv("USAGE_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Usage.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("USAGE_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Usage.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 45 * time.Second,
			MaxBodyBytes: 64 << 10,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 30,
				Burst:             10,
			},
		},
		LLM: LLMConfig{
			BaseURL:      "https://generativelanguage.googleapis.com/v1beta/openai",
			Model:        "gemini-1.5-flash-latest",
			Temperature:  0.7,
			Timeout:      30 * time.Second,
			MaxAttempts:  2,
			RetryBackoff: 300 * time.Millisecond,
		},
		Rewrite: RewriteConfig{
			SystemPrompt:   "You are a writing assistant that rewrites text in a requested tone while preserving its meaning. Return only the rewritten text, with no preamble, explanation or surrounding quotes.",
			MaxInputChars:  5000,
			MaxInputTokens: 1500,
			MaxToneChars:   100,
			TokenEncoding:  "cl100k_base",
		},
		Usage: UsageConfig{
			TrendingLimit:  10,
			MemoryCapacity: 1000,
			MemoryMaxTones: 1000,
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
	}
}

// Validate ensures the configuration is safe to use. A missing API key or
// shared secret is not fatal here: the HTTP layer fails closed per request.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return errors.New("http.maxBodyBytes must be positive")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}
	if c.LLM.MaxAttempts <= 0 || c.LLM.MaxAttempts > 2 {
		return errors.New("llm.maxAttempts must be 1 or 2")
	}
	if c.LLM.RetryBackoff < 0 {
		return errors.New("llm.retryBackoff cannot be negative")
	}
	if c.HTTP.WriteTimeout > 0 && c.HTTP.WriteTimeout <= c.LLM.Timeout {
		return errors.New("http.writeTimeout must exceed llm.timeout")
	}
	if strings.TrimSpace(c.Rewrite.SystemPrompt) == "" {
		return errors.New("rewrite.systemPrompt cannot be empty")
	}
	if c.Rewrite.MaxInputChars < 0 {
		return errors.New("rewrite.maxInputChars cannot be negative")
	}
	if c.Rewrite.MaxInputTokens < 0 {
		return errors.New("rewrite.maxInputTokens cannot be negative")
	}
	if c.Rewrite.MaxToneChars < 0 {
		return errors.New("rewrite.maxToneChars cannot be negative")
	}
	if c.Usage.MemoryCapacity < 0 || c.Usage.MemoryMaxTones < 0 {
		return errors.New("usage memory limits cannot be negative")
	}
	if c.Usage.TrendingLimit < 0 {
		return errors.New("usage.trendingLimit cannot be negative")
	}
	if c.Usage.Redis.Enabled && strings.TrimSpace(c.Usage.Redis.Addr) == "" {
		return errors.New("usage.redis.addr cannot be empty when redis is enabled")
	}
	return nil
}
