package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutSecrets(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("API_SECRET_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Empty(t, cfg.LLM.APIKey)
	require.Empty(t, cfg.Auth.SharedSecret)
	require.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	require.Equal(t, 2, cfg.LLM.MaxAttempts)
	require.Equal(t, 100, cfg.Rewrite.MaxToneChars)
	require.Equal(t, 1000, cfg.Usage.MemoryCapacity)
	require.Equal(t, 1000, cfg.Usage.MemoryMaxTones)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("API_SECRET_KEY", "s3cret")
	t.Setenv("ALLOWED_ORIGIN", "https://a.example, https://b.example ,")
	t.Setenv("LLM_TIMEOUT", "12s")
	t.Setenv("PORT", "9000")
	t.Setenv("USAGE_REDIS_ENABLED", "true")
	t.Setenv("USAGE_REDIS_ADDR", "localhost:6379")
	t.Setenv("REWRITE_MAX_TONE_CHARS", "0")
	t.Setenv("USAGE_MEMORY_CAPACITY", "50")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "gemini-key", cfg.LLM.APIKey)
	require.Equal(t, "s3cret", cfg.Auth.SharedSecret)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	require.Equal(t, 12*time.Second, cfg.LLM.Timeout)
	require.Equal(t, ":9000", cfg.HTTP.Address)
	require.True(t, cfg.Usage.Redis.Enabled)
	require.Zero(t, cfg.Rewrite.MaxToneChars)
	require.Equal(t, 50, cfg.Usage.MemoryCapacity)
}

func TestLoadLLMKeyTakesPrecedenceOverGeminiKey(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("LLM_API_KEY", "generic-key")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "generic-key", cfg.LLM.APIKey)
}

func TestLoadTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[http]
address = ":7070"

[cors]
allowedOrigins = ["https://site.example"]

[llm]
model = "gemini-test"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("HTTP_ADDRESS", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.HTTP.Address)
	require.Equal(t, []string{"https://site.example"}, cfg.CORS.AllowedOrigins)
	require.Equal(t, "gemini-test", cfg.LLM.Model)
	require.Equal(t, 5000, cfg.Rewrite.MaxInputChars)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "auth:\n  sharedSecret: from-file\nrewrite:\n  maxInputChars: 42\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("API_SECRET_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.Auth.SharedSecret)
	require.Equal(t, 42, cfg.Rewrite.MaxInputChars)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty address",
			mutate:  func(c *Config) { c.HTTP.Address = "" },
			wantErr: "http.address cannot be empty",
		},
		{
			name:    "too many attempts",
			mutate:  func(c *Config) { c.LLM.MaxAttempts = 3 },
			wantErr: "llm.maxAttempts must be 1 or 2",
		},
		{
			name:    "write timeout shorter than upstream timeout",
			mutate:  func(c *Config) { c.HTTP.WriteTimeout = 10 * time.Second },
			wantErr: "http.writeTimeout must exceed llm.timeout",
		},
		{
			name:    "negative tone limit",
			mutate:  func(c *Config) { c.Rewrite.MaxToneChars = -1 },
			wantErr: "rewrite.maxToneChars cannot be negative",
		},
		{
			name:    "negative memory capacity",
			mutate:  func(c *Config) { c.Usage.MemoryCapacity = -1 },
			wantErr: "usage memory limits cannot be negative",
		},
		{
			name:    "redis without addr",
			mutate:  func(c *Config) { c.Usage.Redis.Enabled = true },
			wantErr: "usage.redis.addr cannot be empty when redis is enabled",
		},
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
