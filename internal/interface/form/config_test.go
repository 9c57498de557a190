package form

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("TONE_API_URL", " https://relay.example/api/tone-changer ")
	t.Setenv("TONE_API_SECRET", "s3cret")
	t.Setenv("TONE_API_TIMEOUT", "5s")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "https://relay.example/api/tone-changer", cfg.Endpoint)
	require.Equal(t, "s3cret", cfg.Secret)
	require.Equal(t, 5*time.Second, cfg.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromDotenv(t *testing.T) {
	t.Setenv("TONE_API_URL", "")
	t.Setenv("TONE_API_SECRET", "")
	t.Setenv("TONE_API_TIMEOUT", "")
	// godotenv only fills variables that are unset, not empty
	require.NoError(t, os.Unsetenv("TONE_API_URL"))
	require.NoError(t, os.Unsetenv("TONE_API_SECRET"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TONE_API_URL=https://relay.example\nTONE_API_SECRET=from-file\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "https://relay.example", cfg.Endpoint)
	require.Equal(t, "from-file", cfg.Secret)
	require.Equal(t, defaultTimeout, cfg.Timeout)
}

func TestLoadConfigRejectsBadTimeout(t *testing.T) {
	t.Setenv("TONE_API_TIMEOUT", "soon")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.EqualError(t, err, "TONE_API_TIMEOUT must be a duration")
}

func TestConfigValidate(t *testing.T) {
	require.EqualError(t, Config{}.Validate(), "missing TONE_API_URL and TONE_API_SECRET")
	require.EqualError(t, Config{Endpoint: "x"}.Validate(), "missing TONE_API_SECRET")
	require.EqualError(t, Config{Secret: "x"}.Validate(), "missing TONE_API_URL")
}
