package form

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultTimeout = 45 * time.Second

// Config points the form at a deployed relay.
type Config struct {
	Endpoint string
	Secret   string
	Timeout  time.Duration
}

// LoadConfig resolves the relay endpoint and shared secret from
// TONE_API_URL and TONE_API_SECRET. Values from the given dotenv files (or
// ./.env when none are given) fill in variables that are not already set.
func LoadConfig(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	cfg := Config{
		Endpoint: strings.TrimSpace(os.Getenv("TONE_API_URL")),
		Secret:   strings.TrimSpace(os.Getenv("TONE_API_SECRET")),
		Timeout:  defaultTimeout,
	}
	if v := os.Getenv("TONE_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, errors.New("TONE_API_TIMEOUT must be a duration")
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

// Validate reports whether the form can reach the relay at all.
func (c Config) Validate() error {
	var missing []string
	if c.Endpoint == "" {
		missing = append(missing, "TONE_API_URL")
	}
	if c.Secret == "" {
		missing = append(missing, "TONE_API_SECRET")
	}
	if len(missing) > 0 {
		return errors.New("missing " + strings.Join(missing, " and "))
	}
	return nil
}
