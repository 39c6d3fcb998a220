// Package config resolves the search service configuration from the
// environment. A .env file is honored when present; missing required
// credentials fail startup with every missing name listed.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the resolved runtime configuration for the search service.
type Config struct {
	ClientID     string
	ClientSecret string

	// ProviderBaseURL and TokenURL point at the catalog provider.
	// Overridable for tests and self-hosted mirrors.
	ProviderBaseURL string
	TokenURL        string

	// LogDir is the provisioned log directory. The service writes there
	// when it is writable and falls back to stderr-only when not.
	LogDir string
}

const (
	defaultProviderBaseURL = "https://api.spotify.com/v1"
	defaultTokenURL        = "https://accounts.spotify.com/api/token"
	defaultLogDir          = "/app/logs"
)

// Load reads configuration from the environment, merging in a .env
// file when one exists in the working directory.
func Load() (Config, error) {
	// Absence of a .env file is not an error; deployed runs inject the
	// environment directly.
	_ = godotenv.Load()

	var missing []string
	for _, name := range []string{"CLIENT_ID", "CLIENT_SECRET"} {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	cfg := Config{
		ClientID:        os.Getenv("CLIENT_ID"),
		ClientSecret:    os.Getenv("CLIENT_SECRET"),
		ProviderBaseURL: envOr("PROVIDER_BASE_URL", defaultProviderBaseURL),
		TokenURL:        envOr("PROVIDER_TOKEN_URL", defaultTokenURL),
		LogDir:          envOr("LOG_DIR", defaultLogDir),
	}
	return cfg, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
