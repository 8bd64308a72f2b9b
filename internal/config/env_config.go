package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const (
	appNameVar       = "APP_NAME"
	baseURLVar       = "WASTELESS_BASE_URL"
	httpTimeoutVar   = "WASTELESS_HTTP_TIMEOUT"
	sessionFileVar   = "WASTELESS_SESSION_FILE"
	sessionSecretVar = "WASTELESS_SESSION_SECRET"
)

// loadDotEnv loads a .env file from the working directory when present.
// Real environment variables always win over .env values.
func loadDotEnv() {
	_ = godotenv.Load()
}

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Wasteless")
}

// GetBaseURL returns the base URL of the Wasteless API; relative request
// paths are resolved against it.
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

type ClientVars struct{}

var _ ClientConfig = ClientVars{}

func (ClientVars) GetHTTPTimeout() time.Duration {
	raw := GetEnv(httpTimeoutVar, "30s")
	timeout, err := time.ParseDuration(raw)
	if err != nil {
		return 30 * time.Second
	}
	return timeout
}

// GetSessionFile returns the path of the persisted session file, defaulting
// to ~/.wasteless/session.json.
func (ClientVars) GetSessionFile() string {
	if path := os.Getenv(sessionFileVar); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".wasteless", "session.json")
	}
	return filepath.Join(home, ".wasteless", "session.json")
}

// GetSessionSecret returns the secret used to seal the session file at rest.
// Empty means the file is stored as plain JSON.
func (ClientVars) GetSessionSecret() string {
	return GetEnv(sessionSecretVar, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
