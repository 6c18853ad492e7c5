package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// ErrNoCredentials means neither an OpenAI key nor a complete Azure key/endpoint pair is set.
var ErrNoCredentials = errors.New("set OPENAI_API_KEY or (AZURE_OPENAI_API_KEY + AZURE_OPENAI_ENDPOINT)")

// Credentials are the resolved secrets for the completion endpoint.
type Credentials struct {
	OpenAIKey     string
	OpenAIBaseURL string
	AzureKey      string
	AzureEndpoint string
	AzureVersion  string
}

// UseAzure reports whether calls go to Azure OpenAI instead of OpenAI.
func (c Credentials) UseAzure() bool {
	return c.OpenAIKey == "" && c.AzureKey != "" && c.AzureEndpoint != ""
}

// LoadCredentials loads workDir/.env (overriding the process environment),
// then resolves keys from the environment first and cfg second.
func LoadCredentials(cfg Config, workDir string) (Credentials, error) {
	envPath := filepath.Join(workDir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Overload(envPath); err != nil {
			return Credentials{}, fmt.Errorf("loading %s: %w", envPath, err)
		}
	}

	creds := Credentials{
		OpenAIKey:     firstNonEmpty(os.Getenv("OPENAI_API_KEY"), cfg.OpenAI.APIKey),
		OpenAIBaseURL: firstNonEmpty(os.Getenv("OPENAI_BASE_URL"), cfg.OpenAI.BaseURL),
		AzureKey:      firstNonEmpty(os.Getenv("AZURE_OPENAI_API_KEY"), cfg.Azure.APIKey),
		AzureEndpoint: firstNonEmpty(os.Getenv("AZURE_OPENAI_ENDPOINT"), cfg.Azure.Endpoint),
		AzureVersion:  firstNonEmpty(os.Getenv("OPENAI_API_VERSION"), cfg.Azure.APIVersion),
	}

	if creds.OpenAIKey == "" && (creds.AzureKey == "" || creds.AzureEndpoint == "") {
		return creds, ErrNoCredentials
	}
	return creds, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// MaskKey hides all but a short prefix/suffix of a secret for display.
func MaskKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
